package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	maxPasswordBytes  = 72 // bcrypt ignores anything past this

	tokenBytes  = 16
	secretBytes = 32
)

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password exceeds maximum length of %d bytes", maxPasswordBytes)
)

// HashPassword validates the length and returns the bcrypt hash stored on User.
func HashPassword(password string, cost int) (string, error) {
	switch {
	case len(password) < MinPasswordLength:
		return "", ErrPasswordTooShort
	case len(password) > maxPasswordBytes:
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword returns ErrInvalidPassword on mismatch and the bcrypt error
// when hash is malformed.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	return err
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateAPIToken returns a new bearer token and the hash persisted for it.
// Only the hash is stored; the plaintext is handed to the client once.
func GenerateAPIToken() (plaintext string, hash string, err error) {
	b, err := randomBytes(tokenBytes)
	if err != nil {
		return "", "", err
	}
	plaintext = base64.RawURLEncoding.EncodeToString(b)
	return plaintext, HashToken(plaintext), nil
}

// HashToken is the lookup key for a bearer token in the tokens table.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateSessionSecret returns a hex encoded key suitable for CSRF protection.
func GenerateSessionSecret() (string, error) {
	b, err := randomBytes(secretBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
