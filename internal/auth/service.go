package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrAuthRequired     = errors.New("authentication required")
	ErrNameRequired     = errors.New("name is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters: letters, digits, dot, underscore or hyphen")
)

// Service handles credentials: account creation, password checks and API tokens.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// NewUser is the input for CreateUser.
type NewUser struct {
	Name       string
	Username   string
	Password   string
	TwitterURL *string
}

// CreateUser validates the input, hashes the password and stores the user.
func (s *Service) CreateUser(in NewUser) (*entities.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if in.Username == "" {
		return nil, ErrUsernameRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(in.Username) {
		return nil, ErrUsernameInvalid
	}

	var count int64
	if err := s.db.Model(&entities.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	twitterURL := in.TwitterURL
	if twitterURL != nil && *twitterURL == "" {
		twitterURL = nil
	}

	user := &entities.User{
		Name:       in.Name,
		Username:   in.Username,
		Password:   passwordHash,
		TwitterURL: twitterURL,
	}
	if err := s.db.Create(user).Error; err != nil {
		// A concurrent create can still trip the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates a username and password and returns the user.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	var user entities.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.Password); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GenerateToken issues a new API token for a user. The returned plaintext is the
// only copy; the database keeps its hash.
func (s *Service) GenerateToken(userID uuid.UUID) (*entities.Token, string, error) {
	if _, err := s.GetUserByID(userID); err != nil {
		return nil, "", err
	}

	plaintext, hash, err := GenerateAPIToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := &entities.Token{TokenHash: hash, UserID: userID}
	if err := s.db.Omit("User").Create(token).Error; err != nil {
		return nil, "", fmt.Errorf("failed to save token: %w", err)
	}
	return token, plaintext, nil
}

// ValidateToken resolves a plaintext token to its record and owner.
func (s *Service) ValidateToken(plaintext string) (*entities.Token, *entities.User, error) {
	if plaintext == "" {
		return nil, nil, ErrInvalidToken
	}

	var token entities.Token
	err := s.db.Preload("User").Where("token_hash = ?", HashToken(plaintext)).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	if token.IsExpired(s.config.TokenExpiry) {
		return nil, nil, ErrTokenExpired
	}
	return &token, &token.User, nil
}

// RevokeToken deletes a single token.
func (s *Service) RevokeToken(tokenID uuid.UUID) error {
	result := s.db.Where("id = ?", tokenID).Delete(&entities.Token{})
	if result.Error != nil {
		return fmt.Errorf("failed to revoke token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

// HasUsers returns true if any users exist in the database.
func (s *Service) HasUsers() (bool, error) {
	var count int64
	if err := s.db.Model(&entities.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsAuthEnabled returns true if writes require credentials.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}
