package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Token is an API session credential. Only the SHA-256 of the plaintext is stored;
// the plaintext is handed to the client once, at login.
type Token struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userID"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (Token) TableName() string {
	return "tokens"
}

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsExpired reports whether the token is older than maxAge. A zero maxAge never expires.
func (t *Token) IsExpired(maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return time.Since(t.CreatedAt) > maxAge
}

// Migration records a migration that has already been applied.
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:255;not null"`
	Batch     int       `gorm:"not null"`
	CreatedAt time.Time
}

func (Migration) TableName() string {
	return "migrations"
}
