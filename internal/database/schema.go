package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/til/internal/entities"
)

// The structs below pin each migration to the schema as it stood when the
// migration was written. Later columns and relationships live only in the
// migration that introduces them, so a fresh database walks the same steps
// as one created by an older release.

type userV1 struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null"`
	Username  string    `gorm:"uniqueIndex;size:100;not null"`
	Password  string    `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userV1) TableName() string { return "users" }

type userV2 struct {
	userV1
	TwitterURL *string `gorm:"size:2048"`
}

func (userV2) TableName() string { return "users" }

type categoryV1 struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:100;not null"`
}

func (categoryV1) TableName() string { return "categories" }

type acronymV1 struct {
	ID        uint      `gorm:"primaryKey"`
	Short     string    `gorm:"size:255;not null;index"`
	Long      string    `gorm:"size:1024;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	User      userV1    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (acronymV1) TableName() string { return "acronyms" }

// acronymCategoryV1 is the pivot gorm's many2many on entities.Acronym reads
// and writes; the composite key keeps each pair unique.
type acronymCategoryV1 struct {
	AcronymID  uint       `gorm:"primaryKey"`
	CategoryID uint       `gorm:"primaryKey"`
	Acronym    acronymV1  `gorm:"foreignKey:AcronymID;constraint:OnDelete:CASCADE"`
	Category   categoryV1 `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (acronymCategoryV1) TableName() string { return entities.PivotTable }

type tokenV1 struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	User      userV1    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (tokenV1) TableName() string { return "tokens" }
