package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Username string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialized

	// TwitterURL was added after the first API release; only UserPublicV2 exposes it.
	TwitterURL *string `gorm:"size:2048" json:"-"`

	Acronyms  []Acronym `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a random UUID so the same code works on sqlite and postgres.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserPublic is the first public shape of a user, served by the v1 API.
type UserPublic struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

// UserPublicV2 adds the profile link. The key is always present, null when unset.
type UserPublicV2 struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	TwitterURL *string   `json:"twitterURL"`
}

func (u *User) ToPublic() UserPublic {
	return UserPublic{ID: u.ID, Name: u.Name, Username: u.Username}
}

func (u *User) ToPublicV2() UserPublicV2 {
	return UserPublicV2{ID: u.ID, Name: u.Name, Username: u.Username, TwitterURL: u.TwitterURL}
}

// PublicUsers converts a slice of users for list responses.
func PublicUsers(users []User) []UserPublic {
	public := make([]UserPublic, 0, len(users))
	for i := range users {
		public = append(public, users[i].ToPublic())
	}
	return public
}
