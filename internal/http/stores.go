package http

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/entities"
)

// AcronymStore defines acronym and category membership operations.
// Implemented by database/acronyms.Repository.
type AcronymStore interface {
	GetAll() ([]entities.Acronym, error)
	GetByID(id uint) (*entities.Acronym, error)
	Create(acronym *entities.Acronym) error
	Update(acronym *entities.Acronym) error
	Delete(id uint) error
	Search(term string) ([]entities.Acronym, error)
	First() (*entities.Acronym, error)
	Sorted() ([]entities.Acronym, error)
	GetUser(id uint) (*entities.User, error)
	GetCategories(id uint) ([]entities.Category, error)
	AttachCategory(acronymID, categoryID uint) error
	DetachCategory(acronymID, categoryID uint) error
	AttachCategoryByName(acronymID uint, name string) error
	DetachCategoryByName(acronymID uint, name string) error
}

// UserStore defines user read and delete operations.
// Implemented by database/users.Repository.
type UserStore interface {
	GetAll() ([]entities.User, error)
	GetByID(id uuid.UUID) (*entities.User, error)
	GetAcronyms(id uuid.UUID) ([]entities.Acronym, error)
	Delete(id uuid.UUID) error
}

// UserCreator registers new users. Implemented by auth.Service.
type UserCreator interface {
	CreateUser(in auth.NewUser) (*entities.User, error)
}

// CategoryStore defines category operations.
// Implemented by database/categories.Repository.
type CategoryStore interface {
	GetAll() ([]entities.Category, error)
	GetByID(id uint) (*entities.Category, error)
	GetOrCreate(name string) (*entities.Category, error)
	GetAcronyms(id uint) ([]entities.Acronym, error)
}

// CleanupQueue enqueues the orphan category cleanup and reports on it.
// Implemented by tasks.Client.
type CleanupQueue interface {
	EnqueueCategoryCleanup() (string, error)
	TaskStatus(ctx context.Context, taskID string) (string, error)
}
