// Package acronyms provides database operations for acronyms and their
// category membership.
//
// This package implements the AcronymStore interface defined in internal/http/acronyms.go.
//
// # Usage
//
//	repo := acronyms.NewRepository(db)
//	found, err := repo.Search("OMG")
package acronyms

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/til/internal/database/categories"
	"github.com/mrlokans/til/internal/entities"
)

var (
	ErrNotFound         = errors.New("acronym not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Repository handles all acronym database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new acronyms repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every acronym ordered by ID.
func (r *Repository) GetAll() ([]entities.Acronym, error) {
	acronyms := []entities.Acronym{}
	err := r.db.Order("id ASC").Find(&acronyms).Error
	return acronyms, err
}

// GetByID retrieves an acronym by ID.
func (r *Repository) GetByID(id uint) (*entities.Acronym, error) {
	var acronym entities.Acronym
	if err := r.db.First(&acronym, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acronym, nil
}

// Create saves a new acronym. The owner must exist.
func (r *Repository) Create(acronym *entities.Acronym) error {
	if err := r.ensureUser(acronym.UserID); err != nil {
		return err
	}
	if err := r.db.Omit(clause.Associations).Create(acronym).Error; err != nil {
		return fmt.Errorf("failed to create acronym: %w", err)
	}
	return nil
}

// Update overwrites short, long and owner of an existing acronym. The lookup
// and the write share a transaction, so a missing row is ErrNotFound on every
// driver regardless of how it counts affected rows.
func (r *Repository) Update(acronym *entities.Acronym) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.Acronym
		if err := tx.Select("id").First(&existing, acronym.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := userExists(tx, acronym.UserID); err != nil {
			return err
		}
		err := tx.Model(&existing).Select("short", "long", "user_id").Updates(map[string]any{
			"short":   acronym.Short,
			"long":    acronym.Long,
			"user_id": acronym.UserID,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update acronym: %w", err)
		}
		return nil
	})
}

// Delete removes an acronym and its category memberships in one transaction.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var acronym entities.Acronym
		if err := tx.First(&acronym, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&acronym).Association("Categories").Clear(); err != nil {
			return fmt.Errorf("failed to detach categories: %w", err)
		}
		return tx.Delete(&acronym).Error
	})
}

// Search returns acronyms whose short or long form equals term exactly.
func (r *Repository) Search(term string) ([]entities.Acronym, error) {
	acronyms := []entities.Acronym{}
	err := r.db.Where("short = ? OR long = ?", term, term).Order("id ASC").Find(&acronyms).Error
	return acronyms, err
}

// First returns the acronym with the lowest ID, or ErrNotFound when there are none.
func (r *Repository) First() (*entities.Acronym, error) {
	var acronym entities.Acronym
	if err := r.db.Order("id ASC").First(&acronym).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acronym, nil
}

// Sorted returns every acronym ordered by short form.
func (r *Repository) Sorted() ([]entities.Acronym, error) {
	acronyms := []entities.Acronym{}
	err := r.db.Order("short ASC").Order("id ASC").Find(&acronyms).Error
	return acronyms, err
}

// GetUser returns the owner of an acronym.
func (r *Repository) GetUser(id uint) (*entities.User, error) {
	var acronym entities.Acronym
	if err := r.db.Preload("User").First(&acronym, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acronym.User, nil
}

// GetCategories returns the categories attached to an acronym.
func (r *Repository) GetCategories(id uint) ([]entities.Category, error) {
	acronym, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	categories := []entities.Category{}
	if err := r.db.Model(acronym).Order("categories.id ASC").Association("Categories").Find(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// AttachCategory links an existing category to an acronym. Attaching twice is a no-op.
func (r *Repository) AttachCategory(acronymID, categoryID uint) error {
	acronym, category, err := r.loadPair(acronymID, categoryID)
	if err != nil {
		return err
	}
	return r.db.Model(acronym).Association("Categories").Append(category)
}

// DetachCategory unlinks a category from an acronym. Detaching an unlinked category is a no-op.
func (r *Repository) DetachCategory(acronymID, categoryID uint) error {
	acronym, category, err := r.loadPair(acronymID, categoryID)
	if err != nil {
		return err
	}
	return r.db.Model(acronym).Association("Categories").Delete(category)
}

// AttachCategoryByName links the named category to an acronym, creating the category if needed.
func (r *Repository) AttachCategoryByName(acronymID uint, name string) error {
	category, err := categories.NewRepository(r.db).GetOrCreate(name)
	if err != nil {
		return err
	}
	return r.db.Model(&entities.Acronym{ID: acronymID}).Association("Categories").Append(category)
}

// DetachCategoryByName unlinks the named category from an acronym. Unknown names are ignored.
func (r *Repository) DetachCategoryByName(acronymID uint, name string) error {
	category, err := categories.NewRepository(r.db).GetByName(name)
	if errors.Is(err, categories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.db.Model(&entities.Acronym{ID: acronymID}).Association("Categories").Delete(category)
}

func (r *Repository) loadPair(acronymID, categoryID uint) (*entities.Acronym, *entities.Category, error) {
	acronym, err := r.GetByID(acronymID)
	if err != nil {
		return nil, nil, err
	}
	var category entities.Category
	if err := r.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, err
	}
	return acronym, &category, nil
}

func (r *Repository) ensureUser(id uuid.UUID) error {
	return userExists(r.db, id)
}

func userExists(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&entities.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}
