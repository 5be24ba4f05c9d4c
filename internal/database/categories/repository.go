// Package categories provides database operations for categories.
//
// This package implements the CategoryStore interface defined in internal/http/categories.go.
//
// # Usage
//
//	repo := categories.NewRepository(db)
//	category, err := repo.GetOrCreate("Teenager")
package categories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/til/internal/entities"
)

var ErrNotFound = errors.New("category not found")

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every category ordered by ID.
func (r *Repository) GetAll() ([]entities.Category, error) {
	categories := []entities.Category{}
	err := r.db.Order("id ASC").Find(&categories).Error
	return categories, err
}

// GetByID retrieves a category by ID.
func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetByName retrieves a category by its exact name.
func (r *Repository) GetByName(name string) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetOrCreate returns the category with the given name, creating it when missing.
// Names are matched exactly.
func (r *Repository) GetOrCreate(name string) (*entities.Category, error) {
	category, err := r.GetByName(name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	category = &entities.Category{Name: name}
	if err := r.db.Create(category).Error; err != nil {
		// Lost a race with a concurrent create of the same name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetByName(name)
		}
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return category, nil
}

// GetAcronyms returns the acronyms attached to a category.
func (r *Repository) GetAcronyms(id uint) ([]entities.Acronym, error) {
	category, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	acronyms := []entities.Acronym{}
	if err := r.db.Model(category).Order("acronyms.id ASC").Association("Acronyms").Find(&acronyms); err != nil {
		return nil, err
	}
	return acronyms, nil
}

// DeleteOrphanCategories removes every category no acronym is attached to.
func (r *Repository) DeleteOrphanCategories() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM categories
		WHERE id NOT IN (SELECT category_id FROM ` + entities.PivotTable + `)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Diff compares two sets of category names. toAdd holds names in desired but
// not in existing; toRemove holds names in existing but not in desired.
// Blank and duplicate names are ignored; input order is preserved.
func Diff(existing, desired []string) (toAdd, toRemove []string) {
	existingSet := toSet(existing)
	desiredSet := toSet(desired)

	seen := make(map[string]bool)
	for _, name := range desired {
		if name == "" || seen[name] || existingSet[name] {
			continue
		}
		seen[name] = true
		toAdd = append(toAdd, name)
	}

	seen = make(map[string]bool)
	for _, name := range existing {
		if name == "" || seen[name] || desiredSet[name] {
			continue
		}
		seen[name] = true
		toRemove = append(toRemove, name)
	}
	return toAdd, toRemove
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
