// Package users provides database operations for user management.
//
// Account creation and credentials live in internal/auth; this package covers
// the read side of the users API and cascading deletes.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByID(id)
package users

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/til/internal/entities"
)

var ErrNotFound = errors.New("user not found")

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every user ordered by username.
func (r *Repository) GetAll() ([]entities.User, error) {
	users := []entities.User{}
	err := r.db.Order("username ASC").Find(&users).Error
	return users, err
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetAcronyms returns the acronyms a user owns.
func (r *Repository) GetAcronyms(id uuid.UUID) ([]entities.Acronym, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}
	acronyms := []entities.Acronym{}
	err := r.db.Where("user_id = ?", id).Order("id ASC").Find(&acronyms).Error
	return acronyms, err
}

// Delete removes a user together with their acronyms, the acronyms' category
// memberships and any API tokens, in one transaction.
func (r *Repository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		owned := tx.Model(&entities.Acronym{}).Select("id").Where("user_id = ?", id)
		if err := tx.Exec("DELETE FROM "+entities.PivotTable+" WHERE acronym_id IN (?)", owned).Error; err != nil {
			return fmt.Errorf("failed to detach categories: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Acronym{}).Error; err != nil {
			return fmt.Errorf("failed to delete acronyms: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Token{}).Error; err != nil {
			return fmt.Errorf("failed to delete tokens: %w", err)
		}
		return tx.Delete(&user).Error
	})
}
