package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/til/internal/entities"
)

// AdminSeed describes the account created by the AdminUser migration.
// PasswordHash must already be a bcrypt hash.
type AdminSeed struct {
	Name         string
	Username     string
	PasswordHash string
}

// Migration is a named schema or data change. Names are recorded in the
// migrations table, so each one runs at most once per database.
type Migration struct {
	Name string
	Up   func(tx *gorm.DB) error
}

// Migrations returns the application's migrations in the order they must run.
func Migrations(seed AdminSeed) []Migration {
	return []Migration{
		{Name: "CreateUser", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&userV1{})
		}},
		{Name: "CreateCategory", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&categoryV1{})
		}},
		{Name: "CreateAcronym", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&acronymV1{})
		}},
		{Name: "CreateAcronymCategory", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&acronymCategoryV1{})
		}},
		{Name: "CreateToken", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&tokenV1{})
		}},
		{Name: "AdminUser", Up: func(tx *gorm.DB) error {
			return seedAdmin(tx, seed)
		}},
		{Name: "AddTwitterURLToUser", Up: func(tx *gorm.DB) error {
			if tx.Migrator().HasColumn(&userV2{}, "TwitterURL") {
				return nil
			}
			return tx.Migrator().AddColumn(&userV2{}, "TwitterURL")
		}},
	}
}

// Migrate runs the application's migrations.
func (d *Database) Migrate(seed AdminSeed) ([]string, error) {
	return RunMigrations(d.DB, Migrations(seed))
}

// RunMigrations applies every migration not yet recorded, each in its own
// transaction, and returns the names it applied.
func RunMigrations(db *gorm.DB, migrations []Migration) ([]string, error) {
	if err := db.AutoMigrate(&entities.Migration{}); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var done []entities.Migration
	if err := db.Find(&done).Error; err != nil {
		return nil, fmt.Errorf("failed to load applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(done))
	batch := 0
	for _, m := range done {
		applied[m.Name] = true
		if m.Batch > batch {
			batch = m.Batch
		}
	}
	batch++

	var ran []string
	for _, m := range migrations {
		if applied[m.Name] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&entities.Migration{Name: m.Name, Batch: batch}).Error
		})
		if err != nil {
			return ran, fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		log.Printf("Applied migration %s", m.Name)
		ran = append(ran, m.Name)
	}

	return ran, nil
}

func seedAdmin(tx *gorm.DB, seed AdminSeed) error {
	if seed.Username == "" || seed.PasswordHash == "" {
		return errors.New("admin seed requires a username and password hash")
	}

	var count int64
	if err := tx.Model(&userV1{}).Where("username = ?", seed.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	name := seed.Name
	if name == "" {
		name = "Admin"
	}
	admin := &userV1{ID: uuid.New(), Name: name, Username: seed.Username, Password: seed.PasswordHash}
	if err := tx.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("Created admin user %q", seed.Username)
	return nil
}
