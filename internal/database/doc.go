// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup for sqlite and postgres
//	├── migrations.go    # Named, run-once migrations and the admin seed
//	├── acronyms/        # Acronym CRUD, search and category membership
//	├── categories/      # Category lookup, get-or-create, orphan cleanup
//	└── users/           # User lookup, creation, cascading delete, tokens
//
// # Usage
//
//	db, err := database.NewDatabase(cfg.Database)
//	if _, err := db.Migrate(seed); err != nil { ... }
//
//	acronymsRepo := acronyms.NewRepository(db.DB)
//	acronym, err := acronymsRepo.GetByID(42)
//
// # Migrations
//
// Migrations are applied in order and recorded by name in the migrations table.
// A migration that was already recorded is skipped, so Migrate is safe to call
// at every startup.
package database
