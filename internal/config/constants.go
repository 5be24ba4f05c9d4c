package config

// Default paths and drivers for the application database
const (
	// DefaultDatabasePath is the default path for the sqlite database
	DefaultDatabasePath = "./til.db"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)
