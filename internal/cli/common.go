package cli

import (
	"flag"
	"io"
	"os"

	"github.com/mrlokans/til/internal/config"
)

// addDatabaseFlags lets a command override the configured database.
func addDatabaseFlags(fs *flag.FlagSet, cfg *config.Database) {
	fs.StringVar(&cfg.Driver, "driver", cfg.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&cfg.Path, "db", cfg.Path, "Path to the sqlite database file")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "Postgres connection string")
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
