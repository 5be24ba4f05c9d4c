package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database"
	"github.com/mrlokans/til/internal/entrypoint"
)

// MigrateCommand applies pending migrations without starting the server.
type MigrateCommand struct {
	Config *config.Config
	Out    io.Writer
}

func NewMigrateCommand(cfg *config.Config) *MigrateCommand {
	return &MigrateCommand{Config: cfg}
}

// ParseFlags parses command line flags
func (cmd *MigrateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	addDatabaseFlags(fs, &cmd.Config.Database)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s migrate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Apply pending database migrations, including the admin user seed.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the migrations
func (cmd *MigrateCommand) Run() error {
	out := output(cmd.Out)

	db, err := database.NewDatabase(cmd.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	seed, err := entrypoint.AdminSeed(cmd.Config)
	if err != nil {
		return err
	}

	applied, err := db.Migrate(seed)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if len(applied) == 0 {
		fmt.Fprintln(out, "Database is up to date")
		return nil
	}
	for _, name := range applied {
		fmt.Fprintf(out, "Applied %s\n", name)
	}
	return nil
}
