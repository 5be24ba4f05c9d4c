package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/database/categories"
	"github.com/mrlokans/til/internal/entrypoint"
)

// CleanupCategoriesCommand deletes orphan categories immediately, without
// going through the task queue.
type CleanupCategoriesCommand struct {
	Config *config.Config
	Out    io.Writer
}

func NewCleanupCategoriesCommand(cfg *config.Config) *CleanupCategoriesCommand {
	return &CleanupCategoriesCommand{Config: cfg}
}

// ParseFlags parses command line flags
func (cmd *CleanupCategoriesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-categories", flag.ContinueOnError)
	addDatabaseFlags(fs, &cmd.Config.Database)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-categories [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete every category no acronym is attached to.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run deletes the orphans
func (cmd *CleanupCategoriesCommand) Run() error {
	db, err := entrypoint.OpenDatabase(cmd.Config)
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := categories.NewRepository(db.DB).DeleteOrphanCategories()
	if err != nil {
		return fmt.Errorf("failed to delete orphan categories: %w", err)
	}

	fmt.Fprintf(output(cmd.Out), "Deleted %d orphan categories\n", deleted)
	return nil
}
