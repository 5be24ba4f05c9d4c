package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/til/internal/cli"
	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every subcommand in internal/cli.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "migrate":
		cmd = cli.NewMigrateCommand(config.NewConfig())
	case "create-user":
		cmd = cli.NewCreateUserCommand(config.NewConfig())
	case "cleanup-categories":
		cmd = cli.NewCleanupCategoriesCommand(config.NewConfig())
	case "version":
		fmt.Printf("til %s (%s)\n", Version, Commit)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [command] [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve               Run the HTTP server (default)\n")
	fmt.Fprintf(os.Stderr, "  migrate             Apply pending database migrations\n")
	fmt.Fprintf(os.Stderr, "  create-user         Create a user\n")
	fmt.Fprintf(os.Stderr, "  cleanup-categories  Delete categories no acronym uses\n")
	fmt.Fprintf(os.Stderr, "  version             Print version information\n")
	fmt.Fprintf(os.Stderr, "\nRun '%s <command> -h' for command options.\n", os.Args[0])
}
