package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/til/internal/auth"
	"github.com/mrlokans/til/internal/config"
	"github.com/mrlokans/til/internal/entrypoint"
)

// CreateUserCommand registers a user from the command line.
type CreateUserCommand struct {
	Config *config.Config
	Out    io.Writer

	Name       string
	Username   string
	Password   string
	TwitterURL string
}

func NewCreateUserCommand(cfg *config.Config) *CreateUserCommand {
	return &CreateUserCommand{Config: cfg}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	addDatabaseFlags(fs, &cmd.Config.Database)

	fs.StringVar(&cmd.Name, "name", "", "Display name (required)")
	fs.StringVar(&cmd.Username, "username", "", "Login name (required)")
	fs.StringVar(&cmd.Password, "password", os.Getenv("TIL_USER_PASSWORD"), "Password, at least 8 characters (or set TIL_USER_PASSWORD)")
	fs.StringVar(&cmd.TwitterURL, "twitter", "", "Twitter handle (optional)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -name NAME -username USERNAME [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user who can log in and own acronyms.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Name == "" || cmd.Username == "" || cmd.Password == "" {
		return errors.New("-name, -username and -password are required")
	}
	return nil
}

// Run creates the user
func (cmd *CreateUserCommand) Run() error {
	db, err := entrypoint.OpenDatabase(cmd.Config)
	if err != nil {
		return err
	}
	defer db.Close()

	var twitterURL *string
	if cmd.TwitterURL != "" {
		twitterURL = &cmd.TwitterURL
	}

	user, err := auth.NewService(db.DB, cmd.Config.Auth).CreateUser(auth.NewUser{
		Name:       cmd.Name,
		Username:   cmd.Username,
		Password:   cmd.Password,
		TwitterURL: twitterURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create user %q: %w", cmd.Username, err)
	}

	fmt.Fprintf(output(cmd.Out), "Created user %s (%s)\n", user.Username, user.ID)
	return nil
}
