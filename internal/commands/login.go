package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todoai/internal/auth"
	"todoai/internal/config"
	"todoai/internal/exitcode"
	"todoai/internal/store"
	"todoai/internal/sync"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. Login verifies the password
// against the stored hash and saves the user ID locally; no token is
// issued, so nothing here ever expires.
type LoginCmd struct {
	password string
	st       store.Store
}

// SetStore overrides the backend (for testing).
func (c *LoginCmd) SetStore(st store.Store) {
	c.st = st
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string     { return "todoai login [--password <pw>] <username>" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: username required")
		return exitcode.UserError
	}
	username := args[0]

	password, code := resolvePassword(c.password, errOut)
	if code != exitcode.Success {
		return code
	}

	st := c.st
	if st == nil {
		var err error
		st, err = storeFromEnv()
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
	}

	user, err := auth.NewSession(st).Login(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			fmt.Fprintf(errOut, "error: user not found: %s\n", username)
			return exitcode.AuthError
		case errors.Is(err, auth.ErrInvalidCredentials):
			fmt.Fprintln(errOut, "error: invalid credentials")
			return exitcode.AuthError
		default:
			return reportError(errOut, err)
		}
	}

	if err := cfg.SaveSession(config.Session{UserID: user.ID, Username: user.Username}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", user.Username)
	}
	return exitcode.Success
}
