package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todoai/internal/auth"
	"todoai/internal/backend/postgrest"
	"todoai/internal/config"
	"todoai/internal/exitcode"
	"todoai/internal/store"
	"todoai/internal/sync"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command: create a user row in
// the remote store and sign in as it.
type RegisterCmd struct {
	password string
	st       store.Store
}

// SetStore overrides the backend (for testing).
func (c *RegisterCmd) SetStore(st store.Store) {
	c.st = st
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string     { return "todoai register [--password <pw>] <username> <email>" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: username and email required")
		return exitcode.UserError
	}
	username, email := args[0], args[1]

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

	user, err := auth.NewSession(st).Register(ctx, username, email, password)
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(errOut, "error: %v\n", verr)
			return exitcode.UserError
		}
		var serr *store.StoreError
		if errors.As(err, &serr) {
			// Duplicate usernames surface here; the store's own
			// diagnostic is the most useful thing to show.
			fmt.Fprintf(errOut, "error: registration failed: %s\n", serr.Body)
			return exitcode.UserError
		}
		return reportError(errOut, err)
	}

	if err := cfg.SaveSession(config.Session{UserID: user.ID, Username: user.Username}); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s\n", user.Username)
	}
	return exitcode.Success
}

// resolvePassword returns the flag value or prompts on stdin.
func resolvePassword(flagValue string, errOut io.Writer) (string, int) {
	if flagValue != "" {
		return flagValue, exitcode.Success
	}

	fmt.Fprint(errOut, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		fmt.Fprintln(errOut, "error: failed to read password")
		return "", exitcode.UserError
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return "", exitcode.UserError
	}
	return password, exitcode.Success
}

// storeFromEnv builds the real backend from environment credentials.
func storeFromEnv() (store.Store, error) {
	creds, err := config.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}
	return postgrest.New(creds.BaseURL, creds.APIKey), nil
}
