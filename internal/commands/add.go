package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todoai/internal/ai"
	"todoai/internal/config"
	"todoai/internal/core"
	"todoai/internal/exitcode"
	"todoai/internal/sync"
)

func init() {
	Register(&AddCmd{})
}

// Parser turns free text into a task draft. Satisfied by *ai.Assistant.
type Parser interface {
	Parse(ctx context.Context, input string) core.Draft
}

// AddCmd implements the add command.
type AddCmd struct {
	raw    bool
	parser Parser
}

// SetParser overrides the ingestion engine (for testing).
func (c *AddCmd) SetParser(p Parser) {
	c.parser = p
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Create a task from free text" }
func (c *AddCmd) Usage() string     { return "todoai add [--raw] <text...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.raw, "raw", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	settings := cfg.LoadSettings()

	var draft core.Draft
	if c.raw || !settings.AI.AutoParse {
		draft = core.Draft{Title: text, Priority: core.Medium}
	} else {
		parser := c.parser
		if parser == nil {
			// Keyless assistants parse offline; Parse never fails either way.
			parser = ai.New(os.Getenv("GROQ_API_KEY"))
		}
		draft = parser.Parse(ctx, text)
	}

	if err := svc.Add(ctx, draft); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "added: %s\n", draft.Title)
	}
	return exitcode.Success
}
