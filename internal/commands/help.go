package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoai/internal/config"
	"todoai/internal/exitcode"
	"todoai/internal/sync"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todoai help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todoai                                      List tasks
  todoai list                                 List tasks in display order
  todoai add [common flags] [--raw] <text...> Create a task (free text, AI-assisted)
  todoai done [common flags] <n>              Toggle task n done/open
  todoai edit [--title <t>] [--priority <p>] <n>  Edit task n
  todoai rm [common flags] <n>                Delete task n
  todoai move [common flags] <from> <to>      Move task to a new position
  todoai sync [common flags]                  Refetch the task list
  todoai register [--password <pw>] <username> <email>
  todoai login [--password <pw>] <username>
  todoai logout
  todoai config [<action> <key>]
  todoai help
  todoai version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TODOAI_URL       Remote store base URL (required)
  TODOAI_KEY       Remote store service key (required)
  GROQ_API_KEY     Completion service key (optional; offline parsing without it)
`
