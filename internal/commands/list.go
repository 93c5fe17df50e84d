package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoai/internal/config"
	"todoai/internal/exitcode"
	"todoai/internal/output"
	"todoai/internal/sync"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command: refresh from the store and
// print the cache in position order.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "todoai list" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintln(errOut, "error: list takes no arguments")
		return exitcode.UserError
	}

	if err := svc.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	output.FormatTaskList(out, svc.Cache().Tasks())
	return exitcode.Success
}
