package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"todoai/internal/config"
	"todoai/internal/exitcode"
	"todoai/internal/sync"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command: toggle the done flag of the
// task at a 1-based display index. Toggling a completed task reopens
// it; two toggles return the task to its original state.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's done flag" }
func (c *DoneCmd) Usage() string     { return "todoai done <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	idx, code := parseIndexArg(args, errOut)
	if code != exitcode.Success {
		return code
	}

	// The display index refers to the current server order.
	if err := svc.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	if err := svc.Toggle(ctx, idx); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// parseIndexArg parses a single 1-based index argument into a 0-based
// index.
func parseIndexArg(args []string, errOut io.Writer) (int, int) {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number required")
		return 0, exitcode.UserError
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return 0, exitcode.UserError
	}
	return n - 1, exitcode.Success
}
