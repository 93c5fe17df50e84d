package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"todoai/internal/config"
	"todoai/internal/exitcode"
	"todoai/internal/sync"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command: shift a task from one 1-based
// display position to another. The position writes are sequential and
// not transactional; a partial failure is reported as a warning, not
// an error, and the printed list shows what actually landed.
type MoveCmd struct{}

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Reorder a task" }
func (c *MoveCmd) Usage() string     { return "todoai move <from> <to>" }
func (c *MoveCmd) NeedsAuth() bool   { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: from and to positions required")
		return exitcode.UserError
	}

	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || from < 1 || to < 1 {
		fmt.Fprintf(errOut, "error: invalid position: %s %s\n", args[0], args[1])
		return exitcode.UserError
	}

	if err := svc.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	if err := svc.Move(ctx, from-1, to-1); err != nil {
		var perr *sync.PartialReorderError
		if errors.As(err, &perr) {
			// Non-fatal: the store holds a partially-updated order.
			fmt.Fprintf(errOut, "warning: %v\n", perr)
			return exitcode.Success
		}
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
