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
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command: a plain full refetch.
type SyncCmd struct{}

func (c *SyncCmd) Name() string      { return "sync" }
func (c *SyncCmd) Aliases() []string { return nil }
func (c *SyncCmd) Synopsis() string  { return "Refetch the task list" }
func (c *SyncCmd) Usage() string     { return "todoai sync" }
func (c *SyncCmd) NeedsAuth() bool   { return true }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SyncCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	if err := svc.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "synced %d tasks\n", svc.Cache().Len())
	}
	return exitcode.Success
}
