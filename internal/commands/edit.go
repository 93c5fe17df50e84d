package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoai/internal/config"
	"todoai/internal/core"
	"todoai/internal/exitcode"
	"todoai/internal/sync"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command: rewrite fields of the task at a
// 1-based display index. The whole record is written back; untouched
// fields keep their current values.
type EditCmd struct {
	title    string
	priority string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string     { return "todoai edit [--title <t>] [--priority low|medium|high] <n>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	idx, code := parseIndexArg(args, errOut)
	if code != exitcode.Success {
		return code
	}

	if c.title == "" && c.priority == "" {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --priority)")
		return exitcode.UserError
	}

	if err := svc.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	task, ok := svc.Cache().Get(idx)
	if !ok {
		fmt.Fprintf(errOut, "error: no task at %d\n", idx+1)
		return exitcode.UserError
	}

	if c.title != "" {
		task.Title = c.title
	}
	if c.priority != "" {
		p, ok := parsePriority(c.priority)
		if !ok {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return exitcode.UserError
		}
		task.Priority = p
	}

	if err := svc.Update(ctx, task); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func parsePriority(s string) (core.Priority, bool) {
	switch s {
	case "low":
		return core.Low, true
	case "medium":
		return core.Medium, true
	case "high":
		return core.High, true
	default:
		return core.Medium, false
	}
}
