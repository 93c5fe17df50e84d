package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"

	"todoai/internal/config"
	"todoai/internal/exitcode"
	"todoai/internal/sync"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd implements the config command: show settings, or rebind a
// key with `config <action> <key>`.
type ConfigCmd struct{}

func (c *ConfigCmd) Name() string      { return "config" }
func (c *ConfigCmd) Aliases() []string { return nil }
func (c *ConfigCmd) Synopsis() string  { return "Show or change settings" }
func (c *ConfigCmd) Usage() string     { return "todoai config [<action> <key>]" }
func (c *ConfigCmd) NeedsAuth() bool   { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc *sync.Coordinator, args []string, out, errOut io.Writer) int {
	settings := cfg.LoadSettings()

	switch len(args) {
	case 0:
		fmt.Fprintf(out, "config dir: %s\n", cfg.Dir)
		fmt.Fprintf(out, "auto parse: %v\n", settings.AI.AutoParse)

		actions := make([]string, 0, len(settings.Keybindings))
		for action := range settings.Keybindings {
			actions = append(actions, action)
		}
		sort.Strings(actions)
		for _, action := range actions {
			fmt.Fprintf(out, "  %-16s %s\n", action, settings.Keybindings[action])
		}
		return exitcode.Success

	case 2:
		action, key := args[0], args[1]
		if _, ok := settings.Keybindings[action]; !ok {
			fmt.Fprintf(errOut, "error: unknown action: %s\n", action)
			return exitcode.UserError
		}
		settings.Keybindings[action] = key
		if err := cfg.SaveSettings(settings); err != nil {
			fmt.Fprintf(errOut, "error: failed to save settings: %v\n", err)
			return exitcode.UserError
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "keybinding updated: %s -> %s\n", action, key)
		}
		return exitcode.Success

	default:
		fmt.Fprintln(errOut, "error: usage: config [<action> <key>]")
		return exitcode.UserError
	}
}
