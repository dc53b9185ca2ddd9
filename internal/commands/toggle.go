package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"fstodo/internal/config"
	"fstodo/internal/exitcode"
	"fstodo/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "fstodo toggle <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	list, task, code := loadTask(ctx, store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	persist, err := list.Toggle(task.ID)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := persist(ctx); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		state := "open"
		if !task.Completed {
			state = "completed"
		}
		fmt.Fprintf(out, "ok (%s)\n", state)
	}
	return exitcode.Success
}
