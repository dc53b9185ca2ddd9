package commands

import (
	"context"
	"flag"
	"io"

	"fstodo/internal/config"
	"fstodo/internal/exitcode"
	"fstodo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "fstodo rm <ref>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	list, task, code := loadTask(ctx, store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	persist, err := list.Delete(task.ID)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := persist(ctx); err != nil {
		return reportError(errOut, err)
	}
	return printOK(cfg, out)
}
