package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"fstodo/internal/config"
	"fstodo/internal/exitcode"
	"fstodo/internal/output"
	"fstodo/internal/service"
	"fstodo/internal/tasklist"
)

func init() {
	Register(&ListCmd{now: time.Now})
}

// ListCmd implements the list command.
type ListCmd struct {
	now func() time.Time
}

// SetNow fixes the clock used for countdowns (for testing).
func (c *ListCmd) SetNow(now time.Time) {
	c.now = func() time.Time { return now }
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks with time remaining" }
func (c *ListCmd) Usage() string     { return "fstodo list" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	list := tasklist.New(store)
	if err := list.Load(ctx); err != nil {
		return reportError(errOut, err)
	}

	tasks := list.Tasks()
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	output.FormatTasks(out, tasks, now())
	return exitcode.Success
}
