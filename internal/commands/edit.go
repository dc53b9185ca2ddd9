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
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Fields without a flag keep their
// current values.
type EditCmd struct {
	text     string
	deadline string
}

// SetFields sets the flag values (for testing).
func (c *EditCmd) SetFields(text, deadline string) {
	c.text = text
	c.deadline = deadline
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text or deadline" }
func (c *EditCmd) Usage() string {
	return "fstodo edit [--text <text>] [--deadline <YYYY-MM-DDTHH:MM>] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.text, "text", "", "")
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if c.text == "" && c.deadline == "" {
		fmt.Fprintln(errOut, "error: nothing to change (use --text or --deadline)")
		return exitcode.UserError
	}

	list, task, code := loadTask(ctx, store, args, errOut)
	if code != exitcode.Success {
		return code
	}

	text, deadline := c.text, c.deadline
	if text == "" {
		text = task.Text
	}
	if deadline == "" {
		deadline = service.FormatDeadline(task.Deadline)
	}

	persist, err := list.Edit(task.ID, text, deadline)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := persist(ctx); err != nil {
		return reportError(errOut, err)
	}
	return printOK(cfg, out)
}
