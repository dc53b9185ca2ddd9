package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"fstodo/internal/config"
	"fstodo/internal/service"
	"fstodo/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	deadline string
}

// SetDeadline sets the deadline flag (for testing).
func (c *AddCmd) SetDeadline(deadline string) {
	c.deadline = deadline
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "fstodo add --deadline <YYYY-MM-DDTHH:MM> <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.deadline, "deadline", "", "")
	fs.StringVar(&c.deadline, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	list := tasklist.New(store)
	persist, err := list.Add(strings.Join(args, " "), c.deadline)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := persist(ctx); err != nil {
		return reportError(errOut, err)
	}
	return printOK(cfg, out)
}
