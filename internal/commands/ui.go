package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"fstodo/internal/config"
	"fstodo/internal/exitcode"
	"fstodo/internal/logging"
	"fstodo/internal/service"
	"fstodo/internal/tasklist"
	"fstodo/internal/ui"
)

func init() {
	Register(&UICmd{})
}

// UICmd opens the interactive board. It is also what runs with no arguments.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return nil }
func (c *UICmd) Synopsis() string  { return "Open the interactive board" }
func (c *UICmd) Usage() string     { return "fstodo [ui]" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	if !ui.IsTTY(out) {
		fmt.Fprintf(errOut, "error: %v\n", ui.ErrNoTTY)
		return exitcode.UserError
	}

	// The board owns the terminal, so logs go to a file while it runs.
	closer, err := logging.SetupFile(cfg)
	if err != nil {
		log.WithError(err).Warn("logging to stderr")
	} else {
		defer closer.Close()
	}

	err = ui.RunTUI(ctx, cfg, tasklist.New(store), out)
	if errors.Is(err, ui.ErrNoTTY) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
