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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "fstodo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store service.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  fstodo                                       Open the interactive board
  fstodo ui [common flags]
  fstodo list [common flags]                   List tasks (alias: ls)
  fstodo add [common flags] --deadline <t> <text...>
  fstodo edit [common flags] [--text <text>] [--deadline <t>] <ref>
  fstodo toggle [common flags] <ref>           Flip completion (alias: done)
  fstodo rm [common flags] <ref>               Delete a task (alias: delete)
  fstodo login [common flags]
  fstodo logout [common flags]
  fstodo help
  fstodo version

<ref> is a task number from 'fstodo list' or a task id.
<t> is a local time in the form YYYY-MM-DDTHH:MM.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
