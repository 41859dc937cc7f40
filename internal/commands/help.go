package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/service"
	"flowlist/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "flowlist help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  flowlist                                           List tasks
  flowlist list [common flags] [--search <text>] [--status all|pending|completed] [--priority all|low|medium|high]
  flowlist add [common flags] [--description <text>] [--priority low|medium|high] <title...>
  flowlist edit [common flags] [--title <text>] [--description <text>] [--priority low|medium|high] <id>
  flowlist done [common flags] <id>
  flowlist rm [common flags] [--yes] <id>
  flowlist ui [common flags]
  flowlist login [common flags] [--email <email>] [--password <password>]
  flowlist register [common flags] [--name <name>] [--email <email>] [--password <password>]
  flowlist logout [common flags]
  flowlist whoami [common flags]
  flowlist help
  flowlist version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
