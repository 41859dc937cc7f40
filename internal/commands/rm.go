package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/service"
	"flowlist/internal/session"
	"flowlist/internal/tasks"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd deletes a task. Deletion is irreversible, so it asks first unless
// --yes is given; the engine itself never prompts.
type RmCmd struct {
	yes bool

	// Input is where the confirmation prompt reads from. Defaults to stdin.
	Input io.Reader
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "flowlist rm [--yes] <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	id := args[0]

	if !c.yes {
		in := c.Input
		if in == nil {
			in = os.Stdin
		}
		answer, err := readLine(bufio.NewReader(in), errOut, "Are you sure you want to delete this task? [y/N] ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
		default:
			if !cfg.Quiet {
				fmt.Fprintln(out, "aborted")
			}
			return exitcode.Success
		}
	}

	engine := tasks.NewEngine(svc)
	if err := engine.Delete(ctx, id); err != nil {
		return handleFailure(err, "Failed to delete task", sess, errOut)
	}

	cliSink{out: out, errOut: errOut, quiet: cfg.Quiet}.Success("Task deleted")
	return exitcode.Success
}
