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
	"flowlist/internal/tasks"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd toggles a task's completion state.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "flowlist done <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}

	engine := tasks.NewEngine(svc)
	updated, err := engine.ToggleComplete(ctx, args[0])
	if err != nil {
		return handleFailure(err, "Failed to toggle task completion", sess, errOut)
	}

	sink := cliSink{out: out, errOut: errOut, quiet: cfg.Quiet}
	if updated.Completed {
		sink.Success("Task completed")
	} else {
		sink.Success("Task reopened")
	}
	return exitcode.Success
}
