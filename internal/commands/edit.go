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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	fs          *flag.FlagSet
	title       string
	description string
	priority    string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "flowlist edit [--title <text>] [--description <text>] [--priority low|medium|high] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.fs = fs
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
}

// patch builds the update payload from the flags the user actually set,
// so an empty --description clears the field but an unset one is omitted.
func (c *EditCmd) patch() service.TaskPatch {
	var p service.TaskPatch
	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			v := c.title
			p.Title = &v
		case "description":
			v := c.description
			p.Description = &v
		case "priority":
			v := c.priority
			p.Priority = &v
		}
	})
	return p
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	id := args[0]

	patch := c.patch()
	if patch.Title == nil && patch.Description == nil && patch.Priority == nil {
		fmt.Fprintln(errOut, "error: nothing to change (set --title, --description, or --priority)")
		return exitcode.UserError
	}
	if patch.Title != nil && *patch.Title == "" {
		fmt.Fprintln(errOut, "error: title cannot be empty")
		return exitcode.UserError
	}
	if patch.Priority != nil && !validPriority(*patch.Priority) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", *patch.Priority)
		return exitcode.UserError
	}

	engine := tasks.NewEngine(svc)
	if _, err := engine.Update(ctx, id, patch); err != nil {
		return handleFailure(err, "Failed to update task", sess, errOut)
	}

	cliSink{out: out, errOut: errOut, quiet: cfg.Quiet}.Success("Task updated")
	return exitcode.Success
}
