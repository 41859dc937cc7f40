package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/service"
	"flowlist/internal/session"
	"flowlist/internal/tasks"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "flowlist add [--description <text>] [--priority low|medium|high] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.priority, "priority", service.PriorityMedium, "")
	fs.StringVar(&c.priority, "p", service.PriorityMedium, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if !validPriority(c.priority) {
		fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
		return exitcode.UserError
	}

	engine := tasks.NewEngine(svc)
	created, err := engine.Create(ctx, service.TaskDraft{
		Title:       title,
		Description: c.description,
		Priority:    c.priority,
	})
	if err != nil {
		return handleFailure(err, "Failed to create task", sess, errOut)
	}

	cliSink{out: out, errOut: errOut, quiet: cfg.Quiet}.Success(
		fmt.Sprintf("Task created: %s", created.ID))
	return exitcode.Success
}

func validPriority(p string) bool {
	switch p {
	case service.PriorityLow, service.PriorityMedium, service.PriorityHigh:
		return true
	}
	return false
}
