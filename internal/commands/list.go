package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"flowlist/internal/config"
	"flowlist/internal/exitcode"
	"flowlist/internal/output"
	"flowlist/internal/service"
	"flowlist/internal/session"
	"flowlist/internal/tasks"
	"flowlist/internal/viewfilter"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `flowlist` (no args) and `flowlist list`.
type ListCmd struct {
	search   string
	status   string
	priority string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "flowlist list [--search <text>] [--status all|pending|completed] [--priority all|low|medium|high]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.status, "status", viewfilter.StatusAll, "")
	fs.StringVar(&c.priority, "priority", viewfilter.PriorityAll, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	switch c.status {
	case viewfilter.StatusAll, viewfilter.StatusPending, viewfilter.StatusCompleted:
	default:
		fmt.Fprintf(errOut, "error: invalid status filter: %s\n", c.status)
		return exitcode.UserError
	}
	switch c.priority {
	case viewfilter.PriorityAll, service.PriorityLow, service.PriorityMedium, service.PriorityHigh:
	default:
		fmt.Fprintf(errOut, "error: invalid priority filter: %s\n", c.priority)
		return exitcode.UserError
	}

	engine := tasks.NewEngine(svc)
	if err := engine.Load(ctx); err != nil {
		return handleFailure(err, "Failed to load tasks", sess, errOut)
	}

	all := engine.Tasks()
	inputs := viewfilter.Inputs{Query: c.search, Status: c.status, Priority: c.priority}
	part := viewfilter.Apply(all, inputs)

	switch viewfilter.Empty(all, inputs, part) {
	case viewfilter.NoTasks:
		if !cfg.Quiet {
			fmt.Fprintln(out, "No tasks yet. Create your first task to get started.")
		}
		return exitcode.Success
	case viewfilter.NoMatches:
		if !cfg.Quiet {
			fmt.Fprintln(out, "No matching tasks. Try adjusting your search or filters.")
		}
		return exitcode.Success
	}

	if len(part.Pending) > 0 {
		output.FormatSectionHeader(out, "Active Tasks", len(part.Pending))
		for _, t := range part.Pending {
			output.FormatTask(out, t)
		}
	}
	if len(part.Completed) > 0 {
		output.FormatSectionHeader(out, "Completed", len(part.Completed))
		for _, t := range part.Completed {
			output.FormatTask(out, t)
		}
	}
	return exitcode.Success
}
