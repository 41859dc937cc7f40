// Package viewfilter computes the rendered task partition from raw state.
// It is a pure function of its inputs: no side effects, safe to re-run on
// every state or filter change.
package viewfilter

import (
	"strings"

	"flowlist/internal/service"
)

// Status filter values.
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// PriorityAll matches every priority.
const PriorityAll = "all"

// Inputs are the UI-held filter values, independent of the task list.
type Inputs struct {
	Query    string
	Status   string
	Priority string
}

// Active reports whether any filter narrows the view.
func (in Inputs) Active() bool {
	return in.Query != "" ||
		(in.Status != "" && in.Status != StatusAll) ||
		(in.Priority != "" && in.Priority != PriorityAll)
}

// Partition is the visible result: pending tasks are presented before
// completed ones, each partition keeping the authoritative order.
type Partition struct {
	Pending   []service.Task
	Completed []service.Task
}

// Matched returns the total number of visible tasks.
func (p Partition) Matched() int {
	return len(p.Pending) + len(p.Completed)
}

// EmptyState distinguishes why nothing is visible.
type EmptyState int

const (
	// NotEmpty means at least one task matched.
	NotEmpty EmptyState = iota

	// NoTasks means the list itself is empty.
	NoTasks

	// NoMatches means tasks exist but none pass the current filters.
	NoMatches
)

// Apply partitions tasks by the filter inputs. A task matches when the
// query is empty or a case-insensitive substring of its title or
// description, the status filter is "all" or equals its completion state,
// and the priority filter is "all" or equals its priority.
func Apply(tasks []service.Task, in Inputs) Partition {
	query := strings.ToLower(in.Query)
	var p Partition
	for _, t := range tasks {
		if !matches(t, query, in.Status, in.Priority) {
			continue
		}
		if t.Completed {
			p.Completed = append(p.Completed, t)
		} else {
			p.Pending = append(p.Pending, t)
		}
	}
	return p
}

// Empty classifies an empty partition so the UI can show the right
// guidance: "no tasks yet" versus "nothing matches your filters".
func Empty(tasks []service.Task, in Inputs, p Partition) EmptyState {
	if p.Matched() > 0 {
		return NotEmpty
	}
	if len(tasks) == 0 && !in.Active() {
		return NoTasks
	}
	return NoMatches
}

func matches(t service.Task, lowerQuery, status, priority string) bool {
	if lowerQuery != "" &&
		!strings.Contains(strings.ToLower(t.Title), lowerQuery) &&
		!strings.Contains(strings.ToLower(t.Description), lowerQuery) {
		return false
	}
	switch status {
	case "", StatusAll:
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusPending:
		if t.Completed {
			return false
		}
	default:
		return false
	}
	if priority != "" && priority != PriorityAll && t.Priority != priority {
		return false
	}
	return true
}
