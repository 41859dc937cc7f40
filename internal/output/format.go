// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flowlist/internal/service"
)

const (
	// SectionSeparator is the separator line for list sections.
	SectionSeparator = "------------"
)

var priorityStyles = map[string]lipgloss.Style{
	service.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	service.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	service.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

// FormatTask writes one task line.
// Format: "[x] {ID:>6}  {PRIORITY:<6}  {TITLE}\n".
func FormatTask(w io.Writer, task service.Task) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	// Pad outside the style so ANSI escapes don't skew the column width.
	badge := PriorityBadge(task.Priority) + strings.Repeat(" ", max(0, 6-len(task.Priority)))
	fmt.Fprintf(w, "%s %6s  %s  %s\n", box, task.ID, badge, normalizeTitle(task.Title))
}

// FormatSectionHeader writes a partition header, e.g. "Active Tasks (3)".
func FormatSectionHeader(w io.Writer, title string, count int) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintf(w, "%s (%d)\n", title, count)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatUser writes the signed-in identity line.
func FormatUser(w io.Writer, user service.User) {
	fmt.Fprintf(w, "%s <%s>\n", user.Name, user.Email)
}

// PriorityBadge renders a colored priority label. Unknown priorities pass
// through unstyled.
func PriorityBadge(priority string) string {
	if style, ok := priorityStyles[priority]; ok {
		return style.Render(priority)
	}
	return priority
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
