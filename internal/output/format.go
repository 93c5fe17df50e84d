// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todoai/internal/core"
)

var (
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lowStyle    = lipgloss.NewStyle().Faint(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// FormatTask writes one task line:
// "{N:>4}  {[x]|[ ]} {TITLE}  ({priority}[, due YYYY-MM-DD])"
func FormatTask(w io.Writer, num int, task core.Task) {
	marker := "[ ]"
	title := normalizeTitle(task.Title)
	if task.Done {
		marker = "[x]"
		title = doneStyle.Render(title)
	}

	meta := priorityLabel(task.Priority)
	if task.DueDate != nil {
		meta += ", due " + task.DueDate.Format("2006-01-02")
	}

	fmt.Fprintf(w, "%4d  %s %s  %s\n", num, marker, title, mutedStyle.Render("("+meta+")"))
}

// FormatTaskList writes the whole list, or a placeholder when empty.
func FormatTaskList(w io.Writer, tasks []core.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}
	for i, t := range tasks {
		FormatTask(w, i+1, t)
	}
}

func priorityLabel(p core.Priority) string {
	label := p.String()
	switch p {
	case core.High:
		return highStyle.Render(label)
	case core.Low:
		return lowStyle.Render(label)
	default:
		return mediumStyle.Render(label)
	}
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
