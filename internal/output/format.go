// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"fstodo/internal/countdown"
	"fstodo/internal/service"
)

// FormatTask writes one numbered task line.
// Format: "{N:>4}  [x] {TEXT}  ({DEADLINE}, {REMAINING})\n"
func FormatTask(w io.Writer, num int, task service.Task, now time.Time) {
	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s  (%s, %s)\n",
		num,
		check,
		normalizeText(task.Text),
		service.FormatDeadline(task.Deadline),
		countdown.Remaining(task.Deadline, now),
	)
}

// FormatTasks writes every task, numbered from 1.
func FormatTasks(w io.Writer, tasks []service.Task, now time.Time) {
	for i, task := range tasks {
		FormatTask(w, i+1, task, now)
	}
}

// normalizeText normalizes task text for display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
