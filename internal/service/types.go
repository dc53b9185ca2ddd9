package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DeadlineLayout is the datetime-local layout deadlines are stored in.
const DeadlineLayout = "2006-01-02T15:04"

// deadlineLayoutSeconds is used when a deadline carries seconds.
const deadlineLayoutSeconds = "2006-01-02T15:04:05"

// Errors returned by Store implementations. Implementations wrap them,
// so callers should use errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrAuth     = errors.New("token expired or revoked")
	ErrTimeout  = errors.New("request timed out")
	ErrInvalid  = errors.New("invalid task")
)

// Task represents a single to-do item.
type Task struct {
	ID        string
	Text      string
	Completed bool
	Deadline  time.Time
}

// Patch holds a partial task update. Nil fields are left unchanged.
type Patch struct {
	Text      *string
	Completed *bool
	Deadline  *time.Time
}

// Fields returns the document field names set in the patch, in a stable order.
func (p Patch) Fields() []string {
	var fields []string
	if p.Text != nil {
		fields = append(fields, "text")
	}
	if p.Completed != nil {
		fields = append(fields, "completed")
	}
	if p.Deadline != nil {
		fields = append(fields, "deadline")
	}
	return fields
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Text == nil && p.Completed == nil && p.Deadline == nil
}

// Apply returns t with the patch applied.
func (p Patch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	return t
}

// FormatDeadline formats a deadline for storage in the local time zone.
// Seconds are only written when non-zero.
func FormatDeadline(t time.Time) string {
	t = t.Local()
	if t.Second() != 0 {
		return t.Format(deadlineLayoutSeconds)
	}
	return t.Format(DeadlineLayout)
}

// ParseDeadline parses a stored or user-entered deadline.
// Values without a zone are interpreted in the local time zone.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: deadline required", ErrInvalid)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	for _, layout := range []string{DeadlineLayout, deadlineLayoutSeconds, "2006-01-02 15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad deadline %q (want YYYY-MM-DDTHH:MM)", ErrInvalid, s)
}
