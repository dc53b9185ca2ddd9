// Package countdown computes remaining-time strings and display states for tasks.
package countdown

import (
	"fmt"
	"time"

	"fstodo/internal/service"
)

const (
	// Expired is shown once a deadline has passed.
	Expired = "expired"

	// Pending is shown for a task that has not been through a tick yet.
	Pending = "calculating..."
)

// State is the derived display state of a task.
type State int

const (
	// StateActive is an incomplete task whose deadline is still ahead.
	StateActive State = iota
	// StateExpired is an incomplete task whose deadline has passed.
	StateExpired
	// StateCompleted is a completed task, whatever its deadline.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateExpired:
		return "expired"
	default:
		return "active"
	}
}

// Remaining formats the time left until deadline as "{h}h {m}m {s}s".
// Returns Expired when the deadline is not after now.
func Remaining(deadline, now time.Time) string {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return Expired
	}
	secs := int64(diff / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// Snapshot returns a fresh task ID -> remaining-time mapping.
func Snapshot(tasks []service.Task, now time.Time) map[string]string {
	out := make(map[string]string, len(tasks))
	for _, t := range tasks {
		out[t.ID] = Remaining(t.Deadline, now)
	}
	return out
}

// Classify returns the display state of t at now.
func Classify(t service.Task, now time.Time) State {
	if t.Completed {
		return StateCompleted
	}
	if Remaining(t.Deadline, now) == Expired {
		return StateExpired
	}
	return StateActive
}
