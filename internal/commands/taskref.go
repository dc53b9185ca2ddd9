package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"fstodo/internal/exitcode"
	"fstodo/internal/service"
	"fstodo/internal/tasklist"
)

// TaskRef is a parsed task reference: a 1-based position in list order, or
// a task ID.
type TaskRef struct {
	Num int    // 1-based number, 0 if ID is set
	ID  string // task ID, empty if Num is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the single task reference in args.
// All digits is a number; anything else is taken as an ID.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := strings.TrimSpace(args[0])
	if ref == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", ref)
		}
		if num < 1 {
			return TaskRef{}, fmt.Errorf("task number out of range: %d", num)
		}
		return TaskRef{Num: num}, nil
	}
	return TaskRef{ID: ref}, nil
}

// Resolve finds the referenced task among tasks.
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ID == "" {
		if r.Num > len(tasks) {
			return service.Task{}, fmt.Errorf("task number out of range: %d", r.Num)
		}
		return tasks[r.Num-1], nil
	}
	for _, t := range tasks {
		if t.ID == r.ID {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("no task with id %s", r.ID)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// loadTask loads every task and resolves the reference in args. On failure it
// reports the error and returns a non-zero exit code.
func loadTask(ctx context.Context, store service.Store, args []string, errOut io.Writer) (*tasklist.List, service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}

	list := tasklist.New(store)
	if err := list.Load(ctx); err != nil {
		return nil, service.Task{}, reportError(errOut, err)
	}

	task, err := ref.Resolve(list.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}
	return list, task, exitcode.Success
}
