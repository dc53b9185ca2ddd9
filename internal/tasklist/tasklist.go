// Package tasklist holds the in-memory task list shown to the user and mirrors
// every change to a service.Store.
//
// Mutating operations are split in two: the call itself validates input and
// applies any optimistic change, and the returned Persist performs the store
// round trip. The CLI runs Persist inline; the board runs it off the event loop.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fstodo/internal/service"
)

// ErrEmptyInput is returned when text or deadline is blank.
var ErrEmptyInput = errors.New("text and deadline are required")

// Persist performs the store call for a pending change.
type Persist func(ctx context.Context) error

// List is the authoritative in-memory task list.
type List struct {
	store service.Store

	mu    sync.RWMutex
	tasks []service.Task
}

// New creates an empty List backed by store.
func New(store service.Store) *List {
	return &List{store: store}
}

// Load replaces the list with every task in the store.
func (l *List) Load(ctx context.Context) error {
	tasks, err := l.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	l.mu.Lock()
	l.tasks = tasks
	l.mu.Unlock()
	log.WithField("count", len(tasks)).Debug("tasks loaded")
	return nil
}

// Tasks returns a copy of the current tasks in display order.
func (l *List) Tasks() []service.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]service.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Len returns the number of tasks.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tasks)
}

// Get returns the task with the given ID.
func (l *List) Get(id string) (service.Task, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	return l.tasks[i], true
}

// Add validates a new task. Its Persist creates the task in the store and
// appends the stored copy, carrying the store-assigned ID.
func (l *List) Add(text, deadline string) (Persist, error) {
	text, due, err := parseInput(text, deadline)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		task, err := l.store.Create(ctx, text, due)
		if err != nil {
			log.WithError(err).Warn("create task failed")
			return fmt.Errorf("add task: %w", err)
		}
		l.mu.Lock()
		// A reload that finished while Create was in flight may already
		// hold the new task.
		if i := l.indexOf(task.ID); i >= 0 {
			l.tasks[i] = task
		} else {
			l.tasks = append(l.tasks, task)
		}
		l.mu.Unlock()
		log.WithField("task", task.ID).Debug("task created")
		return nil
	}, nil
}

// Toggle flips the task's completion flag immediately. Its Persist writes the
// new value and reverts the local flip if the write fails.
func (l *List) Toggle(id string) (Persist, error) {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return nil, fmt.Errorf("task %s: %w", id, service.ErrNotFound)
	}
	want := !l.tasks[i].Completed
	l.tasks[i].Completed = want
	l.mu.Unlock()

	return func(ctx context.Context) error {
		err := l.store.Update(ctx, id, service.Patch{Completed: &want})
		if err == nil {
			return nil
		}
		l.mu.Lock()
		if j := l.indexOf(id); j >= 0 && l.tasks[j].Completed == want {
			l.tasks[j].Completed = !want
		}
		l.mu.Unlock()
		log.WithError(err).WithField("task", id).Warn("toggle failed, reverted")
		return fmt.Errorf("toggle task: %w", err)
	}, nil
}

// Edit validates replacement text and deadline. Its Persist writes them to the
// store and then replaces the local fields.
func (l *List) Edit(id, text, deadline string) (Persist, error) {
	text, due, err := parseInput(text, deadline)
	if err != nil {
		return nil, err
	}
	if _, ok := l.Get(id); !ok {
		return nil, fmt.Errorf("task %s: %w", id, service.ErrNotFound)
	}
	patch := service.Patch{Text: &text, Deadline: &due}

	return func(ctx context.Context) error {
		if err := l.store.Update(ctx, id, patch); err != nil {
			log.WithError(err).WithField("task", id).Warn("edit failed")
			return fmt.Errorf("edit task: %w", err)
		}
		l.mu.Lock()
		if j := l.indexOf(id); j >= 0 {
			l.tasks[j] = patch.Apply(l.tasks[j])
		}
		l.mu.Unlock()
		return nil
	}, nil
}

// Delete returns a Persist that removes the task from the store and then from
// the list.
func (l *List) Delete(id string) (Persist, error) {
	if _, ok := l.Get(id); !ok {
		return nil, fmt.Errorf("task %s: %w", id, service.ErrNotFound)
	}
	return func(ctx context.Context) error {
		if err := l.store.Delete(ctx, id); err != nil {
			log.WithError(err).WithField("task", id).Warn("delete failed")
			return fmt.Errorf("delete task: %w", err)
		}
		l.mu.Lock()
		if j := l.indexOf(id); j >= 0 {
			l.tasks = append(l.tasks[:j], l.tasks[j+1:]...)
		}
		l.mu.Unlock()
		return nil
	}, nil
}

// indexOf requires l.mu to be held.
func (l *List) indexOf(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func parseInput(text, deadline string) (string, time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.TrimSpace(deadline) == "" {
		return "", time.Time{}, ErrEmptyInput
	}
	due, err := service.ParseDeadline(deadline)
	if err != nil {
		return "", time.Time{}, err
	}
	return text, due, nil
}
