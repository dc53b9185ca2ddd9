// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fstodo/internal/service"
)

// FakeStore is an in-memory implementation of service.Store for testing.
type FakeStore struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int

	// Error injection for testing
	ListAllErr error
	CreateErr  error
	UpdateErr  error
	DeleteErr  error

	// Call counters
	ListAllCalls int
	CreateCalls  int
	UpdateCalls  int
	DeleteCalls  int

	// Updates records every patch passed to Update, in order.
	Updates []FakeUpdate
}

// FakeUpdate is a recorded Update call.
type FakeUpdate struct {
	ID    string
	Patch service.Patch
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{nextID: 1}
}

// AddTask seeds a task directly, bypassing counters.
func (f *FakeStore) AddTask(id, text string, completed bool, deadline time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:        id,
		Text:      text,
		Completed: completed,
		Deadline:  deadline,
	})
}

// Snapshot returns a copy of the stored tasks.
func (f *FakeStore) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Get returns the stored task with the given ID.
func (f *FakeStore) Get(id string) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// ListAll implements service.Store.
func (f *FakeStore) ListAll(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListAllCalls++
	if f.ListAllErr != nil {
		return nil, f.ListAllErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// Create implements service.Store.
func (f *FakeStore) Create(ctx context.Context, text string, deadline time.Time) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}

	// Generate a simple ID
	task := service.Task{
		ID:       fmt.Sprintf("doc-%d", f.nextID),
		Text:     text,
		Deadline: deadline,
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Update implements service.Store.
func (f *FakeStore) Update(ctx context.Context, id string, patch service.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.Updates = append(f.Updates, FakeUpdate{ID: id, Patch: patch})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = patch.Apply(t)
			return nil
		}
	}
	return service.ErrNotFound
}

// Delete implements service.Store.
func (f *FakeStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
