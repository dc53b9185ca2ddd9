// Package service defines the backend-agnostic interface for task storage.
package service

import (
	"context"
	"time"
)

// Store defines the interface for task backend operations.
// All document database calls go through this interface.
// Commands and the board never import a database SDK directly.
type Store interface {
	// ListAll returns every task in the collection in backend order.
	ListAll(ctx context.Context) ([]Task, error)

	// Create stores a new incomplete task and returns it with the
	// store-assigned ID.
	Create(ctx context.Context, text string, deadline time.Time) (Task, error)

	// Update writes the non-nil fields of patch to the task with the given ID.
	// Returns ErrNotFound if the task does not exist.
	Update(ctx context.Context, id string, patch Patch) error

	// Delete removes the task with the given ID.
	// Returns ErrNotFound if the task does not exist.
	Delete(ctx context.Context, id string) error
}
