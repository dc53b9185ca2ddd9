package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"fstodo/internal/service"
)

// Compile-time check
var _ service.Store = (*FakeStore)(nil)

func TestFakeStore_CreateAssignsSequentialIDs(t *testing.T) {
	f := NewFakeStore()
	ctx := context.Background()

	a, _ := f.Create(ctx, "a", time.Now())
	b, _ := f.Create(ctx, "b", time.Now())

	if a.ID != "doc-1" || b.ID != "doc-2" {
		t.Errorf("expected doc-1 and doc-2, got %q and %q", a.ID, b.ID)
	}
	if a.Completed {
		t.Error("expected new task to be incomplete")
	}
	if f.CreateCalls != 2 {
		t.Errorf("expected 2 create calls, got %d", f.CreateCalls)
	}
}

func TestFakeStore_UpdateUnknown(t *testing.T) {
	f := NewFakeStore()
	done := true
	err := f.Update(context.Background(), "missing", service.Patch{Completed: &done})
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(f.Updates) != 1 {
		t.Errorf("expected update to be recorded, got %d", len(f.Updates))
	}
}
