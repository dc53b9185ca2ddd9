package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fstodo/internal/service"
)

// setupTestStore creates an in-memory SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var deadline = time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)

func TestStore_CreateAndList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a, err := s.Create(ctx, "Buy milk", deadline)
	require.NoError(t, err)
	_, err = uuid.Parse(a.ID)
	assert.NoError(t, err, "expected a UUID id")
	assert.False(t, a.Completed)

	b, err := s.Create(ctx, "Write report", deadline.Add(time.Hour))
	require.NoError(t, err)

	tasks, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	ids := []string{tasks[0].ID, tasks[1].ID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
	for _, task := range tasks {
		if task.ID == a.ID {
			assert.True(t, task.Deadline.Equal(deadline))
			assert.Equal(t, "Buy milk", task.Text)
		}
	}
}

func TestStore_UpdateCompletedFalseIsWritten(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task, err := s.Create(ctx, "Buy milk", deadline)
	require.NoError(t, err)

	done := true
	require.NoError(t, s.Update(ctx, task.ID, service.Patch{Completed: &done}))
	row, err := s.find(task.ID)
	require.NoError(t, err)
	assert.True(t, row.Completed)

	done = false
	require.NoError(t, s.Update(ctx, task.ID, service.Patch{Completed: &done}))
	row, err = s.find(task.ID)
	require.NoError(t, err)
	assert.False(t, row.Completed)
	assert.Equal(t, "Buy milk", row.Text)
}

func TestStore_UpdateTextAndDeadline(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task, err := s.Create(ctx, "Buy milk", deadline)
	require.NoError(t, err)

	text := "Buy oat milk"
	due := deadline.Add(24*time.Hour + 30*time.Second)
	require.NoError(t, s.Update(ctx, task.ID, service.Patch{Text: &text, Deadline: &due}))

	row, err := s.find(task.ID)
	require.NoError(t, err)
	assert.Equal(t, text, row.Text)
	assert.Equal(t, "2030-01-03T15:04:30", row.Deadline)
}

func TestStore_UpdateNotFound(t *testing.T) {
	s := setupTestStore(t)
	text := "x"
	err := s.Update(context.Background(), "missing", service.Patch{Text: &text})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	task, err := s.Create(ctx, "Buy milk", deadline)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, task.ID))
	_, err = s.find(task.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, task.ID), service.ErrNotFound)
}

func (s *Store) find(id string) (taskRow, error) {
	var row taskRow
	if err := s.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return taskRow{}, service.ErrNotFound
		}
		return taskRow{}, err
	}
	return row, nil
}
