// Package sqlite implements service.Store on a local SQLite database via GORM.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fstodo/internal/service"
)

// taskRow is a task document stored as a table row.
type taskRow struct {
	ID        string    `gorm:"primarykey;size:36"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	Text      string `gorm:"not null"`
	Completed bool   `gorm:"not null;default:false"`
	Deadline  string `gorm:"size:32;not null"`
}

// TableName returns the table name for task rows.
func (taskRow) TableName() string {
	return "tasks"
}

func (r taskRow) task() (service.Task, error) {
	deadline, err := service.ParseDeadline(r.Deadline)
	if err != nil {
		return service.Task{}, fmt.Errorf("row %s: %w", r.ID, err)
	}
	return service.Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		Deadline:  deadline,
	}, nil
}

// Store implements service.Store using GORM.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection would get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db)
}

// New wraps an existing database handle and migrates the tasks table.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&taskRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ListAll returns every task in creation order.
func (s *Store) ListAll(ctx context.Context) ([]service.Task, error) {
	var rows []taskRow
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasks := make([]service.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.task()
		if err != nil {
			log.WithError(err).Warn("skipping malformed task row")
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Create inserts a new incomplete task with a random UUID.
func (s *Store) Create(ctx context.Context, text string, deadline time.Time) (service.Task, error) {
	row := taskRow{
		ID:       uuid.New().String(),
		Text:     text,
		Deadline: service.FormatDeadline(deadline),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return service.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return row.task()
}

// Update writes the patched columns of an existing task.
func (s *Store) Update(ctx context.Context, id string, patch service.Patch) error {
	if patch.Empty() {
		return nil
	}
	// A map so that completed=false is written.
	values := make(map[string]any, 3)
	if patch.Text != nil {
		values["text"] = *patch.Text
	}
	if patch.Completed != nil {
		values["completed"] = *patch.Completed
	}
	if patch.Deadline != nil {
		values["deadline"] = service.FormatDeadline(*patch.Deadline)
	}

	result := s.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", id).Updates(values)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}

// Delete removes a task row.
func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return service.ErrNotFound
	}
	return nil
}
