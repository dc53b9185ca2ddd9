// Package cache wraps a service.Store with a Redis-backed copy of the task list.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"fstodo/internal/service"
)

// Store caches ListAll results and evicts them after every successful write.
// Redis failures never fail a call; the backing store is used instead.
//
// Every eviction bumps a generation counter next to the cached list. A list
// read from the backing store is only written back if the generation is
// unchanged, so a write that lands during the read cannot be shadowed.
type Store struct {
	base   service.Store
	redis  *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

var errStale = errors.New("cache: generation changed")

// New creates a caching Store. key names the cached list, so different
// collections can share one Redis database.
func New(base service.Store, client *redis.Client, key string, ttl time.Duration) *Store {
	if base == nil {
		panic("cache.New: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Store{
		base:   base,
		redis:  client,
		key:    "fstodo:tasks:" + key,
		genKey: "fstodo:gen:" + key,
		ttl:    ttl,
	}
}

// cachedTask is the JSON form of a task in Redis.
type cachedTask struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Deadline  time.Time `json:"deadline"`
}

// ListAll implements service.Store.
func (s *Store) ListAll(ctx context.Context) ([]service.Task, error) {
	if tasks, ok := s.load(ctx); ok {
		log.WithField("count", len(tasks)).Debug("cache: hit")
		return tasks, nil
	}

	gen, genOK := s.generation(ctx)
	tasks, err := s.base.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if genOK {
		s.store(ctx, tasks, gen)
	}
	return tasks, nil
}

// Create implements service.Store.
func (s *Store) Create(ctx context.Context, text string, deadline time.Time) (service.Task, error) {
	task, err := s.base.Create(ctx, text, deadline)
	if err != nil {
		return service.Task{}, err
	}
	s.evict(ctx)
	return task, nil
}

// Update implements service.Store.
func (s *Store) Update(ctx context.Context, id string, patch service.Patch) error {
	if err := s.base.Update(ctx, id, patch); err != nil {
		return err
	}
	s.evict(ctx)
	return nil
}

// Delete implements service.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.base.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx)
	return nil
}

func (s *Store) load(ctx context.Context) ([]service.Task, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).Warn("cache: read failed")
			// On redis errors fall back to the backing store without failing.
			_ = s.redis.Del(ctx, s.key).Err()
		}
		return nil, false
	}
	var cached []cachedTask
	if err := json.Unmarshal(data, &cached); err != nil {
		_ = s.redis.Del(ctx, s.key).Err()
		return nil, false
	}
	tasks := make([]service.Task, len(cached))
	for i, c := range cached {
		tasks[i] = service.Task{ID: c.ID, Text: c.Text, Completed: c.Completed, Deadline: c.Deadline}
	}
	return tasks, true
}

func (s *Store) generation(ctx context.Context) (int64, bool) {
	if s.redis == nil || s.ttl == 0 {
		return 0, false
	}
	gen, err := s.redis.Get(ctx, s.genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.WithError(err).Warn("cache: generation read failed")
		return 0, false
	}
	return gen, true
}

func (s *Store) store(ctx context.Context, tasks []service.Task, gen int64) {
	if s.redis == nil || s.ttl == 0 {
		return
	}
	cached := make([]cachedTask, len(tasks))
	for i, t := range tasks {
		cached[i] = cachedTask{ID: t.ID, Text: t.Text, Completed: t.Completed, Deadline: t.Deadline}
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}
	err = s.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, s.genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, s.ttl)
			return nil
		})
		return err
	}, s.genKey)
	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		log.WithField("generation", gen).Debug("cache: list changed during read, not stored")
	default:
		log.WithError(err).Warn("cache: write failed")
	}
}

func (s *Store) evict(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, s.genKey)
		pipe.Del(ctx, s.key)
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("cache: evict failed")
	}
}
