// Package backend selects and assembles the task store named by the settings.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"fstodo/internal/backend/cache"
	"fstodo/internal/backend/firestore"
	"fstodo/internal/backend/sqlite"
	"fstodo/internal/config"
	"fstodo/internal/service"
)

// ErrConfig marks failures caused by settings rather than the backend itself.
var ErrConfig = errors.New("configuration error")

// Backend is an opened store plus whatever must be released when done.
type Backend struct {
	service.Store
	closers []func() error
}

// Close releases the store's connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open builds the store for cfg: Firestore or SQLite, optionally behind a
// Redis cache when a redis_url is configured.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{}
	var cacheKey string

	switch name := cfg.Settings.BackendName(); name {
	case config.BackendFirestore:
		client, err := firestore.New(ctx, cfg)
		if errors.Is(err, firestore.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %w (set project_id in %s or FSTODO_PROJECT_ID)", ErrConfig, err, cfg.SettingsPath())
		}
		if err != nil {
			return nil, err
		}
		b.Store = client
		cacheKey = cfg.Settings.Firestore.ProjectID + ":" + cfg.Settings.Firestore.CollectionID()
	case config.BackendSQLite:
		path := cfg.SQLitePath()
		if cfg.Settings.SQLite.Path == "" {
			if err := cfg.EnsureDir(); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		b.Store = store
		b.closers = append(b.closers, store.Close)
		cacheKey = "sqlite:" + path
	default:
		return nil, fmt.Errorf("%w: unknown backend: %s", ErrConfig, name)
	}
	log.WithField("backend", cfg.Settings.BackendName()).Debug("backend opened")

	if url := cfg.Settings.Cache.RedisURL; url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("%w: invalid redis_url: %v", ErrConfig, err)
		}
		client := redis.NewClient(opts)
		b.closers = append(b.closers, client.Close)
		b.Store = cache.New(b.Store, client, cacheKey, cfg.Settings.Cache.CacheTTL())
		log.WithField("ttl", cfg.Settings.Cache.CacheTTL()).Debug("redis cache enabled")
	}
	return b, nil
}
