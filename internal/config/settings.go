package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend names.
const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"
)

// Defaults applied to unset settings.
const (
	DefaultDatabase      = "(default)"
	DefaultCollection    = "tasks"
	DefaultCacheTTL      = 30 * time.Second
	DefaultToastDuration = 2 * time.Second
)

// Settings mirrors config.toml.
type Settings struct {
	Backend   string            `toml:"backend"`
	Firestore FirestoreSettings `toml:"firestore"`
	SQLite    SQLiteSettings    `toml:"sqlite"`
	Cache     CacheSettings     `toml:"cache"`
	UI        UISettings        `toml:"ui"`
}

// FirestoreSettings selects the project, database and collection, and how to
// authenticate. APIKey wins over CredentialsFile, which wins over the OAuth
// token written by login.
type FirestoreSettings struct {
	ProjectID       string `toml:"project_id"`
	Database        string `toml:"database"`
	Collection      string `toml:"collection"`
	APIKey          string `toml:"api_key"`
	CredentialsFile string `toml:"credentials_file"`
}

// SQLiteSettings configures the local backend.
type SQLiteSettings struct {
	Path string `toml:"path"`
}

// CacheSettings configures the optional Redis list cache.
type CacheSettings struct {
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// UISettings configures the interactive board.
type UISettings struct {
	ToastDuration Duration `toml:"toast_duration"`
}

// Duration is a time.Duration read from a TOML string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Load creates a Config for configDir and reads config.toml (if present) and
// FSTODO_* environment variables into its settings.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadSettingsFile(); err != nil {
		return nil, err
	}
	cfg.loadFromEnv()
	if err := cfg.Settings.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadSettingsFile() error {
	path := c.SettingsPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	md, err := toml.DecodeFile(path, &c.Settings)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("loading %s: unknown key %s", path, undecoded[0])
	}
	return nil
}

// loadFromEnv overrides settings from environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("FSTODO_BACKEND"); v != "" {
		c.Settings.Backend = v
	}
	if v := os.Getenv("FSTODO_PROJECT_ID"); v != "" {
		c.Settings.Firestore.ProjectID = v
	}
	if v := os.Getenv("FSTODO_DATABASE"); v != "" {
		c.Settings.Firestore.Database = v
	}
	if v := os.Getenv("FSTODO_COLLECTION"); v != "" {
		c.Settings.Firestore.Collection = v
	}
	if v := os.Getenv("FSTODO_API_KEY"); v != "" {
		c.Settings.Firestore.APIKey = v
	}
	if v := os.Getenv("FSTODO_CREDENTIALS_FILE"); v != "" {
		c.Settings.Firestore.CredentialsFile = v
	}
	if v := os.Getenv("FSTODO_SQLITE_PATH"); v != "" {
		c.Settings.SQLite.Path = v
	}
	if v := os.Getenv("FSTODO_REDIS_URL"); v != "" {
		c.Settings.Cache.RedisURL = v
	}
}

func (s Settings) validate() error {
	switch s.BackendName() {
	case BackendFirestore, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend: %s", s.Backend)
	}
	if s.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	if s.UI.ToastDuration.Duration < 0 {
		return fmt.Errorf("toast duration must not be negative")
	}
	return nil
}

// BackendName returns the selected backend, defaulting to Firestore.
func (s Settings) BackendName() string {
	if s.Backend == "" {
		return BackendFirestore
	}
	return s.Backend
}

// DatabaseID returns the Firestore database, defaulting to "(default)".
func (f FirestoreSettings) DatabaseID() string {
	if f.Database == "" {
		return DefaultDatabase
	}
	return f.Database
}

// CollectionID returns the task collection, defaulting to "tasks".
func (f FirestoreSettings) CollectionID() string {
	if f.Collection == "" {
		return DefaultCollection
	}
	return f.Collection
}

// CacheTTL returns the cache TTL, defaulting to 30s.
func (c CacheSettings) CacheTTL() time.Duration {
	if c.TTL.Duration == 0 {
		return DefaultCacheTTL
	}
	return c.TTL.Duration
}

// Toast returns how long toasts stay visible, defaulting to 2s.
func (u UISettings) Toast() time.Duration {
	if u.ToastDuration.Duration == 0 {
		return DefaultToastDuration
	}
	return u.ToastDuration.Duration
}
