package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSettings(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, SettingsFile), []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config.toml: %v", err)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestPaths(t *testing.T) {
	cfg, _ := New("/cfg")
	if cfg.TokenPath() != "/cfg/token.json" {
		t.Errorf("unexpected token path %q", cfg.TokenPath())
	}
	if cfg.OAuthClientPath() != "/cfg/oauth_client.json" {
		t.Errorf("unexpected oauth client path %q", cfg.OAuthClientPath())
	}
	if cfg.SQLitePath() != "/cfg/tasks.db" {
		t.Errorf("unexpected sqlite path %q", cfg.SQLitePath())
	}
	cfg.Settings.SQLite.Path = "/data/x.db"
	if cfg.SQLitePath() != "/data/x.db" {
		t.Errorf("expected configured sqlite path, got %q", cfg.SQLitePath())
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Settings
	if s.BackendName() != BackendFirestore {
		t.Errorf("expected firestore backend, got %q", s.BackendName())
	}
	if s.Firestore.CollectionID() != "tasks" || s.Firestore.DatabaseID() != "(default)" {
		t.Errorf("unexpected firestore defaults: %+v", s.Firestore)
	}
	if s.Cache.CacheTTL() != 30*time.Second {
		t.Errorf("unexpected cache ttl %v", s.Cache.CacheTTL())
	}
	if s.UI.Toast() != 2*time.Second {
		t.Errorf("unexpected toast duration %v", s.UI.Toast())
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `
backend = "sqlite"

[firestore]
project_id = "todolist-1"
collection = "todos"
api_key = "key-123"

[sqlite]
path = "/tmp/tasks.db"

[cache]
redis_url = "redis://localhost:6379/0"
ttl = "1m"

[ui]
toast_duration = "500ms"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Settings
	if s.BackendName() != BackendSQLite {
		t.Errorf("expected sqlite, got %q", s.BackendName())
	}
	if s.Firestore.ProjectID != "todolist-1" || s.Firestore.CollectionID() != "todos" || s.Firestore.APIKey != "key-123" {
		t.Errorf("unexpected firestore settings: %+v", s.Firestore)
	}
	if cfg.SQLitePath() != "/tmp/tasks.db" {
		t.Errorf("unexpected sqlite path %q", cfg.SQLitePath())
	}
	if s.Cache.RedisURL != "redis://localhost:6379/0" || s.Cache.CacheTTL() != time.Minute {
		t.Errorf("unexpected cache settings: %+v", s.Cache)
	}
	if s.UI.Toast() != 500*time.Millisecond {
		t.Errorf("unexpected toast duration %v", s.UI.Toast())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "[firestore]\nproject_id = \"from-file\"\n")
	t.Setenv("FSTODO_PROJECT_ID", "from-env")
	t.Setenv("FSTODO_REDIS_URL", "redis://cache:6379")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.Firestore.ProjectID != "from-env" {
		t.Errorf("expected env project, got %q", cfg.Settings.Firestore.ProjectID)
	}
	if cfg.Settings.Cache.RedisURL != "redis://cache:6379" {
		t.Errorf("expected env redis url, got %q", cfg.Settings.Cache.RedisURL)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "backend = \"mongo\"\n")

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "[firestore]\nprojectid = \"x\"\n")

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "[cache]\nttl = \"soon\"\n")

	if _, err := Load(dir); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestHasTokenAndRemove(t *testing.T) {
	cfg, _ := New(t.TempDir())
	if cfg.HasToken() {
		t.Fatal("expected no token")
	}
	if err := os.WriteFile(cfg.TokenPath(), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if !cfg.HasToken() {
		t.Fatal("expected token")
	}
	if err := cfg.RemoveToken(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if cfg.HasToken() {
		t.Error("expected token to be removed")
	}
}
