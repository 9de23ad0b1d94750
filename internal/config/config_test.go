package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
app:
  env: production
server:
  port: "9090"
redis:
  addr: localhost:6379
quiz:
  catalog_path: catalog.yaml
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("SESSION_TICK_INTERVAL", "250ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Env != "production" || cfg.Server.Port != "9090" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Redis.Addr != "redis:6380" {
		t.Fatalf("expected env override for redis addr, got %s", cfg.Redis.Addr)
	}
	if cfg.App.LogLevel != "info" || cfg.Quiz.TTL != "10m" {
		t.Fatalf("expected defaults kept, got %+v", cfg)
	}
	if got := TTLDuration(cfg.Session.TickInterval, time.Second); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms tick interval, got %s", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing path")
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		t.Skip("default config present in working directory")
	}
	cfg, err := Load(DefaultPath)
	if err != nil {
		t.Fatalf("default path may be absent: %v", err)
	}
	if cfg.Session.IdleTimeout != "1h" {
		t.Fatalf("expected default idle timeout, got %s", cfg.Session.IdleTimeout)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := TTLDuration("garbage", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %s", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
}
