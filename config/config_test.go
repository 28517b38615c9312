package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != ":5000" {
		t.Errorf("expected default listen :5000, got %q", cfg.Server.Listen)
	}
	if cfg.Providers.Jikan.BaseURL != "https://api.jikan.moe/v4" {
		t.Errorf("unexpected jikan base url %q", cfg.Providers.Jikan.BaseURL)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("expected 1h cache ttl, got %s", cfg.CacheTTL())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := `
server:
  listen: ":9000"
providers:
  tmdb:
    api_key: file-key
cache:
  ttl_seconds: 120
rate_limit:
  per_minute: 10
  burst: 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Listen != ":9000" {
		t.Errorf("expected listen :9000, got %q", cfg.Server.Listen)
	}
	if cfg.Providers.TMDB.APIKey != "file-key" {
		t.Errorf("expected tmdb key from file, got %q", cfg.Providers.TMDB.APIKey)
	}
	if cfg.CacheTTL() != 2*time.Minute {
		t.Errorf("expected 2m cache ttl, got %s", cfg.CacheTTL())
	}
	// Untouched sections keep defaults
	if cfg.Providers.IMDB.BaseURL != "https://rest.imdbapi.dev/v2" {
		t.Errorf("expected default imdb base url, got %q", cfg.Providers.IMDB.BaseURL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	t.Setenv("IMDB_API_READ_ACCESS_TOKEN", "env-token")
	t.Setenv("CACHE_TTL_SECONDS", "30")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Providers.TMDB.APIKey != "env-key" {
		t.Errorf("expected env tmdb key, got %q", cfg.Providers.TMDB.APIKey)
	}
	if cfg.Providers.IMDB.Token != "env-token" {
		t.Errorf("expected env imdb token, got %q", cfg.Providers.IMDB.Token)
	}
	if cfg.Cache.TTLSeconds != 30 {
		t.Errorf("expected ttl 30, got %d", cfg.Cache.TTLSeconds)
	}
}
