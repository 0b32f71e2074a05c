package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("overrides only keys present in the file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fitcrawl.yml")
		content := `
pruning_threshold: 0.35
pruning_mode: fixed
max_pages: 50
per_host_delay: 250ms
request_timeout: 5s
query: widget history
headers:
  X-Team: docs
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.PruningThreshold != 0.35 {
			t.Errorf("expected pruning threshold 0.35, got %v", cfg.PruningThreshold)
		}
		if cfg.PruningMode != PruningFixed {
			t.Errorf("expected fixed mode, got %q", cfg.PruningMode)
		}
		if cfg.MaxPages != 50 {
			t.Errorf("expected max pages 50, got %d", cfg.MaxPages)
		}
		if cfg.PerHostDelay != 250*time.Millisecond {
			t.Errorf("expected 250ms delay, got %v", cfg.PerHostDelay)
		}
		if cfg.RequestTimeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", cfg.RequestTimeout)
		}
		if cfg.Query != "widget history" {
			t.Errorf("unexpected query %q", cfg.Query)
		}
		if cfg.Headers["X-Team"] != "docs" {
			t.Errorf("expected pass-through header, got %v", cfg.Headers)
		}

		// Keys absent from the file keep their defaults.
		if cfg.MaxDepth != DefaultMaxDepth {
			t.Errorf("expected default max depth, got %d", cfg.MaxDepth)
		}
		if cfg.Concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yml")
		if err := os.WriteFile(path, []byte("pruning_threshold: [not a float"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "dur.yml")
		if err := os.WriteFile(path, []byte("per_host_delay: quickly"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for unparsable duration")
		}
	})
}

// Environment tests cannot run in parallel because they mutate process env.
func TestApplyEnv(t *testing.T) {
	t.Setenv(envQuery, "widget history")
	t.Setenv(envPruningThreshold, "0.6")
	t.Setenv(envMaxPages, "7")
	t.Setenv(envPerHostDelay, "2s")

	cfg := New()
	if err := cfg.ApplyEnv(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Query != "widget history" {
		t.Errorf("unexpected query %q", cfg.Query)
	}
	if cfg.PruningThreshold != 0.6 {
		t.Errorf("expected 0.6, got %v", cfg.PruningThreshold)
	}
	if cfg.MaxPages != 7 {
		t.Errorf("expected 7 pages, got %d", cfg.MaxPages)
	}
	if cfg.PerHostDelay != 2*time.Second {
		t.Errorf("expected 2s, got %v", cfg.PerHostDelay)
	}
}

func TestApplyEnvRejectsUnparsableValues(t *testing.T) {
	t.Setenv(envMaxDepth, "very deep")

	cfg := New()
	if err := cfg.ApplyEnv(""); err == nil {
		t.Error("expected error for unparsable env value")
	}
}

func TestApplyEnvLoadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FITCRAWL_CONCURRENCY=2\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	// godotenv does not override variables that are already set, so make
	// sure a leftover value cannot mask the file. t.Setenv registers the
	// restore; Unsetenv clears it for the load below.
	t.Setenv(envConcurrency, "placeholder")
	os.Unsetenv(envConcurrency)

	cfg := New()
	if err := cfg.ApplyEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("expected concurrency 2 from .env, got %d", cfg.Concurrency)
	}
}
