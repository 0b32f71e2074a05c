package config

import (
	"errors"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	cfg := New()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.PruningMode != PruningDynamic {
		t.Errorf("expected dynamic pruning by default, got %q", cfg.PruningMode)
	}
	if cfg.PruningThreshold != DefaultPruningThreshold {
		t.Errorf("unexpected default pruning threshold %v", cfg.PruningThreshold)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("unexpected default concurrency %d", cfg.Concurrency)
	}
	if cfg.PerHostDelay != time.Second {
		t.Errorf("unexpected default per-host delay %v", cfg.PerHostDelay)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "pruning threshold above one",
			mutate:  func(c *Config) { c.PruningThreshold = 1.5 },
			wantErr: ErrInvalidPruningThreshold,
		},
		{
			name:    "pruning threshold negative",
			mutate:  func(c *Config) { c.PruningThreshold = -0.1 },
			wantErr: ErrInvalidPruningThreshold,
		},
		{
			name:    "unknown pruning mode",
			mutate:  func(c *Config) { c.PruningMode = "adaptive" },
			wantErr: ErrInvalidPruningMode,
		},
		{
			name:    "negative min word threshold",
			mutate:  func(c *Config) { c.MinWordThreshold = -1 },
			wantErr: ErrInvalidMinWordThreshold,
		},
		{
			name:    "negative query threshold",
			mutate:  func(c *Config) { c.QueryThreshold = -0.5 },
			wantErr: ErrInvalidQueryThreshold,
		},
		{
			name:    "negative max depth",
			mutate:  func(c *Config) { c.MaxDepth = -2 },
			wantErr: ErrInvalidMaxDepth,
		},
		{
			name:    "zero max pages",
			mutate:  func(c *Config) { c.MaxPages = 0 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative per-host delay",
			mutate:  func(c *Config) { c.PerHostDelay = -time.Second },
			wantErr: ErrInvalidPerHostDelay,
		},
		{
			name:    "zero request timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: ErrInvalidRequestTimeout,
		},
		{
			name:    "unknown backoff policy",
			mutate:  func(c *Config) { c.BackoffPolicy = "jittered" },
			wantErr: ErrInvalidBackoffPolicy,
		},
		{
			name:    "negative max body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateAcceptsBoundaryValues(t *testing.T) {
	t.Parallel()

	cfg := New()
	cfg.PruningThreshold = 0.0
	cfg.MaxDepth = 0
	cfg.PerHostDelay = 0
	cfg.MinWordThreshold = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("boundary values should validate, got %v", err)
	}

	cfg.PruningThreshold = 1.0
	cfg.BackoffPolicy = BackoffExponential
	if err := cfg.Validate(); err != nil {
		t.Errorf("boundary values should validate, got %v", err)
	}
}
