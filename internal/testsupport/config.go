package testsupport

import (
	"path/filepath"
	"testing"

	"gisflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The report cache is disabled unless an option turns it on.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Source.SQLitePath = filepath.Join(base, "data", "gisflow.db")
	cfg.API.Bind = "127.0.0.1:0"
	cfg.Cache.Backend = "none"

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithMemoryCache enables the in-process report cache.
func WithMemoryCache(ttlSeconds int) ConfigOption {
	return func(c *config.Config) {
		c.Cache.Backend = "memory"
		c.Cache.TTLSeconds = ttlSeconds
	}
}

// WithDeriveClearance folds raw T/C review events into clearance rows.
func WithDeriveClearance() ConfigOption {
	return func(c *config.Config) {
		c.Workflow.DeriveClearance = true
	}
}
