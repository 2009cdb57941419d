// Package source selects the snapshot backend named in the configuration.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gisflow/internal/config"
	"gisflow/internal/pgsource"
	"gisflow/internal/records"
	"gisflow/internal/store"
)

// Source yields complete, read-only snapshots of the workflow tables.
type Source interface {
	LoadSnapshot(ctx context.Context) (records.Snapshot, error)
	Ping(ctx context.Context) error
	Describe() string
	Close() error
}

var (
	_ Source = (*store.Store)(nil)
	_ Source = (*pgsource.Source)(nil)
)

// Open connects to the configured backend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Source, error) {
	if cfg == nil {
		return nil, errors.New("source: nil config")
	}
	switch cfg.Source.Driver {
	case "sqlite":
		return store.Open(cfg, logger)
	case "postgres":
		return pgsource.Open(ctx, cfg.Source.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("source: unsupported driver %q", cfg.Source.Driver)
	}
}
