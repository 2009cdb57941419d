// Package reportcache stores rendered reports for a short time so repeated
// API requests do not re-read the whole geodatabase.
//
// Values are opaque encoded payloads keyed by report name and parameters.
// The memory backend serves a single daemon; the Redis backend lets several
// daemons behind a load balancer share results.
package reportcache

import (
	"context"
	"fmt"
	"log/slog"

	"gisflow/internal/config"
)

// Cache is a TTL-bounded report store. Get reports a miss with ok=false and a
// nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// New builds the backend named by cfg.Cache.Backend. A zero TTL disables
// caching whatever the backend.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Cache, error) {
	if cfg.CacheTTL() <= 0 {
		return None{}, nil
	}
	switch cfg.Cache.Backend {
	case "memory":
		return NewMemory(cfg.Cache.MaxEntries, cfg.CacheTTL(), nil)
	case "redis":
		return DialRedis(ctx, cfg.Cache.RedisURL, cfg.CacheTTL(), logger)
	case "none", "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("reportcache: unsupported backend %q", cfg.Cache.Backend)
	}
}

// None never stores anything.
type None struct{}

func (None) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (None) Set(context.Context, string, []byte) error         { return nil }
func (None) Ping(context.Context) error                        { return nil }
func (None) Backend() string                                    { return "none" }
func (None) Close() error                                       { return nil }
