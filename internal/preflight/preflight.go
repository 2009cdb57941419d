package preflight

import (
	"context"
	"log/slog"

	"gisflow/internal/config"
	"gisflow/internal/reportcache"
	"gisflow/internal/source"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Sources and caches opened here are closed before returning.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckTimezone(cfg),
	}

	src, err := source.Open(ctx, cfg, logger)
	if err != nil {
		results = append(results, Result{Name: "Snapshot source", Detail: summarizeError(err)})
	} else {
		results = append(results, CheckSource(ctx, src), CheckSnapshot(ctx, src, cfg))
		_ = src.Close()
	}

	if cfg.Cache.Backend == "redis" {
		results = append(results, CheckRedis(ctx, cfg.Cache.RedisURL, logger))
	}
	return results
}

// Failed counts results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

// CheckRedis dials the configured Redis cache.
func CheckRedis(ctx context.Context, url string, logger *slog.Logger) Result {
	cache, err := reportcache.DialRedis(ctx, url, 0, logger)
	if err != nil {
		return Result{Name: "Report cache", Detail: summarizeError(err)}
	}
	defer cache.Close()
	return CheckCache(ctx, cache)
}
