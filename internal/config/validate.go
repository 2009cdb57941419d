package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSource() error {
	switch c.Source.Driver {
	case "sqlite":
		if c.Source.SQLitePath == "" {
			return errors.New("source.sqlite_path must be set when source.driver is sqlite")
		}
	case "postgres":
		if c.Source.PostgresDSN == "" {
			return errors.New("source.postgres_dsn is required when source.driver is postgres. Set GISFLOW_POSTGRES_DSN or edit the config file")
		}
	default:
		return fmt.Errorf("source.driver: unsupported value %q (want sqlite or postgres)", c.Source.Driver)
	}
	if c.Source.LoadTimeoutSeconds < 0 {
		return errors.New("source.load_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if len(c.Workflow.GISDocTypes) == 0 {
		return errors.New("workflow.gis_doc_types must list at least one document type")
	}
	if c.Workflow.ReviewFormID == "" {
		return errors.New("workflow.review_form_id must be set")
	}
	if c.Workflow.ProcessFormID == "" {
		return errors.New("workflow.process_form_id must be set")
	}
	codes := map[string]int{
		"workflow.open_status":       c.Workflow.OpenStatus,
		"workflow.hold_status":       c.Workflow.HoldStatus,
		"workflow.gis_review_status": c.Workflow.GISReviewStatus,
		"workflow.processing_status": c.Workflow.ProcessingStatus,
		"workflow.dropped_status":    c.Workflow.DroppedStatus,
	}
	seen := make(map[int]string, len(codes))
	for _, key := range slices.Sorted(maps.Keys(codes)) {
		code := codes[key]
		if other, ok := seen[code]; ok {
			return fmt.Errorf("%s and %s share status code %d", other, key, code)
		}
		seen[code] = key
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "none", "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return errors.New("cache.redis_url is required when cache.backend is redis. Set GISFLOW_REDIS_URL or edit the config file")
		}
	default:
		return fmt.Errorf("cache.backend: unsupported value %q (want memory, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.TTLSeconds < 0 {
		return errors.New("cache.ttl_seconds must not be negative")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
