package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gisflow/internal/records"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSource(); err != nil {
		return err
	}
	if err := c.normalizeWorkflow(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSource() error {
	c.Source.Driver = strings.ToLower(strings.TrimSpace(c.Source.Driver))
	if c.Source.Driver == "" {
		c.Source.Driver = defaultSourceDriver
	}
	if c.Source.Driver == "postgresql" || c.Source.Driver == "pgx" {
		c.Source.Driver = "postgres"
	}
	var err error
	if strings.TrimSpace(c.Source.SQLitePath) == "" {
		c.Source.SQLitePath = filepath.Join(c.Paths.DataDir, defaultSQLiteName)
	}
	if c.Source.SQLitePath, err = expandPath(c.Source.SQLitePath); err != nil {
		return fmt.Errorf("source.sqlite_path: %w", err)
	}
	c.Source.PostgresDSN = strings.TrimSpace(c.Source.PostgresDSN)
	if c.Source.PostgresDSN == "" {
		if value, ok := os.LookupEnv("GISFLOW_POSTGRES_DSN"); ok {
			c.Source.PostgresDSN = strings.TrimSpace(value)
		}
	}
	if c.Source.LoadTimeoutSeconds == 0 {
		c.Source.LoadTimeoutSeconds = defaultLoadTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeWorkflow() error {
	types := make([]string, 0, len(c.Workflow.GISDocTypes))
	seen := make(map[string]struct{}, len(c.Workflow.GISDocTypes))
	for _, t := range c.Workflow.GISDocTypes {
		normalized := records.NormalizeDocType(t)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		types = append(types, normalized)
	}
	c.Workflow.GISDocTypes = types

	c.Workflow.Timezone = strings.TrimSpace(c.Workflow.Timezone)
	if c.Workflow.Timezone == "" {
		c.Workflow.Timezone = defaultTimezone
	}
	loc, err := time.LoadLocation(c.Workflow.Timezone)
	if err != nil {
		return fmt.Errorf("workflow.timezone: %w", err)
	}
	c.location = loc

	c.Workflow.ReviewFormID = strings.TrimSpace(c.Workflow.ReviewFormID)
	c.Workflow.ProcessFormID = strings.TrimSpace(c.Workflow.ProcessFormID)
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
}

func (c *Config) normalizeCache() {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = defaultCacheBackend
	}
	c.Cache.RedisURL = strings.TrimSpace(c.Cache.RedisURL)
	if c.Cache.RedisURL == "" {
		if value, ok := os.LookupEnv("GISFLOW_REDIS_URL"); ok {
			c.Cache.RedisURL = strings.TrimSpace(value)
		}
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = defaultCacheMaxEntries
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
