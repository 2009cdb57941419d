package config

import (
	"gisflow/internal/records"
	"gisflow/internal/workflow"
)

const (
	defaultConfigPath         = "~/.config/gisflow/config.toml"
	defaultDataDir            = "~/.local/share/gisflow"
	defaultLogDir             = "~/.local/share/gisflow/logs"
	defaultSQLiteName         = "gisflow.db"
	defaultSourceDriver       = "sqlite"
	defaultLoadTimeoutSeconds = 60
	defaultTimezone           = "America/Chicago"
	defaultAPIBind            = "127.0.0.1:7590"
	defaultCacheBackend       = "memory"
	defaultCacheTTLSeconds    = 30
	defaultCacheMaxEntries    = 64
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Source: Source{
			Driver:             defaultSourceDriver,
			LoadTimeoutSeconds: defaultLoadTimeoutSeconds,
		},
		Workflow: Workflow{
			GISDocTypes:      append([]string(nil), workflow.DefaultGISDocTypes...),
			Timezone:         defaultTimezone,
			ReviewFormID:     workflow.DefaultReviewFormID,
			ProcessFormID:    workflow.DefaultProcessFormID,
			OpenStatus:       int(records.StatusOpen),
			HoldStatus:       int(records.StatusAssessorHold),
			GISReviewStatus:  int(records.StatusGISReview),
			ProcessingStatus: int(records.StatusProcessing),
			DroppedStatus:    int(records.StatusDropped),
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Cache: Cache{
			Backend:    defaultCacheBackend,
			TTLSeconds: defaultCacheTTLSeconds,
			MaxEntries: defaultCacheMaxEntries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
