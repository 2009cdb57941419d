package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gisflow/internal/config"
	"gisflow/internal/daemon"
	"gisflow/internal/daemonctl"
	"gisflow/internal/logging"
	"gisflow/internal/projection"
	"gisflow/internal/reportcache"
	"gisflow/internal/source"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	// Clock overrides the evaluation clock. Nil uses the wall clock.
	Clock func() time.Time
	// Ready, when set, receives the bound API address once the daemon is
	// serving.
	Ready func(addr string)
}

// Run starts the gisflow daemon and blocks until cmdCtx is cancelled or the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := daemonctl.PIDPath(cfg)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	src, err := source.Open(signalCtx, cfg, logger)
	if err != nil {
		logger.Error("open snapshot source", logging.Error(err))
		return err
	}

	cache, err := reportcache.New(signalCtx, cfg, logger)
	if err != nil {
		_ = src.Close()
		logger.Error("open report cache", logging.Error(err))
		return err
	}

	d, err := daemon.New(cfg, src, cache, logger, projection.WithClock(opts.Clock))
	if err != nil {
		_ = cache.Close()
		_ = src.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("daemon close", logging.Error(err))
		}
	}()

	logRuntimeSnapshot(logger, cfg, src, cache)

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return err
	}
	if opts.Ready != nil {
		opts.Ready(d.Addr())
	}

	<-signalCtx.Done()
	logger.Info("gisflow daemon shutting down")
	return nil
}

func newLogger(cfg *config.Config, opts Options) (*slog.Logger, error) {
	level := strings.TrimSpace(opts.LogLevel)
	if level == "" {
		level = cfg.Logging.Level
	}
	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "gisflowd.log"))
	}
	return logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		Development: opts.Development,
	})
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logRuntimeSnapshot(logger *slog.Logger, cfg *config.Config, src source.Source, cache reportcache.Cache) {
	logger.Info("runtime snapshot",
		logging.Source(src.Describe()),
		logging.String("cache", cache.Backend()),
		logging.Duration("cache_ttl", cfg.CacheTTL()),
		logging.Duration("load_timeout", cfg.LoadTimeout()),
		logging.String("timezone", cfg.Location().String()),
		logging.Bool("derive_clearance", cfg.Workflow.DeriveClearance),
		logging.String("bind", cfg.API.Bind),
	)
}
