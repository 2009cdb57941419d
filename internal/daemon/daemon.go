package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gofrs/flock"

	"gisflow/internal/api"
	"gisflow/internal/config"
	"gisflow/internal/logging"
	"gisflow/internal/metrics"
	"gisflow/internal/projection"
	"gisflow/internal/reportcache"
	"gisflow/internal/source"
)

// Daemon serves the workflow projection and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	source  source.Source
	cache   reportcache.Cache
	service *projection.Service
	metrics *metrics.Metrics
	api     *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies. The daemon takes
// ownership of src and cache and closes them in Close. opts are applied to the
// projection service after the daemon's own cache and metrics.
func New(cfg *config.Config, src source.Source, cache reportcache.Cache, logger *slog.Logger, opts ...projection.Option) (*Daemon, error) {
	if cfg == nil || src == nil || logger == nil {
		return nil, errors.New("daemon requires config, source, and logger")
	}
	if cache == nil {
		cache = reportcache.None{}
	}

	m := metrics.New()
	svcOpts := append([]projection.Option{
		projection.WithCache(cache),
		projection.WithMetrics(m),
	}, opts...)
	svc := projection.New(cfg, src, logger, svcOpts...)
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		source:   src,
		cache:    cache,
		service:  svc,
		metrics:  m,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.api = newAPIServer(cfg.API.Bind, d, logger)
	return d, nil
}

// Start acquires the daemon lock, starts the API server, and warms the
// workflow report in the background.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another gisflow daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("gisflow daemon started",
		logging.String("lock", d.lockPath),
		logging.Source(d.source.Describe()),
		logging.String("cache", d.cache.Backend()),
	)

	go d.warm(d.ctx)
	return nil
}

func (d *Daemon) warm(ctx context.Context) {
	if _, err := d.service.Workflow(ctx); err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Warn("initial evaluation failed", logging.Error(err))
	}
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("gisflow daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return errors.Join(d.cache.Close(), d.source.Close())
}

// Service exposes the projection service.
func (d *Daemon) Service() *projection.Service { return d.service }

// Addr returns the API listener address once started.
func (d *Daemon) Addr() string { return d.api.addr() }

// Status reports daemon runtime information.
func (d *Daemon) Status(context.Context) api.DaemonStatus {
	return api.DaemonStatus{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		Source:         d.source.Describe(),
		Cache:          d.cache.Backend(),
		LockFilePath:   d.lockPath,
		Timezone:       d.cfg.Location().String(),
		LastEvaluation: d.service.LastEvaluation(),
	}
}
