package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gisflow/internal/api"
	"gisflow/internal/config"
	"gisflow/internal/logging"
	"gisflow/internal/metrics"
	"gisflow/internal/records"
	"gisflow/internal/reportcache"
	"gisflow/internal/workflow"
)

// ErrSnapshotUnavailable wraps failures reading the source.
var ErrSnapshotUnavailable = errors.New("snapshot unavailable")

// Loader yields complete snapshots.
type Loader interface {
	LoadSnapshot(ctx context.Context) (records.Snapshot, error)
	Describe() string
}

// Pass is the outcome of one evaluation over one snapshot.
type Pass struct {
	// Now is the evaluation instant in the configured timezone.
	Now      time.Time
	Snapshot records.Snapshot
	Index    *records.Index
	Records  []workflow.Record
}

// Service evaluates snapshots and renders reports.
type Service struct {
	cfg     *config.Config
	rules   workflow.Rules
	loader  Loader
	cache   reportcache.Cache
	metrics *metrics.Metrics
	logger  *slog.Logger
	clock   func() time.Time
	flight  singleflight.Group

	mu   sync.Mutex
	last *api.EvaluationStatus
}

// Option customizes a Service.
type Option func(*Service)

// WithCache stores rendered reports in cache.
func WithCache(cache reportcache.Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithMetrics records load, evaluation, and cache instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the evaluation clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Service over loader.
func New(cfg *config.Config, loader Loader, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		rules:  cfg.Rules(),
		loader: loader,
		cache:  reportcache.None{},
		logger: logging.NewComponentLogger(logger, "projection"),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the evaluation rules in effect.
func (s *Service) Rules() workflow.Rules { return s.rules }

// CacheBackend names the report cache in use.
func (s *Service) CacheBackend() string { return s.cache.Backend() }

// SourceDescription identifies the snapshot source.
func (s *Service) SourceDescription() string { return s.loader.Describe() }

// LastEvaluation returns a copy of the latest pass summary, or nil before the
// first pass.
func (s *Service) LastEvaluation() *api.EvaluationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	cp := *s.last
	return &cp
}

// Evaluate loads a fresh snapshot and evaluates every candidate document.
func (s *Service) Evaluate(ctx context.Context) (*Pass, error) {
	started := s.clock()
	now := started.In(s.cfg.Location())

	loadCtx := ctx
	if timeout := s.cfg.LoadTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	loadStart := time.Now()
	snap, err := s.loader.LoadSnapshot(loadCtx)
	if err != nil {
		s.metrics.IncrementSnapshotFailure()
		s.recordFailure(now, err)
		return nil, fmt.Errorf("load snapshot: %w: %w", ErrSnapshotUnavailable, err)
	}
	loadElapsed := time.Since(loadStart)
	s.metrics.ObserveSnapshotLoad(s.loader.Describe(), loadElapsed)

	evalStart := time.Now()
	idx := records.NewIndex(snap, records.IndexOptions{DeriveClearance: s.cfg.Workflow.DeriveClearance})
	ec := workflow.EvalContext{Rules: s.rules, Clearance: idx.Clearance(), Now: now}
	recs := workflow.BuildRecords(snap.Documents, idx, ec)
	evalElapsed := time.Since(evalStart)

	counts := api.StageCounts(workflow.CountByStage(recs))
	s.metrics.ObserveEvaluation(evalElapsed, counts, stageLabels())

	logger := logging.WithContext(ctx, s.logger)
	if logger.Enabled(ctx, slog.LevelDebug) {
		for _, rec := range recs {
			warnings := ""
			if rec.Warnings != nil {
				warnings = *rec.Warnings
			}
			logger.Debug("document evaluated",
				logging.DocNum(rec.DocNum),
				logging.Stage(rec.Stage.String()),
				logging.String("warnings", warnings),
			)
		}
	}
	logger.Info("evaluation complete",
		logging.Source(s.loader.Describe()),
		logging.Int("documents", len(snap.Documents)),
		logging.Int("records", len(recs)),
		logging.Duration("load", loadElapsed),
		logging.Duration("evaluate", evalElapsed),
	)

	s.mu.Lock()
	s.last = &api.EvaluationStatus{
		EvaluatedAt: api.FormatTime(now),
		DurationMS:  (loadElapsed + evalElapsed).Milliseconds(),
		Documents:   len(snap.Documents),
		Records:     len(recs),
		Counts:      counts,
	}
	s.mu.Unlock()

	return &Pass{Now: now, Snapshot: snap, Index: idx, Records: recs}, nil
}

func (s *Service) recordFailure(now time.Time, err error) {
	s.logger.Error("snapshot load failed",
		logging.Source(s.loader.Describe()),
		logging.Error(err),
	)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &api.EvaluationStatus{EvaluatedAt: api.FormatTime(now), Error: err.Error()}
}

func stageLabels() []string {
	out := make([]string, 0, len(workflow.ActiveStages))
	for _, stage := range workflow.ActiveStages {
		out = append(out, stage.String())
	}
	return out
}
