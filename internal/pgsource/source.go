package pgsource

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"gisflow/internal/logging"
	"gisflow/internal/records"
)

// pool abstracts the subset of pgxpool.Pool used by the source.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// Source loads snapshots from PostgreSQL.
type Source struct {
	pool   pool
	host   string
	logger *slog.Logger
}

// Open connects a pool to dsn and verifies it answers.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Source, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = 8
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "gisflow"
	poolCfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSource(p, poolCfg.ConnConfig.Host, logger), nil
}

func newSource(p pool, host string, logger *slog.Logger) *Source {
	return &Source{pool: p, host: host, logger: logging.NewComponentLogger(logger, "pgsource")}
}

// Describe identifies the source without exposing credentials.
func (s *Source) Describe() string {
	return "postgres:" + (&url.URL{Host: s.host}).Host
}

// Ping verifies the database answers queries.
func (s *Source) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Source) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// LoadSnapshot reads every workflow table concurrently.
func (s *Source) LoadSnapshot(ctx context.Context) (records.Snapshot, error) {
	var snap records.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { snap.Documents, err = s.loadDocuments(gctx); return })
	g.Go(func() (err error) { snap.Reviews, err = s.loadReviews(gctx); return })
	g.Go(func() (err error) { snap.PINs, err = s.loadPINs(gctx); return })
	g.Go(func() (err error) { snap.Processing, err = s.loadProcessing(gctx); return })
	g.Go(func() (err error) { snap.Clearance, err = s.loadClearance(gctx); return })
	g.Go(func() (err error) { snap.TCReviews, err = s.loadTCReviews(gctx); return })
	g.Go(func() (err error) { snap.FollowUps, err = s.loadFollowUps(gctx); return })
	if err := g.Wait(); err != nil {
		return records.Snapshot{}, err
	}
	return snap, nil
}

func (s *Source) skip(table string, objectID int64, err error) {
	s.logger.Warn("skipping unreadable row",
		logging.String("table", table),
		logging.Int64("objectid", objectID),
		logging.Error(err),
	)
}

func (s *Source) query(ctx context.Context, table, query string, scan func(pgx.Rows) error) error {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", table, err)
	}
	return nil
}
