package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gisflow/internal/logging"
	"gisflow/internal/records"
)

// LoadSnapshot reads every workflow table concurrently. Rows whose GlobalID or
// timestamp cannot be parsed are skipped with a warning; any query failure
// fails the whole load.
func (s *Store) LoadSnapshot(ctx context.Context) (records.Snapshot, error) {
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

func (s *Store) skip(table string, objectID int64, err error) {
	s.logger.Warn("skipping unreadable row",
		logging.String("table", table),
		logging.Int64("objectid", objectID),
		logging.Error(err),
	)
}

func (s *Store) query(ctx context.Context, table, query string, scan func(*sql.Rows) error) error {
	var rows *sql.Rows
	err := retryOnBusy(ctx, func() error {
		var qerr error
		rows, qerr = s.db.QueryContext(ctx, query)
		return qerr
	})
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

func (s *Store) loadDocuments(ctx context.Context) ([]records.Document, error) {
	var out []records.Document
	err := s.query(ctx, "docs",
		"SELECT objectid, doc_num, doc_type, globalid, status FROM docs ORDER BY objectid",
		func(rows *sql.Rows) error {
			var (
				doc      records.Document
				globalID string
				status   int
			)
			if err := rows.Scan(&doc.ObjectID, &doc.DocNum, &doc.DocType, &globalID, &status); err != nil {
				return err
			}
			id, err := records.ParseGlobalID(globalID)
			if err != nil {
				s.skip("docs", doc.ObjectID, err)
				return nil
			}
			doc.GlobalID = id
			doc.DocType = records.NormalizeDocType(doc.DocType)
			doc.Status = records.DocumentStatus(status)
			out = append(out, doc)
			return nil
		})
	return out, err
}

func (s *Store) loadReviews(ctx context.Context) ([]records.Review, error) {
	var out []records.Review
	err := s.query(ctx, "gis_review",
		"SELECT objectid, doc_guid, review_result, created_date FROM gis_review ORDER BY objectid",
		func(rows *sql.Rows) error {
			var (
				r       records.Review
				docGUID string
				result  int
				created string
			)
			if err := rows.Scan(&r.ObjectID, &docGUID, &result, &created); err != nil {
				return err
			}
			var err error
			if r.DocGlobalID, r.CreatedDate, err = parseChild(docGUID, created); err != nil {
				s.skip("gis_review", r.ObjectID, err)
				return nil
			}
			r.Result = records.ReviewResult(result)
			out = append(out, r)
			return nil
		})
	return out, err
}

func (s *Store) loadPINs(ctx context.Context) ([]records.ParcelPIN, error) {
	var out []records.ParcelPIN
	err := s.query(ctx, "pins",
		"SELECT objectid, doc_guid, pin, pin_type, pin_year FROM pins ORDER BY objectid",
		func(rows *sql.Rows) error {
			var (
				p       records.ParcelPIN
				docGUID string
				pinType int
				year    sql.NullInt64
			)
			if err := rows.Scan(&p.ObjectID, &docGUID, &p.PIN, &pinType, &year); err != nil {
				return err
			}
			id, err := records.ParseGlobalID(docGUID)
			if err != nil {
				s.skip("pins", p.ObjectID, err)
				return nil
			}
			p.DocGlobalID = id
			p.PIN = records.NormalizePIN(p.PIN)
			p.Type = records.PINType(pinType)
			p.Year = nullIntPtr(year)
			out = append(out, p)
			return nil
		})
	return out, err
}

func (s *Store) loadProcessing(ctx context.Context) ([]records.ProcessingEntry, error) {
	var out []records.ProcessingEntry
	err := s.query(ctx, "gis_processing",
		"SELECT objectid, doc_guid, process_step, created_user, created_date FROM gis_processing ORDER BY objectid",
		func(rows *sql.Rows) error {
			var (
				e       records.ProcessingEntry
				docGUID string
				step    int
				created string
			)
			if err := rows.Scan(&e.ObjectID, &docGUID, &step, &e.CreatedUser, &created); err != nil {
				return err
			}
			var err error
			if e.DocGlobalID, e.CreatedDate, err = parseChild(docGUID, created); err != nil {
				s.skip("gis_processing", e.ObjectID, err)
				return nil
			}
			e.Step = records.ProcessStep(step)
			out = append(out, e)
			return nil
		})
	return out, err
}

func (s *Store) loadClearance(ctx context.Context) ([]records.ClearanceRecord, error) {
	var out []records.ClearanceRecord
	err := s.query(ctx, "tc",
		"SELECT objectid, pin, t_review, t_last_review_date, c_review, c_last_review_date FROM tc ORDER BY objectid",
		func(rows *sql.Rows) error {
			var (
				objectID     int64
				row          records.ClearanceRecord
				tReview      string
				cReview      string
				tDate, cDate sql.NullString
			)
			if err := rows.Scan(&objectID, &row.PIN, &tReview, &tDate, &cReview, &cDate); err != nil {
				return err
			}
			var err error
			if row.TreasurerReviewedAt, err = parseNullTime(tDate); err != nil {
				s.skip("tc", objectID, err)
				return nil
			}
			if row.ClerkReviewedAt, err = parseNullTime(cDate); err != nil {
				s.skip("tc", objectID, err)
				return nil
			}
			row.PIN = records.NormalizePIN(row.PIN)
			row.TreasurerApproved = flag(tReview)
			row.ClerkApproved = flag(cReview)
			out = append(out, row)
			return nil
		})
	return out, err
}

func (s *Store) loadTCReviews(ctx context.Context) ([]records.TCReview, error) {
	var out []records.TCReview
	err := s.query(ctx, "tc_review",
		"SELECT objectid, pin, review_type, review_result, created_date FROM tc_review ORDER BY objectid",
		func(rows *sql.Rows) error {
			var (
				r          records.TCReview
				reviewType int
				result     int
				created    string
			)
			if err := rows.Scan(&r.ObjectID, &r.PIN, &reviewType, &result, &created); err != nil {
				return err
			}
			ts, err := parseTime(created)
			if err != nil {
				s.skip("tc_review", r.ObjectID, err)
				return nil
			}
			r.PIN = records.NormalizePIN(r.PIN)
			r.Authority = records.Authority(reviewType)
			r.Result = records.TCResult(result)
			r.CreatedDate = ts
			out = append(out, r)
			return nil
		})
	return out, err
}

func (s *Store) loadFollowUps(ctx context.Context) ([]records.FollowUp, error) {
	var out []records.FollowUp
	err := s.query(ctx, "followups",
		"SELECT objectid, doc_guid, followup_date FROM followups ORDER BY objectid",
		func(rows *sql.Rows) error {
			var (
				f       records.FollowUp
				docGUID string
				date    string
			)
			if err := rows.Scan(&f.ObjectID, &docGUID, &date); err != nil {
				return err
			}
			var err error
			if f.DocGlobalID, f.FollowUpDate, err = parseChild(docGUID, date); err != nil {
				s.skip("followups", f.ObjectID, err)
				return nil
			}
			out = append(out, f)
			return nil
		})
	return out, err
}

func parseChild(docGUID, created string) (uuid.UUID, time.Time, error) {
	id, err := records.ParseGlobalID(docGUID)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	ts, err := parseTime(created)
	if err != nil {
		return uuid.Nil, time.Time{}, err
	}
	return id, ts, nil
}
