package store

import (
	"context"
	"database/sql"
	"fmt"

	"gisflow/internal/records"
)

var snapshotTables = []string{"docs", "gis_review", "pins", "gis_processing", "tc", "tc_review", "followups"}

// ImportStats counts the rows written by Import.
type ImportStats struct {
	Documents  int
	Reviews    int
	PINs       int
	Processing int
	Clearance  int
	TCReviews  int
	FollowUps  int
}

// Total is the number of rows written across all tables.
func (s ImportStats) Total() int {
	return s.Documents + s.Reviews + s.PINs + s.Processing + s.Clearance + s.TCReviews + s.FollowUps
}

// Import replaces the database contents with snap in one transaction.
func (s *Store) Import(ctx context.Context, snap records.Snapshot) (ImportStats, error) {
	var stats ImportStats
	err := retryOnBusy(ctx, func() error {
		var err error
		stats, err = s.importTx(ctx, snap)
		return err
	})
	return stats, err
}

func (s *Store) importTx(ctx context.Context, snap records.Snapshot) (ImportStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range snapshotTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return ImportStats{}, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	var stats ImportStats
	for _, d := range snap.Documents {
		if err := insert(ctx, tx, "docs",
			"INSERT INTO docs (objectid, doc_num, doc_type, globalid, status) VALUES (?, ?, ?, ?, ?)",
			nullableID(d.ObjectID), d.DocNum, records.NormalizeDocType(d.DocType), records.FormatGlobalID(d.GlobalID), int(d.Status)); err != nil {
			return ImportStats{}, err
		}
		stats.Documents++
	}
	for _, r := range snap.Reviews {
		if err := insert(ctx, tx, "gis_review",
			"INSERT INTO gis_review (objectid, doc_guid, review_result, created_date) VALUES (?, ?, ?, ?)",
			nullableID(r.ObjectID), records.FormatGlobalID(r.DocGlobalID), int(r.Result), formatTime(r.CreatedDate)); err != nil {
			return ImportStats{}, err
		}
		stats.Reviews++
	}
	for _, p := range snap.PINs {
		if err := insert(ctx, tx, "pins",
			"INSERT INTO pins (objectid, doc_guid, pin, pin_type, pin_year) VALUES (?, ?, ?, ?, ?)",
			nullableID(p.ObjectID), records.FormatGlobalID(p.DocGlobalID), p.PIN, int(p.Type), nullableInt(p.Year)); err != nil {
			return ImportStats{}, err
		}
		stats.PINs++
	}
	for _, e := range snap.Processing {
		if err := insert(ctx, tx, "gis_processing",
			"INSERT INTO gis_processing (objectid, doc_guid, process_step, created_user, created_date) VALUES (?, ?, ?, ?, ?)",
			nullableID(e.ObjectID), records.FormatGlobalID(e.DocGlobalID), int(e.Step), e.CreatedUser, formatTime(e.CreatedDate)); err != nil {
			return ImportStats{}, err
		}
		stats.Processing++
	}
	for _, c := range snap.Clearance {
		if err := insert(ctx, tx, "tc",
			"INSERT INTO tc (pin, t_review, t_last_review_date, c_review, c_last_review_date) VALUES (?, ?, ?, ?, ?)",
			c.PIN, flagText(c.TreasurerApproved), nullableTime(c.TreasurerReviewedAt), flagText(c.ClerkApproved), nullableTime(c.ClerkReviewedAt)); err != nil {
			return ImportStats{}, err
		}
		stats.Clearance++
	}
	for _, r := range snap.TCReviews {
		if err := insert(ctx, tx, "tc_review",
			"INSERT INTO tc_review (objectid, pin, review_type, review_result, created_date) VALUES (?, ?, ?, ?, ?)",
			nullableID(r.ObjectID), r.PIN, int(r.Authority), int(r.Result), formatTime(r.CreatedDate)); err != nil {
			return ImportStats{}, err
		}
		stats.TCReviews++
	}
	for _, f := range snap.FollowUps {
		if err := insert(ctx, tx, "followups",
			"INSERT INTO followups (objectid, doc_guid, followup_date) VALUES (?, ?, ?)",
			nullableID(f.ObjectID), records.FormatGlobalID(f.DocGlobalID), formatTime(f.FollowUpDate)); err != nil {
			return ImportStats{}, err
		}
		stats.FollowUps++
	}

	if err := tx.Commit(); err != nil {
		return ImportStats{}, fmt.Errorf("commit import: %w", err)
	}
	return stats, nil
}

// TableCounts reports the row count of every snapshot table.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(snapshotTables))
	for _, table := range snapshotTables {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func insert(ctx context.Context, tx *sql.Tx, table, query string, args ...any) error {
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// nullableID lets SQLite assign an objectid when the source row carried none.
func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}
