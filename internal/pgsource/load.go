package pgsource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"gisflow/internal/records"
)

func (s *Source) loadDocuments(ctx context.Context) ([]records.Document, error) {
	var out []records.Document
	err := s.query(ctx, "docs",
		"SELECT objectid, doc_num, coalesce(doc_type, ''), globalid::text, coalesce(status, 0) FROM docs ORDER BY objectid",
		func(rows pgx.Rows) error {
			var (
				doc              records.Document
				docNum, globalID pgtype.Text
				status           int32
			)
			if err := rows.Scan(&doc.ObjectID, &docNum, &doc.DocType, &globalID, &status); err != nil {
				return err
			}
			if err := firstNull(column{"doc_num", docNum.Valid}, column{"globalid", globalID.Valid}); err != nil {
				s.skip("docs", doc.ObjectID, err)
				return nil
			}
			doc.DocNum = docNum.String
			id, err := records.ParseGlobalID(globalID.String)
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

func (s *Source) loadReviews(ctx context.Context) ([]records.Review, error) {
	var out []records.Review
	err := s.query(ctx, "gis_review",
		"SELECT objectid, doc_guid::text, review_result, created_date FROM gis_review ORDER BY objectid",
		func(rows pgx.Rows) error {
			var (
				r       records.Review
				docGUID pgtype.Text
				result  pgtype.Int4
				created pgtype.Timestamptz
			)
			if err := rows.Scan(&r.ObjectID, &docGUID, &result, &created); err != nil {
				return err
			}
			if err := firstNull(column{"doc_guid", docGUID.Valid}, column{"review_result", result.Valid}, column{"created_date", created.Valid}); err != nil {
				s.skip("gis_review", r.ObjectID, err)
				return nil
			}
			id, err := records.ParseGlobalID(docGUID.String)
			if err != nil {
				s.skip("gis_review", r.ObjectID, err)
				return nil
			}
			r.DocGlobalID = id
			r.Result = records.ReviewResult(result.Int32)
			r.CreatedDate = created.Time.UTC()
			out = append(out, r)
			return nil
		})
	return out, err
}

func (s *Source) loadPINs(ctx context.Context) ([]records.ParcelPIN, error) {
	var out []records.ParcelPIN
	err := s.query(ctx, "pins",
		"SELECT objectid, doc_guid::text, pin, pin_type, pin_year FROM pins ORDER BY objectid",
		func(rows pgx.Rows) error {
			var (
				p            records.ParcelPIN
				docGUID, pin pgtype.Text
				pinType      pgtype.Int4
				year         pgtype.Int4
			)
			if err := rows.Scan(&p.ObjectID, &docGUID, &pin, &pinType, &year); err != nil {
				return err
			}
			if err := firstNull(column{"doc_guid", docGUID.Valid}, column{"pin", pin.Valid}, column{"pin_type", pinType.Valid}); err != nil {
				s.skip("pins", p.ObjectID, err)
				return nil
			}
			id, err := records.ParseGlobalID(docGUID.String)
			if err != nil {
				s.skip("pins", p.ObjectID, err)
				return nil
			}
			p.DocGlobalID = id
			p.PIN = records.NormalizePIN(pin.String)
			p.Type = records.PINType(pinType.Int32)
			if year.Valid {
				y := int(year.Int32)
				p.Year = &y
			}
			out = append(out, p)
			return nil
		})
	return out, err
}

func (s *Source) loadProcessing(ctx context.Context) ([]records.ProcessingEntry, error) {
	var out []records.ProcessingEntry
	err := s.query(ctx, "gis_processing",
		"SELECT objectid, doc_guid::text, process_step, coalesce(created_user, ''), created_date FROM gis_processing ORDER BY objectid",
		func(rows pgx.Rows) error {
			var (
				e       records.ProcessingEntry
				docGUID pgtype.Text
				step    pgtype.Int4
				created pgtype.Timestamptz
			)
			if err := rows.Scan(&e.ObjectID, &docGUID, &step, &e.CreatedUser, &created); err != nil {
				return err
			}
			if err := firstNull(column{"doc_guid", docGUID.Valid}, column{"process_step", step.Valid}, column{"created_date", created.Valid}); err != nil {
				s.skip("gis_processing", e.ObjectID, err)
				return nil
			}
			id, err := records.ParseGlobalID(docGUID.String)
			if err != nil {
				s.skip("gis_processing", e.ObjectID, err)
				return nil
			}
			e.DocGlobalID = id
			e.Step = records.ProcessStep(step.Int32)
			e.CreatedDate = created.Time.UTC()
			out = append(out, e)
			return nil
		})
	return out, err
}

func (s *Source) loadClearance(ctx context.Context) ([]records.ClearanceRecord, error) {
	var out []records.ClearanceRecord
	err := s.query(ctx, "tc",
		"SELECT objectid, pin, coalesce(t_review, 'N'), t_last_review_date, coalesce(c_review, 'N'), c_last_review_date FROM tc ORDER BY objectid",
		func(rows pgx.Rows) error {
			var (
				objectID         int64
				row              records.ClearanceRecord
				pin              pgtype.Text
				tReview, cReview string
			)
			if err := rows.Scan(&objectID, &pin, &tReview, &row.TreasurerReviewedAt, &cReview, &row.ClerkReviewedAt); err != nil {
				return err
			}
			if err := firstNull(column{"pin", pin.Valid}); err != nil {
				s.skip("tc", objectID, err)
				return nil
			}
			row.PIN = records.NormalizePIN(pin.String)
			row.TreasurerApproved = approved(tReview)
			row.ClerkApproved = approved(cReview)
			row.TreasurerReviewedAt = utcPtr(row.TreasurerReviewedAt)
			row.ClerkReviewedAt = utcPtr(row.ClerkReviewedAt)
			out = append(out, row)
			return nil
		})
	return out, err
}

func (s *Source) loadTCReviews(ctx context.Context) ([]records.TCReview, error) {
	var out []records.TCReview
	err := s.query(ctx, "tc_review",
		"SELECT objectid, pin, review_type, review_result, created_date FROM tc_review ORDER BY objectid",
		func(rows pgx.Rows) error {
			var (
				r                  records.TCReview
				pin                pgtype.Text
				reviewType, result pgtype.Int4
				created            pgtype.Timestamptz
			)
			if err := rows.Scan(&r.ObjectID, &pin, &reviewType, &result, &created); err != nil {
				return err
			}
			if err := firstNull(column{"pin", pin.Valid}, column{"review_type", reviewType.Valid}, column{"review_result", result.Valid}, column{"created_date", created.Valid}); err != nil {
				s.skip("tc_review", r.ObjectID, err)
				return nil
			}
			r.PIN = records.NormalizePIN(pin.String)
			r.Authority = records.Authority(reviewType.Int32)
			r.Result = records.TCResult(result.Int32)
			r.CreatedDate = created.Time.UTC()
			out = append(out, r)
			return nil
		})
	return out, err
}

func (s *Source) loadFollowUps(ctx context.Context) ([]records.FollowUp, error) {
	var out []records.FollowUp
	err := s.query(ctx, "followups",
		"SELECT objectid, doc_guid::text, followup_date FROM followups ORDER BY objectid",
		func(rows pgx.Rows) error {
			var (
				f        records.FollowUp
				docGUID  pgtype.Text
				followed pgtype.Timestamptz
			)
			if err := rows.Scan(&f.ObjectID, &docGUID, &followed); err != nil {
				return err
			}
			if err := firstNull(column{"doc_guid", docGUID.Valid}, column{"followup_date", followed.Valid}); err != nil {
				s.skip("followups", f.ObjectID, err)
				return nil
			}
			id, err := records.ParseGlobalID(docGUID.String)
			if err != nil {
				s.skip("followups", f.ObjectID, err)
				return nil
			}
			f.DocGlobalID = id
			f.FollowUpDate = followed.Time.UTC()
			out = append(out, f)
			return nil
		})
	return out, err
}

// ErrNullColumn marks a row skipped because a required column was NULL.
var ErrNullColumn = errors.New("required column is null")

type column struct {
	name  string
	valid bool
}

func firstNull(cols ...column) error {
	for _, c := range cols {
		if !c.valid {
			return fmt.Errorf("%w: %s", ErrNullColumn, c.name)
		}
	}
	return nil
}

func approved(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "Y")
}

func utcPtr(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	v := ts.UTC()
	return &v
}
