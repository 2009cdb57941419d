package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gisflow/internal/records"
	"gisflow/internal/store"
	"gisflow/internal/testsupport"
)

func TestImportThenLoadRoundTripsSnapshot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	want := testsupport.SampleSnapshot()
	st := testsupport.MustOpenStore(t, cfg)

	stats, err := st.Import(context.Background(), want)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Documents != len(want.Documents) || stats.Clearance != len(want.Clearance) || stats.FollowUps != len(want.FollowUps) {
		t.Fatalf("unexpected import stats: %+v", stats)
	}

	got, err := st.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got.Documents) != len(want.Documents) {
		t.Fatalf("documents: got %d want %d", len(got.Documents), len(want.Documents))
	}
	for i, doc := range got.Documents {
		if doc != want.Documents[i] {
			t.Fatalf("document %d: got %+v want %+v", i, doc, want.Documents[i])
		}
	}
	if len(got.Reviews) != len(want.Reviews) || len(got.PINs) != len(want.PINs) ||
		len(got.Processing) != len(want.Processing) || len(got.TCReviews) != len(want.TCReviews) {
		t.Fatalf("child row counts differ: got %d/%d/%d/%d", len(got.Reviews), len(got.PINs), len(got.Processing), len(got.TCReviews))
	}
	if !got.Reviews[0].CreatedDate.Equal(want.Reviews[0].CreatedDate) {
		t.Fatalf("review timestamp drifted: %v vs %v", got.Reviews[0].CreatedDate, want.Reviews[0].CreatedDate)
	}

	var nilYear, setYear int
	for _, p := range got.PINs {
		if p.Year == nil {
			nilYear++
		} else {
			setYear++
		}
	}
	if nilYear != 2 || setYear != 1 {
		t.Fatalf("pin_year nullability lost: nil=%d set=%d", nilYear, setYear)
	}

	row := got.Clearance[0]
	if !row.TreasurerApproved || !row.ClerkApproved || row.TreasurerReviewedAt == nil || row.ClerkReviewedAt == nil {
		t.Fatalf("clearance row not restored: %+v", row)
	}
}

func TestImportReplacesPreviousContents(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustSeedStore(t, cfg, testsupport.SampleSnapshot())

	if _, err := st.Import(context.Background(), records.Snapshot{}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	counts, err := st.TableCounts(context.Background())
	if err != nil {
		t.Fatalf("TableCounts: %v", err)
	}
	for table, n := range counts {
		if n != 0 {
			t.Fatalf("table %s still has %d rows", table, n)
		}
	}
}

func TestLoadSkipsRowsWithBadGlobalIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustSeedStore(t, cfg, testsupport.SampleSnapshot())

	if err := st.ExecForTest(context.Background(), "UPDATE docs SET globalid = 'not-a-guid' WHERE doc_num = '2025-000101'"); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	snap, err := st.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	for _, doc := range snap.Documents {
		if doc.DocNum == "2025-000101" {
			t.Fatal("expected unreadable document to be skipped")
		}
	}
	if len(snap.Documents) != len(testsupport.SampleSnapshot().Documents)-1 {
		t.Fatalf("unexpected document count %d", len(snap.Documents))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	if err := st.ExecForTest(context.Background(), "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = st.Close()

	_, err := store.OpenPath(cfg.Source.SQLitePath, nil)
	if !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenPathCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snap.db")
	st, err := store.OpenPath(path, nil)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer st.Close()

	version, err := st.SchemaVersion(context.Background())
	if err != nil || version != 1 {
		t.Fatalf("unexpected schema version %d err=%v", version, err)
	}
	if st.Describe() != "sqlite:"+path {
		t.Fatalf("unexpected description %q", st.Describe())
	}
}
