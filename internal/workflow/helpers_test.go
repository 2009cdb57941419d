package workflow_test

import (
	"time"

	"github.com/google/uuid"

	"gisflow/internal/records"
	"gisflow/internal/workflow"
)

var chicago = mustLocation("America/Chicago")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// testNow is mid-2025 in the county's timezone.
var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, chicago)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

// docFixture builds one document and its related rows.
type docFixture struct {
	doc        records.Document
	reviews    []records.Review
	pins       []records.ParcelPIN
	processing []records.ProcessingEntry
	nextID     int64
}

func newDoc(num, docType string, status records.DocumentStatus) *docFixture {
	return &docFixture{
		doc: records.Document{
			ObjectID: int64(len(num)),
			DocNum:   num,
			DocType:  docType,
			GlobalID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(num)),
			Status:   status,
		},
		nextID: 100,
	}
}

func (f *docFixture) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *docFixture) review(result records.ReviewResult, at time.Time) *docFixture {
	f.reviews = append(f.reviews, records.Review{ObjectID: f.id(), DocGlobalID: f.doc.GlobalID, Result: result, CreatedDate: at})
	return f
}

func (f *docFixture) pin(pin string, typ records.PINType, year *int) *docFixture {
	f.pins = append(f.pins, records.ParcelPIN{ObjectID: f.id(), DocGlobalID: f.doc.GlobalID, PIN: pin, Type: typ, Year: year})
	return f
}

func (f *docFixture) entry(step records.ProcessStep, user string, at time.Time) *docFixture {
	f.processing = append(f.processing, records.ProcessingEntry{ObjectID: f.id(), DocGlobalID: f.doc.GlobalID, Step: step, CreatedUser: user, CreatedDate: at})
	return f
}

func snapshotOf(clearance []records.ClearanceRecord, docs ...*docFixture) records.Snapshot {
	snap := records.Snapshot{Clearance: clearance}
	for _, f := range docs {
		snap.Documents = append(snap.Documents, f.doc)
		snap.Reviews = append(snap.Reviews, f.reviews...)
		snap.PINs = append(snap.PINs, f.pins...)
		snap.Processing = append(snap.Processing, f.processing...)
	}
	return snap
}

func evalContext(snap records.Snapshot) (*records.Index, workflow.EvalContext) {
	idx := records.NewIndex(snap, records.IndexOptions{})
	return idx, workflow.EvalContext{
		Rules:     workflow.DefaultRules(),
		Clearance: idx.Clearance(),
		Now:       testNow,
	}
}

func evaluate(f *docFixture, clearance ...records.ClearanceRecord) workflow.Outcome {
	idx, ec := evalContext(snapshotOf(clearance, f))
	return workflow.Evaluate(f.doc, idx, ec)
}

func approvedBoth(pin string, at time.Time) records.ClearanceRecord {
	return records.ClearanceRecord{
		PIN:                 pin,
		TreasurerApproved:   true,
		TreasurerReviewedAt: timePtr(at),
		ClerkApproved:       true,
		ClerkReviewedAt:     timePtr(at),
	}
}
