package records

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one consistent read of every table the workflow needs.
type Snapshot struct {
	Documents  []Document
	Reviews    []Review
	PINs       []ParcelPIN
	Processing []ProcessingEntry
	Clearance  []ClearanceRecord
	TCReviews  []TCReview
	FollowUps  []FollowUp
}

// Index groups a snapshot's child rows by owning document.
//
// Reviews, processing entries, and follow-ups are ordered newest first, ties
// broken by the higher ObjectID. PINs keep ObjectID order.
type Index struct {
	reviews    map[uuid.UUID][]Review
	pins       map[uuid.UUID][]ParcelPIN
	processing map[uuid.UUID][]ProcessingEntry
	followUps  map[uuid.UUID][]FollowUp
	clearance  ClearanceIndex
	byGlobalID map[uuid.UUID]Document
}

// IndexOptions tunes how an Index is built.
type IndexOptions struct {
	// DeriveClearance folds raw T/C review events into clearance rows when the
	// snapshot carries no clearance table.
	DeriveClearance bool
}

// NewIndex builds an Index over snap.
func NewIndex(snap Snapshot, opts IndexOptions) *Index {
	idx := &Index{
		reviews:    groupBy(snap.Reviews, func(r Review) uuid.UUID { return r.DocGlobalID }),
		pins:       groupBy(snap.PINs, func(p ParcelPIN) uuid.UUID { return p.DocGlobalID }),
		processing: groupBy(snap.Processing, func(p ProcessingEntry) uuid.UUID { return p.DocGlobalID }),
		followUps:  groupBy(snap.FollowUps, func(f FollowUp) uuid.UUID { return f.DocGlobalID }),
		byGlobalID: make(map[uuid.UUID]Document, len(snap.Documents)),
	}
	for _, doc := range snap.Documents {
		idx.byGlobalID[doc.GlobalID] = doc
	}
	for _, rows := range idx.reviews {
		slices.SortFunc(rows, func(a, b Review) int {
			return newestFirst(a.CreatedDate, a.ObjectID, b.CreatedDate, b.ObjectID)
		})
	}
	for _, rows := range idx.processing {
		slices.SortFunc(rows, func(a, b ProcessingEntry) int {
			return newestFirst(a.CreatedDate, a.ObjectID, b.CreatedDate, b.ObjectID)
		})
	}
	for _, rows := range idx.followUps {
		slices.SortFunc(rows, func(a, b FollowUp) int {
			return newestFirst(a.FollowUpDate, a.ObjectID, b.FollowUpDate, b.ObjectID)
		})
	}
	for _, rows := range idx.pins {
		slices.SortFunc(rows, func(a, b ParcelPIN) int { return cmp.Compare(a.ObjectID, b.ObjectID) })
	}

	clearance := snap.Clearance
	if len(clearance) == 0 && opts.DeriveClearance {
		clearance = ClearanceFromReviews(snap.TCReviews)
	}
	idx.clearance = NewClearanceIndex(clearance)
	return idx
}

// Reviews returns doc's reviews, newest first.
func (i *Index) Reviews(doc Document) []Review { return i.reviews[doc.GlobalID] }

// PINs returns doc's parcel identifiers.
func (i *Index) PINs(doc Document) []ParcelPIN { return i.pins[doc.GlobalID] }

// Processing returns doc's processing-log entries, newest first.
func (i *Index) Processing(doc Document) []ProcessingEntry { return i.processing[doc.GlobalID] }

// FollowUps returns doc's hold follow-ups, newest first.
func (i *Index) FollowUps(doc Document) []FollowUp { return i.followUps[doc.GlobalID] }

// Clearance returns the global PIN clearance lookup.
func (i *Index) Clearance() ClearanceIndex { return i.clearance }

// Document returns the document owning globalID.
func (i *Index) Document(globalID uuid.UUID) (Document, bool) {
	doc, ok := i.byGlobalID[globalID]
	return doc, ok
}

func groupBy[T any](rows []T, key func(T) uuid.UUID) map[uuid.UUID][]T {
	out := make(map[uuid.UUID][]T)
	for _, row := range rows {
		k := key(row)
		out[k] = append(out[k], row)
	}
	return out
}

func newestFirst(aTime time.Time, aID int64, bTime time.Time, bID int64) int {
	if c := bTime.Compare(aTime); c != 0 {
		return c
	}
	return cmp.Compare(bID, aID)
}
