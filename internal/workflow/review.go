package workflow

import "gisflow/internal/records"

// Track distinguishes documents GIS owns outright from ones the assessor
// hands over.
type Track int

const (
	TrackAssessor Track = iota
	TrackGIS
)

// Label returns the short code used in output records.
func (t Track) Label() string {
	if t == TrackGIS {
		return "gis"
	}
	return "assr"
}

// ReviewState summarises a document's review history.
type ReviewState struct {
	HasReview bool
	// Latest is the result of the most recent review; zero when HasReview is false.
	Latest records.ReviewResult
	Track  Track
}

// SplitCombo reports whether the latest review requires parcel splits or combinations.
func (s ReviewState) SplitCombo() bool {
	return s.HasReview && s.Latest == records.ReviewSplitCombo
}

// NoFurtherAction reports whether the latest review closed the document out.
func (s ReviewState) NoFurtherAction() bool {
	return s.HasReview && s.Latest == records.ReviewNoFurtherAction
}

// ResolveReview picks the latest review by creation time, breaking ties on
// the higher ObjectID, and classifies the document's track.
func ResolveReview(doc records.Document, reviews []records.Review, rules Rules) ReviewState {
	state := ReviewState{Track: TrackAssessor}
	if rules.IsGISType(doc.DocType) {
		state.Track = TrackGIS
	}
	if len(reviews) == 0 {
		return state
	}
	latest := reviews[0]
	for _, r := range reviews[1:] {
		if r.CreatedDate.After(latest.CreatedDate) ||
			(r.CreatedDate.Equal(latest.CreatedDate) && r.ObjectID > latest.ObjectID) {
			latest = r
		}
	}
	state.HasReview = true
	state.Latest = latest.Result
	return state
}
