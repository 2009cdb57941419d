package workflow

import (
	"time"

	"gisflow/internal/records"
)

// Resolver supplies a document's related rows.
type Resolver interface {
	Reviews(records.Document) []records.Review
	PINs(records.Document) []records.ParcelPIN
	Processing(records.Document) []records.ProcessingEntry
}

// EvalContext carries the read-only inputs shared by every document in a pass.
type EvalContext struct {
	Rules     Rules
	Clearance records.ClearanceIndex
	// Now fixes the current calendar year; its location decides which year a
	// clearance date falls in.
	Now time.Time
}

// Outcome is the result of evaluating one document. Criteria is set for the
// Review, Devnet and Fabric stages only.
type Outcome struct {
	Stage    Stage
	Track    Track
	Criteria []Criterion
	// Processor is the user behind the latest processing entry for the
	// outcome's step, empty when there is none.
	Processor string
}

// Done reports whether the document needs no further GIS work.
func (o Outcome) Done() bool { return o.Stage == StageDone }

// Warnings returns the formatted criteria and whether there are any.
func (o Outcome) Warnings() (string, bool) {
	if len(o.Criteria) == 0 {
		return "", false
	}
	return FormatCriteria(o.Criteria), true
}

// Evaluate runs doc through the workflow gates and returns the first stage
// whose completion criteria are unmet.
func Evaluate(doc records.Document, res Resolver, ec EvalContext) Outcome {
	rules := ec.Rules
	review := ResolveReview(doc, res.Reviews(doc), rules)
	pins := res.PINs(doc)
	out := Outcome{Track: review.Track}

	// Open documents only reach evaluation on the GIS track, so Open and GIS
	// Review both mean the reviewer has not moved the status yet.
	statusUpdated := doc.Status != rules.GISReviewStatus && doc.Status != rules.OpenStatus
	reviewCriteria := []Criterion{
		{Label: LabelDocumentReviewed, Met: review.HasReview},
		{Label: LabelRetiredPINs, Met: !review.SplitCombo() || hasRetiredPIN(pins)},
		{Label: LabelStatusUpdated, Met: statusUpdated},
	}
	if !allMet(reviewCriteria) {
		out.Stage = StageReview
		out.Criteria = reviewCriteria
		return out
	}

	entries := res.Processing(doc)
	if !review.SplitCombo() {
		if review.Track == TrackAssessor {
			out.Stage = StageDone
			return out
		}
		return fabricGate(out, doc, review, entries, rules)
	}

	candidates := RetirementCandidates(pins, ec.Now.Year())
	if !PINsCleared(candidates, ec.Clearance, ec.Now) {
		out.Stage = StagePendingTC
		return out
	}

	devnetEntry, devnetDone := latestEntry(entries, records.StepDevnet)
	devnetCriteria := []Criterion{
		{Label: LabelDevnetProcessed, Met: devnetDone},
		{Label: LabelNewPINs, Met: hasCreatedPIN(pins)},
	}
	if !allMet(devnetCriteria) {
		out.Stage = StageDevnet
		out.Criteria = devnetCriteria
		if devnetDone {
			out.Processor = devnetEntry.CreatedUser
		}
		return out
	}

	return fabricGate(out, doc, review, entries, rules)
}

func fabricGate(out Outcome, doc records.Document, review ReviewState, entries []records.ProcessingEntry, rules Rules) Outcome {
	fabricEntry, fabricDone := latestEntry(entries, records.StepFabric)
	statusChanged := doc.Status != rules.ProcessingStatus
	if (fabricDone && statusChanged) || review.NoFurtherAction() {
		out.Stage = StageDone
		return out
	}
	out.Stage = StageFabric
	out.Criteria = []Criterion{
		{Label: LabelFabricProcessed, Met: fabricDone},
		{Label: LabelStatusUpdated, Met: statusChanged},
	}
	if fabricDone {
		out.Processor = fabricEntry.CreatedUser
	}
	return out
}

func latestEntry(entries []records.ProcessingEntry, step records.ProcessStep) (records.ProcessingEntry, bool) {
	var (
		latest records.ProcessingEntry
		found  bool
	)
	for _, e := range entries {
		if e.Step != step {
			continue
		}
		if !found || e.CreatedDate.After(latest.CreatedDate) ||
			(e.CreatedDate.Equal(latest.CreatedDate) && e.ObjectID > latest.ObjectID) {
			latest = e
			found = true
		}
	}
	return latest, found
}

func hasRetiredPIN(pins []records.ParcelPIN) bool {
	for _, p := range pins {
		if p.Type == records.PINRetired {
			return true
		}
	}
	return false
}

func hasCreatedPIN(pins []records.ParcelPIN) bool {
	for _, p := range pins {
		if p.Type.Creates() {
			return true
		}
	}
	return false
}
