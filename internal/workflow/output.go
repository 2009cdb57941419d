package workflow

import "gisflow/internal/records"

// Record is one row of the workflow projection.
type Record struct {
	DocNum      string
	DocType     string
	Stage       Stage
	DocGUID     string
	Processor   *string
	FormID      string
	ProcessStep int
	Warnings    *string
}

// NewRecord converts a non-Done outcome into an output row.
func NewRecord(doc records.Document, out Outcome, rules Rules) Record {
	rec := Record{
		DocNum:      doc.DocNum,
		DocType:     out.Track.Label(),
		Stage:       out.Stage,
		DocGUID:     records.FormatGlobalID(doc.GlobalID),
		FormID:      rules.ProcessFormID,
		ProcessStep: out.Stage.Step(),
	}
	if out.Stage == StageReview {
		rec.FormID = rules.ReviewFormID
	}
	if out.Processor != "" {
		p := out.Processor
		rec.Processor = &p
	}
	if w, ok := out.Warnings(); ok {
		rec.Warnings = &w
	}
	return rec
}

// BuildRecords evaluates docs in order and keeps the ones still in the
// workflow. Documents that are not evaluation candidates are skipped.
func BuildRecords(docs []records.Document, res Resolver, ec EvalContext) []Record {
	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		if !ec.Rules.IsCandidate(doc) {
			continue
		}
		o := Evaluate(doc, res, ec)
		if o.Done() {
			continue
		}
		out = append(out, NewRecord(doc, o, ec.Rules))
	}
	return out
}

// CountByStage tallies records per stage.
func CountByStage(recs []Record) map[Stage]int {
	counts := make(map[Stage]int, 4)
	for _, r := range recs {
		counts[r.Stage]++
	}
	return counts
}
