package workflow

import "gisflow/internal/records"

// DefaultGISDocTypes lists the document types routed straight to GIS without
// an assessor review.
var DefaultGISDocTypes = []string{
	"ANXA", "ANXO", "COMD", "CORR", "MREC", "ORDI", "PLAT", "RESL",
	"ORD", "DEC", "SUBN", "CONS", "NOT", "OR", "SR", "DED",
}

const (
	DefaultReviewFormID  = "b6c2f164b6e646c099850e8a974ad194"
	DefaultProcessFormID = "2ed60a8996484596bd821f7b5807a358"
)

// Rules carries the site-specific codes the evaluator compares against.
type Rules struct {
	gisTypes map[string]struct{}

	OpenStatus       records.DocumentStatus
	HoldStatus       records.DocumentStatus
	GISReviewStatus  records.DocumentStatus
	ProcessingStatus records.DocumentStatus
	DroppedStatus    records.DocumentStatus

	ReviewFormID  string
	ProcessFormID string
}

// DefaultRules returns the county's production codes.
func DefaultRules() Rules {
	return Rules{
		gisTypes:         docTypeSet(DefaultGISDocTypes),
		OpenStatus:       records.StatusOpen,
		HoldStatus:       records.StatusAssessorHold,
		GISReviewStatus:  records.StatusGISReview,
		ProcessingStatus: records.StatusProcessing,
		DroppedStatus:    records.StatusDropped,
		ReviewFormID:     DefaultReviewFormID,
		ProcessFormID:    DefaultProcessFormID,
	}
}

// WithGISDocTypes returns a copy of r using types as the GIS-handled set.
func (r Rules) WithGISDocTypes(types []string) Rules {
	r.gisTypes = docTypeSet(types)
	return r
}

// GISDocTypes returns the GIS-handled set in no particular order.
func (r Rules) GISDocTypes() []string {
	out := make([]string, 0, len(r.gisTypes))
	for t := range r.gisTypes {
		out = append(out, t)
	}
	return out
}

// IsGISType reports whether docType is routed straight to GIS.
func (r Rules) IsGISType(docType string) bool {
	_, ok := r.gisTypes[records.NormalizeDocType(docType)]
	return ok
}

// IsCandidate reports whether doc belongs in the evaluation pass: not on
// hold, not dropped, and either past intake or a GIS-handled type.
func (r Rules) IsCandidate(doc records.Document) bool {
	if doc.Status == r.HoldStatus || doc.Status == r.DroppedStatus {
		return false
	}
	return doc.Status != r.OpenStatus || r.IsGISType(doc.DocType)
}

// Candidates filters docs down to the evaluation set, preserving order.
func Candidates(docs []records.Document, rules Rules) []records.Document {
	out := make([]records.Document, 0, len(docs))
	for _, doc := range docs {
		if rules.IsCandidate(doc) {
			out = append(out, doc)
		}
	}
	return out
}

func docTypeSet(types []string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		if n := records.NormalizeDocType(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
