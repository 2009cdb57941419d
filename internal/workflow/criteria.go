package workflow

import "strings"

const (
	LabelDocumentReviewed = "Document Reviewed"
	LabelRetiredPINs      = "Retired PINs Added / Not Needed"
	LabelStatusUpdated    = "Status Updated"
	LabelDevnetProcessed  = "Devnet Processed"
	LabelNewPINs          = "New / Remainder / Placeholder PIN(s) Added"
	LabelFabricProcessed  = "Fabric Processed"
)

const (
	markMet   = "✔️"
	markUnmet = "❌"
)

// Criterion is one labelled completion check for a stage.
type Criterion struct {
	Label string
	Met   bool
}

// FormatCriteria renders criteria as "<mark> <label>" entries joined by "|",
// keeping input order.
func FormatCriteria(criteria []Criterion) string {
	parts := make([]string, 0, len(criteria))
	for _, c := range criteria {
		mark := markUnmet
		if c.Met {
			mark = markMet
		}
		parts = append(parts, mark+" "+c.Label)
	}
	return strings.Join(parts, "|")
}

func allMet(criteria []Criterion) bool {
	for _, c := range criteria {
		if !c.Met {
			return false
		}
	}
	return true
}
