package records

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ReviewResult is the outcome code recorded by a GIS review.
type ReviewResult int

const (
	ReviewGoodLegal       ReviewResult = 1
	ReviewSplitCombo      ReviewResult = 2
	ReviewNoFurtherAction ReviewResult = 3
)

// String returns the domain label for the result code.
func (r ReviewResult) String() string {
	switch r {
	case ReviewGoodLegal:
		return "Good Legal"
	case ReviewSplitCombo:
		return "Split / Combo"
	case ReviewNoFurtherAction:
		return "No Further Action"
	default:
		return "Result " + strconv.Itoa(int(r))
	}
}

// Known reports whether the code is one of the named results.
func (r ReviewResult) Known() bool {
	return r >= ReviewGoodLegal && r <= ReviewNoFurtherAction
}

// Review is one GIS review event attached to a document.
type Review struct {
	ObjectID    int64
	DocGlobalID uuid.UUID
	Result      ReviewResult
	CreatedDate time.Time
}
