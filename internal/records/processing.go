package records

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ProcessStep identifies which processing step a log entry records.
type ProcessStep int

const (
	StepDevnet ProcessStep = 0
	StepFabric ProcessStep = 1
	StepQC     ProcessStep = 2
)

// String returns the domain label for the step.
func (s ProcessStep) String() string {
	switch s {
	case StepDevnet:
		return "Devnet"
	case StepFabric:
		return "Fabric"
	case StepQC:
		return "QC"
	default:
		return "Step " + strconv.Itoa(int(s))
	}
}

// ProcessingEntry is one processing-log row attached to a document.
type ProcessingEntry struct {
	ObjectID    int64
	DocGlobalID uuid.UUID
	Step        ProcessStep
	CreatedUser string
	CreatedDate time.Time
}
