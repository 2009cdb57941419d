package workflow

import (
	"fmt"
	"strings"
)

// Stage is the workflow position a document is waiting in.
type Stage int

const (
	StageReview Stage = iota
	StagePendingTC
	StageDevnet
	StageFabric
	StageDone
)

// ActiveStages lists the stages a projected record can be in, in workflow
// order.
var ActiveStages = []Stage{StageReview, StagePendingTC, StageDevnet, StageFabric}

// String returns the label used in output records.
func (s Stage) String() string {
	switch s {
	case StageReview:
		return "Review"
	case StagePendingTC:
		return "Pending T/C"
	case StageDevnet:
		return "Devnet"
	case StageFabric:
		return "Fabric"
	case StageDone:
		return "Done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Step returns the process_step code recorded for the stage.
func (s Stage) Step() int {
	switch s {
	case StageReview:
		return -1
	case StageFabric:
		return 1
	default:
		return 0
	}
}

// ParseStage accepts a stage label case-insensitively. "tc", "pending" and
// "pending-tc" are accepted for Pending T/C.
func ParseStage(value string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "review":
		return StageReview, nil
	case "pending t/c", "pending-tc", "pending", "tc":
		return StagePendingTC, nil
	case "devnet":
		return StageDevnet, nil
	case "fabric":
		return StageFabric, nil
	case "done":
		return StageDone, nil
	default:
		return 0, fmt.Errorf("unknown stage %q (want review, pending-tc, devnet, fabric)", value)
	}
}
