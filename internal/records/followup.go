package records

import (
	"time"

	"github.com/google/uuid"
)

// FollowUp records a contact made while a document sits on assessor hold.
type FollowUp struct {
	ObjectID     int64
	DocGlobalID  uuid.UUID
	FollowUpDate time.Time
}
