package records

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PINType classifies a parcel identifier attached to a document.
type PINType int

const (
	PINNew         PINType = 1
	PINRemainder   PINType = 2
	PINRetired     PINType = 4
	PINPlaceholder PINType = 5
)

// String returns the domain label for the PIN type.
func (t PINType) String() string {
	switch t {
	case PINNew:
		return "New"
	case PINRemainder:
		return "Remainder"
	case PINRetired:
		return "Retired"
	case PINPlaceholder:
		return "Placeholder"
	default:
		return "Type " + strconv.Itoa(int(t))
	}
}

// Creates reports whether the PIN type is one produced by devnet processing.
func (t PINType) Creates() bool {
	return t == PINNew || t == PINRemainder || t == PINPlaceholder
}

// ParcelPIN is a parcel identifier row attached to a document. Year is the
// tax year the retirement took effect and is nil when not recorded.
type ParcelPIN struct {
	ObjectID    int64
	DocGlobalID uuid.UUID
	PIN         string
	Type        PINType
	Year        *int
}

// NormalizePIN trims surrounding whitespace from a PIN before it is used as a key.
func NormalizePIN(value string) string {
	return strings.TrimSpace(value)
}
