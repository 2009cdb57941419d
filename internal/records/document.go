package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocumentStatus is the coded lifecycle status stored on a recorded document.
// Known values are named below; any other code is carried through unchanged.
type DocumentStatus int

const (
	StatusOpen           DocumentStatus = 0
	StatusClosed         DocumentStatus = 1
	StatusAssessorHold   DocumentStatus = 2
	StatusGISReview      DocumentStatus = 3
	StatusAssessorReview DocumentStatus = 4
	StatusProcessing     DocumentStatus = 5
	StatusDropped        DocumentStatus = 6
)

// String returns a human readable label for the status code.
func (s DocumentStatus) String() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusClosed:
		return "Closed"
	case StatusAssessorHold:
		return "Assessor Hold"
	case StatusGISReview:
		return "GIS Review"
	case StatusAssessorReview:
		return "Assessor Review"
	case StatusProcessing:
		return "Processing"
	case StatusDropped:
		return "Dropped"
	default:
		return "Status " + strconv.Itoa(int(s))
	}
}

// Document is a recorded land instrument.
type Document struct {
	ObjectID int64
	DocNum   string
	DocType  string
	GlobalID uuid.UUID
	Status   DocumentStatus
}

var docTypeCaser = cases.Upper(language.Und)

// NormalizeDocType trims and upper-cases a document type code so set lookups
// are insensitive to how the code was keyed in.
func NormalizeDocType(value string) string {
	return docTypeCaser.String(strings.TrimSpace(value))
}

// ParseGlobalID parses a GlobalID in either plain UUID form or the braced
// upper-case form the geodatabase emits.
func ParseGlobalID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(trimmed, "{")
	trimmed = strings.TrimSuffix(trimmed, "}")
	if trimmed == "" {
		return uuid.Nil, fmt.Errorf("%w: empty value", ErrInvalidGlobalID)
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q: %v", ErrInvalidGlobalID, value, err)
	}
	return id, nil
}

// FormatGlobalID renders id in the braced upper-case form used by the geodatabase.
func FormatGlobalID(id uuid.UUID) string {
	return "{" + strings.ToUpper(id.String()) + "}"
}
