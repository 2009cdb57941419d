package records

import "errors"

// ErrInvalidGlobalID reports a GlobalID that cannot be parsed as a UUID.
var ErrInvalidGlobalID = errors.New("invalid global id")
