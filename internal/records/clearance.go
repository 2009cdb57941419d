package records

import (
	"sort"
	"time"
)

// ClearanceRecord is one treasurer/clerk sign-off row for a PIN.
type ClearanceRecord struct {
	PIN                 string
	TreasurerApproved   bool
	TreasurerReviewedAt *time.Time
	ClerkApproved       bool
	ClerkReviewedAt     *time.Time
}

// ClearanceIndex is a read-only lookup of clearance rows by PIN. A PIN may
// carry several rows; callers decide how to combine them.
type ClearanceIndex struct {
	byPIN map[string][]ClearanceRecord
}

// NewClearanceIndex groups rows by normalized PIN. Rows without a PIN are ignored.
func NewClearanceIndex(rows []ClearanceRecord) ClearanceIndex {
	idx := ClearanceIndex{byPIN: make(map[string][]ClearanceRecord, len(rows))}
	for _, row := range rows {
		key := NormalizePIN(row.PIN)
		if key == "" {
			continue
		}
		idx.byPIN[key] = append(idx.byPIN[key], row)
	}
	return idx
}

// Lookup returns the rows recorded for pin.
func (c ClearanceIndex) Lookup(pin string) []ClearanceRecord {
	if c.byPIN == nil {
		return nil
	}
	return c.byPIN[NormalizePIN(pin)]
}

// Len reports the number of distinct PINs in the index.
func (c ClearanceIndex) Len() int {
	return len(c.byPIN)
}

// Authority identifies which office recorded a T/C review event.
type Authority int

const (
	AuthorityTreasurer Authority = 0
	AuthorityClerk     Authority = 1
)

// String returns the office name.
func (a Authority) String() string {
	switch a {
	case AuthorityTreasurer:
		return "Treasurer"
	case AuthorityClerk:
		return "Clerk"
	default:
		return "Unknown"
	}
}

// TCResult is the outcome code of a treasurer or clerk review event.
type TCResult int

// TCApproved is the only result that counts toward clearance.
const TCApproved TCResult = 1

// String returns the domain label for the result.
func (r TCResult) String() string {
	if r == TCApproved {
		return "Approved"
	}
	return "Not Approved"
}

// TCReview is a raw treasurer or clerk review event recorded against a PIN.
type TCReview struct {
	ObjectID    int64
	PIN         string
	Authority   Authority
	Result      TCResult
	CreatedDate time.Time
}

// ClearanceFromReviews folds raw review events into one clearance row per PIN.
// An office counts as approved when it has any approved event; the review date
// is that office's most recent approved event.
func ClearanceFromReviews(events []TCReview) []ClearanceRecord {
	byPIN := make(map[string]*ClearanceRecord)
	var order []string
	for _, ev := range events {
		key := NormalizePIN(ev.PIN)
		if key == "" {
			continue
		}
		row, ok := byPIN[key]
		if !ok {
			row = &ClearanceRecord{PIN: key}
			byPIN[key] = row
			order = append(order, key)
		}
		if ev.Result != TCApproved {
			continue
		}
		at := ev.CreatedDate
		switch ev.Authority {
		case AuthorityTreasurer:
			row.TreasurerApproved = true
			if row.TreasurerReviewedAt == nil || at.After(*row.TreasurerReviewedAt) {
				row.TreasurerReviewedAt = &at
			}
		case AuthorityClerk:
			row.ClerkApproved = true
			if row.ClerkReviewedAt == nil || at.After(*row.ClerkReviewedAt) {
				row.ClerkReviewedAt = &at
			}
		}
	}
	sort.Strings(order)
	out := make([]ClearanceRecord, 0, len(order))
	for _, key := range order {
		out = append(out, *byPIN[key])
	}
	return out
}
