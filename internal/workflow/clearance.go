package workflow

import (
	"time"

	"gisflow/internal/records"
)

// RetirementCandidates returns the retired PINs that still need treasurer and
// clerk sign-off: those with no retirement year or one before currentYear.
func RetirementCandidates(pins []records.ParcelPIN, currentYear int) []records.ParcelPIN {
	var out []records.ParcelPIN
	for _, p := range pins {
		if p.Type != records.PINRetired {
			continue
		}
		if p.Year == nil || *p.Year < currentYear {
			out = append(out, p)
		}
	}
	return out
}

// PINCleared reports whether pin has been signed off in now's calendar year.
// A PIN retired in the current year needs no sign-off.
func PINCleared(pin records.ParcelPIN, clearance records.ClearanceIndex, now time.Time) bool {
	year := now.Year()
	if pin.Year != nil && *pin.Year == year {
		return true
	}
	// Review dates are compared in now's zone, the county's calendar year,
	// not in the UTC the geodatabase stores them in.
	for _, row := range clearance.Lookup(pin.PIN) {
		if signedOff(row, year, now.Location()) {
			return true
		}
	}
	return false
}

// PINsCleared reports whether every candidate PIN is cleared. An empty set is
// not cleared: a split/combo with nothing to retire stays pending.
func PINsCleared(candidates []records.ParcelPIN, clearance records.ClearanceIndex, now time.Time) bool {
	if len(candidates) == 0 {
		return false
	}
	for _, p := range candidates {
		if !PINCleared(p, clearance, now) {
			return false
		}
	}
	return true
}

func signedOff(row records.ClearanceRecord, year int, loc *time.Location) bool {
	if !row.TreasurerApproved || !row.ClerkApproved {
		return false
	}
	return inYear(row.TreasurerReviewedAt, year, loc) && inYear(row.ClerkReviewedAt, year, loc)
}

func inYear(ts *time.Time, year int, loc *time.Location) bool {
	if ts == nil {
		return false
	}
	return ts.In(loc).Year() == year
}
