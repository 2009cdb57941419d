package reports

import (
	"fmt"
	"math"
	"time"

	"gisflow/internal/records"
)

// NotFollowedUp is the summary for a hold document with no follow-up rows.
const NotFollowedUp = "Not followed up yet."

// FollowUpItem is one document on hold.
type FollowUpItem struct {
	DocNum    string
	DocGUID   string
	DaysSince *int
	Summary   string
}

// FollowUps lists every document in holdStatus with the whole days elapsed
// since its latest follow-up, in snapshot order.
func FollowUps(snap records.Snapshot, idx *records.Index, holdStatus records.DocumentStatus, now time.Time) []FollowUpItem {
	out := make([]FollowUpItem, 0)
	for _, doc := range snap.Documents {
		if doc.Status != holdStatus {
			continue
		}
		item := FollowUpItem{
			DocNum:  doc.DocNum,
			DocGUID: records.FormatGlobalID(doc.GlobalID),
			Summary: NotFollowedUp,
		}
		if fups := idx.FollowUps(doc); len(fups) > 0 {
			days := DaysSince(now, fups[0].FollowUpDate)
			item.DaysSince = &days
			item.Summary = fmt.Sprintf("Last followed up %d days ago.", days)
		}
		out = append(out, item)
	}
	return out
}

// DaysSince returns the floor of the elapsed days from then to now. A future
// date yields a negative count.
func DaysSince(now, then time.Time) int {
	return int(math.Floor(now.Sub(then).Hours() / 24))
}
