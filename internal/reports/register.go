package reports

import (
	"cmp"
	"slices"
	"time"

	"gisflow/internal/records"
)

// RetiredPIN is one row of the retired-PIN register.
type RetiredPIN struct {
	PIN       string
	DocNum    string
	DocStatus records.DocumentStatus
	// LatestReviewDate and LatestReviewResult describe the newest treasurer
	// review of the PIN; both are nil when there is none.
	LatestReviewDate   *time.Time
	LatestReviewResult *string
}

// RetiredPINRegister lists each distinct retired PIN once, attributed to the
// lowest-numbered document that retires it, ordered by document number.
func RetiredPINRegister(snap records.Snapshot, idx *records.Index) []RetiredPIN {
	latest := latestTreasurerReviews(snap.TCReviews)

	rows := make([]RetiredPIN, 0)
	for _, p := range snap.PINs {
		if p.Type != records.PINRetired {
			continue
		}
		doc, ok := idx.Document(p.DocGlobalID)
		if !ok {
			continue
		}
		row := RetiredPIN{PIN: p.PIN, DocNum: doc.DocNum, DocStatus: doc.Status}
		if r, ok := latest[p.PIN]; ok {
			at := r.CreatedDate
			label := r.Result.String()
			row.LatestReviewDate = &at
			row.LatestReviewResult = &label
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b RetiredPIN) int { return cmp.Compare(a.DocNum, b.DocNum) })

	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		if _, dup := seen[row.PIN]; dup {
			continue
		}
		seen[row.PIN] = struct{}{}
		out = append(out, row)
	}
	return out
}

func latestTreasurerReviews(reviews []records.TCReview) map[string]records.TCReview {
	out := make(map[string]records.TCReview)
	for _, r := range reviews {
		if r.Authority != records.AuthorityTreasurer {
			continue
		}
		cur, ok := out[r.PIN]
		if !ok || r.CreatedDate.After(cur.CreatedDate) ||
			(r.CreatedDate.Equal(cur.CreatedDate) && r.ObjectID > cur.ObjectID) {
			out[r.PIN] = r
		}
	}
	return out
}
