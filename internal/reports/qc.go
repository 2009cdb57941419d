package reports

import (
	"strings"

	"gisflow/internal/records"
)

// QCItem is one Fabric entry awaiting a quality check.
type QCItem struct {
	DocNum      string
	DocGUID     string
	CreatedUser string
}

// QCQueue lists Fabric entries made by someone other than user on documents
// with no QC entry yet. User names compare exactly, as the geodatabase stores
// them. An empty user excludes nobody. One item is produced per qualifying
// Fabric entry, in snapshot order.
func QCQueue(snap records.Snapshot, idx *records.Index, user string) []QCItem {
	user = strings.TrimSpace(user)
	out := make([]QCItem, 0)
	for _, entry := range snap.Processing {
		if entry.Step != records.StepFabric {
			continue
		}
		if user != "" && entry.CreatedUser == user {
			continue
		}
		doc, ok := idx.Document(entry.DocGlobalID)
		if !ok || hasQC(idx.Processing(doc)) {
			continue
		}
		out = append(out, QCItem{
			DocNum:      doc.DocNum,
			DocGUID:     records.FormatGlobalID(doc.GlobalID),
			CreatedUser: entry.CreatedUser,
		})
	}
	return out
}

func hasQC(entries []records.ProcessingEntry) bool {
	for _, e := range entries {
		if e.Step == records.StepQC {
			return true
		}
	}
	return false
}
