package api

import (
	"time"

	"gisflow/internal/reports"
	"gisflow/internal/workflow"
)

// FromRecord converts a workflow record to its API representation.
func FromRecord(rec workflow.Record) WorkflowRecord {
	return WorkflowRecord{
		DocNum:           rec.DocNum,
		DocType:          rec.DocType,
		ProcessingStatus: rec.Stage.String(),
		DocGUID:          rec.DocGUID,
		Processor:        rec.Processor,
		FormID:           rec.FormID,
		ProcessStep:      rec.ProcessStep,
		Warnings:         rec.Warnings,
	}
}

// FromRecords converts workflow records, never returning nil so the JSON
// payload carries an empty array.
func FromRecords(recs []workflow.Record) []WorkflowRecord {
	out := make([]WorkflowRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromRecord(rec))
	}
	return out
}

// NewWorkflowResponse builds the workflow payload with per-stage counts.
func NewWorkflowResponse(generatedAt time.Time, recs []workflow.Record) WorkflowResponse {
	return WorkflowResponse{
		GeneratedAt: FormatTime(generatedAt),
		Counts:      StageCounts(workflow.CountByStage(recs)),
		Records:     FromRecords(recs),
	}
}

// StageCounts renders per-stage counts keyed by stage label, listing every
// workflow stage even when empty.
func StageCounts(counts map[workflow.Stage]int) map[string]int {
	out := make(map[string]int, len(workflow.ActiveStages))
	for _, stage := range workflow.ActiveStages {
		out[stage.String()] = counts[stage]
	}
	return out
}

// FilterStage returns a copy of resp holding only records in stage. Counts
// are left untouched.
func FilterStage(resp WorkflowResponse, stage workflow.Stage) WorkflowResponse {
	filtered := make([]WorkflowRecord, 0, len(resp.Records))
	label := stage.String()
	for _, rec := range resp.Records {
		if rec.ProcessingStatus == label {
			filtered = append(filtered, rec)
		}
	}
	resp.Records = filtered
	return resp
}

// FromQCItems converts QC queue rows.
func FromQCItems(items []reports.QCItem) []QCItem {
	out := make([]QCItem, 0, len(items))
	for _, it := range items {
		out = append(out, QCItem{DocNum: it.DocNum, DocGUID: it.DocGUID, CreatedUser: it.CreatedUser})
	}
	return out
}

// FromFollowUps converts hold follow-up rows.
func FromFollowUps(items []reports.FollowUpItem) []FollowUpItem {
	out := make([]FollowUpItem, 0, len(items))
	for _, it := range items {
		out = append(out, FollowUpItem{DocNum: it.DocNum, DaysSince: it.DaysSince, DurString: it.Summary, DocID: it.DocGUID})
	}
	return out
}

// FromRetiredPINs converts register rows.
func FromRetiredPINs(items []reports.RetiredPIN) []RetiredPIN {
	out := make([]RetiredPIN, 0, len(items))
	for _, it := range items {
		row := RetiredPIN{
			PIN:                it.PIN,
			Doc:                it.DocNum,
			DocStatus:          int(it.DocStatus),
			LatestReviewResult: it.LatestReviewResult,
		}
		if it.LatestReviewDate != nil {
			s := FormatTime(*it.LatestReviewDate)
			row.LatestReviewDate = &s
		}
		out = append(out, row)
	}
	return out
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
