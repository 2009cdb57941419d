package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// WorkflowRecord is one document still in the workflow.
type WorkflowRecord struct {
	DocNum           string  `json:"doc_num"`
	DocType          string  `json:"doc_type"`
	ProcessingStatus string  `json:"processing_status"`
	DocGUID          string  `json:"doc_guid"`
	Processor        *string `json:"processor"`
	FormID           string  `json:"form_id"`
	ProcessStep      int     `json:"process_step"`
	Warnings         *string `json:"warnings"`
}

// WorkflowResponse wraps one evaluation's records.
type WorkflowResponse struct {
	GeneratedAt string           `json:"generated_at"`
	Counts      map[string]int   `json:"counts"`
	Records     []WorkflowRecord `json:"records"`
}

// QCItem is a Fabric entry awaiting a quality check.
type QCItem struct {
	DocNum      string `json:"doc_num"`
	DocGUID     string `json:"doc_guid"`
	CreatedUser string `json:"created_user"`
}

// QCResponse wraps the QC queue for one requesting user.
type QCResponse struct {
	GeneratedAt string   `json:"generated_at"`
	User        string   `json:"user"`
	Items       []QCItem `json:"items"`
}

// FollowUpItem is a document on hold.
type FollowUpItem struct {
	DocNum    string `json:"doc_num"`
	DaysSince *int   `json:"days_since"`
	DurString string `json:"dur_string"`
	DocID     string `json:"doc_id"`
}

// FollowUpResponse wraps the hold follow-up report.
type FollowUpResponse struct {
	GeneratedAt string         `json:"generated_at"`
	Items       []FollowUpItem `json:"items"`
}

// RetiredPIN is one row of the retired-PIN register.
type RetiredPIN struct {
	PIN                string  `json:"pin"`
	Doc                string  `json:"doc"`
	DocStatus          int     `json:"doc_status"`
	LatestReviewDate   *string `json:"latest_review_date"`
	LatestReviewResult *string `json:"latest_review_result"`
}

// RetiredPINResponse wraps the register.
type RetiredPINResponse struct {
	GeneratedAt string       `json:"generated_at"`
	Items       []RetiredPIN `json:"items"`
}

// EvaluationStatus summarizes the most recent evaluation pass.
type EvaluationStatus struct {
	EvaluatedAt string         `json:"evaluated_at"`
	DurationMS  int64          `json:"duration_ms"`
	Documents   int            `json:"documents"`
	Records     int            `json:"records"`
	Counts      map[string]int `json:"counts"`
	Error       string         `json:"error,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running        bool              `json:"running"`
	PID            int               `json:"pid"`
	Source         string            `json:"source"`
	Cache          string            `json:"cache"`
	LockFilePath   string            `json:"lock_file_path"`
	Timezone       string            `json:"timezone"`
	LastEvaluation *EvaluationStatus `json:"last_evaluation"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
