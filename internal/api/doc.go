// Package api defines wire-format types and converters for the HTTP API and
// the CLI's --json output. It translates workflow records and report rows
// into transport-friendly DTOs so consumers never couple to internal types.
//
// # Key Types
//
// WorkflowRecord: one document still moving through the GIS workflow, with
// its stage, checklist warnings, and the form a technician should open.
//
// QCItem, FollowUpItem, RetiredPIN: rows of the supplementary reports.
//
// DaemonStatus: daemon runtime information including the last evaluation.
//
// # Converters
//
// FromRecords, FromQCItems, FromFollowUps, FromRetiredPINs convert domain
// rows; FromEvaluation summarizes a pass for the status endpoint.
//
// # Design Notes
//
// DTOs use snake_case JSON tags matching the column names the county's
// dashboards already bind to. Optional values are pointers and encode as
// null rather than being omitted, so every row carries the same keys.
// Timestamps use RFC3339 with milliseconds.
package api
