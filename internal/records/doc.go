// Package records defines the typed recorded-document entities gisflow reads
// from the county records geodatabase.
//
// Documents own reviews, parcel identifier (PIN) rows, processing-log entries,
// and hold follow-ups through their GlobalID. Treasurer/clerk clearance rows are
// global and keyed by PIN. Every coded field is a closed enumeration whose
// unknown values are preserved instead of rejected, so a surprising code never
// aborts an evaluation pass.
//
// Snapshot gathers one consistent read of every table and Index groups the
// child rows per document in the order the workflow evaluator expects.
package records
