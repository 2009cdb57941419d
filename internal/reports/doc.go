// Package reports builds the supplementary work queues that sit beside the
// stage projection: the QC queue, hold follow-ups, and the retired-PIN
// register. Each report is a pure function of a snapshot index.
package reports
