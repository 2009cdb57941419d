// Package daemon coordinates the long-running gisflowd process.
//
// It wires configuration, the snapshot source, the report cache, and the
// projection service into a single lifecycle with flock-based locking to
// prevent multiple instances, and serves the workflow projection and reports
// over a read-only JSON API.
//
// Keep orchestration logic here: evaluation lives in internal/workflow and
// report assembly in internal/reports, while the daemon focuses on startup,
// shutdown, and HTTP plumbing.
package daemon
