// Package projection runs evaluation passes: it reads a snapshot from the
// configured source, evaluates every candidate document, and renders the
// workflow projection and supplementary reports.
//
// Rendered reports are cached as encoded JSON so the HTTP API and the CLI's
// --json output share one representation. Concurrent misses for the same
// report share a single snapshot read.
package projection
