// Package store keeps a local SQLite copy of the recorded document workflow
// tables and reads it back as a records.Snapshot.
//
// The schema mirrors the geodatabase layout (docs, gis_review, pins,
// gis_processing, tc, tc_review, followups) with timestamps stored as RFC 3339
// text in UTC. The database is seeded with `gisflow db import` and is treated
// as a disposable snapshot: schema changes bump schemaVersion and users
// re-import rather than migrate.
package store
