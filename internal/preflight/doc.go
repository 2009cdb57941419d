// Package preflight provides readiness checks for the filesystem paths and
// external services gisflow depends on.
//
// The CLI "gisflow doctor" command runs RunAll and prints each Result. The
// individual checks are also usable on their own, for example to verify a
// source before starting the daemon.
//
// Each check is gated by its config toggle: the Redis check only runs when
// the Redis cache backend is selected.
package preflight
