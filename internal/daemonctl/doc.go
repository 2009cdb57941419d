// Package daemonctl starts, stops, and queries a background gisflow daemon
// through its HTTP status endpoint and pid file.
package daemonctl
