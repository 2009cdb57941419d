// Package main hosts the gisflow CLI entrypoint and command graph.
//
// Commands resolve configuration once, open the configured snapshot source,
// and run the same projection service the daemon serves, so a terminal
// `gisflow evaluate` and GET /api/workflow agree. Snapshot maintenance (db
// init, import, export), config scaffolding, and preflight checks also live
// here. Keep the heavy lifting in internal packages and surface it through
// thin commands.
package main
