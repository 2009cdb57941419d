// Package config loads, normalizes, and validates gisflow configuration data.
//
// It supplies county defaults (GIS-handled document types, status codes, form
// identifiers), expands user paths including tilde shortcuts, reads TOML
// files, and honours environment fallbacks such as GISFLOW_POSTGRES_DSN and
// GISFLOW_REDIS_URL. Always obtain settings through this package so the CLI
// and daemon agree on paths, source drivers, and workflow codes.
package config
