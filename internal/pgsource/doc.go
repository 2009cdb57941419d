// Package pgsource reads the recorded document workflow tables straight from
// the county's enterprise geodatabase over PostgreSQL.
//
// Table and column names follow the geodatabase layout the local SQLite
// snapshot mirrors. GlobalIDs are selected as text so both uuid and varchar
// column types work.
package pgsource
