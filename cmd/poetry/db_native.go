//go:build !cgo_sqlite

package main

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// initDB opens the run-history database with the pure-Go SQLite driver.
// This is the default; the cgo_sqlite build tag swaps in the cgo one.
func initDB(dataSource string) (*sql.DB, error) {
	return sql.Open("sqlite", dataSource)
}
