package database

import "database/sql"

// Cursor is a handle for issuing statements against an open connection.
// *DB, *sql.DB and *sql.Tx all satisfy it.
type Cursor interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var (
	_ Cursor = (*DB)(nil)
	_ Cursor = (*sql.Tx)(nil)
)
