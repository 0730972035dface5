package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

type table struct {
	Name string
	SQL  string
}

// Tables are created in slice order and reset in reverse order.
var tables = []table{
	{
		Name: "authors",
		SQL: `
			CREATE TABLE IF NOT EXISTS authors (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL
			)`,
	},
	{
		Name: "magazines",
		SQL: `
			CREATE TABLE IF NOT EXISTS magazines (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				category TEXT NOT NULL
			)`,
	},
	{
		Name: "articles",
		SQL: `
			CREATE TABLE IF NOT EXISTS articles (
				id INTEGER PRIMARY KEY,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				author_id INTEGER,
				magazine_id INTEGER,
				FOREIGN KEY (author_id) REFERENCES authors (id),
				FOREIGN KEY (magazine_id) REFERENCES magazines (id)
			)`,
	},
}

// TableNames returns the managed tables in creation order.
func TableNames() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// CreateTables ensures the authors, magazines and articles tables exist.
// It is safe to call on a database that already has them.
func CreateTables(c Cursor) error {
	for _, t := range tables {
		if _, err := c.Exec(t.SQL); err != nil {
			return fmt.Errorf("failed to create table %s: %w", t.Name, err)
		}
		log.Trace().Str("table", t.Name).Msg("Table ready")
	}

	log.Debug().Int("tables", len(tables)).Msg("Schema initialized")
	return nil
}

// ResetTables deletes every row from the managed tables, articles first.
func ResetTables(c Cursor) error {
	for i := len(tables) - 1; i >= 0; i-- {
		name := tables[i].Name
		if _, err := c.Exec("DELETE FROM " + name); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", name, err)
		}
	}

	log.Debug().Msg("Tables cleared")
	return nil
}
