package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private, non-persistent database.
const MemoryPath = ":memory:"

const defaultBusyTimeoutMS = 5000

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
	path string
}

// Options controls how a database is opened.
type Options struct {
	// Path is a file path or MemoryPath.
	Path string

	// ForeignKeys turns on PRAGMA foreign_keys for every pooled connection.
	ForeignKeys bool

	// BusyTimeout is how long to wait on a locked database, in milliseconds.
	BusyTimeout int
}

// Connect opens a fresh in-memory database. Two calls never share state.
func Connect() (*DB, error) {
	return New(MemoryPath)
}

// New opens the database at path with default options
func New(path string) (*DB, error) {
	return Open(Options{Path: path, BusyTimeout: defaultBusyTimeoutMS})
}

// Open creates a new database connection
func Open(opts Options) (*DB, error) {
	if opts.Path == "" {
		opts.Path = MemoryPath
	}

	db, err := sql.Open("sqlite", dsn(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is its own database, so the pool must
	// never hand out a second one.
	if isMemory(opts.Path) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug().
		Str("path", opts.Path).
		Bool("foreign_keys", opts.ForeignKeys).
		Msg("Database connection established")

	return &DB{
		DB:   db,
		path: opts.Path,
	}, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// InMemory reports whether the database lives only in this process.
func (db *DB) InMemory() bool {
	return isMemory(db.path)
}

func dsn(opts Options) string {
	pragmas := []string{}
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("_pragma=busy_timeout(%d)", opts.BusyTimeout))
	}
	if opts.ForeignKeys {
		pragmas = append(pragmas, "_pragma=foreign_keys(1)")
	} else {
		pragmas = append(pragmas, "_pragma=foreign_keys(0)")
	}
	if !isMemory(opts.Path) {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(opts.Path, "?") {
		sep = "&"
	}
	return opts.Path + sep + strings.Join(pragmas, "&")
}

func isMemory(path string) bool {
	return path == MemoryPath || strings.Contains(path, "mode=memory")
}
