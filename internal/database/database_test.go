package database

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

func newMemoryDB(t *testing.T) *DB {
	t.Helper()
	db, err := Connect()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, c Cursor, table string) int {
	t.Helper()
	var n int
	if err := c.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

func TestCreateTables_Idempotent(t *testing.T) {
	db := newMemoryDB(t)

	for i := 0; i < 2; i++ {
		if err := CreateTables(db); err != nil {
			t.Fatalf("CreateTables call %d returned error: %v", i+1, err)
		}
	}

	for _, name := range TableNames() {
		if got := countRows(t, db, name); got != 0 {
			t.Fatalf("expected empty %s, got %d rows", name, got)
		}
	}
}

func TestTableNames_Order(t *testing.T) {
	got := strings.Join(TableNames(), ",")
	if got != "authors,magazines,articles" {
		t.Fatalf("unexpected table order %q", got)
	}
}

func TestConnect_InstancesDoNotShareState(t *testing.T) {
	first := newMemoryDB(t)
	second := newMemoryDB(t)

	if err := CreateTables(first); err != nil {
		t.Fatalf("CreateTables returned error: %v", err)
	}
	if _, err := first.Exec("INSERT INTO authors (name) VALUES (?)", "John Doe"); err != nil {
		t.Fatalf("failed to seed author: %v", err)
	}

	if _, err := second.Exec("SELECT id FROM authors"); err == nil {
		t.Fatal("expected second connection to have no authors table")
	}
}

func TestConnect_MemoryStateSurvivesAcrossStatements(t *testing.T) {
	db := newMemoryDB(t)
	if err := CreateTables(db); err != nil {
		t.Fatalf("CreateTables returned error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := db.Exec("INSERT INTO magazines (name, category) VALUES (?, ?)", "Tech Weekly", "Technology"); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}
	if got := countRows(t, db, "magazines"); got != 5 {
		t.Fatalf("expected 5 magazines, got %d", got)
	}
}

func TestResetTables(t *testing.T) {
	db := newMemoryDB(t)
	if err := CreateTables(db); err != nil {
		t.Fatalf("CreateTables returned error: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO authors (id, name) VALUES (1, 'John Doe')`); err != nil {
		t.Fatalf("failed to seed author: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO magazines (id, name, category) VALUES (1, 'Tech Weekly', 'Technology')`); err != nil {
		t.Fatalf("failed to seed magazine: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO articles (title, content, author_id, magazine_id) VALUES ('Title 1', 'Content 1', 1, 1)`); err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}

	if err := ResetTables(db); err != nil {
		t.Fatalf("ResetTables returned error: %v", err)
	}

	for _, name := range TableNames() {
		if got := countRows(t, db, name); got != 0 {
			t.Fatalf("expected %s to be empty, got %d rows", name, got)
		}
	}
}

func TestOpen_ForeignKeys(t *testing.T) {
	t.Run("not enforced by default", func(t *testing.T) {
		db := newMemoryDB(t)
		if err := CreateTables(db); err != nil {
			t.Fatalf("CreateTables returned error: %v", err)
		}

		_, err := db.Exec(`INSERT INTO articles (title, content, author_id, magazine_id) VALUES ('t', 'c', 42, 99)`)
		if err != nil {
			t.Fatalf("expected dangling references to be accepted, got %v", err)
		}
	})

	t.Run("enforced when enabled", func(t *testing.T) {
		db, err := Open(Options{Path: MemoryPath, ForeignKeys: true})
		if err != nil {
			t.Fatalf("failed to open db: %v", err)
		}
		defer db.Close()

		if err := CreateTables(db); err != nil {
			t.Fatalf("CreateTables returned error: %v", err)
		}

		_, err = db.Exec(`INSERT INTO articles (title, content, author_id, magazine_id) VALUES ('t', 'c', 42, 99)`)
		if err == nil {
			t.Fatal("expected foreign key violation")
		}
	})
}

func TestOpen_File(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if db.Path() != dbPath {
		t.Fatalf("expected path %q, got %q", dbPath, db.Path())
	}
	if db.InMemory() {
		t.Fatal("expected file database not to report in-memory")
	}
	if err := CreateTables(db); err != nil {
		t.Fatalf("CreateTables returned error: %v", err)
	}
	if _, err := db.Exec("INSERT INTO authors (name) VALUES (?)", "Jane Smith"); err != nil {
		t.Fatalf("failed to insert author: %v", err)
	}
	if err := db.Optimize(); err != nil {
		t.Fatalf("Optimize returned error: %v", err)
	}
	if err := db.Vacuum(); err != nil {
		t.Fatalf("Vacuum returned error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen db: %v", err)
	}
	defer reopened.Close()

	if got := countRows(t, reopened, "authors"); got != 1 {
		t.Fatalf("expected author to persist across connections, got %d rows", got)
	}
}

func TestMaintenance_Uninitialized(t *testing.T) {
	var db *DB
	if err := db.Optimize(); err == nil {
		t.Fatal("expected error from nil database")
	}
	if err := db.Vacuum(); err == nil {
		t.Fatal("expected error from nil database")
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
		not  []string
	}{
		{
			name: "memory",
			opts: Options{Path: MemoryPath, BusyTimeout: 5000},
			want: []string{":memory:?", "busy_timeout(5000)", "foreign_keys(0)"},
			not:  []string{"journal_mode"},
		},
		{
			name: "file with foreign keys",
			opts: Options{Path: "/tmp/masthead.db", ForeignKeys: true},
			want: []string{"/tmp/masthead.db?", "foreign_keys(1)", "journal_mode(WAL)"},
			not:  []string{"busy_timeout"},
		},
		{
			name: "existing query",
			opts: Options{Path: "file:x?mode=memory"},
			want: []string{"file:x?mode=memory&"},
			not:  []string{"journal_mode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dsn(tt.opts)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Fatalf("dsn %q missing %q", got, w)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(got, n) {
					t.Fatalf("dsn %q should not contain %q", got, n)
				}
			}
		})
	}
}

func TestInt64Ptr(t *testing.T) {
	if got := Int64Ptr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil, got %d", *got)
	}
	got := Int64Ptr(sql.NullInt64{Int64: 7, Valid: true})
	if got == nil || *got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}
