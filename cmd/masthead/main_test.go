package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saltyorg/masthead/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v returned error: %v\n%s", args, err, out)
	}
	return out
}

func TestVersion(t *testing.T) {
	out := mustExecute(t, "version")
	if !strings.HasPrefix(out, "masthead dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestWorkflow_FileDatabase(t *testing.T) {
	t.Setenv("DB_PATH", "")
	dbPath := filepath.Join(t.TempDir(), "masthead.db")

	mustExecute(t, "--db", dbPath, "init")

	if got := mustExecute(t, "--db", dbPath, "author", "add", "John Doe"); got != "1\n" {
		t.Fatalf("expected author id 1, got %q", got)
	}
	if got := mustExecute(t, "--db", dbPath, "author", "add", "Jane Smith"); got != "2\n" {
		t.Fatalf("expected author id 2, got %q", got)
	}
	if got := mustExecute(t, "--db", dbPath, "magazine", "add", "Tech Weekly", "Technology"); got != "1\n" {
		t.Fatalf("expected magazine id 1, got %q", got)
	}

	mustExecute(t, "--db", dbPath, "article", "add", "--title", "Title 1", "--content", "Content 1", "--author", "1", "--magazine", "1")
	mustExecute(t, "--db", dbPath, "article", "add", "--title", "Title 2", "--content", "Content 2", "--author", "2", "--magazine", "1")
	mustExecute(t, "--db", dbPath, "article", "add", "--title", "Title 3", "--content", "Content 3", "--author", "2", "--magazine", "1")

	if got := mustExecute(t, "--db", dbPath, "magazine", "titles", "1"); got != "Title 1\nTitle 2\nTitle 3\n" {
		t.Fatalf("unexpected titles %q", got)
	}

	contributors := mustExecute(t, "--db", dbPath, "magazine", "contributors", "1")
	lines := strings.Split(strings.TrimSpace(contributors), "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], "John Doe") || !strings.Contains(lines[2], "Jane Smith") {
		t.Fatalf("unexpected contributors output %q", contributors)
	}

	articles := mustExecute(t, "--db", dbPath, "author", "articles", "2")
	if !strings.Contains(articles, "Title 2") || !strings.Contains(articles, "Title 3") || strings.Contains(articles, "Title 1") {
		t.Fatalf("unexpected author articles output %q", articles)
	}

	magazines := mustExecute(t, "--db", dbPath, "author", "magazines", "1")
	if strings.Count(magazines, "Tech Weekly") != 1 {
		t.Fatalf("unexpected author magazines output %q", magazines)
	}

	mustExecute(t, "--db", dbPath, "db", "optimize")
	mustExecute(t, "--db", dbPath, "db", "vacuum")
}

func TestMemoryDatabase_DoesNotPersist(t *testing.T) {
	t.Setenv("DB_PATH", "")

	mustExecute(t, "author", "add", "John Doe")

	_, err := execute(t, "author", "articles", "1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected fresh in-memory database, got %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	t.Setenv("DB_PATH", "")
	dbPath := filepath.Join(t.TempDir(), "masthead.db")

	if _, err := execute(t, "--db", dbPath, "author", "add", ""); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for empty author name, got %v", err)
	}
	if _, err := execute(t, "--db", dbPath, "magazine", "add", "Tech Weekly", ""); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for empty category, got %v", err)
	}

	mustExecute(t, "--db", dbPath, "author", "add", "John Doe")
	mustExecute(t, "--db", dbPath, "magazine", "add", "Tech Weekly", "Technology")
	if _, err := execute(t, "--db", dbPath, "article", "add", "--title", "T", "--author", "1", "--magazine", "1"); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for missing content, got %v", err)
	}
	if _, err := execute(t, "--db", dbPath, "magazine", "titles", "abc"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestImport(t *testing.T) {
	t.Setenv("DB_PATH", "")
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	doc := `
authors:
  - {key: john, name: John Doe}
  - {key: jane, name: Jane Smith}
magazines:
  - {key: tech, name: Tech Weekly, category: Technology}
articles:
  - {title: Title 1, content: Content 1, author: john, magazine: tech}
  - {title: Title 2, content: Content 2, author: john, magazine: tech}
  - {title: Title 3, content: Content 3, author: jane, magazine: tech}
  - {title: Title 4, content: Content 4, author: jane, magazine: tech}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	out := mustExecute(t, "import", path, "--report")

	for _, want := range []string{
		"author\tjohn\t1",
		"author\tjane\t2",
		"magazine\ttech\t1",
		"articles\t4",
		"Tech Weekly (Technology)",
		"  article\tTitle 4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("import output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "contributor\t"); got != 2 {
		t.Fatalf("expected 2 contributors, got %d:\n%s", got, out)
	}
}

func TestConfigFile(t *testing.T) {
	t.Setenv("DB_PATH", "")
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	cfgPath := filepath.Join(dir, "masthead.yaml")
	if err := os.WriteFile(cfgPath, []byte("database:\n  path: "+dbPath+"\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	mustExecute(t, "--config", cfgPath, "author", "add", "John Doe")

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database at configured path: %v", err)
	}
	if got := mustExecute(t, "--config", cfgPath, "author", "add", "Jane Smith"); got != "2\n" {
		t.Fatalf("expected second author id 2, got %q", got)
	}
}
