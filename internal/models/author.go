package models

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/masthead/internal/database"
)

// Author is an in-memory authors row.
type Author struct {
	id        int64
	persisted bool
	name      string
}

// NewAuthor returns a transient author.
func NewAuthor(name string) (*Author, error) {
	a := &Author{}
	if err := a.SetName(name); err != nil {
		return nil, err
	}
	return a, nil
}

// FindAuthor loads a persisted author by ID.
func FindAuthor(c database.Cursor, id int64) (*Author, error) {
	a := &Author{}
	err := c.QueryRow(`SELECT id, name FROM authors WHERE id = ?`, id).Scan(&a.id, &a.name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("author %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	a.persisted = true
	return a, nil
}

// ID returns the storage-assigned identifier, or 0 before Create.
func (a *Author) ID() int64 {
	return a.id
}

// Persisted reports whether Create has succeeded.
func (a *Author) Persisted() bool {
	return a.persisted
}

// Name returns the author's name.
func (a *Author) Name() string {
	return a.name
}

// SetName replaces the name. An empty value is rejected and the current
// name is kept.
func (a *Author) SetName(value string) error {
	if err := requireNonEmpty("author", "name", value); err != nil {
		return err
	}
	a.name = value
	return nil
}

// Create inserts the author and records the generated ID.
func (a *Author) Create(c database.Cursor) (int64, error) {
	if a.persisted {
		return 0, fmt.Errorf("author %d: %w", a.id, ErrAlreadyPersisted)
	}

	result, err := c.Exec(`INSERT INTO authors (name) VALUES (?)`, a.name)
	if err != nil {
		return 0, fmt.Errorf("failed to create author: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get author id: %w", err)
	}

	a.id = id
	a.persisted = true

	log.Debug().Int64("id", id).Str("name", a.name).Msg("Author created")
	return id, nil
}

// Articles returns every article written by this author, in insertion order.
func (a *Author) Articles(c database.Cursor) ([]ArticleRecord, error) {
	if !a.persisted {
		return nil, fmt.Errorf("author articles: %w", ErrNotPersisted)
	}
	return queryArticles(c, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE articles.author_id = ?
		ORDER BY articles.id
	`, a.id)
}

// Magazines returns the distinct magazines this author has written for.
func (a *Author) Magazines(c database.Cursor) ([]MagazineRecord, error) {
	if !a.persisted {
		return nil, fmt.Errorf("author magazines: %w", ErrNotPersisted)
	}
	return queryMagazines(c, `
		SELECT DISTINCT `+magazineColumns+`
		FROM magazines
		JOIN articles ON magazines.id = articles.magazine_id
		WHERE articles.author_id = ?
		ORDER BY magazines.id
	`, a.id)
}

// Record returns the row view of a persisted author.
func (a *Author) Record() (AuthorRecord, error) {
	if !a.persisted {
		return AuthorRecord{}, fmt.Errorf("author record: %w", ErrNotPersisted)
	}
	return AuthorRecord{ID: a.id, Name: a.name}, nil
}
