package models

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/masthead/internal/database"
)

// Magazine is an in-memory magazines row.
type Magazine struct {
	id        int64
	persisted bool
	name      string
	category  string
}

// NewMagazine returns a transient magazine.
func NewMagazine(name, category string) (*Magazine, error) {
	m := &Magazine{}
	if err := m.SetName(name); err != nil {
		return nil, err
	}
	if err := m.SetCategory(category); err != nil {
		return nil, err
	}
	return m, nil
}

// FindMagazine loads a persisted magazine by ID.
func FindMagazine(c database.Cursor, id int64) (*Magazine, error) {
	m := &Magazine{}
	err := c.QueryRow(`SELECT id, name, category FROM magazines WHERE id = ?`, id).Scan(&m.id, &m.name, &m.category)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("magazine %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get magazine: %w", err)
	}
	m.persisted = true
	return m, nil
}

// ID returns the storage-assigned identifier, or 0 before Save.
func (m *Magazine) ID() int64 {
	return m.id
}

// Persisted reports whether Save has succeeded.
func (m *Magazine) Persisted() bool {
	return m.persisted
}

func (m *Magazine) Name() string {
	return m.name
}

func (m *Magazine) Category() string {
	return m.category
}

// SetName replaces the name, keeping the current one when value is empty.
func (m *Magazine) SetName(value string) error {
	if err := requireNonEmpty("magazine", "name", value); err != nil {
		return err
	}
	m.name = value
	return nil
}

// SetCategory replaces the category, keeping the current one when value is empty.
func (m *Magazine) SetCategory(value string) error {
	if err := requireNonEmpty("magazine", "category", value); err != nil {
		return err
	}
	m.category = value
	return nil
}

// Save inserts the magazine and records the generated ID.
func (m *Magazine) Save(c database.Cursor) (int64, error) {
	if m.persisted {
		return 0, fmt.Errorf("magazine %d: %w", m.id, ErrAlreadyPersisted)
	}

	result, err := c.Exec(`INSERT INTO magazines (name, category) VALUES (?, ?)`, m.name, m.category)
	if err != nil {
		return 0, fmt.Errorf("failed to create magazine: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get magazine id: %w", err)
	}

	m.id = id
	m.persisted = true

	log.Debug().
		Int64("id", id).
		Str("name", m.name).
		Str("category", m.category).
		Msg("Magazine saved")
	return id, nil
}

// ArticleTitles returns the titles of this magazine's articles in insertion order.
func (m *Magazine) ArticleTitles(c database.Cursor) ([]string, error) {
	if !m.persisted {
		return nil, fmt.Errorf("magazine article titles: %w", ErrNotPersisted)
	}

	rows, err := c.Query(`SELECT title FROM articles WHERE magazine_id = ? ORDER BY id`, m.id)
	if err != nil {
		return nil, fmt.Errorf("failed to query article titles: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan article title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read article titles: %w", err)
	}
	return titles, nil
}

// Articles returns the full rows of this magazine's articles in insertion order.
func (m *Magazine) Articles(c database.Cursor) ([]ArticleRecord, error) {
	if !m.persisted {
		return nil, fmt.Errorf("magazine articles: %w", ErrNotPersisted)
	}
	return queryArticles(c, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE articles.magazine_id = ?
		ORDER BY articles.id
	`, m.id)
}

// ContributingAuthors returns the distinct authors with at least one
// article in this magazine.
func (m *Magazine) ContributingAuthors(c database.Cursor) ([]AuthorRecord, error) {
	if !m.persisted {
		return nil, fmt.Errorf("magazine contributors: %w", ErrNotPersisted)
	}
	return queryAuthors(c, `
		SELECT DISTINCT `+authorColumns+`
		FROM authors
		JOIN articles ON authors.id = articles.author_id
		WHERE articles.magazine_id = ?
		ORDER BY authors.id
	`, m.id)
}

// Record returns the row view of a persisted magazine.
func (m *Magazine) Record() (MagazineRecord, error) {
	if !m.persisted {
		return MagazineRecord{}, fmt.Errorf("magazine record: %w", ErrNotPersisted)
	}
	return MagazineRecord{ID: m.id, Name: m.name, Category: m.category}, nil
}
