package models

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/masthead/internal/database"
)

// Article is an in-memory articles row. Its fields are fixed at construction.
type Article struct {
	id         int64
	persisted  bool
	title      string
	content    string
	author     *Author
	magazineID int64
}

// NewArticle returns a transient article. Content is required; an empty
// string counts as absent and is rejected before any other argument is
// looked at.
func NewArticle(title, content string, author *Author, magazineID int64) (*Article, error) {
	if len(content) == 0 {
		return nil, &ValidationError{Entity: "article", Field: "content", Reason: "is required"}
	}
	return &Article{
		title:      title,
		content:    content,
		author:     author,
		magazineID: magazineID,
	}, nil
}

// FindArticle loads a persisted article by ID. The author is loaded too
// when the row references one that exists.
func FindArticle(c database.Cursor, id int64) (*Article, error) {
	r, err := scanArticle(c.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE articles.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	a := &Article{
		id:        r.ID,
		persisted: true,
		title:     r.Title,
		content:   r.Content,
	}
	if r.MagazineID != nil {
		a.magazineID = *r.MagazineID
	}
	if r.AuthorID != nil {
		author, err := FindAuthor(c, *r.AuthorID)
		switch {
		case errors.Is(err, ErrNotFound):
			log.Debug().Int64("article_id", r.ID).Int64("author_id", *r.AuthorID).Msg("Article references a missing author")
		case err != nil:
			return nil, err
		default:
			a.author = author
		}
	}
	return a, nil
}

// ID returns the storage-assigned identifier, or 0 before Save.
func (a *Article) ID() int64 {
	return a.id
}

// Persisted reports whether Save has succeeded.
func (a *Article) Persisted() bool {
	return a.persisted
}

func (a *Article) Title() string { return a.title }

func (a *Article) Content() string { return a.content }

// Author returns the bound author, which may be nil for a loaded article
// whose author row is gone.
func (a *Article) Author() *Author { return a.author }

func (a *Article) MagazineID() int64 { return a.magazineID }

// Save inserts the article using the bound author's ID, which must already
// be assigned.
func (a *Article) Save(c database.Cursor) (int64, error) {
	if a.persisted {
		return 0, fmt.Errorf("article %d: %w", a.id, ErrAlreadyPersisted)
	}
	if a.author == nil || !a.author.Persisted() {
		return 0, ErrAuthorNotPersisted
	}

	result, err := c.Exec(`
		INSERT INTO articles (title, content, author_id, magazine_id)
		VALUES (?, ?, ?, ?)
	`, a.title, a.content, a.author.ID(), a.magazineID)
	if err != nil {
		return 0, fmt.Errorf("failed to create article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get article id: %w", err)
	}

	a.id = id
	a.persisted = true

	log.Debug().
		Int64("id", id).
		Int64("author_id", a.author.ID()).
		Int64("magazine_id", a.magazineID).
		Msg("Article saved")
	return id, nil
}

// Record returns the row view of a persisted article.
func (a *Article) Record() (ArticleRecord, error) {
	if !a.persisted {
		return ArticleRecord{}, fmt.Errorf("article record: %w", ErrNotPersisted)
	}
	r := ArticleRecord{ID: a.id, Title: a.title, Content: a.content}
	if a.author != nil {
		authorID := a.author.ID()
		r.AuthorID = &authorID
	}
	magazineID := a.magazineID
	r.MagazineID = &magazineID
	return r, nil
}
