package models

import (
	"database/sql"
	"fmt"

	"github.com/saltyorg/masthead/internal/database"
)

// AuthorRecord is one row of the authors table.
type AuthorRecord struct {
	ID   int64
	Name string
}

// MagazineRecord is one row of the magazines table.
type MagazineRecord struct {
	ID       int64
	Name     string
	Category string
}

// ArticleRecord is one row of the articles table. The foreign key columns
// are nullable.
type ArticleRecord struct {
	ID         int64
	Title      string
	Content    string
	AuthorID   *int64
	MagazineID *int64
}

const (
	authorColumns   = "authors.id, authors.name"
	magazineColumns = "magazines.id, magazines.name, magazines.category"
	articleColumns  = "articles.id, articles.title, articles.content, articles.author_id, articles.magazine_id"
)

func queryAuthors(c database.Cursor, query string, args ...any) ([]AuthorRecord, error) {
	rows, err := c.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	records := []AuthorRecord{}
	for rows.Next() {
		var r AuthorRecord
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read authors: %w", err)
	}
	return records, nil
}

func queryMagazines(c database.Cursor, query string, args ...any) ([]MagazineRecord, error) {
	rows, err := c.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query magazines: %w", err)
	}
	defer rows.Close()

	records := []MagazineRecord{}
	for rows.Next() {
		var r MagazineRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Category); err != nil {
			return nil, fmt.Errorf("failed to scan magazine: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read magazines: %w", err)
	}
	return records, nil
}

func queryArticles(c database.Cursor, query string, args ...any) ([]ArticleRecord, error) {
	rows, err := c.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	records := []ArticleRecord{}
	for rows.Next() {
		r, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (ArticleRecord, error) {
	var (
		r          ArticleRecord
		authorID   sql.NullInt64
		magazineID sql.NullInt64
	)
	if err := s.Scan(&r.ID, &r.Title, &r.Content, &authorID, &magazineID); err != nil {
		return ArticleRecord{}, fmt.Errorf("failed to scan article: %w", err)
	}
	r.AuthorID = database.Int64Ptr(authorID)
	r.MagazineID = database.Int64Ptr(magazineID)
	return r, nil
}
