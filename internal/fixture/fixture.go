// Package fixture loads authors, magazines and articles from YAML and
// persists them through the model entities.
package fixture

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/saltyorg/masthead/internal/database"
	"github.com/saltyorg/masthead/internal/models"
)

// Fixture is the YAML document. Articles refer to authors and magazines by key.
type Fixture struct {
	Authors   []Author   `yaml:"authors"`
	Magazines []Magazine `yaml:"magazines"`
	Articles  []Article  `yaml:"articles"`
}

type Author struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type Magazine struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type Article struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Author   string `yaml:"author"`
	Magazine string `yaml:"magazine"`
}

// Result maps fixture keys to the IDs storage assigned.
type Result struct {
	Authors    map[string]int64
	Magazines  map[string]int64
	ArticleIDs []int64
}

// Parse decodes a fixture document.
func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes the fixture at path.
func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fixture: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

type plan struct {
	authorKeys   []string
	authors      map[string]*models.Author
	magazineKeys []string
	magazines    map[string]*models.Magazine
	articles     []articlePlan
}

type articlePlan struct {
	title, content string
	author         *models.Author
	magazine       *models.Magazine
}

// build constructs every entity and resolves every reference without
// touching storage, so a bad document writes nothing.
func (f *Fixture) build() (*plan, error) {
	p := &plan{
		authors:   make(map[string]*models.Author, len(f.Authors)),
		magazines: make(map[string]*models.Magazine, len(f.Magazines)),
	}

	for i, a := range f.Authors {
		if a.Key == "" {
			return nil, fmt.Errorf("author %d: key is required", i+1)
		}
		if _, dup := p.authors[a.Key]; dup {
			return nil, fmt.Errorf("author %d: duplicate key %q", i+1, a.Key)
		}
		author, err := models.NewAuthor(a.Name)
		if err != nil {
			return nil, fmt.Errorf("author %q: %w", a.Key, err)
		}
		p.authors[a.Key] = author
		p.authorKeys = append(p.authorKeys, a.Key)
	}

	for i, m := range f.Magazines {
		if m.Key == "" {
			return nil, fmt.Errorf("magazine %d: key is required", i+1)
		}
		if _, dup := p.magazines[m.Key]; dup {
			return nil, fmt.Errorf("magazine %d: duplicate key %q", i+1, m.Key)
		}
		magazine, err := models.NewMagazine(m.Name, m.Category)
		if err != nil {
			return nil, fmt.Errorf("magazine %q: %w", m.Key, err)
		}
		p.magazines[m.Key] = magazine
		p.magazineKeys = append(p.magazineKeys, m.Key)
	}

	for i, a := range f.Articles {
		author, ok := p.authors[a.Author]
		if !ok {
			return nil, fmt.Errorf("article %d: unknown author %q", i+1, a.Author)
		}
		magazine, ok := p.magazines[a.Magazine]
		if !ok {
			return nil, fmt.Errorf("article %d: unknown magazine %q", i+1, a.Magazine)
		}
		if a.Content == "" {
			return nil, fmt.Errorf("article %d: %w", i+1, &models.ValidationError{Entity: "article", Field: "content", Reason: "is required"})
		}
		p.articles = append(p.articles, articlePlan{
			title:    a.Title,
			content:  a.Content,
			author:   author,
			magazine: magazine,
		})
	}

	return p, nil
}

// Apply persists the fixture: authors, then magazines, then articles.
// Each row is its own statement; a storage failure part way through
// leaves the earlier rows in place.
func (f *Fixture) Apply(c database.Cursor) (*Result, error) {
	p, err := f.build()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Authors:   make(map[string]int64, len(p.authors)),
		Magazines: make(map[string]int64, len(p.magazines)),
	}

	for _, key := range p.authorKeys {
		id, err := p.authors[key].Create(c)
		if err != nil {
			return res, fmt.Errorf("author %q: %w", key, err)
		}
		res.Authors[key] = id
	}

	for _, key := range p.magazineKeys {
		id, err := p.magazines[key].Save(c)
		if err != nil {
			return res, fmt.Errorf("magazine %q: %w", key, err)
		}
		res.Magazines[key] = id
	}

	for i, ap := range p.articles {
		article, err := models.NewArticle(ap.title, ap.content, ap.author, ap.magazine.ID())
		if err != nil {
			return res, fmt.Errorf("article %d: %w", i+1, err)
		}
		id, err := article.Save(c)
		if err != nil {
			return res, fmt.Errorf("article %d: %w", i+1, err)
		}
		res.ArticleIDs = append(res.ArticleIDs, id)
	}

	log.Info().
		Int("authors", len(res.Authors)).
		Int("magazines", len(res.Magazines)).
		Int("articles", len(res.ArticleIDs)).
		Msg("Fixture imported")

	return res, nil
}
