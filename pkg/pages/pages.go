// Package pages parses baseball-reference.com pages and persists what they
// describe once their dependencies are stored.
package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/deepfield/pkg/db"
	"github.com/dtnitsch/deepfield/pkg/links"
)

var (
	// ErrDependencyUnresolved means Persist ran before every page it
	// depends on was stored. It is an ordering bug, never an expected state.
	ErrDependencyUnresolved = errors.New("dependency not persisted")
	// ErrMissingPlayData marks a game page without a play-by-play table.
	ErrMissingPlayData = errors.New("page has no play-by-play data")
	// ErrMalformedPage wraps every other extraction failure.
	ErrMalformedPage = errors.New("malformed page")
)

// UnresolvedDependencyError names the page and the dependency that was missing.
type UnresolvedDependencyError struct {
	Page       links.Link
	Dependency string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("cannot persist %s: dependency %s is not persisted", e.Page.URL(), e.Dependency)
}

func (e *UnresolvedDependencyError) Unwrap() error { return ErrDependencyUnresolved }

// Page is a parsed document.
type Page interface {
	Link() links.Link
	// Links returns the absolute addresses this page depends on.
	Links() []string
}

// Insertable is a page that is stored once its dependencies are.
type Insertable interface {
	Page
	Exists(ctx context.Context) (bool, error)
	Persist(ctx context.Context) error
}

// Store is the storage pages persist into.
type Store interface {
	Exists(ctx context.Context, model, nameID string) (bool, error)
	InTx(ctx context.Context, fn func(q *db.Queries) error) error
}

func malformed(link links.Link, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedPage, link.URL(), fmt.Sprintf(format, args...))
}

// Parse builds the page for link from its HTML.
func Parse(link links.Link, html []byte, store Store) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPage, link.URL(), err)
	}
	link = canonical(doc, link)

	switch link.Type() {
	case links.Schedule:
		return parseSchedule(link, doc), nil
	case links.Player:
		return parsePlayer(link, doc, store)
	case links.Game:
		return parseGame(link, doc, store)
	}
	return nil, malformed(link, "unsupported page type %v", link.Type())
}

// canonical prefers the page's own canonical address when it names a page
// of the same type.
func canonical(doc *goquery.Document, requested links.Link) links.Link {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok || href == "" {
		return requested
	}
	l, err := links.New(links.Resolve(href))
	if err != nil || l.Type() != requested.Type() {
		return requested
	}
	return l
}

// persist runs fn in one transaction after checking that self is not stored
// yet and every dependency is.
func persist(ctx context.Context, store Store, self links.Link, deps []string, fn func(q *db.Queries) error) error {
	return store.InTx(ctx, func(q *db.Queries) error {
		done, err := q.IsResolved(ctx, self)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		for _, raw := range deps {
			dep, err := links.New(raw)
			if err != nil {
				return &UnresolvedDependencyError{Page: self, Dependency: raw}
			}
			ok, err := q.IsResolved(ctx, dep)
			if err != nil {
				return err
			}
			if !ok {
				return &UnresolvedDependencyError{Page: self, Dependency: raw}
			}
		}
		return fn(q)
	})
}
