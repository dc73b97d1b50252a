// Package scraper walks the page dependency graph depth first and persists
// every insertable page after the pages it depends on.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dtnitsch/deepfield/pkg/links"
	"github.com/dtnitsch/deepfield/pkg/pages"
	"github.com/dtnitsch/deepfield/pkg/retriever"
	"github.com/google/uuid"
)

// ErrDependencySkipped marks a page that was not persisted because one of
// its dependencies was skipped.
var ErrDependencySkipped = errors.New("dependency was skipped")

// Retriever returns the HTML for a link.
type Retriever interface {
	Retrieve(ctx context.Context, link links.Link, opts retriever.Options) ([]byte, error)
}

// Resolver reports whether the page behind a link is already persisted.
type Resolver interface {
	IsResolved(ctx context.Context, link links.Link) (bool, error)
}

// ParseFunc builds a page from its HTML.
type ParseFunc func(link links.Link, html []byte) (pages.Page, error)

type Status int

const (
	// Loaded children are parsed and ready to be scraped.
	Loaded Status = iota
	// Stored children need no work: they are persisted or already scraped
	// in this run.
	Stored
	// Skipped children could not be loaded; the reason is in the report.
	Skipped
)

// Outcome is the result of loading one child link.
type Outcome struct {
	Status Status
	Page   pages.Page
	Err    error
}

// Scraper holds the state of one scrape run. It is not meant to be shared
// between runs: the visited set only grows.
type Scraper struct {
	retriever Retriever
	resolver  Resolver
	parse     ParseFunc
	logger    *slog.Logger
	runID     string
	report    *Report

	mu      sync.Mutex
	visited map[string]bool // key -> persisted (or nothing to persist)
}

func New(r Retriever, resolver Resolver, parse ParseFunc, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return &Scraper{
		retriever: r,
		resolver:  resolver,
		parse:     parse,
		logger:    logger.With("run_id", runID),
		runID:     runID,
		report:    &Report{RunID: runID},
		visited:   map[string]bool{},
	}
}

// Report returns the pages skipped so far.
func (s *Scraper) Report() *Report { return s.report }

// ScrapeURL loads the page at rawURL and scrapes it.
func (s *Scraper) ScrapeURL(ctx context.Context, rawURL string, opts retriever.Options) (int, error) {
	link, err := links.New(rawURL)
	if err != nil {
		return 0, err
	}
	if _, seen := s.seen(link.Key()); seen {
		return 0, nil
	}
	html, err := s.retriever.Retrieve(ctx, link, opts)
	if err != nil {
		return 0, err
	}
	page, err := s.parse(link, html)
	if err != nil {
		return 0, err
	}
	return s.Scrape(ctx, page)
}

// Scrape visits every link of page that is not yet persisted, then persists
// page if it is insertable. It returns the number of pages scraped,
// including page itself; a page already visited in this run, or an
// insertable page skipped for a missing dependency, counts zero.
//
// Pages that cannot be loaded are skipped and recorded in the report. An
// unresolved dependency at persist time is an ordering bug and aborts the
// whole scrape, as does cancellation of ctx.
func (s *Scraper) Scrape(ctx context.Context, page pages.Page) (int, error) {
	n, _, err := s.visit(ctx, page)
	return n, err
}

func (s *Scraper) visit(ctx context.Context, page pages.Page) (int, bool, error) {
	key := page.Link().Key()
	if complete, seen := s.seen(key); seen {
		return 0, complete, nil
	}
	s.logger.Info("starting scrape", "url", page.Link().URL())

	scraped := 0
	complete := true
	for _, raw := range page.Links() {
		out, err := s.loadChild(ctx, raw)
		if err != nil {
			return scraped, false, err
		}
		switch out.Status {
		case Skipped:
			complete = false
			continue
		case Stored:
			continue
		}

		n, childComplete, err := s.visit(ctx, out.Page)
		scraped += n
		if err != nil {
			return scraped, false, err
		}
		if !childComplete {
			complete = false
		}
	}

	if ins, ok := page.(pages.Insertable); ok {
		if !complete {
			s.skip(page.Link().URL(), ErrDependencySkipped)
			s.markVisited(key, false)
			return scraped, false, nil
		}
		if err := ctx.Err(); err != nil {
			return scraped, false, err
		}
		if err := ins.Persist(ctx); err != nil {
			if errors.Is(err, pages.ErrDependencyUnresolved) {
				s.logger.Error("persisted before dependencies", "url", page.Link().URL(), "error", err)
			}
			return scraped, false, err
		}
	}

	s.markVisited(key, complete)
	s.logger.Info("finished scrape", "url", page.Link().URL(), "pages", scraped+1)
	return scraped + 1, complete, nil
}

// loadChild classifies, retrieves and parses one dependency. Only
// cancellation is returned as an error; every other failure is a skip.
func (s *Scraper) loadChild(ctx context.Context, raw string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	link, err := links.New(raw)
	if err != nil {
		return s.skip(raw, err), nil
	}
	if complete, seen := s.seen(link.Key()); seen {
		if complete {
			return Outcome{Status: Stored}, nil
		}
		return Outcome{Status: Skipped, Err: ErrDependencySkipped}, nil
	}

	resolved, err := s.resolver.IsResolved(ctx, link)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to check %s: %w", raw, err)
	}
	if resolved {
		return Outcome{Status: Stored}, nil
	}

	html, err := s.retriever.Retrieve(ctx, link, retriever.Options{})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, ctxErr
		}
		return s.skip(raw, err), nil
	}
	page, err := s.parse(link, html)
	if err != nil {
		return s.skip(raw, err), nil
	}
	return Outcome{Status: Loaded, Page: page}, nil
}

func (s *Scraper) skip(url string, err error) Outcome {
	if errors.Is(err, pages.ErrMissingPlayData) {
		s.logger.Warn("skipping game without play-by-play data", "url", url)
	} else {
		s.logger.Warn("skipping page", "url", url, "error", err)
	}
	s.report.add(url, err)
	return Outcome{Status: Skipped, Err: err}
}

func (s *Scraper) seen(key string) (complete, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	complete, ok = s.visited[key]
	return complete, ok
}

func (s *Scraper) markVisited(key string, complete bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visited[key] = complete
}
