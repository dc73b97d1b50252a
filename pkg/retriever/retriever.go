// Package retriever returns page HTML from the on-disk cache, falling back to
// the network.
package retriever

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/deepfield/pkg/links"
)

// Store is the cache the retriever reads and writes.
type Store interface {
	Find(t links.PageType, nameID string) ([]byte, bool, error)
	Insert(t links.PageType, nameID string, content []byte) error
}

// Fetcher obtains a page over the network.
type Fetcher interface {
	Fetch(ctx context.Context, link links.Link) ([]byte, error)
}

// Options control cache use for a single retrieval.
type Options struct {
	NoCacheRead  bool
	NoCacheWrite bool
}

// Uncached is used for pages that change over time, like the current season's schedule.
var Uncached = Options{NoCacheRead: true, NoCacheWrite: true}

type Retriever struct {
	cache   Store
	fetcher Fetcher
	logger  *slog.Logger
}

func New(cache Store, fetcher Fetcher, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{cache: cache, fetcher: fetcher, logger: logger}
}

// Retrieve returns the HTML for link. A cache hit never touches the network.
// Fetched content is written to the cache before returning.
func (r *Retriever) Retrieve(ctx context.Context, link links.Link, opts Options) ([]byte, error) {
	if !opts.NoCacheRead {
		content, ok, err := r.cache.Find(link.Type(), link.NameID())
		if err != nil {
			r.logger.Warn("cache lookup failed", "url", link.URL(), "error", err)
		} else if ok {
			r.logger.Debug("cache hit", "url", link.URL())
			return content, nil
		}
	}

	content, err := r.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s: %w", link.URL(), err)
	}
	r.logger.Info("fetched page", "url", link.URL(), "bytes", len(content))

	if !opts.NoCacheWrite {
		if err := r.cache.Insert(link.Type(), link.NameID(), content); err != nil {
			r.logger.Warn("failed to cache page", "url", link.URL(), "error", err)
		}
	}
	return content, nil
}
