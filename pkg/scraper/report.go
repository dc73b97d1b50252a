package scraper

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// SkipError records a page that was skipped and why.
type SkipError struct {
	URL string
	Err error
}

func (e *SkipError) Error() string { return fmt.Sprintf("skipped %s: %v", e.URL, e.Err) }

func (e *SkipError) Unwrap() error { return e.Err }

// Report collects the pages skipped during a run.
type Report struct {
	RunID string

	mu      sync.Mutex
	skipped *multierror.Error
}

func (r *Report) add(url string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = multierror.Append(r.skipped, &SkipError{URL: url, Err: err})
}

// Skipped returns one *SkipError per skipped page, in skip order.
func (r *Report) Skipped() []*SkipError {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipped == nil {
		return nil
	}
	out := make([]*SkipError, 0, len(r.skipped.Errors))
	for _, err := range r.skipped.Errors {
		out = append(out, err.(*SkipError))
	}
	return out
}

// Err returns every skip as one error, or nil when nothing was skipped.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.skipped.ErrorOrNil()
}
