package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/deepfield/pkg/links"
	"github.com/go-resty/resty/v2"
)

// ErrFetch wraps every failure to obtain a page over the network.
var ErrFetch = errors.New("fetch failed")

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrFetch }

type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher performs rate-limited GET requests for links.
type Fetcher struct {
	client *resty.Client
	gate   *Gate
}

func NewFetcher(gate *Gate, opts Options) *Fetcher {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Fetcher{client: client, gate: gate}
}

// Gate returns the gate the fetcher waits on.
func (f *Fetcher) Gate() *Gate {
	return f.gate
}

// Fetch waits on the gate and then requests the link.
func (f *Fetcher) Fetch(ctx context.Context, link links.Link) ([]byte, error) {
	if err := f.gate.Wait(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := f.client.R().SetContext(ctx).Get(link.URL())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, link.URL(), err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: link.URL(), StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}
