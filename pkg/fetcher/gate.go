package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// DefaultCrawlDelay is the crawl-delay published by baseball-reference.com.
const DefaultCrawlDelay = 3 * time.Second

// Gate serializes outbound requests so that consecutive request starts are at
// least delay apart. One Gate is shared by every fetch path in a process.
type Gate struct {
	clock   Clock
	delay   time.Duration
	limiter *rate.Limiter
}

// NewGate returns a gate with the given delay. A zero delay disables waiting.
func NewGate(delay time.Duration, clock Clock) (*Gate, error) {
	if delay < 0 {
		return nil, fmt.Errorf("crawl delay must not be negative: %v", delay)
	}
	if clock == nil {
		clock = RealClock()
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Gate{
		clock:   clock,
		delay:   delay,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Delay returns the configured minimum gap between requests.
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Wait blocks until the caller may start a request. The slot is claimed
// before sleeping, so the delay runs from the start of the previous request.
func (g *Gate) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := g.clock.Now()
	r := g.limiter.ReserveN(now, 1)
	if !r.OK() {
		return errors.New("rate limiter cannot grant a request")
	}
	// float rounding in the limiter is below a microsecond
	wait := r.DelayFrom(now).Round(time.Microsecond)
	if wait <= 0 {
		return nil
	}
	if err := g.clock.Sleep(ctx, wait); err != nil {
		r.CancelAt(g.clock.Now())
		return err
	}
	return nil
}

// CheckDelay rejects negative delays and warns when delay is shorter than
// the site's published crawl-delay.
func CheckDelay(logger *slog.Logger, delay time.Duration) error {
	if delay < 0 {
		return fmt.Errorf("crawl delay must not be negative: %v", delay)
	}
	if delay < DefaultCrawlDelay {
		logger.Warn("crawl delay is below the site's crawl-delay policy; requests may be blocked",
			"crawl_delay", delay.String(),
			"policy", DefaultCrawlDelay.String(),
		)
	}
	return nil
}
