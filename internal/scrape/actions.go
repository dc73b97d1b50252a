package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/deepfield/internal/common"
	"github.com/dtnitsch/deepfield/models"
	"github.com/dtnitsch/deepfield/pkg/caching"
	"github.com/dtnitsch/deepfield/pkg/db"
	"github.com/dtnitsch/deepfield/pkg/fetcher"
	"github.com/dtnitsch/deepfield/pkg/links"
	"github.com/dtnitsch/deepfield/pkg/pages"
	"github.com/dtnitsch/deepfield/pkg/retriever"
	"github.com/dtnitsch/deepfield/pkg/scraper"
	"github.com/urfave/cli/v2"
)

// ScrapeAction scrapes every season from START to END (default: this year).
func ScrapeAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	current := time.Now().Year()
	start, end, err := common.YearRange(c.Args().Slice(), current)
	if err != nil {
		return err
	}

	env, err := setup(c.Context, cfg, logger, fetcher.RealClock())
	if err != nil {
		return err
	}
	defer env.Close()

	summary, err := scrapeSeasons(c.Context, env.scraper, start, end, current, logger)
	if err != nil {
		return err
	}
	return writeSummary(os.Stdout, summary)
}

// PageAction scrapes one page and everything it depends on, for example a
// game that was skipped by an earlier run.
func PageAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one URL, got %d arguments", c.NArg())
	}
	logger := common.NewLogger(c.Bool("quiet"))
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}

	env, err := setup(c.Context, cfg, logger, fetcher.RealClock())
	if err != nil {
		return err
	}
	defer env.Close()

	opts := retriever.Options{}
	if c.Bool("refresh") {
		opts = retriever.Uncached
	}
	summary, err := scrapePage(c.Context, env.scraper, common.SanitizeURL(c.Args().First()), opts)
	if err != nil {
		return err
	}
	return writeSummary(os.Stdout, summary)
}

type env struct {
	db      *db.DB
	scraper *scraper.Scraper
}

func (e *env) Close() error { return e.db.Close() }

// setup waits out the politeness pause when needed and wires the network,
// cache and database into a scraper.
func setup(ctx context.Context, cfg *models.Config, logger *slog.Logger, clock fetcher.Clock) (*env, error) {
	if err := politenessPause(ctx, logger, cfg.CrawlDelay, clock); err != nil {
		return nil, err
	}
	gate, err := fetcher.NewGate(cfg.CrawlDelay, clock)
	if err != nil {
		return nil, err
	}
	f := fetcher.NewFetcher(gate, fetcher.Options{UserAgent: cfg.UserAgent, Timeout: cfg.RequestTimeout})

	database, err := common.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	return &env{
		db:      database,
		scraper: newScraper(database, caching.NewCache(cfg.CacheDir), f, logger),
	}, nil
}

func newScraper(database *db.DB, cache retriever.Store, f retriever.Fetcher, logger *slog.Logger) *scraper.Scraper {
	parse := func(link links.Link, html []byte) (pages.Page, error) {
		return pages.Parse(link, html, database)
	}
	return scraper.New(retriever.New(cache, f, logger), database, parse, logger)
}

// politenessPause gives the user time to abort a scrape that ignores the
// site's crawl-delay.
func politenessPause(ctx context.Context, logger *slog.Logger, delay time.Duration, clock fetcher.Clock) error {
	if err := fetcher.CheckDelay(logger, delay); err != nil {
		return err
	}
	if delay >= fetcher.DefaultCrawlDelay {
		return nil
	}
	logger.Warn("starting scrape after a pause", "pause", common.PolitenessPause.String())
	return clock.Sleep(ctx, common.PolitenessPause)
}

func scrapeSeasons(ctx context.Context, s *scraper.Scraper, start, end, current int, logger *slog.Logger) (RunSummary, error) {
	total := 0
	years := scraper.Years(start, end)
	for _, year := range years {
		n, err := s.ScrapeSeason(ctx, year, current)
		total += n
		if err != nil {
			return RunSummary{}, err
		}
		logger.Info("finished season", "year", year, "pages", n)
	}
	summary := BuildSummary(total, s.Report())
	summary.Seasons = years
	return summary, nil
}

func scrapePage(ctx context.Context, s *scraper.Scraper, rawURL string, opts retriever.Options) (RunSummary, error) {
	n, err := s.ScrapeURL(ctx, rawURL, opts)
	if err != nil {
		return RunSummary{}, err
	}
	summary := BuildSummary(n, s.Report())
	summary.Root = rawURL
	return summary, nil
}
