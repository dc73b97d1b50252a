package common

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dtnitsch/deepfield/models"
	"github.com/dtnitsch/deepfield/pkg/db"
	"github.com/dtnitsch/deepfield/pkg/fetcher"
	"github.com/dtnitsch/deepfield/pkg/scraper"
	"github.com/urfave/cli/v2"
)

// NewLogger returns the JSON logger on stderr shared by every command.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// ParseYear parses a season between scraper.EarliestYear and current.
func ParseYear(arg string, current int) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", arg)
	}
	if year < scraper.EarliestYear {
		return 0, fmt.Errorf("choose a year no earlier than %d", scraper.EarliestYear)
	}
	if year > current {
		return 0, fmt.Errorf("choose a year no later than %d", current)
	}
	return year, nil
}

// YearRange reads START [END] from args. END defaults to current.
func YearRange(args []string, current int) (int, int, error) {
	if len(args) == 0 || len(args) > 2 {
		return 0, 0, fmt.Errorf("expected START [END], got %d arguments", len(args))
	}
	start, err := ParseYear(args[0], current)
	if err != nil {
		return 0, 0, err
	}
	end := current
	if len(args) == 2 {
		if end, err = ParseYear(args[1], current); err != nil {
			return 0, 0, err
		}
	}
	if start > end {
		return 0, 0, fmt.Errorf("starting year %d is after ending year %d", start, end)
	}
	return start, end, nil
}

// LoadConfig loads the --config file and environment, then applies the flags
// the user set.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("database-name") {
		cfg.DatabaseName = c.String("database-name")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("crawl-delay") {
		cfg.CrawlDelay = c.Duration("crawl-delay")
	} else if cfg.CrawlDelay == 0 {
		cfg.CrawlDelay = fetcher.DefaultCrawlDelay
	}
	if err := models.ValidateDatabaseName(cfg.DatabaseName); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenDB opens the configured database, creating its directory if needed.
func OpenDB(cfg *models.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DBPath(), err)
	}
	return database, nil
}

// PolitenessPause is how long a scrape waits before starting with a crawl
// delay below the site's policy.
const PolitenessPause = 15 * time.Second

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown artifacts.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// Example: "[box score](https://...)" -> "https://..."
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}
	return strings.TrimSpace(cleaned)
}
