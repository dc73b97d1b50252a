package scraper

import (
	"context"
	"fmt"

	"github.com/dtnitsch/deepfield/pkg/links"
	"github.com/dtnitsch/deepfield/pkg/retriever"
)

// EarliestYear is the first season with play-by-play data worth scraping.
const EarliestYear = 1920

// ScheduleURL returns the address of the MLB schedule for year.
func ScheduleURL(year int) string {
	return fmt.Sprintf("%s/leagues/MLB/%d-schedule.shtml", links.BaseURL, year)
}

// Years returns start..end inclusive.
func Years(start, end int) []int {
	if end < start {
		return nil
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// ScrapeSeason scrapes the schedule of year. The schedule of the season in
// progress keeps changing, so it bypasses the cache.
func (s *Scraper) ScrapeSeason(ctx context.Context, year, currentYear int) (int, error) {
	opts := retriever.Options{}
	if year == currentYear {
		opts = retriever.Uncached
	}
	n, err := s.ScrapeURL(ctx, ScheduleURL(year), opts)
	if err != nil {
		return n, fmt.Errorf("failed to scrape %d season: %w", year, err)
	}
	return n, nil
}
