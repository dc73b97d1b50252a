package scrape

import (
	"fmt"
	"io"

	"github.com/dtnitsch/deepfield/pkg/scraper"
	"gopkg.in/yaml.v3"
)

// SkippedPage is a page the run could not load or persist.
type SkippedPage struct {
	URL    string `yaml:"url"`
	Reason string `yaml:"reason"`
}

// RunSummary is printed to stdout when a scrape finishes.
type RunSummary struct {
	RunID   string        `yaml:"run_id"`
	Seasons []int         `yaml:"seasons,omitempty,flow"`
	Root    string        `yaml:"root,omitempty"`
	Scraped int           `yaml:"scraped"`
	Skipped []SkippedPage `yaml:"skipped,omitempty"`
}

func BuildSummary(scraped int, report *scraper.Report) RunSummary {
	summary := RunSummary{RunID: report.RunID, Scraped: scraped}
	for _, skip := range report.Skipped() {
		summary.Skipped = append(summary.Skipped, SkippedPage{URL: skip.URL, Reason: skip.Err.Error()})
	}
	return summary
}

func writeSummary(w io.Writer, summary RunSummary) error {
	out, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	_, err = w.Write(out)
	return err
}
