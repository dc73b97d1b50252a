package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/deepfield/internal/cache"
	dbcmd "github.com/dtnitsch/deepfield/internal/db"
	"github.com/dtnitsch/deepfield/internal/playgraph"
	"github.com/dtnitsch/deepfield/internal/scrape"
	"github.com/dtnitsch/deepfield/models"
	"github.com/dtnitsch/deepfield/pkg/fetcher"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "deepfield",
		Usage: "scrape baseball-reference.com box scores into SQLite and build the play graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file; a missing file is ignored",
				Value: "deepfield.yaml",
			},
			&cli.StringFlag{
				Name:  "database-name",
				Usage: "database name, without directory or extension",
				Value: models.DefaultDatabaseName,
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "directory for cached pages (default: <data_dir>/cache)",
			},
			&cli.DurationFlag{
				Name:  "crawl-delay",
				Usage: "minimum time between requests",
				Value: fetcher.DefaultCrawlDelay,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "scrape",
				Usage:     "scrape every game of the seasons START through END",
				ArgsUsage: "START [END]",
				Action:    scrape.ScrapeAction,
			},
			{
				Name:      "page",
				Usage:     "scrape one page and the pages it depends on",
				ArgsUsage: "URL",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "refresh", Usage: "fetch the page again even if it is cached"},
				},
				Action: scrape.PageAction,
			},
			{
				Name:  "playgraph",
				Usage: "build the play graph if the database changed since the last build",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "rebuild even if the graph is up to date"},
					&cli.BoolFlag{Name: "clear", Usage: "remove the graph and its checksum"},
				},
				Action: playgraph.PlaygraphAction,
			},
			{
				Name:  "cache",
				Usage: "look at cached pages",
				Subcommands: []*cli.Command{
					{
						Name:      "inspect",
						Usage:     "print the readable text of a cached page",
						ArgsUsage: "TYPE NAME_ID",
						Action:    cache.InspectAction,
					},
					{
						Name:      "list",
						Usage:     "list cached name ids",
						ArgsUsage: "[TYPE]",
						Action:    cache.ListAction,
					},
				},
			},
			{
				Name:  "db",
				Usage: "look at the database",
				Subcommands: []*cli.Command{
					{
						Name:   "stats",
						Usage:  "row counts per table",
						Action: dbcmd.StatsAction,
					},
					{
						Name:      "game",
						Usage:     "show a game and its plays",
						ArgsUsage: "NAME_ID|URL",
						Action:    dbcmd.GameAction,
					},
				},
			},
		},
		Suggest: true,
	}
}
