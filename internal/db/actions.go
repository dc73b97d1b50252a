package db

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dtnitsch/deepfield/internal/common"
	dbpkg "github.com/dtnitsch/deepfield/pkg/db"
	"github.com/urfave/cli/v2"
)

func StatsAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := common.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return printStats(c.Context, os.Stdout, database)
}

// GameAction shows a stored game and its plays by name id or box score URL.
func GameAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("game name id or URL required\nUsage: deepfield db game <name_id_or_url>\nExample: deepfield db game WAS201710120")
	}
	nameID, err := NameIDFromArg(c.Args().First())
	if err != nil {
		return err
	}

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := common.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	return printGame(c.Context, os.Stdout, database, nameID)
}

func printStats(ctx context.Context, w io.Writer, database *dbpkg.DB) error {
	counts, err := database.TableCounts(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Database: %s\n\n", database.Path())
	fmt.Fprintf(w, "%-12s %10s\n", "Table", "Rows")
	fmt.Fprintln(w, strings.Repeat("-", 23))
	for _, table := range dbpkg.Tables {
		fmt.Fprintf(w, "%-12s %10d\n", table, counts[table])
	}
	return nil
}

func printGame(ctx context.Context, w io.Writer, database *dbpkg.DB, nameID string) error {
	game, err := database.GetGame(ctx, nameID)
	if err != nil {
		return err
	}
	home, err := database.TeamAbbreviation(ctx, game.HomeTeamID)
	if err != nil {
		return err
	}
	away, err := database.TeamAbbreviation(ctx, game.AwayTeamID)
	if err != nil {
		return err
	}
	venue := "(none)"
	if game.VenueID != nil {
		if venue, err = database.VenueName(ctx, *game.VenueID); err != nil {
			return err
		}
	}
	start := "(none)"
	if game.LocalStartTime != nil {
		start = game.LocalStartTime.Format(dbpkg.ClockLayout)
	}

	plays, err := database.GamePlays(ctx, game.ID)
	if err != nil {
		return err
	}
	var ids []int64
	for _, p := range plays {
		ids = append(ids, p.BatterID, p.PitcherID)
	}
	players, err := database.PlayerNameIDs(ctx, ids)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Game %s\n", game.NameID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Date:        %s\n", game.Date.Format(dbpkg.DateLayout))
	fmt.Fprintf(w, "Teams:       %s at %s\n", away, home)
	fmt.Fprintf(w, "Venue:       %s\n", venue)
	fmt.Fprintf(w, "Start:       %s\n", start)
	fmt.Fprintf(w, "Conditions:  %s, %s\n", nullable(game.TimeOfDay), nullable(game.FieldType))

	fmt.Fprintf(w, "\nPlays (%d):\n", len(plays))
	fmt.Fprintf(w, "%-4s %-6s %-4s %-7s %-6s %-11s %-11s %s\n",
		"#", "Inning", "Outs", "Runners", "Pitch", "Batter", "Pitcher", "Description")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, p := range plays {
		fmt.Fprintf(w, "%-4d %-6s %-4d %-7s %-6s %-11s %-11s %s\n",
			p.PlayNum,
			inning(p.InningHalf),
			p.StartOuts,
			p.StartOnBase,
			p.PitchCount,
			players[p.BatterID],
			players[p.PitcherID],
			p.Desc,
		)
	}
	return nil
}

// inning renders an inning half index: 0 -> "t1", 1 -> "b1", 2 -> "t2".
func inning(half int) string {
	side := "t"
	if half%2 == 1 {
		side = "b"
	}
	return fmt.Sprintf("%s%d", side, half/2+1)
}
