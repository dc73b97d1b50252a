package db

import (
	"fmt"
	"time"

	"github.com/dtnitsch/deepfield/models"
)

// DateLayout is how game dates are stored; it sorts chronologically.
const DateLayout = "2006-01-02"

// ClockLayout is how local start times are stored.
const ClockLayout = "15:04"

type Player struct {
	ID     int64
	Name   string
	NameID string
	Bats   models.Handedness
	Throws models.Handedness
}

// Game is a row of the games table. Pointer fields are optional on the page.
type Game struct {
	ID             int64
	NameID         string
	LocalStartTime *time.Time // only the clock part is stored
	TimeOfDay      *models.TimeOfDay
	FieldType      *models.FieldType
	Date           time.Time
	VenueID        *int64
	HomeTeamID     int64
	AwayTeamID     int64
}

type Play struct {
	ID          int64
	GameID      int64
	InningHalf  int
	StartOuts   int
	StartOnBase models.OnBase
	PlayNum     int
	Desc        string
	PitchCount  string
	BatterID    int64
	PitcherID   int64
}

// PlayRef is the subset of a play the graph builder consumes.
type PlayRef struct {
	ID        int64
	BatterID  int64
	PitcherID int64
	Desc      string
}

type PlayNode struct {
	PlayID  int64
	Outcome int
	Level   int
}

type PlayEdge struct {
	From int64
	To   int64
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid game date %q: %w", s, err)
	}
	return t, nil
}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", s, err)
	}
	return t, nil
}
