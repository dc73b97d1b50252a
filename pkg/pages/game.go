package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/deepfield/models"
	"github.com/dtnitsch/deepfield/pkg/db"
	"github.com/dtnitsch/deepfield/pkg/links"
)

const (
	away = iota
	home
)

type team struct {
	Name         string
	Abbreviation string
}

// GamePage holds the box score and play-by-play of one game. It depends on
// the page of every player who appears in it.
type GamePage struct {
	link  links.Link
	store Store

	teams     [2]team
	venue     string
	startTime *time.Time
	timeOfDay *models.TimeOfDay
	fieldType *models.FieldType
	date      time.Time
	rosters   [2][]rosterEntry
	plays     []rawPlay
}

func parseGame(link links.Link, doc *goquery.Document, store Store) (*GamePage, error) {
	g := &GamePage{link: link, store: store}
	commented := commentedTables(doc)

	if err := g.parseRosters(doc, commented); err != nil {
		return nil, err
	}
	if err := g.parseScorebox(doc); err != nil {
		return nil, err
	}

	pbp := tablesWithID(doc, commented, "play_by_play")
	if len(pbp) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingPlayData, link.URL())
	}
	rows := pbp[0].Find(`tr[id^="event_"]`)
	if rows.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingPlayData, link.URL())
	}
	var err error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		var p rawPlay
		p, err = parsePlayRow(row)
		if err != nil {
			err = malformed(link, "play %d: %v", i, err)
			return false
		}
		g.plays = append(g.plays, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// parseRosters reads the away and home player tables. Batting tables come
// first on the page, away before home; pitchers who never batted are only in
// the pitching tables.
func (g *GamePage) parseRosters(doc *goquery.Document, commented []*goquery.Document) error {
	batting := tablesWithID(doc, commented, "batting")
	if len(batting) < 2 {
		return malformed(g.link, "found %d batting tables, want 2", len(batting))
	}
	pitching := tablesWithID(doc, commented, "pitching")

	for side := away; side <= home; side++ {
		seen := map[string]bool{}
		tables := []*goquery.Selection{batting[side]}
		if len(pitching) >= 2 {
			tables = append(tables, pitching[side])
		}
		for _, t := range tables {
			for _, r := range rosterRows(t) {
				if seen[r.NameID] {
					continue
				}
				seen[r.NameID] = true
				g.rosters[side] = append(g.rosters[side], r)
			}
		}
	}
	return nil
}

func (g *GamePage) parseScorebox(doc *goquery.Document) error {
	box := doc.Find("div.scorebox").First()
	if box.Length() == 0 {
		return malformed(g.link, "no scorebox")
	}

	teamDivs := box.ChildrenFiltered("div")
	if teamDivs.Length() < 2 {
		return malformed(g.link, "no teams in scorebox")
	}
	for side := away; side <= home; side++ {
		a := teamDivs.Eq(side).Find("strong a[href]").First()
		href, _ := a.Attr("href") // /teams/CHC/2017.shtml
		parts := strings.Split(href, "/")
		name := cleanText(a.Text())
		if len(parts) < 3 || name == "" {
			return malformed(g.link, "bad team link %q", href)
		}
		g.teams[side] = team{Name: name, Abbreviation: parts[2]}
	}

	var dateFound bool
	var err error
	box.Find("div.scorebox_meta div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
		text := cleanText(div.Text())
		lower := strings.ToLower(text)
		switch {
		case strings.HasPrefix(text, "Venue: "):
			g.venue = strings.TrimSpace(strings.TrimPrefix(text, "Venue: "))
		case strings.Contains(text, "Time: "):
			g.startTime = parseStartTime(text)
		case strings.HasPrefix(lower, "day") || strings.HasPrefix(lower, "night"):
			tod := models.Day
			if strings.HasPrefix(lower, "night") {
				tod = models.Night
			}
			g.timeOfDay = &tod
			if ft, ok := parseFieldType(lower); ok {
				g.fieldType = &ft
			}
		case strings.HasSuffix(lower, "turf") || strings.HasSuffix(lower, "grass"):
			ft, _ := parseFieldType(lower)
			g.fieldType = &ft
		case isDate(text):
			g.date, err = time.Parse("Monday, January 2, 2006", text)
			if err != nil {
				err = malformed(g.link, "bad date %q", text)
				return false
			}
			dateFound = true
		}
		return true
	})
	if err != nil {
		return err
	}
	if !dateFound {
		return malformed(g.link, "no game date")
	}
	return nil
}

func isDate(text string) bool {
	first, _, _ := strings.Cut(text, " ")
	return strings.HasSuffix(first, "day,")
}

func parseFieldType(lower string) (models.FieldType, bool) {
	switch {
	case strings.HasSuffix(lower, "turf"):
		return models.Turf, true
	case strings.HasSuffix(lower, "grass"):
		return models.Grass, true
	}
	return 0, false
}

// parseStartTime reads "Start Time: 8:08 p.m. Local". Times that are not
// local to the venue are dropped rather than converted.
func parseStartTime(text string) *time.Time {
	i := strings.LastIndex(text, "Time: ")
	clock := strings.TrimSpace(text[i+len("Time: "):])
	if !strings.HasSuffix(clock, " Local") {
		return nil
	}
	clock = strings.TrimSuffix(clock, " Local")
	clock = strings.ToUpper(strings.ReplaceAll(clock, ".", ""))
	t, err := time.Parse("3:04 PM", clock)
	if err != nil {
		return nil
	}
	return &t
}

func (g *GamePage) Link() links.Link { return g.link }

// Links returns the player pages the game depends on, away team first.
func (g *GamePage) Links() []string {
	var out []string
	for _, roster := range g.rosters {
		for _, r := range roster {
			out = append(out, r.Href)
		}
	}
	return out
}

func (g *GamePage) Exists(ctx context.Context) (bool, error) {
	return g.store.Exists(ctx, "games", g.link.NameID())
}

// Persist stores the teams, venue, game and plays in one transaction.
func (g *GamePage) Persist(ctx context.Context) error {
	return persist(ctx, g.store, g.link, g.Links(), func(q *db.Queries) error {
		awayID, err := q.GetOrCreateTeam(ctx, g.teams[away].Name, g.teams[away].Abbreviation)
		if err != nil {
			return err
		}
		homeID, err := q.GetOrCreateTeam(ctx, g.teams[home].Name, g.teams[home].Abbreviation)
		if err != nil {
			return err
		}

		game := db.Game{
			NameID:         g.link.NameID(),
			LocalStartTime: g.startTime,
			TimeOfDay:      g.timeOfDay,
			FieldType:      g.fieldType,
			Date:           g.date,
			HomeTeamID:     homeID,
			AwayTeamID:     awayID,
		}
		if g.venue != "" {
			venueID, err := q.GetOrCreateVenue(ctx, g.venue)
			if err != nil {
				return err
			}
			game.VenueID = &venueID
		}
		gameID, err := q.InsertGame(ctx, game)
		if err != nil {
			return err
		}

		res, err := g.newResolver(ctx, q)
		if err != nil {
			return err
		}
		plays := make([]db.Play, 0, len(g.plays))
		for i, raw := range g.plays {
			p, err := raw.toPlay(res)
			if err != nil {
				return malformed(g.link, "play %d: %v", i, err)
			}
			p.GameID = gameID
			p.PlayNum = i
			plays = append(plays, p)
		}
		return q.InsertPlays(ctx, plays)
	})
}

func (g *GamePage) newResolver(ctx context.Context, q *db.Queries) (*resolver, error) {
	var nameIDs []string
	for _, roster := range g.rosters {
		for _, r := range roster {
			nameIDs = append(nameIDs, r.NameID)
		}
	}
	ids, err := q.PlayerIDs(ctx, nameIDs)
	if err != nil {
		return nil, err
	}
	return newResolver(g.rosters, ids), nil
}
