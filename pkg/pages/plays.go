package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/deepfield/models"
	"github.com/dtnitsch/deepfield/pkg/db"
)

// rawPlay is a play-by-play row as text.
type rawPlay struct {
	Inning     string // t1, b9, t11, ...
	Outs       string
	Runners    string // ---, 1-3, 123, ...
	PitchCount string
	Batter     string
	Pitcher    string
	Desc       string
}

func parsePlayRow(row *goquery.Selection) (rawPlay, error) {
	stats := map[string]string{}
	row.Find("[data-stat]").Each(func(_ int, cell *goquery.Selection) {
		key, _ := cell.Attr("data-stat")
		stats[key] = strings.ReplaceAll(cell.Text(), "\u00a0", " ")
	})

	p := rawPlay{
		Inning:     strings.TrimSpace(stats["inning"]),
		Outs:       strings.TrimSpace(stats["outs"]),
		Runners:    strings.TrimSpace(stats["runners_on_bases_pbp"]),
		PitchCount: strings.TrimSpace(stats["pitches_pbp"]),
		Batter:     strings.TrimSpace(stats["batter"]),
		Pitcher:    strings.TrimSpace(stats["pitcher"]),
		Desc:       strings.TrimSpace(stats["play_desc"]),
	}
	for name, v := range map[string]string{"inning": p.Inning, "outs": p.Outs, "batter": p.Batter, "pitcher": p.Pitcher, "play_desc": p.Desc} {
		if v == "" {
			return rawPlay{}, fmt.Errorf("missing %s", name)
		}
	}
	return p, nil
}

// inningHalf maps t1 -> 0, b1 -> 1, t2 -> 2 and so on. It also reports
// whether the home team is batting.
func inningHalf(inning string) (int, bool, error) {
	if len(inning) < 2 {
		return 0, false, fmt.Errorf("bad inning %q", inning)
	}
	n, err := strconv.Atoi(inning[1:])
	if err != nil || n < 1 {
		return 0, false, fmt.Errorf("bad inning %q", inning)
	}
	switch inning[0] {
	case 't':
		return 2 * (n - 1), false, nil
	case 'b':
		return 2*(n-1) + 1, true, nil
	}
	return 0, false, fmt.Errorf("bad inning %q", inning)
}

func (p rawPlay) toPlay(res *resolver) (db.Play, error) {
	half, homeBatting, err := inningHalf(p.Inning)
	if err != nil {
		return db.Play{}, err
	}
	outs, err := strconv.Atoi(p.Outs)
	if err != nil {
		return db.Play{}, fmt.Errorf("bad outs %q", p.Outs)
	}

	// The home team bats in the bottom half.
	batSide, pitchSide := away, home
	if homeBatting {
		batSide, pitchSide = home, away
	}
	batter, err := res.resolve(batSide, roleBatter, p.Batter)
	if err != nil {
		return db.Play{}, err
	}
	pitcher, err := res.resolve(pitchSide, rolePitcher, p.Pitcher)
	if err != nil {
		return db.Play{}, err
	}

	return db.Play{
		InningHalf:  half,
		StartOuts:   outs,
		StartOnBase: models.ParseRunners(p.Runners),
		Desc:        p.Desc,
		PitchCount:  p.PitchCount,
		BatterID:    batter,
		PitcherID:   pitcher,
	}, nil
}

const (
	roleBatter = iota
	rolePitcher
)

type appearanceKey struct {
	side, role int
	name       string
}

// resolver maps the player names used in play rows to database ids.
//
// Two players on one roster can share a name. Their ids are kept in roster
// order and a player's appearance count picks one cyclically: every time the
// name leaves the batter (or pitcher) slot, its next appearance moves on to
// the next id. This is a heuristic; it is right for the common case of
// same-named players alternating and has no way to be right in general.
type resolver struct {
	rosters [2]map[string][]int64
	counts  map[appearanceKey]int
	current [2][2]string
}

func newResolver(rosters [2][]rosterEntry, ids map[string]int64) *resolver {
	r := &resolver{counts: map[appearanceKey]int{}}
	for side, roster := range rosters {
		r.rosters[side] = map[string][]int64{}
		for _, e := range roster {
			id, ok := ids[e.NameID]
			if !ok {
				continue
			}
			r.rosters[side][e.Name] = append(r.rosters[side][e.Name], id)
		}
	}
	return r
}

func (r *resolver) resolve(side, role int, name string) (int64, error) {
	ids, ok := r.rosters[side][name]
	if !ok {
		name = stripName(name)
		ids, ok = r.rosters[side][name]
	}
	if !ok || len(ids) == 0 {
		return 0, fmt.Errorf("no player named %q on roster", name)
	}

	if cur := r.current[side][role]; cur != name {
		if cur != "" {
			r.counts[appearanceKey{side, role, cur}]++
		}
		r.current[side][role] = name
	}
	n := r.counts[appearanceKey{side, role, name}]
	return ids[n%len(ids)], nil
}
