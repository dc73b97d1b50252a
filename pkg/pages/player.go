package pages

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/deepfield/models"
	"github.com/dtnitsch/deepfield/pkg/db"
	"github.com/dtnitsch/deepfield/pkg/links"
)

var handednessPattern = regexp.MustCompile(`(Bats|Throws):\s*(\w+)`)

// PlayerPage describes one player. It depends on nothing.
type PlayerPage struct {
	link   links.Link
	store  Store
	player db.Player
}

func parsePlayer(link links.Link, doc *goquery.Document, store Store) (*PlayerPage, error) {
	info := doc.Find(`div[itemtype="https://schema.org/Person"]`).First()
	if info.Length() == 0 {
		return nil, malformed(link, "no player info")
	}
	name := cleanText(info.Find("h1").First().Text())
	if name == "" {
		return nil, malformed(link, "no player name")
	}

	hands := map[string]models.Handedness{}
	for _, m := range handednessPattern.FindAllStringSubmatch(cleanText(info.Text()), -1) {
		h, err := models.ParseHandedness(m[2])
		if err != nil {
			return nil, malformed(link, "%v", err)
		}
		if _, seen := hands[m[1]]; !seen {
			hands[m[1]] = h
		}
	}
	bats, okB := hands["Bats"]
	throws, okT := hands["Throws"]
	if !okB || !okT {
		return nil, malformed(link, "no handedness")
	}

	return &PlayerPage{
		link:  link,
		store: store,
		player: db.Player{
			Name:   name,
			NameID: link.NameID(),
			Bats:   bats,
			Throws: throws,
		},
	}, nil
}

func (p *PlayerPage) Link() links.Link { return p.link }

func (p *PlayerPage) Links() []string { return nil }

// Player returns the row the page persists.
func (p *PlayerPage) Player() db.Player { return p.player }

func (p *PlayerPage) Exists(ctx context.Context) (bool, error) {
	return p.store.Exists(ctx, "players", p.link.NameID())
}

func (p *PlayerPage) Persist(ctx context.Context) error {
	return persist(ctx, p.store, p.link, nil, func(q *db.Queries) error {
		_, err := q.InsertPlayer(ctx, p.player)
		return err
	})
}

// cleanText replaces non-breaking spaces and trims.
func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
