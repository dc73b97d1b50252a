package pages

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/deepfield/pkg/links"
)

// SchedulePage lists the box score of every game in a season.
type SchedulePage struct {
	link  links.Link
	games []string
}

func parseSchedule(link links.Link, doc *goquery.Document) *SchedulePage {
	p := &SchedulePage{link: link}
	doc.Find("p.game").Each(func(_ int, game *goquery.Selection) {
		// games without a box score have not been played yet
		href, ok := game.Find("em a[href]").First().Attr("href")
		if !ok {
			return
		}
		p.games = append(p.games, links.Resolve(href))
	})
	return p
}

func (p *SchedulePage) Link() links.Link { return p.link }

func (p *SchedulePage) Links() []string { return p.games }
