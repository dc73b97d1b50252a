package pages

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/deepfield/pkg/links"
	"golang.org/x/net/html"
)

// commentedTables returns the documents hidden in HTML comments that follow
// div.placeholder markers, in page order. The site ships most secondary
// tables this way and renders them client side.
func commentedTables(doc *goquery.Document) []*goquery.Document {
	var out []*goquery.Document
	doc.Find("div.placeholder").Each(func(_ int, ph *goquery.Selection) {
		for n := ph.Get(0).NextSibling; n != nil; n = n.NextSibling {
			if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
				continue
			}
			if n.Type == html.CommentNode {
				if d, err := goquery.NewDocumentFromReader(strings.NewReader(n.Data)); err == nil {
					out = append(out, d)
				}
			}
			break
		}
	})
	return out
}

// tablesWithID returns the tables whose id contains fragment, looking in
// commented tables first and then in the live document.
func tablesWithID(doc *goquery.Document, commented []*goquery.Document, fragment string) []*goquery.Selection {
	var out []*goquery.Selection
	sel := `table[id*="` + fragment + `"]`
	for _, d := range commented {
		d.Find(sel).Each(func(_ int, t *goquery.Selection) {
			out = append(out, t)
		})
	}
	if len(out) > 0 {
		return out
	}
	doc.Find(sel).Each(func(_ int, t *goquery.Selection) {
		out = append(out, t)
	})
	return out
}

var (
	nameTitle     = regexp.MustCompile(` [JS]r\.`)
	middleInitial = regexp.MustCompile(` \w\.`)
)

// stripName standardizes the two spellings the site uses for one player:
// play rows may drop middle initials and Jr./Sr. titles.
func stripName(name string) string {
	return nameTitle.ReplaceAllString(middleInitial.ReplaceAllString(name, ""), "")
}

// rosterEntry is one row of a player table.
type rosterEntry struct {
	Name   string // stripped
	NameID string
	Href   string // absolute
}

// rosterRows reads the player rows of a batting or pitching table.
func rosterRows(table *goquery.Selection) []rosterEntry {
	var rows []rosterEntry
	table.Find(`th[data-stat="player"]`).Each(func(_ int, th *goquery.Selection) {
		a := th.Find("a[href]").First()
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, "/players/") {
			// team totals and spacer rows
			return
		}
		rows = append(rows, rosterEntry{
			Name:   stripName(cleanText(a.Text())),
			NameID: links.NameID(href),
			Href:   links.Resolve(href),
		})
	})
	return rows
}
