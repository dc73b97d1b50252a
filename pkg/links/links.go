// Package links classifies baseball-reference.com addresses into page types.
package links

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// BaseURL is the origin every site-relative href is resolved against.
const BaseURL = "https://www.baseball-reference.com"

// ErrUnclassifiable is returned when an address matches no known page type.
var ErrUnclassifiable = errors.New("could not determine page type")

// PageType is the kind of page a link points to.
type PageType int

const (
	Unknown PageType = iota
	Schedule
	Game
	Player
)

// PageTypes lists every classifiable page type.
var PageTypes = []PageType{Schedule, Game, Player}

// String returns the cache folder name for the page type.
func (t PageType) String() string {
	switch t {
	case Schedule:
		return "SchedulePage"
	case Game:
		return "GamePage"
	case Player:
		return "PlayerPage"
	}
	return "UnknownPage"
}

// ParsePageType accepts a cache folder name ("GamePage") or its short form
// ("game"), case-insensitively.
func ParsePageType(s string) (PageType, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "page")
	for _, t := range PageTypes {
		if strings.TrimSuffix(strings.ToLower(t.String()), "page") == name {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown page type %q", s)
}

// Model returns the table whose rows have a one-to-one relation with pages of
// this type, or "" when pages of this type are never persisted.
func (t PageType) Model() string {
	switch t {
	case Game:
		return "games"
	case Player:
		return "players"
	}
	return ""
}

var (
	gameNameID   = regexp.MustCompile(`^[A-Z]{3}\d{9}$`)
	playerNameID = regexp.MustCompile(`^[\w.']+\d\d$`)
)

// Classify maps a name id (and the address it came from) to a page type.
// Order matters: a name id is checked against the game pattern first.
func Classify(nameID, rawURL string) (PageType, error) {
	switch {
	case gameNameID.MatchString(nameID):
		return Game, nil
	case playerNameID.MatchString(nameID):
		return Player, nil
	case strings.Contains(rawURL, "schedule"):
		return Schedule, nil
	}
	return Unknown, fmt.Errorf("%w: %s", ErrUnclassifiable, rawURL)
}

// NameID returns the last path segment of rawURL without its extension.
// "/players/s/sabatc.01.shtml" -> "sabatc.01".
func NameID(rawURL string) string {
	s := rawURL
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "."); i > 0 {
		s = s[:i]
	}
	return s
}

// Resolve turns a site-relative href into an absolute address.
func Resolve(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return BaseURL + href
}

// Link is an immutable reference to a remote page. Two links are equal when
// their addresses are equal.
type Link struct {
	url    string
	nameID string
	typ    PageType
}

// New classifies rawURL and returns the link for it.
func New(rawURL string) (Link, error) {
	nameID := NameID(rawURL)
	typ, err := Classify(nameID, rawURL)
	if err != nil {
		return Link{}, err
	}
	return Link{url: rawURL, nameID: nameID, typ: typ}, nil
}

// MustNew is New for addresses known to be valid; it panics otherwise.
func MustNew(rawURL string) Link {
	l, err := New(rawURL)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Link) URL() string    { return l.url }
func (l Link) NameID() string { return l.nameID }
func (l Link) Type() PageType { return l.typ }

// Key identifies the page behind the link independent of how it was reached.
func (l Link) Key() string {
	return l.typ.String() + "/" + l.nameID
}

func (l Link) String() string { return l.url }
