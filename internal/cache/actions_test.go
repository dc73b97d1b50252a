package cache

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dtnitsch/deepfield/pkg/caching"
	"github.com/dtnitsch/deepfield/pkg/links"
)

const playerPage = `<!DOCTYPE html>
<html><head><title>Trea Turner Stats</title></head>
<body><div id="content">
<h1>Trea Turner</h1>
<p>Trea Turner was drafted by the San Diego Padres in the first round of the 2014 amateur draft and traded to the Washington Nationals later that year. He made his debut in August 2015.</p>
<p>He is known for his speed on the bases, leading the National League in stolen bases in 2018 and again in 2021, while playing shortstop and second base for several clubs.</p>
<p>In 2019 he hit for the cycle for the second time in his career, becoming one of a small group of players to do so more than once with the same franchise.</p>
</div></body></html>`

func TestInspect(t *testing.T) {
	cache := caching.NewCache(t.TempDir())
	if err := cache.Insert(links.Player, "turnetr01", []byte(playerPage)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := inspect(&buf, cache, "player", "turnetr01"); err != nil {
		t.Fatalf("inspect() error = %v", err)
	}
	if !strings.Contains(buf.String(), "stolen bases in 2018") {
		t.Errorf("inspect() output = %q, want the page text", buf.String())
	}

	if err := inspect(&buf, cache, "game", "WAS201710120"); err == nil {
		t.Error("inspect() of an uncached page should fail")
	}
	if err := inspect(&buf, cache, "box", "turnetr01"); err == nil {
		t.Error("inspect() with a bad type should fail")
	}
}

func TestList(t *testing.T) {
	cache := caching.NewCache(t.TempDir())
	for _, id := range []string{"turnetr01", "jayjo02"} {
		if err := cache.Insert(links.Player, id, []byte("<html></html>")); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := list(&buf, cache, "player"); err != nil {
		t.Fatalf("list() error = %v", err)
	}
	want := "PlayerPage (2)\n  jayjo02\n  turnetr01\n"
	if buf.String() != want {
		t.Errorf("list() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := list(&buf, cache, ""); err != nil {
		t.Fatalf("list() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "SchedulePage (0)\nGamePage (0)\nPlayerPage (2)") {
		t.Errorf("list() of every type = %q", buf.String())
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		typ    links.PageType
		nameID string
		want   string
	}{
		{links.Game, "WAS201710120", links.BaseURL + "/boxes/WAS/WAS201710120.shtml"},
		{links.Player, "turnetr01", links.BaseURL + "/players/t/turnetr01.shtml"},
		{links.Schedule, "2017-schedule", links.BaseURL + "/leagues/MLB/2017-schedule.shtml"},
	}
	for _, tt := range tests {
		if got := pageURL(tt.typ, tt.nameID); got != tt.want {
			t.Errorf("pageURL(%v, %q) = %q, want %q", tt.typ, tt.nameID, got, tt.want)
		}
	}
}
