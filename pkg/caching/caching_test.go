package caching

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/deepfield/pkg/links"
)

func TestInsertFindRoundTrip(t *testing.T) {
	c := NewCache(t.TempDir())
	content := []byte("<html><body>\x00\xffbinary-safe</body></html>")

	if err := c.Insert(links.Game, "WAS201710120", content); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, ok, err := c.Find(links.Game, "WAS201710120")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if !ok {
		t.Fatal("Find() missed after Insert()")
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Find() = %q, want %q", got, content)
	}
}

func TestFindMiss(t *testing.T) {
	c := NewCache(t.TempDir())
	got, ok, err := c.Find(links.Player, "troutmi01")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if ok || got != nil {
		t.Errorf("Find() = %q, %v; want miss", got, ok)
	}
}

func TestDirectoriesCreatedLazily(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	c := NewCache(root)

	if _, _, err := c.Find(links.Game, "WAS201710120"); err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("cache root exists before first insert: %v", err)
	}

	if err := c.Insert(links.Player, "troutmi01", []byte("x")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "PlayerPage", "troutmi01.shtml")); err != nil {
		t.Errorf("cached file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "GamePage")); !os.IsNotExist(err) {
		t.Errorf("GamePage directory should not exist: %v", err)
	}
}

func TestListingIsCached(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "SchedulePage")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2019-schedule.shtml"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(root)
	if ok, _ := c.Has(links.Schedule, "2019-schedule"); !ok {
		t.Fatal("Has() = false for a pre-existing file")
	}

	// Written behind the cache's back after the listing was taken.
	if err := os.WriteFile(filepath.Join(dir, "2018-schedule.shtml"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Has(links.Schedule, "2018-schedule"); ok {
		t.Error("Has() = true, want the directory to be listed only once")
	}
}

func TestInsertOverwrites(t *testing.T) {
	c := NewCache(t.TempDir())
	if err := c.Insert(links.Player, "troutmi01", []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(links.Player, "troutmi01", []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, _, _ := c.Find(links.Player, "troutmi01")
	if string(got) != "second" {
		t.Errorf("Find() = %q, want second", got)
	}

	entries, err := os.ReadDir(filepath.Join(c.Root(), "PlayerPage"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("found %d files, want no leftover temp files", len(entries))
	}
}

func TestFindRemovedFile(t *testing.T) {
	c := NewCache(t.TempDir())
	if err := c.Insert(links.Game, "WAS201710120", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(c.Path(links.Game, "WAS201710120")); err != nil {
		t.Fatal(err)
	}
	_, ok, err := c.Find(links.Game, "WAS201710120")
	if err != nil || ok {
		t.Errorf("Find() = %v, %v; want clean miss", ok, err)
	}
}

func TestNames(t *testing.T) {
	root := t.TempDir()
	c := NewCache(root)
	for _, id := range []string{"turnetr01", "jayjo02"} {
		if err := c.Insert(links.Player, id, []byte("<html></html>")); err != nil {
			t.Fatal(err)
		}
	}
	// only .shtml files count
	if err := os.WriteFile(filepath.Join(root, links.Player.String(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewCache(root).Names(links.Player)
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	want := []string{"jayjo02", "turnetr01"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	empty, err := c.Names(links.Game)
	if err != nil || len(empty) != 0 {
		t.Errorf("Names(Game) = %v, %v, want empty", empty, err)
	}
}
