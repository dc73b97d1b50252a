package cache

import (
	"fmt"
	"io"
	"os"

	"github.com/dtnitsch/deepfield/internal/common"
	"github.com/dtnitsch/deepfield/pkg/caching"
	"github.com/dtnitsch/deepfield/pkg/links"
	"github.com/dtnitsch/deepfield/pkg/parser"
	"github.com/urfave/cli/v2"
)

// InspectAction prints the readable text of a cached page.
func InspectAction(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected TYPE NAME_ID, got %d arguments", c.NArg())
	}
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	return inspect(os.Stdout, caching.NewCache(cfg.CacheDir), c.Args().Get(0), c.Args().Get(1))
}

// ListAction prints the name ids cached for each page type.
func ListAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	return list(os.Stdout, caching.NewCache(cfg.CacheDir), c.Args().First())
}

func inspect(w io.Writer, cache *caching.Cache, typeArg, nameID string) error {
	typ, err := links.ParsePageType(typeArg)
	if err != nil {
		return err
	}
	html, ok, err := cache.Find(typ, nameID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s is not cached", typ, nameID)
	}

	doc, err := parser.Readable(pageURL(typ, nameID), html)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc.Text())
	return err
}

// pageURL rebuilds a plausible address for a cached page; readability only
// uses it to resolve relative links.
func pageURL(typ links.PageType, nameID string) string {
	switch typ {
	case links.Game:
		return fmt.Sprintf("%s/boxes/%s/%s%s", links.BaseURL, nameID[:min(3, len(nameID))], nameID, caching.Ext)
	case links.Player:
		return fmt.Sprintf("%s/players/%s/%s%s", links.BaseURL, nameID[:min(1, len(nameID))], nameID, caching.Ext)
	}
	return fmt.Sprintf("%s/leagues/MLB/%s%s", links.BaseURL, nameID, caching.Ext)
}

func list(w io.Writer, cache *caching.Cache, typeArg string) error {
	types := links.PageTypes
	if typeArg != "" {
		typ, err := links.ParsePageType(typeArg)
		if err != nil {
			return err
		}
		types = []links.PageType{typ}
	}

	for _, typ := range types {
		names, err := cache.Names(typ)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", typ, err)
		}
		fmt.Fprintf(w, "%s (%d)\n", typ, len(names))
		for _, n := range names {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
	return nil
}
