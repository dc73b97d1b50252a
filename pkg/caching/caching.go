// Package caching stores fetched pages on disk, one folder per page type.
package caching

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dtnitsch/deepfield/pkg/links"
)

// Ext is the file extension of every cached page.
const Ext = ".shtml"

// Cache is an on-disk HTML store with one subdirectory per page type.
// Each subdirectory is listed at most once; afterwards membership checks are
// answered from memory.
type Cache struct {
	root string

	mu      sync.Mutex
	folders map[links.PageType]*folder
}

type folder struct {
	dir string

	mu     sync.Mutex
	listed bool
	names  map[string]struct{}
}

// NewCache returns a cache rooted at root. Nothing is created on disk until
// the first Insert.
func NewCache(root string) *Cache {
	return &Cache{
		root:    root,
		folders: make(map[links.PageType]*folder),
	}
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) folder(t links.PageType) *folder {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.folders[t]
	if !ok {
		f = &folder{dir: filepath.Join(c.root, t.String())}
		c.folders[t] = f
	}
	return f
}

// list reads the directory once. A missing directory is an empty listing.
// Callers must hold f.mu.
func (f *folder) list() error {
	if f.listed {
		return nil
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to list cache directory: %w", err)
	}
	f.names = make(map[string]struct{}, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}
		f.names[strings.TrimSuffix(name, Ext)] = struct{}{}
	}
	f.listed = true
	return nil
}

func (f *folder) path(nameID string) string {
	return filepath.Join(f.dir, nameID+Ext)
}

// Has reports whether a page is cached without reading it.
func (c *Cache) Has(t links.PageType, nameID string) (bool, error) {
	f := c.folder(t)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.list(); err != nil {
		return false, err
	}
	_, ok := f.names[nameID]
	return ok, nil
}

// Names returns the sorted name ids cached for a page type.
func (c *Cache) Names(t links.PageType) ([]string, error) {
	f := c.folder(t)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.list(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.names))
	for n := range f.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Find returns the cached content for a page.
// It returns the data and true on a hit, nil and false on a miss.
func (c *Cache) Find(t links.PageType, nameID string) ([]byte, bool, error) {
	f := c.folder(t)
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.list(); err != nil {
		return nil, false, err
	}
	if _, ok := f.names[nameID]; !ok {
		return nil, false, nil
	}

	data, err := os.ReadFile(f.path(nameID))
	if errors.Is(err, fs.ErrNotExist) {
		// removed behind our back
		delete(f.names, nameID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read from cache: %w", err)
	}
	return data, true, nil
}

// Insert writes content for a page. The file is written to a temporary name
// and renamed into place so readers never see a partial page.
func (c *Cache) Insert(t links.PageType, nameID string, content []byte) error {
	f := c.folder(t)
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.list(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, nameID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmpName, f.path(nameID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}

	f.names[nameID] = struct{}{}
	return nil
}

// Path returns where a page is or would be cached.
func (c *Cache) Path(t links.PageType, nameID string) string {
	return c.folder(t).path(nameID)
}
