// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists validated fact packs as date-keyed JSON files.
// Keys embed the calendar date, so entries expire naturally at the day
// boundary and are never explicitly invalidated. Corrupt content is a
// cache miss, never a fatal error.
package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/company-story/internal/factpack"
	"github.com/pdiddy/company-story/pkg/types"
)

// Store reads and writes fact packs under a single directory.
type Store struct {
	dir  string
	warn io.Writer
}

// NewStore builds a store rooted at dir. Warnings about unreadable or
// corrupt entries go to warn; nil sends them to stderr.
func NewStore(dir string, warn io.Writer) Store {
	if warn == nil {
		warn = os.Stderr
	}
	return Store{dir: dir, warn: warn}
}

// Path returns the cache file path for a key.
func (s Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads a previously stored fact pack. A missing file, unparsable
// content, or content that no longer passes validation all read as a miss;
// the latter two produce a warning.
func (s Store) Load(key string) (*types.FactPack, bool) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(s.warn, "warning: could not read cache %s: %v\n", s.Path(key), err)
		}
		return nil, false
	}

	var pack types.FactPack
	if err := json.Unmarshal(data, &pack); err != nil {
		fmt.Fprintf(s.warn, "warning: corrupt cache %s: %v\n", s.Path(key), err)
		return nil, false
	}
	if violations := factpack.Validate(&pack); len(violations) > 0 {
		fmt.Fprintf(s.warn, "warning: cached fact pack %s fails validation, regenerating\n", s.Path(key))
		return nil, false
	}
	return &pack, true
}

// Save serializes a fact pack to the key's path, writing to a temporary
// file and renaming so an interrupted write never leaves a partial entry.
func (s Store) Save(key string, pack *types.FactPack) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling fact pack: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}

// Entry describes one cache file.
type Entry struct {
	Key     string
	ModTime time.Time
	Size    int64
}

// List returns all cache entries sorted by key. A missing cache directory
// yields an empty list.
func (s Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory %s: %w", s.dir, err)
	}

	var entries []Entry
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Key:     strings.TrimSuffix(e.Name(), ".json"),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Remove deletes a cache entry. Removing an absent key is not an error.
func (s Store) Remove(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache entry: %w", err)
	}
	return nil
}
