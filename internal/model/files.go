// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"maps"
	"sync"

	"github.com/specialistvlad/buildgrid/internal/descriptor"
)

// FileCache holds parsed descriptor files keyed by absolute path. One cache
// is owned by the root workspace and shared by the whole tree.
type FileCache struct {
	mu    sync.RWMutex
	files map[string][]descriptor.Record
}

// NewFileCache returns an empty cache.
func NewFileCache() *FileCache {
	return &FileCache{files: make(map[string][]descriptor.Record)}
}

// Get returns the records parsed from path.
func (c *FileCache) Get(path string) ([]descriptor.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	recs, ok := c.files[path]
	return recs, ok
}

// Put stores records for path unless it is already cached, and returns the
// records that are cached afterwards.
func (c *FileCache) Put(path string, records []descriptor.Record) []descriptor.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.files[path]; ok {
		return existing
	}
	c.files[path] = records
	return records
}

// MergeFrom copies entries that are not cached yet. It returns the number of
// entries added.
func (c *FileCache) MergeFrom(files map[string][]descriptor.Record) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	added := 0
	for path, recs := range files {
		if _, ok := c.files[path]; ok {
			continue
		}
		c.files[path] = recs
		added++
	}
	return added
}

// Snapshot copies the cache contents.
func (c *FileCache) Snapshot() map[string][]descriptor.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.files)
}

// Len is the number of cached files.
func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}
