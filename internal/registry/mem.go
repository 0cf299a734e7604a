// Package registry provides media.Registry implementations over a JSON
// manifest and an in-memory map.
package registry

import (
	"context"
	"sync"

	"github.com/folioengine/folio/internal/media"
)

// Mem is an in-memory registry, used by tests and for embedding.
type Mem struct {
	mu      sync.RWMutex
	entries map[string]media.Entry
}

// NewMem creates an in-memory registry seeded with the given entries.
func NewMem(entries ...media.Entry) *Mem {
	m := &Mem{entries: make(map[string]media.Entry, len(entries))}
	for _, e := range entries {
		m.entries[e.Filename] = e
	}
	return m
}

// Put adds or replaces an entry.
func (m *Mem) Put(entry media.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Filename] = entry
}

// Lookup returns the entry for the bare filename.
func (m *Mem) Lookup(ctx context.Context, filename string) (media.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[media.BaseFilename(filename)]
	if !ok {
		return media.Entry{}, media.ErrEntryNotFound
	}
	return entry, nil
}
