package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/folioengine/folio/internal/media"
)

// ManifestName is the catalog file expected beside the upload tree.
const ManifestName = "media.json"

// manifest is the on-disk catalog shape.
type manifest struct {
	Entries []media.Entry `json:"entries"`
}

// FS serves lookups from a JSON manifest in the media root. The manifest is
// written by the upload/processing pipeline; FS only reads it. Reload swaps
// the whole map, so concurrent readers never observe a partial catalog.
type FS struct {
	root   string
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]media.Entry

	cron  *cron.Cron
	jobID cron.EntryID
}

// NewFS creates a manifest-backed registry for the given media root and
// performs the initial load. A missing manifest is an empty catalog, not an
// error.
func NewFS(log *slog.Logger, root string) (*FS, error) {
	if log == nil {
		log = slog.Default()
	}
	f := &FS{
		root:    root,
		logger:  log.With(slog.String("service", "registry")),
		entries: map[string]media.Entry{},
	}
	if err := f.Reload(context.Background()); err != nil {
		return nil, err
	}
	return f, nil
}

// Lookup returns the entry for the bare filename.
func (f *FS) Lookup(ctx context.Context, filename string) (media.Entry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	entry, ok := f.entries[media.BaseFilename(filename)]
	if !ok {
		return media.Entry{}, media.ErrEntryNotFound
	}
	return entry, nil
}

// Len returns the number of cataloged entries.
func (f *FS) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries)
}

// Reload re-reads the manifest and swaps the catalog.
func (f *FS) Reload(ctx context.Context) error {
	path := filepath.Join(f.root, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			f.swap(map[string]media.Entry{})
			return nil
		}
		return fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	entries := make(map[string]media.Entry, len(m.Entries))
	for _, e := range m.Entries {
		name := media.BaseFilename(e.Filename)
		if name == "" {
			continue
		}
		e.Filename = name
		entries[name] = e
	}
	f.swap(entries)
	f.logger.Debug("manifest loaded", slog.Int("entries", len(entries)))
	return nil
}

// Register appends an entry to the manifest on disk and to the live catalog.
// Used by the upload handler after a successful ingest.
func (f *FS) Register(ctx context.Context, entry media.Entry) error {
	name := media.BaseFilename(entry.Filename)
	if name == "" {
		return fmt.Errorf("entry filename is required")
	}
	entry.Filename = name

	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[name] = entry

	m := manifest{Entries: make([]media.Entry, 0, len(f.entries))}
	for _, e := range f.entries {
		m.Entries = append(m.Entries, e)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("create media root: %w", err)
	}
	path := filepath.Join(f.root, ManifestName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

// StartRescan schedules a periodic manifest reload with the given cron
// pattern (e.g. "@every 5m").
func (f *FS) StartRescan(pattern string) error {
	if f.cron != nil {
		return fmt.Errorf("rescan already started")
	}
	c := cron.New()
	id, err := c.AddFunc(pattern, func() {
		if err := f.Reload(context.Background()); err != nil {
			f.logger.Warn("manifest rescan failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid rescan pattern: %w", err)
	}
	f.cron = c
	f.jobID = id
	c.Start()
	return nil
}

// StopRescan stops the periodic reload.
func (f *FS) StopRescan() {
	if f.cron == nil {
		return
	}
	f.cron.Remove(f.jobID)
	ctx := f.cron.Stop()
	<-ctx.Done()
	f.cron = nil
}

func (f *FS) swap(entries map[string]media.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
}
