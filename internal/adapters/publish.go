package adapters

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/folioengine/folio/internal/media"
	"github.com/folioengine/folio/internal/storage"
)

// StoragePublish is the default publish capability: rendered pages land in
// the storage provider under pages/<slug>.html. Hosted deployments override
// this with their platform publisher.
type StoragePublish struct {
	provider storage.Provider
	logger   *slog.Logger
}

// NewStoragePublish creates the storage-backed publish adapter.
func NewStoragePublish(log *slog.Logger, provider storage.Provider) *StoragePublish {
	if log == nil {
		log = slog.Default()
	}
	return &StoragePublish{
		provider: provider,
		logger:   log.With(slog.String("adapter", "publish")),
	}
}

// Publish writes the rendered page. The slug is untrusted input; path
// components are stripped before it becomes a storage key.
func (p *StoragePublish) Publish(ctx context.Context, slug string, html []byte) error {
	if p.provider == nil {
		return fmt.Errorf("storage provider unavailable")
	}
	name := media.BaseFilename(slug)
	if name == "" {
		return fmt.Errorf("slug is required")
	}
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	key := "pages/" + name
	if err := p.provider.Put(ctx, key, bytes.NewReader(html)); err != nil {
		return fmt.Errorf("publish page: %w", err)
	}
	p.logger.Info("page published", slog.String("key", key), slog.Int("bytes", len(html)))
	return nil
}
