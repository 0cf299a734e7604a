package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/folioengine/folio/internal/storage"
)

// Service persists uploaded media assets through a storage provider.
// Assets are keyed by their bare filename; derived size variants are
// produced by an external processing step and land beside the original.
type Service struct {
	provider storage.Provider
	logger   *slog.Logger
}

// NewService creates a media service with the given storage provider.
func NewService(log *slog.Logger, provider storage.Provider) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		provider: provider,
		logger:   log.With(slog.String("service", "media")),
	}
}

// IngestInput carries the data needed to persist a new media asset.
type IngestInput struct {
	Filename string
	Mime     string
	// Reader provides the raw bytes; caller is responsible for closing.
	Reader io.Reader
	// MaxBytes bounds the spooled size; required.
	MaxBytes int64
}

// Asset describes a persisted media object.
type Asset struct {
	Filename    string `json:"filename"`
	Mime        string `json:"mime"`
	SizeBytes   int64  `json:"size_bytes"`
	ContentHash string `json:"content_hash"`
	StorageKey  string `json:"storage_key"`
}

// Ingest persists a new media asset. The content is spooled to a temp file
// while hashing so the size limit is enforced before anything reaches the
// provider. Returns the stored Asset.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (Asset, error) {
	if s.provider == nil {
		return Asset{}, ErrProviderUnavailable
	}
	filename := BaseFilename(input.Filename)
	if filename == "" {
		return Asset{}, fmt.Errorf("filename is required")
	}
	if input.Reader == nil {
		return Asset{}, fmt.Errorf("reader is required")
	}
	if input.MaxBytes <= 0 {
		return Asset{}, fmt.Errorf("max bytes must be greater than 0")
	}

	contentHash, sizeBytes, tempPath, err := spoolAndHashWithLimit(input.Reader, input.MaxBytes)
	if err != nil {
		return Asset{}, fmt.Errorf("read input: %w", err)
	}
	defer func() {
		_ = os.Remove(tempPath)
	}()

	mime := NormalizeMime(input.Mime)
	if mime == "" {
		mime = MimeFromExtension(path.Ext(filename))
	}

	tempFile, err := os.Open(tempPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open temp file: %w", err)
	}
	defer func() {
		_ = tempFile.Close()
	}()
	if err := s.provider.Put(ctx, filename, tempFile); err != nil {
		return Asset{}, fmt.Errorf("store media: %w", err)
	}

	s.logger.Info("media ingested",
		slog.String("filename", filename),
		slog.String("mime", mime),
		slog.Int64("size_bytes", sizeBytes),
	)

	return Asset{
		Filename:    filename,
		Mime:        mime,
		SizeBytes:   sizeBytes,
		ContentHash: contentHash,
		StorageKey:  filename,
	}, nil
}

// Open returns a reader for a stored asset by filename.
func (s *Service) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}
	name := BaseFilename(filename)
	if name == "" {
		return nil, ErrEntryNotFound
	}
	reader, err := s.provider.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return reader, nil
}

// AccessPath returns a consumer-accessible reference for a stored asset.
func (s *Service) AccessPath(asset Asset) string {
	if s.provider == nil {
		return ""
	}
	return s.provider.AccessPath(asset.StorageKey)
}

func spoolAndHashWithLimit(reader io.Reader, maxBytes int64) (string, int64, string, error) {
	tempFile, err := os.CreateTemp("", "folio-media-*")
	if err != nil {
		return "", 0, "", fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	keepFile := false
	defer func() {
		_ = tempFile.Close()
		if !keepFile {
			_ = os.Remove(tempPath)
		}
	}()

	hasher := sha256.New()
	limited := &io.LimitedReader{R: reader, N: maxBytes + 1}
	written, err := io.Copy(io.MultiWriter(tempFile, hasher), limited)
	if err != nil {
		return "", 0, "", fmt.Errorf("copy to temp file: %w", err)
	}
	if written > maxBytes {
		return "", 0, "", fmt.Errorf("%w: max %d bytes", ErrAssetTooLarge, maxBytes)
	}
	if written == 0 {
		return "", 0, "", fmt.Errorf("asset payload is empty")
	}
	keepFile = true
	return hex.EncodeToString(hasher.Sum(nil)), written, tempPath, nil
}
