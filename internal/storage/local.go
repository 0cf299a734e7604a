package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local is a filesystem-backed provider rooted at a single directory.
// Keys are relative paths below the root; anything escaping the root is
// rejected.
type Local struct {
	root string
	base string
}

// NewLocal creates a local provider. root is the on-disk directory, base is
// the public URL prefix returned by AccessPath.
func NewLocal(root, base string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Local{root: abs, base: strings.TrimRight(base, "/")}, nil
}

// Put writes data under key, creating parent directories as needed.
func (l *Local) Put(ctx context.Context, key string, reader io.Reader) error {
	target, err := l.join(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".folio-put-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, reader); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("finalize object: %w", err)
	}
	return nil
}

// Open returns a reader for the object at key.
func (l *Local) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := l.join(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

// Delete removes the object at key. Missing objects are not an error.
func (l *Local) Delete(ctx context.Context, key string) error {
	target, err := l.join(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// AccessPath returns the public URL path for a storage key.
func (l *Local) AccessPath(key string) string {
	clean := strings.TrimLeft(filepath.ToSlash(filepath.Clean(key)), "/")
	return l.base + "/" + clean
}

// join resolves key below the root, rejecting traversal.
func (l *Local) join(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("storage key is required")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, clean), nil
}
