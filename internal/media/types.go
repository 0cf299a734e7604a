// Package media defines the registry entry model and size-variant resolution.
package media

import (
	"errors"
	"path"
	"strings"
)

// Category classifies the kind of media asset.
type Category string

const (
	CategoryImage Category = "image"
	CategoryAudio Category = "audio"
	CategoryVideo Category = "video"
	CategoryFile  Category = "file"
)

// Sentinel errors for registry lookups.
var (
	ErrEntryNotFound = errors.New("media entry not found")
)

// Variant is a derived rendition of an image at a named size tier.
// Path, Width, and Height are required together; an incomplete variant is
// treated as absent.
type Variant struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Complete reports whether the variant carries everything needed to use it.
func (v Variant) Complete() bool {
	return strings.TrimSpace(v.Path) != "" && v.Width > 0 && v.Height > 0
}

// Meta is the descriptive metadata block of an entry.
type Meta struct {
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

// Entry is the registry record for one uploaded asset and its derived size
// variants. Filename is the identity within a registry scope. Width and
// Height are nil for vector formats.
type Entry struct {
	Filename string             `json:"filename"`
	Mime     string             `json:"mime"`
	Path     string             `json:"path"`
	Width    *int               `json:"width,omitempty"`
	Height   *int               `json:"height,omitempty"`
	Sizes    map[string]Variant `json:"sizes,omitempty"`
	Meta     Meta               `json:"meta"`
}

// IsVector reports whether the entry is a vector format. Vector entries have
// no size variants and always resolve to their original path.
func (e Entry) IsVector() bool {
	if NormalizeMime(e.Mime) == "image/svg+xml" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(e.Filename), ".svg")
}

// Category returns the media category derived from the entry's MIME type.
func (e Entry) Category() Category {
	return CategoryOf(e.Mime)
}

// CategoryOf maps a MIME type to a media category.
func CategoryOf(mime string) Category {
	switch {
	case strings.HasPrefix(NormalizeMime(mime), "image/"):
		return CategoryImage
	case strings.HasPrefix(NormalizeMime(mime), "audio/"):
		return CategoryAudio
	case strings.HasPrefix(NormalizeMime(mime), "video/"):
		return CategoryVideo
	default:
		return CategoryFile
	}
}

// NormalizeMime normalizes MIME to lowercase token form, dropping parameters.
func NormalizeMime(raw string) string {
	mime := strings.ToLower(strings.TrimSpace(raw))
	if mime == "" {
		return ""
	}
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}

// BaseFilename strips any directory component from an untrusted media
// reference. Registry lookups and constructed URLs only ever see the bare
// filename.
func BaseFilename(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
