package media

import (
	"fmt"
	"strings"
)

// Resolved is the concrete path and dimensions selected for a render.
// Width and Height are nil when unknown (vector formats).
type Resolved struct {
	Path   string
	Width  *int
	Height *int
}

// VariantNotFoundError reports that neither the requested variant nor a
// usable fallback path exists for an entry.
type VariantNotFoundError struct {
	Filename string
	Variant  string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("no usable size %q for %q", e.Variant, e.Filename)
}

// Resolve selects the concrete rendition for the requested variant name.
// Vector entries always resolve to their original path with no dimensions.
// A missing named variant silently falls back to the original asset; use
// ResolveStrict to surface it instead. A render must never hard-fail on a
// single missing derived asset, so the only error is VariantNotFoundError
// for a malformed entry with no usable path at all.
func Resolve(entry Entry, variant string) (Resolved, error) {
	return resolve(entry, variant, false)
}

// ResolveStrict behaves like Resolve but treats a missing named variant on a
// raster entry as a VariantNotFoundError rather than falling back.
func ResolveStrict(entry Entry, variant string) (Resolved, error) {
	return resolve(entry, variant, true)
}

func resolve(entry Entry, variant string, strict bool) (Resolved, error) {
	if entry.IsVector() {
		if strings.TrimSpace(entry.Path) == "" {
			return Resolved{}, &VariantNotFoundError{Filename: entry.Filename, Variant: variant}
		}
		return Resolved{Path: entry.Path}, nil
	}

	if v, ok := entry.Sizes[variant]; ok && v.Complete() {
		width, height := v.Width, v.Height
		return Resolved{Path: v.Path, Width: &width, Height: &height}, nil
	}

	if strict && variant != "" {
		return Resolved{}, &VariantNotFoundError{Filename: entry.Filename, Variant: variant}
	}

	if strings.TrimSpace(entry.Path) == "" {
		return Resolved{}, &VariantNotFoundError{Filename: entry.Filename, Variant: variant}
	}
	return Resolved{Path: entry.Path, Width: entry.Width, Height: entry.Height}, nil
}
