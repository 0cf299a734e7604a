// Package render turns stored media references into URLs or markup fragments.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/folioengine/folio/internal/media"
)

// BasePaths supplies the public URL prefix per media category.
type BasePaths interface {
	BasePath(category media.Category) string
}

// BasePathMap is a static BasePaths implementation.
type BasePathMap map[media.Category]string

// BasePath returns the configured prefix for category, or "" when unset.
func (m BasePathMap) BasePath(category media.Category) string {
	return m[category]
}

// Result is the discriminated outcome of a render: either markup (possibly
// empty for a blank reference) or a diagnostic. Diagnostics stand in for
// broken references so a page render never hard-fails on one of them.
type Result struct {
	markup     string
	diagnostic string
}

func markupResult(s string) Result {
	return Result{markup: s}
}

func diagnosticResult(format string, args ...any) Result {
	return Result{diagnostic: fmt.Sprintf(format, args...)}
}

// OK reports whether the result is a success payload.
func (r Result) OK() bool {
	return r.diagnostic == ""
}

// Markup returns the success payload ("" for a blank reference).
func (r Result) Markup() string {
	return r.markup
}

// Diagnostic returns the human-readable diagnostic, or "" on success.
func (r Result) Diagnostic() string {
	return r.diagnostic
}

// String returns the substitution value for a template: the markup on
// success, or the diagnostic wrapped in an HTML comment. The comment body is
// sanitized so the diagnostic can never break surrounding markup.
func (r Result) String() string {
	if r.OK() {
		return r.markup
	}
	body := strings.ReplaceAll(r.diagnostic, "--", "-")
	return "<!-- " + body + " -->"
}

// DefaultImageVariant is used when an image filter names no variant.
const DefaultImageVariant = "medium"

// Renderer dispatches per-category media filters against a registry.
type Renderer struct {
	registry media.Registry
	paths    BasePaths
	strict   bool
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStrictVariants makes a missing named size variant a diagnostic
// instead of a silent fallback to the original asset.
func WithStrictVariants(strict bool) Option {
	return func(r *Renderer) {
		r.strict = strict
	}
}

// NewRenderer creates a renderer over the given registry and base paths.
func NewRenderer(log *slog.Logger, registry media.Registry, paths BasePaths, opts ...Option) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		registry: registry,
		paths:    paths,
		logger:   log.With(slog.String("service", "render")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render resolves one media reference for the given category filter.
// rawInput is untrusted; any directory component is discarded. The first
// arg selects the mode: "path" or "url" request a bare URL, anything else
// names a size variant. Unresolvable references come back as diagnostics,
// never as errors.
func (r *Renderer) Render(ctx context.Context, category media.Category, rawInput string, args []string) Result {
	filename := media.BaseFilename(rawInput)
	if filename == "" {
		return markupResult("")
	}

	entry, err := r.registry.Lookup(ctx, filename)
	if err != nil {
		if errors.Is(err, media.ErrEntryNotFound) {
			return diagnosticResult("%s %q not found", category, filename)
		}
		r.logger.Error("registry lookup failed",
			slog.String("filename", filename), slog.Any("error", err))
		return diagnosticResult("%s %q not available", category, filename)
	}
	if entry.Category() != category {
		return diagnosticResult("%q is %s, not %s", filename, entry.Category(), category)
	}

	mode := ""
	if len(args) > 0 {
		mode = strings.TrimSpace(args[0])
	}
	if mode == "path" || mode == "url" {
		return markupResult(joinURL(r.paths.BasePath(category), filename))
	}

	// Audio and video carry no size variants; the filter always yields
	// the bare path for them.
	if category != media.CategoryImage {
		return markupResult(joinURL(r.paths.BasePath(category), filename))
	}

	variant := mode
	if variant == "" {
		variant = DefaultImageVariant
	}
	return r.renderImage(entry, variant, args)
}

func (r *Renderer) renderImage(entry media.Entry, variant string, args []string) Result {
	resolved, err := r.resolveVariant(entry, variant)
	if err != nil {
		var vnf *media.VariantNotFoundError
		if errors.As(err, &vnf) {
			return diagnosticResult("no usable size %q for %q", vnf.Variant, vnf.Filename)
		}
		return diagnosticResult("image %q not available", entry.Filename)
	}

	src := joinURL(r.paths.BasePath(media.CategoryImage), resolved.Path)
	return markupResult(imageTag(src, entry, resolved, args))
}

func (r *Renderer) resolveVariant(entry media.Entry, variant string) (media.Resolved, error) {
	if r.strict {
		return media.ResolveStrict(entry, variant)
	}
	return media.Resolve(entry, variant)
}

func joinURL(base, name string) string {
	base = strings.TrimRight(base, "/")
	return base + "/" + strings.TrimLeft(name, "/")
}
