package render

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/folioengine/folio/internal/media"
)

// NewMarkdown builds a goldmark instance whose image destinations are
// rewritten through the renderer: a bare registry filename, optionally with
// a size-variant fragment (photo.jpg#small), becomes the concrete variant
// URL. External and absolute destinations pass through untouched.
func NewMarkdown(renderer *Renderer) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&mediaTransformer{renderer: renderer}, 500),
			),
		),
	)
}

type mediaTransformer struct {
	renderer *Renderer
}

// Transform rewrites image destinations in place.
func (t *mediaTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		if rewritten, ok := t.renderer.RewriteImageDestination(context.Background(), string(img.Destination)); ok {
			img.Destination = []byte(rewritten)
		}
		return ast.WalkContinue, nil
	})
}

// RewriteImageDestination resolves a bare registry reference to a concrete
// variant URL. The variant rides in the URL fragment; no fragment selects
// the default variant. Destinations that are not bare registry filenames
// (absolute paths, external URLs) are left alone, as are references the
// registry cannot satisfy.
func (r *Renderer) RewriteImageDestination(ctx context.Context, dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.Contains(dest, "://") || strings.ContainsAny(dest, "/\\") {
		return "", false
	}

	name := dest
	variant := DefaultImageVariant
	if idx := strings.Index(dest, "#"); idx >= 0 {
		name = dest[:idx]
		if frag := strings.TrimSpace(dest[idx+1:]); frag != "" {
			variant = frag
		}
	}

	entry, err := r.registry.Lookup(ctx, name)
	if err != nil {
		return "", false
	}
	category := entry.Category()
	if category != "" && category != media.CategoryImage {
		return joinURL(r.paths.BasePath(category), entry.Filename), true
	}

	resolved, err := r.resolveVariant(entry, variant)
	if err != nil {
		return "", false
	}
	return joinURL(r.paths.BasePath(media.CategoryImage), resolved.Path), true
}
