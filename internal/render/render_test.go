package render

import (
	"context"
	"strings"
	"testing"

	"github.com/folioengine/folio/internal/media"
	"github.com/folioengine/folio/internal/registry"
)

func intp(v int) *int { return &v }

func testPaths() BasePathMap {
	return BasePathMap{
		media.CategoryImage: "/media",
		media.CategoryAudio: "/media/audio",
		media.CategoryVideo: "/media/video",
	}
}

func testRegistry() *registry.Mem {
	return registry.NewMem(
		media.Entry{
			Filename: "photo.jpg",
			Mime:     "image/jpeg",
			Path:     "photo.jpg",
			Width:    intp(2000),
			Height:   intp(1500),
			Sizes: map[string]media.Variant{
				"small":  {Path: "small/photo.jpg", Width: 400, Height: 300},
				"medium": {Path: "medium/photo.jpg", Width: 800, Height: 600},
			},
			Meta: media.Meta{Alt: "A photo", Title: "Holiday"},
		},
		media.Entry{
			Filename: "logo.svg",
			Mime:     "image/svg+xml",
			Path:     "logo.svg",
		},
		media.Entry{
			Filename: "clip.mp3",
			Mime:     "audio/mpeg",
			Path:     "clip.mp3",
		},
	)
}

func newTestRenderer(opts ...Option) *Renderer {
	return NewRenderer(nil, testRegistry(), testPaths(), opts...)
}

func TestRenderBlankInputIsSilent(t *testing.T) {
	r := newTestRenderer()
	for _, input := range []string{"", "   "} {
		res := r.Render(context.Background(), media.CategoryImage, input, nil)
		if !res.OK() || res.String() != "" {
			t.Fatalf("blank input %q should render to nothing, got %q", input, res.String())
		}
	}
}

func TestRenderMissingEntryIsDiagnostic(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryImage, "missing.jpg", nil)
	if res.OK() {
		t.Fatal("expected a diagnostic for a missing entry")
	}
	out := res.String()
	if !strings.Contains(out, "missing.jpg") {
		t.Fatalf("diagnostic %q should name the filename", out)
	}
	if !strings.HasPrefix(out, "<!--") || !strings.HasSuffix(out, "-->") {
		t.Fatalf("diagnostic %q should be an inline comment", out)
	}
}

func TestRenderCategoryMismatchIsDiagnostic(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryAudio, "photo.jpg", nil)
	if res.OK() {
		t.Fatal("expected a diagnostic for a category mismatch")
	}
	if !strings.Contains(res.Diagnostic(), "photo.jpg") {
		t.Fatalf("diagnostic %q should name the file", res.Diagnostic())
	}
}

func TestRenderBareURLMode(t *testing.T) {
	r := newTestRenderer()

	for _, mode := range []string{"path", "url"} {
		res := r.Render(context.Background(), media.CategoryImage, "photo.jpg", []string{mode})
		if !res.OK() || res.Markup() != "/media/photo.jpg" {
			t.Fatalf("mode %q = %q, want bare URL", mode, res.Markup())
		}
	}
}

func TestRenderAudioAlwaysBarePath(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryAudio, "clip.mp3", []string{"path"})
	if res.Markup() != "/media/audio/clip.mp3" {
		t.Fatalf("audio path mode = %q", res.Markup())
	}

	// Audio has no size variants; a variant-looking argument still yields
	// the bare path and no markup.
	res = r.Render(context.Background(), media.CategoryAudio, "clip.mp3", []string{"large"})
	if res.Markup() != "/media/audio/clip.mp3" {
		t.Fatalf("audio with variant arg = %q", res.Markup())
	}
	if strings.Contains(res.Markup(), "<") {
		t.Fatalf("audio output %q must not contain markup", res.Markup())
	}
}

func TestRenderImageDefaultVariant(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryImage, "photo.jpg", nil)
	if !res.OK() {
		t.Fatalf("unexpected diagnostic: %q", res.Diagnostic())
	}
	out := res.Markup()
	if !strings.Contains(out, `src="/media/medium/photo.jpg"`) {
		t.Fatalf("markup %q should use the medium variant", out)
	}
	if !strings.Contains(out, `width="800"`) || !strings.Contains(out, `height="600"`) {
		t.Fatalf("markup %q should carry the variant dimensions", out)
	}
	if !strings.Contains(out, `alt="A photo"`) {
		t.Fatalf("markup %q should fall back to entry alt", out)
	}
	if !strings.Contains(out, `title="Holiday"`) {
		t.Fatalf("markup %q should fall back to entry title", out)
	}
	if !strings.Contains(out, `loading="lazy"`) {
		t.Fatalf("markup %q should lazy-load by default", out)
	}
}

func TestRenderImageStripsDirectoryComponents(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryImage, "../uploads/photo.jpg", []string{"path"})
	if res.Markup() != "/media/photo.jpg" {
		t.Fatalf("path components should be discarded, got %q", res.Markup())
	}
}

func TestRenderImageMissingVariantFallsBack(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryImage, "photo.jpg", []string{"huge"})
	if !res.OK() {
		t.Fatalf("unexpected diagnostic: %q", res.Diagnostic())
	}
	out := res.Markup()
	if !strings.Contains(out, `src="/media/photo.jpg"`) {
		t.Fatalf("markup %q should fall back to the original", out)
	}
	if !strings.Contains(out, `width="2000"`) || !strings.Contains(out, `height="1500"`) {
		t.Fatalf("markup %q should carry the original dimensions", out)
	}
}

func TestRenderImageStrictVariants(t *testing.T) {
	r := newTestRenderer(WithStrictVariants(true))

	res := r.Render(context.Background(), media.CategoryImage, "photo.jpg", []string{"huge"})
	if res.OK() {
		t.Fatal("strict mode should surface a missing variant")
	}
	if !strings.Contains(res.Diagnostic(), "huge") || !strings.Contains(res.Diagnostic(), "photo.jpg") {
		t.Fatalf("diagnostic %q should name variant and file", res.Diagnostic())
	}

	// Known variants still resolve.
	res = r.Render(context.Background(), media.CategoryImage, "photo.jpg", []string{"small"})
	if !res.OK() {
		t.Fatalf("unexpected diagnostic: %q", res.Diagnostic())
	}
}

func TestRenderVectorIgnoresVariantAndDimensions(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryImage, "logo.svg", []string{"large"})
	if !res.OK() {
		t.Fatalf("unexpected diagnostic: %q", res.Diagnostic())
	}
	out := res.Markup()
	if !strings.Contains(out, `src="/media/logo.svg"`) {
		t.Fatalf("markup %q should use the original path", out)
	}
	if strings.Contains(out, "width=") || strings.Contains(out, "height=") {
		t.Fatalf("markup %q must not carry dimensions for a vector", out)
	}
}

func TestRenderImageArguments(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryImage, "photo.jpg",
		[]string{"small", "hero", "false", `say "cheese"`, "My title"})
	if !res.OK() {
		t.Fatalf("unexpected diagnostic: %q", res.Diagnostic())
	}
	out := res.Markup()
	if !strings.Contains(out, `class="hero"`) {
		t.Fatalf("markup %q should carry the class argument", out)
	}
	if !strings.Contains(out, `alt="say &quot;cheese&quot;"`) {
		t.Fatalf("markup %q should escape quotes in alt", out)
	}
	if !strings.Contains(out, `title="My title"`) {
		t.Fatalf("markup %q should carry the title argument", out)
	}
	if strings.Contains(out, "loading=") {
		t.Fatalf("markup %q should drop lazy loading when disabled", out)
	}
}

func TestRenderImageAttributeOrder(t *testing.T) {
	r := newTestRenderer()

	res := r.Render(context.Background(), media.CategoryImage, "photo.jpg", []string{"small"})
	out := res.Markup()
	want := `<img src="/media/small/photo.jpg" alt="A photo" title="Holiday" width="400" height="300" loading="lazy">`
	if out != want {
		t.Fatalf("markup = %q, want %q", out, want)
	}
}

func TestRenderOmitsEmptyOptionalAttributes(t *testing.T) {
	reg := registry.NewMem(media.Entry{
		Filename: "plain.png",
		Mime:     "image/png",
		Path:     "plain.png",
		Width:    intp(10),
		Height:   intp(10),
	})
	r := NewRenderer(nil, reg, testPaths())

	res := r.Render(context.Background(), media.CategoryImage, "plain.png", nil)
	out := res.Markup()
	if strings.Contains(out, "class=") || strings.Contains(out, "title=") {
		t.Fatalf("markup %q should omit empty class and title", out)
	}
	if !strings.Contains(out, `alt=""`) {
		t.Fatalf("markup %q should keep an empty alt attribute", out)
	}
}

func TestDiagnosticNeverBreaksComments(t *testing.T) {
	reg := registry.NewMem()
	r := NewRenderer(nil, reg, testPaths())

	res := r.Render(context.Background(), media.CategoryImage, "a--b.jpg", nil)
	out := res.String()
	if strings.Contains(strings.TrimSuffix(strings.TrimPrefix(out, "<!--"), "-->"), "--") {
		t.Fatalf("comment body of %q must not contain --", out)
	}
}
