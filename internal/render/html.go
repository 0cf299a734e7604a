package render

import (
	"strconv"
	"strings"

	"github.com/folioengine/folio/internal/media"
)

// arg returns the positional filter argument at index, or "".
func arg(args []string, index int) string {
	if index < len(args) {
		return strings.TrimSpace(args[index])
	}
	return ""
}

// escapeAttr escapes double quotes for safe embedding in an attribute value.
func escapeAttr(value string) string {
	return strings.ReplaceAll(value, `"`, "&quot;")
}

// imageTag assembles the <img> element. Attribute order is fixed: src,
// class, alt, title, width, height, loading. Empty class and title are
// omitted; alt is always present. Vector entries never emit dimensions.
func imageTag(src string, entry media.Entry, resolved media.Resolved, args []string) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(escapeAttr(src))
	b.WriteString(`"`)

	if class := arg(args, 1); class != "" {
		b.WriteString(` class="`)
		b.WriteString(escapeAttr(class))
		b.WriteString(`"`)
	}

	alt := arg(args, 3)
	if alt == "" {
		alt = entry.Meta.Alt
	}
	b.WriteString(` alt="`)
	b.WriteString(escapeAttr(alt))
	b.WriteString(`"`)

	title := arg(args, 4)
	if title == "" {
		title = entry.Meta.Title
	}
	if title != "" {
		b.WriteString(` title="`)
		b.WriteString(escapeAttr(title))
		b.WriteString(`"`)
	}

	if !entry.IsVector() && resolved.Width != nil && resolved.Height != nil {
		b.WriteString(` width="`)
		b.WriteString(strconv.Itoa(*resolved.Width))
		b.WriteString(`" height="`)
		b.WriteString(strconv.Itoa(*resolved.Height))
		b.WriteString(`"`)
	}

	if arg(args, 2) != "false" {
		b.WriteString(` loading="lazy"`)
	}

	b.WriteString(">")
	return b.String()
}
