// Package content loads Markdown documents from a content root into immutable
// in-memory Document values: frontmatter decoded, slug derived, title filled
// from the first heading when the frontmatter leaves it blank.
package content

// Document is one loaded Markdown file. Immutable after load within a build.
type Document struct {
	// Path is the slash-separated path relative to the content root.
	Path string `json:"path"`

	// Slug is the canonical URL path derived from Path (no extension,
	// normalized segments).
	Slug string `json:"slug"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// SidebarPosition orders the document among its siblings. Documents
	// without an explicit position carry PositionUnset and sort last.
	SidebarPosition int `json:"sidebarPosition"`

	// Body is the Markdown body with frontmatter removed. When the
	// frontmatter block was malformed, Body is the full raw file.
	Body []byte `json:"body"`
}

// HasExplicitPosition reports whether the document carried a
// sidebar_position frontmatter key.
func (d Document) HasExplicitPosition() bool { return d.SidebarPosition != PositionUnset }
