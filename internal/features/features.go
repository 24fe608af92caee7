// Package features composes the declarative landing-page highlight blocks
// into renderable fragments. It is a pure composition boundary: same input,
// same output, input order preserved exactly.
package features

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// Block is one declarative feature entry, typically authored in the site
// configuration.
type Block struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`
}

// Fragment is the renderable form of a Block. HTML is the description
// converted from Markdown; the rendering layer decides how to place it.
type Fragment struct {
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`
	HTML  string `json:"html"`
}

// Render converts blocks to fragments, preserving order and length. No I/O,
// no hidden state.
func Render(blocks []Block) []Fragment {
	md := goldmark.New()
	out := make([]Fragment, 0, len(blocks))
	for _, b := range blocks {
		var buf bytes.Buffer
		if err := md.Convert([]byte(b.Description), &buf); err != nil {
			// Goldmark does not fail on any byte sequence in practice;
			// fall back to the raw text if it ever does.
			buf.Reset()
			buf.WriteString(b.Description)
		}
		out = append(out, Fragment{
			Title: b.Title,
			Icon:  b.Icon,
			HTML:  buf.String(),
		})
	}
	return out
}
