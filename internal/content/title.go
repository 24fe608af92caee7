package content

import (
	"path"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FirstHeading returns the text of the first heading in a Markdown body, or
// "" when the body has none.
func FirstHeading(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			title = strings.TrimSpace(string(headingText(h, body)))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

func headingText(h *gmast.Heading, source []byte) []byte {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			b.Write(t.Value(source))
			continue
		}
		// Inline code, emphasis and similar wrap their own text children.
		_ = gmast.Walk(c, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
			if entering {
				if t, ok := n.(*gmast.Text); ok {
					b.Write(t.Value(source))
				}
			}
			return gmast.WalkContinue, nil
		})
	}
	return []byte(b.String())
}

// titleFromFilename humanizes a file name into a fallback title, e.g.
// "version-control-git" becomes "Version control git".
func titleFromFilename(relPath string) string {
	base := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' })
	if len(words) == 0 {
		return base
	}
	joined := []rune(strings.Join(words, " "))
	return strings.ToUpper(string(joined[0])) + string(joined[1:])
}
