// Package links finds cross-document references in Markdown bodies and
// resolves them against the loaded document set.
package links

import (
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// DestinationKind classifies where a destination came from in the Markdown
// source.
type DestinationKind string

const (
	KindInline              DestinationKind = "inline"
	KindImage               DestinationKind = "image"
	KindAuto                DestinationKind = "auto"
	KindReferenceDefinition DestinationKind = "reference_definition"
)

// Destination is one raw link target extracted from a body.
type Destination struct {
	Kind DestinationKind
	Raw  string
}

// ExtractDestinations parses a Markdown body and returns every link-like
// destination in document order, with reference definitions appended in
// label order. This is an analysis API; it never re-renders Markdown.
func ExtractDestinations(body []byte) []Destination {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	dests := make([]Destination, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			dests = append(dests, Destination{Kind: KindAuto, Raw: string(node.URL(body))})
		case *gmast.Image:
			dests = append(dests, Destination{Kind: KindImage, Raw: string(node.Destination)})
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with
			// a Destination, so those arrive here too.
			dests = append(dests, Destination{Kind: KindInline, Raw: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		dests = append(dests, Destination{Kind: KindReferenceDefinition, Raw: string(ref.Destination())})
	}

	return dests
}
