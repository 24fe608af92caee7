// Package sidebar turns the flat document set into the hierarchical
// navigation tree mirroring the content folder structure.
//
// Ordering is the one invariant worth defending here: siblings sort by
// position ascending with ties broken by label, and folder positions derive
// from the minimum position of their contents. The result never depends on
// the order documents were discovered in.
package sidebar

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/devopslaunch/siteforge/internal/content"
)

// Node is one entry in the navigation tree. Leaf nodes reference a document
// by slug; folder nodes carry children.
type Node struct {
	Label    string  `json:"label"`
	Slug     string  `json:"slug,omitempty"`
	Position int     `json:"position"`
	Children []*Node `json:"children,omitempty"`
}

// IsFolder reports whether the node groups children rather than referencing
// a document.
func (n *Node) IsFolder() bool { return n.Slug == "" }

var labelCaser = cases.Title(language.English)

// Build constructs the navigation tree for the given documents. The root
// node is an unlabeled container; its children are the top-level folders and
// documents.
func Build(docs []content.Document) *Node {
	root := &Node{Position: content.PositionUnset}
	folders := map[*Node]map[string]*Node{root: {}}

	for _, doc := range docs {
		segs := strings.Split(doc.Path, "/")
		parent := root
		for _, seg := range segs[:len(segs)-1] {
			children := folders[parent]
			child, ok := children[seg]
			if !ok {
				child = &Node{
					Label:    folderLabel(seg),
					Position: content.PositionUnset,
				}
				children[seg] = child
				parent.Children = append(parent.Children, child)
				folders[child] = map[string]*Node{}
			}
			parent = child
		}
		parent.Children = append(parent.Children, &Node{
			Label:    doc.Title,
			Slug:     doc.Slug,
			Position: doc.SidebarPosition,
		})
	}

	propagatePositions(root)
	sortTree(root)
	return root
}

// propagatePositions assigns each folder the minimum position of its
// contents, so a folder containing a positioned document sorts with it.
// Folders whose contents are all unpositioned keep PositionUnset and sort
// after every positioned sibling.
func propagatePositions(n *Node) int {
	if !n.IsFolder() {
		return n.Position
	}
	minPos := content.PositionUnset
	for _, c := range n.Children {
		if p := propagatePositions(c); p < minPos {
			minPos = p
		}
	}
	n.Position = minPos
	return minPos
}

// sortTree orders every sibling list by (position, label). The comparator is
// total over distinct siblings, which makes the tree reproducible for any
// enumeration order of the input.
func sortTree(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Label < b.Label
	})
	for _, c := range n.Children {
		sortTree(c)
	}
}

// folderLabel humanizes a folder segment, e.g. "release-management" becomes
// "Release Management".
func folderLabel(seg string) string {
	return labelCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(seg))
}
