// Package sitegraph assembles documents, navigation, cross-links and feature
// fragments into the aggregate consumed by the rendering layer.
package sitegraph

import (
	"encoding/json"

	"github.com/devopslaunch/siteforge/internal/content"
	"github.com/devopslaunch/siteforge/internal/features"
	"github.com/devopslaunch/siteforge/internal/links"
	"github.com/devopslaunch/siteforge/internal/sidebar"
)

// SiteGraph is the aggregate for one build pass: the full document set, the
// navigation tree, every cross-link and the landing-page fragments. It is
// built once per pass and never mutated incrementally.
type SiteGraph struct {
	Documents []content.Document  `json:"documents"`
	Sidebar   *sidebar.Node       `json:"sidebar"`
	Links     []links.CrossLink   `json:"links"`
	Features  []features.Fragment `json:"features"`
}

// DocumentBySlug returns the document for a slug, if present.
func (g *SiteGraph) DocumentBySlug(slug string) (content.Document, bool) {
	for _, d := range g.Documents {
		if d.Slug == slug {
			return d, true
		}
	}
	return content.Document{}, false
}

// Encode serializes the graph as indented JSON. Every collection in the
// graph carries a fixed order, so encoding the same input twice yields
// byte-identical output.
func (g *SiteGraph) Encode() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
