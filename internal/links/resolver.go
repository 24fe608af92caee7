package links

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/devopslaunch/siteforge/internal/content"
	"github.com/devopslaunch/siteforge/internal/diag"
)

// Status is the resolution outcome for one cross-link.
type Status string

const (
	StatusResolved   Status = "resolved"
	StatusUnresolved Status = "unresolved"
	StatusExternal   Status = "external"
)

// CrossLink records one reference from a document body. Every internal link
// ends up either resolved to exactly one document slug or explicitly
// unresolved; nothing is dropped silently.
type CrossLink struct {
	// Source is the path of the document containing the link.
	Source string `json:"source"`

	// Target is the raw destination as written, including any anchor.
	Target string `json:"target"`

	// Slug is the resolved target document slug (resolved links only).
	Slug string `json:"slug,omitempty"`

	// Anchor is the fragment, if any. Anchor existence is intentionally
	// unverified; only document existence is checked.
	Anchor string `json:"anchor,omitempty"`

	Status Status `json:"status"`
}

// DefaultPrefix is the URL prefix marking internal document links.
const DefaultPrefix = "/docs"

// Resolver matches internal destinations against the document set.
type Resolver struct {
	prefix string
}

// NewResolver creates a resolver for the given internal link prefix; an
// empty prefix selects DefaultPrefix.
func NewResolver(prefix string) *Resolver {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Resolver{prefix: strings.TrimSuffix(prefix, "/")}
}

// Resolve scans every document body and classifies each destination.
// External URLs (with a scheme) pass through untouched. Destinations under
// the internal prefix resolve by slug match; failures become diagnostics,
// never errors. Other destinations (relative paths, bare anchors) are not
// this component's contract and are ignored.
//
// Output is sorted by (source, target) so rebuilds produce identical graphs.
func (r *Resolver) Resolve(docs []content.Document) ([]CrossLink, []diag.Diagnostic) {
	bySlug := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		bySlug[d.Slug] = struct{}{}
	}

	var out []CrossLink
	var diags []diag.Diagnostic
	for _, doc := range docs {
		for _, dest := range ExtractDestinations(doc.Body) {
			link, ok := r.classify(doc.Path, dest.Raw, bySlug)
			if !ok {
				continue
			}
			out = append(out, link)
			if link.Status == StatusUnresolved {
				diags = append(diags, diag.Diagnostic{
					Path:     doc.Path,
					Kind:     diag.KindUnresolvedLink,
					Severity: diag.SeverityWarning,
					Detail:   fmt.Sprintf("no document for %s", dest.Raw),
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out, diags
}

// classify maps one raw destination to a CrossLink. The second return is
// false for destinations outside this component's contract.
func (r *Resolver) classify(source, raw string, bySlug map[string]struct{}) (CrossLink, bool) {
	if raw == "" {
		return CrossLink{}, false
	}

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return CrossLink{Source: source, Target: raw, Status: StatusExternal}, true
	}

	target, anchor, _ := strings.Cut(raw, "#")
	if !strings.HasPrefix(target, r.prefix+"/") && target != r.prefix {
		return CrossLink{}, false
	}

	slug := strings.Trim(strings.TrimPrefix(target, r.prefix), "/")
	link := CrossLink{Source: source, Target: raw, Slug: slug, Anchor: anchor}
	if _, ok := bySlug[slug]; ok {
		link.Status = StatusResolved
	} else {
		link.Status = StatusUnresolved
		link.Slug = ""
	}
	return link, true
}
