// Package diag collects the non-fatal issues surfaced alongside a build:
// unresolved links, malformed frontmatter, duplicate slugs. A build succeeds
// with a non-empty report; strict callers decide whether to fail on it.
package diag

import "sort"

// Kind identifies a diagnostic category.
type Kind string

const (
	KindUnresolvedLink       Kind = "unresolved_link"
	KindMalformedFrontmatter Kind = "malformed_frontmatter"
	KindDuplicateSlug        Kind = "duplicate_slug"
	KindBrokenOutputLink     Kind = "broken_output_link"
	KindUnreadableFile       Kind = "unreadable_file"
)

// Severity indicates the importance level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is a single issue tied to a document path.
type Diagnostic struct {
	Path     string   `json:"path"`
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"-"`
	Detail   string   `json:"detail"`
}

// Report accumulates diagnostics for one build pass.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Add appends a diagnostic to the report.
func (r *Report) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// Merge appends all diagnostics from another report slice.
func (r *Report) Merge(ds []Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, ds...)
}

// Count returns the number of diagnostics of the given kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Empty reports whether the report has no diagnostics.
func (r *Report) Empty() bool { return len(r.Diagnostics) == 0 }

// FailsStrict reports whether a strict build should exit non-zero: any
// unresolved link makes the report strict-failing.
func (r *Report) FailsStrict() bool {
	return r.Count(KindUnresolvedLink) > 0
}

// Sort orders diagnostics by (path, kind, detail) so the report is stable
// regardless of discovery order.
func (r *Report) Sort() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i], r.Diagnostics[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Detail < b.Detail
	})
}
