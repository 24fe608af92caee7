package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter writes a report for human or machine consumption.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewFormatter returns a formatter for the given format name ("text" or
// "json"); anything else falls back to text.
func NewFormatter(format string) Formatter {
	if strings.EqualFold(format, "json") {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// TextFormatter writes a human-readable report grouped by document path.
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, r *Report) error {
	if r.Empty() {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}

	for _, d := range r.Diagnostics {
		if _, err := fmt.Fprintf(w, "%s  %s  %s: %s\n", d.Severity, d.Path, d.Kind, d.Detail); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("-", 60)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d issue%s: %d unresolved link%s, %d malformed frontmatter, %d duplicate slug%s\n",
		len(r.Diagnostics), pluralize(len(r.Diagnostics)),
		r.Count(KindUnresolvedLink), pluralize(r.Count(KindUnresolvedLink)),
		r.Count(KindMalformedFrontmatter),
		r.Count(KindDuplicateSlug), pluralize(r.Count(KindDuplicateSlug)))
	return err
}

// JSONFormatter writes the report as a JSON document for CI tooling.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
