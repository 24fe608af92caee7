package content

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, and recomposes,
// mapping e.g. "déploiement" to "deploiement".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugifySegment normalizes one path segment into a URL-safe slug segment:
// diacritics stripped, lowercased, runs of non-alphanumerics collapsed to a
// single dash.
func SlugifySegment(seg string) string {
	normalized, _, err := transform.String(stripMarks, seg)
	if err != nil {
		normalized = seg
	}

	var b strings.Builder
	b.Grow(len(normalized))
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(normalized) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugFromPath derives the canonical slug for a document path relative to
// the content root: extension dropped, each directory segment and the file
// name normalized independently.
func SlugFromPath(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	segs := strings.Split(path.Clean(trimmed), "/")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg == "." || seg == "" {
			continue
		}
		if s := SlugifySegment(seg); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
