package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyState      = "state"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeySection    = "section"
	KeyCount      = "count"
	KeyDocs       = "documents"
	KeyLinks      = "links"
	KeyUnresolved = "unresolved"
	KeyAddr       = "addr"
	KeyURL        = "url"
	KeyName       = "name"
	KeyKind       = "kind"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Docs(n int) slog.Attr             { return slog.Int(KeyDocs, n) }
func Links(n int) slog.Attr            { return slog.Int(KeyLinks, n) }
func Unresolved(n int) slog.Attr       { return slog.Int(KeyUnresolved, n) }
func Addr(a string) slog.Attr          { return slog.String(KeyAddr, a) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr          { return slog.String(KeyName, n) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
