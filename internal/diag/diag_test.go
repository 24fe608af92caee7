package diag

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReport_CountsByKind(t *testing.T) {
	r := &Report{}
	r.Add(Diagnostic{Path: "a.md", Kind: KindUnresolvedLink, Severity: SeverityWarning, Detail: "/docs/missing"})
	r.Add(Diagnostic{Path: "b.md", Kind: KindMalformedFrontmatter, Severity: SeverityWarning, Detail: "missing closing delimiter"})
	r.Add(Diagnostic{Path: "c.md", Kind: KindUnresolvedLink, Severity: SeverityWarning, Detail: "/docs/gone"})

	require.Equal(t, 2, r.Count(KindUnresolvedLink))
	require.Equal(t, 1, r.Count(KindMalformedFrontmatter))
	require.Equal(t, 0, r.Count(KindDuplicateSlug))
	require.False(t, r.Empty())
}

func TestReport_FailsStrict_OnlyOnUnresolvedLinks(t *testing.T) {
	r := &Report{}
	r.Add(Diagnostic{Path: "a.md", Kind: KindMalformedFrontmatter, Detail: "bad yaml"})
	require.False(t, r.FailsStrict())

	r.Add(Diagnostic{Path: "a.md", Kind: KindUnresolvedLink, Detail: "/docs/missing"})
	require.True(t, r.FailsStrict())
}

func TestReport_Sort_IsDeterministic(t *testing.T) {
	r := &Report{}
	r.Add(Diagnostic{Path: "b.md", Kind: KindUnresolvedLink, Detail: "x"})
	r.Add(Diagnostic{Path: "a.md", Kind: KindUnresolvedLink, Detail: "z"})
	r.Add(Diagnostic{Path: "a.md", Kind: KindDuplicateSlug, Detail: "y"})
	r.Sort()

	require.Equal(t, "a.md", r.Diagnostics[0].Path)
	require.Equal(t, KindDuplicateSlug, r.Diagnostics[0].Kind)
	require.Equal(t, "a.md", r.Diagnostics[1].Path)
	require.Equal(t, "b.md", r.Diagnostics[2].Path)
}

func TestTextFormatter_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, &Report{}))
	require.Contains(t, buf.String(), "No issues found")
}

func TestTextFormatter_Summary(t *testing.T) {
	r := &Report{}
	r.Add(Diagnostic{Path: "a.md", Kind: KindUnresolvedLink, Severity: SeverityWarning, Detail: "/docs/missing"})

	var buf bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&buf, r))
	require.Contains(t, buf.String(), "a.md")
	require.Contains(t, buf.String(), "unresolved_link")
	require.Contains(t, buf.String(), "1 unresolved link")
}

func TestJSONFormatter_RoundTrips(t *testing.T) {
	r := &Report{}
	r.Add(Diagnostic{Path: "a.md", Kind: KindDuplicateSlug, Detail: "slug intro"})

	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, r))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Diagnostics, 1)
	require.Equal(t, KindDuplicateSlug, decoded.Diagnostics[0].Kind)
}

func TestNewFormatter_SelectsByName(t *testing.T) {
	require.IsType(t, &JSONFormatter{}, NewFormatter("json"))
	require.IsType(t, &TextFormatter{}, NewFormatter("text"))
	require.IsType(t, &TextFormatter{}, NewFormatter(""))
}
