package sitegraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devopslaunch/siteforge/internal/content"
	"github.com/devopslaunch/siteforge/internal/diag"
	"github.com/devopslaunch/siteforge/internal/features"
	"github.com/devopslaunch/siteforge/internal/links"
)

func writeDoc(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func fixtureRoot(t *testing.T) string {
	root := t.TempDir()
	writeDoc(t, root, "intro.md",
		"---\nsidebar_position: 1\ntitle: Intro\n---\nStart with [git](/docs/foundations/version-control-git).\n")
	writeDoc(t, root, "foundations/version-control-git.md",
		"---\nsidebar_position: 1\ntitle: Version Control\n---\n# Git\n\nSee [missing](/docs/foundations/does-not-exist).\n")
	return root
}

func TestBuild_ReachesReadyWithGraphAndReport(t *testing.T) {
	a := NewAssembler(fixtureRoot(t)).WithFeatures([]features.Block{
		{Title: "Automate", Description: "Pipelines over change sets."},
	})
	require.Equal(t, StateEmpty, a.State())

	res, err := a.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReady, a.State())
	require.NotEmpty(t, res.ID)

	require.Len(t, res.Graph.Documents, 2)
	require.NotNil(t, res.Graph.Sidebar)
	require.Len(t, res.Graph.Features, 1)

	// One resolved and one unresolved internal link.
	var resolved, unresolved int
	for _, l := range res.Graph.Links {
		switch l.Status {
		case links.StatusResolved:
			resolved++
		case links.StatusUnresolved:
			unresolved++
		}
	}
	require.Equal(t, 1, resolved)
	require.Equal(t, 1, unresolved)

	require.Equal(t, 1, res.Report.Count(diag.KindUnresolvedLink))
	require.True(t, res.Report.FailsStrict())
}

func TestBuild_MissingRoot_Failed(t *testing.T) {
	a := NewAssembler(filepath.Join(t.TempDir(), "nope"))
	_, err := a.Build(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, content.ErrContentRootUnreadable)
	require.Equal(t, StateFailed, a.State())
}

func TestBuild_BrokenContentDoesNotFail(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "broken.md", "---\ntitle: oops\nno closing\n")

	a := NewAssembler(root)
	res, err := a.Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReady, a.State())
	require.Equal(t, 1, res.Report.Count(diag.KindMalformedFrontmatter))
	require.False(t, res.Report.FailsStrict())
}

// TestBuild_Reproducible builds the same input twice and requires
// byte-identical graph serialization.
func TestBuild_Reproducible(t *testing.T) {
	root := fixtureRoot(t)
	blocks := []features.Block{{Title: "A", Description: "one"}, {Title: "B", Description: "two"}}

	first, err := NewAssembler(root).WithFeatures(blocks).Build(context.Background())
	require.NoError(t, err)
	second, err := NewAssembler(root).WithFeatures(blocks).Build(context.Background())
	require.NoError(t, err)

	a, err := first.Graph.Encode()
	require.NoError(t, err)
	b, err := second.Graph.Encode()
	require.NoError(t, err)
	require.Equal(t, a, b)

	// Build IDs are per-pass, not part of the graph.
	require.NotEqual(t, first.ID, second.ID)
}

func TestDocumentBySlug(t *testing.T) {
	res, err := NewAssembler(fixtureRoot(t)).Build(context.Background())
	require.NoError(t, err)

	doc, ok := res.Graph.DocumentBySlug("foundations/version-control-git")
	require.True(t, ok)
	require.Equal(t, "Version Control", doc.Title)

	_, ok = res.Graph.DocumentBySlug("does-not-exist")
	require.False(t, ok)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "empty", StateEmpty.String())
	require.Equal(t, "loading", StateLoading.String())
	require.Equal(t, "linking", StateLinking.String())
	require.Equal(t, "ready", StateReady.String())
	require.Equal(t, "failed", StateFailed.String())
}
