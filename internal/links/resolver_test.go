package links

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devopslaunch/siteforge/internal/content"
	"github.com/devopslaunch/siteforge/internal/diag"
)

func docWithBody(path, body string) content.Document {
	return content.Document{
		Path: path,
		Slug: content.SlugFromPath(path),
		Body: []byte(body),
	}
}

func TestResolve_InternalLinkResolves(t *testing.T) {
	docs := []content.Document{
		docWithBody("intro.md", "Start with [git](/docs/foundations/version-control-git).\n"),
		docWithBody("foundations/version-control-git.md", "# Git\n"),
	}

	links, diags := NewResolver("").Resolve(docs)
	require.Empty(t, diags)
	require.Len(t, links, 1)

	link := links[0]
	require.Equal(t, "intro.md", link.Source)
	require.Equal(t, StatusResolved, link.Status)
	require.Equal(t, "foundations/version-control-git", link.Slug)
	require.Empty(t, link.Anchor)
}

func TestResolve_MissingTargetReportedUnresolved(t *testing.T) {
	docs := []content.Document{
		docWithBody("intro.md", "See [missing](/docs/foundations/does-not-exist).\n"),
	}

	links, diags := NewResolver("").Resolve(docs)
	require.Len(t, links, 1)
	require.Equal(t, StatusUnresolved, links[0].Status)
	require.Empty(t, links[0].Slug)

	require.Len(t, diags, 1)
	require.Equal(t, diag.KindUnresolvedLink, diags[0].Kind)
	require.Equal(t, "intro.md", diags[0].Path)
	require.Contains(t, diags[0].Detail, "/docs/foundations/does-not-exist")
}

func TestResolve_AnchorKeptButNotValidated(t *testing.T) {
	docs := []content.Document{
		docWithBody("intro.md", "Jump to [setup](/docs/guides/setup#prerequisites).\n"),
		docWithBody("guides/setup.md", "# Setup\n"),
	}

	links, diags := NewResolver("").Resolve(docs)
	require.Empty(t, diags)
	require.Len(t, links, 1)
	require.Equal(t, StatusResolved, links[0].Status)
	require.Equal(t, "guides/setup", links[0].Slug)
	require.Equal(t, "prerequisites", links[0].Anchor)
}

func TestResolve_ExternalURLsPassThrough(t *testing.T) {
	docs := []content.Document{
		docWithBody("intro.md", "Go to [salesforce](https://salesforce.com/docs/thing).\n"),
	}

	links, diags := NewResolver("").Resolve(docs)
	require.Empty(t, diags)
	require.Len(t, links, 1)
	require.Equal(t, StatusExternal, links[0].Status)
	require.Equal(t, "https://salesforce.com/docs/thing", links[0].Target)
}

func TestResolve_OtherDestinationsIgnored(t *testing.T) {
	docs := []content.Document{
		docWithBody("intro.md", "A [relative](./sibling.md) link and an ![image](/img/x.png).\n"),
	}

	links, diags := NewResolver("").Resolve(docs)
	require.Empty(t, links)
	require.Empty(t, diags)
}

func TestResolve_CustomPrefix(t *testing.T) {
	docs := []content.Document{
		docWithBody("intro.md", "See [guide](/learn/guides/setup).\n"),
		docWithBody("guides/setup.md", "# Setup\n"),
	}

	links, diags := NewResolver("/learn").Resolve(docs)
	require.Empty(t, diags)
	require.Len(t, links, 1)
	require.Equal(t, StatusResolved, links[0].Status)
}

func TestResolve_OutputSortedBySourceThenTarget(t *testing.T) {
	docs := []content.Document{
		docWithBody("b.md", "[z](/docs/a) [a](/docs/a)\n"),
		docWithBody("a.md", "# A\n\n[b link](/docs/b)\n"),
	}

	links, _ := NewResolver("").Resolve(docs)
	require.Len(t, links, 3)
	require.Equal(t, "a.md", links[0].Source)
	require.Equal(t, "b.md", links[1].Source)
	require.Equal(t, "b.md", links[2].Source)
	require.Equal(t, "/docs/a", links[1].Target)
}
