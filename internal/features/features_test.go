package features

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_PreservesOrderAndLength(t *testing.T) {
	blocks := []Block{
		{Title: "Version Everything", Description: "Track *all* metadata.", Icon: "git.svg"},
		{Title: "Automate Deploys", Description: "Pipelines over change sets.", Icon: "rocket.svg"},
		{Title: "Test Continuously", Description: "Run Apex tests on every commit.", Icon: "check.svg"},
	}

	fragments := Render(blocks)
	require.Len(t, fragments, len(blocks))
	for i, b := range blocks {
		require.Equal(t, b.Title, fragments[i].Title)
		require.Equal(t, b.Icon, fragments[i].Icon)
	}
}

func TestRender_DescriptionMarkdownConverted(t *testing.T) {
	fragments := Render([]Block{{Title: "T", Description: "Track *all* metadata."}})
	require.Len(t, fragments, 1)
	require.Contains(t, fragments[0].HTML, "<em>all</em>")
}

func TestRender_DeterministicForSameInput(t *testing.T) {
	blocks := []Block{{Title: "A", Description: "one"}, {Title: "B", Description: "two"}}
	require.Equal(t, Render(blocks), Render(blocks))
}

func TestRender_EmptyInput(t *testing.T) {
	require.Empty(t, Render(nil))
	require.Empty(t, Render([]Block{}))
}
