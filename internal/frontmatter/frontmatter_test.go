package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, raw)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Intro\n---\n# Title\n")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Intro\n"), raw)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: Intro\n# Title\n")

	_, _, had, err := Split(input)
	require.Error(t, err)
	require.False(t, had)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_ClosingDelimiterAtEOF_SplitsWithEmptyBody(t *testing.T) {
	input := []byte("---\ntitle: Intro\n---")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Intro\n"), raw)
	require.Empty(t, body)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Intro\r\n---\r\n# Title\r\n")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: Intro\r\n"), raw)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyFrontmatter(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, raw)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_HorizontalRuleInBody_NotTreatedAsFrontmatter(t *testing.T) {
	input := []byte("# Title\n\n---\n\nmore\n")

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, raw)
	require.Equal(t, input, body)
}

func TestDecodeMeta_RecognizedKeys(t *testing.T) {
	meta, err := DecodeMeta([]byte("sidebar_position: 3\ntitle: Version Control\ndescription: Git basics\n"))
	require.NoError(t, err)
	require.NotNil(t, meta.SidebarPosition)
	require.Equal(t, 3, *meta.SidebarPosition)
	require.Equal(t, "Version Control", meta.Title)
	require.Equal(t, "Git basics", meta.Description)
}

func TestDecodeMeta_UnknownKeysIgnored(t *testing.T) {
	meta, err := DecodeMeta([]byte("title: Intro\nauthor: someone\ntags: [a, b]\n"))
	require.NoError(t, err)
	require.Equal(t, "Intro", meta.Title)
	require.Nil(t, meta.SidebarPosition)
}

func TestDecodeMeta_EmptyBlock_ReturnsZeroMeta(t *testing.T) {
	meta, err := DecodeMeta(nil)
	require.NoError(t, err)
	require.Equal(t, Meta{}, meta)
}

func TestDecodeMeta_UnparsableYAML_ReturnsError(t *testing.T) {
	_, err := DecodeMeta([]byte("title: [unclosed\n"))
	require.Error(t, err)
}

func TestDecodeMeta_NonIntegerPosition_ReturnsError(t *testing.T) {
	_, err := DecodeMeta([]byte("sidebar_position: first\n"))
	require.Error(t, err)
}
