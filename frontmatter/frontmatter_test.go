package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractsBOFFrontmatter(t *testing.T) {
	in := "---\ntitle: Hello\nauthor: Jane\n---\n\n# Body\n"
	res := Extract(in)
	require.True(t, res.Has)
	assert.Equal(t, "Hello", res.Data["title"])
	assert.Equal(t, "Jane", res.Data["author"])
	assert.Contains(t, res.Body, "# Body")
	assert.NotContains(t, res.Body, "title: Hello")
}

func TestMidFileFenceNeverParsed(t *testing.T) {
	in := "# Main\n\ncontent\n\n---\nmalicious: attempt\n---\n\nmore\n"
	res := Extract(in)
	assert.False(t, res.Has)
	assert.Nil(t, res.Data)
	assert.Equal(t, ErrMidFileFence, res.ErrTag)
	assert.Contains(t, res.Body, "malicious: attempt")
}

func TestTrailingWhitespaceOnFenceRejected(t *testing.T) {
	in := "--- \ntitle: Hello\n---\n\nBody\n"
	res := Extract(in)
	assert.False(t, res.Has)
	assert.Nil(t, res.Data)
}

func TestUnterminatedFrontmatter(t *testing.T) {
	in := "---\ntitle: Hello\n\nBody without closing fence\n"
	res := Extract(in)
	assert.False(t, res.Has)
	assert.Equal(t, ErrUnterminated, res.ErrTag)
}

func TestYAMLParseError(t *testing.T) {
	in := "---\ntitle: [unterminated\n---\n\nBody\n"
	res := Extract(in)
	assert.False(t, res.Has)
	assert.Equal(t, ErrYAMLParse, res.ErrTag)
	assert.NotEmpty(t, res.ErrText)
}

func TestSetextCollisionAvoided(t *testing.T) {
	in := "---\ntitle: Hello\n---\nLooks Like A Title\n---\nbody\n"
	res := Extract(in)
	require.True(t, res.Has)
	lines := splitLines(res.Body)
	require.True(t, len(lines) >= 2)
	assert.Equal(t, "Looks Like A Title", lines[0])
	assert.Equal(t, "", lines[1])
}

func TestNoFrontmatterLeavesBodyUntouched(t *testing.T) {
	in := "# Title\n\nNo frontmatter here.\n"
	res := Extract(in)
	assert.False(t, res.Has)
	assert.Equal(t, in, res.Body)
}

func splitLines(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == '\n' {
			out = append(out, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	out = append(out, cur)
	return out
}
