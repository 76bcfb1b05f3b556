package mdtoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poutila/mdguard/profile"
)

func moderateBudgets(t *testing.T) profile.Budgets {
	t.Helper()
	b, err := profile.Resolve(profile.Moderate)
	require.NoError(t, err)
	return b
}

func tokensByType(tokens []*Token, typ string) []*Token {
	var out []*Token
	for _, tok := range tokens {
		if tok.Type == typ {
			out = append(out, tok)
		}
	}
	return out
}

func TestNew_Heading(t *testing.T) {
	stream := New([]byte("# Title\n\nBody.\n"), moderateBudgets(t), nil, true)
	opens := tokensByType(stream.Tokens, "heading_open")
	require.Len(t, opens, 1)
	assert.Equal(t, "h1", opens[0].Tag)
	assert.Equal(t, 0, opens[0].Map[0])
}

func TestNew_FencedCodeBlockCapturesInfoString(t *testing.T) {
	stream := New([]byte("```go\nfmt.Println(1)\n```\n"), moderateBudgets(t), nil, true)
	fences := tokensByType(stream.Tokens, "fence")
	require.Len(t, fences, 1)
	assert.Equal(t, "go", fences[0].Info)
	assert.Contains(t, fences[0].Content, "fmt.Println(1)")
}

func TestNew_LinkAttrs(t *testing.T) {
	stream := New([]byte("[home](https://example.com \"Home\")\n"), moderateBudgets(t), nil, true)
	opens := tokensByType(stream.Tokens, "link_open")
	require.Len(t, opens, 1)
	assert.Equal(t, "https://example.com", opens[0].Attrs["href"])
	assert.Equal(t, "Home", opens[0].Attrs["title"])
}

func TestNew_ImageAltFromChildren(t *testing.T) {
	stream := New([]byte("![a cat](cat.png)\n"), moderateBudgets(t), nil, true)
	images := tokensByType(stream.Tokens, "image")
	require.Len(t, images, 1)
	assert.Equal(t, "a cat", images[0].Content)
	assert.Equal(t, "cat.png", images[0].Attrs["src"])
}

func TestNew_TableRequiresExtension(t *testing.T) {
	doc := "| a | b |\n|---|---|\n| 1 | 2 |\n"
	withTable := New([]byte(doc), moderateBudgets(t), []string{"table"}, true)
	assert.NotEmpty(t, tokensByType(withTable.Tokens, "table_open"))

	withoutTable := New([]byte(doc), moderateBudgets(t), []string{"tasklist"}, true)
	assert.Empty(t, tokensByType(withoutTable.Tokens, "table_open"))
}

func TestNew_TaskCheckbox(t *testing.T) {
	doc := "- [x] done\n- [ ] not done\n"
	stream := New([]byte(doc), moderateBudgets(t), []string{"tasklist"}, true)
	boxes := tokensByType(stream.Tokens, "task_checkbox")
	require.Len(t, boxes, 2)
	assert.Equal(t, "true", boxes[0].Attrs["checked"])
	assert.Equal(t, "false", boxes[1].Attrs["checked"])
}

func TestNew_Footnote(t *testing.T) {
	doc := "See[^1].\n\n[^1]: the note.\n"
	stream := New([]byte(doc), moderateBudgets(t), []string{"footnote"}, true)
	require.NotEmpty(t, tokensByType(stream.Tokens, "footnote_ref"))
	require.NotEmpty(t, tokensByType(stream.Tokens, "footnote_block_open"))
}

func TestNew_RawHTMLInline(t *testing.T) {
	stream := New([]byte("Some <b>bold</b> text.\n"), moderateBudgets(t), nil, true)
	assert.NotEmpty(t, tokensByType(stream.Tokens, "html_inline"))
}

func TestNew_LineStartsMatchesSource(t *testing.T) {
	src := []byte("a\nbb\nccc\n")
	stream := New(src, moderateBudgets(t), nil, true)
	assert.Equal(t, []int{0, 2, 5, 9}, stream.LineStarts)
}
