package extract

import (
	"strings"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// Paragraphs scans paragraph_open/paragraph_close pairs. has_code is set
// when the paragraph's inline run contains at least one code span.
func Paragraphs(tokens []*mdtoken.Token) []snapshot.Paragraph {
	var out []snapshot.Paragraph
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type != "paragraph_open" {
			continue
		}
		var sb strings.Builder
		hasCode := false
		depth := 1
		j := i + 1
		for ; j < len(tokens); j++ {
			tk := tokens[j]
			if tk.Type == "paragraph_close" {
				depth--
				if depth == 0 {
					break
				}
				continue
			}
			if tk.Type == "paragraph_open" {
				depth++
			}
			switch tk.Type {
			case "text":
				sb.WriteString(tk.Content)
			case "softbreak":
				sb.WriteByte(' ')
			case "hardbreak":
				sb.WriteByte('\n')
			case "code_inline_open", "code_inline_close":
				hasCode = true
			}
		}
		out = append(out, snapshot.Paragraph{
			Text:      sb.String(),
			StartLine: t.Map[0],
			EndLine:   t.Map[1],
			HasCode:   hasCode,
		})
		i = j
	}
	return out
}
