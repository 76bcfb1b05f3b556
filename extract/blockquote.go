package extract

import (
	"strings"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// Blockquotes scans blockquote_open/close pairs, flattening their
// content to text (spec §4.10's sibling containers).
func Blockquotes(tokens []*mdtoken.Token) []snapshot.Blockquote {
	var out []snapshot.Blockquote
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type != "blockquote_open" {
			continue
		}
		var sb strings.Builder
		depth := 1
		j := i + 1
		for ; j < len(tokens); j++ {
			tk := tokens[j]
			if tk.Type == "blockquote_close" {
				depth--
				if depth == 0 {
					break
				}
				continue
			}
			if tk.Type == "blockquote_open" {
				depth++
			}
			switch tk.Type {
			case "text":
				sb.WriteString(tk.Content)
			case "softbreak", "hardbreak":
				sb.WriteByte('\n')
			}
		}
		out = append(out, snapshot.Blockquote{
			Text:      strings.TrimSpace(sb.String()),
			StartLine: t.Map[0],
			EndLine:   t.Map[1],
		})
		i = j
	}
	return out
}
