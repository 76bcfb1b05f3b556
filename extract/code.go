package extract

import (
	"strings"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// CodeBlocks scans fence and code_block tokens (spec §4.8). Fenced
// blocks take their language from the first whitespace-delimited token
// of the info string, lowercased; indented blocks always report "".
func CodeBlocks(tokens []*mdtoken.Token) []snapshot.CodeBlock {
	var out []snapshot.CodeBlock
	for _, t := range tokens {
		switch t.Type {
		case "fence":
			lang := strings.ToLower(firstField(t.Info))
			out = append(out, snapshot.CodeBlock{
				Type:      "fenced",
				Language:  lang,
				Content:   t.Content,
				StartLine: t.Map[0],
				EndLine:   t.Map[1],
			})
		case "code_block":
			out = append(out, snapshot.CodeBlock{
				Type:      "indented",
				Language:  "",
				Content:   t.Content,
				StartLine: t.Map[0],
				EndLine:   t.Map[1],
			})
		}
	}
	return out
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
