package extract

import (
	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// Footnotes scans footnote_block_open/close (definitions) and
// footnote_ref (references). A duplicate label keeps the first
// definition and is counted in the returned int (spec §4.10).
func Footnotes(tokens []*mdtoken.Token) (snapshot.Footnotes, int) {
	seen := map[string]bool{}
	dup := 0
	var defs []snapshot.Footnote
	var refs []snapshot.Footnote

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type == "footnote_block_open" {
			label := t.Attrs["label"]
			var sb []byte
			depth := 1
			j := i + 1
			for ; j < len(tokens); j++ {
				tk := tokens[j]
				if tk.Type == "footnote_block_close" {
					depth--
					if depth == 0 {
						break
					}
					continue
				}
				if tk.Type == "footnote_block_open" {
					depth++
				}
				if tk.Type == "text" {
					sb = append(sb, tk.Content...)
				}
			}
			content := string(sb)
			if !seen[label] {
				seen[label] = true
				defs = append(defs, snapshot.Footnote{
					Label:      label,
					Content:    content,
					ByteLength: len(content),
					StartLine:  t.Map[0],
					EndLine:    t.Map[1],
				})
			} else {
				dup++
			}
			i = j
			continue
		}
		if t.Type == "footnote_ref" {
			refs = append(refs, snapshot.Footnote{
				Label:     t.Attrs["index"],
				StartLine: t.Map[0],
				EndLine:   t.Map[1],
			})
		}
	}

	return snapshot.Footnotes{Definitions: defs, References: refs}, dup
}
