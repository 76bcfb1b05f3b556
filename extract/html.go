package extract

import (
	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// HTML scans html_block and html_inline tokens (spec §4.10's sibling
// HtmlBlock/HtmlInline containers). Stripping them when allows_html is
// false happens in the policy stage, not here — extraction never
// consults policy.
func HTML(tokens []*mdtoken.Token) ([]snapshot.HTMLBlock, []snapshot.HTMLInline) {
	var blocks []snapshot.HTMLBlock
	var inline []snapshot.HTMLInline
	for _, t := range tokens {
		switch t.Type {
		case "html_block":
			blocks = append(blocks, snapshot.HTMLBlock{
				Content:   t.Content,
				StartLine: t.Map[0],
				EndLine:   t.Map[1],
				Inline:    false,
			})
		case "html_inline":
			inline = append(inline, snapshot.HTMLInline{
				Content: t.Content,
				Line:    t.Map[0],
				Inline:  true,
			})
		}
	}
	return blocks, inline
}
