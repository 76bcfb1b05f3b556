package extract

import (
	"sort"
	"strings"

	"github.com/poutila/mdguard/snapshot"
)

// Math builds the blocks/inline pair of spec §4.10. Fenced math
// (info string "math") rides in on the fence token already captured by
// CodeBlocks and is surfaced again here as kind=fenced, without being
// removed from code_blocks. Display ($$...$$) and inline ($...$) math
// have no dedicated goldmark token (no math extension is available in
// this pipeline's dependency set — see DESIGN.md), so they're recovered
// by a direct scan of the normalized text, skipping any line already
// claimed by a code block so code content is never misread as math.
func Math(lines []string, codeBlocks []snapshot.CodeBlock) snapshot.Math {
	inCode := codeLineSet(codeBlocks)

	var blocks []snapshot.MathBlock
	var inline []snapshot.MathInline

	for _, cb := range codeBlocks {
		if cb.Type == "fenced" && cb.Language == "math" {
			blocks = append(blocks, snapshot.MathBlock{
				ID:        "", // filled below once ordering is final
				Kind:      "fenced",
				Content:   cb.Content,
				StartLine: cb.StartLine,
				EndLine:   cb.EndLine,
			})
		}
	}

	i := 0
	for i < len(lines) {
		if inCode[i] {
			i++
			continue
		}
		line := lines[i]
		if idx := strings.Index(line, "$$"); idx >= 0 {
			startLine := i
			// find closing $$ on this or a later line
			content, endLine, consumed := scanDisplayMath(lines, i, idx)
			if consumed {
				blocks = append(blocks, snapshot.MathBlock{
					Kind:      "display",
					Content:   content,
					StartLine: startLine,
					EndLine:   endLine + 1,
				})
				// inline math may share a line with the display span:
				// scan the text before the opening and after the closing $$
				for _, c := range scanInlineMath(line[:idx]) {
					inline = append(inline, snapshot.MathInline{Content: c, Line: startLine})
				}
				closeLine, from := lines[endLine], 0
				if endLine == startLine {
					from = idx + 2
				}
				if c := strings.Index(closeLine[from:], "$$"); c >= 0 {
					for _, s := range scanInlineMath(closeLine[from+c+2:]) {
						inline = append(inline, snapshot.MathInline{Content: s, Line: endLine})
					}
				}
				i = endLine + 1
				continue
			}
		}
		for _, content := range scanInlineMath(line) {
			inline = append(inline, snapshot.MathInline{Content: content, Line: i})
		}
		i++
	}

	sort.SliceStable(blocks, func(a, b int) bool { return blocks[a].StartLine < blocks[b].StartLine })
	for idx := range blocks {
		blocks[idx].ID = idString("math_block", idx)
	}
	for idx := range inline {
		inline[idx].ID = idString("math_inline", idx)
	}

	return snapshot.Math{Blocks: blocks, Inline: inline}
}

func idString(prefix string, n int) string {
	digits := "0123456789"
	if n == 0 {
		return prefix + "_0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return prefix + "_" + string(buf)
}

func codeLineSet(blocks []snapshot.CodeBlock) map[int]bool {
	set := map[int]bool{}
	for _, b := range blocks {
		for l := b.StartLine; l < b.EndLine; l++ {
			set[l] = true
		}
	}
	return set
}

// scanDisplayMath looks for the closing "$$" starting at (line, afterIdx)
// and returns the content between the two fences plus the line it closed
// on. consumed is false when no closing fence is found within the
// document (treated as not math at all, left for inline scanning).
func scanDisplayMath(lines []string, line, idx int) (content string, endLine int, consumed bool) {
	rest := lines[line][idx+2:]
	if close := strings.Index(rest, "$$"); close >= 0 {
		return rest[:close], line, true
	}
	var sb strings.Builder
	sb.WriteString(rest)
	for l := line + 1; l < len(lines); l++ {
		if close := strings.Index(lines[l], "$$"); close >= 0 {
			sb.WriteByte('\n')
			sb.WriteString(lines[l][:close])
			return strings.TrimSpace(sb.String()), l, true
		}
		sb.WriteByte('\n')
		sb.WriteString(lines[l])
	}
	return "", 0, false
}

// scanInlineMath finds $...$ spans on a single line, skipping escaped
// dollar signs and empty pairs.
func scanInlineMath(line string) []string {
	var out []string
	i := 0
	for i < len(line) {
		if line[i] != '$' || (i > 0 && line[i-1] == '\\') {
			i++
			continue
		}
		close := strings.IndexByte(line[i+1:], '$')
		if close < 0 {
			break
		}
		content := line[i+1 : i+1+close]
		if content != "" && !strings.Contains(content, " $") {
			out = append(out, content)
		}
		i = i + 1 + close + 1
	}
	return out
}
