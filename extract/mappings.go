package extract

import (
	"strings"

	"github.com/poutila/mdguard/snapshot"
)

// Mappings builds the line-to-type classification of spec §3: fenced
// code blocks contribute fence_marker lines at their open/close and
// code lines between them; indented blocks contribute indented_code;
// everything else is prose or blank.
func Mappings(lines []string, codeBlocks []snapshot.CodeBlock) snapshot.Mappings {
	lineType := make(map[int]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			lineType[i] = "blank"
		} else {
			lineType[i] = "prose"
		}
	}

	var ranges []snapshot.CodeRange
	for _, cb := range codeBlocks {
		ranges = append(ranges, snapshot.CodeRange{StartLine: cb.StartLine, EndLine: cb.EndLine, Language: cb.Language})
		switch cb.Type {
		case "fenced":
			for l := cb.StartLine; l < cb.EndLine; l++ {
				if l >= len(lines) {
					continue
				}
				if l == cb.StartLine || l == cb.EndLine-1 {
					lineType[l] = "fence_marker"
				} else {
					lineType[l] = "code"
				}
			}
		case "indented":
			for l := cb.StartLine; l < cb.EndLine; l++ {
				if l >= len(lines) {
					continue
				}
				lineType[l] = "indented_code"
			}
		}
	}

	prose, code := 0, 0
	for _, v := range lineType {
		switch v {
		case "prose":
			prose++
		case "code", "indented_code", "fence_marker":
			code++
		}
	}

	return snapshot.Mappings{
		LineToType: lineType,
		ProseLines: prose,
		CodeLines:  code,
		CodeBlocks: ranges,
	}
}
