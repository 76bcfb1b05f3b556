// Package extract is the extractor family of spec §4.5-§4.10: it
// consumes a canonical mdtoken.Stream and emits the structured
// containers of snapshot.Structure. Every extractor is an index-based
// scan over the flat token list — no lazy generators; only Lists
// recurses, to attach nested lists to their items — so ordering stays
// deterministic and trivially serializable (see spec's Design Notes on
// iterator/generator control flow).
package extract

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// Sections builds the flat section list with an O(H) level-stack scan
// (spec §4.5): heading_open at level L closes every open section with
// level >= L at the current heading's line minus one, then pushes a new
// section. At EOF, every still-open section closes at the document's
// last content line.
func Sections(tokens []*mdtoken.Token, totalLines int) []snapshot.Section {
	var out []snapshot.Section
	var openIdx []int // indices into out, one per open level (stack)

	closeDownTo := func(level int, endLine int) {
		for len(openIdx) > 0 {
			top := openIdx[len(openIdx)-1]
			if out[top].Level < level {
				break
			}
			out[top].EndLine = endLine
			openIdx = openIdx[:len(openIdx)-1]
		}
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Type != "heading_open" {
			continue
		}
		level := headingLevel(t.Tag)
		startLine := t.Map[0]
		closeDownTo(level, max(startLine-1, 0))

		title := compactTitle(headingInlineText(tokens, i))
		sec := snapshot.Section{
			Level:     level,
			Title:     title,
			StartLine: startLine,
			EndLine:   totalLines,
			TokenIdx:  i,
		}
		out = append(out, sec)
		openIdx = append(openIdx, len(out)-1)
	}

	closeDownTo(0, totalLines)
	return out
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	default:
		return 6
	}
}

// headingInlineText concatenates only the inline children between a
// heading_open and its matching heading_close, never bleeding into
// later paragraphs (spec: "title uses only the inline children").
func headingInlineText(tokens []*mdtoken.Token, openIdx int) string {
	var sb strings.Builder
	depth := 1
	for j := openIdx + 1; j < len(tokens); j++ {
		t := tokens[j]
		if t.Type == "heading_close" {
			depth--
			if depth == 0 {
				break
			}
			continue
		}
		if t.Type == "heading_open" {
			depth++
		}
		if t.Type == "text" || t.Type == "softbreak" {
			if t.Type == "softbreak" {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(t.Content)
			}
		}
	}
	return sb.String()
}

// compactTitle applies the whitespace-compaction + NFC rule shared by
// headings and list items: `" ".join(split())`, then NFC-normalize.
func compactTitle(s string) string {
	fields := strings.Fields(s)
	return norm.NFC.String(strings.Join(fields, " "))
}

// SectionIndex is the binary-search index over Sections' start_line used
// by section_of(line) queries, per spec §4.5.
type SectionIndex struct {
	sections []snapshot.Section
}

func NewSectionIndex(sections []snapshot.Section) SectionIndex {
	cp := make([]snapshot.Section, len(sections))
	copy(cp, sections)
	sort.Slice(cp, func(i, j int) bool { return cp[i].StartLine < cp[j].StartLine })
	return SectionIndex{sections: cp}
}

// SectionOf returns the index of the innermost section containing line,
// or -1 if no section contains it. It bisects to the last section
// whose StartLine is at or before line, then walks backward through
// earlier sections until it finds one still open at line; in the worst
// case that walk visits every earlier section.
func (idx SectionIndex) SectionOf(line int) int {
	i := sort.Search(len(idx.sections), func(i int) bool {
		return idx.sections[i].StartLine > line
	}) - 1
	for i >= 0 {
		if idx.sections[i].StartLine <= line && line < idx.sections[i].EndLine {
			return i
		}
		i--
	}
	return -1
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
