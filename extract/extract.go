package extract

import (
	"sort"

	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/snapshot"
)

// Result bundles the structure plus the one statistic that the policy
// stage needs but that isn't part of the public snapshot.Structure
// shape (the duplicate footnote label count).
type Result struct {
	Structure        snapshot.Structure
	DupFootnoteLabels int
}

// All runs every extractor over the canonical token stream and returns
// the fully-populated, I3/I12-ordered Structure.
func All(stream mdtoken.Stream, lines []string, allowedSchemes map[string]bool) Result {
	tokens := stream.Tokens

	sections := Sections(tokens, len(lines))
	paragraphs := Paragraphs(tokens)
	lists := Lists(tokens)
	tables := Tables(tokens)
	codeBlocks := CodeBlocks(tokens)
	links := Links(tokens, allowedSchemes)
	images := Images(tokens)
	math := Math(lines, codeBlocks)
	footnotes, dup := Footnotes(tokens)
	blockquotes := Blockquotes(tokens)
	htmlBlocks, htmlInline := HTML(tokens)

	sortSections(sections)
	sortParagraphs(paragraphs)
	sortLists(lists)
	sortTables(tables)
	sortCodeBlocks(codeBlocks)
	sortLinks(links)
	sortImages(images)
	sortBlockquotes(blockquotes)
	sortHTMLBlocks(htmlBlocks)
	sortHTMLInline(htmlInline)

	return Result{
		Structure: snapshot.Structure{
			Sections:    sections,
			Paragraphs:  paragraphs,
			Lists:       lists,
			Tables:      tables,
			CodeBlocks:  codeBlocks,
			Links:       links,
			Images:      images,
			Math:        math,
			Footnotes:   footnotes,
			Blockquotes: blockquotes,
			HTMLBlocks:  htmlBlocks,
			HTMLInline:  htmlInline,
		},
		DupFootnoteLabels: dup,
	}
}

func sortSections(s []snapshot.Section) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].StartLine < s[j].StartLine })
}
func sortParagraphs(s []snapshot.Paragraph) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].StartLine < s[j].StartLine })
}
func sortLists(s []snapshot.List) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].StartLine < s[j].StartLine })
}
func sortTables(s []snapshot.Table) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].StartLine < s[j].StartLine })
}
func sortCodeBlocks(s []snapshot.CodeBlock) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].StartLine < s[j].StartLine })
}
func sortLinks(s []snapshot.Link) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Line < s[j].Line })
}
func sortImages(s []snapshot.Image) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Line < s[j].Line })
}
func sortBlockquotes(s []snapshot.Blockquote) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].StartLine < s[j].StartLine })
}
func sortHTMLBlocks(s []snapshot.HTMLBlock) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].StartLine < s[j].StartLine })
}
func sortHTMLInline(s []snapshot.HTMLInline) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Line < s[j].Line })
}
