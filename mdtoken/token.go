// Package mdtoken is the tokenization interface of spec §4.4: it wraps
// the external goldmark tokenizer, configures its extensions per profile
// (dialect and allowed plugins; the HTML permission does not change
// tokenization), and copies its AST into a flat
// canonical token record the extractors read fields from directly. No
// extractor ever calls a method on a goldmark node — the canonical copy
// is the only thing downstream code touches (this is what keeps upgrades
// of the embedded tokenizer from leaking accessor side effects into the
// security-relevant extraction pass).
package mdtoken

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/poutila/mdguard/profile"
)

// Token is the primitive, read-only record every extractor operates on.
// Nesting follows the markdown-it convention the spec assumes: 1 opens a
// container, -1 closes one, 0 is self-contained (leaf).
type Token struct {
	Type     string
	Tag      string
	Nesting  int8
	Level    int
	Map      [2]int // half-open [start_line, end_line)
	Info     string
	Content  string
	Attrs    map[string]string
	Children []*Token // inline children of a block token, or table-cell/list nesting
}

// Stream is the canonicalized output of one tokenize pass, plus the
// line-start index the canonicalizer used to translate byte offsets to
// lines.
type Stream struct {
	Tokens     []*Token
	LineStarts []int // byte offset of the start of each line
}

// New configures a goldmark parser for the given profile and dialect
// preset, and tokenizes source into a canonical Stream. allowsHTML does
// not change the result: raw HTML is always emitted as html_block and
// html_inline tokens, whatever its value.
func New(source []byte, budgets profile.Budgets, plugins []string, allowsHTML bool) Stream {
	var extenders []goldmark.Extender
	requested := intersect(plugins, budgets.AllowedPlugins)
	if requested["table"] {
		extenders = append(extenders, extension.Table)
	}
	if requested["tasklist"] {
		extenders = append(extenders, extension.TaskList)
	}
	if requested["strikethrough"] {
		extenders = append(extenders, extension.Strikethrough)
	}
	if requested["linkify"] {
		extenders = append(extenders, extension.Linkify)
	}
	if requested["footnote"] {
		extenders = append(extenders, extension.Footnote)
	}

	md := goldmark.New(goldmark.WithExtensions(extenders...))
	reader := gmtext.NewReader(source)
	doc := md.Parser().Parse(reader)

	c := &canonicalizer{
		source:     source,
		lineStarts: lineStarts(source),
		allowsHTML: allowsHTML,
	}
	gmast.Walk(doc, c.visit)

	return Stream{Tokens: c.out, LineStarts: c.lineStarts}
}

func intersect(requested []string, allowed map[string]bool) map[string]bool {
	out := map[string]bool{}
	if len(requested) == 0 {
		for name := range allowed {
			out[name] = true
		}
		return out
	}
	for _, r := range requested {
		if allowed[r] {
			out[r] = true
		}
	}
	return out
}

// lineStarts returns the byte offset at which each line begins, so a
// node's byte range can be converted to a [start_line, end_line) pair
// with a binary search (spec's "O(log N) index over start_line").
func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(starts []int, offset int) int {
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
	return i - 1
}

type canonicalizer struct {
	source     []byte
	lineStarts []int
	allowsHTML bool
	out        []*Token
	level      int
	blockStack [][2]int // map of the nearest enclosing block, for inline leaves
}

func (c *canonicalizer) curMap() [2]int {
	if len(c.blockStack) == 0 {
		return [2]int{0, 0}
	}
	return c.blockStack[len(c.blockStack)-1]
}

func (c *canonicalizer) segMap(n gmast.Node) [2]int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return c.curMap()
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return [2]int{lineOf(c.lineStarts, first.Start), lineOf(c.lineStarts, last.Stop-1) + 1}
}

func (c *canonicalizer) emit(t *Token) {
	c.out = append(c.out, t)
}

func (c *canonicalizer) visit(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	kind := n.Kind()
	switch kind {
	case gmast.KindDocument:
		// root container; nothing to emit

	case gmast.KindHeading:
		h := n.(*gmast.Heading)
		if entering {
			m := c.segMap(n)
			c.blockStack = append(c.blockStack, m)
			c.emit(&Token{Type: "heading_open", Tag: headingTag(h.Level), Nesting: 1, Level: c.level, Map: m})
			c.level++
		} else {
			c.level--
			c.emit(&Token{Type: "heading_close", Tag: headingTag(h.Level), Nesting: -1, Level: c.level})
			c.popBlock()
		}

	case gmast.KindParagraph, gmast.KindTextBlock:
		if entering {
			m := c.segMap(n)
			c.blockStack = append(c.blockStack, m)
			c.emit(&Token{Type: "paragraph_open", Tag: "p", Nesting: 1, Level: c.level, Map: m})
			c.level++
		} else {
			c.level--
			c.emit(&Token{Type: "paragraph_close", Tag: "p", Nesting: -1, Level: c.level})
			c.popBlock()
		}

	case gmast.KindBlockquote:
		if entering {
			m := c.segMap(n)
			c.blockStack = append(c.blockStack, m)
			c.emit(&Token{Type: "blockquote_open", Tag: "blockquote", Nesting: 1, Level: c.level, Map: m})
			c.level++
		} else {
			c.level--
			c.emit(&Token{Type: "blockquote_close", Tag: "blockquote", Nesting: -1, Level: c.level})
			c.popBlock()
		}

	case gmast.KindList:
		l := n.(*gmast.List)
		if entering {
			m := c.segMap(n)
			c.blockStack = append(c.blockStack, m)
			typ := "bullet_list_open"
			attrs := map[string]string{}
			if l.IsOrdered() {
				typ = "ordered_list_open"
				attrs["start"] = itoa(l.Start)
			}
			c.emit(&Token{Type: typ, Tag: listTag(l.IsOrdered()), Nesting: 1, Level: c.level, Map: m, Attrs: attrs})
			c.level++
		} else {
			c.level--
			typ := "bullet_list_close"
			if l.IsOrdered() {
				typ = "ordered_list_close"
			}
			c.emit(&Token{Type: typ, Tag: listTag(l.IsOrdered()), Nesting: -1, Level: c.level})
			c.popBlock()
		}

	case gmast.KindListItem:
		if entering {
			m := c.segMap(n)
			c.blockStack = append(c.blockStack, m)
			c.emit(&Token{Type: "list_item_open", Tag: "li", Nesting: 1, Level: c.level, Map: m})
			c.level++
		} else {
			c.level--
			c.emit(&Token{Type: "list_item_close", Tag: "li", Nesting: -1, Level: c.level})
			c.popBlock()
		}

	case extast.KindTaskCheckBox:
		if entering {
			box := n.(*extast.TaskCheckBox)
			c.emit(&Token{Type: "task_checkbox", Tag: "input", Nesting: 0, Level: c.level, Map: c.curMap(),
				Attrs: map[string]string{"checked": boolStr(box.IsChecked)}})
		}

	case gmast.KindCodeBlock:
		if entering {
			cb := n.(*gmast.CodeBlock)
			m := c.segMap(n)
			c.emit(&Token{Type: "code_block", Tag: "code", Nesting: 0, Level: c.level, Map: m,
				Content: linesText(cb, c.source)})
		}

	case gmast.KindFencedCodeBlock:
		if entering {
			fc := n.(*gmast.FencedCodeBlock)
			m := c.segMap(n)
			// Widen m to the fence lines themselves (markdown-it style): the
			// opening fence is the line before the first content line, and
			// the closing fence, when present, the line after the last one.
			if fc.Lines().Len() > 0 {
				m[0]--
			} else if fc.Info != nil {
				m[0] = lineOf(c.lineStarts, fc.Info.Segment.Start)
				m[1] = m[0] + 1
			}
			if m[1] < len(c.lineStarts) {
				closer := bytes.TrimLeft(c.source[c.lineStarts[m[1]]:], " ")
				if bytes.HasPrefix(closer, []byte("```")) || bytes.HasPrefix(closer, []byte("~~~")) {
					m[1]++
				}
			}
			info := ""
			if fc.Info != nil {
				info = string(fc.Info.Text(c.source))
			}
			c.emit(&Token{Type: "fence", Tag: "code", Nesting: 0, Level: c.level, Map: m,
				Info: info, Content: linesText(fc, c.source)})
		}

	case gmast.KindHTMLBlock:
		if entering {
			hb := n.(*gmast.HTMLBlock)
			m := c.segMap(n)
			c.emit(&Token{Type: "html_block", Tag: "", Nesting: 0, Level: c.level, Map: m,
				Content: htmlBlockText(hb, c.source)})
		}

	case gmast.KindThematicBreak:
		if entering {
			c.emit(&Token{Type: "hr", Tag: "hr", Nesting: 0, Level: c.level, Map: c.segMap(n)})
		}

	case gmast.KindText:
		if entering {
			t := n.(*gmast.Text)
			content := string(t.Segment.Value(c.source))
			c.emit(&Token{Type: "text", Nesting: 0, Level: c.level, Map: c.curMap(), Content: content})
			if t.HardLineBreak() {
				c.emit(&Token{Type: "hardbreak", Tag: "br", Nesting: 0, Level: c.level, Map: c.curMap()})
			} else if t.SoftLineBreak() {
				c.emit(&Token{Type: "softbreak", Nesting: 0, Level: c.level, Map: c.curMap()})
			}
		}

	case gmast.KindString:
		if entering {
			s := n.(*gmast.String)
			c.emit(&Token{Type: "text", Nesting: 0, Level: c.level, Map: c.curMap(), Content: string(s.Value)})
		}

	case gmast.KindAutoLink:
		al := n.(*gmast.AutoLink)
		if entering {
			url := string(al.URL(c.source))
			c.emit(&Token{Type: "link_open", Tag: "a", Nesting: 1, Level: c.level, Map: c.curMap(),
				Attrs: map[string]string{"href": url}})
			c.emit(&Token{Type: "text", Nesting: 0, Level: c.level, Map: c.curMap(), Content: url})
		} else {
			c.emit(&Token{Type: "link_close", Tag: "a", Nesting: -1, Level: c.level})
		}

	case gmast.KindLink:
		l := n.(*gmast.Link)
		if entering {
			attrs := map[string]string{"href": string(l.Destination)}
			if len(l.Title) > 0 {
				attrs["title"] = string(l.Title)
			}
			c.emit(&Token{Type: "link_open", Tag: "a", Nesting: 1, Level: c.level, Map: c.curMap(), Attrs: attrs})
		} else {
			c.emit(&Token{Type: "link_close", Tag: "a", Nesting: -1, Level: c.level})
		}

	case gmast.KindImage:
		if entering {
			im := n.(*gmast.Image)
			attrs := map[string]string{"src": string(im.Destination)}
			if len(im.Title) > 0 {
				attrs["title"] = string(im.Title)
			}
			alt := textOfChildren(n, c.source)
			c.emit(&Token{Type: "image", Tag: "img", Nesting: 0, Level: c.level, Map: c.curMap(),
				Attrs: attrs, Content: alt})
			return gmast.WalkSkipChildren, nil
		}

	case gmast.KindCodeSpan:
		if entering {
			c.emit(&Token{Type: "code_inline_open", Tag: "code", Nesting: 1, Level: c.level, Map: c.curMap()})
		} else {
			c.emit(&Token{Type: "code_inline_close", Tag: "code", Nesting: -1, Level: c.level})
		}

	case gmast.KindEmphasis:
		em := n.(*gmast.Emphasis)
		typ, tag := "em", "em"
		if em.Level == 2 {
			typ, tag = "strong", "strong"
		}
		if entering {
			c.emit(&Token{Type: typ + "_open", Tag: tag, Nesting: 1, Level: c.level, Map: c.curMap()})
		} else {
			c.emit(&Token{Type: typ + "_close", Tag: tag, Nesting: -1, Level: c.level})
		}

	case gmast.KindRawHTML:
		if entering {
			rh := n.(*gmast.RawHTML)
			c.emit(&Token{Type: "html_inline", Nesting: 0, Level: c.level, Map: c.curMap(),
				Content: rawHTMLText(rh, c.source)})
		}

	case extast.KindStrikethrough:
		if entering {
			c.emit(&Token{Type: "s_open", Tag: "s", Nesting: 1, Level: c.level, Map: c.curMap()})
		} else {
			c.emit(&Token{Type: "s_close", Tag: "s", Nesting: -1, Level: c.level})
		}

	case extast.KindTable:
		if entering {
			m := c.segMap(n)
			c.blockStack = append(c.blockStack, m)
			c.emit(&Token{Type: "table_open", Tag: "table", Nesting: 1, Level: c.level, Map: m})
			c.level++
		} else {
			c.level--
			c.emit(&Token{Type: "table_close", Tag: "table", Nesting: -1, Level: c.level})
			c.popBlock()
		}

	case extast.KindTableHeader:
		if entering {
			c.emit(&Token{Type: "thead_open", Tag: "thead", Nesting: 1, Level: c.level, Map: c.curMap()})
			c.emit(&Token{Type: "tr_open", Tag: "tr", Nesting: 1, Level: c.level, Map: c.curMap()})
		} else {
			c.emit(&Token{Type: "tr_close", Tag: "tr", Nesting: -1, Level: c.level})
			c.emit(&Token{Type: "thead_close", Tag: "thead", Nesting: -1, Level: c.level})
		}

	case extast.KindTableRow:
		if entering {
			c.emit(&Token{Type: "tr_open", Tag: "tr", Nesting: 1, Level: c.level, Map: c.curMap()})
		} else {
			c.emit(&Token{Type: "tr_close", Tag: "tr", Nesting: -1, Level: c.level})
		}

	case extast.KindTableCell:
		cell := n.(*extast.TableCell)
		if entering {
			alignTag := alignOf(cell.Alignment)
			text := textOfChildren(n, c.source)
			c.emit(&Token{Type: "td", Tag: "td", Nesting: 0, Level: c.level, Map: c.curMap(),
				Content: text, Attrs: map[string]string{"align": alignTag}})
			return gmast.WalkSkipChildren, nil
		}

	case extast.KindFootnoteList:
		// wrapper only; individual footnotes are emitted below

	case extast.KindFootnote:
		fn := n.(*extast.Footnote)
		if entering {
			m := c.segMap(n)
			c.blockStack = append(c.blockStack, m)
			c.emit(&Token{Type: "footnote_block_open", Tag: "li", Nesting: 1, Level: c.level, Map: m,
				Attrs: map[string]string{"label": string(fn.Ref)}})
			c.level++
		} else {
			c.level--
			c.emit(&Token{Type: "footnote_block_close", Tag: "li", Nesting: -1, Level: c.level})
			c.popBlock()
		}

	case extast.KindFootnoteLink:
		if entering {
			fl := n.(*extast.FootnoteLink)
			c.emit(&Token{Type: "footnote_ref", Tag: "sup", Nesting: 0, Level: c.level, Map: c.curMap(),
				Attrs: map[string]string{"index": itoa(fl.Index)}})
		}

	case extast.KindFootnoteBacklink:
		// rendering-only artifact; no structural meaning for this pipeline
	}
	return gmast.WalkContinue, nil
}

func (c *canonicalizer) popBlock() {
	if len(c.blockStack) > 0 {
		c.blockStack = c.blockStack[:len(c.blockStack)-1]
	}
}

func headingTag(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	case 3:
		return "h3"
	case 4:
		return "h4"
	case 5:
		return "h5"
	default:
		return "h6"
	}
}

func listTag(ordered bool) string {
	if ordered {
		return "ol"
	}
	return "ul"
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func alignOf(a extast.Alignment) string {
	switch a {
	case extast.AlignLeft:
		return "left"
	case extast.AlignRight:
		return "right"
	case extast.AlignCenter:
		return "center"
	default:
		return "none"
	}
}

func linesText(n interface{ Lines() *gmtext.Segments }, source []byte) string {
	segs := n.Lines()
	var out []byte
	for i := 0; i < segs.Len(); i++ {
		out = append(out, segs.At(i).Value(source)...)
	}
	return string(out)
}

func htmlBlockText(hb *gmast.HTMLBlock, source []byte) string {
	var out []byte
	segs := hb.Lines()
	for i := 0; i < segs.Len(); i++ {
		out = append(out, segs.At(i).Value(source)...)
	}
	if hb.HasClosure() {
		out = append(out, hb.ClosureLine.Value(source)...)
	}
	return string(out)
}

func rawHTMLText(rh *gmast.RawHTML, source []byte) string {
	var out []byte
	segs := rh.Segments
	for i := 0; i < segs.Len(); i++ {
		out = append(out, segs.At(i).Value(source)...)
	}
	return string(out)
}

// textOfChildren concatenates the plain-text content of an inline
// subtree (used for image alt text and table cell content, which the
// spec requires as flat strings rather than mark trees).
func textOfChildren(n gmast.Node, source []byte) string {
	var sb []byte
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case gmast.KindText:
			sb = append(sb, child.(*gmast.Text).Segment.Value(source)...)
		case gmast.KindString:
			sb = append(sb, child.(*gmast.String).Value...)
		default:
			sb = append(sb, textOfChildren(child, source)...)
		}
	}
	return string(sb)
}
