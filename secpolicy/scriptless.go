package secpolicy

import (
	"strings"

	"golang.org/x/net/html"
)

// ScriptlessScan is the result of walking every raw HTML tag in the
// document with a real tokenizer (spec §4.11 point 2-3) instead of
// pattern-matching bytes: tag names and attribute values are read the
// way a browser would see them, so obfuscated spacing or casing inside
// a tag doesn't slip past a regex.
type ScriptlessScan struct {
	HasScript          bool
	HasStyleScriptless bool
	HasMetaRefresh     bool
	HasFrameLike       bool
	HasEventHandlers   bool
	RawHrefs           []string // href/src-like attribute values found outside fenced code
}

var frameLikeTags = map[string]bool{"iframe": true, "object": true, "embed": true}

// hrefLikeAttrs are the attributes that can carry a navigable or
// loadable URL on an arbitrary element, not just <a href>.
var hrefLikeAttrs = map[string]bool{"href": true, "src": true, "action": true, "formaction": true}

// ScanScriptless tokenizes raw content (outside fenced code, which the
// caller excludes before calling this) as HTML and classifies every tag
// and attribute it encounters. It never stops at the first hit: all
// tags in the document are inspected so statistics reflect the whole
// input, not just the first offender.
func ScanScriptless(content string) ScriptlessScan {
	var out ScriptlessScan
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		tag := strings.ToLower(string(name))
		if tag == "script" {
			out.HasScript = true
		}
		if frameLikeTags[tag] {
			out.HasFrameLike = true
		}
		if tag == "meta" {
			checkMetaRefresh(z, hasAttr, &out)
			continue
		}
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			attr := strings.ToLower(string(key))
			value := string(val)
			if attr == "style" && styleIsScriptless(value) {
				out.HasStyleScriptless = true
			}
			if strings.HasPrefix(attr, "on") && len(attr) > 2 {
				out.HasEventHandlers = true
			}
			if hrefLikeAttrs[attr] {
				out.RawHrefs = append(out.RawHrefs, strings.TrimSpace(value))
			}
		}
	}
}

func checkMetaRefresh(z *html.Tokenizer, hasAttr bool, out *ScriptlessScan) {
	isRefresh := false
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attr := strings.ToLower(string(key))
		if attr == "http-equiv" && strings.EqualFold(string(val), "refresh") {
			isRefresh = true
		}
	}
	if isRefresh {
		out.HasMetaRefresh = true
	}
}

// styleIsScriptless matches the three CSS-borne scriptless vectors
// named in spec §4.11: javascript: URLs, CSS expression(), and
// url(javascript:...), all case-insensitively.
func styleIsScriptless(style string) bool {
	lower := strings.ToLower(style)
	return strings.Contains(lower, "javascript:") || strings.Contains(lower, "expression(")
}
