// Package urlscheme implements the URL normalizer & validator of spec
// §4.12: shared by the link/image extractors (to set Link.Allowed) and
// the security policy stage (to classify raw HTML href-like attributes).
//
// Grounded on original_source's validators.py normalize_url: lowercase
// the scheme, reject protocol-relative //host, never decode percent
// escapes before the allowlist check (a still-encoded scheme like
// "java%73cript" is never decoded to "javascript"; net/url finds no
// scheme in it, so it is classified as a relative reference), and treat
// an absent scheme as a relative URL.
package urlscheme

import (
	"net/url"
	"strings"
)

// Classification is the result of inspecting one URL.
type Classification struct {
	Scheme  string // lowercase, or "" when relative
	Allowed bool
}

// Classify parses a URL and reports its lowercase scheme and whether
// that scheme belongs to the given allowlist. A relative URL (no
// scheme, and not protocol-relative) is always allowed.
func Classify(raw string, allowed map[string]bool) Classification {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "//") {
		return Classification{Scheme: "", Allowed: false}
	}

	scheme := rawScheme(trimmed)
	if scheme == "" {
		return Classification{Scheme: "", Allowed: true}
	}

	lower := strings.ToLower(scheme)
	if hasControlChars(lower) {
		return Classification{Scheme: lower, Allowed: false}
	}
	return Classification{Scheme: lower, Allowed: allowed[lower]}
}

// rawScheme extracts the scheme without percent-decoding — a
// percent-encoded scheme like "java%73cript" is not a scheme to net/url,
// so rawScheme returns "" for it.
func rawScheme(raw string) string {
	colon := strings.Index(raw, ":")
	if colon <= 0 {
		return ""
	}
	candidate := raw[:colon]
	for _, r := range candidate {
		if !isSchemeChar(r) {
			return ""
		}
	}
	// Require net/url to agree there is a scheme component: it rejects a
	// candidate that starts with a digit (e.g. "127.0.0.1:8080/x") or
	// contains "%". A letters-only host before a port, as in
	// "localhost:8080/x", still parses as a scheme.
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return ""
	}
	return candidate
}

func isSchemeChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '+' || r == '-' || r == '.' || r == '%':
		return true
	default:
		return false
	}
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

// Kind classifies a Link's type per spec §4.9.
func Kind(raw string, scheme string, isImageWrap bool) string {
	switch {
	case isImageWrap:
		return "image"
	case strings.HasPrefix(strings.TrimSpace(raw), "#"):
		return "anchor"
	case scheme == "tel":
		return "phone"
	case scheme == "http" || scheme == "https":
		return "external"
	case scheme == "":
		return "internal"
	default:
		return "custom"
	}
}
