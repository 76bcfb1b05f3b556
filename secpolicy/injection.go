package secpolicy

import (
	"regexp"
	"strings"
)

// injectionSignatures are whole-phrase, case-insensitive matches for
// the instruction-override patterns named in spec §4.15. Word
// boundaries stop "disregard" from firing inside an unrelated compound
// like "disregarded".
var injectionSignatures = []*regexp.Regexp{
	mustSignature(`ignore\s+(all\s+)?previous\s+instructions`),
	mustSignature(`ignore\s+the\s+above`),
	mustSignature(`disregard\s+the\s+above`),
	mustSignature(`disregard\s+(all\s+)?previous\s+instructions`),
	mustSignature(`reveal\s+(the\s+)?system\s+prompt`),
	mustSignature(`reveal\s+your\s+instructions`),
	mustSignature(`you\s+are\s+now\s+in\s+developer\s+mode`),
	mustSignature(`act\s+as\s+if\s+you\s+have\s+no\s+restrictions`),
	mustSignature(`print\s+your\s+system\s+prompt`),
}

// templateSignatures flag template-interpolation syntax that could
// smuggle directives through a downstream template renderer.
var templateSignatures = []*regexp.Regexp{
	regexp.MustCompile(`\{\{.*?\}\}`),
	regexp.MustCompile(`\{%.*?%\}`),
	regexp.MustCompile(`<%=.*?%>`),
	regexp.MustCompile(`\$\{.*?\}`),
	regexp.MustCompile(`#\{.*?\}`),
}

func mustSignature(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + phrase + `\b`)
}

// HasInjectionSignature reports whether any signature (phrase or
// template-syntax) matches within text. Callers are responsible for
// pre-truncating text to the profile's scan window.
func HasInjectionSignature(text string) bool {
	for _, re := range injectionSignatures {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range templateSignatures {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// ScanWindow truncates text to at most maxChars runes, the bounded
// window spec §4.15 requires instead of scanning arbitrarily large
// documents.
func ScanWindow(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

// normalizeForScan lower-cases nothing (signatures are already
// case-insensitive) but collapses repeated whitespace so signatures
// split across line-wraps still match.
func normalizeForScan(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
