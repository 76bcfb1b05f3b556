package urlscheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var moderateAllowed = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}

func TestAllowedSchemes(t *testing.T) {
	assert.Equal(t, Classification{Scheme: "http", Allowed: true}, Classify("http://example.com", moderateAllowed))
	assert.Equal(t, Classification{Scheme: "https", Allowed: true}, Classify("https://example.com", moderateAllowed))
	assert.Equal(t, Classification{Scheme: "mailto", Allowed: true}, Classify("mailto:user@example.com", moderateAllowed))
	assert.Equal(t, Classification{Scheme: "tel", Allowed: true}, Classify("tel:+1234567890", moderateAllowed))
}

func TestCaseVariations(t *testing.T) {
	c := Classify("JAVASCRIPT:alert(1)", moderateAllowed)
	assert.Equal(t, "javascript", c.Scheme)
	assert.False(t, c.Allowed)
}

func TestProtocolRelativeRejected(t *testing.T) {
	c := Classify("//evil.com/script", moderateAllowed)
	assert.Equal(t, "", c.Scheme)
	assert.False(t, c.Allowed)
}

func TestDangerousSchemesRejected(t *testing.T) {
	for _, raw := range []string{
		"data:text/html,<script>alert(1)</script>",
		"file:///etc/passwd",
		"ftp://evil.com/malware",
		"javascript:alert(1)",
	} {
		c := Classify(raw, moderateAllowed)
		assert.False(t, c.Allowed, raw)
	}
}

// TestPercentEncodedSchemeCharNeverResolvesAScheme documents a
// surprising-but-correct case: "%" inside what looks like a scheme
// name (java%73cript:) passes isSchemeChar but is not a valid scheme
// character to url.Parse, so Classify finds no scheme at all and treats
// the string as a relative reference. That matches the behavior of
// the system this was ported from, whose own urlsplit-based scheme
// parser rejects "%" the same way — the obvious-looking bypass isn't
// one, in either implementation.
func TestPercentEncodedSchemeCharNeverResolvesAScheme(t *testing.T) {
	c := Classify("java%73cript:alert(1)", moderateAllowed)
	assert.Equal(t, "", c.Scheme)
	assert.True(t, c.Allowed)
}

func TestRelativeURLsAllowed(t *testing.T) {
	for _, raw := range []string{"/relative/path", "relative/path", "./relative/path", "../relative/path"} {
		c := Classify(raw, moderateAllowed)
		assert.True(t, c.Allowed, raw)
		assert.Equal(t, "", c.Scheme, raw)
	}
}

func TestWhitespaceStripped(t *testing.T) {
	c := Classify("  https://example.com  ", moderateAllowed)
	assert.Equal(t, "https", c.Scheme)
	assert.True(t, c.Allowed)
}

func TestKindClassification(t *testing.T) {
	assert.Equal(t, "image", Kind("x.png", "", true))
	assert.Equal(t, "anchor", Kind("#section", "", false))
	assert.Equal(t, "phone", Kind("tel:+123", "tel", false))
	assert.Equal(t, "external", Kind("https://example.com", "https", false))
	assert.Equal(t, "internal", Kind("./a.md", "", false))
	assert.Equal(t, "custom", Kind("ftp://x", "ftp", false))
}
