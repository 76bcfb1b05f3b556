package mdguard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poutila/mdguard/profile"
)

func TestDetectEncoding_UTF8WithoutBOM(t *testing.T) {
	got := detectEncoding([]byte("Hello, world!"))
	assert.Equal(t, "Hello, world!", got.Text)
	assert.Equal(t, "utf-8", got.Label)
	assert.True(t, got.Confidence > 0)
}

func TestDetectEncoding_UTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Hello, world!")...)
	got := detectEncoding(data)
	assert.Equal(t, "Hello, world!", got.Text)
	assert.Equal(t, "utf-8", got.Label)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestDetectEncoding_UTF16LEWithBOM(t *testing.T) {
	// "Hello" encoded as UTF-16LE with a leading FF FE BOM.
	data := []byte{0xFF, 0xFE, 'H', 0, 'e', 0, 'l', 0, 'l', 0, 'o', 0}
	got := detectEncoding(data)
	assert.Contains(t, got.Text, "Hello")
	assert.Equal(t, "utf-16le", got.Label)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestDetectEncoding_UTF16BEWithBOM(t *testing.T) {
	// "Hello" encoded as UTF-16BE with a leading FE FF BOM.
	data := []byte{0xFE, 0xFF, 0, 'H', 0, 'e', 0, 'l', 0, 'l', 0, 'o'}
	got := detectEncoding(data)
	assert.Contains(t, got.Text, "Hello")
	assert.Equal(t, "utf-16be", got.Label)
	assert.Equal(t, 1.0, got.Confidence)
}

func TestDetectEncoding_Latin1Text(t *testing.T) {
	// "café" with the trailing e-acute as a raw Latin-1 (ISO-8859-1) byte.
	data := []byte{'c', 'a', 'f', 0xE9}
	got := detectEncoding(data)
	assert.Contains(t, got.Text, "caf")
	assert.True(t, got.Confidence >= 0)
}

func TestDetectEncoding_EmptyBytes(t *testing.T) {
	got := detectEncoding(nil)
	assert.Equal(t, "", got.Text)
}

func TestDetectEncoding_PureASCII(t *testing.T) {
	got := detectEncoding([]byte("Just ASCII text 12345"))
	assert.Equal(t, "Just ASCII text 12345", got.Text)
}

func TestDecodeAs_UnknownCharsetFallsThrough(t *testing.T) {
	_, ok := decodeAs([]byte("x"), "not-a-real-charset")
	assert.False(t, ok)
}

func TestDecodeAs_Windows1252(t *testing.T) {
	// 0x93/0x94 are curly quotes in windows-1252, invalid as UTF-8.
	data := []byte{0x93, 'h', 'i', 0x94}
	text, ok := decodeAs(data, "windows-1252")
	require.True(t, ok)
	assert.Contains(t, text, "hi")
}

func TestParseFile_UTF16LEWithBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	body := []byte{0xFF, 0xFE}
	// UTF-16LE-encode "# Hello\n" by hand: ASCII code points zero-extended.
	for _, r := range "# Hello\n" {
		body = append(body, byte(r), 0)
	}
	require.NoError(t, os.WriteFile(path, body, 0o600))

	snap, err := ParseFile(path, profile.Moderate, Config{})
	require.NoError(t, err)
	require.NotNil(t, snap.Metadata.Encoding)
	assert.Equal(t, "utf-16le", snap.Metadata.Encoding.Detected)
	assert.Equal(t, 1.0, snap.Metadata.Encoding.Confidence)
	require.Len(t, snap.Structure.Sections, 1)
	assert.Equal(t, "Hello", snap.Structure.Sections[0].Title)
}

func TestParseFile_UTF8PlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Hello\n\nWorld\n"), 0o600))

	snap, err := ParseFile(path, profile.Moderate, Config{})
	require.NoError(t, err)
	require.NotNil(t, snap.Metadata.Encoding)
	assert.Equal(t, "utf-8", snap.Metadata.Encoding.Detected)
	assert.Equal(t, path, snap.Metadata.SourcePath)
}
