package mdguard

import (
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// detectedEncoding is the byte-to-text boundary result of spec §6:
// read bytes, detect encoding via BOM sniff, then statistical
// detection with a confidence floor, then fall back to a UTF-8 trial.
type detectedEncoding struct {
	Text       string
	Label      string
	Confidence float64
}

// statisticalConfidenceFloor is the minimum chardet confidence (0-100)
// accepted before falling back to the UTF-8 trial.
const statisticalConfidenceFloor = 50

func detectEncoding(raw []byte) detectedEncoding {
	if label, enc, ok := sniffBOM(raw); ok {
		if enc == nil {
			// UTF-8 BOM: no transcoding needed, just drop the 3 marker bytes.
			return detectedEncoding{Text: string(raw[3:]), Label: label, Confidence: 1.0}
		}
		if text, err := enc.NewDecoder().String(string(raw)); err == nil {
			return detectedEncoding{Text: text, Label: label, Confidence: 1.0}
		}
	}

	if result, err := chardet.NewTextDetector().DetectBest(raw); err == nil && result.Confidence >= statisticalConfidenceFloor {
		if text, ok := decodeAs(raw, result.Charset); ok {
			return detectedEncoding{Text: text, Label: strings.ToLower(result.Charset), Confidence: float64(result.Confidence) / 100}
		}
	}

	// Fail-safe: if the bytes are valid UTF-8 and don't look like a
	// binary blob, trust them outright.
	if utf8.Valid(raw) && !looksBinary(raw) {
		return detectedEncoding{Text: string(raw), Label: "utf-8", Confidence: 1.0}
	}

	// Last resort: force through as UTF-8, replacing invalid sequences,
	// and report a low confidence so callers can see the guess was weak.
	return detectedEncoding{Text: strings.ToValidUTF8(string(raw), "�"), Label: "utf-8", Confidence: 0.0}
}

// sniffBOM reports the label and transcoding encoding.Encoding for a
// byte-order mark at the start of raw. A nil encoding with ok true
// means UTF-8: no transcoding is needed, only the marker bytes need
// dropping.
func sniffBOM(raw []byte) (label string, enc encoding.Encoding, ok bool) {
	switch {
	case len(raw) >= 3 && raw[0] == 0xEF && raw[1] == 0xBB && raw[2] == 0xBF:
		return "utf-8", nil, true
	case len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xFE:
		return "utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), true
	case len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF:
		return "utf-16be", unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), true
	default:
		return "", nil, false
	}
}

// decodeAs transcodes raw through whatever encoding chardet's charset
// label resolves to via golang.org/x/text's WHATWG encoding index,
// which covers the single-byte (windows-1252, iso-8859-*, koi8-r, ...)
// and multi-byte (shift_jis, euc-jp, gb18030, big5, ...) charsets
// chardet can report. A label it doesn't recognize, or a decode that
// fails outright, defers to the UTF-8 trial so a bad guess can't
// silently corrupt content.
func decodeAs(raw []byte, charset string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(charset))
	if norm == "utf-8" || norm == "ascii" || norm == "us-ascii" {
		if utf8.Valid(raw) {
			return string(raw), true
		}
		return "", false
	}

	enc, err := htmlindex.Get(norm)
	if err != nil {
		return "", false
	}
	text, err := enc.NewDecoder().String(string(raw))
	if err != nil {
		return "", false
	}
	return text, true
}

// looksBinary rejects a byte slice that is technically valid UTF-8 but
// carries enough NUL/control bytes to be obviously non-text, matching
// the sanity check spec §6 asks for ("no excessive control characters").
func looksBinary(raw []byte) bool {
	if len(raw) == 0 {
		return false
	}
	control := 0
	for _, b := range raw {
		if b == 0 {
			return true
		}
		if b < 0x09 || (b > 0x0D && b < 0x20) {
			control++
		}
	}
	return float64(control)/float64(len(raw)) > 0.3
}
