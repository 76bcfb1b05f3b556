package secpolicy

// unicodeFailClosedBytes is the fixed 100 KiB ceiling of spec §4.14,
// independent of the active profile's content budget.
const unicodeFailClosedBytes = 100 * 1024

// UnicodeScan is the result of §4.14's spoofing detector.
type UnicodeScan struct {
	HasBiDi           bool
	HasConfusables    bool
	ZeroWidthCount    int
	InvisibleCount    int
	ScanLimitExceeded bool
	RiskScore         int
}

// bidiControls are the explicit override/isolate ranges named in the
// spec: U+202A-U+202E (embeddings/overrides) and U+2066-U+2069
// (isolates).
func isBiDiControl(r rune) bool {
	return (r >= 0x202A && r <= 0x202E) || (r >= 0x2066 && r <= 0x2069)
}

// confusables is a small, explicit category-mapping table (not an
// exhaustive Unicode confusables database, which is out of scope for
// this detector): Cyrillic/Greek look-alikes for common Latin letters,
// the case named directly in the spec example.
var confusables = map[rune]bool{
	'а': true, // CYRILLIC SMALL LETTER A U+0430
	'е': true, // CYRILLIC SMALL LETTER IE U+0435
	'о': true, // CYRILLIC SMALL LETTER O U+043E
	'р': true, // CYRILLIC SMALL LETTER ER U+0440
	'с': true, // CYRILLIC SMALL LETTER ES U+0441
	'х': true, // CYRILLIC SMALL LETTER HA U+0445
	'і': true, // CYRILLIC SMALL LETTER BYELORUSSIAN-UKRAINIAN I U+0456
	'А': true, // CYRILLIC CAPITAL LETTER A U+0410
	'Ѕ': true, // CYRILLIC CAPITAL LETTER DZE U+0405
	'ο': true, // GREEK SMALL LETTER OMICRON U+03BF
	'Α': true, // GREEK CAPITAL LETTER ALPHA U+0391
}

func isZeroWidth(r rune) bool {
	switch r {
	case 0x200B, 0x200C, 0x200D, 0xFEFF:
		return true
	}
	return false
}

func isInvisible(r rune) bool {
	switch r {
	case 0x00AD, 0x2060, 0x180E:
		return true
	}
	return false
}

// ScanUnicode scans at most window runes of normalized text. When the
// full document exceeds unicodeFailClosedBytes it fails closed per
// §4.14/P9: both detection booleans are forced true rather than
// silently under-reporting on inputs too large to scan in full.
func ScanUnicode(normalized string, window int) UnicodeScan {
	var out UnicodeScan
	if len(normalized) > unicodeFailClosedBytes {
		out.HasBiDi = true
		out.HasConfusables = true
		out.ScanLimitExceeded = true
		out.RiskScore = 2
		return out
	}

	count := 0
	for _, r := range normalized {
		if count >= window {
			break
		}
		count++
		switch {
		case isBiDiControl(r):
			out.HasBiDi = true
		case confusables[r]:
			out.HasConfusables = true
		case isZeroWidth(r):
			out.ZeroWidthCount++
		case isInvisible(r):
			out.InvisibleCount++
		}
	}

	if out.HasBiDi {
		out.RiskScore++
	}
	if out.HasConfusables {
		out.RiskScore++
	}
	if out.ZeroWidthCount > 0 {
		out.RiskScore++
	}
	if out.InvisibleCount > 0 {
		out.RiskScore++
	}
	return out
}
