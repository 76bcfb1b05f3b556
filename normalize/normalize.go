// Package normalize applies the one, fixed text transform that every
// later offset in the pipeline is computed against (spec §4.2, I9).
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Text runs Unicode NFC then CRLF->LF then lone-CR->LF, in that order.
// It is idempotent: Text(Text(x)) == Text(x) (P3).
func Text(raw string) string {
	composed := norm.NFC.String(raw)
	composed = strings.ReplaceAll(composed, "\r\n", "\n")
	composed = strings.ReplaceAll(composed, "\r", "\n")
	return composed
}

// Lines splits already-normalized text into its line array, keeping the
// trailing terminator off each entry (content.lines in the snapshot is a
// plain line array; the terminator itself is implied by the join).
func Lines(normalized string) []string {
	if normalized == "" {
		return []string{""}
	}
	return strings.Split(normalized, "\n")
}
