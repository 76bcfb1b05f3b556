package mdguard

import (
	"fmt"

	"github.com/poutila/mdguard/secpolicy"
)

// SizeError is raised by stage 1's pre-parse guard, before any
// tokenization happens (spec §4.11 point 1, §7).
type SizeError struct {
	Kind  string // "bytes" or "lines"
	Limit int
	Found int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("mdguard: %s budget exceeded: limit %d, found %d", e.Kind, e.Limit, e.Found)
}

// SecurityError is the strict-fatal error kind raised during
// construction, before any snapshot is emitted. It is a type alias for
// the security package's own error so callers can type-assert on
// either import path.
type SecurityError = secpolicy.SecurityError

// ValueError reports a caller error: an unrecognized profile name or an
// unrecognized security_profile override (spec §6's config matrix).
type ValueError struct {
	Message string
}

func (e *ValueError) Error() string { return "mdguard: " + e.Message }
