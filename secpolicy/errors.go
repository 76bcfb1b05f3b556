package secpolicy

import "fmt"

// SecurityError is raised only under the strict profile, during
// construction, before the snapshot is emitted (spec §4.11, §7).
type SecurityError struct {
	Kind    string // "script", "disallowed_scheme", "oversized_data_uri", ...
	Message string
	Profile string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security: %s (%s)", e.Kind, e.Message)
}
