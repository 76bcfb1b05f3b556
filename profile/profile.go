// Package profile is the single source of truth for the security budgets
// and scheme allowlists bound to each named profile. Callers never
// hardcode a limit; they ask the profile for it.
package profile

import "fmt"

// Name identifies one of the three security profiles.
type Name string

const (
	Strict     Name = "strict"
	Moderate   Name = "moderate"
	Permissive Name = "permissive"
)

// Budgets is the resolved, immutable bundle of numeric limits and
// allowlists for one profile. Built once per call, never mutated.
type Budgets struct {
	Name Name

	MaxContentBytes      int
	MaxLines             int
	MaxRecursionDepth    int
	MaxDataURISize       int
	MaxTotalDataURISize  int
	MaxInjectionScanChars int

	AllowedSchemes map[string]bool
	AllowedPlugins map[string]bool
	AllowsHTML     bool

	// QuarantineOnPromptInjection mirrors the strict profile's policy of
	// quarantining on any detected prompt injection signature.
	QuarantineOnPromptInjection bool
}

const unicodeScanCeilingBytes = 100 * 1024

// UnicodeScanCeilingBytes is the fixed byte ceiling past which the
// Unicode spoofing detector fails closed, independent of profile (P9).
func UnicodeScanCeilingBytes() int { return unicodeScanCeilingBytes }

func allowedSet(schemes ...string) map[string]bool {
	m := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		m[s] = true
	}
	return m
}

func pluginSet(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// Resolve returns the concrete budgets for a named profile, or an error
// if the name is not one of strict/moderate/permissive.
func Resolve(name Name) (Budgets, error) {
	switch name {
	case Strict:
		return Budgets{
			Name:                  Strict,
			MaxContentBytes:       100 * 1024,
			MaxLines:              20000,
			MaxRecursionDepth:     32,
			MaxDataURISize:        0,
			MaxTotalDataURISize:   0,
			MaxInjectionScanChars: 4096,
			AllowedSchemes:        allowedSet("http", "https", "mailto"),
			AllowedPlugins:        pluginSet("table", "tasklist"),
			AllowsHTML:            false,
			QuarantineOnPromptInjection: true,
		}, nil
	case Moderate:
		return Budgets{
			Name:                  Moderate,
			MaxContentBytes:       1024 * 1024,
			MaxLines:              100000,
			MaxRecursionDepth:     64,
			MaxDataURISize:        64 * 1024,
			MaxTotalDataURISize:   640 * 1024,
			MaxInjectionScanChars: 2048,
			AllowedSchemes:        allowedSet("http", "https", "mailto", "tel"),
			AllowedPlugins:        pluginSet("table", "tasklist", "strikethrough", "linkify", "footnote", "math"),
			AllowsHTML:            true,
			QuarantineOnPromptInjection: false,
		}, nil
	case Permissive:
		return Budgets{
			Name:                  Permissive,
			MaxContentBytes:       10 * 1024 * 1024,
			MaxLines:              1000000,
			MaxRecursionDepth:     128,
			MaxDataURISize:        512 * 1024,
			MaxTotalDataURISize:   5 * 1024 * 1024,
			MaxInjectionScanChars: 1024,
			AllowedSchemes:        allowedSet("http", "https", "mailto", "tel", "ftp"),
			AllowedPlugins:        pluginSet("table", "tasklist", "strikethrough", "linkify", "footnote", "math"),
			AllowsHTML:            true,
			QuarantineOnPromptInjection: false,
		}, nil
	default:
		return Budgets{}, fmt.Errorf("profile: unknown security profile %q", name)
	}
}

// MaxDataURISize is a thin lookup helper mirroring spec §4.1/P4: callers
// that only need the single number don't have to resolve the full bundle.
func MaxDataURISize(name Name) (int, error) {
	b, err := Resolve(name)
	if err != nil {
		return 0, err
	}
	return b.MaxDataURISize, nil
}

// MaxInjectionScanChars mirrors MaxDataURISize for the scan-window budget.
func MaxInjectionScanChars(name Name) (int, error) {
	b, err := Resolve(name)
	if err != nil {
		return 0, err
	}
	return b.MaxInjectionScanChars, nil
}
