package mdguard

import (
	"go.uber.org/zap"

	"github.com/poutila/mdguard/profile"
)

// Config is the per-call override surface of spec §6's configuration
// matrix. Zero value means "take everything from the resolved profile".
type Config struct {
	// AllowsHTML overrides the profile default when non-nil.
	AllowsHTML *bool

	// Plugins is intersected with the profile's allowed plugin set;
	// names outside that set are recorded, not rejected.
	Plugins []string

	// Preset selects the tokenizer dialect: "commonmark" or
	// "gfm-like" (default).
	Preset string

	// SecurityProfile overrides the profile passed to Parse. An
	// unknown name is a caller error (ValueError-equivalent).
	SecurityProfile profile.Name

	// Logger, when set, receives one Warn entry per fail-closed or
	// quarantine decision the policy stage makes. Nil means silent,
	// the same as omitting it entirely.
	Logger *zap.Logger
}

func (c Config) resolveAllowsHTML(b profile.Budgets) bool {
	if c.AllowsHTML != nil {
		return *c.AllowsHTML
	}
	return b.AllowsHTML
}

// noPluginsSentinel is passed down to mdtoken.New when the caller asked
// for the bare "commonmark" preset and named no plugins explicitly: an
// empty slice there means "use every profile-allowed plugin" (the
// gfm-like default), so a value that matches nothing is used instead to
// mean "use none".
const noPluginsSentinel = "\x00none\x00"

// resolvePlugins intersects the requested plugin list with the profile
// allowlist, returning the allowed subset and the names that were
// dropped for not being recognized. The "commonmark" preset with no
// explicit plugin list disables every extension; any other preset (or
// an explicit list) falls through to mdtoken's own allowlist default.
func (c Config) resolvePlugins(b profile.Budgets) (allowed []string, unknown []string) {
	if c.Preset == "commonmark" && len(c.Plugins) == 0 {
		return []string{noPluginsSentinel}, nil
	}
	for _, p := range c.Plugins {
		if b.AllowedPlugins[p] {
			allowed = append(allowed, p)
		} else {
			unknown = append(unknown, p)
		}
	}
	return allowed, unknown
}
