// Package mdguard parses Markdown into a deterministic, security-audited
// snapshot (see SPEC_FULL.md for the full module contract). One call to
// Parse or ParseFile is one synchronous, single-threaded pass: tokenize,
// extract, apply security policy, assemble.
package mdguard

import (
	"os"
	"strings"

	"github.com/poutila/mdguard/extract"
	"github.com/poutila/mdguard/frontmatter"
	"github.com/poutila/mdguard/mdtoken"
	"github.com/poutila/mdguard/normalize"
	"github.com/poutila/mdguard/profile"
	"github.com/poutila/mdguard/secpolicy"
	"github.com/poutila/mdguard/snapshot"
)

// Parse runs the full pipeline over raw_text under the named profile.
// It returns a *SizeError if the pre-parse guard is breached, a
// *SecurityError if a strict-fatal condition is found during
// construction, or a *ValueError for an unrecognized profile/override.
func Parse(rawText string, profileName profile.Name, cfg Config) (snapshot.Snapshot, error) {
	if cfg.SecurityProfile != "" {
		profileName = cfg.SecurityProfile
	}
	budgets, err := profile.Resolve(profileName)
	if err != nil {
		return snapshot.Snapshot{}, &ValueError{Message: err.Error()}
	}

	if err := checkSize(rawText, budgets); err != nil {
		return snapshot.Snapshot{}, err
	}

	normalized := normalize.Text(rawText)
	fm := frontmatter.Extract(normalized)
	lines := normalize.Lines(fm.Body)

	allowsHTML := cfg.resolveAllowsHTML(budgets)
	plugins, unknownPlugins := cfg.resolvePlugins(budgets)

	stream := mdtoken.New([]byte(fm.Body), budgets, plugins, allowsHTML)
	extracted := extract.All(stream, lines, budgets.AllowedSchemes)

	policyOut, err := secpolicy.Apply(secpolicy.Input{
		Budgets:           budgets,
		AllowsHTML:        allowsHTML,
		Lines:             lines,
		Structure:         extracted.Structure,
		DupFootnoteLabels: extracted.DupFootnoteLabels,
		Logger:            cfg.Logger,
	})
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	if len(unknownPlugins) > 0 {
		policyOut.Security.Statistics["unknown_plugins"] = unknownPlugins
	}

	md := policyOut.Metadata
	md.Frontmatter = fm.Data
	md.HasFrontmatter = fm.Has
	if fm.ErrTag != "" {
		md.FrontmatterError = string(fm.ErrTag)
	}

	return snapshot.Snapshot{
		Metadata:  md,
		Content:   snapshot.Content{Raw: fm.Body, Lines: lines},
		Structure: policyOut.Structure,
		Mappings:  extract.Mappings(lines, policyOut.Structure.CodeBlocks),
	}, nil
}

// ParseFile reads path, detects its encoding, and parses the decoded
// text. The detected label/confidence land in metadata.encoding.
func ParseFile(path string, profileName profile.Name, cfg Config) (snapshot.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	enc := detectEncoding(raw)
	snap, err := Parse(enc.Text, profileName, cfg)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	snap.Metadata.Encoding = &snapshot.Encoding{Detected: enc.Label, Confidence: enc.Confidence}
	snap.Metadata.SourcePath = path
	return snap, nil
}

// checkSize enforces the pre-parse guard of spec §4.11 point 1: text
// byte length and line count, checked before any tokenization.
func checkSize(rawText string, b profile.Budgets) error {
	if n := len(rawText); n > b.MaxContentBytes {
		return &SizeError{Kind: "bytes", Limit: b.MaxContentBytes, Found: n}
	}
	if n := strings.Count(rawText, "\n") + 1; n > b.MaxLines {
		return &SizeError{Kind: "lines", Limit: b.MaxLines, Found: n}
	}
	return nil
}
