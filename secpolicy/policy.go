package secpolicy

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/poutila/mdguard/profile"
	"github.com/poutila/mdguard/snapshot"
	"github.com/poutila/mdguard/urlscheme"
)

// Input bundles everything the policy stage needs: the already-sorted
// Structure from the extract package, the normalized lines it was
// built from, and the resolved budgets for the active profile.
type Input struct {
	Budgets           profile.Budgets
	AllowsHTML        bool
	Lines             []string
	Structure         snapshot.Structure
	DupFootnoteLabels int

	// Logger receives one Warn entry per fail-closed or quarantine
	// decision; nil is a valid, silent default.
	Logger *zap.Logger
}

func (in Input) logger() *zap.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return zap.NewNop()
}

// Output is the policy stage's verdict: a possibly-trimmed Structure
// (HTML stripped / unsafe images dropped) plus the metadata fields that
// summarize every check that ran.
type Output struct {
	Structure snapshot.Structure
	Security  snapshot.Security
	Metadata  snapshot.Metadata // partially filled: embedding/quarantine/policies only
}

// Apply runs every ordered check of spec §4.11 exactly once, never
// short-circuiting on an earlier flag, and folds the results into a
// returned Output. A strict-fatal case (script tags, disallowed schemes
// in raw content, any data image with a non-empty payload under strict's
// zero-byte budget) returns its SecurityError at once, and the checks
// after it do not run.
func Apply(in Input) (Output, error) {
	b := in.Budgets
	st := in.Structure
	log := in.logger()
	stats := map[string]interface{}{}
	var warnings []snapshot.Warning
	var policiesApplied []string
	var blockReasons []string
	var quarantineReasons []string

	codeFreeContent := contentExcludingCode(in.Lines, st.CodeBlocks)

	scriptless := ScanScriptless(codeFreeContent)
	stats["has_script"] = scriptless.HasScript
	stats["has_style_scriptless"] = scriptless.HasStyleScriptless
	stats["has_meta_refresh"] = scriptless.HasMetaRefresh
	stats["has_frame_like"] = scriptless.HasFrameLike
	stats["has_event_handlers"] = scriptless.HasEventHandlers

	if scriptless.HasScript {
		if b.Name == profile.Strict {
			log.Warn("security-fatal: script tag present", zap.String("profile", string(b.Name)))
			return Output{}, &SecurityError{Kind: "script", Message: "script tag present", Profile: string(b.Name)}
		}
		blockReasons = append(blockReasons, "script")
		policiesApplied = append(policiesApplied, "embedding_blocked:script")
	}
	if scriptless.HasStyleScriptless {
		blockReasons = append(blockReasons, "style_scriptless")
		policiesApplied = append(policiesApplied, "embedding_blocked:style_scriptless")
	}
	if scriptless.HasMetaRefresh {
		blockReasons = append(blockReasons, "meta_refresh")
		policiesApplied = append(policiesApplied, "embedding_blocked:meta_refresh")
	}
	if scriptless.HasFrameLike {
		blockReasons = append(blockReasons, "frame_like")
		policiesApplied = append(policiesApplied, "embedding_blocked:frame_like")
	}

	// Link/URL policy + path traversal (§4.11 points 4-5) run over both
	// structured links and raw hrefs recovered from scriptless scanning.
	linkSchemes := map[string]int{}
	disallowedRaw := false
	traversal := false

	for _, l := range st.Links {
		if l.Scheme != nil {
			linkSchemes[*l.Scheme]++
		}
		if !l.Allowed {
			disallowedRaw = true
		}
		if HasPathTraversal(l.URL) {
			traversal = true
		}
	}
	for _, href := range scriptless.RawHrefs {
		cls := urlscheme.Classify(href, b.AllowedSchemes)
		if cls.Scheme != "" {
			linkSchemes[cls.Scheme]++
		}
		if !cls.Allowed {
			disallowedRaw = true
		}
		if HasPathTraversal(href) {
			traversal = true
		}
	}

	stats["link_schemes"] = linkSchemes
	stats["link_disallowed_schemes_raw"] = disallowedRaw
	stats["path_traversal_pattern"] = traversal

	if disallowedRaw {
		if b.Name == profile.Strict {
			log.Warn("security-fatal: disallowed URL scheme present", zap.String("profile", string(b.Name)))
			return Output{}, &SecurityError{Kind: "disallowed_scheme", Message: "disallowed URL scheme present", Profile: string(b.Name)}
		}
		blockReasons = append(blockReasons, "disallowed_scheme")
		policiesApplied = append(policiesApplied, "embedding_blocked:disallowed_scheme")
	}
	if traversal {
		warnings = append(warnings, snapshot.Warning{Type: "path_traversal", Message: "path traversal pattern detected in a URL"})
	}

	// Data URI budget (§4.11 point 6 / §4.14).
	var totalDataBytes int
	oversizedSingle := false
	for _, img := range st.Images {
		if img.ImageKind != "data" || img.SizeBytes == nil {
			continue
		}
		totalDataBytes += *img.SizeBytes
		if *img.SizeBytes > b.MaxDataURISize {
			oversizedSingle = true
		}
	}
	cumulativeOver := totalDataBytes > b.MaxTotalDataURISize
	stats["total_data_uri_bytes"] = totalDataBytes
	stats["data_uri_oversized"] = oversizedSingle || cumulativeOver

	if oversizedSingle || cumulativeOver {
		if b.Name == profile.Strict {
			log.Warn("security-fatal: oversized data URI", zap.String("profile", string(b.Name)), zap.Int("total_bytes", totalDataBytes))
			return Output{}, &SecurityError{Kind: "oversized_data_uri", Message: "data URI exceeds the strict profile's zero-byte budget", Profile: string(b.Name)}
		}
		size := totalDataBytes
		warnings = append(warnings, snapshot.Warning{Type: "data_uri_image", Message: "data URI image exceeds profile budget", Size: &size})
		blockReasons = append(blockReasons, "oversized_data_uri")
		policiesApplied = append(policiesApplied, "embedding_blocked:oversized_data_uri")
	}

	// Unicode spoofing (§4.14).
	full := strings.Join(in.Lines, "\n")
	uni := ScanUnicode(full, b.MaxInjectionScanChars)
	stats["has_bidi"] = uni.HasBiDi
	stats["has_confusables"] = uni.HasConfusables
	stats["scan_limit_exceeded"] = uni.ScanLimitExceeded
	stats["unicode_risk_score"] = uni.RiskScore

	// Prompt injection (§4.15).
	window := ScanWindow(normalizeForScan(full), b.MaxInjectionScanChars)
	suspected := HasInjectionSignature(window)
	stats["suspected_prompt_injection"] = suspected

	footnoteInjection := false
	for _, def := range st.Footnotes.Definitions {
		if HasInjectionSignature(ScanWindow(normalizeForScan(def.Content), b.MaxInjectionScanChars)) {
			footnoteInjection = true
			break
		}
	}
	stats["footnote_injection"] = footnoteInjection

	imageInjection := false
	for _, img := range st.Images {
		if HasInjectionSignature(ScanWindow(normalizeForScan(img.Alt), b.MaxInjectionScanChars)) {
			imageInjection = true
			break
		}
	}
	stats["prompt_injection_in_images"] = imageInjection

	if b.QuarantineOnPromptInjection && (suspected || footnoteInjection || imageInjection) {
		quarantineReasons = append(quarantineReasons, "prompt_injection_content")
		log.Warn("quarantine: prompt injection signature detected",
			zap.Bool("body", suspected), zap.Bool("footnote", footnoteInjection), zap.Bool("image_alt", imageInjection))
	}
	if uni.ScanLimitExceeded {
		log.Warn("fail-closed: document exceeds unicode scan ceiling", zap.Int("ceiling_bytes", unicodeFailClosedBytes))
	}

	// Table raggedness (§4.11 point 9).
	ragged := 0
	for _, t := range st.Tables {
		if t.IsRagged {
			ragged++
		}
	}
	stats["ragged_tables_count"] = ragged

	// HTML stripping (§4.11 point 10).
	outStructure := st
	if !in.AllowsHTML {
		if len(st.HTMLBlocks) > 0 {
			policiesApplied = append(policiesApplied, fmt.Sprintf("stripped_html_blocks:%d", len(st.HTMLBlocks)))
			outStructure.HTMLBlocks = nil
		}
		if len(st.HTMLInline) > 0 {
			policiesApplied = append(policiesApplied, fmt.Sprintf("stripped_html_inline:%d", len(st.HTMLInline)))
			outStructure.HTMLInline = nil
		}
	}

	// Data URI dropping (§4.11 point 11): strict only.
	if b.Name == profile.Strict {
		kept := make([]snapshot.Image, 0, len(st.Images))
		dropped := 0
		for _, img := range st.Images {
			if img.ImageKind == "data" {
				dropped++
				continue
			}
			kept = append(kept, img)
		}
		if dropped > 0 {
			outStructure.Images = kept
			policiesApplied = append(policiesApplied, fmt.Sprintf("dropped_%d_unsafe_images", dropped))
		}
	}

	if in.DupFootnoteLabels > 0 {
		stats["duplicate_footnote_labels"] = in.DupFootnoteLabels
	}

	embeddingBlocked := len(blockReasons) > 0
	security := snapshot.Security{
		ProfileUsed: string(b.Name),
		Statistics:  stats,
		Warnings:    warnings,
		Summary: map[string]interface{}{
			"embedding_blocked": embeddingBlocked,
			"quarantined":       len(quarantineReasons) > 0,
		},
	}

	md := snapshot.Metadata{
		Security:                security,
		EmbeddingBlocked:        embeddingBlocked,
		EmbeddingBlockReason:    strings.Join(blockReasons, ","),
		Quarantined:             len(quarantineReasons) > 0,
		QuarantineReasons:       quarantineReasons,
		SecurityPoliciesApplied: policiesApplied,
	}

	return Output{Structure: outStructure, Security: security, Metadata: md}, nil
}

// contentExcludingCode joins lines back into one string with every
// code-block line range blanked out, so the scriptless/href scanners
// never see markup that only exists inside a fenced example.
func contentExcludingCode(lines []string, blocks []snapshot.CodeBlock) string {
	excluded := make([]bool, len(lines))
	for _, b := range blocks {
		for l := b.StartLine; l < b.EndLine && l < len(lines); l++ {
			excluded[l] = true
		}
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if excluded[i] {
			out[i] = ""
		} else {
			out[i] = l
		}
	}
	return strings.Join(out, "\n")
}
