// Package frontmatter implements the strict, BOF-only YAML block
// extractor of spec §4.3. It never mutates the body except to insert a
// single blank line where that's required to stop a stripped title line
// colliding with a Setext heading.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrorTag enumerates the frontmatter_error values spec §3 allows.
type ErrorTag string

const (
	ErrUnterminated      ErrorTag = "unterminated"
	ErrYAMLParse         ErrorTag = "yaml_parse_error"
	ErrYAMLUnavailable   ErrorTag = "yaml_library_not_available"
	ErrMidFileFence      ErrorTag = "mid_file_fence"
)

// Result is what Extract hands back to the caller.
type Result struct {
	Data    map[string]any // nil if no frontmatter was found
	Body    string         // body text, with the BOF block stripped if found
	Has     bool
	ErrTag  ErrorTag // zero value when Has is true or nothing looked like frontmatter
	ErrText string   // underlying yaml parser message, when ErrTag == ErrYAMLParse
}

const fence = "---"

// Extract scans already-normalized text for a strict opening/closing
// `---` fence starting at offset 0 (at most one leading blank line, and
// at most one leading UTF-8 BOM, tolerated before it).
func Extract(normalized string) Result {
	text := strings.TrimPrefix(normalized, "﻿")
	lines := strings.Split(text, "\n")

	start := 0
	if start < len(lines) && lines[start] == "" {
		start++
	}
	if start >= len(lines) || lines[start] != fence {
		if midFileFenceExists(lines) {
			return Result{Has: false, Body: normalized, ErrTag: ErrMidFileFence}
		}
		return Result{Has: false, Body: normalized}
	}

	closeIdx := -1
	for i := start + 1; i < len(lines); i++ {
		if lines[i] == fence {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 {
		return Result{Has: false, Body: normalized, ErrTag: ErrUnterminated}
	}

	block := strings.Join(lines[start+1:closeIdx], "\n")

	var data map[string]any
	if err := yaml.Unmarshal([]byte(block), &data); err != nil {
		return Result{Has: false, Body: normalized, ErrTag: ErrYAMLParse, ErrText: err.Error()}
	}

	rest := lines[closeIdx+1:]
	rest = avoidSetextCollision(rest)
	body := strings.Join(rest, "\n")

	return Result{Data: data, Body: body, Has: true}
}

// midFileFenceExists reports a `---\n...\n---\n` block that begins after
// the document's first non-blank line — the mid_file_fence case, which
// must never populate metadata.frontmatter (P10).
func midFileFenceExists(lines []string) bool {
	sawContent := false
	for i := 0; i < len(lines); i++ {
		if lines[i] == fence {
			if !sawContent {
				continue
			}
			for j := i + 1; j < len(lines); j++ {
				if lines[j] == fence {
					return true
				}
			}
			return false
		}
		if strings.TrimSpace(lines[i]) != "" {
			sawContent = true
		}
	}
	return false
}

// avoidSetextCollision inserts a blank line when the stripped body would
// start with a single non-blank line immediately followed by `---`,
// which markdown would otherwise reinterpret as a Setext H2.
func avoidSetextCollision(rest []string) []string {
	if len(rest) >= 2 && strings.TrimSpace(rest[0]) != "" && rest[1] == fence {
		out := make([]string, 0, len(rest)+1)
		out = append(out, rest[0], "")
		out = append(out, rest[1:]...)
		return out
	}
	return rest
}
