package snapshot

import "encoding/json"

// Marshal serializes a Snapshot to compact, deterministic JSON (spec
// §4.16 / I10): struct fields serialize in declared order because Go's
// encoding/json walks them in source order, and the map-typed leaves
// (frontmatter, statistics, summary, line_to_type) serialize with their
// keys sorted, so byte-identical input always yields byte-identical
// output under the same profile and config (P2).
func Marshal(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// MarshalIndent is Marshal with two-space indentation, still LF-only
// (encoding/json never emits CR) and with no trailing whitespace.
func MarshalIndent(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
