package store

import "strings"

const (
	// MaxTagLength is the longest accepted tag after normalization.
	MaxTagLength = 32
	// MaxTagsPerNote caps how many distinct tags a note may carry.
	MaxTagsPerNote = 10
)

// NormalizeTag trims surrounding whitespace and lowercases. An empty result
// means the tag should be silently dropped from list inputs.
func NormalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizeTagList normalizes every entry, drops the ones that normalize to
// empty, and deduplicates while preserving first-occurrence order.
func normalizeTagList(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		tag := NormalizeTag(r)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
