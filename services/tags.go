package services

import "strings"

// NormalizeTag maps a raw tag to its canonical stored form. The same function is
// used when writing tags and when filtering by them.
func NormalizeTag(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// canonicalTags normalizes names and drops repeats, keeping first-seen order.
func canonicalTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		name := NormalizeTag(r)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
