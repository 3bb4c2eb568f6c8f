// Package strings holds small helpers for configured string lists.
package strings

import "strings"

// DedupeAndTrimLower trims and lowercases each value, then drops empties and
// repeats. First occurrence wins, so order is preserved; the router relies on
// that to take the first canonical language as its translation target.
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
