// Package strings holds small string-list helpers for configuration parsing.
package strings

import (
	"strings"
)

// SplitList splits raw on sep, trims each item and drops blanks and repeats.
// Order of first occurrence is kept. An empty raw yields nil.
//
//	SplitList(" a:9092, b:9092,,a:9092 ", ",") // []string{"a:9092", "b:9092"}
func SplitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
