// Package strings cleans string lists posted by clients.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each value and drops empty strings and repeats,
// keeping first occurrences in order. The result is never nil so it encodes
// as [] rather than null.
//
// Example:
//
//	DedupeAndTrim([]string{"", "  Permits ", "Land Acquisition", "Permits"})
//	// Returns: []string{"Permits", "Land Acquisition"}
func DedupeAndTrim(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
