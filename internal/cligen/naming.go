package cligen

import (
	"strings"
	"unicode"
)

// kebabCase turns an operationId or tag into a command name:
// "getPetById" -> "get-pet-by-id", "getAPIKey" -> "get-api-key",
// "get /pet/{petId}" -> "get-pet-pet-id".
func kebabCase(s string) string {
	return strings.Join(words(s), "-")
}

// words splits s on anything that is not an ASCII letter or digit, on
// lower-to-upper boundaries and before the last capital of an acronym run.
func words(s string) []string {
	rs := []rune(strings.TrimSpace(s))

	var (
		out []string
		cur []rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range rs {
		if !isWordRune(r) {
			flush()
			continue
		}
		if isUpper(r) && len(cur) > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && isLower(rs[i+1])
			if !isUpper(prev) || nextLower {
				flush()
			}
		}
		cur = append(cur, unicode.ToLower(r))
	}
	flush()
	return out
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

// Non-ASCII letters separate words too, keeping names ASCII.
func isWordRune(r rune) bool { return isUpper(r) || isLower(r) || (r >= '0' && r <= '9') }
