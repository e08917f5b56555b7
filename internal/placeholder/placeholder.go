// Package placeholder expands ${env.KEY} placeholders.
package placeholder

import (
	"os"
	"strings"
	"unicode"
)

const prefix = "${env."

// Expand replaces every ${env.KEY} in value with the KEY environment
// variable, or "" when unset. Placeholders with a key that is not made of
// letters, digits and '_' are left as-is; an unterminated placeholder ends
// expansion.
func Expand(value string) string {
	return ExpandWith(value, os.Getenv)
}

// ExpandWith expands placeholders using lookup.
func ExpandWith(value string, lookup func(key string) string) string {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], prefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		startKey := i + idx + len(prefix)

		endKey := strings.IndexByte(value[startKey:], '}')
		if endKey < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[startKey : startKey+endKey]
		if !isKey(key) {
			// keep the prefix literal and rescan the remainder for nested placeholders
			b.WriteString(value[i+idx : startKey])
			i = startKey
			continue
		}
		if key != "" {
			b.WriteString(lookup(key))
		}
		i = startKey + endKey + 1
	}
	return b.String()
}

func isKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
