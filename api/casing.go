package api

import (
	"strings"
	"unicode"
)

// camelCase converts snake_case or kebab-case keys ("time_zone", "pref-lang")
// to camelCase ("timeZone", "prefLang").
func camelCase(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	if len(parts) <= 1 {
		return key
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// snakeCase converts camelCase keys ("timeZone") to snake_case ("time_zone").
func snakeCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// convertKeys rewrites map keys recursively with fn.
func convertKeys(value interface{}, fn func(string) string) interface{} {
	switch actual := value.(type) {
	case map[string]interface{}:
		ret := make(map[string]interface{}, len(actual))
		for k, v := range actual {
			ret[fn(k)] = convertKeys(v, fn)
		}
		return ret
	case []interface{}:
		ret := make([]interface{}, len(actual))
		for i, v := range actual {
			ret[i] = convertKeys(v, fn)
		}
		return ret
	}
	return value
}

func camelCaseValues(values map[string]interface{}) Values {
	ret := make(Values, len(values))
	for k, v := range values {
		ret[camelCase(k)] = convertKeys(v, camelCase)
	}
	return ret
}

func snakeCaseValues(values map[string]interface{}) map[string]interface{} {
	ret := make(map[string]interface{}, len(values))
	for k, v := range values {
		ret[snakeCase(k)] = convertKeys(v, snakeCase)
	}
	return ret
}
