package store

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// TokenizeCode splits text into lowercase tokens for lexical indexing. Each
// alphanumeric run is lowercased and emitted whole, then also split on
// snake_case/camelCase boundaries and those parts emitted too, so a search
// for "user" matches both "getUserById" and "get_user_by_id". No stemming
// is applied.
func TokenizeCode(text string) []string {
	var tokens []string
	for _, word := range tokenRegex.FindAllString(text, -1) {
		lower := strings.ToLower(word)
		tokens = append(tokens, lower)

		parts := SplitCodeToken(word)
		if len(parts) <= 1 {
			continue
		}
		for _, p := range parts {
			if pl := strings.ToLower(p); pl != "" && pl != lower {
				tokens = append(tokens, pl)
			}
		}
	}
	return tokens
}

// SplitCodeToken splits one identifier on underscores, then camelCase
// boundaries within each underscore-delimited part.
func SplitCodeToken(token string) []string {
	if strings.Contains(token, "_") {
		var result []string
		for _, part := range strings.Split(token, "_") {
			if part != "" {
				result = append(result, SplitCamelCase(part)...)
			}
		}
		return result
	}
	return SplitCamelCase(token)
}

// SplitCamelCase splits a camelCase or PascalCase identifier into its
// constituent words, keeping runs of uppercase letters (acronyms) together:
// "parseHTTPRequest" -> ["parse", "HTTP", "Request"].
func SplitCamelCase(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	var current strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				if current.Len() > 0 {
					result = append(result, current.String())
					current.Reset()
				}
			}
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}
