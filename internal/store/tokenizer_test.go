package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeCodeEmitsJoinedAndSplitTokens(t *testing.T) {
	tokens := TokenizeCode("getUserById")
	assert.Contains(t, tokens, "getuserbyid")
	assert.Contains(t, tokens, "get")
	assert.Contains(t, tokens, "user")
	assert.Contains(t, tokens, "by")
	assert.Contains(t, tokens, "id")
}

func TestTokenizeCodeSnakeCase(t *testing.T) {
	tokens := TokenizeCode("parse_config_file")
	assert.Contains(t, tokens, "parse_config_file")
	assert.Contains(t, tokens, "parse")
	assert.Contains(t, tokens, "config")
	assert.Contains(t, tokens, "file")
}

func TestTokenizeCodeLowercasesASCII(t *testing.T) {
	tokens := TokenizeCode("HTTPClient")
	for _, tok := range tokens {
		assert.Equal(t, tok, toLowerASCII(tok))
	}
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func TestSplitCamelCaseKeepsAcronymsTogether(t *testing.T) {
	parts := SplitCamelCase("parseHTTPRequest")
	assert.Equal(t, []string{"parse", "HTTP", "Request"}, parts)
}
