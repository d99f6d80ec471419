package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenType
	}{
		{"select", SELECT},
		{"integer", INTEGER},
		{"nulls", NULLS},
		{"int4", IDENT},
		{"SELECT", IDENT}, // lookup expects down-cased input
		{"", IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupKeyword(tt.ident))
		})
	}
}

func TestEveryKeywordRoundTrips(t *testing.T) {
	for tok := keywordStart + 1; tok < keywordEnd; tok++ {
		def, ok := keywordDefs[tok]
		if !assert.True(t, ok, "keyword %d has no definition", tok) {
			continue
		}
		assert.Equal(t, tok, LookupKeyword(def.name))
		assert.True(t, IsKeyword(tok))
		assert.NotEqual(t, NotKeyword, CategoryOf(tok))
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "::", TYPECAST.String())
	assert.Equal(t, "EOF", EOF.String())
	assert.Equal(t, "TOKEN(-1)", TokenType(-1).String())
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, Reserved, CategoryOf(SELECT))
	assert.Equal(t, Unreserved, CategoryOf(FIRST))
	assert.Equal(t, ColName, CategoryOf(INTEGER))
	assert.Equal(t, TypeFuncName, CategoryOf(LEFT))
	assert.Equal(t, NotKeyword, CategoryOf(IDENT))
	assert.False(t, IsKeyword(IDENT))
}

func TestPositionLocation(t *testing.T) {
	assert.Equal(t, -1, Position{}.Location())
	assert.Equal(t, 7, Position{Offset: 7, Line: 1, Column: 8}.Location())
}
