package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btouchard/condor/internal/token"
)

func TestLookupIdent(t *testing.T) {
	assert.Equal(t, token.VAR, token.LookupIdent("var"))
	assert.Equal(t, token.FUNC, token.LookupIdent("func"))
	assert.Equal(t, token.INT_TYPE, token.LookupIdent("int"))
	assert.Equal(t, token.IDENT, token.LookupIdent("notAKeyword"))
}

func TestIsTypeKeyword(t *testing.T) {
	assert.True(t, token.IsTypeKeyword(token.INT_TYPE))
	assert.True(t, token.IsTypeKeyword(token.VOID_TYPE))
	assert.False(t, token.IsTypeKeyword(token.IDENT))
	assert.False(t, token.IsTypeKeyword(token.INT))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, token.IsNumeric(token.INT))
	assert.True(t, token.IsNumeric(token.DOUBLE_TYPE))
	assert.False(t, token.IsNumeric(token.STRING))
	assert.False(t, token.IsNumeric(token.BOOL_TYPE))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, token.INT_TYPE, token.Canonical(token.INT))
	assert.Equal(t, token.FLOAT_TYPE, token.Canonical(token.FLOAT))
	assert.Equal(t, token.DOUBLE_TYPE, token.Canonical(token.DOUBLE))
	assert.Equal(t, token.BOOL_TYPE, token.Canonical(token.TRUE))
	assert.Equal(t, token.BOOL_TYPE, token.Canonical(token.FALSE))
	assert.Equal(t, token.CHAR_TYPE, token.Canonical(token.CHAR))
	assert.Equal(t, token.STRING_TYPE, token.Canonical(token.STRING))

	// Already-canonical and unrelated kinds pass through unchanged.
	assert.Equal(t, token.INT_TYPE, token.Canonical(token.INT_TYPE))
	assert.Equal(t, token.LPAREN, token.Canonical(token.LPAREN))
}

func TestPositionString(t *testing.T) {
	pos := token.Position{Line: 3, Column: 7, Offset: 42}
	assert.Equal(t, "3:7", pos.String())
}
