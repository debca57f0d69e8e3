package token_test

import (
	"testing"

	"github.com/agildata/zeroproxy/dialect/mysql"
	"github.com/agildata/zeroproxy/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSimpleSelect(t *testing.T) {
	d := mysql.New()
	tokens, reg, err := token.Tokenize("SELECT id FROM users WHERE id = 1", d)
	require.NoError(t, err)

	var kinds []token.Kind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, token.Keyword)
	assert.Contains(t, kinds, token.Identifier)
	assert.Contains(t, kinds, token.Literal)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, "1", reg.Get(0))
}

func TestTokenizeLiteralsShareShapeAcrossValues(t *testing.T) {
	d := mysql.New()
	t1, reg1, err := token.Tokenize("SELECT * FROM t WHERE x = 1", d)
	require.NoError(t, err)
	t2, reg2, err := token.Tokenize("SELECT * FROM t WHERE x = 999999", d)
	require.NoError(t, err)

	require.Equal(t, len(t1), len(t2))
	for i := range t1 {
		assert.Equal(t, t1[i].Kind, t2[i].Kind, "token %d kind mismatch", i)
	}
	assert.Equal(t, "1", reg1.Get(0))
	assert.Equal(t, "999999", reg2.Get(0))
}

func TestTokenizeBacktickIdentifier(t *testing.T) {
	d := mysql.New()
	tokens, _, err := token.Tokenize("SELECT `order` FROM t", d)
	require.NoError(t, err)
	require.True(t, len(tokens) > 2)
	assert.Equal(t, token.Identifier, tokens[1].Kind)
	assert.Equal(t, "order", tokens[1].Text)
}

func TestTokenizeStringEscapes(t *testing.T) {
	d := mysql.New()
	tokens, reg, err := token.Tokenize(`SELECT 'it''s' FROM t`, d)
	require.NoError(t, err)
	require.Equal(t, token.Literal, tokens[1].Kind)
	assert.Equal(t, "it's", reg.Get(tokens[1].LiteralIndex))
}

func TestTokenizeBoolAndNullLiterals(t *testing.T) {
	d := mysql.New()
	tokens, _, err := token.Tokenize("SELECT TRUE, FALSE, NULL", d)
	require.NoError(t, err)

	var litKinds []token.LiteralKind
	for _, tok := range tokens {
		if tok.Kind == token.Literal {
			litKinds = append(litKinds, tok.LiteralKind)
		}
	}
	assert.Equal(t, []token.LiteralKind{token.LiteralBool, token.LiteralBool, token.LiteralNull}, litKinds)
}

func TestTokenizeBackslashIsLiteralExceptBeforeQuote(t *testing.T) {
	d := mysql.New()
	tokens, reg, err := token.Tokenize(`SELECT 'a\nb\'c' FROM t`, d)
	require.NoError(t, err)
	require.Equal(t, token.Literal, tokens[1].Kind)
	assert.Equal(t, `a\nb'c`, reg.Get(tokens[1].LiteralIndex))
}

func TestTokenizeRejectsUnterminatedString(t *testing.T) {
	d := mysql.New()
	_, _, err := token.Tokenize("SELECT 'abc", d)
	require.Error(t, err)
}
