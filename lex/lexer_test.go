package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestWhitespaceAndCommentsOnlyYieldEOF(t *testing.T) {
	toks := New("   \n// a comment\n\t\n", DefaultConfig(), nil).Tokenize()
	assert.Equal(t, []Kind{EOF}, kinds(toks))
}

func TestSimpleStatementTokens(t *testing.T) {
	toks := New(`canvas large fill #1a1a2e`, DefaultConfig(), nil).Tokenize()
	require.True(t, len(toks) >= 4)
	assert.Equal(t, SizeKeyword, toks[1].Kind)
	assert.Equal(t, float64(96), toks[1].Value.Num)
	assert.Equal(t, Color, toks[3].Kind)
	assert.Equal(t, "#1a1a2e", toks[3].Value.Str)
}

func TestIndentDedentBalance(t *testing.T) {
	src := "group\n  rect at 0,0\n  circle\nrow\n"
	toks := New(src, DefaultConfig(), nil).Tokenize()
	var indents, dedents int
	for _, tok := range toks {
		switch tok.Kind {
		case Indent:
			indents++
		case Dedent:
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
	assert.Equal(t, 1, indents)
}

func TestUnterminatedIndentClosedAtEOF(t *testing.T) {
	src := "group\n  rect\n    circle\n"
	toks := New(src, DefaultConfig(), nil).Tokenize()
	var indents, dedents int
	for _, tok := range toks {
		switch tok.Kind {
		case Indent:
			indents++
		case Dedent:
			dedents++
		}
	}
	assert.Equal(t, 2, indents)
	assert.Equal(t, 2, dedents)
}

func TestVarRefToken(t *testing.T) {
	toks := New(`$accent = #ff0`, DefaultConfig(), nil).Tokenize()
	assert.Equal(t, VarRef, toks[0].Kind)
	assert.Equal(t, "accent", toks[0].Value.Str)
	assert.Equal(t, Equals, toks[1].Kind)
}

func TestNumericPair(t *testing.T) {
	toks := New(`rect at 100,100`, DefaultConfig(), nil).Tokenize()
	require.Len(t, toks, 5) // identifier, identifier, pair, newline, eof
	assert.Equal(t, Pair, toks[2].Kind)
	assert.Equal(t, 100.0, toks[2].Value.PairVal.X)
	assert.Equal(t, 100.0, toks[2].Value.PairVal.Y)
}

func TestPercentPair(t *testing.T) {
	toks := New(`size 50%x25%`, DefaultConfig(), nil).Tokenize()
	assert.Equal(t, PercentPair, toks[1].Kind)
	assert.True(t, toks[1].Value.IsPercent)
	assert.Equal(t, 50.0, toks[1].Value.PairVal.X)
	assert.Equal(t, 25.0, toks[1].Value.PairVal.Y)
}

func TestSinglePercent(t *testing.T) {
	toks := New(`opacity 50%`, DefaultConfig(), nil).Tokenize()
	assert.Equal(t, Percent, toks[1].Kind)
	assert.Equal(t, 50.0, toks[1].Value.Num)
}

func TestQuotedStrings(t *testing.T) {
	toks := New(`edge "a" -> "b"`, DefaultConfig(), nil).Tokenize()
	assert.Equal(t, String, toks[1].Kind)
	assert.Equal(t, "a", toks[1].Value.Str)
	assert.Equal(t, Arrow, toks[2].Kind)
	assert.Equal(t, String, toks[3].Kind)
	assert.Equal(t, "b", toks[3].Value.Str)
}

func TestNegativeAndScientificNumbers(t *testing.T) {
	toks := New(`translate -10 1e3`, DefaultConfig(), nil).Tokenize()
	assert.Equal(t, Number, toks[1].Kind)
	assert.Equal(t, -10.0, toks[1].Value.Num)
	assert.Equal(t, Number, toks[2].Kind)
	assert.Equal(t, 1000.0, toks[2].Value.Num)
}

func TestUnknownCharacterSkippedSilently(t *testing.T) {
	toks := New("rect @ at 0,0", DefaultConfig(), nil).Tokenize()
	// '@' contributes no token but does not abort lexing of the rest
	var sawPair bool
	for _, tok := range toks {
		if tok.Kind == Pair {
			sawPair = true
		}
	}
	assert.True(t, sawPair)
}

func TestTokensOrderedBySourcePosition(t *testing.T) {
	toks := New("canvas large\nrect at 0,0\n", DefaultConfig(), nil).Tokenize()
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		assert.True(t, cur.Line > prev.Line || (cur.Line == prev.Line && cur.Col >= prev.Col))
	}
}

func TestDoubleSlashInsideQuotedStringIsNotAComment(t *testing.T) {
	toks := New(`image href="http://example.com/a.png"`, DefaultConfig(), nil).Tokenize()
	require.True(t, len(toks) >= 4)
	assert.Equal(t, Identifier, toks[0].Kind)
	assert.Equal(t, Identifier, toks[1].Kind)
	assert.Equal(t, Equals, toks[2].Kind)
	require.Equal(t, String, toks[3].Kind)
	assert.Equal(t, "http://example.com/a.png", toks[3].Value.Str)
}

func TestTrailingCommentAfterContent(t *testing.T) {
	toks := New("rect at 0,0 // draw the background\ncircle\n", DefaultConfig(), nil).Tokenize()
	var sawCircle bool
	for _, tok := range toks {
		if tok.Kind == Identifier && tok.Value.Str == "circle" {
			sawCircle = true
		}
	}
	assert.True(t, sawCircle, "tokens after a commented-out line must still be lexed")
}
