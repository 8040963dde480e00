package parse

import (
	"scenelang/ast"
	"scenelang/diag"
	"scenelang/lex"
)

// parseValue consumes one token (or, for points lists, one bracketed
// group) and returns its Value. Percent and number tokens stay scalar
// here; parseDimension is the entry point that turns them into a
// Dimension for layout contexts.
func (p *Parser) parseValue() ast.Value {
	tok := p.peek()
	switch tok.Kind {
	case lex.VarRef:
		p.advance()
		return ast.VarRefValue(tok.Value.Str, diag.Pos{Line: tok.Line, Col: tok.Col})
	case lex.Color, lex.String, lex.Identifier:
		p.advance()
		return ast.StringValue(tok.Value.Str)
	case lex.Number:
		p.advance()
		return ast.NumberValue(tok.Value.Num)
	case lex.Percent:
		p.advance()
		return ast.NumberValue(tok.Value.Num)
	case lex.Pair:
		p.advance()
		return ast.PairValue(tok.Value.PairVal.X, tok.Value.PairVal.Y)
	case lex.PercentPair:
		p.advance()
		return ast.PercentPairValue(tok.Value.PairVal.X, tok.Value.PairVal.Y)
	case lex.BracketOpen:
		return p.parsePoints()
	default:
		p.advance()
		return ast.NoneValue
	}
}

// parsePoints parses a bracketed list of numeric pairs: [x,y x,y ...].
func (p *Parser) parsePoints() ast.Value {
	p.advance() // '['
	var pts []ast.Pair
	for !p.check(lex.BracketClose) && !p.isAtEnd() && !p.check(lex.Newline) {
		if t, ok := p.match(lex.Pair); ok {
			pts = append(pts, ast.Pair{X: t.Value.PairVal.X, Y: t.Value.PairVal.Y})
			continue
		}
		p.advance()
	}
	p.match(lex.BracketClose)
	return ast.PointsValue(pts)
}

// parseDimension interprets the current token as a layout dimension: a
// number resolves to pixels, a percent to percent-of-parent, and the bare
// identifier "auto" to Auto.
func (p *Parser) parseDimension() (ast.Dimension, bool) {
	tok := p.peek()
	switch tok.Kind {
	case lex.Number:
		p.advance()
		return ast.Dimension{Kind: ast.DimPx, N: tok.Value.Num}, true
	case lex.Percent:
		p.advance()
		return ast.Dimension{Kind: ast.DimPercent, N: tok.Value.Num}, true
	case lex.Identifier:
		if tok.Value.Str == "auto" {
			p.advance()
			return ast.Dimension{Kind: ast.DimAuto}, true
		}
	}
	return ast.Dimension{}, false
}

// parseDimensionPair parses "WxH"-shaped pairs or two adjacent dimensions.
func (p *Parser) parseDimensionPair() (ast.Value, bool) {
	if t, ok := p.match(lex.Pair); ok {
		return ast.DimensionPairValue(
			ast.Dimension{Kind: ast.DimPx, N: t.Value.PairVal.X},
			ast.Dimension{Kind: ast.DimPx, N: t.Value.PairVal.Y},
		), true
	}
	if t, ok := p.match(lex.PercentPair); ok {
		return ast.DimensionPairValue(
			ast.Dimension{Kind: ast.DimPercent, N: t.Value.PairVal.X},
			ast.Dimension{Kind: ast.DimPercent, N: t.Value.PairVal.Y},
		), true
	}
	w, ok := p.parseDimension()
	if !ok {
		return ast.NoneValue, false
	}
	h := w
	return ast.DimensionPairValue(w, h), true
}
