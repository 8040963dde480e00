package parse

import (
	"scenelang/ast"
	"scenelang/diag"
	"scenelang/lex"
)

func (p *Parser) parseSymbol() ast.Node {
	pos := p.here()
	p.advance() // "symbol"
	var id string
	if t, ok := p.match(lex.String); ok {
		id = t.Value.Str
	} else if t, ok := p.match(lex.Identifier); ok {
		id = t.Value.Str
	} else {
		p.report(diag.New(diag.MissingToken, p.here(), "expected a symbol id"))
	}

	var viewBox *ast.Value
	if p.check(lex.Identifier) && p.peek().Value.Str == "viewbox" {
		p.advance()
		v := p.parseValue()
		viewBox = &v
	}
	p.match(lex.Newline)

	var children []ast.Node
	if p.check(lex.Indent) {
		p.advance()
		for !p.check(lex.Dedent) && !p.isAtEnd() {
			if p.skipBlank() {
				continue
			}
			if n := p.parseStatement(); n != nil {
				children = append(children, n)
			}
		}
		if p.check(lex.Dedent) {
			p.advance()
		} else {
			p.report(diag.New(diag.UnterminatedBlock, p.here(), "unterminated symbol block"))
		}
	}

	return ast.NewSymbol(pos, id, viewBox, children)
}

func (p *Parser) parseUse() ast.Node {
	pos := p.here()
	p.advance() // "use"
	var id string
	if t, ok := p.match(lex.String); ok {
		id = t.Value.Str
	} else if t, ok := p.match(lex.Identifier); ok {
		id = t.Value.Str
	}

	u := ast.NewUse(pos, id)
	for !p.check(lex.Newline) && !p.isAtEnd() {
		tok := p.peek()
		switch {
		case tok.Kind == lex.Identifier && tok.Value.Str == "at":
			p.advance()
			v := p.parseValue()
			u.Position = &v
		case tok.Kind == lex.Identifier && tok.Value.Str == "size":
			p.advance()
			v := p.parseValue()
			u.Size = &v
		case tok.Kind == lex.Identifier && stylePropNames[tok.Value.Str]:
			p.advance()
			applyStyleProp(&u.Style, tok.Value.Str, p.parseValue())
		case tok.Kind == lex.Identifier && transformPropNames[tok.Value.Str]:
			p.advance()
			applyTransformProp(&u.Transform, tok.Value.Str, p.parseValue())
		default:
			p.advance()
		}
	}
	p.match(lex.Newline)
	return u
}
