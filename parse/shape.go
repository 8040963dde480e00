package parse

import (
	"scenelang/ast"
	"scenelang/diag"
	"scenelang/lex"
)

var shapeKeyedProps = map[string]bool{
	"at": true, "size": true, "radius": true, "from": true, "to": true,
	"d": true, "points": true, "href": true, "start": true, "end": true,
	"smooth": true, "sharp": true, "closed": true,
}

var stylePropNames = map[string]bool{
	"fill": true, "stroke": true, "stroke-width": true, "opacity": true,
	"corner": true, "shadow": true, "gradient": true, "blur": true,
}

var textPropNames = map[string]bool{
	"font": true, "bold": true, "italic": true, "center": true, "end": true,
}

var transformPropNames = map[string]bool{
	"translate": true, "rotate": true, "scale": true, "origin": true,
}

func (p *Parser) parseShape(kind ast.ShapeKind) ast.Node {
	pos := p.here()
	p.advance() // shape keyword
	shape := ast.NewShape(pos, kind)

	positional := 0 // count of unkeyed pairs seen so far: 1st -> at, 2nd -> size
	for !p.check(lex.Newline) && !p.isAtEnd() {
		if !p.applyShapeInline(shape, &positional) {
			p.report(diag.New(diag.UnexpectedToken, p.here(), "unexpected token in shape properties"))
			p.syncToLineEnd()
			return shape
		}
	}
	p.match(lex.Newline)

	if p.check(lex.Indent) {
		p.parseBlock(shape)
	}
	return shape
}

func (p *Parser) parseGroup() ast.Node {
	pos := p.here()
	p.advance() // "group"
	shape := ast.NewShape(pos, ast.ShapeGroup)
	p.consumeTransformInline(shape)
	p.match(lex.Newline)
	if p.check(lex.Indent) {
		p.parseBlock(shape)
	}
	return shape
}

// applyShapeInline consumes one positional or keyword:value shape property
// and reports whether it recognized something.
func (p *Parser) applyShapeInline(shape *ast.Shape, positional *int) bool {
	tok := p.peek()

	if tok.Kind == lex.Identifier {
		name := tok.Value.Str
		if shapeKeyedProps[name] {
			p.advance()
			shape.Props[name] = p.parseValue()
			return true
		}
		if stylePropNames[name] {
			p.advance()
			applyStyleProp(&shape.Style, name, p.parseValue())
			return true
		}
	}

	switch tok.Kind {
	case lex.Pair:
		p.advance()
		v := ast.PairValue(tok.Value.PairVal.X, tok.Value.PairVal.Y)
		*positional++
		if *positional == 1 {
			shape.Props["at"] = v
		} else {
			shape.Props["size"] = v
		}
		return true
	case lex.Number:
		p.advance()
		v := ast.NumberValue(tok.Value.Num)
		if shape.Kind == ast.ShapeCircle {
			shape.Props["radius"] = v
		} else {
			shape.Props["width"] = v
		}
		return true
	case lex.Color:
		p.advance()
		shape.Style.Fill = ast.StringValue(tok.Value.Str)
		return true
	case lex.VarRef:
		p.advance()
		v := ast.VarRefValue(tok.Value.Str, diag.Pos{Line: tok.Line, Col: tok.Col})
		shape.Style.Fill = v
		return true
	case lex.String:
		p.advance()
		shape.Props["text"] = ast.StringValue(tok.Value.Str)
		return true
	}
	return false
}

func applyStyleProp(s *ast.Style, name string, v ast.Value) {
	switch name {
	case "fill":
		s.Fill = v
	case "stroke":
		s.Stroke = v
	case "stroke-width":
		s.StrokeW = v
	case "opacity":
		s.Opacity = v
	case "corner":
		s.Corner = v
	case "shadow":
		s.Shadow = v
	case "gradient":
		s.Gradient = v
	case "blur":
		s.Blur = v
	}
}

func (p *Parser) consumeTransformInline(shape *ast.Shape) {
	for p.check(lex.Identifier) && transformPropNames[p.peek().Value.Str] {
		name := p.advance().Value.Str
		v := p.parseValue()
		applyTransformProp(&shape.Transform, name, v)
	}
}

func applyTransformProp(t *ast.Transform, name string, v ast.Value) {
	switch name {
	case "translate":
		t.Translate = v
	case "rotate":
		t.Rotate = v
	case "scale":
		t.Scale = v
	case "origin":
		t.Origin = v
	}
}

// parseBlock parses the indented body following a statement header: a
// sequence of nested shapes and/or style/text/transform/layout
// properties, closed by a matching Dedent (or EOF, which reports
// UnterminatedBlock).
func (p *Parser) parseBlock(shape *ast.Shape) {
	p.advance() // Indent

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.cfg.MaxNestingDepth {
		d := diag.New(diag.NestingTooDeep, p.here(), "block nesting exceeds the configured maximum")
		p.report(d)
		p.skipToMatchingDedent()
		return
	}

	for {
		if p.skipBlank() {
			if p.check(lex.Dedent) {
				p.advance()
				return
			}
			continue
		}
		if p.check(lex.Dedent) {
			p.advance()
			return
		}
		if p.isAtEnd() {
			p.report(diag.New(diag.UnterminatedBlock, p.here(), "unterminated block, expected a dedent"))
			return
		}

		tok := p.peek()
		if tok.Kind == lex.Identifier {
			name := tok.Value.Str
			switch {
			case stylePropNames[name]:
				p.advance()
				applyStyleProp(&shape.Style, name, p.parseValue())
				p.match(lex.Newline)
				continue
			case textPropNames[name]:
				p.advance()
				p.applyTextProp(shape, name)
				p.match(lex.Newline)
				continue
			case transformPropNames[name]:
				p.advance()
				applyTransformProp(&shape.Transform, name, p.parseValue())
				p.match(lex.Newline)
				continue
			case shape.Kind == ast.ShapeLayout && isLayoutPropName(name):
				p.applyLayoutBlockProp(shape, name)
				continue
			case isShapeKindName(name):
				kind := shapeKindByName[name]
				child := p.parseShape(kind)
				if child != nil {
					shape.Children = append(shape.Children, child)
				}
				continue
			case name == "stack" || name == "row" || name == "group":
				child := p.parseStatement()
				if child != nil {
					shape.Children = append(shape.Children, child)
				}
				continue
			}
			d := diag.New(diag.InvalidProperty, p.here(), "unknown property or shape '"+name+"' in block").
				WithSuggestion(diag.Suggest(name, allBlockPropertyNames()))
			p.report(d)
			p.syncToLineEnd()
			continue
		}

		p.report(diag.New(diag.UnexpectedToken, p.here(), "unexpected token in block"))
		p.syncToLineEnd()
	}
}

func (p *Parser) applyTextProp(shape *ast.Shape, name string) {
	switch name {
	case "font":
		shape.Text.Font = p.parseValue()
	case "bold":
		shape.Text.Bold = true
	case "italic":
		shape.Text.Italic = true
	case "center":
		shape.Text.Center = true
	case "end":
		shape.Text.End = true
	}
}

func isShapeKindName(name string) bool {
	_, ok := shapeKindByName[name]
	return ok
}

// skipToMatchingDedent discards tokens up to and including the Dedent that
// balances the Indent already consumed by the caller, tracking further
// nested Indent/Dedent pairs along the way so an over-deep block is skipped
// as a whole instead of leaving the token stream misaligned.
func (p *Parser) skipToMatchingDedent() {
	level := 1
	for !p.isAtEnd() && level > 0 {
		switch p.advance().Kind {
		case lex.Indent:
			level++
		case lex.Dedent:
			level--
		}
	}
}

func isLayoutPropName(name string) bool {
	switch name {
	case "gap", "padding", "justify", "align", "wrap", "width", "height", "size",
		"center-in", "anchor", "fill-parent", "center":
		return true
	}
	return false
}

func allBlockPropertyNames() []string {
	names := []string{}
	for n := range stylePropNames {
		names = append(names, n)
	}
	for n := range textPropNames {
		names = append(names, n)
	}
	for n := range transformPropNames {
		names = append(names, n)
	}
	for n := range shapeKindByName {
		names = append(names, n)
	}
	return names
}
