package parse

import (
	"scenelang/ast"
	"scenelang/diag"
	"scenelang/lex"
)

var justifyNames = map[string]ast.Justify{
	"start": ast.JustifyStart, "end": ast.JustifyEnd, "center": ast.JustifyCenter,
	"space-between": ast.JustifySpaceBetween, "space-around": ast.JustifySpaceAround,
	"space-evenly": ast.JustifySpaceEvenly,
}

var alignNames = map[string]ast.Align{
	"start": ast.AlignStart, "end": ast.AlignEnd, "center": ast.AlignCenter,
	"stretch": ast.AlignStretch, "baseline": ast.AlignBaseline,
}

func (p *Parser) parseLayoutContainer(dir ast.LayoutDirection) ast.Node {
	pos := p.here()
	p.advance() // "stack" | "row"
	shape := ast.NewShape(pos, ast.ShapeLayout)
	shape.HasLayout = true
	shape.Layout = ast.LayoutProps{Direction: dir, HasDirection: true}

	for !p.check(lex.Newline) && !p.isAtEnd() {
		if p.applyLayoutInline(shape) {
			if p.pos > 0 && p.toks[p.pos-1].Kind == lex.Newline {
				// a keyed layout property already consumed the header's newline
				break
			}
			continue
		}
		if p.applyShapeInline(shape, new(int)) {
			continue
		}
		p.report(diag.New(diag.UnexpectedToken, p.here(), "unexpected token in layout properties"))
		p.syncToLineEnd()
		break
	}
	p.match(lex.Newline)
	if p.check(lex.Indent) {
		p.parseBlock(shape)
	}
	return shape
}

// applyLayoutInline handles one inline layout-property token on a
// stack/row header line.
func (p *Parser) applyLayoutInline(shape *ast.Shape) bool {
	tok := p.peek()
	if tok.Kind == lex.Identifier && tok.Value.Str == "center" {
		p.advance()
		shape.Layout.Justify = ast.JustifyCenter
		shape.Layout.Align = ast.AlignCenter
		return true
	}
	if tok.Kind == lex.Identifier && isLayoutPropName(tok.Value.Str) {
		p.applyLayoutBlockProp(shape, tok.Value.Str)
		return true
	}
	switch tok.Kind {
	case lex.Number:
		p.advance()
		shape.Layout.Gap = ast.Dimension{Kind: ast.DimPx, N: tok.Value.Num}
		return true
	case lex.Percent:
		p.advance()
		shape.Layout.Gap = ast.Dimension{Kind: ast.DimPercent, N: tok.Value.Num}
		return true
	}
	return false
}

// applyLayoutBlockProp consumes "<name> <value...>" for one recognized
// layout property name already peeked by the caller.
func (p *Parser) applyLayoutBlockProp(shape *ast.Shape, name string) {
	p.advance() // property name
	switch name {
	case "gap":
		if d, ok := p.parseDimension(); ok {
			shape.Layout.Gap = d
		}
	case "justify":
		if t, ok := p.match(lex.Identifier); ok {
			if j, ok := justifyNames[t.Value.Str]; ok {
				shape.Layout.Justify = j
			}
		}
	case "align":
		if t, ok := p.match(lex.Identifier); ok {
			if a, ok := alignNames[t.Value.Str]; ok {
				shape.Layout.Align = a
			}
		}
	case "wrap":
		shape.Layout.Wrap = true
	case "width":
		if d, ok := p.parseDimension(); ok {
			shape.Props["width"] = ast.DimensionValue(d)
		}
	case "height":
		if d, ok := p.parseDimension(); ok {
			shape.Props["height"] = ast.DimensionValue(d)
		}
	case "size":
		if v, ok := p.parseDimensionPair(); ok {
			shape.Props["size"] = v
		}
	case "padding":
		shape.Layout.Padding = p.parsePadding()
		shape.Layout.HasPadding = true
	case "center-in":
		shape.Constraint.CenterX = true
		shape.Constraint.CenterY = true
	case "center":
		shape.Layout.Justify = ast.JustifyCenter
		shape.Layout.Align = ast.AlignCenter
	case "fill-parent":
		shape.Constraint.FillParent = true
	case "anchor":
		p.applyAnchor(shape)
	}
	p.match(lex.Newline)
}

// parsePadding accepts 1, 2, or 4 dimension values with CSS shorthand
// semantics: 1 -> all sides; 2 -> (top/bottom, left/right); 4 -> top,
// right, bottom, left.
func (p *Parser) parsePadding() ast.Padding {
	var vals []ast.Dimension
	for len(vals) < 4 {
		d, ok := p.parseDimension()
		if !ok {
			break
		}
		vals = append(vals, d)
	}
	switch len(vals) {
	case 1:
		return ast.Padding{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
	case 2:
		return ast.Padding{Top: vals[0], Bottom: vals[0], Right: vals[1], Left: vals[1]}
	case 4:
		return ast.Padding{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	default:
		return ast.Padding{}
	}
}

func (p *Parser) applyAnchor(shape *ast.Shape) {
	edgeTok, ok := p.match(lex.Identifier)
	if !ok {
		return
	}
	d, ok := p.parseDimension()
	if !ok {
		return
	}
	switch edgeTok.Value.Str {
	case "left":
		shape.Constraint.AnchorLeft = &d
	case "right":
		shape.Constraint.AnchorRight = &d
	case "top":
		shape.Constraint.AnchorTop = &d
	case "bottom":
		shape.Constraint.AnchorBottom = &d
	}
}
