package parse

import (
	"scenelang/ast"
	"scenelang/diag"
	"scenelang/lex"
)

var graphLayoutNames = map[string]ast.GraphLayout{
	"hierarchical": ast.GraphHierarchical, "force": ast.GraphForce,
	"grid": ast.GraphGrid, "tree": ast.GraphTree, "manual": ast.GraphManual,
}

var arrowDirNames = map[string]ast.ArrowDir{
	"forward": ast.ArrowForward, "backward": ast.ArrowBackward,
	"both": ast.ArrowBoth, "none": ast.ArrowNone,
}

func (p *Parser) parseGraph() ast.Node {
	pos := p.here()
	p.advance() // "graph"
	g2 := &ast.Graph{}
	build := func() ast.Node {
		return ast.NewGraph(pos, g2.Layout, g2.Dir, g2.Spacing, g2.Nodes, g2.Edges)
	}
	p.match(lex.Newline)
	if !p.check(lex.Indent) {
		return build()
	}
	p.advance() // Indent
	for {
		if p.skipBlank() {
			if p.check(lex.Dedent) {
				p.advance()
				return build()
			}
			continue
		}
		if p.check(lex.Dedent) {
			p.advance()
			return build()
		}
		if p.isAtEnd() {
			p.report(diag.New(diag.UnterminatedBlock, p.here(), "unterminated graph block"))
			return build()
		}
		tok := p.peek()
		if tok.Kind != lex.Identifier {
			p.report(diag.New(diag.UnexpectedToken, p.here(), "unexpected token in graph block"))
			p.syncToLineEnd()
			continue
		}
		switch tok.Value.Str {
		case "node":
			p.advance()
			g2.Nodes = append(g2.Nodes, p.parseGraphNode())
		case "edge":
			p.advance()
			g2.Edges = append(g2.Edges, p.parseGraphEdge())
		case "layout":
			p.advance()
			if t, ok := p.match(lex.Identifier); ok {
				if gl, ok := graphLayoutNames[t.Value.Str]; ok {
					g2.Layout = gl
				}
			}
			p.match(lex.Newline)
		case "direction":
			p.advance()
			if t, ok := p.match(lex.Identifier); ok {
				if t.Value.Str == "horizontal" {
					g2.Dir = ast.DirHorizontal
				} else {
					g2.Dir = ast.DirVertical
				}
			}
			p.match(lex.Newline)
		case "spacing":
			p.advance()
			g2.Spacing = p.parseValue()
			p.match(lex.Newline)
		default:
			d := diag.New(diag.InvalidProperty, p.here(), "unknown graph property '"+tok.Value.Str+"'").
				WithSuggestion(diag.Suggest(tok.Value.Str, []string{"node", "edge", "layout", "direction", "spacing"}))
			p.report(d)
			p.syncToLineEnd()
		}
	}
}

func (p *Parser) parseGraphNode() ast.GraphNode {
	n := ast.GraphNode{}
	if t, ok := p.match(lex.String); ok {
		n.ID = t.Value.Str
	}
	if t := p.peek(); t.Kind == lex.Identifier && t.Value.Str != "at" && t.Value.Str != "size" && !stylePropNames[t.Value.Str] {
		p.advance()
		if kind, ok := shapeKindByName[t.Value.Str]; ok {
			n.Shape = kind
		} else {
			n.Label = t.Value.Str
		}
	}
	for !p.check(lex.Newline) && !p.isAtEnd() {
		tok := p.peek()
		switch {
		case tok.Kind == lex.String:
			p.advance()
			n.Label = tok.Value.Str
		case tok.Kind == lex.Identifier && tok.Value.Str == "at":
			p.advance()
			v := p.parseValue()
			n.Position = &v
		case tok.Kind == lex.Identifier && tok.Value.Str == "size":
			p.advance()
			v := p.parseValue()
			n.Size = &v
		case tok.Kind == lex.Identifier && stylePropNames[tok.Value.Str]:
			p.advance()
			applyStyleProp(&n.Style, tok.Value.Str, p.parseValue())
		default:
			p.advance()
		}
	}
	p.match(lex.Newline)
	return n
}

func (p *Parser) parseGraphEdge() ast.GraphEdge {
	e := ast.GraphEdge{}
	if t, ok := p.match(lex.String); ok {
		e.From = t.Value.Str
	}
	p.match(lex.Arrow)
	if t, ok := p.match(lex.String); ok {
		e.To = t.Value.Str
	}
	for !p.check(lex.Newline) && !p.isAtEnd() {
		tok := p.peek()
		switch {
		case tok.Kind == lex.String:
			p.advance()
			e.Label = tok.Value.Str
		case tok.Kind == lex.Identifier && tok.Value.Str == "stroke":
			p.advance()
			e.Stroke = p.parseValue()
		case tok.Kind == lex.Identifier && tok.Value.Str == "arrow":
			p.advance()
			if t, ok := p.match(lex.Identifier); ok {
				if a, ok := arrowDirNames[t.Value.Str]; ok {
					e.Arrow = a
				}
			}
		case tok.Kind == lex.Identifier:
			p.advance()
			e.EdgeKind = tok.Value.Str
		default:
			p.advance()
		}
	}
	p.match(lex.Newline)
	return e
}
