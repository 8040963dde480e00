// Package parse builds an AST from a token stream using recursive descent
// with panic-mode error recovery: on a malformed statement, the parser
// reports one diagnostic, resynchronizes, and keeps going so the caller
// always gets a complete, if partial, tree back.
package parse

import (
	"scenelang/ast"
	"scenelang/diag"
	"scenelang/lex"

	"go.uber.org/zap"
)

// commandNames is the closed set of valid top-level/block statement
// leaders, used both for dispatch and for UnknownCommand suggestions.
var commandNames = []string{
	"canvas", "group", "stack", "row", "graph", "node", "edge", "symbol", "use",
	"rect", "circle", "ellipse", "line", "path", "polygon", "text", "image",
	"arc", "curve", "diamond",
}

var shapeKindByName = map[string]ast.ShapeKind{
	"rect": ast.ShapeRect, "circle": ast.ShapeCircle, "ellipse": ast.ShapeEllipse,
	"line": ast.ShapeLine, "path": ast.ShapePath, "polygon": ast.ShapePolygon,
	"text": ast.ShapeText, "image": ast.ShapeImage, "arc": ast.ShapeArc,
	"curve": ast.ShapeCurve, "diamond": ast.ShapeDiamond,
}

// Config governs the recursive-descent parser.
type Config struct {
	// MaxNestingDepth caps how many block levels (shapes nested inside
	// shapes inside shapes) a single parse will descend into before
	// giving up on the remainder of the block.
	MaxNestingDepth int
}

// DefaultConfig returns the stock nesting cap used when none is supplied.
func DefaultConfig() Config {
	return Config{MaxNestingDepth: 64}
}

// Parser consumes a token stream and produces a Scene plus diagnostics.
type Parser struct {
	toks      []lex.Token
	pos       int
	log       *zap.Logger
	diags     []diag.Diagnostic
	panicking bool

	cfg   Config
	depth int
}

// New returns a parser over toks. A nil logger is replaced with a no-op one;
// a zero MaxNestingDepth falls back to DefaultConfig's.
func New(toks []lex.Token, cfg Config, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxNestingDepth <= 0 {
		cfg.MaxNestingDepth = DefaultConfig().MaxNestingDepth
	}
	return &Parser{toks: toks, log: log.Named("parse"), cfg: cfg}
}

// Parse runs the full parse and returns the resulting scene and the
// accumulated diagnostics. It never panics; parsing is total.
func Parse(toks []lex.Token, cfg Config, log *zap.Logger) (ast.Scene, []diag.Diagnostic) {
	p := New(toks, cfg, log)
	return p.parseScene(), p.diags
}

func (p *Parser) parseScene() ast.Scene {
	start := p.here()
	var children []ast.Node
	for !p.isAtEnd() {
		if p.skipBlank() {
			continue
		}
		if n := p.parseStatement(); n != nil {
			children = append(children, n)
		}
	}
	return ast.NewScene(start, children)
}

// skipBlank consumes a stray Newline/Dedent/Indent at a point a statement
// was expected and reports whether it did so.
func (p *Parser) skipBlank() bool {
	switch p.peekKind() {
	case lex.Newline, lex.Dedent, lex.Indent:
		p.advance()
		return true
	}
	return false
}

func (p *Parser) here() diag.Pos {
	t := p.peek()
	return diag.Pos{Line: t.Line, Col: t.Col}
}

func (p *Parser) peek() lex.Token {
	if p.pos >= len(p.toks) {
		return lex.Token{Kind: lex.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(off int) lex.Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return lex.Token{Kind: lex.EOF}
	}
	return p.toks[i]
}

func (p *Parser) peekKind() lex.Kind { return p.peek().Kind }

func (p *Parser) isAtEnd() bool { return p.peekKind() == lex.EOF }

func (p *Parser) advance() lex.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) check(k lex.Kind) bool { return p.peekKind() == k }

func (p *Parser) match(k lex.Kind) (lex.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return lex.Token{}, false
}

// report records a diagnostic unless the parser is already in a panic-mode
// episode, matching the "single diagnostic per mistake" contract.
func (p *Parser) report(d diag.Diagnostic) {
	if p.panicking {
		return
	}
	p.diags = append(p.diags, d)
	if d.Severity == diag.Error {
		p.panicking = true
	}
}

// synchronize consumes tokens until a statement boundary: newline, dedent,
// eof, or a token that can start a new statement. It never consumes dedent.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch p.peekKind() {
		case lex.Newline:
			p.advance()
			p.panicking = false
			return
		case lex.Dedent, lex.EOF:
			p.panicking = false
			return
		case lex.Identifier, lex.VarRef:
			p.panicking = false
			return
		}
		p.advance()
	}
	p.panicking = false
}

// syncToLineEnd is the property-level recovery helper: it skips to the
// next newline without clearing panic mode's broader statement context,
// used when a single property value is malformed but the rest of the
// block should still be attempted.
func (p *Parser) syncToLineEnd() {
	for !p.isAtEnd() && !p.check(lex.Newline) && !p.check(lex.Dedent) {
		p.advance()
	}
	p.match(lex.Newline)
}

func (p *Parser) parseStatement() ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case lex.VarRef:
		return p.parseVariable()
	case lex.Identifier:
		switch tok.Value.Str {
		case "canvas":
			return p.parseCanvas()
		case "stack":
			return p.parseLayoutContainer(ast.DirVertical)
		case "row":
			return p.parseLayoutContainer(ast.DirHorizontal)
		case "group":
			return p.parseGroup()
		case "graph":
			return p.parseGraph()
		case "symbol":
			return p.parseSymbol()
		case "use":
			return p.parseUse()
		default:
			if kind, ok := shapeKindByName[tok.Value.Str]; ok {
				return p.parseShape(kind)
			}
			return p.parseUnknownCommand()
		}
	default:
		d := diag.New(diag.UnexpectedToken, p.here(), "expected a statement")
		p.report(d)
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseUnknownCommand() ast.Node {
	tok := p.advance()
	suggestion := diag.Suggest(tok.Value.Str, commandNames)
	d := diag.New(diag.UnknownCommand, diag.Pos{Line: tok.Line, Col: tok.Col}, "unknown command '"+tok.Value.Str+"'")
	if suggestion != "" {
		d = d.WithSuggestion(suggestion)
	}
	p.report(d)
	// the rest of the offending line is skipped, not reparsed as statements
	p.syncToLineEnd()
	p.panicking = false
	return nil
}

func (p *Parser) parseVariable() ast.Node {
	nameTok := p.advance() // VarRef
	pos := diag.Pos{Line: nameTok.Line, Col: nameTok.Col}
	if _, ok := p.match(lex.Equals); !ok {
		p.report(diag.New(diag.MissingToken, p.here(), "expected '=' after variable name"))
		p.synchronize()
		return nil
	}
	val := p.parseValue()
	p.match(lex.Newline)
	return ast.NewVariable(pos, nameTok.Value.Str, val)
}

func (p *Parser) parseCanvas() ast.Node {
	pos := p.here()
	p.advance() // "canvas"
	tok := p.peek()
	var size ast.CanvasSize = ast.CanvasSize(lex.SizeMedium)
	switch tok.Kind {
	case lex.SizeKeyword:
		p.advance()
		if sz, ok := lex.ParseCanvasSize(tok.Value.Str); ok {
			size = ast.CanvasSize(sz)
		}
	case lex.Pair:
		p.advance()
		d := diag.New(diag.InvalidValue, diag.Pos{Line: tok.Line, Col: tok.Col}, "canvas size must be a named size, not a raw dimension pair").
			WithSuggestion(joinNames(lex.AllCanvasNames()))
		p.report(d)
	case lex.Identifier:
		p.advance()
		d := diag.New(diag.InvalidValue, diag.Pos{Line: tok.Line, Col: tok.Col}, "unknown canvas size '"+tok.Value.Str+"'").
			WithSuggestion(joinNames(lex.AllCanvasNames()))
		p.report(d)
	default:
		d := diag.New(diag.MissingToken, diag.Pos{Line: tok.Line, Col: tok.Col}, "expected a canvas size")
		p.report(d)
	}

	fill := ast.NoneValue
	for p.check(lex.Identifier) && p.peek().Value.Str == "fill" {
		p.advance()
		fill = p.parseValue()
	}
	p.match(lex.Newline)
	return ast.NewCanvas(pos, size, fill)
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
