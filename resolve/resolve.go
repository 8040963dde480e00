// Package resolve implements the two-pass symbol resolution that replaces
// every deferred ast.VarRef with its bound value, or with a typed null and
// a diagnostic when the name is undefined.
package resolve

import (
	"scenelang/ast"
	"scenelang/diag"

	"go.uber.org/zap"
)

// symbol is one entry in the flat symbol table: name, bound value, and the
// position of its definition (used to point DuplicateVariable at the
// earlier binding).
type symbol struct {
	name  string
	value ast.Value
	pos   diag.Pos
}

// Table is a lexically scoped symbol table. The current design uses a
// single flat scope for the whole scene, but the API
// already supports nesting so future per-group scopes need no signature
// change.
type Table struct {
	scopes [][]symbol
}

// NewTable returns a table with one open scope.
func NewTable() *Table {
	return &Table{scopes: [][]symbol{{}}}
}

// PushScope opens a new, innermost scope. Unused by this resolver today.
func (t *Table) PushScope() { t.scopes = append(t.scopes, nil) }

// PopScope closes the innermost scope. Unused by this resolver today.
func (t *Table) PopScope() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Define inserts name into the innermost scope, returning the prior
// definition's position if name was already bound in that scope.
func (t *Table) Define(name string, value ast.Value, pos diag.Pos) (diag.Pos, bool) {
	scope := t.scopes[len(t.scopes)-1]
	for _, s := range scope {
		if s.name == name {
			return s.pos, true
		}
	}
	t.scopes[len(t.scopes)-1] = append(scope, symbol{name: name, value: value, pos: pos})
	return diag.Pos{}, false
}

// Lookup walks scopes from innermost to outermost, returning the first match.
func (t *Table) Lookup(name string) (ast.Value, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		for _, s := range t.scopes[i] {
			if s.name == name {
				return s.value, true
			}
		}
	}
	return ast.NoneValue, false
}

// Names returns every bound name across all open scopes, used to compute
// UndefinedVariable suggestions.
func (t *Table) Names() []string {
	var out []string
	for _, scope := range t.scopes {
		for _, s := range scope {
			out = append(out, s.name)
		}
	}
	return out
}

// Resolver runs the two resolution passes over a Scene.
type Resolver struct {
	log   *zap.Logger
	table *Table
	diags []diag.Diagnostic
}

// New returns a resolver. A nil logger is replaced with a no-op one.
func New(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log.Named("resolve"), table: NewTable()}
}

// Resolve runs pass 1 (collect variable definitions) then pass 2 (replace
// every VarRef) over scene, returning the resolved scene and diagnostics.
// The resolved scene is a new tree; the input is left untouched.
func Resolve(scene ast.Scene, log *zap.Logger) (ast.Scene, []diag.Diagnostic) {
	r := New(log)
	r.collectDefinitions(scene.Children)
	children := make([]ast.Node, len(scene.Children))
	for i, n := range scene.Children {
		children[i] = r.resolveNode(n)
	}
	out := ast.NewScene(scene.Pos(), children)
	return out, r.diags
}

func (r *Resolver) collectDefinitions(nodes []ast.Node) {
	for _, n := range nodes {
		if v, ok := n.(ast.Variable); ok {
			if priorPos, dup := r.table.Define(v.Name, v.Value, v.Pos()); dup {
				d := diag.New(diag.DuplicateVariable, v.Pos(), "duplicate variable '"+v.Name+"', previously defined at "+posString(priorPos))
				r.diags = append(r.diags, d)
			}
		}
	}
}

func posString(p diag.Pos) string {
	return itoa(p.Line) + ":" + itoa(p.Col)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// resolveValue substitutes a VarRef and returns every other value kind
// untouched; it does not walk into points or layout payloads.
func (r *Resolver) resolveValue(v ast.Value) ast.Value {
	if !v.IsVarRef() {
		return v
	}
	name := v.Ref.Name
	if bound, ok := r.table.Lookup(name); ok {
		return bound
	}
	suggestion := diag.Suggest(name, r.table.Names())
	d := diag.New(diag.UndefinedVariable, v.Ref.Pos, "undefined variable '"+name+"'")
	if suggestion != "" {
		d = d.WithSuggestion(suggestion)
	}
	r.diags = append(r.diags, d)
	return ast.NoneValue
}

func (r *Resolver) resolveStyle(s ast.Style) ast.Style {
	s.Fill = r.resolveValue(s.Fill)
	s.Stroke = r.resolveValue(s.Stroke)
	s.StrokeW = r.resolveValue(s.StrokeW)
	s.Opacity = r.resolveValue(s.Opacity)
	s.Corner = r.resolveValue(s.Corner)
	s.Blur = r.resolveValue(s.Blur)
	s.Gradient = r.resolveValue(s.Gradient)
	s.Shadow = r.resolveValue(s.Shadow)
	s.Filter = r.resolveValue(s.Filter)
	return s
}

func (r *Resolver) resolveTransform(t ast.Transform) ast.Transform {
	t.Translate = r.resolveValue(t.Translate)
	t.Rotate = r.resolveValue(t.Rotate)
	t.Scale = r.resolveValue(t.Scale)
	t.Origin = r.resolveValue(t.Origin)
	return t
}

func (r *Resolver) resolveNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case ast.Canvas:
		v.Fill = r.resolveValue(v.Fill)
		return v
	case ast.Variable:
		v.Value = r.resolveValue(v.Value)
		return v
	case *ast.Shape:
		out := *v
		props := make(map[string]ast.Value, len(v.Props))
		for k, val := range v.Props {
			props[k] = r.resolveValue(val)
		}
		out.Props = props
		out.Style = r.resolveStyle(v.Style)
		out.Transform = r.resolveTransform(v.Transform)
		out.Text.Font = r.resolveValue(v.Text.Font)
		children := make([]ast.Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = r.resolveNode(c)
		}
		out.Children = children
		return &out
	case ast.Graph:
		out := v
		out.Spacing = r.resolveValue(v.Spacing)
		nodes := make([]ast.GraphNode, len(v.Nodes))
		for i, gn := range v.Nodes {
			gn.Style = r.resolveStyle(gn.Style)
			if gn.Position != nil {
				p := r.resolveValue(*gn.Position)
				gn.Position = &p
			}
			if gn.Size != nil {
				s := r.resolveValue(*gn.Size)
				gn.Size = &s
			}
			nodes[i] = gn
		}
		out.Nodes = nodes
		edges := make([]ast.GraphEdge, len(v.Edges))
		for i, ge := range v.Edges {
			ge.Stroke = r.resolveValue(ge.Stroke)
			edges[i] = ge
		}
		out.Edges = edges
		return out
	case ast.Symbol:
		out := v
		children := make([]ast.Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = r.resolveNode(c)
		}
		out.Children = children
		return out
	case *ast.Use:
		out := *v
		out.Style = r.resolveStyle(v.Style)
		out.Transform = r.resolveTransform(v.Transform)
		if v.Position != nil {
			p := r.resolveValue(*v.Position)
			out.Position = &p
		}
		if v.Size != nil {
			s := r.resolveValue(*v.Size)
			out.Size = &s
		}
		return &out
	default:
		return n
	}
}
