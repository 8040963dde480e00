package scene

import (
	"fmt"
	"math"

	"scenelang/ast"
	"scenelang/diag"
	"scenelang/identity"
	"scenelang/layout"

	"github.com/google/uuid"
)

// Build walks a resolved scene (no VarRefs left, per package resolve) and
// produces the canonical element tree: every *ast.Shape gets an absolute
// rectangle from package layout, every element gets a stable identity and
// content hash from package identity, and symbol/use references are
// expanded in place.
func Build(resolved ast.Scene, cfg layout.Config) (Document, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	doc := Document{RenderID: uuid.New().String()}

	size := ast.SizeMedium
	for _, n := range resolved.Children {
		if c, ok := n.(ast.Canvas); ok {
			size = c.Size
			if c.Fill.Kind == ast.ValString {
				doc.Fill, doc.HasFill = c.Fill.Str, true
			}
			break
		}
	}
	doc.Size = size
	doc.Pixels = size.Pixels()

	rects := layout.Resolve(resolved, doc.Pixels, doc.Pixels, cfg)

	symbols := map[string]ast.Symbol{}
	for _, n := range resolved.Children {
		if s, ok := n.(ast.Symbol); ok {
			symbols[s.ID] = s
		}
	}

	b := &builder{rects: rects, symbols: symbols}

	for _, n := range resolved.Children {
		switch node := n.(type) {
		case ast.Canvas, ast.Variable, ast.Symbol:
			// handled above, or carry no element of their own
		case *ast.Shape:
			doc.Elements = append(doc.Elements, b.buildShape(node))
		case ast.Graph:
			doc.Elements = append(doc.Elements, b.buildGraph(node))
		case *ast.Use:
			els, d := b.buildUse(node)
			doc.Elements = append(doc.Elements, els...)
			diags = append(diags, d...)
		}
	}

	for _, s := range symbols {
		doc.Symbols = append(doc.Symbols, b.buildSymbolDef(s))
	}

	return doc, diags
}

type builder struct {
	dup     map[identity.ElementKind]map[string]uint64
	rects   map[*ast.Shape]layout.Rect
	symbols map[string]ast.Symbol
}

// order returns this (kind, key) pair's occurrence index within the scene
// being built: 0 for its first appearance, 1 for its second, and so on.
// Matching on occurrence rather than raw document position is what lets two
// elements swap positions in the source and still diff as a Move instead of
// a Remove+Add: their identity-defining key doesn't change, only their
// index, and the index never enters the hash.
func (b *builder) order(kind identity.ElementKind, key []byte) uint64 {
	if b.dup == nil {
		b.dup = map[identity.ElementKind]map[string]uint64{}
	}
	m := b.dup[kind]
	if m == nil {
		m = map[string]uint64{}
		b.dup[kind] = m
	}
	n := m[string(key)]
	m[string(key)] = n + 1
	return n
}

// keyedID derives an element's identity from its kind and identity key,
// disambiguating same-key duplicates by occurrence rather than raw position.
func (b *builder) keyedID(kind identity.ElementKind, key []byte) identity.ElementID {
	return identity.NewElementIDWithKey(b.order(kind, key), kind, key)
}

func (b *builder) buildSymbolDef(s ast.Symbol) Symbol {
	def := Symbol{ID: s.ID}
	if s.ViewBox != nil && s.ViewBox.Kind == ast.ValString {
		def.ViewBox, def.HasViewBox = s.ViewBox.Str, true
	}
	for _, c := range s.Children {
		if shape, ok := c.(*ast.Shape); ok {
			def.Children = append(def.Children, b.buildShape(shape))
		}
	}
	return def
}

func (b *builder) buildUse(u *ast.Use) ([]Element, []diag.Diagnostic) {
	sym, ok := b.symbols[u.SymbolID]
	if !ok {
		return nil, []diag.Diagnostic{
			diag.New(diag.InvalidValue, u.Pos(), "use references unknown symbol '"+u.SymbolID+"'"),
		}
	}
	var tx, ty float64
	if u.Position != nil && u.Position.Kind == ast.ValPair {
		tx, ty = u.Position.Pair.X, u.Position.Pair.Y
	}
	transform := transformString(u.Transform)
	if tx != 0 || ty != 0 {
		translate := fmt.Sprintf("translate(%s,%s)", trimFloat(tx), trimFloat(ty))
		if transform != "" {
			transform = translate + " " + transform
		} else {
			transform = translate
		}
	}

	var children []Element
	for _, c := range sym.Children {
		if shape, ok := c.(*ast.Shape); ok {
			children = append(children, b.buildShape(shape))
		}
	}
	key := []byte(transform)
	order := b.order(identity.KindGroup, key)
	group := Group{Children: children, Transform: transform, HasTransform: transform != ""}
	el := Element{Kind: KindGroup, Group: group}
	el.ID = identity.NewElementIDWithKey(order, identity.KindGroup, key)
	el.Content = identity.ContentHashFromString(transform)
	return []Element{el}, nil
}

func (b *builder) buildShape(s *ast.Shape) Element {
	rect := b.rects[s]
	style := styleFrom(s.Style)
	transform := transformString(s.Transform)

	var el Element
	switch s.Kind {
	case ast.ShapeRect:
		key := posKey(rect.X, rect.Y)
		el = Element{Kind: KindRect, Rect: Rect{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, RX: style.Corner, Style: style, Transform: transform}}
		el.ID = identity.NewElementIDWithKey(b.order(identity.KindRect, key), identity.KindRect, key)
	case ast.ShapeCircle:
		cx, cy, r := rect.X+rect.W/2, rect.Y+rect.H/2, rect.W/2
		el = Element{Kind: KindCircle, Circle: Circle{CX: cx, CY: cy, R: r, Style: style, Transform: transform}}
		el.ID = b.keyedID(identity.KindCircle, posKey(cx, cy))
	case ast.ShapeEllipse:
		cx, cy, rx, ry := rect.X+rect.W/2, rect.Y+rect.H/2, rect.W/2, rect.H/2
		el = Element{Kind: KindEllipse, Ellipse: Ellipse{CX: cx, CY: cy, RX: rx, RY: ry, Style: style, Transform: transform}}
		el.ID = b.keyedID(identity.KindEllipse, posKey(cx, cy))
	case ast.ShapeLine:
		x1, y1, x2, y2 := lineEndpoints(s, rect)
		if !style.HasStroke {
			style.Stroke, style.HasStroke = "#000", true
		}
		el = Element{Kind: KindLine, Line: Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Style: style, Transform: transform}}
		el.ID = b.keyedID(identity.KindLine, posKey(x1, y1))
	case ast.ShapePath:
		d := stringProp(s, "d")
		el = Element{Kind: KindPath, Path: Path{D: d, Style: style, Transform: transform}}
		el.ID = b.keyedID(identity.KindPath, []byte(d))
	case ast.ShapeArc, ast.ShapeCurve:
		d := synthesizePathD(s, rect)
		el = Element{Kind: KindPath, Path: Path{D: d, Style: style, Transform: transform}}
		el.ID = b.keyedID(identity.KindPath, []byte(d))
	case ast.ShapePolygon:
		pts := pointsProp(s)
		el = Element{Kind: KindPolygon, Polygon: Polygon{Points: pts, Style: style, Transform: transform}}
		el.ID = b.keyedID(identity.KindPolygon, pointsKey(pts))
	case ast.ShapeText:
		t := Text{
			X: rect.X, Y: rect.Y, Content: stringProp(s, "text"),
			Font: valueString(s.Text.Font, "system-ui"), Size: cfgOr(rect.H, 16),
			Weight: weightOf(s.Text.Bold), Anchor: anchorOf(s.Text.Center, s.Text.End),
			Style: style, Transform: transform,
		}
		el = Element{Kind: KindText, Text: t}
		el.ID = b.keyedID(identity.KindText, posKey(t.X, t.Y))
	case ast.ShapeImage:
		el = Element{Kind: KindImage, Image: Image{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Href: stringProp(s, "href"), Transform: transform}}
		el.ID = b.keyedID(identity.KindImage, posKey(rect.X, rect.Y))
	case ast.ShapeDiamond:
		cx, cy := rect.X+rect.W/2, rect.Y+rect.H/2
		el = Element{Kind: KindDiamond, Diamond: Diamond{CX: cx, CY: cy, W: rect.W, H: rect.H, Style: style, Transform: transform}}
		el.ID = b.keyedID(identity.KindDiamond, posKey(cx, cy))
	case ast.ShapeNode:
		cx, cy := rect.X+rect.W/2, rect.Y+rect.H/2
		gn := GraphNode{ID: stringProp(s, "id"), Label: stringProp(s, "text"), CX: cx, CY: cy, W: rect.W, H: rect.H, Style: style}
		el = Element{Kind: KindNode, Node: Node{GraphNode: gn}}
		el.ID = b.keyedID(identity.KindNode, posKey(cx, cy))
	case ast.ShapeEdge:
		x1, y1, x2, y2 := lineEndpoints(s, rect)
		ge := GraphEdge{FromX: x1, FromY: y1, ToX: x2, ToY: y2, Style: style}
		el = Element{Kind: KindEdge, Edge: Edge{GraphEdge: ge}}
		el.ID = b.keyedID(identity.KindEdge, posKey(x1, y1))
	case ast.ShapeGroup, ast.ShapeLayout:
		var children []Element
		for _, c := range s.Children {
			if child, ok := c.(*ast.Shape); ok {
				children = append(children, b.buildShape(child))
			}
		}
		group := Group{Children: children, Transform: transform, HasTransform: transform != ""}
		el = Element{Kind: KindGroup, Group: group}
		el.ID = b.keyedID(identity.KindGroup, []byte(transform))
	default:
		el = Element{Kind: KindGroup, Group: Group{}}
		el.ID = b.keyedID(identity.KindGroup, nil)
	}

	el.Content = identity.ContentHashFromString(Serialize(el))
	return el
}

func (b *builder) buildGraph(g ast.Graph) Element {
	nodes := make([]GraphNode, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = graphNodeFrom(n)
	}
	applyGraphLayout(g.Layout, g.Dir == ast.DirHorizontal, g.Spacing, nodes)

	byID := make(map[string]*GraphNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	edges := make([]GraphEdge, len(g.Edges))
	for i, e := range g.Edges {
		edges[i] = graphEdgeFrom(e, byID)
	}

	graph := Graph{Layout: g.Layout, Dir: g.Dir, Spacing: valueFloat(g.Spacing, 50), Nodes: nodes, Edges: edges}
	el := Element{Kind: KindGraph, Graph: graph}
	el.ID = b.keyedID(identity.KindGraph, graphKey(g.Nodes))
	el.Content = identity.ContentHashFromString(Serialize(el))
	return el
}

func graphNodeFrom(n ast.GraphNode) GraphNode {
	gn := GraphNode{ID: n.ID, Shape: n.Shape, Label: n.Label, Style: styleFrom(n.Style), W: 60, H: 40}
	if n.Size != nil && n.Size.Kind == ast.ValPair {
		gn.W, gn.H = n.Size.Pair.X, n.Size.Pair.Y
	}
	if n.Position != nil && n.Position.Kind == ast.ValPair {
		gn.CX, gn.CY = n.Position.Pair.X, n.Position.Pair.Y
	}
	return gn
}

func graphEdgeFrom(e ast.GraphEdge, byID map[string]*GraphNode) GraphEdge {
	ge := GraphEdge{FromID: e.From, ToID: e.To, EdgeKind: e.EdgeKind, Arrow: e.Arrow, Label: e.Label, Style: styleFrom(ast.Style{Stroke: e.Stroke})}
	from, hasFrom := byID[e.From]
	to, hasTo := byID[e.To]
	if hasFrom && hasTo {
		fromSide, toSide := bestAnchors(*from, *to)
		ge.FromX, ge.FromY = from.Anchor(fromSide)
		ge.ToX, ge.ToY = to.Anchor(toSide)
	}
	return ge
}

// bestAnchors picks the pair of node sides an edge should connect to, based
// on which axis separates the two nodes more.
func bestAnchors(from, to GraphNode) (string, string) {
	dx, dy := to.CX-from.CX, to.CY-from.CY
	if math.Abs(dy) > math.Abs(dx) {
		if dy > 0 {
			return "bottom", "top"
		}
		return "top", "bottom"
	}
	if dx > 0 {
		return "right", "left"
	}
	return "left", "right"
}

// applyGraphLayout auto-positions nodes in place for the "hierarchical" and
// "grid" strategies; "manual" (and any unrecognized tag) leaves explicit
// positions untouched.
func applyGraphLayout(l ast.GraphLayout, horizontal bool, spacing ast.Value, nodes []GraphNode) {
	sp := valueFloat(spacing, 50)
	switch l {
	case ast.GraphHierarchical, ast.GraphTree:
		pos := sp
		for i := range nodes {
			if horizontal {
				nodes[i].CX, nodes[i].CY = pos, sp*2
				pos += nodes[i].W + sp
			} else {
				nodes[i].CY, nodes[i].CX = pos, sp*2
				pos += nodes[i].H + sp
			}
		}
	case ast.GraphGrid:
		cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
		if cols < 1 {
			cols = 1
		}
		for i := range nodes {
			row, col := i/cols, i%cols
			nodes[i].CX = sp + float64(col)*(nodes[i].W+sp) + nodes[i].W/2
			nodes[i].CY = sp + float64(row)*(nodes[i].H+sp) + nodes[i].H/2
		}
	}
}

func styleFrom(s ast.Style) Style {
	out := DefaultStyle()
	if s.Fill.Kind == ast.ValString {
		out.Fill, out.HasFill = s.Fill.Str, true
	}
	if s.Stroke.Kind == ast.ValString {
		out.Stroke, out.HasStroke = s.Stroke.Str, true
	}
	if s.StrokeW.Kind == ast.ValNumber {
		out.StrokeWidth = s.StrokeW.Num
	} else {
		out.StrokeWidth = 1
	}
	if s.Opacity.Kind == ast.ValNumber {
		out.Opacity = s.Opacity.Num
	}
	if s.Corner.Kind == ast.ValNumber {
		out.Corner = s.Corner.Num
	}
	if s.Filter.Kind == ast.ValString {
		out.Filter, out.HasFilter = s.Filter.Str, true
	}
	if s.Gradient.Kind == ast.ValString {
		out.Fill, out.HasFill = "url(#"+s.Gradient.Str+")", true
	}
	return out
}

func transformString(t ast.Transform) string {
	var parts []string
	if t.Translate.Kind == ast.ValPair {
		parts = append(parts, fmt.Sprintf("translate(%s,%s)", trimFloat(t.Translate.Pair.X), trimFloat(t.Translate.Pair.Y)))
	}
	if t.Rotate.Kind == ast.ValNumber {
		parts = append(parts, fmt.Sprintf("rotate(%s)", trimFloat(t.Rotate.Num)))
	}
	if t.Scale.Kind == ast.ValNumber {
		parts = append(parts, fmt.Sprintf("scale(%s)", trimFloat(t.Scale.Num)))
	} else if t.Scale.Kind == ast.ValPair {
		parts = append(parts, fmt.Sprintf("scale(%s,%s)", trimFloat(t.Scale.Pair.X), trimFloat(t.Scale.Pair.Y)))
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func lineEndpoints(s *ast.Shape, rect layout.Rect) (x1, y1, x2, y2 float64) {
	if from, ok := s.Props["from"]; ok && from.Kind == ast.ValPair {
		if to, ok := s.Props["to"]; ok && to.Kind == ast.ValPair {
			return from.Pair.X, from.Pair.Y, to.Pair.X, to.Pair.Y
		}
	}
	return rect.X, rect.Y, rect.X + rect.W, rect.Y + rect.H
}

// synthesizePathD renders an arc/curve shape's keyed properties into an SVG
// path string when no explicit "d" override was given: arc sweeps the
// bounding rect from its start to end angle; curve joins its point list
// with straight line segments, closed with Z when "closed" is set. The
// "smooth" and "sharp" flags are not read.
func synthesizePathD(s *ast.Shape, rect layout.Rect) string {
	if d, ok := s.Props["d"]; ok && d.Kind == ast.ValString {
		return d.Str
	}
	if s.Kind == ast.ShapeArc {
		startA, endA := numberProp(s, "start", 0), numberProp(s, "end", 180)
		cx, cy := rect.X+rect.W/2, rect.Y+rect.H/2
		rx, ry := rect.W/2, rect.H/2
		x1 := cx + rx*math.Cos(startA*math.Pi/180)
		y1 := cy + ry*math.Sin(startA*math.Pi/180)
		x2 := cx + rx*math.Cos(endA*math.Pi/180)
		y2 := cy + ry*math.Sin(endA*math.Pi/180)
		large := 0
		if math.Abs(endA-startA) > 180 {
			large = 1
		}
		return fmt.Sprintf("M%s %s A%s %s 0 %d 1 %s %s", trimFloat(x1), trimFloat(y1), trimFloat(rx), trimFloat(ry), large, trimFloat(x2), trimFloat(y2))
	}
	pts := pointsProp(s)
	if len(pts) == 0 {
		return ""
	}
	closed := boolProp(s, "closed")
	d := fmt.Sprintf("M%s %s", trimFloat(pts[0].X), trimFloat(pts[0].Y))
	for _, p := range pts[1:] {
		d += fmt.Sprintf(" L%s %s", trimFloat(p.X), trimFloat(p.Y))
	}
	if closed {
		d += " Z"
	}
	return d
}

func stringProp(s *ast.Shape, name string) string {
	if v, ok := s.Props[name]; ok && v.Kind == ast.ValString {
		return v.Str
	}
	return ""
}

func numberProp(s *ast.Shape, name string, def float64) float64 {
	if v, ok := s.Props[name]; ok && v.Kind == ast.ValNumber {
		return v.Num
	}
	return def
}

func boolProp(s *ast.Shape, name string) bool {
	v, ok := s.Props[name]
	return ok && !v.IsNone()
}

func pointsProp(s *ast.Shape) []Point {
	v, ok := s.Props["points"]
	if !ok || v.Kind != ast.ValPoints {
		return nil
	}
	out := make([]Point, len(v.Points))
	for i, p := range v.Points {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func valueString(v ast.Value, def string) string {
	if v.Kind == ast.ValString {
		return v.Str
	}
	return def
}

func valueFloat(v ast.Value, def float64) float64 {
	if v.Kind == ast.ValNumber {
		return v.Num
	}
	return def
}

func weightOf(bold bool) string {
	if bold {
		return "bold"
	}
	return "normal"
}

func anchorOf(center, end bool) string {
	switch {
	case center:
		return "middle"
	case end:
		return "end"
	default:
		return "start"
	}
}

func cfgOr(h, def float64) float64 {
	if h > 0 {
		return h
	}
	return def
}

func graphKey(nodes []ast.GraphNode) []byte {
	h := identity.NewFnv1a()
	for _, n := range nodes {
		h.WriteString(n.ID)
	}
	sum := h.Sum()
	return []byte{byte(sum), byte(sum >> 8), byte(sum >> 16), byte(sum >> 24), byte(sum >> 32), byte(sum >> 40), byte(sum >> 48), byte(sum >> 56)}
}

func posKey(x, y float64) []byte {
	h := identity.NewFnv1a()
	h.WriteFloat64(x)
	h.WriteFloat64(y)
	sum := h.Sum()
	return []byte{byte(sum), byte(sum >> 8), byte(sum >> 16), byte(sum >> 24), byte(sum >> 32), byte(sum >> 40), byte(sum >> 48), byte(sum >> 56)}
}

func pointsKey(pts []Point) []byte {
	h := identity.NewFnv1a()
	for _, p := range pts {
		h.WriteFloat64(p.X)
		h.WriteFloat64(p.Y)
	}
	sum := h.Sum()
	return []byte{byte(sum), byte(sum >> 8), byte(sum >> 16), byte(sum >> 24), byte(sum >> 32), byte(sum >> 40), byte(sum >> 48), byte(sum >> 56)}
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
