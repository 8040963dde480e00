// Package diff compares two scene.Document snapshots and produces a minimal,
// ordered patch stream a downstream consumer can apply incrementally instead
// of re-rendering the whole scene. Matching is identity-based (stable across
// a style edit; for kinds whose identity key is their position, a moved
// element is a Remove plus an Add); changes are detected via content hash.
package diff

import (
	"scenelang/identity"
	"scenelang/scene"
)

// OpKind discriminates a single patch entry.
type OpKind int

const (
	OpFullRedraw OpKind = iota
	OpAdd
	OpRemove
	OpUpdate
	OpMove
	OpUpdateDefs
)

// Attr is one changed attribute: name plus its new value, pre-formatted the
// way a full serialization would render it.
type Attr struct {
	Name  string
	Value string
}

// Op is one entry in a patch stream. Only the fields relevant to Kind are
// populated.
type Op struct {
	Kind OpKind
	ID   identity.ElementID

	Idx        int // Add, Remove, Update: the element's index in its scene
	From, To   int // Move: old index -> new index
	Attrs      []Attr
	SVG        string // Add: full serialization. Update: fallback when Attrs is large.
}

// Result is a complete diff outcome.
type Result struct {
	Ops           []Op
	CanvasChanged bool
}

// FullRedrawResult is the sentinel returned when the canvas itself changed.
func FullRedrawResult() Result {
	return Result{Ops: []Op{{Kind: OpFullRedraw}}, CanvasChanged: true}
}

// IsEmpty reports whether r carries no patches at all.
func (r Result) IsEmpty() bool { return len(r.Ops) == 0 }

// NeedsFullRedraw reports whether r's only sane application is a full
// re-render, either because the canvas changed or a FullRedraw op is present.
func (r Result) NeedsFullRedraw() bool {
	if r.CanvasChanged {
		return true
	}
	for _, op := range r.Ops {
		if op.Kind == OpFullRedraw {
			return true
		}
	}
	return false
}

// DefaultAttrThreshold is the stock attribute-count above which an Update op
// carries a full serialization fallback instead of an attribute list.
const DefaultAttrThreshold = 3

// Diff compares old against new and returns the patch stream that would turn
// a consumer state built from old into one equivalent to new. Given the same
// two documents it is byte-for-byte deterministic; diff(A, A) is always
// empty. attrThreshold is the per-element changed-attribute count above
// which an Update op falls back to a full serialization.
func Diff(old, new scene.Document, attrThreshold int) Result {
	if old.Pixels != new.Pixels || old.Fill != new.Fill || old.HasFill != new.HasFill {
		return FullRedrawResult()
	}

	oldIndexByID := make(map[identity.ElementID]int, len(old.Elements))
	for i, el := range old.Elements {
		oldIndexByID[el.ID] = i
	}

	var ops []Op
	matched := make([]bool, len(old.Elements))

	for newIdx, newEl := range new.Elements {
		oldIdx, ok := oldIndexByID[newEl.ID]
		if !ok {
			ops = append(ops, Op{Kind: OpAdd, ID: newEl.ID, Idx: newIdx, SVG: scene.Serialize(newEl)})
			continue
		}
		matched[oldIdx] = true
		oldEl := old.Elements[oldIdx]

		if oldEl.Content != newEl.Content {
			attrs := diffAttrs(oldEl, newEl)
			svg := ""
			if len(attrs) > attrThreshold {
				svg = scene.Serialize(newEl)
			}
			ops = append(ops, Op{Kind: OpUpdate, ID: newEl.ID, Idx: newIdx, Attrs: attrs, SVG: svg})
		}
		if oldIdx != newIdx {
			ops = append(ops, Op{Kind: OpMove, ID: newEl.ID, From: oldIdx, To: newIdx})
		}
	}

	for oldIdx := len(old.Elements) - 1; oldIdx >= 0; oldIdx-- {
		if !matched[oldIdx] {
			ops = append(ops, Op{Kind: OpRemove, ID: old.Elements[oldIdx].ID, Idx: oldIdx})
		}
	}

	oldDefs := buildDefsString(old)
	newDefs := buildDefsString(new)
	if oldDefs != newDefs {
		ops = append(ops, Op{Kind: OpUpdateDefs, SVG: newDefs})
	}

	return Result{Ops: ops}
}

func buildDefsString(doc scene.Document) string {
	s := ""
	for _, g := range doc.Gradients {
		s += gradientKey(g)
	}
	for _, f := range doc.Filters {
		s += filterKey(f)
	}
	return s
}

func gradientKey(g scene.Gradient) string {
	return g.ID + "|" + g.Kind + "|" + g.FromColor + "|" + g.ToColor + "|" + scene.FormatNum(g.Angle)
}

func filterKey(f scene.Filter) string {
	return f.ID + "|" + f.Kind + "|" + scene.FormatNum(f.DX) + "|" + scene.FormatNum(f.DY) + "|" + scene.FormatNum(f.Blur) + "|" + f.Color
}

// diffAttrs compares geometric fields individually per concrete kind, then
// appends style and transform deltas uniformly. Kinds with no corpus-defined
// field list (diamond, node, edge) are diffed against their closest
// geometric analogue.
func diffAttrs(o, n scene.Element) []Attr {
	var a []Attr
	switch n.Kind {
	case scene.KindRect:
		or, nr := o.Rect, n.Rect
		numAttr(&a, "x", or.X, nr.X)
		numAttr(&a, "y", or.Y, nr.Y)
		numAttr(&a, "width", or.W, nr.W)
		numAttr(&a, "height", or.H, nr.H)
		numAttr(&a, "rx", or.RX, nr.RX)
		diffStyle(&a, or.Style, nr.Style)
		diffTransform(&a, or.Transform, nr.Transform)
	case scene.KindCircle:
		oc, nc := o.Circle, n.Circle
		numAttr(&a, "cx", oc.CX, nc.CX)
		numAttr(&a, "cy", oc.CY, nc.CY)
		numAttr(&a, "r", oc.R, nc.R)
		diffStyle(&a, oc.Style, nc.Style)
		diffTransform(&a, oc.Transform, nc.Transform)
	case scene.KindEllipse:
		oe, ne := o.Ellipse, n.Ellipse
		numAttr(&a, "cx", oe.CX, ne.CX)
		numAttr(&a, "cy", oe.CY, ne.CY)
		numAttr(&a, "rx", oe.RX, ne.RX)
		numAttr(&a, "ry", oe.RY, ne.RY)
		diffStyle(&a, oe.Style, ne.Style)
		diffTransform(&a, oe.Transform, ne.Transform)
	case scene.KindLine:
		ol, nl := o.Line, n.Line
		numAttr(&a, "x1", ol.X1, nl.X1)
		numAttr(&a, "y1", ol.Y1, nl.Y1)
		numAttr(&a, "x2", ol.X2, nl.X2)
		numAttr(&a, "y2", ol.Y2, nl.Y2)
		diffStyle(&a, ol.Style, nl.Style)
		diffTransform(&a, ol.Transform, nl.Transform)
	case scene.KindPath:
		op, np := o.Path, n.Path
		if op.D != np.D {
			a = append(a, Attr{"d", np.D})
		}
		diffStyle(&a, op.Style, np.Style)
		diffTransform(&a, op.Transform, np.Transform)
	case scene.KindPolygon:
		op, np := o.Polygon, n.Polygon
		if !pointsEqual(op.Points, np.Points) {
			a = append(a, Attr{"points", pointsString(np.Points)})
		}
		diffStyle(&a, op.Style, np.Style)
		diffTransform(&a, op.Transform, np.Transform)
	case scene.KindText:
		ot, nt := o.Text, n.Text
		numAttr(&a, "x", ot.X, nt.X)
		numAttr(&a, "y", ot.Y, nt.Y)
		if ot.Content != nt.Content {
			a = append(a, Attr{"textContent", nt.Content})
		}
		if ot.Font != nt.Font {
			a = append(a, Attr{"font-family", nt.Font})
		}
		numAttr(&a, "font-size", ot.Size, nt.Size)
		if ot.Weight != nt.Weight {
			a = append(a, Attr{"font-weight", nt.Weight})
		}
		if ot.Anchor != nt.Anchor {
			a = append(a, Attr{"text-anchor", nt.Anchor})
		}
		diffStyle(&a, ot.Style, nt.Style)
		diffTransform(&a, ot.Transform, nt.Transform)
	case scene.KindImage:
		oi, ni := o.Image, n.Image
		numAttr(&a, "x", oi.X, ni.X)
		numAttr(&a, "y", oi.Y, ni.Y)
		numAttr(&a, "width", oi.W, ni.W)
		numAttr(&a, "height", oi.H, ni.H)
		if oi.Href != ni.Href {
			a = append(a, Attr{"href", ni.Href})
		}
		diffTransform(&a, oi.Transform, ni.Transform)
	case scene.KindDiamond:
		od, nd := o.Diamond, n.Diamond
		numAttr(&a, "cx", od.CX, nd.CX)
		numAttr(&a, "cy", od.CY, nd.CY)
		numAttr(&a, "width", od.W, nd.W)
		numAttr(&a, "height", od.H, nd.H)
		diffStyle(&a, od.Style, nd.Style)
		diffTransform(&a, od.Transform, nd.Transform)
	case scene.KindNode:
		on, nn := o.Node.GraphNode, n.Node.GraphNode
		numAttr(&a, "cx", on.CX, nn.CX)
		numAttr(&a, "cy", on.CY, nn.CY)
		numAttr(&a, "r", on.W/2, nn.W/2)
		if on.Label != nn.Label {
			a = append(a, Attr{"label", nn.Label})
		}
		diffStyle(&a, on.Style, nn.Style)
	case scene.KindEdge:
		oe, ne := o.Edge.GraphEdge, n.Edge.GraphEdge
		numAttr(&a, "x1", oe.FromX, ne.FromX)
		numAttr(&a, "y1", oe.FromY, ne.FromY)
		numAttr(&a, "x2", oe.ToX, ne.ToX)
		numAttr(&a, "y2", oe.ToY, ne.ToY)
		if oe.Label != ne.Label {
			a = append(a, Attr{"label", ne.Label})
		}
		diffStyle(&a, oe.Style, ne.Style)
	}
	return a
}

func numAttr(a *[]Attr, name string, old, new float64) {
	if old != new {
		*a = append(*a, Attr{name, scene.FormatNum(new)})
	}
}

func diffStyle(a *[]Attr, old, new scene.Style) {
	if old.Fill != new.Fill || old.HasFill != new.HasFill {
		v := ""
		if new.HasFill {
			v = new.Fill
		}
		*a = append(*a, Attr{"fill", v})
	}
	if old.Stroke != new.Stroke || old.HasStroke != new.HasStroke {
		v := ""
		if new.HasStroke {
			v = new.Stroke
		}
		*a = append(*a, Attr{"stroke", v})
	}
	if old.StrokeWidth != new.StrokeWidth {
		*a = append(*a, Attr{"stroke-width", scene.FormatNum(new.StrokeWidth)})
	}
	if old.Opacity != new.Opacity {
		*a = append(*a, Attr{"opacity", scene.FormatNum(new.Opacity)})
	}
	if old.Filter != new.Filter || old.HasFilter != new.HasFilter {
		v := ""
		if new.HasFilter {
			v = "url(#" + new.Filter + ")"
		}
		*a = append(*a, Attr{"filter", v})
	}
}

func diffTransform(a *[]Attr, old, new string) {
	if old != new {
		*a = append(*a, Attr{"transform", new})
	}
}

func pointsString(pts []scene.Point) string {
	s := ""
	for i, p := range pts {
		if i > 0 {
			s += " "
		}
		s += scene.FormatNum(p.X) + "," + scene.FormatNum(p.Y)
	}
	return s
}

func pointsEqual(a, b []scene.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
