// Package scene holds the canonical runtime representation: a concrete,
// fully-resolved element tree with numeric geometry, produced from a
// resolved ast.Scene plus the rectangles computed by package layout. It is
// what the diff engine compares and what the serializer renders.
package scene

import (
	"scenelang/ast"
	"scenelang/identity"
)

// Style is the style record every concrete element carries.
type Style struct {
	Fill        string
	HasFill     bool
	Stroke      string
	HasStroke   bool
	StrokeWidth float64
	Opacity     float64
	Corner      float64
	Filter      string
	HasFilter   bool
}

// DefaultStyle mirrors the zero-value style a shape with no style block
// renders with: fully opaque, no fill/stroke.
func DefaultStyle() Style {
	return Style{Opacity: 1}
}

// ElementKind is the discriminant for the sum-type Element payload; it
// shares its ordinal space with identity.ElementKind for the kinds both
// packages need to agree on, but is its own type so scene doesn't leak
// identity's hashing vocabulary into its public surface.
type ElementKind int

const (
	KindRect ElementKind = iota
	KindCircle
	KindEllipse
	KindLine
	KindPath
	KindPolygon
	KindText
	KindImage
	KindDiamond
	KindNode
	KindEdge
	KindGroup
	KindGraph
)

// Point is a plain 2D coordinate, used for Polygon vertices.
type Point struct{ X, Y float64 }

// Rect is the rectangle element.
type Rect struct {
	X, Y, W, H float64
	RX         float64
	Style      Style
	Transform  string
}

// Circle is the circle element.
type Circle struct {
	CX, CY, R float64
	Style     Style
	Transform string
}

// Ellipse is the ellipse element.
type Ellipse struct {
	CX, CY, RX, RY float64
	Style          Style
	Transform      string
}

// Line is the line element; its default stroke is black when the source
// shape carried no stroke color, matching the rule that an invisible line
// is never useful.
type Line struct {
	X1, Y1, X2, Y2 float64
	Style          Style
	Transform      string
}

// Path is the arbitrary vector-path element.
type Path struct {
	D         string
	Style     Style
	Transform string
}

// Polygon is the closed point-list element.
type Polygon struct {
	Points    []Point
	Style     Style
	Transform string
}

// Text is the text-run element.
type Text struct {
	X, Y      float64
	Content   string
	Font      string
	Size      float64
	Weight    string
	Anchor    string
	Style     Style
	Transform string
}

// Image is the external-reference element. Resource loading is out of
// scope; this element only carries the reference string.
type Image struct {
	X, Y, W, H float64
	Href       string
	Transform  string
}

// Diamond is a rotated-rect element, bounded the same way a Rect is for
// diffing/identity purposes.
type Diamond struct {
	CX, CY, W, H float64
	Style        Style
	Transform    string
}

// GraphNode is one rendered node inside a Graph container.
type GraphNode struct {
	ID    string
	Shape ast.ShapeKind
	Label string
	CX, CY, W, H float64
	Style Style
}

// Anchor returns the point on n's border closest to the given side, used
// to compute edge endpoints.
func (n GraphNode) Anchor(side string) (float64, float64) {
	switch side {
	case "top":
		return n.CX, n.CY - n.H/2
	case "bottom":
		return n.CX, n.CY + n.H/2
	case "left":
		return n.CX - n.W/2, n.CY
	default: // "right"
		return n.CX + n.W/2, n.CY
	}
}

// GraphEdge is one rendered edge inside a Graph container, with endpoints
// already resolved against its from/to node positions.
type GraphEdge struct {
	FromID, ToID   string
	FromX, FromY   float64
	ToX, ToY       float64
	EdgeKind       string
	Arrow          ast.ArrowDir
	Label          string
	Style          Style
}

// Node is a standalone graph-node element (outside a Graph container).
type Node struct {
	GraphNode
}

// Edge is a standalone graph-edge element (outside a Graph container).
type Edge struct {
	GraphEdge
}

// Graph is the node+edge container element.
type Graph struct {
	Layout  ast.GraphLayout
	Dir     ast.LayoutDirection
	Spacing float64
	Nodes   []GraphNode
	Edges   []GraphEdge
}

// Bounds returns the bounding box of every node in g, or a zero rect when
// g has no nodes.
func (g Graph) Bounds() (x, y, w, h float64) {
	if len(g.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY := g.Nodes[0].CX-g.Nodes[0].W/2, g.Nodes[0].CY-g.Nodes[0].H/2
	maxX, maxY := g.Nodes[0].CX+g.Nodes[0].W/2, g.Nodes[0].CY+g.Nodes[0].H/2
	for _, n := range g.Nodes[1:] {
		x0, y0 := n.CX-n.W/2, n.CY-n.H/2
		x1, y1 := n.CX+n.W/2, n.CY+n.H/2
		minX, minY = min(minX, x0), min(minY, y0)
		maxX, maxY = max(maxX, x1), max(maxY, y1)
	}
	return minX, minY, maxX - minX, maxY - minY
}

// Group is a bare element list with an optional shared transform.
type Group struct {
	Children  []Element
	Transform string
	HasTransform bool
}

// Element is a renderable scene member: exactly one payload field is
// meaningful, selected by Kind.
type Element struct {
	Kind    ElementKind
	ID      identity.ElementID
	Content identity.ContentHash

	Rect    Rect
	Circle  Circle
	Ellipse Ellipse
	Line    Line
	Path    Path
	Polygon Polygon
	Text    Text
	Image   Image
	Diamond Diamond
	Node    Node
	Edge    Edge
	Group   Group
	Graph   Graph
}

// Gradient is a fill-gradient definition referenced by style.fill/stroke
// as `url(#id)`.
type Gradient struct {
	ID        string
	Kind      string // "linear" or "radial"
	FromColor string
	ToColor   string
	Angle     float64
}

// Filter is a filter-effect definition referenced by style.filter.
type Filter struct {
	ID    string
	Kind  string
	DX, DY, Blur float64
	Color string
}

// Symbol is a reusable sub-tree definition, keyed by id.
type Symbol struct {
	ID       string
	ViewBox  string
	HasViewBox bool
	Children []Element
}

// Document is the canonical scene: a canvas size/background plus every
// definition and element derived from one resolved ast.Scene.
type Document struct {
	RenderID  string
	Size      ast.CanvasSize
	Pixels    float64
	Fill      string
	HasFill   bool
	Elements  []Element
	Gradients []Gradient
	Filters   []Filter
	Symbols   []Symbol
}
