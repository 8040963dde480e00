// Package layout computes absolute pixel rectangles for a resolved scene's
// shapes: a one-pass flex-style distribution for stack/row containers plus
// local anchor and centering constraints. It is deliberately not a general
// constraint solver; see the design note on the public Resolve signature.
package layout

import "scenelang/ast"

// Rect is an absolute axis-aligned pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Config holds the few implementation-chosen defaults the dimension
// resolution algorithm needs when a dimension is Auto.
type Config struct {
	// DefaultGlyphSize is the side length used for a leaf shape (circle
	// radius doubled, text box, etc.) that has no explicit size and is
	// not a container whose size derives from its children.
	DefaultGlyphSize float64

	// DefaultPadding is the inset applied to every side of a layout
	// container that declares no explicit padding of its own.
	DefaultPadding float64
}

// DefaultConfig returns the implementation's stock defaults.
func DefaultConfig() Config {
	return Config{DefaultGlyphSize: 16, DefaultPadding: 0}
}

// Resolve computes a rectangle for every *ast.Shape reachable from scene's
// top level, treating the canvas extent as the implicit root parent. The
// public surface is intentionally narrow — a map keyed by shape identity —
// so that a future iterative solver could replace the one-pass algorithm
// beneath it without changing callers.
func Resolve(scene ast.Scene, canvasW, canvasH float64, cfg Config) map[*ast.Shape]Rect {
	out := make(map[*ast.Shape]Rect)
	root := Rect{X: 0, Y: 0, W: canvasW, H: canvasH}
	for _, n := range scene.Children {
		placeNode(n, root, cfg, out)
	}
	return out
}

func placeNode(n ast.Node, parent Rect, cfg Config, out map[*ast.Shape]Rect) {
	shape, ok := n.(*ast.Shape)
	if !ok {
		return
	}
	placeShape(shape, parent, cfg, out)
}

func placeShape(s *ast.Shape, parent Rect, cfg Config, out map[*ast.Shape]Rect) Rect {
	if s.Kind == ast.ShapeLayout {
		rect := layoutContainer(s, parent, cfg, out)
		out[s] = rect
		return rect
	}

	natural := naturalSize(s, parent, cfg)
	x, y := resolvePosition(s, parent, natural)
	rect := Rect{X: x, Y: y, W: natural.W, H: natural.H}
	out[s] = rect
	for _, c := range s.Children {
		placeNode(c, rect, cfg, out)
	}
	return rect
}

// resolvePosition applies "at", then anchor, then centering, in that
// precedence order — anchor and centering override a plain "at" per the
// positional-constraint rules.
func resolvePosition(s *ast.Shape, parent Rect, natural Rect) (x, y float64) {
	x, y = parent.X, parent.Y
	if at, ok := s.Props["at"]; ok && at.Kind == ast.ValPair {
		x = parent.X + at.Pair.X
		y = parent.Y + at.Pair.Y
	}

	switch {
	case s.Constraint.CenterX:
		x = parent.X + (parent.W-natural.W)/2
	case s.Constraint.AnchorLeft != nil:
		x = parent.X + s.Constraint.AnchorLeft.Resolve(parent.W, 0)
	case s.Constraint.AnchorRight != nil:
		x = parent.X + parent.W - natural.W - s.Constraint.AnchorRight.Resolve(parent.W, 0)
	}

	switch {
	case s.Constraint.CenterY:
		y = parent.Y + (parent.H-natural.H)/2
	case s.Constraint.AnchorTop != nil:
		y = parent.Y + s.Constraint.AnchorTop.Resolve(parent.H, 0)
	case s.Constraint.AnchorBottom != nil:
		y = parent.Y + parent.H - natural.H - s.Constraint.AnchorBottom.Resolve(parent.H, 0)
	}

	if s.Constraint.FillParent {
		x, y = parent.X, parent.Y
	}
	return x, y
}

// naturalSize computes a shape's own width/height before any positioning,
// resolving percent dimensions against parent and falling back to the
// configured default glyph size for a leaf shape with nothing specified.
func naturalSize(s *ast.Shape, parent Rect, cfg Config) Rect {
	if s.Constraint.FillParent {
		return Rect{W: parent.W, H: parent.H}
	}

	if size, ok := s.Props["size"]; ok {
		return resolveSizeValue(size, parent, cfg)
	}

	if s.Kind == ast.ShapeCircle {
		if r, ok := s.Props["radius"]; ok && r.Kind == ast.ValNumber {
			d := r.Num * 2
			return Rect{W: d, H: d}
		}
	}

	w, hasW := resolveDimProp(s, "width", parent.W, cfg)
	h, hasH := resolveDimProp(s, "height", parent.H, cfg)
	if hasW || hasH {
		if !hasW {
			w = cfg.DefaultGlyphSize
		}
		if !hasH {
			h = cfg.DefaultGlyphSize
		}
		return Rect{W: w, H: h}
	}

	return Rect{W: cfg.DefaultGlyphSize, H: cfg.DefaultGlyphSize}
}

func resolveDimProp(s *ast.Shape, name string, parentExtent float64, cfg Config) (float64, bool) {
	v, ok := s.Props[name]
	if !ok {
		return 0, false
	}
	switch v.Kind {
	case ast.ValDimension:
		return v.Dim.Resolve(parentExtent, cfg.DefaultGlyphSize), true
	case ast.ValNumber:
		return v.Num, true
	}
	return 0, false
}

func resolveSizeValue(v ast.Value, parent Rect, cfg Config) Rect {
	switch v.Kind {
	case ast.ValPair:
		return Rect{W: v.Pair.X, H: v.Pair.Y}
	case ast.ValPercentPair:
		return Rect{W: parent.W * v.Pair.X / 100, H: parent.H * v.Pair.Y / 100}
	case ast.ValDimensionPair:
		return Rect{
			W: v.DimPair.W.Resolve(parent.W, cfg.DefaultGlyphSize),
			H: v.DimPair.H.Resolve(parent.H, cfg.DefaultGlyphSize),
		}
	default:
		return Rect{W: cfg.DefaultGlyphSize, H: cfg.DefaultGlyphSize}
	}
}
