package layout

import "scenelang/ast"

// layoutContainer resolves a stack/row shape's own box, then distributes
// its children along the main axis per justify-content and positions them
// on the cross axis per align-items, recursing into each child afterward.
func layoutContainer(s *ast.Shape, parent Rect, cfg Config, out map[*ast.Shape]Rect) Rect {
	outer := containerOuterBox(s, parent, cfg)
	inner := applyPadding(s, outer, cfg)

	horizontal := s.Layout.Direction == ast.DirHorizontal
	children := childShapes(s)
	naturals := make([]Rect, len(children))
	for i, c := range children {
		naturals[i] = naturalSize(c, inner, cfg)
	}

	mainExtent := inner.W
	if !horizontal {
		mainExtent = inner.H
	}

	gap := s.Layout.Gap.Resolve(mainExtent, 0)
	sumMain := 0.0
	for _, nrect := range naturals {
		sumMain += mainSize(nrect, horizontal)
	}
	count := len(children)
	gapsTotal := 0.0
	if count > 1 {
		gapsTotal = gap * float64(count-1)
	}

	if !hasExplicitMainDim(s, horizontal) {
		mainExtent = sumMain + gapsTotal
		outer, inner = resizeContainerAlongMain(s, outer, inner, horizontal, mainExtent)
	}

	if !hasExplicitCrossDim(s, horizontal) {
		maxCross := 0.0
		for _, nrect := range naturals {
			if c := crossSize(nrect, horizontal); c > maxCross {
				maxCross = c
			}
		}
		outer, inner = resizeContainerAlongMain(s, outer, inner, !horizontal, maxCross)
	}

	remaining := mainExtent - sumMain - gapsTotal
	if remaining < 0 {
		remaining = 0
	}
	lead, gapBetween := distribute(s.Layout.Justify, remaining, gap, count)

	crossExtent := inner.H
	if horizontal {
		crossExtent = inner.H
	} else {
		crossExtent = inner.W
	}

	cursor := lead
	for i, c := range children {
		nrect := naturals[i]
		crossPos, crossSz := alignChild(s.Layout.Align, crossExtent, crossSize(nrect, horizontal))

		var rect Rect
		if horizontal {
			rect = Rect{X: inner.X + cursor, Y: inner.Y + crossPos, W: nrect.W, H: crossSz}
			cursor += rect.W + gapBetween
		} else {
			rect = Rect{X: inner.X + crossPos, Y: inner.Y + cursor, W: crossSz, H: nrect.H}
			cursor += rect.H + gapBetween
		}

		if c.Kind == ast.ShapeLayout {
			rect = layoutContainer(c, rect, cfg, out)
		}
		out[c] = rect
		for _, gc := range c.Children {
			if c.Kind != ast.ShapeLayout {
				placeNode(gc, rect, cfg, out)
			}
		}
	}

	return outer
}

func mainSize(r Rect, horizontal bool) float64 {
	if horizontal {
		return r.W
	}
	return r.H
}

func crossSize(r Rect, horizontal bool) float64 {
	if horizontal {
		return r.H
	}
	return r.W
}

func childShapes(s *ast.Shape) []*ast.Shape {
	var out []*ast.Shape
	for _, c := range s.Children {
		if sh, ok := c.(*ast.Shape); ok {
			out = append(out, sh)
		}
	}
	return out
}

// hasExplicitMainDim reports whether the container declares a non-auto
// size along its own main axis (via width/height/size props).
func hasExplicitMainDim(s *ast.Shape, horizontal bool) bool {
	name := "height"
	if horizontal {
		name = "width"
	}
	if _, ok := s.Props[name]; ok {
		return true
	}
	if size, ok := s.Props["size"]; ok {
		return size.Kind != ast.ValNone
	}
	return false
}

// hasExplicitCrossDim is hasExplicitMainDim for the container's cross axis.
func hasExplicitCrossDim(s *ast.Shape, horizontal bool) bool {
	return hasExplicitMainDim(s, !horizontal)
}

func containerOuterBox(s *ast.Shape, parent Rect, cfg Config) Rect {
	natural := naturalSize(s, parent, cfg)
	x, y := resolvePosition(s, parent, natural)
	return Rect{X: x, Y: y, W: natural.W, H: natural.H}
}

func applyPadding(s *ast.Shape, outer Rect, cfg Config) Rect {
	if !s.Layout.HasPadding {
		if cfg.DefaultPadding == 0 {
			return outer
		}
		d := cfg.DefaultPadding
		return Rect{X: outer.X + d, Y: outer.Y + d, W: outer.W - 2*d, H: outer.H - 2*d}
	}
	p := s.Layout.Padding
	top := p.Top.Resolve(outer.H, 0)
	right := p.Right.Resolve(outer.W, 0)
	bottom := p.Bottom.Resolve(outer.H, 0)
	left := p.Left.Resolve(outer.W, 0)
	return Rect{
		X: outer.X + left,
		Y: outer.Y + top,
		W: outer.W - left - right,
		H: outer.H - top - bottom,
	}
}

// resizeContainerAlongMain grows (or shrinks) the container's own box and
// its padded inner box to fit mainExtent along the main axis, used when
// the container's own size is Auto — content-derived auto-sizing.
func resizeContainerAlongMain(s *ast.Shape, outer, inner Rect, horizontal bool, mainExtent float64) (Rect, Rect) {
	padBefore, padAfter := 0.0, 0.0
	if s.Layout.HasPadding {
		if horizontal {
			padBefore, padAfter = s.Layout.Padding.Left.Resolve(outer.W, 0), s.Layout.Padding.Right.Resolve(outer.W, 0)
		} else {
			padBefore, padAfter = s.Layout.Padding.Top.Resolve(outer.H, 0), s.Layout.Padding.Bottom.Resolve(outer.H, 0)
		}
	}
	total := mainExtent + padBefore + padAfter
	if horizontal {
		outer.W = total
		inner.W = mainExtent
	} else {
		outer.H = total
		inner.H = mainExtent
	}
	return outer, inner
}

// distribute implements the justify-content algorithm, returning the
// leading offset before the first child and the gap applied between
// consecutive children (which replaces the declared gap for the space-*
// variants), per the §4.4 distribution rules.
func distribute(j ast.Justify, remaining, gap float64, count int) (lead, gapBetween float64) {
	if count == 0 {
		return 0, gap
	}
	switch j {
	case ast.JustifyEnd:
		return remaining, gap
	case ast.JustifyCenter:
		return remaining / 2, gap
	case ast.JustifySpaceBetween:
		if count == 1 {
			return 0, gap
		}
		return 0, gap + remaining/float64(count-1)
	case ast.JustifySpaceAround:
		extra := remaining / float64(count)
		return extra / 2, gap + extra
	case ast.JustifySpaceEvenly:
		extra := remaining / float64(count+1)
		return extra, gap + extra
	default: // JustifyStart
		return 0, gap
	}
}

// alignChild implements align-items for one child on the cross axis,
// returning its offset within the container's cross extent and its
// (possibly stretched) cross-axis size.
func alignChild(a ast.Align, crossExtent, childCross float64) (pos, size float64) {
	switch a {
	case ast.AlignEnd:
		return crossExtent - childCross, childCross
	case ast.AlignCenter:
		return (crossExtent - childCross) / 2, childCross
	case ast.AlignStretch:
		return 0, crossExtent
	default: // AlignStart, AlignBaseline (treated as start)
		return 0, childCross
	}
}
