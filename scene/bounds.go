package scene

import "scenelang/pathgeom"

// Bounds returns el's axis-aligned bounding box, the geometric basis the
// diff engine and group/graph auto-bounds use. Each kind computes its own
// box from its concrete geometry; Path defers to package pathgeom.
func (el Element) Bounds() (x, y, w, h float64) {
	switch el.Kind {
	case KindRect:
		r := el.Rect
		return r.X, r.Y, r.W, r.H
	case KindCircle:
		c := el.Circle
		return c.CX - c.R, c.CY - c.R, c.R * 2, c.R * 2
	case KindEllipse:
		e := el.Ellipse
		return e.CX - e.RX, e.CY - e.RY, e.RX * 2, e.RY * 2
	case KindLine:
		l := el.Line
		x := min(l.X1, l.X2)
		y := min(l.Y1, l.Y2)
		return x, y, absf(l.X1 - l.X2), absf(l.Y1 - l.Y2)
	case KindPath:
		b := pathgeom.ParsePathBounds(el.Path.D)
		return b.X, b.Y, b.W, b.H
	case KindPolygon:
		return polygonBounds(el.Polygon.Points)
	case KindText:
		t := el.Text
		w := float64(len([]rune(t.Content))) * t.Size * 0.6
		h := t.Size * 1.2
		return t.X, t.Y - t.Size, w, h
	case KindImage:
		i := el.Image
		return i.X, i.Y, i.W, i.H
	case KindDiamond:
		d := el.Diamond
		return d.CX - d.W/2, d.CY - d.H/2, d.W, d.H
	case KindGroup:
		return groupBounds(el.Group.Children)
	case KindGraph:
		return el.Graph.Bounds()
	case KindNode:
		n := el.Node.GraphNode
		return n.CX - n.W/2, n.CY - n.H/2, n.W, n.H
	case KindEdge:
		e := el.Edge.GraphEdge
		x := min(e.FromX, e.ToX)
		y := min(e.FromY, e.ToY)
		return x, y, absf(e.FromX - e.ToX), absf(e.FromY - e.ToY)
	}
	return 0, 0, 0, 0
}

func polygonBounds(pts []Point) (x, y, w, h float64) {
	if len(pts) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
	}
	return minX, minY, maxX - minX, maxY - minY
}

func groupBounds(children []Element) (x, y, w, h float64) {
	if len(children) == 0 {
		return 0, 0, 0, 0
	}
	x0, y0, w0, h0 := children[0].Bounds()
	minX, minY, maxX, maxY := x0, y0, x0+w0, y0+h0
	for _, c := range children[1:] {
		cx, cy, cw, ch := c.Bounds()
		minX, minY = min(minX, cx), min(minY, cy)
		maxX, maxY = max(maxX, cx+cw), max(maxY, cy+ch)
	}
	return minX, minY, maxX - minX, maxY - minY
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
