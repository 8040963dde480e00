// Package pathgeom computes a tight axis-aligned bounding box for an SVG
// path "d" attribute string, without building an intermediate path object:
// every command updates a running cursor and tracks bezier/arc extrema
// directly against a min/max accumulator.
package pathgeom

import "math"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	X, Y, W, H float64
}

// ParsePathBounds parses d and returns its tight bounding box. An empty or
// unparseable path returns the zero Bounds.
func ParsePathBounds(d string) Bounds {
	nums := extractNumbers(d)
	cmds := extractCommands(d)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	track := func(x, y float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}

	var curX, curY, startX, startY float64
	var lastCtrlX, lastCtrlY float64
	lastCmd := byte(' ')
	idx := 0

	need := func(n int) bool { return idx+n <= len(nums) }

	for _, cmd := range cmds {
		switch cmd {
		case 'M':
			if need(2) {
				curX, curY = nums[idx], nums[idx+1]
				startX, startY = curX, curY
				track(curX, curY)
				idx += 2
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'm':
			if need(2) {
				curX += nums[idx]
				curY += nums[idx+1]
				startX, startY = curX, curY
				track(curX, curY)
				idx += 2
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'L':
			if need(2) {
				curX, curY = nums[idx], nums[idx+1]
				track(curX, curY)
				idx += 2
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'l':
			if need(2) {
				curX += nums[idx]
				curY += nums[idx+1]
				track(curX, curY)
				idx += 2
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'H':
			if need(1) {
				curX = nums[idx]
				track(curX, curY)
				idx++
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'h':
			if need(1) {
				curX += nums[idx]
				track(curX, curY)
				idx++
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'V':
			if need(1) {
				curY = nums[idx]
				track(curX, curY)
				idx++
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'v':
			if need(1) {
				curY += nums[idx]
				track(curX, curY)
				idx++
				lastCtrlX, lastCtrlY = curX, curY
			}
		case 'C':
			if need(6) {
				x0, y0 := curX, curY
				x1, y1, x2, y2, x3, y3 := nums[idx], nums[idx+1], nums[idx+2], nums[idx+3], nums[idx+4], nums[idx+5]
				cubicBezierBounds(x0, y0, x1, y1, x2, y2, x3, y3, track)
				curX, curY, lastCtrlX, lastCtrlY = x3, y3, x2, y2
				idx += 6
			}
		case 'c':
			if need(6) {
				x0, y0 := curX, curY
				x1, y1 := curX+nums[idx], curY+nums[idx+1]
				x2, y2 := curX+nums[idx+2], curY+nums[idx+3]
				x3, y3 := curX+nums[idx+4], curY+nums[idx+5]
				cubicBezierBounds(x0, y0, x1, y1, x2, y2, x3, y3, track)
				curX, curY, lastCtrlX, lastCtrlY = x3, y3, x2, y2
				idx += 6
			}
		case 'S':
			if need(4) {
				x0, y0 := curX, curY
				x1, y1 := reflectedControl(lastCmd, curX, curY, lastCtrlX, lastCtrlY, 'C', 'c', 'S', 's')
				x2, y2, x3, y3 := nums[idx], nums[idx+1], nums[idx+2], nums[idx+3]
				cubicBezierBounds(x0, y0, x1, y1, x2, y2, x3, y3, track)
				curX, curY, lastCtrlX, lastCtrlY = x3, y3, x2, y2
				idx += 4
			}
		case 's':
			if need(4) {
				x0, y0 := curX, curY
				x1, y1 := reflectedControl(lastCmd, curX, curY, lastCtrlX, lastCtrlY, 'C', 'c', 'S', 's')
				x2, y2 := curX+nums[idx], curY+nums[idx+1]
				x3, y3 := curX+nums[idx+2], curY+nums[idx+3]
				cubicBezierBounds(x0, y0, x1, y1, x2, y2, x3, y3, track)
				curX, curY, lastCtrlX, lastCtrlY = x3, y3, x2, y2
				idx += 4
			}
		case 'Q':
			if need(4) {
				x0, y0 := curX, curY
				x1, y1, x2, y2 := nums[idx], nums[idx+1], nums[idx+2], nums[idx+3]
				quadraticBezierBounds(x0, y0, x1, y1, x2, y2, track)
				curX, curY, lastCtrlX, lastCtrlY = x2, y2, x1, y1
				idx += 4
			}
		case 'q':
			if need(4) {
				x0, y0 := curX, curY
				x1, y1 := curX+nums[idx], curY+nums[idx+1]
				x2, y2 := curX+nums[idx+2], curY+nums[idx+3]
				quadraticBezierBounds(x0, y0, x1, y1, x2, y2, track)
				curX, curY, lastCtrlX, lastCtrlY = x2, y2, x1, y1
				idx += 4
			}
		case 'T':
			if need(2) {
				x0, y0 := curX, curY
				x1, y1 := reflectedControl(lastCmd, curX, curY, lastCtrlX, lastCtrlY, 'Q', 'q', 'T', 't')
				x2, y2 := nums[idx], nums[idx+1]
				quadraticBezierBounds(x0, y0, x1, y1, x2, y2, track)
				curX, curY, lastCtrlX, lastCtrlY = x2, y2, x1, y1
				idx += 2
			}
		case 't':
			if need(2) {
				x0, y0 := curX, curY
				x1, y1 := reflectedControl(lastCmd, curX, curY, lastCtrlX, lastCtrlY, 'Q', 'q', 'T', 't')
				x2, y2 := curX+nums[idx], curY+nums[idx+1]
				quadraticBezierBounds(x0, y0, x1, y1, x2, y2, track)
				curX, curY, lastCtrlX, lastCtrlY = x2, y2, x1, y1
				idx += 2
			}
		case 'A':
			if need(7) {
				rx, ry := math.Abs(nums[idx]), math.Abs(nums[idx+1])
				phi := nums[idx+2]
				largeArc, sweep := nums[idx+3] != 0, nums[idx+4] != 0
				x2, y2 := nums[idx+5], nums[idx+6]
				arcBounds(curX, curY, rx, ry, phi, largeArc, sweep, x2, y2, track)
				curX, curY = x2, y2
				lastCtrlX, lastCtrlY = curX, curY
				idx += 7
			}
		case 'a':
			if need(7) {
				rx, ry := math.Abs(nums[idx]), math.Abs(nums[idx+1])
				phi := nums[idx+2]
				largeArc, sweep := nums[idx+3] != 0, nums[idx+4] != 0
				x2, y2 := curX+nums[idx+5], curY+nums[idx+6]
				arcBounds(curX, curY, rx, ry, phi, largeArc, sweep, x2, y2, track)
				curX, curY = x2, y2
				lastCtrlX, lastCtrlY = curX, curY
				idx += 7
			}
		case 'Z', 'z':
			curX, curY = startX, startY
			lastCtrlX, lastCtrlY = curX, curY
		}
		lastCmd = cmd
	}

	if math.IsInf(minX, 1) {
		return Bounds{}
	}
	return Bounds{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// reflectedControl computes the reflected first control point for a smooth
// S/T command: the point symmetric to the previous curve's last control
// point about the current cursor, unless the previous command was not a
// curve of the matching family, in which case the reflection degenerates
// to the cursor itself.
func reflectedControl(lastCmd byte, curX, curY, lastCtrlX, lastCtrlY float64, family ...byte) (float64, float64) {
	for _, f := range family {
		if lastCmd == f {
			return 2*curX - lastCtrlX, 2*curY - lastCtrlY
		}
	}
	return curX, curY
}
