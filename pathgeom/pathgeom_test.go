package pathgeom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBoundsLine(t *testing.T) {
	b := ParsePathBounds("M0 0 L100 50")
	assert.InDelta(t, 0.0, b.X, 0.01)
	assert.InDelta(t, 0.0, b.Y, 0.01)
	assert.InDelta(t, 100.0, b.W, 0.01)
	assert.InDelta(t, 50.0, b.H, 0.01)
}

func TestPathBoundsCubic(t *testing.T) {
	b := ParsePathBounds("M0 50 C0 0, 100 0, 100 50")
	assert.Less(t, b.Y, 50.0)
	assert.GreaterOrEqual(t, b.X, -0.01)
	assert.LessOrEqual(t, b.X+b.W, 100.01)
}

func TestPathBoundsQuadratic(t *testing.T) {
	b := ParsePathBounds("M0 0 Q50 100, 100 0")
	assert.GreaterOrEqual(t, b.Y, -0.01)
	assert.GreaterOrEqual(t, b.Y+b.H, 45.0)
}

// Scenario 8: path "M0 50 A50 50 0 0 1 100 50" has bounds with width
// within ±1.0 of 100.0.
func TestPathBoundsArcWidthWithinOnePixelOfHundred(t *testing.T) {
	b := ParsePathBounds("M0 50 A50 50 0 0 1 100 50")
	assert.InDelta(t, 100.0, b.W, 1.0)
	assert.LessOrEqual(t, b.Y, 50.0)
	assert.GreaterOrEqual(t, b.Y+b.H, 50.0)
}

func TestPathBoundsSmoothCubic(t *testing.T) {
	b := ParsePathBounds("M0 0 C10 20 20 20 30 0 S50 -20 60 0")
	assert.GreaterOrEqual(t, b.X, -0.01)
	assert.LessOrEqual(t, b.X+b.W, 60.01)
}

func TestPathBoundsSmoothQuadratic(t *testing.T) {
	b := ParsePathBounds("M0 0 Q25 50 50 0 T100 0")
	assert.GreaterOrEqual(t, b.X, -0.01)
	assert.LessOrEqual(t, b.X+b.W, 100.01)
	assert.GreaterOrEqual(t, b.Y+b.H, 20.0)
}

func TestPathBoundsRelativeCommands(t *testing.T) {
	b := ParsePathBounds("m0 0 l50 50 h10 v-10 z")
	assert.InDelta(t, 0.0, b.X, 0.01)
	assert.InDelta(t, 0.0, b.Y, 0.01)
	assert.InDelta(t, 60.0, b.W, 0.01)
	assert.InDelta(t, 50.0, b.H, 0.01)
}

func TestPathBoundsEmptyPathIsZeroRect(t *testing.T) {
	b := ParsePathBounds("")
	assert.Equal(t, Bounds{}, b)
}

func TestPathBoundsIgnoresUnknownOrTruncatedCommands(t *testing.T) {
	assert.NotPanics(t, func() {
		ParsePathBounds("M0 0 C1 2 3")
		ParsePathBounds("X garbage")
		ParsePathBounds("A1 1")
	})
}

func TestExtractNumbersHandlesUnseparatedSigns(t *testing.T) {
	nums := extractNumbers("100-50.5")
	assert.Equal(t, []float64{100, -50.5}, nums)
}

func TestExtractNumbersHandlesScientificNotation(t *testing.T) {
	nums := extractNumbers("1e2 -3e-1")
	assert.Equal(t, []float64{100, -0.3}, nums)
}
