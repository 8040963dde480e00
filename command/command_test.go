package command_test

import (
	"testing"

	"scenelang/command"
	"scenelang/layout"
	"scenelang/lex"
	"scenelang/parse"
	"scenelang/resolve"
	"scenelang/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T, src string) scene.Document {
	t.Helper()
	toks := lex.New(src, lex.DefaultConfig(), nil).Tokenize()
	tree, pd := parse.Parse(toks, parse.DefaultConfig(), nil)
	require.Empty(t, pd)
	resolved, rd := resolve.Resolve(tree, nil)
	require.Empty(t, rd)
	doc, bd := scene.Build(resolved, layout.DefaultConfig())
	require.Empty(t, bd)
	return doc
}

func TestAddRemoveElementRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	rect := scene.Element{Kind: scene.KindRect, Rect: scene.Rect{X: 10, Y: 10, W: 50, H: 50}}
	cmd := command.Command{Kind: command.KindAddElement, Element: rect, Index: 0}

	cmd.Apply(&doc)
	require.Len(t, doc.Elements, 1)

	cmd.Unapply(&doc)
	assert.Empty(t, doc.Elements)
}

func TestModifyStyleRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\nrect at 10,10 size 50,50\n  fill #f00\n")
	oldStyle := doc.Elements[0].Rect.Style
	newStyle := oldStyle
	newStyle.Fill, newStyle.HasFill = "#00f", true

	cmd := command.Command{Kind: command.KindModifyStyle, Index: 0, OldStyle: oldStyle, NewStyle: newStyle}

	cmd.Apply(&doc)
	assert.Equal(t, "#00f", doc.Elements[0].Rect.Style.Fill)

	cmd.Unapply(&doc)
	assert.Equal(t, "#f00", doc.Elements[0].Rect.Style.Fill)
}

func TestMoveElementRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\ncircle at 50,50 25\n")
	cmd := command.Command{Kind: command.KindMoveElement, Index: 0, DX: 10, DY: 20}

	cmd.Apply(&doc)
	assert.InDelta(t, 60.0, doc.Elements[0].Circle.CX, 0.01)
	assert.InDelta(t, 70.0, doc.Elements[0].Circle.CY, 0.01)

	cmd.Unapply(&doc)
	assert.InDelta(t, 50.0, doc.Elements[0].Circle.CX, 0.01)
	assert.InDelta(t, 50.0, doc.Elements[0].Circle.CY, 0.01)
}

func TestMoveElementTranslatesPolygonPoints(t *testing.T) {
	doc := buildDoc(t, "canvas medium\npolygon points [0,0 10,0 5,10]\n")
	cmd := command.Command{Kind: command.KindMoveElement, Index: 0, DX: 5, DY: 5}

	cmd.Apply(&doc)
	assert.InDelta(t, 5.0, doc.Elements[0].Polygon.Points[0].X, 0.01)
	assert.InDelta(t, 5.0, doc.Elements[0].Polygon.Points[0].Y, 0.01)
}

func TestReplaceElementRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\nrect at 0,0 size 10,10\n")
	old := doc.Elements[0]
	replacement := scene.Element{Kind: scene.KindCircle, Circle: scene.Circle{CX: 5, CY: 5, R: 5}}

	cmd := command.Command{Kind: command.KindReplaceElement, Index: 0, OldElement: old, NewElement: replacement}

	cmd.Apply(&doc)
	assert.Equal(t, scene.KindCircle, doc.Elements[0].Kind)

	cmd.Unapply(&doc)
	assert.Equal(t, scene.KindRect, doc.Elements[0].Kind)
}

func TestTransformRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\nrect at 0,0 size 10,10\n")
	cmd := command.Command{Kind: command.KindTransform, Index: 0, HasNewTransform: true, NewTransform: "rotate(45)"}

	cmd.Apply(&doc)
	assert.Equal(t, "rotate(45)", doc.Elements[0].Rect.Transform)

	cmd.Unapply(&doc)
	assert.Empty(t, doc.Elements[0].Rect.Transform)
}

func TestAddRemoveGradientRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	g := scene.Gradient{ID: "g1", Kind: "linear", FromColor: "#fff", ToColor: "#000"}
	cmd := command.Command{Kind: command.KindAddGradient, Gradient: g}

	cmd.Apply(&doc)
	require.Len(t, doc.Gradients, 1)

	cmd.Unapply(&doc)
	assert.Empty(t, doc.Gradients)
}

func TestAddRemoveFilterRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	f := scene.Filter{ID: "f1", Kind: "shadow", DX: 1, DY: 1, Blur: 2, Color: "#000"}
	cmd := command.Command{Kind: command.KindAddFilter, Filter: f}

	cmd.Apply(&doc)
	require.Len(t, doc.Filters, 1)

	cmd.Unapply(&doc)
	assert.Empty(t, doc.Filters)
}

func TestAddRemoveSymbolRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	s := scene.Symbol{ID: "dot"}
	cmd := command.Command{Kind: command.KindAddSymbol, Symbol: s}

	cmd.Apply(&doc)
	require.Len(t, doc.Symbols, 1)

	cmd.Unapply(&doc)
	assert.Empty(t, doc.Symbols)
}

func TestSetBackgroundRoundTrip(t *testing.T) {
	doc := buildDoc(t, "canvas medium fill #fff\n")
	cmd := command.Command{Kind: command.KindSetBackground, OldBackground: "#fff", NewBackground: "#000"}

	cmd.Apply(&doc)
	assert.Equal(t, "#000", doc.Fill)

	cmd.Unapply(&doc)
	assert.Equal(t, "#fff", doc.Fill)
}

func TestBatchAppliesAndUnappliesInOrder(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	rect := scene.Element{Kind: scene.KindRect, Rect: scene.Rect{W: 50, H: 50}}
	circle := scene.Element{Kind: scene.KindCircle, Circle: scene.Circle{CX: 100, CY: 100, R: 25}}

	batch := command.Command{Kind: command.KindBatch, Batch: []command.Command{
		{Kind: command.KindAddElement, Element: rect, Index: 0},
		{Kind: command.KindAddElement, Element: circle, Index: 1},
	}}

	batch.Apply(&doc)
	require.Len(t, doc.Elements, 2)

	batch.Unapply(&doc)
	assert.Empty(t, doc.Elements)
}

func TestInvertSetBackgroundSwapsOldAndNew(t *testing.T) {
	cmd := command.Command{Kind: command.KindSetBackground, OldBackground: "#fff", NewBackground: "#000"}
	inv := cmd.Invert()
	assert.Equal(t, "#000", inv.OldBackground)
	assert.Equal(t, "#fff", inv.NewBackground)
}

func TestInvertAddElementBecomesRemoveElement(t *testing.T) {
	rect := scene.Element{Kind: scene.KindRect}
	cmd := command.Command{Kind: command.KindAddElement, Element: rect, Index: 2}
	inv := cmd.Invert()
	assert.Equal(t, command.KindRemoveElement, inv.Kind)
	assert.Equal(t, 2, inv.Index)
}

func TestHistoryUndoRedo(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	h := command.NewHistory(100)
	rect := scene.Element{Kind: scene.KindRect, Rect: scene.Rect{W: 100, H: 100}}

	h.Execute(command.Command{Kind: command.KindAddElement, Element: rect, Index: 0}, &doc)
	require.Len(t, doc.Elements, 1)
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	h.Undo(&doc)
	assert.Empty(t, doc.Elements)
	assert.False(t, h.CanUndo())
	assert.True(t, h.CanRedo())

	h.Redo(&doc)
	assert.Len(t, doc.Elements, 1)
}

func TestHistoryExecuteClearsRedoStack(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	h := command.NewHistory(100)
	rect := scene.Element{Kind: scene.KindRect}

	h.Execute(command.Command{Kind: command.KindAddElement, Element: rect, Index: 0}, &doc)
	h.Undo(&doc)
	require.True(t, h.CanRedo())

	h.Execute(command.Command{Kind: command.KindAddElement, Element: rect, Index: 0}, &doc)
	assert.False(t, h.CanRedo())
}

func TestHistoryEvictsOldestPastCap(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	h := command.NewHistory(2)
	rect := scene.Element{Kind: scene.KindRect}

	h.Execute(command.Command{Kind: command.KindAddElement, Element: rect, Index: 0}, &doc)
	h.Execute(command.Command{Kind: command.KindAddElement, Element: rect, Index: 1}, &doc)
	h.Execute(command.Command{Kind: command.KindAddElement, Element: rect, Index: 2}, &doc)
	assert.Equal(t, 2, h.UndoCount())
}

func TestHistoryClearDiscardsBothStacks(t *testing.T) {
	doc := buildDoc(t, "canvas medium\n")
	h := command.NewHistory(100)
	rect := scene.Element{Kind: scene.KindRect}

	h.Execute(command.Command{Kind: command.KindAddElement, Element: rect, Index: 0}, &doc)
	h.Undo(&doc)
	h.Clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
