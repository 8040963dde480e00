package parse

import (
	"strings"
	"testing"

	"scenelang/ast"
	"scenelang/diag"
	"scenelang/lex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexSrc(t *testing.T, src string) []lex.Token {
	t.Helper()
	return lex.New(src, lex.DefaultConfig(), nil).Tokenize()
}

func TestCanvasWithFill(t *testing.T) {
	toks := lexSrc(t, "canvas large fill #1a1a2e\n")
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Empty(t, diags)
	require.Len(t, scene.Children, 1)
	canvas, ok := scene.Children[0].(ast.Canvas)
	require.True(t, ok)
	assert.Equal(t, ast.SizeLarge, canvas.Size)
	assert.Equal(t, "#1a1a2e", canvas.Fill.Str)
}

func TestCanvasSizePixels(t *testing.T) {
	assert.Equal(t, 96, lex.SizeLarge.Pixels())
}

func TestCanvasInvalidSizeDefaultsToMediumWithSuggestion(t *testing.T) {
	toks := lexSrc(t, "canvas invalidsize\n")
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.InvalidValue, diags[0].Kind)
	assert.NotEmpty(t, diags[0].Suggestion)
	require.Len(t, scene.Children, 1)
	canvas := scene.Children[0].(ast.Canvas)
	assert.Equal(t, ast.SizeMedium, canvas.Size)
}

func TestUnknownCommandSuggestsClosestName(t *testing.T) {
	toks := lexSrc(t, "rekt at 100,100\nrect at 50,50\n")
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UnknownCommand, diags[0].Kind)
	assert.Equal(t, "rect", diags[0].Suggestion)
	require.Len(t, scene.Children, 1)
	shape := scene.Children[0].(*ast.Shape)
	assert.Equal(t, ast.ShapeRect, shape.Kind)
	at := shape.Props["at"]
	assert.Equal(t, ast.ValPair, at.Kind)
	assert.Equal(t, 50.0, at.Pair.X)
	assert.Equal(t, 50.0, at.Pair.Y)
}

func TestRectPositionalPropertiesAtThenSize(t *testing.T) {
	toks := lexSrc(t, "rect 10,20 30,40 fill red\n")
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Empty(t, diags)
	shape := scene.Children[0].(*ast.Shape)
	assert.Equal(t, 10.0, shape.Props["at"].Pair.X)
	assert.Equal(t, 20.0, shape.Props["at"].Pair.Y)
	assert.Equal(t, 30.0, shape.Props["size"].Pair.X)
	assert.Equal(t, 40.0, shape.Props["size"].Pair.Y)
	assert.Equal(t, "red", shape.Style.Fill.Str)
}

func TestCircleBareNumberIsRadius(t *testing.T) {
	toks := lexSrc(t, "circle at 5,5 25\n")
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Empty(t, diags)
	shape := scene.Children[0].(*ast.Shape)
	assert.Equal(t, ast.ShapeCircle, shape.Kind)
	assert.Equal(t, 25.0, shape.Props["radius"].Num)
}

func TestVariableDefinitionAndNestedBlock(t *testing.T) {
	src := "$bg = #112233\n" +
		"rect at 0,0\n" +
		"  fill $bg\n" +
		"  stroke-width 2\n"
	toks := lexSrc(t, src)
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Empty(t, diags)
	require.Len(t, scene.Children, 2)
	v := scene.Children[0].(ast.Variable)
	assert.Equal(t, "bg", v.Name)
	assert.Equal(t, "#112233", v.Value.Str)

	shape := scene.Children[1].(*ast.Shape)
	assert.True(t, shape.Style.Fill.IsVarRef())
	assert.Equal(t, "bg", shape.Style.Fill.Ref.Name)
	assert.Equal(t, 2.0, shape.Style.StrokeW.Num)
}

func TestUnterminatedBlockReportsDiagnostic(t *testing.T) {
	src := "rect at 0,0\n  fill red\n"
	toks := lexSrc(t, src)
	_, diags := Parse(toks, DefaultConfig(), nil)
	found := false
	for _, d := range diags {
		if d.Kind == diag.UnterminatedBlock {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNestingBeyondConfiguredMaxReportsDiagnostic(t *testing.T) {
	var b strings.Builder
	b.WriteString("group\n")
	for i := 0; i < 5; i++ {
		b.WriteString(strings.Repeat("  ", i+1) + "group\n")
	}
	toks := lexSrc(t, b.String())
	_, diags := Parse(toks, Config{MaxNestingDepth: 3}, nil)
	found := false
	for _, d := range diags {
		if d.Kind == diag.NestingTooDeep {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStackLayoutContainerWithChildren(t *testing.T) {
	src := "stack gap 10 justify center\n" +
		"  rect at 0,0\n" +
		"  circle at 10,10\n"
	toks := lexSrc(t, src)
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Empty(t, diags)
	shape := scene.Children[0].(*ast.Shape)
	assert.Equal(t, ast.ShapeLayout, shape.Kind)
	assert.Equal(t, ast.DirVertical, shape.Layout.Direction)
	assert.Equal(t, ast.JustifyCenter, shape.Layout.Justify)
	assert.Equal(t, 10.0, shape.Layout.Gap.N)
	require.Len(t, shape.Children, 2)
}

func TestGraphBlockWithNodesAndEdges(t *testing.T) {
	src := "graph\n" +
		"  layout hierarchical\n" +
		"  node \"a\" rect \"A\"\n" +
		"  node \"b\" circle \"B\"\n" +
		"  edge \"a\" -> \"b\" stroke black\n"
	toks := lexSrc(t, src)
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Empty(t, diags)
	g := scene.Children[0].(ast.Graph)
	assert.Equal(t, ast.GraphHierarchical, g.Layout)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "a", g.Nodes[0].ID)
	assert.Equal(t, ast.ShapeRect, g.Nodes[0].Shape)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "a", g.Edges[0].From)
	assert.Equal(t, "b", g.Edges[0].To)
	assert.Equal(t, "black", g.Edges[0].Stroke.Str)
}

func TestSymbolAndUse(t *testing.T) {
	src := "symbol \"dot\"\n" +
		"  circle at 0,0 5\n" +
		"use \"dot\" at 20,20\n"
	toks := lexSrc(t, src)
	scene, diags := Parse(toks, DefaultConfig(), nil)
	require.Empty(t, diags)
	require.Len(t, scene.Children, 2)
	sym := scene.Children[0].(ast.Symbol)
	assert.Equal(t, "dot", sym.ID)
	require.Len(t, sym.Children, 1)

	use := scene.Children[1].(*ast.Use)
	assert.Equal(t, "dot", use.SymbolID)
	require.NotNil(t, use.Position)
	assert.Equal(t, 20.0, use.Position.Pair.X)
}

func TestParsingNeverPanicsOnGarbageInput(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"   \n",
		"// just a comment\n",
		"canvas\n",
		"rect\n  \n    \nfoo\n",
		"$x =\n",
		"graph\n  node\n",
	}
	for _, src := range inputs {
		assert.NotPanics(t, func() {
			toks := lexSrc(t, src)
			Parse(toks, DefaultConfig(), nil)
		}, "input: %q", src)
	}
}

func TestEveryDiagnosticSpanWithinPlausibleSourceBounds(t *testing.T) {
	src := "rekt at 1,1\nfoo bar baz\nstack unknownprop\n"
	toks := lexSrc(t, src)
	_, diags := Parse(toks, DefaultConfig(), nil)
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.GreaterOrEqual(t, d.Span.Start.Line, 1)
		assert.GreaterOrEqual(t, d.Span.Start.Col, 1)
	}
}

func TestParsingIsDeterministic(t *testing.T) {
	src := "canvas medium fill blue\nstack gap 4\n  rect at 0,0 10,10\n  circle at 20,20 5\n"
	toks1 := lexSrc(t, src)
	toks2 := lexSrc(t, src)
	scene1, diags1 := Parse(toks1, DefaultConfig(), nil)
	scene2, diags2 := Parse(toks2, DefaultConfig(), nil)
	assert.Equal(t, len(scene1.Children), len(scene2.Children))
	assert.Equal(t, diags1, diags2)
}
