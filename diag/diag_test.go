package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var commandNames = []string{
	"canvas", "group", "stack", "row", "graph", "node", "edge", "symbol", "use",
	"rect", "circle", "ellipse", "line", "path", "polygon", "text", "image",
	"arc", "curve", "diamond",
}

var canvasSizeNames = []string{
	"nano", "micro", "tiny", "small", "medium", "large", "xlarge", "huge", "massive", "giant",
}

func TestSuggestPrefersClosestLengthOverFirstListMatch(t *testing.T) {
	// "row" also qualifies on the first-letter+delta<=2 rule but is a worse
	// match than the same-length "rect".
	assert.Equal(t, "rect", Suggest("rekt", commandNames))
}

func TestSuggestCanvasSizeTypo(t *testing.T) {
	assert.Equal(t, "large", Suggest("larg", canvasSizeNames))
}

func TestSuggestPrefixEitherDirection(t *testing.T) {
	assert.Equal(t, "polygon", Suggest("poly", []string{"polygon"}))
	assert.Equal(t, "arc", Suggest("arcs", []string{"arc"}))
}

func TestSuggestEmptyWhenNothingClose(t *testing.T) {
	assert.Equal(t, "", Suggest("zzzzzzzz", commandNames))
}

func TestSuggestEmptyInput(t *testing.T) {
	assert.Equal(t, "", Suggest("", commandNames))
}

func TestDiagnosticCodesAreStable(t *testing.T) {
	assert.Equal(t, "E001", UnexpectedToken.Code())
	assert.Equal(t, "E002", UnknownCommand.Code())
	assert.Equal(t, "E009", DuplicateVariable.Code())
}

func TestNewDefaultsToErrorSeverityAndPointSpan(t *testing.T) {
	d := New(InvalidValue, Pos{Line: 3, Col: 7}, "bad value")
	assert.Equal(t, Error, d.Severity)
	assert.Equal(t, Pos{Line: 3, Col: 7}, d.Span.Start)
	assert.Equal(t, Pos{Line: 3, Col: 7}, d.Span.End)
}

func TestWithSuggestionSpanRecoveredAreImmutableBuilders(t *testing.T) {
	base := New(UnknownCommand, Pos{Line: 1, Col: 1}, "unknown")
	withSugg := base.WithSuggestion("rect")
	assert.Empty(t, base.Suggestion)
	assert.Equal(t, "rect", withSugg.Suggestion)

	withSpan := base.WithSpan(Pos{Line: 1, Col: 1}, Pos{Line: 1, Col: 5})
	assert.Equal(t, Pos{Line: 1, Col: 1}, base.Span.End)
	assert.Equal(t, Pos{Line: 1, Col: 5}, withSpan.Span.End)

	withRec := base.WithRecovered()
	assert.False(t, base.Recovered)
	assert.True(t, withRec.Recovered)
}

func TestDiagnosticStringIncludesSuggestionWhenPresent(t *testing.T) {
	d := New(UnknownCommand, Pos{Line: 2, Col: 1}, "unknown command 'rekt'").WithSuggestion("rect")
	s := d.String()
	assert.Contains(t, s, "E002")
	assert.Contains(t, s, "2:1")
	assert.Contains(t, s, `"rect"`)
}
