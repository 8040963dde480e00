// Package diag defines the structured diagnostic records produced by the
// lexer, parser, and resolver. No pass in this module ever returns a bare
// error for malformed input — malformed input is data, and diagnostics are
// how it gets reported back to the caller alongside a best-effort result.
package diag

import "fmt"

// Kind discriminates the closed set of diagnostic kinds the toolchain can
// emit. Each has a stable code used in user-facing messages.
type Kind int

const (
	UnexpectedToken Kind = iota
	UnknownCommand
	InvalidValue
	MissingToken
	InvalidIndentation
	UnterminatedBlock
	InvalidProperty
	UndefinedVariable
	DuplicateVariable
	NestingTooDeep
)

var kindCodes = [...]string{
	UnexpectedToken:    "E001",
	UnknownCommand:     "E002",
	InvalidValue:       "E003",
	MissingToken:       "E004",
	InvalidIndentation: "E005",
	UnterminatedBlock:  "E006",
	InvalidProperty:    "E007",
	UndefinedVariable:  "E008",
	DuplicateVariable:  "E009",
	NestingTooDeep:     "E010",
}

var kindNames = [...]string{
	UnexpectedToken:    "UnexpectedToken",
	UnknownCommand:     "UnknownCommand",
	InvalidValue:       "InvalidValue",
	MissingToken:       "MissingToken",
	InvalidIndentation: "InvalidIndentation",
	UnterminatedBlock:  "UnterminatedBlock",
	InvalidProperty:    "InvalidProperty",
	UndefinedVariable:  "UndefinedVariable",
	DuplicateVariable:  "DuplicateVariable",
	NestingTooDeep:     "NestingTooDeep",
}

// Code returns the stable E0xx code for the kind.
func (k Kind) Code() string {
	if int(k) < len(kindCodes) {
		return kindCodes[k]
	}
	return "E000"
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Severity ranks how strongly a diagnostic should be surfaced.
type Severity int

const (
	Error Severity = iota
	Warning
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Pos is a 1-based line/column source position.
type Pos struct {
	Line, Col int
}

// Span is a half-open [Start, End) range of source positions.
type Span struct {
	Start, End Pos
}

// Diagnostic is a single structured error or warning record.
type Diagnostic struct {
	Message    string
	Kind       Kind
	Severity   Severity
	Span       Span
	Suggestion string
	Recovered  bool
}

// New constructs an Error-severity diagnostic at a single point span.
func New(kind Kind, pos Pos, message string) Diagnostic {
	return Diagnostic{
		Message:  message,
		Kind:     kind,
		Severity: Error,
		Span:     Span{Start: pos, End: pos},
	}
}

// WithSuggestion returns a copy of d carrying the given suggestion text.
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestion = s
	return d
}

// WithSpan returns a copy of d with an explicit end position.
func (d Diagnostic) WithSpan(start, end Pos) Diagnostic {
	d.Span = Span{Start: start, End: end}
	return d
}

// WithRecovered marks the diagnostic as having been recovered from.
func (d Diagnostic) WithRecovered() Diagnostic {
	d.Recovered = true
	return d
}

func (d Diagnostic) String() string {
	if d.Suggestion != "" {
		return fmt.Sprintf("%s[%s] %d:%d: %s (did you mean %q?)", d.Severity, d.Kind.Code(), d.Span.Start.Line, d.Span.Start.Col, d.Message, d.Suggestion)
	}
	return fmt.Sprintf("%s[%s] %d:%d: %s", d.Severity, d.Kind.Code(), d.Span.Start.Line, d.Span.Start.Col, d.Message)
}

// Suggest computes a cheap similarity-based suggestion for an unrecognized
// name against a set of valid candidates: first-letter match with a length
// delta of at most two, or a prefix relationship in either direction. When
// more than one candidate qualifies on the first-letter rule, the one with
// the smallest length delta wins, ties broken by candidate order. Returns
// "" when nothing is close enough to suggest.
func Suggest(input string, candidates []string) string {
	if input == "" {
		return ""
	}
	best := ""
	bestDelta := -1
	for _, c := range candidates {
		if len(c) == 0 || c[0] != input[0] {
			continue
		}
		delta := absInt(len(c) - len(input))
		if delta > 2 {
			continue
		}
		if bestDelta == -1 || delta < bestDelta {
			best, bestDelta = c, delta
		}
	}
	if best != "" {
		return best
	}
	for _, c := range candidates {
		if hasPrefixFold(c, input) || hasPrefixFold(input, c) {
			return c
		}
	}
	return ""
}

func hasPrefixFold(s, prefix string) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)] == prefix
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
