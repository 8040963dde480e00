package lex

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"go.uber.org/zap"
)

// Config governs the indentation-tracking tokenizer.
type Config struct {
	// TabWidth is the number of indent columns a leading tab counts for.
	TabWidth int
}

// DefaultConfig returns the stock tab width used when none is supplied.
func DefaultConfig() Config {
	return Config{TabWidth: 4}
}

// Lexer tokenizes source line by line, tracking indentation as a
// monotonically nondecreasing column stack the way an off-side-rule
// language lexer must.
type Lexer struct {
	src    string
	cfg    Config
	log    *zap.Logger
	tokens []Token
	stack  []int // indent column stack, starts at [0]
}

// New returns a lexer over src. A nil logger is replaced with a no-op one;
// a zero TabWidth falls back to DefaultConfig's.
func New(src string, cfg Config, log *zap.Logger) *Lexer {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = DefaultConfig().TabWidth
	}
	return &Lexer{src: src, cfg: cfg, log: log.Named("lex"), stack: []int{0}}
}

// Tokenize runs the full lexical pass and returns the token stream,
// always terminated by a single EOF token.
func (l *Lexer) Tokenize() []Token {
	lines := strings.Split(l.src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		l.lexLine(raw, lineNo)
	}
	// drain any still-open indent levels
	for len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
		l.emit(Dedent, Value{}, len(lines)+1, 1)
	}
	l.emit(EOF, Value{}, len(lines)+1, 1)
	return l.tokens
}

func (l *Lexer) emit(k Kind, v Value, line, col int) {
	l.tokens = append(l.tokens, Token{Kind: k, Value: v, Line: line, Col: col})
}

func (l *Lexer) lexLine(raw string, lineNo int) {
	trimmed, indentCol := l.splitIndent(raw)

	if trimmed == "" || strings.HasPrefix(trimmed, "//") {
		// blank or whole-line-comment lines carry no indent/dedent/newline
		// events; a trailing comment after real content is a token matched
		// by lexOne at its position, not a whole-line prefix check, so it
		// can never misfire on a "//" that lexQuoted already consumed.
		return
	}

	top := l.stack[len(l.stack)-1]
	switch {
	case indentCol > top:
		l.stack = append(l.stack, indentCol)
		l.emit(Indent, Value{}, lineNo, 1)
	case indentCol < top:
		for len(l.stack) > 1 && l.stack[len(l.stack)-1] > indentCol {
			l.stack = l.stack[:len(l.stack)-1]
			l.emit(Dedent, Value{}, lineNo, 1)
		}
		// mismatched dedent column: tolerated, outermost matching level wins
	}

	col := indentCol + 1
	rest := trimmed
	for rest != "" {
		consumed := l.lexOne(rest, lineNo, col)
		if consumed == 0 {
			// unknown character: skip silently
			consumed = 1
		}
		rest = rest[consumed:]
		col += consumed
	}
	l.emit(Newline, Value{}, lineNo, col)
}

// splitIndent strips raw's leading spaces and tabs, expanding each tab to
// the configured TabWidth so mixed indentation still lands on a single,
// comparable column count for the indent/dedent stack.
func (l *Lexer) splitIndent(raw string) (rest string, col int) {
	i := 0
	for i < len(raw) {
		switch raw[i] {
		case ' ':
			col++
		case '\t':
			col += l.cfg.TabWidth
		default:
			return raw[i:], col
		}
		i++
	}
	return "", col
}

// lexOne matches the single longest token at the start of s using the
// spec's fixed pattern order, emits it, and returns the number of bytes
// consumed (1 for a skipped space or tab; 0 if no pattern matches).
func (l *Lexer) lexOne(s string, line, col int) int {
	if s[0] == ' ' || s[0] == '\t' {
		return 1
	}

	if strings.HasPrefix(s, "//") {
		// line comment: consumes the rest of the line, emits no token
		return len(s)
	}

	if s[0] == '$' {
		n := identLen(s[1:])
		if n > 0 {
			l.emit(VarRef, Value{Str: s[1 : 1+n]}, line, col)
			return 1 + n
		}
	}

	if s[0] == '#' {
		n := hexLen(s[1:])
		if n == 3 || n == 4 || n == 6 || n == 8 {
			l.emit(Color, Value{Str: s[:1+n]}, line, col)
			return 1 + n
		}
	}

	if n, v, ok := lexPercentPair(s); ok {
		l.emit(PercentPair, v, line, col)
		return n
	}

	if n, v, ok := lexNumericPair(s); ok {
		l.emit(Pair, v, line, col)
		return n
	}

	if n, v, ok := lexPercent(s); ok {
		l.emit(Percent, v, line, col)
		return n
	}

	if s[0] == '"' || s[0] == '\'' {
		if n, str, ok := lexQuoted(s); ok {
			l.emit(String, Value{Str: str}, line, col)
			return n
		}
	}

	if n, v, ok := lexNumber(s); ok {
		l.emit(Number, v, line, col)
		return n
	}

	switch s[0] {
	case '[':
		l.emit(BracketOpen, Value{}, line, col)
		return 1
	case ']':
		l.emit(BracketClose, Value{}, line, col)
		return 1
	case ':':
		l.emit(Colon, Value{}, line, col)
		return 1
	case '=':
		l.emit(Equals, Value{}, line, col)
		return 1
	}
	if strings.HasPrefix(s, "->") {
		l.emit(Arrow, Value{}, line, col)
		return 2
	}

	if n := identLen(s); n > 0 {
		word := s[:n]
		if sz, ok := ParseCanvasSize(word); ok {
			l.emit(SizeKeyword, Value{Str: word, Num: float64(sz.Pixels())}, line, col)
		} else {
			l.emit(Identifier, Value{Str: word}, line, col)
		}
		return n
	}

	return 0
}

func identLen(s string) int {
	n := 0
	for n < len(s) {
		c := s[n]
		isAlnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
		if n == 0 && (c >= '0' && c <= '9') {
			break
		}
		if !isAlnum {
			break
		}
		n++
	}
	return n
}

func hexLen(s string) int {
	n := 0
	for n < len(s) && isHex(s[n]) {
		n++
	}
	return n
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// lexNumber uses tdewolff/parse's low-level byte scanner to find the
// extent of a numeric literal (sign, integer, fraction, exponent) instead
// of hand-rolling a second regex-shaped scanner for the same grammar the
// rest of the toolchain already depends on.
func lexNumber(s string) (int, Value, bool) {
	n := parse.Number([]byte(s))
	if n == 0 {
		return 0, Value{}, false
	}
	f, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, Value{}, false
	}
	return n, Value{Num: f}, true
}

func lexPercent(s string) (int, Value, bool) {
	n := parse.Number([]byte(s))
	if n == 0 || n >= len(s) || s[n] != '%' {
		return 0, Value{}, false
	}
	f, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, Value{}, false
	}
	return n + 1, Value{Num: f, IsPercent: true}, true
}

func lexNumericPair(s string) (int, Value, bool) {
	n1 := parse.Number([]byte(s))
	if n1 == 0 || n1 >= len(s) {
		return 0, Value{}, false
	}
	sep := s[n1]
	if sep != ',' && sep != 'x' {
		return 0, Value{}, false
	}
	rest := s[n1+1:]
	n2 := parse.Number([]byte(rest))
	if n2 == 0 {
		return 0, Value{}, false
	}
	x, err1 := strconv.ParseFloat(s[:n1], 64)
	y, err2 := strconv.ParseFloat(rest[:n2], 64)
	if err1 != nil || err2 != nil {
		return 0, Value{}, false
	}
	return n1 + 1 + n2, Value{PairVal: Pair{X: x, Y: y}}, true
}

func lexPercentPair(s string) (int, Value, bool) {
	n1 := parse.Number([]byte(s))
	if n1 == 0 || n1 >= len(s) || s[n1] != '%' {
		return 0, Value{}, false
	}
	rest := s[n1+1:]
	if rest == "" {
		return 0, Value{}, false
	}
	sep := rest[0]
	if sep != ',' && sep != 'x' {
		return 0, Value{}, false
	}
	rest = rest[1:]
	n2 := parse.Number([]byte(rest))
	if n2 == 0 || n2 >= len(rest) || rest[n2] != '%' {
		return 0, Value{}, false
	}
	x, err1 := strconv.ParseFloat(s[:n1], 64)
	y, err2 := strconv.ParseFloat(rest[:n2], 64)
	if err1 != nil || err2 != nil {
		return 0, Value{}, false
	}
	return n1 + 1 + 1 + n2 + 1, Value{PairVal: Pair{X: x, Y: y}, IsPercent: true}, true
}

func lexQuoted(s string) (int, string, bool) {
	q := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] == q {
			return i + 1, s[1:i], true
		}
	}
	return 0, "", false
}
