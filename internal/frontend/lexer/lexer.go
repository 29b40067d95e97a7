package lexer

import (
	"fmt"

	"baa/internal/charutils"
	"baa/internal/diagnostics"
	"baa/internal/source"
)

const eof rune = -1

// contextLen is how many runes of surrounding source an error token keeps on
// each side of the error point.
const contextLen = 10

// Lexer scans a wide-character source into tokens. The cursor starts at
// offset 0, line 1, column 1.
type Lexer struct {
	src  []rune
	file string

	start     int // rune offset where the current token begins
	current   int // cursor
	line      int
	column    int
	startLine int
	startCol  int
}

// New creates a lexer over the given source with a synthetic filename used
// in token spans.
func New(src string, filename string) *Lexer {
	return &Lexer{
		src:       []rune(src),
		file:      filename,
		line:      1,
		column:    1,
		startLine: 1,
		startCol:  1,
	}
}

// Mark captures the cursor so a caller can rewind. Used by the parser's
// declaration dispatch lookahead.
type Mark struct {
	start, current, line, column, startLine, startCol int
}

func (l *Lexer) Mark() Mark {
	return Mark{l.start, l.current, l.line, l.column, l.startLine, l.startCol}
}

func (l *Lexer) ResetTo(m Mark) {
	l.start, l.current, l.line, l.column = m.start, m.current, m.line, m.column
	l.startLine, l.startCol = m.startLine, m.startCol
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.src)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return eof
	}
	return l.src[l.current]
}

func (l *Lexer) peekNext() rune {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(k int) rune {
	if l.current+k >= len(l.src) {
		return eof
	}
	return l.src[l.current+k]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return eof
	}
	r := l.src[l.current]
	l.current++
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) lexeme() string {
	return string(l.src[l.start:l.current])
}

func (l *Lexer) span() source.Location {
	return source.Span(
		source.Position{Line: l.startLine, Column: l.startCol, Index: l.start},
		source.Position{Line: l.line, Column: l.column, Index: l.current},
	)
}

func (l *Lexer) makeToken(kind TokenKind) *Token {
	return &Token{Kind: kind, Lexeme: l.lexeme(), Location: l.span()}
}

// makeTokenLexeme builds a token whose lexeme differs from the raw source
// slice (processed string contents, comment bodies).
func (l *Lexer) makeTokenLexeme(kind TokenKind, lexeme string) *Token {
	return &Token{Kind: kind, Lexeme: lexeme, Location: l.span()}
}

// errorToken builds a specific-error token with code, category, an Arabic
// suggestion and short before/after context snippets.
func (l *Lexer) errorToken(kind TokenKind, code int, cat diagnostics.Category, suggestion, format string, args ...any) *Token {
	before := l.start - contextLen
	if before < 0 {
		before = 0
	}
	after := l.current + contextLen
	if after > len(l.src) {
		after = len(l.src)
	}
	return &Token{
		Kind:     kind,
		Lexeme:   fmt.Sprintf(format, args...),
		Location: l.span(),
		Err: &ErrorInfo{
			Code:       code,
			Category:   cat,
			Suggestion: suggestion,
			Before:     string(l.src[before:l.start]),
			After:      string(l.src[l.current:after]),
		},
	}
}

// synchronize advances past the offending input to a point where scanning
// can resume: it stops at the next whitespace, newline, delimiter, operator,
// quote, identifier start or digit, and leaves that rune unconsumed.
func (l *Lexer) synchronize() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\n', '\r',
			'(', ')', '{', '}', '[', ']', ',', '.', ';', ':',
			'+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '"', '\'':
			return
		}
		if charutils.IsIdentStart(l.peek()) || charutils.IsBaaDigit(l.peek()) {
			return
		}
		l.advance()
	}
}

// NextToken scans and returns the next token, advancing past it. Whitespace,
// newlines and comments are returned as tokens; the parser skips the ones it
// does not care about.
func (l *Lexer) NextToken() *Token {
	l.start = l.current
	l.startLine = l.line
	l.startCol = l.column

	if l.isAtEnd() {
		return l.makeToken(TokenEOF)
	}

	c := l.peek()

	switch {
	case c == ' ' || c == '\t':
		for l.peek() == ' ' || l.peek() == '\t' {
			l.advance()
		}
		return l.makeToken(TokenWhitespace)

	case c == '\n':
		l.advance()
		return l.makeToken(TokenNewline)

	case c == '\r':
		l.advance()
		l.match('\n')
		return l.makeToken(TokenNewline)

	case c == '/':
		switch l.peekNext() {
		case '/':
			return l.scanLineComment()
		case '*':
			return l.scanBlockComment()
		}
		l.advance()
		if l.match('=') {
			return l.makeToken(TokenSlashEqual)
		}
		return l.makeToken(TokenSlash)

	case c == rawStringPrefix && l.peekNext() == '"':
		return l.scanRawString()

	case c == '"':
		return l.scanString()

	case c == '\'':
		return l.scanCharLiteral()

	case charutils.IsBaaDigit(c):
		return l.scanNumber()

	case c == '.' && charutils.IsBaaDigit(l.peekNext()):
		return l.scanNumber()

	case charutils.IsIdentStart(c):
		return l.scanIdentifier()
	}

	return l.scanOperator()
}

// scanOperator handles single- and double-rune operators and delimiters.
func (l *Lexer) scanOperator() *Token {
	c := l.advance()
	switch c {
	case '(':
		return l.makeToken(TokenLParen)
	case ')':
		return l.makeToken(TokenRParen)
	case '{':
		return l.makeToken(TokenLBrace)
	case '}':
		return l.makeToken(TokenRBrace)
	case '[':
		return l.makeToken(TokenLBracket)
	case ']':
		return l.makeToken(TokenRBracket)
	case ',':
		return l.makeToken(TokenComma)
	case '.':
		return l.makeToken(TokenDot)
	case ';':
		return l.makeToken(TokenSemicolon)
	case ':':
		return l.makeToken(TokenColon)
	case '+':
		if l.match('+') {
			return l.makeToken(TokenIncrement)
		}
		if l.match('=') {
			return l.makeToken(TokenPlusEqual)
		}
		return l.makeToken(TokenPlus)
	case '-':
		if l.match('-') {
			return l.makeToken(TokenDecrement)
		}
		if l.match('=') {
			return l.makeToken(TokenMinusEqual)
		}
		return l.makeToken(TokenMinus)
	case '*':
		if l.match('=') {
			return l.makeToken(TokenStarEqual)
		}
		return l.makeToken(TokenStar)
	case '%':
		if l.match('=') {
			return l.makeToken(TokenPercentEqual)
		}
		return l.makeToken(TokenPercent)
	case '=':
		if l.match('=') {
			return l.makeToken(TokenEqualEqual)
		}
		return l.makeToken(TokenEqual)
	case '!':
		if l.match('=') {
			return l.makeToken(TokenBangEqual)
		}
		return l.makeToken(TokenBang)
	case '<':
		if l.match('=') {
			return l.makeToken(TokenLessEqual)
		}
		return l.makeToken(TokenLess)
	case '>':
		if l.match('=') {
			return l.makeToken(TokenGreaterEqual)
		}
		return l.makeToken(TokenGreater)
	case '&':
		if l.match('&') {
			return l.makeToken(TokenAnd)
		}
	case '|':
		if l.match('|') {
			return l.makeToken(TokenOr)
		}
	}

	tok := l.errorToken(TokenErrorInvalidCharacter, 1004, diagnostics.CategoryChar,
		"احذف هذا المحرف أو استبدله بمحرف صالح",
		"محرف غير متوقع '%c' (السطر %d، العمود %d)", c, l.startLine, l.startCol)
	l.synchronize()
	return tok
}
