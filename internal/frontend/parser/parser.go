package parser

import (
	"fmt"

	"baa/internal/diagnostics"
	"baa/internal/frontend/ast"
	"baa/internal/frontend/lexer"
	"baa/internal/source"
	"baa/internal/types"
)

// Parser consumes the lexer's token stream with single-token lookahead and
// builds the AST. Lexical error tokens are reported through the parser's own
// diagnostic list and skipped.
type Parser struct {
	lex      *lexer.Lexer
	current  *lexer.Token
	previous *lexer.Token
	file     string
	registry *types.Registry

	hadError  bool
	panicMode bool

	// Diagnostics collects the parser's own reports; it is not the
	// preprocessor sink.
	Diagnostics []*diagnostics.Diagnostic

	// Trace, when set, receives every consumed token. The parse driver
	// uses it; nothing else should.
	Trace func(tok *lexer.Token)
}

// New builds a parser over the lexer and primes it so current holds the
// first meaningful token.
func New(lex *lexer.Lexer, filename string, registry *types.Registry) *Parser {
	p := &Parser{
		lex:      lex,
		file:     filename,
		registry: registry,
	}
	p.advance()
	return p
}

// HadError reports whether any syntax or lexical error was seen. It is
// sticky; the parser never un-errors itself.
func (p *Parser) HadError() bool {
	return p.hadError
}

// CurrentToken exposes the lookahead token to drivers and tests.
func (p *Parser) CurrentToken() *lexer.Token {
	return p.current
}

// skippable reports token kinds the parser does not consume as grammar.
func skippable(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokenWhitespace, lexer.TokenNewline,
		lexer.TokenLineComment, lexer.TokenBlockComment, lexer.TokenDocComment:
		return true
	}
	return false
}

// advance moves current to previous and fetches the next meaningful token.
// Error tokens are reported and skipped until a real token or EOF arrives.
func (p *Parser) advance() {
	p.previous = p.current
	for {
		tok := p.lex.NextToken()
		if skippable(tok.Kind) {
			continue
		}
		if tok.IsError() {
			p.errorAtToken(tok, "%s", tok.Lexeme)
			continue
		}
		if p.Trace != nil {
			p.Trace(tok)
		}
		p.current = tok
		return
	}
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.current.Kind == kind
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

// consume advances past a token of the expected kind, or reports the given
// message at the current token without advancing.
func (p *Parser) consume(kind lexer.TokenKind, message string) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	p.errorAtCurrent(message)
	return false
}

func (p *Parser) errorAtCurrent(format string, args ...any) {
	p.errorAtToken(p.current, format, args...)
}

// errorAtToken reports a diagnostic at the token's span. While in panic mode
// further errors are suppressed until synchronize runs.
func (p *Parser) errorAtToken(tok *lexer.Token, format string, args ...any) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	d := &diagnostics.Diagnostic{
		Severity: diagnostics.SeverityError,
		Code:     2001,
		Category: diagnostics.CategorySyntax,
		Message:  fmt.Sprintf(format, args...),
		File:     p.file,
	}
	if tok != nil {
		d.Location = tok.Location
		if tok.Err != nil {
			d.Code = tok.Err.Code
			d.Category = tok.Err.Category
			d.Suggestion = tok.Err.Suggestion
		}
	}
	p.Diagnostics = append(p.Diagnostics, d)
}

// synchronize skips tokens until a probable statement boundary: just after a
// statement terminator, or at a keyword that can begin a declaration or
// statement, or EOF.
func (p *Parser) synchronize() {
	p.panicMode = false

	for !p.check(lexer.TokenEOF) {
		if p.previous != nil && p.previous.Kind == lexer.TokenDot {
			return
		}
		switch p.current.Kind {
		case lexer.TokenTypeInt, lexer.TokenTypeFloat, lexer.TokenTypeChar,
			lexer.TokenTypeVoid, lexer.TokenTypeBool,
			lexer.TokenConst, lexer.TokenIf, lexer.TokenWhile, lexer.TokenFor,
			lexer.TokenReturn, lexer.TokenSwitch:
			return
		}
		p.advance()
	}
}

// spanFrom builds a location from a remembered start position to the end of
// the previously consumed token.
func (p *Parser) spanFrom(start source.Position) source.Location {
	end := start
	if p.previous != nil && p.previous.Location.End != nil {
		end = *p.previous.Location.End
	}
	return source.Span(start, end)
}

func (p *Parser) startPos() source.Position {
	if p.current.Location.Start != nil {
		return *p.current.Location.Start
	}
	return source.NewPosition()
}

// ParseProgram parses declarations and statements until EOF. On a failed
// production it synchronizes and retries from the next probable statement
// start, so a partial AST is still produced.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.startPos()
	program := &ast.Program{FilePath: p.file}

	for !p.check(lexer.TokenEOF) {
		before := p.current
		node := p.parseDeclarationOrStatement()
		if node != nil {
			program.Append(node)
			continue
		}
		p.synchronize()
		if p.current == before && !p.check(lexer.TokenEOF) {
			// No progress; drop the offending token.
			p.advance()
		}
	}

	program.Location = p.spanFrom(start)
	return program
}
