package parser

import (
	"baa/internal/frontend/ast"
	"baa/internal/frontend/lexer"
)

// Binary operator precedence, tightest binding highest. All levels are
// left-associative.
func binaryPrecedence(kind lexer.TokenKind) int {
	switch kind {
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return 60
	case lexer.TokenPlus, lexer.TokenMinus:
		return 50
	case lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater, lexer.TokenGreaterEqual:
		return 40
	case lexer.TokenEqualEqual, lexer.TokenBangEqual:
		return 30
	case lexer.TokenAnd:
		return 20
	case lexer.TokenOr:
		return 10
	}
	return 0
}

// parseExpression is the entry point for full expressions.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseBinary(1)
}

// parseBinary climbs precedence levels, folding left-associative chains.
func (p *Parser) parseBinary(minPrec int) ast.Expression {
	start := p.startPos()

	left := p.parseUnary()
	if left == nil {
		return nil
	}

	for {
		prec := binaryPrecedence(p.current.Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := *p.current
		p.advance()

		right := p.parseBinary(prec + 1)
		if right == nil {
			return nil
		}

		left = &ast.BinaryExpr{
			Left:     left,
			Operator: op,
			Right:    right,
			Location: p.spanFrom(start),
		}
	}
}

// parseUnary handles the prefix set + - ! before falling to postfix.
func (p *Parser) parseUnary() ast.Expression {
	switch p.current.Kind {
	case lexer.TokenPlus, lexer.TokenMinus, lexer.TokenBang:
		start := p.startPos()
		op := *p.current
		p.advance()
		operand := p.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{
			Operator: op,
			Operand:  operand,
			Location: p.spanFrom(start),
		}
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary then applies the call suffix loop. Indexing
// and member access are reserved grammar.
func (p *Parser) parsePostfix() ast.Expression {
	start := p.startPos()

	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}

	for p.check(lexer.TokenLParen) {
		p.advance()

		call := &ast.CallExpr{Callee: expr}
		if !p.check(lexer.TokenRParen) {
			for {
				arg := p.parseExpression()
				if arg == nil {
					return nil
				}
				call.Arguments = append(call.Arguments, arg)
				if !p.match(lexer.TokenComma) {
					break
				}
			}
		}
		if !p.consume(lexer.TokenRParen, "متوقع ')' بعد وسائط الاستدعاء") {
			return nil
		}

		call.Location = p.spanFrom(start)
		expr = call
	}

	return expr
}

// parsePrimary: literals, identifiers and parenthesised expressions.
func (p *Parser) parsePrimary() ast.Expression {
	start := p.startPos()
	tok := p.current

	switch tok.Kind {
	case lexer.TokenIntLit:
		p.advance()
		lit := &ast.LiteralExpr{
			Kind:     ast.LiteralInt,
			Lexeme:   tok.Lexeme,
			Type:     p.registry.Int(),
			Location: p.spanFrom(start),
		}
		if tok.Number != nil {
			lit.Type = p.registry.IntWithSuffix(tok.Number.Unsigned, tok.Number.Longs)
		}
		return lit

	case lexer.TokenFloatLit:
		p.advance()
		return &ast.LiteralExpr{
			Kind:     ast.LiteralFloat,
			Lexeme:   tok.Lexeme,
			Type:     p.registry.Float(),
			Location: p.spanFrom(start),
		}

	case lexer.TokenStringLit:
		p.advance()
		return &ast.LiteralExpr{
			Kind:     ast.LiteralString,
			Lexeme:   tok.Lexeme,
			Type:     p.registry.String(),
			Location: p.spanFrom(start),
		}

	case lexer.TokenCharLit:
		p.advance()
		lit := &ast.LiteralExpr{
			Kind:     ast.LiteralChar,
			Lexeme:   tok.Lexeme,
			Type:     p.registry.Char(),
			Location: p.spanFrom(start),
		}
		for _, r := range tok.Lexeme {
			lit.Char = r
			break
		}
		return lit

	case lexer.TokenBoolLit:
		p.advance()
		return &ast.LiteralExpr{
			Kind:     ast.LiteralBool,
			Lexeme:   tok.Lexeme,
			Bool:     tok.Lexeme == "صحيح",
			Type:     p.registry.Bool(),
			Location: p.spanFrom(start),
		}

	case lexer.TokenIdentifier:
		p.advance()
		return &ast.IdentifierExpr{
			Name:     tok.Lexeme,
			Location: p.spanFrom(start),
		}

	case lexer.TokenLParen:
		p.advance()
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if !p.consume(lexer.TokenRParen, "متوقع ')' لإغلاق التعبير") {
			return nil
		}
		return expr
	}

	p.errorAtCurrent("متوقع تعبير، وُجد '%s'", tok.Lexeme)
	return nil
}
