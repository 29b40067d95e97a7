package parser

import (
	"baa/internal/frontend/ast"
	"baa/internal/frontend/lexer"
)

// parseStatement dispatches on the current token. Blocks and the control
// keywords are handled here; everything else is an expression statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.current.Kind {
	case lexer.TokenLBrace:
		return p.parseBlockAsStatement()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	case lexer.TokenFor:
		return p.parseForStatement()
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenBreak:
		return p.parseBreakStatement()
	case lexer.TokenContinue:
		return p.parseContinueStatement()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockAsStatement() ast.Statement {
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	return block
}

// parseBlock parses `{ statement* }`. Declarations are legal inside blocks.
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.startPos()
	if !p.consume(lexer.TokenLBrace, "متوقع '{'") {
		return nil
	}

	block := &ast.BlockStmt{}
	for !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
		before := p.current
		node := p.parseDeclarationOrStatement()
		if stmt, ok := node.(ast.Statement); ok && stmt != nil {
			block.Statements = append(block.Statements, stmt)
			continue
		}
		p.synchronize()
		if p.current == before && !p.check(lexer.TokenRBrace) && !p.check(lexer.TokenEOF) {
			p.advance()
		}
	}

	if !p.consume(lexer.TokenRBrace, "متوقع '}' في نهاية الكتلة") {
		return nil
	}

	block.Location = p.spanFrom(start)
	return block
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.startPos()
	p.advance() // إذا

	if !p.consume(lexer.TokenLParen, "متوقع '(' بعد 'إذا'") {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if !p.consume(lexer.TokenRParen, "متوقع ')' بعد شرط 'إذا'") {
		return nil
	}

	then := p.parseStatement()
	if then == nil {
		return nil
	}

	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if p.match(lexer.TokenElse) {
		elseStmt := p.parseStatement()
		if elseStmt == nil {
			return nil
		}
		stmt.Else = elseStmt
	}

	stmt.Location = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.startPos()
	p.advance() // طالما

	if !p.consume(lexer.TokenLParen, "متوقع '(' بعد 'طالما'") {
		return nil
	}
	cond := p.parseExpression()
	if cond == nil {
		return nil
	}
	if !p.consume(lexer.TokenRParen, "متوقع ')' بعد شرط 'طالما'") {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	return &ast.WhileStmt{
		Condition: cond,
		Body:      body,
		Location:  p.spanFrom(start),
	}
}

// parseForStatement parses `لكل (init cond. update) body`. The init clause
// is a full declaration or expression statement and carries its own
// terminating dot, as does the condition; the update expression runs bare up
// to the closing parenthesis.
func (p *Parser) parseForStatement() ast.Statement {
	start := p.startPos()
	p.advance() // لكل

	if !p.consume(lexer.TokenLParen, "متوقع '(' بعد 'لكل'") {
		return nil
	}

	stmt := &ast.ForStmt{}

	if !p.match(lexer.TokenDot) {
		init := p.parseDeclarationOrStatement()
		initStmt, ok := init.(ast.Statement)
		if !ok || initStmt == nil {
			return nil
		}
		stmt.Init = initStmt
	}

	if !p.check(lexer.TokenDot) {
		cond := p.parseExpression()
		if cond == nil {
			return nil
		}
		stmt.Condition = cond
	}
	if !p.consume(lexer.TokenDot, "متوقع '.' بعد شرط 'لكل'") {
		return nil
	}

	if !p.check(lexer.TokenRParen) {
		update := p.parseExpression()
		if update == nil {
			return nil
		}
		stmt.Update = update
	}
	if !p.consume(lexer.TokenRParen, "متوقع ')' بعد عبارات 'لكل'") {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}
	stmt.Body = body

	stmt.Location = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.startPos()
	p.advance() // إرجع

	stmt := &ast.ReturnStmt{}
	if !p.check(lexer.TokenDot) {
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		stmt.Value = value
	}

	if !p.consume(lexer.TokenDot, "متوقع '.' بعد 'إرجع'") {
		return nil
	}

	stmt.Location = p.spanFrom(start)
	return stmt
}

func (p *Parser) parseBreakStatement() ast.Statement {
	start := p.startPos()
	p.advance() // توقف
	if !p.consume(lexer.TokenDot, "متوقع '.' بعد 'توقف'") {
		return nil
	}
	return &ast.BreakStmt{Location: p.spanFrom(start)}
}

func (p *Parser) parseContinueStatement() ast.Statement {
	start := p.startPos()
	p.advance() // أكمل
	if !p.consume(lexer.TokenDot, "متوقع '.' بعد 'أكمل'") {
		return nil
	}
	return &ast.ContinueStmt{Location: p.spanFrom(start)}
}

// parseExpressionStatement parses `expression '.'`.
func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.startPos()

	expr := p.parseExpression()
	if expr == nil {
		return nil
	}

	if !p.consume(lexer.TokenDot, "متوقع '.' في نهاية العبارة") {
		return nil
	}

	return &ast.ExprStmt{
		Expression: expr,
		Location:   p.spanFrom(start),
	}
}
