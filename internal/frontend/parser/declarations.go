package parser

import (
	"baa/internal/frontend/ast"
	"baa/internal/source"
	"baa/internal/frontend/lexer"
)

// parseDeclarationOrStatement is the top-level dispatcher. Modifiers and
// type keywords open a declaration; everything else falls through to
// statement parsing.
func (p *Parser) parseDeclarationOrStatement() ast.Node {
	if p.isModifier(p.current.Kind) || lexer.IsTypeKeyword(p.current.Kind) {
		return p.parseTypedDeclaration()
	}
	return p.parseStatement()
}

func (p *Parser) isModifier(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokenConst, lexer.TokenInline, lexer.TokenRestrict:
		return true
	}
	return false
}

func (p *Parser) parseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for {
		switch p.current.Kind {
		case lexer.TokenConst:
			mods |= ast.ModConst
		case lexer.TokenInline:
			mods |= ast.ModInline
		case lexer.TokenRestrict:
			mods |= ast.ModRestrict
		default:
			return mods
		}
		p.advance()
	}
}

// parseTypedDeclaration handles `modifiers type identifier ...`. After the
// shared prefix, a `(` selects a function definition; anything else is a
// variable declaration.
func (p *Parser) parseTypedDeclaration() ast.Node {
	start := p.startPos()
	mods := p.parseModifiers()

	if !lexer.IsTypeKeyword(p.current.Kind) {
		p.errorAtCurrent("متوقع نوع بعد المُعدِّل")
		return nil
	}

	typ := p.parseTypeSpec()
	if typ == nil {
		return nil
	}

	if !p.check(lexer.TokenIdentifier) {
		p.errorAtCurrent("متوقع اسم معرف بعد النوع")
		return nil
	}
	name := p.current.Lexeme
	p.advance()

	if p.check(lexer.TokenLParen) {
		return p.parseFunctionRest(start, mods, typ, name)
	}
	return p.parseVarDeclRest(start, mods, typ, name)
}

// parseTypeSpec parses a primitive type keyword optionally followed by
// `[ expr? ]` forming an array type. The size expression is fully re-entrant.
func (p *Parser) parseTypeSpec() *ast.TypeSpec {
	start := p.startPos()
	name := p.current.Lexeme
	p.advance()

	spec := &ast.TypeSpec{Name: name}

	if p.match(lexer.TokenLBracket) {
		spec.IsArray = true
		if !p.check(lexer.TokenRBracket) {
			size := p.parseExpression()
			if size == nil {
				return nil
			}
			spec.ArraySize = size
		}
		if !p.consume(lexer.TokenRBracket, "متوقع ']' بعد حجم المصفوفة") {
			return nil
		}
	}

	spec.Location = p.spanFrom(start)
	return spec
}

// parseVarDeclRest finishes `modifiers type name ( '=' expr )? '.'`.
func (p *Parser) parseVarDeclRest(start source.Position, mods ast.Modifiers, typ *ast.TypeSpec, name string) ast.Node {
	decl := &ast.VarDeclStmt{
		Modifiers: mods,
		Type:      typ,
		Name:      name,
	}

	if p.match(lexer.TokenEqual) {
		init := p.parseExpression()
		if init == nil {
			return nil
		}
		decl.Initializer = init
	}

	if !p.consume(lexer.TokenDot, "متوقع '.' في نهاية التصريح") {
		return nil
	}

	decl.Location = p.spanFrom(start)
	return decl
}

// parseFunctionRest finishes `modifiers type name '(' params ')' block`.
func (p *Parser) parseFunctionRest(start source.Position, mods ast.Modifiers, ret *ast.TypeSpec, name string) ast.Node {
	fn := &ast.FunctionDecl{
		Modifiers:  mods,
		ReturnType: ret,
		Name:       name,
	}

	p.consume(lexer.TokenLParen, "متوقع '(' بعد اسم الدالة")

	if !p.check(lexer.TokenRParen) {
		for {
			param := p.parseParameter()
			if param == nil {
				return nil
			}
			fn.Parameters = append(fn.Parameters, param)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}

	if !p.consume(lexer.TokenRParen, "متوقع ')' بعد معاملات الدالة") {
		return nil
	}

	if !p.check(lexer.TokenLBrace) {
		p.errorAtCurrent("متوقع '{' لبدء جسم الدالة")
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	fn.Body = body

	fn.Location = p.spanFrom(start)
	return fn
}

// parseParameter parses one `type identifier` pair.
func (p *Parser) parseParameter() *ast.Parameter {
	start := p.startPos()

	if !lexer.IsTypeKeyword(p.current.Kind) {
		p.errorAtCurrent("متوقع نوع المعامل")
		return nil
	}
	typ := p.parseTypeSpec()
	if typ == nil {
		return nil
	}

	if !p.check(lexer.TokenIdentifier) {
		p.errorAtCurrent("متوقع اسم المعامل بعد النوع")
		return nil
	}
	name := p.current.Lexeme
	p.advance()

	return &ast.Parameter{
		Type:     typ,
		Name:     name,
		Location: p.spanFrom(start),
	}
}
