package lox

func (p *parser) parseDeclaration() Statement {
	var stmt Statement
	switch p.curToken.Type {
	case tokenClass:
		stmt = p.parseClassDeclaration()
	case tokenFun:
		if p.expectPeek(tokenIdent) {
			stmt = p.parseFunction()
		}
	case tokenVar:
		stmt = p.parseVarDeclaration()
	default:
		stmt = p.parseStatement()
	}

	if p.panicMode {
		p.synchronize()
		p.panicMode = false
		return nil
	}
	return stmt
}

// synchronize discards tokens until the current token ends a statement or
// the next one starts a declaration.
func (p *parser) synchronize() {
	for p.curToken.Type != tokenEOF {
		if p.curToken.Type == tokenSemicolon {
			return
		}
		switch p.peekToken.Type {
		case tokenClass, tokenFun, tokenVar, tokenFor, tokenIf, tokenWhile, tokenPrint, tokenReturn, tokenEOF:
			return
		}
		p.nextToken()
	}
}

func (p *parser) parseClassDeclaration() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.currentIdent()

	var superclass *VariableExpr
	if p.peekToken.Type == tokenLT {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		superclass = &VariableExpr{Name: p.currentIdent()}
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}

	methods := []*FunctionStmt{}
	p.nextToken()
	for p.curToken.Type != tokenRBrace && p.curToken.Type != tokenEOF {
		if p.curToken.Type != tokenIdent {
			p.errorExpected(p.curToken, "method name")
			return nil
		}
		method := p.parseFunction()
		if method == nil {
			return nil
		}
		methods = append(methods, method)
		p.nextToken()
	}

	if p.curToken.Type != tokenRBrace {
		p.errorExpected(p.curToken, tokenLabel(tokenRBrace))
		return nil
	}

	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods, position: pos}
}

// parseFunction parses a function or method starting at its name.
func (p *parser) parseFunction() *FunctionStmt {
	pos := p.curToken.Pos
	name := p.currentIdent()

	if !p.expectPeek(tokenLParen) {
		return nil
	}

	params := []Ident{}
	if p.peekToken.Type == tokenRParen {
		p.nextToken()
	} else {
		for {
			if len(params) >= maxArguments {
				p.addParseError(p.peekToken.Pos, "can't have more than 255 parameters")
			}
			if !p.expectPeek(tokenIdent) {
				return nil
			}
			params = append(params, p.currentIdent())
			if p.peekToken.Type != tokenComma {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek(tokenRParen) {
			return nil
		}
	}

	if !p.expectPeek(tokenLBrace) {
		return nil
	}
	body := p.parseBlock()
	if p.panicMode {
		return nil
	}

	return &FunctionStmt{Name: name, Params: params, Body: body, position: pos}
}

func (p *parser) parseVarDeclaration() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.currentIdent()

	var initializer Expression
	if p.peekToken.Type == tokenAssign {
		p.nextToken()
		p.nextToken()
		initializer = p.parseAssignment()
		if initializer == nil {
			return nil
		}
	}

	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &VarStmt{Name: name, Initializer: initializer, position: pos}
}

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenPrint:
		return p.parsePrintStatement()
	case tokenReturn:
		return p.parseReturnStatement()
	case tokenIf:
		return p.parseIfStatement()
	case tokenWhile:
		return p.parseWhileStatement()
	case tokenFor:
		return p.parseForStatement()
	case tokenLBrace:
		pos := p.curToken.Pos
		stmts := p.parseBlock()
		if p.panicMode {
			return nil
		}
		return &BlockStmt{Statements: stmts, position: pos}
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses declarations up to the closing brace. The current
// token is the opening brace on entry and the closing brace on exit.
func (p *parser) parseBlock() []Statement {
	stmts := []Statement{}
	p.nextToken()
	for p.curToken.Type != tokenRBrace && p.curToken.Type != tokenEOF {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
	}
	if p.curToken.Type != tokenRBrace {
		p.errorExpected(p.curToken, tokenLabel(tokenRBrace))
	}
	return stmts
}

func (p *parser) parsePrintStatement() Statement {
	pos := p.curToken.Pos
	p.nextToken()
	expr := p.parseAssignment()
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &PrintStmt{Expr: expr, position: pos}
}

func (p *parser) parseReturnStatement() Statement {
	pos := p.curToken.Pos
	var value Expression
	if p.peekToken.Type != tokenSemicolon {
		p.nextToken()
		value = p.parseAssignment()
		if value == nil {
			return nil
		}
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &ReturnStmt{Value: value, position: pos}
}

func (p *parser) parseCondition() Expression {
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.nextToken()
	cond := p.parseAssignment()
	if cond == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return cond
}

func (p *parser) parseIfStatement() Statement {
	pos := p.curToken.Pos
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}

	p.nextToken()
	consequent := p.parseStatement()
	if consequent == nil {
		return nil
	}

	var alternate Statement
	if p.peekToken.Type == tokenElse {
		p.nextToken()
		p.nextToken()
		alternate = p.parseStatement()
		if alternate == nil {
			return nil
		}
	}

	return &IfStmt{Condition: cond, Consequent: consequent, Alternate: alternate, position: pos}
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.curToken.Pos
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}

	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return &WhileStmt{Condition: cond, Body: body, position: pos}
}

// parseForStatement desugars a C-style for loop into a block holding the
// initializer and a while loop whose body runs the increment last.
func (p *parser) parseForStatement() Statement {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenLParen) {
		return nil
	}
	p.nextToken()

	var initializer Statement
	switch p.curToken.Type {
	case tokenSemicolon:
	case tokenVar:
		initializer = p.parseVarDeclaration()
		if initializer == nil {
			return nil
		}
	default:
		initializer = p.parseExpressionStatement()
		if initializer == nil {
			return nil
		}
	}
	p.nextToken()

	var condition Expression
	if p.curToken.Type != tokenSemicolon {
		condition = p.parseAssignment()
		if condition == nil || !p.expectPeek(tokenSemicolon) {
			return nil
		}
	}
	p.nextToken()

	var increment Expression
	if p.curToken.Type != tokenRParen {
		increment = p.parseAssignment()
		if increment == nil || !p.expectPeek(tokenRParen) {
			return nil
		}
	}
	p.nextToken()

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	if increment != nil {
		body = &BlockStmt{
			Statements: []Statement{body, &ExprStmt{Expr: increment, position: increment.Pos()}},
			position:   body.Pos(),
		}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: NewBool(true), position: pos}
	}
	var loop Statement = &WhileStmt{Condition: condition, Body: body, position: pos}
	if initializer != nil {
		loop = &BlockStmt{Statements: []Statement{initializer, loop}, position: pos}
	}
	return loop
}

func (p *parser) parseExpressionStatement() Statement {
	expr := p.parseAssignment()
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenSemicolon) {
		return nil
	}
	return &ExprStmt{Expr: expr, position: expr.Pos()}
}
