package lox

import (
	"strconv"
)

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

const maxArguments = 255

type parser struct {
	l        *lexer
	filename string

	curToken  Token
	peekToken Token

	errors    []error
	panicMode bool

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

func newParser(filename, input string) *parser {
	l := newLexer(input)
	p := &parser{l: l, filename: filename}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseVariable)
	p.registerPrefix(tokenNumber, p.parseNumberLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenNil, p.parseNilLiteral)
	p.registerPrefix(tokenThis, p.parseThis)
	p.registerPrefix(tokenSuper, p.parseSuper)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)

	for _, tt := range []TokenType{tokenPlus, tokenMinus, tokenSlash, tokenAsterisk, tokenEQ, tokenNotEQ, tokenLT, tokenLTE, tokenGT, tokenGTE} {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenAnd] = p.parseLogicalExpression
	p.infixFns[tokenOr] = p.parseLogicalExpression
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenDot] = p.parseGetExpression

	p.nextToken()
	p.nextToken()

	return p
}

// Parse turns source text into a Program. All syntax errors found are
// returned together; the program is nil when any occurred.
func Parse(filename, source string) (*Program, error) {
	p := newParser(filename, source)
	program, errs := p.ParseProgram()
	if len(errs) > 0 {
		return nil, combineErrors(errs)
	}
	return program, nil
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) ParseProgram() (*Program, []error) {
	program := &Program{Filename: p.filename, Source: p.l.input}

	for p.curToken.Type != tokenEOF {
		stmt := p.parseDeclaration()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program, p.errors
}

const (
	lowestPrec = iota
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precCall
)

var precedences = map[TokenType]int{
	tokenOr:       precOr,
	tokenAnd:      precAnd,
	tokenEQ:       precEquality,
	tokenNotEQ:    precEquality,
	tokenLT:       precComparison,
	tokenLTE:      precComparison,
	tokenGT:       precComparison,
	tokenGTE:      precComparison,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenSlash:    precProduct,
	tokenAsterisk: precProduct,
	tokenLParen:   precCall,
	tokenDot:      precCall,
}

// parseAssignment parses a full expression, including right-associative
// assignment to variables and properties.
func (p *parser) parseAssignment() Expression {
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if p.peekToken.Type != tokenAssign {
		return expr
	}

	p.nextToken()
	assignPos := p.curToken.Pos
	p.nextToken()
	value := p.parseAssignment()
	if value == nil {
		return nil
	}

	switch target := expr.(type) {
	case *VariableExpr:
		return &AssignExpr{Name: target.Name, Value: value}
	case *GetExpr:
		return &SetExpr{Object: target.Object, Name: target.Name, Value: value}
	}
	p.addParseError(assignPos, "invalid assignment target")
	return expr
}

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parseVariable() Expression {
	return &VariableExpr{Name: p.currentIdent()}
}

func (p *parser) currentIdent() Ident {
	return Ident{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseNumberLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.fail(p.curToken.Pos, "invalid number literal")
		return nil
	}
	return &LiteralExpr{Value: NewNumber(value), position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expression {
	return &LiteralExpr{Value: NewString(p.curToken.Literal), position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	return &LiteralExpr{Value: NewBool(p.curToken.Type == tokenTrue), position: p.curToken.Pos}
}

func (p *parser) parseNilLiteral() Expression {
	return &LiteralExpr{Value: NewNil(), position: p.curToken.Pos}
}

func (p *parser) parseThis() Expression {
	return &ThisExpr{position: p.curToken.Pos}
}

func (p *parser) parseSuper() Expression {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenDot) {
		return nil
	}
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	return &SuperExpr{Method: p.currentIdent(), position: pos}
}

func (p *parser) parseGroupedExpression() Expression {
	pos := p.curToken.Pos
	p.nextToken()
	expr := p.parseAssignment()
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return &GroupingExpr{Expr: expr, position: pos}
}

func (p *parser) parsePrefixExpression() Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	p.nextToken()
	right := p.parseExpression(precPrefix)
	if right == nil {
		return nil
	}
	return &UnaryExpr{Operator: operator, Right: right, position: pos}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Left: left, Operator: operator, Right: right, position: pos}
}

func (p *parser) parseLogicalExpression(left Expression) Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &LogicalExpr{Left: left, Operator: operator, Right: right, position: pos}
}

func (p *parser) parseCallExpression(callee Expression) Expression {
	args := []Expression{}

	if p.peekToken.Type == tokenRParen {
		p.nextToken()
		return &CallExpr{Callee: callee, Args: args, position: p.curToken.Pos}
	}

	for {
		p.nextToken()
		if len(args) >= maxArguments {
			p.addParseError(p.curToken.Pos, "can't have more than 255 arguments")
		}
		arg := p.parseAssignment()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return &CallExpr{Callee: callee, Args: args, position: p.curToken.Pos}
}

func (p *parser) parseGetExpression(object Expression) Expression {
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	return &GetExpr{Object: object, Name: p.currentIdent()}
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, tokenLabel(tt))
	return false
}
