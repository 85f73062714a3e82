package lox

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent  TokenType = "IDENT"
	tokenNumber TokenType = "NUMBER"
	tokenString TokenType = "STRING"

	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBrace    TokenType = "{"
	tokenRBrace    TokenType = "}"
	tokenComma     TokenType = ","
	tokenDot       TokenType = "."
	tokenMinus     TokenType = "-"
	tokenPlus      TokenType = "+"
	tokenSemicolon TokenType = ";"
	tokenSlash     TokenType = "/"
	tokenAsterisk  TokenType = "*"

	tokenBang   TokenType = "!"
	tokenNotEQ  TokenType = "!="
	tokenAssign TokenType = "="
	tokenEQ     TokenType = "=="
	tokenGT     TokenType = ">"
	tokenGTE    TokenType = ">="
	tokenLT     TokenType = "<"
	tokenLTE    TokenType = "<="

	tokenAnd    TokenType = "AND"
	tokenClass  TokenType = "CLASS"
	tokenElse   TokenType = "ELSE"
	tokenFalse  TokenType = "FALSE"
	tokenFor    TokenType = "FOR"
	tokenFun    TokenType = "FUN"
	tokenIf     TokenType = "IF"
	tokenNil    TokenType = "NIL"
	tokenOr     TokenType = "OR"
	tokenPrint  TokenType = "PRINT"
	tokenReturn TokenType = "RETURN"
	tokenSuper  TokenType = "SUPER"
	tokenThis   TokenType = "THIS"
	tokenTrue   TokenType = "TRUE"
	tokenVar    TokenType = "VAR"
	tokenWhile  TokenType = "WHILE"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position identifies a location in the source. Line and Column are
// 1-based; Offset is the byte offset of the first character.
type Position struct {
	Line   int
	Column int
	Offset int
}

var keywords = map[string]TokenType{
	"and":    tokenAnd,
	"class":  tokenClass,
	"else":   tokenElse,
	"false":  tokenFalse,
	"for":    tokenFor,
	"fun":    tokenFun,
	"if":     tokenIf,
	"nil":    tokenNil,
	"or":     tokenOr,
	"print":  tokenPrint,
	"return": tokenReturn,
	"super":  tokenSuper,
	"this":   tokenThis,
	"true":   tokenTrue,
	"var":    tokenVar,
	"while":  tokenWhile,
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}

// Keywords returns the reserved words of the language in sorted order.
func Keywords() []string {
	return []string{"and", "class", "else", "false", "for", "fun", "if", "nil", "or", "print", "return", "super", "this", "true", "var", "while"}
}
