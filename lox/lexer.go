package lox

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) position() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.currentOffset()}
}

func (l *lexer) atEOF() bool {
	return l.ch == 0 && l.width == 0
}

func (l *lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Pos: l.position()}

	if l.atEOF() {
		tok.Type = tokenEOF
		return tok
	}

	switch l.ch {
	case '(':
		l.single(&tok, tokenLParen)
	case ')':
		l.single(&tok, tokenRParen)
	case '{':
		l.single(&tok, tokenLBrace)
	case '}':
		l.single(&tok, tokenRBrace)
	case ',':
		l.single(&tok, tokenComma)
	case '.':
		l.single(&tok, tokenDot)
	case '-':
		l.single(&tok, tokenMinus)
	case '+':
		l.single(&tok, tokenPlus)
	case ';':
		l.single(&tok, tokenSemicolon)
	case '*':
		l.single(&tok, tokenAsterisk)
	case '/':
		l.single(&tok, tokenSlash)
	case '!':
		l.pair(&tok, '=', tokenNotEQ, tokenBang)
	case '=':
		l.pair(&tok, '=', tokenEQ, tokenAssign)
	case '<':
		l.pair(&tok, '=', tokenLTE, tokenLT)
	case '>':
		l.pair(&tok, '=', tokenGTE, tokenGT)
	case '"':
		literal, err := l.readString()
		if err != "" {
			tok.Type = tokenIllegal
			tok.Literal = err
		} else {
			tok.Type = tokenString
			tok.Literal = literal
		}
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
		case isDigit(l.ch):
			tok.Type = tokenNumber
			tok.Literal = l.readNumber()
		default:
			tok.Type = tokenIllegal
			tok.Literal = "unexpected character " + string(l.ch)
			l.readRune()
		}
	}

	return tok
}

func (l *lexer) single(tok *Token, tt TokenType) {
	tok.Type = tt
	tok.Literal = string(tt)
	l.readRune()
}

// pair emits the two-character token when the next rune is want, and the
// single-character fallback otherwise.
func (l *lexer) pair(tok *Token, want rune, two, one TokenType) {
	if l.peekRune() == want {
		l.readRune()
		l.single(tok, two)
		return
	}
	l.single(tok, one)
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readRune()
		case l.ch == '/' && l.peekRune() == '/':
			l.skipComment()
		default:
			return
		}
	}
}

func (l *lexer) skipComment() {
	for !l.atEOF() && l.ch != '\n' {
		l.readRune()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber() string {
	var sb strings.Builder
	sb.WriteRune(l.ch)

	hasDot := false
	for {
		r := l.peekRune()
		switch {
		case isDigit(r):
			l.readRune()
			sb.WriteRune(r)
		case r == '.' && !hasDot && isDigit(l.peekRuneAfter()):
			hasDot = true
			l.readRune()
			sb.WriteRune('.')
		default:
			l.readRune()
			return sb.String()
		}
	}
}

// peekRuneAfter returns the rune following the peeked rune.
func (l *lexer) peekRuneAfter() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.offset:])
	if l.offset+w >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset+w:])
	return r
}

// readString consumes a double-quoted string, which may span lines.
func (l *lexer) readString() (string, string) {
	var sb strings.Builder

	for {
		l.readRune()
		if l.atEOF() {
			return "", "unterminated string"
		}
		switch l.ch {
		case '"':
			l.readRune()
			return sb.String(), ""
		case '\\':
			next := l.peekRune()
			switch next {
			case '"', '\\':
				l.readRune()
				sb.WriteRune(next)
			case 'n':
				l.readRune()
				sb.WriteByte('\n')
			case 't':
				l.readRune()
				sb.WriteByte('\t')
			default:
				sb.WriteRune(l.ch)
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
