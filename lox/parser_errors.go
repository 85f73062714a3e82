package lox

import (
	"fmt"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
)

type parseError struct {
	filename string
	pos      Position
	msg      string
	source   string
}

func (e *parseError) Error() string {
	var b strings.Builder
	if e.filename != "" {
		fmt.Fprintf(&b, "%s: ", e.filename)
	}
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
	if frame := formatCodeFrame(e.source, e.pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

func (p *parser) errorExpected(tok Token, expected string) {
	p.fail(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, describeToken(tok)))
}

func (p *parser) errorUnexpected(tok Token) {
	if tok.Type == tokenIllegal {
		p.fail(tok.Pos, tok.Literal)
		return
	}
	p.fail(tok.Pos, fmt.Sprintf("unexpected %s", describeToken(tok)))
}

// fail records an error that leaves the parser unsure of where it is; the
// enclosing declaration is abandoned and the parser resynchronizes.
func (p *parser) fail(pos Position, msg string) {
	if p.panicMode {
		return
	}
	p.addParseError(pos, msg)
	p.panicMode = true
}

func (p *parser) addParseError(pos Position, msg string) {
	p.errors = append(p.errors, &parseError{filename: p.filename, pos: pos, msg: msg, source: p.l.input})
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	result := multierror.Append(nil, errs...)
	result.ErrorFormat = joinErrors
	return result.ErrorOrNil()
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n\n")
}

func describeToken(tok Token) string {
	switch tok.Type {
	case tokenIdent:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case tokenNumber:
		return fmt.Sprintf("number %s", tok.Literal)
	case tokenString:
		return "string"
	case tokenIllegal:
		return "invalid token"
	}
	return tokenLabel(tok.Type)
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenIllegal:
		return "invalid token"
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenString:
		return "string"
	default:
		return fmt.Sprintf("'%s'", strings.ToLower(string(tt)))
	}
}
