package lox

import (
	"context"
	"fmt"
	"sort"
)

// Session runs a sequence of inputs against shared globals, as a REPL
// does. Bindings from every input are kept so closures created earlier
// still resolve their locals.
type Session struct {
	engine *Engine
	exec   *Execution
	inputs int
}

func (e *Engine) NewSession() *Session {
	return &Session{engine: e, exec: e.newExecution(context.Background(), "", make(Bindings))}
}

// Eval compiles and runs one input. When the input is a single expression
// statement its value is returned; otherwise the result is nil.
func (s *Session) Eval(ctx context.Context, source string) (Value, error) {
	s.inputs++
	filename := fmt.Sprintf("<repl:%d>", s.inputs)

	program, err := Parse(filename, source)
	if err != nil {
		return NewNil(), err
	}
	bindings, diags := Resolve(program)
	if diags.HasErrors() {
		return NewNil(), &CompileError{Program: program, Diagnostics: diags}
	}
	for expr, depth := range bindings {
		s.exec.bindings[expr] = depth
	}

	s.exec.ctx = ctx
	s.exec.source = source
	s.exec.steps = 0
	s.exec.callStack = s.exec.callStack[:0]

	if len(program.Statements) == 1 {
		if stmt, ok := program.Statements[0].(*ExprStmt); ok {
			return s.exec.evalExpression(stmt.Expr, s.exec.globals)
		}
	}
	_, _, err = s.exec.execStatements(program.Statements, s.exec.globals)
	return NewNil(), err
}

// Globals returns the names defined by the session's inputs, excluding
// builtins, in sorted order along with their values.
func (s *Session) Globals() ([]string, map[string]Value) {
	values := make(map[string]Value)
	for _, name := range s.exec.globals.Names() {
		if _, builtin := s.engine.builtins[name]; builtin {
			continue
		}
		values[name], _ = s.exec.globals.Get(name)
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, values
}

// Reset discards every global and binding defined so far.
func (s *Session) Reset() {
	s.exec = s.engine.newExecution(context.Background(), "", make(Bindings))
}
