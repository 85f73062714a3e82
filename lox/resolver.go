package lox

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Bindings maps a variable reference node to the number of scopes between
// the reference and its declaration. References without an entry are
// globals.
type Bindings map[Expression]int

// scope maps a name to whether its initializer has finished.
type scope map[string]bool

type resolver struct {
	filename    string
	scopes      []scope
	bindings    Bindings
	diagnostics hcl.Diagnostics
}

// Resolve walks the program once, computing the binding depth of every
// local variable reference and reporting scope and control-flow misuse.
// It never stops early; a program must not run if any diagnostic is
// returned.
func Resolve(program *Program) (Bindings, hcl.Diagnostics) {
	r := &resolver{filename: program.Filename, bindings: make(Bindings)}
	r.resolveStatements(program.Statements, resolveContext{})
	return r.bindings, r.diagnostics
}

func (r *resolver) errorAt(rng hcl.Range, format string, args ...any) {
	r.diagnostics = append(r.diagnostics, errorf(rng, format, args...))
}

func (r *resolver) beginScope() scope {
	s := scope{}
	r.scopes = append(r.scopes, s)
	return s
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) innermost() (scope, bool) {
	if len(r.scopes) == 0 {
		return nil, false
	}
	return r.scopes[len(r.scopes)-1], true
}

// declare adds name to the innermost scope as not yet ready. Globals are
// not tracked.
func (r *resolver) declare(name Ident) {
	s, ok := r.innermost()
	if !ok {
		return
	}
	if _, exists := s[name.Name]; exists {
		r.errorAt(identRange(r.filename, name), "already a variable named '%s' in this scope", name.Name)
	}
	s[name.Name] = false
}

func (r *resolver) define(name Ident) {
	if s, ok := r.innermost(); ok {
		s[name.Name] = true
	}
}

func (r *resolver) resolveLocal(expr Expression, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.bindings[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStatements(stmts []Statement, ctx resolveContext) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt, ctx)
	}
}

func (r *resolver) resolveStatement(stmt Statement, ctx resolveContext) {
	switch s := stmt.(type) {
	case *ExprStmt:
		r.resolveExpression(s.Expr, ctx)
	case *PrintStmt:
		r.resolveExpression(s.Expr, ctx)
	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer, ctx)
		}
		r.define(s.Name)
	case *BlockStmt:
		r.beginScope()
		r.resolveStatements(s.Statements, ctx)
		r.endScope()
	case *IfStmt:
		r.resolveExpression(s.Condition, ctx)
		r.resolveStatement(s.Consequent, ctx)
		if s.Alternate != nil {
			r.resolveStatement(s.Alternate, ctx)
		}
	case *WhileStmt:
		r.resolveExpression(s.Condition, ctx)
		r.resolveStatement(s.Body, ctx)
	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, ctx.withFunction(FunctionPlain))
	case *ReturnStmt:
		r.resolveReturn(s, ctx)
	case *ClassStmt:
		r.resolveClass(s, ctx)
	default:
		r.errorAt(sourceRange(r.filename, stmt.Pos(), 1), "unsupported statement %s", nodeName(stmt))
	}
}

func (r *resolver) resolveFunction(fn *FunctionStmt, ctx resolveContext) {
	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body, ctx)
	r.endScope()
}

func (r *resolver) resolveReturn(stmt *ReturnStmt, ctx resolveContext) {
	keyword := sourceRange(r.filename, stmt.position, len("return"))
	if ctx.function == FunctionNone {
		r.errorAt(keyword, "can't return from top-level code")
	}
	if stmt.Value == nil {
		return
	}
	if ctx.function == FunctionInitializer {
		r.errorAt(keyword, "can't return a value from an initializer")
	}
	r.resolveExpression(stmt.Value, ctx)
}

func (r *resolver) resolveClass(stmt *ClassStmt, ctx resolveContext) {
	r.declare(stmt.Name)
	r.define(stmt.Name)

	classCtx := ctx.withClass(ClassPlain)
	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Name == stmt.Name.Name {
			r.errorAt(identRange(r.filename, stmt.Superclass.Name), "a class can't inherit from itself")
		}
		classCtx = ctx.withClass(ClassSubclass)
		r.resolveExpression(stmt.Superclass, ctx)

		r.beginScope()["super"] = true
		defer r.endScope()
	}

	r.beginScope()["this"] = true
	for _, method := range stmt.Methods {
		kind := FunctionMethod
		if method.Name.Name == InitializerName {
			kind = FunctionInitializer
		}
		r.resolveFunction(method, classCtx.withFunction(kind))
	}
	r.endScope()
}

func (r *resolver) resolveExpression(expr Expression, ctx resolveContext) {
	switch e := expr.(type) {
	case *BinaryExpr:
		r.resolveExpression(e.Left, ctx)
		r.resolveExpression(e.Right, ctx)
	case *UnaryExpr:
		r.resolveExpression(e.Right, ctx)
	case *GroupingExpr:
		r.resolveExpression(e.Expr, ctx)
	case *LiteralExpr:
	case *VariableExpr:
		if s, ok := r.innermost(); ok {
			if ready, declared := s[e.Name.Name]; declared && !ready {
				r.errorAt(identRange(r.filename, e.Name), "can't read local variable '%s' in its own initializer", e.Name.Name)
			}
		}
		r.resolveLocal(e, e.Name.Name)
	case *AssignExpr:
		r.resolveExpression(e.Value, ctx)
		r.resolveLocal(e, e.Name.Name)
	case *LogicalExpr:
		r.resolveExpression(e.Left, ctx)
		r.resolveExpression(e.Right, ctx)
	case *CallExpr:
		r.resolveExpression(e.Callee, ctx)
		for _, arg := range e.Args {
			r.resolveExpression(arg, ctx)
		}
	case *GetExpr:
		r.resolveExpression(e.Object, ctx)
	case *SetExpr:
		r.resolveExpression(e.Value, ctx)
		r.resolveExpression(e.Object, ctx)
	case *ThisExpr:
		if ctx.class == ClassNone {
			r.errorAt(sourceRange(r.filename, e.position, len("this")), "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(e, "this")
	case *SuperExpr:
		keyword := sourceRange(r.filename, e.position, len("super"))
		switch ctx.class {
		case ClassNone:
			r.errorAt(keyword, "can't use 'super' outside of a class")
		case ClassPlain:
			r.errorAt(keyword, "can't use 'super' in a class with no superclass")
		}
		r.resolveLocal(e, "super")
	default:
		r.errorAt(sourceRange(r.filename, expr.Pos(), 1), "unsupported expression %s", nodeName(expr))
	}
}

func nodeName(node Node) string {
	return fmt.Sprintf("%T", node)
}
