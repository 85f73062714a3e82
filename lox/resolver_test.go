package lox

import (
	"errors"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *Program {
	t.Helper()
	program, err := Parse("test.lox", source)
	require.NoError(t, err)
	return program
}

func resolveSource(t *testing.T, source string) (*Program, Bindings, hcl.Diagnostics) {
	t.Helper()
	program := mustParse(t, source)
	bindings, diags := Resolve(program)
	return program, bindings, diags
}

func summaries(diags hcl.Diagnostics) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Summary
	}
	return out
}

// collectExpressions walks the program and returns every expression node
// in source order.
func collectExpressions(stmts []Statement) []Expression {
	var out []Expression
	var walkExpr func(Expression)
	var walkStmt func(Statement)
	walkExpr = func(expr Expression) {
		if expr == nil {
			return
		}
		out = append(out, expr)
		switch e := expr.(type) {
		case *BinaryExpr:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *UnaryExpr:
			walkExpr(e.Right)
		case *GroupingExpr:
			walkExpr(e.Expr)
		case *AssignExpr:
			walkExpr(e.Value)
		case *LogicalExpr:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *CallExpr:
			walkExpr(e.Callee)
			for _, arg := range e.Args {
				walkExpr(arg)
			}
		case *GetExpr:
			walkExpr(e.Object)
		case *SetExpr:
			walkExpr(e.Object)
			walkExpr(e.Value)
		}
	}
	walkStmt = func(stmt Statement) {
		switch s := stmt.(type) {
		case *ExprStmt:
			walkExpr(s.Expr)
		case *PrintStmt:
			walkExpr(s.Expr)
		case *VarStmt:
			walkExpr(s.Initializer)
		case *BlockStmt:
			for _, inner := range s.Statements {
				walkStmt(inner)
			}
		case *IfStmt:
			walkExpr(s.Condition)
			walkStmt(s.Consequent)
			if s.Alternate != nil {
				walkStmt(s.Alternate)
			}
		case *WhileStmt:
			walkExpr(s.Condition)
			walkStmt(s.Body)
		case *FunctionStmt:
			for _, inner := range s.Body {
				walkStmt(inner)
			}
		case *ReturnStmt:
			walkExpr(s.Value)
		case *ClassStmt:
			if s.Superclass != nil {
				walkExpr(s.Superclass)
			}
			for _, method := range s.Methods {
				walkStmt(method)
			}
		}
	}
	for _, stmt := range stmts {
		walkStmt(stmt)
	}
	return out
}

func variableRefs(program *Program, name string) []Expression {
	var refs []Expression
	for _, expr := range collectExpressions(program.Statements) {
		switch e := expr.(type) {
		case *VariableExpr:
			if e.Name.Name == name {
				refs = append(refs, e)
			}
		case *AssignExpr:
			if e.Name.Name == name {
				refs = append(refs, e)
			}
		case *ThisExpr:
			if name == "this" {
				refs = append(refs, e)
			}
		case *SuperExpr:
			if name == "super" {
				refs = append(refs, e)
			}
		}
	}
	return refs
}

func TestResolveIsDeterministic(t *testing.T) {
	program := mustParse(t, `
fun outer() {
  var a = 1;
  fun inner() {
    a = a + 1;
    return a;
  }
  return inner;
}
class Base { greet() { return "hi"; } }
class Derived < Base {
  greet() { return super.greet() + this.name; }
}
`)
	first, diags := Resolve(program)
	require.Empty(t, diags)
	second, diags := Resolve(program)
	require.Empty(t, diags)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestResolveBindingDepths(t *testing.T) {
	program, bindings, diags := resolveSource(t, `
var g = 0;
fun outer() {
  var x = 1;
  {
    var y = x;
    fun inner() {
      return x + y + g;
    }
  }
}
`)
	require.Empty(t, diags)

	xs := variableRefs(program, "x")
	require.Len(t, xs, 2)
	assert.Equal(t, 1, bindings[xs[0]], "x read from nested block")
	assert.Equal(t, 2, bindings[xs[1]], "x read from inner function")

	ys := variableRefs(program, "y")
	require.Len(t, ys, 1)
	assert.Equal(t, 1, bindings[ys[0]])

	gs := variableRefs(program, "g")
	require.Len(t, gs, 1)
	_, ok := bindings[gs[0]]
	assert.False(t, ok, "globals are left to run-time lookup")
}

func TestResolveThisAndSuperDepths(t *testing.T) {
	program, bindings, diags := resolveSource(t, `
class A { m() { return 1; } }
class B < A {
  m() {
    {
      return super.m() + this.n;
    }
  }
}
`)
	require.Empty(t, diags)

	supers := variableRefs(program, "super")
	require.Len(t, supers, 1)
	assert.Equal(t, 3, bindings[supers[0]])

	thises := variableRefs(program, "this")
	require.Len(t, thises, 1)
	assert.Equal(t, 2, bindings[thises[0]])
}

func TestResolveSelfReferenceInInitializer(t *testing.T) {
	_, _, diags := resolveSource(t, `{ var a = a; }`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Summary, "own initializer")
	assert.Equal(t, 1, diags[0].Subject.Start.Line)
	assert.Equal(t, 11, diags[0].Subject.Start.Column)

	_, _, diags = resolveSource(t, `var a = a;`)
	assert.Empty(t, diags, "globals are not tracked")

	program, bindings, diags := resolveSource(t, `{ var a = 1; { var b = a; } }`)
	assert.Empty(t, diags)
	refs := variableRefs(program, "a")
	require.Len(t, refs, 1)
	assert.Equal(t, 1, bindings[refs[0]])
}

func TestResolveReadinessStopsAtFunctionBoundary(t *testing.T) {
	_, _, diags := resolveSource(t, `
{
  var f;
  fun g() { return f; }
  f = g;
}
`)
	assert.Empty(t, diags)
}

func TestResolveRedeclaration(t *testing.T) {
	_, _, diags := resolveSource(t, `{ var x = 1; var x = 2; }`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Summary, "already a variable named 'x'")

	_, _, diags = resolveSource(t, `var x = 1; var x = 2;`)
	assert.Empty(t, diags)

	_, _, diags = resolveSource(t, `fun f(a, a) {}`)
	require.Len(t, diags, 1)
}

func TestResolveReturnRules(t *testing.T) {
	_, _, diags := resolveSource(t, `return 1;`)
	assert.Equal(t, []string{"can't return from top-level code"}, summaries(diags))

	_, _, diags = resolveSource(t, `class A { init() { return 1; } }`)
	assert.Equal(t, []string{"can't return a value from an initializer"}, summaries(diags))

	_, _, diags = resolveSource(t, `class A { init() { return; } }`)
	assert.Empty(t, diags)

	_, _, diags = resolveSource(t, `class A { init() { fun helper() { return 1; } } }`)
	assert.Empty(t, diags, "nested functions have their own return rules")

	_, _, diags = resolveSource(t, `class A { other() { return 1; } }`)
	assert.Empty(t, diags)
}

func TestResolveSelfInheritance(t *testing.T) {
	_, _, diags := resolveSource(t, `class A < A {}`)
	require.Len(t, diags, 1)
	assert.Equal(t, "a class can't inherit from itself", diags[0].Summary)
	assert.Equal(t, 11, diags[0].Subject.Start.Column)
}

func TestResolveThisAndSuperContext(t *testing.T) {
	_, _, diags := resolveSource(t, `print this;`)
	assert.Equal(t, []string{"can't use 'this' outside of a class"}, summaries(diags))

	_, _, diags = resolveSource(t, `fun f() { return this; }`)
	assert.Equal(t, []string{"can't use 'this' outside of a class"}, summaries(diags))

	_, _, diags = resolveSource(t, `fun f() { return super.m(); }`)
	outside := summaries(diags)
	assert.Equal(t, []string{"can't use 'super' outside of a class"}, outside)

	_, _, diags = resolveSource(t, `class A { m() { return super.m(); } }`)
	noSuper := summaries(diags)
	assert.Equal(t, []string{"can't use 'super' in a class with no superclass"}, noSuper)
	assert.NotEqual(t, outside, noSuper)

	_, _, diags = resolveSource(t, `class A { m() { fun inner() { return this; } return inner; } }`)
	assert.Empty(t, diags, "closures inside methods may use this")
}

func TestResolveReportsEveryError(t *testing.T) {
	_, _, diags := resolveSource(t, `
return 1;
{ var a = a; }
class C < C { init() { return 2; } }
print this;
`)
	assert.Equal(t, []string{
		"can't return from top-level code",
		"can't read local variable 'a' in its own initializer",
		"a class can't inherit from itself",
		"can't return a value from an initializer",
		"can't use 'this' outside of a class",
	}, summaries(diags))
}

func TestResolveBalancesScopesOnErrors(t *testing.T) {
	program := mustParse(t, `
{ var a = a; { var b = 1; var b = 2; } }
class C < C { m() { return super.m(); } }
`)
	r := &resolver{filename: program.Filename, bindings: make(Bindings)}
	r.resolveStatements(program.Statements, resolveContext{})
	assert.NotEmpty(t, r.diagnostics)
	assert.Empty(t, r.scopes)
}

func TestCompileRejectsDiagnostics(t *testing.T) {
	engine := NewEngine(Config{})
	_, err := engine.Compile("bad.lox", "{ var a = a; }")
	require.Error(t, err)

	var compileErr *CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.True(t, compileErr.Diagnostics.HasErrors())
	assert.Equal(t, "bad.lox", compileErr.Diagnostics[0].Subject.Filename)
}
