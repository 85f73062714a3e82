package lox

import (
	"context"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// Execution is the evaluator state for one program run.
type Execution struct {
	engine       *Engine
	ctx          context.Context
	source       string
	globals      *Env
	bindings     Bindings
	out          io.Writer
	quota        int
	recursionCap int
	steps        int
	callStack    []callFrame
}

type callFrame struct {
	Function string
	Pos      Position
}

func (exec *Execution) execStatements(stmts []Statement, env *Env) (Value, bool, error) {
	for _, stmt := range stmts {
		val, returned, err := exec.execStatement(stmt, env)
		if err != nil {
			return NewNil(), false, err
		}
		if returned {
			return val, true, nil
		}
	}
	return NewNil(), false, nil
}

func (exec *Execution) execStatement(stmt Statement, env *Env) (Value, bool, error) {
	if err := exec.step(); err != nil {
		return NewNil(), false, exec.wrapError(err, stmt.Pos())
	}

	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := exec.evalExpression(s.Expr, env)
		return NewNil(), false, err
	case *PrintStmt:
		val, err := exec.evalExpression(s.Expr, env)
		if err != nil {
			return NewNil(), false, err
		}
		if _, err := fmt.Fprintln(exec.out, val.String()); err != nil {
			return NewNil(), false, exec.wrapError(err, s.Pos())
		}
		return NewNil(), false, nil
	case *VarStmt:
		val := NewNil()
		if s.Initializer != nil {
			var err error
			if val, err = exec.evalExpression(s.Initializer, env); err != nil {
				return NewNil(), false, err
			}
		}
		env.Define(s.Name.Name, val)
		return NewNil(), false, nil
	case *BlockStmt:
		return exec.execStatements(s.Statements, newEnv(env))
	case *IfStmt:
		cond, err := exec.evalExpression(s.Condition, env)
		if err != nil {
			return NewNil(), false, err
		}
		if cond.Truthy() {
			return exec.execStatement(s.Consequent, env)
		}
		if s.Alternate != nil {
			return exec.execStatement(s.Alternate, env)
		}
		return NewNil(), false, nil
	case *WhileStmt:
		return exec.execWhileStatement(s, env)
	case *FunctionStmt:
		env.Define(s.Name.Name, NewFunction(newFunction(s, env, false)))
		return NewNil(), false, nil
	case *ReturnStmt:
		val := NewNil()
		if s.Value != nil {
			var err error
			if val, err = exec.evalExpression(s.Value, env); err != nil {
				return NewNil(), false, err
			}
		}
		return val, true, nil
	case *ClassStmt:
		return NewNil(), false, exec.execClassStatement(s, env)
	default:
		return NewNil(), false, exec.errorAt(stmt.Pos(), "unsupported statement %s", nodeName(stmt))
	}
}

func (exec *Execution) execWhileStatement(stmt *WhileStmt, env *Env) (Value, bool, error) {
	for {
		cond, err := exec.evalExpression(stmt.Condition, env)
		if err != nil {
			return NewNil(), false, err
		}
		if !cond.Truthy() {
			return NewNil(), false, nil
		}
		val, returned, err := exec.execStatement(stmt.Body, env)
		if err != nil || returned {
			return val, returned, err
		}
	}
}

// execClassStatement builds the Class object. Methods close over a frame
// holding `super` when there is a superclass, matching the scope the
// resolver pushed for it.
func (exec *Execution) execClassStatement(stmt *ClassStmt, env *Env) error {
	var superclass *Class
	if stmt.Superclass != nil {
		val, err := exec.evalExpression(stmt.Superclass, env)
		if err != nil {
			return err
		}
		if val.Kind() != KindClass {
			return exec.errorAt(stmt.Superclass.Pos(), "superclass must be a class")
		}
		superclass = val.Class()
	}

	env.Define(stmt.Name.Name, NewNil())

	methodEnv := env
	if superclass != nil {
		methodEnv = newEnv(env)
		methodEnv.Define("super", NewClass(superclass))
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Name] = newFunction(method, methodEnv, method.Name.Name == InitializerName)
	}

	class := NewClassDef(stmt.Name.Name, superclass, methods)
	env.Define(stmt.Name.Name, NewClass(class))
	if glog.V(5) {
		glog.Infof("lox: declared class %s with %d methods (superclass %v)", class.Name, len(methods), superclass)
	}
	return nil
}
