package lox

import "fmt"

func (exec *Execution) evalCallExpr(expr *CallExpr, env *Env) (Value, error) {
	callee, err := exec.evalExpression(expr.Callee, env)
	if err != nil {
		return NewNil(), err
	}

	args := make([]Value, 0, len(expr.Args))
	for _, argExpr := range expr.Args {
		arg, err := exec.evalExpression(argExpr, env)
		if err != nil {
			return NewNil(), err
		}
		args = append(args, arg)
	}

	fn, ok := callee.Callable()
	if !ok {
		return NewNil(), exec.errorAt(expr.Pos(), "can only call functions and classes")
	}
	if len(args) != fn.Arity() {
		return NewNil(), exec.errorAt(expr.Pos(), "expected %d arguments but got %d", fn.Arity(), len(args))
	}
	return exec.invokeCallable(fn, callableName(callee), args, expr.Pos())
}

func (exec *Execution) invokeCallable(fn Callable, name string, args []Value, pos Position) (Value, error) {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return NewNil(), exec.newRuntimeError(fmt.Sprintf("%v (%d)", errRecursionLimitExceeded, exec.recursionCap), pos, errRecursionLimitExceeded)
	}

	exec.callStack = append(exec.callStack, callFrame{Function: name, Pos: pos})
	val, err := fn.Call(exec, args)
	if err != nil {
		err = exec.wrapError(err, pos)
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
	if err != nil {
		return NewNil(), err
	}
	return val, nil
}

func callableName(v Value) string {
	switch v.Kind() {
	case KindFunction:
		return v.Function().Name()
	case KindBuiltin:
		return v.Builtin().Name
	case KindClass:
		return v.Class().Name
	default:
		return v.Kind().String()
	}
}
