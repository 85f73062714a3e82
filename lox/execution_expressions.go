package lox

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return exec.evalExpression(e.Expr, env)
	case *UnaryExpr:
		return exec.evalUnaryExpr(e, env)
	case *BinaryExpr:
		return exec.evalBinaryExpr(e, env)
	case *LogicalExpr:
		left, err := exec.evalExpression(e.Left, env)
		if err != nil {
			return NewNil(), err
		}
		if e.Operator == tokenOr && left.Truthy() {
			return left, nil
		}
		if e.Operator == tokenAnd && !left.Truthy() {
			return left, nil
		}
		return exec.evalExpression(e.Right, env)
	case *VariableExpr:
		return exec.lookUpVariable(e, e.Name, env)
	case *AssignExpr:
		return exec.evalAssignExpr(e, env)
	case *CallExpr:
		return exec.evalCallExpr(e, env)
	case *GetExpr:
		obj, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNil(), err
		}
		if obj.Kind() != KindInstance {
			return NewNil(), exec.errorAt(e.Name.Pos(), "only instances have properties")
		}
		val, err := obj.Instance().Get(e.Name.Name)
		if err != nil {
			return NewNil(), exec.wrapError(err, e.Name.Pos())
		}
		return val, nil
	case *SetExpr:
		obj, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNil(), err
		}
		if obj.Kind() != KindInstance {
			return NewNil(), exec.errorAt(e.Name.Pos(), "only instances have fields")
		}
		val, err := exec.evalExpression(e.Value, env)
		if err != nil {
			return NewNil(), err
		}
		obj.Instance().Set(e.Name.Name, val)
		return val, nil
	case *ThisExpr:
		return exec.lookUpVariable(e, Ident{Name: "this", position: e.position}, env)
	case *SuperExpr:
		return exec.evalSuperExpr(e, env)
	default:
		return NewNil(), exec.errorAt(expr.Pos(), "unsupported expression %s", nodeName(expr))
	}
}

// lookUpVariable reads a local from the frame the resolver chose, or a
// global when the reference has no binding.
func (exec *Execution) lookUpVariable(expr Expression, name Ident, env *Env) (Value, error) {
	if distance, ok := exec.bindings[expr]; ok {
		if val, ok := env.GetAt(distance, name.Name); ok {
			return val, nil
		}
	} else if val, ok := exec.globals.Get(name.Name); ok {
		return val, nil
	}
	return NewNil(), exec.errorAt(name.Pos(), "undefined variable '%s'", name.Name)
}

func (exec *Execution) evalAssignExpr(expr *AssignExpr, env *Env) (Value, error) {
	val, err := exec.evalExpression(expr.Value, env)
	if err != nil {
		return NewNil(), err
	}
	if distance, ok := exec.bindings[expr]; ok {
		if env.AssignAt(distance, expr.Name.Name, val) {
			return val, nil
		}
	} else if exec.globals.Assign(expr.Name.Name, val) {
		return val, nil
	}
	return NewNil(), exec.errorAt(expr.Name.Pos(), "undefined variable '%s'", expr.Name.Name)
}

// evalSuperExpr finds the method on the superclass stored in the `super`
// frame and binds it to the instance held one frame nearer.
func (exec *Execution) evalSuperExpr(expr *SuperExpr, env *Env) (Value, error) {
	distance, ok := exec.bindings[expr]
	if !ok {
		return NewNil(), exec.errorAt(expr.Pos(), "can't use 'super' here")
	}
	superVal, _ := env.GetAt(distance, "super")
	thisVal, _ := env.GetAt(distance-1, "this")
	if superVal.Kind() != KindClass || thisVal.Kind() != KindInstance {
		return NewNil(), exec.errorAt(expr.Pos(), "can't use 'super' here")
	}

	method, ok := superVal.Class().FindMethod(expr.Method.Name)
	if !ok {
		return NewNil(), exec.errorAt(expr.Method.Pos(), "undefined property '%s' on %s", expr.Method.Name, superVal.Class().Name)
	}
	return NewFunction(method.Bind(thisVal.Instance())), nil
}

func (exec *Execution) evalUnaryExpr(expr *UnaryExpr, env *Env) (Value, error) {
	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return NewNil(), err
	}
	switch expr.Operator {
	case tokenMinus:
		if right.Kind() != KindNumber {
			return NewNil(), exec.errorAt(expr.Pos(), "operand must be a number")
		}
		return NewNumber(-right.Number()), nil
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	default:
		return NewNil(), exec.errorAt(expr.Pos(), "unsupported unary operator %s", expr.Operator)
	}
}

func (exec *Execution) evalBinaryExpr(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(expr.Left, env)
	if err != nil {
		return NewNil(), err
	}
	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return NewNil(), err
	}

	switch expr.Operator {
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	case tokenPlus:
		if left.Kind() == KindNumber && right.Kind() == KindNumber {
			return NewNumber(left.Number() + right.Number()), nil
		}
		if left.Kind() == KindString && right.Kind() == KindString {
			return NewString(left.String() + right.String()), nil
		}
		return NewNil(), exec.errorAt(expr.Pos(), "operands must be two numbers or two strings")
	}

	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return NewNil(), exec.errorAt(expr.Pos(), "operands must be numbers")
	}
	a, b := left.Number(), right.Number()
	switch expr.Operator {
	case tokenMinus:
		return NewNumber(a - b), nil
	case tokenAsterisk:
		return NewNumber(a * b), nil
	case tokenSlash:
		return NewNumber(a / b), nil
	case tokenGT:
		return NewBool(a > b), nil
	case tokenGTE:
		return NewBool(a >= b), nil
	case tokenLT:
		return NewBool(a < b), nil
	case tokenLTE:
		return NewBool(a <= b), nil
	default:
		return NewNil(), exec.errorAt(expr.Pos(), "unsupported binary operator %s", expr.Operator)
	}
}
