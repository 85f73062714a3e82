package lox

// FunctionKind tracks what kind of function body the resolver is inside.
type FunctionKind int

const (
	FunctionNone FunctionKind = iota
	FunctionPlain
	FunctionMethod
	FunctionInitializer
)

// ClassKind tracks what kind of class body the resolver is inside.
type ClassKind int

const (
	ClassNone ClassKind = iota
	ClassPlain
	ClassSubclass
)

// resolveContext is passed by value down the traversal, so entering a
// nested function or class shadows the caller's markers and returning
// restores them.
type resolveContext struct {
	function FunctionKind
	class    ClassKind
}

func (c resolveContext) withFunction(kind FunctionKind) resolveContext {
	c.function = kind
	return c
}

func (c resolveContext) withClass(kind ClassKind) resolveContext {
	c.class = kind
	return c
}
