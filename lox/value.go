package lox

import (
	"fmt"
	"strconv"
)

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindBuiltin
	KindClass
	KindInstance
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Value struct {
	kind ValueKind
	data any
}

// Callable is the uniform call contract shared by functions, builtins and
// classes. Callers check the argument count against Arity before Call.
type Callable interface {
	Arity() int
	Call(exec *Execution, args []Value) (Value, error)
}

func NewNil() Value { return Value{kind: KindNil} }

func NewBool(b bool) Value { return Value{kind: KindBool, data: b} }

func NewNumber(n float64) Value { return Value{kind: KindNumber, data: n} }

func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewFunction(fn *Function) Value { return Value{kind: KindFunction, data: fn} }

func NewBuiltinValue(b *Builtin) Value { return Value{kind: KindBuiltin, data: b} }

func NewClass(c *Class) Value { return Value{kind: KindClass, data: c} }

func NewInstance(i *Instance) Value { return Value{kind: KindInstance, data: i} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNil() bool     { return v.kind == KindNil }

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Number() float64 {
	n, _ := v.data.(float64)
	return n
}

func (v Value) Function() *Function {
	fn, _ := v.data.(*Function)
	return fn
}

func (v Value) Builtin() *Builtin {
	b, _ := v.data.(*Builtin)
	return b
}

func (v Value) Class() *Class {
	c, _ := v.data.(*Class)
	return c
}

func (v Value) Instance() *Instance {
	inst, _ := v.data.(*Instance)
	return inst
}

// Callable returns the value's call contract, if it has one.
func (v Value) Callable() (Callable, bool) {
	switch v.kind {
	case KindFunction:
		return v.Function(), true
	case KindBuiltin:
		return v.Builtin(), true
	case KindClass:
		return v.Class(), true
	default:
		return nil, false
	}
}

// Truthy reports Lox truthiness: nil and false are falsey, everything else
// is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares primitives by value and objects by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.data.(string) == other.data.(string)
	default:
		return v.data == other.data
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.Bool())
	case KindNumber:
		return strconv.FormatFloat(v.Number(), 'f', -1, 64)
	case KindString:
		return v.data.(string)
	case KindFunction:
		return v.Function().String()
	case KindBuiltin:
		return v.Builtin().String()
	case KindClass:
		return v.Class().String()
	case KindInstance:
		return v.Instance().String()
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}
