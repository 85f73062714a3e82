package lox

import "fmt"

// InitializerName is the reserved method name invoked on instantiation.
const InitializerName = "init"

// Class is a user-defined class. Its method table is fixed at construction
// and shared read-only by every instance and bound method.
type Class struct {
	Name       string
	Superclass *Class
	methods    map[string]*Function
}

// NewClassDef builds a class. superclass may be nil.
func NewClassDef(name string, superclass *Class, methods map[string]*Function) *Class {
	if methods == nil {
		methods = make(map[string]*Function)
	}
	return &Class{Name: name, Superclass: superclass, methods: methods}
}

// FindMethod looks name up on the class and then along its superclass
// chain, returning the first match.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for cl := c; cl != nil; cl = cl.Superclass {
		if fn, ok := cl.methods[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Arity is the initializer's arity, or 0 without one.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod(InitializerName); ok {
		return init.Arity()
	}
	return 0
}

// Call instantiates the class. The initializer, if any, runs bound to the
// new instance and its result is discarded.
func (c *Class) Call(exec *Execution, args []Value) (Value, error) {
	inst := newInstance(c)
	if init, ok := c.FindMethod(InitializerName); ok {
		if _, err := init.Bind(inst).Call(exec, args); err != nil {
			return NewNil(), err
		}
	}
	return NewInstance(inst), nil
}

func (c *Class) String() string {
	return c.Name
}

// Instance is an object created by calling a Class.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func newInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]Value)}
}

func (i *Instance) Class() *Class {
	return i.class
}

// Get returns the field called name, falling back to a method of the class
// bound to this instance. Each method read yields a new bound function.
func (i *Instance) Get(name string) (Value, error) {
	if val, ok := i.fields[name]; ok {
		return val, nil
	}
	if method, ok := i.class.FindMethod(name); ok {
		return NewFunction(method.Bind(i)), nil
	}
	return NewNil(), &UndefinedPropertyError{Property: name, Class: i.class.Name}
}

// Set creates or overwrites a field.
func (i *Instance) Set(name string, val Value) {
	i.fields[name] = val
}

func (i *Instance) String() string {
	return i.class.Name
}

// UndefinedPropertyError reports a read of a name that is neither a field
// nor a method.
type UndefinedPropertyError struct {
	Property string
	Class    string
}

func (e *UndefinedPropertyError) Error() string {
	return fmt.Sprintf("undefined property '%s' on %s", e.Property, e.Class)
}
