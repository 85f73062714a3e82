package lox

// Env is one frame of the run-time environment chain.
type Env struct {
	parent *Env
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

func (e *Env) Get(name string) (Value, bool) {
	if val, ok := e.values[name]; ok {
		return val, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, false
}

func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Assign overwrites an existing binding, searching outward. It reports
// false when no frame defines the name.
func (e *Env) Assign(name string, val Value) bool {
	if _, ok := e.values[name]; ok {
		e.values[name] = val
		return true
	}
	if e.parent != nil {
		return e.parent.Assign(name, val)
	}
	return false
}

func (e *Env) ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from the frame exactly distance hops out.
func (e *Env) GetAt(distance int, name string) (Value, bool) {
	env := e.ancestor(distance)
	if env == nil {
		return Value{}, false
	}
	val, ok := env.values[name]
	return val, ok
}

// AssignAt writes name into the frame exactly distance hops out.
func (e *Env) AssignAt(distance int, name string, val Value) bool {
	env := e.ancestor(distance)
	if env == nil {
		return false
	}
	env.values[name] = val
	return true
}

// Names lists the bindings of this frame only.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	return names
}
