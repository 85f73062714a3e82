package lox

// Function is a user-defined function or method closed over the
// environment it was declared in.
type Function struct {
	decl          *FunctionStmt
	closure       *Env
	isInitializer bool
}

func newFunction(decl *FunctionStmt, closure *Env, isInitializer bool) *Function {
	return &Function{decl: decl, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Name() string {
	return f.decl.Name.Name
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

// Bind returns a copy of the method whose closure is a new frame holding
// `this`, chained to the method's own closure.
func (f *Function) Bind(inst *Instance) *Function {
	env := newEnv(f.closure)
	env.Define("this", NewInstance(inst))
	return newFunction(f.decl, env, f.isInitializer)
}

func (f *Function) Call(exec *Execution, args []Value) (Value, error) {
	env := newEnv(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Name, args[i])
	}

	val, returned, err := exec.execStatements(f.decl.Body, env)
	if err != nil {
		return NewNil(), err
	}
	if f.isInitializer {
		this, _ := f.closure.GetAt(0, "this")
		return this, nil
	}
	if returned {
		return val, nil
	}
	return NewNil(), nil
}

func (f *Function) String() string {
	return "<fn " + f.Name() + ">"
}

type BuiltinFunc func(exec *Execution, args []Value) (Value, error)

// Builtin is a host-provided function.
type Builtin struct {
	Name  string
	arity int
	Fn    BuiltinFunc
}

func NewBuiltin(name string, arity int, fn BuiltinFunc) *Builtin {
	return &Builtin{Name: name, arity: arity, Fn: fn}
}

func (b *Builtin) Arity() int {
	return b.arity
}

func (b *Builtin) Call(exec *Execution, args []Value) (Value, error) {
	return b.Fn(exec, args)
}

func (b *Builtin) String() string {
	return "<native fn>"
}
