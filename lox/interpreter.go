package lox

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/golang/glog"
)

// Config controls interpreter execution bounds and output. Zero limits
// mean unlimited; deep recursion is then bounded by the host stack.
type Config struct {
	StepQuota      int       `yaml:"step_quota"`
	RecursionLimit int       `yaml:"recursion_limit"`
	Stdout         io.Writer `yaml:"-"`
}

// Engine compiles and runs Lox programs.
type Engine struct {
	config   Config
	builtins map[string]Value
}

// NewEngine constructs an Engine and registers built-ins.
func NewEngine(cfg Config) *Engine {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	engine := &Engine{
		config:   cfg,
		builtins: make(map[string]Value),
	}
	engine.RegisterBuiltin("clock", 0, builtinClock)
	return engine
}

// RegisterBuiltin registers a callable global available to scripts.
func (e *Engine) RegisterBuiltin(name string, arity int, fn BuiltinFunc) {
	e.builtins[name] = NewBuiltinValue(NewBuiltin(name, arity, fn))
}

// Builtins returns a copy of the registered builtin map.
func (e *Engine) Builtins() map[string]Value {
	out := make(map[string]Value, len(e.builtins))
	maps.Copy(out, e.builtins)
	return out
}

// Script is a parsed and resolved program, ready to run.
type Script struct {
	engine   *Engine
	program  *Program
	bindings Bindings
}

func (s *Script) Program() *Program { return s.program }

func (s *Script) Bindings() Bindings { return s.bindings }

// Compile parses and resolves source. Syntax errors are returned as they
// are; resolution problems come back as a *CompileError.
func (e *Engine) Compile(filename, source string) (*Script, error) {
	program, err := Parse(filename, source)
	if err != nil {
		return nil, err
	}

	bindings, diags := Resolve(program)
	if diags.HasErrors() {
		return nil, &CompileError{Program: program, Diagnostics: diags}
	}
	glog.V(3).Infof("lox: compiled %s: %d statements, %d local bindings", filename, len(program.Statements), len(bindings))

	return &Script{engine: e, program: program, bindings: bindings}, nil
}

// Run executes the script against a fresh set of globals.
func (s *Script) Run(ctx context.Context) error {
	exec := s.engine.newExecution(ctx, s.program.Source, s.bindings)
	_, _, err := exec.execStatements(s.program.Statements, exec.globals)
	glog.V(3).Infof("lox: ran %s in %d steps", s.program.Filename, exec.steps)
	return err
}

// Execute compiles and runs source in one call.
func (e *Engine) Execute(ctx context.Context, filename, source string) error {
	script, err := e.Compile(filename, source)
	if err != nil {
		return err
	}
	return script.Run(ctx)
}

func (e *Engine) newExecution(ctx context.Context, source string, bindings Bindings) *Execution {
	globals := newEnv(nil)
	for name, val := range e.builtins {
		globals.Define(name, val)
	}
	return &Execution{
		engine:       e,
		ctx:          ctx,
		source:       source,
		globals:      globals,
		bindings:     bindings,
		out:          e.config.Stdout,
		quota:        e.config.StepQuota,
		recursionCap: e.config.RecursionLimit,
	}
}

// ConfigSummary provides a human-readable description of the interpreter limits.
func (e *Engine) ConfigSummary() string {
	return fmt.Sprintf("steps=%d recursion=%d", e.config.StepQuota, e.config.RecursionLimit)
}
