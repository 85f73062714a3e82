// Package lox implements a tree-walking interpreter for Lox, a small
// dynamically typed scripting language with closures and classes:
//   - Variables via `var name = expr;` with block scoping.
//   - Functions via `fun name(args...) { ... }`; functions are first-class
//     values that close over their defining environment.
//   - Classes via `class Name < Super { method(args) { ... } }` with single
//     inheritance, an `init` initializer, `this`, and `super.method`.
//   - Control flow with if/else, while, and C-style for loops.
//   - `print expr;` writes the value's display form to the configured output.
//
// Before running, every program goes through Resolve, a single static pass
// that records how many scopes out each local variable reference lives and
// reports misuse of declarations, `return`, `this`, and `super`. A program
// with any diagnostic is never executed.
package lox
