// Package builtin implements the restricted standard library a monty script
// sees: the free-function/class namespace plus the handful of stdlib modules
// the sandbox exposes (os, sys, pathlib). None of it ever touches the real
// filesystem or environment beyond what the host explicitly allows.
package builtin

import "github.com/kustomzone/monty/types"

// Caller is the structural interface package eval's Evaluator satisfies so
// builtin functions (sorted's key=, min/max's key=, filter's predicate) can
// call back into script-level callables without this
// package importing eval — avoiding an import cycle the same way the
// teacher's task runner calls back into its owning VM through an interface
// rather than a concrete type.
type Caller interface {
	Call(fn types.Value, args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance)
	Alloc(n int64) *types.ExceptionInstance
	Print(stream, text string)
	HasAttr(v types.Value, name string) bool
}

// Registry is the fixed name -> Value table package eval consults for any
// name that isn't found in the lexical scope chain, plus the small set of
// importable modules.
type Registry struct {
	names   map[string]types.Value
	modules map[string]func() *types.Module
}

// NewRegistry builds the full builtin namespace, binding every function and
// class that needs to call back into the script against caller. env is the
// sandboxed environment-variable table os.getenv sees — never the process's
// real environment.
func NewRegistry(caller Caller, env map[string]string) *Registry {
	r := &Registry{
		names:   make(map[string]types.Value),
		modules: make(map[string]func() *types.Module),
	}
	registerFunctions(r, caller)
	registerClasses(r)
	registerExceptionClasses(r)
	registerModules(r, env)
	return r
}

func (r *Registry) define(name string, v types.Value) {
	r.names[name] = v
}

// Lookup resolves a bare name against the builtin namespace.
func (r *Registry) Lookup(name string) (types.Value, bool) {
	v, ok := r.names[name]
	return v, ok
}

// Module constructs a fresh instance of a restricted stdlib module. Fresh on
// every import call, matching CPython's per-interpreter singleton closely
// enough for a sandbox that never re-imports concurrently.
func (r *Registry) Module(name string) (*types.Module, *types.ExceptionInstance) {
	mk, ok := r.modules[name]
	if !ok {
		return nil, types.NewException(types.ModuleNotFoundError, types.NewStr("No module named '"+name+"'"))
	}
	return mk(), nil
}
