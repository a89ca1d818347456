package eval

import "github.com/kustomzone/monty/types"

// Kind distinguishes the three scope shapes a frame can take.
type Kind int

const (
	ModuleScope Kind = iota
	FunctionScope
	ComprehensionScope
)

// Environment is a parent-chained scope frame: module scope is the
// outermost frame and comprehensions push their own ComprehensionScope
// frame. Builtin calls run as Go code and push no frame; FunctionScope
// frames exist only where a caller of NewChild asks for one.
type Environment struct {
	vars      map[string]types.Value
	parent    *Environment
	kind      Kind
	globals   *Environment // module-level frame, for `global` resolution
	redirects redirectMap  // names declared nonlocal/global in this frame
}

func NewModuleEnvironment() *Environment {
	e := &Environment{vars: make(map[string]types.Value), kind: ModuleScope}
	e.globals = e
	return e
}

func (e *Environment) NewChild(kind Kind) *Environment {
	return &Environment{vars: make(map[string]types.Value), parent: e, kind: kind, globals: e.globals}
}

// Lookup cascades local -> enclosing -> module. The builtin registry is
// consulted by the evaluator only after this fails.
func (e *Environment) Lookup(name string) (types.Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set assigns in the innermost writable scope, honoring prior
// nonlocal/global declarations for name.
func (e *Environment) Set(name string, v types.Value) {
	if target, ok := e.redirects[name]; ok {
		target.vars[name] = v
		return
	}
	e.vars[name] = v
}

// redirects implements nonlocal/global: DeclareNonlocal/DeclareGlobal point
// writes of name at an enclosing frame instead of creating a new local.
type redirectMap = map[string]*Environment

func (e *Environment) ensureRedirects() {
	if e.redirects == nil {
		e.redirects = make(redirectMap)
	}
}

func (e *Environment) DeclareGlobal(name string) {
	e.ensureRedirects()
	e.redirects[name] = e.globals
}

// DeclareNonlocal binds name to the nearest enclosing non-module frame that
// already defines it; the caller is responsible for rejecting nonlocal at
// module scope before calling this (a static SyntaxError).
func (e *Environment) DeclareNonlocal(name string) bool {
	for s := e.parent; s != nil && s.kind != ModuleScope; s = s.parent {
		if _, ok := s.vars[name]; ok {
			e.ensureRedirects()
			e.redirects[name] = s
			return true
		}
	}
	return false
}
