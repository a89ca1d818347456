// Package eval implements the tree-walking evaluator: statement and
// expression execution, operator dispatch, control flow, and the
// suspension boundary (see coroutine.go for the yield/resume contract).
package eval

import (
	"math/big"

	"github.com/kustomzone/monty/ast"
	"github.com/kustomzone/monty/builtin"
	"github.com/kustomzone/monty/heap"
	"github.com/kustomzone/monty/types"
)

// Evaluator holds the state for one Start/Resume-style run: the module
// scope, resource accounting, the builtin registry, the print callback,
// and the coroutine it is running on (set by Coroutine.run).
type Evaluator struct {
	globals       *Environment
	acct          *heap.Accounting
	registry      *builtin.Registry
	print         PrintCallback
	scriptName    string
	externalNames map[string]bool
	coro          *Coroutine
	activeExc     *types.ExceptionInstance // set while inside an except handler, for bare `raise`
}

// New constructs an Evaluator with a fresh module scope. The builtin
// registry is wired in afterward via SetRegistry: Registry construction
// needs a builtin.Caller, and *Evaluator only becomes one once it exists.
func New(scriptName string, externalNames map[string]bool, limits heap.Limits, print PrintCallback) *Evaluator {
	return &Evaluator{
		globals:       NewModuleEnvironment(),
		acct:          heap.New(limits),
		print:         print,
		scriptName:    scriptName,
		externalNames: externalNames,
	}
}

// SetRegistry wires the builtin namespace in. Callers build it via
// builtin.NewRegistry(ev, env) once ev itself exists.
func (ev *Evaluator) SetRegistry(registry *builtin.Registry) {
	ev.registry = registry
}

// Globals exposes the module scope so callers can bind declared `inputs`
// before the coroutine starts.
func (ev *Evaluator) Globals() *Environment { return ev.globals }

func (ev *Evaluator) step() {
	if exc := ev.acct.Step(); exc != nil {
		raise(exc)
	}
}

func (ev *Evaluator) alloc(n int64) {
	if exc := ev.acct.Alloc(n); exc != nil {
		raise(exc)
	}
}

// RunModule executes a module's top-level statements, returning Complete
// (Done=true, Fault=nil) or an uncaught Fault. It must run on the
// Coroutine's goroutine: suspension blocks this call tree directly.
func (ev *Evaluator) RunModule(mod *ast.Module) (out StepOutcome) {
	defer func() {
		if r := recover(); r != nil {
			exc, _ := asRaise(r)
			out = StepOutcome{Done: true, Fault: exc}
		}
	}()
	var last types.Value = types.NewNone()
	for _, s := range mod.Body {
		if es, ok := s.(*ast.ExprStmt); ok {
			last = ev.evalExpr(es.X, ev.globals)
			continue
		}
		ev.execStmt(s, ev.globals)
		last = types.NewNone()
	}
	return StepOutcome{Done: true, Output: last}
}

// execStmtList runs a statement block, propagating break/continue/return
// and raiseSignal panics to the caller untouched.
func (ev *Evaluator) execStmtList(stmts []ast.Stmt, env *Environment) {
	for _, s := range stmts {
		ev.execStmt(s, env)
	}
}

func (ev *Evaluator) execStmt(s ast.Stmt, env *Environment) {
	ev.step()
	switch n := s.(type) {
	case *ast.ExprStmt:
		ev.evalExpr(n.X, env)
	case *ast.AssignStmt:
		v := ev.evalExpr(n.Value, env)
		ev.assign(n.Target, v, env)
	case *ast.AugAssignStmt:
		ev.execAugAssign(n, env)
	case *ast.IfStmt:
		if ev.evalExpr(n.Cond, env).Truthy() {
			ev.execStmtList(n.Body, env)
		} else {
			ev.execStmtList(n.Orelse, env)
		}
	case *ast.WhileStmt:
		ev.execWhile(n, env)
	case *ast.ForStmt:
		ev.execFor(n, env)
	case *ast.BreakStmt:
		panic(breakSignal{})
	case *ast.ContinueStmt:
		panic(continueSignal{})
	case *ast.ReturnStmt:
		var v types.Value = types.NewNone()
		if n.Value != nil {
			v = ev.evalExpr(n.Value, env)
		}
		panic(returnSignal{Value: v})
	case *ast.PassStmt:
		// no-op
	case *ast.AssertStmt:
		if !ev.evalExpr(n.Cond, env).Truthy() {
			var args []types.Value
			if n.Msg != nil {
				args = append(args, ev.evalExpr(n.Msg, env))
			}
			raise(types.NewException(types.AssertionError, args...))
		}
	case *ast.RaiseStmt:
		ev.execRaise(n, env)
	case *ast.TryStmt:
		ev.execTry(n, env)
	case *ast.WithStmt:
		ev.execWith(n, env)
	case *ast.ImportStmt:
		ev.execImport(n, env)
	case *ast.ImportFromStmt:
		ev.execImportFrom(n, env)
	case *ast.NonlocalStmt:
		// Unreachable from parsed source: the parser rejects nonlocal
		// outright since a function body is never lexically parsed. Kept
		// for ast.Module values built directly rather than via Parse.
		for _, name := range n.Names {
			if !env.DeclareNonlocal(name) {
				raise(types.NewException(types.SyntaxError, types.NewStr("nonlocal declaration not allowed at module level")))
			}
		}
	case *ast.GlobalStmt:
		for _, name := range n.Names {
			env.DeclareGlobal(name)
		}
	default:
		raise(types.NewException(types.RuntimeError, types.NewStr("unsupported statement")))
	}
}

func (ev *Evaluator) execAugAssign(n *ast.AugAssignStmt, env *Environment) {
	cur := ev.evalExpr(n.Target, env)
	rhs := ev.evalExpr(n.Value, env)
	result := ev.binOp(n.Op, cur, rhs)
	ev.assign(n.Target, result, env)
}

func (ev *Evaluator) execWhile(n *ast.WhileStmt, env *Environment) {
	completed := true
	for ev.evalExpr(n.Cond, env).Truthy() {
		if ev.runLoopBody(n.Body, env) {
			completed = false
			break
		}
	}
	if completed {
		ev.execStmtList(n.Orelse, env)
	}
}

func (ev *Evaluator) execFor(n *ast.ForStmt, env *Environment) {
	iterVal := ev.evalExpr(n.Iter, env)
	it := ev.toIterator(iterVal)
	completed := true
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		ev.assign(n.Target, v, env)
		if ev.runLoopBody(n.Body, env) {
			completed = false
			break
		}
	}
	if completed {
		ev.execStmtList(n.Orelse, env)
	}
}

// runLoopBody executes one iteration's body, absorbing continueSignal and
// reporting whether a break was seen (true => caller should stop looping
// without running the loop's else clause).
func (ev *Evaluator) runLoopBody(body []ast.Stmt, env *Environment) (broke bool) {
	defer func() {
		if r := recover(); r == nil {
			return
		} else if _, ok := r.(breakSignal); ok {
			broke = true
		} else if _, ok := r.(continueSignal); ok {
			broke = false
		} else {
			panic(r)
		}
	}()
	ev.execStmtList(body, env)
	return false
}

func (ev *Evaluator) execRaise(n *ast.RaiseStmt, env *Environment) {
	if n.Exc == nil {
		if ev.activeExc != nil {
			raise(ev.activeExc)
		}
		raise(types.NewException(types.RuntimeError, types.NewStr("No active exception to re-raise")))
	}
	v := ev.evalExpr(n.Exc, env)
	exc := ev.toExceptionInstance(v)
	if n.From != nil {
		causeVal := ev.evalExpr(n.From, env)
		if !causeVal.Equal(types.NewNone()) {
			exc.Cause = ev.toExceptionInstance(causeVal)
		}
	}
	raise(exc)
}

// toExceptionInstance accepts either an already-constructed
// ExceptionInstance or a BuiltinClass naming an exception type (`raise
// ValueError`), constructing one with no arguments in the latter case.
func (ev *Evaluator) toExceptionInstance(v types.Value) *types.ExceptionInstance {
	switch t := v.(type) {
	case *types.ExceptionInstance:
		return t
	case *types.BuiltinClass:
		if t.ExceptionOf != "" {
			return types.NewException(t.ExceptionOf)
		}
	}
	raise(types.NewException(types.TypeError, types.NewStr("exceptions must derive from BaseException")))
	return nil
}

func (ev *Evaluator) execTry(n *ast.TryStmt, env *Environment) {
	var pending *types.ExceptionInstance
	func() {
		defer func() {
			if r := recover(); r != nil {
				exc, ok := asRaise(r)
				if !ok {
					return
				}
				prevActive := ev.activeExc
				ev.activeExc = exc
				defer func() { ev.activeExc = prevActive }()
				for _, h := range n.Handlers {
					if ev.handlerMatches(h, exc, env) {
						exc.AppendFrame(types.TracebackFrame{ScriptName: ev.scriptName, Line: h.Line()})
						if h.Name != "" {
							env.Set(h.Name, exc)
						}
						ev.execStmtList(h.Body, env)
						return
					}
				}
				pending = exc
			}
		}()
		ev.execStmtList(n.Body, env)
		ev.execStmtList(n.Orelse, env)
	}()
	if len(n.Finally) > 0 {
		ev.execStmtList(n.Finally, env)
	}
	if pending != nil {
		raise(pending)
	}
}

func (ev *Evaluator) handlerMatches(h ast.ExceptHandler, exc *types.ExceptionInstance, env *Environment) bool {
	if len(h.Types) == 0 {
		return true
	}
	for _, texpr := range h.Types {
		v := ev.evalExpr(texpr, env)
		cls, ok := v.(*types.BuiltinClass)
		if !ok || cls.ExceptionOf == "" {
			continue
		}
		if types.IsSubclass(exc.Class, cls.ExceptionOf) {
			return true
		}
	}
	return false
}

func (ev *Evaluator) execWith(n *ast.WithStmt, env *Environment) {
	type ctxVal struct {
		obj  types.Value
		name string
	}
	var opened []ctxVal
	for _, item := range n.Items {
		obj := ev.evalExpr(item.Context, env)
		enter, ok := ev.getAttr(obj, "__enter__")
		if !ok {
			raise(types.NewException(types.AttributeError, types.NewStr("'"+obj.Type().String()+"' object has no attribute '__enter__'")))
		}
		res, exc := ev.callValueInternal(enter, nil, nil)
		if exc != nil {
			raise(exc)
		}
		if item.Name != "" {
			env.Set(item.Name, res)
		}
		opened = append(opened, ctxVal{obj: obj, name: item.Name})
	}
	var pending *types.ExceptionInstance
	func() {
		defer func() {
			if r := recover(); r != nil {
				exc, ok := asRaise(r)
				if !ok {
					return
				}
				pending = exc
			}
		}()
		ev.execStmtList(n.Body, env)
	}()
	for i := len(opened) - 1; i >= 0; i-- {
		exitFn, ok := ev.getAttr(opened[i].obj, "__exit__")
		if !ok {
			continue
		}
		var args []types.Value
		if pending != nil {
			args = []types.Value{types.NewStr(string(pending.Class)), pending, types.NewNone()}
		} else {
			args = []types.Value{types.NewNone(), types.NewNone(), types.NewNone()}
		}
		res, exc := ev.callValueInternal(exitFn, args, nil)
		if exc != nil {
			pending = exc
			continue
		}
		if pending != nil && res.Truthy() {
			pending = nil
		}
	}
	if pending != nil {
		raise(pending)
	}
}

func (ev *Evaluator) execImport(n *ast.ImportStmt, env *Environment) {
	mod, exc := ev.registry.Module(n.Module)
	if exc != nil {
		raise(exc)
	}
	name := n.Alias
	if name == "" {
		name = n.Module
	}
	env.Set(name, mod)
}

func (ev *Evaluator) execImportFrom(n *ast.ImportFromStmt, env *Environment) {
	mod, exc := ev.registry.Module(n.Module)
	if exc != nil {
		raise(exc)
	}
	for i, name := range n.Names {
		v, ok := mod.Attr(name)
		if !ok {
			raise(types.NewException(types.ImportError, types.NewStr("cannot import name '"+name+"' from '"+n.Module+"'")))
		}
		bind := name
		if n.Aliases[i] != "" {
			bind = n.Aliases[i]
		}
		env.Set(bind, v)
	}
}

// assign binds val to target, supporting Name and tuple/list unpacking
// targets plus List/Dict subscript assignment.
func (ev *Evaluator) assign(target ast.Expr, val types.Value, env *Environment) {
	switch t := target.(type) {
	case *ast.Name:
		env.Set(t.Id, val)
	case *ast.TupleExpr:
		ev.assignUnpack(t.Elts, val, env)
	case *ast.ListExpr:
		ev.assignUnpack(t.Elts, val, env)
	case *ast.SubscriptExpr:
		ev.assignSubscript(t, val, env)
	case *ast.AttributeExpr:
		raise(types.NewException(types.AttributeError, types.NewStr("attribute assignment is not supported")))
	default:
		raise(types.NewException(types.SyntaxError, types.NewStr("cannot assign to this expression")))
	}
}

func (ev *Evaluator) assignUnpack(targets []ast.Expr, val types.Value, env *Environment) {
	items := ev.sequenceElems(val)
	if len(items) != len(targets) {
		raise(types.NewException(types.ValueError, types.NewStr("not enough values to unpack")))
	}
	for i, tgt := range targets {
		ev.assign(tgt, items[i], env)
	}
}

func (ev *Evaluator) sequenceElems(v types.Value) []types.Value {
	switch t := v.(type) {
	case types.TupleValue:
		return t.Elems
	case *types.ListValue:
		return *t.Elems
	default:
		it := ev.toIterator(v)
		var out []types.Value
		for {
			x, ok := it.Next()
			if !ok {
				break
			}
			out = append(out, x)
		}
		return out
	}
}

func (ev *Evaluator) assignSubscript(t *ast.SubscriptExpr, val types.Value, env *Environment) {
	container := ev.evalExpr(t.X, env)
	idx := ev.evalExpr(t.Index, env)
	switch c := container.(type) {
	case *types.ListValue:
		i := ev.indexAsInt(idx)
		n := len(*c.Elems)
		i = normalizeIndex(i, n)
		if i < 0 || i >= n {
			raise(types.NewException(types.IndexError, types.NewStr("list assignment index out of range")))
		}
		(*c.Elems)[i] = val
	case *types.DictValue:
		ev.alloc(1)
		c.Set(idx, val)
	default:
		raise(types.NewException(types.TypeError, types.NewStr("'"+container.Type().String()+"' object does not support item assignment")))
	}
}

func (ev *Evaluator) indexAsInt(v types.Value) int {
	iv, ok := v.(types.IntValue)
	if !ok {
		raise(types.NewException(types.TypeError, types.NewStr("indices must be integers")))
	}
	return int(iv.Val.Int64())
}

func normalizeIndex(i, n int) int {
	if i < 0 {
		return i + n
	}
	return i
}

// parseBigInt is used by expr.go to materialize ast.IntLit text.
func parseBigInt(text string) *big.Int {
	n := new(big.Int)
	n.SetString(text, 10)
	return n
}
