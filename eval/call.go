package eval

import (
	"github.com/kustomzone/monty/ast"
	"github.com/kustomzone/monty/types"
)

// evalCall evaluates a call expression: arguments evaluate positional before
// keyword, left to right, then the call dispatches either to the suspension
// machinery (external-function names) or to a builtin function/class
// constructor via Call.
func (ev *Evaluator) evalCall(n *ast.CallExpr, env *Environment) types.Value {
	var args []types.Value
	kwargs := types.NewDict()
	for _, a := range n.Args {
		v := ev.evalExpr(a.Val, env)
		if a.Name == "" {
			args = append(args, v)
		} else {
			kwargs.Set(types.NewStr(a.Name), v)
		}
	}
	if name, ok := ev.isExternalCall(n.Func, env); ok {
		return ev.suspendCall(name, args, kwargs)
	}
	fnVal := ev.evalExpr(n.Func, env)
	v, exc := ev.callValueInternal(fnVal, args, kwargs)
	if exc != nil {
		raise(exc)
	}
	return v
}

func (ev *Evaluator) isExternalCall(funcExpr ast.Expr, env *Environment) (string, bool) {
	name, ok := funcExpr.(*ast.Name)
	if !ok {
		return "", false
	}
	if _, shadowed := env.Lookup(name.Id); shadowed {
		return "", false
	}
	if ev.externalNames[name.Id] {
		return name.Id, true
	}
	return "", false
}

// suspendCall hands the pending call description to the coroutine and
// blocks until the host resumes it with a return value or an injected
// exception.
func (ev *Evaluator) suspendCall(name string, args []types.Value, kwargs *types.DictValue) types.Value {
	if exc := ev.acct.PushCall(); exc != nil {
		raise(exc)
	}
	defer ev.acct.PopCall()
	return ev.coro.suspend(PendingCall{
		FuncName: name,
		Args:     types.NewTuple(args),
		Kwargs:   kwargs,
	})
}

// callValueInternal is the Caller.Call implementation builtin functions use
// to invoke a key/predicate argument (e.g. sorted(..., key=f),
// filter(f, ...)) and that with-statement __enter__/__exit__ dispatch also
// goes through.
func (ev *Evaluator) callValueInternal(fn types.Value, args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
	if kwargs == nil {
		kwargs = types.NewDict()
	}
	if exc := ev.acct.PushCall(); exc != nil {
		return nil, exc
	}
	defer ev.acct.PopCall()
	switch f := fn.(type) {
	case *types.BuiltinFunction:
		return f.Fn(args, kwargs)
	case *types.BuiltinClass:
		return f.Construct(args, kwargs)
	}
	return nil, types.NewException(types.TypeError, types.NewStr("'"+fn.Type().String()+"' object is not callable"))
}

// Call implements builtin.Caller, letting builtin functions call back into
// the evaluator without package eval's callers needing to know that detail.
func (ev *Evaluator) Call(fn types.Value, args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
	return ev.callValueInternal(fn, args, kwargs)
}

// Alloc implements builtin.Caller's resource-accounting half: builtins that
// construct new containers (e.g. list(), sorted()) charge the heap through
// this instead of reaching into package heap directly.
func (ev *Evaluator) Alloc(n int64) *types.ExceptionInstance {
	return ev.acct.Alloc(n)
}

// Print implements builtin.Caller's output half: the print() builtin never
// writes to os.Stdout directly, it always goes through the host-supplied
// output callback.
func (ev *Evaluator) Print(stream, text string) {
	ev.print(stream, text)
}
