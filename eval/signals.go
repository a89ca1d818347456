package eval

import "github.com/kustomzone/monty/types"

// Non-local control flow (break/continue/return/raise) unwinds the Go call
// stack via panic/recover with these sentinel types, matched narrowly at the
// points the language grammar allows — the loop body for break/continue,
// the statement list for raise/try, and the coroutine boundary for return.
// Any other panic value is not ours and is re-raised.

type breakSignal struct{}
type continueSignal struct{}

type returnSignal struct{ Value types.Value }

// raiseSignal carries an in-flight exception up the Go stack until a
// matching except clause, a finally block, or the coroutine boundary
// observes it.
type raiseSignal struct{ Exc *types.ExceptionInstance }

// suspendSignal is never panicked — evaluation of an external call blocks
// synchronously on the coroutine's channels instead, so the Go goroutine
// stack itself holds the continuation. It exists here only as documentation
// of the fourth control-flow shape alongside the three above.
type suspendSignal struct{}

func raise(exc *types.ExceptionInstance) {
	panic(raiseSignal{Exc: exc})
}

// asRaise re-panics anything that isn't our own raiseSignal. Callers invoke
// this directly from their own deferred func literal — recover() only
// observes a panic when called directly by the deferred function, so this
// helper takes the already-recovered value rather than calling recover
// itself.
func asRaise(r interface{}) (*types.ExceptionInstance, bool) {
	if rs, ok := r.(raiseSignal); ok {
		return rs.Exc, true
	}
	panic(r)
}
