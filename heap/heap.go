// Package heap implements monty's allocation and step accounting: resource
// limits are threaded directly through the evaluator instead of through a
// global option cache, since a sandboxed session has no shared server state.
package heap

import "github.com/kustomzone/monty/types"

// Limits mirrors the host-facing ResourceLimits: every field is optional
// (nil = unlimited).
type Limits struct {
	MaxAllocations *int64
	MaxSteps       *int64
	MaxDepth       *int64
}

// Accounting tracks allocation count, step count and call depth for a single
// start()/resume() invocation. It is not safe for concurrent use — sessions
// are single-threaded.
type Accounting struct {
	limits      Limits
	allocations int64
	steps       int64
	depth       int64
}

func New(limits Limits) *Accounting {
	return &Accounting{limits: limits}
}

// Alloc charges n units against the allocation ceiling. Invariant 4: the
// counter is monotonic within one start/resume call and is checked before
// each allocation completes.
func (a *Accounting) Alloc(n int64) *types.ExceptionInstance {
	a.allocations += n
	if a.limits.MaxAllocations != nil && a.allocations > *a.limits.MaxAllocations {
		return types.NewException(types.MemoryError, types.NewStr("allocation limit exceeded"))
	}
	return nil
}

// Step charges one evaluation step (one AST node visited).
func (a *Accounting) Step() *types.ExceptionInstance {
	a.steps++
	if a.limits.MaxSteps != nil && a.steps > *a.limits.MaxSteps {
		return types.NewException(types.RuntimeError, types.NewStr("execution step limit exceeded"))
	}
	return nil
}

// PushCall increments call depth, failing with RecursionError past the
// configured ceiling.
func (a *Accounting) PushCall() *types.ExceptionInstance {
	a.depth++
	if a.limits.MaxDepth != nil && a.depth > *a.limits.MaxDepth {
		return types.NewException(types.RecursionError, types.NewStr("maximum recursion depth exceeded"))
	}
	return nil
}

// PopCall decrements call depth on frame return/unwind.
func (a *Accounting) PopCall() {
	if a.depth > 0 {
		a.depth--
	}
}

func (a *Accounting) Allocations() int64 { return a.allocations }
func (a *Accounting) Steps() int64       { return a.steps }
func (a *Accounting) Depth() int64       { return a.depth }
