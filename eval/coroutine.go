package eval

import (
	"github.com/kustomzone/monty/ast"
	"github.com/kustomzone/monty/heap"
	"github.com/kustomzone/monty/types"
)

// PrintCallback is invoked once per emitted token, tagged with the
// destination stream.
type PrintCallback func(stream, text string)

// PendingCall describes a suspended external-function call site.
type PendingCall struct {
	FuncName string
	Args     types.TupleValue
	Kwargs   *types.DictValue
}

// ResumeInput is what the host hands back across the suspension boundary:
// exactly one of a return value or a raised exception, never both (the
// XOR is enforced by the caller in package monty).
type ResumeInput struct {
	Return types.Value
	Exc    *types.ExceptionInstance
}

// StepOutcome is what a Start/Resume call produces: either Done (Complete or
// an uncaught Fault) or a new pending Call to suspend on.
type StepOutcome struct {
	Done   bool
	Output types.Value
	Fault  *types.ExceptionInstance
	Call   *PendingCall
}

// Coroutine runs one module's evaluation on a dedicated goroutine and
// exchanges control with the host over two unbuffered channels. Suspending
// a tree-walking evaluator across an arbitrary external call site generally
// calls for reifying an explicit frame stack (operand stack, instruction
// pointer, pending handlers). Go's own goroutine stack already *is* such a
// reified, inspectable-by-construction continuation: blocking a goroutine
// on a channel read at the external-call site freezes every pending frame
// (loop state, try/finally defers, operand expressions) in place, the same
// way a bytecode interpreter freezes its yielded flag and operand stack on
// suspend — generalized here from a dispatch loop to a tree-walking one.
// Only one of the host goroutine or the eval goroutine ever runs at a
// time, so this stays single-threaded and cooperative despite using a
// second goroutine as an implementation device.
type Coroutine struct {
	toEval   chan ResumeInput
	fromEval chan StepOutcome
	started  bool
	done     bool
}

func NewCoroutine() *Coroutine {
	return &Coroutine{
		toEval:   make(chan ResumeInput),
		fromEval: make(chan StepOutcome),
	}
}

// Start launches the evaluator goroutine for mod and blocks for its first
// outcome (completion, fault, or first suspension).
func (c *Coroutine) Start(mod *ast.Module, ev *Evaluator) StepOutcome {
	c.started = true
	go c.run(mod, ev)
	return <-c.fromEval
}

// Resume delivers in across the suspension boundary and blocks for the
// next outcome. The caller (package monty) is responsible for rejecting a
// Resume after Done was already observed.
func (c *Coroutine) Resume(in ResumeInput) StepOutcome {
	c.toEval <- in
	return <-c.fromEval
}

func (c *Coroutine) run(mod *ast.Module, ev *Evaluator) {
	ev.coro = c
	defer func() {
		c.done = true
		if r := recover(); r != nil {
			exc, ok := asRaise(r)
			if !ok {
				// Unreachable in practice: asRaise re-panics anything
				// else, which would crash the goroutine instead.
				return
			}
			c.fromEval <- StepOutcome{Done: true, Fault: exc}
		}
	}()
	out := ev.RunModule(mod)
	c.fromEval <- out
}

// suspend is called from the evaluator at an external-call site. It hands
// the call description to the host and blocks until Resume delivers a
// value or an exception, at which point it returns the delivered value or
// panics with raiseSignal so normal try/except unwinding takes over.
func (c *Coroutine) suspend(call PendingCall) types.Value {
	c.fromEval <- StepOutcome{Done: false, Call: &call}
	in := <-c.toEval
	if in.Exc != nil {
		raise(in.Exc)
	}
	return in.Return
}

// Accounting exposes the live resource counters for a Coroutine's
// evaluator, used by package monty to report usage after a fault.
func (ev *Evaluator) Accounting() *heap.Accounting { return ev.acct }
