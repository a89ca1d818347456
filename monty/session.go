// Package monty is the host-facing embedding surface: construct a Session
// from source text, start it against a set of inputs, and either consume its
// final value or, when execution reaches a declared external function,
// resume it with the call's result (or an injected exception) as many times
// as the script requires. The shape mirrors a request/response session,
// narrowed from a network connection lifecycle to a single-script
// suspend/resume lifecycle.
package monty

import (
	"github.com/kustomzone/monty/ast"
	"github.com/kustomzone/monty/builtin"
	"github.com/kustomzone/monty/eval"
	"github.com/kustomzone/monty/heap"
	"github.com/kustomzone/monty/parser"
	"github.com/kustomzone/monty/types"
)

// ResourceLimits caps allocations, evaluation steps and call depth; a nil
// field means unlimited.
type ResourceLimits struct {
	MaxAllocations *int64
	MaxSteps       *int64
	MaxDepth       *int64
}

func (r ResourceLimits) toHeap() heap.Limits {
	return heap.Limits{MaxAllocations: r.MaxAllocations, MaxSteps: r.MaxSteps, MaxDepth: r.MaxDepth}
}

// PrintFunc receives print() output; stream is "stdout" or "stderr"
// (print(file=sys.stdout) and print(file=sys.stderr) select theirs; any
// other module passed as file= tags the output with that module's name).
type PrintFunc func(stream, text string)

// Session is one compiled script, reusable across many start() calls. It
// owns nothing mutable shared across runs: every start() gets its own
// Evaluator, Environment and heap.Accounting, so each invocation begins a
// fresh evaluator state.
type Session struct {
	mod            *ast.Module
	scriptName     string
	declaredInputs []string
	externalNames  map[string]bool
	env            map[string]string
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithScriptName overrides the default "main.py" used to decorate traceback
// frames and snapshot descriptions.
func WithScriptName(name string) Option {
	return func(s *Session) { s.scriptName = name }
}

// WithInputs declares the names start()'s inputs map may bind into module
// scope.
func WithInputs(names ...string) Option {
	return func(s *Session) { s.declaredInputs = names }
}

// WithExternalFunctions declares the names whose calls suspend the
// evaluator instead of resolving against the builtin registry.
func WithExternalFunctions(names ...string) Option {
	return func(s *Session) {
		for _, n := range names {
			s.externalNames[n] = true
		}
	}
}

// WithEnv supplies the sandboxed table os.getenv sees. Absent, os.getenv
// always falls through to its default argument or None.
func WithEnv(env map[string]string) Option {
	return func(s *Session) { s.env = env }
}

// NewSession parses source and returns a reusable Session, or a SyntaxError
// wrapped in a HostError if the source fails to parse.
func NewSession(source string, opts ...Option) (*Session, error) {
	s := &Session{
		scriptName:    "main.py",
		externalNames: make(map[string]bool),
	}
	for _, o := range opts {
		o(s)
	}
	mod, err := parser.Parse(source)
	if err != nil {
		return nil, &HostError{Class: types.SyntaxError, Msg: err.Error()}
	}
	s.mod = mod
	return s, nil
}

// Start begins a fresh evaluation: inputs are bound into module scope under
// the declared input names (unknown names are ignored), limits bound the
// heap, and print is invoked synchronously for every print() call. Returns
// *Complete, *Snapshot, or a *MontyRuntimeError fault.
func (s *Session) Start(inputs map[string]types.Value, limits ResourceLimits, print PrintFunc) (Outcome, error) {
	if print == nil {
		print = func(string, string) {}
	}
	ev := eval.New(s.scriptName, s.externalNames, limits.toHeap(), eval.PrintCallback(print))
	ev.SetRegistry(builtin.NewRegistry(ev, s.env))
	for _, name := range s.declaredInputs {
		if v, ok := inputs[name]; ok {
			ev.Globals().Set(name, v)
		}
	}
	coro := eval.NewCoroutine()
	return makeOutcome(s.scriptName, coro, coro.Start(s.mod, ev))
}

// makeOutcome translates a raw eval.StepOutcome into the host-facing
// Complete / Snapshot / fault shape the suspend/resume state machine
// describes. Shared by Session.Start and Snapshot.Resume.
func makeOutcome(scriptName string, coro *eval.Coroutine, out eval.StepOutcome) (Outcome, error) {
	if out.Fault != nil {
		return nil, &MontyRuntimeError{Exc: out.Fault}
	}
	if out.Call != nil {
		return &Snapshot{
			scriptName:   scriptName,
			functionName: out.Call.FuncName,
			args:         out.Call.Args,
			kwargs:       out.Call.Kwargs,
			coro:         coro,
		}, nil
	}
	return &Complete{Output: out.Output}, nil
}
