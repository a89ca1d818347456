package monty

import (
	"fmt"

	"github.com/kustomzone/monty/eval"
	"github.com/kustomzone/monty/types"
)

// Outcome is what Start/Resume returns on success: either *Complete or
// *Snapshot. It carries no methods of its own — callers type-switch on it,
// the way a task runner type-switches its own run-loop results.
type Outcome interface {
	isOutcome()
}

// Complete is the terminal state: the module finished running and Output is
// the value of its last top-level expression statement (None otherwise).
type Complete struct {
	Output types.Value
}

func (*Complete) isOutcome() {}

func (c *Complete) String() string {
	return fmt.Sprintf("MontyComplete(output=%s)", c.Output.String())
}

// Snapshot describes one suspended external call. It is single-shot: after
// the first successful Resume (or a Resume that itself faults), further
// Resume calls fail with a HostError carrying RuntimeError("Progress
// already resumed").
type Snapshot struct {
	scriptName   string
	functionName string
	args         types.TupleValue
	kwargs       *types.DictValue
	coro         *eval.Coroutine
	resumed      bool
}

func (*Snapshot) isOutcome() {}

func (s *Snapshot) ScriptName() string        { return s.scriptName }
func (s *Snapshot) FunctionName() string       { return s.functionName }
func (s *Snapshot) Args() types.TupleValue     { return s.args }
func (s *Snapshot) Kwargs() *types.DictValue   { return s.kwargs }

func (s *Snapshot) String() string {
	return fmt.Sprintf("MontySnapshot(script_name=%s, function_name=%s, args=%s, kwargs=%s)",
		types.NewStr(s.scriptName).String(), types.NewStr(s.functionName).String(),
		s.args.String(), s.kwargs.String())
}

// Resume delivers exactly one of returnValue or exc back to the suspended
// call site. Passing both, or neither, is host misuse and fails with
// TypeError("resume() accepts either return_value or exception, not both")
// without touching the snapshot's continuation.
func (s *Snapshot) Resume(returnValue types.Value, exc *types.ExceptionInstance) (Outcome, error) {
	if (returnValue == nil) == (exc == nil) {
		return nil, &HostError{Class: types.TypeError, Msg: "resume() accepts either return_value or exception, not both"}
	}
	if s.resumed {
		return nil, &HostError{Class: types.RuntimeError, Msg: "Progress already resumed"}
	}
	s.resumed = true
	out := s.coro.Resume(eval.ResumeInput{Return: returnValue, Exc: exc})
	return makeOutcome(s.scriptName, s.coro, out)
}
