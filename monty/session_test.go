package monty

import (
	"testing"

	"github.com/kustomzone/monty/types"
)

func TestStartCompletesOnSimpleExpression(t *testing.T) {
	sess, err := NewSession("1 + 2")
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	out, err := sess.Start(nil, ResourceLimits{}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	complete, ok := out.(*Complete)
	if !ok {
		t.Fatalf("expected *Complete, got %T", out)
	}
	if !complete.Output.Equal(types.NewInt(3)) {
		t.Errorf("output = %v, want 3", complete.Output)
	}
}

func TestStartSuspendsOnExternalCall(t *testing.T) {
	sess, err := NewSession("func()", WithExternalFunctions("func"))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	out, err := sess.Start(nil, ResourceLimits{}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	snap, ok := out.(*Snapshot)
	if !ok {
		t.Fatalf("expected *Snapshot, got %T", out)
	}
	if snap.FunctionName() != "func" {
		t.Errorf("FunctionName() = %q, want %q", snap.FunctionName(), "func")
	}
}

func TestResumeDeliversReturnValue(t *testing.T) {
	sess, err := NewSession("func() * 2", WithExternalFunctions("func"))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	out, err := sess.Start(nil, ResourceLimits{}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	snap := out.(*Snapshot)
	out2, err := snap.Resume(types.NewInt(21), nil)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	complete, ok := out2.(*Complete)
	if !ok {
		t.Fatalf("expected *Complete after resume, got %T", out2)
	}
	if !complete.Output.Equal(types.NewInt(42)) {
		t.Errorf("output = %v, want 42", complete.Output)
	}
}

func TestResumeRejectsBothReturnAndException(t *testing.T) {
	sess, _ := NewSession("func()", WithExternalFunctions("func"))
	out, _ := sess.Start(nil, ResourceLimits{}, nil)
	snap := out.(*Snapshot)
	exc := types.NewException(types.ValueError, types.NewStr("boom"))
	_, err := snap.Resume(types.NewInt(1), exc)
	if err == nil {
		t.Fatal("expected resuming with both a value and an exception to fail")
	}
	if _, ok := err.(*HostError); !ok {
		t.Errorf("expected *HostError, got %T", err)
	}
}

func TestResumeTwiceFails(t *testing.T) {
	sess, _ := NewSession("func()", WithExternalFunctions("func"))
	out, _ := sess.Start(nil, ResourceLimits{}, nil)
	snap := out.(*Snapshot)
	if _, err := snap.Resume(types.NewInt(1), nil); err != nil {
		t.Fatalf("first resume should succeed: %v", err)
	}
	if _, err := snap.Resume(types.NewInt(2), nil); err == nil {
		t.Fatal("expected the second resume of the same snapshot to fail")
	}
}

func TestUncaughtExceptionReturnsMontyRuntimeError(t *testing.T) {
	sess, err := NewSession("1 // 0")
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	_, err = sess.Start(nil, ResourceLimits{}, nil)
	if err == nil {
		t.Fatal("expected division by zero to surface as an error")
	}
	rerr, ok := err.(*MontyRuntimeError)
	if !ok {
		t.Fatalf("expected *MontyRuntimeError, got %T", err)
	}
	if rerr.Exception().Class != types.ZeroDivisionError {
		t.Errorf("expected ZeroDivisionError, got %v", rerr.Exception().Class)
	}
}

func TestNewSessionSyntaxErrorIsHostError(t *testing.T) {
	_, err := NewSession("def f():\n    pass\n")
	if err == nil {
		t.Fatal("expected a parse failure for a def statement")
	}
	herr, ok := err.(*HostError)
	if !ok {
		t.Fatalf("expected *HostError, got %T", err)
	}
	if herr.Class != types.SyntaxError {
		t.Errorf("expected SyntaxError, got %v", herr.Class)
	}
}

func TestWithInputsBindsDeclaredNamesOnly(t *testing.T) {
	sess, err := NewSession("x + 1", WithInputs("x"))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	inputs := map[string]types.Value{"x": types.NewInt(4), "y": types.NewInt(100)}
	out, err := sess.Start(inputs, ResourceLimits{}, nil)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	complete := out.(*Complete)
	if !complete.Output.Equal(types.NewInt(5)) {
		t.Errorf("output = %v, want 5", complete.Output)
	}
}

func TestResourceLimitsMaxStepsFaults(t *testing.T) {
	steps := int64(1)
	sess, err := NewSession("1 + 1 + 1 + 1")
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	_, err = sess.Start(nil, ResourceLimits{MaxSteps: &steps}, nil)
	if err == nil {
		t.Fatal("expected a tight step limit to fault")
	}
}

func TestPrintFuncReceivesOutput(t *testing.T) {
	sess, err := NewSession(`print("hi")`)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	var got []string
	print := func(stream, text string) { got = append(got, stream+":"+text) }
	if _, err := sess.Start(nil, ResourceLimits{}, print); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	want := []string{"stdout:hi", "stdout:\n"}
	if len(got) != len(want) {
		t.Fatalf("print callback received %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("print callback entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}
