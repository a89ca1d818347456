package heap

import (
	"testing"

	"github.com/kustomzone/monty/types"
)

func int64p(n int64) *int64 { return &n }

func TestAllocUnlimitedByDefault(t *testing.T) {
	a := New(Limits{})
	for i := 0; i < 1000; i++ {
		if exc := a.Alloc(1000); exc != nil {
			t.Fatalf("unexpected allocation failure with no limit set: %v", exc)
		}
	}
}

func TestAllocExceedsLimit(t *testing.T) {
	a := New(Limits{MaxAllocations: int64p(10)})
	if exc := a.Alloc(5); exc != nil {
		t.Fatalf("allocation under the limit should not fail, got %v", exc)
	}
	exc := a.Alloc(10)
	if exc == nil {
		t.Fatal("allocation past the limit should fail")
	}
	if exc.Class != types.MemoryError {
		t.Errorf("expected MemoryError, got %v", exc.Class)
	}
}

func TestStepExceedsLimit(t *testing.T) {
	a := New(Limits{MaxSteps: int64p(2)})
	if exc := a.Step(); exc != nil {
		t.Fatalf("step 1 should not fail: %v", exc)
	}
	if exc := a.Step(); exc != nil {
		t.Fatalf("step 2 should not fail: %v", exc)
	}
	exc := a.Step()
	if exc == nil || exc.Class != types.RuntimeError {
		t.Fatalf("step 3 should fail with RuntimeError, got %v", exc)
	}
}

func TestPushCallExceedsMaxDepth(t *testing.T) {
	a := New(Limits{MaxDepth: int64p(2)})
	if exc := a.PushCall(); exc != nil {
		t.Fatalf("depth 1 should not fail: %v", exc)
	}
	if exc := a.PushCall(); exc != nil {
		t.Fatalf("depth 2 should not fail: %v", exc)
	}
	exc := a.PushCall()
	if exc == nil || exc.Class != types.RecursionError {
		t.Fatalf("depth 3 should fail with RecursionError, got %v", exc)
	}
}

func TestPushPopCallTracksDepth(t *testing.T) {
	a := New(Limits{})
	a.PushCall()
	a.PushCall()
	if a.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", a.Depth())
	}
	a.PopCall()
	if a.Depth() != 1 {
		t.Fatalf("expected depth 1 after pop, got %d", a.Depth())
	}
}

func TestPopCallNeverGoesNegative(t *testing.T) {
	a := New(Limits{})
	a.PopCall()
	if a.Depth() != 0 {
		t.Fatalf("expected depth to stay at 0, got %d", a.Depth())
	}
}
