package eval

import (
	"testing"

	"github.com/kustomzone/monty/heap"
	"github.com/kustomzone/monty/types"
)

func newTestEvaluator() *Evaluator {
	return New("test", nil, heap.Limits{}, nil)
}

// expectRaise runs fn and returns the exception class it raised, failing the
// test if fn didn't raise at all.
func expectRaise(t *testing.T, fn func()) *types.ExceptionInstance {
	t.Helper()
	var exc *types.ExceptionInstance
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			var ok bool
			exc, ok = asRaise(r)
			if !ok {
				t.Fatalf("panic was not a raiseSignal: %v", r)
			}
		}()
		fn()
	}()
	if exc == nil {
		t.Fatal("expected fn to raise an exception, but it returned normally")
	}
	return exc
}

func TestBinOpIntAddition(t *testing.T) {
	ev := newTestEvaluator()
	got := ev.binOp("+", types.NewInt(2), types.NewInt(3))
	if !got.Equal(types.NewInt(5)) {
		t.Errorf("2 + 3 = %v, want 5", got)
	}
}

func TestBinOpFloatContaminatesInt(t *testing.T) {
	ev := newTestEvaluator()
	got := ev.binOp("+", types.NewInt(2), types.NewFloat(0.5))
	f, ok := got.(types.FloatValue)
	if !ok || f.Val != 2.5 {
		t.Errorf("2 + 0.5 = %v, want float 2.5", got)
	}
}

func TestBinOpStringConcatenation(t *testing.T) {
	ev := newTestEvaluator()
	got := ev.binOp("+", types.NewStr("foo"), types.NewStr("bar"))
	if !got.Equal(types.NewStr("foobar")) {
		t.Errorf(`"foo" + "bar" = %v, want "foobar"`, got)
	}
}

func TestBinOpStringPlusIntIsTypeError(t *testing.T) {
	ev := newTestEvaluator()
	exc := expectRaise(t, func() { ev.binOp("+", types.NewStr("foo"), types.NewInt(1)) })
	if exc.Class != types.TypeError {
		t.Errorf("expected TypeError, got %v", exc.Class)
	}
}

func TestOpFloorDivByZeroRaisesZeroDivisionError(t *testing.T) {
	ev := newTestEvaluator()
	exc := expectRaise(t, func() { ev.binOp("//", types.NewInt(1), types.NewInt(0)) })
	if exc.Class != types.ZeroDivisionError {
		t.Errorf("expected ZeroDivisionError, got %v", exc.Class)
	}
}

func TestPyFloorDivRoundsTowardNegativeInfinity(t *testing.T) {
	ev := newTestEvaluator()
	got := ev.binOp("//", types.NewInt(-7), types.NewInt(2))
	if !got.Equal(types.NewInt(-4)) {
		t.Errorf("-7 // 2 = %v, want -4 (floor toward -inf, Python semantics)", got)
	}
}

func TestPyModMatchesFloorDivSign(t *testing.T) {
	ev := newTestEvaluator()
	got := ev.binOp("%", types.NewInt(-7), types.NewInt(2))
	if !got.Equal(types.NewInt(1)) {
		t.Errorf("-7 %% 2 = %v, want 1 (sign follows the divisor)", got)
	}
}

func TestStringRepetition(t *testing.T) {
	ev := newTestEvaluator()
	got := ev.binOp("*", types.NewStr("ab"), types.NewInt(3))
	if !got.Equal(types.NewStr("ababab")) {
		t.Errorf(`"ab" * 3 = %v, want "ababab"`, got)
	}
}

func TestCompareOpNumericTower(t *testing.T) {
	ev := newTestEvaluator()
	if !ev.compareOp("==", types.NewBool(true), types.NewInt(1)) {
		t.Error("True == 1 should hold across the numeric tower")
	}
	if !ev.compareOp("<", types.NewInt(1), types.NewFloat(1.5)) {
		t.Error("1 < 1.5 should hold")
	}
}

func TestContainsAcrossContainerTypes(t *testing.T) {
	ev := newTestEvaluator()
	list := types.NewList([]types.Value{types.NewInt(1), types.NewInt(2)})
	if !ev.contains(list, types.NewInt(2)) {
		t.Error("2 should be 'in' [1, 2]")
	}
	if ev.contains(list, types.NewInt(3)) {
		t.Error("3 should not be 'in' [1, 2]")
	}
	if !ev.contains(types.NewStr("hello"), types.NewStr("ell")) {
		t.Error("'ell' should be 'in' 'hello'")
	}
}

func TestUnaryNegAndInvert(t *testing.T) {
	ev := newTestEvaluator()
	if got := ev.unaryNeg(types.NewInt(5)); !got.Equal(types.NewInt(-5)) {
		t.Errorf("-(5) = %v, want -5", got)
	}
	if got := ev.unaryInvert(types.NewInt(0)); !got.Equal(types.NewInt(-1)) {
		t.Errorf("~0 = %v, want -1", got)
	}
}
