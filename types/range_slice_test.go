package types

import "testing"

func TestRangeLenPositiveStep(t *testing.T) {
	tests := []struct {
		start, stop, step int64
		want              int
	}{
		{0, 5, 1, 5},
		{0, 10, 2, 5},
		{0, 0, 1, 0},
		{5, 0, 1, 0},
	}
	for _, tt := range tests {
		r := NewRange(tt.start, tt.stop, tt.step)
		if got := r.Len(); got != tt.want {
			t.Errorf("range(%d,%d,%d).Len() = %d, want %d", tt.start, tt.stop, tt.step, got, tt.want)
		}
	}
}

func TestRangeLenNegativeStep(t *testing.T) {
	r := NewRange(5, 0, -1)
	if got := r.Len(); got != 5 {
		t.Errorf("range(5,0,-1).Len() = %d, want 5", got)
	}
}

func TestRangeIterYieldsExpectedValues(t *testing.T) {
	r := NewRange(0, 5, 2)
	it := r.Iter()
	var got []int64
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v.(IntValue).Val.Int64())
	}
	want := []int64{0, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d]=%d, want %d", i, got[i], want[i])
		}
	}
}

func TestIdentityStableForSameMutableValue(t *testing.T) {
	l := NewList([]Value{NewInt(1)})
	if Identity(l) != Identity(l) {
		t.Error("identity of the same list instance should be stable")
	}
}

func TestIdentityDistinctForDistinctLists(t *testing.T) {
	a := NewList(nil)
	b := NewList(nil)
	if Identity(a) == Identity(b) {
		t.Error("distinct list instances should have distinct identities")
	}
}

func TestIdentitySmallIntCacheIsStable(t *testing.T) {
	if Identity(NewInt(5)) != Identity(NewInt(5)) {
		t.Error("small int identity should be cached like CPython's -5..256 interning")
	}
}

func TestLessThanTypeMismatchReturnsTypeError(t *testing.T) {
	_, exc := LessThan(NewStr("a"), NewInt(1))
	if exc == nil || exc.Class != TypeError {
		t.Fatalf("expected TypeError comparing str < int, got %v", exc)
	}
}

func TestHashOfMutableValueIsUnhashable(t *testing.T) {
	_, exc := HashOf(NewList(nil))
	if exc == nil || exc.Class != TypeError {
		t.Fatalf("expected TypeError hashing a list, got %v", exc)
	}
}
