package types

import (
	"math/big"
	"testing"
)

func TestNumericTowerEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"true equals one", NewBool(true), NewInt(1), true},
		{"false equals zero", NewBool(false), NewInt(0), true},
		{"true equals 1.0", NewBool(true), NewFloat(1.0), true},
		{"int equals equal float", NewInt(2), NewFloat(2.0), true},
		{"int does not equal different float", NewInt(2), NewFloat(2.5), false},
		{"bool does not equal two", NewBool(true), NewInt(2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestNumericTowerOrdering(t *testing.T) {
	lt, ok := Orderable(NewInt(1)).Less(NewFloat(1.5))
	if !ok || !lt {
		t.Fatalf("1 < 1.5 should hold, got lt=%v ok=%v", lt, ok)
	}
	lt, ok = Orderable(NewBool(false)).Less(NewInt(1))
	if !ok || !lt {
		t.Fatalf("False < 1 should hold, got lt=%v ok=%v", lt, ok)
	}
}

func TestBigIntPreservesPrecision(t *testing.T) {
	huge := new(big.Int)
	huge.SetString("123456789012345678901234567890", 10)
	v := NewBigInt(huge)
	if v.String() != "123456789012345678901234567890" {
		t.Errorf("big int round-trip lost precision: %s", v.String())
	}
}

func TestFloatReprAlwaysHasDecimalPoint(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.0, "3.0"},
		{3.5, "3.5"},
		{0.0, "0.0"},
	}
	for _, tt := range tests {
		if got := NewFloat(tt.in).String(); got != tt.want {
			t.Errorf("NewFloat(%v).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruthiness(t *testing.T) {
	falsy := []Value{NewNone(), NewBool(false), NewInt(0), NewFloat(0.0), NewStr(""), NewTuple(nil)}
	for _, v := range falsy {
		if v.Truthy() {
			t.Errorf("%v (%s) should be falsy", v, v.Type())
		}
	}
	truthy := []Value{NewBool(true), NewInt(1), NewFloat(0.1), NewStr("x"), NewTuple([]Value{NewInt(1)})}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Errorf("%v (%s) should be truthy", v, v.Type())
		}
	}
}

func TestNoneIdentityAndEquality(t *testing.T) {
	a, b := NewNone(), NewNone()
	if !a.Equal(b) {
		t.Error("two None values should compare equal")
	}
	if a.ID() == b.ID() {
		t.Error("distinct None instances should get distinct ids")
	}
}
