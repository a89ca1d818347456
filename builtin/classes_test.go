package builtin

import (
	"testing"

	"github.com/kustomzone/monty/types"
)

func construct(t *testing.T, r *Registry, name string, args []types.Value, kwargs *types.DictValue) types.Value {
	t.Helper()
	v, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("class %q not registered", name)
	}
	bc, ok := v.(*types.BuiltinClass)
	if !ok {
		t.Fatalf("%q is not a BuiltinClass, got %T", name, v)
	}
	out, exc := bc.Construct(args, kwargs)
	if exc != nil {
		t.Fatalf("%s(...) raised %v: %s", name, exc.Class, exc.Message())
	}
	return out
}

func TestIntFromString(t *testing.T) {
	r, _ := newTestRegistry()
	got := construct(t, r, "int", []types.Value{types.NewStr("42")}, nil)
	if !got.Equal(types.NewInt(42)) {
		t.Errorf("int(\"42\") = %v, want 42", got)
	}
}

func TestIntFromBool(t *testing.T) {
	r, _ := newTestRegistry()
	got := construct(t, r, "int", []types.Value{types.NewBool(true)}, nil)
	if !got.Equal(types.NewInt(1)) {
		t.Errorf("int(True) = %v, want 1", got)
	}
}

func TestFloatFromInt(t *testing.T) {
	r, _ := newTestRegistry()
	got := construct(t, r, "float", []types.Value{types.NewInt(3)}, nil)
	if !got.Equal(types.NewFloat(3.0)) {
		t.Errorf("float(3) = %v, want 3.0", got)
	}
}

func TestListFromRange(t *testing.T) {
	r, _ := newTestRegistry()
	rangeVal := types.NewRange(0, 3, 1)
	got := construct(t, r, "list", []types.Value{rangeVal}, nil)
	l, ok := got.(*types.ListValue)
	if !ok || l.Len() != 3 {
		t.Fatalf("list(range(0,3)) = %v, want a 3-element list", got)
	}
}

func TestDictFromKwargs(t *testing.T) {
	r, _ := newTestRegistry()
	kwargs := types.NewDict()
	kwargs.Set(types.NewStr("x"), types.NewInt(1))
	got := construct(t, r, "dict", nil, kwargs)
	d := got.(*types.DictValue)
	v, ok := d.Get(types.NewStr("x"))
	if !ok || !v.Equal(types.NewInt(1)) {
		t.Errorf("dict(x=1) did not contain x=1, got %v", d)
	}
}

func TestRangeRejectsZeroStep(t *testing.T) {
	r, _ := newTestRegistry()
	v, _ := r.Lookup("range")
	bc := v.(*types.BuiltinClass)
	_, exc := bc.Construct([]types.Value{types.NewInt(0), types.NewInt(10), types.NewInt(0)}, nil)
	if exc == nil || exc.Class != types.ValueError {
		t.Fatalf("range(0, 10, 0) should raise ValueError, got %v", exc)
	}
}

func TestEnumerateWithStart(t *testing.T) {
	r, _ := newTestRegistry()
	kwargs := types.NewDict()
	kwargs.Set(types.NewStr("start"), types.NewInt(5))
	got := construct(t, r, "enumerate", []types.Value{types.NewList([]types.Value{types.NewStr("a"), types.NewStr("b")})}, kwargs)
	it := got.(*types.Iterator)
	first, ok := it.Next()
	if !ok {
		t.Fatal("expected at least one enumerate result")
	}
	tup := first.(types.TupleValue)
	if !tup.Elems[0].Equal(types.NewInt(5)) {
		t.Errorf("enumerate(..., start=5) first index = %v, want 5", tup.Elems[0])
	}
}
