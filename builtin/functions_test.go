package builtin

import (
	"testing"

	"github.com/kustomzone/monty/types"
)

// fakeCaller is a minimal Caller good enough for exercising the free
// functions that need to call back into script-visible callables.
type fakeCaller struct {
	printed []string
}

func (f *fakeCaller) Call(fn types.Value, args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
	bf, ok := fn.(*types.BuiltinFunction)
	if !ok {
		return nil, types.NewException(types.TypeError, types.NewStr("object is not callable"))
	}
	return bf.Fn(args, kwargs)
}
func (f *fakeCaller) Alloc(n int64) *types.ExceptionInstance { return nil }
func (f *fakeCaller) Print(stream, text string)               { f.printed = append(f.printed, stream+":"+text) }
func (f *fakeCaller) HasAttr(v types.Value, name string) bool {
	m, ok := v.(*types.Module)
	if !ok {
		return false
	}
	_, ok = m.Attr(name)
	return ok
}

func newTestRegistry() (*Registry, *fakeCaller) {
	c := &fakeCaller{}
	return NewRegistry(c, map[string]string{"HOME": "/home/test"}), c
}

func call(t *testing.T, r *Registry, name string, args []types.Value, kwargs *types.DictValue) types.Value {
	t.Helper()
	v, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("builtin %q not registered", name)
	}
	bf, ok := v.(*types.BuiltinFunction)
	if !ok {
		t.Fatalf("builtin %q is not a BuiltinFunction, got %T", name, v)
	}
	out, exc := bf.Fn(args, kwargs)
	if exc != nil {
		t.Fatalf("%s(...) raised %v: %s", name, exc.Class, exc.Message())
	}
	return out
}

func TestLenAcrossContainers(t *testing.T) {
	r, _ := newTestRegistry()
	got := call(t, r, "len", []types.Value{types.NewList([]types.Value{types.NewInt(1), types.NewInt(2), types.NewInt(3)})}, nil)
	if !got.Equal(types.NewInt(3)) {
		t.Errorf("len([1,2,3]) = %v, want 3", got)
	}
}

func TestSumWithDefaultStart(t *testing.T) {
	r, _ := newTestRegistry()
	got := call(t, r, "sum", []types.Value{types.NewList([]types.Value{types.NewInt(1), types.NewInt(2), types.NewInt(3)})}, nil)
	if !got.Equal(types.NewInt(6)) {
		t.Errorf("sum([1,2,3]) = %v, want 6", got)
	}
}

func TestDivmod(t *testing.T) {
	r, _ := newTestRegistry()
	got := call(t, r, "divmod", []types.Value{types.NewInt(17), types.NewInt(5)}, nil)
	tup, ok := got.(types.TupleValue)
	if !ok || tup.Len() != 2 {
		t.Fatalf("divmod(17, 5) = %v, want a 2-tuple", got)
	}
	if !tup.Elems[0].Equal(types.NewInt(3)) || !tup.Elems[1].Equal(types.NewInt(2)) {
		t.Errorf("divmod(17, 5) = %v, want (3, 2)", got)
	}
}

func TestIsinstanceNumericTower(t *testing.T) {
	r, _ := newTestRegistry()
	intCls, ok := r.Lookup("int")
	if !ok {
		t.Fatal("builtin class 'int' not registered")
	}
	got := call(t, r, "isinstance", []types.Value{types.NewBool(true), intCls}, nil)
	if !got.Equal(types.NewBool(true)) {
		t.Errorf("isinstance(True, int) = %v, want True", got)
	}
}

func TestSortedWithBuiltinKey(t *testing.T) {
	r, _ := newTestRegistry()
	lenFn, ok := r.Lookup("len")
	if !ok {
		t.Fatal("builtin 'len' not registered")
	}
	kwargs := types.NewDict()
	kwargs.Set(types.NewStr("key"), lenFn)
	got := call(t, r, "sorted", []types.Value{
		types.NewList([]types.Value{types.NewStr("ccc"), types.NewStr("a"), types.NewStr("bb")}),
	}, kwargs)
	list, ok := got.(*types.ListValue)
	if !ok {
		t.Fatalf("sorted(...) = %T, want *types.ListValue", got)
	}
	want := []string{"a", "bb", "ccc"}
	if list.Len() != len(want) {
		t.Fatalf("sorted result has %d elements, want %d", list.Len(), len(want))
	}
	for i, s := range *list.Elems {
		sv, ok := s.(types.StringValue)
		if !ok || sv.Raw() != want[i] {
			t.Errorf("sorted result[%d] = %v, want %q", i, s, want[i])
		}
	}
}

func TestHasattrNonStringNameMessage(t *testing.T) {
	r, _ := newTestRegistry()
	v, ok := r.Lookup("hasattr")
	if !ok {
		t.Fatal("builtin 'hasattr' not registered")
	}
	bf := v.(*types.BuiltinFunction)
	_, exc := bf.Fn([]types.Value{types.NewList(nil), types.NewInt(123)}, nil)
	if exc == nil || exc.Class != types.TypeError {
		t.Fatalf("hasattr(s, 123) should raise TypeError, got %v", exc)
	}
	want := "attribute name must be string, not 'int'"
	if exc.Message() != want {
		t.Errorf("hasattr(s, 123) message = %q, want %q", exc.Message(), want)
	}
}

func TestFilterRejectsNonCallablePredicate(t *testing.T) {
	r, _ := newTestRegistry()
	v, ok := r.Lookup("filter")
	if !ok {
		t.Fatal("builtin 'filter' not registered")
	}
	bf := v.(*types.BuiltinFunction)
	_, exc := bf.Fn([]types.Value{types.NewInt(4), types.NewList([]types.Value{types.NewInt(1), types.NewInt(2)})}, nil)
	if exc == nil || exc.Class != types.TypeError {
		t.Fatalf("filter(4, ...) should raise TypeError, got %v", exc)
	}
	if exc.Message() != "'int' object is not callable" {
		t.Errorf("filter(4, ...) message = %q, want \"'int' object is not callable\"", exc.Message())
	}
}

func TestFilterRejectsCallableButNotBuiltinFunction(t *testing.T) {
	r, _ := newTestRegistry()
	v, ok := r.Lookup("filter")
	if !ok {
		t.Fatal("builtin 'filter' not registered")
	}
	bf := v.(*types.BuiltinFunction)
	intCls, ok := r.Lookup("int")
	if !ok {
		t.Fatal("builtin 'int' not registered")
	}
	_, exc := bf.Fn([]types.Value{intCls, types.NewList([]types.Value{types.NewInt(1)})}, nil)
	if exc == nil || exc.Class != types.TypeError {
		t.Fatalf("filter(int, ...) should raise TypeError, got %v", exc)
	}
	want := "filter() predicate must be None or a builtin function (user-defined functions not yet supported)"
	if exc.Message() != want {
		t.Errorf("filter(int, ...) message = %q, want %q", exc.Message(), want)
	}
}

func TestPrintTokenizesOneCallbackPerArgSepAndEnd(t *testing.T) {
	r, c := newTestRegistry()
	call(t, r, "print", []types.Value{types.NewStr("hello")}, nil)
	want := []string{"stdout:hello", "stdout:\n"}
	if !equalStrings(c.printed, want) {
		t.Errorf("print(\"hello\") routed %v, want %v", c.printed, want)
	}

	c.printed = nil
	call(t, r, "print", []types.Value{types.NewStr("a"), types.NewStr("b")}, nil)
	want = []string{"stdout:a", "stdout: ", "stdout:b", "stdout:\n"}
	if !equalStrings(c.printed, want) {
		t.Errorf("print(\"a\", \"b\") routed %v, want %v", c.printed, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHashStringIsDeterministic(t *testing.T) {
	r, _ := newTestRegistry()
	a := call(t, r, "hash", []types.Value{types.NewStr("same")}, nil)
	b := call(t, r, "hash", []types.Value{types.NewStr("same")}, nil)
	if !a.Equal(b) {
		t.Errorf("hash(\"same\") should be stable across calls, got %v and %v", a, b)
	}
}
