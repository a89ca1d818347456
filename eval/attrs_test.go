package eval

import (
	"testing"

	"github.com/kustomzone/monty/types"
)

func TestListAppendMethod(t *testing.T) {
	ev := newTestEvaluator()
	l := types.NewList([]types.Value{types.NewInt(1)})
	v, ok := ev.getAttr(l, "append")
	if !ok {
		t.Fatal("expected list to have an 'append' attribute")
	}
	fn := v.(*types.BuiltinFunction)
	if _, exc := fn.Fn([]types.Value{types.NewInt(2)}, nil); exc != nil {
		t.Fatalf("append failed: %v", exc)
	}
	if l.Len() != 2 || !(*l.Elems)[1].Equal(types.NewInt(2)) {
		t.Errorf("list after append = %v, want [1, 2]", l)
	}
}

func TestDictKeysValuesItems(t *testing.T) {
	ev := newTestEvaluator()
	d := types.NewDict()
	d.Set(types.NewStr("a"), types.NewInt(1))
	d.Set(types.NewStr("b"), types.NewInt(2))

	keysFn, _ := ev.getAttr(d, "keys")
	keys, _ := keysFn.(*types.BuiltinFunction).Fn(nil, nil)
	if keys.(*types.ListValue).Len() != 2 {
		t.Errorf("keys() returned %v, want 2 entries", keys)
	}

	itemsFn, _ := ev.getAttr(d, "items")
	items, _ := itemsFn.(*types.BuiltinFunction).Fn(nil, nil)
	list := items.(*types.ListValue)
	first := (*list.Elems)[0].(types.TupleValue)
	if !first.Elems[0].Equal(types.NewStr("a")) || !first.Elems[1].Equal(types.NewInt(1)) {
		t.Errorf("items()[0] = %v, want ('a', 1)", first)
	}
}

func TestSetAddAndRemove(t *testing.T) {
	ev := newTestEvaluator()
	s := types.NewSet(nil, false)
	addFn, _ := ev.getAttr(s, "add")
	addFn.(*types.BuiltinFunction).Fn([]types.Value{types.NewInt(1)}, nil)
	if !s.Contains(types.NewInt(1)) {
		t.Fatal("set should contain 1 after add")
	}
	removeFn, _ := ev.getAttr(s, "remove")
	if _, exc := removeFn.(*types.BuiltinFunction).Fn([]types.Value{types.NewInt(1)}, nil); exc != nil {
		t.Fatalf("remove failed: %v", exc)
	}
	if s.Contains(types.NewInt(1)) {
		t.Error("set should not contain 1 after remove")
	}
}

func TestFrozenSetAddIsAttributeError(t *testing.T) {
	ev := newTestEvaluator()
	fs := types.NewSet([]types.Value{types.NewInt(1)}, true)
	addFn, _ := ev.getAttr(fs, "add")
	_, exc := addFn.(*types.BuiltinFunction).Fn([]types.Value{types.NewInt(2)}, nil)
	if exc == nil || exc.Class != types.AttributeError {
		t.Fatalf("expected AttributeError adding to a frozenset, got %v", exc)
	}
}

func TestStringUpperLowerStrip(t *testing.T) {
	ev := newTestEvaluator()
	s := types.NewStr("  Hello  ")

	upperFn, _ := ev.getAttr(s, "upper")
	got, _ := upperFn.(*types.BuiltinFunction).Fn(nil, nil)
	if !got.Equal(types.NewStr("  HELLO  ")) {
		t.Errorf("upper() = %v, want '  HELLO  '", got)
	}

	lowerFn, _ := ev.getAttr(s, "lower")
	got, _ = lowerFn.(*types.BuiltinFunction).Fn(nil, nil)
	if !got.Equal(types.NewStr("  hello  ")) {
		t.Errorf("lower() = %v, want '  hello  '", got)
	}

	stripFn, _ := ev.getAttr(s, "strip")
	got, _ = stripFn.(*types.BuiltinFunction).Fn(nil, nil)
	if !got.Equal(types.NewStr("Hello")) {
		t.Errorf("strip() = %v, want 'Hello'", got)
	}
}

func TestHasAttrReflectsGetAttr(t *testing.T) {
	ev := newTestEvaluator()
	l := types.NewList(nil)
	if !ev.HasAttr(l, "append") {
		t.Error("HasAttr(list, 'append') should be true")
	}
	if ev.HasAttr(l, "nonexistent") {
		t.Error("HasAttr(list, 'nonexistent') should be false")
	}
}
