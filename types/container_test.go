package types

import "testing"

func TestListEqualityIsStructural(t *testing.T) {
	a := NewList([]Value{NewInt(1), NewInt(2)})
	b := NewList([]Value{NewInt(1), NewInt(2)})
	if !a.Equal(b) {
		t.Error("lists with equal elements should compare equal")
	}
	if a.ID() == b.ID() {
		t.Error("distinct list instances should get distinct ids")
	}
}

func TestDictPreservesInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Set(NewStr("z"), NewInt(1))
	d.Set(NewStr("a"), NewInt(2))
	d.Set(NewStr("m"), NewInt(3))

	keys := d.Keys()
	want := []string{"z", "a", "m"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i, k := range keys {
		s, ok := k.(StringValue)
		if !ok || s.Raw() != want[i] {
			t.Errorf("key[%d] = %v, want %q", i, k, want[i])
		}
	}
}

func TestDictSetOverwritesExistingKey(t *testing.T) {
	d := NewDict()
	d.Set(NewStr("x"), NewInt(1))
	d.Set(NewStr("x"), NewInt(2))
	if d.Len() != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", d.Len())
	}
	v, ok := d.Get(NewStr("x"))
	if !ok || !v.Equal(NewInt(2)) {
		t.Errorf("expected overwritten value 2, got %v", v)
	}
}

func TestDictDelete(t *testing.T) {
	d := NewDict()
	d.Set(NewInt(1), NewStr("one"))
	d.Set(NewInt(2), NewStr("two"))
	if !d.Delete(NewInt(1)) {
		t.Fatal("expected delete of present key to succeed")
	}
	if _, ok := d.Get(NewInt(1)); ok {
		t.Error("deleted key should no longer be found")
	}
	if d.Delete(NewInt(99)) {
		t.Error("deleting an absent key should report false")
	}
}

func TestSetDeduplicatesByValue(t *testing.T) {
	s := NewSet([]Value{NewInt(1), NewInt(1), NewInt(2)}, false)
	if s.Len() != 2 {
		t.Fatalf("expected 2 unique members, got %d", s.Len())
	}
	if !s.Contains(NewInt(1)) || !s.Contains(NewInt(2)) {
		t.Error("set should contain both distinct members")
	}
}

func TestSetBoolIntOverlapDeduplicates(t *testing.T) {
	// True and 1 hash and compare equal in the numeric tower, so a set
	// built from both collapses to one member.
	s := NewSet([]Value{NewBool(true), NewInt(1)}, false)
	if s.Len() != 1 {
		t.Fatalf("expected True/1 to collapse to one member, got %d", s.Len())
	}
}

func TestFrozenSetReprDiffersFromSet(t *testing.T) {
	fs := NewSet([]Value{NewInt(1)}, true)
	s := NewSet([]Value{NewInt(1)}, true)
	s.frozen = false
	if fs.String() == s.String() {
		t.Error("frozenset repr should differ from set repr")
	}
}

func TestTupleSingleElementTrailingComma(t *testing.T) {
	tup := NewTuple([]Value{NewInt(1)})
	if tup.String() != "(1,)" {
		t.Errorf("single-element tuple repr = %q, want %q", tup.String(), "(1,)")
	}
}
