package eval

import (
	"testing"

	"github.com/kustomzone/monty/types"
)

func TestLookupCascadesToEnclosingScopes(t *testing.T) {
	mod := NewModuleEnvironment()
	mod.Set("x", types.NewInt(1))
	child := mod.NewChild(FunctionScope)
	if v, ok := child.Lookup("x"); !ok || !v.Equal(types.NewInt(1)) {
		t.Fatalf("expected child scope to see module-level 'x', got %v, ok=%v", v, ok)
	}
}

func TestSetCreatesLocalByDefault(t *testing.T) {
	mod := NewModuleEnvironment()
	mod.Set("x", types.NewInt(1))
	child := mod.NewChild(FunctionScope)
	child.Set("x", types.NewInt(2))

	if v, _ := child.Lookup("x"); !v.Equal(types.NewInt(2)) {
		t.Errorf("expected child-local 'x' to shadow with value 2, got %v", v)
	}
	if v, _ := mod.Lookup("x"); !v.Equal(types.NewInt(1)) {
		t.Errorf("expected module-level 'x' to remain 1, got %v", v)
	}
}

func TestDeclareGlobalRedirectsWrites(t *testing.T) {
	mod := NewModuleEnvironment()
	mod.Set("x", types.NewInt(1))
	child := mod.NewChild(FunctionScope)
	child.DeclareGlobal("x")
	child.Set("x", types.NewInt(99))

	if v, _ := mod.Lookup("x"); !v.Equal(types.NewInt(99)) {
		t.Errorf("expected global declaration to redirect the write to module scope, got %v", v)
	}
	if _, ok := child.vars["x"]; ok {
		t.Error("global-declared name should not create a local binding")
	}
}

func TestDeclareNonlocalFindsNearestEnclosingBinding(t *testing.T) {
	mod := NewModuleEnvironment()
	outer := mod.NewChild(FunctionScope)
	outer.Set("x", types.NewInt(1))
	inner := outer.NewChild(FunctionScope)

	if ok := inner.DeclareNonlocal("x"); !ok {
		t.Fatal("expected DeclareNonlocal to find 'x' in the enclosing function scope")
	}
	inner.Set("x", types.NewInt(42))
	if v, _ := outer.Lookup("x"); !v.Equal(types.NewInt(42)) {
		t.Errorf("expected nonlocal write to reach the enclosing frame, got %v", v)
	}
}

func TestDeclareNonlocalFailsWithNoEnclosingBinding(t *testing.T) {
	mod := NewModuleEnvironment()
	outer := mod.NewChild(FunctionScope)
	inner := outer.NewChild(FunctionScope)
	if ok := inner.DeclareNonlocal("never_bound"); ok {
		t.Error("expected DeclareNonlocal to fail when no enclosing frame defines the name")
	}
}

func TestLookupMissingNameFails(t *testing.T) {
	mod := NewModuleEnvironment()
	if _, ok := mod.Lookup("missing"); ok {
		t.Error("expected lookup of an undefined name to fail")
	}
}
