package builtin

import (
	"testing"

	"github.com/kustomzone/monty/types"
)

func TestOsGetenvSeesOnlyInjectedTable(t *testing.T) {
	c := &fakeCaller{}
	r := NewRegistry(c, map[string]string{"FOO": "bar"})
	mod, exc := r.Module("os")
	if exc != nil {
		t.Fatalf("import os failed: %v", exc)
	}
	getenv, _ := mod.Attr("getenv")
	fn := getenv.(*types.BuiltinFunction)

	got, err := fn.Fn([]types.Value{types.NewStr("FOO")}, nil)
	if err != nil {
		t.Fatalf("getenv(\"FOO\") failed: %v", err)
	}
	if !got.Equal(types.NewStr("bar")) {
		t.Errorf("getenv(\"FOO\") = %v, want \"bar\"", got)
	}

	got, err = fn.Fn([]types.Value{types.NewStr("MISSING"), types.NewStr("fallback")}, nil)
	if err != nil {
		t.Fatalf("getenv with default failed: %v", err)
	}
	if !got.Equal(types.NewStr("fallback")) {
		t.Errorf("getenv(\"MISSING\", \"fallback\") = %v, want \"fallback\"", got)
	}
}

func TestOsGetenvMissingWithoutDefaultIsNone(t *testing.T) {
	c := &fakeCaller{}
	r := NewRegistry(c, nil)
	mod, _ := r.Module("os")
	getenv, _ := mod.Attr("getenv")
	fn := getenv.(*types.BuiltinFunction)
	got, err := fn.Fn([]types.Value{types.NewStr("MISSING")}, nil)
	if err != nil {
		t.Fatalf("getenv failed: %v", err)
	}
	if _, ok := got.(types.NoneValue); !ok {
		t.Errorf("getenv(\"MISSING\") = %v, want None", got)
	}
}

func TestImportUnknownModuleFails(t *testing.T) {
	c := &fakeCaller{}
	r := NewRegistry(c, nil)
	_, exc := r.Module("not_a_real_module")
	if exc == nil || exc.Class != types.ModuleNotFoundError {
		t.Fatalf("importing an unknown module should raise ModuleNotFoundError, got %v", exc)
	}
}

func TestPathlibNameSuffixStem(t *testing.T) {
	c := &fakeCaller{}
	r := NewRegistry(c, nil)
	mod, _ := r.Module("pathlib")
	pathCls, _ := mod.Attr("Path")
	bc := pathCls.(*types.BuiltinClass)
	p, exc := bc.Construct([]types.Value{types.NewStr("/a/b/c.txt")}, nil)
	if exc != nil {
		t.Fatalf("Path(...) failed: %v", exc)
	}
	pm := p.(*types.Module)

	name, _ := pm.Attr("name")
	if !name.Equal(types.NewStr("c.txt")) {
		t.Errorf("Path(...).name = %v, want c.txt", name)
	}
	suffix, _ := pm.Attr("suffix")
	if !suffix.Equal(types.NewStr(".txt")) {
		t.Errorf("Path(...).suffix = %v, want .txt", suffix)
	}
	stem, _ := pm.Attr("stem")
	if !stem.Equal(types.NewStr("c")) {
		t.Errorf("Path(...).stem = %v, want c", stem)
	}
}

func TestPathlibJoinpath(t *testing.T) {
	c := &fakeCaller{}
	r := NewRegistry(c, nil)
	mod, _ := r.Module("pathlib")
	pathCls, _ := mod.Attr("Path")
	bc := pathCls.(*types.BuiltinClass)
	p, _ := bc.Construct([]types.Value{types.NewStr("/a")}, nil)
	pm := p.(*types.Module)
	joinpath, _ := pm.Attr("joinpath")
	fn := joinpath.(*types.BuiltinFunction)
	got, exc := fn.Fn([]types.Value{types.NewStr("b"), types.NewStr("c")}, nil)
	if exc != nil {
		t.Fatalf("joinpath failed: %v", exc)
	}
	joined := got.(*types.Module)
	name, _ := joined.Attr("name")
	if !name.Equal(types.NewStr("c")) {
		t.Errorf("joinpath(...).name = %v, want c", name)
	}
}
