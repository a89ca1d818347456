package builtin

import (
	"path"
	"strings"

	"github.com/kustomzone/monty/types"
)

// registerModules binds the restricted stdlib surface this interpreter
// exposes: a sandboxed os.getenv, sys.stdout/stderr write targets, and a pure POSIX
// pathlib.Path. Every module is reconstructed per import so two `import os`
// statements in the same run never alias mutable state.
func registerModules(r *Registry, env map[string]string) {
	r.modules["os"] = func() *types.Module {
		m := types.NewModule("os")
		m.Set("getenv", types.NewBuiltinFunction("getenv", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			if len(args) < 1 || len(args) > 2 {
				return nil, typeErr("getenv expected 1 or 2 arguments")
			}
			name, ok := args[0].(types.StringValue)
			if !ok {
				return nil, typeErr("getenv() argument must be str")
			}
			if v, ok := env[name.Val]; ok {
				return types.NewStr(v), nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return types.NewNone(), nil
		}))
		return m
	}

	r.modules["sys"] = func() *types.Module {
		m := types.NewModule("sys")
		m.Set("stdout", newTextStream("stdout"))
		m.Set("stderr", newTextStream("stderr"))
		return m
	}

	r.modules["pathlib"] = func() *types.Module {
		m := types.NewModule("pathlib")
		m.Set("Path", types.NewBuiltinClass("Path", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			parts := make([]string, len(args))
			for i, a := range args {
				s, ok := a.(types.StringValue)
				if !ok {
					return nil, typeErr("argument should be a str, not '" + a.Type().String() + "'")
				}
				parts[i] = s.Val
			}
			return newPath(path.Clean(path.Join(parts...))), nil
		}))
		return m
	}
}

// newTextStream builds the `_io.TextIOWrapper`-flavored stream object
// sys.stdout/sys.stderr expose: it carries only a `name` attribute
// ("<stdout>"/"<stderr>"), which print(file=...) reads to pick the stream
// (by name, not identity, so a script stashing sys.stdout in a variable
// still routes correctly).
func newTextStream(name string) *types.Module {
	m := types.NewModule("_io.TextIOWrapper")
	m.Set("name", types.NewStr("<"+name+">"))
	return m
}

// newPath builds every Path instance returned from pathlib.Path(...)
// and from a Path's own arithmetic (joinpath, parent), implemented as a
// Module bag of pure-function attributes since paths here are immutable
// pure-POSIX strings, never touching a real filesystem.
func newPath(clean string) *types.Module {
	m := types.NewModule("pathlib.Path")
	m.Set("__str__", types.NewStr(clean))
	base := path.Base(clean)
	m.Set("name", types.NewStr(base))
	ext := path.Ext(base)
	m.Set("suffix", types.NewStr(ext))
	m.Set("stem", types.NewStr(strings.TrimSuffix(base, ext)))
	if dir := path.Dir(clean); dir != clean {
		m.Set("parent", newPath(dir))
	} else {
		m.Set("parent", m)
	}
	m.Set("parts", types.NewTuple(pathParts(clean)))
	m.Set("joinpath", types.NewBuiltinFunction("joinpath", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		segs := []string{clean}
		for _, a := range args {
			s, ok := a.(types.StringValue)
			if !ok {
				return nil, typeErr("argument should be a str, not '" + a.Type().String() + "'")
			}
			segs = append(segs, s.Val)
		}
		return newPath(path.Clean(path.Join(segs...))), nil
	}))
	return m
}

func pathParts(clean string) []types.Value {
	if clean == "" || clean == "." {
		return nil
	}
	segs := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	out := make([]types.Value, 0, len(segs)+1)
	if strings.HasPrefix(clean, "/") {
		out = append(out, types.NewStr("/"))
	}
	for _, s := range segs {
		if s != "" {
			out = append(out, types.NewStr(s))
		}
	}
	return out
}
