package eval

import (
	"strings"

	"github.com/kustomzone/monty/ast"
	"github.com/kustomzone/monty/types"
)

// getAttr resolves attribute access against the fixed per-type method
// table, falling back to any type-specific Attr method (e.g.
// Slice.start/.stop/.step, Module.Attr, exception .args).
func (ev *Evaluator) getAttr(x types.Value, name string) (types.Value, bool) {
	switch v := x.(type) {
	case types.SliceValue:
		return v.Attr(name)
	case *types.Module:
		return v.Attr(name)
	case *types.ExceptionInstance:
		switch name {
		case "args":
			return v.ArgsTuple(), true
		}
		return nil, false
	case *types.ListValue:
		return ev.listMethod(v, name)
	case *types.DictValue:
		return ev.dictMethod(v, name)
	case *types.SetValue:
		return ev.setMethod(v, name)
	case types.StringValue:
		return ev.strMethod(v, name)
	}
	return nil, false
}

// HasAttr implements builtin.Caller's hasattr() half.
func (ev *Evaluator) HasAttr(x types.Value, name string) bool {
	_, ok := ev.getAttr(x, name)
	return ok
}

// evalSubscript implements List/Tuple/String/Bytes/Dict subscription and
// slicing.
func (ev *Evaluator) evalSubscript(n *ast.SubscriptExpr, env *Environment) types.Value {
	x := ev.evalExpr(n.X, env)
	if se, ok := n.Index.(*ast.SliceExpr); ok {
		sl := ev.evalSliceExpr(se, env).(types.SliceValue)
		return ev.applySlice(x, sl)
	}
	idx := ev.evalExpr(n.Index, env)
	switch c := x.(type) {
	case *types.ListValue:
		i := ev.indexAsInt(idx)
		n := len(*c.Elems)
		i = normalizeIndex(i, n)
		if i < 0 || i >= n {
			raise(types.NewException(types.IndexError, types.NewStr("list index out of range")))
		}
		return (*c.Elems)[i]
	case types.TupleValue:
		i := ev.indexAsInt(idx)
		n := len(c.Elems)
		i = normalizeIndex(i, n)
		if i < 0 || i >= n {
			raise(types.NewException(types.IndexError, types.NewStr("tuple index out of range")))
		}
		return c.Elems[i]
	case types.StringValue:
		runes := []rune(c.Val)
		i := ev.indexAsInt(idx)
		n := len(runes)
		i = normalizeIndex(i, n)
		if i < 0 || i >= n {
			raise(types.NewException(types.IndexError, types.NewStr("string index out of range")))
		}
		return types.NewStr(string(runes[i]))
	case types.BytesValue:
		i := ev.indexAsInt(idx)
		n := len(c.Val)
		i = normalizeIndex(i, n)
		if i < 0 || i >= n {
			raise(types.NewException(types.IndexError, types.NewStr("index out of range")))
		}
		return types.NewInt(int64(c.Val[i]))
	case *types.DictValue:
		v, ok := c.Get(idx)
		if !ok {
			raise(types.NewException(types.KeyError, idx))
		}
		return v
	}
	raise(types.NewException(types.TypeError, types.NewStr("'"+x.Type().String()+"' object is not subscriptable")))
	return nil
}

// sliceBounds resolves a SliceValue against a sequence length, following
// Python's negative-index clamping rules.
func sliceBounds(sl types.SliceValue, n int) (start, stop, step int) {
	step = 1
	if sl.Step != nil {
		if iv, ok := sl.Step.(types.IntValue); ok {
			step = int(iv.Val.Int64())
		}
	}
	if step == 0 {
		step = 1
	}
	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}
	if sl.Start != nil {
		if iv, ok := sl.Start.(types.IntValue); ok {
			start = clampSliceIndex(int(iv.Val.Int64()), n, step > 0)
		}
	}
	if sl.Stop != nil {
		if iv, ok := sl.Stop.(types.IntValue); ok {
			stop = clampSliceIndex(int(iv.Val.Int64()), n, step > 0)
		}
	}
	return
}

func clampSliceIndex(i, n int, forward bool) int {
	if i < 0 {
		i += n
	}
	if forward {
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	if i < -1 {
		return -1
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (ev *Evaluator) applySlice(x types.Value, sl types.SliceValue) types.Value {
	switch c := x.(type) {
	case *types.ListValue:
		start, stop, step := sliceBounds(sl, len(*c.Elems))
		var out []types.Value
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, (*c.Elems)[i])
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, (*c.Elems)[i])
			}
		}
		ev.alloc(int64(len(out)) + 1)
		return types.NewList(out)
	case types.TupleValue:
		start, stop, step := sliceBounds(sl, len(c.Elems))
		var out []types.Value
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, c.Elems[i])
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, c.Elems[i])
			}
		}
		return types.NewTuple(out)
	case types.StringValue:
		runes := []rune(c.Val)
		start, stop, step := sliceBounds(sl, len(runes))
		var out []rune
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, runes[i])
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, runes[i])
			}
		}
		return types.NewStr(string(out))
	case types.BytesValue:
		start, stop, step := sliceBounds(sl, len(c.Val))
		var out []byte
		if step > 0 {
			for i := start; i < stop; i += step {
				out = append(out, c.Val[i])
			}
		} else {
			for i := start; i > stop; i += step {
				out = append(out, c.Val[i])
			}
		}
		return types.NewBytes(out)
	}
	raise(types.NewException(types.TypeError, types.NewStr("'"+x.Type().String()+"' object is not subscriptable")))
	return nil
}

// ---- small method tables for container/string builtin methods used from
// attribute-call position, e.g. `d.items()`, `s.upper()`. ----

func (ev *Evaluator) listMethod(l *types.ListValue, name string) (types.Value, bool) {
	switch name {
	case "append":
		return types.NewBuiltinFunction("append", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			if len(args) != 1 {
				return nil, types.NewException(types.TypeError, types.NewStr("append() takes exactly one argument"))
			}
			ev.alloc(1)
			*l.Elems = append(*l.Elems, args[0])
			return types.NewNone(), nil
		}), true
	case "pop":
		return types.NewBuiltinFunction("pop", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			n := len(*l.Elems)
			idx := n - 1
			if len(args) == 1 {
				if iv, ok := args[0].(types.IntValue); ok {
					idx = normalizeIndex(int(iv.Val.Int64()), n)
				}
			}
			if n == 0 || idx < 0 || idx >= n {
				return nil, types.NewException(types.IndexError, types.NewStr("pop index out of range"))
			}
			v := (*l.Elems)[idx]
			*l.Elems = append((*l.Elems)[:idx], (*l.Elems)[idx+1:]...)
			return v, nil
		}), true
	}
	return nil, false
}

func (ev *Evaluator) dictMethod(d *types.DictValue, name string) (types.Value, bool) {
	switch name {
	case "keys":
		return types.NewBuiltinFunction("keys", func([]types.Value, *types.DictValue) (types.Value, *types.ExceptionInstance) {
			return types.NewList(d.Keys()), nil
		}), true
	case "values":
		return types.NewBuiltinFunction("values", func([]types.Value, *types.DictValue) (types.Value, *types.ExceptionInstance) {
			return types.NewList(d.Values()), nil
		}), true
	case "items":
		return types.NewBuiltinFunction("items", func([]types.Value, *types.DictValue) (types.Value, *types.ExceptionInstance) {
			keys, vals := d.Keys(), d.Values()
			out := make([]types.Value, len(keys))
			for i := range keys {
				out[i] = types.NewTuple([]types.Value{keys[i], vals[i]})
			}
			return types.NewList(out), nil
		}), true
	case "get":
		return types.NewBuiltinFunction("get", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			if len(args) == 0 {
				return nil, types.NewException(types.TypeError, types.NewStr("get expected at least 1 argument"))
			}
			if v, ok := d.Get(args[0]); ok {
				return v, nil
			}
			if len(args) > 1 {
				return args[1], nil
			}
			return types.NewNone(), nil
		}), true
	}
	return nil, false
}

func (ev *Evaluator) setMethod(s *types.SetValue, name string) (types.Value, bool) {
	switch name {
	case "add":
		return types.NewBuiltinFunction("add", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			if s.Frozen() {
				return nil, types.NewException(types.AttributeError, types.NewStr("'frozenset' object has no attribute 'add'"))
			}
			ev.alloc(1)
			s.Add(args[0])
			return types.NewNone(), nil
		}), true
	case "remove":
		return types.NewBuiltinFunction("remove", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			if !s.Remove(args[0]) {
				return nil, types.NewException(types.KeyError, args[0])
			}
			return types.NewNone(), nil
		}), true
	}
	return nil, false
}

func (ev *Evaluator) strMethod(s types.StringValue, name string) (types.Value, bool) {
	switch name {
	case "upper":
		return types.NewBuiltinFunction("upper", func([]types.Value, *types.DictValue) (types.Value, *types.ExceptionInstance) {
			return types.NewStr(strings.ToUpper(s.Val)), nil
		}), true
	case "lower":
		return types.NewBuiltinFunction("lower", func([]types.Value, *types.DictValue) (types.Value, *types.ExceptionInstance) {
			return types.NewStr(strings.ToLower(s.Val)), nil
		}), true
	case "strip":
		return types.NewBuiltinFunction("strip", func([]types.Value, *types.DictValue) (types.Value, *types.ExceptionInstance) {
			return types.NewStr(strings.TrimSpace(s.Val)), nil
		}), true
	case "split":
		return types.NewBuiltinFunction("split", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			sep := ""
			if len(args) > 0 {
				if sv, ok := args[0].(types.StringValue); ok {
					sep = sv.Val
				}
			}
			var parts []string
			if sep == "" {
				parts = strings.Fields(s.Val)
			} else {
				parts = strings.Split(s.Val, sep)
			}
			out := make([]types.Value, len(parts))
			for i, p := range parts {
				out[i] = types.NewStr(p)
			}
			return types.NewList(out), nil
		}), true
	case "join":
		return types.NewBuiltinFunction("join", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			if len(args) != 1 {
				return nil, types.NewException(types.TypeError, types.NewStr("join() takes exactly one argument"))
			}
			it := ev.toIterator(args[0])
			var parts []string
			for {
				v, ok := it.Next()
				if !ok {
					break
				}
				sv, ok := v.(types.StringValue)
				if !ok {
					return nil, types.NewException(types.TypeError, types.NewStr("sequence item: expected str instance"))
				}
				parts = append(parts, sv.Val)
			}
			return types.NewStr(strings.Join(parts, s.Val)), nil
		}), true
	}
	return nil, false
}
