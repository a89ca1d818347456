package builtin

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/kustomzone/monty/types"
)

func class(r *Registry, name string, construct func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance)) {
	r.define(name, types.NewBuiltinClass(name, construct))
}

// registerClasses binds every type-object constructor the global namespace
// exposes (int, float, list, dict, and the rest of the built-in types).
func registerClasses(r *Registry) {
	class(r, "bool", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewBool(false), nil
		}
		return types.NewBool(args[0].Truthy()), nil
	})

	class(r, "int", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewInt(0), nil
		}
		switch v := args[0].(type) {
		case types.IntValue:
			return v, nil
		case types.BoolValue:
			if v.Val {
				return types.NewInt(1), nil
			}
			return types.NewInt(0), nil
		case types.FloatValue:
			bi, _ := big.NewFloat(v.Val).Int(nil)
			return types.NewBigInt(bi), nil
		case types.StringValue:
			text := strings.TrimSpace(v.Val)
			base := 10
			if len(args) == 2 {
				if bv, ok := args[1].(types.IntValue); ok {
					base = int(bv.Val.Int64())
				}
			}
			bi, ok := new(big.Int).SetString(text, base)
			if !ok {
				return nil, valueErr("invalid literal for int() with base " + strconv.Itoa(base) + ": " + v.String())
			}
			return types.NewBigInt(bi), nil
		}
		return nil, typeErr("int() argument must be a string, a bytes-like object or a number, not '" + args[0].Type().String() + "'")
	})

	class(r, "float", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewFloat(0), nil
		}
		switch v := args[0].(type) {
		case types.FloatValue:
			return v, nil
		case types.IntValue:
			f, _ := new(big.Float).SetInt(v.Val).Float64()
			return types.NewFloat(f), nil
		case types.BoolValue:
			if v.Val {
				return types.NewFloat(1), nil
			}
			return types.NewFloat(0), nil
		case types.StringValue:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Val), 64)
			if err != nil {
				return nil, valueErr("could not convert string to float: " + v.String())
			}
			return types.NewFloat(f), nil
		}
		return nil, typeErr("float() argument must be a string or a number, not '" + args[0].Type().String() + "'")
	})

	class(r, "str", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewStr(""), nil
		}
		if s, ok := args[0].(types.StringValue); ok {
			return s, nil
		}
		if exc, ok := args[0].(*types.ExceptionInstance); ok {
			return types.NewStr(exc.Message()), nil
		}
		return types.NewStr(args[0].String()), nil
	})

	class(r, "bytes", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewBytes(nil), nil
		}
		switch v := args[0].(type) {
		case types.BytesValue:
			return v, nil
		case types.IntValue:
			return types.NewBytes(make([]byte, v.Val.Int64())), nil
		case types.StringValue:
			return types.NewBytes([]byte(v.Val)), nil
		case *types.ListValue:
			out := make([]byte, len(*v.Elems))
			for i, e := range *v.Elems {
				iv, ok := e.(types.IntValue)
				if !ok {
					return nil, typeErr("bytes() argument must be an iterable of ints")
				}
				out[i] = byte(iv.Val.Int64())
			}
			return types.NewBytes(out), nil
		}
		return nil, typeErr("cannot convert '" + args[0].Type().String() + "' object to bytes")
	})

	class(r, "list", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewList(nil), nil
		}
		elems, exc := drain(args[0])
		if exc != nil {
			return nil, exc
		}
		return types.NewList(elems), nil
	})

	class(r, "tuple", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewTuple(nil), nil
		}
		elems, exc := drain(args[0])
		if exc != nil {
			return nil, exc
		}
		return types.NewTuple(elems), nil
	})

	class(r, "dict", func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
		d := types.NewDict()
		if len(args) == 1 {
			elems, exc := drain(args[0])
			if exc != nil {
				return nil, exc
			}
			for _, e := range elems {
				pair, ok := e.(types.TupleValue)
				if !ok || len(pair.Elems) != 2 {
					return nil, typeErr("dictionary update sequence element is not a 2-tuple")
				}
				d.Set(pair.Elems[0], pair.Elems[1])
			}
		}
		if kwargs != nil {
			for i, k := range kwargs.Keys() {
				d.Set(k, kwargs.Values()[i])
			}
		}
		return d, nil
	})

	class(r, "set", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewSet(nil, false), nil
		}
		elems, exc := drain(args[0])
		if exc != nil {
			return nil, exc
		}
		return types.NewSet(elems, false), nil
	})

	class(r, "frozenset", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) == 0 {
			return types.NewSet(nil, true), nil
		}
		elems, exc := drain(args[0])
		if exc != nil {
			return nil, exc
		}
		return types.NewSet(elems, true), nil
	})

	class(r, "range", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		ints := make([]int64, len(args))
		for i, a := range args {
			iv, ok := a.(types.IntValue)
			if !ok {
				return nil, typeErr("'" + a.Type().String() + "' object cannot be interpreted as an integer")
			}
			ints[i] = iv.Val.Int64()
		}
		switch len(ints) {
		case 1:
			return types.NewRange(0, ints[0], 1), nil
		case 2:
			return types.NewRange(ints[0], ints[1], 1), nil
		case 3:
			if ints[2] == 0 {
				return nil, valueErr("range() arg 3 must not be zero")
			}
			return types.NewRange(ints[0], ints[1], ints[2]), nil
		}
		return nil, typeErr("range expected 1 to 3 arguments")
	})

	class(r, "slice", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		switch len(args) {
		case 1:
			return types.NewSlice(nil, args[0], nil), nil
		case 2:
			return types.NewSlice(args[0], args[1], nil), nil
		case 3:
			return types.NewSlice(args[0], args[1], args[2]), nil
		}
		return nil, typeErr("slice expected 1 to 3 arguments")
	})

	class(r, "enumerate", func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("enumerate() takes exactly one argument")
		}
		start := int64(0)
		if kwargs != nil {
			if s, ok := kwargs.Get(types.NewStr("start")); ok {
				if iv, ok := s.(types.IntValue); ok {
					start = iv.Val.Int64()
				}
			}
		}
		it, ok := args[0].(types.Iterable)
		if !ok {
			return nil, typeErr("'" + args[0].Type().String() + "' object is not iterable")
		}
		src := it.Iter()
		i := start
		return types.NewIterator(func() (types.Value, bool) {
			v, ok := src.Next()
			if !ok {
				return nil, false
			}
			idx := types.NewInt(i)
			i++
			return types.NewTuple([]types.Value{idx, v}), true
		}), nil
	})

	class(r, "reversed", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("reversed() takes exactly one argument")
		}
		elems, exc := drain(args[0])
		if exc != nil {
			return nil, exc
		}
		i := len(elems) - 1
		return types.NewIterator(func() (types.Value, bool) {
			if i < 0 {
				return nil, false
			}
			v := elems[i]
			i--
			return v, true
		}), nil
	})

	class(r, "zip", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		iters := make([]*types.Iterator, len(args))
		for i, a := range args {
			it, ok := a.(types.Iterable)
			if !ok {
				return nil, typeErr("'" + a.Type().String() + "' object is not iterable")
			}
			iters[i] = it.Iter()
		}
		return types.NewIterator(func() (types.Value, bool) {
			row := make([]types.Value, len(iters))
			for i, it := range iters {
				v, ok := it.Next()
				if !ok {
					return nil, false
				}
				row[i] = v
			}
			return types.NewTuple(row), true
		}), nil
	})

	class(r, "object", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		return types.NewNone(), nil
	})

	class(r, "type", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("type() takes 1 argument")
		}
		return types.NewBuiltinClass(args[0].Type().String(), nil), nil
	})
}

func drain(v types.Value) ([]types.Value, *types.ExceptionInstance) {
	it, ok := v.(types.Iterable)
	if !ok {
		return nil, typeErr("'" + v.Type().String() + "' object is not iterable")
	}
	i := it.Iter()
	var out []types.Value
	for {
		e, ok := i.Next()
		if !ok {
			break
		}
		out = append(out, e)
	}
	return out, nil
}
