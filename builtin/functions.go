package builtin

import (
	"math"
	"math/big"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/kustomzone/monty/types"
)

// numOperand coerces Bool/Int/Float onto a shared (bigInt, float, isInt, ok) form, the
// same Bool ⊂ Int ⊂ Float tower package eval's operators.go implements —
// duplicated narrowly here since builtin cannot import eval (eval already
// imports builtin for the registry).
func numOperand(v types.Value) (*big.Int, float64, bool, bool) {
	switch n := v.(type) {
	case types.IntValue:
		return n.Val, 0, true, true
	case types.BoolValue:
		i := int64(0)
		if n.Val {
			i = 1
		}
		return big.NewInt(i), 0, true, true
	case types.FloatValue:
		return nil, n.Val, false, true
	}
	return nil, 0, false, false
}

func asFloat(iv *big.Int, fv float64, isInt bool) float64 {
	if isInt {
		f, _ := new(big.Float).SetInt(iv).Float64()
		return f
	}
	return fv
}

func callAdd(a, b types.Value) (types.Value, *types.ExceptionInstance) {
	ai, af, aIsInt, aOk := numOperand(a)
	bi, bf, bIsInt, bOk := numOperand(b)
	if !aOk || !bOk {
		return nil, typeErr("unsupported operand type(s) for +: '" + a.Type().String() + "' and '" + b.Type().String() + "'")
	}
	if aIsInt && bIsInt {
		return types.NewBigInt(new(big.Int).Add(ai, bi)), nil
	}
	return types.NewFloat(asFloat(ai, af, aIsInt) + asFloat(bi, bf, bIsInt)), nil
}

func callFloorDiv(a, b types.Value) (types.Value, *types.ExceptionInstance) {
	ai, af, aIsInt, aOk := numOperand(a)
	bi, bf, bIsInt, bOk := numOperand(b)
	if !aOk || !bOk {
		return nil, typeErr("unsupported operand type(s) for //: '" + a.Type().String() + "' and '" + b.Type().String() + "'")
	}
	if aIsInt && bIsInt {
		if bi.Sign() == 0 {
			return nil, types.NewException(types.ZeroDivisionError, types.NewStr("integer division or modulo by zero"))
		}
		q, m := new(big.Int), new(big.Int)
		q.QuoRem(ai, bi, m)
		if m.Sign() != 0 && (m.Sign() < 0) != (bi.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		}
		return types.NewBigInt(q), nil
	}
	x, y := asFloat(ai, af, aIsInt), asFloat(bi, bf, bIsInt)
	if y == 0 {
		return nil, types.NewException(types.ZeroDivisionError, types.NewStr("float floor division by zero"))
	}
	return types.NewFloat(math.Floor(x / y)), nil
}

func callMod(a, b types.Value) (types.Value, *types.ExceptionInstance) {
	ai, af, aIsInt, aOk := numOperand(a)
	bi, bf, bIsInt, bOk := numOperand(b)
	if !aOk || !bOk {
		return nil, typeErr("unsupported operand type(s) for %: '" + a.Type().String() + "' and '" + b.Type().String() + "'")
	}
	if aIsInt && bIsInt {
		if bi.Sign() == 0 {
			return nil, types.NewException(types.ZeroDivisionError, types.NewStr("integer division or modulo by zero"))
		}
		m := new(big.Int).Mod(ai, bi)
		if m.Sign() != 0 && bi.Sign() < 0 {
			m.Add(m, bi)
		}
		return types.NewBigInt(m), nil
	}
	x, y := asFloat(ai, af, aIsInt), asFloat(bi, bf, bIsInt)
	if y == 0 {
		return nil, types.NewException(types.ZeroDivisionError, types.NewStr("float modulo"))
	}
	m := math.Mod(x, y)
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return types.NewFloat(m), nil
}

func callPow(a, b types.Value) (types.Value, *types.ExceptionInstance) {
	ai, af, aIsInt, aOk := numOperand(a)
	bi, bf, bIsInt, bOk := numOperand(b)
	if !aOk || !bOk {
		return nil, typeErr("unsupported operand type(s) for ** or pow(): '" + a.Type().String() + "' and '" + b.Type().String() + "'")
	}
	if aIsInt && bIsInt && bi.Sign() >= 0 {
		return types.NewBigInt(new(big.Int).Exp(ai, bi, nil)), nil
	}
	return types.NewFloat(math.Pow(asFloat(ai, af, aIsInt), asFloat(bi, bf, bIsInt))), nil
}

func typeErr(msg string) *types.ExceptionInstance {
	return types.NewException(types.TypeError, types.NewStr(msg))
}
func valueErr(msg string) *types.ExceptionInstance {
	return types.NewException(types.ValueError, types.NewStr(msg))
}

func def(r *Registry, name string, fn func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance)) {
	r.define(name, types.NewBuiltinFunction(name, fn))
}

// registerFunctions binds every free function the global namespace exposes.
// A handful
// (sorted's key=, filter's predicate) need to invoke a script-visible
// callable, so they close over caller.
func registerFunctions(r *Registry, caller Caller) {
	def(r, "abs", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("abs() takes exactly one argument")
		}
		switch v := args[0].(type) {
		case types.IntValue:
			return types.NewBigInt(new(big.Int).Abs(v.Val)), nil
		case types.FloatValue:
			return types.NewFloat(math.Abs(v.Val)), nil
		case types.BoolValue:
			if v.Val {
				return types.NewInt(1), nil
			}
			return types.NewInt(0), nil
		}
		return nil, typeErr("bad operand type for abs(): '" + args[0].Type().String() + "'")
	})

	def(r, "all", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		it, err := requireIterable(args, "all")
		if err != nil {
			return nil, err
		}
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			if !v.Truthy() {
				return types.NewBool(false), nil
			}
		}
		return types.NewBool(true), nil
	})

	def(r, "any", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		it, err := requireIterable(args, "any")
		if err != nil {
			return nil, err
		}
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			if v.Truthy() {
				return types.NewBool(true), nil
			}
		}
		return types.NewBool(false), nil
	})

	def(r, "bin", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		i, err := requireInt(args, "bin")
		if err != nil {
			return nil, err
		}
		sign := ""
		if i.Sign() < 0 {
			sign = "-"
		}
		return types.NewStr(sign + "0b" + new(big.Int).Abs(i).Text(2)), nil
	})

	def(r, "hex", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		i, err := requireInt(args, "hex")
		if err != nil {
			return nil, err
		}
		sign := ""
		if i.Sign() < 0 {
			sign = "-"
		}
		return types.NewStr(sign + "0x" + new(big.Int).Abs(i).Text(16)), nil
	})

	def(r, "oct", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		i, err := requireInt(args, "oct")
		if err != nil {
			return nil, err
		}
		sign := ""
		if i.Sign() < 0 {
			sign = "-"
		}
		return types.NewStr(sign + "0o" + new(big.Int).Abs(i).Text(8)), nil
	})

	def(r, "chr", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		i, err := requireInt(args, "chr")
		if err != nil {
			return nil, err
		}
		if i.Sign() < 0 || i.Cmp(big.NewInt(0x110000)) >= 0 {
			return nil, valueErr("chr() arg not in range(0x110000)")
		}
		return types.NewStr(string(rune(i.Int64()))), nil
	})

	def(r, "ord", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("ord() takes exactly one argument")
		}
		s, ok := args[0].(types.StringValue)
		if !ok {
			return nil, typeErr("ord() expected string of length 1")
		}
		runes := []rune(s.Val)
		if len(runes) != 1 {
			return nil, typeErr("ord() expected a character")
		}
		return types.NewInt(int64(runes[0])), nil
	})

	def(r, "divmod", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 2 {
			return nil, typeErr("divmod expected 2 arguments")
		}
		q, qerr := callFloorDiv(args[0], args[1])
		if qerr != nil {
			return nil, qerr
		}
		m, merr := callMod(args[0], args[1])
		if merr != nil {
			return nil, merr
		}
		return types.NewTuple([]types.Value{q, m}), nil
	})

	def(r, "pow", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) < 2 || len(args) > 3 {
			return nil, typeErr("pow expected 2 or 3 arguments")
		}
		base, ok1 := args[0].(types.IntValue)
		exp, ok2 := args[1].(types.IntValue)
		if len(args) == 3 && ok1 && ok2 {
			mod, ok3 := args[2].(types.IntValue)
			if !ok3 {
				return nil, typeErr("pow() 3rd argument not allowed unless all arguments are integers")
			}
			return types.NewBigInt(new(big.Int).Exp(base.Val, exp.Val, mod.Val)), nil
		}
		return callPow(args[0], args[1])
	})

	def(r, "id", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("id() takes exactly one argument")
		}
		return types.NewInt(types.Identity(args[0])), nil
	})

	def(r, "hash", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("hash() takes exactly one argument")
		}
		switch v := args[0].(type) {
		case types.StringValue:
			return types.NewInt(blake2bHash(v.Val)), nil
		case types.BytesValue:
			return types.NewInt(blake2bHashBytes(v.Val)), nil
		}
		h, exc := types.HashOf(args[0])
		if exc != nil {
			return nil, exc
		}
		return types.NewInt(int64(h)), nil
	})

	def(r, "len", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("len() takes exactly one argument")
		}
		n, ok := lengthOf(args[0])
		if !ok {
			return nil, typeErr("object of type '" + args[0].Type().String() + "' has no len()")
		}
		return types.NewInt(int64(n)), nil
	})

	def(r, "repr", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("repr() takes exactly one argument")
		}
		return types.NewStr(args[0].String()), nil
	})

	def(r, "round", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) < 1 || len(args) > 2 {
			return nil, typeErr("round expected 1 or 2 arguments")
		}
		ndigits := 0
		if len(args) == 2 {
			iv, ok := args[1].(types.IntValue)
			if !ok {
				return nil, typeErr("round() second argument must be an int")
			}
			ndigits = int(iv.Val.Int64())
		}
		switch v := args[0].(type) {
		case types.IntValue:
			return v, nil
		case types.FloatValue:
			mul := math.Pow(10, float64(ndigits))
			r := math.RoundToEven(v.Val*mul) / mul
			if len(args) == 1 {
				return types.NewInt(int64(r)), nil
			}
			return types.NewFloat(r), nil
		}
		return nil, typeErr("type " + args[0].Type().String() + " doesn't define __round__ method")
	})

	def(r, "sum", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) < 1 || len(args) > 2 {
			return nil, typeErr("sum expected at most 2 arguments")
		}
		it, err := requireIterable(args[:1], "sum")
		if err != nil {
			return nil, err
		}
		var acc types.Value = types.NewInt(0)
		if len(args) == 2 {
			acc = args[1]
		}
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			var aerr *types.ExceptionInstance
			acc, aerr = callAdd(acc, v)
			if aerr != nil {
				return nil, aerr
			}
		}
		return acc, nil
	})

	def(r, "max", func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
		return minMax(args, kwargs, caller, false)
	})
	def(r, "min", func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
		return minMax(args, kwargs, caller, true)
	})

	def(r, "sorted", func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 1 {
			return nil, typeErr("sorted expected 1 argument")
		}
		it, err := requireIterable(args, "sorted")
		if err != nil {
			return nil, err
		}
		var elems []types.Value
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			elems = append(elems, v)
		}
		var keyFn types.Value
		reverse := false
		if kwargs != nil {
			if k, ok := kwargs.Get(types.NewStr("key")); ok {
				if _, isNone := k.(types.NoneValue); !isNone {
					keyFn = k
				}
			}
			if rv, ok := kwargs.Get(types.NewStr("reverse")); ok {
				reverse = rv.Truthy()
			}
		}
		keys := elems
		if keyFn != nil {
			keys = make([]types.Value, len(elems))
			for i, e := range elems {
				kv, kerr := caller.Call(keyFn, []types.Value{e}, nil)
				if kerr != nil {
					return nil, kerr
				}
				keys[i] = kv
			}
		}
		var sortErr *types.ExceptionInstance
		order := make([]int, len(elems))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			ki, kj := keys[order[i]], keys[order[j]]
			lt, exc := types.LessThan(ki, kj)
			if exc != nil {
				sortErr = exc
				return false
			}
			if reverse {
				return !lt && !ki.Equal(kj)
			}
			return lt
		})
		if sortErr != nil {
			return nil, sortErr
		}
		sortedElems := make([]types.Value, len(elems))
		for i, k := range order {
			sortedElems[i] = elems[k]
		}
		elems = sortedElems
		if exc := caller.Alloc(int64(len(elems)) + 1); exc != nil {
			return nil, exc
		}
		return types.NewList(elems), nil
	})

	def(r, "isinstance", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 2 {
			return nil, typeErr("isinstance expected 2 arguments")
		}
		return types.NewBool(isInstanceOf(args[0], args[1])), nil
	})

	def(r, "hasattr", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 2 {
			return nil, typeErr("hasattr expected 2 arguments")
		}
		name, ok := args[1].(types.StringValue)
		if !ok {
			return nil, typeErr("attribute name must be string, not '" + args[1].Type().String() + "'")
		}
		return types.NewBool(caller.HasAttr(args[0], name.Val)), nil
	})

	def(r, "filter", func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
		if len(args) != 2 {
			return nil, typeErr("filter expected 2 arguments")
		}
		pred := args[0]
		it, err := requireIterable(args[1:], "filter")
		if err != nil {
			return nil, err
		}
		if _, isNone := pred.(types.NoneValue); !isNone {
			if _, ok := pred.(*types.BuiltinFunction); !ok {
				if _, ok := pred.(*types.BuiltinClass); ok {
					return nil, typeErr("filter() predicate must be None or a builtin function (user-defined functions not yet supported)")
				}
				return nil, typeErr("'" + pred.Type().String() + "' object is not callable")
			}
		}
		var out []types.Value
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			keep := v.Truthy()
			if bf, ok := pred.(*types.BuiltinFunction); ok {
				res, ferr := caller.Call(bf, []types.Value{v}, nil)
				if ferr != nil {
					return nil, ferr
				}
				keep = res.Truthy()
			}
			if keep {
				out = append(out, v)
			}
		}
		if exc := caller.Alloc(int64(len(out)) + 1); exc != nil {
			return nil, exc
		}
		return types.NewList(out), nil
	})

	def(r, "print", func(args []types.Value, kwargs *types.DictValue) (types.Value, *types.ExceptionInstance) {
		sep, end := " ", "\n"
		stream := "stdout"
		if kwargs != nil {
			if v, ok := kwargs.Get(types.NewStr("sep")); ok {
				if sv, ok := v.(types.StringValue); ok {
					sep = sv.Val
				}
			}
			if v, ok := kwargs.Get(types.NewStr("end")); ok {
				if sv, ok := v.(types.StringValue); ok {
					end = sv.Val
				}
			}
			if v, ok := kwargs.Get(types.NewStr("file")); ok {
				if m, ok := v.(*types.Module); ok {
					stream = m.Name
					if nv, ok := m.Attr("name"); ok && m.Name == "_io.TextIOWrapper" {
						if sv, ok := nv.(types.StringValue); ok {
							stream = strings.Trim(sv.Val, "<>")
						}
					}
				}
			}
		}
		for i, a := range args {
			if i > 0 {
				caller.Print(stream, sep)
			}
			if s, ok := a.(types.StringValue); ok {
				caller.Print(stream, s.Raw())
			} else {
				caller.Print(stream, a.String())
			}
		}
		caller.Print(stream, end)
		return types.NewNone(), nil
	})
}

func requireIterable(args []types.Value, name string) (*types.Iterator, *types.ExceptionInstance) {
	if len(args) != 1 {
		return nil, typeErr(name + "() takes exactly one argument")
	}
	it, ok := args[0].(types.Iterable)
	if !ok {
		return nil, typeErr("'" + args[0].Type().String() + "' object is not iterable")
	}
	return it.Iter(), nil
}

func requireInt(args []types.Value, name string) (*big.Int, *types.ExceptionInstance) {
	if len(args) != 1 {
		return nil, typeErr(name + "() takes exactly one argument")
	}
	switch v := args[0].(type) {
	case types.IntValue:
		return v.Val, nil
	case types.BoolValue:
		if v.Val {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	}
	return nil, typeErr("'" + args[0].Type().String() + "' object cannot be interpreted as an integer")
}

func lengthOf(v types.Value) (int, bool) {
	switch c := v.(type) {
	case types.TupleValue:
		return c.Len(), true
	case *types.ListValue:
		return c.Len(), true
	case *types.DictValue:
		return c.Len(), true
	case *types.SetValue:
		return c.Len(), true
	case types.StringValue:
		return c.Len(), true
	case types.BytesValue:
		return c.Len(), true
	case types.RangeValue:
		return c.Len(), true
	}
	return 0, false
}

func isInstanceOf(v, cls types.Value) bool {
	bc, ok := cls.(*types.BuiltinClass)
	if !ok {
		return false
	}
	if bc.ExceptionOf != "" {
		exc, ok := v.(*types.ExceptionInstance)
		return ok && types.IsSubclass(exc.Class, bc.ExceptionOf)
	}
	want := strings.TrimSuffix(strings.TrimPrefix(bc.String(), "<class '"), "'>")
	// bool is a subtype of int, matching the Bool ⊂ Int ⊂ Float numeric
	// tower elsewhere (operators, equality, hashing) — but not the reverse:
	// isinstance(1, bool) is still false.
	if want == "int" {
		if _, ok := v.(types.BoolValue); ok {
			return true
		}
	}
	return v.Type().String() == want
}

func minMax(args []types.Value, kwargs *types.DictValue, caller Caller, wantMin bool) (types.Value, *types.ExceptionInstance) {
	var elems []types.Value
	if len(args) == 1 {
		it, ok := args[0].(types.Iterable)
		if !ok {
			return nil, typeErr("'" + args[0].Type().String() + "' object is not iterable")
		}
		i := it.Iter()
		for {
			v, ok := i.Next()
			if !ok {
				break
			}
			elems = append(elems, v)
		}
	} else {
		elems = args
	}
	if len(elems) == 0 {
		return nil, valueErr("max() arg is an empty sequence")
	}
	var keyFn types.Value
	if kwargs != nil {
		if k, ok := kwargs.Get(types.NewStr("key")); ok {
			if _, isNone := k.(types.NoneValue); !isNone {
				keyFn = k
			}
		}
	}
	keyOf := func(v types.Value) (types.Value, *types.ExceptionInstance) {
		if keyFn == nil {
			return v, nil
		}
		return caller.Call(keyFn, []types.Value{v}, nil)
	}
	best := elems[0]
	bestKey, err := keyOf(best)
	if err != nil {
		return nil, err
	}
	for _, e := range elems[1:] {
		k, err := keyOf(e)
		if err != nil {
			return nil, err
		}
		lt, exc := types.LessThan(k, bestKey)
		if exc != nil {
			return nil, exc
		}
		if (wantMin && lt) || (!wantMin && !lt && !k.Equal(bestKey)) {
			best, bestKey = e, k
		}
	}
	return best, nil
}

func blake2bHash(s string) int64 {
	return blake2bHashBytes([]byte(s))
}

func blake2bHashBytes(b []byte) int64 {
	sum := blake2b.Sum512(b)
	return int64(uint64(sum[0]) | uint64(sum[1])<<8 | uint64(sum[2])<<16 | uint64(sum[3])<<24 |
		uint64(sum[4])<<32 | uint64(sum[5])<<40 | uint64(sum[6])<<48 | uint64(sum[7])<<56)
}
