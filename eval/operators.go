package eval

import (
	"math"
	"math/big"

	"github.com/kustomzone/monty/types"
)

// toBigInt coerces Bool/Int to *big.Int, returning ok=false otherwise.
func toBigInt(v types.Value) (*big.Int, bool) {
	switch n := v.(type) {
	case types.IntValue:
		return n.Val, true
	case types.BoolValue:
		if n.Val {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	}
	return nil, false
}

// toFloat64 coerces Bool/Int/Float to float64 per Bool ⊂ Int ⊂ Float.
func toFloat64(v types.Value) (float64, bool) {
	switch n := v.(type) {
	case types.FloatValue:
		return n.Val, true
	case types.IntValue:
		f := new(big.Float).SetInt(n.Val)
		r, _ := f.Float64()
		return r, true
	case types.BoolValue:
		if n.Val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func isFloaty(v types.Value) bool {
	_, ok := v.(types.FloatValue)
	return ok
}

func (ev *Evaluator) typeErrorBinOp(op string, a, b types.Value) {
	raise(types.NewException(types.TypeError, types.NewStr(
		"unsupported operand type(s) for "+op+": '"+a.Type().String()+"' and '"+b.Type().String()+"'")))
}

// binOp dispatches a binary operator by left operand tag then right,
// handling numeric coercion (Bool ⊂ Int ⊂ Float) and the sequence-protocol
// overloads (+, * for str/bytes/list/tuple).
func (ev *Evaluator) binOp(op string, a, b types.Value) types.Value {
	switch op {
	case "+":
		return ev.opAdd(a, b)
	case "-":
		return ev.opNumeric(op, a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) }, func(x, y float64) float64 { return x - y })
	case "*":
		return ev.opMul(a, b)
	case "/":
		return ev.opTrueDiv(a, b)
	case "//":
		return ev.opFloorDiv(a, b)
	case "%":
		return ev.opMod(a, b)
	case "**":
		return ev.opPow(a, b)
	case "&":
		return ev.opBitwise(op, a, b, (*big.Int).And)
	case "|":
		return ev.opBitwise(op, a, b, (*big.Int).Or)
	case "^":
		return ev.opBitwise(op, a, b, (*big.Int).Xor)
	case "<<":
		return ev.opShift(a, b, true)
	case ">>":
		return ev.opShift(a, b, false)
	}
	raise(types.NewException(types.RuntimeError, types.NewStr("unsupported operator "+op)))
	return nil
}

func (ev *Evaluator) opAdd(a, b types.Value) types.Value {
	switch x := a.(type) {
	case types.StringValue:
		y, ok := b.(types.StringValue)
		if !ok {
			ev.typeErrorBinOp("+", a, b)
		}
		ev.alloc(int64(len(x.Val) + len(y.Val)))
		return types.NewStr(x.Val + y.Val)
	case types.BytesValue:
		y, ok := b.(types.BytesValue)
		if !ok {
			ev.typeErrorBinOp("+", a, b)
		}
		out := append(append([]byte{}, x.Val...), y.Val...)
		ev.alloc(int64(len(out)))
		return types.NewBytes(out)
	case *types.ListValue:
		y, ok := b.(*types.ListValue)
		if !ok {
			ev.typeErrorBinOp("+", a, b)
		}
		out := append(append([]types.Value{}, (*x.Elems)...), (*y.Elems)...)
		ev.alloc(int64(len(out)) + 1)
		return types.NewList(out)
	case types.TupleValue:
		y, ok := b.(types.TupleValue)
		if !ok {
			ev.typeErrorBinOp("+", a, b)
		}
		out := append(append([]types.Value{}, x.Elems...), y.Elems...)
		return types.NewTuple(out)
	}
	return ev.opNumeric("+", a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) }, func(x, y float64) float64 { return x + y })
}

func (ev *Evaluator) opMul(a, b types.Value) types.Value {
	if n, ok := repeatCount(b); ok {
		if rep, v, ok := ev.asRepeatable(a); ok {
			return rep(v, n)
		}
	}
	if n, ok := repeatCount(a); ok {
		if rep, v, ok := ev.asRepeatable(b); ok {
			return rep(v, n)
		}
	}
	return ev.opNumeric("*", a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) }, func(x, y float64) float64 { return x * y })
}

func repeatCount(v types.Value) (int, bool) {
	i, ok := toBigInt(v)
	if !ok {
		return 0, false
	}
	return int(i.Int64()), true
}

func (ev *Evaluator) asRepeatable(v types.Value) (func(types.Value, int) types.Value, types.Value, bool) {
	switch v.(type) {
	case types.StringValue, types.BytesValue, *types.ListValue, types.TupleValue:
		return ev.repeat, v, true
	}
	return nil, nil, false
}

func (ev *Evaluator) repeat(v types.Value, n int) types.Value {
	if n < 0 {
		n = 0
	}
	switch x := v.(type) {
	case types.StringValue:
		out := ""
		for i := 0; i < n; i++ {
			out += x.Val
		}
		ev.alloc(int64(len(out)))
		return types.NewStr(out)
	case types.BytesValue:
		var out []byte
		for i := 0; i < n; i++ {
			out = append(out, x.Val...)
		}
		ev.alloc(int64(len(out)))
		return types.NewBytes(out)
	case *types.ListValue:
		var out []types.Value
		for i := 0; i < n; i++ {
			out = append(out, (*x.Elems)...)
		}
		ev.alloc(int64(len(out)) + 1)
		return types.NewList(out)
	case types.TupleValue:
		var out []types.Value
		for i := 0; i < n; i++ {
			out = append(out, x.Elems...)
		}
		return types.NewTuple(out)
	}
	return nil
}

func (ev *Evaluator) opNumeric(op string, a, b types.Value, intOp func(x, y *big.Int) *big.Int, floatOp func(x, y float64) float64) types.Value {
	if isFloaty(a) || isFloaty(b) {
		x, ok1 := toFloat64(a)
		y, ok2 := toFloat64(b)
		if !ok1 || !ok2 {
			ev.typeErrorBinOp(op, a, b)
		}
		return types.NewFloat(floatOp(x, y))
	}
	x, ok1 := toBigInt(a)
	y, ok2 := toBigInt(b)
	if !ok1 || !ok2 {
		ev.typeErrorBinOp(op, a, b)
	}
	return types.NewBigInt(intOp(x, y))
}

func (ev *Evaluator) opTrueDiv(a, b types.Value) types.Value {
	x, ok1 := toFloat64(a)
	y, ok2 := toFloat64(b)
	if !ok1 || !ok2 {
		ev.typeErrorBinOp("/", a, b)
	}
	if y == 0 {
		raise(types.NewException(types.ZeroDivisionError, types.NewStr("division by zero")))
	}
	return types.NewFloat(x / y)
}

func (ev *Evaluator) opFloorDiv(a, b types.Value) types.Value {
	if isFloaty(a) || isFloaty(b) {
		x, _ := toFloat64(a)
		y, ok := toFloat64(b)
		if !ok || y == 0 {
			raise(types.NewException(types.ZeroDivisionError, types.NewStr("float floor division by zero")))
		}
		q := x / y
		return types.NewFloat(floorFloat(q))
	}
	x, ok1 := toBigInt(a)
	y, ok2 := toBigInt(b)
	if !ok1 || !ok2 {
		ev.typeErrorBinOp("//", a, b)
	}
	if y.Sign() == 0 {
		raise(types.NewException(types.ZeroDivisionError, types.NewStr("integer division or modulo by zero")))
	}
	return types.NewBigInt(pyFloorDiv(x, y))
}

// pyFloorDiv implements Python's floor-division semantics (rounds toward
// negative infinity, unlike Go's truncating big.Int.Quo).
func pyFloorDiv(x, y *big.Int) *big.Int {
	q, m := new(big.Int), new(big.Int)
	q.QuoRem(x, y, m)
	if m.Sign() != 0 && (m.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return q
}

func pyMod(x, y *big.Int) *big.Int {
	m := new(big.Int).Mod(x, y)
	if m.Sign() != 0 && y.Sign() < 0 {
		m.Add(m, y)
	}
	return m
}

func floorFloat(f float64) float64 {
	i := int64(f)
	if float64(i) > f {
		i--
	}
	return float64(i)
}

func (ev *Evaluator) opMod(a, b types.Value) types.Value {
	if isFloaty(a) || isFloaty(b) {
		x, _ := toFloat64(a)
		y, ok := toFloat64(b)
		if !ok || y == 0 {
			raise(types.NewException(types.ZeroDivisionError, types.NewStr("float modulo")))
		}
		r := x - floorFloat(x/y)*y
		return types.NewFloat(r)
	}
	x, ok1 := toBigInt(a)
	y, ok2 := toBigInt(b)
	if !ok1 || !ok2 {
		ev.typeErrorBinOp("%", a, b)
	}
	if y.Sign() == 0 {
		raise(types.NewException(types.ZeroDivisionError, types.NewStr("integer division or modulo by zero")))
	}
	return types.NewBigInt(pyMod(x, y))
}

func (ev *Evaluator) opPow(a, b types.Value) types.Value {
	if isFloaty(a) || isFloaty(b) {
		x, _ := toFloat64(a)
		y, _ := toFloat64(b)
		return types.NewFloat(powFloat(x, y))
	}
	x, ok1 := toBigInt(a)
	y, ok2 := toBigInt(b)
	if !ok1 || !ok2 {
		ev.typeErrorBinOp("**", a, b)
	}
	if y.Sign() < 0 {
		xf, _ := toFloat64(a)
		yf, _ := toFloat64(b)
		return types.NewFloat(powFloat(xf, yf))
	}
	return types.NewBigInt(new(big.Int).Exp(x, y, nil))
}

func powFloat(x, y float64) float64 {
	return math.Pow(x, y)
}

func (ev *Evaluator) opBitwise(op string, a, b types.Value, f func(z, x, y *big.Int) *big.Int) types.Value {
	x, ok1 := toBigInt(a)
	y, ok2 := toBigInt(b)
	if !ok1 || !ok2 {
		ev.typeErrorBinOp(op, a, b)
	}
	return types.NewBigInt(f(new(big.Int), x, y))
}

func (ev *Evaluator) opShift(a, b types.Value, left bool) types.Value {
	x, ok1 := toBigInt(a)
	y, ok2 := toBigInt(b)
	if !ok1 || !ok2 {
		ev.typeErrorBinOp("<<", a, b)
	}
	n := uint(y.Int64())
	out := new(big.Int)
	if left {
		out.Lsh(x, n)
	} else {
		out.Rsh(x, n)
	}
	return types.NewBigInt(out)
}

func (ev *Evaluator) unaryNeg(x types.Value) types.Value {
	if isFloaty(x) {
		f, _ := toFloat64(x)
		return types.NewFloat(-f)
	}
	i, ok := toBigInt(x)
	if !ok {
		raise(types.NewException(types.TypeError, types.NewStr("bad operand type for unary -: '"+x.Type().String()+"'")))
	}
	return types.NewBigInt(new(big.Int).Neg(i))
}

func (ev *Evaluator) unaryPos(x types.Value) types.Value {
	if isFloaty(x) {
		return x
	}
	i, ok := toBigInt(x)
	if !ok {
		raise(types.NewException(types.TypeError, types.NewStr("bad operand type for unary +: '"+x.Type().String()+"'")))
	}
	return types.NewBigInt(new(big.Int).Set(i))
}

func (ev *Evaluator) unaryInvert(x types.Value) types.Value {
	i, ok := toBigInt(x)
	if !ok {
		raise(types.NewException(types.TypeError, types.NewStr("bad operand type for unary ~: '"+x.Type().String()+"'")))
	}
	out := new(big.Int).Not(i)
	return types.NewBigInt(out)
}

// compareOp evaluates one step of a (possibly chained) comparison.
func (ev *Evaluator) compareOp(op string, a, b types.Value) bool {
	switch op {
	case "==":
		return a.Equal(b)
	case "!=":
		return !a.Equal(b)
	case "<":
		return ev.less(a, b)
	case ">":
		return ev.less(b, a)
	case "<=":
		return !ev.less(b, a)
	case ">=":
		return !ev.less(a, b)
	case "in":
		return ev.contains(b, a)
	case "not in":
		return !ev.contains(b, a)
	case "is":
		return sameIdentity(a, b)
	case "is not":
		return !sameIdentity(a, b)
	}
	raise(types.NewException(types.RuntimeError, types.NewStr("unsupported comparison "+op)))
	return false
}

func (ev *Evaluator) less(a, b types.Value) bool {
	ord, ok := a.(types.Orderable)
	if !ok {
		ev.typeCompareError(a, b)
	}
	result, ok := ord.Less(b)
	if !ok {
		ev.typeCompareError(a, b)
	}
	return result
}

func (ev *Evaluator) typeCompareError(a, b types.Value) {
	raise(types.NewException(types.TypeError, types.NewStr(
		"'<' not supported between instances of '"+a.Type().String()+"' and '"+b.Type().String()+"'")))
}

func sameIdentity(a, b types.Value) bool {
	return types.Identity(a) == types.Identity(b)
}

// contains implements `in` over List/Tuple/Set/FrozenSet/Dict (keys)/String
// (substring)/Bytes/Range.
func (ev *Evaluator) contains(container, item types.Value) bool {
	switch c := container.(type) {
	case *types.ListValue:
		for _, e := range *c.Elems {
			if e.Equal(item) {
				return true
			}
		}
		return false
	case types.TupleValue:
		for _, e := range c.Elems {
			if e.Equal(item) {
				return true
			}
		}
		return false
	case *types.SetValue:
		return c.Contains(item)
	case *types.DictValue:
		_, ok := c.Get(item)
		return ok
	case types.StringValue:
		s, ok := item.(types.StringValue)
		if !ok {
			ev.typeErrorBinOp("in", item, container)
		}
		return containsSubstring(c.Val, s.Val)
	case types.BytesValue:
		b, ok := item.(types.BytesValue)
		if !ok {
			raise(types.NewException(types.TypeError, types.NewStr("a bytes-like object is required")))
		}
		return containsSubbytes(c.Val, b.Val)
	case types.RangeValue:
		it := c.Iter()
		for {
			v, ok := it.Next()
			if !ok {
				return false
			}
			if v.Equal(item) {
				return true
			}
		}
	}
	raise(types.NewException(types.TypeError, types.NewStr("argument of type '"+container.Type().String()+"' is not iterable")))
	return false
}

func containsSubstring(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return indexOfString(haystack, needle) >= 0
}

func indexOfString(haystack, needle string) int {
	hr, nr := []rune(haystack), []rune(needle)
	if len(nr) > len(hr) {
		return -1
	}
	for i := 0; i+len(nr) <= len(hr); i++ {
		match := true
		for j := range nr {
			if hr[i+j] != nr[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func containsSubbytes(haystack, needle []byte) bool {
	if len(needle) == 0 {
		return true
	}
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// toIterator obtains an Iterator from any Iterable value, faulting with
// TypeError otherwise.
func (ev *Evaluator) toIterator(v types.Value) *types.Iterator {
	if it, ok := v.(types.Iterable); ok {
		return it.Iter()
	}
	raise(types.NewException(types.TypeError, types.NewStr("'"+v.Type().String()+"' object is not iterable")))
	return nil
}
