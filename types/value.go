// Package types implements monty's tagged value model: the variant of
// script-visible values the evaluator operates on, their identity,
// truthiness, equality, ordering and hashing rules, plus the built-in
// exception class hierarchy that rides alongside them.
package types

import (
	"fmt"
	"math/big"
	"sync/atomic"
)

// TypeCode tags a Value's variant.
type TypeCode int

const (
	TNone TypeCode = iota
	TBool
	TInt
	TFloat
	TString
	TBytes
	TTuple
	TList
	TDict
	TSet
	TFrozenSet
	TRange
	TSlice
	TIterator
	TBuiltinFunction
	TBuiltinClass
	TException
	TModule
)

func (t TypeCode) String() string {
	switch t {
	case TNone:
		return "NoneType"
	case TBool:
		return "bool"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TString:
		return "str"
	case TBytes:
		return "bytes"
	case TTuple:
		return "tuple"
	case TList:
		return "list"
	case TDict:
		return "dict"
	case TSet:
		return "set"
	case TFrozenSet:
		return "frozenset"
	case TRange:
		return "range"
	case TSlice:
		return "slice"
	case TIterator:
		return "iterator"
	case TBuiltinFunction:
		return "builtin_function_or_method"
	case TBuiltinClass:
		return "type"
	case TException:
		return "exception"
	case TModule:
		return "module"
	default:
		return "unknown"
	}
}

// Value is the interface every monty script value implements.
type Value interface {
	Type() TypeCode
	String() string // repr() form
	Truthy() bool
	Equal(Value) bool
}

// Hashable is implemented by values usable as dict keys / set members.
// Mutable containers deliberately do not implement it; hashing them is a
// TypeError at the call site, not a panic here.
type Hashable interface {
	Hash() uint64
}

// Orderable is implemented by values with a well-defined `<` relation.
type Orderable interface {
	Less(Value) (bool, bool) // (result, ok) — ok is false when not comparable
}

// Iterable produces a fresh Iterator over a value's elements.
type Iterable interface {
	Iter() *Iterator
}

var idCounter int64

// nextID hands out a fresh, monotonically increasing identity. Used for every
// mutable value, for each None instance, and by Identity for values that
// carry no id of their own;
// see id__non_overlapping_lifetimes in the supplemented test cases.
func nextID() int64 {
	return atomic.AddInt64(&idCounter, 1)
}

// ---- None ----

type NoneValue struct{ id int64 }

func NewNone() NoneValue   { return NoneValue{id: nextID()} }
func (NoneValue) Type() TypeCode  { return TNone }
func (NoneValue) String() string  { return "None" }
func (NoneValue) Truthy() bool    { return false }
func (n NoneValue) Equal(o Value) bool {
	_, ok := o.(NoneValue)
	return ok
}
func (n NoneValue) ID() int64  { return n.id }
func (NoneValue) Hash() uint64 { return 0 }

// ---- Bool ----

type BoolValue struct{ Val bool }

func NewBool(b bool) BoolValue { return BoolValue{Val: b} }
func (BoolValue) Type() TypeCode { return TBool }
func (b BoolValue) String() string {
	if b.Val {
		return "True"
	}
	return "False"
}
func (b BoolValue) Truthy() bool { return b.Val }
func (b BoolValue) Equal(o Value) bool {
	switch v := o.(type) {
	case BoolValue:
		return b.Val == v.Val
	case IntValue:
		return v.Val.Cmp(big.NewInt(boolToInt(b.Val))) == 0
	case FloatValue:
		return v.Val == boolToFloat(b.Val)
	}
	return false
}
func (b BoolValue) Hash() uint64 {
	if b.Val {
		return 1
	}
	return 0
}
func (b BoolValue) Less(o Value) (bool, bool) {
	return IntValue{Val: big.NewInt(boolToInt(b.Val))}.Less(o)
}
func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ---- Int (arbitrary precision) ----

type IntValue struct{ Val *big.Int }

func NewInt(v int64) IntValue    { return IntValue{Val: big.NewInt(v)} }
func NewBigInt(v *big.Int) IntValue { return IntValue{Val: v} }
func (IntValue) Type() TypeCode  { return TInt }
func (i IntValue) String() string { return i.Val.String() }
func (i IntValue) Truthy() bool  { return i.Val.Sign() != 0 }
func (i IntValue) Equal(o Value) bool {
	switch v := o.(type) {
	case IntValue:
		return i.Val.Cmp(v.Val) == 0
	case BoolValue:
		return i.Val.Cmp(big.NewInt(boolToInt(v.Val))) == 0
	case FloatValue:
		f := new(big.Float).SetInt(i.Val)
		other := big.NewFloat(v.Val)
		return f.Cmp(other) == 0
	}
	return false
}
func (i IntValue) Hash() uint64 {
	return uint64(i.Val.Int64())
}
func (i IntValue) Less(o Value) (bool, bool) {
	switch v := o.(type) {
	case IntValue:
		return i.Val.Cmp(v.Val) < 0, true
	case BoolValue:
		return i.Val.Cmp(big.NewInt(boolToInt(v.Val))) < 0, true
	case FloatValue:
		f := new(big.Float).SetInt(i.Val)
		return f.Cmp(big.NewFloat(v.Val)) < 0, true
	}
	return false, false
}

// ---- Float ----

type FloatValue struct{ Val float64 }

func NewFloat(v float64) FloatValue { return FloatValue{Val: v} }
func (FloatValue) Type() TypeCode   { return TFloat }
func (f FloatValue) String() string { return formatFloat(f.Val) }
func (f FloatValue) Truthy() bool   { return f.Val != 0 }
func (f FloatValue) Equal(o Value) bool {
	switch v := o.(type) {
	case FloatValue:
		return f.Val == v.Val
	case IntValue, BoolValue:
		return v.(Value).Equal(f)
	}
	return false
}
func (f FloatValue) Hash() uint64 {
	return uint64(int64(f.Val))
}
func (f FloatValue) Less(o Value) (bool, bool) {
	switch v := o.(type) {
	case FloatValue:
		return f.Val < v.Val, true
	case IntValue:
		other := new(big.Float).SetInt(v.Val)
		return big.NewFloat(f.Val).Cmp(other) < 0, true
	case BoolValue:
		return f.Val < boolToFloat(v.Val), true
	}
	return false, false
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	// Ensure a float always prints with a decimal point or exponent, matching
	// Python's repr() for whole-numbered floats (e.g. "3" -> "3.0").
	hasDotOrExp := false
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' {
			hasDotOrExp = true
			break
		}
	}
	if !hasDotOrExp {
		s += ".0"
	}
	return s
}
