package types

import "fmt"

// ---- Range ----

type RangeValue struct {
	Start, Stop, Step int64
}

func NewRange(start, stop, step int64) RangeValue {
	return RangeValue{Start: start, Stop: stop, Step: step}
}
func (RangeValue) Type() TypeCode { return TRange }
func (r RangeValue) String() string {
	if r.Step == 1 {
		return fmt.Sprintf("range(%d, %d)", r.Start, r.Stop)
	}
	return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
}
func (r RangeValue) Truthy() bool { return r.Len() > 0 }
func (r RangeValue) Equal(o Value) bool {
	v, ok := o.(RangeValue)
	if !ok {
		return false
	}
	if r.Len() == 0 && v.Len() == 0 {
		return true
	}
	return r.Start == v.Start && r.Step == v.Step && r.Len() == v.Len()
}
func (r RangeValue) Len() int {
	if r.Step == 0 {
		return 0
	}
	if r.Step > 0 {
		if r.Stop <= r.Start {
			return 0
		}
		return int((r.Stop - r.Start + r.Step - 1) / r.Step)
	}
	if r.Start <= r.Stop {
		return 0
	}
	return int((r.Start - r.Stop - r.Step - 1) / (-r.Step))
}
func (r RangeValue) Iter() *Iterator {
	cur := r.Start
	i := 0
	n := r.Len()
	return NewIterator(func() (Value, bool) {
		if i >= n {
			return nil, false
		}
		v := cur
		cur += r.Step
		i++
		return NewInt(v), true
	})
}

// ---- Slice ----

// SliceValue models slice(start, stop, step); any component may be absent
// (represented here as a nil Value, surfaced to scripts as None).
type SliceValue struct {
	Start, Stop, Step Value
}

func NewSlice(start, stop, step Value) SliceValue {
	return SliceValue{Start: start, Stop: stop, Step: step}
}
func (SliceValue) Type() TypeCode { return TSlice }
func (s SliceValue) String() string {
	return fmt.Sprintf("slice(%s, %s, %s)", reprOrNone(s.Start), reprOrNone(s.Stop), reprOrNone(s.Step))
}
func reprOrNone(v Value) string {
	if v == nil {
		return "None"
	}
	return v.String()
}
func (SliceValue) Truthy() bool { return true }
func (s SliceValue) Equal(o Value) bool {
	v, ok := o.(SliceValue)
	if !ok {
		return false
	}
	return equalOrBothNil(s.Start, v.Start) && equalOrBothNil(s.Stop, v.Stop) && equalOrBothNil(s.Step, v.Step)
}
func equalOrBothNil(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Attr resolves slice.start / slice.stop / slice.step.
func (s SliceValue) Attr(name string) (Value, bool) {
	switch name {
	case "start":
		return orNone(s.Start), true
	case "stop":
		return orNone(s.Stop), true
	case "step":
		return orNone(s.Step), true
	}
	return nil, false
}
func orNone(v Value) Value {
	if v == nil {
		return NewNone()
	}
	return v
}

// ---- Iterator ----

// Iterator wraps a Go closure pull-model: an opaque cursor with a next
// step, exhausted via a sentinel stop-signal rather than an error.
type Iterator struct {
	next func() (Value, bool)
	id   int64
}

func NewIterator(next func() (Value, bool)) *Iterator {
	return &Iterator{next: next, id: nextID()}
}
func (*Iterator) Type() TypeCode  { return TIterator }
func (*Iterator) String() string  { return "<iterator>" }
func (*Iterator) Truthy() bool    { return true }
func (i *Iterator) Equal(o Value) bool {
	v, ok := o.(*Iterator)
	return ok && v == i
}
func (i *Iterator) ID() int64 { return i.id }

// Next pulls the next element. ok is false at exhaustion (StopIteration).
func (i *Iterator) Next() (Value, bool) {
	return i.next()
}
func (i *Iterator) Iter() *Iterator { return i }
