package types

import "strings"

// ---- Tuple (immutable ordered sequence) ----

type TupleValue struct{ Elems []Value }

func NewTuple(elems []Value) TupleValue { return TupleValue{Elems: elems} }
func (TupleValue) Type() TypeCode       { return TTuple }
func (t TupleValue) String() string {
	if len(t.Elems) == 1 {
		return "(" + t.Elems[0].String() + ",)"
	}
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t TupleValue) Truthy() bool { return len(t.Elems) > 0 }
func (t TupleValue) Equal(o Value) bool {
	v, ok := o.(TupleValue)
	if !ok || len(v.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(v.Elems[i]) {
			return false
		}
	}
	return true
}
func (t TupleValue) Hash() uint64 {
	var h uint64 = 14695981039346656037
	for _, e := range t.Elems {
		hv, ok := e.(Hashable)
		if !ok {
			return 0
		}
		h = (h ^ hv.Hash()) * 1099511628211
	}
	return h
}
func (t TupleValue) Len() int { return len(t.Elems) }
func (t TupleValue) Iter() *Iterator {
	i := 0
	return NewIterator(func() (Value, bool) {
		if i >= len(t.Elems) {
			return nil, false
		}
		v := t.Elems[i]
		i++
		return v, true
	})
}

// ---- List (mutable ordered sequence) ----

type ListValue struct {
	Elems *[]Value
	id    int64
}

func NewList(elems []Value) *ListValue {
	return &ListValue{Elems: &elems, id: nextID()}
}
func (*ListValue) Type() TypeCode { return TList }
func (l *ListValue) String() string {
	parts := make([]string, len(*l.Elems))
	for i, e := range *l.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *ListValue) Truthy() bool { return len(*l.Elems) > 0 }
func (l *ListValue) Equal(o Value) bool {
	v, ok := o.(*ListValue)
	if !ok || len(*v.Elems) != len(*l.Elems) {
		return false
	}
	for i := range *l.Elems {
		if !(*l.Elems)[i].Equal((*v.Elems)[i]) {
			return false
		}
	}
	return true
}
func (l *ListValue) ID() int64 { return l.id }
func (l *ListValue) Len() int  { return len(*l.Elems) }
func (l *ListValue) Iter() *Iterator {
	snapshot := *l.Elems
	i := 0
	return NewIterator(func() (Value, bool) {
		if i >= len(snapshot) {
			return nil, false
		}
		v := snapshot[i]
		i++
		return v, true
	})
}

// ---- Dict (insertion-ordered mapping) ----

type dictEntry struct {
	key Value
	val Value
}

type DictValue struct {
	entries []dictEntry
	index   map[uint64][]int
	id      int64
}

func NewDict() *DictValue {
	return &DictValue{index: make(map[uint64][]int), id: nextID()}
}

func (*DictValue) Type() TypeCode { return TDict }
func (d *DictValue) String() string {
	parts := make([]string, len(d.entries))
	for i, e := range d.entries {
		parts[i] = e.key.String() + ": " + e.val.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (d *DictValue) Truthy() bool { return len(d.entries) > 0 }
func (d *DictValue) Equal(o Value) bool {
	v, ok := o.(*DictValue)
	if !ok || len(v.entries) != len(d.entries) {
		return false
	}
	for _, e := range d.entries {
		val, found := v.Get(e.key)
		if !found || !val.Equal(e.val) {
			return false
		}
	}
	return true
}
func (d *DictValue) ID() int64 { return d.id }
func (d *DictValue) Len() int  { return len(d.entries) }

func (d *DictValue) findIndex(key Value) (int, bool) {
	hv, ok := key.(Hashable)
	if !ok {
		return -1, false
	}
	h := hv.Hash()
	for _, idx := range d.index[h] {
		if d.entries[idx].key.Equal(key) {
			return idx, true
		}
	}
	return -1, false
}

func (d *DictValue) Get(key Value) (Value, bool) {
	idx, ok := d.findIndex(key)
	if !ok {
		return nil, false
	}
	return d.entries[idx].val, true
}

// Set inserts or updates key->val, preserving original insertion order.
func (d *DictValue) Set(key, val Value) {
	if idx, ok := d.findIndex(key); ok {
		d.entries[idx].val = val
		return
	}
	hv, ok := key.(Hashable)
	if !ok {
		return
	}
	idx := len(d.entries)
	d.entries = append(d.entries, dictEntry{key: key, val: val})
	h := hv.Hash()
	d.index[h] = append(d.index[h], idx)
}

func (d *DictValue) Delete(key Value) bool {
	idx, ok := d.findIndex(key)
	if !ok {
		return false
	}
	d.entries = append(d.entries[:idx], d.entries[idx+1:]...)
	d.index = make(map[uint64][]int, len(d.entries))
	for i, e := range d.entries {
		hv := e.key.(Hashable)
		h := hv.Hash()
		d.index[h] = append(d.index[h], i)
	}
	return true
}

func (d *DictValue) Keys() []Value {
	keys := make([]Value, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.key
	}
	return keys
}

func (d *DictValue) Values() []Value {
	vals := make([]Value, len(d.entries))
	for i, e := range d.entries {
		vals[i] = e.val
	}
	return vals
}

// Iter yields keys, matching Python dict iteration semantics.
func (d *DictValue) Iter() *Iterator {
	keys := d.Keys()
	i := 0
	return NewIterator(func() (Value, bool) {
		if i >= len(keys) {
			return nil, false
		}
		v := keys[i]
		i++
		return v, true
	})
}

// ---- Set / FrozenSet ----

type SetValue struct {
	entries []Value
	index   map[uint64][]int
	frozen  bool
	id      int64
}

func NewSet(elems []Value, frozen bool) *SetValue {
	s := &SetValue{index: make(map[uint64][]int), frozen: frozen, id: nextID()}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

func (s *SetValue) Type() TypeCode {
	if s.frozen {
		return TFrozenSet
	}
	return TSet
}
func (s *SetValue) String() string {
	if len(s.entries) == 0 {
		if s.frozen {
			return "frozenset()"
		}
		return "set()"
	}
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = e.String()
	}
	body := "{" + strings.Join(parts, ", ") + "}"
	if s.frozen {
		return "frozenset(" + body + ")"
	}
	return body
}
func (s *SetValue) Truthy() bool { return len(s.entries) > 0 }
func (s *SetValue) Equal(o Value) bool {
	v, ok := o.(*SetValue)
	if !ok || len(v.entries) != len(s.entries) {
		return false
	}
	for _, e := range s.entries {
		if !v.Contains(e) {
			return false
		}
	}
	return true
}
func (s *SetValue) ID() int64 { return s.id }
func (s *SetValue) Len() int  { return len(s.entries) }
func (s *SetValue) Frozen() bool { return s.frozen }

func (s *SetValue) Contains(v Value) bool {
	hv, ok := v.(Hashable)
	if !ok {
		return false
	}
	h := hv.Hash()
	for _, idx := range s.index[h] {
		if s.entries[idx].Equal(v) {
			return true
		}
	}
	return false
}

func (s *SetValue) Add(v Value) {
	if s.Contains(v) {
		return
	}
	hv, ok := v.(Hashable)
	if !ok {
		return
	}
	idx := len(s.entries)
	s.entries = append(s.entries, v)
	h := hv.Hash()
	s.index[h] = append(s.index[h], idx)
}

func (s *SetValue) Remove(v Value) bool {
	hv, ok := v.(Hashable)
	if !ok {
		return false
	}
	h := hv.Hash()
	for _, idx := range s.index[h] {
		if s.entries[idx].Equal(v) {
			s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
			s.index = make(map[uint64][]int, len(s.entries))
			for i, e := range s.entries {
				eh := e.(Hashable).Hash()
				s.index[eh] = append(s.index[eh], i)
			}
			return true
		}
	}
	return false
}

func (s *SetValue) Iter() *Iterator {
	snapshot := append([]Value(nil), s.entries...)
	i := 0
	return NewIterator(func() (Value, bool) {
		if i >= len(snapshot) {
			return nil, false
		}
		v := snapshot[i]
		i++
		return v, true
	})
}
