package types

import "sync"

type identified interface {
	ID() int64
}

var (
	smallIntMu    sync.Mutex
	smallIntCache = make(map[int64]int64) // value -> id, for -5..256 like CPython's int cache
)

// Identity implements id(x). Mutable values (list/dict/set/exception/module/
// iterator) carry a stable id assigned at construction, so distinct live
// mutable values always get distinct ids (invariant: identity monotonicity).
// Small integers get a cached id, mirroring CPython's interning of -5..256 so
// that `a is b` holds for small-int literals the way scripts expect. Every
// other immutable value gets a fresh id per call: the identity of two equal
// immutable values that aren't small ints is left implementation-defined.
func Identity(v Value) int64 {
	if m, ok := v.(identified); ok {
		return m.ID()
	}
	if i, ok := v.(IntValue); ok && i.Val.IsInt64() {
		n := i.Val.Int64()
		if n >= -5 && n <= 256 {
			smallIntMu.Lock()
			defer smallIntMu.Unlock()
			if id, ok := smallIntCache[n]; ok {
				return id
			}
			id := nextID()
			smallIntCache[n] = id
			return id
		}
	}
	return nextID()
}
