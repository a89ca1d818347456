package types

// Equal reports structural equality for containers, identity-adjacent
// equality for scalars, and the numeric tower's cross-type equality
// (Bool ⊂ Int ⊂ Float).
func Equal(a, b Value) bool {
	return a.Equal(b)
}

// LessThan implements ordering, returning a TypeError instance when the pair
// has no defined `<` relation.
func LessThan(a, b Value) (bool, *ExceptionInstance) {
	ord, ok := a.(Orderable)
	if !ok {
		return false, TypeMismatch(a, b, "<")
	}
	res, ok := ord.Less(b)
	if !ok {
		return false, TypeMismatch(a, b, "<")
	}
	return res, nil
}

// TypeMismatch builds the standard "'<' not supported between instances of
// 'A' and 'B'" TypeError.
func TypeMismatch(a, b Value, op string) *ExceptionInstance {
	msg := "'" + op + "' not supported between instances of '" + a.Type().String() + "' and '" + b.Type().String() + "'"
	return NewException(TypeError, NewStr(msg))
}

// HashOf returns a value's hash, or a TypeError for unhashable (mutable)
// values — hashing is defined only for immutable values.
func HashOf(v Value) (uint64, *ExceptionInstance) {
	h, ok := v.(Hashable)
	if !ok {
		return 0, NewException(TypeError, NewStr("unhashable type: '"+v.Type().String()+"'"))
	}
	return h.Hash(), nil
}
