package types

import (
	"hash/fnv"
	"strings"
)

// ---- String ----

type StringValue struct{ Val string }

func NewStr(s string) StringValue { return StringValue{Val: s} }
func (StringValue) Type() TypeCode { return TString }
func (s StringValue) String() string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s.Val, `\`, `\\`), "'", `\'`) + "'"
}

// Raw returns the unquoted string contents (what str() would print).
func (s StringValue) Raw() string { return s.Val }
func (s StringValue) Truthy() bool { return len(s.Val) > 0 }
func (s StringValue) Equal(o Value) bool {
	v, ok := o.(StringValue)
	return ok && s.Val == v.Val
}
func (s StringValue) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.Val))
	return h.Sum64()
}
func (s StringValue) Less(o Value) (bool, bool) {
	v, ok := o.(StringValue)
	if !ok {
		return false, false
	}
	return s.Val < v.Val, true
}
func (s StringValue) Len() int {
	return len([]rune(s.Val))
}
func (s StringValue) Iter() *Iterator {
	runes := []rune(s.Val)
	i := 0
	return NewIterator(func() (Value, bool) {
		if i >= len(runes) {
			return nil, false
		}
		r := runes[i]
		i++
		return NewStr(string(r)), true
	})
}

// ---- Bytes ----

type BytesValue struct{ Val []byte }

func NewBytes(b []byte) BytesValue { return BytesValue{Val: b} }
func (BytesValue) Type() TypeCode   { return TBytes }
func (b BytesValue) String() string {
	var sb strings.Builder
	sb.WriteString("b'")
	for _, c := range b.Val {
		if c == '\\' || c == '\'' {
			sb.WriteByte('\\')
			sb.WriteByte(c)
		} else if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			sb.WriteString("\\x")
			const hex = "0123456789abcdef"
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0xf])
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
func (b BytesValue) Truthy() bool { return len(b.Val) > 0 }
func (b BytesValue) Equal(o Value) bool {
	v, ok := o.(BytesValue)
	if !ok || len(v.Val) != len(b.Val) {
		return false
	}
	for i := range b.Val {
		if b.Val[i] != v.Val[i] {
			return false
		}
	}
	return true
}
func (b BytesValue) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write(b.Val)
	return h.Sum64()
}
func (b BytesValue) Len() int { return len(b.Val) }
func (b BytesValue) Iter() *Iterator {
	i := 0
	return NewIterator(func() (Value, bool) {
		if i >= len(b.Val) {
			return nil, false
		}
		v := b.Val[i]
		i++
		return NewInt(int64(v)), true
	})
}
