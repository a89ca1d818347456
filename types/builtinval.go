package types

// BuiltinFunction is a reference into the builtin registry: a callable whose
// body is implemented in Go rather than script. External-function suspension
// is distinct from this — BuiltinFunction values never suspend the evaluator.
type BuiltinFunction struct {
	Name string
	Fn   func(args []Value, kwargs *DictValue) (Value, *ExceptionInstance)
}

func NewBuiltinFunction(name string, fn func([]Value, *DictValue) (Value, *ExceptionInstance)) *BuiltinFunction {
	return &BuiltinFunction{Name: name, Fn: fn}
}
func (*BuiltinFunction) Type() TypeCode { return TBuiltinFunction }
func (b *BuiltinFunction) String() string {
	return "<built-in function " + b.Name + ">"
}
func (*BuiltinFunction) Truthy() bool { return true }
func (b *BuiltinFunction) Equal(o Value) bool {
	v, ok := o.(*BuiltinFunction)
	return ok && v == b
}

// BuiltinClass is a type object exposed as a callable constructor (e.g. list,
// dict, int, or an exception class).
type BuiltinClass struct {
	Name        string
	Construct   func(args []Value, kwargs *DictValue) (Value, *ExceptionInstance)
	ExceptionOf ErrorClass // non-empty when this class object names an exception class
}

func NewBuiltinClass(name string, construct func([]Value, *DictValue) (Value, *ExceptionInstance)) *BuiltinClass {
	return &BuiltinClass{Name: name, Construct: construct}
}
func (*BuiltinClass) Type() TypeCode { return TBuiltinClass }
func (c *BuiltinClass) String() string {
	return "<class '" + c.Name + "'>"
}
func (*BuiltinClass) Truthy() bool { return true }
func (c *BuiltinClass) Equal(o Value) bool {
	v, ok := o.(*BuiltinClass)
	return ok && v == c
}

// Module is a named bag of attributes (a restricted standard-library
// surface, e.g. os / sys / pathlib).
type Module struct {
	Name  string
	Attrs map[string]Value
}

func NewModule(name string) *Module {
	return &Module{Name: name, Attrs: make(map[string]Value)}
}
func (*Module) Type() TypeCode { return TModule }
func (m *Module) String() string {
	return "<module '" + m.Name + "'>"
}
func (*Module) Truthy() bool { return true }
func (m *Module) Equal(o Value) bool {
	v, ok := o.(*Module)
	return ok && v == m
}
func (m *Module) Attr(name string) (Value, bool) {
	v, ok := m.Attrs[name]
	return v, ok
}
func (m *Module) Set(name string, v Value) {
	m.Attrs[name] = v
}
