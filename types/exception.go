package types

import "strings"

// ErrorClass names a built-in exception class. The hierarchy is a fixed,
// data-driven tree rooted at BaseException, generalized from a flat error
// code enum into a real ancestor-bitset hierarchy so isinstance() can walk
// it.
type ErrorClass string

const (
	BaseException      ErrorClass = "BaseException"
	SystemExit         ErrorClass = "SystemExit"
	KeyboardInterrupt  ErrorClass = "KeyboardInterrupt"
	Exception          ErrorClass = "Exception"
	ArithmeticError    ErrorClass = "ArithmeticError"
	OverflowError      ErrorClass = "OverflowError"
	ZeroDivisionError  ErrorClass = "ZeroDivisionError"
	LookupError        ErrorClass = "LookupError"
	IndexError         ErrorClass = "IndexError"
	KeyError           ErrorClass = "KeyError"
	RuntimeError       ErrorClass = "RuntimeError"
	NotImplementedError ErrorClass = "NotImplementedError"
	RecursionError     ErrorClass = "RecursionError"
	AttributeError     ErrorClass = "AttributeError"
	AssertionError     ErrorClass = "AssertionError"
	MemoryError        ErrorClass = "MemoryError"
	NameError          ErrorClass = "NameError"
	SyntaxError        ErrorClass = "SyntaxError"
	OSError            ErrorClass = "OSError"
	TimeoutError       ErrorClass = "TimeoutError"
	TypeError          ErrorClass = "TypeError"
	ValueError         ErrorClass = "ValueError"
	StopIteration      ErrorClass = "StopIteration"
	ModuleNotFoundError ErrorClass = "ModuleNotFoundError"
	ImportError        ErrorClass = "ImportError"
)

// parentOf is the fixed exception class tree.
var parentOf = map[ErrorClass]ErrorClass{
	SystemExit:          BaseException,
	KeyboardInterrupt:   BaseException,
	Exception:           BaseException,
	ArithmeticError:     Exception,
	OverflowError:       ArithmeticError,
	ZeroDivisionError:   ArithmeticError,
	LookupError:         Exception,
	IndexError:          LookupError,
	KeyError:            LookupError,
	RuntimeError:        Exception,
	NotImplementedError: RuntimeError,
	RecursionError:      RuntimeError,
	AttributeError:      Exception,
	AssertionError:      Exception,
	MemoryError:         Exception,
	NameError:           Exception,
	SyntaxError:         Exception,
	OSError:             Exception,
	TimeoutError:        OSError,
	ModuleNotFoundError: OSError,
	ImportError:         Exception,
	TypeError:           Exception,
	ValueError:          Exception,
	StopIteration:       Exception,
}

// ancestors, computed once, is the precomputed ancestor bitset (here: a set)
// used by IsSubclass so matching is O(1) amortized instead of walking
// parentOf on every except clause.
var ancestors = func() map[ErrorClass]map[ErrorClass]bool {
	m := make(map[ErrorClass]map[ErrorClass]bool)
	var build func(c ErrorClass) map[ErrorClass]bool
	build = func(c ErrorClass) map[ErrorClass]bool {
		if s, ok := m[c]; ok {
			return s
		}
		s := map[ErrorClass]bool{c: true}
		if p, ok := parentOf[c]; ok {
			for a := range build(p) {
				s[a] = true
			}
		} else if c != BaseException {
			s[BaseException] = true
		}
		m[c] = s
		return s
	}
	for c := range parentOf {
		build(c)
	}
	build(BaseException)
	return m
}()

// IsSubclass reports whether class c is cls or a descendant of cls.
func IsSubclass(c, cls ErrorClass) bool {
	return ancestors[c][cls]
}

// ExceptionInstance is a raised/caught exception value: class tag, argument
// tuple, optional cause/context, and a traceback frame list.
type ExceptionInstance struct {
	Class      ErrorClass
	Args       []Value
	Cause      *ExceptionInstance
	Context    *ExceptionInstance
	Traceback  []TracebackFrame
	id         int64
}

// TracebackFrame names the script/line/source-text a frame of the unwind
// passed through.
type TracebackFrame struct {
	ScriptName string
	Line       int
	Source     string
}

func NewException(class ErrorClass, args ...Value) *ExceptionInstance {
	return &ExceptionInstance{Class: class, Args: args, id: nextID()}
}

func (*ExceptionInstance) Type() TypeCode { return TException }
func (e *ExceptionInstance) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return string(e.Class) + "(" + strings.Join(parts, ", ") + ")"
}
func (*ExceptionInstance) Truthy() bool { return true }
func (e *ExceptionInstance) Equal(o Value) bool {
	v, ok := o.(*ExceptionInstance)
	return ok && v == e
}
func (e *ExceptionInstance) ID() int64 { return e.id }

// Message renders the Python str(exc) form: single-arg exceptions print that
// argument's raw text; zero-arg exceptions print the empty string and
// multi-arg exceptions print the tuple form.
func (e *ExceptionInstance) Message() string {
	if len(e.Args) == 0 {
		return ""
	}
	if len(e.Args) == 1 {
		if s, ok := e.Args[0].(StringValue); ok {
			return s.Raw()
		}
		return e.Args[0].String()
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// AppendFrame records one more unwinding frame. Per invariant 5, frames are
// only ever appended, never mutated, until the exception is caught.
func (e *ExceptionInstance) AppendFrame(f TracebackFrame) {
	e.Traceback = append(e.Traceback, f)
}

// ArgsTuple exposes the exception's `.args` attribute.
func (e *ExceptionInstance) ArgsTuple() TupleValue {
	return NewTuple(append([]Value(nil), e.Args...))
}
