package builtin

import "github.com/kustomzone/monty/types"

// registerExceptionClasses exposes every class in the fixed exception
// hierarchy as a script-visible name (e.g. `except ValueError:`,
// `raise TypeError("...")`, `isinstance(e, ArithmeticError)`).
func registerExceptionClasses(r *Registry) {
	classes := []types.ErrorClass{
		types.BaseException, types.SystemExit, types.KeyboardInterrupt, types.Exception,
		types.ArithmeticError, types.OverflowError, types.ZeroDivisionError,
		types.LookupError, types.IndexError, types.KeyError,
		types.RuntimeError, types.NotImplementedError, types.RecursionError,
		types.AttributeError, types.AssertionError, types.MemoryError, types.NameError,
		types.SyntaxError, types.OSError, types.TimeoutError, types.TypeError,
		types.ValueError, types.StopIteration, types.ModuleNotFoundError, types.ImportError,
	}
	for _, c := range classes {
		cls := c
		bc := types.NewBuiltinClass(string(cls), func(args []types.Value, _ *types.DictValue) (types.Value, *types.ExceptionInstance) {
			return types.NewException(cls, args...), nil
		})
		bc.ExceptionOf = cls
		r.define(string(cls), bc)
	}
}
