package monty

import "github.com/kustomzone/monty/types"

// HostError reports misuse of the Session/Snapshot API itself (a malformed
// resume call, a source string that fails to parse) — distinct from
// MontyRuntimeError, which wraps a fault the *script* raised. Its Class/Msg
// carry the exception class name and message verbatim, so Error() reads
// the same as the host-facing error contract documents.
type HostError struct {
	Class types.ErrorClass
	Msg   string
}

func (e *HostError) Error() string {
	return string(e.Class) + ": " + e.Msg
}

// MontyRuntimeError wraps an uncaught script exception (or a resource-limit
// breach, which is itself raised as a script-visible exception instance) so
// the host can inspect it without importing package types' control-flow
// machinery.
type MontyRuntimeError struct {
	Exc *types.ExceptionInstance
}

func (e *MontyRuntimeError) Error() string {
	return string(e.Exc.Class) + ": " + e.Exc.Message()
}

// Exception exposes the underlying script exception instance.
func (e *MontyRuntimeError) Exception() *types.ExceptionInstance {
	return e.Exc
}
