// Package builtins implements the builtin-function contract: each
// builtin is registered with a name, an upper-arity bound, and a host-side
// function; the evaluator passes it (itself, evaluated args, is-await
// flag) and maps a returned error into a typed error with the builtin's
// name attached. This package ships only the registry and a minimal
// reference set sufficient to exercise the call dispatcher end to end —
// the wide builtin library (window control, file I/O, dialogs, crypto,
// ...) belongs to a full distribution, not the core evaluator.
package builtins

import (
	"strings"

	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/value"
)

// Registry holds every registered BuiltinFunction, keyed case-insensitively.
type Registry struct {
	funcs map[string]*value.BuiltinFunction
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]*value.BuiltinFunction{}}
}

// Register adds fn, overwriting any earlier registration of the same name
// (later registration wins, matching Public's redefinition rule rather
// than erroring — builtins are part of the host, not user script state).
func (r *Registry) Register(fn *value.BuiltinFunction) {
	r.funcs[upper(fn.Name)] = fn
}

// Get resolves name to its BuiltinFunction.
func (r *Registry) Get(name string) (*value.BuiltinFunction, bool) {
	fn, ok := r.funcs[upper(name)]
	return fn, ok
}

// Call invokes name with args, enforcing the arity upper bound and mapping
// the builtin's own name onto any error it returns.
func (r *Registry) Call(eval any, name string, args value.BuiltinArgs, isAwait bool) (value.Value, error) {
	fn, ok := r.Get(name)
	if !ok {
		return nil, uerrors.New(uerrors.FuncCallError, uerrors.MsgUndefinedFunction, name)
	}
	if fn.MaxArity >= 0 && args.Len() > fn.MaxArity {
		return nil, uerrors.New(uerrors.BuiltinFunctionError, uerrors.MsgArityMismatch, fn.Name, fn.MaxArity, args.Len())
	}
	v, err := fn.Fn(eval, args, isAwait)
	if err != nil {
		if ue, ok := err.(*uerrors.UError); ok {
			return nil, ue
		}
		return nil, uerrors.New(uerrors.BuiltinFunctionError, "%s: %v", fn.Name, err)
	}
	return v, nil
}

func upper(s string) string { return strings.ToUpper(s) }

// Default returns a Registry pre-populated with the reference builtin set
// defined in core.go.
func Default() *Registry {
	r := NewRegistry()
	RegisterCore(r)
	return r
}
