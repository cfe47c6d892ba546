package evaluator

import (
	"fmt"

	"github.com/uwscr/uwscr-core/ast"
	"github.com/uwscr/uwscr-core/internal/dll"
	"github.com/uwscr/uwscr-core/internal/value"
)

// buildDllFunction wraps a DefDll declaration as a BuiltinFunction: calling
// it marshals args per its declared parameter types and delegates to the
// Evaluator's configured dll.Library. With no backend configured, it
// fails with a typed error instead of panicking, matching the "narrow
// external interface" treatment.
func buildDllFunction(n *ast.DefDllStatement) *value.BuiltinFunction {
	decl := dll.Declaration{
		Name: n.Name, Alias: n.Alias, ReturnType: dll.NativeType(n.ReturnType), Library: n.Library,
	}
	for _, p := range n.Params {
		decl.Params = append(decl.Params, dll.Param{
			Type: dll.NativeType(p.NativeType), ByRef: p.ByRef, IsArray: p.IsArray,
		})
	}
	return &value.BuiltinFunction{
		Name:     n.Name,
		MaxArity: len(decl.Params),
		Fn: func(ev any, args value.BuiltinArgs, _ bool) (value.Value, error) {
			e, ok := ev.(*Evaluator)
			if !ok || e.Dll == nil {
				return nil, fmt.Errorf("DefDll: no native backend configured for %s", n.Name)
			}
			result, _, err := e.Dll.Call(decl, args.Values)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}
}

// materializeModule evaluates a class/module member block once into a
// fresh Module: FunctionStatement members become Module-bound
// Functions (so their `this` resolves); other statements bind into the
// module's member list the same way top-level declarations bind into the
// global layer, but scoped to this module instead.
func (e *Evaluator) materializeModule(name string, members []ast.Statement) (*value.Module, error) {
	mod := value.NewModule(name)
	for _, stmt := range members {
		if err := e.addModuleMember(mod, stmt); err != nil {
			return nil, err
		}
	}
	return mod, nil
}
