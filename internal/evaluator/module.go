package evaluator

import (
	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/value"
)

// addModuleMember binds one class/module body statement into mod by its
// member kind. Function members are bound to mod so calls through
// them carry the right `this` (internal/value/function.go's Function.Module).
func (e *Evaluator) addModuleMember(mod *value.Module, stmt ast.Statement) error {
	switch n := stmt.(type) {
	case *ast.FunctionStatement:
		fn := &value.Function{Name: n.Name, Params: n.Params, Body: n.Body, IsProc: n.IsProc, Module: mod}
		var v value.Value = fn
		if n.IsAsync {
			v = &value.AsyncFunction{Function: fn}
		}
		mod.Add(n.Name, v, scope.Function)
		return nil
	case *ast.DimStatement:
		for i, name := range n.Names {
			var v value.Value = value.Empty{}
			if i < len(n.Values) {
				var err error
				v, err = e.EvalExpr(n.Values[i])
				if err != nil {
					return err
				}
			}
			mod.Add(name, v, scope.Local)
		}
		return nil
	case *ast.PublicStatement:
		v, err := e.EvalExpr(n.Value)
		if err != nil {
			return err
		}
		mod.Add(n.Name, v, scope.Public)
		return nil
	case *ast.ConstStatement:
		v, err := e.EvalExpr(n.Value)
		if err != nil {
			return err
		}
		mod.Add(n.Name, v, scope.Const)
		return nil
	case *ast.TextBlockStatement:
		mod.Add(n.Name, value.String{Val: n.Text}, scope.Const)
		return nil
	default:
		return uerrors.New(uerrors.ClassError, "statement type %T is not allowed in a module/class body", stmt)
	}
}

// instantiateClass materialises cls's member block into a fresh Module,
// wraps it in an Instance, requires and calls a constructor whose name
// matches the class, and returns the Instance.
func (e *Evaluator) instantiateClass(cls *value.Class, args []callArg) (value.Value, error) {
	mod, err := e.materializeModule(cls.Name, cls.Members)
	if err != nil {
		return nil, err
	}
	inst := value.NewInstance(mod)
	ctor, ok := mod.Constructor()
	if !ok {
		return nil, uerrors.New(uerrors.ClassError, "class %s has no constructor", cls.Name)
	}
	if _, err := e.callFunctionAsThis(ctor, inst, args, false); err != nil {
		return nil, err
	}
	return inst, nil
}

// memberAccessAllowed reports whether reading/writing a Local (private)
// member of mod is permitted: only when the evaluator's current `this`
// binding is the very same module. `this` is compared by pointer identity
// passed through the call frame; no lock-state probing is involved.
func (e *Evaluator) memberAccessAllowed(mod *value.Module, tag scope.Tag) bool {
	if tag != scope.Local {
		return true
	}
	return e.thisModule == mod
}

// releaseInstance runs Instance.Release, invoking its destructor (if any)
// through the evaluator's own call machinery.
func (e *Evaluator) releaseInstance(inst *value.Instance) {
	inst.Release(func(i *value.Instance, fn *value.Function) {
		_, _ = e.callFunctionAsThis(fn, i, nil, false)
	})
}

// retainValue takes a reference hold when v is an Instance; a no-op for
// every other value kind. Called wherever a binding stores a value, so an
// Instance aliased into several names survives until the last one is
// released.
func retainValue(v value.Value) {
	if inst, ok := v.(*value.Instance); ok {
		inst.Retain()
	}
}
