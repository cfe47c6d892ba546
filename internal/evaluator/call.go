package evaluator

import (
	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/value"
)

// callArg is one evaluated call-site argument plus, for a place
// expression, enough to write back through it later: the argument
// expression and the caller's scope are recorded so by-ref parameters
// can store their final value back on return.
type callArg struct {
	Val   value.Value
	Expr  ast.Expression // nil when the argument is not a place expression
	Layer value.Scope
}

func isPlaceExpr(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.IndexExpr, *ast.DotExpr:
		return true
	default:
		return false
	}
}

// evalArgs evaluates argExprs left-to-right, before dispatch, unwrapping explicit ref markers and empty-argument
// placeholders.
func (e *Evaluator) evalArgs(argExprs []ast.Expression) ([]callArg, error) {
	args := make([]callArg, len(argExprs))
	for i, ae := range argExprs {
		target := ae
		if r, ok := ae.(*ast.RefArgExpr); ok {
			target = r.Target
		}
		if _, ok := target.(*ast.EmptyParamExpr); ok {
			args[i] = callArg{Val: value.EmptyParam{}}
			continue
		}
		v, err := e.EvalExpr(target)
		if err != nil {
			return nil, err
		}
		a := callArg{Val: v}
		if isPlaceExpr(target) {
			a.Expr = target
			a.Layer = e.Env
		}
		args[i] = a
	}
	return args, nil
}

// callValue is the call dispatcher: it resolves behaviour by the
// concrete kind of fnVal, the value the call's function expression
// resolved to via function-precedence name resolution.
func (e *Evaluator) callValue(fnVal value.Value, args []callArg, isAwait bool) (value.Value, error) {
	switch fn := fnVal.(type) {
	case *value.Function:
		return e.callFunction(fn, args, nil)
	case *value.AsyncFunction:
		task := e.spawnTask(fn.Function, args)
		if isAwait {
			return task.Join()
		}
		return task, nil
	case *value.BuiltinFunction:
		return e.Builtins.Call(e, fn.Name, value.BuiltinArgs{Values: argValues(args)}, isAwait)
	case *value.Class:
		return e.instantiateClass(fn, args)
	case *value.StructDef:
		return e.constructStruct(fn, args)
	case *value.MemberCaller:
		return e.callMemberCaller(fn, args)
	default:
		return nil, uerrors.New(uerrors.FuncCallError, "%s is not callable", fnVal.Kind())
	}
}

func argValues(args []callArg) []value.Value {
	vals := make([]value.Value, len(args))
	for i, a := range args {
		vals[i] = a.Val
	}
	return vals
}

// callFunction binds params in a fresh call scope and executes Body,
// enforcing the parameter-kind rules. this (if non-nil) becomes
// the call frame's receiver for private-member access and `this`/`self`
// lookups; a nil this with fn.Module != nil means the module's own
// function is being invoked without an Instance wrapper (a plain Module,
// not a class instance).
func (e *Evaluator) callFunction(fn *value.Function, args []callArg, this value.Value) (value.Value, error) {
	if e.callDepth+1 > maxCallDepth {
		return nil, uerrors.New(uerrors.EvaluatorError, "call stack exceeded")
	}
	callEnv := e.Env.NewFunctionScope()
	if fn.CapturedLocals != nil {
		for k, v := range fn.CapturedLocals {
			callEnv.Define(k, v, scope.Local)
		}
	}
	sub := e.childWithEnv(callEnv)
	sub.callDepth = e.callDepth + 1
	if fn.Module != nil {
		sub.thisModule = fn.Module
		if this != nil {
			sub.thisValue = this
		} else {
			sub.thisValue = fn.Module
		}
	}
	callEnv.Define("result", value.Empty{}, scope.Local)
	if err := sub.bindParams(fn.Params, args); err != nil {
		return nil, err
	}
	// The block's own value is discarded: a function's return value is its
	// `result` binding at return time, a procedure's is always Empty
	//. Exit inside the body leaves the function early; Break/
	// Continue never escape a call frame.
	if _, err := sub.evalBlock(fn.Body); err != nil {
		return nil, err
	}
	if err := sub.writeBackRefs(fn.Params, args); err != nil {
		return nil, err
	}
	if fn.IsProc {
		return value.Empty{}, nil
	}
	ret, ok := callEnv.Get("result")
	if !ok {
		return value.Empty{}, nil
	}
	return ret, nil
}

// callFunctionAsThis is callFunction with an explicit receiver, used for
// constructors/destructors and module method dispatch.
func (e *Evaluator) callFunctionAsThis(fn *value.Function, this value.Value, args []callArg, isAwait bool) (value.Value, error) {
	return e.callFunction(fn, args, this)
}

// bindParams implements the 5 parameter kinds.
func (e *Evaluator) bindParams(params []ast.Param, args []callArg) error {
	variadicStart := -1
	for i, p := range params {
		if p.Kind == ast.ParamVariadic {
			variadicStart = i
			break
		}
		var a callArg
		if i < len(args) {
			a = args[i]
		} else {
			a = callArg{Val: value.EmptyParam{}}
		}
		v := a.Val
		switch p.Kind {
		case ast.ParamWithDefault:
			if _, empty := v.(value.EmptyParam); empty {
				if p.Default == nil {
					v = value.Empty{}
				} else {
					dv, err := e.EvalExpr(p.Default)
					if err != nil {
						return err
					}
					v = dv
				}
			}
		case ast.ParamReference, ast.ParamArray:
			if _, empty := v.(value.EmptyParam); empty {
				return uerrors.New(uerrors.FuncCallError, "%s expects an argument", p.Name)
			}
			if p.Kind == ast.ParamReference && a.Expr == nil {
				return uerrors.New(uerrors.FuncCallError, uerrors.MsgNotAPlaceExpr)
			}
		default:
			if _, empty := v.(value.EmptyParam); empty {
				v = value.Empty{}
			}
		}
		if p.TypeName != "" {
			if err := checkParamType(p, v); err != nil {
				return err
			}
		}
		retainValue(v)
		e.Env.Define(p.Name, v, scope.Local)
	}
	if variadicStart >= 0 {
		rest := []value.Value{}
		for i := variadicStart; i < len(args); i++ {
			rest = append(rest, args[i].Val)
		}
		e.Env.Define(params[variadicStart].Name, value.NewArray(rest), scope.Local)
	}
	return nil
}

// writeBackRefs re-assigns each Reference/Array-by-ref parameter's final
// bound value to the caller's place expression: on normal return, the
// captured expression is re-evaluated as an assignment target in the
// caller's scope.
func (e *Evaluator) writeBackRefs(params []ast.Param, args []callArg) error {
	for i, p := range params {
		if i >= len(args) {
			break
		}
		if p.Kind != ast.ParamReference && !(p.Kind == ast.ParamArray && p.ArrayByRef) {
			continue
		}
		a := args[i]
		if a.Expr == nil {
			continue
		}
		final, ok := e.Env.GetVariable(p.Name)
		if !ok {
			continue
		}
		if err := e.assignInLayer(a.Layer, a.Expr, final); err != nil {
			return err
		}
	}
	return nil
}

func checkParamType(p ast.Param, v value.Value) error {
	ok := true
	switch p.TypeName {
	case "number":
		_, ok = v.(value.Num)
	case "string":
		switch v.(type) {
		case value.String, value.ExpandableString:
		default:
			ok = false
		}
	case "bool":
		_, ok = v.(value.Bool)
	case "array":
		_, ok = v.(*value.Array)
	case "hash":
		_, ok = v.(*value.HashTbl)
	case "func":
		switch v.(type) {
		case *value.Function, *value.AsyncFunction, *value.BuiltinFunction:
		default:
			ok = false
		}
	case "uobject":
		_, ok = v.(*value.UObject)
	default:
		inst, isInst := v.(*value.Instance)
		ok = isInst && inst.Mod != nil && inst.Mod.Name == p.TypeName
	}
	if !ok {
		return uerrors.New(uerrors.FuncDefError, "parameter %s expects type %s, got %s", p.Name, p.TypeName, v.Kind())
	}
	return nil
}
