package evaluator

import (
	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/value"
)

// EvalExpr dispatches a single expression to a value, per the closed
// expression set.
func (e *Evaluator) EvalExpr(expr ast.Expression) (value.Value, error) {
	switch n := expr.(type) {
	case *ast.Identifier:
		return e.evalIdentifier(n)
	case *ast.NumberLiteral:
		return value.Num{Val: n.Value}, nil
	case *ast.StringLiteral:
		return value.String{Val: n.Value}, nil
	case *ast.ExpandableStringLiteral:
		if e.SpecialChar {
			return value.String{Val: n.Value}, nil
		}
		return value.String{Val: e.expandString(n.Value, e.Env)}, nil
	case *ast.BoolLiteral:
		return value.Bool{Val: n.Value}, nil
	case *ast.NullLiteral:
		return value.Null{}, nil
	case *ast.NothingLiteral:
		return value.Nothing{}, nil
	case *ast.EmptyLiteral:
		return value.Empty{}, nil
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(n)
	case *ast.UObjectLiteral:
		return value.NewUObject(n.JSON), nil
	case *ast.PrefixExpr:
		return e.evalPrefix(n)
	case *ast.InfixExpr:
		return e.evalInfix(n)
	case *ast.IndexExpr:
		return e.evalIndex(n)
	case *ast.DotExpr:
		return e.evalDot(n)
	case *ast.DotCallExpr:
		return e.evalDotCall(n)
	case *ast.CallExpr:
		return e.evalCall(n)
	case *ast.AnonymousFunctionExpr:
		return e.evalAnonymousFunction(n)
	case *ast.AssignExpr:
		return e.evalAssign(n)
	case *ast.CompoundAssignExpr:
		return e.evalCompoundAssign(n)
	case *ast.TernaryExpr:
		return e.evalTernary(n)
	case *ast.RefArgExpr:
		return e.EvalExpr(n.Target)
	case *ast.EmptyParamExpr:
		return value.EmptyParam{}, nil
	case *ast.CallbackExpr:
		return e.evalCallback(n)
	case *ast.ComErrExpr:
		return value.Bool{Val: e.comErrIgnored}, nil
	default:
		return nil, uerrors.New(uerrors.EvaluatorError, "unknown expression type: %T", expr)
	}
}

// evalIdentifier resolves a name by variable precedence and
// transparently dereferences a Reference binding: multi-step references
// dereference in a loop until a concrete value is reached. A method body
// reads through its own module's member table
// first (bare access to the module's own Local/Public/Const members,
// private or not, mirrors the write rule in assignIdentifier) before
// falling back to the call's own scope chain.
func (e *Evaluator) evalIdentifier(n *ast.Identifier) (value.Value, error) {
	if e.thisModule != nil {
		if mv, _, ok := e.thisModule.GetAny(n.Name); ok {
			return e.derefValue(mv)
		}
	}
	v, ok := e.Env.GetVariable(n.Name)
	if !ok {
		if fn, ok := e.Env.GetFunction(n.Name); ok {
			return fn, nil
		}
		return nil, uerrors.NewUndefinedVariable(n.Name)
	}
	return e.derefValue(v)
}

// derefValue follows a chain of Reference values to its concrete target.
func (e *Evaluator) derefValue(v value.Value) (value.Value, error) {
	for {
		ref, ok := v.(*value.Reference)
		if !ok {
			return v, nil
		}
		sub, err := e.evaluatorForLayer(ref.Layer)
		if err != nil {
			return nil, err
		}
		v, err = sub.EvalExpr(ref.Expr)
		if err != nil {
			return nil, err
		}
	}
}

func (e *Evaluator) evalArrayLiteral(n *ast.ArrayLiteral) (value.Value, error) {
	elems := make([]value.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := e.EvalExpr(el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return value.NewArray(elems), nil
}

func (e *Evaluator) evalPrefix(n *ast.PrefixExpr) (value.Value, error) {
	v, err := e.EvalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "-":
		f, err := value.ToNumber(v)
		if err != nil {
			return nil, err
		}
		return value.Num{Val: -f}, nil
	case "+":
		f, err := value.ToNumber(v)
		if err != nil {
			return nil, err
		}
		return value.Num{Val: f}, nil
	case "NOT", "not":
		b, err := value.Truthy(v, e.TruthMode)
		if err != nil {
			return nil, err
		}
		return value.Bool{Val: !b}, nil
	default:
		return nil, uerrors.New(uerrors.PrefixError, "unknown prefix operator %q", n.Operator)
	}
}

func (e *Evaluator) evalTernary(n *ast.TernaryExpr) (value.Value, error) {
	c, err := e.EvalExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	b, err := value.Truthy(c, e.TruthMode)
	if err != nil {
		return nil, err
	}
	if b {
		return e.EvalExpr(n.Then)
	}
	return e.EvalExpr(n.Else)
}

func (e *Evaluator) evalCallback(n *ast.CallbackExpr) (value.Value, error) {
	if fn, ok := e.Env.GetFunction(n.Name); ok {
		return fn, nil
	}
	return nil, uerrors.NewUndefinedFunction(n.Name)
}

func (e *Evaluator) evalAnonymousFunction(n *ast.AnonymousFunctionExpr) (value.Value, error) {
	fn := &value.Function{
		Params:         n.Params,
		Body:           n.Body,
		CapturedLocals: e.Env.CaptureLocals(),
	}
	if n.IsAsync {
		return &value.AsyncFunction{Function: fn}, nil
	}
	return fn, nil
}

func (e *Evaluator) evalCall(n *ast.CallExpr) (value.Value, error) {
	fnVal, err := e.resolveCallee(n.Function)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	return e.callValue(fnVal, args, n.Await)
}

// resolveCallee resolves the call's function expression with function
// precedence when it is a bare identifier (`X()` prefers the function
// path over a variable named X), falling back to ordinary evaluation for
// higher-order call sites (a variable or sub-expression holding a
// callable value).
func (e *Evaluator) resolveCallee(expr ast.Expression) (value.Value, error) {
	if id, ok := expr.(*ast.Identifier); ok {
		if fn, ok := e.Env.GetFunction(id.Name); ok {
			return fn, nil
		}
		if cls, ok := e.Env.GetClass(id.Name); ok {
			return cls, nil
		}
		if def, ok := e.Env.GetStructDef(id.Name); ok {
			return def, nil
		}
	}
	return e.EvalExpr(expr)
}

func (e *Evaluator) evalDotCall(n *ast.DotCallExpr) (value.Value, error) {
	recv, err := e.dotReceiver(n.Receiver)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	return e.callMember(recv, n.Method, args, n.Await)
}

// callMember implements method dispatch through `receiver.Method(args)`:
// Module/Instance members resolve as Function calls bound to the
// receiver; anything else is routed through the MemberCaller contract for
// host (COM/browser) objects.
func (e *Evaluator) callMember(recv value.Value, member string, args []callArg, isAwait bool) (value.Value, error) {
	switch r := recv.(type) {
	case *value.Instance:
		fn, ok := r.Mod.Get(member, scope.Function)
		if !ok {
			return nil, uerrors.NewMemberNotFound(r.Mod.Name, member)
		}
		return e.callFunctionAsThis(fn.(*value.Function), r, args, isAwait)
	case *value.Module:
		fn, ok := r.Get(member, scope.Function)
		if !ok {
			return nil, uerrors.NewMemberNotFound(r.Name, member)
		}
		return e.callFunctionAsThis(fn.(*value.Function), r, args, isAwait)
	default:
		return e.callMemberCaller(&value.MemberCaller{Receiver: recv, Member: member}, args)
	}
}
