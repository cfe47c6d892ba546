package evaluator

import (
	"strconv"
	"strings"

	"github.com/uwscr/uwscr-core/ast"
	"github.com/uwscr/uwscr-core/internal/env"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/settings"
	"github.com/uwscr/uwscr-core/internal/value"
)

// indexToInt truncates an index value to an int; array/bytearray
// indexing is always integral.
func indexToInt(v value.Value) (int, error) {
	f, err := value.ToNumber(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// uobjectKeyOf renders an index value as a gjson/sjson path component: a
// Num becomes an array index, anything else becomes a map key.
func uobjectKeyOf(v value.Value) string {
	if n, ok := v.(value.Num); ok {
		return strconv.Itoa(int(n.Val))
	}
	return v.String()
}

// evalIndex implements `Left[Index]` / `Left[Index, HashOption]` reads:
// Array/ByteArray/String are bounds-checked, HashTbl honours
// the HASH_EXISTS/HASH_REMOVE/HASH_KEY/HASH_VAL pseudo-indices, UObject
// reads a JSON path, and anything else routes to the MemberCaller indexed-
// property contract.
func (e *Evaluator) evalIndex(n *ast.IndexExpr) (value.Value, error) {
	left, err := e.EvalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	idxV, err := e.EvalExpr(n.Index)
	if err != nil {
		return nil, err
	}

	switch c := left.(type) {
	case *value.Array:
		i, err := indexToInt(idxV)
		if err != nil {
			return nil, err
		}
		v, ok := c.Get(i)
		if !ok {
			return nil, uerrors.NewIndexOutOfBounds(i)
		}
		return v, nil
	case *value.ByteArray:
		i, err := indexToInt(idxV)
		if err != nil {
			return nil, err
		}
		v, ok := c.Get(i)
		if !ok {
			return nil, uerrors.NewIndexOutOfBounds(i)
		}
		return v, nil
	case value.String:
		return stringIndex(c.Val, idxV)
	case value.ExpandableString:
		return stringIndex(c.Val, idxV)
	case *value.HashTbl:
		if n.HashOption != nil {
			optV, err := e.EvalExpr(n.HashOption)
			if err != nil {
				return nil, err
			}
			opt, err := indexToInt(optV)
			if err != nil {
				return nil, err
			}
			switch opt {
			case value.HashExists:
				return value.Bool{Val: c.Has(idxV)}, nil
			case value.HashRemove:
				v, _ := c.Remove(idxV)
				return v, nil
			case value.HashKey:
				i, err := indexToInt(idxV)
				if err != nil {
					return nil, err
				}
				v, ok := c.NthKey(i)
				if !ok {
					return value.Empty{}, nil
				}
				return v, nil
			case value.HashVal:
				i, err := indexToInt(idxV)
				if err != nil {
					return nil, err
				}
				v, ok := c.NthVal(i)
				if !ok {
					return value.Empty{}, nil
				}
				return v, nil
			}
		}
		v, ok := c.Get(idxV)
		if !ok {
			return value.Empty{}, nil
		}
		return v, nil
	case *value.UObject:
		return c.Get(uobjectKeyOf(idxV)), nil
	case *value.MemberCaller:
		return e.getMemberCallerIndex(c, idxV)
	default:
		return nil, uerrors.New(uerrors.ArrayError, "%s is not indexable", left.Kind())
	}
}

func stringIndex(s string, idxV value.Value) (value.Value, error) {
	i, err := indexToInt(idxV)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if i < 0 || i >= len(runes) {
		return nil, uerrors.NewIndexOutOfBounds(i)
	}
	return value.String{Val: string(runes[i])}, nil
}

// dotReceiver resolves a DotExpr/DotCallExpr's receiver expression: a nil
// Receiver means "the innermost enclosing WITH subject"; a bare
// identifier named case-insensitively "global" forces a global-only
// lookup of its Member, handled by the caller via the returned
// value.Global{} sentinel.
func (e *Evaluator) dotReceiver(expr ast.Expression) (value.Value, error) {
	if expr == nil {
		if len(e.withStack) == 0 {
			return nil, uerrors.New(uerrors.EvaluatorError, "no WITH subject in scope")
		}
		return e.withStack[len(e.withStack)-1], nil
	}
	if id, ok := expr.(*ast.Identifier); ok && strings.EqualFold(id.Name, "global") {
		return value.Global{}, nil
	}
	return e.EvalExpr(expr)
}

// evalDot implements `Receiver.Member` reads.
func (e *Evaluator) evalDot(n *ast.DotExpr) (value.Value, error) {
	recv, err := e.dotReceiver(n.Receiver)
	if err != nil {
		return nil, err
	}
	return e.readMember(recv, n.Member)
}

// readMember implements the member-read rules: Instance and Module
// members resolve by tag with private-access enforcement, Enum
// members are numeric constants, UObject/Struct read their own storage,
// Global forces a global-only variable lookup, MemberCaller resolves
// through its host-object backend, and anything else becomes a generic
// MemberCaller (the host-object fallback `expressions.go`'s callMember
// already relies on for calls).
func (e *Evaluator) readMember(recv value.Value, member string) (value.Value, error) {
	switch r := recv.(type) {
	case *value.Instance:
		v, tag, ok := r.Mod.GetAny(member)
		if !ok {
			return nil, uerrors.NewMemberNotFound(r.Mod.Name, member)
		}
		if !e.memberAccessAllowed(r.Mod, tag) {
			return nil, uerrors.NewIsPrivateMember(r.Mod.Name, member)
		}
		return v, nil
	case *value.Module:
		v, tag, ok := r.GetAny(member)
		if !ok {
			return nil, uerrors.NewMemberNotFound(r.Name, member)
		}
		if !e.memberAccessAllowed(r, tag) {
			return nil, uerrors.NewIsPrivateMember(r.Name, member)
		}
		return v, nil
	case *value.Enum:
		n, ok := r.Get(member)
		if !ok {
			return nil, uerrors.NewMemberNotFound(r.Name, member)
		}
		return value.Num{Val: n}, nil
	case *value.UObject:
		return r.Get(member), nil
	case *value.Struct:
		v, ok := r.Fields[strings.ToUpper(member)]
		if !ok {
			return nil, uerrors.NewMemberNotFound(r.Def.Name, member)
		}
		return v, nil
	case value.Global:
		v, ok := e.Env.GetVariableGlobalOnly(member)
		if !ok {
			return nil, uerrors.NewUndefinedVariable(member)
		}
		return v, nil
	case *value.MemberCaller:
		resolved, err := e.resolveMemberCaller(r)
		if err != nil {
			return nil, err
		}
		return e.readMember(resolved, member)
	default:
		return &value.MemberCaller{Receiver: recv, Member: member}, nil
	}
}

// assign implements the place-expression dispatch every write goes
// through: plain identifier, indexed container, or dotted member.
func (e *Evaluator) assign(target ast.Expression, v value.Value) (value.Value, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := e.assignIdentifier(t.Name, v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.IndexExpr:
		if err := e.assignIndex(t, v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.DotExpr:
		if err := e.assignDot(t, v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, uerrors.New(uerrors.EvaluatorError, uerrors.MsgNotAPlaceExpr)
	}
}

// assignIdentifier implements the plain-name write rule: a method body
// writes through its own module's member table first, then
// Const/BuiltinConst are rejected outright, then an existing Local/Public
// binding anywhere in the chain is overwritten, and only if none is found
// is a fresh Local implicitly declared (unless OPTION EXPLICIT forbids it).
func (e *Evaluator) assignIdentifier(name string, v value.Value) error {
	if e.thisModule != nil {
		if old, tag, ok := e.thisModule.GetAny(name); ok {
			if tag == scope.Const {
				return uerrors.New(uerrors.EvaluatorError, uerrors.MsgAssignToConst, name)
			}
			e.releaseOnNothingStore(old, v)
			if !env.CheckSpecialAssignment(old, v) {
				return nil
			}
			if !e.thisModule.Set(name, tag, v) {
				return uerrors.NewMemberNotFound(e.thisModule.Name, name)
			}
			retainValue(v)
			return nil
		}
	}
	if e.Env.IsConst(name) || e.Env.IsBuiltinConst(name) {
		return uerrors.New(uerrors.EvaluatorError, uerrors.MsgAssignToConst, name)
	}
	if old, ok := e.Env.GetVariable(name); ok {
		e.releaseOnNothingStore(old, v)
		if !env.CheckSpecialAssignment(old, v) {
			return nil
		}
	}
	if e.Env.SetVariable(name, v) {
		retainValue(v)
		return nil
	}
	if settings.Current().ExplicitDeclaration {
		return uerrors.NewUndefinedVariable(name)
	}
	retainValue(v)
	e.Env.Define(name, v, scope.Local)
	return nil
}

// releaseOnNothingStore drops the binding's hold when NOTHING — the
// released-instance sentinel — is stored over a value that is an Instance,
// running the destructor on the last drop.
func (e *Evaluator) releaseOnNothingStore(old, v value.Value) {
	inst, isInst := old.(*value.Instance)
	if !isInst {
		return
	}
	if _, isNothing := v.(value.Nothing); isNothing {
		e.releaseInstance(inst)
	}
}

// assignIndex implements `Left[Index] = v`. Array and HashTbl are
// shared-pointer containers, so nested index chains like `a[0][0] = v`
// mutate the existing backing store in place rather than needing to
// rebuild and re-assign a[0] — observably equivalent for every assignment
// this language can write.
func (e *Evaluator) assignIndex(t *ast.IndexExpr, v value.Value) error {
	left, err := e.EvalExpr(t.Left)
	if err != nil {
		return err
	}
	idxV, err := e.EvalExpr(t.Index)
	if err != nil {
		return err
	}
	switch c := left.(type) {
	case *value.Array:
		i, err := indexToInt(idxV)
		if err != nil {
			return err
		}
		if !c.Set(i, v) {
			return uerrors.NewIndexOutOfBounds(i)
		}
		return nil
	case *value.ByteArray:
		i, err := indexToInt(idxV)
		if err != nil {
			return err
		}
		f, err := value.ToNumber(v)
		if err != nil {
			return err
		}
		if !c.Set(i, f) {
			return uerrors.NewIndexOutOfBounds(i)
		}
		return nil
	case *value.HashTbl:
		c.Set(idxV, v)
		return nil
	case *value.UObject:
		return c.Set(uobjectKeyOf(idxV), v)
	case *value.MemberCaller:
		return e.setMemberCallerIndex(c, idxV, v)
	default:
		return uerrors.New(uerrors.ArrayError, "%s is not indexable", left.Kind())
	}
}

// assignDot implements `Receiver.Member = v`.
func (e *Evaluator) assignDot(t *ast.DotExpr, v value.Value) error {
	recv, err := e.dotReceiver(t.Receiver)
	if err != nil {
		return err
	}
	switch r := recv.(type) {
	case *value.Instance:
		return e.writeModuleMember(r.Mod, t.Member, v)
	case *value.Module:
		return e.writeModuleMember(r, t.Member, v)
	case *value.UObject:
		return r.Set(t.Member, v)
	case *value.Struct:
		key := strings.ToUpper(t.Member)
		if _, ok := r.Fields[key]; !ok {
			return uerrors.NewMemberNotFound(r.Def.Name, t.Member)
		}
		r.Fields[key] = v
		return nil
	case *value.MemberCaller:
		return e.setMemberCallerProperty(r, v)
	default:
		return uerrors.New(uerrors.EvaluatorError, "%s has no assignable member %s", recv.Kind(), t.Member)
	}
}

// writeModuleMember implements a dotted write through a Module/Instance's
// member table: Const is rejected, private members are rejected outside
// the defining `this`, everything else overwrites in place.
func (e *Evaluator) writeModuleMember(mod *value.Module, member string, v value.Value) error {
	old, tag, ok := mod.GetAny(member)
	if !ok {
		return uerrors.NewMemberNotFound(mod.Name, member)
	}
	if tag == scope.Const {
		return uerrors.New(uerrors.EvaluatorError, uerrors.MsgAssignToConst, member)
	}
	if !e.memberAccessAllowed(mod, tag) {
		return uerrors.NewIsPrivateMember(mod.Name, member)
	}
	e.releaseOnNothingStore(old, v)
	if !env.CheckSpecialAssignment(old, v) {
		return nil
	}
	retainValue(v)
	mod.Set(member, tag, v)
	return nil
}

// evalAssign implements `Target = Value`.
func (e *Evaluator) evalAssign(n *ast.AssignExpr) (value.Value, error) {
	v, err := e.EvalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	return e.assign(n.Target, v)
}

// evalCompoundAssign implements `Target OP= Value`. A UObject target
// under `+=` appends into its own JSON array in place rather than
// re-assigning, matching UObject.Append's shared-backing-store semantics.
func (e *Evaluator) evalCompoundAssign(n *ast.CompoundAssignExpr) (value.Value, error) {
	cur, err := e.EvalExpr(n.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := e.EvalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	if uo, ok := cur.(*value.UObject); ok && n.Operator == "+" {
		if err := uo.Append(rhs); err != nil {
			return nil, err
		}
		return uo, nil
	}
	var combined value.Value
	switch n.Operator {
	case "+":
		combined, err = value.Add(cur, rhs)
	case "-":
		combined, err = value.Sub(cur, rhs)
	case "*":
		combined, err = value.Mul(cur, rhs)
	case "/":
		combined, err = value.Div(cur, rhs)
	default:
		return nil, uerrors.New(uerrors.OperatorError, "unknown compound operator %q=", n.Operator)
	}
	if err != nil {
		return nil, err
	}
	return e.assign(n.Target, combined)
}

// evaluatorForLayer recovers an *Evaluator rooted at a captured Reference's
// scope layer, so derefValue/assignInLayer can re-run the place expression
// against the scope it was captured in rather than the caller's current
// scope.
func (e *Evaluator) evaluatorForLayer(layer value.Scope) (*Evaluator, error) {
	envLayer, ok := layer.(*env.Environment)
	if !ok {
		return nil, uerrors.New(uerrors.EvaluatorError, "reference layer is not an environment")
	}
	return e.childWithEnv(envLayer), nil
}

// assignInLayer re-runs the assignment protocol for expr against layer
// instead of e's own current scope — the by-ref write-back path
// (call.go's writeBackRefs).
func (e *Evaluator) assignInLayer(layer value.Scope, expr ast.Expression, v value.Value) error {
	sub, err := e.evaluatorForLayer(layer)
	if err != nil {
		return err
	}
	_, err = sub.assign(expr, v)
	return err
}
