package evaluator

import (
	"strings"

	"github.com/uwscr/uwscr-core/internal/com"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/value"
)

// resolveMemberCaller reads the property a MemberCaller names from its
// host-object backend. Only a COM object backend is implemented; any other
// receiver means the generic host-object fallback was reached for a value
// that genuinely has no such member.
func (e *Evaluator) resolveMemberCaller(mc *value.MemberCaller) (value.Value, error) {
	if obj, ok := mc.Receiver.(*com.ObjectValue); ok {
		return obj.Obj.GetProperty(mc.Member, nil)
	}
	return nil, uerrors.NewMemberNotFound(mc.Receiver.Kind().String(), mc.Member)
}

// callMemberCaller implements `receiver.Method(args)` for a host object.
// COM's Invoke reports by-ref results positionally; each is written
// back to the caller's place expression the same way a Function parameter
// by-ref result is (call.go's writeBackRefs).
func (e *Evaluator) callMemberCaller(mc *value.MemberCaller, args []callArg) (value.Value, error) {
	obj, ok := mc.Receiver.(*com.ObjectValue)
	if !ok {
		return nil, uerrors.New(uerrors.FuncCallError, uerrors.MsgNotCallable, mc.Receiver.Kind())
	}
	var byRef []int
	for i, a := range args {
		if a.Expr != nil {
			byRef = append(byRef, i)
		}
	}
	result, byRefResults, err := obj.Obj.Invoke(mc.Member, argValues(args), byRef)
	if err != nil {
		return nil, err
	}
	for j, i := range byRef {
		if j >= len(byRefResults) {
			break
		}
		a := args[i]
		if a.Expr == nil || a.Layer == nil {
			continue
		}
		if err := e.assignInLayer(a.Layer, a.Expr, byRefResults[j]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// getMemberCallerIndex implements `receiver.Member[idx]` reads against a
// host object's indexed property (e.g. COM's `obj.Item(1)`).
func (e *Evaluator) getMemberCallerIndex(mc *value.MemberCaller, idx value.Value) (value.Value, error) {
	obj, ok := mc.Receiver.(*com.ObjectValue)
	if !ok {
		return nil, uerrors.New(uerrors.DotOperatorError, "%s has no indexed property %s", mc.Receiver.Kind(), mc.Member)
	}
	return obj.Obj.GetProperty(mc.Member, []value.Value{idx})
}

// setMemberCallerIndex implements `receiver.Member[idx] = v` writes.
func (e *Evaluator) setMemberCallerIndex(mc *value.MemberCaller, idx, v value.Value) error {
	obj, ok := mc.Receiver.(*com.ObjectValue)
	if !ok {
		return uerrors.New(uerrors.DotOperatorError, "%s has no indexed property %s", mc.Receiver.Kind(), mc.Member)
	}
	return obj.Obj.SetProperty(mc.Member, []value.Value{idx}, v)
}

// setMemberCallerProperty implements `receiver.Member = v` writes.
func (e *Evaluator) setMemberCallerProperty(mc *value.MemberCaller, v value.Value) error {
	obj, ok := mc.Receiver.(*com.ObjectValue)
	if !ok {
		return uerrors.New(uerrors.DotOperatorError, "%s has no assignable property %s", mc.Receiver.Kind(), mc.Member)
	}
	return obj.Obj.SetProperty(mc.Member, nil, v)
}

// constructStruct implements StructDef call-dispatch: no arguments
// produces a zero-initialised, owned struct; one numeric argument produces
// an unowned view onto externally-owned memory at that address; any other
// arity is a FuncCallError.
func (e *Evaluator) constructStruct(def *value.StructDef, args []callArg) (value.Value, error) {
	fields := map[string]value.Value{}
	for _, f := range def.Fields {
		fields[strings.ToUpper(f.Name)] = zeroValueForType(f.Type)
	}
	switch len(args) {
	case 0:
		return &value.Struct{Def: def, Owned: true, Fields: fields}, nil
	case 1:
		n, err := value.ToNumber(args[0].Val)
		if err != nil {
			return nil, err
		}
		return &value.Struct{Def: def, Ptr: uintptr(int64(n)), Owned: false, Fields: fields}, nil
	default:
		return nil, uerrors.New(uerrors.FuncCallError, "%s expects 0 or 1 arguments, got %d", def.Name, len(args))
	}
}

// zeroValueForType returns the default value for one of the native struct
// field types; unrecognised/struct-typed fields default to Empty.
func zeroValueForType(t string) value.Value {
	switch strings.ToLower(t) {
	case "int", "long", "float", "double", "number", "word", "byte":
		return value.Num{Val: 0}
	case "bool", "boolean":
		return value.Bool{Val: false}
	case "string", "pwstr", "pstr":
		return value.String{Val: ""}
	default:
		return value.Empty{}
	}
}
