package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumber coerces v to a float64: Num passes through, Bool is
// 0/1, Empty is 0, String is parsed, anything else is a typed error.
func ToNumber(v Value) (float64, error) {
	switch t := v.(type) {
	case Num:
		return t.Val, nil
	case Bool:
		if t.Val {
			return 1, nil
		}
		return 0, nil
	case Empty:
		return 0, nil
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(t.Val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to number", t.Val)
		}
		return f, nil
	case ExpandableString:
		f, err := strconv.ParseFloat(strings.TrimSpace(t.Val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to number", t.Val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %s to number", v.Kind())
	}
}

// ToInt coerces v to an int64, truncating toward zero (integer contexts
// floor toward zero).
func ToInt(v Value) (int64, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// ToUint32 coerces v to a u32 bit pattern for the bitwise operators.
func ToUint32(v Value) (uint32, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return uint32(int64(f)), nil
}

func isStringish(v Value) bool {
	switch v.(type) {
	case String, ExpandableString:
		return true
	default:
		return false
	}
}

// Add implements `+`: if either side is a string, the other side is
// stringified and concatenated (left-biased: `1 + "2"` and `"1" + 2` are
// both string concatenation; the operand order only matters for which
// side's String() method runs first, not for whether the result is a
// string). Otherwise numeric addition,
// treating Empty as 0.
func Add(l, r Value) (Value, error) {
	if isStringish(l) || isStringish(r) {
		return String{Val: l.String() + r.String()}, nil
	}
	lf, err := ToNumber(l)
	if err != nil {
		return nil, err
	}
	rf, err := ToNumber(r)
	if err != nil {
		return nil, err
	}
	return Num{Val: lf + rf}, nil
}

// Sub, Mul, Div, Mod implement `-`, `*`, `/`, `%`: strictly numeric, typed
// errors on non-convertible operands. Div and Mod error on a zero divisor.
func Sub(l, r Value) (Value, error) { return numOp(l, r, func(a, b float64) (float64, error) { return a - b, nil }) }
func Mul(l, r Value) (Value, error) { return numOp(l, r, func(a, b float64) (float64, error) { return a * b, nil }) }

func Div(l, r Value) (Value, error) {
	return numOp(l, r, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	})
}

func Mod(l, r Value) (Value, error) {
	return numOp(l, r, func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return math.Mod(a, b), nil
	})
}

func numOp(l, r Value, f func(a, b float64) (float64, error)) (Value, error) {
	lf, err := ToNumber(l)
	if err != nil {
		return nil, err
	}
	rf, err := ToNumber(r)
	if err != nil {
		return nil, err
	}
	res, err := f(lf, rf)
	if err != nil {
		return nil, err
	}
	return Num{Val: res}, nil
}

// BitAnd, BitOr, BitXor implement AndB/OrB/XorB: numeric, u32 bit pattern.
func BitAnd(l, r Value) (Value, error) { return bitOp(l, r, func(a, b uint32) uint32 { return a & b }) }
func BitOr(l, r Value) (Value, error)  { return bitOp(l, r, func(a, b uint32) uint32 { return a | b }) }
func BitXor(l, r Value) (Value, error) { return bitOp(l, r, func(a, b uint32) uint32 { return a ^ b }) }

func bitOp(l, r Value, f func(a, b uint32) uint32) (Value, error) {
	lu, err := ToUint32(l)
	if err != nil {
		return nil, err
	}
	ru, err := ToUint32(r)
	if err != nil {
		return nil, err
	}
	return Num{Val: float64(f(lu, ru))}, nil
}

// LogicalAnd, LogicalOr, LogicalXor implement AndL/OrL/XorL: strictly
// logical, never bitwise, regardless of operand type.
func LogicalAnd(l, r Value, mode TruthMode) (Value, error) { return logicOp(l, r, mode, func(a, b bool) bool { return a && b }) }
func LogicalOr(l, r Value, mode TruthMode) (Value, error)  { return logicOp(l, r, mode, func(a, b bool) bool { return a || b }) }
func LogicalXor(l, r Value, mode TruthMode) (Value, error) { return logicOp(l, r, mode, func(a, b bool) bool { return a != b }) }

func logicOp(l, r Value, mode TruthMode, f func(a, b bool) bool) (Value, error) {
	lb, err := Truthy(l, mode)
	if err != nil {
		return nil, err
	}
	rb, err := Truthy(r, mode)
	if err != nil {
		return nil, err
	}
	return Bool{Val: f(lb, rb)}, nil
}

// And, Or, Xor implement the bare `And`/`Or`/`Xor` operators: bitwise when
// both sides are numeric, logical otherwise.
func And(l, r Value, mode TruthMode) (Value, error) { return bareOp(l, r, mode, BitAnd, LogicalAnd) }
func Or(l, r Value, mode TruthMode) (Value, error)  { return bareOp(l, r, mode, BitOr, LogicalOr) }
func Xor(l, r Value, mode TruthMode) (Value, error) { return bareOp(l, r, mode, BitXor, LogicalXor) }

func bareOp(l, r Value, mode TruthMode,
	bitwise func(l, r Value) (Value, error),
	logical func(l, r Value, mode TruthMode) (Value, error),
) (Value, error) {
	_, lNum := l.(Num)
	_, rNum := r.(Num)
	if lNum && rNum {
		return bitwise(l, r)
	}
	return logical(l, r, mode)
}

// Equal implements `=`/`==`: case-insensitive string equality
// unless caseSensitive is set; numeric equality for Num/Bool; reference
// identity for shared container kinds; Module/Instance equality is by
// module name.
func Equal(l, r Value, caseSensitive bool) bool {
	switch lt := l.(type) {
	case Empty:
		_, ok := r.(Empty)
		return ok
	case Null:
		_, ok := r.(Null)
		return ok
	case Nothing:
		_, ok := r.(Nothing)
		return ok
	case Bool:
		rb, err := ToNumber(r)
		if err == nil {
			lb := float64(0)
			if lt.Val {
				lb = 1
			}
			return lb == rb
		}
		return false
	case Num:
		rf, err := ToNumber(r)
		return err == nil && lt.Val == rf
	case String:
		return stringEqual(lt.Val, stringOf(r), caseSensitive)
	case ExpandableString:
		return stringEqual(lt.Val, stringOf(r), caseSensitive)
	case *Array:
		ra, ok := r.(*Array)
		if !ok || ra.Len() != lt.Len() {
			return false
		}
		for i := range lt.Elements {
			if !Equal(lt.Elements[i], ra.Elements[i], caseSensitive) {
				return false
			}
		}
		return true
	case *Module:
		rm, ok := r.(*Module)
		return ok && lt.Equal(rm)
	case *Instance:
		ri, ok := r.(*Instance)
		return ok && lt.Mod.Equal(ri.Mod)
	case *Enum:
		re, ok := r.(*Enum)
		return ok && lt == re
	case *HashTbl, *UObject, *Function, *AsyncFunction, *BuiltinFunction, *Task, *Struct, *StructDef, *Class:
		return l == r
	default:
		return false
	}
}

func stringOf(v Value) string {
	switch t := v.(type) {
	case String:
		return t.Val
	case ExpandableString:
		return t.Val
	default:
		return v.String()
	}
}

func stringEqual(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}
