package builtins

import (
	"fmt"
	"math"
	"strings"

	"github.com/uwscr/uwscr-core/internal/value"
)

// RegisterCore adds the small reference set of builtins this repository
// ships: enough arity/dispatch variety (0-arg, fixed-arity, variadic,
// type-checking) to exercise internal/evaluator's call dispatcher and the
// BuiltinFunctionError wrapping path, without attempting the wide UWSC
// builtin library of a full distribution.
func RegisterCore(r *Registry) {
	r.Register(&value.BuiltinFunction{Name: "ABS", MaxArity: 1, Fn: biAbs})
	r.Register(&value.BuiltinFunction{Name: "LENGTH", MaxArity: 1, Fn: biLength})
	r.Register(&value.BuiltinFunction{Name: "TYPENAME", MaxArity: 1, Fn: biTypeName})
	r.Register(&value.BuiltinFunction{Name: "UPPER", MaxArity: 1, Fn: biUpper})
	r.Register(&value.BuiltinFunction{Name: "LOWER", MaxArity: 1, Fn: biLower})
	r.Register(&value.BuiltinFunction{Name: "MAX", MaxArity: -1, Fn: biMax})
}

func biAbs(_ any, args value.BuiltinArgs, _ bool) (value.Value, error) {
	f, err := value.ToNumber(args.Get(0))
	if err != nil {
		return nil, err
	}
	return value.Num{Val: math.Abs(f)}, nil
}

func biLength(_ any, args value.BuiltinArgs, _ bool) (value.Value, error) {
	switch v := args.Get(0).(type) {
	case value.String:
		return value.Num{Val: float64(len([]rune(v.Val)))}, nil
	case value.ExpandableString:
		return value.Num{Val: float64(len([]rune(v.Val)))}, nil
	case *value.Array:
		return value.Num{Val: float64(v.Len())}, nil
	case *value.ByteArray:
		return value.Num{Val: float64(v.Len())}, nil
	case *value.HashTbl:
		return value.Num{Val: float64(v.Len())}, nil
	default:
		return nil, fmt.Errorf("LENGTH: unsupported type %s", v.Kind())
	}
}

func biTypeName(_ any, args value.BuiltinArgs, _ bool) (value.Value, error) {
	return value.String{Val: args.Get(0).Kind().String()}, nil
}

func biUpper(_ any, args value.BuiltinArgs, _ bool) (value.Value, error) {
	s, ok := args.Get(0).(value.String)
	if !ok {
		return nil, fmt.Errorf("UPPER: expected String, got %s", args.Get(0).Kind())
	}
	return value.String{Val: strings.ToUpper(s.Val)}, nil
}

func biLower(_ any, args value.BuiltinArgs, _ bool) (value.Value, error) {
	s, ok := args.Get(0).(value.String)
	if !ok {
		return nil, fmt.Errorf("LOWER: expected String, got %s", args.Get(0).Kind())
	}
	return value.String{Val: strings.ToLower(s.Val)}, nil
}

func biMax(_ any, args value.BuiltinArgs, _ bool) (value.Value, error) {
	if args.Len() == 0 {
		return nil, fmt.Errorf("MAX: expects at least one argument")
	}
	best, err := value.ToNumber(args.Get(0))
	if err != nil {
		return nil, err
	}
	for i := 1; i < args.Len(); i++ {
		f, err := value.ToNumber(args.Get(i))
		if err != nil {
			return nil, err
		}
		if f > best {
			best = f
		}
	}
	return value.Num{Val: best}, nil
}
