package value

import (
	"fmt"
	"strings"
)

// TruthMode selects one of the three truth predicates. The
// mode is a global setting chosen once per process (internal/settings),
// not something that varies expression-to-expression.
type TruthMode int

const (
	// Default: Empty/Null/Nothing/false/0 -> false, anything else -> true.
	Default TruthMode = iota
	// ForceBool: only Bool is truthy; other types error.
	ForceBool
	// Legacy: integer-style coercion (0/empty string/empty array -> false,
	// case-insensitive "false" -> false, non-zero number -> true).
	Legacy
)

// Truthy evaluates v under mode.
func Truthy(v Value, mode TruthMode) (bool, error) {
	switch mode {
	case ForceBool:
		b, ok := v.(Bool)
		if !ok {
			return false, fmt.Errorf("force-bool: expected Bool, got %s", v.Kind())
		}
		return b.Val, nil
	case Legacy:
		switch t := v.(type) {
		case Bool:
			return t.Val, nil
		case Num:
			return t.Val != 0, nil
		case String:
			if strings.EqualFold(t.Val, "false") {
				return false, nil
			}
			return t.Val != "", nil
		case ExpandableString:
			return t.Val != "", nil
		case *Array:
			return t.Len() != 0, nil
		case Empty, Null, Nothing:
			return false, nil
		default:
			return true, nil
		}
	default: // Default
		switch t := v.(type) {
		case Empty, Null, Nothing:
			return false, nil
		case Bool:
			return t.Val, nil
		case Num:
			return t.Val != 0, nil
		default:
			return true, nil
		}
	}
}
