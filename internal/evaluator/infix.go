package evaluator

import (
	"strings"

	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/settings"
	"github.com/uwscr/uwscr-core/internal/value"
)

func (e *Evaluator) caseSensitive() bool { return settings.Current().SameStr }

// scOpKind classifies an infix operator for the short-circuit
// three-valued evaluation: 1 for And/AndL, 2 for Or/OrL, 0 for anything
// else (including the bitwise AndB/OrB and the never-short-circuiting
// XorL/Xor, since exclusive-or always needs both operands).
func scOpKind(op string) int {
	switch op {
	case "AND", "ANDL":
		return 1
	case "OR", "ORL":
		return 2
	default:
		return 0
	}
}

// scSignal is the intermediate value threaded through evalSC: kind 0 is a
// freshly-evaluated leaf (Other), kind 1/2 is an already-short-circuited
// And/Or signal.
type scSignal struct {
	kind int
	b    bool
}

// evalSC implements the short-circuit walk: `L And R` evaluates R only
// when L is a fresh Other(true); `L Or R` evaluates R only when L is a
// fresh Other(false); if L is itself already a completed And/Or signal
// (from a nested short-circuited sub-expression), it passes through
// unchanged and R is never evaluated at all. `t(1) OrL (f(2) AndL f(3))`
// calls only t(1): the left operand's Or(true) is returned without
// evaluating the AndL on the right; in `(t(1) OrL f(2)) AndL f(3)` the
// same Or(true) passes through the outer And without touching f(3).
func (e *Evaluator) evalSC(expr ast.Expression) (scSignal, error) {
	if inf, ok := expr.(*ast.InfixExpr); ok {
		switch scOpKind(strings.ToUpper(inf.Operator)) {
		case 1:
			l, err := e.evalSC(inf.Left)
			if err != nil {
				return scSignal{}, err
			}
			if l.kind != 0 {
				return l, nil
			}
			if !l.b {
				return scSignal{kind: 1, b: false}, nil
			}
			r, err := e.evalSC(inf.Right)
			if err != nil {
				return scSignal{}, err
			}
			return scSignal{kind: 1, b: r.b}, nil
		case 2:
			l, err := e.evalSC(inf.Left)
			if err != nil {
				return scSignal{}, err
			}
			if l.kind != 0 {
				return l, nil
			}
			if l.b {
				return scSignal{kind: 2, b: true}, nil
			}
			r, err := e.evalSC(inf.Right)
			if err != nil {
				return scSignal{}, err
			}
			return scSignal{kind: 2, b: r.b}, nil
		}
	}
	v, err := e.EvalExpr(expr)
	if err != nil {
		return scSignal{}, err
	}
	b, err := value.Truthy(v, e.TruthMode)
	if err != nil {
		return scSignal{}, err
	}
	return scSignal{kind: 0, b: b}, nil
}

// evalInfix dispatches a binary operator.
func (e *Evaluator) evalInfix(n *ast.InfixExpr) (value.Value, error) {
	op := strings.ToUpper(n.Operator)

	if e.ShortCircuit && scOpKind(op) != 0 {
		s, err := e.evalSC(n)
		if err != nil {
			return nil, err
		}
		return value.Bool{Val: s.b}, nil
	}

	l, err := e.EvalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	r, err := e.EvalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	switch op {
	case "+":
		return value.Add(l, r)
	case "-":
		return value.Sub(l, r)
	case "*":
		return value.Mul(l, r)
	case "/":
		return value.Div(l, r)
	case "%", "MOD":
		return value.Mod(l, r)
	case "=", "==":
		return value.Bool{Val: value.Equal(l, r, e.caseSensitive())}, nil
	case "<>", "!=":
		return value.Bool{Val: !value.Equal(l, r, e.caseSensitive())}, nil
	case "<", ">", "<=", ">=":
		return e.evalCompare(op, l, r)
	case "AND":
		return value.And(l, r, e.TruthMode)
	case "OR":
		return value.Or(l, r, e.TruthMode)
	case "XOR":
		return value.Xor(l, r, e.TruthMode)
	case "ANDL":
		return value.LogicalAnd(l, r, e.TruthMode)
	case "ORL":
		return value.LogicalOr(l, r, e.TruthMode)
	case "XORL":
		return value.LogicalXor(l, r, e.TruthMode)
	case "ANDB":
		return value.BitAnd(l, r)
	case "ORB":
		return value.BitOr(l, r)
	case "XORB":
		return value.BitXor(l, r)
	default:
		return nil, uerrors.New(uerrors.OperatorError, "unknown operator %q", n.Operator)
	}
}

// evalCompare implements <,>,<=,>= : numeric when both sides coerce to a
// number, lexical string comparison (respecting SameStr) otherwise.
func (e *Evaluator) evalCompare(op string, l, r value.Value) (value.Value, error) {
	lf, lerr := value.ToNumber(l)
	rf, rerr := value.ToNumber(r)
	if lerr == nil && rerr == nil {
		return value.Bool{Val: compareFloat(op, lf, rf)}, nil
	}
	ls, rs := l.String(), r.String()
	if !e.caseSensitive() {
		ls, rs = strings.ToUpper(ls), strings.ToUpper(rs)
	}
	return value.Bool{Val: compareString(op, ls, rs)}, nil
}

func compareFloat(op string, a, b float64) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	default:
		return a >= b
	}
}

func compareString(op string, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	default:
		return a >= b
	}
}
