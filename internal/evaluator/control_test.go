package evaluator

import (
	"testing"

	"github.com/uwscr/uwscr-core/ast"
	"github.com/uwscr/uwscr-core/internal/settings"
	"github.com/uwscr/uwscr-core/internal/value"
)

// run builds an evaluator over global+script and returns the env it ran
// in, for assertions against variables left bound at top level.
func run(t *testing.T, global, script []ast.Statement) *Evaluator {
	t.Helper()
	e := New(nil)
	prog := &ast.Program{ScriptName: "test.uwscr", Global: global, Script: script}
	if _, err := e.Run(prog, false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return e
}

func mustGet(t *testing.T, e *Evaluator, name string) value.Value {
	t.Helper()
	v, ok := e.Env.GetVariable(name)
	if !ok {
		t.Fatalf("%s not bound", name)
	}
	return v
}

// `for i = 5 to 0 step -2 \n next \n i` leaves the loop
// variable bound in the enclosing scope at the first out-of-range value
// (-1), not the last in-range one, and readable after the loop exits —
// this language has no block scoping, only function/global scoping.
func TestForLoopNegativeStepFinalValue(t *testing.T) {
	script := []ast.Statement{
		&ast.ForStatement{
			Var:  "i",
			From: &ast.NumberLiteral{Value: 5},
			To:   &ast.NumberLiteral{Value: 0},
			Step: &ast.NumberLiteral{Value: -2},
		},
	}
	e := run(t, nil, script)
	got := mustGet(t, e, "i")
	num, ok := got.(value.Num)
	if !ok || num.Val != -1 {
		t.Errorf("i = %+v, want Num(-1)", got)
	}
}

// A `dim` inside an IF body is not block-scoped: it remains visible in the
// enclosing function/script scope once the IF statement completes.
func TestDimInsideIfLeaksToEnclosingScope(t *testing.T) {
	script := []ast.Statement{
		&ast.IfStatement{
			Cond: &ast.BoolLiteral{Value: true},
			Body: []ast.Statement{
				&ast.DimStatement{Names: []string{"leaked"}, Values: []ast.Expression{&ast.NumberLiteral{Value: 42}}},
			},
		},
	}
	e := run(t, nil, script)
	got := mustGet(t, e, "leaked")
	num, ok := got.(value.Num)
	if !ok || num.Val != 42 {
		t.Errorf("leaked = %+v, want Num(42)", got)
	}
}

// TRY/EXCEPT catches a runtime error (division by zero)
// and the EXCEPT branch runs in its place.
func TestTryExceptCatchesDivisionByZero(t *testing.T) {
	script := []ast.Statement{
		&ast.DimStatement{Names: []string{"n"}, Values: []ast.Expression{&ast.NumberLiteral{Value: 0}}},
		&ast.TryStatement{
			Try: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{
					Target: &ast.Identifier{Name: "n"},
					Value:  &ast.InfixExpr{Left: &ast.NumberLiteral{Value: 1}, Operator: "/", Right: &ast.NumberLiteral{Value: 0}},
				}},
			},
			Except: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{
					Target: &ast.Identifier{Name: "n"},
					Value:  &ast.NumberLiteral{Value: 2},
				}},
			},
		},
	}
	e := run(t, nil, script)
	got := mustGet(t, e, "n")
	num, ok := got.(value.Num)
	if !ok || num.Val != 2 {
		t.Errorf("n = %+v, want Num(2)", got)
	}
}

// TRY binds TRY_ERRMSG/TRY_ERRLINE so EXCEPT can report what failed.
func TestTryBindsErrMsgVar(t *testing.T) {
	script := []ast.Statement{
		&ast.DimStatement{Names: []string{"msg"}, Values: []ast.Expression{&ast.StringLiteral{Value: ""}}},
		&ast.TryStatement{
			Try: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.InfixExpr{Left: &ast.NumberLiteral{Value: 1}, Operator: "/", Right: &ast.NumberLiteral{Value: 0}}},
			},
			Except: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{
					Target: &ast.Identifier{Name: "msg"},
					Value:  &ast.Identifier{Name: "TRY_ERRMSG"},
				}},
			},
			ErrMsgVar:  "TRY_ERRMSG",
			ErrLineVar: "TRY_ERRLINE",
		},
	}
	e := run(t, nil, script)
	got := mustGet(t, e, "msg")
	s, ok := got.(value.String)
	if !ok || s.Val == "" {
		t.Errorf("msg = %+v, want a non-empty error message", got)
	}
}

// A hashtbl declared with HASH_SORT iterates its keys in sorted order
// regardless of insertion order.
func TestHashTblSortIterationOrder(t *testing.T) {
	setKey := func(key string, val float64) ast.Statement {
		return &ast.ExpressionStatement{Expr: &ast.AssignExpr{
			Target: &ast.IndexExpr{Left: &ast.Identifier{Name: "h"}, Index: &ast.StringLiteral{Value: key}},
			Value:  &ast.NumberLiteral{Value: val},
		}}
	}
	script := []ast.Statement{
		&ast.HashTblStatement{Name: "h", Options: &ast.NumberLiteral{Value: float64(value.HashSort)}},
		setKey("b", 2),
		setKey("a", 1),
		setKey("c", 3),
		&ast.DimStatement{Names: []string{"order"}, Values: []ast.Expression{&ast.StringLiteral{Value: ""}}},
		&ast.ForInStatement{
			Var:        "k",
			Collection: &ast.Identifier{Name: "h"},
			Body: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.CompoundAssignExpr{
					Target:   &ast.Identifier{Name: "order"},
					Operator: "+",
					Value:    &ast.Identifier{Name: "k"},
				}},
			},
		},
	}
	e := run(t, nil, script)
	got := mustGet(t, e, "order")
	s, ok := got.(value.String)
	if !ok || s.Val != "abc" {
		t.Errorf("order = %+v, want String(\"abc\")", got)
	}
}

// Without HASH_CASECARE, keys differing only in case collapse to one
// entry; with it, they stay distinct.
func TestHashTblCaseCareFlag(t *testing.T) {
	index := func(key string) *ast.IndexExpr {
		return &ast.IndexExpr{Left: &ast.Identifier{Name: "h"}, Index: &ast.StringLiteral{Value: key}}
	}
	setKey := func(key string, val float64) ast.Statement {
		return &ast.ExpressionStatement{Expr: &ast.AssignExpr{Target: index(key), Value: &ast.NumberLiteral{Value: val}}}
	}

	t.Run("default folds case", func(t *testing.T) {
		script := []ast.Statement{
			&ast.HashTblStatement{Name: "h"},
			setKey("a", 1),
			setKey("A", 2),
			&ast.DimStatement{Names: []string{"v"}, Values: []ast.Expression{index("a")}},
		}
		e := run(t, nil, script)
		got := mustGet(t, e, "v")
		if num, ok := got.(value.Num); !ok || num.Val != 2 {
			t.Errorf("v = %+v, want Num(2) (A overwrote a)", got)
		}
	})

	t.Run("HASH_CASECARE keeps them distinct", func(t *testing.T) {
		script := []ast.Statement{
			&ast.HashTblStatement{Name: "h", Options: &ast.NumberLiteral{Value: float64(value.HashCaseCare)}},
			setKey("a", 1),
			setKey("A", 2),
			&ast.DimStatement{Names: []string{"v"}, Values: []ast.Expression{index("a")}},
		}
		e := run(t, nil, script)
		got := mustGet(t, e, "v")
		if num, ok := got.(value.Num); !ok || num.Val != 1 {
			t.Errorf("v = %+v, want Num(1) (a and A distinct)", got)
		}
	})
}

// the reference-argument protocol: a Reference parameter's final bound
// value is written back through the caller's place expression, here an
// array element.
func TestReferenceParamWritesBackToArrayElement(t *testing.T) {
	global := []ast.Statement{
		&ast.FunctionStatement{
			Name:   "Increment",
			Params: []ast.Param{{Name: "x", Kind: ast.ParamReference}},
			Body: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{
					Target: &ast.Identifier{Name: "x"},
					Value:  &ast.InfixExpr{Left: &ast.Identifier{Name: "x"}, Operator: "+", Right: &ast.NumberLiteral{Value: 1}},
				}},
			},
		},
	}
	script := []ast.Statement{
		&ast.DimStatement{
			Names:  []string{"arr"},
			Values: []ast.Expression{&ast.ArrayLiteral{Elements: []ast.Expression{&ast.NumberLiteral{Value: 1}, &ast.NumberLiteral{Value: 2}, &ast.NumberLiteral{Value: 3}}}},
		},
		&ast.CallStatement{Call: &ast.CallExpr{
			Function: &ast.Identifier{Name: "Increment"},
			Args:     []ast.Expression{&ast.IndexExpr{Left: &ast.Identifier{Name: "arr"}, Index: &ast.NumberLiteral{Value: 1}}},
		}},
		&ast.DimStatement{
			Names:  []string{"result"},
			Values: []ast.Expression{&ast.IndexExpr{Left: &ast.Identifier{Name: "arr"}, Index: &ast.NumberLiteral{Value: 1}}},
		},
	}
	e := run(t, global, script)
	got := mustGet(t, e, "result")
	if num, ok := got.(value.Num); !ok || num.Val != 3 {
		t.Errorf("result = %+v, want Num(3)", got)
	}
}

// A plain (non-Reference) parameter never writes back, even through a
// place expression.
func TestPlainParamDoesNotWriteBack(t *testing.T) {
	global := []ast.Statement{
		&ast.FunctionStatement{
			Name:   "Increment",
			Params: []ast.Param{{Name: "x", Kind: ast.ParamIdentifier}},
			Body: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{
					Target: &ast.Identifier{Name: "x"},
					Value:  &ast.InfixExpr{Left: &ast.Identifier{Name: "x"}, Operator: "+", Right: &ast.NumberLiteral{Value: 1}},
				}},
			},
		},
	}
	script := []ast.Statement{
		&ast.DimStatement{Names: []string{"v"}, Values: []ast.Expression{&ast.NumberLiteral{Value: 1}}},
		&ast.CallStatement{Call: &ast.CallExpr{Function: &ast.Identifier{Name: "Increment"}, Args: []ast.Expression{&ast.Identifier{Name: "v"}}}},
	}
	e := run(t, global, script)
	got := mustGet(t, e, "v")
	if num, ok := got.(value.Num); !ok || num.Val != 1 {
		t.Errorf("v = %+v, want Num(1) unchanged", got)
	}
}

// `t(1) OrL f(2) AndL f(3)`, built as T(1) OrL (F(2) AndL F(3)), calls
// only T: the Or(true) from the left operand ends the walk before the
// nested AndL on the right is evaluated, so neither F(2) nor F(3) runs —
// short-circuiting covers mixed AndL/OrL chains, not just a single
// operator.
func TestShortCircuitNestedOrAndSkipsRight(t *testing.T) {
	saved := settings.Current()
	t.Cleanup(func() { settings.Set(saved) })

	global := []ast.Statement{
		&ast.FunctionStatement{
			Name:   "T",
			Params: []ast.Param{{Name: "tag", Kind: ast.ParamIdentifier}},
			Body: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.CompoundAssignExpr{Target: &ast.Identifier{Name: "calls"}, Operator: "+", Value: &ast.Identifier{Name: "tag"}}},
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{Target: &ast.Identifier{Name: "result"}, Value: &ast.BoolLiteral{Value: true}}},
			},
		},
		&ast.FunctionStatement{
			Name:   "F",
			Params: []ast.Param{{Name: "tag", Kind: ast.ParamIdentifier}},
			Body: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.CompoundAssignExpr{Target: &ast.Identifier{Name: "calls"}, Operator: "+", Value: &ast.Identifier{Name: "tag"}}},
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{Target: &ast.Identifier{Name: "result"}, Value: &ast.BoolLiteral{Value: false}}},
			},
		},
	}
	script := []ast.Statement{
		&ast.OptionStatement{Name: "SHORTCIRCUIT", Value: &ast.BoolLiteral{Value: true}},
		&ast.PublicStatement{Name: "calls", Value: &ast.StringLiteral{Value: ""}},
		&ast.DimStatement{
			Names: []string{"result"},
			Values: []ast.Expression{
				&ast.InfixExpr{
					Left: &ast.CallExpr{Function: &ast.Identifier{Name: "T"}, Args: []ast.Expression{&ast.StringLiteral{Value: "1"}}},
					Operator: "ORL",
					Right: &ast.InfixExpr{
						Left:     &ast.CallExpr{Function: &ast.Identifier{Name: "F"}, Args: []ast.Expression{&ast.StringLiteral{Value: "2"}}},
						Operator: "ANDL",
						Right:    &ast.CallExpr{Function: &ast.Identifier{Name: "F"}, Args: []ast.Expression{&ast.StringLiteral{Value: "3"}}},
					},
				},
			},
		},
	}
	e := run(t, global, script)
	gotCalls := mustGet(t, e, "calls")
	if s, ok := gotCalls.(value.String); !ok || s.Val != "1" {
		t.Errorf("calls = %+v, want String(\"1\") (only T(1) called)", gotCalls)
	}
	gotResult := mustGet(t, e, "result")
	if b, ok := gotResult.(value.Bool); !ok || !b.Val {
		t.Errorf("result = %+v, want Bool(true)", gotResult)
	}
}

// FOR-IN over a HashTbl yields its keys, not its values.
func TestForInOverHashTblYieldsKeys(t *testing.T) {
	script := []ast.Statement{
		&ast.HashTblStatement{Name: "h"},
		&ast.ExpressionStatement{Expr: &ast.AssignExpr{
			Target: &ast.IndexExpr{Left: &ast.Identifier{Name: "h"}, Index: &ast.StringLiteral{Value: "x"}},
			Value:  &ast.NumberLiteral{Value: 10},
		}},
		&ast.DimStatement{Names: []string{"seen"}, Values: []ast.Expression{&ast.StringLiteral{Value: ""}}},
		&ast.ForInStatement{
			Var:        "k",
			Collection: &ast.Identifier{Name: "h"},
			Body: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.CompoundAssignExpr{Target: &ast.Identifier{Name: "seen"}, Operator: "+", Value: &ast.Identifier{Name: "k"}}},
			},
		},
	}
	e := run(t, nil, script)
	got := mustGet(t, e, "seen")
	if s, ok := got.(value.String); !ok || s.Val != "x" {
		t.Errorf("seen = %+v, want String(\"x\")", got)
	}
}
