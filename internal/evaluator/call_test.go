package evaluator

import (
	"testing"

	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/value"
)

// `dim a=[[0]]; procedure p(ref r) r="ok" fend; p(a[0][0]);
// a[0][0]` → "ok". A nested index chain as a ref-parameter place
// expression writes back through the inner Array's backing store.
func TestRefParamWriteBackThroughNestedIndex(t *testing.T) {
	aIndex0 := func() *ast.IndexExpr {
		return &ast.IndexExpr{Left: &ast.Identifier{Name: "a"}, Index: &ast.NumberLiteral{Value: 0}}
	}
	global := []ast.Statement{
		&ast.FunctionStatement{
			Name:   "p",
			IsProc: true,
			Params: []ast.Param{{Name: "r", Kind: ast.ParamReference}},
			Body: []ast.Statement{
				&ast.ExpressionStatement{Expr: &ast.AssignExpr{
					Target: &ast.Identifier{Name: "r"},
					Value:  &ast.StringLiteral{Value: "ok"},
				}},
			},
		},
	}
	script := []ast.Statement{
		&ast.DimStatement{
			Names: []string{"a"},
			Values: []ast.Expression{
				&ast.ArrayLiteral{Elements: []ast.Expression{
					&ast.ArrayLiteral{Elements: []ast.Expression{&ast.NumberLiteral{Value: 0}}},
				}},
			},
		},
		&ast.CallStatement{
			Call: &ast.CallExpr{
				Function: &ast.Identifier{Name: "p"},
				Args: []ast.Expression{
					&ast.IndexExpr{Left: aIndex0(), Index: &ast.NumberLiteral{Value: 0}},
				},
			},
		},
	}
	e := run(t, global, script)
	a := mustGet(t, e, "a")
	arr, ok := a.(*value.Array)
	if !ok {
		t.Fatalf("a = %+v, want *Array", a)
	}
	inner, ok := arr.Get(0)
	if !ok {
		t.Fatalf("a[0] missing")
	}
	innerArr, ok := inner.(*value.Array)
	if !ok {
		t.Fatalf("a[0] = %+v, want *Array", inner)
	}
	got, ok := innerArr.Get(0)
	if !ok {
		t.Fatalf("a[0][0] missing")
	}
	s, ok := got.(value.String)
	if !ok || s.Val != "ok" {
		t.Errorf("a[0][0] = %+v, want String(\"ok\")", got)
	}
}

// A function's return value is its `result` binding at return time; a
// procedure always returns Empty, even when it assigns `result`; a
// function that never assigns `result` returns Empty.
func TestCallReturnsResultBinding(t *testing.T) {
	fnReturning := func(name string, isProc bool, assignResult bool) *ast.FunctionStatement {
		var body []ast.Statement
		if assignResult {
			body = append(body, &ast.ExpressionStatement{Expr: &ast.AssignExpr{
				Target: &ast.Identifier{Name: "result"},
				Value:  &ast.NumberLiteral{Value: 42},
			}})
		}
		body = append(body, &ast.ExpressionStatement{Expr: &ast.StringLiteral{Value: "last"}})
		return &ast.FunctionStatement{Name: name, IsProc: isProc, Body: body}
	}
	global := []ast.Statement{
		fnReturning("FortyTwo", false, true),
		fnReturning("NoResult", false, false),
		fnReturning("Proc", true, true),
	}
	call := func(name string) ast.Expression {
		return &ast.CallExpr{Function: &ast.Identifier{Name: name}}
	}
	script := []ast.Statement{
		&ast.DimStatement{Names: []string{"a"}, Values: []ast.Expression{call("FortyTwo")}},
		&ast.DimStatement{Names: []string{"b"}, Values: []ast.Expression{call("NoResult")}},
		&ast.DimStatement{Names: []string{"c"}, Values: []ast.Expression{call("Proc")}},
	}
	e := run(t, global, script)
	if n, ok := mustGet(t, e, "a").(value.Num); !ok || n.Val != 42 {
		t.Errorf("a = %+v, want Num(42)", mustGet(t, e, "a"))
	}
	if _, ok := mustGet(t, e, "b").(value.Empty); !ok {
		t.Errorf("b = %+v, want Empty", mustGet(t, e, "b"))
	}
	if _, ok := mustGet(t, e, "c").(value.Empty); !ok {
		t.Errorf("c = %+v, want Empty", mustGet(t, e, "c"))
	}
}

// A function definition inside another function's body is a typed error.
func TestNestedFunctionDefinitionRejected(t *testing.T) {
	global := []ast.Statement{
		&ast.FunctionStatement{
			Name: "Outer",
			Body: []ast.Statement{
				&ast.FunctionStatement{Name: "Inner"},
			},
		},
	}
	script := []ast.Statement{
		&ast.CallStatement{Call: &ast.CallExpr{Function: &ast.Identifier{Name: "Outer"}}},
	}
	e := New(nil)
	prog := &ast.Program{ScriptName: "test.uwscr", Global: global, Script: script}
	_, err := e.Run(prog, false)
	if err == nil {
		t.Fatal("expected FuncDefError, got nil")
	}
	if ue := uerrors.AsUError(err); ue.Kind != uerrors.FuncDefError {
		t.Errorf("err = %v, want FuncDefError", err)
	}
}
