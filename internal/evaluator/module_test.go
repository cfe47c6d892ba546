package evaluator

import (
	"testing"

	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/value"
)

// classC builds `class C \n dim name \n function C(n) \n name = n \n fend
// \n function name() \n result = name \n fend \n endclass`:
// a private field and an accessor function sharing the same name.
func classC() *ast.ClassStatement {
	return &ast.ClassStatement{
		Name: "C",
		Members: []ast.Statement{
			&ast.DimStatement{Names: []string{"name"}},
			&ast.FunctionStatement{
				Name:   "C",
				Params: []ast.Param{{Name: "n", Kind: ast.ParamIdentifier}},
				Body: []ast.Statement{
					&ast.ExpressionStatement{Expr: &ast.AssignExpr{
						Target: &ast.Identifier{Name: "name"},
						Value:  &ast.Identifier{Name: "n"},
					}},
				},
			},
			&ast.FunctionStatement{
				Name: "name",
				Body: []ast.Statement{
					&ast.ExpressionStatement{Expr: &ast.AssignExpr{
						Target: &ast.Identifier{Name: "result"},
						Value:  &ast.Identifier{Name: "name"},
					}},
				},
			},
		},
	}
}

// `C("hi").name()` resolves the accessor's bare `name` read
// to the private field (not the function itself), returning "hi".
func TestClassAccessorReadsOwnPrivateFieldByBareName(t *testing.T) {
	script := []ast.Statement{
		&ast.DimStatement{
			Names: []string{"got"},
			Values: []ast.Expression{
				&ast.DotCallExpr{
					Receiver: &ast.CallExpr{
						Function: &ast.Identifier{Name: "C"},
						Args:     []ast.Expression{&ast.StringLiteral{Value: "hi"}},
					},
					Method: "name",
				},
			},
		},
	}
	e := run(t, []ast.Statement{classC()}, script)
	got := mustGet(t, e, "got")
	s, ok := got.(value.String)
	if !ok || s.Val != "hi" {
		t.Errorf("got = %+v, want String(\"hi\")", got)
	}
}

// `C("hi").name` (no call) reads the private field directly
// from outside the class's own methods and must fail IsPrivateMember.
func TestClassPrivateFieldRejectsExternalDotRead(t *testing.T) {
	script := []ast.Statement{
		&ast.ExpressionStatement{Expr: &ast.DotExpr{
			Receiver: &ast.CallExpr{
				Function: &ast.Identifier{Name: "C"},
				Args:     []ast.Expression{&ast.StringLiteral{Value: "hi"}},
			},
			Member: "name",
		}},
	}
	e := New(nil)
	prog := &ast.Program{ScriptName: "test.uwscr", Global: []ast.Statement{classC()}, Script: script}
	_, err := e.Run(prog, false)
	if err == nil {
		t.Fatalf("expected IsPrivateMember error, got nil")
	}
	if ue := uerrors.AsUError(err); ue.Kind != uerrors.ModuleError {
		t.Errorf("err = %v, want a ModuleError (IsPrivateMember)", err)
	}
}

// Assigning NOTHING over an Instance binding releases it: the destructor
// (the `_<Name>_` member) runs and can see the module's state.
func TestAssignNothingRunsDestructor(t *testing.T) {
	cls := &ast.ClassStatement{
		Name: "D",
		Members: []ast.Statement{
			&ast.FunctionStatement{Name: "D"},
			&ast.FunctionStatement{
				Name: "_D_",
				Body: []ast.Statement{
					&ast.ExpressionStatement{Expr: &ast.AssignExpr{
						Target: &ast.Identifier{Name: "destroyed"},
						Value:  &ast.BoolLiteral{Value: true},
					}},
				},
			},
		},
	}
	script := []ast.Statement{
		&ast.PublicStatement{Name: "destroyed", Value: &ast.BoolLiteral{Value: false}},
		&ast.DimStatement{
			Names:  []string{"o"},
			Values: []ast.Expression{&ast.CallExpr{Function: &ast.Identifier{Name: "D"}}},
		},
		&ast.ExpressionStatement{Expr: &ast.AssignExpr{
			Target: &ast.Identifier{Name: "o"},
			Value:  &ast.NothingLiteral{},
		}},
	}
	e := run(t, []ast.Statement{cls}, script)
	got := mustGet(t, e, "destroyed")
	if b, ok := got.(value.Bool); !ok || !b.Val {
		t.Errorf("destroyed = %+v, want Bool(true)", got)
	}
}

// An Instance aliased into a second variable survives the first binding's
// NOTHING: the destructor fires only when the last alias is released, and
// the surviving alias stays fully usable in between.
func TestAliasedInstanceSurvivesFirstNothing(t *testing.T) {
	cls := &ast.ClassStatement{
		Name: "E",
		Members: []ast.Statement{
			&ast.FunctionStatement{Name: "E"},
			&ast.FunctionStatement{
				Name: "Ping",
				Body: []ast.Statement{
					&ast.ExpressionStatement{Expr: &ast.AssignExpr{
						Target: &ast.Identifier{Name: "result"},
						Value:  &ast.StringLiteral{Value: "pong"},
					}},
				},
			},
			&ast.FunctionStatement{
				Name: "_E_",
				Body: []ast.Statement{
					&ast.ExpressionStatement{Expr: &ast.AssignExpr{
						Target: &ast.Identifier{Name: "destroyed"},
						Value:  &ast.BoolLiteral{Value: true},
					}},
				},
			},
		},
	}
	script := []ast.Statement{
		&ast.PublicStatement{Name: "destroyed", Value: &ast.BoolLiteral{Value: false}},
		&ast.DimStatement{
			Names:  []string{"a"},
			Values: []ast.Expression{&ast.CallExpr{Function: &ast.Identifier{Name: "E"}}},
		},
		&ast.DimStatement{
			Names:  []string{"b"},
			Values: []ast.Expression{&ast.Identifier{Name: "a"}},
		},
		&ast.ExpressionStatement{Expr: &ast.AssignExpr{
			Target: &ast.Identifier{Name: "a"},
			Value:  &ast.NothingLiteral{},
		}},
		&ast.DimStatement{
			Names:  []string{"afterFirst"},
			Values: []ast.Expression{&ast.Identifier{Name: "destroyed"}},
		},
		&ast.DimStatement{
			Names: []string{"pong"},
			Values: []ast.Expression{
				&ast.DotCallExpr{Receiver: &ast.Identifier{Name: "b"}, Method: "Ping"},
			},
		},
		&ast.ExpressionStatement{Expr: &ast.AssignExpr{
			Target: &ast.Identifier{Name: "b"},
			Value:  &ast.NothingLiteral{},
		}},
	}
	e := run(t, []ast.Statement{cls}, script)

	if b, ok := mustGet(t, e, "afterFirst").(value.Bool); !ok || b.Val {
		t.Errorf("destroyed after first NOTHING = %+v, want Bool(false)", mustGet(t, e, "afterFirst"))
	}
	if s, ok := mustGet(t, e, "pong").(value.String); !ok || s.Val != "pong" {
		t.Errorf("b.Ping() after first NOTHING = %+v, want String(\"pong\")", mustGet(t, e, "pong"))
	}
	if b, ok := mustGet(t, e, "destroyed").(value.Bool); !ok || !b.Val {
		t.Errorf("destroyed after last NOTHING = %+v, want Bool(true)", mustGet(t, e, "destroyed"))
	}
}
