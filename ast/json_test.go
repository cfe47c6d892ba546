package ast

import (
	"encoding/json"
	"testing"

	"github.com/uwscr/uwscr-core/token"
)

// roundTrip encodes prog to JSON and decodes it back, returning the
// decoded *Program so callers can inspect the rebuilt tree.
func roundTrip(t *testing.T, prog *Program) *Program {
	t.Helper()
	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Program
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}
	return &out
}

func TestProgramJSONRoundTrip(t *testing.T) {
	prog := &Program{
		ScriptName: "demo.uwscr",
		Lines:      []string{"dim x = 1 + 2", "print x"},
		Global: []Statement{
			&FunctionStatement{
				base: base{Position: token.Position{Row: 1, Script: "demo.uwscr"}},
				Name: "Add",
				Params: []Param{
					{Name: "a", Kind: ParamIdentifier},
					{Name: "b", Kind: ParamWithDefault, Default: &NumberLiteral{Value: 1}},
				},
				Body: []Statement{
					&ExpressionStatement{
						Expr: &AssignExpr{
							Target: &Identifier{Name: "result"},
							Value: &InfixExpr{
								Left:     &Identifier{Name: "a"},
								Operator: "+",
								Right:    &Identifier{Name: "b"},
							},
						},
					},
				},
			},
		},
		Script: []Statement{
			&DimStatement{
				Names: []string{"x"},
				Values: []Expression{
					&InfixExpr{Left: &NumberLiteral{Value: 1}, Operator: "+", Right: &NumberLiteral{Value: 2}},
				},
			},
			&IfStatement{
				Cond: &InfixExpr{Left: &Identifier{Name: "x"}, Operator: ">", Right: &NumberLiteral{Value: 0}},
				Body: []Statement{
					&PrintStatement{Expr: &StringLiteral{Value: "positive"}},
				},
				ElseIfs: []ElseIfBranch{
					{
						Cond: &InfixExpr{Left: &Identifier{Name: "x"}, Operator: "=", Right: &NumberLiteral{Value: 0}},
						Body: []Statement{&PrintStatement{Expr: &StringLiteral{Value: "zero"}}},
					},
				},
				Else: []Statement{
					&PrintStatement{Expr: &StringLiteral{Value: "negative"}},
				},
			},
			&ForStatement{
				Var:  "i",
				From: &NumberLiteral{Value: 5},
				To:   &NumberLiteral{Value: 0},
				Step: &NumberLiteral{Value: -2},
				Body: []Statement{
					&CallStatement{Call: &CallExpr{Function: &Identifier{Name: "Add"}, Args: []Expression{&Identifier{Name: "i"}, &EmptyParamExpr{}}}},
				},
			},
			&TryStatement{
				Try:        []Statement{&ExpressionStatement{Expr: &InfixExpr{Left: &NumberLiteral{Value: 1}, Operator: "/", Right: &NumberLiteral{Value: 0}}}},
				Except:     []Statement{&PrintStatement{Expr: &Identifier{Name: "TRY_ERRMSG"}}},
				ErrMsgVar:  "TRY_ERRMSG",
				ErrLineVar: "TRY_ERRLINE",
			},
		},
	}

	out := roundTrip(t, prog)

	if out.ScriptName != prog.ScriptName {
		t.Errorf("ScriptName = %q, want %q", out.ScriptName, prog.ScriptName)
	}
	if len(out.Lines) != len(prog.Lines) {
		t.Fatalf("Lines length = %d, want %d", len(out.Lines), len(prog.Lines))
	}
	if len(out.Global) != 1 {
		t.Fatalf("Global length = %d, want 1", len(out.Global))
	}
	fn, ok := out.Global[0].(*FunctionStatement)
	if !ok {
		t.Fatalf("Global[0] is %T, want *FunctionStatement", out.Global[0])
	}
	if fn.Name != "Add" || len(fn.Params) != 2 {
		t.Fatalf("decoded function mismatch: %+v", fn)
	}
	if fn.Params[1].Kind != ParamWithDefault {
		t.Errorf("Params[1].Kind = %v, want ParamWithDefault", fn.Params[1].Kind)
	}
	def, ok := fn.Params[1].Default.(*NumberLiteral)
	if !ok || def.Value != 1 {
		t.Errorf("Params[1].Default = %+v, want NumberLiteral(1)", fn.Params[1].Default)
	}

	if len(out.Script) != 4 {
		t.Fatalf("Script length = %d, want 4", len(out.Script))
	}
	dim, ok := out.Script[0].(*DimStatement)
	if !ok || dim.Names[0] != "x" {
		t.Fatalf("Script[0] = %+v, want DimStatement x", out.Script[0])
	}
	ifs, ok := out.Script[1].(*IfStatement)
	if !ok {
		t.Fatalf("Script[1] is %T, want *IfStatement", out.Script[1])
	}
	if len(ifs.ElseIfs) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("IfStatement shape mismatch: %+v", ifs)
	}
	forStmt, ok := out.Script[2].(*ForStatement)
	if !ok || forStmt.Var != "i" {
		t.Fatalf("Script[2] = %+v, want ForStatement i", out.Script[2])
	}
	step, ok := forStmt.Step.(*NumberLiteral)
	if !ok || step.Value != -2 {
		t.Fatalf("ForStatement.Step = %+v, want NumberLiteral(-2)", forStmt.Step)
	}
	tryStmt, ok := out.Script[3].(*TryStatement)
	if !ok || tryStmt.ErrMsgVar != "TRY_ERRMSG" {
		t.Fatalf("Script[3] = %+v, want TryStatement", out.Script[3])
	}
}

func TestStatementJSONRoundTripRemainingKinds(t *testing.T) {
	stmts := []Statement{
		&PublicStatement{Name: "g", Value: &NumberLiteral{Value: 1}},
		&ConstStatement{Name: "PI", Value: &NumberLiteral{Value: 3.14}},
		&TextBlockStatement{Name: "T", Text: "hello\nworld"},
		&HashTblStatement{Name: "h", Options: &Identifier{Name: "HASH_SORT"}, IsPublic: true},
		&HashStatement{Name: "h2", Keys: []Expression{&StringLiteral{Value: "a"}}, Vals: []Expression{&NumberLiteral{Value: 1}}},
		&DefDllStatement{
			Name:       "MessageBoxW",
			Params:     []DllParam{{NativeType: "hwnd"}, {NativeType: "wstring", ByRef: false}},
			ReturnType: "int",
			Library:    "user32.dll",
		},
		&StructStatement{Name: "POINT", Fields: []StructField{{Name: "x", Type: "long"}, {Name: "y", Type: "long"}}},
		&ModuleStatement{Name: "M", Members: []Statement{&DimStatement{Names: []string{"v"}}}},
		&ClassStatement{Name: "C", Members: []Statement{&FunctionStatement{Name: "C", Body: []Statement{}}}},
		&EnumStatement{Name: "Color", Members: []EnumMember{{Name: "Red"}, {Name: "Blue", Value: &NumberLiteral{Value: 5}}}},
		&ForInStatement{Var: "v", IndexVar: "i", Collection: &Identifier{Name: "arr"}, Body: []Statement{}},
		&WhileStatement{Cond: &BoolLiteral{Value: true}, Body: []Statement{&BreakStatement{N: 1}}},
		&RepeatStatement{Body: []Statement{&ContinueStatement{N: 2}}, Until: &BoolLiteral{Value: false}},
		&IfSingleLineStatement{Cond: &BoolLiteral{Value: true}, Then: &PrintStatement{Expr: &StringLiteral{Value: "y"}}},
		&SelectStatement{
			Subject: &Identifier{Name: "x"},
			Cases: []SelectCase{
				{Values: []Expression{&NumberLiteral{Value: 1}}, Body: []Statement{&PrintStatement{Expr: &StringLiteral{Value: "one"}}}},
				{Values: nil, Body: []Statement{&PrintStatement{Expr: &StringLiteral{Value: "other"}}}},
			},
		},
		&WithStatement{Subject: &Identifier{Name: "obj"}, Body: []Statement{&ExpressionStatement{Expr: &DotExpr{Receiver: &Identifier{Name: "obj"}, Member: "Visible"}}}},
		&ThreadStatement{Call: &CallExpr{Function: &Identifier{Name: "DoWork"}}},
		&ExitExitStatement{Code: &NumberLiteral{Value: 0}},
		&ComErrIgnStatement{},
		&ComErrRetStatement{},
		&OptionStatement{Name: "SHORTCIRCUIT", Value: &BoolLiteral{Value: true}},
	}

	for _, s := range stmts {
		raw, err := EncodeStmt(s)
		if err != nil {
			t.Fatalf("EncodeStmt(%T): %v", s, err)
		}
		decoded, err := DecodeStmt(raw)
		if err != nil {
			t.Fatalf("DecodeStmt(%T): %v\n%s", s, err, raw)
		}
		if decoded.String() != s.String() {
			t.Errorf("%T round-trip String mismatch: got %q, want %q", s, decoded.String(), s.String())
		}
	}
}

func TestExpressionJSONRoundTripAllKinds(t *testing.T) {
	exprs := []Expression{
		&Identifier{Name: "x"},
		&NumberLiteral{Value: 3.5},
		&StringLiteral{Value: "hi"},
		&ExpandableStringLiteral{Value: "<#x>"},
		&BoolLiteral{Value: true},
		&NullLiteral{},
		&NothingLiteral{},
		&EmptyLiteral{},
		&ArrayLiteral{Elements: []Expression{&NumberLiteral{Value: 1}, &NumberLiteral{Value: 2}}},
		&UObjectLiteral{JSON: `{"a":1}`},
		&PrefixExpr{Operator: "-", Right: &NumberLiteral{Value: 1}},
		&IndexExpr{Left: &Identifier{Name: "a"}, Index: &NumberLiteral{Value: 0}},
		&IndexExpr{Left: &Identifier{Name: "h"}, Index: &StringLiteral{Value: "k"}, HashOption: &Identifier{Name: "HASH_EXISTS"}},
		&DotExpr{Receiver: &Identifier{Name: "obj"}, Member: "X"},
		&DotCallExpr{Receiver: &Identifier{Name: "obj"}, Method: "Go", Args: []Expression{&NumberLiteral{Value: 1}}, Await: true},
		&AnonymousFunctionExpr{Params: []Param{{Name: "v", Kind: ParamIdentifier}}, Body: []Statement{&ExpressionStatement{Expr: &Identifier{Name: "v"}}}},
		&CompoundAssignExpr{Target: &Identifier{Name: "x"}, Operator: "+", Value: &NumberLiteral{Value: 1}},
		&TernaryExpr{Cond: &BoolLiteral{Value: true}, Then: &NumberLiteral{Value: 1}, Else: &NumberLiteral{Value: 2}},
		&RefArgExpr{Target: &Identifier{Name: "x"}},
		&EmptyParamExpr{},
		&CallbackExpr{Name: "OnClick"},
		&ComErrExpr{},
	}

	for _, e := range exprs {
		raw, err := EncodeExpr(e)
		if err != nil {
			t.Fatalf("EncodeExpr(%T): %v", e, err)
		}
		decoded, err := DecodeExpr(raw)
		if err != nil {
			t.Fatalf("DecodeExpr(%T): %v\n%s", e, err, raw)
		}
		if decoded.String() != e.String() {
			t.Errorf("%T round-trip String mismatch: got %q, want %q", e, decoded.String(), e.String())
		}
	}
}
