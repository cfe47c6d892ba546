package env

import (
	"testing"

	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/value"
)

func TestDimThenReadYieldsSameValue(t *testing.T) {
	e := New(nil)
	e.Define("x", value.Num{Val: 42}, scope.Local)
	v, ok := e.GetVariable("x")
	if !ok || v.(value.Num).Val != 42 {
		t.Fatalf("x = %v, want 42", v)
	}
}

func TestRedefinitionDetection(t *testing.T) {
	e := New(nil)
	e.Define("x", value.Num{Val: 1}, scope.Local)
	if !e.HasLocal("x", scope.Local) {
		t.Fatal("expected HasLocal(x, Local) to be true after Define")
	}
}

func TestPublicMayBeRedefinedAtGlobalScope(t *testing.T) {
	e := New(nil)
	if err := e.DefineGlobal("P", value.Num{Val: 1}, scope.Public); err != nil {
		t.Fatal(err)
	}
	if err := e.DefineGlobal("P", value.Num{Val: 2}, scope.Public); err != nil {
		t.Fatalf("redefining Public should not error: %v", err)
	}
	v, _ := e.getGlobal("P", scope.Public)
	if v.(value.Num).Val != 2 {
		t.Fatalf("P = %v, want 2 (last wins)", v)
	}
}

func TestConstRedefinitionErrors(t *testing.T) {
	e := New(nil)
	if err := e.DefineGlobal("C", value.Num{Val: 1}, scope.Const); err != nil {
		t.Fatal(err)
	}
	if err := e.DefineGlobal("C", value.Num{Val: 2}, scope.Const); err == nil {
		t.Fatal("expected redefining Const to error")
	}
}

func TestCaseInsensitiveNameResolution(t *testing.T) {
	e := New(nil)
	e.Define("MyVar", value.Num{Val: 7}, scope.Local)
	v, ok := e.GetVariable("myvar")
	if !ok || v.(value.Num).Val != 7 {
		t.Fatalf("myvar = %v, want 7", v)
	}
}

func TestPushScopeSharesGlobalNotLocal(t *testing.T) {
	e := New(nil)
	e.Define("x", value.Num{Val: 1}, scope.Local)
	inner := e.PushScope()
	inner.Define("x", value.Num{Val: 2}, scope.Local)
	if v, _ := inner.GetVariable("x"); v.(value.Num).Val != 2 {
		t.Fatalf("inner x = %v, want 2", v)
	}
	if v, _ := e.GetVariable("x"); v.(value.Num).Val != 1 {
		t.Fatalf("outer x = %v, want 1 unaffected by inner scope", v)
	}
}

func TestCloneForThreadIsolatesLocalsSharesGlobal(t *testing.T) {
	e := New(nil)
	e.DefineGlobal("G", value.Num{Val: 10}, scope.Public)
	e.Define("x", value.Num{Val: 1}, scope.Local)

	clone := e.CloneForThread()
	clone.Define("x", value.Num{Val: 99}, scope.Local)
	if v, _ := e.GetVariable("x"); v.(value.Num).Val != 1 {
		t.Fatal("clone's local mutation should not affect the original")
	}
	if v, _ := clone.GetVariable("G"); v.(value.Num).Val != 10 {
		t.Fatal("clone should see the shared global")
	}
}

func TestReferenceScopeInterfaceSatisfied(t *testing.T) {
	var _ value.Scope = (*Environment)(nil)
}
