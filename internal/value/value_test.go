package value

import "testing"

func TestAddStringBias(t *testing.T) {
	r, err := Add(Num{Val: 1}, String{Val: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := r.(String); !ok || s.Val != "12" {
		t.Fatalf("1 + \"2\" = %v, want \"12\"", r)
	}

	r, err = Add(String{Val: "1"}, Num{Val: 2})
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := r.(String); !ok || s.Val != "12" {
		t.Fatalf("\"1\" + 2 = %v, want \"12\"", r)
	}
}

func TestEqualityReflexive(t *testing.T) {
	vals := []Value{Num{Val: 42}, Bool{Val: true}, String{Val: "hi"}}
	for _, v := range vals {
		if !Equal(v, v, false) {
			t.Errorf("%v = %v should be true", v, v)
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	if _, err := Div(Num{Val: 1}, Num{Val: 0}); err == nil {
		t.Fatal("expected division by zero error")
	}
}

func TestCaseInsensitiveStringEquality(t *testing.T) {
	if !Equal(String{Val: "Abc"}, String{Val: "abc"}, false) {
		t.Fatal("expected case-insensitive equality")
	}
	if Equal(String{Val: "Abc"}, String{Val: "abc"}, true) {
		t.Fatal("expected case-sensitive inequality")
	}
}

func TestTruthDefaultMode(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Empty{}, false},
		{Null{}, false},
		{Nothing{}, false},
		{Bool{Val: false}, false},
		{Num{Val: 0}, false},
		{Num{Val: 1}, true},
		{String{Val: ""}, true}, // Default mode treats any non-listed kind as truthy
	}
	for _, c := range cases {
		got, err := Truthy(c.v, Default)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("Truthy(%v, Default) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestTruthLegacyMode(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Num{Val: 0}, false},
		{String{Val: ""}, false},
		{String{Val: "false"}, false},
		{String{Val: "FALSE"}, false},
		{NewArray(nil), false},
		{Num{Val: 3}, true},
	}
	for _, c := range cases {
		got, err := Truthy(c.v, Legacy)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("Truthy(%v, Legacy) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestForceBoolRejectsNonBool(t *testing.T) {
	if _, err := Truthy(Num{Val: 1}, ForceBool); err == nil {
		t.Fatal("expected ForceBool to reject a Num")
	}
}

func TestBareAndIsBitwiseForNumbersLogicalOtherwise(t *testing.T) {
	r, err := And(Num{Val: 6}, Num{Val: 3}, Default)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := r.(Num); !ok || n.Val != 2 {
		t.Fatalf("6 And 3 = %v, want 2 (bitwise)", r)
	}

	r, err = And(Bool{Val: true}, Bool{Val: false}, Default)
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := r.(Bool); !ok || b.Val != false {
		t.Fatalf("true And false = %v, want false (logical)", r)
	}
}

func TestHashTblSortAndCaseCare(t *testing.T) {
	h := NewHashTbl(HashCaseCare | HashSort)
	h.Set(String{Val: "b"}, String{Val: "x"})
	h.Set(String{Val: "a"}, String{Val: "y"})
	keys := h.OrderedKeys()
	if len(keys) != 2 || keys[0].String() != "a" || keys[1].String() != "b" {
		t.Fatalf("expected sorted [a b], got %v", keys)
	}
}

func TestArrayIndexBounds(t *testing.T) {
	a := NewArray([]Value{Num{Val: 1}, Num{Val: 2}})
	if _, ok := a.Get(-1); ok {
		t.Fatal("expected negative index to fail")
	}
	if _, ok := a.Get(2); ok {
		t.Fatal("expected out-of-range index to fail")
	}
	v, ok := a.Get(1)
	if !ok || v.(Num).Val != 2 {
		t.Fatalf("A[1] = %v, want 2", v)
	}
}

func TestEnumMemberNotFound(t *testing.T) {
	e := &Enum{Name: "E", Members: []string{"A", "B"}, Values: map[string]float64{"A": 1, "B": 2}}
	if v, ok := e.Get("A"); !ok || v != 1 {
		t.Fatalf("E.A = %v, want 1", v)
	}
	if _, ok := e.Get("X"); ok {
		t.Fatal("expected E.X to be not-found")
	}
}

func TestUObjectPathSharing(t *testing.T) {
	root := NewUObject(`{"a":{"b":1}}`)
	sub := root.Sub("a")
	if err := sub.Set("b", Num{Val: 2}); err != nil {
		t.Fatal(err)
	}
	if got := root.Get("a.b"); got.(Num).Val != 2 {
		t.Fatalf("root.a.b = %v, want 2 (structural sharing)", got)
	}
}
