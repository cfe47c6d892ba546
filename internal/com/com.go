// Package com expresses the COM-object contract as plain Go
// interfaces: method invocation and indexed/named property get/set with
// positional and by-ref argument slots. Like internal/dll, it ships
// contracts and a minimal in-memory fake (Fake) for the evaluator's call
// dispatcher and `.` member-access paths, never a live COM backend and no
// builtin that creates COM objects — COM automation is
// Windows-only and treated as an external collaborator.
package com

import "github.com/uwscr/uwscr-core/internal/value"

// Object is the contract a COM automation backend implements. It mirrors
// the shape IDispatch exposes: methods are invoked by name with ordered
// arguments, some of which are by-ref; properties are get/set by name,
// optionally with index arguments for indexed properties (e.g.
// `obj.Item(1) = x`).
type Object interface {
	// Invoke calls method with args and returns its result plus, for each
	// ByRef argument (identified by index into args), the value to write
	// back to the caller's place expression.
	Invoke(method string, args []value.Value, byRef []int) (result value.Value, byRefResults []value.Value, err error)

	// GetProperty reads a (possibly indexed) property.
	GetProperty(name string, index []value.Value) (value.Value, error)

	// SetProperty writes a (possibly indexed) property.
	SetProperty(name string, index []value.Value, v value.Value) error

	// Release drops the backend's hold on the underlying COM object. The
	// evaluator does not call it: ObjectValue is not reference-counted the
	// way Instance is (internal/value/object.go's Retain/Release).
	Release()
}

// ObjectValue wraps a live Object as a value.Value so a COM handle can be
// bound to a script variable and read back through the evaluator's DotExpr/
// MemberCaller dispatch like any other value (`obj.Method()`,
// `obj.Prop = x`).
type ObjectValue struct{ Obj Object }

func (*ObjectValue) Kind() value.Kind   { return value.KindMemberCaller }
func (*ObjectValue) String() string     { return "ComObject" }

// Fake is a minimal in-memory Object used by tests: a flat name->value
// property map and a name->func method table, with no native backend at
// all. It is enough to drive the call-dispatcher and member-access code
// paths without touching the OS.
type Fake struct {
	Props   map[string]value.Value
	Methods map[string]func(args []value.Value) (value.Value, error)
}

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{Props: map[string]value.Value{}, Methods: map[string]func(args []value.Value) (value.Value, error){}}
}

func (f *Fake) Invoke(method string, args []value.Value, byRef []int) (value.Value, []value.Value, error) {
	fn, ok := f.Methods[method]
	if !ok {
		return nil, nil, &errNoMethod{method}
	}
	result, err := fn(args)
	if err != nil {
		return nil, nil, err
	}
	var byRefResults []value.Value
	for _, i := range byRef {
		if i >= 0 && i < len(args) {
			byRefResults = append(byRefResults, args[i])
		}
	}
	return result, byRefResults, nil
}

func (f *Fake) GetProperty(name string, index []value.Value) (value.Value, error) {
	if len(index) > 0 {
		name = indexedName(name, index)
	}
	v, ok := f.Props[name]
	if !ok {
		return nil, &errNoProperty{name}
	}
	return v, nil
}

func (f *Fake) SetProperty(name string, index []value.Value, v value.Value) error {
	if len(index) > 0 {
		name = indexedName(name, index)
	}
	f.Props[name] = v
	return nil
}

func (f *Fake) Release() {
	f.Props = nil
	f.Methods = nil
}

func indexedName(name string, index []value.Value) string {
	s := name
	for _, idx := range index {
		s += "[" + idx.String() + "]"
	}
	return s
}

type errNoMethod struct{ name string }

func (e *errNoMethod) Error() string { return "COM: method not found: " + e.name }

type errNoProperty struct{ name string }

func (e *errNoProperty) Error() string { return "COM: property not found: " + e.name }
