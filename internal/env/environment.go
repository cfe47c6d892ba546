// Package env implements the evaluator's scope and name-resolution model
//: a per-scope stack of NamedObject (the local layer) plus a
// process-wide global layer shared across threads.
package env

import (
	"fmt"
	"strings"
	"sync"

	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/value"
)

// NamedObject is one binding: a name, a value, and a scope tag. Names
// compare case-insensitively throughout.
type NamedObject struct {
	Name  string
	Value value.Value
	Scope scope.Tag
}

// Layer is one frame of the local scope stack. Outer is nil for the
// outermost (function-entry) layer of a call; it is never nil for a
// layer created by control-flow constructs that nest inside a function.
type Layer struct {
	mu      sync.Mutex
	objects []NamedObject
	Outer   *Layer
}

func newLayer(outer *Layer) *Layer {
	return &Layer{Outer: outer}
}

func key(name string) string { return strings.ToUpper(name) }

func (l *Layer) find(name string, tags ...scope.Tag) (int, bool) {
	k := key(name)
	for i, o := range l.objects {
		if o.Name != k {
			continue
		}
		if len(tags) == 0 {
			return i, true
		}
		for _, t := range tags {
			if o.Scope == t {
				return i, true
			}
		}
	}
	return -1, false
}

// Environment is the evaluator's full scope: one shared global layer plus
// a chain of local layers rooted at current. A thread/task clone shares
// Global (via the pointer, guarded by Global's own mutex) but owns a fresh
// Current.
type Environment struct {
	Global  *Layer
	Current *Layer
}

// New creates a root environment: a fresh, empty global layer and a fresh
// local layer seeded with PARAM_STR (the script's invocation arguments)
// and predeclaring TRY_ERRLINE / TRY_ERRMSG.
func New(params []string) *Environment {
	e := &Environment{Global: &Layer{}, Current: &Layer{}}
	strs := make([]value.Value, len(params))
	for i, p := range params {
		strs[i] = value.String{Val: p}
	}
	e.Current.objects = append(e.Current.objects,
		NamedObject{Name: key("PARAM_STR"), Value: value.NewArray(strs), Scope: scope.Local},
		NamedObject{Name: key("TRY_ERRLINE"), Value: value.Empty{}, Scope: scope.Local},
		NamedObject{Name: key("TRY_ERRMSG"), Value: value.Empty{}, Scope: scope.Local},
	)
	return e
}

// PushScope returns a new Environment sharing Global with e but with a
// fresh Current layer enclosed by e.Current, predeclaring TRY_ERRLINE/
// TRY_ERRMSG (every new scope gets them,).
func (e *Environment) PushScope() *Environment {
	next := newLayer(e.Current)
	next.objects = append(next.objects,
		NamedObject{Name: key("TRY_ERRLINE"), Value: value.Empty{}, Scope: scope.Local},
		NamedObject{Name: key("TRY_ERRMSG"), Value: value.Empty{}, Scope: scope.Local},
	)
	return &Environment{Global: e.Global, Current: next}
}

// NewFunctionScope returns an Environment sharing Global with e but with a
// fresh, unnested Current layer (a function call does not see the
// caller's locals — this language resolves free names through the
// enclosing module/globals, not lexical nesting, except for anonymous
// functions which use CaptureLocals instead), predeclaring TRY_ERRLINE/
// TRY_ERRMSG.
func (e *Environment) NewFunctionScope() *Environment {
	next := &Layer{}
	next.objects = append(next.objects,
		NamedObject{Name: key("TRY_ERRLINE"), Value: value.Empty{}, Scope: scope.Local},
		NamedObject{Name: key("TRY_ERRMSG"), Value: value.Empty{}, Scope: scope.Local},
	)
	return &Environment{Global: e.Global, Current: next}
}

// CloneForThread returns an Environment that shares Global with e but owns
// a fresh Current layer copied (by value) from e.Current's own bindings,
// with no Outer link — the "isolated locals, shared globals" model.
func (e *Environment) CloneForThread() *Environment {
	e.Current.mu.Lock()
	cp := make([]NamedObject, len(e.Current.objects))
	copy(cp, e.Current.objects)
	e.Current.mu.Unlock()
	return &Environment{Global: e.Global, Current: &Layer{objects: cp}}
}

// CaptureLocals snapshots the current layer's Local bindings by name, for
// an anonymous function's captured-scope semantics.
func (e *Environment) CaptureLocals() map[string]value.Value {
	out := map[string]value.Value{}
	for l := e.Current; l != nil; l = l.Outer {
		l.mu.Lock()
		for _, o := range l.objects {
			if o.Scope != scope.Local {
				continue
			}
			if _, exists := out[o.Name]; !exists {
				out[o.Name] = o.Value
			}
		}
		l.mu.Unlock()
	}
	return out
}

// --- Reads -----------------------------------------------------------

// GetVariable resolves an identifier per the variable precedence:
// current local layer (Local/Const/Public), then global Const, global
// Public, global BuiltinConst, global Local.
func (e *Environment) GetVariable(name string) (value.Value, bool) {
	if v, ok := e.lookupChain(name, scope.Local, scope.Const, scope.Public); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.Const); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.Public); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.BuiltinConst); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.Local); ok {
		return v, true
	}
	return nil, false
}

// GetFunction resolves a callable identifier per the function precedence
//: local Function, global Function, global BuiltinFunc.
func (e *Environment) GetFunction(name string) (value.Value, bool) {
	if v, ok := e.lookupChain(name, scope.Function); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.Function); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.BuiltinFunc); ok {
		return v, true
	}
	return nil, false
}

// GetVariableGlobalOnly resolves name in the global layer only, bypassing
// any local shadow — the `global.X` pseudo-receiver's forced-global read.
func (e *Environment) GetVariableGlobalOnly(name string) (value.Value, bool) {
	if v, ok := e.getGlobal(name, scope.Const); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.Public); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.BuiltinConst); ok {
		return v, true
	}
	if v, ok := e.getGlobal(name, scope.Local); ok {
		return v, true
	}
	return nil, false
}

// GetClass, GetModule, GetStructDef, GetEnum each resolve the respective
// global-only namespace; classes, structs, and modules each get their own
// tag so a name can't be shadowed across those three declaration kinds.
func (e *Environment) GetClass(name string) (value.Value, bool)     { return e.getGlobal(name, scope.Class) }
func (e *Environment) GetModule(name string) (value.Value, bool)    { return e.getGlobal(name, scope.Module) }
func (e *Environment) GetStructDef(name string) (value.Value, bool) { return e.getGlobal(name, scope.Struct) }
func (e *Environment) GetEnum(name string) (value.Value, bool)      { return e.getGlobal(name, scope.Enum) }

func (e *Environment) lookupChain(name string, tags ...scope.Tag) (value.Value, bool) {
	for l := e.Current; l != nil; l = l.Outer {
		l.mu.Lock()
		i, ok := l.find(name, tags...)
		var v value.Value
		if ok {
			v = l.objects[i].Value
		}
		l.mu.Unlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

func (e *Environment) getGlobal(name string, tag scope.Tag) (value.Value, bool) {
	e.Global.mu.Lock()
	defer e.Global.mu.Unlock()
	i, ok := e.Global.find(name, tag)
	if !ok {
		return nil, false
	}
	return e.Global.objects[i].Value, true
}

// Get implements value.Scope for Reference values: it is the generic
// "read this name from wherever it resolves" used when dereferencing a
// captured layer. It tries the variable path first since a captured
// Reference is always to a place expression, never a bare function name.
func (e *Environment) Get(name string) (value.Value, bool) { return e.GetVariable(name) }

// --- Writes ------------------------------------------------------------

// Define creates a binding under tag in the current layer. Define itself
// always overwrites an existing same-tag binding; callers (the evaluator's
// Dim handling) decide whether redefinition is tolerated and raise the
// DefinitionError after checking existence first via HasLocal.
func (e *Environment) Define(name string, v value.Value, tag scope.Tag) {
	e.Current.mu.Lock()
	defer e.Current.mu.Unlock()
	if i, ok := e.Current.find(name, tag); ok {
		e.Current.objects[i].Value = v
		return
	}
	e.Current.objects = append(e.Current.objects, NamedObject{Name: key(name), Value: v, Scope: tag})
}

// HasLocal reports whether name is already bound under tag in the current
// (innermost) layer only — used to enforce the "redefining a name in the
// same tag within the same layer is an error" rule.
func (e *Environment) HasLocal(name string, tag scope.Tag) bool {
	e.Current.mu.Lock()
	defer e.Current.mu.Unlock()
	_, ok := e.Current.find(name, tag)
	return ok
}

// DefineGlobal creates (or, for Public, overwrites) a binding in the global
// layer.
func (e *Environment) DefineGlobal(name string, v value.Value, tag scope.Tag) error {
	e.Global.mu.Lock()
	defer e.Global.mu.Unlock()
	if i, ok := e.Global.find(name, tag); ok {
		if !tag.Redefinable() {
			return fmt.Errorf("%s %q is already defined", tag, name)
		}
		e.Global.objects[i].Value = v
		return nil
	}
	e.Global.objects = append(e.Global.objects, NamedObject{Name: key(name), Value: v, Scope: tag})
	return nil
}

// HasGlobal reports whether name is bound under tag in the global layer.
func (e *Environment) HasGlobal(name string, tag scope.Tag) bool {
	e.Global.mu.Lock()
	defer e.Global.mu.Unlock()
	_, ok := e.Global.find(name, tag)
	return ok
}

// SetVariable implements the plain-identifier write rule: first a
// Local in the current chain, then a Public in the current chain
// (injected locals for module-function scopes), then global Local, then
// global Public. ok is false when no existing binding was found (the
// caller must then decide whether to define a fresh Local, per the
// explicit-declaration option).
func (e *Environment) SetVariable(name string, v value.Value) bool {
	for l := e.Current; l != nil; l = l.Outer {
		l.mu.Lock()
		if i, ok := l.find(name, scope.Local); ok {
			l.objects[i].Value = v
			l.mu.Unlock()
			return true
		}
		if i, ok := l.find(name, scope.Public); ok {
			l.objects[i].Value = v
			l.mu.Unlock()
			return true
		}
		l.mu.Unlock()
	}
	e.Global.mu.Lock()
	defer e.Global.mu.Unlock()
	if i, ok := e.Global.find(name, scope.Local); ok {
		e.Global.objects[i].Value = v
		return true
	}
	if i, ok := e.Global.find(name, scope.Public); ok {
		e.Global.objects[i].Value = v
		return true
	}
	return false
}

// Set implements value.Scope for Reference write-back.
func (e *Environment) Set(name string, v value.Value) error {
	if e.SetVariable(name, v) {
		return nil
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// IsConst reports whether name resolves to a Const binding anywhere in the
// chain (assignment to Const, and to any BuiltinConst, is always an
// error).
func (e *Environment) IsConst(name string) bool {
	if _, ok := e.lookupChain(name, scope.Const); ok {
		return true
	}
	_, ok := e.getGlobal(name, scope.Const)
	return ok
}

func (e *Environment) IsBuiltinConst(name string) bool {
	_, ok := e.getGlobal(name, scope.BuiltinConst)
	return ok
}

// CheckSpecialAssignment implements the reserved "special assignment"
// convention: assigning the HASH_REMOVEALL pseudo-constant (109) to
// a variable currently bound to a HashTbl clears the table in place
// instead of overwriting the binding with a plain number. Returns false
// when the caller must skip the normal assignment (the special case
// already mutated old in place); true otherwise.
func CheckSpecialAssignment(old, newVal value.Value) bool {
	h, ok := old.(*value.HashTbl)
	if !ok {
		return true
	}
	if n, ok := newVal.(value.Num); ok && n.Val == 109 {
		h.Clear()
		return false
	}
	return true
}
