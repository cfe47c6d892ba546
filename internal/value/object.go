package value

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/uwscr/uwscr-core/ast"
	"github.com/uwscr/uwscr-core/internal/scope"
)

// Member is one named, tagged entry of a Module — the module-scoped analog
// of env.NamedObject, kept as its own (simpler) type here so that value
// does not need to import env (which imports value).
type Member struct {
	Name  string
	Val   Value
	Scope scope.Tag
}

// Module is a named, shared, mutable container of members. Two
// Modules compare equal iff their Name matches — member contents are not
// part of equality.
type Module struct {
	mu      sync.Mutex
	Name    string
	members []Member
}

// NewModule creates an empty Module named name.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

func (*Module) Kind() Kind       { return KindModule }
func (m *Module) String() string { return "Module<" + m.Name + ">" }

// Equal compares modules by name only.
func (m *Module) Equal(other *Module) bool {
	if m == nil || other == nil {
		return m == other
	}
	return strings.EqualFold(m.Name, other.Name)
}

func memberKey(name string) string { return strings.ToUpper(name) }

// Add appends a new member. Callers are responsible for enforcing the
// redefinition rules before calling Add.
func (m *Module) Add(name string, v Value, tag scope.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = append(m.members, Member{Name: memberKey(name), Val: v, Scope: tag})
}

// Has reports whether name is bound under tag.
func (m *Module) Has(name string, tag scope.Tag) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(name)
	for _, mem := range m.members {
		if mem.Name == key && mem.Scope == tag {
			return true
		}
	}
	return false
}

// Get returns the member bound to name under tag.
func (m *Module) Get(name string, tag scope.Tag) (Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(name)
	for _, mem := range m.members {
		if mem.Name == key && mem.Scope == tag {
			return mem.Val, true
		}
	}
	return nil, false
}

// GetAny returns the first member bound to name under any tag, and that
// tag — used for visibility checks where the caller doesn't yet know
// whether the member is Local, Public, Const, or Function.
func (m *Module) GetAny(name string) (Value, scope.Tag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(name)
	for _, mem := range m.members {
		if mem.Name == key {
			return mem.Val, mem.Scope, true
		}
	}
	return nil, 0, false
}

// Set overwrites the value of the member bound to name under tag. ok is
// false if no such member exists.
func (m *Module) Set(name string, tag scope.Tag, v Value) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memberKey(name)
	for i := range m.members {
		if m.members[i].Name == key && m.members[i].Scope == tag {
			m.members[i].Val = v
			return true
		}
	}
	return false
}

// Members returns a snapshot copy of all members.
func (m *Module) Members() []Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Member, len(m.members))
	copy(cp, m.members)
	return cp
}

// Constructor returns the Function member whose name matches the module's
// own name (the class constructor convention), if any.
func (m *Module) Constructor() (*Function, bool) {
	v, ok := m.Get(m.Name, scope.Function)
	if !ok {
		return nil, false
	}
	fn, ok := v.(*Function)
	return fn, ok
}

// DestructorName is the fixed decoration `_<Name>_` a module's destructor
// method must be named.
func (m *Module) DestructorName() string { return "_" + m.Name + "_" }

// Destructor returns the destructor member, if one is defined.
func (m *Module) Destructor() (*Function, bool) {
	v, ok := m.Get(m.DestructorName(), scope.Function)
	if !ok {
		return nil, false
	}
	fn, ok := v.(*Function)
	return fn, ok
}

// Clear drops all members, run when an Instance's last reference is
// released.
func (m *Module) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = nil
}

// Class is an unevaluated class template: a name plus its member
// declaration block. Invoking it (see the evaluator's call dispatcher)
// evaluates Members once into a fresh Module, then calls that module's
// constructor to produce an Instance.
type Class struct {
	Name    string
	Members []ast.Statement
}

func (*Class) Kind() Kind     { return KindClass }
func (c *Class) String() string { return "Class<" + c.Name + ">" }

// Instance is a shared reference to a per-class Module with explicit
// reference-counted lifecycle: Retain/Release track the reference count
// explicitly, since Go's tracing GC gives no deterministic drop hook to
// run a script-visible destructor from.
// Release runs the destructor and clears the module on the transition from
// 1 reference to 0.
type Instance struct {
	Mod      *Module
	refcount int32
}

// NewInstance wraps mod with no outstanding holds; every binding that
// stores the Instance (variable, member, or parameter slot) takes its own
// hold via Retain.
func NewInstance(mod *Module) *Instance {
	return &Instance{Mod: mod}
}

func (*Instance) Kind() Kind     { return KindInstance }
func (i *Instance) String() string { return "Instance<" + i.Mod.Name + ">" }

// Retain increments the reference count. The evaluator calls it whenever
// the Instance is stored into a variable, member, or parameter binding, so
// aliasing an Instance into a second name keeps it alive until the last
// name is released.
func (i *Instance) Retain() { atomic.AddInt32(&i.refcount, 1) }

// Release decrements the reference count. When it reaches zero it runs the
// destructor (if any, with `this` bound to i) via destroyFn and then clears
// the module's members. destroyFn is supplied by the evaluator, which
// alone knows how to invoke a Function.
func (i *Instance) Release(destroyFn func(*Instance, *Function)) {
	if atomic.AddInt32(&i.refcount, -1) > 0 {
		return
	}
	if fn, ok := i.Mod.Destructor(); ok && destroyFn != nil {
		destroyFn(i, fn)
	}
	i.Mod.Clear()
}

// Enum is a sorted name -> number map.
type Enum struct {
	Name    string
	Members []string
	Values  map[string]float64
}

func (*Enum) Kind() Kind     { return KindEnum }
func (e *Enum) String() string { return "Enum<" + e.Name + ">" }

// Get returns the numeric value bound to a member name.
func (e *Enum) Get(name string) (float64, bool) {
	v, ok := e.Values[strings.ToUpper(name)]
	return v, ok
}

// StructDef is a named foreign-memory layout description, consumed by the
// StructDef call-dispatch rule to produce a Struct instance.
type StructDef struct {
	Name   string
	Fields []ast.StructField
}

func (*StructDef) Kind() Kind     { return KindStructDef }
func (s *StructDef) String() string { return "StructDef<" + s.Name + ">" }

// Struct is a pointer-backed foreign-memory instance with typed members.
// Ptr is 0 for a zero-initialised instance owned by this Struct (Owned ==
// true); a non-zero Ptr with Owned == false means the struct is a view
// onto externally-owned memory (the 1-argument StructDef constructor form
//).
type Struct struct {
	Def    *StructDef
	Ptr    uintptr
	Owned  bool
	Fields map[string]Value
}

func (*Struct) Kind() Kind     { return KindStruct }
func (s *Struct) String() string { return "Struct<" + s.Def.Name + ">" }

// Task is a handle joining a background evaluator thread. Result
// and Err are populated once Done is closed.
type Task struct {
	Done   chan struct{}
	Result Value
	Err    error
}

func NewTask() *Task {
	return &Task{Done: make(chan struct{})}
}

func (*Task) Kind() Kind     { return KindTask }
func (*Task) String() string { return "Task" }

// Join blocks until the task completes and returns its result or error.
func (t *Task) Join() (Value, error) {
	<-t.Done
	return t.Result, t.Err
}

// Finish completes the task with a result or error and wakes any joiners.
// It must be called exactly once.
func (t *Task) Finish(res Value, err error) {
	t.Result, t.Err = res, err
	close(t.Done)
}
