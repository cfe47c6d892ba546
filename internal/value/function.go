package value

import "github.com/uwscr/uwscr-core/ast"

// Function is a named or anonymous user-defined callable, optionally bound
// to a Module (when it is a module/class member, so that calls through it
// carry the right `this`). Function never strongly owns Module in a way
// that would keep it alive past the module's own lifetime — callers reach
// the module through the environment/instance, not through this pointer's
// existence.
type Function struct {
	Name   string
	Params []ast.Param
	Body   []ast.Statement
	// IsProc marks a procedure: its call returns Empty instead of the
	// callee scope's `result` binding.
	IsProc bool
	Module *Module // nil for free functions
	// CapturedLocals holds a snapshot of the defining scope's locals for
	// anonymous functions, which run with a captured copy of the defining
	// scope's locals; nil for named
	// functions, which resolve free variables through the normal scope
	// chain instead.
	CapturedLocals map[string]Value
}

func (*Function) Kind() Kind     { return KindFunction }
func (f *Function) String() string { return "Function<" + f.Name + ">" }

// AsyncFunction is a Function whose invocation spawns a Task rather than
// running synchronously.
type AsyncFunction struct {
	*Function
}

func (*AsyncFunction) Kind() Kind { return KindAsyncFunction }
func (f *AsyncFunction) String() string { return "AsyncFunction<" + f.Name + ">" }

// BuiltinArgs is the typed argument wrapper builtins receive, rather than a
// bare []Value, so a builtin can report which positional argument was bad.
type BuiltinArgs struct {
	Values []Value
}

func (a BuiltinArgs) Len() int { return len(a.Values) }

func (a BuiltinArgs) Get(i int) Value {
	if i < 0 || i >= len(a.Values) {
		return Empty{}
	}
	return a.Values[i]
}

// BuiltinFn is the host-side function signature every builtin implements.
// eval is an opaque *evaluator.Evaluator passed as any to avoid a circular
// import between value and evaluator; builtins that need evaluator
// services type-assert it through the internal/builtins registry, which
// alone knows the concrete type.
type BuiltinFn func(eval any, args BuiltinArgs, isAwait bool) (Value, error)

// BuiltinFunction is a host-provided callable with a name, an arity upper
// bound (-1 meaning unbounded/variadic), and identity (two BuiltinFunction
// values are `=` only when they are the same *BuiltinFunction).
type BuiltinFunction struct {
	Name     string
	MaxArity int
	Fn       BuiltinFn
}

func (*BuiltinFunction) Kind() Kind { return KindBuiltinFunction }
func (b *BuiltinFunction) String() string { return "BuiltinFunction<" + b.Name + ">" }

// Scope is the minimal read/write surface a Reference needs from whatever
// scope layer it was captured in. *env.Environment satisfies this
// interface structurally; value deliberately does not import env; letting
// the environment reach into Reference would otherwise form an import
// cycle value<->env.
type Scope interface {
	Get(name string) (Value, bool)
	Set(name string, v Value) error
}

// Reference is a by-ref argument binding: the place expression that was
// passed, plus the scope layer it was captured in. Reading evaluates Expr
// in Layer; writing re-runs the assignment protocol against Expr in Layer.
// Multi-step references (a Reference that itself resolves to a Reference)
// are dereferenced in a loop by the evaluator until a concrete value is
// reached.
type Reference struct {
	Expr  ast.Expression
	Layer Scope
}

func (*Reference) Kind() Kind     { return KindReference }
func (*Reference) String() string { return "<reference>" }

// MemberCaller is the two-stage dispatch token for host (COM/browser/
// WebView) objects: (Receiver, Member). A call against it is routed to the
// second-stage dispatcher keyed by (receiver kind, member name); reading it
// as a value may itself yield another MemberCaller (indexed properties).
type MemberCaller struct {
	Receiver Value
	Member   string
}

func (*MemberCaller) Kind() Kind     { return KindMemberCaller }
func (m *MemberCaller) String() string { return m.Receiver.String() + "." + m.Member }
