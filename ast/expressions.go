package ast

// Identifier is a bare name reference, resolved per the variable/function
// precedence rules of the name-resolution model.
type Identifier struct{ Name string }

func (*Identifier) expressionNode() {}
func (i *Identifier) String() string { return i.Name }

// NumberLiteral is a numeric literal; all numbers are IEEE-754 doubles.
type NumberLiteral struct{ Value float64 }

func (*NumberLiteral) expressionNode() {}
func (n *NumberLiteral) String() string { return "<num>" }

// StringLiteral is a literal string with no `<#NAME>` expansion.
type StringLiteral struct{ Value string }

func (*StringLiteral) expressionNode()  {}
func (s *StringLiteral) String() string { return s.Value }

// ExpandableStringLiteral is a literal whose `<#NAME>` escapes are expanded
// lazily on read against the current scope.
type ExpandableStringLiteral struct{ Value string }

func (*ExpandableStringLiteral) expressionNode()  {}
func (s *ExpandableStringLiteral) String() string { return s.Value }

// BoolLiteral is a literal TRUE/FALSE.
type BoolLiteral struct{ Value bool }

func (*BoolLiteral) expressionNode()  {}
func (b *BoolLiteral) String() string { return "<bool>" }

// NullLiteral, NothingLiteral and EmptyLiteral denote the three non-Bool
// "absence" singletons of the value universe.
type NullLiteral struct{}
type NothingLiteral struct{}
type EmptyLiteral struct{}

func (*NullLiteral) expressionNode()    {}
func (*NullLiteral) String() string     { return "NULL" }
func (*NothingLiteral) expressionNode() {}
func (*NothingLiteral) String() string  { return "NOTHING" }
func (*EmptyLiteral) expressionNode()   {}
func (*EmptyLiteral) String() string    { return "EMPTY" }

// ArrayLiteral is a bare `[e1, e2, ...]` constructor with no dimension list;
// multi-dimensional arrays are built by the Dim statement's dimension list
// (see DimStatement), which the evaluator turns into nested Array values.
type ArrayLiteral struct{ Elements []Expression }

func (*ArrayLiteral) expressionNode()  {}
func (a *ArrayLiteral) String() string { return "<array>" }

// UObjectLiteral is a raw JSON-object/array literal, parsed lazily into a
// UObject value on evaluation.
type UObjectLiteral struct{ JSON string }

func (*UObjectLiteral) expressionNode()  {}
func (u *UObjectLiteral) String() string { return u.JSON }

// PrefixExpr is a unary operator applied to Right: `-x`, `NOT x`.
type PrefixExpr struct {
	Operator string
	Right    Expression
}

func (*PrefixExpr) expressionNode()  {}
func (p *PrefixExpr) String() string { return p.Operator + p.Right.String() }

// InfixExpr is a binary operator. Operator is one of the arithmetic,
// comparison, or logical/bitwise operators, including the
// short-circuit-aware AndL/OrL/XorL and the bitwise AndB/OrB/XorB variants.
type InfixExpr struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (*InfixExpr) expressionNode() {}
func (i *InfixExpr) String() string {
	return "(" + i.Left.String() + " " + i.Operator + " " + i.Right.String() + ")"
}

// IndexExpr is `Left[Index]`, or `Left[Index, HashOption]` when HashOption
// is non-nil (a HASH_EXISTS/HASH_REMOVE/HASH_KEY/HASH_VAL modifier).
type IndexExpr struct {
	Left       Expression
	Index      Expression
	HashOption Expression
}

func (*IndexExpr) expressionNode()  {}
func (i *IndexExpr) String() string { return i.Left.String() + "[...]" }

// DotExpr is a plain member read: `receiver.Member`.
type DotExpr struct {
	Receiver Expression
	Member   string
}

func (*DotExpr) expressionNode()  {}
func (d *DotExpr) String() string { return d.Receiver.String() + "." + d.Member }

// DotCallExpr is a method call through a member: `receiver.Method(args...)`.
type DotCallExpr struct {
	Receiver Expression
	Method   string
	Args     []Expression
	Await    bool
}

func (*DotCallExpr) expressionNode() {}
func (d *DotCallExpr) String() string {
	return d.Receiver.String() + "." + d.Method + "(...)"
}

// CallExpr invokes Function (resolved with call-site function precedence)
// with Args. Await marks an `await expr` call site for AsyncFunction.
type CallExpr struct {
	Function Expression
	Args     []Expression
	Await    bool
}

func (*CallExpr) expressionNode()  {}
func (c *CallExpr) String() string { return c.Function.String() + "(...)" }

// AnonymousFunctionExpr is a lambda literal; its body executes with a
// captured copy of the defining scope's locals.
type AnonymousFunctionExpr struct {
	Params  []Param
	Body    []Statement
	IsAsync bool
}

func (*AnonymousFunctionExpr) expressionNode()  {}
func (a *AnonymousFunctionExpr) String() string  { return "<anonymous function>" }

// AssignExpr is `Target = Value`.
type AssignExpr struct {
	Target Expression
	Value  Expression
}

func (*AssignExpr) expressionNode()  {}
func (a *AssignExpr) String() string { return a.Target.String() + " = " + a.Value.String() }

// CompoundAssignExpr is `Target op= Value` for op in {+,-,*,/}.
type CompoundAssignExpr struct {
	Target   Expression
	Operator string
	Value    Expression
}

func (*CompoundAssignExpr) expressionNode() {}
func (c *CompoundAssignExpr) String() string {
	return c.Target.String() + " " + c.Operator + "= " + c.Value.String()
}

// TernaryExpr is `Cond ? Then : Else`.
type TernaryExpr struct {
	Cond, Then, Else Expression
}

func (*TernaryExpr) expressionNode()  {}
func (t *TernaryExpr) String() string { return "<ternary>" }

// RefArgExpr marks a call argument as explicitly passed by reference. The
// wrapped expression must be a place expression (Identifier, IndexExpr, or
// DotExpr). The call dispatcher unwraps the marker and evaluates Target;
// whether the argument is written back is decided by the callee
// parameter's own Reference (or by-ref array) kind, not by this marker.
type RefArgExpr struct{ Target Expression }

func (*RefArgExpr) expressionNode()  {}
func (r *RefArgExpr) String() string { return "ref " + r.Target.String() }

// EmptyParamExpr is the placeholder passed in a call's argument slot to mean
// "use the parameter's default", distinguishing an intentionally-omitted
// argument from a value that happens to be Empty.
type EmptyParamExpr struct{}

func (*EmptyParamExpr) expressionNode()  {}
func (*EmptyParamExpr) String() string   { return "<empty param>" }

// CallbackExpr is a bare function name passed as a value (e.g. registering
// a hotkey handler) rather than invoked; it resolves to the Function or
// BuiltinFunction value itself, never calling it.
type CallbackExpr struct{ Name string }

func (*CallbackExpr) expressionNode()  {}
func (c *CallbackExpr) String() string { return "&" + c.Name }

// ComErrExpr reads the evaluator's "an error was ignored" flag (the
// `comerr` expression).
type ComErrExpr struct{}

func (*ComErrExpr) expressionNode() {}
func (*ComErrExpr) String() string  { return "comerr" }

// Param describes one function parameter slot.
type Param struct {
	Name       string
	Kind       ParamKind
	Default    Expression // evaluated in the callee scope when WithDefault
	TypeName   string     // non-empty for type-annotated parameters (number, string, bool, array, hash, func, uobject, or a class name)
	ArrayByRef bool       // for Kind == ParamArray: the array itself is passed by reference
}

// ParamKind is the closed set of parameter binding kinds.
type ParamKind int

const (
	ParamIdentifier ParamKind = iota
	ParamReference
	ParamArray
	ParamWithDefault
	ParamVariadic
)
