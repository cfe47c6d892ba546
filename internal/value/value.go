// Package value implements the evaluator's single tagged value universe.
// Value is intentionally one flat, closed interface with one concrete type
// per variant rather than a family of unrelated types — Go has no sum
// types, so a sealed interface plus package-private marker methods is the
// idiomatic stand-in.
package value

import "fmt"

// Kind identifies which Value variant a value holds. The set is closed:
// adding a new Kind is a deliberate design event.
type Kind int

const (
	KindEmpty Kind = iota
	KindNull
	KindNothing
	KindBool
	KindNum
	KindString
	KindExpandableString
	KindArray
	KindByteArray
	KindHashTbl
	KindUObject
	KindFunction
	KindAsyncFunction
	KindBuiltinFunction
	KindClass
	KindStructDef
	KindStruct
	KindModule
	KindInstance
	KindEnum
	KindTask
	KindReference
	KindMemberCaller
	KindExit
	KindContinue
	KindBreak
	KindEmptyParam
	KindGlobal
)

var kindNames = map[Kind]string{
	KindEmpty:            "Empty",
	KindNull:              "Null",
	KindNothing:           "Nothing",
	KindBool:              "Bool",
	KindNum:               "Num",
	KindString:            "String",
	KindExpandableString:  "ExpandableString",
	KindArray:             "Array",
	KindByteArray:         "ByteArray",
	KindHashTbl:           "HashTbl",
	KindUObject:           "UObject",
	KindFunction:          "Function",
	KindAsyncFunction:     "AsyncFunction",
	KindBuiltinFunction:   "BuiltinFunction",
	KindClass:             "Class",
	KindStructDef:         "StructDef",
	KindStruct:            "Struct",
	KindModule:            "Module",
	KindInstance:          "Instance",
	KindEnum:              "Enum",
	KindTask:              "Task",
	KindReference:         "Reference",
	KindMemberCaller:      "MemberCaller",
	KindExit:              "Exit",
	KindContinue:          "Continue",
	KindBreak:             "Break",
	KindEmptyParam:        "EmptyParam",
	KindGlobal:            "Global",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is implemented by every variant in the tagged union. Kind reports
// which variant it is; String renders the value the way a script's PRINT
// statement would.
type Value interface {
	Kind() Kind
	String() string
}

// Empty is "no value" — the zero state of an uninitialized variable.
type Empty struct{}

func (Empty) Kind() Kind      { return KindEmpty }
func (Empty) String() string  { return "" }

// Null stringifies to "NULL" and is distinct from Empty: Empty is absence,
// Null is an explicit value meaning "no value" from the script's own
// perspective (e.g. returned by a builtin that found nothing).
type Null struct{}

func (Null) Kind() Kind     { return KindNull }
func (Null) String() string { return "NULL" }

// Nothing is the released-instance sentinel: assigning Nothing to a
// variable that held an Instance releases that instance's reference
// (see Instance.Release).
type Nothing struct{}

func (Nothing) Kind() Kind     { return KindNothing }
func (Nothing) String() string { return "NOTHING" }

// Bool is a boolean value.
type Bool struct{ Val bool }

func (Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b.Val {
		return "True"
	}
	return "False"
}

// Num is a numeric value; all numbers are IEEE-754 doubles. Integer
// contexts floor the value toward zero rather than rounding.
type Num struct{ Val float64 }

func (Num) Kind() Kind { return KindNum }
func (n Num) String() string {
	if n.Val == float64(int64(n.Val)) {
		return fmt.Sprintf("%d", int64(n.Val))
	}
	return fmt.Sprintf("%g", n.Val)
}

// String is a literal text value. Comparison is case-insensitive unless
// the evaluator's SameStr option says otherwise.
type String struct{ Val string }

func (String) Kind() Kind     { return KindString }
func (s String) String() string { return s.Val }

// ExpandableString is an unexpanded `<#NAME>` template; it is expanded
// lazily by the evaluator on read (see internal/evaluator's expand step),
// not by this type's own String method, which returns the raw template.
type ExpandableString struct{ Val string }

func (ExpandableString) Kind() Kind     { return KindExpandableString }
func (s ExpandableString) String() string { return s.Val }

// EmptyParam is the default-argument sentinel: a call-site argument slot
// that was omitted, distinct from an explicit Empty value.
type EmptyParam struct{}

func (EmptyParam) Kind() Kind     { return KindEmptyParam }
func (EmptyParam) String() string { return "" }

// Global is the "global" pseudo-object, the receiver `global.X` resolves
// against to force a lookup in the global layer even when shadowed
// locally.
type Global struct{}

func (Global) Kind() Kind     { return KindGlobal }
func (Global) String() string { return "Global" }

// Exit, Continue and Break are control-flow sentinels threaded back up
// through statement evaluation; they are never visible to script code as
// ordinary values.
type Exit struct{}

func (Exit) Kind() Kind     { return KindExit }
func (Exit) String() string { return "" }

// Continue(N) targets the N-th enclosing loop; N == 1 means the innermost.
type Continue struct{ N int }

func (Continue) Kind() Kind     { return KindContinue }
func (Continue) String() string { return "" }

// Break(N) targets the N-th enclosing loop; N == 1 means the innermost.
type Break struct{ N int }

func (Break) Kind() Kind     { return KindBreak }
func (Break) String() string { return "" }

// IsControlSignal reports whether v is one of Exit/Continue/Break —
// sentinels that must short-circuit statement-list execution rather than
// be treated as an ordinary produced value.
func IsControlSignal(v Value) bool {
	switch v.(type) {
	case Exit, Continue, Break:
		return true
	default:
		return false
	}
}
