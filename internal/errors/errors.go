// Package errors implements the evaluator's error model: a closed set
// of error kinds, each carrying a structured message, a COM-error flag, and
// a source-line annotation attached the first time the error crosses a
// propagation site that has position information.
package errors

import (
	"fmt"

	"github.com/uwscr/uwscr-core/token"
)

// Kind is the closed error-kind set.
type Kind int

const (
	SyntaxError Kind = iota
	EvaluatorError
	AssignError
	DefinitionError
	ArrayError
	HashtblError
	UObjectError
	UStructError
	DotOperatorError
	ClassError
	ModuleError
	FuncCallError
	FuncDefError
	OperatorError
	PrefixError
	BuiltinFunctionError
	BrowserControlError
	DevtoolsProtocolError
	WebRequestError
	DllFuncError
	EnumError
	TaskError
	InitializeError
	ExitExitKind
	PoffKind
	AnyKind
)

func (k Kind) String() string {
	names := [...]string{
		"SyntaxError", "EvaluatorError", "AssignError", "DefinitionError",
		"ArrayError", "HashtblError", "UObjectError", "UStructError",
		"DotOperatorError", "ClassError", "ModuleError", "FuncCallError",
		"FuncDefError", "OperatorError", "PrefixError", "BuiltinFunctionError",
		"BrowserControlError", "DevtoolsProtocolError", "WebRequestError",
		"DllFuncError", "EnumError", "TaskError", "InitializeError",
		"ExitExit", "Poff", "Any",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "UnknownError"
}

// DefinitionKind distinguishes what sort of entity a DefinitionError
// refers to (Variable, Const, Function, Module, Class, HashTbl).
type DefinitionKind int

const (
	DefVariable DefinitionKind = iota
	DefConst
	DefFunction
	DefModule
	DefClass
	DefHashTbl
)

func (d DefinitionKind) String() string {
	names := [...]string{"Variable", "Const", "Function", "Module", "Class", "HashTbl"}
	if int(d) < len(names) {
		return names[d]
	}
	return "Unknown"
}

// UError is the evaluator's single error type: a Kind tag, a human message,
// whether it originated as a COM error, and the source position it was
// raised (or later annotated) at.
type UError struct {
	Kind       Kind
	Message    string
	IsCOMError bool
	Pos        token.Position
	// ExitCode is only meaningful when Kind == ExitExitKind.
	ExitCode int
	// PoffFlag records whether the enclosing finally should still run for
	// a power-off signal (Poff) that bypasses except.
	PoffFlag bool
}

func (e *UError) Error() string {
	if e.Pos.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Pos)
}

// WithPos returns a copy of e with Pos set, if it was not already set: an
// unannotated error receives the current statement's line before being
// re-raised.
func (e *UError) WithPos(pos token.Position) *UError {
	if !e.Pos.IsZero() {
		return e
	}
	cp := *e
	cp.Pos = pos
	return &cp
}

// New constructs a plain UError of the given kind and message.
func New(kind Kind, format string, args ...any) *UError {
	return &UError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewCOMError constructs a COM-flagged UError.
func NewCOMError(format string, args ...any) *UError {
	return &UError{Kind: EvaluatorError, Message: fmt.Sprintf(format, args...), IsCOMError: true}
}

// NewDefinitionError builds a DefinitionError(kind) for name.
func NewDefinitionError(kind DefinitionKind, name string) *UError {
	return &UError{Kind: DefinitionError, Message: fmt.Sprintf("%s %q is already defined", kind, name)}
}

// NewExitExit builds the process-terminating ExitExit(code) error.
func NewExitExit(code int) *UError {
	return &UError{Kind: ExitExitKind, Message: fmt.Sprintf("exit(%d)", code), ExitCode: code}
}

// AsUError unwraps err into a *UError, wrapping it as an AnyKind catch-all
// if it is some other error type (e.g. from a builtin or the dll/com
// contracts).
func AsUError(err error) *UError {
	if err == nil {
		return nil
	}
	if ue, ok := err.(*UError); ok {
		return ue
	}
	return &UError{Kind: AnyKind, Message: err.Error()}
}

// IsControlError reports whether err is ExitExit or Poff — errors that
// bypass except but still run finally when FinallyAlways is set.
func IsControlError(err *UError) bool {
	return err != nil && (err.Kind == ExitExitKind || err.Kind == PoffKind)
}
