// Package evaluator implements the tree-walking execution engine:
// statement/expression dispatch, control flow, the call dispatcher, the
// reference-argument protocol, and the thread/task runtime. Eval/EvalExpr
// type-switch over the closed ast node sets and delegate to one
// eval<Stmt>/eval<Expr> helper per case, with explicit
// (value.Value, error) returns throughout.
package evaluator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uwscr/uwscr-core/ast"
	"github.com/uwscr/uwscr-core/internal/builtins"
	"github.com/uwscr/uwscr-core/internal/com"
	"github.com/uwscr/uwscr-core/internal/dll"
	"github.com/uwscr/uwscr-core/internal/env"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/logging"
	"github.com/uwscr/uwscr-core/internal/settings"
	"github.com/uwscr/uwscr-core/internal/value"
	"github.com/uwscr/uwscr-core/token"
)

// Evaluator holds one script's execution state: its environment, the
// builtin registry it calls into, the optional native-call backends, and
// a small cache of hot option flags read on every conditional/expansion.
type Evaluator struct {
	Env      *env.Environment
	Builtins *builtins.Registry
	Dll      dll.Library // nil unless a DefDll backend is wired in
	Com      map[string]com.Object

	Output io.Writer // PRINT sink; defaults to os.Stdout

	ScriptName string
	Lines      []string

	ShortCircuit bool // cached copy of settings.Current().ShortCircuit
	SpecialChar  bool // cached copy of the special-char (skip expansion) option
	TruthMode    value.TruthMode

	comErrIgnore  bool // COM-error-ignore mode is active (ComErrIgn/ComErrRet)
	comErrIgnored bool // "an error was ignored" flag, read by ComErrExpr

	// callDepth guards against runaway recursion in user scripts; goroutine
	// stacks already grow on demand, so a depth cap is all the protection
	// deep call chains need.
	callDepth int

	// thisModule/thisValue carry the receiver of the call frame currently
	// executing, for private-member visibility and `this.X` member
	// access; both are nil outside a module/class method body.
	thisModule *value.Module
	thisValue  value.Value

	// withStack holds the implicit receiver(s) of any enclosing WITH
	// blocks, innermost last; a DotExpr/DotCallExpr with a nil Receiver
	// resolves against withStack's top (see dotReceiver in assign.go).
	withStack []value.Value
}

const maxCallDepth = 4096

// New creates an Evaluator with a fresh root environment seeded with
// params (PARAM_STR), the default builtin registry, and the current
// process-wide settings cached locally.
func New(params []string) *Evaluator {
	s := settings.Current()
	return &Evaluator{
		Env:          env.New(params),
		Builtins:     builtins.Default(),
		Com:          map[string]com.Object{},
		Output:       os.Stdout,
		ShortCircuit: s.ShortCircuit,
		TruthMode:    truthModeFromSettings(s),
	}
}

func truthModeFromSettings(s settings.Settings) value.TruthMode {
	switch {
	case s.ForceBool:
		return value.ForceBool
	case s.ConditionLegacy:
		return value.Legacy
	default:
		return value.Default
	}
}

// childWithEnv returns a shallow copy of e sharing Builtins/Dll/Com and
// option caches but rooted at a different Environment — used both for
// PushScope-style nested scopes and for thread/task clones.
func (e *Evaluator) childWithEnv(next *env.Environment) *Evaluator {
	cp := *e
	cp.Env = next
	cp.callDepth = e.callDepth
	return &cp
}

// Run executes prog: global-section statements (definitions) first, then
// script-section statements. If clear is set, all local bindings in
// the current layer are dropped before returning. Returns the last
// produced value, or Empty if the program produced none; Exit terminates
// the script normally and is not surfaced as an error.
func (e *Evaluator) Run(prog *ast.Program, clear bool) (value.Value, error) {
	e.Lines = prog.Lines
	if e.ScriptName == "" {
		e.ScriptName = prog.ScriptName
	}
	logging.InitFromEnv(settings.Current().LogFileKind)

	var last value.Value = value.Empty{}
	for _, stmt := range prog.Global {
		v, err := e.Eval(stmt)
		if err != nil {
			return nil, e.annotate(err, stmt.Pos())
		}
		if _, ok := v.(value.Exit); ok {
			return last, nil
		}
		if v != nil && !value.IsControlSignal(v) {
			last = v
		}
	}
	for _, stmt := range prog.Script {
		v, err := e.Eval(stmt)
		if err != nil {
			return nil, e.annotate(err, stmt.Pos())
		}
		if _, ok := v.(value.Exit); ok {
			break
		}
		if v != nil && !value.IsControlSignal(v) {
			last = v
		}
	}
	if clear {
		e.Env.Current = &env.Layer{}
	}
	return last, nil
}

// annotate attaches pos to err if it is a *uerrors.UError with no position
// yet set — an unannotated error receives the current statement's line
// before being re-raised — converting plain errors to UError first.
func (e *Evaluator) annotate(err error, pos token.Position) error {
	ue := uerrors.AsUError(err)
	if e.Lines != nil && pos.Row > 0 && pos.Row <= len(e.Lines) && pos.Line == "" {
		pos.Line = e.Lines[pos.Row-1]
	}
	if pos.Script == "" {
		pos.Script = e.ScriptName
	}
	return ue.WithPos(pos)
}

// Eval dispatches a single statement. Its return value is either the
// statement's produced value (for expression/print/call-like statements),
// a control signal (Exit/Continue/Break), or Empty.
func (e *Evaluator) Eval(s ast.Statement) (value.Value, error) {
	if e.callDepth > maxCallDepth {
		return nil, uerrors.New(uerrors.EvaluatorError, "call stack exceeded")
	}
	var v value.Value
	var err error
	switch n := s.(type) {
	case *ast.DimStatement:
		v, err = e.evalDim(n)
	case *ast.PublicStatement:
		v, err = e.evalPublic(n)
	case *ast.ConstStatement:
		v, err = e.evalConst(n)
	case *ast.TextBlockStatement:
		v, err = e.evalTextBlock(n)
	case *ast.HashTblStatement:
		v, err = e.evalHashTbl(n)
	case *ast.HashStatement:
		v, err = e.evalHash(n)
	case *ast.DefDllStatement:
		v, err = e.evalDefDll(n)
	case *ast.StructStatement:
		v, err = e.evalStructDecl(n)
	case *ast.FunctionStatement:
		v, err = e.evalFunctionDecl(n)
	case *ast.ModuleStatement:
		v, err = e.evalModuleDecl(n)
	case *ast.ClassStatement:
		v, err = e.evalClassDecl(n)
	case *ast.EnumStatement:
		v, err = e.evalEnumDecl(n)
	case *ast.ForStatement:
		v, err = e.evalFor(n)
	case *ast.ForInStatement:
		v, err = e.evalForIn(n)
	case *ast.WhileStatement:
		v, err = e.evalWhile(n)
	case *ast.RepeatStatement:
		v, err = e.evalRepeat(n)
	case *ast.IfStatement:
		v, err = e.evalIf(n)
	case *ast.IfSingleLineStatement:
		v, err = e.evalIfSingleLine(n)
	case *ast.SelectStatement:
		v, err = e.evalSelect(n)
	case *ast.WithStatement:
		v, err = e.evalWith(n)
	case *ast.TryStatement:
		v, err = e.evalTry(n)
	case *ast.ThreadStatement:
		v, err = e.evalThread(n)
	case *ast.ContinueStatement:
		v, err = value.Continue{N: max1(n.N)}, nil
	case *ast.BreakStatement:
		v, err = value.Break{N: max1(n.N)}, nil
	case *ast.ExitStatement:
		v, err = value.Exit{}, nil
	case *ast.ExitExitStatement:
		v, err = e.evalExitExit(n)
	case *ast.ComErrIgnStatement:
		e.comErrIgnore = true
		v, err = value.Empty{}, nil
	case *ast.ComErrRetStatement:
		e.comErrIgnore = false
		v, err = value.Empty{}, nil
	case *ast.ExpressionStatement:
		v, err = e.EvalExpr(n.Expr)
	case *ast.PrintStatement:
		v, err = e.evalPrint(n)
	case *ast.CallStatement:
		v, err = e.EvalExpr(n.Call)
	case *ast.OptionStatement:
		v, err = e.evalOption(n)
	default:
		return nil, uerrors.New(uerrors.EvaluatorError, "unknown statement type: %T", s)
	}
	if err != nil {
		ue := uerrors.AsUError(err)
		if ue.IsCOMError && e.comErrIgnore {
			e.comErrIgnored = true
			return value.Empty{}, nil
		}
		return nil, e.annotate(err, s.Pos())
	}
	return v, nil
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// evalBlock runs stmts in e's current environment, stopping early and
// propagating a control signal (Exit/Continue/Break) the moment one is
// produced.
func (e *Evaluator) evalBlock(stmts []ast.Statement) (value.Value, error) {
	var last value.Value = value.Empty{}
	for _, s := range stmts {
		v, err := e.Eval(s)
		if err != nil {
			return nil, err
		}
		if value.IsControlSignal(v) {
			return v, nil
		}
		if v != nil {
			last = v
		}
	}
	return last, nil
}

func (e *Evaluator) evalPrint(n *ast.PrintStatement) (value.Value, error) {
	v, err := e.EvalExpr(n.Expr)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(e.Output, v.String())
	return value.Empty{}, nil
}

func (e *Evaluator) evalOption(n *ast.OptionStatement) (value.Value, error) {
	v, err := e.EvalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	updated := settings.Update(func(s *settings.Settings) {
		applyOption(s, n.Name, v)
	})
	e.ShortCircuit = updated.ShortCircuit
	e.TruthMode = truthModeFromSettings(updated)
	e.SpecialChar = specialCharFromName(n.Name, v, e.SpecialChar)
	return value.Empty{}, nil
}

func specialCharFromName(name string, v value.Value, cur bool) bool {
	if !equalFoldName(name, "SPECIALCHAR") {
		return cur
	}
	b, _ := value.Truthy(v, value.Default)
	return b
}

func applyOption(s *settings.Settings, name string, v value.Value) {
	b, _ := value.Truthy(v, value.Default)
	switch {
	case equalFoldName(name, "EXPLICIT"):
		s.ExplicitDeclaration = b
	case equalFoldName(name, "SAMESTR"):
		s.SameStr = b
	case equalFoldName(name, "SHORTCIRCUIT"):
		s.ShortCircuit = b
	case equalFoldName(name, "FORCEBOOL"):
		s.ForceBool = b
	case equalFoldName(name, "CONDITIONLEVEL"), equalFoldName(name, "CONDITIONLEGACY"):
		s.ConditionLegacy = b
	case equalFoldName(name, "FINALLYALWAYS"):
		s.FinallyAlways = b
	case equalFoldName(name, "GUIPRINT"):
		s.GUIPrint = b
	}
}

func equalFoldName(a, b string) bool { return strings.EqualFold(a, b) }

func (e *Evaluator) evalExitExit(n *ast.ExitExitStatement) (value.Value, error) {
	code := 0
	if n.Code != nil {
		v, err := e.EvalExpr(n.Code)
		if err != nil {
			return nil, err
		}
		c, err := value.ToInt(v)
		if err != nil {
			return nil, err
		}
		code = int(c)
	}
	return nil, uerrors.NewExitExit(code)
}
