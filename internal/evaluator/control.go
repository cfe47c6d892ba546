package evaluator

import (
	"strconv"
	"strings"

	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/settings"
	"github.com/uwscr/uwscr-core/internal/value"
)

// loopStep is the outcome of running one loop-body iteration:
// the body either ran to completion, hit a break/continue targeting this
// loop, or produced a signal (Exit, or a Break/Continue targeting an
// outer loop) that must propagate past this loop entirely.
type loopStep struct {
	stop      bool        // this loop's iteration must end (break or continue-this-loop)
	broke     bool        // the loop should be treated as "did not finish by exhaustion"
	propagate value.Value // non-nil: return this value immediately, bypassing for/else
}

// runLoopIteration runs body once in e's current scope and classifies the
// result per the continue/break-N targeting rule: N<=1 is consumed by
// this loop; N>1 decrements and re-emits to the enclosing loop.
func (e *Evaluator) runLoopIteration(body []ast.Statement) (loopStep, error) {
	v, err := e.evalBlock(body)
	if err != nil {
		return loopStep{}, err
	}
	switch s := v.(type) {
	case value.Exit:
		return loopStep{stop: true, broke: true, propagate: v}, nil
	case value.Break:
		if s.N <= 1 {
			return loopStep{stop: true, broke: true}, nil
		}
		return loopStep{stop: true, broke: true, propagate: value.Break{N: s.N - 1}}, nil
	case value.Continue:
		if s.N <= 1 {
			return loopStep{}, nil // just move to the next iteration
		}
		return loopStep{stop: true, broke: true, propagate: value.Continue{N: s.N - 1}}, nil
	default:
		return loopStep{}, nil
	}
}

// toForBound coerces a for-loop bound: Num truncates, Bool is
// 0/1, String is parsed as an integer (a non-numeric string is the
// SyntaxError, e.g. for "5s"), anything else is an error.
func toForBound(v value.Value) (int64, error) {
	switch t := v.(type) {
	case value.Num:
		return int64(t.Val), nil
	case value.Bool:
		if t.Val {
			return 1, nil
		}
		return 0, nil
	case value.String:
		return parseForInt(t.Val)
	case value.ExpandableString:
		return parseForInt(t.Val)
	default:
		return 0, uerrors.New(uerrors.EvaluatorError, "cannot use %s as a for-loop bound", v.Kind())
	}
}

func parseForInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, uerrors.New(uerrors.SyntaxError, uerrors.MsgForParseError, s)
	}
	return n, nil
}

// evalFor implements `for i = a to b [step s]`. The loop variable is
// assigned before the range test on every pass, including the final
// out-of-range value the loop terminates on (`for i=5 to 0
// step -2` leaves i at -1). `for ... else` runs iff the loop exhausted its
// range without a Break.
func (e *Evaluator) evalFor(n *ast.ForStatement) (value.Value, error) {
	fromV, err := e.EvalExpr(n.From)
	if err != nil {
		return nil, err
	}
	toV, err := e.EvalExpr(n.To)
	if err != nil {
		return nil, err
	}
	from, err := toForBound(fromV)
	if err != nil {
		return nil, err
	}
	to, err := toForBound(toV)
	if err != nil {
		return nil, err
	}
	step := int64(1)
	if n.Step != nil {
		stepV, err := e.EvalExpr(n.Step)
		if err != nil {
			return nil, err
		}
		step, err = toForBound(stepV)
		if err != nil {
			return nil, err
		}
	}
	if step == 0 {
		return nil, uerrors.New(uerrors.EvaluatorError, uerrors.MsgZeroStep)
	}

	broke := false
	for i := from; ; i += step {
		e.Env.Define(n.Var, value.Num{Val: float64(i)}, scope.Local)
		if (step > 0 && i > to) || (step < 0 && i < to) {
			break
		}
		st, err := e.runLoopIteration(n.Body)
		if err != nil {
			return nil, err
		}
		if st.propagate != nil {
			return st.propagate, nil
		}
		if st.broke {
			broke = true
		}
		if st.stop {
			break
		}
	}
	if !broke && n.Else != nil {
		return e.evalBlock(n.Else)
	}
	return value.Empty{}, nil
}

// forInElements expands coll into the ordered sequence `for ... in`
// iterates: Array elements, String runes, HashTbl keys in iteration
// order, ByteArray bytes, and a UObject array's elements.
func forInElements(coll value.Value) ([]value.Value, error) {
	switch c := coll.(type) {
	case *value.Array:
		return append([]value.Value(nil), c.Elements...), nil
	case value.String:
		return stringRuneValues(c.Val), nil
	case value.ExpandableString:
		return stringRuneValues(c.Val), nil
	case *value.HashTbl:
		return c.OrderedKeys(), nil
	case *value.ByteArray:
		elems := make([]value.Value, c.Len())
		for i := range elems {
			elems[i], _ = c.Get(i)
		}
		return elems, nil
	case *value.UObject:
		elems, ok := c.ArrayElements()
		if !ok {
			return nil, uerrors.New(uerrors.UObjectError, "FOR-IN requires an array UObject")
		}
		return elems, nil
	default:
		return nil, uerrors.New(uerrors.EvaluatorError, "%s is not iterable", coll.Kind())
	}
}

func stringRuneValues(s string) []value.Value {
	runes := []rune(s)
	out := make([]value.Value, len(runes))
	for i, r := range runes {
		out[i] = value.String{Val: string(r)}
	}
	return out
}

// evalForIn implements `for Var[, Index][, IsLast] in Collection`.
func (e *Evaluator) evalForIn(n *ast.ForInStatement) (value.Value, error) {
	collV, err := e.EvalExpr(n.Collection)
	if err != nil {
		return nil, err
	}
	elems, err := forInElements(collV)
	if err != nil {
		return nil, err
	}
	broke := false
	for i, el := range elems {
		e.Env.Define(n.Var, el, scope.Local)
		if n.IndexVar != "" {
			e.Env.Define(n.IndexVar, value.Num{Val: float64(i)}, scope.Local)
		}
		if n.IsLastVar != "" {
			e.Env.Define(n.IsLastVar, value.Bool{Val: i == len(elems)-1}, scope.Local)
		}
		st, err := e.runLoopIteration(n.Body)
		if err != nil {
			return nil, err
		}
		if st.propagate != nil {
			return st.propagate, nil
		}
		if st.broke {
			broke = true
		}
		if st.stop {
			break
		}
	}
	if !broke && n.Else != nil {
		return e.evalBlock(n.Else)
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalWhile(n *ast.WhileStatement) (value.Value, error) {
	for {
		c, err := e.EvalExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		b, err := value.Truthy(c, e.TruthMode)
		if err != nil {
			return nil, err
		}
		if !b {
			break
		}
		st, err := e.runLoopIteration(n.Body)
		if err != nil {
			return nil, err
		}
		if st.propagate != nil {
			return st.propagate, nil
		}
		if st.stop {
			break
		}
	}
	return value.Empty{}, nil
}

// evalRepeat implements `repeat ... until Cond`: the guard is evaluated
// after the body.
func (e *Evaluator) evalRepeat(n *ast.RepeatStatement) (value.Value, error) {
	for {
		st, err := e.runLoopIteration(n.Body)
		if err != nil {
			return nil, err
		}
		if st.propagate != nil {
			return st.propagate, nil
		}
		if st.stop {
			break
		}
		c, err := e.EvalExpr(n.Until)
		if err != nil {
			return nil, err
		}
		b, err := value.Truthy(c, e.TruthMode)
		if err != nil {
			return nil, err
		}
		if b {
			break
		}
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalIf(n *ast.IfStatement) (value.Value, error) {
	c, err := e.EvalExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	b, err := value.Truthy(c, e.TruthMode)
	if err != nil {
		return nil, err
	}
	if b {
		return e.evalBlock(n.Body)
	}
	for _, branch := range n.ElseIfs {
		c, err := e.EvalExpr(branch.Cond)
		if err != nil {
			return nil, err
		}
		b, err := value.Truthy(c, e.TruthMode)
		if err != nil {
			return nil, err
		}
		if b {
			return e.evalBlock(branch.Body)
		}
	}
	if n.Else != nil {
		return e.evalBlock(n.Else)
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalIfSingleLine(n *ast.IfSingleLineStatement) (value.Value, error) {
	c, err := e.EvalExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	b, err := value.Truthy(c, e.TruthMode)
	if err != nil {
		return nil, err
	}
	if b {
		return e.Eval(n.Then)
	}
	if n.Else != nil {
		return e.Eval(n.Else)
	}
	return value.Empty{}, nil
}

// evalSelect matches Subject against each case's values by value
// equality, first match wins; the case with nil Values is the default arm.
func (e *Evaluator) evalSelect(n *ast.SelectStatement) (value.Value, error) {
	subj, err := e.EvalExpr(n.Subject)
	if err != nil {
		return nil, err
	}
	caseSensitive := e.caseSensitive()
	var defaultCase *ast.SelectCase
	for i := range n.Cases {
		c := &n.Cases[i]
		if c.Values == nil {
			defaultCase = c
			continue
		}
		for _, valExpr := range c.Values {
			v, err := e.EvalExpr(valExpr)
			if err != nil {
				return nil, err
			}
			if value.Equal(subj, v, caseSensitive) {
				return e.evalBlock(c.Body)
			}
		}
	}
	if defaultCase != nil {
		return e.evalBlock(defaultCase.Body)
	}
	return value.Empty{}, nil
}

// evalWith runs Body with Subject pushed as the implicit receiver for bare
// `.Member` accesses (dotReceiver consults this stack when an expression's
// Receiver is nil).
func (e *Evaluator) evalWith(n *ast.WithStatement) (value.Value, error) {
	subj, err := e.EvalExpr(n.Subject)
	if err != nil {
		return nil, err
	}
	sub := *e
	sub.withStack = append(append([]value.Value{}, e.withStack...), subj)
	return sub.evalBlock(n.Body)
}

// evalTry implements try/except/finally. ExitExit/Poff bypass
// except but still run finally when FinallyAlways is set; otherwise
// finally runs only when Try completed without triggering except, unless
// FinallyAlways is set, in which case it always runs.
func (e *Evaluator) evalTry(n *ast.TryStatement) (value.Value, error) {
	result, err := e.evalBlock(n.Try)
	ranExcept := false

	if err != nil {
		ue := uerrors.AsUError(err)
		if uerrors.IsControlError(ue) {
			if settings.Current().FinallyAlways && n.Finally != nil {
				if _, ferr := e.evalBlock(n.Finally); ferr != nil {
					return nil, ferr
				}
			}
			return nil, err
		}
		ranExcept = true
		e.bindTryError(n, ue)
		result, err = e.evalBlock(n.Except)
		if err != nil {
			if n.Finally != nil && settings.Current().FinallyAlways {
				if _, ferr := e.evalBlock(n.Finally); ferr != nil {
					return nil, ferr
				}
			}
			return nil, err
		}
	}

	if n.Finally != nil && (!ranExcept || settings.Current().FinallyAlways) {
		if _, ferr := e.evalBlock(n.Finally); ferr != nil {
			return nil, ferr
		}
	}
	return result, nil
}

// bindTryError populates the except block's error-text/error-line
// variables: the statement's own ErrMsgVar/ErrLineVar if named,
// else the well-known TRY_ERRMSG/TRY_ERRLINE locals every scope predeclares.
func (e *Evaluator) bindTryError(n *ast.TryStatement, ue *uerrors.UError) {
	msgVar := n.ErrMsgVar
	if msgVar == "" {
		msgVar = "TRY_ERRMSG"
	}
	lineVar := n.ErrLineVar
	if lineVar == "" {
		lineVar = "TRY_ERRLINE"
	}
	e.Env.Define(msgVar, value.String{Val: ue.Message}, scope.Local)
	line := 0.0
	if !ue.Pos.IsZero() {
		line = float64(ue.Pos.Row)
	}
	e.Env.Define(lineVar, value.Num{Val: line}, scope.Local)
}
