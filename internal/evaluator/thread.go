package evaluator

import (
	"fmt"
	"os"

	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/logging"
	"github.com/uwscr/uwscr-core/internal/value"
)

// evalThread implements `thread Call`: a fire-and-forget call
// running in its own goroutine against a clone of the current scope
// (shared globals, copied locals). Unlike a Task, a Thread that panics or
// errors has nowhere to report to, so it routes uncaught failures to the
// logger and terminates the process.
func (e *Evaluator) evalThread(n *ast.ThreadStatement) (value.Value, error) {
	call, ok := n.Call.(*ast.CallExpr)
	if !ok {
		return nil, uerrors.New(uerrors.EvaluatorError, "THREAD requires a function call")
	}
	fnVal, err := e.resolveCallee(call.Function)
	if err != nil {
		return nil, err
	}
	args, err := e.evalArgs(call.Args)
	if err != nil {
		return nil, err
	}
	fn, ok := asPlainFunction(fnVal)
	if !ok {
		return nil, uerrors.New(uerrors.EvaluatorError, "THREAD target must be a function")
	}

	sub := e.childWithEnv(e.Env.CloneForThread())
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Errorf("thread panic: %v", r)
				os.Exit(1)
			}
		}()
		if _, err := sub.callFunction(fn, args, nil); err != nil {
			logging.Errorf("thread error: %v", err)
			os.Exit(1)
		}
	}()
	return value.Empty{}, nil
}

func asPlainFunction(v value.Value) (*value.Function, bool) {
	switch f := v.(type) {
	case *value.Function:
		return f, true
	case *value.AsyncFunction:
		return f.Function, true
	default:
		return nil, false
	}
}

// spawnTask implements `async` invocation: the call runs on its own
// goroutine against a cloned scope and reports its outcome through a Task
// rather than killing the process, so `Await`/Task.Join() can observe a
// failure as an ordinary error.
func (e *Evaluator) spawnTask(fn *value.Function, args []callArg) *value.Task {
	t := value.NewTask()
	sub := e.childWithEnv(e.Env.CloneForThread())
	go func() {
		defer func() {
			if r := recover(); r != nil {
				t.Finish(nil, fmt.Errorf("panic: %v", r))
			}
		}()
		res, err := sub.callFunction(fn, args, nil)
		t.Finish(res, err)
	}()
	return t
}
