package evaluator

import (
	"math"
	"strings"

	"github.com/uwscr/uwscr-core/ast"
	uerrors "github.com/uwscr/uwscr-core/internal/errors"
	"github.com/uwscr/uwscr-core/internal/scope"
	"github.com/uwscr/uwscr-core/internal/value"
)

func (e *Evaluator) evalDim(n *ast.DimStatement) (value.Value, error) {
	if len(n.Dimensions) > 0 {
		return e.evalDimArray(n)
	}
	for i, name := range n.Names {
		if !n.InLoop && e.Env.HasLocal(name, scope.Local) {
			return nil, uerrors.NewDefinitionError(uerrors.DefVariable, name)
		}
		var v value.Value = value.Empty{}
		if i < len(n.Values) {
			var err error
			v, err = e.EvalExpr(n.Values[i])
			if err != nil {
				return nil, err
			}
		}
		retainValue(v)
		e.Env.Define(name, v, scope.Local)
	}
	return value.Empty{}, nil
}

// evalDimArray implements `dim X[d1, ..., dn] = e1, e2, ...`:
// constructs an n-dimensional nested array, row-major, at most one
// dimension omitted (computed from the others and the value count).
func (e *Evaluator) evalDimArray(n *ast.DimStatement) (value.Value, error) {
	name := n.Names[0]
	if !n.InLoop && e.Env.HasLocal(name, scope.Local) {
		return nil, uerrors.NewDefinitionError(uerrors.DefVariable, name)
	}
	values := make([]value.Value, len(n.Values))
	for i, expr := range n.Values {
		v, err := e.EvalExpr(expr)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	sizes, err := e.resolveDimSizes(n.Dimensions, len(values))
	if err != nil {
		return nil, err
	}
	idx := 0
	arr := buildNestedArray(sizes, values, &idx)
	e.Env.Define(name, arr, scope.Local)
	return value.Empty{}, nil
}

// resolveDimSizes evaluates each dimension expression to a size (maxIndex+1).
// A nil entry is the omitted dimension, computed as
// ceil(len(values) / product-of-others); at most one entry may be nil.
func (e *Evaluator) resolveDimSizes(dims []ast.Expression, numValues int) ([]int, error) {
	sizes := make([]int, len(dims))
	omitted := -1
	product := 1
	for i, d := range dims {
		if d == nil {
			if omitted >= 0 {
				return nil, uerrors.New(uerrors.ArrayError, "at most one array dimension may be omitted")
			}
			omitted = i
			continue
		}
		v, err := e.EvalExpr(d)
		if err != nil {
			return nil, err
		}
		maxIdx, err := value.ToInt(v)
		if err != nil {
			return nil, err
		}
		sizes[i] = int(maxIdx) + 1
		product *= sizes[i]
	}
	if omitted >= 0 {
		if product <= 0 {
			return nil, uerrors.New(uerrors.ArrayError, "array dimensions must be non-zero")
		}
		sizes[omitted] = int(math.Ceil(float64(numValues) / float64(product)))
	}
	total := 1
	for _, s := range sizes {
		total *= s
	}
	if total <= 0 {
		return nil, uerrors.New(uerrors.ArrayError, "array dimensions must be representable and non-zero")
	}
	return sizes, nil
}

// buildNestedArray fills an n-dimensional array row-major from values,
// padding missing trailing elements with Empty.
func buildNestedArray(sizes []int, values []value.Value, idx *int) *value.Array {
	if len(sizes) == 1 {
		elems := make([]value.Value, sizes[0])
		for i := range elems {
			if *idx < len(values) {
				elems[i] = values[*idx]
				*idx++
			} else {
				elems[i] = value.Empty{}
			}
		}
		return value.NewArray(elems)
	}
	elems := make([]value.Value, sizes[0])
	for i := range elems {
		elems[i] = buildNestedArray(sizes[1:], values, idx)
	}
	return value.NewArray(elems)
}

func (e *Evaluator) evalPublic(n *ast.PublicStatement) (value.Value, error) {
	v, err := e.EvalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	retainValue(v)
	if err := e.Env.DefineGlobal(n.Name, v, scope.Public); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalConst(n *ast.ConstStatement) (value.Value, error) {
	v, err := e.EvalExpr(n.Value)
	if err != nil {
		return nil, err
	}
	if e.Env.HasGlobal(n.Name, scope.Const) {
		return nil, uerrors.NewDefinitionError(uerrors.DefConst, n.Name)
	}
	if err := e.Env.DefineGlobal(n.Name, v, scope.Const); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalTextBlock(n *ast.TextBlockStatement) (value.Value, error) {
	if e.Env.HasGlobal(n.Name, scope.Const) {
		return nil, uerrors.NewDefinitionError(uerrors.DefConst, n.Name)
	}
	if err := e.Env.DefineGlobal(n.Name, value.String{Val: n.Text}, scope.Const); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalHashTbl(n *ast.HashTblStatement) (value.Value, error) {
	opts := 0
	if n.Options != nil {
		v, err := e.EvalExpr(n.Options)
		if err != nil {
			return nil, err
		}
		o, err := value.ToInt(v)
		if err != nil {
			return nil, err
		}
		opts = int(o)
	}
	h := value.NewHashTbl(opts)
	if n.IsPublic {
		if err := e.Env.DefineGlobal(n.Name, h, scope.Public); err != nil {
			return nil, err
		}
		return value.Empty{}, nil
	}
	if e.Env.HasLocal(n.Name, scope.Local) {
		return nil, uerrors.NewDefinitionError(uerrors.DefHashTbl, n.Name)
	}
	e.Env.Define(n.Name, h, scope.Local)
	return value.Empty{}, nil
}

func (e *Evaluator) evalHash(n *ast.HashStatement) (value.Value, error) {
	h := value.NewHashTbl(0)
	for i, kExpr := range n.Keys {
		k, err := e.EvalExpr(kExpr)
		if err != nil {
			return nil, err
		}
		var v value.Value = value.Empty{}
		if i < len(n.Vals) {
			v, err = e.EvalExpr(n.Vals[i])
			if err != nil {
				return nil, err
			}
		}
		h.Set(k, v)
	}
	if e.Env.HasLocal(n.Name, scope.Local) {
		return nil, uerrors.NewDefinitionError(uerrors.DefHashTbl, n.Name)
	}
	e.Env.Define(n.Name, h, scope.Local)
	return value.Empty{}, nil
}

// evalDefDll records a foreign-library declaration as a BuiltinFunction
// whose Fn marshals arguments and delegates to internal/dll — the Value
// universe has no dedicated "foreign function" kind, so a host-provided
// callable is the natural fit, exactly like any other builtin from the
// call dispatcher's point of view.
func (e *Evaluator) evalDefDll(n *ast.DefDllStatement) (value.Value, error) {
	fn := buildDllFunction(n)
	if err := e.Env.DefineGlobal(n.Name, fn, scope.Function); err != nil {
		return nil, err
	}
	e.Builtins.Register(fn)
	return value.Empty{}, nil
}

func (e *Evaluator) evalStructDecl(n *ast.StructStatement) (value.Value, error) {
	def := &value.StructDef{Name: n.Name, Fields: n.Fields}
	if err := e.Env.DefineGlobal(n.Name, def, scope.Struct); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalFunctionDecl(n *ast.FunctionStatement) (value.Value, error) {
	if e.callDepth > 0 {
		return nil, uerrors.New(uerrors.FuncDefError, uerrors.MsgNestedFunction)
	}
	fn := &value.Function{Name: n.Name, Params: n.Params, Body: n.Body, IsProc: n.IsProc}
	var v value.Value = fn
	if n.IsAsync {
		v = &value.AsyncFunction{Function: fn}
	}
	if err := e.Env.DefineGlobal(n.Name, v, scope.Function); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}

// evalModuleDecl evaluates Members once into a fresh Module bound under
// the module's own global tag.
func (e *Evaluator) evalModuleDecl(n *ast.ModuleStatement) (value.Value, error) {
	mod, err := e.materializeModule(n.Name, n.Members)
	if err != nil {
		return nil, err
	}
	if err := e.Env.DefineGlobal(n.Name, mod, scope.Module); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalClassDecl(n *ast.ClassStatement) (value.Value, error) {
	cls := &value.Class{Name: n.Name, Members: n.Members}
	if err := e.Env.DefineGlobal(n.Name, cls, scope.Class); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}

func (e *Evaluator) evalEnumDecl(n *ast.EnumStatement) (value.Value, error) {
	en := &value.Enum{Name: n.Name, Values: map[string]float64{}}
	next := 0.0
	for _, m := range n.Members {
		v := next
		if m.Value != nil {
			val, err := e.EvalExpr(m.Value)
			if err != nil {
				return nil, err
			}
			f, err := value.ToNumber(val)
			if err != nil {
				return nil, err
			}
			v = f
		}
		en.Members = append(en.Members, m.Name)
		en.Values[strings.ToUpper(m.Name)] = v
		next = v + 1
	}
	if err := e.Env.DefineGlobal(n.Name, en, scope.Enum); err != nil {
		return nil, err
	}
	return value.Empty{}, nil
}
