package ast

// This file implements the JSON wire format for Program, the transport a
// front end uses to hand a parsed program to `uwscr run` (the lexer/parser
// live outside this repository). Every node is encoded as a JSON object
// carrying a "kind" discriminator (the Go type name) plus its fields;
// decoding dispatches on "kind" back to the concrete node type with one
// closed switch per node family rather than reflection.

import (
	"encoding/json"
	"fmt"

	"github.com/uwscr/uwscr-core/token"
)

// --- Program ---

type jsonProgram struct {
	Global     []json.RawMessage `json:"global"`
	Script     []json.RawMessage `json:"script"`
	Lines      []string          `json:"lines"`
	ScriptName string            `json:"scriptName"`
}

func (p *Program) MarshalJSON() ([]byte, error) {
	global, err := encodeStmtList(p.Global)
	if err != nil {
		return nil, err
	}
	script, err := encodeStmtList(p.Script)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonProgram{
		Global:     global,
		Script:     script,
		Lines:      p.Lines,
		ScriptName: p.ScriptName,
	})
}

func (p *Program) UnmarshalJSON(data []byte) error {
	var jp jsonProgram
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	global, err := decodeStmtList(jp.Global)
	if err != nil {
		return err
	}
	script, err := decodeStmtList(jp.Script)
	if err != nil {
		return err
	}
	p.Global = global
	p.Script = script
	p.Lines = jp.Lines
	p.ScriptName = jp.ScriptName
	return nil
}

// --- shared envelope helpers ---

type envelope struct {
	Kind string          `json:"kind"`
	Pos  token.Position  `json:"pos,omitempty"`
	Data json.RawMessage `json:"data"`
}

func wrap(kind string, pos token.Position, v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: kind, Pos: pos, Data: data})
}

func peekKind(raw json.RawMessage) (envelope, error) {
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return envelope{}, err
	}
	return e, nil
}

func encodeExprList(list []Expression) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(list))
	for _, e := range list {
		raw, err := EncodeExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func decodeExprList(raw []json.RawMessage) ([]Expression, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]Expression, 0, len(raw))
	for _, r := range raw {
		e, err := DecodeExpr(r)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func encodeStmtList(list []Statement) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(list))
	for _, s := range list {
		raw, err := EncodeStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func decodeStmtList(raw []json.RawMessage) ([]Statement, error) {
	out := make([]Statement, 0, len(raw))
	for _, r := range raw {
		s, err := DecodeStmt(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func encodeOptExpr(e Expression) (json.RawMessage, error) {
	if e == nil {
		return nil, nil
	}
	return EncodeExpr(e)
}

func decodeOptExpr(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return DecodeExpr(raw)
}

func encodeOptStmt(s Statement) (json.RawMessage, error) {
	if s == nil {
		return nil, nil
	}
	return EncodeStmt(s)
}

func decodeOptStmt(raw json.RawMessage) (Statement, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return DecodeStmt(raw)
}

// --- Expression encode/decode ---

// EncodeExpr serializes a single Expression node to its wire envelope.
func EncodeExpr(e Expression) (json.RawMessage, error) {
	switch v := e.(type) {
	case *Identifier:
		return wrap("Identifier", token.Position{}, v)
	case *NumberLiteral:
		return wrap("NumberLiteral", token.Position{}, v)
	case *StringLiteral:
		return wrap("StringLiteral", token.Position{}, v)
	case *ExpandableStringLiteral:
		return wrap("ExpandableStringLiteral", token.Position{}, v)
	case *BoolLiteral:
		return wrap("BoolLiteral", token.Position{}, v)
	case *NullLiteral:
		return wrap("NullLiteral", token.Position{}, struct{}{})
	case *NothingLiteral:
		return wrap("NothingLiteral", token.Position{}, struct{}{})
	case *EmptyLiteral:
		return wrap("EmptyLiteral", token.Position{}, struct{}{})
	case *ArrayLiteral:
		elems, err := encodeExprList(v.Elements)
		if err != nil {
			return nil, err
		}
		return wrap("ArrayLiteral", token.Position{}, struct {
			Elements []json.RawMessage `json:"elements"`
		}{elems})
	case *UObjectLiteral:
		return wrap("UObjectLiteral", token.Position{}, v)
	case *PrefixExpr:
		right, err := EncodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return wrap("PrefixExpr", token.Position{}, struct {
			Operator string          `json:"operator"`
			Right    json.RawMessage `json:"right"`
		}{v.Operator, right})
	case *InfixExpr:
		left, err := EncodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := EncodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return wrap("InfixExpr", token.Position{}, struct {
			Left     json.RawMessage `json:"left"`
			Operator string          `json:"operator"`
			Right    json.RawMessage `json:"right"`
		}{left, v.Operator, right})
	case *IndexExpr:
		left, err := EncodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		index, err := EncodeExpr(v.Index)
		if err != nil {
			return nil, err
		}
		hashOpt, err := encodeOptExpr(v.HashOption)
		if err != nil {
			return nil, err
		}
		return wrap("IndexExpr", token.Position{}, struct {
			Left       json.RawMessage `json:"left"`
			Index      json.RawMessage `json:"index"`
			HashOption json.RawMessage `json:"hashOption,omitempty"`
		}{left, index, hashOpt})
	case *DotExpr:
		recv, err := EncodeExpr(v.Receiver)
		if err != nil {
			return nil, err
		}
		return wrap("DotExpr", token.Position{}, struct {
			Receiver json.RawMessage `json:"receiver"`
			Member   string          `json:"member"`
		}{recv, v.Member})
	case *DotCallExpr:
		recv, err := EncodeExpr(v.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := encodeExprList(v.Args)
		if err != nil {
			return nil, err
		}
		return wrap("DotCallExpr", token.Position{}, struct {
			Receiver json.RawMessage   `json:"receiver"`
			Method   string            `json:"method"`
			Args     []json.RawMessage `json:"args"`
			Await    bool              `json:"await"`
		}{recv, v.Method, args, v.Await})
	case *CallExpr:
		fn, err := EncodeExpr(v.Function)
		if err != nil {
			return nil, err
		}
		args, err := encodeExprList(v.Args)
		if err != nil {
			return nil, err
		}
		return wrap("CallExpr", token.Position{}, struct {
			Function json.RawMessage   `json:"function"`
			Args     []json.RawMessage `json:"args"`
			Await    bool              `json:"await"`
		}{fn, args, v.Await})
	case *AnonymousFunctionExpr:
		params, err := encodeParams(v.Params)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return wrap("AnonymousFunctionExpr", token.Position{}, struct {
			Params  []jsonParam       `json:"params"`
			Body    []json.RawMessage `json:"body"`
			IsAsync bool              `json:"isAsync"`
		}{params, body, v.IsAsync})
	case *AssignExpr:
		target, err := EncodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		val, err := EncodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return wrap("AssignExpr", token.Position{}, struct {
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}{target, val})
	case *CompoundAssignExpr:
		target, err := EncodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		val, err := EncodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return wrap("CompoundAssignExpr", token.Position{}, struct {
			Target   json.RawMessage `json:"target"`
			Operator string          `json:"operator"`
			Value    json.RawMessage `json:"value"`
		}{target, v.Operator, val})
	case *TernaryExpr:
		cond, err := EncodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := EncodeExpr(v.Then)
		if err != nil {
			return nil, err
		}
		els, err := EncodeExpr(v.Else)
		if err != nil {
			return nil, err
		}
		return wrap("TernaryExpr", token.Position{}, struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}{cond, then, els})
	case *RefArgExpr:
		target, err := EncodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		return wrap("RefArgExpr", token.Position{}, struct {
			Target json.RawMessage `json:"target"`
		}{target})
	case *EmptyParamExpr:
		return wrap("EmptyParamExpr", token.Position{}, struct{}{})
	case *CallbackExpr:
		return wrap("CallbackExpr", token.Position{}, v)
	case *ComErrExpr:
		return wrap("ComErrExpr", token.Position{}, struct{}{})
	default:
		return nil, fmt.Errorf("ast: EncodeExpr: unhandled expression type %T", e)
	}
}

// DecodeExpr parses a wire envelope into the concrete Expression node it
// names via "kind".
func DecodeExpr(raw json.RawMessage) (Expression, error) {
	env, err := peekKind(raw)
	if err != nil {
		return nil, err
	}
	switch env.Kind {
	case "Identifier":
		var v Identifier
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "NumberLiteral":
		var v NumberLiteral
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "StringLiteral":
		var v StringLiteral
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "ExpandableStringLiteral":
		var v ExpandableStringLiteral
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "BoolLiteral":
		var v BoolLiteral
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "NullLiteral":
		return &NullLiteral{}, nil
	case "NothingLiteral":
		return &NothingLiteral{}, nil
	case "EmptyLiteral":
		return &EmptyLiteral{}, nil
	case "ArrayLiteral":
		var v struct {
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		elems, err := decodeExprList(v.Elements)
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Elements: elems}, nil
	case "UObjectLiteral":
		var v UObjectLiteral
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "PrefixExpr":
		var v struct {
			Operator string          `json:"operator"`
			Right    json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		right, err := DecodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &PrefixExpr{Operator: v.Operator, Right: right}, nil
	case "InfixExpr":
		var v struct {
			Left     json.RawMessage `json:"left"`
			Operator string          `json:"operator"`
			Right    json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		left, err := DecodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := DecodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &InfixExpr{Left: left, Operator: v.Operator, Right: right}, nil
	case "IndexExpr":
		var v struct {
			Left       json.RawMessage `json:"left"`
			Index      json.RawMessage `json:"index"`
			HashOption json.RawMessage `json:"hashOption,omitempty"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		left, err := DecodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		index, err := DecodeExpr(v.Index)
		if err != nil {
			return nil, err
		}
		hashOpt, err := decodeOptExpr(v.HashOption)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Left: left, Index: index, HashOption: hashOpt}, nil
	case "DotExpr":
		var v struct {
			Receiver json.RawMessage `json:"receiver"`
			Member   string          `json:"member"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		recv, err := DecodeExpr(v.Receiver)
		if err != nil {
			return nil, err
		}
		return &DotExpr{Receiver: recv, Member: v.Member}, nil
	case "DotCallExpr":
		var v struct {
			Receiver json.RawMessage   `json:"receiver"`
			Method   string            `json:"method"`
			Args     []json.RawMessage `json:"args"`
			Await    bool              `json:"await"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		recv, err := DecodeExpr(v.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(v.Args)
		if err != nil {
			return nil, err
		}
		return &DotCallExpr{Receiver: recv, Method: v.Method, Args: args, Await: v.Await}, nil
	case "CallExpr":
		var v struct {
			Function json.RawMessage   `json:"function"`
			Args     []json.RawMessage `json:"args"`
			Await    bool              `json:"await"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		fn, err := DecodeExpr(v.Function)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(v.Args)
		if err != nil {
			return nil, err
		}
		return &CallExpr{Function: fn, Args: args, Await: v.Await}, nil
	case "AnonymousFunctionExpr":
		var v struct {
			Params  []jsonParam       `json:"params"`
			Body    []json.RawMessage `json:"body"`
			IsAsync bool              `json:"isAsync"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		params, err := decodeParams(v.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return &AnonymousFunctionExpr{Params: params, Body: body, IsAsync: v.IsAsync}, nil
	case "AssignExpr":
		var v struct {
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		target, err := DecodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		val, err := DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Target: target, Value: val}, nil
	case "CompoundAssignExpr":
		var v struct {
			Target   json.RawMessage `json:"target"`
			Operator string          `json:"operator"`
			Value    json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		target, err := DecodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		val, err := DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &CompoundAssignExpr{Target: target, Operator: v.Operator, Value: val}, nil
	case "TernaryExpr":
		var v struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		cond, err := DecodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := DecodeExpr(v.Then)
		if err != nil {
			return nil, err
		}
		els, err := DecodeExpr(v.Else)
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Cond: cond, Then: then, Else: els}, nil
	case "RefArgExpr":
		var v struct {
			Target json.RawMessage `json:"target"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		target, err := DecodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		return &RefArgExpr{Target: target}, nil
	case "EmptyParamExpr":
		return &EmptyParamExpr{}, nil
	case "CallbackExpr":
		var v CallbackExpr
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case "ComErrExpr":
		return &ComErrExpr{}, nil
	default:
		return nil, fmt.Errorf("ast: DecodeExpr: unknown expression kind %q", env.Kind)
	}
}

// --- Param ---

type jsonParam struct {
	Name       string          `json:"name"`
	Kind       ParamKind       `json:"kind"`
	Default    json.RawMessage `json:"default,omitempty"`
	TypeName   string          `json:"typeName,omitempty"`
	ArrayByRef bool            `json:"arrayByRef,omitempty"`
}

func encodeParams(params []Param) ([]jsonParam, error) {
	out := make([]jsonParam, 0, len(params))
	for _, p := range params {
		var def json.RawMessage
		var err error
		if p.Default != nil {
			def, err = EncodeExpr(p.Default)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, jsonParam{
			Name: p.Name, Kind: p.Kind, Default: def,
			TypeName: p.TypeName, ArrayByRef: p.ArrayByRef,
		})
	}
	return out, nil
}

func decodeParams(params []jsonParam) ([]Param, error) {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		var def Expression
		if len(p.Default) > 0 {
			d, err := DecodeExpr(p.Default)
			if err != nil {
				return nil, err
			}
			def = d
		}
		out = append(out, Param{
			Name: p.Name, Kind: p.Kind, Default: def,
			TypeName: p.TypeName, ArrayByRef: p.ArrayByRef,
		})
	}
	return out, nil
}

// --- Statement encode/decode ---

// EncodeStmt serializes a single Statement node to its wire envelope,
// carrying its source Position alongside the kind-tagged payload.
func EncodeStmt(s Statement) (json.RawMessage, error) {
	pos := s.Pos()
	switch v := s.(type) {
	case *DimStatement:
		values, err := encodeExprList(v.Values)
		if err != nil {
			return nil, err
		}
		dims, err := encodeExprList(v.Dimensions)
		if err != nil {
			return nil, err
		}
		return wrap("DimStatement", pos, struct {
			Names      []string          `json:"names"`
			Values     []json.RawMessage `json:"values"`
			Dimensions []json.RawMessage `json:"dimensions,omitempty"`
			InLoop     bool              `json:"inLoop,omitempty"`
		}{v.Names, values, dims, v.InLoop})
	case *PublicStatement:
		val, err := EncodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return wrap("PublicStatement", pos, struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}{v.Name, val})
	case *ConstStatement:
		val, err := EncodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return wrap("ConstStatement", pos, struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}{v.Name, val})
	case *TextBlockStatement:
		return wrap("TextBlockStatement", pos, struct {
			Name string `json:"name"`
			Text string `json:"text"`
		}{v.Name, v.Text})
	case *HashTblStatement:
		opts, err := encodeOptExpr(v.Options)
		if err != nil {
			return nil, err
		}
		return wrap("HashTblStatement", pos, struct {
			Name     string          `json:"name"`
			Options  json.RawMessage `json:"options,omitempty"`
			IsPublic bool            `json:"isPublic"`
		}{v.Name, opts, v.IsPublic})
	case *HashStatement:
		keys, err := encodeExprList(v.Keys)
		if err != nil {
			return nil, err
		}
		vals, err := encodeExprList(v.Vals)
		if err != nil {
			return nil, err
		}
		return wrap("HashStatement", pos, struct {
			Name string            `json:"name"`
			Keys []json.RawMessage `json:"keys"`
			Vals []json.RawMessage `json:"vals"`
		}{v.Name, keys, vals})
	case *DefDllStatement:
		return wrap("DefDllStatement", pos, struct {
			Name       string     `json:"name"`
			Alias      string     `json:"alias"`
			Params     []DllParam `json:"params"`
			ReturnType string     `json:"returnType"`
			Library    string     `json:"library"`
		}{v.Name, v.Alias, v.Params, v.ReturnType, v.Library})
	case *StructStatement:
		return wrap("StructStatement", pos, struct {
			Name   string        `json:"name"`
			Fields []StructField `json:"fields"`
		}{v.Name, v.Fields})
	case *FunctionStatement:
		params, err := encodeParams(v.Params)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return wrap("FunctionStatement", pos, struct {
			Name    string            `json:"name"`
			Params  []jsonParam       `json:"params"`
			Body    []json.RawMessage `json:"body"`
			IsAsync bool              `json:"isAsync"`
			IsProc  bool              `json:"isProc"`
		}{v.Name, params, body, v.IsAsync, v.IsProc})
	case *ModuleStatement:
		members, err := encodeStmtList(v.Members)
		if err != nil {
			return nil, err
		}
		return wrap("ModuleStatement", pos, struct {
			Name    string            `json:"name"`
			Members []json.RawMessage `json:"members"`
		}{v.Name, members})
	case *ClassStatement:
		members, err := encodeStmtList(v.Members)
		if err != nil {
			return nil, err
		}
		return wrap("ClassStatement", pos, struct {
			Name    string            `json:"name"`
			Members []json.RawMessage `json:"members"`
		}{v.Name, members})
	case *EnumStatement:
		members := make([]jsonEnumMember, 0, len(v.Members))
		for _, m := range v.Members {
			val, err := encodeOptExpr(m.Value)
			if err != nil {
				return nil, err
			}
			members = append(members, jsonEnumMember{Name: m.Name, Value: val})
		}
		return wrap("EnumStatement", pos, struct {
			Name    string           `json:"name"`
			Members []jsonEnumMember `json:"members"`
		}{v.Name, members})
	case *ForStatement:
		from, err := EncodeExpr(v.From)
		if err != nil {
			return nil, err
		}
		to, err := EncodeExpr(v.To)
		if err != nil {
			return nil, err
		}
		step, err := encodeOptExpr(v.Step)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		elseBody, err := encodeStmtList(v.Else)
		if err != nil {
			return nil, err
		}
		return wrap("ForStatement", pos, struct {
			Var  string            `json:"var"`
			From json.RawMessage   `json:"from"`
			To   json.RawMessage   `json:"to"`
			Step json.RawMessage   `json:"step,omitempty"`
			Body []json.RawMessage `json:"body"`
			Else []json.RawMessage `json:"else,omitempty"`
		}{v.Var, from, to, step, body, elseBody})
	case *ForInStatement:
		coll, err := EncodeExpr(v.Collection)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		elseBody, err := encodeStmtList(v.Else)
		if err != nil {
			return nil, err
		}
		return wrap("ForInStatement", pos, struct {
			Var        string            `json:"var"`
			IndexVar   string            `json:"indexVar,omitempty"`
			IsLastVar  string            `json:"isLastVar,omitempty"`
			Collection json.RawMessage   `json:"collection"`
			Body       []json.RawMessage `json:"body"`
			Else       []json.RawMessage `json:"else,omitempty"`
		}{v.Var, v.IndexVar, v.IsLastVar, coll, body, elseBody})
	case *WhileStatement:
		cond, err := EncodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return wrap("WhileStatement", pos, struct {
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}{cond, body})
	case *RepeatStatement:
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		until, err := EncodeExpr(v.Until)
		if err != nil {
			return nil, err
		}
		return wrap("RepeatStatement", pos, struct {
			Body  []json.RawMessage `json:"body"`
			Until json.RawMessage   `json:"until"`
		}{body, until})
	case *IfStatement:
		cond, err := EncodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		elseIfs := make([]jsonElseIf, 0, len(v.ElseIfs))
		for _, ei := range v.ElseIfs {
			c, err := EncodeExpr(ei.Cond)
			if err != nil {
				return nil, err
			}
			b, err := encodeStmtList(ei.Body)
			if err != nil {
				return nil, err
			}
			elseIfs = append(elseIfs, jsonElseIf{Cond: c, Body: b})
		}
		elseBody, err := encodeStmtList(v.Else)
		if err != nil {
			return nil, err
		}
		return wrap("IfStatement", pos, struct {
			Cond    json.RawMessage   `json:"cond"`
			Body    []json.RawMessage `json:"body"`
			ElseIfs []jsonElseIf      `json:"elseIfs,omitempty"`
			Else    []json.RawMessage `json:"else,omitempty"`
		}{cond, body, elseIfs, elseBody})
	case *IfSingleLineStatement:
		cond, err := EncodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := EncodeStmt(v.Then)
		if err != nil {
			return nil, err
		}
		els, err := encodeOptStmt(v.Else)
		if err != nil {
			return nil, err
		}
		return wrap("IfSingleLineStatement", pos, struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else,omitempty"`
		}{cond, then, els})
	case *SelectStatement:
		subj, err := EncodeExpr(v.Subject)
		if err != nil {
			return nil, err
		}
		cases := make([]jsonSelectCase, 0, len(v.Cases))
		for _, c := range v.Cases {
			values, err := encodeExprList(c.Values)
			if err != nil {
				return nil, err
			}
			body, err := encodeStmtList(c.Body)
			if err != nil {
				return nil, err
			}
			cases = append(cases, jsonSelectCase{Values: values, Body: body})
		}
		return wrap("SelectStatement", pos, struct {
			Subject json.RawMessage  `json:"subject"`
			Cases   []jsonSelectCase `json:"cases"`
		}{subj, cases})
	case *WithStatement:
		subj, err := EncodeExpr(v.Subject)
		if err != nil {
			return nil, err
		}
		body, err := encodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return wrap("WithStatement", pos, struct {
			Subject json.RawMessage   `json:"subject"`
			Body    []json.RawMessage `json:"body"`
		}{subj, body})
	case *TryStatement:
		try, err := encodeStmtList(v.Try)
		if err != nil {
			return nil, err
		}
		except, err := encodeStmtList(v.Except)
		if err != nil {
			return nil, err
		}
		finally, err := encodeStmtList(v.Finally)
		if err != nil {
			return nil, err
		}
		return wrap("TryStatement", pos, struct {
			Try        []json.RawMessage `json:"try"`
			Except     []json.RawMessage `json:"except"`
			Finally    []json.RawMessage `json:"finally,omitempty"`
			ErrMsgVar  string            `json:"errMsgVar,omitempty"`
			ErrLineVar string            `json:"errLineVar,omitempty"`
		}{try, except, finally, v.ErrMsgVar, v.ErrLineVar})
	case *ThreadStatement:
		call, err := EncodeExpr(v.Call)
		if err != nil {
			return nil, err
		}
		return wrap("ThreadStatement", pos, struct {
			Call json.RawMessage `json:"call"`
		}{call})
	case *ContinueStatement:
		return wrap("ContinueStatement", pos, struct {
			N int `json:"n"`
		}{v.N})
	case *BreakStatement:
		return wrap("BreakStatement", pos, struct {
			N int `json:"n"`
		}{v.N})
	case *ExitStatement:
		return wrap("ExitStatement", pos, struct{}{})
	case *ExitExitStatement:
		code, err := EncodeExpr(v.Code)
		if err != nil {
			return nil, err
		}
		return wrap("ExitExitStatement", pos, struct {
			Code json.RawMessage `json:"code"`
		}{code})
	case *ComErrIgnStatement:
		return wrap("ComErrIgnStatement", pos, struct{}{})
	case *ComErrRetStatement:
		return wrap("ComErrRetStatement", pos, struct{}{})
	case *ExpressionStatement:
		expr, err := EncodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return wrap("ExpressionStatement", pos, struct {
			Expr json.RawMessage `json:"expr"`
		}{expr})
	case *PrintStatement:
		expr, err := EncodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return wrap("PrintStatement", pos, struct {
			Expr json.RawMessage `json:"expr"`
		}{expr})
	case *CallStatement:
		call, err := EncodeExpr(v.Call)
		if err != nil {
			return nil, err
		}
		return wrap("CallStatement", pos, struct {
			Call json.RawMessage `json:"call"`
		}{call})
	case *OptionStatement:
		val, err := EncodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return wrap("OptionStatement", pos, struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}{v.Name, val})
	default:
		return nil, fmt.Errorf("ast: EncodeStmt: unhandled statement type %T", s)
	}
}

type jsonEnumMember struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
}

type jsonElseIf struct {
	Cond json.RawMessage   `json:"cond"`
	Body []json.RawMessage `json:"body"`
}

type jsonSelectCase struct {
	Values []json.RawMessage `json:"values,omitempty"`
	Body   []json.RawMessage `json:"body"`
}

// DecodeStmt parses a wire envelope into the concrete Statement node it
// names via "kind", restoring its source Position.
func DecodeStmt(raw json.RawMessage) (Statement, error) {
	env, err := peekKind(raw)
	if err != nil {
		return nil, err
	}
	b := base{Position: env.Pos}
	switch env.Kind {
	case "DimStatement":
		var v struct {
			Names      []string          `json:"names"`
			Values     []json.RawMessage `json:"values"`
			Dimensions []json.RawMessage `json:"dimensions,omitempty"`
			InLoop     bool              `json:"inLoop,omitempty"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		values, err := decodeExprList(v.Values)
		if err != nil {
			return nil, err
		}
		dims, err := decodeExprList(v.Dimensions)
		if err != nil {
			return nil, err
		}
		return &DimStatement{base: b, Names: v.Names, Values: values, Dimensions: dims, InLoop: v.InLoop}, nil
	case "PublicStatement":
		var v struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		val, err := DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &PublicStatement{base: b, Name: v.Name, Value: val}, nil
	case "ConstStatement":
		var v struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		val, err := DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &ConstStatement{base: b, Name: v.Name, Value: val}, nil
	case "TextBlockStatement":
		var v struct {
			Name string `json:"name"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &TextBlockStatement{base: b, Name: v.Name, Text: v.Text}, nil
	case "HashTblStatement":
		var v struct {
			Name     string          `json:"name"`
			Options  json.RawMessage `json:"options,omitempty"`
			IsPublic bool            `json:"isPublic"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		opts, err := decodeOptExpr(v.Options)
		if err != nil {
			return nil, err
		}
		return &HashTblStatement{base: b, Name: v.Name, Options: opts, IsPublic: v.IsPublic}, nil
	case "HashStatement":
		var v struct {
			Name string            `json:"name"`
			Keys []json.RawMessage `json:"keys"`
			Vals []json.RawMessage `json:"vals"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		keys, err := decodeExprList(v.Keys)
		if err != nil {
			return nil, err
		}
		vals, err := decodeExprList(v.Vals)
		if err != nil {
			return nil, err
		}
		return &HashStatement{base: b, Name: v.Name, Keys: keys, Vals: vals}, nil
	case "DefDllStatement":
		var v struct {
			Name       string     `json:"name"`
			Alias      string     `json:"alias"`
			Params     []DllParam `json:"params"`
			ReturnType string     `json:"returnType"`
			Library    string     `json:"library"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &DefDllStatement{base: b, Name: v.Name, Alias: v.Alias, Params: v.Params, ReturnType: v.ReturnType, Library: v.Library}, nil
	case "StructStatement":
		var v struct {
			Name   string        `json:"name"`
			Fields []StructField `json:"fields"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &StructStatement{base: b, Name: v.Name, Fields: v.Fields}, nil
	case "FunctionStatement":
		var v struct {
			Name    string            `json:"name"`
			Params  []jsonParam       `json:"params"`
			Body    []json.RawMessage `json:"body"`
			IsAsync bool              `json:"isAsync"`
			IsProc  bool              `json:"isProc"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		params, err := decodeParams(v.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return &FunctionStatement{base: b, Name: v.Name, Params: params, Body: body, IsAsync: v.IsAsync, IsProc: v.IsProc}, nil
	case "ModuleStatement":
		var v struct {
			Name    string            `json:"name"`
			Members []json.RawMessage `json:"members"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		members, err := decodeStmtList(v.Members)
		if err != nil {
			return nil, err
		}
		return &ModuleStatement{base: b, Name: v.Name, Members: members}, nil
	case "ClassStatement":
		var v struct {
			Name    string            `json:"name"`
			Members []json.RawMessage `json:"members"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		members, err := decodeStmtList(v.Members)
		if err != nil {
			return nil, err
		}
		return &ClassStatement{base: b, Name: v.Name, Members: members}, nil
	case "EnumStatement":
		var v struct {
			Name    string           `json:"name"`
			Members []jsonEnumMember `json:"members"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		members := make([]EnumMember, 0, len(v.Members))
		for _, m := range v.Members {
			val, err := decodeOptExpr(m.Value)
			if err != nil {
				return nil, err
			}
			members = append(members, EnumMember{Name: m.Name, Value: val})
		}
		return &EnumStatement{base: b, Name: v.Name, Members: members}, nil
	case "ForStatement":
		var v struct {
			Var  string            `json:"var"`
			From json.RawMessage   `json:"from"`
			To   json.RawMessage   `json:"to"`
			Step json.RawMessage   `json:"step,omitempty"`
			Body []json.RawMessage `json:"body"`
			Else []json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		from, err := DecodeExpr(v.From)
		if err != nil {
			return nil, err
		}
		to, err := DecodeExpr(v.To)
		if err != nil {
			return nil, err
		}
		step, err := decodeOptExpr(v.Step)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		elseBody, err := decodeStmtList(v.Else)
		if err != nil {
			return nil, err
		}
		return &ForStatement{base: b, Var: v.Var, From: from, To: to, Step: step, Body: body, Else: elseBody}, nil
	case "ForInStatement":
		var v struct {
			Var        string            `json:"var"`
			IndexVar   string            `json:"indexVar,omitempty"`
			IsLastVar  string            `json:"isLastVar,omitempty"`
			Collection json.RawMessage   `json:"collection"`
			Body       []json.RawMessage `json:"body"`
			Else       []json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		coll, err := DecodeExpr(v.Collection)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		elseBody, err := decodeStmtList(v.Else)
		if err != nil {
			return nil, err
		}
		return &ForInStatement{base: b, Var: v.Var, IndexVar: v.IndexVar, IsLastVar: v.IsLastVar, Collection: coll, Body: body, Else: elseBody}, nil
	case "WhileStatement":
		var v struct {
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		cond, err := DecodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStatement{base: b, Cond: cond, Body: body}, nil
	case "RepeatStatement":
		var v struct {
			Body  []json.RawMessage `json:"body"`
			Until json.RawMessage   `json:"until"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		until, err := DecodeExpr(v.Until)
		if err != nil {
			return nil, err
		}
		return &RepeatStatement{base: b, Body: body, Until: until}, nil
	case "IfStatement":
		var v struct {
			Cond    json.RawMessage   `json:"cond"`
			Body    []json.RawMessage `json:"body"`
			ElseIfs []jsonElseIf      `json:"elseIfs,omitempty"`
			Else    []json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		cond, err := DecodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		elseIfs := make([]ElseIfBranch, 0, len(v.ElseIfs))
		for _, ei := range v.ElseIfs {
			c, err := DecodeExpr(ei.Cond)
			if err != nil {
				return nil, err
			}
			bd, err := decodeStmtList(ei.Body)
			if err != nil {
				return nil, err
			}
			elseIfs = append(elseIfs, ElseIfBranch{Cond: c, Body: bd})
		}
		elseBody, err := decodeStmtList(v.Else)
		if err != nil {
			return nil, err
		}
		return &IfStatement{base: b, Cond: cond, Body: body, ElseIfs: elseIfs, Else: elseBody}, nil
	case "IfSingleLineStatement":
		var v struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else,omitempty"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		cond, err := DecodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		then, err := DecodeStmt(v.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeOptStmt(v.Else)
		if err != nil {
			return nil, err
		}
		return &IfSingleLineStatement{base: b, Cond: cond, Then: then, Else: els}, nil
	case "SelectStatement":
		var v struct {
			Subject json.RawMessage  `json:"subject"`
			Cases   []jsonSelectCase `json:"cases"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		subj, err := DecodeExpr(v.Subject)
		if err != nil {
			return nil, err
		}
		cases := make([]SelectCase, 0, len(v.Cases))
		for _, c := range v.Cases {
			values, err := decodeExprList(c.Values)
			if err != nil {
				return nil, err
			}
			bd, err := decodeStmtList(c.Body)
			if err != nil {
				return nil, err
			}
			cases = append(cases, SelectCase{Values: values, Body: bd})
		}
		return &SelectStatement{base: b, Subject: subj, Cases: cases}, nil
	case "WithStatement":
		var v struct {
			Subject json.RawMessage   `json:"subject"`
			Body    []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		subj, err := DecodeExpr(v.Subject)
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtList(v.Body)
		if err != nil {
			return nil, err
		}
		return &WithStatement{base: b, Subject: subj, Body: body}, nil
	case "TryStatement":
		var v struct {
			Try        []json.RawMessage `json:"try"`
			Except     []json.RawMessage `json:"except"`
			Finally    []json.RawMessage `json:"finally,omitempty"`
			ErrMsgVar  string            `json:"errMsgVar,omitempty"`
			ErrLineVar string            `json:"errLineVar,omitempty"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		try, err := decodeStmtList(v.Try)
		if err != nil {
			return nil, err
		}
		except, err := decodeStmtList(v.Except)
		if err != nil {
			return nil, err
		}
		finally, err := decodeStmtList(v.Finally)
		if err != nil {
			return nil, err
		}
		return &TryStatement{base: b, Try: try, Except: except, Finally: finally, ErrMsgVar: v.ErrMsgVar, ErrLineVar: v.ErrLineVar}, nil
	case "ThreadStatement":
		var v struct {
			Call json.RawMessage `json:"call"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		call, err := DecodeExpr(v.Call)
		if err != nil {
			return nil, err
		}
		return &ThreadStatement{base: b, Call: call}, nil
	case "ContinueStatement":
		var v struct {
			N int `json:"n"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &ContinueStatement{base: b, N: v.N}, nil
	case "BreakStatement":
		var v struct {
			N int `json:"n"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		return &BreakStatement{base: b, N: v.N}, nil
	case "ExitStatement":
		return &ExitStatement{base: b}, nil
	case "ExitExitStatement":
		var v struct {
			Code json.RawMessage `json:"code"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		code, err := DecodeExpr(v.Code)
		if err != nil {
			return nil, err
		}
		return &ExitExitStatement{base: b, Code: code}, nil
	case "ComErrIgnStatement":
		return &ComErrIgnStatement{base: b}, nil
	case "ComErrRetStatement":
		return &ComErrRetStatement{base: b}, nil
	case "ExpressionStatement":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		expr, err := DecodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{base: b, Expr: expr}, nil
	case "PrintStatement":
		var v struct {
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		expr, err := DecodeExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &PrintStatement{base: b, Expr: expr}, nil
	case "CallStatement":
		var v struct {
			Call json.RawMessage `json:"call"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		call, err := DecodeExpr(v.Call)
		if err != nil {
			return nil, err
		}
		return &CallStatement{base: b, Call: call}, nil
	case "OptionStatement":
		var v struct {
			Name  string          `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(env.Data, &v); err != nil {
			return nil, err
		}
		val, err := DecodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &OptionStatement{base: b, Name: v.Name, Value: val}, nil
	default:
		return nil, fmt.Errorf("ast: DecodeStmt: unknown statement kind %q", env.Kind)
	}
}
