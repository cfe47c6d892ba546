// Package ast defines the closed set of statement and expression nodes the
// evaluator accepts from the front end (lexer/parser), per the AST input
// contract. The evaluator never constructs these nodes itself; it only
// walks a Program built by an external producer.
package ast

import "github.com/uwscr/uwscr-core/token"

// Node is the base interface implemented by every statement and expression.
type Node interface {
	String() string
}

// Statement is a node executed for its side effect. It may still produce a
// value (e.g. the last expression statement in a function body), but its
// primary role is sequencing, not value production.
type Statement interface {
	Node
	Pos() token.Position
	statementNode()
}

// Expression is a node that evaluates to a Value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of the AST: the global (definitions) section and the
// script (top-level executable) section, plus the raw source lines used for
// error reporting.
type Program struct {
	Global     []Statement
	Script     []Statement
	Lines      []string
	ScriptName string // originating script name, used when no per-statement Script is set
}

func (p *Program) String() string {
	out := ""
	for _, s := range p.Global {
		out += s.String() + "\n"
	}
	for _, s := range p.Script {
		out += s.String() + "\n"
	}
	return out
}

// base embeds the source position common to every statement.
type base struct {
	Position token.Position
}

func (b base) Pos() token.Position { return b.Position }
