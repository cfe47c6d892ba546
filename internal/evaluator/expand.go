package evaluator

import (
	"strings"

	"github.com/uwscr/uwscr-core/internal/env"
)

// expandString substitutes every `<#NAME>` token of an expandable string
// literal: the four reserved names CR/TAB/DBL/NULL resolve to
// fixed control characters, everything else is looked up as a variable in
// scopeEnv and substituted with its String() form. A name that resolves to
// nothing is left as the literal `<#NAME>` text, unexpanded.
func (e *Evaluator) expandString(s string, scopeEnv *env.Environment) string {
	var out strings.Builder
	for {
		start := strings.Index(s, "<#")
		if start < 0 {
			out.WriteString(s)
			break
		}
		end := strings.Index(s[start:], ">")
		if end < 0 {
			out.WriteString(s)
			break
		}
		end += start
		out.WriteString(s[:start])
		name := s[start+2 : end]
		out.WriteString(e.resolvePlaceholder(name, scopeEnv, s[start:end+1]))
		s = s[end+1:]
	}
	return out.String()
}

func (e *Evaluator) resolvePlaceholder(name string, scopeEnv *env.Environment, literal string) string {
	switch strings.ToUpper(name) {
	case "CR":
		return "\r\n"
	case "TAB":
		return "\t"
	case "DBL":
		return "\""
	case "NULL":
		return "\x00"
	}
	v, ok := scopeEnv.GetVariable(name)
	if !ok {
		return literal
	}
	return v.String()
}
