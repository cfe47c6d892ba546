// Package scope defines the scope-tag enum shared by the environment layer
// and by module/instance members, so that both internal/env and
// internal/value can tag a binding's visibility without importing each
// other (value.Module's members and env.NamedObject both carry a Tag).
package scope

// Tag distinguishes the namespaces a name can be bound in. Tag drives
// lookup priority in name resolution (internal/env) and visibility in
// module/instance member access (internal/value).
type Tag int

const (
	Local Tag = iota
	Public
	Const
	Function
	Module
	Class
	Struct
	Enum
	BuiltinConst
	BuiltinFunc
)

func (t Tag) String() string {
	switch t {
	case Local:
		return "Local"
	case Public:
		return "Public"
	case Const:
		return "Const"
	case Function:
		return "Function"
	case Module:
		return "Module"
	case Class:
		return "Class"
	case Struct:
		return "Struct"
	case Enum:
		return "Enum"
	case BuiltinConst:
		return "BuiltinConst"
	case BuiltinFunc:
		return "BuiltinFunc"
	default:
		return "Unknown"
	}
}

// Redefinable reports whether a name already bound under this tag, in the
// same layer, may be silently redefined rather than erroring. Only Public
// bindings redefine; everything else (Local/Const/Function/Module/Class)
// rejects a second declaration in the same layer.
func (t Tag) Redefinable() bool {
	return t == Public
}
