// Package dll expresses the DefDll foreign-library contract as plain Go
// interfaces. It does not load or call real native libraries — the live
// FFI layer is an external collaborator — it only defines the shape a real
// backend must implement, plus the argument-marshalling rules the
// evaluator applies before handing values to that backend.
package dll

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/uwscr/uwscr-core/internal/value"
)

// NativeType is one of the scalar/array/struct native types a DefDll
// parameter may declare.
type NativeType string

const (
	TypeInt32  NativeType = "int"
	TypeInt64  NativeType = "int64"
	TypeFloat  NativeType = "float"
	TypeDouble NativeType = "double"
	TypeBool   NativeType = "bool"
	TypeString NativeType = "string" // code-page buffer
	TypeWString NativeType = "wstring" // UTF-16 buffer
	TypePointer NativeType = "pointer"
	TypeStruct  NativeType = "struct"
)

// Param describes one marshalled parameter slot.
type Param struct {
	Type    NativeType
	ByRef   bool
	IsArray bool
}

// Declaration mirrors ast.DefDllStatement, resolved and ready to invoke.
type Declaration struct {
	Name       string
	Alias      string
	Params     []Param
	ReturnType NativeType
	Library    string
}

// Library is the contract a real native-call backend implements. Call
// marshals args per Declaration.Params, invokes the foreign function, and
// returns the marshalled result plus any by-ref slot values, which the
// evaluator writes back to the caller's place expressions via the
// assignment protocol.
type Library interface {
	// Call invokes decl.Name (or Alias) in decl.Library with args already
	// converted to value.Value. It returns the function's return value
	// and, for each ByRef parameter, the value to write back (in
	// parameter order, only for ByRef slots).
	Call(decl Declaration, args []value.Value) (result value.Value, byRefResults []value.Value, err error)
}

// Marshal converts a Value to the Go representation NativeType expects.
// This is the pure, backend-independent half of marshalling: strings
// convert to a code-page or UTF-16 buffer depending on type, integer
// types truncate to int64 and float types convert to float64, bools use
// the default truth rule, and a pointer takes a Struct's Ptr or the
// value's integer form. Integer values are not range-checked against
// the native width, Param.IsArray is not consulted here, and a Struct is
// returned as the *value.Struct itself rather than packed into a buffer.
// A real Library implementation calls this before touching the OS.
func Marshal(t NativeType, v value.Value) (any, error) {
	switch t {
	case TypeInt32, TypeInt64:
		n, err := value.ToInt(v)
		if err != nil {
			return nil, err
		}
		return n, nil
	case TypeFloat, TypeDouble:
		f, err := value.ToNumber(v)
		if err != nil {
			return nil, err
		}
		return f, nil
	case TypeBool:
		b, _ := value.Truthy(v, value.Default)
		return b, nil
	case TypeString:
		return EncodeString(v.String())
	case TypeWString:
		return EncodeWString(v.String())
	case TypePointer:
		if s, ok := v.(*value.Struct); ok {
			return s.Ptr, nil
		}
		n, err := value.ToInt(v)
		return uintptr(n), err
	case TypeStruct:
		s, ok := v.(*value.Struct)
		if !ok {
			return nil, errNotStruct
		}
		return s, nil
	default:
		return nil, errUnknownNativeType
	}
}

// EncodeString converts s to a NUL-terminated code-page byte buffer, the
// `string` native type's wire form. Runes outside the code page are
// substituted rather than failing the whole call.
func EncodeString(s string) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return append(b, 0), nil
}

// EncodeWString converts s to a NUL-terminated UTF-16LE byte buffer, the
// `wstring` native type's wire form.
func EncodeWString(s string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	return append(b, 0, 0), nil
}

var errNotStruct = dllError("DefDll: expected a Struct argument")
var errUnknownNativeType = dllError("DefDll: unknown native type")

type dllError string

func (e dllError) Error() string { return string(e) }
