package value

import (
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// uobjectData is the shared backing store a UObject's path points into.
// Several UObject values sharing the same *uobjectData is how "structural
// sharing via path" is realised: each UObject is a (data, path)
// pair, and reading/writing through any of them mutates the same JSON
// text, observed by all of them.
type uobjectData struct {
	mu   sync.Mutex
	json string
}

// UObject is a JSON-like tree value rooted at Path inside a shared
// document. The root UObject has Path == "".
type UObject struct {
	data *uobjectData
	Path string
}

// NewUObject parses raw JSON text into a fresh, independently-backed
// UObject rooted at "".
func NewUObject(json string) *UObject {
	if json == "" {
		json = "{}"
	}
	return &UObject{data: &uobjectData{json: json}}
}

func (*UObject) Kind() Kind { return KindUObject }

func (u *UObject) String() string {
	u.data.mu.Lock()
	defer u.data.mu.Unlock()
	if u.Path == "" {
		return u.data.json
	}
	return gjson.Get(u.data.json, u.Path).Raw
}

// at builds the full gjson/sjson path for a relative sub-path under this
// UObject's own Path.
func (u *UObject) at(relPath string) string {
	if u.Path == "" {
		return relPath
	}
	if relPath == "" {
		return u.Path
	}
	return u.Path + "." + relPath
}

// Sub returns a new UObject sharing this one's backing data, rooted
// deeper at relPath — structural sharing: Sub and its parent observe the
// same writes.
func (u *UObject) Sub(relPath string) *UObject {
	return &UObject{data: u.data, Path: u.at(relPath)}
}

// Get reads relPath (gjson dot/bracket syntax) relative to this UObject's
// root and converts the result to a Value. Missing paths yield Null.
func (u *UObject) Get(relPath string) Value {
	u.data.mu.Lock()
	raw := u.data.json
	u.data.mu.Unlock()
	r := gjson.Get(raw, u.at(relPath))
	return gjsonToValue(r)
}

// Set writes v at relPath relative to this UObject's root.
func (u *UObject) Set(relPath string, v Value) error {
	u.data.mu.Lock()
	defer u.data.mu.Unlock()
	next, err := sjson.SetRaw(u.data.json, u.at(relPath), valueToJSON(v))
	if err != nil {
		return err
	}
	u.data.json = next
	return nil
}

// Append pushes v onto the JSON array at this UObject's root, implementing
// `UObject += v`. Errors if the root is not an array.
func (u *UObject) Append(v Value) error {
	u.data.mu.Lock()
	defer u.data.mu.Unlock()
	cur := gjson.Get(u.data.json, u.Path)
	if u.Path != "" && !cur.IsArray() {
		return errNotArray
	}
	if u.Path == "" && !gjson.Parse(u.data.json).IsArray() {
		return errNotArray
	}
	target := u.Path
	if target == "" {
		target = "-1"
	} else {
		target = target + ".-1"
	}
	next, err := sjson.SetRaw(u.data.json, target, valueToJSON(v))
	if err != nil {
		return err
	}
	u.data.json = next
	return nil
}

// ArrayElements returns the element values of this UObject's root when it
// is a JSON array, for `for ... in` iteration.
func (u *UObject) ArrayElements() ([]Value, bool) {
	u.data.mu.Lock()
	raw := u.data.json
	u.data.mu.Unlock()
	r := gjson.Get(raw, u.Path)
	if u.Path == "" {
		r = gjson.Parse(raw)
	}
	if !r.IsArray() {
		return nil, false
	}
	var elems []Value
	r.ForEach(func(_, v gjson.Result) bool {
		elems = append(elems, gjsonToValue(v))
		return true
	})
	return elems, true
}

var errNotArray = uobjectError("UObject is not an array")

type uobjectError string

func (e uobjectError) Error() string { return string(e) }

// gjsonToValue converts a parsed gjson.Result into the evaluator's Value
// universe.
func gjsonToValue(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Bool{Val: false}
	case gjson.True:
		return Bool{Val: true}
	case gjson.Number:
		return Num{Val: r.Num}
	case gjson.String:
		return String{Val: r.Str}
	case gjson.JSON:
		if r.IsArray() {
			elems := []Value{}
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return NewArray(elems)
		}
		return &UObject{data: &uobjectData{json: r.Raw}}
	default:
		return Null{}
	}
}

// valueToJSON renders v as a JSON literal suitable for sjson.SetRaw.
func valueToJSON(v Value) string {
	switch t := v.(type) {
	case Null, Empty:
		return "null"
	case Bool:
		if t.Val {
			return "true"
		}
		return "false"
	case Num:
		return strconv.FormatFloat(t.Val, 'g', -1, 64)
	case String:
		return strconv.Quote(t.Val)
	case ExpandableString:
		return strconv.Quote(t.Val)
	case *Array:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range t.Elements {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(valueToJSON(e))
		}
		sb.WriteByte(']')
		return sb.String()
	case *UObject:
		return t.String()
	default:
		return strconv.Quote(v.String())
	}
}
