package value

import (
	"strconv"
	"strings"
	"sync"
)

// Array is an ordered, shared, mutable sequence of Value. Multi-dimensional
// arrays are plain nesting: an Array whose elements are themselves Arrays.
// Array is shared by pointer: binding it to a second name aliases the same
// backing slice, and `A[i] = v` writes into that slice in place. Mu is
// carried for callers that want to lock; Get and Set do not take it.
// Callers that need copy-on-write semantics clone via Clone before
// mutating.
type Array struct {
	Mu       *sync.Mutex
	Elements []Value
}

// NewArray wraps elements in a fresh Array with its own mutex.
func NewArray(elements []Value) *Array {
	return &Array{Mu: &sync.Mutex{}, Elements: elements}
}

func (*Array) Kind() Kind { return KindArray }

func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// Clone returns a shallow copy of the Array with a fresh mutex and backing
// slice (element values themselves are not deep-copied).
func (a *Array) Clone() *Array {
	cp := make([]Value, len(a.Elements))
	copy(cp, a.Elements)
	return NewArray(cp)
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Elements) }

// Get returns the element at i, or an error via the bool return when i is
// out of [0, len).
func (a *Array) Get(i int) (Value, bool) {
	if i < 0 || i >= len(a.Elements) {
		return nil, false
	}
	return a.Elements[i], true
}

// Set writes the element at i in place. Returns false when i is out of
// bounds.
func (a *Array) Set(i int, v Value) bool {
	if i < 0 || i >= len(a.Elements) {
		return false
	}
	a.Elements[i] = v
	return true
}

// ByteArray is a sequence of octets, kept distinct from Array for typing
// and storage efficiency (DefDll/COM buffers round-trip through this type
// rather than through boxed Num elements).
type ByteArray struct {
	Mu    *sync.Mutex
	Bytes []byte
}

// NewByteArray wraps bytes in a fresh ByteArray.
func NewByteArray(b []byte) *ByteArray {
	return &ByteArray{Mu: &sync.Mutex{}, Bytes: b}
}

func (*ByteArray) Kind() Kind { return KindByteArray }

func (b *ByteArray) String() string {
	parts := make([]string, len(b.Bytes))
	for i, v := range b.Bytes {
		parts[i] = strconv.Itoa(int(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (b *ByteArray) Len() int { return len(b.Bytes) }

func (b *ByteArray) Get(i int) (Value, bool) {
	if i < 0 || i >= len(b.Bytes) {
		return nil, false
	}
	return Num{Val: float64(b.Bytes[i])}, true
}

// Set writes byte i from v, which must be a Num in [0, 255]. ok is false
// when i is out of bounds or v is out of range.
func (b *ByteArray) Set(i int, v float64) bool {
	if i < 0 || i >= len(b.Bytes) || v < 0 || v > 255 {
		return false
	}
	b.Bytes[i] = byte(v)
	return true
}
