// Package nested defines the value tree that flows between node channels.
//
// A Value is either a leaf (a scalar, an opaque host handle, or a
// fixed-shape numeric Block) or a sequence (List or Tuple) of Values.
// Sequences may be ragged: siblings need not share length or depth.
package nested

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the closed set of node-graph payload types.
type Value interface {
	// String renders the default textual form of the value.
	String() string
	nestedValue() // marker method restricting implementations to this package
}

// Int is an integer scalar.
type Int int64

// Float is a floating point scalar.
type Float float64

// Str is a string scalar.
type Str string

// Handle wraps an opaque host object (a surface, an object mesh) so it can
// travel through channels next to ordinary data. The engine never looks
// inside it.
type Handle struct {
	V any
}

// List is an ordered, mutable sequence.
type List []Value

// Tuple is a fixed-arity sequence. Vectors travel as Tuples of Floats.
type Tuple []Value

func (Int) nestedValue() {}
func (Float) nestedValue() {}
func (Str) nestedValue() {}
func (Handle) nestedValue() {}
func (List) nestedValue() {}
func (Tuple) nestedValue() {}
func (*Block) nestedValue() {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (f Float) String() string { return formatFloat(float64(f)) }
func (s Str) String() string { return string(s) }

func (h Handle) String() string { return fmt.Sprintf("<%T>", h.V) }

func (l List) String() string {
	return "[" + joinRepr(l) + "]"
}

func (t Tuple) String() string {
	if len(t) == 1 {
		return "(" + Repr(t[0]) + ",)"
	}
	return "(" + joinRepr(t) + ")"
}

func joinRepr(items []Value) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = Repr(it)
	}
	return strings.Join(parts, ", ")
}

// Repr renders v the way it appears inside a container: strings are quoted,
// blocks are wrapped in array(...), everything else matches String.
func Repr(v Value) string {
	switch x := v.(type) {
	case Str:
		return quoteStr(string(x))
	case *Block:
		return x.repr()
	case nil:
		return "None"
	default:
		return v.String()
	}
}

func quoteStr(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// Vec3 builds the Tuple form of a 3D vector.
func Vec3(x, y, z float64) Tuple {
	return Tuple{Float(x), Float(y), Float(z)}
}

// Ints builds a List of Int scalars.
func Ints(xs ...int) List {
	out := make(List, len(xs))
	for i, x := range xs {
		out[i] = Int(x)
	}
	return out
}

// Floats builds a List of Float scalars.
func Floats(xs ...float64) List {
	out := make(List, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

// Of builds a List from values. It reads better than a List literal when
// nesting several levels deep.
func Of(items ...Value) List {
	if items == nil {
		return List{}
	}
	return List(items)
}

// IsSequence reports whether v can be indexed (List, Tuple or Block).
func IsSequence(v Value) bool {
	switch v.(type) {
	case List, Tuple, *Block:
		return true
	}
	return false
}

// Len returns the number of children of a sequence. The second result is
// false for leaves.
func Len(v Value) (int, bool) {
	switch x := v.(type) {
	case List:
		return len(x), true
	case Tuple:
		return len(x), true
	case *Block:
		return x.Len(), true
	}
	return 0, false
}

// Index returns child i of a sequence. It panics on leaves and out of range
// indices, like a slice index would.
func Index(v Value, i int) Value {
	switch x := v.(type) {
	case List:
		return x[i]
	case Tuple:
		return x[i]
	case *Block:
		return x.Row(i)
	}
	panic(fmt.Sprintf("nested: index of non-sequence %T", v))
}

// Items returns the children of a sequence as a fresh slice. The second
// result is false for leaves.
func Items(v Value) ([]Value, bool) {
	switch x := v.(type) {
	case List:
		return append([]Value(nil), x...), true
	case Tuple:
		return append([]Value(nil), x...), true
	case *Block:
		out := make([]Value, x.Len())
		for i := range out {
			out[i] = x.Row(i)
		}
		return out, true
	}
	return nil, false
}

// Depth counts nesting levels by following first elements. Lists and Tuples
// add one level each, a Block adds its rank. An empty sequence or a leaf has
// depth 0. This is the measure the text formatter uses to decide grouping.
func Depth(v Value) int {
	switch x := v.(type) {
	case *Block:
		if x.Len() == 0 {
			return 0
		}
		return x.Rank()
	case List, Tuple:
		n, _ := Len(x)
		if n == 0 {
			return 0
		}
		switch first := Index(x, 0).(type) {
		case List, Tuple:
			return 1 + Depth(first)
		case *Block:
			return 1 + first.Rank()
		default:
			return 1
		}
	}
	return 0
}

// NestingLevel is the data nesting level used when aligning node inputs:
// leaves are 0, an empty sequence is 1, and a non-empty sequence is one more
// than its first element.
func NestingLevel(v Value) int {
	switch x := v.(type) {
	case *Block:
		return x.Rank()
	case List, Tuple:
		n, _ := Len(x)
		if n == 0 {
			return 1
		}
		return 1 + NestingLevel(Index(x, 0))
	}
	return 0
}

// EnsureNestingLevel wraps v in single-element Lists until its nesting level
// reaches level. Values that are already deep enough are returned unchanged.
func EnsureNestingLevel(v Value, level int) Value {
	for NestingLevel(v) < level {
		v = List{v}
	}
	return v
}

// Equal reports deep equality, including sequence kind.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case List:
		y, ok := b.(List)
		return ok && equalSlices(x, y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && equalSlices(x, y)
	case *Block:
		y, ok := b.(*Block)
		return ok && x.equal(y)
	case Handle:
		y, ok := b.(Handle)
		return ok && x.V == y.V
	}
	return a == b
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// AsInt extracts an integer from a scalar, truncating floats. Strings are
// parsed. The second result is false when no integer could be read.
func AsInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	case Float:
		return int64(x), true
	case Str:
		n, err := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// AsFloat extracts a float from a numeric scalar.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Int:
		return float64(x), true
	case Float:
		return float64(x), true
	}
	return 0, false
}

// First follows first elements down to a leaf. It is how nodes read a single
// parameter (a seed, an iteration count) out of a channel.
func First(v Value) (Value, bool) {
	for {
		if !IsSequence(v) {
			return v, v != nil
		}
		n, _ := Len(v)
		if n == 0 {
			return nil, false
		}
		v = Index(v, 0)
	}
}
