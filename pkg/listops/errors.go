package listops

import (
	"errors"
	"fmt"

	"github.com/chazu/nodekit/pkg/nested"
)

// ErrUnsupportedShape is the sentinel behind every UnsupportedShapeError.
var ErrUnsupportedShape = errors.New("listops: unsupported shape")

// UnsupportedShapeError reports a leaf value found where an operation needed
// to index into or reorder a sequence.
type UnsupportedShapeError struct {
	Op    string       // "flip" or "shuffle"
	Value nested.Value // the offending value
	Path  []int        // indices from the root to the offending value
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("listops: %s: cannot reorder %s at %v", e.Op, describe(e.Value), e.Path)
}

func (e *UnsupportedShapeError) Unwrap() error { return ErrUnsupportedShape }

func describe(v nested.Value) string {
	switch x := v.(type) {
	case nested.Int:
		return "int scalar"
	case nested.Float:
		return "float scalar"
	case nested.Str:
		return "string scalar"
	case nested.Handle:
		return fmt.Sprintf("handle %T", x.V)
	case *nested.Block:
		return fmt.Sprintf("rank-%d block", x.Rank())
	case nil:
		return "missing value"
	}
	return fmt.Sprintf("%T", v)
}

func childPath(path []int, i int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = i
	return out
}
