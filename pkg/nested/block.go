package nested

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBlockShape is returned when a Block's data does not fill its shape.
var ErrBlockShape = errors.New("nested: block data does not match shape")

// Block is a fixed-shape numeric array stored row-major. Its rank is at
// least 1. Blocks are treated as immutable: every operation that changes
// order or shape returns a new Block.
type Block struct {
	shape []int
	data  []float64
}

// NewBlock builds a Block from a shape and row-major data. The data slice is
// copied.
func NewBlock(shape []int, data []float64) (*Block, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: rank 0", ErrBlockShape)
	}
	size := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrBlockShape, shape)
		}
		size *= d
	}
	if size != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d values, got %d", ErrBlockShape, shape, size, len(data))
	}
	return &Block{
		shape: append([]int(nil), shape...),
		data:  append([]float64(nil), data...),
	}, nil
}

// Vector builds a rank-1 Block.
func Vector(xs ...float64) *Block {
	return &Block{shape: []int{len(xs)}, data: append([]float64(nil), xs...)}
}

// Matrix builds a rank-2 Block from equal-length rows. It panics on ragged
// rows; use NewBlock when the input is untrusted.
func Matrix(rows ...[]float64) *Block {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			panic(fmt.Sprintf("nested: matrix row %d has %d columns, want %d", i, len(r), cols))
		}
		data = append(data, r...)
	}
	return &Block{shape: []int{len(rows), cols}, data: data}
}

// Shape returns a copy of the block's dimensions.
func (b *Block) Shape() []int { return append([]int(nil), b.shape...) }

// Rank is the number of dimensions.
func (b *Block) Rank() int { return len(b.shape) }

// Len is the size of the leading axis.
func (b *Block) Len() int { return b.shape[0] }

// Data returns a copy of the row-major values.
func (b *Block) Data() []float64 { return append([]float64(nil), b.data...) }

// stride is the number of values in one leading-axis row.
func (b *Block) stride() int {
	s := 1
	for _, d := range b.shape[1:] {
		s *= d
	}
	return s
}

func (b *Block) rowData(i int) []float64 {
	s := b.stride()
	return b.data[i*s : (i+1)*s]
}

// Row returns element i along the leading axis: a Float for rank-1 blocks,
// otherwise a Block of rank-1.
func (b *Block) Row(i int) Value {
	if i < 0 || i >= b.shape[0] {
		panic(fmt.Sprintf("nested: block row %d out of range [0,%d)", i, b.shape[0]))
	}
	if len(b.shape) == 1 {
		return Float(b.data[i])
	}
	return &Block{
		shape: append([]int(nil), b.shape[1:]...),
		data:  append([]float64(nil), b.rowData(i)...),
	}
}

// SameShape reports whether all blocks share one shape.
func SameShape(blocks []*Block) bool {
	for i := 1; i < len(blocks); i++ {
		if !sameInts(blocks[i-1].shape, blocks[i].shape) {
			return false
		}
	}
	return true
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StackColumns stacks equally shaped blocks along a new second axis and
// slices the result back along the first: out[i] holds row i of every input
// block, in input order. It is the transpose of a list of blocks.
func StackColumns(blocks []*Block) []*Block {
	if len(blocks) == 0 {
		return nil
	}
	first := blocks[0]
	rows := first.Len()
	inner := first.shape[1:]
	out := make([]*Block, rows)
	for i := 0; i < rows; i++ {
		shape := append([]int{len(blocks)}, inner...)
		data := make([]float64, 0, len(blocks)*first.stride())
		for _, b := range blocks {
			data = append(data, b.rowData(i)...)
		}
		out[i] = &Block{shape: shape, data: data}
	}
	return out
}

// PermuteRows returns a copy of b with its leading-axis rows reordered so that
// row i of the result is row perm[i] of b.
func (b *Block) PermuteRows(perm []int) *Block {
	out := &Block{shape: b.Shape(), data: make([]float64, 0, len(b.data))}
	for _, p := range perm {
		out.data = append(out.data, b.rowData(p)...)
	}
	return out
}

// MapRows returns a copy of b where each leading-axis row has been replaced
// by fn(row). fn must preserve the row's shape.
func (b *Block) MapRows(fn func(row *Block) *Block) *Block {
	out := &Block{shape: b.Shape(), data: make([]float64, 0, len(b.data))}
	for i := 0; i < b.Len(); i++ {
		row := &Block{shape: append([]int(nil), b.shape[1:]...), data: append([]float64(nil), b.rowData(i)...)}
		if len(row.shape) == 0 {
			// rank-1 parent: a row is a single value, nothing to reorder.
			out.data = append(out.data, row.data...)
			continue
		}
		out.data = append(out.data, fn(row).data...)
	}
	return out
}

func (b *Block) equal(o *Block) bool {
	if b == nil || o == nil {
		return b == o
	}
	if !sameInts(b.shape, o.shape) || len(b.data) != len(o.data) {
		return false
	}
	for i := range b.data {
		if b.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// String renders the block in bracketed rows: [1. 2.] for a vector and one
// row per line, indented under the opening bracket, for higher ranks.
func (b *Block) String() string {
	var sb strings.Builder
	b.write(&sb, 0, b.data, b.shape, " ", true)
	return sb.String()
}

func (b *Block) repr() string {
	var sb strings.Builder
	sb.WriteString("array(")
	b.write(&sb, 0, b.data, b.shape, ", ", false)
	sb.WriteString(")")
	return sb.String()
}

func (b *Block) write(sb *strings.Builder, depth int, data []float64, shape []int, sep string, multiline bool) {
	sb.WriteByte('[')
	if len(shape) == 1 {
		for i, f := range data {
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(formatBlockElem(f))
		}
		sb.WriteByte(']')
		return
	}
	stride := len(data)
	if shape[0] > 0 {
		stride = len(data) / shape[0]
	}
	rowSep := ", "
	if multiline {
		rowSep = strings.Repeat("\n", len(shape)-1) + strings.Repeat(" ", depth+1)
	}
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			sb.WriteString(rowSep)
		}
		b.write(sb, depth+1, data[i*stride:(i+1)*stride], shape[1:], sep, multiline)
	}
	sb.WriteByte(']')
}

// formatBlockElem renders a block element: integral values keep a trailing
// point ("1."), others use the shortest round-trip form.
func formatBlockElem(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 0, 64) + "."
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatFloat renders a scalar float with a fractional marker, switching to
// exponent form below 1e-4 and from 1e16 up.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
