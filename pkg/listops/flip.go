// Package listops holds the structural transforms over nested channel data:
// transposing ragged lists at a chosen depth and shuffling them with a
// caller-owned generator.
package listops

import "github.com/chazu/nodekit/pkg/nested"

// Flip transposes the data found level+1 steps below v. With level 0 every
// element of v is transposed; with level n every element is flipped at
// level n-1. The result is always a List and v is not modified.
func Flip(v nested.Value, level int) (nested.Value, error) {
	return flip(v, level, nil)
}

func flip(v nested.Value, level int, path []int) (nested.Value, error) {
	items, ok := nested.Items(v)
	if !ok {
		return nil, &UnsupportedShapeError{Op: "flip", Value: v, Path: path}
	}
	out := make(nested.List, len(items))
	for i, it := range items {
		var err error
		if level <= 0 {
			out[i], err = transpose(it, childPath(path, i))
		} else {
			out[i], err = flip(it, level-1, childPath(path, i))
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Transpose swaps the first two axes of v.
//
// When every element of v is a Block of one shape, the blocks are stacked
// column-wise and result[i] is a Block holding row i of each input block.
// Otherwise result[i] is a List of element i of every element of v; elements
// too short to have an index i are skipped, so ragged input shrinks rather
// than fails. An empty v yields an empty List.
func Transpose(v nested.Value) (nested.Value, error) {
	return transpose(v, nil)
}

func transpose(v nested.Value, path []int) (nested.Value, error) {
	items, ok := nested.Items(v)
	if !ok {
		return nil, &UnsupportedShapeError{Op: "flip", Value: v, Path: path}
	}
	if len(items) == 0 {
		return nested.List{}, nil
	}

	if blocks, ok := allBlocks(items); ok && nested.SameShape(blocks) {
		cols := nested.StackColumns(blocks)
		out := make(nested.List, len(cols))
		for i, c := range cols {
			out[i] = c
		}
		return out, nil
	}

	maxLen := 0
	for i, it := range items {
		n, ok := nested.Len(it)
		if !ok {
			return nil, &UnsupportedShapeError{Op: "flip", Value: it, Path: childPath(path, i)}
		}
		maxLen = max(maxLen, n)
	}

	out := make(nested.List, maxLen)
	for i := range out {
		row := nested.List{}
		for _, it := range items {
			if n, _ := nested.Len(it); i < n {
				row = append(row, nested.Index(it, i))
			}
		}
		out[i] = row
	}
	return out, nil
}

func allBlocks(items []nested.Value) ([]*nested.Block, bool) {
	blocks := make([]*nested.Block, len(items))
	for i, it := range items {
		b, ok := it.(*nested.Block)
		if !ok {
			return nil, false
		}
		blocks[i] = b
	}
	return blocks, true
}
