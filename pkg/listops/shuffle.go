package listops

import (
	"math/rand/v2"

	"github.com/chazu/nodekit/pkg/nested"
)

// Shuffle randomly reorders the sequences found level-1 steps below v.
//
// Level 1 permutes v itself; level n shuffles every element of v at level
// n-1. Levels below 1 are treated as 1. Blocks reached at level 2 have each
// of their rows permuted independently. A permuted sequence keeps its kind:
// Lists stay Lists, Tuples stay Tuples and Blocks are permuted along their
// leading axis. Descending through a sequence always produces a List.
//
// All randomness comes from rng, so two calls with generators seeded alike
// return the same result. v is not modified.
func Shuffle(v nested.Value, level int, rng *rand.Rand) (nested.Value, error) {
	if level < 1 {
		level = 1
	}
	return shuffle(v, level, rng, nil)
}

func shuffle(v nested.Value, level int, rng *rand.Rand, path []int) (nested.Value, error) {
	level--
	if level > 0 {
		if b, ok := v.(*nested.Block); ok && level == 1 {
			if b.Rank() < 2 {
				return nil, &UnsupportedShapeError{Op: "shuffle", Value: b, Path: path}
			}
			return b.MapRows(func(row *nested.Block) *nested.Block {
				return row.PermuteRows(permutation(rng, row.Len()))
			}), nil
		}
		items, ok := nested.Items(v)
		if !ok {
			return nil, &UnsupportedShapeError{Op: "shuffle", Value: v, Path: path}
		}
		out := make(nested.List, len(items))
		for i, it := range items {
			s, err := shuffle(it, level, rng, childPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	}

	switch x := v.(type) {
	case nested.List:
		out := append(nested.List{}, x...)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out, nil
	case nested.Tuple:
		out := append(nested.Tuple{}, x...)
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out, nil
	case *nested.Block:
		return x.PermuteRows(permutation(rng, x.Len())), nil
	}
	return nil, &UnsupportedShapeError{Op: "shuffle", Value: v, Path: path}
}

func permutation(rng *rand.Rand, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	rng.Shuffle(n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}

// NewRand returns the generator a node uses for one evaluation.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}
