package nodes

import (
	"context"
	"fmt"

	"github.com/chazu/nodekit/pkg/listops"
	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
)

// Node identifiers.
const (
	FlipID    = "ListFlipNode"
	ShuffleID = "ListShuffleNode"
)

// Flip transposes list axes at a chosen depth.
type Flip struct {
	Level int `mapstructure:"level"`
}

// NewFlip builds a Flip node. Level defaults to 2 and must lie in 0..4.
func NewFlip(props map[string]any) (*Flip, error) {
	n := &Flip{Level: 2}
	if err := node.DecodeProps(props, n); err != nil {
		return nil, err
	}
	if n.Level < 0 || n.Level > 4 {
		return nil, fmt.Errorf("level %d out of range 0..4", n.Level)
	}
	return n, nil
}

func (n *Flip) ID() string { return FlipID }
func (n *Flip) Label() string { return "List Flip" }

func (n *Flip) Inputs() []node.SocketSpec { return []node.SocketSpec{node.Strings("data")} }
func (n *Flip) Outputs() []node.SocketSpec { return []node.SocketSpec{node.Strings("data")} }

// Process flips the data. Level 0 and 1 transpose the outer list; from 2
// up the transpose happens Level-1 lists deep.
func (n *Flip) Process(ctx context.Context, s *node.Sockets) error {
	if !s.IsLinked("data") || !s.Wanted("data") {
		return nil
	}
	data := s.GetOr("data", nested.List{})

	var (
		out nested.Value
		err error
	)
	if n.Level <= 1 {
		out, err = listops.Transpose(data)
	} else {
		out, err = listops.Flip(data, n.Level-2)
	}
	if err != nil {
		return err
	}
	return s.Set("data", out)
}

// Shuffle randomly reorders list elements at a chosen depth.
type Shuffle struct {
	Level int   `mapstructure:"level"`
	Seed  int64 `mapstructure:"seed"`
}

// NewShuffle builds a Shuffle node. Level defaults to 2 and must be at
// least 1.
func NewShuffle(props map[string]any) (*Shuffle, error) {
	n := &Shuffle{Level: 2}
	if err := node.DecodeProps(props, n); err != nil {
		return nil, err
	}
	if n.Level < 1 {
		return nil, fmt.Errorf("level %d below minimum 1", n.Level)
	}
	return n, nil
}

func (n *Shuffle) ID() string { return ShuffleID }
func (n *Shuffle) Label() string { return "List Shuffle" }

func (n *Shuffle) Inputs() []node.SocketSpec {
	return []node.SocketSpec{node.Strings("data"), node.Strings("seed")}
}

func (n *Shuffle) Outputs() []node.SocketSpec { return []node.SocketSpec{node.Strings("data")} }

// seed reads the first value of the seed channel, falling back to the
// property when the channel is unlinked or holds no integer.
func (n *Shuffle) seed(s *node.Sockets) int64 {
	if v, ok := s.Get("seed"); ok {
		if first, ok := nested.First(v); ok {
			if seed, ok := nested.AsInt(first); ok {
				return seed
			}
		}
	}
	return n.Seed
}

// Process shuffles the data with a generator seeded for this evaluation
// only, so equal inputs and seeds always give equal outputs.
func (n *Shuffle) Process(ctx context.Context, s *node.Sockets) error {
	if !s.IsLinked("data") || !s.Wanted("data") {
		return nil
	}
	rng := listops.NewRand(n.seed(s))
	out, err := listops.Shuffle(s.GetOr("data", nested.List{}), n.Level, rng)
	if err != nil {
		return err
	}
	return s.Set("data", out)
}
