// Package node defines the contract between node types and the graph engine
// that evaluates them.
//
// A node is stateless per evaluation: the engine fills a Sockets value with
// the data arriving on linked inputs, marks the outputs that something
// downstream consumes, and calls Process. The node reads its inputs, computes,
// and writes its outputs back into the same Sockets.
package node

import (
	"context"

	"github.com/chazu/nodekit/pkg/nested"
)

// SocketSpec describes one input or output channel of a node type.
type SocketSpec struct {
	Name string
	Kind nested.ChannelKind
}

// Node is implemented by every node type in the registry.
type Node interface {
	// ID is the registry identifier of the node type.
	ID() string
	// Label is the human readable name of the node type.
	Label() string
	Inputs() []SocketSpec
	Outputs() []SocketSpec
	// Process runs one evaluation. Nodes must not retain s after returning.
	Process(ctx context.Context, s *Sockets) error
}

// Strings, Vertices, Matrices, Objects and Surfaces build socket specs.
func Strings(name string) SocketSpec { return SocketSpec{Name: name, Kind: nested.KindStrings} }
func Vertices(name string) SocketSpec { return SocketSpec{Name: name, Kind: nested.KindVertices} }
func Matrices(name string) SocketSpec { return SocketSpec{Name: name, Kind: nested.KindMatrices} }
func Objects(name string) SocketSpec { return SocketSpec{Name: name, Kind: nested.KindObjects} }
func Surfaces(name string) SocketSpec { return SocketSpec{Name: name, Kind: nested.KindSurfaces} }
