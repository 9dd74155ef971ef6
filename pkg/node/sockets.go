package node

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/nodekit/pkg/nested"
)

// ErrAlreadySet is returned when a node writes the same output twice within
// one evaluation.
var ErrAlreadySet = errors.New("node: output already set")

// Link identifies the producer of an input: the upstream node instance and
// its output socket.
type Link struct {
	Node   string
	Socket string
	Kind   nested.ChannelKind
}

// String renders the link as "node:socket".
func (l Link) String() string {
	return l.Node + ":" + l.Socket
}

type input struct {
	value nested.Value
	link  Link
}

// Sockets carries the channel values of one node evaluation.
type Sockets struct {
	inputs  map[string]input
	wanted  map[string]bool
	outputs map[string]nested.Value
}

// NewSockets returns an empty Sockets.
func NewSockets() *Sockets {
	return &Sockets{
		inputs:  make(map[string]input),
		wanted:  make(map[string]bool),
		outputs: make(map[string]nested.Value),
	}
}

// ---------------------------------------------------------------------------
// Engine side
// ---------------------------------------------------------------------------

// Feed links an input and stores the value produced upstream.
func (s *Sockets) Feed(name string, v nested.Value, from Link) {
	s.inputs[name] = input{value: v, link: from}
}

// Want marks outputs as linked downstream.
func (s *Sockets) Want(names ...string) {
	for _, n := range names {
		s.wanted[n] = true
	}
}

// Output returns the value a node wrote to an output.
func (s *Sockets) Output(name string) (nested.Value, bool) {
	v, ok := s.outputs[name]
	return v, ok
}

// Outputs returns a snapshot of every output written so far.
func (s *Sockets) Outputs() map[string]nested.Value {
	out := make(map[string]nested.Value, len(s.outputs))
	for k, v := range s.outputs {
		out[k] = v
	}
	return out
}

// OutputNames returns the written output names in sorted order.
func (s *Sockets) OutputNames() []string {
	names := make([]string, 0, len(s.outputs))
	for k := range s.outputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// InputNames returns the linked input names in sorted order.
func (s *Sockets) InputNames() []string {
	names := make([]string, 0, len(s.inputs))
	for k := range s.inputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reset clears outputs so the same Sockets can drive another evaluation.
func (s *Sockets) Reset() {
	s.outputs = make(map[string]nested.Value)
}

// ---------------------------------------------------------------------------
// Node side
// ---------------------------------------------------------------------------

// Get returns the value on a linked input.
func (s *Sockets) Get(name string) (nested.Value, bool) {
	in, ok := s.inputs[name]
	if !ok || in.value == nil {
		return nil, false
	}
	return in.value, true
}

// GetOr returns the value on a linked input, or def when it is unlinked.
func (s *Sockets) GetOr(name string, def nested.Value) nested.Value {
	if v, ok := s.Get(name); ok {
		return v
	}
	return def
}

// IsLinked reports whether an input has an upstream producer.
func (s *Sockets) IsLinked(name string) bool {
	_, ok := s.inputs[name]
	return ok
}

// Link returns the producer of a linked input, or nil.
func (s *Sockets) Link(name string) *Link {
	in, ok := s.inputs[name]
	if !ok {
		return nil
	}
	l := in.link
	return &l
}

// Wanted reports whether an output is consumed downstream.
func (s *Sockets) Wanted(name string) bool {
	return s.wanted[name]
}

// AnyWanted reports whether at least one of the outputs is consumed.
func (s *Sockets) AnyWanted(names ...string) bool {
	for _, n := range names {
		if s.wanted[n] {
			return true
		}
	}
	return false
}

// Set writes an output.
func (s *Sockets) Set(name string, v nested.Value) error {
	if _, ok := s.outputs[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadySet, name)
	}
	s.outputs[name] = v
	return nil
}
