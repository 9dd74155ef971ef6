package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chazu/nodekit/pkg/kernel"
	"github.com/chazu/nodekit/pkg/kernel/sdfx"
	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
)

// Request describes one node evaluation. JSON is valid YAML, so request
// files may use either.
type Request struct {
	// Node is a registry identifier or alias.
	Node string `yaml:"node"`
	// Name is the upstream node linked to every input without a From. A
	// random one is generated when empty.
	Name  string           `yaml:"name"`
	Props map[string]any   `yaml:"props"`
	Input map[string]Input `yaml:"inputs"`
	// Want lists the outputs consumed downstream. Empty means all of them.
	Want []string `yaml:"want"`
}

// Input is the data arriving on one socket. Exactly one of Value, Objects
// and Surfaces is used.
type Input struct {
	Value    any           `yaml:"value"`
	Objects  []ObjectSpec  `yaml:"objects"`
	Surfaces []SurfaceSpec `yaml:"surfaces"`
	// From names the producer as "node:socket".
	From string `yaml:"from"`
	Kind string `yaml:"kind"`
}

// ObjectSpec is an in-memory mesh object for object channels.
type ObjectSpec struct {
	Name  string `yaml:"name"`
	Verts any    `yaml:"verts"`
	Faces any    `yaml:"faces"`
}

// SurfaceSpec is an sdfx solid whose boundary feeds surface channels.
type SurfaceSpec struct {
	Shape  string    `yaml:"shape"` // box or cylinder
	Size   []float64 `yaml:"size"`
	Height float64   `yaml:"height"`
	Radius float64   `yaml:"radius"`
	At     []float64 `yaml:"at"`
}

// loadRequest reads a request file.
func loadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return parseRequest(data)
}

func parseRequest(data []byte) (*Request, error) {
	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	if req.Node == "" {
		return nil, errors.New("request: node is required")
	}
	if req.Name == "" {
		req.Name = uuid.NewString()
	}
	return &req, nil
}

// built is a request turned into runtime values.
type built struct {
	node    node.Node
	sockets *node.Sockets
	objects []*kernel.MemoryObject
}

func (r *Request) build(reg *node.Registry) (*built, error) {
	n, err := reg.New(r.Node, r.Props)
	if err != nil {
		return nil, err
	}
	b := &built{node: n, sockets: node.NewSockets()}

	for name, in := range r.Input {
		v, err := b.inputValue(name, in)
		if err != nil {
			return nil, err
		}
		b.sockets.Feed(name, v, in.link(r.Name, name))
	}

	want := r.Want
	if len(want) == 0 {
		for _, o := range n.Outputs() {
			want = append(want, o.Name)
		}
	}
	b.sockets.Want(want...)
	return b, nil
}

// link names the producer of an input: From when set, otherwise the
// request's own producer and the socket name.
func (in Input) link(producer, socket string) node.Link {
	l := node.Link{Node: producer, Socket: socket, Kind: nested.ParseKind(in.Kind)}
	if in.From == "" {
		return l
	}
	if i := strings.LastIndex(in.From, ":"); i >= 0 {
		l.Node, l.Socket = in.From[:i], in.From[i+1:]
	} else {
		l.Node = in.From
	}
	return l
}

func (b *built) inputValue(socket string, in Input) (nested.Value, error) {
	switch {
	case len(in.Objects) > 0:
		out := nested.List{}
		for i, spec := range in.Objects {
			m, err := spec.mesh()
			if err != nil {
				return nil, fmt.Errorf("input %s: object %d: %w", socket, i, err)
			}
			obj := &kernel.MemoryObject{Name: spec.Name, Mesh: m}
			b.objects = append(b.objects, obj)
			out = append(out, nested.Handle{V: obj})
		}
		return out, nil
	case len(in.Surfaces) > 0:
		out := nested.List{}
		for i, spec := range in.Surfaces {
			s, err := spec.surface()
			if err != nil {
				return nil, fmt.Errorf("input %s: surface %d: %w", socket, i, err)
			}
			out = append(out, nested.Handle{V: s})
		}
		return out, nil
	}
	v, err := nested.FromAny(in.Value)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", socket, err)
	}
	return v, nil
}

func (o ObjectSpec) mesh() (*kernel.PolyMesh, error) {
	verts, err := nested.FromAny(o.Verts)
	if err != nil {
		return nil, fmt.Errorf("verts: %w", err)
	}
	faces, err := nested.FromAny(o.Faces)
	if err != nil {
		return nil, fmt.Errorf("faces: %w", err)
	}
	return kernel.MeshFromNested(verts, nil, faces)
}

func (s SurfaceSpec) surface() (*sdfx.Surface, error) {
	var (
		surf *sdfx.Surface
		err  error
	)
	switch s.Shape {
	case "box":
		if len(s.Size) != 3 {
			return nil, fmt.Errorf("box needs 3 sizes, got %d", len(s.Size))
		}
		surf, err = sdfx.Box(s.Size[0], s.Size[1], s.Size[2])
	case "cylinder":
		surf, err = sdfx.Cylinder(s.Height, s.Radius)
	default:
		return nil, fmt.Errorf("unknown shape %q", s.Shape)
	}
	if err != nil {
		return nil, err
	}
	if len(s.At) == 3 {
		surf = surf.Translate(v3.Vec{X: s.At[0], Y: s.At[1], Z: s.At[2]})
	}
	return surf, nil
}
