// Package polymesh is a reference kernel.MeshKernel that works directly on
// polygon index lists. It expects consistently oriented faces; vertices on
// an open boundary have no closed ring of faces and are left out of the
// operations that need one.
package polymesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/nodekit/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.MeshKernel = (*Kernel)(nil)

// Kernel implements kernel.MeshKernel.
type Kernel struct{}

// New returns a new Kernel.
func New() *Kernel {
	return &Kernel{}
}

// ---------------------------------------------------------------------------
// Topology
// ---------------------------------------------------------------------------

// topology indexes the directed edges of a mesh's faces.
type topology struct {
	mesh *kernel.PolyMesh
	// edgeFace maps a directed edge a->b to the face that walks it.
	edgeFace map[[2]int]int
	// vertFaces lists the faces touching each vertex, in face order.
	vertFaces [][]int
}

func newTopology(m *kernel.PolyMesh) (*topology, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	t := &topology{
		mesh:      m,
		edgeFace:  make(map[[2]int]int),
		vertFaces: make([][]int, len(m.Verts)),
	}
	for fi, f := range m.Faces {
		for i, a := range f {
			b := f[(i+1)%len(f)]
			if prev, dup := t.edgeFace[[2]int{a, b}]; dup {
				return nil, fmt.Errorf("%w: faces %d and %d share directed edge %d->%d (inconsistent winding)",
					kernel.ErrMeshData, prev, fi, a, b)
			}
			t.edgeFace[[2]int{a, b}] = fi
			t.vertFaces[a] = append(t.vertFaces[a], fi)
		}
	}
	return t, nil
}

// corner returns the vertices before and after v in face f.
func (t *topology) corner(f, v int) (prev, next int) {
	face := t.mesh.Faces[f]
	for i, idx := range face {
		if idx == v {
			return face[(i+len(face)-1)%len(face)], face[(i+1)%len(face)]
		}
	}
	panic(fmt.Sprintf("polymesh: vertex %d not in face %d", v, f))
}

// ring returns the faces around v in counter-clockwise order seen from the
// side the faces point to. The second result is false when the faces do not
// close around v, which is the case on an open boundary.
func (t *topology) ring(v int) ([]int, bool) {
	faces := t.vertFaces[v]
	if len(faces) < 3 {
		return nil, false
	}
	start := faces[0]
	ring := []int{start}
	f := start
	for range faces {
		prev, _ := t.corner(f, v)
		g, ok := t.edgeFace[[2]int{v, prev}]
		if !ok {
			return nil, false
		}
		if g == start {
			return ring, len(ring) == len(faces)
		}
		ring = append(ring, g)
		f = g
	}
	return nil, false
}

func centroid(m *kernel.PolyMesh, face []int) v3.Vec {
	var c v3.Vec
	for _, idx := range face {
		c = c.Add(m.Verts[idx])
	}
	return c.DivScalar(float64(len(face)))
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// DualMesh places a vertex at the centre of every face and builds one face
// per interior vertex from the centres of the faces around it.
func (k *Kernel) DualMesh(m *kernel.PolyMesh) (*kernel.PolyMesh, error) {
	t, err := newTopology(m)
	if err != nil {
		return nil, fmt.Errorf("dual mesh: %w", err)
	}
	out := &kernel.PolyMesh{Verts: make([]v3.Vec, len(m.Faces))}
	for fi, f := range m.Faces {
		out.Verts[fi] = centroid(m, f)
	}
	for v := range m.Verts {
		ring, closed := t.ring(v)
		if !closed {
			continue
		}
		out.Faces = append(out.Faces, ring)
	}
	return out, nil
}

// TruncateVertices cuts every vertex off at the midpoints of its edges.
// The result has one vertex per edge, one face per original face and one
// face per interior vertex.
func (k *Kernel) TruncateVertices(m *kernel.PolyMesh) (*kernel.PolyMesh, error) {
	t, err := newTopology(m)
	if err != nil {
		return nil, fmt.Errorf("truncate vertices: %w", err)
	}

	out := &kernel.PolyMesh{}
	mid := make(map[[2]int]int)
	midpoint := func(a, b int) int {
		key := kernel.EdgeKey(a, b)
		if idx, ok := mid[key]; ok {
			return idx
		}
		idx := len(out.Verts)
		out.Verts = append(out.Verts, m.Verts[a].Add(m.Verts[b]).MulScalar(0.5))
		mid[key] = idx
		return idx
	}

	for _, e := range m.Edges {
		midpoint(e[0], e[1])
	}
	for _, f := range m.Faces {
		face := make([]int, len(f))
		for i := range f {
			face[i] = midpoint(f[i], f[(i+1)%len(f)])
		}
		out.Faces = append(out.Faces, face)
	}
	for v := range m.Verts {
		ring, closed := t.ring(v)
		if !closed {
			continue
		}
		face := make([]int, len(ring))
		for i, f := range ring {
			_, next := t.corner(f, v)
			face[i] = midpoint(v, next)
		}
		out.Faces = append(out.Faces, face)
	}
	out.Edges = out.FaceEdges()
	return out, nil
}
