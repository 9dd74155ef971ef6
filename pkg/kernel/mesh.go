package kernel

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/nodekit/pkg/nested"
)

// ErrMeshData is wrapped by errors for malformed mesh channel data.
var ErrMeshData = errors.New("kernel: invalid mesh data")

// PolyMesh is a polygon mesh: vertex positions, optional loose edges and
// faces as ordered vertex index loops.
type PolyMesh struct {
	Verts []v3.Vec
	Edges [][2]int
	Faces [][]int
}

// VertexCount returns the number of vertices.
func (m *PolyMesh) VertexCount() int {
	return len(m.Verts)
}

// FaceCount returns the number of faces.
func (m *PolyMesh) FaceCount() int {
	return len(m.Faces)
}

// LoopCount returns the number of face corners.
func (m *PolyMesh) LoopCount() int {
	n := 0
	for _, f := range m.Faces {
		n += len(f)
	}
	return n
}

// IsEmpty returns true if the mesh has no vertices.
func (m *PolyMesh) IsEmpty() bool {
	return len(m.Verts) == 0
}

// Validate checks that every index is in range and every face has at least
// three distinct corners.
func (m *PolyMesh) Validate() error {
	n := len(m.Verts)
	for i, e := range m.Edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n {
			return fmt.Errorf("%w: edge %d %v out of range for %d vertices", ErrMeshData, i, e, n)
		}
	}
	for i, f := range m.Faces {
		if len(f) < 3 {
			return fmt.Errorf("%w: face %d has %d corners", ErrMeshData, i, len(f))
		}
		seen := make(map[int]bool, len(f))
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d index %d out of range for %d vertices", ErrMeshData, i, idx, n)
			}
			if seen[idx] {
				return fmt.Errorf("%w: face %d repeats vertex %d", ErrMeshData, i, idx)
			}
			seen[idx] = true
		}
	}
	return nil
}

// FaceEdges returns the unique undirected edges of all faces, in order of
// first appearance, with the smaller index first.
func (m *PolyMesh) FaceEdges() [][2]int {
	seen := make(map[[2]int]bool)
	var out [][2]int
	for _, f := range m.Faces {
		for i := range f {
			k := EdgeKey(f[i], f[(i+1)%len(f)])
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// EdgeKey orders an undirected edge's endpoints.
func EdgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// MeshFromNested reads one object's vertices, edges and faces from channel
// data. Vertices are triples of numbers; edges pairs and faces lists of
// integer indices. Nil edges or faces are treated as empty.
func MeshFromNested(verts, edges, faces nested.Value) (*PolyMesh, error) {
	m := &PolyMesh{}
	for i, v := range nested.Children(verts) {
		p, err := VecFromNested(v)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		m.Verts = append(m.Verts, p)
	}
	for i, e := range nested.Children(edges) {
		idx, err := indices(e)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if len(idx) == 0 {
			continue
		}
		if len(idx) != 2 {
			return nil, fmt.Errorf("%w: edge %d has %d indices", ErrMeshData, i, len(idx))
		}
		m.Edges = append(m.Edges, [2]int{idx[0], idx[1]})
	}
	for i, f := range nested.Children(faces) {
		idx, err := indices(f)
		if err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		m.Faces = append(m.Faces, idx)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// VecFromNested reads a 3D vector from a sequence of three numbers.
func VecFromNested(v nested.Value) (v3.Vec, error) {
	items, ok := nested.Items(v)
	if !ok || len(items) != 3 {
		return v3.Vec{}, fmt.Errorf("%w: expected 3 coordinates, got %s", ErrMeshData, nested.Repr(v))
	}
	var c [3]float64
	for i, it := range items {
		f, ok := nested.AsFloat(it)
		if !ok {
			return v3.Vec{}, fmt.Errorf("%w: coordinate %s is not a number", ErrMeshData, nested.Repr(it))
		}
		c[i] = f
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

// VecsFromNested reads a list of 3D vectors.
func VecsFromNested(v nested.Value) ([]v3.Vec, error) {
	var out []v3.Vec
	for i, it := range nested.Children(v) {
		p, err := VecFromNested(it)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func indices(v nested.Value) ([]int, error) {
	items := nested.Children(v)
	out := make([]int, 0, len(items))
	for _, it := range items {
		n, ok := it.(nested.Int)
		if !ok {
			f, isFloat := it.(nested.Float)
			if !isFloat || float64(f) != float64(int64(f)) {
				return nil, fmt.Errorf("%w: index %s is not an integer", ErrMeshData, nested.Repr(it))
			}
			n = nested.Int(int64(f))
		}
		out = append(out, int(n))
	}
	return out, nil
}

// VecToNested is the channel form of a vector: a Tuple of three Floats.
func VecToNested(p v3.Vec) nested.Tuple {
	return nested.Vec3(p.X, p.Y, p.Z)
}

// VecsToNested converts vectors to a List of Tuples.
func VecsToNested(ps []v3.Vec) nested.List {
	out := make(nested.List, len(ps))
	for i, p := range ps {
		out[i] = VecToNested(p)
	}
	return out
}

// NestedVerts returns the vertex channel data.
func (m *PolyMesh) NestedVerts() nested.List {
	return VecsToNested(m.Verts)
}

// NestedEdges returns the edge channel data.
func (m *PolyMesh) NestedEdges() nested.List {
	out := make(nested.List, len(m.Edges))
	for i, e := range m.Edges {
		out[i] = nested.Ints(e[0], e[1])
	}
	return out
}

// NestedFaces returns the face channel data.
func (m *PolyMesh) NestedFaces() nested.List {
	out := make(nested.List, len(m.Faces))
	for i, f := range m.Faces {
		out[i] = nested.Ints(f...)
	}
	return out
}
