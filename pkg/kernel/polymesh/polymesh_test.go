package polymesh

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/nodekit/pkg/kernel"
)

// cube returns a 2x2x2 cube centred on the origin with outward faces.
func cube() *kernel.PolyMesh {
	return &kernel.PolyMesh{
		Verts: []v3.Vec{
			{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
		},
		Faces: [][]int{
			{0, 3, 2, 1}, // bottom
			{4, 5, 6, 7}, // top
			{0, 1, 5, 4}, // front
			{2, 3, 7, 6}, // back
			{0, 4, 7, 3}, // left
			{1, 2, 6, 5}, // right
		},
	}
}

func openQuad() *kernel.PolyMesh {
	return &kernel.PolyMesh{
		Verts: []v3.Vec{{X: 0}, {X: 2}, {X: 2, Y: 2}, {Y: 2}},
		Faces: [][]int{{0, 1, 2, 3}},
	}
}

// newell returns the area-weighted normal of a polygon.
func newell(m *kernel.PolyMesh, face []int) v3.Vec {
	var n v3.Vec
	for i := range face {
		a := m.Verts[face[i]]
		b := m.Verts[face[(i+1)%len(face)]]
		n = n.Add(a.Cross(b))
	}
	return n
}

// assertOutward checks every face of a mesh centred on the origin points
// away from it.
func assertOutward(t *testing.T, m *kernel.PolyMesh) {
	t.Helper()
	for i, f := range m.Faces {
		var c v3.Vec
		for _, idx := range f {
			c = c.Add(m.Verts[idx])
		}
		if newell(m, f).Dot(c) <= 0 {
			t.Errorf("face %d %v points inward", i, f)
		}
	}
}

func TestDualMeshCube(t *testing.T) {
	out, err := New().DualMesh(cube())
	if err != nil {
		t.Fatalf("DualMesh() error = %v", err)
	}
	if out.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6 face centres", out.VertexCount())
	}
	if out.FaceCount() != 8 {
		t.Fatalf("FaceCount() = %d, want 8", out.FaceCount())
	}
	for i, f := range out.Faces {
		if len(f) != 3 {
			t.Errorf("face %d has %d corners, want 3", i, len(f))
		}
	}
	if out.Verts[1] != (v3.Vec{Z: 1}) {
		t.Errorf("top face centre = %v", out.Verts[1])
	}
	assertOutward(t, out)
}

func TestDualMeshOpenBoundary(t *testing.T) {
	out, err := New().DualMesh(openQuad())
	if err != nil {
		t.Fatalf("DualMesh() error = %v", err)
	}
	if out.VertexCount() != 1 || out.FaceCount() != 0 {
		t.Errorf("got %d verts / %d faces, want 1 / 0", out.VertexCount(), out.FaceCount())
	}
	if out.Verts[0] != (v3.Vec{X: 1, Y: 1}) {
		t.Errorf("centre = %v", out.Verts[0])
	}
}

func TestTruncateVerticesCube(t *testing.T) {
	out, err := New().TruncateVertices(cube())
	if err != nil {
		t.Fatalf("TruncateVertices() error = %v", err)
	}
	if out.VertexCount() != 12 {
		t.Errorf("VertexCount() = %d, want 12 edge midpoints", out.VertexCount())
	}
	if out.FaceCount() != 14 {
		t.Fatalf("FaceCount() = %d, want 6 quads + 8 corners", out.FaceCount())
	}
	if len(out.Edges) != 24 {
		t.Errorf("edges = %d, want 24", len(out.Edges))
	}
	quads, tris := 0, 0
	for _, f := range out.Faces {
		switch len(f) {
		case 4:
			quads++
		case 3:
			tris++
		}
	}
	if quads != 6 || tris != 8 {
		t.Errorf("got %d quads and %d triangles", quads, tris)
	}
	for i, p := range out.Verts {
		if math.Abs(p.Length()-math.Sqrt2) > 1e-12 {
			t.Errorf("vertex %d = %v is not an edge midpoint", i, p)
		}
	}
	assertOutward(t, out)
}

func TestTruncateVerticesOpenBoundary(t *testing.T) {
	out, err := New().TruncateVertices(openQuad())
	if err != nil {
		t.Fatalf("TruncateVertices() error = %v", err)
	}
	if out.VertexCount() != 4 || out.FaceCount() != 1 || len(out.Edges) != 4 {
		t.Errorf("got %d verts / %d faces / %d edges", out.VertexCount(), out.FaceCount(), len(out.Edges))
	}
}

func TestTruncateVerticesLooseEdge(t *testing.T) {
	m := &kernel.PolyMesh{
		Verts: []v3.Vec{{}, {X: 4}},
		Edges: [][2]int{{0, 1}},
	}
	out, err := New().TruncateVertices(m)
	if err != nil {
		t.Fatalf("TruncateVertices() error = %v", err)
	}
	if out.VertexCount() != 1 || out.Verts[0] != (v3.Vec{X: 2}) {
		t.Errorf("verts = %v, want the edge midpoint", out.Verts)
	}
}

func TestInvalidMesh(t *testing.T) {
	bad := &kernel.PolyMesh{Verts: make([]v3.Vec, 3), Faces: [][]int{{0, 1, 5}}}
	if _, err := New().DualMesh(bad); !errors.Is(err, kernel.ErrMeshData) {
		t.Errorf("DualMesh() error = %v, want ErrMeshData", err)
	}

	// two faces walking the same edge in the same direction
	flipped := &kernel.PolyMesh{
		Verts: make([]v3.Vec, 4),
		Faces: [][]int{{0, 1, 2}, {0, 1, 3}},
	}
	if _, err := New().TruncateVertices(flipped); !errors.Is(err, kernel.ErrMeshData) {
		t.Errorf("TruncateVertices() error = %v, want ErrMeshData", err)
	}
}
