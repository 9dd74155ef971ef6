package kernel

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/nodekit/pkg/nested"
)

// --- PolyMesh helper method tests ---

func quad() *PolyMesh {
	return &PolyMesh{
		Verts: []v3.Vec{{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Faces: [][]int{{0, 1, 2, 3}},
	}
}

func TestPolyMeshCounts(t *testing.T) {
	tests := []struct {
		name                string
		mesh                *PolyMesh
		verts, faces, loops int
		empty               bool
	}{
		{"empty", &PolyMesh{}, 0, 0, 0, true},
		{"quad", quad(), 4, 1, 4, false},
		{"two triangles", &PolyMesh{
			Verts: make([]v3.Vec, 4),
			Faces: [][]int{{0, 1, 2}, {2, 3, 0}},
		}, 4, 2, 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.verts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.verts)
			}
			if got := tt.mesh.FaceCount(); got != tt.faces {
				t.Errorf("FaceCount() = %d, want %d", got, tt.faces)
			}
			if got := tt.mesh.LoopCount(); got != tt.loops {
				t.Errorf("LoopCount() = %d, want %d", got, tt.loops)
			}
			if got := tt.mesh.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestPolyMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mesh    *PolyMesh
		wantErr bool
	}{
		{"valid quad", quad(), false},
		{"face index out of range", &PolyMesh{Verts: make([]v3.Vec, 3), Faces: [][]int{{0, 1, 3}}}, true},
		{"degenerate face", &PolyMesh{Verts: make([]v3.Vec, 3), Faces: [][]int{{0, 1}}}, true},
		{"repeated corner", &PolyMesh{Verts: make([]v3.Vec, 3), Faces: [][]int{{0, 1, 1}}}, true},
		{"edge out of range", &PolyMesh{Verts: make([]v3.Vec, 2), Edges: [][2]int{{0, 2}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMeshData) {
				t.Errorf("error %v does not wrap ErrMeshData", err)
			}
		})
	}
}

func TestFaceEdges(t *testing.T) {
	m := &PolyMesh{
		Verts: make([]v3.Vec, 4),
		Faces: [][]int{{0, 1, 2}, {2, 1, 3}},
	}
	got := m.FaceEdges()
	want := [][2]int{{0, 1}, {1, 2}, {0, 2}, {1, 3}, {2, 3}}
	if len(got) != len(want) {
		t.Fatalf("FaceEdges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMeshFromNested(t *testing.T) {
	verts := nested.Of(nested.Vec3(0, 0, 0), nested.Vec3(1, 0, 0), nested.Floats(1, 1, 0))
	edges := nested.Of(nested.Ints(0, 1), nested.List{})
	faces := nested.Of(nested.Of(nested.Int(0), nested.Int(1), nested.Float(2)))

	m, err := MeshFromNested(verts, edges, faces)
	if err != nil {
		t.Fatalf("MeshFromNested() error = %v", err)
	}
	if m.VertexCount() != 3 || len(m.Edges) != 1 || m.FaceCount() != 1 {
		t.Fatalf("unexpected mesh %+v", m)
	}
	if m.Verts[2] != (v3.Vec{X: 1, Y: 1}) {
		t.Errorf("vertex 2 = %v", m.Verts[2])
	}

	if got := m.NestedFaces().String(); got != "[[0, 1, 2]]" {
		t.Errorf("NestedFaces() = %s", got)
	}
	if got := m.NestedVerts()[1].String(); got != "(1.0, 0.0, 0.0)" {
		t.Errorf("NestedVerts()[1] = %s", got)
	}
}

func TestMeshFromNestedErrors(t *testing.T) {
	tests := []struct {
		name                string
		verts, edges, faces nested.Value
	}{
		{"short vertex", nested.Of(nested.Floats(1, 2)), nil, nil},
		{"string coordinate", nested.Of(nested.Of(nested.Str("x"), nested.Float(0), nested.Float(0))), nil, nil},
		{"fractional index", nested.Of(nested.Vec3(0, 0, 0)), nil, nested.Of(nested.Floats(0.5, 0, 0))},
		{"three index edge", nested.Of(nested.Vec3(0, 0, 0)), nested.Of(nested.Ints(0, 0, 0)), nil},
		{"index out of range", nested.Of(nested.Vec3(0, 0, 0)), nil, nested.Of(nested.Ints(0, 1, 2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MeshFromNested(tt.verts, tt.edges, tt.faces)
			if !errors.Is(err, ErrMeshData) {
				t.Errorf("error = %v, want ErrMeshData", err)
			}
		})
	}
}

func TestMemoryObjectNormals(t *testing.T) {
	o := &MemoryObject{Name: "Plane", Mesh: quad()}

	err := o.SetVertexNormals([]v3.Vec{{Z: 2}, {Z: 1}, {}, {X: 3, Z: 4}})
	if err != nil {
		t.Fatalf("SetVertexNormals() error = %v", err)
	}
	if o.VertexNormals[0] != (v3.Vec{Z: 1}) {
		t.Errorf("normal 0 = %v, want unit z", o.VertexNormals[0])
	}
	if o.VertexNormals[2] != (v3.Vec{}) {
		t.Errorf("zero normal should stay zero, got %v", o.VertexNormals[2])
	}
	if math.Abs(o.VertexNormals[3].X-0.6) > 1e-12 || math.Abs(o.VertexNormals[3].Z-0.8) > 1e-12 {
		t.Errorf("normal 3 = %v, want (0.6, 0, 0.8)", o.VertexNormals[3])
	}

	if err := o.SetLoopNormals(make([]v3.Vec, 3)); err == nil {
		t.Error("expected error for wrong loop normal count")
	}
	if err := o.SetLoopNormals(make([]v3.Vec, 4)); err != nil {
		t.Errorf("SetLoopNormals() error = %v", err)
	}
}
