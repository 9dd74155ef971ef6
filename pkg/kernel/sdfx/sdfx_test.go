package sdfx

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestBoxSurface(t *testing.T) {
	s, err := Box(10, 10, 10)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	lo, hi := s.Bounds()
	if math.Abs(lo.X) > 1e-9 || math.Abs(hi.X-10) > 1e-9 {
		t.Errorf("bounds = %v..%v, want 0..10", lo, hi)
	}
	if d := s.Distance(v3.Vec{X: 5, Y: 5, Z: 5}); d >= 0 {
		t.Errorf("centre distance = %f, want negative", d)
	}
	if d := s.Distance(v3.Vec{X: 5, Y: 5, Z: 12}); math.Abs(d-2) > 1e-9 {
		t.Errorf("distance above top = %f, want 2", d)
	}
}

func TestMesh(t *testing.T) {
	s, err := Box(10, 10, 10)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	m := s.Mesh(16)
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if m.FaceCount() == 0 {
		t.Fatal("expected non-zero face count")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("welded mesh is invalid: %v", err)
	}
	// welding shares corners between triangles
	if m.VertexCount() >= m.FaceCount()*3 {
		t.Errorf("vertices were not welded: %d verts for %d faces", m.VertexCount(), m.FaceCount())
	}
	t.Logf("box mesh: %d verts, %d faces", m.VertexCount(), m.FaceCount())
}

func TestProject(t *testing.T) {
	s, err := Box(10, 10, 10)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	p := s.Project(v3.Vec{X: 4, Y: 6, Z: 13})
	if math.Abs(s.Distance(p)) > 1e-6 {
		t.Errorf("projected point %v is %f from the surface", p, s.Distance(p))
	}
	if math.Abs(p.Z-10) > 1e-6 {
		t.Errorf("projected point %v should be on the top face", p)
	}
}

func TestRelax(t *testing.T) {
	s, err := Box(10, 10, 10)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	sites := []v3.Vec{
		{X: 4.5, Y: 4.5, Z: 10.5},
		{X: 5.5, Y: 4.5, Z: 10.5},
		{X: 4.5, Y: 5.5, Z: 10.5},
		{X: 5.5, Y: 5.5, Z: 9.5},
	}
	r := NewRelaxer(16, nil)
	relaxed, uv, err := r.Relax(s, sites, 0, 3)
	if err != nil {
		t.Fatalf("Relax failed: %v", err)
	}
	if len(relaxed) != len(sites) || len(uv) != len(sites) {
		t.Fatalf("got %d sites and %d uv points, want %d", len(relaxed), len(uv), len(sites))
	}
	for i, p := range relaxed {
		if d := math.Abs(s.Distance(p)); d > 1e-4 {
			t.Errorf("site %d %v is %f from the surface", i, p, d)
		}
		if uv[i].X < -1e-9 || uv[i].X > 1+1e-9 || uv[i].Y < -1e-9 || uv[i].Y > 1+1e-9 || uv[i].Z != 0 {
			t.Errorf("uv %d = %v out of range", i, uv[i])
		}
	}

	// relaxation spreads clustered sites apart
	spread := func(ps []v3.Vec) float64 {
		min := math.Inf(1)
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				min = math.Min(min, ps[i].Sub(ps[j]).Length())
			}
		}
		return min
	}
	if spread(relaxed) <= spread(sites) {
		t.Errorf("minimum spacing %f did not grow from %f", spread(relaxed), spread(sites))
	}
}

func TestRelaxZeroIterationsProjects(t *testing.T) {
	s, err := Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}
	relaxed, _, err := NewRelaxer(0, nil).Relax(s, []v3.Vec{{X: 1, Y: 1, Z: 3}}, 1, 0)
	if err != nil {
		t.Fatalf("Relax failed: %v", err)
	}
	if math.Abs(relaxed[0].Z-2) > 1e-6 {
		t.Errorf("site = %v, want it on the top face", relaxed[0])
	}
}

func TestRelaxRejectsOtherHandles(t *testing.T) {
	_, _, err := NewRelaxer(8, nil).Relax("not a surface", nil, 1, 1)
	if !errors.Is(err, ErrNotSurface) {
		t.Errorf("error = %v, want ErrNotSurface", err)
	}
}
