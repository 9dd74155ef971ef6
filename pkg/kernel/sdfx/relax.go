package sdfx

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"go.uber.org/zap"

	"github.com/chazu/nodekit/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.SurfaceRelaxer = (*Relaxer)(nil)

// ErrNotSurface is returned when Relax receives a handle it cannot use.
var ErrNotSurface = errors.New("sdfx: not an sdfx surface")

// defaultCells controls marching cubes sampling resolution.
const defaultCells = 48

// Relaxer implements kernel.SurfaceRelaxer over sdfx surfaces. The surface
// is sampled with marching cubes; each triangle contributes its projected
// centroid weighted by its area.
type Relaxer struct {
	cells  int
	logger *zap.Logger
}

// NewRelaxer returns a Relaxer sampling at the given resolution; zero or
// negative cells selects the default.
func NewRelaxer(cells int, logger *zap.Logger) *Relaxer {
	if cells <= 0 {
		cells = defaultCells
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relaxer{cells: cells, logger: logger}
}

type sample struct {
	p v3.Vec
	w float64
}

// Relax runs Lloyd's algorithm on the surface. Samples farther than
// thickness from their nearest site are left out of its cell; a
// non-positive thickness means no limit. Sites always end on the surface.
func (r *Relaxer) Relax(surface any, sites []v3.Vec, thickness float64, iterations int) ([]v3.Vec, []v3.Vec, error) {
	s, ok := surface.(*Surface)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %T", ErrNotSurface, surface)
	}
	if iterations < 0 {
		return nil, nil, fmt.Errorf("sdfx: negative iteration count %d", iterations)
	}

	relaxed := make([]v3.Vec, len(sites))
	for i, p := range sites {
		relaxed[i] = s.Project(p)
	}

	if iterations > 0 && len(sites) > 0 {
		samples := r.samples(s)
		r.logger.Debug("lloyd relaxation",
			zap.Int("sites", len(sites)),
			zap.Int("samples", len(samples)),
			zap.Int("iterations", iterations))
		for it := 0; it < iterations; it++ {
			relaxed = lloydStep(s, relaxed, samples, thickness)
		}
	}

	uv := make([]v3.Vec, len(relaxed))
	for i, p := range relaxed {
		uv[i] = s.UV(p)
	}
	return relaxed, uv, nil
}

func (r *Relaxer) samples(s *Surface) []sample {
	m := s.Mesh(r.cells)
	out := make([]sample, 0, len(m.Faces))
	for _, f := range m.Faces {
		a, b, c := m.Verts[f[0]], m.Verts[f[1]], m.Verts[f[2]]
		area := b.Sub(a).Cross(c.Sub(a)).Length() / 2
		if area == 0 {
			continue
		}
		centre := a.Add(b).Add(c).DivScalar(3)
		out = append(out, sample{p: s.Project(centre), w: area})
	}
	return out
}

// lloydStep moves every site to the projected weighted centroid of the
// samples closest to it. Sites that own no samples stay put.
func lloydStep(s *Surface, sites []v3.Vec, samples []sample, thickness float64) []v3.Vec {
	sums := make([]v3.Vec, len(sites))
	weights := make([]float64, len(sites))
	for _, smp := range samples {
		best, bestDist := -1, math.Inf(1)
		for i, p := range sites {
			if d := smp.p.Sub(p).Length(); d < bestDist {
				best, bestDist = i, d
			}
		}
		if thickness > 0 && bestDist > thickness {
			continue
		}
		sums[best] = sums[best].Add(smp.p.MulScalar(smp.w))
		weights[best] += smp.w
	}
	out := make([]v3.Vec, len(sites))
	for i, p := range sites {
		if weights[i] == 0 {
			out[i] = p
			continue
		}
		out[i] = s.Project(sums[i].DivScalar(weights[i]))
	}
	return out
}
