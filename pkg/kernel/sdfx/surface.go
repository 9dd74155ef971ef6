// Package sdfx provides solid-face surfaces built on the
// github.com/deadsy/sdfx SDF library and a kernel.SurfaceRelaxer that runs
// Lloyd relaxation over them.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/nodekit/pkg/kernel"
)

// Surface is the boundary of an SDF solid. It travels through surface
// channels as a nested.Handle.
type Surface struct {
	s sdf.SDF3
}

// NewSurface wraps an existing SDF.
func NewSurface(s sdf.SDF3) *Surface {
	return &Surface{s: s}
}

// Box creates the surface of a box with its minimum corner at the origin.
// sdf.Box3D centers the box at the origin, so it is shifted by half its size.
func Box(x, y, z float64) (*Surface, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return NewSurface(sdf.Transform3D(s, m)), nil
}

// Cylinder creates the surface of a cylinder centred on the origin along Z.
func Cylinder(height, radius float64) (*Surface, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return NewSurface(s), nil
}

// Translate returns the surface moved by d.
func (s *Surface) Translate(d v3.Vec) *Surface {
	return NewSurface(sdf.Transform3D(s.s, sdf.Translate3d(d)))
}

// Distance is the signed distance from p to the surface, negative inside.
func (s *Surface) Distance(p v3.Vec) float64 {
	return s.s.Evaluate(p)
}

// Bounds returns the axis-aligned bounding box.
func (s *Surface) Bounds() (min, max v3.Vec) {
	bb := s.s.BoundingBox()
	return bb.Min, bb.Max
}

// Mesh tessellates the surface with marching cubes. Coincident triangle
// corners are welded so the result is an indexed triangle mesh.
func (s *Surface) Mesh(cells int) *kernel.PolyMesh {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s.s, renderer)

	m := &kernel.PolyMesh{}
	weld := make(map[[3]int64]int)
	index := func(p v3.Vec) int {
		key := [3]int64{quantize(p.X), quantize(p.Y), quantize(p.Z)}
		if i, ok := weld[key]; ok {
			return i
		}
		i := len(m.Verts)
		m.Verts = append(m.Verts, p)
		weld[key] = i
		return i
	}
	for _, tri := range triangles {
		a, b, c := index(tri[0]), index(tri[1]), index(tri[2])
		if a == b || b == c || a == c {
			continue
		}
		m.Faces = append(m.Faces, []int{a, b, c})
	}
	return m
}

// weldScale is the inverse of the distance under which corners are merged.
const weldScale = 1e9

func quantize(f float64) int64 {
	return int64(math.Round(f * weldScale))
}

// normal estimates the outward unit normal at p by central differences.
func (s *Surface) normal(p v3.Vec) v3.Vec {
	const eps = 1e-6
	g := v3.Vec{
		X: s.s.Evaluate(v3.Vec{X: p.X + eps, Y: p.Y, Z: p.Z}) - s.s.Evaluate(v3.Vec{X: p.X - eps, Y: p.Y, Z: p.Z}),
		Y: s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y + eps, Z: p.Z}) - s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y - eps, Z: p.Z}),
		Z: s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z + eps}) - s.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z - eps}),
	}
	if g.Length() == 0 {
		return v3.Vec{}
	}
	return g.Normalize()
}

// Project moves p onto the surface along the distance gradient.
func (s *Surface) Project(p v3.Vec) v3.Vec {
	for i := 0; i < 16; i++ {
		d := s.s.Evaluate(p)
		if math.Abs(d) < 1e-9 {
			break
		}
		n := s.normal(p)
		if n.Length() == 0 {
			break
		}
		p = p.Sub(n.MulScalar(d))
	}
	return p
}

// UV maps p to planar parameter coordinates: X and Y normalised to the
// bounding box, with Z always 0.
func (s *Surface) UV(p v3.Vec) v3.Vec {
	lo, hi := s.Bounds()
	return v3.Vec{X: unit(p.X, lo.X, hi.X), Y: unit(p.Y, lo.Y, hi.Y)}
}

func unit(x, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (x - lo) / (hi - lo)
}
