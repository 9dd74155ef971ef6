package nodes

import (
	"context"
	"fmt"

	"github.com/chazu/nodekit/pkg/kernel"
	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
)

// LloydSolidFaceID is the Lloyd on Solid Face node identifier.
const LloydSolidFaceID = "SvLloydSolidFaceNode"

// LloydSolidFace spreads points evenly over surfaces with Lloyd's algorithm.
type LloydSolidFace struct {
	Iterations int     `mapstructure:"iterations"`
	Thickness  float64 `mapstructure:"thickness"`

	relaxer kernel.SurfaceRelaxer
}

// NewLloydSolidFace builds the node. Iterations default to 3 and thickness
// to 1; neither may be negative.
func NewLloydSolidFace(props map[string]any, r kernel.SurfaceRelaxer) (*LloydSolidFace, error) {
	n := &LloydSolidFace{Iterations: 3, Thickness: 1, relaxer: r}
	if err := node.DecodeProps(props, n); err != nil {
		return nil, err
	}
	if n.Iterations < 0 {
		return nil, fmt.Errorf("iterations %d below minimum 0", n.Iterations)
	}
	if n.Thickness < 0 {
		return nil, fmt.Errorf("thickness %g below minimum 0", n.Thickness)
	}
	return n, nil
}

func (n *LloydSolidFace) ID() string { return LloydSolidFaceID }
func (n *LloydSolidFace) Label() string { return "Lloyd on Solid Face" }

func (n *LloydSolidFace) Inputs() []node.SocketSpec {
	return []node.SocketSpec{
		node.Surfaces("SolidFace"),
		node.Vertices("Sites"),
		node.Strings("Thickness"),
		node.Strings("Iterations"),
	}
}

func (n *LloydSolidFace) Outputs() []node.SocketSpec {
	return []node.SocketSpec{node.Vertices("Sites"), node.Vertices("UVPoints")}
}

// Process relaxes each list of sites on its surface. Inputs are matched in
// two levels: objects first, then surfaces within an object. Output keeps
// the per-object grouping only when the sites arrived grouped.
func (n *LloydSolidFace) Process(ctx context.Context, s *node.Sockets) error {
	if !s.AnyWanted("Sites", "UVPoints") {
		return nil
	}
	sitesIn := s.GetOr("Sites", nested.List{})
	nestedOutput := nested.NestingLevel(sitesIn) > 1

	surfaces := nested.EnsureNestingLevel(s.GetOr("SolidFace", nested.List{}), 2)
	sites := nested.EnsureNestingLevel(sitesIn, 4)
	iterations := nested.EnsureNestingLevel(s.GetOr("Iterations", nested.Of(nested.Ints(n.Iterations))), 2)
	thickness := nested.EnsureNestingLevel(s.GetOr("Thickness", nested.Of(nested.Floats(n.Thickness))), 2)

	vertsOut, uvOut := nested.List{}, nested.List{}
	outer := nested.ZipLongRepeat(
		nested.Children(surfaces), nested.Children(sites),
		nested.Children(iterations), nested.Children(thickness))
	for i, params := range outer {
		newVerts, newUV := nested.List{}, nested.List{}
		inner := nested.ZipLongRepeat(
			nested.Children(params[0]), nested.Children(params[1]),
			nested.Children(params[2]), nested.Children(params[3]))
		for j, row := range inner {
			relaxed, uv, err := n.relax(row)
			if err != nil {
				return fmt.Errorf("object %d surface %d: %w", i, j, err)
			}
			newVerts = append(newVerts, relaxed)
			newUV = append(newUV, uv)
		}
		if nestedOutput {
			vertsOut = append(vertsOut, newVerts)
			uvOut = append(uvOut, newUV)
		} else {
			vertsOut = append(vertsOut, newVerts...)
			uvOut = append(uvOut, newUV...)
		}
	}
	if err := s.Set("Sites", vertsOut); err != nil {
		return err
	}
	return s.Set("UVPoints", uvOut)
}

func (n *LloydSolidFace) relax(row []nested.Value) (nested.List, nested.List, error) {
	h, ok := row[0].(nested.Handle)
	if !ok {
		return nil, nil, fmt.Errorf("solid face %s is not a surface", nested.Repr(row[0]))
	}
	sites, err := kernel.VecsFromNested(row[1])
	if err != nil {
		return nil, nil, err
	}
	iterations, ok := nested.AsInt(row[2])
	if !ok || iterations < 0 {
		return nil, nil, fmt.Errorf("bad iteration count %s", nested.Repr(row[2]))
	}
	thickness, ok := nested.AsFloat(row[3])
	if !ok {
		return nil, nil, fmt.Errorf("bad thickness %s", nested.Repr(row[3]))
	}
	relaxed, uv, err := n.relaxer.Relax(h.V, sites, thickness, int(iterations))
	if err != nil {
		return nil, nil, err
	}
	return kernel.VecsToNested(relaxed), kernel.VecsToNested(uv), nil
}
