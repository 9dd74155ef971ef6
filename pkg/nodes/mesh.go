package nodes

import (
	"context"
	"fmt"

	"github.com/chazu/nodekit/pkg/kernel"
	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
)

// Node identifiers.
const (
	ClipVertsID = "SvClipVertsNode"
	DualMeshID  = "SvDualMeshNode"
)

// meshInputs are the Vertices, Edges and Faces sockets shared by the mesh
// modifier nodes.
var meshInputs = []node.SocketSpec{
	node.Vertices("Vertices"),
	node.Strings("Edges"),
	node.Strings("Faces"),
}

// meshRows reads the mesh sockets and pairs up one vertices, edges and
// faces entry per object. Edges default to a single empty list.
func meshRows(s *node.Sockets) [][]nested.Value {
	verts := nested.Children(s.GetOr("Vertices", nested.List{}))
	edges := nested.Children(s.GetOr("Edges", nested.Of(nested.List{})))
	faces := nested.Children(s.GetOr("Faces", nested.List{}))
	return nested.ZipLongRepeat(verts, edges, faces)
}

// ClipVerts truncates every vertex of each input mesh.
type ClipVerts struct {
	kernel kernel.MeshKernel
}

// NewClipVerts builds a Clip Vertices node. It has no properties.
func NewClipVerts(props map[string]any, k kernel.MeshKernel) (*ClipVerts, error) {
	n := &ClipVerts{kernel: k}
	if err := node.DecodeProps(props, &struct{}{}); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *ClipVerts) ID() string { return ClipVertsID }
func (n *ClipVerts) Label() string { return "Clip Vertices" }

func (n *ClipVerts) Inputs() []node.SocketSpec { return meshInputs }

func (n *ClipVerts) Outputs() []node.SocketSpec {
	return []node.SocketSpec{node.Vertices("Vertices"), node.Strings("Edges"), node.Strings("Faces")}
}

func (n *ClipVerts) Process(ctx context.Context, s *node.Sockets) error {
	if !s.AnyWanted("Vertices", "Edges", "Faces") {
		return nil
	}
	vertsOut, edgesOut, facesOut := nested.List{}, nested.List{}, nested.List{}
	for i, row := range meshRows(s) {
		m, err := kernel.MeshFromNested(row[0], row[1], row[2])
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		clipped, err := n.kernel.TruncateVertices(m)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		vertsOut = append(vertsOut, clipped.NestedVerts())
		edgesOut = append(edgesOut, clipped.NestedEdges())
		facesOut = append(facesOut, clipped.NestedFaces())
	}
	if err := s.Set("Vertices", vertsOut); err != nil {
		return err
	}
	if err := s.Set("Edges", edgesOut); err != nil {
		return err
	}
	return s.Set("Faces", facesOut)
}

// DualMesh builds the dual of each input mesh.
type DualMesh struct {
	kernel kernel.MeshKernel
}

// NewDualMesh builds a Dual Mesh node. It has no properties.
func NewDualMesh(props map[string]any, k kernel.MeshKernel) (*DualMesh, error) {
	n := &DualMesh{kernel: k}
	if err := node.DecodeProps(props, &struct{}{}); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *DualMesh) ID() string { return DualMeshID }
func (n *DualMesh) Label() string { return "Dual Mesh" }

func (n *DualMesh) Inputs() []node.SocketSpec { return meshInputs }

func (n *DualMesh) Outputs() []node.SocketSpec {
	return []node.SocketSpec{node.Vertices("Vertices"), node.Strings("Faces")}
}

func (n *DualMesh) Process(ctx context.Context, s *node.Sockets) error {
	if !s.AnyWanted("Vertices", "Faces") {
		return nil
	}
	vertsOut, facesOut := nested.List{}, nested.List{}
	for i, row := range meshRows(s) {
		m, err := kernel.MeshFromNested(row[0], row[1], row[2])
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		dual, err := n.kernel.DualMesh(m)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		vertsOut = append(vertsOut, dual.NestedVerts())
		facesOut = append(facesOut, dual.NestedFaces())
	}
	if err := s.Set("Vertices", vertsOut); err != nil {
		return err
	}
	return s.Set("Faces", facesOut)
}
