// Package kernel defines the geometry backends the mesh nodes delegate to.
// Nodes only marshal channel data into these types and back; the actual
// topology work lives behind the interfaces, so a backend can be swapped
// without touching the nodes.
package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// MeshKernel performs whole-mesh topology operations.
type MeshKernel interface {
	// TruncateVertices clips every vertex: each edge is replaced by its
	// midpoint, each face by the polygon of its edge midpoints, and each
	// interior vertex by a new face around it.
	TruncateVertices(m *PolyMesh) (*PolyMesh, error)

	// DualMesh builds the dual: one vertex per face centre and one face per
	// interior vertex, ordered around that vertex.
	DualMesh(m *PolyMesh) (*PolyMesh, error)
}

// ObjectMesh is a host scene object whose mesh can carry custom split
// normals. The node never creates these; they arrive through object
// channels as handles.
type ObjectMesh interface {
	VertexCount() int
	// LoopCount is the number of face corners.
	LoopCount() int
	SetAutoSmooth(on bool)
	// SetVertexNormals sets one custom normal per vertex.
	SetVertexNormals(normals []v3.Vec) error
	// SetLoopNormals sets one custom normal per face corner.
	SetLoopNormals(normals []v3.Vec) error
}

// SurfaceRelaxer redistributes points over a surface with Lloyd's
// algorithm. The surface is whatever handle the backend understands.
type SurfaceRelaxer interface {
	// Relax moves sites towards the centroids of their Voronoi cells on the
	// surface for the given number of iterations. It returns the relaxed
	// sites and their surface parameter coordinates (U, V, 0).
	Relax(surface any, sites []v3.Vec, thickness float64, iterations int) (relaxed, uv []v3.Vec, err error)
}
