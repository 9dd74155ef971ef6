package kernel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MemoryObject is an ObjectMesh backed by a PolyMesh. Hosts that keep their
// scene in process can pass it through object channels directly.
type MemoryObject struct {
	Name          string
	Mesh          *PolyMesh
	AutoSmooth    bool
	VertexNormals []v3.Vec
	LoopNormals   []v3.Vec
}

var _ ObjectMesh = (*MemoryObject)(nil)

func (o *MemoryObject) VertexCount() int { return o.Mesh.VertexCount() }
func (o *MemoryObject) LoopCount() int { return o.Mesh.LoopCount() }

func (o *MemoryObject) SetAutoSmooth(on bool) { o.AutoSmooth = on }

func (o *MemoryObject) SetVertexNormals(normals []v3.Vec) error {
	if len(normals) != o.VertexCount() {
		return fmt.Errorf("kernel: %s: got %d vertex normals for %d vertices", o.Name, len(normals), o.VertexCount())
	}
	o.VertexNormals = normalizeAll(normals)
	return nil
}

func (o *MemoryObject) SetLoopNormals(normals []v3.Vec) error {
	if len(normals) != o.LoopCount() {
		return fmt.Errorf("kernel: %s: got %d loop normals for %d loops", o.Name, len(normals), o.LoopCount())
	}
	o.LoopNormals = normalizeAll(normals)
	return nil
}

// normalizeAll returns unit-length copies; zero vectors stay zero, which
// means "keep the automatic normal" for that element.
func normalizeAll(ns []v3.Vec) []v3.Vec {
	out := make([]v3.Vec, len(ns))
	for i, n := range ns {
		if n.Length() == 0 {
			continue
		}
		out[i] = n.Normalize()
	}
	return out
}
