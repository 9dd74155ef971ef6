package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/nodekit/pkg/kernel"
	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
)

// CustomNormalsID is the Set Custom Normals node identifier.
const CustomNormalsID = "SvSetCustomMeshNormals"

// Normal modes.
const (
	PerVert = "per_Vert"
	PerLoop = "per_Loop"
)

// ErrNotObject is returned when the Objects channel carries something that
// is not a host object mesh.
var ErrNotObject = errors.New("custom normals: not an object mesh")

// CustomNormals sets custom split normals on host objects.
type CustomNormals struct {
	Mode string `mapstructure:"mode"`
}

// NewCustomNormals builds a Set Custom Normals node. Mode defaults to
// per_Vert.
func NewCustomNormals(props map[string]any) (*CustomNormals, error) {
	n := &CustomNormals{Mode: PerVert}
	if err := node.DecodeProps(props, n); err != nil {
		return nil, err
	}
	if n.Mode != PerVert && n.Mode != PerLoop {
		return nil, fmt.Errorf("unknown normals mode %q", n.Mode)
	}
	return n, nil
}

func (n *CustomNormals) ID() string { return CustomNormalsID }
func (n *CustomNormals) Label() string { return "Set Custom Normals" }

func (n *CustomNormals) Inputs() []node.SocketSpec {
	return []node.SocketSpec{node.Objects("Objects"), node.Vertices("custom_normal")}
}

func (n *CustomNormals) Outputs() []node.SocketSpec { return nil }

// Process pairs each object with a list of normals. The normals are repeated
// cyclically, or cut, to match the object's vertex or loop count. Objects
// without a matching normals list are left alone.
func (n *CustomNormals) Process(ctx context.Context, s *node.Sockets) error {
	normals, ok := s.Get("custom_normal")
	if !ok {
		return nil
	}
	objects := nested.Children(s.GetOr("Objects", nested.List{}))
	lists := nested.Children(normals)

	for i := 0; i < len(objects) && i < len(lists); i++ {
		obj, err := objectMesh(objects[i])
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		count := obj.VertexCount()
		if n.Mode == PerLoop {
			count = obj.LoopCount()
		}
		cycled := nested.CycleTo(count, nested.Children(lists[i]))
		if len(cycled) > count {
			cycled = cycled[:count]
		}
		vecs, err := kernel.VecsFromNested(nested.List(cycled))
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}

		obj.SetAutoSmooth(true)
		if n.Mode == PerLoop {
			err = obj.SetLoopNormals(vecs)
		} else {
			err = obj.SetVertexNormals(vecs)
		}
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	return nil
}

func objectMesh(v nested.Value) (kernel.ObjectMesh, error) {
	h, ok := v.(nested.Handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotObject, nested.Repr(v))
	}
	obj, ok := h.V.(kernel.ObjectMesh)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotObject, h.V)
	}
	return obj, nil
}
