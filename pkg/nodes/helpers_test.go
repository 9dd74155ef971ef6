package nodes

import (
	"go.uber.org/zap"

	"github.com/chazu/nodekit/pkg/kernel"
	"github.com/chazu/nodekit/pkg/kernel/polymesh"
	"github.com/chazu/nodekit/pkg/nested"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

func defaultKernel() kernel.MeshKernel { return polymesh.New() }

// cubeVerts and cubeFaces describe a unit cube with outward faces.
func cubeVerts() nested.List {
	return nested.Of(
		nested.Vec3(0, 0, 0), nested.Vec3(1, 0, 0), nested.Vec3(1, 1, 0), nested.Vec3(0, 1, 0),
		nested.Vec3(0, 0, 1), nested.Vec3(1, 0, 1), nested.Vec3(1, 1, 1), nested.Vec3(0, 1, 1),
	)
}

func cubeFaces() nested.List {
	return nested.Of(
		nested.Ints(0, 3, 2, 1),
		nested.Ints(4, 5, 6, 7),
		nested.Ints(0, 1, 5, 4),
		nested.Ints(1, 2, 6, 5),
		nested.Ints(2, 3, 7, 6),
		nested.Ints(3, 0, 4, 7),
	)
}
