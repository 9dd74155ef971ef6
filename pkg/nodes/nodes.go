// Package nodes holds the node types: list flip and shuffle, text out, the
// script exec node, and the mesh nodes that delegate to a geometry kernel.
//
// Node instances keep their properties between evaluations but no data; a
// single instance must not be evaluated concurrently.
package nodes

import (
	"go.uber.org/zap"

	"github.com/chazu/nodekit/pkg/kernel"
	"github.com/chazu/nodekit/pkg/kernel/polymesh"
	"github.com/chazu/nodekit/pkg/node"
	"github.com/chazu/nodekit/pkg/script"
	"github.com/chazu/nodekit/pkg/textio"
)

// Deps are the host services node types are built with.
type Deps struct {
	Logger *zap.Logger
	// Sink receives Text Out dumps and feeds Exec script loads.
	Sink textio.Sink
	// ScriptOptions configure the Engine each Exec node creates.
	ScriptOptions []script.Option
	// ScriptLanguage is the language of Exec nodes whose properties name
	// none. Empty means lisp.
	ScriptLanguage script.Language
	// Mesh defaults to the polymesh kernel.
	Mesh kernel.MeshKernel
	// Relaxer backs the Lloyd node. The node is only registered when set.
	Relaxer kernel.SurfaceRelaxer
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Sink == nil {
		d.Sink = textio.NewMemorySink()
	}
	if d.Mesh == nil {
		d.Mesh = polymesh.New()
	}
	return d
}

// Register adds every node type to reg, with a short alias for each.
func Register(reg *node.Registry, deps Deps) {
	deps = deps.withDefaults()

	reg.Register(FlipID, func(props map[string]any) (node.Node, error) {
		return NewFlip(props)
	})
	reg.Register(ShuffleID, func(props map[string]any) (node.Node, error) {
		return NewShuffle(props)
	})
	reg.Register(TextOutID, func(props map[string]any) (node.Node, error) {
		return NewTextOut(props, deps.Sink, deps.Logger)
	})
	reg.Register(ExecID, func(props map[string]any) (node.Node, error) {
		opts := append([]script.Option{script.WithLogger(deps.Logger)}, deps.ScriptOptions...)
		if _, ok := props["language"]; !ok && deps.ScriptLanguage != "" {
			props = withProp(props, "language", string(deps.ScriptLanguage))
		}
		return NewExec(props, script.NewEngine(opts...), deps.Sink, deps.Logger)
	})
	reg.Register(ClipVertsID, func(props map[string]any) (node.Node, error) {
		return NewClipVerts(props, deps.Mesh)
	})
	reg.Register(DualMeshID, func(props map[string]any) (node.Node, error) {
		return NewDualMesh(props, deps.Mesh)
	})
	reg.Register(CustomNormalsID, func(props map[string]any) (node.Node, error) {
		return NewCustomNormals(props)
	})

	reg.RegisterAlias("flip", FlipID)
	reg.RegisterAlias("shuffle", ShuffleID)
	reg.RegisterAlias("text_out", TextOutID)
	reg.RegisterAlias("exec", ExecID)
	reg.RegisterAlias("clip_verts", ClipVertsID)
	reg.RegisterAlias("dual_mesh", DualMeshID)
	reg.RegisterAlias("custom_normals", CustomNormalsID)

	if deps.Relaxer == nil {
		deps.Logger.Info("surface relaxer unavailable, Lloyd node not registered")
		return
	}
	reg.Register(LloydSolidFaceID, func(props map[string]any) (node.Node, error) {
		return NewLloydSolidFace(props, deps.Relaxer)
	})
	reg.RegisterAlias("lloyd_solid_face", LloydSolidFaceID)
}

// withProp returns a copy of props with key set.
func withProp(props map[string]any, key string, v any) map[string]any {
	out := make(map[string]any, len(props)+1)
	for k, pv := range props {
		out[k] = pv
	}
	out[key] = v
	return out
}
