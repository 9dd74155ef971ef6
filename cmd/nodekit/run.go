package main

import (
	"encoding/json"
	"fmt"
	"io"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var runCmd = &cobra.Command{
	Use:   "run <request.yaml|request.json>",
	Short: "Evaluate one node and print its outputs as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		req, err := loadRequest(args[0])
		if err != nil {
			return err
		}
		b, err := req.build(e.registry)
		if err != nil {
			return err
		}
		if err := e.evaluator.Evaluate(cmd.Context(), b.node, b.sockets); err != nil {
			return err
		}
		e.reportMetrics()
		return writeResult(cmd.OutOrStdout(), b)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

type objectResult struct {
	Name          string      `json:"name"`
	AutoSmooth    bool        `json:"auto_smooth"`
	VertexNormals [][]float64 `json:"vertex_normals,omitempty"`
	LoopNormals   [][]float64 `json:"loop_normals,omitempty"`
}

// writeResult prints the outputs in socket order, followed by the state of
// any objects the request created.
func writeResult(w io.Writer, b *built) error {
	doc := orderedmap.New[string, any]()
	for _, spec := range b.node.Outputs() {
		if v, ok := b.sockets.Output(spec.Name); ok {
			doc.Set(spec.Name, v)
		}
	}
	if len(b.objects) > 0 {
		objs := make([]objectResult, len(b.objects))
		for i, o := range b.objects {
			objs[i] = objectResult{
				Name:          o.Name,
				AutoSmooth:    o.AutoSmooth,
				VertexNormals: floats(o.VertexNormals),
				LoopNormals:   floats(o.LoopNormals),
			}
		}
		doc.Set("objects", objs)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func floats(vs []v3.Vec) [][]float64 {
	if len(vs) == 0 {
		return nil
	}
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = []float64{v.X, v.Y, v.Z}
	}
	return out
}
