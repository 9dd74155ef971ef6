package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/nodekit/pkg/kernel"
	"github.com/chazu/nodekit/pkg/kernel/sdfx"
	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
	"github.com/chazu/nodekit/pkg/nodes"
	"github.com/chazu/nodekit/pkg/textio"
)

func testRegistry(t *testing.T, sink textio.Sink) *node.Registry {
	t.Helper()
	reg := node.NewRegistry(nil)
	nodes.Register(reg, nodes.Deps{Sink: sink, Relaxer: sdfx.NewRelaxer(8, nil)})
	return reg
}

func TestParseRequest(t *testing.T) {
	req, err := parseRequest([]byte(`
node: flip
props: {level: 1}
inputs:
  data:
    value: [[1, 2, 3], [4, 5]]
    from: "Range.001:out"
`))
	require.NoError(t, err)
	assert.Equal(t, "flip", req.Node)
	assert.NotEmpty(t, req.Name)

	l := req.Input["data"].link(req.Name, "data")
	assert.Equal(t, "Range.001", l.Node)
	assert.Equal(t, "out", l.Socket)

	_, err = parseRequest([]byte(`props: {}`))
	assert.Error(t, err)
}

func TestRequestNameLinksUnsourcedInputs(t *testing.T) {
	req, err := parseRequest([]byte(`
node: text_out
name: Source
props: {text_mode: JSON, json_mode: compact}
inputs:
  Data 0:
    value: [[1]]
  Data 1:
    value: [[2]]
    from: "Other:out"
`))
	require.NoError(t, err)
	b, err := req.build(testRegistry(t, textio.NewMemorySink()))
	require.NoError(t, err)

	assert.Equal(t, node.Link{Node: "Source", Socket: "Data 0"}, *b.sockets.Link("Data 0"))
	assert.Equal(t, node.Link{Node: "Other", Socket: "out"}, *b.sockets.Link("Data 1"))

	text := b.node.(*nodes.TextOut)
	out, err := text.Render(b.sockets)
	require.NoError(t, err)
	assert.Equal(t, `{"Source:Data 0":["s",[[1]]],"Other:out":["s",[[2]]],"socket_order":["Source:Data 0","Other:out"]}`, out)

	unnamed, err := parseRequest([]byte(`node: flip`))
	require.NoError(t, err)
	assert.NotEmpty(t, unnamed.Name)
	assert.Equal(t, unnamed.Name, unnamed.Input["data"].link(unnamed.Name, "data").Node)
}

func TestRunFlipRequest(t *testing.T) {
	req, err := parseRequest([]byte(`{"node": "ListFlipNode", "props": {"level": 1},
		"inputs": {"data": {"value": [[1, 2, 3], [4, 5]]}}}`))
	require.NoError(t, err)
	b, err := req.build(testRegistry(t, textio.NewMemorySink()))
	require.NoError(t, err)
	require.NoError(t, node.NewEvaluator().Evaluate(context.Background(), b.node, b.sockets))

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, b))
	assert.JSONEq(t, `{"data": [[1, 4], [2, 5], [3]]}`, buf.String())
}

func TestRunCustomNormalsRequest(t *testing.T) {
	req, err := parseRequest([]byte(`
node: custom_normals
inputs:
  Objects:
    objects:
      - name: Tri
        verts: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
        faces: [[0, 1, 2]]
  custom_normal:
    value: [[[0, 0, 3]]]
`))
	require.NoError(t, err)
	b, err := req.build(testRegistry(t, textio.NewMemorySink()))
	require.NoError(t, err)
	require.NoError(t, b.node.Process(context.Background(), b.sockets))

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, b))
	var got struct {
		Objects []objectResult `json:"objects"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Objects, 1)
	assert.True(t, got.Objects[0].AutoSmooth)
	assert.Equal(t, [][]float64{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}, got.Objects[0].VertexNormals)
}

func TestSurfaceSpec(t *testing.T) {
	s, err := SurfaceSpec{Shape: "box", Size: []float64{2, 2, 2}, At: []float64{1, 0, 0}}.surface()
	require.NoError(t, err)
	lo, hi := s.Bounds()
	assert.InDelta(t, 1, lo.X, 1e-9)
	assert.InDelta(t, 3, hi.X, 1e-9)

	_, err = SurfaceSpec{Shape: "box", Size: []float64{1}}.surface()
	assert.Error(t, err)
	_, err = SurfaceSpec{Shape: "torus"}.surface()
	assert.Error(t, err)
}

func TestSurfaceInput(t *testing.T) {
	req, err := parseRequest([]byte(`
node: lloyd_solid_face
props: {iterations: 0}
inputs:
  SolidFace:
    surfaces: [{shape: box, size: [2, 2, 2]}]
  Sites:
    value: [[1, 1, 3]]
`))
	require.NoError(t, err)
	b, err := req.build(testRegistry(t, textio.NewMemorySink()))
	require.NoError(t, err)

	v, ok := b.sockets.Get("SolidFace")
	require.True(t, ok)
	items := nested.Children(v)
	require.Len(t, items, 1)
	_, isSurface := items[0].(nested.Handle).V.(*sdfx.Surface)
	assert.True(t, isSurface)

	require.NoError(t, b.node.Process(context.Background(), b.sockets))
	sites, ok := b.sockets.Output("Sites")
	require.True(t, ok)
	site := nested.Index(nested.Index(nested.Index(sites, 0), 0), 0)
	p, err := kernel.VecFromNested(site)
	require.NoError(t, err)
	assert.InDelta(t, 1, p.X, 1e-6)
	assert.InDelta(t, 2, p.Z, 1e-6)
}

func TestTextOutRequestWritesFile(t *testing.T) {
	dir := t.TempDir()
	req, err := parseRequest([]byte(`
node: text_out
props: {text: out.txt, text_mode: TEXT}
inputs:
  Text:
    value: [1, 2, 3]
`))
	require.NoError(t, err)
	b, err := req.build(testRegistry(t, textio.FileSink{Dir: dir}))
	require.NoError(t, err)
	ok, err := b.node.(*nodes.TextOut).Dump(b.sockets)
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", string(data))
}
