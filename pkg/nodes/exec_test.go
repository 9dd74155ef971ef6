package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
	"github.com/chazu/nodekit/pkg/script"
	"github.com/chazu/nodekit/pkg/textio"
)

func newExec(t *testing.T, props map[string]any) *Exec {
	t.Helper()
	n, err := NewExec(props, script.NewEngine(), textio.NewMemorySink(), nil)
	require.NoError(t, err)
	return n
}

func TestExecDefaultScript(t *testing.T) {
	n := newExec(t, nil)
	assert.Equal(t, defaultLines, n.Lines)

	v1 := nested.Of(nested.Ints(1, 2), nested.Ints(3))
	s := run(t, n, map[string]nested.Value{"V1": v1}, "out")
	assert.True(t, nested.Equal(v1, output(t, s, "out")), "out = %s", output(t, s, "out"))
}

func TestExecCEL(t *testing.T) {
	n := newExec(t, map[string]any{
		"language": "cel",
		"lines":    []any{"V1.map(x, x * 2)"},
	})
	s := run(t, n, map[string]nested.Value{"V1": nested.Ints(1, 2, 3)}, "out")
	assert.True(t, nested.Equal(nested.Ints(2, 4, 6), output(t, s, "out")))
}

func TestExecFailureLeavesOutputUnset(t *testing.T) {
	n := newExec(t, map[string]any{"language": "cel", "lines": []any{"V1 +"}})
	s := node.NewSockets()
	s.Want("out")
	err := n.Process(ctx, s)
	var scriptErr *script.Error
	assert.ErrorAs(t, err, &scriptErr)
	_, ok := s.Output("out")
	assert.False(t, ok)
}

func TestExecRejectsUnknownLanguage(t *testing.T) {
	_, err := NewExec(map[string]any{"language": "python"}, script.NewEngine(), textio.NewMemorySink(), nil)
	assert.Error(t, err)
}

func TestExecLineEditing(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		edit  func(*Exec)
		want  []string
	}{
		{"add line", []string{"a"}, (*Exec).AddLine, []string{"a", ""}},
		{"remove last", []string{"a", "b"}, (*Exec).RemoveLastLine, []string{"a"}},
		{"remove keeps one", []string{"a"}, (*Exec).RemoveLastLine, []string{"a"}},
		{"shift up", []string{"a", "b", "c"}, (*Exec).ShiftUp, []string{"b", "c", "a"}},
		{"shift down", []string{"a", "b", "c"}, (*Exec).ShiftDown, []string{"c", "a", "b"}},
		{"shift single", []string{"a"}, (*Exec).ShiftUp, []string{"a"}},
		{"delete blank", []string{"a", "", "b", ""}, (*Exec).DeleteBlank, []string{"a", "b"}},
		{"insert blank", []string{"a", "", "b"}, (*Exec).InsertBlank, []string{"a", "", "", "b", ""}},
		{"insert below", []string{"a", "b"}, func(n *Exec) { n.InsertLine(0, "below") }, []string{"a", "", "b"}},
		{"insert above", []string{"a", "b"}, func(n *Exec) { n.InsertLine(1, "above") }, []string{"a", "", "b"}},
		{"insert above first", []string{"a"}, func(n *Exec) { n.InsertLine(0, "above") }, []string{"", "a"}},
		{"insert out of range", []string{"a"}, func(n *Exec) { n.InsertLine(5, "below") }, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newExec(t, map[string]any{"lines": tt.lines})
			tt.edit(n)
			assert.Equal(t, tt.want, n.Lines)
		})
	}
}

func TestExecSource(t *testing.T) {
	n := newExec(t, map[string]any{"lines": []string{"(out-append 1)", "(out-append 2)"}})
	assert.Equal(t, "(out-append 1)\n(out-append 2)", n.Source())

	n.SetSource("x\r\ny\n")
	assert.Equal(t, []string{"x", "y"}, n.Lines)

	n.SetSource("")
	assert.Empty(t, n.Lines)
}

func TestExecCopyFromText(t *testing.T) {
	sink := textio.NewMemorySink()
	require.NoError(t, sink.Write("script.lisp", "(out-append 1)\n(out-append 2)\n", false))
	n, err := NewExec(map[string]any{"text": "script.lisp"}, script.NewEngine(), sink, nil)
	require.NoError(t, err)

	require.NoError(t, n.CopyFromText())
	assert.Equal(t, []string{"(out-append 1)", "(out-append 2)"}, n.Lines)

	n.Text = "missing"
	assert.ErrorIs(t, n.CopyFromText(), textio.ErrNoText)

	n.Text = ""
	assert.ErrorIs(t, n.CopyFromText(), ErrNoTarget)
}

func TestExecLegacyStorage(t *testing.T) {
	n := newExec(t, map[string]any{"string_storage": `{"lines": ["(out-append 1)", ""]}`})
	assert.Equal(t, []string{"(out-append 1)", ""}, n.Lines)
	assert.Empty(t, n.StringStorage)

	_, err := NewExec(map[string]any{"string_storage": "{"}, script.NewEngine(), textio.NewMemorySink(), nil)
	assert.Error(t, err)
}
