package textio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	require.NoError(t, s.Write("out", "a\n", false))
	require.NoError(t, s.Write("out", "b\n", true))

	got, err := s.Read("out")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", got)

	require.NoError(t, s.Write("out", "c", false))
	got, _ = s.Read("out")
	assert.Equal(t, "c", got)

	_, err = s.Read("missing")
	assert.ErrorIs(t, err, ErrNoText)
	assert.Equal(t, []string{"out"}, s.Names())
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "texts")
	s := FileSink{Dir: dir}

	require.NoError(t, s.Write("data.csv", "1,2\r\n", false))
	require.NoError(t, s.Write("data.csv", "3,4\r\n", true))

	b, err := os.ReadFile(filepath.Join(dir, "data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "1,2\r\n3,4\r\n", string(b))

	require.NoError(t, s.Write("data.csv", "x", false))
	got, err := s.Read("data.csv")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = s.Read("nope.txt")
	assert.ErrorIs(t, err, ErrNoText)

	assert.Error(t, s.Write("../escape", "x", false))
}
