package scratch

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteAndRemove(t *testing.T) {
	path, err := Write("thesis.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	require.True(t, Exists(path))
	require.True(t, strings.HasSuffix(filepath.Base(path), "_thesis.pdf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, Remove(path))
	require.False(t, Exists(path))
	require.NoError(t, Remove(path), "second remove is a no-op")
}

func TestWriteFailureLeavesNothing(t *testing.T) {
	path, err := Write("broken.bin", io.MultiReader(strings.NewReader("partial"), failingReader{}))
	require.Error(t, err)
	require.Empty(t, path)
}

func TestPatternStripsDirectoriesAndWildcards(t *testing.T) {
	require.Equal(t, "dspace_*_a.txt", pattern("../../etc/a*.txt"))
	require.Equal(t, "dspace_*_", pattern(""))
}
