package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-exodus/internal/cdf"
)

func create(t *testing.T) *File {
	t.Helper()
	f, err := Create(filepath.Join(t.TempDir(), "test.nc"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestCreateExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.nc")
	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = Create(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestDimensions(t *testing.T) {
	f := create(t)
	require.NoError(t, f.DefineDimension("num_nodes", 5))

	size, ok := f.Dimension("num_nodes")
	assert.True(t, ok)
	assert.Equal(t, 5, size)

	_, ok = f.Dimension("missing")
	assert.False(t, ok)

	// Dimensions are fixed for the file's lifetime.
	assert.Error(t, f.DefineDimension("num_nodes", 6))
	assert.Error(t, f.DefineDimension("neg", -1))
}

func TestVariableLifecycle(t *testing.T) {
	f := create(t)
	require.NoError(t, f.DefineDimension("n", 4))
	require.NoError(t, f.CreateVariable("v", []string{"n"}, Int32))

	assert.True(t, f.HasVariable("v"))
	assert.False(t, f.HasVariable("w"))
	assert.Error(t, f.CreateVariable("v", []string{"n"}, Int32), "duplicate variable")
	assert.Error(t, f.CreateVariable("w", []string{"ghost"}, Int32), "unknown dimension")

	n, err := f.Len("v")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Storage is zero-filled at creation.
	vals, err := f.Values("v")
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 0, 0}, vals)
}

func TestPutGetSlice(t *testing.T) {
	f := create(t)
	require.NoError(t, f.DefineDimension("n", 4))
	require.NoError(t, f.CreateVariable("v", []string{"n"}, Int32))

	require.NoError(t, f.PutSlice("v", 1, []int32{7, 8}))

	got, err := f.GetSlice("v", 0, 4)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 7, 8, 0}, got)

	// Out-of-range and mistyped writes are rejected.
	assert.Error(t, f.PutSlice("v", 3, []int32{1, 2}))
	assert.Error(t, f.PutSlice("v", -1, []int32{1}))
	assert.Error(t, f.PutSlice("v", 0, []float64{1}))
	assert.Error(t, f.PutSlice("missing", 0, []int32{1}))

	_, err = f.GetSlice("v", 2, 3)
	assert.Error(t, err)
}

func TestGetSliceReturnsCopy(t *testing.T) {
	f := create(t)
	require.NoError(t, f.DefineDimension("n", 2))
	require.NoError(t, f.CreateVariable("v", []string{"n"}, Float64))
	require.NoError(t, f.PutSlice("v", 0, []float64{1, 2}))

	got, err := f.Values("v")
	require.NoError(t, err)
	got.([]float64)[0] = 99

	again, err := f.Values("v")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, again)
}

func TestAttrs(t *testing.T) {
	f := create(t)
	require.NoError(t, f.SetAttr("title", "hello"))
	require.NoError(t, f.SetAttr("title", "replaced"))
	assert.Error(t, f.SetAttr("bad", struct{}{}))

	require.NoError(t, f.DefineDimension("n", 1))
	require.NoError(t, f.CreateVariable("v", []string{"n"}, Int32))
	require.NoError(t, f.SetVarAttr("v", "units", "meters"))
	assert.Error(t, f.SetVarAttr("missing", "units", "meters"))
}

func TestCloseSerializes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.nc")
	f, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, f.DefineDimension("n", 3))
	require.NoError(t, f.CreateVariable("v", []string{"n"}, Float64))
	require.NoError(t, f.PutSlice("v", 0, []float64{1.5, 2.5, 3.5}))
	require.NoError(t, f.SetAttr("title", "serialized"))

	require.NoError(t, f.Close())
	// Close is idempotent, and further writes are rejected.
	require.NoError(t, f.Close())
	assert.Error(t, f.PutSlice("v", 0, []float64{9}))
	assert.Error(t, f.DefineDimension("m", 1))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := cdf.Decode(raw)
	require.NoError(t, err)

	title, ok := img.Attr("title")
	assert.True(t, ok)
	assert.Equal(t, "serialized", title)

	v, ok := img.Var("v")
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, v.Data)
}
