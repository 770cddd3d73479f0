package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
)

func TestSelect(t *testing.T) {
	eng := framework.New(framework.DefaultConfig())
	in, err := image.FromSlice([]int16{1, -2, 3, -4}, 4)
	require.NoError(t, err)
	mask, err := image.FromSlice([]image.Bin{1, 0, 0, 1}, 4)
	require.NoError(t, err)

	out := &image.Image{}
	require.NoError(t, Select(eng, in, 9, mask, out))

	assert.Equal(t, image.Sint16, out.DataType())
	assert.Equal(t, []float64{1, 9, 9, -4}, out.Float64s())
	assert.Equal(t, []float64{1, -2, 3, -4}, in.Float64s(), "input untouched")
}

func TestSelectTensorAndExpandedMask(t *testing.T) {
	eng := framework.New(framework.DefaultConfig())
	in, err := image.FromSliceTensor([]float32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 2)
	require.NoError(t, err)
	// A 2x1 mask applies to both rows.
	mask, err := image.FromSlice([]image.Bin{0, 1}, 2, 1)
	require.NoError(t, err)

	out := &image.Image{}
	require.NoError(t, Select(eng, in, 0, mask, out))

	assert.Equal(t, 2, out.TensorElements())
	assert.Equal(t, []float64{0, 0, 3, 4, 0, 0, 7, 8}, out.Float64s())
}

func TestSelectInPlace(t *testing.T) {
	eng := framework.New(framework.DefaultConfig())
	img, err := image.FromSlice([]float64{1, 2, 3}, 3)
	require.NoError(t, err)
	mask, err := image.FromSlice([]image.Bin{0, 1, 0}, 3)
	require.NoError(t, err)

	require.NoError(t, Select(eng, img, -1, mask, img))
	assert.Equal(t, []float64{-1, 2, -1}, img.Float64s())
}

func TestSelectErrors(t *testing.T) {
	eng := framework.New(framework.DefaultConfig())
	in, err := image.FromSlice([]float64{1, 2, 3}, 3)
	require.NoError(t, err)

	notBinary, err := image.FromSlice([]uint8{1, 1, 1}, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, Select(eng, in, 0, notBinary, &image.Image{}), image.ErrMaskNotBinary)

	wrongSize, err := image.FromSlice([]image.Bin{1, 1}, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, Select(eng, in, 0, wrongSize, &image.Image{}), image.ErrSizesDontMatch)

	assert.ErrorIs(t, Select(eng, &image.Image{}, 0, wrongSize, &image.Image{}), image.ErrNotForged)
}
