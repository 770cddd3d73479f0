package framework

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dip/internal/image"
	"github.com/born-ml/dip/internal/parallel"
)

// boxFilter sums each sample with its neighbours; it needs a border of 1.
type boxFilter struct{}

func (boxFilter) NumberOfOperations(lineLength, _, _, _ int) int { return 3 * lineLength }

func (boxFilter) SetNumberOfThreads(int) {}

func (boxFilter) Filter(params SeparableLineFilterParams) error {
	in, out := params.InBuffer, params.OutBuffer
	src, dst := LineSamples[float32](in), LineSamples[float32](out)
	for i := range in.Length {
		j := in.Offset + i*in.Stride
		dst[out.Offset+i*out.Stride] = src[j-in.Stride] + src[j] + src[j+in.Stride]
	}
	return nil
}

// runningSum writes the cumulative sum of the line and works in place.
type runningSum struct {
	mu        sync.Mutex
	threads   int
	positions [][]int
}

func (*runningSum) NumberOfOperations(lineLength, _, _, _ int) int { return lineLength }

func (r *runningSum) SetNumberOfThreads(threads int) { r.threads = threads }

func (r *runningSum) Filter(params SeparableLineFilterParams) error {
	r.mu.Lock()
	r.positions = append(r.positions, append([]int(nil), params.Position...))
	r.mu.Unlock()
	in, out := params.InBuffer, params.OutBuffer
	src, dst := LineSamples[float64](in), LineSamples[float64](out)
	var sum float64
	for i := range in.Length {
		sum += src[in.Offset+i*in.Stride]
		dst[out.Offset+i*out.Stride] = sum
	}
	return nil
}

func testEngine() *Engine {
	return New(Config{
		Parallel:              parallel.Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1, MaxChunks: 8},
		MinOperationsPerChunk: 1,
	})
}

func TestSeparableBorder(t *testing.T) {
	eng := testEngine()
	in, err := image.FromSlice([]float32{1, 2, 3, 4}, 4)
	require.NoError(t, err)
	out := &image.Image{}

	err = eng.Separable(in, out, image.Float32, image.Float32, nil, []int{1}, []BoundaryCondition{AddZeros}, boxFilter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6, 9, 7}, out.Float64s())

	err = eng.Separable(in, out, image.Float32, image.Float32, nil, []int{1}, []BoundaryCondition{SymmetricMirror}, boxFilter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6, 9, 11}, out.Float64s())
}

func TestSeparableMultiPassIntermediate(t *testing.T) {
	eng := testEngine()
	in, err := image.FromSlice([]uint8{1, 1, 1, 1, 1, 1, 1, 1, 1}, 3, 3)
	require.NoError(t, err)
	out := &image.Image{}

	// uint8 output with float32 buffers goes through an intermediate image.
	err = eng.Separable(in, out, image.Float32, image.Uint8, nil, []int{1}, []BoundaryCondition{AddZeros}, boxFilter{}, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Uint8, out.DataType())
	assert.Equal(t, []float64{4, 6, 4, 6, 9, 6, 4, 6, 4}, out.Float64s())
}

func TestSeparableInPlace(t *testing.T) {
	eng := testEngine()
	img, err := image.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)
	var f runningSum

	require.NoError(t, eng.Separable(img, img, image.Float64, image.Float64, nil, nil, nil, &f, SeparableCanWorkInPlace))
	assert.Equal(t, []float64{1, 3, 6, 5, 12, 21}, img.Float64s())

	// Without the in-place option the input line is copied first, with the same result.
	img2, err := image.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)
	require.NoError(t, eng.Separable(img2, img2, image.Float64, image.Float64, nil, nil, nil, &runningSum{}, 0))
	assert.Equal(t, img.Float64s(), img2.Float64s())
}

// copyLine copies its input line to the output.
type copyLine struct{}

func (copyLine) NumberOfOperations(lineLength, _, _, _ int) int { return lineLength }

func (copyLine) SetNumberOfThreads(int) {}

func (copyLine) Filter(params SeparableLineFilterParams) error {
	in, out := params.InBuffer, params.OutBuffer
	src, dst := LineSamples[float64](in), LineSamples[float64](out)
	for i := range in.Length {
		dst[out.Offset+i*out.Stride] = src[in.Offset+i*in.Stride]
	}
	return nil
}

func TestSeparableOutputAliasingInput(t *testing.T) {
	eng := testEngine()
	in, err := image.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	out := in.QuickCopy()
	require.NoError(t, out.Mirror([]bool{false, true}))

	// Lines run along dimension 0; the mirrored output would overwrite the
	// last row before it is read.
	err = eng.Separable(in, out, image.Float64, image.Float64, []bool{true, false}, nil, nil, copyLine{}, 0)
	require.NoError(t, err)
	assert.False(t, out.SharesData(in))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, out.Float64s())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, in.Float64s())
}

func TestSeparableTensor(t *testing.T) {
	eng := testEngine()
	in, err := image.FromSliceTensor([]int16{1, 10, 2, 20, 3, 30}, 2, 3)
	require.NoError(t, err)
	out := &image.Image{}

	require.NoError(t, eng.Separable(in, out, image.Float64, image.Float32, nil, nil, nil, &runningSum{}, 0))
	assert.Equal(t, 2, out.TensorElements())
	assert.Equal(t, image.Float32, out.DataType())
	assert.Equal(t, []float64{1, 10, 3, 30, 6, 60}, out.Float64s())
}

func TestSeparablePositions(t *testing.T) {
	eng := testEngine()
	in, err := image.New(image.Sizes{4, 3}, 1, image.Float64)
	require.NoError(t, err)
	var f runningSum

	require.NoError(t, eng.Separable(in, &image.Image{}, image.Float64, image.Float64, []bool{true, false}, nil, nil, &f, 0))
	sortPositions(f.positions)
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {0, 2}}, f.positions)
	assert.GreaterOrEqual(t, f.threads, 1)
}

func TestSeparableNoDimensions(t *testing.T) {
	eng := testEngine()
	in, err := image.FromSlice([]float64{1.4, 2.6}, 2)
	require.NoError(t, err)
	out := &image.Image{}

	// Dimensions of size 1 are skipped too.
	require.NoError(t, eng.Separable(in, out, image.Float64, image.Sint8, []bool{false}, nil, nil, &runningSum{}, 0))
	assert.Equal(t, image.Sint8, out.DataType())
	assert.Equal(t, []float64{1, 3}, out.Float64s())
}

func TestSeparableErrors(t *testing.T) {
	eng := testEngine()
	in, err := image.FromSlice([]float64{1, 2, 3}, 3)
	require.NoError(t, err)

	err = eng.Separable(&image.Image{}, &image.Image{}, image.Float64, image.Float64, nil, nil, nil, &runningSum{}, 0)
	assert.ErrorIs(t, err, image.ErrNotForged)

	zeroD, err := image.New(image.Sizes{}, 1, image.Float64)
	require.NoError(t, err)
	err = eng.Separable(zeroD, &image.Image{}, image.Float64, image.Float64, nil, nil, nil, &runningSum{}, 0)
	assert.ErrorIs(t, err, image.ErrDimensionalityNotSupported)

	err = eng.Separable(in, &image.Image{}, image.Float64, image.Float64, []bool{true, true}, nil, nil, &runningSum{}, 0)
	assert.ErrorIs(t, err, ErrArgumentCount)

	err = eng.Separable(in, &image.Image{}, image.Float64, image.Float64, nil, []int{-1}, nil, &runningSum{}, 0)
	assert.ErrorIs(t, err, image.ErrInvalidSizes)
}

type failingFilter struct{ err error }

func (failingFilter) NumberOfOperations(_, _, _, _ int) int { return 1 }

func (failingFilter) SetNumberOfThreads(int) {}

func (f failingFilter) Filter(SeparableLineFilterParams) error { return f.err }

func TestSeparableKernelError(t *testing.T) {
	eng := testEngine()
	in, err := image.New(image.Sizes{5, 5}, 1, image.Float32)
	require.NoError(t, err)
	sentinel := errors.New("boom")

	err = eng.Separable(in, &image.Image{}, image.Float32, image.Float32, nil, nil, nil, failingFilter{sentinel}, 0)
	require.ErrorIs(t, err, sentinel)
	var kerr *KernelError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, "Separable", kerr.Op)
}
