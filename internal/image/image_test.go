package image

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dt   DataType
		size int
	}{
		{Binary, 1},
		{Uint8, 1},
		{Uint16, 2},
		{Uint32, 4},
		{Sint8, 1},
		{Sint16, 2},
		{Sint32, 4},
		{Float32, 4},
		{Float64, 8},
		{Complex64, 8},
		{Complex128, 16},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.size, tt.dt.Size(), "%s.Size()", tt.dt)
	}
}

func TestDataTypeStringRoundTrip(t *testing.T) {
	for _, dt := range AllDataTypes {
		got, ok := ParseDataType(dt.String())
		require.True(t, ok, dt.String())
		assert.Equal(t, dt, got)
	}
	_, ok := ParseDataType("float16")
	assert.False(t, ok)
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, Binary, DataTypeOf[Bin]())
	assert.Equal(t, Uint8, DataTypeOf[uint8]())
	assert.Equal(t, Sint16, DataTypeOf[int16]())
	assert.Equal(t, Float32, DataTypeOf[float32]())
	assert.Equal(t, Complex128, DataTypeOf[complex128]())
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, Uint8, Binary.SuggestReal())
	assert.Equal(t, Float32, Complex64.SuggestReal())
	assert.Equal(t, Sint16, Sint16.SuggestReal())

	assert.Equal(t, Float32, Uint8.SuggestFlex())
	assert.Equal(t, Float64, Sint32.SuggestFlex())
	assert.Equal(t, Complex64, Complex64.SuggestFlex())

	assert.Equal(t, Float64, SuggestDyadic(Float32, Float64))
	assert.Equal(t, Complex64, SuggestDyadic(Complex64, Uint8))
	assert.Equal(t, Sint16, SuggestDyadic(Uint8, Sint8))
	assert.Equal(t, Uint16, SuggestDyadic(Uint8, Uint16))
	assert.Equal(t, Uint8, SuggestDyadic(Binary, Uint8))
}

func TestDataTypeSet(t *testing.T) {
	assert.True(t, RealSet.Contains(Uint8))
	assert.False(t, RealSet.Contains(Binary))
	assert.False(t, RealSet.Contains(Complex64))
	assert.True(t, NonComplexSet.Contains(Binary))
	assert.True(t, FlexSet.Contains(Complex128))
	assert.False(t, FlexSet.Contains(Sint32))
	assert.Equal(t, []DataType{Float32, Float64}, FloatSet.Types())
	assert.Len(t, AllSet.Types(), len(AllDataTypes))
}

func TestNewNormalStrides(t *testing.T) {
	img, err := New(Sizes{4, 3, 2}, 3, Uint16)
	require.NoError(t, err)

	assert.True(t, img.IsForged())
	assert.Equal(t, 3, img.Dimensionality())
	assert.Equal(t, []int{3, 12, 36}, img.Strides())
	assert.Equal(t, 1, img.TensorStride())
	assert.Equal(t, 24, img.NumberOfPixels())
	assert.Equal(t, 72, img.NumberOfSamples())
	assert.Len(t, img.Data(), 72*2)
	assert.True(t, img.HasNormalStrides())
	assert.False(t, img.IsScalar())
}

func TestNewInvalid(t *testing.T) {
	_, err := New(Sizes{4, -1}, 1, Float32)
	assert.ErrorIs(t, err, ErrInvalidSizes)

	_, err = New(Sizes{4}, 0, Float32)
	assert.ErrorIs(t, err, ErrInvalidSizes)

	_, err = New(Sizes{4}, 1, DataType(99))
	assert.ErrorIs(t, err, ErrDataTypeNotSupported)
}

func TestRawImage(t *testing.T) {
	var img Image
	assert.False(t, img.IsForged())
	assert.Equal(t, 0, img.Dimensionality())
	assert.Equal(t, 0, img.NumberOfPixels())
	assert.Equal(t, 1, img.TensorElements())
	assert.Equal(t, "raw image", img.String())
	assert.ErrorIs(t, CheckForged(&img), ErrNotForged)
	assert.ErrorIs(t, CheckForged(nil), ErrNotForged)
	assert.Nil(t, img.Float64s())
}

func TestForge(t *testing.T) {
	var img Image
	require.NoError(t, img.Forge(Sizes{3, 2}, 1, Uint16))
	assert.Equal(t, 6, img.NumberOfPixels())
	assert.ErrorIs(t, img.Forge(Sizes{3, 2}, 1, Uint16), ErrAlreadyForged)
}

func TestReForgeKeepsMatchingMemory(t *testing.T) {
	img, err := New(Sizes{5}, 1, Float32)
	require.NoError(t, err)
	alias := img.QuickCopy()

	require.NoError(t, img.ReForge(Sizes{5}, 1, Float32))
	assert.True(t, img.SharesData(alias))

	require.NoError(t, img.ReForge(Sizes{5}, 1, Float64))
	assert.False(t, img.SharesData(alias))
	assert.Equal(t, 1, alias.ShareCount())
}

func TestSameLayout(t *testing.T) {
	img, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	view := img.QuickCopy()
	assert.True(t, img.SameLayout(view))

	require.NoError(t, view.Mirror([]bool{false, true}))
	assert.True(t, img.SharesData(view))
	assert.False(t, img.SameLayout(view))

	other, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	assert.False(t, img.SameLayout(other))
}

func TestQuickCopyAndStrip(t *testing.T) {
	img, err := FromSlice([]float64{1, 2, 3}, 3)
	require.NoError(t, err)

	cp := img.QuickCopy()
	assert.Equal(t, 2, img.ShareCount())
	assert.True(t, img.SharesData(cp))

	cp.Strip()
	assert.False(t, cp.IsForged())
	assert.Equal(t, 1, img.ShareCount())
	assert.Equal(t, []float64{1, 2, 3}, img.Float64s())
}

func TestDataSegmentReleaseOnce(t *testing.T) {
	calls := 0
	seg := WrapDataSegment(make([]byte, 8), func() { calls++ })
	seg.Retain()
	seg.Release()
	assert.Equal(t, 0, calls)
	seg.Release()
	assert.Equal(t, 1, calls)
	assert.Nil(t, seg.Bytes())
}

func TestDataSegmentConcurrentRelease(t *testing.T) {
	var calls atomic.Int32
	seg := WrapDataSegment(make([]byte, 8), func() { calls.Add(1) })
	const n = 16
	for range n - 1 {
		seg.Retain()
	}
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seg.Release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
	assert.Zero(t, seg.ShareCount())
	assert.Nil(t, seg.Bytes())
}

func TestFromSliceAndAccess(t *testing.T) {
	img, err := FromSlice([]int16{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)

	v, err := img.SampleAt([]int{2, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, complex(6, 0), v)

	require.NoError(t, img.SetSampleAt([]int{0, 1}, 0, 1e6))
	v, err = img.SampleAt([]int{0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, complex(32767, 0), v, "stores saturate")

	_, err = img.SampleAt([]int{3, 0}, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = img.SampleAt([]int{0}, 0)
	assert.ErrorIs(t, err, ErrDimensionalityNotSupported)

	_, err = FromSlice([]int16{1, 2, 3}, 2, 2)
	assert.ErrorIs(t, err, ErrSizesDontMatch)
}

func TestClampRound(t *testing.T) {
	assert.Equal(t, 3.0, ClampRound(Uint8, 2.5))
	assert.Equal(t, -3.0, ClampRound(Sint8, -2.5))
	assert.Equal(t, 0.0, ClampRound(Uint8, -7))
	assert.Equal(t, 255.0, ClampRound(Uint8, 300))
	assert.Equal(t, 1.0, ClampRound(Binary, -0.1))
	assert.Equal(t, 0.5, ClampRound(Float32, 0.5))
}

func TestFill(t *testing.T) {
	img, err := New(Sizes{2, 2}, 2, Uint8)
	require.NoError(t, err)
	require.NoError(t, img.Fill(7))
	assert.Equal(t, []float64{7, 7, 7, 7, 7, 7, 7, 7}, img.Float64s())
}

func TestSingletonExpandedSizes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Sizes
		want    Sizes
		wantErr bool
	}{
		{"equal", Sizes{3, 4}, Sizes{3, 4}, Sizes{3, 4}, false},
		{"singleton", Sizes{3, 1}, Sizes{3, 5}, Sizes{3, 5}, false},
		{"trailing", Sizes{4}, Sizes{4, 2}, Sizes{4, 2}, false},
		{"leading singleton", Sizes{1, 2}, Sizes{6}, Sizes{6, 2}, false},
		{"mismatch", Sizes{3, 4}, Sizes{3, 5}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SingletonExpandedSizes(tt.a, tt.b)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrSizesDontMatch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandSingletonDimensions(t *testing.T) {
	img, err := FromSlice([]float32{1, 2}, 1, 2)
	require.NoError(t, err)

	require.NoError(t, img.ExpandSingletonDimensions(Sizes{3, 2, 2}))
	assert.Equal(t, Sizes{3, 2, 2}, img.Sizes())
	assert.Equal(t, []int{0, 1, 0}, img.Strides())
	assert.True(t, img.IsSingletonExpanded())
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2, 1, 1, 1, 2, 2, 2}, img.Float64s())

	assert.ErrorIs(t, img.ExpandSingletonDimensions(Sizes{4, 2, 2}), ErrSizesDontMatch)
}

func TestTensorToSpatialAndBack(t *testing.T) {
	img, err := FromSliceTensor([]uint8{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, img.TensorElements())

	require.NoError(t, img.TensorToSpatial())
	assert.True(t, img.IsScalar())
	assert.Equal(t, Sizes{2, 3}, img.Sizes())
	v, err := img.SampleAt([]int{1, 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, complex(6, 0), v)

	require.NoError(t, img.SpatialToTensor(1))
	assert.Equal(t, 3, img.TensorElements())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, img.Float64s())
	assert.ErrorIs(t, img.SpatialToTensor(0), ErrNotScalar)
}

func TestSplitComplex(t *testing.T) {
	img, err := FromSlice([]complex64{complex(1, 2), complex(3, 4)}, 2)
	require.NoError(t, err)

	require.NoError(t, img.SplitComplex())
	assert.Equal(t, Float32, img.DataType())
	assert.Equal(t, Sizes{2, 2}, img.Sizes())
	assert.Equal(t, []float64{1, 3, 2, 4}, img.Float64s(), "real parts first, then imaginary parts")

	assert.ErrorIs(t, img.SplitComplex(), ErrDataTypeNotSupported)
}

func TestMirror(t *testing.T) {
	img, err := FromSlice([]int32{1, 2, 3, 4, 5, 6}, 3, 2)
	require.NoError(t, err)

	require.NoError(t, img.Mirror([]bool{true, false}))
	assert.Equal(t, -1, img.Stride(0))
	assert.Equal(t, []float64{3, 2, 1, 6, 5, 4}, img.Float64s())
}

func TestCheckIsMask(t *testing.T) {
	mask, err := FromSlice([]Bin{1, 0, 1}, 3)
	require.NoError(t, err)
	assert.NoError(t, mask.CheckIsMask(Sizes{3}, false))
	assert.NoError(t, mask.CheckIsMask(Sizes{3, 4}, true))
	assert.ErrorIs(t, mask.CheckIsMask(Sizes{3, 4}, false), ErrSizesDontMatch)

	notMask, err := FromSlice([]uint8{1, 0, 1}, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, notMask.CheckIsMask(Sizes{3}, false), ErrMaskNotBinary)
}

func TestCast(t *testing.T) {
	assert.Equal(t, uint8(255), Cast[uint8](300))
	assert.Equal(t, int16(-3), Cast[int16](-2.5))
	assert.Equal(t, Bin(1), Cast[Bin](0.2))
	assert.Equal(t, float32(5), Cast[float32](complex(3, 4)))
	assert.Equal(t, complex64(complex(1, 2)), Cast[complex64](complex(1, 2)))
}
