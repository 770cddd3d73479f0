package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dip/internal/image"
)

func TestExtendLine(t *testing.T) {
	tests := []struct {
		bc   BoundaryCondition
		want []float64
	}{
		{SymmetricMirror, []float64{2, 1, 1, 2, 3, 3, 2}},
		{AsymmetricMirror, []float64{-2, -1, 1, 2, 3, -3, -2}},
		{Periodic, []float64{2, 3, 1, 2, 3, 1, 2}},
		{AsymmetricPeriodic, []float64{-2, -3, 1, 2, 3, -1, -2}},
		{AddZeros, []float64{0, 0, 1, 2, 3, 0, 0}},
		{ZeroOrderExtrapolate, []float64{1, 1, 1, 2, 3, 3, 3}},
		{FirstOrderExtrapolate, []float64{-1, 0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.bc.String(), func(t *testing.T) {
			buf := image.NewDataSegment(7 * 8).Bytes()
			data := image.SamplesOf[float64](buf)
			copy(data[2:], []float64{1, 2, 3})
			require.NoError(t, ExtendLine(buf, image.Float64, 2, 3, 2, tt.bc))
			assert.Equal(t, tt.want, data)
		})
	}
}

func TestExtendLineExtremes(t *testing.T) {
	buf := image.NewDataSegment(5).Bytes()
	buf[2] = 7
	require.NoError(t, ExtendLine(buf, image.Uint8, 2, 1, 2, AddMaxValue))
	assert.Equal(t, []byte{255, 255, 7, 255, 255}, buf)

	require.NoError(t, ExtendLine(buf, image.Uint8, 2, 1, 2, AddMinValue))
	assert.Equal(t, []byte{0, 0, 7, 0, 0}, buf)
}

func TestExtendLineLongBorder(t *testing.T) {
	// The border is longer than the line: the mirror keeps reflecting.
	buf := image.NewDataSegment(8 * 4).Bytes()
	data := image.SamplesOf[int32](buf)
	data[3], data[4] = 1, 2
	require.NoError(t, ExtendLine(buf, image.Sint32, 3, 2, 3, SymmetricMirror))
	assert.Equal(t, []int32{2, 2, 1, 1, 2, 2, 1, 1}, data)
}

func TestExtendLineErrors(t *testing.T) {
	buf := image.NewDataSegment(8).Bytes()
	assert.NoError(t, ExtendLine(buf, image.Uint8, 0, 8, 0, SymmetricMirror), "no border is a no-op")
	assert.ErrorIs(t, ExtendLine(buf, image.Uint8, 2, 0, 2, SymmetricMirror), image.ErrInvalidSizes)
	assert.ErrorIs(t, ExtendLine(buf, image.Uint8, 2, 2, 2, BoundaryCondition(99)), image.ErrInvalidFlag)
}

func TestParseBoundaryCondition(t *testing.T) {
	for bc := SymmetricMirror; bc <= FirstOrderExtrapolate; bc++ {
		got, err := ParseBoundaryCondition(bc.String())
		require.NoError(t, err)
		assert.Equal(t, bc, got)
	}
	got, err := ParseBoundaryCondition("")
	require.NoError(t, err)
	assert.Equal(t, SymmetricMirror, got)

	_, err = ParseBoundaryCondition("wrap around")
	assert.ErrorIs(t, err, image.ErrInvalidFlag)
}
