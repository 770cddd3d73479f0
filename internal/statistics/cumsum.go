package statistics

import (
	"fmt"

	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
	"github.com/born-ml/dip/internal/ops"
)

type flexSample interface {
	~float32 | ~float64 | ~complex64 | ~complex128
}

// cumSumFilter writes the running sum of its input line. It reads each
// sample before writing the same index, so it works in place.
type cumSumFilter[T flexSample] struct{}

func (cumSumFilter[T]) NumberOfOperations(lineLength, _, _, _ int) int { return lineLength }

func (cumSumFilter[T]) SetNumberOfThreads(int) {}

func (cumSumFilter[T]) Filter(params framework.SeparableLineFilterParams) error {
	inBuf, outBuf := params.InBuffer, params.OutBuffer
	in := framework.LineSamples[T](inBuf)
	out := framework.LineSamples[T](outBuf)
	var sum T
	ii, oi := inBuf.Offset, outBuf.Offset
	for range inBuf.Length {
		sum += in[ii]
		out[oi] = sum
		ii += inBuf.Stride
		oi += outBuf.Stride
	}
	return nil
}

func newCumSum[T flexSample]() framework.SeparableLineFilter { return cumSumFilter[T]{} }

// CumulativeSum writes to out the cumulative sum of in along the dimensions
// selected by process (nil for all). Pixels not selected by mask (nil for
// all) count as zero. out gets a floating-point or complex type suitable for
// in, and may be in.
func (a *Analyzer) CumulativeSum(in, mask, out *image.Image, process []bool) error {
	if err := image.CheckForged(in); err != nil {
		return wrap("CumulativeSum", err)
	}
	if in.Dimensionality() < 1 {
		return wrap("CumulativeSum", fmt.Errorf("0-D image: %w", image.ErrDimensionalityNotSupported))
	}
	if out == nil {
		return wrap("CumulativeSum", fmt.Errorf("nil output image: %w", framework.ErrArgumentCount))
	}
	if err := checkMask(in, mask); err != nil {
		return wrap("CumulativeSum", err)
	}
	dt := in.DataType().SuggestFlex()
	filter, err := framework.Dispatch("statistics.CumulativeSum", dt, image.FlexSet, framework.Instantiations[framework.SeparableLineFilter]{
		Float32:    newCumSum[float32],
		Float64:    newCumSum[float64],
		Complex64:  newCumSum[complex64],
		Complex128: newCumSum[complex128],
	})
	if err != nil {
		return err
	}

	src := in
	if mask != nil {
		// Masked-out pixels are zeroed in out, which then is summed in place.
		if err := ops.Select(a.eng, in, 0, mask, out); err != nil {
			return wrap("CumulativeSum", err)
		}
		src = out
	}
	if err := a.eng.Separable(src, out, dt, dt, process, nil, nil, filter, framework.SeparableCanWorkInPlace); err != nil {
		return wrap("CumulativeSum", err)
	}
	return nil
}
