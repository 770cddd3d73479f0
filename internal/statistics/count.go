package statistics

import (
	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
)

type countFilter struct {
	counts framework.PerThread[uint64]
}

func (f *countFilter) NumberOfOperations(_, _, _ int) int { return 2 }

func (f *countFilter) SetNumberOfThreads(threads int) {
	f.counts.Resize(threads, func() uint64 { return 0 })
}

func (f *countFilter) Filter(params framework.ScanLineFilterParams) error {
	buf := params.InBuffer[0]
	in := framework.Samples[image.Bin](buf)
	var count uint64
	ii := buf.Offset
	if len(params.InBuffer) > 1 {
		// The second buffer is the mask.
		maskBuf := params.InBuffer[1]
		mask := framework.Samples[image.Bin](maskBuf)
		mi := maskBuf.Offset
		for range params.BufferLength {
			if mask[mi] != 0 && in[ii] != 0 {
				count++
			}
			ii += buf.Stride
			mi += maskBuf.Stride
		}
	} else {
		for range params.BufferLength {
			if in[ii] != 0 {
				count++
			}
			ii += buf.Stride
		}
	}
	*f.counts.At(params.Thread) += count
	return nil
}

func (f *countFilter) result() uint64 {
	return f.counts.Reduce(func(acc *uint64, next uint64) { *acc += next })
}

// Count returns the number of non-zero samples of the scalar image in,
// considering only the pixels selected by mask (nil for all pixels).
// Samples are converted to binary, so any non-zero value counts.
func (a *Analyzer) Count(in, mask *image.Image) (uint64, error) {
	if err := checkScalarInput(in, mask); err != nil {
		return 0, wrap("Count", err)
	}
	var filter countFilter
	if err := a.eng.ScanSingleInput(in, mask, image.Binary, &filter, 0); err != nil {
		return 0, wrap("Count", err)
	}
	return filter.result(), nil
}
