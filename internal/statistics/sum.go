package statistics

import (
	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
)

type sumState struct {
	sum float64
	n   uint64
}

type sumFilter[T realSample] struct {
	acc framework.PerThread[sumState]
}

func (f *sumFilter[T]) NumberOfOperations(_, _, _ int) int { return 1 }

func (f *sumFilter[T]) SetNumberOfThreads(threads int) {
	f.acc.Resize(threads, func() sumState { return sumState{} })
}

func (f *sumFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	buf := params.InBuffer[0]
	in := framework.Samples[T](buf)
	var line sumState
	ii := buf.Offset
	if len(params.InBuffer) > 1 {
		maskBuf := params.InBuffer[1]
		mask := framework.Samples[image.Bin](maskBuf)
		mi := maskBuf.Offset
		for range params.BufferLength {
			if mask[mi] != 0 {
				line.sum += float64(in[ii])
				line.n++
			}
			ii += buf.Stride
			mi += maskBuf.Stride
		}
	} else {
		for range params.BufferLength {
			line.sum += float64(in[ii])
			ii += buf.Stride
		}
		line.n = uint64(params.BufferLength)
	}
	slot := f.acc.At(params.Thread)
	slot.sum += line.sum
	slot.n += line.n
	return nil
}

func (f *sumFilter[T]) result() sumState {
	return f.acc.Reduce(func(acc *sumState, next sumState) {
		acc.sum += next.sum
		acc.n += next.n
	})
}

type sumResult interface {
	framework.ScanLineFilter
	result() sumState
}

func (a *Analyzer) sum(op string, in, mask *image.Image) (sumState, error) {
	if err := image.CheckForged(in); err != nil {
		return sumState{}, wrap(op, err)
	}
	if err := checkMask(in, mask); err != nil {
		return sumState{}, wrap(op, err)
	}
	dt := in.DataType()
	filter, err := framework.Dispatch("statistics."+op, dt, image.NonComplexSet, framework.Instantiations[sumResult]{
		Binary:  func() sumResult { return &sumFilter[uint8]{} },
		Uint8:   func() sumResult { return &sumFilter[uint8]{} },
		Uint16:  func() sumResult { return &sumFilter[uint16]{} },
		Uint32:  func() sumResult { return &sumFilter[uint32]{} },
		Sint8:   func() sumResult { return &sumFilter[int8]{} },
		Sint16:  func() sumResult { return &sumFilter[int16]{} },
		Sint32:  func() sumResult { return &sumFilter[int32]{} },
		Float32: func() sumResult { return &sumFilter[float32]{} },
		Float64: func() sumResult { return &sumFilter[float64]{} },
	})
	if err != nil {
		return sumState{}, err
	}
	if err := a.eng.ScanSingleInput(in, mask, dt, filter, framework.ScanTensorAsSpatialDim); err != nil {
		return sumState{}, wrap(op, err)
	}
	return filter.result(), nil
}

// Sum returns the sum of the samples of in, over all tensor elements,
// considering only pixels selected by mask (nil for all).
func (a *Analyzer) Sum(in, mask *image.Image) (float64, error) {
	s, err := a.sum("Sum", in, mask)
	return s.sum, err
}

// Mean returns the mean sample value of in, over all tensor elements,
// considering only pixels selected by mask (nil for all). It is 0 when no
// sample is selected.
func (a *Analyzer) Mean(in, mask *image.Image) (float64, error) {
	s, err := a.sum("Mean", in, mask)
	if err != nil || s.n == 0 {
		return 0, err
	}
	return s.sum / float64(s.n), nil
}
