package statistics

import (
	"fmt"

	"github.com/born-ml/dip/internal/accumulators"
	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
)

// ============================================================================
// MaximumPixel / MinimumPixel
// ============================================================================

type extremeCandidate[T realSample] struct {
	found  bool
	value  T
	index  int // linear index, dimension 0 fastest
	coords []int
}

// extremePixelFilter finds the position of the maximum (or minimum) sample.
// Ties go to the first or the last pixel in linear order.
type extremePixelFilter[T realSample] struct {
	maximum bool
	first   bool
	steps   []int // linear index step per dimension
	best    framework.PerThread[extremeCandidate[T]]
}

func newExtremePixel[T realSample](maximum, first bool, sizes image.Sizes) *extremePixelFilter[T] {
	return &extremePixelFilter[T]{maximum: maximum, first: first, steps: sizes.NormalStrides(1)}
}

type pixelResult interface {
	framework.ScanLineFilter
	result(nD int) []int
}

func (f *extremePixelFilter[T]) NumberOfOperations(_, _, _ int) int { return 2 }

func (f *extremePixelFilter[T]) SetNumberOfThreads(threads int) {
	f.best.Resize(threads, func() extremeCandidate[T] { return extremeCandidate[T]{} })
}

// better reports whether v replaces the current best value while scanning a
// line: "first" needs a strictly better value, "last" also takes equal ones.
func (f *extremePixelFilter[T]) better(v, best T) bool {
	if v == best {
		return !f.first
	}
	if f.maximum {
		return v > best
	}
	return v < best
}

// wins reports whether candidate c replaces the current best b of another
// set of pixels, applying the same tie-break through the linear index.
func (f *extremePixelFilter[T]) wins(c, b extremeCandidate[T]) bool {
	switch {
	case !c.found:
		return false
	case !b.found:
		return true
	case c.value == b.value:
		if f.first {
			return c.index < b.index
		}
		return c.index > b.index
	default:
		return f.better(c.value, b.value)
	}
}

func (f *extremePixelFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	buf := params.InBuffer[0]
	in := framework.Samples[T](buf)
	var (
		value  T
		offset int
		found  bool
	)
	ii := buf.Offset
	if len(params.InBuffer) > 1 {
		// The second buffer is the mask.
		maskBuf := params.InBuffer[1]
		mask := framework.Samples[image.Bin](maskBuf)
		mi := maskBuf.Offset
		for i := range params.BufferLength {
			if mask[mi] != 0 && (!found || f.better(in[ii], value)) {
				value, offset, found = in[ii], i, true
			}
			ii += buf.Stride
			mi += maskBuf.Stride
		}
	} else {
		for i := range params.BufferLength {
			if !found || f.better(in[ii], value) {
				value, offset, found = in[ii], i, true
			}
			ii += buf.Stride
		}
	}
	if !found {
		return nil
	}

	c := extremeCandidate[T]{found: true, value: value}
	c.coords = append([]int(nil), params.Position...)
	if params.Dimension < len(c.coords) {
		c.coords[params.Dimension] += offset
	}
	for d, x := range c.coords {
		c.index += x * f.steps[d]
	}
	slot := f.best.At(params.Thread)
	if f.wins(c, *slot) {
		*slot = c
	}
	return nil
}

func (f *extremePixelFilter[T]) result(nD int) []int {
	best := f.best.Reduce(func(acc *extremeCandidate[T], next extremeCandidate[T]) {
		if f.wins(next, *acc) {
			*acc = next
		}
	})
	if !best.found {
		return make([]int, nD)
	}
	return best.coords
}

func (a *Analyzer) extremePixel(op string, maximum bool, in, mask *image.Image, position string) ([]int, error) {
	if position != First && position != Last {
		return nil, wrap(op, fmt.Errorf("position %q: %w", position, image.ErrInvalidFlag))
	}
	if err := checkScalarInput(in, mask); err != nil {
		return nil, wrap(op, err)
	}
	first := position == First
	dt := in.DataType().SuggestReal()
	sizes := in.Sizes()

	filter, err := framework.Dispatch("statistics."+op, dt, image.RealSet, framework.Instantiations[pixelResult]{
		Uint8:   func() pixelResult { return newExtremePixel[uint8](maximum, first, sizes) },
		Uint16:  func() pixelResult { return newExtremePixel[uint16](maximum, first, sizes) },
		Uint32:  func() pixelResult { return newExtremePixel[uint32](maximum, first, sizes) },
		Sint8:   func() pixelResult { return newExtremePixel[int8](maximum, first, sizes) },
		Sint16:  func() pixelResult { return newExtremePixel[int16](maximum, first, sizes) },
		Sint32:  func() pixelResult { return newExtremePixel[int32](maximum, first, sizes) },
		Float32: func() pixelResult { return newExtremePixel[float32](maximum, first, sizes) },
		Float64: func() pixelResult { return newExtremePixel[float64](maximum, first, sizes) },
	})
	if err != nil {
		return nil, err
	}
	if err := a.eng.ScanSingleInput(in, mask, dt, filter, framework.ScanNeedCoordinates); err != nil {
		return nil, wrap(op, err)
	}
	return filter.result(len(sizes)), nil
}

// MaximumPixel returns the coordinates of the pixel with the largest value
// in the scalar image in, considering only pixels selected by mask (nil for
// all). position is First or Last and selects which of several equal maxima
// is reported, in linear order with dimension 0 fastest. When no pixel is
// considered the origin is returned.
//
// Binary images are processed as uint8 and complex images by their magnitude.
func (a *Analyzer) MaximumPixel(in, mask *image.Image, position string) ([]int, error) {
	return a.extremePixel("MaximumPixel", true, in, mask, position)
}

// MinimumPixel is MaximumPixel for the smallest value.
func (a *Analyzer) MinimumPixel(in, mask *image.Image, position string) ([]int, error) {
	return a.extremePixel("MinimumPixel", false, in, mask, position)
}

// ============================================================================
// MaximumAndMinimum
// ============================================================================

type minMaxFilter[T realSample] struct {
	acc framework.PerThread[accumulators.MinMaxAccumulator]
}

func (f *minMaxFilter[T]) NumberOfOperations(_, _, _ int) int { return 3 }

func (f *minMaxFilter[T]) SetNumberOfThreads(threads int) {
	f.acc.Resize(threads, func() accumulators.MinMaxAccumulator { return accumulators.MinMaxAccumulator{} })
}

func (f *minMaxFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	buf := params.InBuffer[0]
	in := framework.Samples[T](buf)
	var vars accumulators.MinMaxAccumulator
	ii := buf.Offset
	if len(params.InBuffer) > 1 {
		// The second buffer is the mask.
		maskBuf := params.InBuffer[1]
		mask := framework.Samples[image.Bin](maskBuf)
		mi := maskBuf.Offset
		for range params.BufferLength {
			if mask[mi] != 0 {
				vars.Push(float64(in[ii]))
			}
			ii += buf.Stride
			mi += maskBuf.Stride
		}
	} else {
		i := 0
		for ; i+1 < params.BufferLength; i += 2 {
			v := in[ii]
			ii += buf.Stride
			vars.PushPair(float64(v), float64(in[ii]))
			ii += buf.Stride
		}
		if i < params.BufferLength {
			vars.Push(float64(in[ii]))
		}
	}
	f.acc.At(params.Thread).Merge(vars)
	return nil
}

func (f *minMaxFilter[T]) result() accumulators.MinMaxAccumulator {
	return f.acc.Reduce(func(acc *accumulators.MinMaxAccumulator, next accumulators.MinMaxAccumulator) {
		acc.Merge(next)
	})
}

type minMaxResult interface {
	framework.ScanLineFilter
	result() accumulators.MinMaxAccumulator
}

// MaximumAndMinimum returns the range of the sample values of in, over all
// tensor elements, considering only pixels selected by mask (nil for all).
// The real and imaginary components of complex images are both included.
func (a *Analyzer) MaximumAndMinimum(in, mask *image.Image) (accumulators.MinMaxAccumulator, error) {
	if err := image.CheckForged(in); err != nil {
		return accumulators.MinMaxAccumulator{}, wrap("MaximumAndMinimum", err)
	}
	view := in.QuickCopy()
	defer view.Strip()
	if view.DataType().IsComplex() {
		// The mask is singleton-expanded over the new trailing dimension.
		if err := view.SplitComplex(); err != nil {
			return accumulators.MinMaxAccumulator{}, wrap("MaximumAndMinimum", err)
		}
	}
	if err := checkMask(view, mask); err != nil {
		return accumulators.MinMaxAccumulator{}, wrap("MaximumAndMinimum", err)
	}
	dt := view.DataType()
	filter, err := framework.Dispatch("statistics.MaximumAndMinimum", dt, image.NonComplexSet, framework.Instantiations[minMaxResult]{
		Binary:  func() minMaxResult { return &minMaxFilter[image.Bin]{} },
		Uint8:   func() minMaxResult { return &minMaxFilter[uint8]{} },
		Uint16:  func() minMaxResult { return &minMaxFilter[uint16]{} },
		Uint32:  func() minMaxResult { return &minMaxFilter[uint32]{} },
		Sint8:   func() minMaxResult { return &minMaxFilter[int8]{} },
		Sint16:  func() minMaxResult { return &minMaxFilter[int16]{} },
		Sint32:  func() minMaxResult { return &minMaxFilter[int32]{} },
		Float32: func() minMaxResult { return &minMaxFilter[float32]{} },
		Float64: func() minMaxResult { return &minMaxFilter[float64]{} },
	})
	if err != nil {
		return accumulators.MinMaxAccumulator{}, err
	}
	if err := a.eng.ScanSingleInput(view, mask, dt, filter, framework.ScanTensorAsSpatialDim); err != nil {
		return accumulators.MinMaxAccumulator{}, wrap("MaximumAndMinimum", err)
	}
	return filter.result(), nil
}
