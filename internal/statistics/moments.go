package statistics

import (
	"github.com/born-ml/dip/internal/accumulators"
	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
)

// ============================================================================
// SampleStatistics
// ============================================================================

type sampleStatisticsFilter[T realSample] struct {
	acc framework.PerThread[accumulators.StatisticsAccumulator]
}

func (f *sampleStatisticsFilter[T]) NumberOfOperations(_, _, _ int) int { return 23 }

func (f *sampleStatisticsFilter[T]) SetNumberOfThreads(threads int) {
	f.acc.Resize(threads, func() accumulators.StatisticsAccumulator { return accumulators.StatisticsAccumulator{} })
}

func (f *sampleStatisticsFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	buf := params.InBuffer[0]
	in := framework.Samples[T](buf)
	var vars accumulators.StatisticsAccumulator
	ii := buf.Offset
	if len(params.InBuffer) > 1 {
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
		for range params.BufferLength {
			vars.Push(float64(in[ii]))
			ii += buf.Stride
		}
	}
	f.acc.At(params.Thread).Merge(vars)
	return nil
}

func (f *sampleStatisticsFilter[T]) result() accumulators.StatisticsAccumulator {
	return f.acc.Reduce(func(acc *accumulators.StatisticsAccumulator, next accumulators.StatisticsAccumulator) {
		acc.Merge(next)
	})
}

type statisticsResult interface {
	framework.ScanLineFilter
	result() accumulators.StatisticsAccumulator
}

// SampleStatistics returns the mean, variance, skewness and excess kurtosis
// of the samples of in, over all tensor elements, considering only pixels
// selected by mask (nil for all). in must have a real data type; binary and
// complex images fail with image.ErrDataTypeNotSupported.
func (a *Analyzer) SampleStatistics(in, mask *image.Image) (accumulators.StatisticsAccumulator, error) {
	if err := image.CheckForged(in); err != nil {
		return accumulators.StatisticsAccumulator{}, wrap("SampleStatistics", err)
	}
	if err := checkMask(in, mask); err != nil {
		return accumulators.StatisticsAccumulator{}, wrap("SampleStatistics", err)
	}
	dt := in.DataType()
	filter, err := framework.Dispatch("statistics.SampleStatistics", dt, image.RealSet, framework.Instantiations[statisticsResult]{
		Uint8:   func() statisticsResult { return &sampleStatisticsFilter[uint8]{} },
		Uint16:  func() statisticsResult { return &sampleStatisticsFilter[uint16]{} },
		Uint32:  func() statisticsResult { return &sampleStatisticsFilter[uint32]{} },
		Sint8:   func() statisticsResult { return &sampleStatisticsFilter[int8]{} },
		Sint16:  func() statisticsResult { return &sampleStatisticsFilter[int16]{} },
		Sint32:  func() statisticsResult { return &sampleStatisticsFilter[int32]{} },
		Float32: func() statisticsResult { return &sampleStatisticsFilter[float32]{} },
		Float64: func() statisticsResult { return &sampleStatisticsFilter[float64]{} },
	})
	if err != nil {
		return accumulators.StatisticsAccumulator{}, err
	}
	if err := a.eng.ScanSingleInput(in, mask, dt, filter, framework.ScanTensorAsSpatialDim); err != nil {
		return accumulators.StatisticsAccumulator{}, wrap("SampleStatistics", err)
	}
	return filter.result(), nil
}

// ============================================================================
// Covariance
// ============================================================================

type covarianceFilter[T realSample] struct {
	acc framework.PerThread[accumulators.CovarianceAccumulator]
}

func (f *covarianceFilter[T]) NumberOfOperations(_, _, _ int) int { return 10 }

func (f *covarianceFilter[T]) SetNumberOfThreads(threads int) {
	f.acc.Resize(threads, func() accumulators.CovarianceAccumulator { return accumulators.CovarianceAccumulator{} })
}

func (f *covarianceFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	buf1, buf2 := params.InBuffer[0], params.InBuffer[1]
	in1 := framework.Samples[T](buf1)
	in2 := framework.Samples[T](buf2)
	var vars accumulators.CovarianceAccumulator
	i1, i2 := buf1.Offset, buf2.Offset
	if len(params.InBuffer) > 2 {
		maskBuf := params.InBuffer[2]
		mask := framework.Samples[image.Bin](maskBuf)
		mi := maskBuf.Offset
		for range params.BufferLength {
			if mask[mi] != 0 {
				vars.Push(float64(in1[i1]), float64(in2[i2]))
			}
			i1 += buf1.Stride
			i2 += buf2.Stride
			mi += maskBuf.Stride
		}
	} else {
		for range params.BufferLength {
			vars.Push(float64(in1[i1]), float64(in2[i2]))
			i1 += buf1.Stride
			i2 += buf2.Stride
		}
	}
	f.acc.At(params.Thread).Merge(vars)
	return nil
}

func (f *covarianceFilter[T]) result() accumulators.CovarianceAccumulator {
	return f.acc.Reduce(func(acc *accumulators.CovarianceAccumulator, next accumulators.CovarianceAccumulator) {
		acc.Merge(next)
	})
}

type covarianceResult interface {
	framework.ScanLineFilter
	result() accumulators.CovarianceAccumulator
}

// Covariance returns the joint statistics of the sample pairs of in1 and
// in2, over all tensor elements, considering only pixels selected by mask
// (nil for all). in1 and in2 must have the same sizes and number of tensor
// elements. The samples are read in the type SuggestDyadic picks for both
// inputs, which must be real.
func (a *Analyzer) Covariance(in1, in2, mask *image.Image) (accumulators.CovarianceAccumulator, error) {
	if err := image.CheckForged(in1, in2); err != nil {
		return accumulators.CovarianceAccumulator{}, wrap("Covariance", err)
	}
	if err := image.CompareSizes(in1, in2); err != nil {
		return accumulators.CovarianceAccumulator{}, wrap("Covariance", err)
	}
	if in1.TensorElements() != in2.TensorElements() {
		return accumulators.CovarianceAccumulator{}, wrap("Covariance", image.ErrTensorMismatch)
	}
	if err := checkMask(in1, mask); err != nil {
		return accumulators.CovarianceAccumulator{}, wrap("Covariance", err)
	}
	dt := image.SuggestDyadic(in1.DataType(), in2.DataType())
	filter, err := framework.Dispatch("statistics.Covariance", dt, image.RealSet, framework.Instantiations[covarianceResult]{
		Uint8:   func() covarianceResult { return &covarianceFilter[uint8]{} },
		Uint16:  func() covarianceResult { return &covarianceFilter[uint16]{} },
		Uint32:  func() covarianceResult { return &covarianceFilter[uint32]{} },
		Sint8:   func() covarianceResult { return &covarianceFilter[int8]{} },
		Sint16:  func() covarianceResult { return &covarianceFilter[int16]{} },
		Sint32:  func() covarianceResult { return &covarianceFilter[int32]{} },
		Float32: func() covarianceResult { return &covarianceFilter[float32]{} },
		Float64: func() covarianceResult { return &covarianceFilter[float64]{} },
	})
	if err != nil {
		return accumulators.CovarianceAccumulator{}, err
	}
	inputs := []*image.Image{in1, in2}
	types := []image.DataType{dt, dt}
	if mask != nil {
		inputs = append(inputs, mask)
		types = append(types, image.Binary)
	}
	if err := a.eng.Scan(inputs, nil, types, nil, nil, nil, filter, framework.ScanTensorAsSpatialDim); err != nil {
		return accumulators.CovarianceAccumulator{}, wrap("Covariance", err)
	}
	return filter.result(), nil
}

// ============================================================================
// CenterOfMass and Moments
// ============================================================================

// pushWeighted calls push for every selected sample of the line with its
// coordinates and value.
func pushWeighted[T realSample](params framework.ScanLineFilterParams, pos []float64, push func(pos []float64, w float64)) {
	buf := params.InBuffer[0]
	in := framework.Samples[T](buf)
	floatPosition(pos, params.Position)
	// 0-D images have no coordinate to advance.
	step := 0.0
	dim := params.Dimension
	if dim < len(pos) {
		step = 1
	} else {
		pos = append(pos, 0)
	}
	ii := buf.Offset
	if len(params.InBuffer) > 1 {
		maskBuf := params.InBuffer[1]
		mask := framework.Samples[image.Bin](maskBuf)
		mi := maskBuf.Offset
		for range params.BufferLength {
			if mask[mi] != 0 {
				push(pos, float64(in[ii]))
			}
			pos[dim] += step
			ii += buf.Stride
			mi += maskBuf.Stride
		}
		return
	}
	for range params.BufferLength {
		push(pos, float64(in[ii]))
		pos[dim] += step
		ii += buf.Stride
	}
}

type centerOfMassFilter[T realSample] struct {
	nD  int
	acc framework.PerThread[accumulators.CenterOfMassAccumulator]
}

func (f *centerOfMassFilter[T]) NumberOfOperations(_, _, _ int) int { return f.nD + 1 }

func (f *centerOfMassFilter[T]) SetNumberOfThreads(threads int) {
	f.acc.Resize(threads, func() accumulators.CenterOfMassAccumulator {
		return accumulators.NewCenterOfMassAccumulator(f.nD)
	})
}

func (f *centerOfMassFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	vars := f.acc.At(params.Thread)
	pushWeighted[T](params, make([]float64, f.nD), vars.Push)
	return nil
}

func (f *centerOfMassFilter[T]) result() []float64 {
	acc := f.acc.Reduce(func(acc *accumulators.CenterOfMassAccumulator, next accumulators.CenterOfMassAccumulator) {
		acc.Merge(next)
	})
	return acc.Result()
}

type centerOfMassResult interface {
	framework.ScanLineFilter
	result() []float64
}

// CenterOfMass returns the coordinates of the center of mass of the scalar
// image in, with the sample values as weights, considering only pixels
// selected by mask (nil for all). Zero total mass gives the origin.
func (a *Analyzer) CenterOfMass(in, mask *image.Image) ([]float64, error) {
	if err := checkScalarInput(in, mask); err != nil {
		return nil, wrap("CenterOfMass", err)
	}
	nD := in.Dimensionality()
	dt := in.DataType()
	filter, err := framework.Dispatch("statistics.CenterOfMass", dt, image.NonComplexSet, framework.Instantiations[centerOfMassResult]{
		Binary:  func() centerOfMassResult { return &centerOfMassFilter[uint8]{nD: nD} },
		Uint8:   func() centerOfMassResult { return &centerOfMassFilter[uint8]{nD: nD} },
		Uint16:  func() centerOfMassResult { return &centerOfMassFilter[uint16]{nD: nD} },
		Uint32:  func() centerOfMassResult { return &centerOfMassFilter[uint32]{nD: nD} },
		Sint8:   func() centerOfMassResult { return &centerOfMassFilter[int8]{nD: nD} },
		Sint16:  func() centerOfMassResult { return &centerOfMassFilter[int16]{nD: nD} },
		Sint32:  func() centerOfMassResult { return &centerOfMassFilter[int32]{nD: nD} },
		Float32: func() centerOfMassResult { return &centerOfMassFilter[float32]{nD: nD} },
		Float64: func() centerOfMassResult { return &centerOfMassFilter[float64]{nD: nD} },
	})
	if err != nil {
		return nil, err
	}
	if err := a.eng.ScanSingleInput(in, mask, dt, filter, framework.ScanNeedCoordinates); err != nil {
		return nil, wrap("CenterOfMass", err)
	}
	return filter.result(), nil
}

type momentFilter[T realSample] struct {
	nD  int
	acc framework.PerThread[accumulators.MomentAccumulator]
}

func (f *momentFilter[T]) NumberOfOperations(_, _, _ int) int { return f.nD*(f.nD+3)/2 + 1 }

func (f *momentFilter[T]) SetNumberOfThreads(threads int) {
	f.acc.Resize(threads, func() accumulators.MomentAccumulator {
		return accumulators.NewMomentAccumulator(f.nD)
	})
}

func (f *momentFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	vars := f.acc.At(params.Thread)
	pushWeighted[T](params, make([]float64, f.nD), vars.Push)
	return nil
}

func (f *momentFilter[T]) result() accumulators.MomentAccumulator {
	acc := f.acc.Reduce(func(acc *accumulators.MomentAccumulator, next accumulators.MomentAccumulator) {
		acc.Merge(next)
	})
	return acc.Clone()
}

type momentResult interface {
	framework.ScanLineFilter
	result() accumulators.MomentAccumulator
}

// Moments returns the zeroth, first and central second order moments of
// the scalar image in, with the sample values as weights, considering only
// pixels selected by mask (nil for all).
func (a *Analyzer) Moments(in, mask *image.Image) (accumulators.MomentAccumulator, error) {
	if err := checkScalarInput(in, mask); err != nil {
		return accumulators.MomentAccumulator{}, wrap("Moments", err)
	}
	nD := in.Dimensionality()
	dt := in.DataType()
	filter, err := framework.Dispatch("statistics.Moments", dt, image.NonComplexSet, framework.Instantiations[momentResult]{
		Binary:  func() momentResult { return &momentFilter[uint8]{nD: nD} },
		Uint8:   func() momentResult { return &momentFilter[uint8]{nD: nD} },
		Uint16:  func() momentResult { return &momentFilter[uint16]{nD: nD} },
		Uint32:  func() momentResult { return &momentFilter[uint32]{nD: nD} },
		Sint8:   func() momentResult { return &momentFilter[int8]{nD: nD} },
		Sint16:  func() momentResult { return &momentFilter[int16]{nD: nD} },
		Sint32:  func() momentResult { return &momentFilter[int32]{nD: nD} },
		Float32: func() momentResult { return &momentFilter[float32]{nD: nD} },
		Float64: func() momentResult { return &momentFilter[float64]{nD: nD} },
	})
	if err != nil {
		return accumulators.MomentAccumulator{}, err
	}
	if err := a.eng.ScanSingleInput(in, mask, dt, filter, framework.ScanNeedCoordinates); err != nil {
		return accumulators.MomentAccumulator{}, wrap("Moments", err)
	}
	return filter.result(), nil
}
