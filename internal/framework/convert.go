package framework

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/born-ml/dip/internal/image"
)

// SampleLine addresses a strided run of samples inside a byte slice.
type SampleLine struct {
	Data     []byte
	DataType image.DataType
	Offset   int
	Stride   int
}

type realSample interface {
	~uint8 | ~uint16 | ~uint32 | ~int8 | ~int16 | ~int32 | ~float32 | ~float64
}

type complexSample interface {
	~complex64 | ~complex128
}

// ConvertSamples copies n samples from src to dst, converting between data types:
//   - integer destinations round half away from zero and saturate (NaN becomes 0);
//   - binary destinations receive 1 for every non-zero value;
//   - real destinations receive the magnitude of complex values;
//   - complex destinations receive real values with a zero imaginary part.
func ConvertSamples(dst, src SampleLine, n int) {
	if n <= 0 {
		return
	}
	switch src.DataType {
	case image.Binary:
		convertFromReal(image.SamplesOf[image.Bin](src.Data), src, dst, n)
	case image.Uint8:
		convertFromReal(image.SamplesOf[uint8](src.Data), src, dst, n)
	case image.Uint16:
		convertFromReal(image.SamplesOf[uint16](src.Data), src, dst, n)
	case image.Uint32:
		convertFromReal(image.SamplesOf[uint32](src.Data), src, dst, n)
	case image.Sint8:
		convertFromReal(image.SamplesOf[int8](src.Data), src, dst, n)
	case image.Sint16:
		convertFromReal(image.SamplesOf[int16](src.Data), src, dst, n)
	case image.Sint32:
		convertFromReal(image.SamplesOf[int32](src.Data), src, dst, n)
	case image.Float32:
		convertFromReal(image.SamplesOf[float32](src.Data), src, dst, n)
	case image.Float64:
		convertFromReal(image.SamplesOf[float64](src.Data), src, dst, n)
	case image.Complex64:
		convertFromComplex(image.SamplesOf[complex64](src.Data), src, dst, n)
	case image.Complex128:
		convertFromComplex(image.SamplesOf[complex128](src.Data), src, dst, n)
	default:
		panic(fmt.Sprintf("convert: unknown source data type %d", int(src.DataType)))
	}
}

// ============================================================================
// Real sources
// ============================================================================

func convertFromReal[S realSample](s []S, src, dst SampleLine, n int) {
	switch dst.DataType {
	case image.Binary:
		realToReal(s, src, image.SamplesOf[image.Bin](dst.Data), dst, n)
	case image.Uint8:
		realToReal(s, src, image.SamplesOf[uint8](dst.Data), dst, n)
	case image.Uint16:
		realToReal(s, src, image.SamplesOf[uint16](dst.Data), dst, n)
	case image.Uint32:
		realToReal(s, src, image.SamplesOf[uint32](dst.Data), dst, n)
	case image.Sint8:
		realToReal(s, src, image.SamplesOf[int8](dst.Data), dst, n)
	case image.Sint16:
		realToReal(s, src, image.SamplesOf[int16](dst.Data), dst, n)
	case image.Sint32:
		realToReal(s, src, image.SamplesOf[int32](dst.Data), dst, n)
	case image.Float32:
		realToReal(s, src, image.SamplesOf[float32](dst.Data), dst, n)
	case image.Float64:
		realToReal(s, src, image.SamplesOf[float64](dst.Data), dst, n)
	case image.Complex64:
		realToComplex(s, src, image.SamplesOf[complex64](dst.Data), dst, n)
	case image.Complex128:
		realToComplex(s, src, image.SamplesOf[complex128](dst.Data), dst, n)
	default:
		panic(fmt.Sprintf("convert: unknown destination data type %d", int(dst.DataType)))
	}
}

func realToReal[S, D realSample](s []S, src SampleLine, d []D, dst SampleLine, n int) {
	si, di := src.Offset, dst.Offset
	if src.DataType == dst.DataType {
		// Same representation: a plain copy, except that binary samples are
		// normalized to 0/1.
		if src.DataType != image.Binary {
			for range n {
				d[di] = D(s[si])
				si += src.Stride
				di += dst.Stride
			}
			return
		}
	}
	cast := realCaster(dst.DataType)
	for range n {
		d[di] = D(cast(float64(s[si])))
		si += src.Stride
		di += dst.Stride
	}
}

func realToComplex[S realSample, D complexSample](s []S, src SampleLine, d []D, dst SampleLine, n int) {
	si, di := src.Offset, dst.Offset
	for range n {
		d[di] = D(complex(float64(s[si]), 0))
		si += src.Stride
		di += dst.Stride
	}
}

// realCaster returns the float64 -> float64 mapping that makes a value
// representable in dt.
func realCaster(dt image.DataType) func(float64) float64 {
	switch {
	case dt == image.Binary:
		return func(v float64) float64 {
			if v != 0 {
				return 1
			}
			return 0
		}
	case dt.IsInteger():
		lo, hi := image.Limits(dt)
		return func(v float64) float64 {
			if math.IsNaN(v) {
				return 0
			}
			return math.Min(math.Max(math.Round(v), lo), hi)
		}
	default:
		return func(v float64) float64 { return v }
	}
}

// ============================================================================
// Complex sources
// ============================================================================

func convertFromComplex[S complexSample](s []S, src, dst SampleLine, n int) {
	switch dst.DataType {
	case image.Binary:
		complexToReal(s, src, image.SamplesOf[image.Bin](dst.Data), dst, n)
	case image.Uint8:
		complexToReal(s, src, image.SamplesOf[uint8](dst.Data), dst, n)
	case image.Uint16:
		complexToReal(s, src, image.SamplesOf[uint16](dst.Data), dst, n)
	case image.Uint32:
		complexToReal(s, src, image.SamplesOf[uint32](dst.Data), dst, n)
	case image.Sint8:
		complexToReal(s, src, image.SamplesOf[int8](dst.Data), dst, n)
	case image.Sint16:
		complexToReal(s, src, image.SamplesOf[int16](dst.Data), dst, n)
	case image.Sint32:
		complexToReal(s, src, image.SamplesOf[int32](dst.Data), dst, n)
	case image.Float32:
		complexToReal(s, src, image.SamplesOf[float32](dst.Data), dst, n)
	case image.Float64:
		complexToReal(s, src, image.SamplesOf[float64](dst.Data), dst, n)
	case image.Complex64:
		complexToComplex(s, src, image.SamplesOf[complex64](dst.Data), dst, n)
	case image.Complex128:
		complexToComplex(s, src, image.SamplesOf[complex128](dst.Data), dst, n)
	default:
		panic(fmt.Sprintf("convert: unknown destination data type %d", int(dst.DataType)))
	}
}

func complexToReal[S complexSample, D realSample](s []S, src SampleLine, d []D, dst SampleLine, n int) {
	cast := realCaster(dst.DataType)
	si, di := src.Offset, dst.Offset
	for range n {
		d[di] = D(cast(cmplx.Abs(complex128(s[si]))))
		si += src.Stride
		di += dst.Stride
	}
}

func complexToComplex[S, D complexSample](s []S, src SampleLine, d []D, dst SampleLine, n int) {
	si, di := src.Offset, dst.Offset
	for range n {
		d[di] = D(complex128(s[si]))
		si += src.Stride
		di += dst.Stride
	}
}

// ============================================================================
// Image conversion
// ============================================================================

type copyFilter struct{}

func (copyFilter) NumberOfOperations(_, _, _ int) int { return 1 }

func (copyFilter) SetNumberOfThreads(int) {}

func (copyFilter) Filter(params ScanLineFilterParams) error {
	in, out := params.InBuffer[0], params.OutBuffer[0]
	for t := 0; t < out.TensorLength; t++ {
		ConvertSamples(
			SampleLine{Data: out.Data, DataType: out.DataType, Offset: out.Offset + t*out.TensorStride, Stride: out.Stride},
			SampleLine{Data: in.Data, DataType: in.DataType, Offset: in.Offset + t*in.TensorStride, Stride: in.Stride},
			params.BufferLength,
		)
	}
	return nil
}

// Convert writes a copy of in with data type dt to out. out may be in, in
// which case in is reforged with the new type.
func (e *Engine) Convert(in, out *image.Image, dt image.DataType) error {
	if err := image.CheckForged(in); err != nil {
		return fmt.Errorf("framework.Convert: %w", err)
	}
	if !dt.IsValid() {
		return fmt.Errorf("framework.Convert: data type %d: %w", int(dt), image.ErrDataTypeNotSupported)
	}
	tensor := in.Tensor()
	if err := e.ScanMonadic(in, out, in.DataType(), dt, in.TensorElements(), copyFilter{}, 0); err != nil {
		return fmt.Errorf("framework.Convert: %w", err)
	}
	return out.ReshapeTensor(tensor.Rows, tensor.Cols, tensor.Shape)
}
