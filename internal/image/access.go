package image

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Limits returns the range of values representable by a real data type.
// Floating-point types report ±Inf.
func Limits(dt DataType) (lo, hi float64) {
	switch dt {
	case Binary:
		return 0, 1
	case Uint8:
		return 0, math.MaxUint8
	case Uint16:
		return 0, math.MaxUint16
	case Uint32:
		return 0, math.MaxUint32
	case Sint8:
		return math.MinInt8, math.MaxInt8
	case Sint16:
		return math.MinInt16, math.MaxInt16
	case Sint32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

// ClampRound converts v to the value an integer sample of type dt would hold:
// rounded half away from zero and saturated to the type's range. NaN maps to 0.
// Floating-point types return v unchanged; binary returns 0 or 1.
func ClampRound(dt DataType, v float64) float64 {
	switch {
	case dt == Binary:
		if v != 0 {
			return 1
		}
		return 0
	case dt.IsInteger():
		if math.IsNaN(v) {
			return 0
		}
		lo, hi := Limits(dt)
		return math.Min(math.Max(math.Round(v), lo), hi)
	default:
		return v
	}
}

// LoadSample reads sample idx of a segment holding samples of type dt.
func LoadSample(dt DataType, data []byte, idx int) complex128 {
	switch dt {
	case Binary, Uint8:
		return complex(float64(data[idx]), 0)
	case Uint16:
		return complex(float64(SamplesOf[uint16](data)[idx]), 0)
	case Uint32:
		return complex(float64(SamplesOf[uint32](data)[idx]), 0)
	case Sint8:
		return complex(float64(SamplesOf[int8](data)[idx]), 0)
	case Sint16:
		return complex(float64(SamplesOf[int16](data)[idx]), 0)
	case Sint32:
		return complex(float64(SamplesOf[int32](data)[idx]), 0)
	case Float32:
		return complex(float64(SamplesOf[float32](data)[idx]), 0)
	case Float64:
		return complex(SamplesOf[float64](data)[idx], 0)
	case Complex64:
		return complex128(SamplesOf[complex64](data)[idx])
	case Complex128:
		return SamplesOf[complex128](data)[idx]
	default:
		panic("unknown data type")
	}
}

// StoreSample writes v to sample idx, converting it to dt. Real
// destinations receive the magnitude of complex values with a non-zero
// imaginary part.
func StoreSample(dt DataType, data []byte, idx int, v complex128) {
	if dt.IsComplex() {
		if dt == Complex64 {
			SamplesOf[complex64](data)[idx] = complex64(v)
		} else {
			SamplesOf[complex128](data)[idx] = v
		}
		return
	}
	x := real(v)
	if imag(v) != 0 {
		x = cmplx.Abs(v)
	}
	x = ClampRound(dt, x)
	switch dt {
	case Binary, Uint8:
		data[idx] = uint8(x)
	case Uint16:
		SamplesOf[uint16](data)[idx] = uint16(x)
	case Uint32:
		SamplesOf[uint32](data)[idx] = uint32(x)
	case Sint8:
		SamplesOf[int8](data)[idx] = int8(x)
	case Sint16:
		SamplesOf[int16](data)[idx] = int16(x)
	case Sint32:
		SamplesOf[int32](data)[idx] = int32(x)
	case Float32:
		SamplesOf[float32](data)[idx] = float32(x)
	case Float64:
		SamplesOf[float64](data)[idx] = x
	default:
		panic("unknown data type")
	}
}

// forEachSample calls fn with the sample index of every sample, in linear
// order: tensor elements innermost, then dimension 0, 1, ...
func (img *Image) forEachSample(fn func(idx int)) {
	if img.NumberOfPixels() == 0 {
		return
	}
	nD := len(img.sizes)
	coords := make([]int, nD)
	nT := img.TensorElements()
	pixel := img.offset
	for {
		for t := 0; t < nT; t++ {
			fn(pixel + t*img.tensorStride)
		}
		d := 0
		for ; d < nD; d++ {
			coords[d]++
			pixel += img.strides[d]
			if coords[d] < img.sizes[d] {
				break
			}
			pixel -= coords[d] * img.strides[d]
			coords[d] = 0
		}
		if d == nD {
			return
		}
	}
}

func (img *Image) checkCoords(coords []int, t int) error {
	if err := CheckForged(img); err != nil {
		return err
	}
	if len(coords) != len(img.sizes) {
		return fmt.Errorf("%d coordinates for %d-D image: %w", len(coords), len(img.sizes), ErrDimensionalityNotSupported)
	}
	for i, c := range coords {
		if c < 0 || c >= img.sizes[i] {
			return fmt.Errorf("coordinate %d = %d: %w", i, c, ErrIndexOutOfRange)
		}
	}
	if t < 0 || t >= img.TensorElements() {
		return fmt.Errorf("tensor element %d: %w", t, ErrIndexOutOfRange)
	}
	return nil
}

// SampleAt returns tensor element t of the pixel at coords.
func (img *Image) SampleAt(coords []int, t int) (complex128, error) {
	if err := img.checkCoords(coords, t); err != nil {
		return 0, err
	}
	return LoadSample(img.dataType, img.Data(), img.SampleIndex(coords, t)), nil
}

// SetSampleAt writes tensor element t of the pixel at coords, converting v to
// the image's data type.
func (img *Image) SetSampleAt(coords []int, t int, v complex128) error {
	if err := img.checkCoords(coords, t); err != nil {
		return err
	}
	StoreSample(img.dataType, img.Data(), img.SampleIndex(coords, t), v)
	return nil
}

// Fill sets every sample of the image to v.
func (img *Image) Fill(v complex128) error {
	if err := CheckForged(img); err != nil {
		return err
	}
	data := img.Data()
	img.forEachSample(func(idx int) {
		StoreSample(img.dataType, data, idx, v)
	})
	return nil
}

// Float64s returns the real part of every sample in linear order
// (tensor elements innermost, then dimension 0, 1, ...).
func (img *Image) Float64s() []float64 {
	if !img.IsForged() {
		return nil
	}
	out := make([]float64, 0, img.NumberOfSamples())
	data := img.Data()
	img.forEachSample(func(idx int) {
		out = append(out, real(LoadSample(img.dataType, data, idx)))
	})
	return out
}

// Complex128s returns every sample in linear order.
func (img *Image) Complex128s() []complex128 {
	if !img.IsForged() {
		return nil
	}
	out := make([]complex128, 0, img.NumberOfSamples())
	data := img.Data()
	img.forEachSample(func(idx int) {
		out = append(out, LoadSample(img.dataType, data, idx))
	})
	return out
}

// FromSlice creates a scalar image from a Go slice in linear order
// (dimension 0 fastest). The slice is copied into the image's memory.
//
// Example:
//
//	img, err := image.FromSlice([]float32{1, 2, 3, 4}, 4)
func FromSlice[T Sample](data []T, sizes ...int) (*Image, error) {
	return FromSliceTensor(data, 1, sizes...)
}

// FromSliceTensor creates an image with tensorElements samples per pixel from
// a Go slice in linear order (tensor elements innermost).
func FromSliceTensor[T Sample](data []T, tensorElements int, sizes ...int) (*Image, error) {
	if len(sizes) == 0 {
		sizes = []int{len(data) / max(tensorElements, 1)}
	}
	sz := Sizes(sizes)
	if sz.Product()*tensorElements != len(data) {
		return nil, fmt.Errorf("sizes %v with %d tensor elements require %d samples, but got %d: %w",
			sz, tensorElements, sz.Product()*tensorElements, len(data), ErrSizesDontMatch)
	}
	img, err := New(sz, tensorElements, DataTypeOf[T]())
	if err != nil {
		return nil, err
	}
	copy(SamplesOf[T](img.Data()), data)
	return img, nil
}

// Cast converts v to a sample of type T with the rules of StoreSample.
func Cast[T Sample](v complex128) T {
	buf := NewDataSegment(16).Bytes()
	StoreSample(DataTypeOf[T](), buf, 0, v)
	return SamplesOf[T](buf)[0]
}
