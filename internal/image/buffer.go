package image

import (
	"fmt"
	"strings"
	"unsafe"
)

// BufferInfo describes an N-dimensional strided buffer owned by a foreign
// host, in the style of the Python buffer protocol.
type BufferInfo struct {
	Ptr      unsafe.Pointer // address of the element at all-zero indices
	ItemSize int            // bytes per element
	Format   string         // element format tag, see FormatOf
	Shape    []int          // extent per dimension
	Strides  []int          // byte stride per dimension, may be negative
	Release  func()         // called exactly once when the memory is no longer referenced
}

// ImportOptions control how FromBuffer interprets a foreign buffer.
type ImportOptions struct {
	// LastDimAsTensor turns a trailing dimension with fewer than 10 elements
	// into the tensor dimension (e.g. the channels of an RGB array).
	LastDimAsTensor bool
}

// FormatOf returns the buffer format tag for a data type.
func FormatOf(dt DataType) string {
	switch dt {
	case Binary:
		return "?"
	case Uint8:
		return "B"
	case Uint16:
		return "H"
	case Uint32:
		return "I"
	case Sint8:
		return "b"
	case Sint16:
		return "h"
	case Sint32:
		return "i"
	case Float32:
		return "f"
	case Float64:
		return "d"
	case Complex64:
		return "Zf"
	case Complex128:
		return "Zd"
	default:
		return ""
	}
}

// DataTypeOfFormat maps a buffer format tag to a data type. A leading
// native byte-order character ('@', '=', '<') is accepted.
func DataTypeOfFormat(format string) (DataType, error) {
	f := strings.TrimLeft(format, "@=<")
	for _, dt := range AllDataTypes {
		if FormatOf(dt) == f {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("format %q: %w", format, ErrUnknownFormat)
}

// FromBuffer creates an image viewing foreign memory. No pixel data is
// copied; the image's data segment calls info.Release once the last image
// descriptor referencing it is stripped.
//
// Strides that are not a whole number of elements are rejected with
// ErrStrideNotPixelAligned.
func FromBuffer(info BufferInfo, opts ImportOptions) (*Image, error) {
	dt, err := DataTypeOfFormat(info.Format)
	if err != nil {
		return nil, err
	}
	if info.ItemSize != dt.Size() {
		return nil, fmt.Errorf("item size %d for format %q: %w", info.ItemSize, info.Format, ErrUnknownFormat)
	}
	if len(info.Strides) != len(info.Shape) {
		return nil, fmt.Errorf("%d strides for %d dimensions: %w", len(info.Strides), len(info.Shape), ErrInvalidSizes)
	}
	sizes := Sizes(info.Shape).Clone()
	if err := sizes.Validate(); err != nil {
		return nil, err
	}
	strides := make([]int, len(sizes))
	minOff, maxOff := 0, 0
	for i, bs := range info.Strides {
		s := bs / info.ItemSize
		if s*info.ItemSize != bs {
			return nil, fmt.Errorf("dimension %d has byte stride %d for item size %d: %w",
				i, bs, info.ItemSize, ErrStrideNotPixelAligned)
		}
		strides[i] = s
		if sizes[i] > 0 {
			if off := (sizes[i] - 1) * bs; off < 0 {
				minOff += off
			} else {
				maxOff += off
			}
		}
	}

	var data []byte
	if sizes.Product() > 0 {
		if info.Ptr == nil {
			return nil, ErrNilBuffer
		}
		base := unsafe.Add(info.Ptr, minOff)
		//nolint:gosec // the foreign host guarantees [minOff, maxOff+ItemSize) is addressable
		data = unsafe.Slice((*byte)(base), maxOff-minOff+info.ItemSize)
	}

	img := &Image{
		dataType:     dt,
		sizes:        sizes,
		strides:      strides,
		tensor:       VectorTensor(1),
		tensorStride: 1,
		segment:      WrapDataSegment(data, info.Release),
		offset:       -minOff / info.ItemSize,
	}
	if opts.LastDimAsTensor && len(sizes) > 1 && sizes[len(sizes)-1] < 10 {
		if err := img.SpatialToTensor(len(sizes) - 1); err != nil {
			img.Strip()
			return nil, err
		}
	}
	return img, nil
}

// ToBuffer exports the image as a foreign buffer description. Spatial
// dimensions come first; a non-scalar image gets one trailing dimension for
// its tensor elements. The returned BufferInfo holds a reference to the
// image's memory, dropped when its Release is called.
func (img *Image) ToBuffer() (BufferInfo, error) {
	if err := CheckForged(img); err != nil {
		return BufferInfo{}, err
	}
	itemSize := img.dataType.Size()
	shape := img.sizes.Clone()
	strides := make([]int, len(img.strides))
	for i, s := range img.strides {
		strides[i] = s * itemSize
	}
	if !img.IsScalar() {
		shape = append(shape, img.TensorElements())
		strides = append(strides, img.tensorStride*itemSize)
	}
	seg := img.segment
	seg.Retain()
	return BufferInfo{
		Ptr:      img.Origin(),
		ItemSize: itemSize,
		Format:   FormatOf(img.dataType),
		Shape:    shape,
		Strides:  strides,
		Release:  seg.Release,
	}, nil
}
