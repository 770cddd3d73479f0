package image

import (
	"fmt"
	"strings"
	"unsafe"
)

// TensorShape describes how the tensor elements of a pixel are laid out.
type TensorShape int

// Supported tensor shapes.
const (
	ColumnVector TensorShape = iota
	RowVector
	ColumnMajorMatrix
	RowMajorMatrix
)

// String returns a human-readable tensor shape name.
func (s TensorShape) String() string {
	switch s {
	case ColumnVector:
		return "column vector"
	case RowVector:
		return "row vector"
	case ColumnMajorMatrix:
		return "column-major matrix"
	case RowMajorMatrix:
		return "row-major matrix"
	default:
		return "unknown"
	}
}

// Tensor is the per-pixel vector/matrix shape of an image.
type Tensor struct {
	Rows  int
	Cols  int
	Shape TensorShape
}

// VectorTensor returns a column vector tensor with n elements.
func VectorTensor(n int) Tensor {
	return Tensor{Rows: n, Cols: 1, Shape: ColumnVector}
}

// Elements returns the number of tensor elements; the zero Tensor is a scalar.
func (t Tensor) Elements() int {
	if t.Rows == 0 {
		return 1
	}
	return t.Rows * t.Cols
}

// IsScalar reports whether the tensor has a single element.
func (t Tensor) IsScalar() bool {
	return t.Elements() == 1
}

// Image is a strided N-dimensional array of typed samples with an optional
// per-pixel tensor. The zero value is a raw image: it has no dimensions and
// no memory. Forged images reference a shared DataSegment.
//
// Strides and the tensor stride are expressed in samples and may be
// negative or zero (singleton-expanded). The origin is the sample at all-zero
// coordinates; it is not necessarily the lowest address.
type Image struct {
	dataType     DataType
	sizes        Sizes
	strides      []int
	tensor       Tensor
	tensorStride int
	segment      *DataSegment
	offset       int // sample index of the origin inside segment
}

// New creates a forged image with normal strides. Memory is zero-filled.
//
// Example:
//
//	img, err := image.New(image.Sizes{256, 256}, 3, image.Uint8) // RGB-like image
func New(sizes Sizes, tensorElements int, dt DataType) (*Image, error) {
	img := &Image{}
	if err := img.ReForge(sizes, tensorElements, dt); err != nil {
		return nil, err
	}
	return img, nil
}

// Forge binds a raw image to new memory. It fails with ErrAlreadyForged
// when the image already has memory; use ReForge to replace it.
func (img *Image) Forge(sizes Sizes, tensorElements int, dt DataType) error {
	if img.IsForged() {
		return ErrAlreadyForged
	}
	return img.ReForge(sizes, tensorElements, dt)
}

// ReForge binds the image to memory for the given properties. An image that
// is already forged with exactly these properties keeps its memory (and with
// it any aliasing with other descriptors); otherwise it is stripped first.
func (img *Image) ReForge(sizes Sizes, tensorElements int, dt DataType) error {
	if err := sizes.Validate(); err != nil {
		return err
	}
	if tensorElements < 1 {
		return fmt.Errorf("%d tensor elements: %w", tensorElements, ErrInvalidSizes)
	}
	if !dt.IsValid() {
		return fmt.Errorf("data type %d: %w", int(dt), ErrDataTypeNotSupported)
	}
	if img.IsForged() && img.dataType == dt && img.sizes.Equal(sizes) && img.TensorElements() == tensorElements {
		return nil
	}
	img.Strip()
	img.dataType = dt
	img.sizes = sizes.Clone()
	img.strides = img.sizes.NormalStrides(tensorElements)
	img.tensor = VectorTensor(tensorElements)
	img.tensorStride = 1
	img.segment = NewDataSegment(sizes.Product() * tensorElements * dt.Size())
	img.offset = 0
	return nil
}

// Strip releases the image's reference to its memory and makes it raw.
func (img *Image) Strip() {
	if img.segment != nil {
		img.segment.Release()
	}
	*img = Image{}
}

// QuickCopy returns a new descriptor viewing the same memory (no pixel data is copied).
func (img *Image) QuickCopy() *Image {
	out := &Image{
		dataType:     img.dataType,
		sizes:        img.sizes.Clone(),
		strides:      append([]int(nil), img.strides...),
		tensor:       img.tensor,
		tensorStride: img.tensorStride,
		segment:      img.segment,
		offset:       img.offset,
	}
	if out.segment != nil {
		out.segment.Retain()
	}
	return out
}

// IsForged reports whether the image is bound to memory.
func (img *Image) IsForged() bool {
	return img.segment != nil
}

// Dimensionality returns the number of spatial dimensions.
func (img *Image) Dimensionality() int {
	return len(img.sizes)
}

// Sizes returns a copy of the image sizes.
func (img *Image) Sizes() Sizes {
	return img.sizes.Clone()
}

// Size returns the extent of dimension d.
func (img *Image) Size(d int) int {
	return img.sizes[d]
}

// Strides returns a copy of the spatial strides, in samples.
func (img *Image) Strides() []int {
	return append([]int(nil), img.strides...)
}

// Stride returns the stride of dimension d, in samples.
func (img *Image) Stride(d int) int {
	return img.strides[d]
}

// TensorElements returns the number of samples per pixel.
func (img *Image) TensorElements() int {
	return img.tensor.Elements()
}

// TensorStride returns the distance between consecutive tensor elements, in samples.
func (img *Image) TensorStride() int {
	return img.tensorStride
}

// Tensor returns the tensor shape of the image.
func (img *Image) Tensor() Tensor {
	return img.tensor
}

// IsScalar reports whether the image has one sample per pixel.
func (img *Image) IsScalar() bool {
	return img.tensor.IsScalar()
}

// DataType returns the sample type of the image.
func (img *Image) DataType() DataType {
	return img.dataType
}

// NumberOfPixels returns the product of the sizes (0 for raw images).
func (img *Image) NumberOfPixels() int {
	if !img.IsForged() {
		return 0
	}
	return img.sizes.Product()
}

// NumberOfSamples returns the number of pixels times the number of tensor elements.
func (img *Image) NumberOfSamples() int {
	return img.NumberOfPixels() * img.TensorElements()
}

// Segment returns the shared data segment (nil for raw images).
func (img *Image) Segment() *DataSegment {
	return img.segment
}

// Offset returns the sample index of the origin inside the segment.
func (img *Image) Offset() int {
	return img.offset
}

// Data returns the bytes of the segment backing the image.
// WARNING: Direct access to underlying memory. Use with caution.
func (img *Image) Data() []byte {
	if img.segment == nil {
		return nil
	}
	return img.segment.Bytes()
}

// Origin returns a pointer to the sample at all-zero coordinates.
func (img *Image) Origin() unsafe.Pointer {
	data := img.Data()
	if len(data) == 0 {
		return nil
	}
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(data)), img.offset*img.dataType.Size())
}

// ShareCount returns the number of descriptors referencing the image's memory.
func (img *Image) ShareCount() int {
	if img.segment == nil {
		return 0
	}
	return img.segment.ShareCount()
}

// SharesData reports whether both images view the same data segment.
func (img *Image) SharesData(other *Image) bool {
	return img.segment != nil && img.segment == other.segment
}

// SameLayout reports whether both images view the same samples in the same
// order: same segment, origin, data type, sizes and strides. Strides of
// dimensions of size 1 are ignored.
func (img *Image) SameLayout(other *Image) bool {
	if !img.SharesData(other) || img.offset != other.offset || img.dataType != other.dataType ||
		!img.sizes.Equal(other.sizes) || img.TensorElements() != other.TensorElements() {
		return false
	}
	if img.TensorElements() > 1 && img.tensorStride != other.tensorStride {
		return false
	}
	for i, s := range img.strides {
		if img.sizes[i] > 1 && s != other.strides[i] {
			return false
		}
	}
	return true
}

// HasNormalStrides reports whether the strides equal those New would assign.
func (img *Image) HasNormalStrides() bool {
	if img.tensorStride != 1 && img.TensorElements() > 1 {
		return false
	}
	normal := img.sizes.NormalStrides(img.TensorElements())
	for i, s := range img.strides {
		if img.sizes[i] > 1 && s != normal[i] {
			return false
		}
	}
	return true
}

// IsSingletonExpanded reports whether any dimension larger than 1 has stride 0.
func (img *Image) IsSingletonExpanded() bool {
	for i, s := range img.strides {
		if s == 0 && img.sizes[i] > 1 {
			return true
		}
	}
	return false
}

// SampleIndex returns the index (in samples, relative to the segment start) of
// tensor element t of the pixel at coords. Coordinates are not bounds-checked.
func (img *Image) SampleIndex(coords []int, t int) int {
	idx := img.offset + t*img.tensorStride
	for i, c := range coords {
		idx += c * img.strides[i]
	}
	return idx
}

// String returns a short description of the image.
func (img *Image) String() string {
	if !img.IsForged() {
		return "raw image"
	}
	var sb strings.Builder
	if img.IsScalar() {
		sb.WriteString("scalar")
	} else {
		fmt.Fprintf(&sb, "%dx%d %s", img.tensor.Rows, img.tensor.Cols, img.tensor.Shape)
	}
	fmt.Fprintf(&sb, " %s image, sizes %v, strides %v", img.dataType, img.sizes, img.strides)
	if !img.IsScalar() {
		fmt.Fprintf(&sb, ", tensor stride %d", img.tensorStride)
	}
	return sb.String()
}

// CompareSizes returns ErrSizesDontMatch unless all images have equal sizes.
func CompareSizes(images ...*Image) error {
	for _, img := range images[1:] {
		if !img.sizes.Equal(images[0].sizes) {
			return fmt.Errorf("%v vs %v: %w", images[0].sizes, img.sizes, ErrSizesDontMatch)
		}
	}
	return nil
}
