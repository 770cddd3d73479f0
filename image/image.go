// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package image

import (
	"github.com/born-ml/dip/internal/image"
)

// Type aliases for public API

// Image is a strided N-dimensional array of typed samples.
type Image = image.Image

// Sizes holds the extent of each image dimension.
type Sizes = image.Sizes

// DataType identifies the type of the samples of an image.
type DataType = image.DataType

// DataTypeSet is a set of data types.
type DataTypeSet = image.DataTypeSet

// Bin is the Go type of a binary sample.
type Bin = image.Bin

// Sample is a constraint for the Go types of image samples.
type Sample = image.Sample

// Tensor is the per-pixel vector/matrix shape of an image.
type Tensor = image.Tensor

// TensorShape is the layout of a tensor.
type TensorShape = image.TensorShape

// DataSegment is the reference-counted memory behind images.
type DataSegment = image.DataSegment

// BufferInfo describes a foreign buffer.
type BufferInfo = image.BufferInfo

// ImportOptions modify how FromBuffer interprets a foreign buffer.
type ImportOptions = image.ImportOptions

// Data type constants.
const (
	Binary     DataType = image.Binary
	Uint8      DataType = image.Uint8
	Uint16     DataType = image.Uint16
	Uint32     DataType = image.Uint32
	Sint8      DataType = image.Sint8
	Sint16     DataType = image.Sint16
	Sint32     DataType = image.Sint32
	Float32    DataType = image.Float32
	Float64    DataType = image.Float64
	Complex64  DataType = image.Complex64
	Complex128 DataType = image.Complex128
)

// Data type categories.
const (
	BinarySet     DataTypeSet = image.BinarySet
	UnsignedSet   DataTypeSet = image.UnsignedSet
	SignedSet     DataTypeSet = image.SignedSet
	IntegerSet    DataTypeSet = image.IntegerSet
	FloatSet      DataTypeSet = image.FloatSet
	ComplexSet    DataTypeSet = image.ComplexSet
	RealSet       DataTypeSet = image.RealSet
	FlexSet       DataTypeSet = image.FlexSet
	NonComplexSet DataTypeSet = image.NonComplexSet
	NumericSet    DataTypeSet = image.NumericSet
	AllSet        DataTypeSet = image.AllSet
)

// Tensor shapes.
const (
	ColumnVector      TensorShape = image.ColumnVector
	RowVector         TensorShape = image.RowVector
	ColumnMajorMatrix TensorShape = image.ColumnMajorMatrix
	RowMajorMatrix    TensorShape = image.RowMajorMatrix
)

// Errors returned by image operations; match them with errors.Is.
var (
	ErrNotForged                  = image.ErrNotForged
	ErrNotScalar                  = image.ErrNotScalar
	ErrSizesDontMatch             = image.ErrSizesDontMatch
	ErrTensorMismatch             = image.ErrTensorMismatch
	ErrDataTypeNotSupported       = image.ErrDataTypeNotSupported
	ErrMaskNotBinary              = image.ErrMaskNotBinary
	ErrDimensionalityNotSupported = image.ErrDimensionalityNotSupported
	ErrInvalidSizes               = image.ErrInvalidSizes
	ErrIndexOutOfRange            = image.ErrIndexOutOfRange
	ErrInvalidFlag                = image.ErrInvalidFlag
	ErrStrideNotPixelAligned      = image.ErrStrideNotPixelAligned
	ErrUnknownFormat              = image.ErrUnknownFormat
	ErrNilBuffer                  = image.ErrNilBuffer
)

// New creates a forged image with normal strides and zeroed samples.
//
// Example:
//
//	img, err := image.New(image.Sizes{640, 480}, 3, image.Uint8)
func New(sizes Sizes, tensorElements int, dt DataType) (*Image, error) {
	return image.New(sizes, tensorElements, dt)
}

// FromSlice creates a scalar image from a Go slice in linear order.
func FromSlice[T Sample](data []T, sizes ...int) (*Image, error) {
	return image.FromSlice(data, sizes...)
}

// FromSliceTensor creates an image with tensorElements samples per pixel
// from a Go slice in linear order.
func FromSliceTensor[T Sample](data []T, tensorElements int, sizes ...int) (*Image, error) {
	return image.FromSliceTensor(data, tensorElements, sizes...)
}

// FromBuffer creates an image viewing a foreign buffer.
func FromBuffer(info BufferInfo, opts ImportOptions) (*Image, error) {
	return image.FromBuffer(info, opts)
}

// ParseDataType returns the data type with the given name.
func ParseDataType(name string) (DataType, bool) {
	return image.ParseDataType(name)
}

// CompareSizes returns ErrSizesDontMatch unless all images have equal sizes.
func CompareSizes(images ...*Image) error {
	return image.CompareSizes(images...)
}
