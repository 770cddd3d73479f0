package image

import (
	"errors"
	"fmt"
)

// Usage errors. Every message is prefixed with "image: " so that wrapped
// errors remain easy to grep; callers match them with errors.Is.
var (
	ErrNotForged                  = errors.New("image: image is not forged")
	ErrAlreadyForged              = errors.New("image: image is already forged")
	ErrNotScalar                  = errors.New("image: image is not scalar")
	ErrSizesDontMatch             = errors.New("image: sizes don't match")
	ErrTensorMismatch             = errors.New("image: number of tensor elements doesn't match")
	ErrDataTypeNotSupported       = errors.New("image: data type not supported")
	ErrMaskNotBinary              = errors.New("image: mask image is not binary")
	ErrDimensionalityNotSupported = errors.New("image: dimensionality not supported")
	ErrInvalidSizes               = errors.New("image: invalid sizes")
	ErrIndexOutOfRange            = errors.New("image: index out of range")
	ErrInvalidFlag                = errors.New("image: invalid flag")
)

// Configuration errors raised at the foreign-buffer boundary.
var (
	ErrStrideNotPixelAligned = errors.New("image: strides are not in whole pixels")
	ErrUnknownFormat         = errors.New("image: buffer format is not numeric")
	ErrNilBuffer             = errors.New("image: buffer pointer is nil")
)

// CheckForged returns ErrNotForged for raw images (and nil pointers).
func CheckForged(images ...*Image) error {
	for _, img := range images {
		if img == nil || !img.IsForged() {
			return ErrNotForged
		}
	}
	return nil
}

// CheckScalar returns an error unless img is forged and has one tensor element.
func CheckScalar(img *Image) error {
	if err := CheckForged(img); err != nil {
		return err
	}
	if !img.IsScalar() {
		return ErrNotScalar
	}
	return nil
}

// CheckIsMask verifies that img can serve as a mask for an image of the given sizes:
// forged, scalar, binary, and of matching sizes (or singleton-expandable to
// them when allowExpansion is set).
func (img *Image) CheckIsMask(sizes Sizes, allowExpansion bool) error {
	if err := CheckScalar(img); err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	if img.DataType() != Binary {
		return ErrMaskNotBinary
	}
	if allowExpansion {
		if !img.IsSingletonExpansionPossible(sizes) {
			return fmt.Errorf("mask %v vs image %v: %w", img.sizes, sizes, ErrSizesDontMatch)
		}
		return nil
	}
	if !Sizes(img.sizes).Equal(sizes) {
		return fmt.Errorf("mask %v vs image %v: %w", img.sizes, sizes, ErrSizesDontMatch)
	}
	return nil
}
