package image

import "fmt"

// The transforms in this file change how the image descriptor views its
// memory; none of them copies or touches pixel data.

// IsSingletonExpansionPossible reports whether the image can be expanded to sizes.
func (img *Image) IsSingletonExpansionPossible(sizes Sizes) bool {
	if len(img.sizes) > len(sizes) {
		return false
	}
	for i, sz := range img.sizes {
		if sz != sizes[i] && sz != 1 {
			return false
		}
	}
	return true
}

// ExpandSingletonDimensions makes the image match sizes by adding trailing
// dimensions and setting the stride of singleton dimensions to 0.
func (img *Image) ExpandSingletonDimensions(sizes Sizes) error {
	if err := CheckForged(img); err != nil {
		return err
	}
	if !img.IsSingletonExpansionPossible(sizes) {
		return fmt.Errorf("cannot expand %v to %v: %w", img.sizes, sizes, ErrSizesDontMatch)
	}
	img.ExpandDimensionality(len(sizes))
	for i, sz := range sizes {
		if img.sizes[i] != sz {
			img.sizes[i] = sz
			img.strides[i] = 0
		}
	}
	return nil
}

// ExpandDimensionality appends singleton dimensions until the image has n dimensions.
func (img *Image) ExpandDimensionality(n int) {
	for len(img.sizes) < n {
		img.sizes = append(img.sizes, 1)
		img.strides = append(img.strides, 0)
	}
}

// AddSingleton inserts a singleton dimension at position dim.
func (img *Image) AddSingleton(dim int) error {
	if err := CheckForged(img); err != nil {
		return err
	}
	if dim < 0 || dim > len(img.sizes) {
		return fmt.Errorf("dimension %d: %w", dim, ErrIndexOutOfRange)
	}
	img.sizes = append(img.sizes[:dim], append(Sizes{1}, img.sizes[dim:]...)...)
	img.strides = append(img.strides[:dim], append([]int{0}, img.strides[dim:]...)...)
	return nil
}

// TensorToSpatial turns the tensor into a new last spatial dimension, leaving a scalar image.
func (img *Image) TensorToSpatial() error {
	if err := CheckForged(img); err != nil {
		return err
	}
	n := img.TensorElements()
	img.sizes = append(img.sizes, n)
	img.strides = append(img.strides, img.tensorStride)
	img.tensor = VectorTensor(1)
	img.tensorStride = 1
	return nil
}

// SpatialToTensor turns spatial dimension dim into a column-vector tensor.
// The image must be scalar.
func (img *Image) SpatialToTensor(dim int) error {
	if err := CheckScalar(img); err != nil {
		return err
	}
	if dim < 0 || dim >= len(img.sizes) {
		return fmt.Errorf("dimension %d: %w", dim, ErrIndexOutOfRange)
	}
	img.tensor = VectorTensor(img.sizes[dim])
	img.tensorStride = img.strides[dim]
	img.sizes = append(img.sizes[:dim], img.sizes[dim+1:]...)
	img.strides = append(img.strides[:dim], img.strides[dim+1:]...)
	return nil
}

// ReshapeTensor changes the tensor to a rows×cols matrix (or vector) with
// the same number of elements.
func (img *Image) ReshapeTensor(rows, cols int, shape TensorShape) error {
	if err := CheckForged(img); err != nil {
		return err
	}
	if rows*cols != img.TensorElements() {
		return fmt.Errorf("%dx%d tensor for %d elements: %w", rows, cols, img.TensorElements(), ErrTensorMismatch)
	}
	img.tensor = Tensor{Rows: rows, Cols: cols, Shape: shape}
	return nil
}

// SplitComplex reinterprets a complex image as a real image with a new last
// dimension of size 2 holding the real and imaginary components.
func (img *Image) SplitComplex() error {
	if err := CheckForged(img); err != nil {
		return err
	}
	if !img.dataType.IsComplex() {
		return fmt.Errorf("split complex on %s image: %w", img.dataType, ErrDataTypeNotSupported)
	}
	img.dataType = img.dataType.Real()
	for i := range img.strides {
		img.strides[i] *= 2
	}
	img.tensorStride *= 2
	img.offset *= 2
	img.sizes = append(img.sizes, 2)
	img.strides = append(img.strides, 1)
	return nil
}

// Mirror flips the image along every dimension for which process is true.
func (img *Image) Mirror(process []bool) error {
	if err := CheckForged(img); err != nil {
		return err
	}
	for i, p := range process {
		if i >= len(img.sizes) {
			break
		}
		if p && img.sizes[i] > 1 {
			img.offset += (img.sizes[i] - 1) * img.strides[i]
			img.strides[i] = -img.strides[i]
		}
	}
	return nil
}
