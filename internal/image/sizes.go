package image

import "fmt"

// Sizes holds the extent of each image dimension. Dimension 0 is the fastest
// varying one in normal stride order.
type Sizes []int

// Product returns the number of pixels described by the sizes.
// A 0-D image has one pixel.
func (s Sizes) Product() int {
	n := 1
	for _, sz := range s {
		n *= sz
	}
	return n
}

// Validate checks that all extents are non-negative.
func (s Sizes) Validate() error {
	for i, sz := range s {
		if sz < 0 {
			return fmt.Errorf("dimension %d has extent %d: %w", i, sz, ErrInvalidSizes)
		}
	}
	return nil
}

// Equal checks if two size arrays are equal.
func (s Sizes) Equal(other Sizes) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sizes.
func (s Sizes) Clone() Sizes {
	clone := make(Sizes, len(s))
	copy(clone, s)
	return clone
}

// NormalStrides computes the strides of a contiguous image with the tensor
// elements interleaved: the tensor stride is 1 and dimension 0 has stride
// tensorElements.
func (s Sizes) NormalStrides(tensorElements int) []int {
	strides := make([]int, len(s))
	stride := tensorElements
	for i, sz := range s {
		strides[i] = stride
		stride *= sz
	}
	return strides
}

// SingletonExpandedSizes returns the sizes that a and b both expand to.
//
// Rules (dimensions are aligned from the left, dimension 0 first):
//  1. A missing trailing dimension counts as extent 1.
//  2. Two extents are compatible if they are equal or one of them is 1.
//
// Examples:
//
//	{3, 1} , {3, 5}  → {3, 5}
//	{4}    , {4, 2}  → {4, 2}
//	{3, 4} , {3, 5}  → error
func SingletonExpandedSizes(a, b Sizes) (Sizes, error) {
	n := max(len(a), len(b))
	out := make(Sizes, n)
	for i := 0; i < n; i++ {
		ai, bi := 1, 1
		if i < len(a) {
			ai = a[i]
		}
		if i < len(b) {
			bi = b[i]
		}
		switch {
		case ai == bi:
			out[i] = ai
		case ai == 1:
			out[i] = bi
		case bi == 1:
			out[i] = ai
		default:
			return nil, fmt.Errorf("%v vs %v (dimension %d: %d vs %d): %w", a, b, i, ai, bi, ErrSizesDontMatch)
		}
	}
	return out, nil
}
