// Package accumulators provides associative, commutative running statistics.
//
// Every accumulator supports Push (add one observation) and Merge (combine
// with an accumulator over a disjoint set of observations). Merging
// accumulators in any grouping gives the same result as pushing all
// observations into one, up to floating-point rounding.
package accumulators

import "math"

// MinMaxAccumulator tracks the minimum and maximum of a set of values.
// The zero value is empty.
type MinMaxAccumulator struct {
	n   uint64
	min float64
	max float64
}

// Push adds one value.
func (a *MinMaxAccumulator) Push(x float64) {
	if a.n == 0 {
		a.min, a.max = x, x
	} else if x < a.min {
		a.min = x
	} else if x > a.max {
		a.max = x
	}
	a.n++
}

// PushPair adds two values with three comparisons instead of four.
func (a *MinMaxAccumulator) PushPair(x, y float64) {
	if x > y {
		x, y = y, x
	}
	if a.n == 0 {
		a.min, a.max = x, y
	} else {
		a.min = min(a.min, x)
		a.max = max(a.max, y)
	}
	a.n += 2
}

// Merge adds the values seen by b.
func (a *MinMaxAccumulator) Merge(b MinMaxAccumulator) {
	if b.n == 0 {
		return
	}
	if a.n == 0 {
		*a = b
		return
	}
	a.min = min(a.min, b.min)
	a.max = max(a.max, b.max)
	a.n += b.n
}

// Number returns the number of values pushed.
func (a MinMaxAccumulator) Number() uint64 { return a.n }

// Minimum returns the smallest value, or +Inf if no value was pushed.
func (a MinMaxAccumulator) Minimum() float64 {
	if a.n == 0 {
		return math.Inf(1)
	}
	return a.min
}

// Maximum returns the largest value, or -Inf if no value was pushed.
func (a MinMaxAccumulator) Maximum() float64 {
	if a.n == 0 {
		return math.Inf(-1)
	}
	return a.max
}
