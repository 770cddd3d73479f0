package accumulators

import "math"

// CovarianceAccumulator computes the joint statistics of pairs of values.
// The zero value is empty.
type CovarianceAccumulator struct {
	n   float64
	mx  float64
	my  float64
	m2x float64 // sum of squared deviations of x
	m2y float64
	c   float64 // co-moment
}

// Push adds one pair.
func (a *CovarianceAccumulator) Push(x, y float64) {
	a.n++
	dx := x - a.mx
	dy := y - a.my
	a.mx += dx / a.n
	a.my += dy / a.n
	a.m2x += dx * (x - a.mx)
	a.m2y += dy * (y - a.my)
	a.c += dx * (y - a.my)
}

// Merge adds the pairs seen by b.
func (a *CovarianceAccumulator) Merge(b CovarianceAccumulator) {
	if b.n == 0 {
		return
	}
	if a.n == 0 {
		*a = b
		return
	}
	na, nb := a.n, b.n
	n := na + nb
	dx := b.mx - a.mx
	dy := b.my - a.my
	f := na * nb / n

	a.n = n
	a.mx += dx * nb / n
	a.my += dy * nb / n
	a.m2x += b.m2x + dx*dx*f
	a.m2y += b.m2y + dy*dy*f
	a.c += b.c + dx*dy*f
}

// Number returns the number of pairs pushed.
func (a CovarianceAccumulator) Number() uint64 { return uint64(a.n) }

// MeanX returns the mean of the first values.
func (a CovarianceAccumulator) MeanX() float64 { return a.mx }

// MeanY returns the mean of the second values.
func (a CovarianceAccumulator) MeanY() float64 { return a.my }

// VarianceX returns the unbiased variance of the first values.
func (a CovarianceAccumulator) VarianceX() float64 {
	if a.n < 2 {
		return 0
	}
	return a.m2x / (a.n - 1)
}

// VarianceY returns the unbiased variance of the second values.
func (a CovarianceAccumulator) VarianceY() float64 {
	if a.n < 2 {
		return 0
	}
	return a.m2y / (a.n - 1)
}

// StandardDeviationX returns the square root of VarianceX.
func (a CovarianceAccumulator) StandardDeviationX() float64 { return math.Sqrt(a.VarianceX()) }

// StandardDeviationY returns the square root of VarianceY.
func (a CovarianceAccumulator) StandardDeviationY() float64 { return math.Sqrt(a.VarianceY()) }

// Covariance returns the unbiased (n-1) covariance.
func (a CovarianceAccumulator) Covariance() float64 {
	if a.n < 2 {
		return 0
	}
	return a.c / (a.n - 1)
}

// Correlation returns Pearson's correlation coefficient, 0 when either
// variable is constant.
func (a CovarianceAccumulator) Correlation() float64 {
	d := math.Sqrt(a.m2x * a.m2y)
	if d == 0 {
		return 0
	}
	return a.c / d
}

// Slope returns the slope of the least-squares line fitting y as a function
// of x, 0 when x is constant.
func (a CovarianceAccumulator) Slope() float64 {
	if a.m2x == 0 {
		return 0
	}
	return a.c / a.m2x
}
