package accumulators

import "math"

// StatisticsAccumulator computes mean, variance, skewness and excess kurtosis
// with the single-pass updates of Pébay (2008), which avoid the
// cancellation of sum-of-powers formulas. The zero value is empty.
type StatisticsAccumulator struct {
	n  float64
	m1 float64 // mean
	m2 float64 // sum of squared deviations
	m3 float64
	m4 float64
}

// Push adds one value.
func (a *StatisticsAccumulator) Push(x float64) {
	n1 := a.n
	a.n++
	n := a.n
	delta := x - a.m1
	dn := delta / n
	dn2 := dn * dn
	term1 := delta * dn * n1
	a.m1 += dn
	a.m4 += term1*dn2*(n*n-3*n+3) + 6*dn2*a.m2 - 4*dn*a.m3
	a.m3 += term1*dn*(n-2) - 3*dn*a.m2
	a.m2 += term1
}

// Merge adds the values seen by b.
func (a *StatisticsAccumulator) Merge(b StatisticsAccumulator) {
	if b.n == 0 {
		return
	}
	if a.n == 0 {
		*a = b
		return
	}
	na, nb := a.n, b.n
	n := na + nb
	d := b.m1 - a.m1
	d2 := d * d
	d3 := d2 * d
	d4 := d2 * d2

	m4 := a.m4 + b.m4 +
		d4*na*nb*(na*na-na*nb+nb*nb)/(n*n*n) +
		6*d2*(na*na*b.m2+nb*nb*a.m2)/(n*n) +
		4*d*(na*b.m3-nb*a.m3)/n
	m3 := a.m3 + b.m3 +
		d3*na*nb*(na-nb)/(n*n) +
		3*d*(na*b.m2-nb*a.m2)/n
	m2 := a.m2 + b.m2 + d2*na*nb/n

	a.n = n
	a.m1 += d * nb / n
	a.m2, a.m3, a.m4 = m2, m3, m4
}

// Number returns the number of values pushed.
func (a StatisticsAccumulator) Number() uint64 { return uint64(a.n) }

// Mean returns the mean, 0 for an empty accumulator.
func (a StatisticsAccumulator) Mean() float64 { return a.m1 }

// Variance returns the unbiased (n-1) sample variance.
func (a StatisticsAccumulator) Variance() float64 {
	if a.n < 2 {
		return 0
	}
	return a.m2 / (a.n - 1)
}

// StandardDeviation returns the square root of Variance.
func (a StatisticsAccumulator) StandardDeviation() float64 {
	return math.Sqrt(a.Variance())
}

// Skewness returns the sample skewness, 0 when all values are equal.
func (a StatisticsAccumulator) Skewness() float64 {
	if a.m2 == 0 {
		return 0
	}
	return math.Sqrt(a.n) * a.m3 / math.Pow(a.m2, 1.5)
}

// ExcessKurtosis returns the sample kurtosis minus 3, 0 when all values are equal.
func (a StatisticsAccumulator) ExcessKurtosis() float64 {
	if a.m2 == 0 {
		return 0
	}
	return a.n*a.m4/(a.m2*a.m2) - 3
}
