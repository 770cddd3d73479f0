package accumulators

// MomentAccumulator accumulates the weighted zeroth, first and second order
// moments of a set of positions.
type MomentAccumulator struct {
	nD int
	m0 float64
	m1 []float64 // sum(w*x_i)
	m2 []float64 // sum(w*x_i*x_j) for i <= j, row order
}

// NewMomentAccumulator returns an empty accumulator for nD-dimensional positions.
func NewMomentAccumulator(nD int) MomentAccumulator {
	return MomentAccumulator{
		nD: nD,
		m1: make([]float64, nD),
		m2: make([]float64, nD*(nD+1)/2),
	}
}

// Dimensionality returns the number of coordinates per position.
func (a MomentAccumulator) Dimensionality() int { return a.nD }

// Push adds position pos with weight w. len(pos) must be the dimensionality.
func (a *MomentAccumulator) Push(pos []float64, w float64) {
	a.m0 += w
	k := 0
	for i := 0; i < a.nD; i++ {
		wx := w * pos[i]
		a.m1[i] += wx
		for j := i; j < a.nD; j++ {
			a.m2[k] += wx * pos[j]
			k++
		}
	}
}

// Merge adds the positions seen by b, which must have the same dimensionality.
func (a *MomentAccumulator) Merge(b MomentAccumulator) {
	a.m0 += b.m0
	for i, v := range b.m1 {
		a.m1[i] += v
	}
	for i, v := range b.m2 {
		a.m2[i] += v
	}
}

// Clone returns an accumulator that does not share memory with a.
func (a MomentAccumulator) Clone() MomentAccumulator {
	return MomentAccumulator{
		nD: a.nD,
		m0: a.m0,
		m1: append([]float64(nil), a.m1...),
		m2: append([]float64(nil), a.m2...),
	}
}

// Sum returns the total weight (zeroth order moment).
func (a MomentAccumulator) Sum() float64 { return a.m0 }

// FirstOrder returns the weighted mean position, all zeros when the total
// weight is zero.
func (a MomentAccumulator) FirstOrder() []float64 {
	out := make([]float64, a.nD)
	if a.m0 == 0 {
		return out
	}
	for i, v := range a.m1 {
		out[i] = v / a.m0
	}
	return out
}

// SecondOrder returns the central second order moments
// sum(w*(x_i-c_i)*(x_j-c_j))/sum(w) for i <= j, packed in row order:
// (0,0), (0,1), ..., (0,nD-1), (1,1), ... All zeros when the total weight is zero.
func (a MomentAccumulator) SecondOrder() []float64 {
	out := make([]float64, len(a.m2))
	if a.m0 == 0 {
		return out
	}
	c := a.FirstOrder()
	k := 0
	for i := 0; i < a.nD; i++ {
		for j := i; j < a.nD; j++ {
			out[k] = a.m2[k]/a.m0 - c[i]*c[j]
			k++
		}
	}
	return out
}

// CenterOfMassAccumulator accumulates weighted position sums and the total weight.
type CenterOfMassAccumulator struct {
	sums []float64
	mass float64
}

// NewCenterOfMassAccumulator returns an empty accumulator for nD-dimensional positions.
func NewCenterOfMassAccumulator(nD int) CenterOfMassAccumulator {
	return CenterOfMassAccumulator{sums: make([]float64, nD)}
}

// Push adds position pos with weight w.
func (a *CenterOfMassAccumulator) Push(pos []float64, w float64) {
	for i := range a.sums {
		a.sums[i] += w * pos[i]
	}
	a.mass += w
}

// Merge adds the positions seen by b.
func (a *CenterOfMassAccumulator) Merge(b CenterOfMassAccumulator) {
	for i, v := range b.sums {
		a.sums[i] += v
	}
	a.mass += b.mass
}

// Mass returns the total weight.
func (a CenterOfMassAccumulator) Mass() float64 { return a.mass }

// Result returns the center of mass, all zeros when the total weight is exactly zero.
func (a CenterOfMassAccumulator) Result() []float64 {
	out := make([]float64, len(a.sums))
	if a.mass == 0 {
		return out
	}
	for i, v := range a.sums {
		out[i] = v / a.mass
	}
	return out
}
