package framework

import (
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/dip/internal/image"
)

// BoundaryCondition determines the values of samples just outside an image line.
type BoundaryCondition int

// Boundary conditions.
const (
	SymmetricMirror       BoundaryCondition = iota // mirror, repeating the edge sample
	AsymmetricMirror                               // mirror with the sign inverted
	Periodic                                       // wrap around
	AsymmetricPeriodic                             // wrap around with the sign inverted
	AddZeros                                       // extend with zeros
	AddMaxValue                                    // extend with the largest value of the type
	AddMinValue                                    // extend with the smallest value of the type
	ZeroOrderExtrapolate                           // repeat the edge sample
	FirstOrderExtrapolate                          // extend linearly from the edge samples
)

var boundaryNames = []string{
	"mirror", "asym mirror", "periodic", "asym periodic", "add zeros",
	"add max", "add min", "zero order", "first order",
}

// String returns the name of the boundary condition.
func (bc BoundaryCondition) String() string {
	if bc < 0 || int(bc) >= len(boundaryNames) {
		return fmt.Sprintf("BoundaryCondition(%d)", int(bc))
	}
	return boundaryNames[bc]
}

// ParseBoundaryCondition maps a name as returned by String to a boundary condition.
// The empty string selects SymmetricMirror.
func ParseBoundaryCondition(name string) (BoundaryCondition, error) {
	if name == "" {
		return SymmetricMirror, nil
	}
	for i, n := range boundaryNames {
		if strings.EqualFold(n, name) {
			return BoundaryCondition(i), nil
		}
	}
	return 0, fmt.Errorf("boundary condition %q: %w", name, image.ErrInvalidFlag)
}

// extremes returns the largest and smallest finite values of dt.
func extremes(dt image.DataType) (lo, hi float64) {
	switch dt.Real() {
	case image.Float32:
		return -math.MaxFloat32, math.MaxFloat32
	case image.Float64:
		return -math.MaxFloat64, math.MaxFloat64
	default:
		return image.Limits(dt)
	}
}

// ExtendLine fills the border samples of a line of length samples (sample 0
// at index offset, unit stride) in a buffer of type dt.
func ExtendLine(data []byte, dt image.DataType, offset, length, border int, bc BoundaryCondition) error {
	if border <= 0 {
		return nil
	}
	if length < 1 {
		return fmt.Errorf("extend line of length %d: %w", length, image.ErrInvalidSizes)
	}
	load := func(i int) complex128 { return image.LoadSample(dt, data, offset+i) }
	store := func(i int, v complex128) { image.StoreSample(dt, data, offset+i, v) }
	lo, hi := extremes(dt)

	// mirrorIndex maps any index to [0, length) by reflecting at the edges
	// with the edge sample repeated.
	mirrorIndex := func(i int) int {
		period := 2 * length
		j := ((i % period) + period) % period
		if j >= length {
			j = period - 1 - j
		}
		return j
	}
	periodicIndex := func(i int) int {
		return ((i % length) + length) % length
	}

	fill := func(i int) error {
		var v complex128
		edge, inner, dist := 0, min(1, length-1), -i
		if i >= length {
			edge, inner, dist = length-1, max(length-2, 0), i-length+1
		}
		switch bc {
		case SymmetricMirror:
			v = load(mirrorIndex(i))
		case AsymmetricMirror:
			v = -load(mirrorIndex(i))
		case Periodic:
			v = load(periodicIndex(i))
		case AsymmetricPeriodic:
			v = -load(periodicIndex(i))
		case AddZeros:
			v = 0
		case AddMaxValue:
			v = complex(hi, 0)
		case AddMinValue:
			v = complex(lo, 0)
		case ZeroOrderExtrapolate:
			v = load(edge)
		case FirstOrderExtrapolate:
			e := load(edge)
			v = e + complex(float64(dist), 0)*(e-load(inner))
		default:
			return fmt.Errorf("boundary condition %d: %w", int(bc), image.ErrInvalidFlag)
		}
		store(i, v)
		return nil
	}

	// Both sides read only from [0, length), so the order of the writes is irrelevant.
	for k := 1; k <= border; k++ {
		if err := fill(-k); err != nil {
			return err
		}
		if err := fill(length - 1 + k); err != nil {
			return err
		}
	}
	return nil
}
