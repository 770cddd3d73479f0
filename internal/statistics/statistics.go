// Package statistics computes image statistics with the framework engine.
//
// Every operation validates its arguments before any traversal starts; on
// error nothing has been computed. Results do not depend on the number of
// workers of the engine.
package statistics

import (
	"fmt"

	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
)

// Position flags of MaximumPixel and MinimumPixel.
const (
	First = "first"
	Last  = "last"
)

// Analyzer runs statistics on an engine.
type Analyzer struct {
	eng *framework.Engine
}

// New creates an Analyzer that runs on eng. A nil engine gets the default configuration.
func New(eng *framework.Engine) *Analyzer {
	if eng == nil {
		eng = framework.New(framework.DefaultConfig())
	}
	return &Analyzer{eng: eng}
}

// Engine returns the engine the analyzer runs on.
func (a *Analyzer) Engine() *framework.Engine { return a.eng }

type realSample interface {
	~uint8 | ~uint16 | ~uint32 | ~int8 | ~int16 | ~int32 | ~float32 | ~float64
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("statistics.%s: %w", op, err)
}

// checkScalarInput validates an input image (and an optional mask) for an
// operation that requires a scalar image.
func checkScalarInput(in, mask *image.Image) error {
	if err := image.CheckScalar(in); err != nil {
		return err
	}
	return checkMask(in, mask)
}

func checkMask(in, mask *image.Image) error {
	if mask == nil {
		return nil
	}
	return mask.CheckIsMask(in.Sizes(), true)
}

// floatPosition copies integer coordinates into dst.
func floatPosition(dst []float64, pos []int) {
	for i, p := range pos {
		dst[i] = float64(p)
	}
}
