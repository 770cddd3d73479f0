package main

import (
	"fmt"
	"math/rand"

	"github.com/samber/lo"

	"github.com/born-ml/dip/framework"
	"github.com/born-ml/dip/image"
	"github.com/born-ml/dip/internal/parallel"
)

// Pixel patterns.
const (
	patternRamp    = "ramp"
	patternRandom  = "random"
	patternChecker = "checker"
)

// checkerSize is the edge length of a checkerboard square.
const checkerSize = 8

// synthesize creates the image described by o, with values in [0, 255]
// converted to the requested data type.
func synthesize(eng *framework.Engine, o *imageOptions) (*image.Image, error) {
	dt, err := o.parseDataType()
	if err != nil {
		return nil, err
	}
	if len(o.sizes) == 0 || lo.SomeBy(o.sizes, func(s int) bool { return s < 1 }) {
		return nil, fmt.Errorf("sizes %v: %w", o.sizes, image.ErrInvalidSizes)
	}
	sizes := image.Sizes(o.sizes)
	n := sizes.Product()

	values := make([]float64, n)
	cfg := eng.Config().Parallel
	switch o.pattern {
	case patternRamp:
		parallel.For(n, func(i int) { values[i] = float64(i % 256) }, cfg)
	case patternRandom:
		rng := rand.New(rand.NewSource(o.seed))
		for i := range values {
			values[i] = float64(rng.Intn(256))
		}
	case patternChecker:
		parallel.For(n, func(i int) {
			squares, rest := 0, i
			for _, sz := range sizes {
				squares += (rest % sz) / checkerSize
				rest /= sz
			}
			values[i] = float64(squares % 2 * 255)
		}, cfg)
	default:
		return nil, fmt.Errorf("pattern %q: %w", o.pattern, image.ErrInvalidFlag)
	}

	src, err := image.FromSlice(values, o.sizes...)
	if err != nil {
		return nil, err
	}
	if dt == image.Float64 {
		return src, nil
	}
	out := &image.Image{}
	if err := eng.Convert(src, out, dt); err != nil {
		return nil, err
	}
	return out, nil
}

// threshold returns a binary image selecting the pixels of in above t.
func threshold(eng *framework.Engine, in *image.Image, t float64) (*image.Image, error) {
	mask := &image.Image{}
	above := framework.ScanFunc{Operations: 1, Func: func(params framework.ScanLineFilterParams) error {
		ib, ob := params.InBuffer[0], params.OutBuffer[0]
		src := framework.Samples[float64](ib)
		dst := framework.Samples[image.Bin](ob)
		for i := range params.BufferLength {
			dst[ob.Offset+i*ob.Stride] = lo.Ternary[image.Bin](src[ib.Offset+i*ib.Stride] > t, 1, 0)
		}
		return nil
	}}
	err := eng.Scan(
		[]*image.Image{in}, []*image.Image{mask},
		[]image.DataType{image.Float64}, []image.DataType{image.Binary}, []image.DataType{image.Binary},
		[]int{1}, above, 0,
	)
	if err != nil {
		return nil, err
	}
	return mask, nil
}

// inputs synthesises the image and, when requested, its mask.
func inputs(eng *framework.Engine, o *imageOptions) (in, mask *image.Image, err error) {
	if in, err = synthesize(eng, o); err != nil {
		return nil, nil, err
	}
	if !o.useMask {
		return in, nil, nil
	}
	if mask, err = threshold(eng, in, o.maskThreshold); err != nil {
		return nil, nil, err
	}
	return in, mask, nil
}
