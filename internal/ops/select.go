// Package ops implements pixel-wise operations built on the Scan engine.
package ops

import (
	"fmt"

	"github.com/born-ml/dip/internal/framework"
	"github.com/born-ml/dip/internal/image"
)

type selectFilter[T image.Sample] struct {
	value T
}

func (f *selectFilter[T]) NumberOfOperations(_, _, nTensorElements int) int {
	return 1 + nTensorElements
}

func (f *selectFilter[T]) SetNumberOfThreads(int) {}

func (f *selectFilter[T]) Filter(params framework.ScanLineFilterParams) error {
	inBuf, maskBuf, outBuf := params.InBuffer[0], params.InBuffer[1], params.OutBuffer[0]
	in := framework.Samples[T](inBuf)
	mask := framework.Samples[image.Bin](maskBuf)
	out := framework.Samples[T](outBuf)

	ii, mi, oi := inBuf.Offset, maskBuf.Offset, outBuf.Offset
	for range params.BufferLength {
		keep := mask[mi] != 0
		for t := 0; t < outBuf.TensorLength; t++ {
			if keep {
				out[oi+t*outBuf.TensorStride] = in[ii+t*inBuf.TensorStride]
			} else {
				out[oi+t*outBuf.TensorStride] = f.value
			}
		}
		ii += inBuf.Stride
		mi += maskBuf.Stride
		oi += outBuf.Stride
	}
	return nil
}

func newSelect[T image.Sample](value complex128) func() framework.ScanLineFilter {
	return func() framework.ScanLineFilter {
		return &selectFilter[T]{value: image.Cast[T](value)}
	}
}

// Select writes to out the samples of in where mask is set and value
// elsewhere. out has the data type and tensor of in; mask must be binary and
// scalar, and may be singleton-expanded to the sizes of in.
//
// out may be in.
func Select(eng *framework.Engine, in *image.Image, value complex128, mask, out *image.Image) error {
	if err := image.CheckForged(in, mask); err != nil {
		return fmt.Errorf("ops.Select: %w", err)
	}
	if err := mask.CheckIsMask(in.Sizes(), true); err != nil {
		return fmt.Errorf("ops.Select: %w", err)
	}
	dt := in.DataType()
	filter, err := framework.Dispatch("ops.Select", dt, image.AllSet, framework.Instantiations[framework.ScanLineFilter]{
		Binary:     newSelect[image.Bin](value),
		Uint8:      newSelect[uint8](value),
		Uint16:     newSelect[uint16](value),
		Uint32:     newSelect[uint32](value),
		Sint8:      newSelect[int8](value),
		Sint16:     newSelect[int16](value),
		Sint32:     newSelect[int32](value),
		Float32:    newSelect[float32](value),
		Float64:    newSelect[float64](value),
		Complex64:  newSelect[complex64](value),
		Complex128: newSelect[complex128](value),
	})
	if err != nil {
		return err
	}
	tensor := in.Tensor()
	nT := in.TensorElements()
	err = eng.Scan(
		[]*image.Image{in, mask}, []*image.Image{out},
		[]image.DataType{dt, image.Binary}, []image.DataType{dt}, []image.DataType{dt},
		[]int{nT}, filter, 0,
	)
	if err != nil {
		return fmt.Errorf("ops.Select: %w", err)
	}
	return out.ReshapeTensor(tensor.Rows, tensor.Cols, tensor.Shape)
}
