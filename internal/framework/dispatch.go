package framework

import (
	"errors"
	"fmt"

	"github.com/born-ml/dip/internal/image"
)

// Configuration errors.
var (
	// ErrNoKernel means a kernel manifest allows a data type but provides no
	// instantiation for it. It indicates a programming error in the manifest.
	ErrNoKernel = errors.New("framework: no kernel instantiated for data type")

	// ErrArgumentCount means parallel argument lists (images, buffer types,
	// tensor element counts) have different lengths.
	ErrArgumentCount = errors.New("framework: argument lists have different lengths")
)

// KernelError wraps an error returned by a kernel while the engine was
// traversing an image.
type KernelError struct {
	Op     string
	Thread int
	Err    error
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("framework.%s: kernel failed in thread %d: %v", e.Op, e.Thread, e.Err)
}

func (e *KernelError) Unwrap() error { return e.Err }

// Instantiations lists the kernel constructor for every data type. A nil
// field means the kernel has no instantiation for that type.
//
// Example:
//
//	inst := framework.Instantiations[framework.ScanLineFilter]{
//		Float32: func() framework.ScanLineFilter { return newSum[float32]() },
//		Float64: func() framework.ScanLineFilter { return newSum[float64]() },
//	}
type Instantiations[R any] struct {
	Binary     func() R
	Uint8      func() R
	Uint16     func() R
	Uint32     func() R
	Sint8      func() R
	Sint16     func() R
	Sint32     func() R
	Float32    func() R
	Float64    func() R
	Complex64  func() R
	Complex128 func() R
}

func (inst *Instantiations[R]) constructor(dt image.DataType) func() R {
	switch dt {
	case image.Binary:
		return inst.Binary
	case image.Uint8:
		return inst.Uint8
	case image.Uint16:
		return inst.Uint16
	case image.Uint32:
		return inst.Uint32
	case image.Sint8:
		return inst.Sint8
	case image.Sint16:
		return inst.Sint16
	case image.Sint32:
		return inst.Sint32
	case image.Float32:
		return inst.Float32
	case image.Float64:
		return inst.Float64
	case image.Complex64:
		return inst.Complex64
	case image.Complex128:
		return inst.Complex128
	default:
		return nil
	}
}

// Dispatch selects the kernel instantiation for dt.
//
// A data type outside allowed is a usage error (image.ErrDataTypeNotSupported);
// a data type inside allowed without an instantiation is a configuration
// error (ErrNoKernel). name identifies the operation in the error message.
func Dispatch[R any](name string, dt image.DataType, allowed image.DataTypeSet, inst Instantiations[R]) (R, error) {
	var zero R
	if !allowed.Contains(dt) {
		return zero, fmt.Errorf("%s: %s: %w", name, dt, image.ErrDataTypeNotSupported)
	}
	ctor := inst.constructor(dt)
	if ctor == nil {
		return zero, fmt.Errorf("%s: %s: %w", name, dt, ErrNoKernel)
	}
	return ctor(), nil
}
