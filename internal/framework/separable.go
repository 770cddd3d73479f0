package framework

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/dip/internal/image"
	"github.com/born-ml/dip/internal/parallel"
)

// SeparableOption modifies the behavior of Separable. Options can be combined with |.
type SeparableOption uint8

// Separable options.
const (
	// SeparableNoMultiThreading processes all lines of a pass in a single chunk.
	SeparableNoMultiThreading SeparableOption = 1 << iota
	// SeparableCanWorkInPlace declares that the kernel produces correct
	// results when its input and output buffers are the same memory.
	SeparableCanWorkInPlace
	// SeparableUseInputBuffer always copies input lines to a contiguous buffer.
	SeparableUseInputBuffer
)

func (o SeparableOption) has(flag SeparableOption) bool { return o&flag != 0 }

// Separable applies filter to every line along each dimension selected by
// process, one dimension after the other, and writes the result to out with
// data type outImageType. Kernels see buffers of type bufferType.
//
// process, border and bc hold one value per dimension; nil selects every
// dimension, no border and SymmetricMirror respectively, and a single value
// applies to all dimensions. Dimensions of size 1 are skipped. Tensor
// elements are processed independently of each other.
//
// out may be the same image as in. When no dimension is processed, out
// becomes a converted copy of in.
func (e *Engine) Separable(
	in, out *image.Image,
	bufferType, outImageType image.DataType,
	process []bool,
	border []int,
	bc []BoundaryCondition,
	filter SeparableLineFilter,
	opts SeparableOption,
) error {
	if err := e.separable(in, out, bufferType, outImageType, process, border, bc, filter, opts); err != nil {
		if _, ok := err.(*KernelError); ok {
			return err
		}
		return fmt.Errorf("framework.Separable: %w", err)
	}
	return nil
}

func (e *Engine) separable(
	in, out *image.Image,
	bufferType, outImageType image.DataType,
	process []bool,
	border []int,
	bc []BoundaryCondition,
	filter SeparableLineFilter,
	opts SeparableOption,
) error {
	if err := image.CheckForged(in); err != nil {
		return err
	}
	if out == nil {
		return fmt.Errorf("nil output image: %w", ErrArgumentCount)
	}
	if !bufferType.IsValid() || !outImageType.IsValid() {
		return image.ErrDataTypeNotSupported
	}
	nD := in.Dimensionality()
	if nD < 1 {
		return fmt.Errorf("0-D image: %w", image.ErrDimensionalityNotSupported)
	}
	process, err := expandArgument(process, nD, true)
	if err != nil {
		return err
	}
	border, err = expandArgument(border, nD, 0)
	if err != nil {
		return err
	}
	bc, err = expandArgument(bc, nD, SymmetricMirror)
	if err != nil {
		return err
	}
	for d := range nD {
		if border[d] < 0 {
			return fmt.Errorf("border %d: %w", border[d], image.ErrInvalidSizes)
		}
		if bc[d] < SymmetricMirror || bc[d] > FirstOrderExtrapolate {
			return fmt.Errorf("boundary condition %d: %w", int(bc[d]), image.ErrInvalidFlag)
		}
	}

	sizes := in.Sizes()
	var dims []int
	for d := range nD {
		if process[d] && sizes[d] > 1 {
			dims = append(dims, d)
		}
	}
	if len(dims) == 0 {
		return e.Convert(in, out, outImageType)
	}

	src := in.QuickCopy()
	defer src.Strip()
	nT := in.TensorElements()
	// An output viewing the input's samples in another order would overwrite
	// lines not yet read.
	if out.IsSingletonExpanded() || aliasesOtherLayout(out, []*image.Image{in}) {
		out.Strip()
	}
	if err := out.ReForge(sizes, nT, outImageType); err != nil {
		return err
	}
	dst := out.QuickCopy()
	defer dst.Strip()
	if err := src.TensorToSpatial(); err != nil {
		return err
	}
	if err := dst.TensorToSpatial(); err != nil {
		return err
	}

	// Passes after the first read the previous pass's result. When the
	// output type cannot hold buffer values exactly, results go through an
	// intermediate image of the buffer type.
	var tmp *image.Image
	if len(dims) > 1 && outImageType != bufferType {
		if tmp, err = image.New(dst.Sizes(), 1, bufferType); err != nil {
			return err
		}
		defer tmp.Strip()
	}

	nPixels := sizes.Product() * nT
	chunks := make([][]parallel.Range, len(dims))
	maxChunks := 1
	for p, d := range dims {
		limit := 1
		if !opts.has(SeparableNoMultiThreading) {
			ops := filter.NumberOfOperations(sizes[d], nT, border[d], d)
			limit = e.chunkLimit(ops, nPixels/sizes[d])
		}
		chunks[p] = parallel.ChunksLimit(nPixels/sizes[d], limit, e.cfg.Parallel)
		maxChunks = max(maxChunks, len(chunks[p]))
	}
	filter.SetNumberOfThreads(maxChunks)

	for p, d := range dims {
		from, to := dst, dst
		if p == 0 {
			from = src
		} else if tmp != nil {
			from = tmp
		}
		if tmp != nil && p < len(dims)-1 {
			to = tmp
		}
		e.logger().Debug("separable",
			slog.Any("sizes", sizes),
			slog.Int("dim", d),
			slog.Int("pass", p),
			slog.Int("border", border[d]),
			slog.String("boundary", bc[d].String()),
			slog.Int("chunks", len(chunks[p])),
			slog.Int("workers", e.cfg.Parallel.Workers(len(chunks[p]))),
		)
		pass := separablePass{
			from:     from,
			to:       to,
			dim:      d,
			pass:     p,
			nPasses:  len(dims),
			nD:       nD,
			border:   border[d],
			bc:       bc[d],
			bufType:  bufferType,
			inPlace:  opts.has(SeparableCanWorkInPlace),
			useInBuf: opts.has(SeparableUseInputBuffer),
		}
		if err := parallel.Run(chunks[p], func(chunk int, r parallel.Range) error {
			return pass.run(filter, chunk, r)
		}, e.cfg.Parallel); err != nil {
			return err
		}
	}
	return nil
}

// separablePass processes all lines along one dimension.
type separablePass struct {
	from, to *image.Image
	dim      int
	pass     int
	nPasses  int
	nD       int // spatial dimensions, excluding the tensor dimension
	border   int
	bc       BoundaryCondition
	bufType  image.DataType
	inPlace  bool
	useInBuf bool
}

func (sp *separablePass) run(filter SeparableLineFilter, chunk int, r parallel.Range) error {
	sizes := sp.from.Sizes()
	length := sizes[sp.dim]
	fromStride, toStride := sp.from.Stride(sp.dim), sp.to.Stride(sp.dim)

	aliased := sp.from.SharesData(sp.to)
	copyIn := sp.border > 0 || sp.from.DataType() != sp.bufType || sp.useInBuf || (aliased && !sp.inPlace)
	directOut := sp.to.DataType() == sp.bufType

	inBuf := SeparableBuffer{DataType: sp.bufType, Length: length}
	if copyIn {
		inBuf.Data = newBuffer(sp.bufType, length+2*sp.border)
		inBuf.Offset = sp.border
		inBuf.Stride = 1
		inBuf.Border = sp.border
	} else {
		inBuf.Data = sp.from.Data()
		inBuf.Stride = fromStride
	}
	outBuf := SeparableBuffer{DataType: sp.bufType, Length: length}
	if directOut {
		outBuf.Data = sp.to.Data()
		outBuf.Stride = toStride
	} else {
		outBuf.Data = newBuffer(sp.bufType, length)
		outBuf.Stride = 1
	}

	params := SeparableLineFilterParams{
		Dimension:      sp.dim,
		Pass:           sp.pass,
		NumberOfPasses: sp.nPasses,
		Thread:         chunk,
	}

	coords := make([]int, len(sizes))
	rest := r.Start
	for d := range sizes {
		if d == sp.dim {
			continue
		}
		coords[d] = rest % sizes[d]
		rest /= sizes[d]
	}
	params.Position = coords[:sp.nD]

	for line := r.Start; line < r.End; line++ {
		fromOffset := sp.from.SampleIndex(coords, 0)
		toOffset := sp.to.SampleIndex(coords, 0)

		if copyIn {
			ConvertSamples(
				SampleLine{Data: inBuf.Data, DataType: sp.bufType, Offset: sp.border, Stride: 1},
				SampleLine{Data: sp.from.Data(), DataType: sp.from.DataType(), Offset: fromOffset, Stride: fromStride},
				length,
			)
			if err := ExtendLine(inBuf.Data, sp.bufType, sp.border, length, sp.border, sp.bc); err != nil {
				return err
			}
		} else {
			inBuf.Offset = fromOffset
		}
		if directOut {
			outBuf.Offset = toOffset
		}

		params.InBuffer, params.OutBuffer = inBuf, outBuf
		if err := filter.Filter(params); err != nil {
			return &KernelError{Op: "Separable", Thread: chunk, Err: err}
		}

		if !directOut {
			ConvertSamples(
				SampleLine{Data: sp.to.Data(), DataType: sp.to.DataType(), Offset: toOffset, Stride: toStride},
				SampleLine{Data: outBuf.Data, DataType: sp.bufType, Offset: 0, Stride: 1},
				length,
			)
		}

		for d := range coords {
			if d == sp.dim {
				continue
			}
			coords[d]++
			if coords[d] < sizes[d] {
				break
			}
			coords[d] = 0
		}
	}
	return nil
}

// expandArgument returns a per-dimension slice: nil gives def for every
// dimension and a single value is repeated.
func expandArgument[T any](arg []T, nD int, def T) ([]T, error) {
	switch len(arg) {
	case 0:
		arg = []T{def}
		fallthrough
	case 1:
		out := make([]T, nD)
		for i := range out {
			out[i] = arg[0]
		}
		return out, nil
	case nD:
		return arg, nil
	default:
		return nil, fmt.Errorf("%d values for %d dimensions: %w", len(arg), nD, ErrArgumentCount)
	}
}
