package framework

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/dip/internal/image"
	"github.com/born-ml/dip/internal/parallel"
)

// ScanOption modifies the behavior of Scan. Options can be combined with |.
type ScanOption uint8

// Scan options.
const (
	// ScanNoMultiThreading processes all lines in a single chunk.
	ScanNoMultiThreading ScanOption = 1 << iota
	// ScanNoSingletonExpansion requires all inputs to have identical sizes.
	ScanNoSingletonExpansion
	// ScanNeedCoordinates declares that the kernel reads params.Position.
	ScanNeedCoordinates
	// ScanTensorAsSpatialDim turns the tensor of every non-scalar input into
	// an extra, last spatial dimension; buffers then hold scalar samples.
	ScanTensorAsSpatialDim
)

func (o ScanOption) has(flag ScanOption) bool { return o&flag != 0 }

// shortLine is the line length below which Scan prefers the longest
// dimension over the one with the smallest stride.
const shortLine = 64

// Scan calls filter for every image line of the inputs, after converting
// samples to the requested buffer types, and writes the output buffers back
// to the outputs, which are forged to the common sizes of the inputs with
// the given data types and tensor elements.
//
// All validation happens before any kernel call, so a failed Scan leaves no
// partial results. Lines are distributed over chunks that depend only on the
// data and the configuration, never on the number of workers; filter's
// Thread parameter is the chunk index.
func (e *Engine) Scan(
	inputs, outputs []*image.Image,
	inBufferTypes, outBufferTypes, outImageTypes []image.DataType,
	nTensorElements []int,
	filter ScanLineFilter,
	opts ScanOption,
) error {
	if err := e.scan(inputs, outputs, inBufferTypes, outBufferTypes, outImageTypes, nTensorElements, filter, opts); err != nil {
		if _, ok := err.(*KernelError); ok {
			return err
		}
		return fmt.Errorf("framework.Scan: %w", err)
	}
	return nil
}

// ScanSingleInput scans one input image with an optional mask. When mask is
// not nil it becomes the second input buffer, of type image.Binary.
func (e *Engine) ScanSingleInput(in, mask *image.Image, bufferType image.DataType, filter ScanLineFilter, opts ScanOption) error {
	if err := image.CheckForged(in); err != nil {
		return fmt.Errorf("framework.Scan: %w", err)
	}
	inputs := []*image.Image{in}
	types := []image.DataType{bufferType}
	if mask != nil {
		sizes := in.Sizes()
		if err := mask.CheckIsMask(sizes, !opts.has(ScanNoSingletonExpansion)); err != nil {
			return fmt.Errorf("framework.Scan: %w", err)
		}
		inputs = append(inputs, mask)
		types = append(types, image.Binary)
	}
	return e.Scan(inputs, nil, types, nil, nil, nil, filter, opts)
}

// ScanMonadic scans in and writes one output image of type outImageType.
// Both buffers have type bufferType.
func (e *Engine) ScanMonadic(
	in, out *image.Image,
	bufferType, outImageType image.DataType,
	nTensorElements int,
	filter ScanLineFilter,
	opts ScanOption,
) error {
	return e.Scan(
		[]*image.Image{in}, []*image.Image{out},
		[]image.DataType{bufferType}, []image.DataType{bufferType}, []image.DataType{outImageType},
		[]int{nTensorElements}, filter, opts,
	)
}

func (e *Engine) scan(
	inputs, outputs []*image.Image,
	inBufferTypes, outBufferTypes, outImageTypes []image.DataType,
	nTensorElements []int,
	filter ScanLineFilter,
	opts ScanOption,
) error {
	// Validation.
	if len(inputs) == 0 {
		return fmt.Errorf("no input images: %w", ErrArgumentCount)
	}
	if len(inBufferTypes) != len(inputs) || len(outBufferTypes) != len(outputs) ||
		len(outImageTypes) != len(outputs) || len(nTensorElements) != len(outputs) {
		return ErrArgumentCount
	}
	if err := image.CheckForged(inputs...); err != nil {
		return err
	}
	for _, out := range outputs {
		if out == nil {
			return fmt.Errorf("nil output image: %w", ErrArgumentCount)
		}
	}
	for _, dt := range append(append(append([]image.DataType(nil), inBufferTypes...), outBufferTypes...), outImageTypes...) {
		if !dt.IsValid() {
			return fmt.Errorf("data type %d: %w", int(dt), image.ErrDataTypeNotSupported)
		}
	}

	ins := make([]*image.Image, len(inputs))
	for i, in := range inputs {
		ins[i] = in.QuickCopy()
	}
	defer stripAll(ins)

	tensorDim := false
	if opts.has(ScanTensorAsSpatialDim) {
		for _, v := range ins {
			if !v.IsScalar() {
				tensorDim = true
			}
		}
		if tensorDim {
			for _, v := range ins {
				if err := v.TensorToSpatial(); err != nil {
					return err
				}
			}
		}
	}

	sizes := ins[0].Sizes().Clone()
	for _, v := range ins[1:] {
		if opts.has(ScanNoSingletonExpansion) {
			if !v.Sizes().Equal(sizes) {
				return fmt.Errorf("%v vs %v: %w", sizes, v.Sizes(), image.ErrSizesDontMatch)
			}
			continue
		}
		var err error
		if sizes, err = image.SingletonExpandedSizes(sizes, v.Sizes()); err != nil {
			return err
		}
	}
	for _, v := range ins {
		if err := v.ExpandSingletonDimensions(sizes); err != nil {
			return err
		}
	}

	outSizes := sizes
	if tensorDim {
		outSizes = sizes[:len(sizes)-1]
		for o, n := range nTensorElements {
			if n != sizes[len(sizes)-1] {
				return fmt.Errorf("output %d has %d tensor elements, inputs have %d: %w",
					o, n, sizes[len(sizes)-1], image.ErrTensorMismatch)
			}
		}
	}

	// Outputs. From here on no error can be caused by the caller's arguments.
	outs := make([]*image.Image, len(outputs))
	defer stripAll(outs)
	for o, out := range outputs {
		if out.IsSingletonExpanded() || aliasesOtherLayout(out, inputs) {
			out.Strip()
		}
		if err := out.ReForge(outSizes, nTensorElements[o], outImageTypes[o]); err != nil {
			return err
		}
		outs[o] = out.QuickCopy()
		if tensorDim {
			if err := outs[o].TensorToSpatial(); err != nil {
				return err
			}
		}
	}

	nD := len(sizes)
	posDims := nD
	if nD == 0 {
		for _, v := range append(append([]*image.Image(nil), ins...), outs...) {
			v.ExpandDimensionality(1)
		}
		sizes = image.Sizes{1}
		nD = 1
	}

	nPixels := sizes.Product()
	if nPixels == 0 {
		filter.SetNumberOfThreads(1)
		return nil
	}

	procDim := processingDimension(ins[0])
	lineLength := sizes[procDim]
	nLines := nPixels / lineLength

	maxTensor := 1
	for _, v := range ins {
		maxTensor = max(maxTensor, v.TensorElements())
	}
	limit := 1
	if !opts.has(ScanNoMultiThreading) {
		limit = e.chunkLimit(filter.NumberOfOperations(len(ins), len(outs), maxTensor), nPixels*maxTensor)
	}
	chunks := parallel.ChunksLimit(nLines, limit, e.cfg.Parallel)
	filter.SetNumberOfThreads(len(chunks))

	e.logger().Debug("scan",
		slog.Any("sizes", sizes),
		slog.Int("inputs", len(ins)),
		slog.Int("outputs", len(outs)),
		slog.Int("dim", procDim),
		slog.Int("lines", nLines),
		slog.Int("chunks", len(chunks)),
		slog.Int("workers", e.cfg.Parallel.Workers(len(chunks))),
	)

	order := make([]int, 0, nD-1)
	for d := 0; d < nD; d++ {
		if d != procDim {
			order = append(order, d)
		}
	}

	return parallel.Run(chunks, func(chunk int, r parallel.Range) error {
		inLines := make([]lineBinding, len(ins))
		for i, v := range ins {
			inLines[i] = newLineBinding(v, inBufferTypes[i], procDim, lineLength)
		}
		outLines := make([]lineBinding, len(outs))
		for o, v := range outs {
			outLines[o] = newLineBinding(v, outBufferTypes[o], procDim, lineLength)
		}
		params := ScanLineFilterParams{
			InBuffer:     make([]ScanBuffer, len(ins)),
			OutBuffer:    make([]ScanBuffer, len(outs)),
			BufferLength: lineLength,
			Dimension:    procDim,
			Thread:       chunk,
		}

		coords := make([]int, nD)
		rest := r.Start
		for _, d := range order {
			coords[d] = rest % sizes[d]
			rest /= sizes[d]
		}
		params.Position = coords[:posDims]

		for line := r.Start; line < r.End; line++ {
			for i := range inLines {
				params.InBuffer[i] = inLines[i].load(coords)
			}
			for o := range outLines {
				params.OutBuffer[o] = outLines[o].bind(coords)
			}
			if err := filter.Filter(params); err != nil {
				return &KernelError{Op: "Scan", Thread: chunk, Err: err}
			}
			for o := range outLines {
				outLines[o].store()
			}

			for _, d := range order {
				coords[d]++
				if coords[d] < sizes[d] {
					break
				}
				coords[d] = 0
			}
		}
		return nil
	}, e.cfg.Parallel)
}

// processingDimension picks the dimension along which Scan forms lines: the
// one with the smallest non-zero stride, unless it is short and a longer
// dimension exists.
func processingDimension(img *image.Image) int {
	sizes, strides := img.Sizes(), img.Strides()
	pd, best, longest := -1, 0, 0
	for d, sz := range sizes {
		if sz > sizes[longest] {
			longest = d
		}
		s := abs(strides[d])
		if sz < 2 || s == 0 {
			continue
		}
		if pd < 0 || s < best {
			pd, best = d, s
		}
	}
	if pd < 0 {
		return longest
	}
	if sizes[pd] < shortLine && sizes[longest] > sizes[pd] {
		return longest
	}
	return pd
}

// lineBinding connects one image to the buffer a kernel sees for the
// current line: either the image memory itself or a contiguous temporary
// buffer of another type.
type lineBinding struct {
	img    *image.Image
	length int
	stride int
	nT     int
	tStep  int
	direct bool
	buf    ScanBuffer
	offset int // sample index of the current line in img
}

func newLineBinding(img *image.Image, bufferType image.DataType, procDim, length int) lineBinding {
	lb := lineBinding{
		img:    img,
		length: length,
		stride: img.Stride(procDim),
		nT:     img.TensorElements(),
		tStep:  img.TensorStride(),
		direct: img.DataType() == bufferType,
	}
	if lb.direct {
		lb.buf = ScanBuffer{
			Data:         img.Data(),
			DataType:     bufferType,
			Stride:       lb.stride,
			TensorStride: lb.tStep,
			TensorLength: lb.nT,
		}
		return lb
	}
	lb.buf = ScanBuffer{
		Data:         newBuffer(bufferType, length*lb.nT),
		DataType:     bufferType,
		Stride:       lb.nT,
		TensorStride: 1,
		TensorLength: lb.nT,
	}
	return lb
}

// bind points the buffer at the line starting at coords.
func (lb *lineBinding) bind(coords []int) ScanBuffer {
	lb.offset = lb.img.SampleIndex(coords, 0)
	if lb.direct {
		lb.buf.Offset = lb.offset
	}
	return lb.buf
}

// load binds the buffer and, for temporary buffers, converts the line into it.
func (lb *lineBinding) load(coords []int) ScanBuffer {
	buf := lb.bind(coords)
	if lb.direct {
		return buf
	}
	for t := 0; t < lb.nT; t++ {
		ConvertSamples(
			SampleLine{Data: buf.Data, DataType: buf.DataType, Offset: t, Stride: lb.nT},
			SampleLine{Data: lb.img.Data(), DataType: lb.img.DataType(), Offset: lb.offset + t*lb.tStep, Stride: lb.stride},
			lb.length,
		)
	}
	return buf
}

// store writes a temporary buffer back to the image.
func (lb *lineBinding) store() {
	if lb.direct {
		return
	}
	for t := 0; t < lb.nT; t++ {
		ConvertSamples(
			SampleLine{Data: lb.img.Data(), DataType: lb.img.DataType(), Offset: lb.offset + t*lb.tStep, Stride: lb.stride},
			SampleLine{Data: lb.buf.Data, DataType: lb.buf.DataType, Offset: t, Stride: lb.nT},
			lb.length,
		)
	}
}

// newBuffer allocates an aligned, zeroed buffer for n samples of type dt.
func newBuffer(dt image.DataType, n int) []byte {
	return image.NewDataSegment(n * dt.Size()).Bytes()
}

// aliasesOtherLayout reports whether out shares memory with an input that
// views the samples in a different order. Such an output gets new memory.
func aliasesOtherLayout(out *image.Image, inputs []*image.Image) bool {
	for _, in := range inputs {
		if out.SharesData(in) && !out.SameLayout(in) {
			return true
		}
	}
	return false
}

func stripAll(images []*image.Image) {
	for _, img := range images {
		if img != nil {
			img.Strip()
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
