package framework

import "github.com/born-ml/dip/internal/image"

// ScanBuffer describes one line of samples handed to a ScanLineFilter.
// Tensor element t of sample i lives at index
// Offset + i*Stride + t*TensorStride of the typed view returned by Samples.
type ScanBuffer struct {
	Data         []byte
	DataType     image.DataType
	Offset       int
	Stride       int
	TensorStride int
	TensorLength int
}

// ScanLineFilterParams are the arguments of one ScanLineFilter.Filter call.
type ScanLineFilterParams struct {
	InBuffer     []ScanBuffer
	OutBuffer    []ScanBuffer
	BufferLength int   // number of samples in the line
	Dimension    int   // dimension along which the line runs
	Position     []int // coordinates of the first sample of the line
	Thread       int   // slot index in [0, n) where n was given to SetNumberOfThreads
}

// ScanLineFilter is the kernel contract of Scan.
//
// SetNumberOfThreads is called once before any line is processed; Filter
// must only touch the slot given by params.Thread, which makes locks
// unnecessary. Filter may run concurrently for different slots.
type ScanLineFilter interface {
	// NumberOfOperations estimates the cost per sample.
	NumberOfOperations(nInput, nOutput, nTensorElements int) int
	SetNumberOfThreads(threads int)
	Filter(params ScanLineFilterParams) error
}

// SeparableBuffer describes one line of samples handed to a
// SeparableLineFilter. Sample i lives at index Offset + i*Stride of the typed
// view returned by Samples; an input buffer is also valid for Border samples
// before index 0 and after index Length-1.
type SeparableBuffer struct {
	Data     []byte
	DataType image.DataType
	Offset   int
	Stride   int
	Length   int
	Border   int
}

// SeparableLineFilterParams are the arguments of one SeparableLineFilter.Filter call.
type SeparableLineFilterParams struct {
	InBuffer       SeparableBuffer
	OutBuffer      SeparableBuffer
	Dimension      int
	Pass           int
	NumberOfPasses int
	Position       []int
	Thread         int
}

// SeparableLineFilter is the kernel contract of Separable. Filter must fully
// populate the output line from the input line.
type SeparableLineFilter interface {
	// NumberOfOperations estimates the cost per line.
	NumberOfOperations(lineLength, nTensorElements, border, procDim int) int
	SetNumberOfThreads(threads int)
	Filter(params SeparableLineFilterParams) error
}

// Samples returns a typed view of the buffer's memory. T must match the
// buffer's data type.
func Samples[T image.Sample](buf ScanBuffer) []T {
	return image.SamplesOf[T](buf.Data)
}

// LineSamples returns a typed view of a separable buffer's memory.
func LineSamples[T image.Sample](buf SeparableBuffer) []T {
	return image.SamplesOf[T](buf.Data)
}

// ScanFunc adapts a function to the ScanLineFilter interface for kernels
// that keep no per-thread state.
type ScanFunc struct {
	Operations int
	Func       func(params ScanLineFilterParams) error
}

// NumberOfOperations implements ScanLineFilter.
func (f ScanFunc) NumberOfOperations(_, _, _ int) int { return max(f.Operations, 1) }

// SetNumberOfThreads implements ScanLineFilter.
func (f ScanFunc) SetNumberOfThreads(int) {}

// Filter implements ScanLineFilter.
func (f ScanFunc) Filter(params ScanLineFilterParams) error { return f.Func(params) }
