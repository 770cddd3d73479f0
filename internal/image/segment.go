package image

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// DataSegment is a reference-counted handle to the memory backing one or more
// images. Every image descriptor that views the memory holds one reference;
// the release callback (if any) runs exactly once, when the last reference is
// dropped.
type DataSegment struct {
	data     []byte
	refCount atomic.Int32
	release  func()
	once     sync.Once
}

// NewDataSegment allocates a zero-filled segment of size bytes with refCount = 1.
// The backing array is allocated as uint64s so that every sample type is aligned.
func NewDataSegment(size int) *DataSegment {
	words := make([]uint64, (size+7)/8)
	var data []byte
	if size > 0 {
		//nolint:gosec // unsafe.Slice reinterprets the word slice as bytes, length checked above
		data = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size)
	}
	seg := &DataSegment{data: data}
	seg.refCount.Store(1)
	return seg
}

// WrapDataSegment creates a segment over memory owned by someone else.
// release is called once when the last reference is dropped; it may be nil.
func WrapDataSegment(data []byte, release func()) *DataSegment {
	seg := &DataSegment{data: data, release: release}
	seg.refCount.Store(1)
	return seg
}

// Bytes returns the memory of the segment.
// WARNING: Direct access to underlying memory. Use with caution.
func (s *DataSegment) Bytes() []byte {
	return s.data
}

// Retain increments the reference count.
func (s *DataSegment) Retain() {
	s.refCount.Add(1)
}

// Release decrements the reference count and frees the segment when it reaches 0.
func (s *DataSegment) Release() {
	if s.refCount.Add(-1) != 0 {
		return
	}
	s.once.Do(func() {
		s.data = nil
		if s.release != nil {
			s.release()
		}
	})
}

// ShareCount returns the number of live references.
func (s *DataSegment) ShareCount() int {
	return int(s.refCount.Load())
}

// IsUnique returns true if exactly one descriptor references the segment.
func (s *DataSegment) IsUnique() bool {
	return s.refCount.Load() == 1
}

// SamplesOf interprets a byte slice as a slice of T without copying.
// The byte slice must be aligned for T; segments created by this package are.
func SamplesOf[T Sample](data []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	n := len(data) / size
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, length derived from len(data)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(data))), n)
}
