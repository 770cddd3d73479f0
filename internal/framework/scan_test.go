package framework

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/born-ml/dip/internal/image"
	"github.com/born-ml/dip/internal/parallel"
)

// lineRecord is one Filter call seen by a recorder.
type lineRecord struct {
	position  []int
	dimension int
	length    int
	thread    int
}

// recorder is a kernel that remembers every line it is given.
type recorder struct {
	mu      sync.Mutex
	threads int
	lines   []lineRecord
	err     error
}

func (r *recorder) NumberOfOperations(_, _, _ int) int { return 1 }

func (r *recorder) SetNumberOfThreads(threads int) { r.threads = threads }

func (r *recorder) Filter(params ScanLineFilterParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, lineRecord{
		position:  append([]int(nil), params.Position...),
		dimension: params.Dimension,
		length:    params.BufferLength,
		thread:    params.Thread,
	})
	return r.err
}

// ScanSuite exercises the Scan driver.
type ScanSuite struct {
	suite.Suite
	eng *Engine
}

func (s *ScanSuite) SetupTest() {
	s.eng = New(Config{
		Parallel:              parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1, MaxChunks: 16},
		MinOperationsPerChunk: 1,
	})
}

func (s *ScanSuite) image(data []float32, sizes ...int) *image.Image {
	img, err := image.FromSlice(data, sizes...)
	s.Require().NoError(err)
	return img
}

// TestCoordinates checks that every pixel is visited exactly once and that
// Position is the coordinate of the first sample of each line.
func (s *ScanSuite) TestCoordinates() {
	in, err := image.New(image.Sizes{5, 3, 4}, 1, image.Float32)
	s.Require().NoError(err)
	var rec recorder
	s.Require().NoError(s.eng.ScanSingleInput(in, nil, image.Float32, &rec, ScanNeedCoordinates))

	seen := map[[3]int]int{}
	for _, l := range rec.lines {
		s.Equal(0, l.position[l.dimension], "lines start at the image edge")
		for i := range l.length {
			p := [3]int{l.position[0], l.position[1], l.position[2]}
			p[l.dimension] += i
			seen[p]++
		}
		s.Less(l.thread, rec.threads)
	}
	s.Len(seen, 5*3*4)
	for p, n := range seen {
		s.Equal(1, n, "pixel %v", p)
	}
}

func (s *ScanSuite) TestProcessingDimension() {
	// Dimension 0 has the smallest stride but is short.
	in, err := image.New(image.Sizes{3, 100}, 1, image.Uint8)
	s.Require().NoError(err)
	var rec recorder
	s.Require().NoError(s.eng.ScanSingleInput(in, nil, image.Uint8, &rec, 0))
	s.Require().NotEmpty(rec.lines)
	s.Equal(1, rec.lines[0].dimension)
	s.Equal(100, rec.lines[0].length)

	in, err = image.New(image.Sizes{100, 3}, 1, image.Uint8)
	s.Require().NoError(err)
	var rec2 recorder
	s.Require().NoError(s.eng.ScanSingleInput(in, nil, image.Uint8, &rec2, 0))
	s.Equal(0, rec2.lines[0].dimension)
	s.Len(rec2.lines, 3)
}

func (s *ScanSuite) TestMonadicConversion() {
	in, err := image.FromSlice([]int16{-3, 0, 7, 300}, 4)
	s.Require().NoError(err)
	out := &image.Image{}
	addHalf := ScanFunc{Func: func(params ScanLineFilterParams) error {
		ib, ob := params.InBuffer[0], params.OutBuffer[0]
		src, dst := Samples[float64](ib), Samples[float64](ob)
		for i := range params.BufferLength {
			dst[ob.Offset+i*ob.Stride] = src[ib.Offset+i*ib.Stride] + 0.5
		}
		return nil
	}}
	s.Require().NoError(s.eng.ScanMonadic(in, out, image.Float64, image.Uint8, 1, addHalf, 0))
	s.Equal(image.Uint8, out.DataType())
	// -2.5 rounds away from zero and saturates, 300.5 saturates.
	s.Equal([]float64{0, 1, 8, 255}, out.Float64s())
}

// TestOutputAliasingInput checks that an output viewing the input's memory
// in another order gets new memory instead of overwriting unread samples.
func (s *ScanSuite) TestOutputAliasingInput() {
	in := s.image([]float32{1, 2, 3, 4, 5, 6}, 6)
	out := in.QuickCopy()
	s.Require().NoError(out.Mirror([]bool{true}))
	identity := ScanFunc{Func: func(params ScanLineFilterParams) error {
		ib, ob := params.InBuffer[0], params.OutBuffer[0]
		src, dst := Samples[float32](ib), Samples[float32](ob)
		for i := range params.BufferLength {
			dst[ob.Offset+i*ob.Stride] = src[ib.Offset+i*ib.Stride]
		}
		return nil
	}}
	s.Require().NoError(s.eng.ScanMonadic(in, out, image.Float32, image.Float32, 1, identity, 0))
	s.False(out.SharesData(in))
	s.Equal([]float64{1, 2, 3, 4, 5, 6}, out.Float64s())
	s.Equal([]float64{1, 2, 3, 4, 5, 6}, in.Float64s())

	// The same layout is processed in place.
	same := in.QuickCopy()
	s.Require().NoError(s.eng.ScanMonadic(in, same, image.Float32, image.Float32, 1, identity, 0))
	s.True(same.SharesData(in))
}

func (s *ScanSuite) TestSingletonExpansion() {
	a := s.image([]float32{1, 2, 3, 4}, 4, 1)
	b := s.image([]float32{10, 20, 30}, 1, 3)
	out := &image.Image{}
	add := ScanFunc{Func: func(params ScanLineFilterParams) error {
		x, y, o := params.InBuffer[0], params.InBuffer[1], params.OutBuffer[0]
		xs, ys, os := Samples[float32](x), Samples[float32](y), Samples[float32](o)
		for i := range params.BufferLength {
			os[o.Offset+i*o.Stride] = xs[x.Offset+i*x.Stride] + ys[y.Offset+i*y.Stride]
		}
		return nil
	}}
	err := s.eng.Scan(
		[]*image.Image{a, b}, []*image.Image{out},
		[]image.DataType{image.Float32, image.Float32}, []image.DataType{image.Float32}, []image.DataType{image.Float32},
		[]int{1}, add, 0,
	)
	s.Require().NoError(err)
	s.Equal(image.Sizes{4, 3}, out.Sizes())
	s.Equal([]float64{11, 12, 13, 14, 21, 22, 23, 24, 31, 32, 33, 34}, out.Float64s())

	err = s.eng.Scan(
		[]*image.Image{a, b}, []*image.Image{out},
		[]image.DataType{image.Float32, image.Float32}, []image.DataType{image.Float32}, []image.DataType{image.Float32},
		[]int{1}, add, ScanNoSingletonExpansion,
	)
	s.ErrorIs(err, image.ErrSizesDontMatch)
}

func (s *ScanSuite) TestTensorAsSpatialDim() {
	in, err := image.FromSliceTensor([]uint8{1, 2, 3, 4, 5, 6}, 3, 2)
	s.Require().NoError(err)
	var (
		mu    sync.Mutex
		total float64
		count int
	)
	sum := ScanFunc{Func: func(params ScanLineFilterParams) error {
		buf := params.InBuffer[0]
		s.Equal(1, buf.TensorLength)
		data := Samples[float32](buf)
		mu.Lock()
		defer mu.Unlock()
		for i := range params.BufferLength {
			total += float64(data[buf.Offset+i*buf.Stride])
			count++
		}
		return nil
	}}
	s.Require().NoError(s.eng.ScanSingleInput(in, nil, image.Float32, sum, ScanTensorAsSpatialDim))
	s.Equal(21.0, total)
	s.Equal(6, count)
}

func (s *ScanSuite) TestTensorBuffers() {
	in, err := image.FromSliceTensor([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
	s.Require().NoError(err)
	out := &image.Image{}
	swap := ScanFunc{Func: func(params ScanLineFilterParams) error {
		ib, ob := params.InBuffer[0], params.OutBuffer[0]
		src, dst := Samples[float32](ib), Samples[float32](ob)
		for i := range params.BufferLength {
			dst[ob.Offset+i*ob.Stride] = src[ib.Offset+i*ib.Stride+ib.TensorStride]
			dst[ob.Offset+i*ob.Stride+ob.TensorStride] = src[ib.Offset+i*ib.Stride]
		}
		return nil
	}}
	s.Require().NoError(s.eng.ScanMonadic(in, out, image.Float32, image.Sint32, 2, swap, 0))
	s.Equal(2, out.TensorElements())
	s.Equal([]float64{2, 1, 4, 3, 6, 5}, out.Float64s())
}

func (s *ScanSuite) TestEmptyImage() {
	in, err := image.New(image.Sizes{4, 0}, 1, image.Float32)
	s.Require().NoError(err)
	var rec recorder
	s.Require().NoError(s.eng.ScanSingleInput(in, nil, image.Float32, &rec, 0))
	s.Equal(1, rec.threads)
	s.Empty(rec.lines)
}

func (s *ScanSuite) TestZeroDimensional() {
	in, err := image.New(image.Sizes{}, 1, image.Float64)
	s.Require().NoError(err)
	var rec recorder
	s.Require().NoError(s.eng.ScanSingleInput(in, nil, image.Float64, &rec, ScanNeedCoordinates))
	s.Require().Len(rec.lines, 1)
	s.Equal(1, rec.lines[0].length)
	s.Empty(rec.lines[0].position)
}

func (s *ScanSuite) TestValidation() {
	var rec recorder
	err := s.eng.ScanSingleInput(&image.Image{}, nil, image.Float32, &rec, 0)
	s.ErrorIs(err, image.ErrNotForged)

	in := s.image([]float32{1, 2, 3}, 3)
	notBinary := s.image([]float32{1, 1, 1}, 3)
	err = s.eng.ScanSingleInput(in, notBinary, image.Float32, &rec, 0)
	s.ErrorIs(err, image.ErrMaskNotBinary)

	err = s.eng.Scan([]*image.Image{in}, nil, nil, nil, nil, nil, &rec, 0)
	s.ErrorIs(err, ErrArgumentCount)

	err = s.eng.Scan(nil, nil, nil, nil, nil, nil, &rec, 0)
	s.ErrorIs(err, ErrArgumentCount)

	s.Empty(rec.lines, "no kernel call after a validation error")
}

func (s *ScanSuite) TestKernelError() {
	in, err := image.New(image.Sizes{8, 8}, 1, image.Uint16)
	s.Require().NoError(err)
	sentinel := errors.New("boom")
	rec := recorder{err: sentinel}
	err = s.eng.ScanSingleInput(in, nil, image.Uint16, &rec, 0)
	s.Require().Error(err)
	s.ErrorIs(err, sentinel)
	var kerr *KernelError
	s.Require().ErrorAs(err, &kerr)
	s.Equal("Scan", kerr.Op)
}

// TestChunkingIndependentOfWorkers checks that the number of slots and the
// lines assigned to each slot do not depend on the worker count.
func (s *ScanSuite) TestChunkingIndependentOfWorkers() {
	in, err := image.New(image.Sizes{64, 37}, 1, image.Float32)
	s.Require().NoError(err)

	linesPerThread := func(eng *Engine) (int, map[int][][]int) {
		var rec recorder
		s.Require().NoError(eng.ScanSingleInput(in, nil, image.Float32, &rec, ScanNeedCoordinates))
		byThread := map[int][][]int{}
		for _, l := range rec.lines {
			byThread[l.thread] = append(byThread[l.thread], l.position)
		}
		for _, lines := range byThread {
			sortPositions(lines)
		}
		return rec.threads, byThread
	}

	wantThreads, want := linesPerThread(s.eng.WithWorkers(1))
	s.Greater(wantThreads, 1)
	for _, n := range []int{2, 5, 16} {
		threads, got := linesPerThread(s.eng.WithWorkers(n))
		s.Equal(wantThreads, threads, "workers=%d", n)
		s.Equal(want, got, "workers=%d", n)
	}
}

func (s *ScanSuite) TestNoMultiThreading() {
	in, err := image.New(image.Sizes{64, 37}, 1, image.Float32)
	s.Require().NoError(err)
	var rec recorder
	s.Require().NoError(s.eng.ScanSingleInput(in, nil, image.Float32, &rec, ScanNoMultiThreading))
	s.Equal(1, rec.threads)
	s.Len(rec.lines, 37)
}

func sortPositions(lines [][]int) {
	less := func(a, b []int) bool {
		for d := len(a) - 1; d >= 0; d-- {
			if a[d] != b[d] {
				return a[d] < b[d]
			}
		}
		return false
	}
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && less(lines[j], lines[j-1]); j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}
}

func TestScanSuite(t *testing.T) {
	suite.Run(t, new(ScanSuite))
}
