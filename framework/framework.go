// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package framework provides the traversal engine of dip: kernels written
// against ScanLineFilter or SeparableLineFilter are driven over images of
// any dimensionality, stride layout and data type.
//
// Example:
//
//	eng := framework.New(framework.DefaultConfig())
//	err := eng.ScanSingleInput(img, nil, image.Float64, kernel, 0)
package framework

import (
	"github.com/born-ml/dip/image"
	"github.com/born-ml/dip/internal/framework"
)

// Type aliases for public API

// Engine drives kernels over images.
type Engine = framework.Engine

// Config controls how an Engine partitions and executes work.
type Config = framework.Config

// ScanLineFilter is the kernel contract of Scan.
type ScanLineFilter = framework.ScanLineFilter

// ScanLineFilterParams are the arguments of one ScanLineFilter.Filter call.
type ScanLineFilterParams = framework.ScanLineFilterParams

// ScanBuffer describes one line of samples handed to a ScanLineFilter.
type ScanBuffer = framework.ScanBuffer

// ScanFunc adapts a function to the ScanLineFilter interface.
type ScanFunc = framework.ScanFunc

// SeparableLineFilter is the kernel contract of Separable.
type SeparableLineFilter = framework.SeparableLineFilter

// SeparableLineFilterParams are the arguments of one SeparableLineFilter.Filter call.
type SeparableLineFilterParams = framework.SeparableLineFilterParams

// SeparableBuffer describes one line of samples handed to a SeparableLineFilter.
type SeparableBuffer = framework.SeparableBuffer

// ScanOption modifies the behavior of Scan.
type ScanOption = framework.ScanOption

// SeparableOption modifies the behavior of Separable.
type SeparableOption = framework.SeparableOption

// BoundaryCondition selects how lines are extended past the image edge.
type BoundaryCondition = framework.BoundaryCondition

// KernelError wraps an error returned by a kernel.
type KernelError = framework.KernelError

// Instantiations lists the kernel constructor for every data type.
type Instantiations[R any] = framework.Instantiations[R]

// PerThread holds one value per worker slot.
type PerThread[T any] = framework.PerThread[T]

// Scan options.
const (
	ScanNoMultiThreading     ScanOption = framework.ScanNoMultiThreading
	ScanNoSingletonExpansion ScanOption = framework.ScanNoSingletonExpansion
	ScanNeedCoordinates      ScanOption = framework.ScanNeedCoordinates
	ScanTensorAsSpatialDim   ScanOption = framework.ScanTensorAsSpatialDim
)

// Separable options.
const (
	SeparableNoMultiThreading SeparableOption = framework.SeparableNoMultiThreading
	SeparableCanWorkInPlace   SeparableOption = framework.SeparableCanWorkInPlace
	SeparableUseInputBuffer   SeparableOption = framework.SeparableUseInputBuffer
)

// Boundary conditions.
const (
	SymmetricMirror       BoundaryCondition = framework.SymmetricMirror
	AsymmetricMirror      BoundaryCondition = framework.AsymmetricMirror
	Periodic              BoundaryCondition = framework.Periodic
	AsymmetricPeriodic    BoundaryCondition = framework.AsymmetricPeriodic
	AddZeros              BoundaryCondition = framework.AddZeros
	AddMaxValue           BoundaryCondition = framework.AddMaxValue
	AddMinValue           BoundaryCondition = framework.AddMinValue
	ZeroOrderExtrapolate  BoundaryCondition = framework.ZeroOrderExtrapolate
	FirstOrderExtrapolate BoundaryCondition = framework.FirstOrderExtrapolate
)

// Configuration errors.
var (
	ErrNoKernel      = framework.ErrNoKernel
	ErrArgumentCount = framework.ErrArgumentCount
)

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return framework.DefaultConfig()
}

// New creates an engine.
func New(cfg Config) *Engine {
	return framework.New(cfg)
}

// Dispatch selects the kernel instantiation for dt.
func Dispatch[R any](name string, dt image.DataType, allowed image.DataTypeSet, inst Instantiations[R]) (R, error) {
	return framework.Dispatch(name, dt, allowed, inst)
}

// Samples returns a typed view of a scan buffer's memory.
func Samples[T image.Sample](buf ScanBuffer) []T {
	return framework.Samples[T](buf)
}

// LineSamples returns a typed view of a separable buffer's memory.
func LineSamples[T image.Sample](buf SeparableBuffer) []T {
	return framework.LineSamples[T](buf)
}

// ParseBoundaryCondition maps a name to a boundary condition.
func ParseBoundaryCondition(name string) (BoundaryCondition, error) {
	return framework.ParseBoundaryCondition(name)
}
