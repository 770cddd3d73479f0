// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package statistics computes image statistics on a dip engine.
//
// Example:
//
//	a := statistics.New(nil)
//	stats, err := a.SampleStatistics(img, mask)
//	fmt.Println(stats.Mean(), stats.StandardDeviation())
package statistics

import (
	"github.com/born-ml/dip/framework"
	"github.com/born-ml/dip/internal/accumulators"
	"github.com/born-ml/dip/internal/statistics"
)

// Type aliases for public API

// Analyzer runs statistics on an engine.
type Analyzer = statistics.Analyzer

// MinMaxAccumulator tracks the minimum and maximum of a set of values.
type MinMaxAccumulator = accumulators.MinMaxAccumulator

// StatisticsAccumulator computes mean, variance, skewness and excess kurtosis.
type StatisticsAccumulator = accumulators.StatisticsAccumulator

// CovarianceAccumulator computes the joint statistics of value pairs.
type CovarianceAccumulator = accumulators.CovarianceAccumulator

// MomentAccumulator accumulates weighted moments of positions.
type MomentAccumulator = accumulators.MomentAccumulator

// CenterOfMassAccumulator accumulates weighted position sums.
type CenterOfMassAccumulator = accumulators.CenterOfMassAccumulator

// Position flags of MaximumPixel and MinimumPixel.
const (
	First = statistics.First
	Last  = statistics.Last
)

// New creates an Analyzer that runs on eng. A nil engine gets the default configuration.
func New(eng *framework.Engine) *Analyzer {
	return statistics.New(eng)
}

// NewMomentAccumulator returns an empty accumulator for nD-dimensional positions.
func NewMomentAccumulator(nD int) MomentAccumulator {
	return accumulators.NewMomentAccumulator(nD)
}

// NewCenterOfMassAccumulator returns an empty accumulator for nD-dimensional positions.
func NewCenterOfMassAccumulator(nD int) CenterOfMassAccumulator {
	return accumulators.NewCenterOfMassAccumulator(nD)
}
