// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package statistics_test

import (
	"fmt"

	"github.com/born-ml/dip/image"
	"github.com/born-ml/dip/statistics"
)

func ExampleAnalyzer_SampleStatistics() {
	img, err := image.FromSlice([]uint8{1, 2, 3, 4}, 2, 2)
	if err != nil {
		panic(err)
	}
	stats, err := statistics.New(nil).SampleStatistics(img, nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("n=%d mean=%.2f variance=%.4f\n", stats.Number(), stats.Mean(), stats.Variance())
	// Output: n=4 mean=2.50 variance=1.6667
}

func ExampleAnalyzer_CumulativeSum() {
	img, err := image.FromSlice([]float32{1, 2, 3, 4}, 4)
	if err != nil {
		panic(err)
	}
	out := &image.Image{}
	if err := statistics.New(nil).CumulativeSum(img, nil, out, nil); err != nil {
		panic(err)
	}
	fmt.Println(out.Float64s())
	// Output: [1 3 6 10]
}

func ExampleAnalyzer_MaximumPixel() {
	img, err := image.FromSlice([]int16{4, 9, 2, 9}, 2, 2)
	if err != nil {
		panic(err)
	}
	a := statistics.New(nil)
	first, _ := a.MaximumPixel(img, nil, statistics.First)
	last, _ := a.MaximumPixel(img, nil, statistics.Last)
	fmt.Println(first, last)
	// Output: [1 0] [1 1]
}
