// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package image provides the array descriptor of the dip engine.
//
// # Overview
//
// An Image is a strided N-dimensional array of typed samples:
//   - Dimension 0 varies fastest in normal stride order
//   - Strides are in samples and may be negative or zero
//   - Every pixel may hold a tensor (vector or matrix) of samples
//   - Memory is a reference-counted DataSegment shared by views
//
// # Basic Usage
//
//	import "github.com/born-ml/dip/image"
//
//	func main() {
//	    img, err := image.New(image.Sizes{256, 256}, 1, image.Uint8)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    view := img.QuickCopy() // shares memory, no pixel is copied
//	    defer view.Strip()
//	}
//
// # Data Types
//
// Binary, Uint8, Uint16, Uint32, Sint8, Sint16, Sint32, Float32, Float64,
// Complex64 and Complex128. Binary samples are bytes holding 0 or 1.
//
// # Foreign Buffers
//
// FromBuffer wraps memory owned by another runtime without copying it, and
// ToBuffer describes an image to such a runtime. Byte strides must be whole
// multiples of the item size.
package image
