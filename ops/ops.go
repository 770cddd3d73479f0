// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops provides pixel-wise image operations built on the dip engine.
package ops

import (
	"github.com/born-ml/dip/framework"
	"github.com/born-ml/dip/image"
	"github.com/born-ml/dip/internal/ops"
)

// Select writes to out the samples of in where mask is set and value
// elsewhere. out may be in.
//
// Example:
//
//	err := ops.Select(eng, img, 0, mask, img) // zero everything outside mask
func Select(eng *framework.Engine, in *image.Image, value complex128, mask, out *image.Image) error {
	return ops.Select(eng, in, value, mask, out)
}
