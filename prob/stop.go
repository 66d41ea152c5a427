// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

import "math"

// RelSupNorm computes the shared stopping criterion of spec §4.11:
//
//	eta = max_j |xNew[j] - xOld[j]| / (1 + |xOld[j]|)
func RelSupNorm(xNew, xOld []float64) float64 {
	eta := 0.0
	for j := range xOld {
		d := math.Abs(xNew[j]-xOld[j]) / (1 + math.Abs(xOld[j]))
		if d > eta {
			eta = d
		}
	}
	return eta
}
