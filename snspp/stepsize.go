// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snspp

import (
	"math"

	"github.com/cpmech/snspp/prob"
)

// defaultAlpha implements the default step-size formula of spec §4.9,
// used whenever the caller leaves Params.Alpha at zero:
//
//	alpha* = 1 / (etaSched * max(term1, term2))
//	term1  = 2L + M
//	term2  = (1 + m/sqrt(2b)) * Ltilde + max(M, L)
//	L      = Li * mean_i ||A_i||^2
//	Ltilde = Li * max_i  ||A_i||^2
//	M      = 0 if convex, else max_i(gamma_i) * max_i ||A_i||^2
func defaultAlpha(l prob.Loss, mIter, batchSize int) float64 {
	const etaSched = 0.5
	data := l.Data()
	li, _ := lossFamilyConstant(l.Name())

	mean := data.MeanNorm2()
	maxNorm2 := data.MaxNorm2()

	lBig := li * mean
	lTilde := li * maxNorm2

	m := 0.0
	if !l.Convex() {
		maxGamma := 0.0
		for i := 0; i < data.N(); i++ {
			if g := l.WeakConv(i); g > maxGamma {
				maxGamma = g
			}
		}
		m = maxGamma * maxNorm2
	}

	term1 := 2*lBig + m
	term2 := (1+float64(mIter)/math.Sqrt(2*float64(batchSize)))*lTilde + math.Max(m, lBig)

	return 1 / (etaSched * math.Max(term1, term2))
}

// lossFamilyConstant returns L_i, the loss-family Lipschitz constant
// named in spec §4.9 ("1/4 for logistic, 2 for squared"); unrecognized
// families fall back to a conservative constant, mirroring
// saga.lossFamilyConstant and svrg.lossFamilyConstant.
func lossFamilyConstant(name string) (li float64, known bool) {
	switch name {
	case "squared":
		return 2, true
	case "logistic":
		return 0.25, true
	default:
		return 100, false
	}
}
