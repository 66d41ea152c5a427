// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loss

import (
	"math"

	"github.com/cpmech/snspp/prob"
)

// logisticKernel implements the scalar logistic loss of spec.md §4.1:
//
//	f(z)  = log(1+e^-z)
//	g(z)  = -1/(1+e^z)
//	f*(xi) = -xi*log(-xi) + (1+xi)*log(1+xi),  finite on xi in [-1,0]
//	g*(xi) = log(-(1+xi)/xi)
//	H*(xi) = -1/(xi^2+xi)
//
// Per the data-preprocessing convention named in §4.1, labels are folded
// into A's rows (row i is b_i * a_i), so b plays no role in the kernel
// itself; it is accepted and ignored to satisfy the shared kernel shape.
type logisticKernel struct{}

func (logisticKernel) name() string      { return "logistic" }
func (logisticKernel) convex() bool      { return true }
func (logisticKernel) weakConv() float64 { return 0 }

// dualStart matches the original implementation's xi_0 = -0.5, the
// midpoint of f*'s domain [-1,0] (SPEC_FULL.md §C.1).
func (logisticKernel) dualStart() float64 { return -0.5 }

func (logisticKernel) f(z, _ float64) float64 {
	return math.Log1p(math.Exp(-z))
}

func (logisticKernel) g(z, _ float64) float64 {
	return -1 / (1 + math.Exp(z))
}

func (k logisticKernel) inDomain(xi float64) bool {
	return xi > -1 && xi < 0
}

func (k logisticKernel) fstar(xi, _ float64) float64 {
	if !k.inDomain(xi) {
		return prob.FStarSentinel
	}
	return -xi*math.Log(-xi) + (1+xi)*math.Log(1+xi)
}

func (k logisticKernel) gstar(xi, _ float64) float64 {
	if !k.inDomain(xi) {
		return math.Copysign(prob.FStarSentinel, -xi)
	}
	return math.Log(-(1 + xi) / xi)
}

func (k logisticKernel) hstar(xi, _ float64) float64 {
	if !k.inDomain(xi) {
		return prob.FStarSentinel
	}
	return -1 / (xi*xi + xi)
}

// NewLogistic builds the logistic loss over data whose rows already fold
// in the label per sample, per the convention of spec.md §4.1.
func NewLogistic(data *prob.Dataset) prob.Loss {
	return &separable{data: data, k: logisticKernel{}}
}
