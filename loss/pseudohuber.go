// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loss

import (
	"math"

	"github.com/cpmech/snspp/prob"
)

// pseudoHuberKernel implements the (convex) smooth pseudo-Huber loss with
// threshold Delta:
//
//	f(z) = Delta^2 * (sqrt(1+(z/Delta)^2) - 1)
//
// Unlike the classical Huber loss, f is C-infinity everywhere, which keeps
// the subproblem Jacobian of spec §4.7 continuous rather than merely
// semismooth. Its conjugate is finite on the open interval |xi| < Delta:
//
//	f*(xi) = Delta^2 * (1 - sqrt(1-(xi/Delta)^2))
//	g*(xi) = xi / sqrt(1-(xi/Delta)^2)
//	H*(xi) = 1 / (1-(xi/Delta)^2)^1.5
type pseudoHuberKernel struct {
	delta float64
}

func (k pseudoHuberKernel) name() string       { return "pseudo-huber" }
func (k pseudoHuberKernel) convex() bool       { return true }
func (k pseudoHuberKernel) weakConv() float64  { return 0 }
func (k pseudoHuberKernel) dualStart() float64 { return 0 }

func (k pseudoHuberKernel) f(z, b float64) float64 {
	u := (z - b) / k.delta
	return k.delta * k.delta * (math.Sqrt(1+u*u) - 1)
}

func (k pseudoHuberKernel) g(z, b float64) float64 {
	u := z - b
	return u / math.Sqrt(1+(u/k.delta)*(u/k.delta))
}

func (k pseudoHuberKernel) inDomain(xi float64) bool {
	r := xi / k.delta
	return r*r < 1
}

func (k pseudoHuberKernel) fstar(xi, b float64) float64 {
	if !k.inDomain(xi) {
		return prob.FStarSentinel
	}
	r := xi / k.delta
	return k.delta*k.delta*(1-math.Sqrt(1-r*r)) + xi*b
}

func (k pseudoHuberKernel) gstar(xi, b float64) float64 {
	if !k.inDomain(xi) {
		return math.Copysign(prob.FStarSentinel, xi) + b
	}
	r := xi / k.delta
	return xi/math.Sqrt(1-r*r) + b
}

func (k pseudoHuberKernel) hstar(xi, _ float64) float64 {
	if !k.inDomain(xi) {
		return prob.FStarSentinel
	}
	r := xi / k.delta
	return 1 / math.Pow(1-r*r, 1.5)
}

// NewPseudoHuber builds the pseudo-Huber loss over data with threshold
// delta > 0.
func NewPseudoHuber(data *prob.Dataset, delta float64) prob.Loss {
	if delta <= 0 {
		delta = 1.0
	}
	return &separable{data: data, k: pseudoHuberKernel{delta: delta}}
}
