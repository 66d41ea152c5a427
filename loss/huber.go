// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loss

import (
	"math"

	"github.com/cpmech/snspp/prob"
)

// huberKernel implements the (convex) Huber loss with threshold Delta:
//
//	f(z) = z^2/2                  |z| <= Delta
//	f(z) = Delta*|z| - Delta^2/2  |z| >  Delta
//
// Its conjugate is the classical result f*(xi) = xi^2/2 restricted to the
// domain |xi| <= Delta (+infinity outside), since f is Delta-Lipschitz.
type huberKernel struct {
	delta float64
}

func (k huberKernel) name() string       { return "huber" }
func (k huberKernel) convex() bool       { return true }
func (k huberKernel) weakConv() float64  { return 0 }
func (k huberKernel) dualStart() float64 { return 0 }

func (k huberKernel) f(z, b float64) float64 {
	u := z - b
	au := math.Abs(u)
	if au <= k.delta {
		return 0.5 * u * u
	}
	return k.delta*au - 0.5*k.delta*k.delta
}

func (k huberKernel) g(z, b float64) float64 {
	u := z - b
	if u > k.delta {
		return k.delta
	}
	if u < -k.delta {
		return -k.delta
	}
	return u
}

func (k huberKernel) fstar(xi, b float64) float64 {
	if math.Abs(xi) > k.delta {
		return prob.FStarSentinel
	}
	return 0.5*xi*xi + xi*b
}

func (k huberKernel) gstar(xi, b float64) float64 {
	if math.Abs(xi) > k.delta {
		return math.Copysign(prob.FStarSentinel, xi) + b
	}
	return xi + b
}

func (k huberKernel) hstar(xi, _ float64) float64 {
	if math.Abs(xi) > k.delta {
		return prob.FStarSentinel
	}
	return 1
}

// NewHuber builds the Huber loss over data with threshold delta > 0.
func NewHuber(data *prob.Dataset, delta float64) prob.Loss {
	if delta <= 0 {
		delta = 1.0
	}
	return &separable{data: data, k: huberKernel{delta: delta}}
}
