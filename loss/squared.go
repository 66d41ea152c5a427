// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loss

import "github.com/cpmech/snspp/prob"

// squaredKernel implements f(z) = 1/2 (z-b)^2, the reference convex loss
// used in the LASSO end-to-end scenario of spec.md §8.
type squaredKernel struct{}

func (squaredKernel) name() string       { return "squared" }
func (squaredKernel) convex() bool       { return true }
func (squaredKernel) weakConv() float64  { return 0 }
func (squaredKernel) dualStart() float64 { return 0 }

func (squaredKernel) f(z, b float64) float64 {
	d := z - b
	return 0.5 * d * d
}

func (squaredKernel) g(z, b float64) float64 { return z - b }

// fstar(xi) = 1/2 xi^2 + xi*b, the conjugate of 1/2(z-b)^2.
func (squaredKernel) fstar(xi, b float64) float64 { return 0.5*xi*xi + xi*b }

func (squaredKernel) gstar(xi, b float64) float64 { return xi + b }

func (squaredKernel) hstar(xi, b float64) float64 { return 1 }

// NewSquared builds the squared-error loss over data.
func NewSquared(data *prob.Dataset) prob.Loss {
	return &separable{data: data, k: squaredKernel{}}
}
