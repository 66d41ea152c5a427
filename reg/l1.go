// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reg implements the Regularizer contract of prob for the
// regularizer families named in spec.md §3/§4.2: the l1 norm (LASSO) and
// the zero regularizer (unconstrained/plain ERM problems).
package reg

import (
	"math"

	"github.com/cpmech/snspp/prob"
)

// L1 implements phi(x) = lambda * ||x||_1.
type L1 struct {
	Lambda float64
}

// NewL1 builds the l1 regularizer with weight lambda >= 0.
func NewL1(lambda float64) *L1 {
	return &L1{Lambda: lambda}
}

func (r *L1) Name() string { return "1norm" }

func (r *L1) Eval(x []float64) float64 {
	sum := 0.0
	for _, xj := range x {
		sum += math.Abs(xj)
	}
	return r.Lambda * sum
}

// Prox is the classical soft-threshold operator:
//
//	prox(x)_j = sign(x_j) * max(|x_j| - alpha*lambda, 0)
func (r *L1) Prox(x []float64, alpha float64) []float64 {
	thresh := alpha * r.Lambda
	out := make([]float64, len(x))
	for j, xj := range x {
		out[j] = softThreshold(xj, thresh)
	}
	return out
}

func softThreshold(x, thresh float64) float64 {
	if x > thresh {
		return x - thresh
	}
	if x < -thresh {
		return x + thresh
	}
	return 0
}

// JacobianProx returns the active set where |point_j| > alpha*lambda: the
// soft-threshold map has derivative 1 there and 0 elsewhere (the kink at
// |point_j| == alpha*lambda is measure zero and treated as inactive, per
// the generalized-Jacobian convention of spec §4.7).
func (r *L1) JacobianProx(point []float64, alpha float64) prob.ActiveSet {
	thresh := alpha * r.Lambda
	active := make([]bool, len(point))
	for j, pj := range point {
		active[j] = math.Abs(pj) > thresh
	}
	return prob.NewActiveSet(active)
}

// Moreau evaluates the Moreau envelope of alpha*phi at x in closed form,
// M(x) = sum_j m(x_j), where each coordinate's scalar envelope is
//
//	m(t) = alpha*lambda*|t| - alpha^2*lambda^2/2   |t| > alpha*lambda
//	m(t) = t^2/2                                   |t| <= alpha*lambda
func (r *L1) Moreau(x []float64, alpha float64) float64 {
	thresh := alpha * r.Lambda
	sum := 0.0
	for _, t := range x {
		at := math.Abs(t)
		if at > thresh {
			sum += thresh*at - 0.5*thresh*thresh
		} else {
			sum += 0.5 * t * t
		}
	}
	return sum
}

// Zero implements the trivial regularizer phi(x) = 0, for plain ERM
// problems with no penalty term.
type Zero struct{}

func (Zero) Name() string             { return "zero" }
func (Zero) Eval(x []float64) float64 { return 0 }
func (Zero) Prox(x []float64, _ float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
// JacobianProx is the identity's Jacobian: every coordinate is active.
func (Zero) JacobianProx(point []float64, _ float64) prob.ActiveSet {
	active := make([]bool, len(point))
	for j := range active {
		active[j] = true
	}
	return prob.NewActiveSet(active)
}
func (Zero) Moreau(x []float64, _ float64) float64 { return 0 }
