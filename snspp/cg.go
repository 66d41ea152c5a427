// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snspp implements the Semismooth Newton Stochastic Proximal
// Point solver of spec.md §4.6-§4.9: the outer driver, the scalar fast
// path and general block subproblem solvers, and the default step-size
// rule, grounded on original_source/snspp/solver/spp_solver.py and on the
// conjugate-gradient recurrence of
// other_examples/fc9b2df9_gonum-gonum__linsolve-cg.go.go.
package snspp

import "math"

// applyFunc computes W*v for the (implicit, never-assembled) Newton
// matrix W of spec §4.7/§4.8.
type applyFunc func(v []float64) []float64

// pcg solves W x = b by preconditioned conjugate gradient, applying W
// matrix-free via apply and preconditioning with the Jacobi diagonal
// 1/precondDiag, per spec §4.7's "preconditioned by diag(1/H*)". x starts
// at the zero vector, mirroring a fresh Newton direction solve each
// outer/inner step. Returns the solution, the final residual norm, and
// the iteration count actually taken.
func pcg(apply applyFunc, b, precondDiag []float64, tol float64, maxIter int) (x []float64, resNorm float64, iters int) {
	n := len(b)
	x = make([]float64, n)
	r := make([]float64, n)
	copy(r, b)

	applyPrecond := func(v []float64) []float64 {
		out := make([]float64, len(v))
		for i, vi := range v {
			d := precondDiag[i]
			if d <= 0 {
				d = 1
			}
			out[i] = vi / d
		}
		return out
	}

	z := applyPrecond(r)
	p := append([]float64{}, z...)
	rz := dot(r, z)

	resNorm = norm2(r)
	if resNorm <= tol {
		return x, resNorm, 0
	}

	for k := 0; k < maxIter; k++ {
		ap := apply(p)
		pAp := dot(p, ap)
		if math.Abs(pAp) < 1e-300 {
			break
		}
		alpha := rz / pAp
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}
		resNorm = norm2(r)
		iters = k + 1
		if resNorm <= tol {
			break
		}
		z = applyPrecond(r)
		rzNew := dot(r, z)
		beta := rzNew / rz
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
		rz = rzNew
	}
	return x, resNorm, iters
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm2(a []float64) float64 {
	return math.Sqrt(dot(a, a))
}
