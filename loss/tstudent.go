// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loss

import (
	"math"

	"github.com/cpmech/snspp/prob"
)

// tStudentKernel implements the weakly-convex (nonconvex) t-Student loss
// named in spec.md §4.1:
//
//	f(z) = log(1 + (z-b)^2/v)
//
// f is not convex: its second derivative dips to -1/(4v) at (z-b)^2 = 3v,
// so no finite Fenchel conjugate exists on more than a measure-zero set of
// xi (f grows only logarithmically while its slope saturates, so sup_z
// [xi*z - f(z)] diverges for every xi != 0). Per spec §4.7's prescription
// for weakly-convex losses ("an additive correction term restores convex
// structure"), the semismooth Newton subproblem instead uses the
// conjugate of the gamma-convexified surrogate
//
//	h(z) = f(z) + gamma/2 * z^2,  gamma = weakConv() = 1/(4v),
//
// which is convex by construction (h''(z) = f''(z) + gamma >= 0). Its
// conjugate triple is computed by inverting the monotone stationarity
// equation xi = h'(z) = g(z,b) + gamma*z with a safeguarded Newton solve
// (bisection fallback, bracket expansion), in the spirit of
// gosl/num.NlSolver and the bracketed root finders used throughout gofem's
// return-mapping plasticity code.
type tStudentKernel struct {
	v     float64
	gamma float64
}

func newTStudentKernel(v float64) tStudentKernel {
	return tStudentKernel{v: v, gamma: 1 / (4 * v)}
}

func (k tStudentKernel) name() string       { return "tstudent" }
func (k tStudentKernel) convex() bool       { return false }
func (k tStudentKernel) weakConv() float64  { return k.gamma }
func (k tStudentKernel) dualStart() float64 { return 0 }

func (k tStudentKernel) f(z, b float64) float64 {
	u := z - b
	return math.Log1p(u * u / k.v)
}

func (k tStudentKernel) g(z, b float64) float64 {
	u := z - b
	return 2 * u / (k.v + u*u)
}

// d2f returns f''(z), the curvature of the raw (nonconvex) loss.
func (k tStudentKernel) d2f(z, b float64) float64 {
	u := z - b
	denom := k.v + u*u
	return 2 * (k.v - u*u) / (denom * denom)
}

// hPrime and hSecond are the gradient and Hessian of the convexified
// surrogate h(z) = f(z) + gamma/2 z^2.
func (k tStudentKernel) hPrime(z, b float64) float64 {
	return k.g(z, b) + k.gamma*z
}

func (k tStudentKernel) hSecond(z, b float64) float64 {
	return k.d2f(z, b) + k.gamma
}

// solveZ finds the unique z with hPrime(z,b) == xi, exploiting monotonicity
// of hPrime (h is convex). Starts from a bracket straddling the root,
// expanding geometrically, then refines with safeguarded Newton steps that
// fall back to bisection whenever a Newton step would leave the bracket.
func (k tStudentKernel) solveZ(xi, b float64) float64 {
	target := func(z float64) float64 { return k.hPrime(z, b) - xi }

	lo, hi := b-1, b+1
	flo, fhi := target(lo), target(hi)
	for iter := 0; iter < 60 && flo > 0; iter++ {
		lo -= (hi - lo)
		flo = target(lo)
	}
	for iter := 0; iter < 60 && fhi < 0; iter++ {
		hi += (hi - lo)
		fhi = target(hi)
	}

	z := 0.5 * (lo + hi)
	for iter := 0; iter < 80; iter++ {
		fz := target(z)
		if math.Abs(fz) < 1e-13 {
			return z
		}
		if fz < 0 {
			lo = z
		} else {
			hi = z
		}
		d2 := k.hSecond(z, b)
		zNewton := z
		if d2 > 1e-14 {
			zNewton = z - fz/d2
		}
		if zNewton <= lo || zNewton >= hi || d2 <= 1e-14 {
			z = 0.5 * (lo + hi)
		} else {
			z = zNewton
		}
	}
	return z
}

// fstar, gstar and hstar report the conjugate triple of the convexified
// surrogate h, with the gamma/2 z^2 term subtracted back out of the value
// so callers see an additive correction rather than a silently shifted
// function, matching the "additive term" language of spec §4.7.
func (k tStudentKernel) fstar(xi, b float64) float64 {
	z := k.solveZ(xi, b)
	return xi*z - k.f(z, b) - 0.5*k.gamma*z*z
}

func (k tStudentKernel) gstar(xi, b float64) float64 {
	return k.solveZ(xi, b)
}

func (k tStudentKernel) hstar(xi, b float64) float64 {
	z := k.solveZ(xi, b)
	d2 := k.hSecond(z, b)
	if d2 <= 1e-14 {
		return prob.FStarSentinel
	}
	return 1 / d2
}

// NewTStudent builds the t-Student loss over data with scale v > 0.
func NewTStudent(data *prob.Dataset, v float64) prob.Loss {
	if v <= 0 {
		v = 1.0
	}
	return &separable{data: data, k: newTStudentKernel(v)}
}
