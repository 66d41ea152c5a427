// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

// Loss represents f(x) = (1/N) sum_i f_i(A_i x), see spec.md §3. Every
// operation must be pure: no hidden state, ξ and i are always passed
// explicitly, per the "cyclic dependency" design note in §9.
type Loss interface {
	// Name identifies the loss ("squared", "logistic", "tstudent", "huber",
	// "pseudo-huber", ...).
	Name() string

	// Convex reports whether f_i is convex for every i.
	Convex() bool

	// Data returns the shared design-matrix collaborator.
	Data() *Dataset

	// F evaluates f_i(z).
	F(z []float64, i int) float64

	// G evaluates g_i(z) = grad f_i(z).
	G(z []float64, i int) []float64

	// FStar evaluates the convex conjugate f_i*(xi). Implementations
	// return a large finite sentinel (not +Inf) outside f_i*'s domain, so
	// that the Armijo line search of spec §4.7 can compare it safely.
	FStar(xi []float64, i int) float64

	// GStar evaluates grad f_i*(xi).
	GStar(xi []float64, i int) []float64

	// HStar evaluates the (m_i x m_i) Hessian of f_i* at xi. For convex
	// losses this is positive semidefinite.
	HStar(xi []float64, i int) [][]float64

	// WeakConv returns gamma_i >= 0, the weak-convexity constant of f_i
	// (zero for convex losses).
	WeakConv(i int) float64

	// DualStart returns the initial dual value xi_i used when a solver is
	// not given a warm-started dual, a loss-specific rule per SPEC_FULL.md §C.
	DualStart(i int) []float64
}

// ScalarLoss is implemented by losses whose blocks all have m_i == 1; it
// is the signal (spec §3, §4.6) that the scalar fast path of §4.7 applies.
// Keeping this as a separate, optional interface rather than a flag on
// Loss mirrors the msolid.Small / msolid.SmallStrainUpdater split used by
// the teacher to distinguish model capabilities.
type ScalarLoss interface {
	Loss

	// FStarVec evaluates f*_i(xi[i]) for every sample in one vectorized
	// pass (xi has length N).
	FStarVec(xi []float64) []float64

	// GStarVec evaluates grad f_i*(xi[i]) for every sample.
	GStarVec(xi []float64) []float64

	// HStarVec evaluates the scalar second derivative f_i''*(xi[i]) for
	// every sample.
	HStarVec(xi []float64) []float64
}

// FStarSentinel is the finite value returned by FStar/GStar/HStar outside
// f_i*'s domain (e.g. logistic f* is +infinity outside xi in [-1,0]); it
// stands in for +Inf so the Armijo line search can do arithmetic on it
// without producing NaNs, per the domain-guard design note in spec §9.
const FStarSentinel = 1e15

