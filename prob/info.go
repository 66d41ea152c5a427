// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

// Status codes a solver can terminate with, per spec §4.6/§7.
const (
	StatusOptimal       = "optimal"
	StatusMaxIterations = "max iterations reached"
)

// SSNInfo records the per-outer-iteration diagnostics of the semismooth
// Newton subproblem solver (spec §6's "ssn_info" field): residuals,
// direction norms, step sizes taken during Armijo backtracking, the
// subproblem objective trace, and the evaluation count.
type SSNInfo struct {
	Residuals   []float64 // ||r|| after each Newton step
	DirNorms    []float64 // ||d|| (CG solution norm) at each Newton step
	StepSizes   []float64 // Armijo step length beta accepted at each Newton step
	Objective   []float64 // U(xi_S) trace
	Evaluations int       // number of residual evaluations (one per Newton iteration) in this subproblem solve
	Warning     string    // non-empty if a numerical warning was raised (spec §7)
}

// Info is the information record returned alongside the final iterate,
// per the External Interfaces table of spec §6.
type Info struct {
	Objective   []float64   // Psi(x_t) per iteration, only when measure=true
	Iterates    [][]float64 // iterate history, shape (iters, n)
	StepSizes   []float64
	Runtime     []float64 // seconds per iteration
	Samples     [][]int   // batch indices drawn at each iteration
	Evaluations []float64 // cumulative per-sample evaluation count, normalized by N
	SSNInfo     []SSNInfo // only populated by the SNSPP driver

	// MeanIterate is an optional running mean of the iterates. The
	// contract is retained (spec §9(b)) but no solver in this module sets
	// it; each solver returns the arithmetic mean of its recorded iterates
	// as the separate xMean result of Solve instead.
	MeanIterate []float64

	Status string
}
