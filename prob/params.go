// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

import "github.com/cpmech/gosl/chk"

// SampleStyle selects the batch-size schedule of spec §4.6/§4.10.
type SampleStyle int

const (
	SampleConstant SampleStyle = iota
	SampleIncreasing
	SampleFastIncreasing
)

// NewtonParams configures the semismooth Newton subproblem solver of
// spec §4.7/§4.8, mirroring the msolid.Driver convention of a small
// struct of exported tuning knobs rather than an open property bag.
type NewtonParams struct {
	Tau       float64 // exponent of the forcing term ||r||^(1+tau), 0 < tau <= 1
	Eta       float64 // eta_newton, 0 < eta < 1
	Rho       float64 // Armijo backtracking factor, 0 < rho < 1
	Mu        float64 // Armijo sufficient-decrease constant, 0 < mu < 0.5
	CGMaxIter int     // max conjugate-gradient iterations per Newton step
	MaxIter   int     // max Newton iterations
}

// DefaultNewtonParams matches the reference implementation's defaults
// (SPEC_FULL.md §C.2).
func DefaultNewtonParams() NewtonParams {
	return NewtonParams{Tau: 0.9, Eta: 1e-5, Rho: 0.5, Mu: 0.4, CGMaxIter: 12, MaxIter: 20}
}

// Validate checks the ranges spec §6 requires, failing with an
// invalid-argument error (never a panic) since these come from the caller.
func (p NewtonParams) Validate() error {
	if !(p.Mu > 0 && p.Mu < 0.5) {
		return chk.Err("newton_params.mu=%g must satisfy 0 < mu < 0.5\n", p.Mu)
	}
	if !(p.Eta > 0 && p.Eta < 1) {
		return chk.Err("newton_params.eta=%g must satisfy 0 < eta < 1\n", p.Eta)
	}
	if !(p.Tau > 0 && p.Tau <= 1) {
		return chk.Err("newton_params.tau=%g must satisfy 0 < tau <= 1\n", p.Tau)
	}
	if !(p.Rho > 0 && p.Rho < 1) {
		return chk.Err("newton_params.rho=%g must satisfy 0 < rho < 1\n", p.Rho)
	}
	if p.CGMaxIter < 1 {
		return chk.Err("newton_params.cg_max_iter=%d must be >= 1\n", p.CGMaxIter)
	}
	if p.MaxIter < 1 {
		return chk.Err("newton_params.max_iter=%d must be >= 1\n", p.MaxIter)
	}
	return nil
}

// Params is the configuration block shared by every solver in this
// module, per the External Interfaces table of spec §6. WithDefaults fills
// in zero-valued MaxIter, NEpochs, MIter, TolSub, BatchSize and Newton; it
// leaves ReduceVariance, VRSkip and SampleStyle as given (a false
// ReduceVariance stays false; DefaultParams sets it true), and a zero Alpha
// is resolved by each solver. This mirrors msolid.Driver's exported-field
// configuration style rather than a generic map.
type Params struct {
	MaxIter        int         // outer iteration cap
	NEpochs        int         // alternative cap for SAGA/SVRG/AdaGrad (x N inner steps)
	BatchSize      int         // samples per outer iteration
	Alpha          float64     // step size; 0 means "derive a default"
	ReduceVariance bool        // enable VR for SNSPP
	MIter          int         // VR refresh period
	VRSkip         int         // outer-iteration offset for the VR snapshot
	TolSub         float64     // subproblem residual tolerance
	SampleStyle    SampleStyle // {constant, increasing, fast_increasing}
	Newton         NewtonParams
}

// DefaultParams returns the zero-value-safe defaults named in
// SPEC_FULL.md §C.2: batch_size derived at WithDefaults time from N
// (max(N*0.005, 1)), m_iter = 10, and the Newton defaults above.
func DefaultParams() Params {
	return Params{
		MaxIter:        100,
		NEpochs:        10,
		ReduceVariance: true,
		MIter:          10,
		VRSkip:         0,
		TolSub:         1e-3,
		SampleStyle:    SampleConstant,
		Newton:         DefaultNewtonParams(),
	}
}

// WithDefaults fills in zero-valued fields using loss-derived defaults and
// returns the completed configuration; it does not mutate the receiver.
func (p Params) WithDefaults(l Loss) Params {
	out := p
	if out.MaxIter == 0 {
		out.MaxIter = 100
	}
	if out.NEpochs == 0 {
		out.NEpochs = 10
	}
	if out.MIter == 0 {
		out.MIter = 10
	}
	if out.TolSub == 0 {
		out.TolSub = 1e-3
	}
	if out.BatchSize == 0 {
		n := l.Data().N()
		b := int(float64(n) * 0.005)
		if b < 1 {
			b = 1
		}
		out.BatchSize = b
	}
	if out.Newton == (NewtonParams{}) {
		out.Newton = DefaultNewtonParams()
	}
	return out
}

// Validate checks the ranges spec §6 requires.
func (p Params) Validate() error {
	if p.Alpha < 0 {
		return chk.Err("alpha=%g must be > 0 (or 0 to request a default)\n", p.Alpha)
	}
	if p.BatchSize < 0 {
		return chk.Err("batch_size=%d must be >= 1\n", p.BatchSize)
	}
	if p.TolSub <= 0 {
		return chk.Err("tol_sub=%g must be > 0\n", p.TolSub)
	}
	return p.Newton.Validate()
}
