// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

import "github.com/cpmech/gosl/chk"

// Solver is implemented by each of the four algorithms this module ships
// (SAGA, SVRG, AdaGrad-prox, SNSPP). Solve runs to completion or until the
// configured iteration cap; cancellation is not supported (spec §5), so
// callers must pre-budget MaxIter/NEpochs.
type Solver interface {
	Solve(p *Problem, verbose, measure bool) (xFinal, xMean []float64, info *Info, err error)
}

// allocators holds the registered solver constructors, keyed by name.
// This mirrors fem.allocators / msolid's model-allocator registry: each
// solver package registers itself from an init() in its own file, so the
// Problem harness never needs to import saga/svrg/adagrad/snspp directly.
var allocators = make(map[string]func() Solver)

// Register adds a solver constructor under name. Solver packages call
// this from an init() function.
func Register(name string, ctor func() Solver) {
	allocators[name] = ctor
}

// Problem owns the loss, regularizer, starting point, and parameters for
// one optimization, and dispatches to a named solver, per the "Problem
// harness" row of spec §2.
type Problem struct {
	Loss   Loss
	Reg    Regularizer
	X0     []float64
	Tol    float64
	Params Params
}

// Solve validates the problem, looks up the named solver ("saga", "svrg",
// "adagrad", or "snspp"), and runs it. This is the single solver-entry
// call of spec §6.
func (p *Problem) Solve(method string, verbose, measure bool) (xFinal, xMean []float64, info *Info, err error) {
	if err = p.validate(); err != nil {
		return nil, nil, nil, err
	}
	ctor, ok := allocators[method]
	if !ok {
		return nil, nil, nil, chk.Err("prob: unknown solver name %q\n", method)
	}
	return ctor().Solve(p, verbose, measure)
}

func (p *Problem) validate() error {
	if p.Loss == nil {
		return chk.Err("prob: loss must not be nil\n")
	}
	if p.Reg == nil {
		return chk.Err("prob: regularizer must not be nil\n")
	}
	n := p.Loss.Data().Ncols()
	if len(p.X0) != n {
		return chk.Err("prob: x0 has dimension %d, A has %d columns\n", len(p.X0), n)
	}
	if p.Tol <= 0 {
		return chk.Err("prob: tol=%g must be > 0\n", p.Tol)
	}
	return p.Params.WithDefaults(p.Loss).Validate()
}
