// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package saga implements the SAGA algorithm of spec.md §4.4: a
// finite-sum variance-reduced stochastic proximal gradient method with an
// exact gradient table, grounded on original_source/snspp/solver/saga.py
// and written in the driver-loop idiom of msolid.Driver.
package saga

import (
	"math"
	"math/rand"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/snspp/prob"
	"gonum.org/v1/gonum/floats"
)

func init() {
	prob.Register("saga", func() prob.Solver { return &Solver{} })
}

// Solver implements prob.Solver for SAGA.
type Solver struct {
	// Rng lets callers pin the sample draw for reproducibility; a fresh
	// time-seeded source is used when nil.
	Rng *rand.Rand
}

// lossFamilyConstant returns L_i, the loss-family Lipschitz constant of
// spec §4.9, used to derive SAGA's default step size when the caller does
// not supply alpha. Families outside the closed-form table fall back to a
// conservative constant with a logged warning, matching the reference
// implementation's warnings.warn path.
func lossFamilyConstant(name string) (li float64, known bool) {
	switch name {
	case "squared":
		return 2, true
	case "logistic":
		return 0.25, true
	default:
		return 100, false
	}
}

// Solve runs SAGA to completion, for up to Params.NEpochs*N inner steps
// (one sample draw per step), per spec §4.4/§4.6's NEpochs convention.
func (s *Solver) Solve(p *prob.Problem, verbose, measure bool) (xFinal, xMean []float64, info *prob.Info, err error) {
	f := p.Loss
	phi := p.Reg
	data := f.Data()
	n := data.Ncols()
	nSamples := data.N()
	params := p.Params.WithDefaults(f)

	rng := s.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	xT := append([]float64{}, p.X0...)
	xOld := append([]float64{}, xT...)

	alpha := params.Alpha
	if alpha == 0 {
		li, known := lossFamilyConstant(f.Name())
		if !known {
			io.Pfyel("saga: could not determine a loss-specific step size for %q; using a conservative default\n", f.Name())
		}
		l := li * data.MaxNorm2()
		alpha = 1 / (3 * l)
	}

	gradients := make([][]float64, nSamples)
	gSum := make([]float64, n)
	for i := 0; i < nSamples; i++ {
		g := data.AiTv(f.G(data.AiX(xT, i), i), i)
		gradients[i] = g
		for j, gj := range g {
			gSum[j] += gj / float64(nSamples)
		}
	}

	info = &prob.Info{Status: prob.StatusMaxIterations}
	eta := math.Inf(1)
	iterT := 0
	nEpochSteps := nSamples * params.NEpochs

	var xHist [][]float64
	evalCount := 0.0

	for iterT = 0; iterT < nEpochSteps; iterT++ {
		var start time.Time
		if measure {
			start = time.Now()
		}
		if eta <= p.Tol {
			info.Status = prob.StatusOptimal
			break
		}
		copy(xOld, xT)

		j := rng.Intn(nSamples)
		z := data.AiX(xT, j)
		g := data.AiTv(f.G(z, j), j)
		evalCount++

		gj := gradients[j]
		w := make([]float64, n)
		for k := range w {
			oldG := gSum[k] - gj[k]
			w[k] = xT[k] - alpha*(g[k]+oldG)
		}
		for k := range gSum {
			gSum[k] += (g[k] - gj[k]) / float64(nSamples)
		}
		gradients[j] = g

		xT = phi.Prox(w, alpha)

		if measure {
			info.Runtime = append(info.Runtime, time.Since(start).Seconds())
		}
		if iterT%nSamples == 1 {
			eta = prob.RelSupNorm(xT, xOld)
		}

		xHist = append(xHist, append([]float64{}, xT...))
		info.StepSizes = append(info.StepSizes, alpha)
		info.Samples = append(info.Samples, []int{j})
		info.Evaluations = append(info.Evaluations, evalCount/float64(nSamples))

		if measure && iterT%nSamples == 1 {
			psiT := totalObjective(f, phi, data, xT)
			info.Objective = append(info.Objective, psiT)
			if verbose {
				io.Pf("%4d  psi=%10.4g  alpha=%10.4g  eta=%10.4g\n", iterT, psiT, alpha, eta)
			}
		}
	}

	if eta > p.Tol && verbose {
		io.Pfyel("saga: reached max iterations (%d) with eta=%g > tol=%g\n", nEpochSteps, eta, p.Tol)
	}
	info.Iterates = xHist
	xMean = computeMean(xHist, xT)
	return xT, xMean, info, nil
}

func totalObjective(f prob.Loss, phi prob.Regularizer, data *prob.Dataset, x []float64) float64 {
	sum := 0.0
	for i := 0; i < data.N(); i++ {
		sum += f.F(data.AiX(x, i), i)
	}
	return sum/float64(data.N()) + phi.Eval(x)
}

func computeMean(hist [][]float64, fallback []float64) []float64 {
	if len(hist) == 0 {
		return append([]float64{}, fallback...)
	}
	mean := make([]float64, len(hist[0]))
	for _, x := range hist {
		floats.Add(mean, x)
	}
	floats.Scale(1/float64(len(hist)), mean)
	return mean
}
