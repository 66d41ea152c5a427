// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svrg implements the SVRG algorithm of spec.md §4.4: an
// outer/inner loop variance-reduced stochastic proximal gradient method
// built around a periodically refreshed full-gradient snapshot, written
// in the driver-loop idiom of msolid.Driver and grounded on the same
// finite-sum structure as saga.Solver.
package svrg

import (
	"math"
	"math/rand"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/snspp/prob"
	"gonum.org/v1/gonum/floats"
)

func init() {
	prob.Register("svrg", func() prob.Solver { return &Solver{} })
}

// Solver implements prob.Solver for SVRG.
type Solver struct {
	Rng *rand.Rand
}

// fullGradient computes (1/N) sum_i A_i^T g_i(A_i x), the snapshot
// gradient an SVRG outer iteration refreshes.
func fullGradient(f prob.Loss, data *prob.Dataset, x []float64) []float64 {
	n := data.Ncols()
	g := make([]float64, n)
	for i := 0; i < data.N(); i++ {
		gi := data.AiTv(f.G(data.AiX(x, i), i), i)
		for j, v := range gi {
			g[j] += v / float64(data.N())
		}
	}
	return g
}

func totalObjective(f prob.Loss, phi prob.Regularizer, data *prob.Dataset, x []float64) float64 {
	sum := 0.0
	for i := 0; i < data.N(); i++ {
		sum += f.F(data.AiX(x, i), i)
	}
	return sum/float64(data.N()) + phi.Eval(x)
}

// Solve runs SVRG for up to Params.NEpochs outer iterations, each
// consisting of a full-gradient snapshot refresh followed by an inner
// loop of innerLen corrected stochastic proximal steps (innerLen =
// Params.BatchSize if set, else N), per spec §4.4/§4.6's NEpochs
// convention and §4.11's stopping criterion.
func (s *Solver) Solve(p *prob.Problem, verbose, measure bool) (xFinal, xMean []float64, info *prob.Info, err error) {
	f := p.Loss
	phi := p.Reg
	data := f.Data()
	nSamples := data.N()
	params := p.Params.WithDefaults(f)

	innerLen := p.Params.BatchSize
	if innerLen <= 0 {
		innerLen = nSamples
	}

	rng := s.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	alpha := params.Alpha
	if alpha == 0 {
		li, known := lossFamilyConstant(f.Name())
		if !known {
			io.Pfyel("svrg: could not determine a loss-specific step size for %q; using a conservative default\n", f.Name())
		}
		l := li * data.MaxNorm2()
		alpha = 1 / (3 * l)
	}

	xSnap := append([]float64{}, p.X0...)
	xT := append([]float64{}, xSnap...)
	xOld := make([]float64, len(xT))

	info = &prob.Info{Status: prob.StatusMaxIterations}
	eta := math.Inf(1)
	var xHist [][]float64
	evalCount := 0.0

	for epoch := 0; epoch < params.NEpochs; epoch++ {
		if eta <= p.Tol {
			info.Status = prob.StatusOptimal
			break
		}
		fullGrad := fullGradient(f, data, xSnap)
		evalCount += float64(nSamples)
		copy(xOld, xT)

		for inner := 0; inner < innerLen; inner++ {
			var start time.Time
			if measure {
				start = time.Now()
			}
			j := rng.Intn(nSamples)
			gCur := data.AiTv(f.G(data.AiX(xT, j), j), j)
			gSnap := data.AiTv(f.G(data.AiX(xSnap, j), j), j)
			evalCount += 2

			w := make([]float64, len(xT))
			for k := range w {
				w[k] = xT[k] - alpha*(gCur[k]-gSnap[k]+fullGrad[k])
			}
			xT = phi.Prox(w, alpha)

			if measure {
				info.Runtime = append(info.Runtime, time.Since(start).Seconds())
			}
			info.StepSizes = append(info.StepSizes, alpha)
			info.Samples = append(info.Samples, []int{j})
			info.Evaluations = append(info.Evaluations, evalCount/float64(nSamples))
		}

		xHist = append(xHist, append([]float64{}, xT...))
		eta = prob.RelSupNorm(xT, xOld)
		xSnap = append(xSnap[:0], xT...)

		if measure {
			psiT := totalObjective(f, phi, data, xT)
			info.Objective = append(info.Objective, psiT)
			if verbose {
				io.Pf("%4d  psi=%10.4g  alpha=%10.4g  eta=%10.4g\n", epoch, psiT, alpha, eta)
			}
		}
	}

	if eta > p.Tol && verbose {
		io.Pfyel("svrg: reached max iterations (%d epochs) with eta=%g > tol=%g\n", params.NEpochs, eta, p.Tol)
	}
	info.Iterates = xHist
	xMean = computeMean(xHist, xT)
	return xT, xMean, info, nil
}

// lossFamilyConstant mirrors saga.lossFamilyConstant; kept local to avoid
// an svrg -> saga import for a two-line lookup table.
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
