// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adagrad implements the AdaGrad-prox algorithm of spec.md §4.5:
// a stochastic proximal gradient method with a per-coordinate adaptive
// step size accumulated from squared past gradients, written in the
// driver-loop idiom of msolid.Driver.
package adagrad

import (
	"math"
	"math/rand"
	"time"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/snspp/prob"
	"gonum.org/v1/gonum/floats"
)

func init() {
	prob.Register("adagrad", func() prob.Solver { return &Solver{} })
}

// epsilon guards the per-coordinate step diag(alpha/sqrt(s+epsilon))
// against division by zero on coordinates that have not yet seen a
// nonzero gradient.
const epsilon = 1e-8

// Solver implements prob.Solver for AdaGrad-prox.
type Solver struct {
	Rng *rand.Rand
}

func totalObjective(f prob.Loss, phi prob.Regularizer, data *prob.Dataset, x []float64) float64 {
	sum := 0.0
	for i := 0; i < data.N(); i++ {
		sum += f.F(data.AiX(x, i), i)
	}
	return sum/float64(data.N()) + phi.Eval(x)
}

// Solve runs AdaGrad-prox for up to Params.NEpochs*N outer steps, drawing
// a batch of Params.BatchSize samples uniformly at each step. The gradient
// step uses the adaptive diagonal scaling diag(alpha/sqrt(s+epsilon)); the
// proximal step does not: it uses the single scalar step
// alpha/sqrt(meanAccum(s)+epsilon) for every coordinate.
func (s *Solver) Solve(p *prob.Problem, verbose, measure bool) (xFinal, xMean []float64, info *prob.Info, err error) {
	f := p.Loss
	phi := p.Reg
	data := f.Data()
	n := data.Ncols()
	nSamples := data.N()
	params := p.Params.WithDefaults(f)

	batchSize := p.Params.BatchSize
	if batchSize <= 0 {
		batchSize = params.BatchSize
	}

	rng := s.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	alpha := params.Alpha
	if alpha == 0 {
		alpha = 0.1
	}

	xT := append([]float64{}, p.X0...)
	xOld := make([]float64, n)
	accum := make([]float64, n)

	info = &prob.Info{Status: prob.StatusMaxIterations}
	eta := math.Inf(1)
	nSteps := nSamples * params.NEpochs

	var xHist [][]float64
	evalCount := 0.0

	for t := 0; t < nSteps; t++ {
		var start time.Time
		if measure {
			start = time.Now()
		}
		if eta <= p.Tol {
			info.Status = prob.StatusOptimal
			break
		}
		copy(xOld, xT)

		batch := make([]int, batchSize)
		for k := range batch {
			batch[k] = rng.Intn(nSamples)
		}

		g := make([]float64, n)
		for _, j := range batch {
			gj := data.AiTv(f.G(data.AiX(xT, j), j), j)
			for k, v := range gj {
				g[k] += v / float64(batchSize)
			}
			evalCount++
		}

		w := make([]float64, n)
		for k := range w {
			accum[k] += g[k] * g[k]
			step := alpha / math.Sqrt(accum[k]+epsilon)
			w[k] = xT[k] - step*g[k]
		}
		xT = phi.Prox(w, alpha/math.Sqrt(meanAccum(accum)+epsilon))

		if measure {
			info.Runtime = append(info.Runtime, time.Since(start).Seconds())
		}
		if t%nSamples == 1 {
			eta = prob.RelSupNorm(xT, xOld)
		}

		xHist = append(xHist, append([]float64{}, xT...))
		info.StepSizes = append(info.StepSizes, alpha)
		info.Samples = append(info.Samples, batch)
		info.Evaluations = append(info.Evaluations, evalCount/float64(nSamples))

		if measure && t%nSamples == 1 {
			psiT := totalObjective(f, phi, data, xT)
			info.Objective = append(info.Objective, psiT)
			if verbose {
				io.Pf("%4d  psi=%10.4g  alpha=%10.4g  eta=%10.4g\n", t, psiT, alpha, eta)
			}
		}
	}

	if eta > p.Tol && verbose {
		io.Pfyel("adagrad: reached max iterations (%d) with eta=%g > tol=%g\n", nSteps, eta, p.Tol)
	}
	info.Iterates = xHist
	xMean = computeMean(xHist, xT)
	return xT, xMean, info, nil
}

// meanAccum gives the prox step a single scalar effective step size,
// since Regularizer.Prox takes one alpha; the per-coordinate adaptive
// scaling already applied to the gradient step above is what carries
// AdaGrad's anisotropy, and the prox uses the coordinate-averaged scale
// to stay within the shared Prox(x, alpha) contract.
func meanAccum(accum []float64) float64 {
	sum := 0.0
	for _, v := range accum {
		sum += v
	}
	return sum / float64(len(accum))
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
