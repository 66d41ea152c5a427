// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snspp

import (
	"math"
	"math/rand"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/snspp/prob"
	"github.com/cpmech/snspp/sample"
	"gonum.org/v1/gonum/floats"
)

func init() {
	prob.Register("snspp", func() prob.Solver { return &Solver{} })
}

// Solver implements prob.Solver for the Semismooth Newton Stochastic
// Proximal Point method of spec §4.6-§4.9.
type Solver struct {
	Rng *rand.Rand
}

// isScalarPath reports whether the scalar fast path of spec §4.7 applies:
// the loss exposes the *Vec conjugate triple and every sample has m_i = 1.
func isScalarPath(l prob.Loss) (prob.ScalarLoss, bool) {
	sl, ok := l.(prob.ScalarLoss)
	if !ok {
		return nil, false
	}
	data := l.Data()
	for i := 0; i < data.N(); i++ {
		if data.M(i) != 1 {
			return nil, false
		}
	}
	return sl, true
}

func totalObjective(f prob.Loss, phi prob.Regularizer, data *prob.Dataset, x []float64) float64 {
	sum := 0.0
	for i := 0; i < data.N(); i++ {
		sum += f.F(data.AiX(x, i), i)
	}
	return sum/float64(data.N()) + phi.Eval(x)
}

// Solve runs the SNSPP outer driver of spec §4.6 to completion or until
// Params.MaxIter outer iterations elapse.
func (s *Solver) Solve(p *prob.Problem, verbose, measure bool) (xFinal, xMean []float64, info *prob.Info, err error) {
	f := p.Loss
	phi := p.Reg
	data := f.Data()
	nSamples := data.N()
	n := data.Ncols()
	params := p.Params.WithDefaults(f)

	if params.ReduceVariance && !f.Convex() {
		for i := 0; i < nSamples; i++ {
			if data.M(i) != 1 {
				return nil, nil, nil, chk.Err("snspp: variance reduction is not supported for non-convex block losses (sample %d has m_i=%d)\n", i, data.M(i))
			}
		}
	}

	rng := s.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	alpha := params.Alpha
	if alpha == 0 {
		alpha = defaultAlpha(f, params.MIter, params.BatchSize)
	}
	alpha0 := alpha

	schedule := sample.Schedule(params.SampleStyle, params.BatchSize, params.MaxIter)

	scalarLoss, scalar := isScalarPath(f)

	var xi, xiTilde prob.Dual
	if scalar {
		xi = prob.NewScalarDual(nSamples)
	} else {
		m := make([]int, nSamples)
		for i := range m {
			m[i] = data.M(i)
		}
		xi = prob.NewBlockDual(m)
	}
	for i := 0; i < nSamples; i++ {
		xi.Set(i, f.DualStart(i))
	}

	fullG := make([]float64, n)

	xCur := append([]float64{}, p.X0...)
	xPrev := append([]float64{}, xCur...)

	info = &prob.Info{Status: prob.StatusMaxIterations}
	evalCount := 0.0

	for t := 0; t < params.MaxIter; t++ {
		var start time.Time
		if measure {
			start = time.Now()
		}

		if t > 0 {
			eta := prob.RelSupNorm(xCur, xPrev)
			if eta <= p.Tol {
				info.Status = prob.StatusOptimal
				break
			}
		}
		copy(xPrev, xCur)

		batchSize := schedule[t]
		if batchSize > nSamples {
			batchSize = nSamples
		}
		s := sample.Uniform(rng, nSamples, batchSize)

		if params.ReduceVariance && t%params.MIter == params.VRSkip {
			xiTilde = refreshSnapshot(f, data, xCur, scalar)
			fullG = fullGradient(data, xiTilde, n)
			xi = xiTilde.Clone()
			evalCount += float64(nSamples)
		}

		corr := buildCorrection(f, data, xCur, s, alpha, params.ReduceVariance, xiTilde, fullG, n)

		as := data.SubRows(s)

		var xNew []float64
		var ssnInfo prob.SSNInfo
		if scalar {
			xiS := make([]float64, len(s))
			for idx, i := range s {
				xiS[idx] = xi.Get(i)[0]
			}
			var xiSFinal []float64
			xNew, xiSFinal, ssnInfo = scalarSubproblem(scalarLoss, phi, as, xCur, xiS, corr, alpha, params.Newton, params.TolSub)
			for idx, i := range s {
				xi.Set(i, []float64{xiSFinal[idx]})
			}
		} else {
			xiBlocks := make(map[int][]float64, len(s))
			for _, i := range s {
				xiBlocks[i] = xi.Get(i)
			}
			var xiBlocksFinal map[int][]float64
			xNew, xiBlocksFinal, ssnInfo = blockSubproblem(f, phi, data, s, as, xCur, xiBlocks, corr, alpha, len(s), params.Newton, params.TolSub)
			for _, i := range s {
				xi.Set(i, xiBlocksFinal[i])
			}
		}
		evalCount += float64(len(s))
		xCur = xNew

		if !params.ReduceVariance && f.Convex() {
			alpha = alpha0 / math.Pow(float64(t+2), 0.51)
		}

		if measure {
			info.Runtime = append(info.Runtime, time.Since(start).Seconds())
		}
		info.Iterates = append(info.Iterates, append([]float64{}, xCur...))
		info.Samples = append(info.Samples, s)
		info.StepSizes = append(info.StepSizes, alpha)
		info.Evaluations = append(info.Evaluations, evalCount/float64(nSamples))
		info.SSNInfo = append(info.SSNInfo, ssnInfo)

		if measure {
			psiT := totalObjective(f, phi, data, xCur)
			info.Objective = append(info.Objective, psiT)
			if verbose {
				io.Pf("%4d  psi=%10.4g  alpha=%10.4g\n", t, psiT, alpha)
			}
		}
		if verbose && ssnInfo.Warning != "" {
			io.Pfyel("snspp: iteration %d: %s\n", t, ssnInfo.Warning)
		}
	}

	xMean = computeMean(info.Iterates, xCur)
	return xCur, xMean, info, nil
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

// refreshSnapshot recomputes the full dual xi-tilde at x_t, per spec §4.6
// step 3: in the scalar convex case xi_tilde_i = g_i(A_i x_t); in the
// scalar weakly-convex case it is further shifted by gamma_i*(A_i x_t).
func refreshSnapshot(f prob.Loss, data *prob.Dataset, x []float64, scalar bool) prob.Dual {
	n := data.N()
	var d prob.Dual
	if scalar {
		d = prob.NewScalarDual(n)
	} else {
		m := make([]int, n)
		for i := range m {
			m[i] = data.M(i)
		}
		d = prob.NewBlockDual(m)
	}
	for i := 0; i < n; i++ {
		z := data.AiX(x, i)
		g := f.G(z, i)
		if !f.Convex() {
			gamma := f.WeakConv(i)
			for k := range g {
				g[k] += gamma * z[k]
			}
		}
		d.Set(i, g)
	}
	return d
}

// fullGradient computes full_g = (1/N) A^T xi_tilde.
func fullGradient(data *prob.Dataset, xiTilde prob.Dual, n int) []float64 {
	out := make([]float64, n)
	nSamples := data.N()
	for i := 0; i < nSamples; i++ {
		g := data.AiTv(xiTilde.Get(i), i)
		for j, v := range g {
			out[j] += v / float64(nSamples)
		}
	}
	return out
}

// buildCorrection assembles the additive n-dimensional correction of
// spec §4.7: the variance-reduction term d_hat = (alpha/s) A_S^T
// xi_tilde_S - alpha*full_g when VR is active, plus, for weakly-convex
// losses, (alpha/s) A_S^T (gamma_S elementwise-scaling A_S x_t).
func buildCorrection(f prob.Loss, data *prob.Dataset, xt []float64, s []int, alpha float64, vrActive bool, xiTilde prob.Dual, fullG []float64, n int) []float64 {
	corr := make([]float64, n)
	sNum := float64(len(s))

	if vrActive && xiTilde != nil {
		for _, i := range s {
			g := data.AiTv(xiTilde.Get(i), i)
			for j, v := range g {
				corr[j] += (alpha / sNum) * v
			}
		}
		for j, v := range fullG {
			corr[j] -= alpha * v
		}
	}

	if !f.Convex() {
		for _, i := range s {
			gamma := f.WeakConv(i)
			z := data.AiX(xt, i)
			scaled := make([]float64, len(z))
			for k := range z {
				scaled[k] = gamma * z[k]
			}
			g := data.AiTv(scaled, i)
			for j, v := range g {
				corr[j] += (alpha / sNum) * v
			}
		}
	}

	return corr
}
