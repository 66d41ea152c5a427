// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snspp

import (
	"math"

	"github.com/cpmech/snspp/prob"
	"gonum.org/v1/gonum/mat"
)

// epsReg is the Newton-matrix Tikhonov regularization named in spec
// §4.7 ("H* = diag(H*(xi_l)) + eps_reg I").
const epsReg = 1e-4

// asTv computes A_S^T v, v in R^s, result in R^n.
func asTv(as *mat.Dense, v []float64) []float64 {
	rows, cols := as.Dims()
	out := make([]float64, cols)
	for r := 0; r < rows; r++ {
		if v[r] == 0 {
			continue
		}
		row := as.RawRowView(r)
		for j, a := range row {
			out[j] += a * v[r]
		}
	}
	return out
}

// asV computes A_S x, x in R^n, result in R^s.
func asV(as *mat.Dense, x []float64) []float64 {
	rows, _ := as.Dims()
	out := make([]float64, rows)
	for r := 0; r < rows; r++ {
		out[r] = dot(as.RawRowView(r), x)
	}
	return out
}

// scalarSubproblem runs the semismooth Newton solve of spec §4.7 on
// batch S (m_i = 1 for every i in S), returning the next iterate, the
// updated dual values on S, and the per-call diagnostics record.
//
// corr is the already-assembled n-dimensional additive correction
// (variance-reduction term plus, for weakly-convex losses, the
// gamma-shift term); it is added directly into z(xi_S), since both
// corrections live in the same R^n space as x_t.
func scalarSubproblem(l prob.ScalarLoss, phi prob.Regularizer, as *mat.Dense, xt, xiS0, corr []float64, alpha float64, np prob.NewtonParams, tolSub float64) (xNew, xiSFinal []float64, info prob.SSNInfo) {
	s := len(xiS0)
	xiS := append([]float64{}, xiS0...)

	computeZ := func(xi []float64) []float64 {
		atv := asTv(as, xi)
		z := make([]float64, len(xt))
		for j := range z {
			z[j] = xt[j] - (alpha/float64(s))*atv[j] + corr[j]
		}
		return z
	}

	evalU := func(xi []float64) (u float64, z, proxZ []float64) {
		z = computeZ(xi)
		proxZ = phi.Prox(z, alpha)
		fstarSum := 0.0
		for _, v := range l.FStarVec(xi) {
			fstarSum += v
		}
		sqNorm := dot(z, z)
		u = fstarSum + (float64(s)/alpha)*(0.5*sqNorm-phi.Moreau(z, alpha))
		_ = proxZ
		return
	}

	computeResidual := func(xi []float64) (r, z, proxZ []float64) {
		var u float64
		u, z, proxZ = evalU(xi)
		_ = u
		gstar := l.GStarVec(xi)
		azp := asV(as, proxZ)
		r = make([]float64, s)
		for i := range r {
			r[i] = gstar[i] - azp[i]
		}
		return
	}

	var lastZ, lastProxZ []float64
	for iter := 0; iter < np.MaxIter; iter++ {
		r, z, proxZ := computeResidual(xiS)
		lastZ, lastProxZ = z, proxZ
		rnorm := norm2(r)
		info.Residuals = append(info.Residuals, rnorm)
		info.Evaluations++
		if rnorm <= tolSub {
			break
		}

		hstar := l.HStarVec(xiS)
		hDiag := make([]float64, s)
		for i := range hDiag {
			hDiag[i] = hstar[i] + epsReg
		}
		active := phi.JacobianProx(z, alpha)

		apply := func(v []float64) []float64 {
			u := asTv(as, v)
			for j, on := range active.Active {
				if !on {
					u[j] = 0
				}
			}
			w := asV(as, u)
			out := make([]float64, s)
			for i := range out {
				out[i] = hDiag[i]*v[i] + (alpha/float64(s))*w[i]
			}
			return out
		}

		negR := make([]float64, s)
		for i := range negR {
			negR[i] = -r[i]
		}
		cgTol := min64(np.Eta, pow1p(rnorm, np.Tau))
		d, _, _ := pcg(apply, negR, hDiag, cgTol, np.CGMaxIter)
		info.DirNorms = append(info.DirNorms, norm2(d))

		// directional derivative of u along d is <r, d> (r is the gradient
		// of u at xiS); a Newton direction makes this negative.
		rDotD := dot(r, d)
		u0, _, _ := evalU(xiS)

		beta := 1.0
		candidate := make([]float64, s)
		var uCand float64
		for backtrack := 0; backtrack < 60; backtrack++ {
			for i := range candidate {
				candidate[i] = xiS[i] + beta*d[i]
			}
			uCand, _, _ = evalU(candidate)
			if uCand <= u0+np.Mu*beta*rDotD {
				break
			}
			beta *= np.Rho
		}
		copy(xiS, candidate)
		info.StepSizes = append(info.StepSizes, beta)
		info.Objective = append(info.Objective, uCand)
	}

	if len(info.Residuals) == 0 || info.Residuals[len(info.Residuals)-1] > tolSub {
		info.Warning = "scalar subproblem reached max_iter without meeting tol_sub"
		_, lastZ, lastProxZ = evalU(xiS)
	}

	xNew = lastProxZ
	if xNew == nil {
		xNew = phi.Prox(lastZ, alpha)
	}
	xiSFinal = xiS
	return
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// pow1p returns x^(1+tau), the forcing-term exponent of spec §4.7's CG
// tolerance min(eta_newton, ||r||^(1+tau)).
func pow1p(x, tau float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(x, 1+tau)
}
