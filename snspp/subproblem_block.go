// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snspp

import (
	"github.com/cpmech/snspp/prob"
	"gonum.org/v1/gonum/mat"
)

// blockLayout records, for a sorted batch S, the offset and length of
// each sample's block inside the flattened per-batch dual vector, per
// spec §4.8's ordering convention ("blocks are ordered by ascending
// sample index").
type blockLayout struct {
	sampleOf []int // sampleOf[k] = sample index owning flattened row k
	offset   []int // offset[p] = first flattened row of the p-th sample in S
	length   []int // length[p] = m_i of the p-th sample in S
}

func newBlockLayout(data *prob.Dataset, sortedS []int) blockLayout {
	var bl blockLayout
	total := 0
	for _, i := range sortedS {
		mi := data.M(i)
		bl.offset = append(bl.offset, total)
		bl.length = append(bl.length, mi)
		for r := 0; r < mi; r++ {
			bl.sampleOf = append(bl.sampleOf, i)
		}
		total += mi
	}
	return bl
}

func (bl blockLayout) totalRows() int { return len(bl.sampleOf) }

// blockSubproblem runs the general semismooth Newton solve of spec §4.8,
// the block-dual analog of scalarSubproblem: the same Newton/CG/Armijo
// structure, but f*, g* and H* are evaluated per sample block (possibly
// m_i > 1) instead of per scalar dual coordinate.
func blockSubproblem(l prob.Loss, phi prob.Regularizer, data *prob.Dataset, sortedS []int, as *mat.Dense, xt []float64, xiBlocks0 map[int][]float64, corr []float64, alpha float64, sNum int, np prob.NewtonParams, tolSub float64) (xNew []float64, xiBlocksFinal map[int][]float64, info prob.SSNInfo) {
	bl := newBlockLayout(data, sortedS)
	total := bl.totalRows()

	flatten := func(blocks map[int][]float64) []float64 {
		out := make([]float64, total)
		for p, i := range sortedS {
			copy(out[bl.offset[p]:bl.offset[p]+bl.length[p]], blocks[i])
		}
		return out
	}
	unflatten := func(flat []float64) map[int][]float64 {
		out := make(map[int][]float64, len(sortedS))
		for p, i := range sortedS {
			v := make([]float64, bl.length[p])
			copy(v, flat[bl.offset[p]:bl.offset[p]+bl.length[p]])
			out[i] = v
		}
		return out
	}

	xiFlat := flatten(xiBlocks0)

	computeZ := func(xi []float64) []float64 {
		atv := asTv(as, xi)
		z := make([]float64, len(xt))
		for j := range z {
			z[j] = xt[j] - (alpha/float64(sNum))*atv[j] + corr[j]
		}
		return z
	}

	evalU := func(xi []float64) (u float64, z, proxZ []float64) {
		z = computeZ(xi)
		proxZ = phi.Prox(z, alpha)
		fstarSum := 0.0
		for p, i := range sortedS {
			block := xi[bl.offset[p] : bl.offset[p]+bl.length[p]]
			fstarSum += l.FStar(block, i)
		}
		sqNorm := dot(z, z)
		u = fstarSum + (float64(sNum)/alpha)*(0.5*sqNorm-phi.Moreau(z, alpha))
		return
	}

	computeResidual := func(xi []float64) (r, z, proxZ []float64) {
		_, z, proxZ = evalU(xi)
		azp := asV(as, proxZ)
		r = make([]float64, total)
		for p, i := range sortedS {
			off, ln := bl.offset[p], bl.length[p]
			block := xi[off : off+ln]
			gstar := l.GStar(block, i)
			for k := 0; k < ln; k++ {
				r[off+k] = gstar[k] - azp[off+k]
			}
		}
		return
	}

	// hessianBlocks builds the block-diagonal H*(xi) (per-sample
	// dense m_i x m_i blocks, regularized by epsReg) and returns both its
	// Jacobi diagonal (for the CG preconditioner) and a matvec closure.
	hessianBlocks := func(xi []float64) (diag []float64, applyH func(v []float64) []float64) {
		diag = make([]float64, total)
		blocks := make([][][]float64, len(sortedS))
		for p, i := range sortedS {
			off, ln := bl.offset[p], bl.length[p]
			block := xi[off : off+ln]
			h := l.HStar(block, i)
			blocks[p] = h
			for k := 0; k < ln; k++ {
				diag[off+k] = h[k][k] + epsReg
			}
		}
		applyH = func(v []float64) []float64 {
			out := make([]float64, total)
			for p := range sortedS {
				off, ln := bl.offset[p], bl.length[p]
				h := blocks[p]
				for r := 0; r < ln; r++ {
					s := epsReg * v[off+r]
					for c := 0; c < ln; c++ {
						s += h[r][c] * v[off+c]
					}
					out[off+r] = s
				}
			}
			return out
		}
		return
	}

	var lastZ, lastProxZ []float64
	for iter := 0; iter < np.MaxIter; iter++ {
		r, z, proxZ := computeResidual(xiFlat)
		lastZ, lastProxZ = z, proxZ
		rnorm := norm2(r)
		info.Residuals = append(info.Residuals, rnorm)
		info.Evaluations++
		if rnorm <= tolSub {
			break
		}

		hDiag, applyH := hessianBlocks(xiFlat)
		active := phi.JacobianProx(z, alpha)

		apply := func(v []float64) []float64 {
			u := asTv(as, v)
			for j, on := range active.Active {
				if !on {
					u[j] = 0
				}
			}
			w := asV(as, u)
			hv := applyH(v)
			out := make([]float64, total)
			for i := range out {
				out[i] = hv[i] + (alpha/float64(sNum))*w[i]
			}
			return out
		}

		negR := make([]float64, total)
		for i := range negR {
			negR[i] = -r[i]
		}
		cgTol := min64(np.Eta, pow1p(rnorm, np.Tau))
		d, _, _ := pcg(apply, negR, hDiag, cgTol, np.CGMaxIter)
		info.DirNorms = append(info.DirNorms, norm2(d))

		// directional derivative of u along d is <r, d> (r is the gradient
		// of u at xiFlat); a Newton direction makes this negative.
		rDotD := dot(r, d)
		u0, _, _ := evalU(xiFlat)

		beta := 1.0
		candidate := make([]float64, total)
		var uCand float64
		for backtrack := 0; backtrack < 60; backtrack++ {
			for i := range candidate {
				candidate[i] = xiFlat[i] + beta*d[i]
			}
			uCand, _, _ = evalU(candidate)
			if uCand <= u0+np.Mu*beta*rDotD {
				break
			}
			beta *= np.Rho
		}
		copy(xiFlat, candidate)
		info.StepSizes = append(info.StepSizes, beta)
		info.Objective = append(info.Objective, uCand)
	}

	if len(info.Residuals) == 0 || info.Residuals[len(info.Residuals)-1] > tolSub {
		info.Warning = "block subproblem reached max_iter without meeting tol_sub"
		_, lastZ, lastProxZ = evalU(xiFlat)
	}

	xNew = lastProxZ
	if xNew == nil {
		xNew = phi.Prox(lastZ, alpha)
	}
	xiBlocksFinal = unflatten(xiFlat)
	return
}
