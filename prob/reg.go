// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

// Regularizer represents phi, a (possibly non-smooth) convex regularizer
// with a computable proximal operator, see spec.md §3/§4.2.
type Regularizer interface {
	// Name identifies the regularizer ("1norm", ...).
	Name() string

	// Eval evaluates phi(x).
	Eval(x []float64) float64

	// Prox evaluates prox_{alpha*phi}(x) = argmin_z alpha*phi(z) + 1/2||z-x||^2.
	// alpha must be > 0.
	Prox(x []float64, alpha float64) []float64

	// JacobianProx returns the generalized Jacobian of prox_{alpha*phi} at
	// point (typically z = prox_{alpha*phi}(something)), represented as an
	// active-set bitmap rather than a dense matrix, per the sparse-Jacobian
	// design note in spec §9.
	JacobianProx(point []float64, alpha float64) ActiveSet

	// Moreau evaluates the Moreau envelope M_{alpha*phi}(x).
	Moreau(x []float64, alpha float64) float64
}

// ActiveSet is a 0/1 diagonal Jacobian represented as a bitmap plus the
// list of active column indices, so Newton-matrix assembly in spec §4.7
// can restrict itself to an O(s*k) active-column submatrix instead of a
// dense s x s product.
type ActiveSet struct {
	Active []bool
	Idx    []int
}

// NewActiveSet builds an ActiveSet from a boolean mask.
func NewActiveSet(active []bool) ActiveSet {
	idx := make([]int, 0, len(active))
	for j, a := range active {
		if a {
			idx = append(idx, j)
		}
	}
	return ActiveSet{Active: active, Idx: idx}
}

// Size returns the number of active coordinates, k.
func (s ActiveSet) Size() int { return len(s.Idx) }
