// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prob holds the shared contracts (Loss, Regularizer, Dual,
// Problem) that every solver in this module is built against, together
// with the problem harness that owns them and dispatches to a solver.
package prob

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Dataset is the design-matrix collaborator shared by every Loss
// implementation: A with rows grouped per sample (sample i owns m_i
// consecutive rows), and the target vector b. It is built once and
// treated as immutable by every solver, mirroring the msolid.Driver
// convention of owning its inputs for the lifetime of a single Init/Run.
type Dataset struct {
	a      *mat.Dense
	b      []float64
	m      []int
	offset []int // offset[i] = first row index of sample i in A
	ncols  int
}

// NewDataset validates and builds a Dataset. If m is nil, every sample is
// assigned a single row (m_i = 1 for all i), the common "easy" case.
func NewDataset(a *mat.Dense, b []float64, m []int) (*Dataset, error) {
	rows, cols := a.Dims()
	if m == nil {
		m = make([]int, rows)
		for i := range m {
			m[i] = 1
		}
	}
	sum := 0
	offset := make([]int, len(m))
	for i, mi := range m {
		if mi < 1 {
			return nil, chk.Err("dataset: m[%d]=%d must be >= 1\n", i, mi)
		}
		offset[i] = sum
		sum += mi
	}
	if sum != rows {
		return nil, chk.Err("dataset: sum(m)=%d does not match A's %d rows\n", sum, rows)
	}
	if len(b) != rows {
		return nil, chk.Err("dataset: len(b)=%d does not match A's %d rows\n", len(b), rows)
	}
	return &Dataset{a: a, b: b, m: m, offset: offset, ncols: cols}, nil
}

// N returns the number of samples.
func (d *Dataset) N() int { return len(d.m) }

// Ncols returns n, the number of columns of A (the dimension of x).
func (d *Dataset) Ncols() int { return d.ncols }

// M returns m_i, the block size of sample i.
func (d *Dataset) M(i int) int { return d.m[i] }

// Rows returns the (first, count) row range owned by sample i.
func (d *Dataset) Rows(i int) (first, count int) { return d.offset[i], d.m[i] }

// A returns the full design matrix.
func (d *Dataset) A() *mat.Dense { return d.a }

// B returns the target vector.
func (d *Dataset) B() []float64 { return d.b }

// Bi returns the slice of b owned by sample i.
func (d *Dataset) Bi(i int) []float64 {
	first, count := d.offset[i], d.m[i]
	return d.b[first : first+count]
}

// AiX returns A_i x, the m_i-vector of linear measurements for sample i.
func (d *Dataset) AiX(x []float64, i int) []float64 {
	first, count := d.offset[i], d.m[i]
	z := make([]float64, count)
	for r := 0; r < count; r++ {
		row := d.a.RawRowView(first + r)
		s := 0.0
		for j, aij := range row {
			s += aij * x[j]
		}
		z[r] = s
	}
	return z
}

// AiTv returns A_i^T v, scattering an m_i-vector v back into n-space via
// sample i's rows.
func (d *Dataset) AiTv(v []float64, i int) []float64 {
	first, count := d.offset[i], d.m[i]
	out := make([]float64, d.ncols)
	for r := 0; r < count; r++ {
		row := d.a.RawRowView(first + r)
		for j, aij := range row {
			out[j] += aij * v[r]
		}
	}
	return out
}

// Norm2 returns ||A_i||^2 (squared Frobenius norm of sample i's row block),
// the quantity the default step sizes of §4.3 and §4.9 are built from.
func (d *Dataset) Norm2(i int) float64 {
	first, count := d.offset[i], d.m[i]
	s := 0.0
	for r := 0; r < count; r++ {
		row := d.a.RawRowView(first + r)
		for _, v := range row {
			s += v * v
		}
	}
	return s
}

// MaxNorm2 and MeanNorm2 support the default step-size formula of §4.9.
func (d *Dataset) MaxNorm2() float64 {
	max := 0.0
	for i := 0; i < d.N(); i++ {
		if v := d.Norm2(i); v > max {
			max = v
		}
	}
	return max
}

func (d *Dataset) MeanNorm2() float64 {
	sum := 0.0
	for i := 0; i < d.N(); i++ {
		sum += d.Norm2(i)
	}
	return sum / float64(d.N())
}

// SubRows builds A_S, the row-stacked design matrix for batch S. S need not
// be sorted by sample index on entry for the scalar fast path (m_i=1
// everywhere, so sample order and row order coincide); for the block case
// callers must pre-sort S ascending, per spec §4.8's ordering convention.
func (d *Dataset) SubRows(S []int) *mat.Dense {
	totalRows := 0
	for _, i := range S {
		totalRows += d.m[i]
	}
	out := mat.NewDense(totalRows, d.ncols, nil)
	r := 0
	for _, i := range S {
		first, count := d.offset[i], d.m[i]
		for k := 0; k < count; k++ {
			out.SetRow(r, d.a.RawRowView(first+k))
			r++
		}
	}
	return out
}
