// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

import "github.com/cpmech/gosl/chk"

// Dual is the Lagrangian variable xi associated with the constraint
// z_i = A_i x inside the proximal subproblem. The source preserves two
// representations (array vs index->block); spec §9 asks that this split
// be kept explicit as two typed entities behind one shared interface,
// mirroring the msolid.Small / msolid.Large split used by the teacher to
// separate small- and large-deformation solid models.
type Dual interface {
	// N returns the number of samples this dual covers.
	N() int

	// Get returns a copy of xi_i.
	Get(i int) []float64

	// Set overwrites xi_i.
	Set(i int, v []float64)

	// Clone performs a deep copy.
	Clone() Dual

	// Flatten concatenates every block into one slice, ordered by sample
	// index ascending (used to build ξ̃-derived quantities such as
	// full_g = (1/N) A^T ξ̃).
	Flatten() []float64
}

// ScalarDual is the dual representation used when every sample has
// m_i == 1: a flat array of length N, enabling the fast scalar indexing
// that is the whole point of the "easy" path in spec §4.7.
type ScalarDual struct {
	Xi []float64
}

// NewScalarDual allocates a ScalarDual of length n.
func NewScalarDual(n int) *ScalarDual { return &ScalarDual{Xi: make([]float64, n)} }

func (d *ScalarDual) N() int { return len(d.Xi) }

func (d *ScalarDual) Get(i int) []float64 { return []float64{d.Xi[i]} }

func (d *ScalarDual) Set(i int, v []float64) { d.Xi[i] = v[0] }

func (d *ScalarDual) Clone() Dual {
	out := make([]float64, len(d.Xi))
	copy(out, d.Xi)
	return &ScalarDual{Xi: out}
}

func (d *ScalarDual) Flatten() []float64 {
	out := make([]float64, len(d.Xi))
	copy(out, d.Xi)
	return out
}

// BlockDual is the general-case dual representation: a mapping from
// sample index to an m_i-vector, used whenever any sample has m_i > 1.
type BlockDual struct {
	Xi map[int][]float64
	m  []int
}

// NewBlockDual allocates a BlockDual with block sizes m (m[i] = m_i).
func NewBlockDual(m []int) *BlockDual {
	xi := make(map[int][]float64, len(m))
	for i, mi := range m {
		xi[i] = make([]float64, mi)
	}
	return &BlockDual{Xi: xi, m: append([]int(nil), m...)}
}

func (d *BlockDual) N() int { return len(d.m) }

func (d *BlockDual) Get(i int) []float64 {
	v := d.Xi[i]
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func (d *BlockDual) Set(i int, v []float64) {
	if len(v) != d.m[i] {
		chk.Panic("block dual: sample %d expects block size %d, got %d\n", i, d.m[i], len(v))
	}
	out := make([]float64, len(v))
	copy(out, v)
	d.Xi[i] = out
}

func (d *BlockDual) Clone() Dual {
	out := &BlockDual{Xi: make(map[int][]float64, len(d.Xi)), m: append([]int(nil), d.m...)}
	for i, v := range d.Xi {
		cp := make([]float64, len(v))
		copy(cp, v)
		out.Xi[i] = cp
	}
	return out
}

func (d *BlockDual) Flatten() []float64 {
	total := 0
	for _, mi := range d.m {
		total += mi
	}
	out := make([]float64, 0, total)
	for i := range d.m {
		out = append(out, d.Xi[i]...)
	}
	return out
}
