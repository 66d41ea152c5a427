// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loss implements the Loss/ScalarLoss contract of prob for the
// loss families named in spec.md §3/§4.1: squared, logistic, t-Student,
// Huber, and pseudo-Huber. Every loss here has m_i == 1 per sample when
// built from a scalar target vector, so every one of them also satisfies
// prob.ScalarLoss and can drive the fast path of spec §4.7; they remain
// well defined for block targets (m_i > 1) too, applying componentwise
// and summing across the block, for use with the general solver of §4.8.
package loss

import "github.com/cpmech/snspp/prob"

// kernel is the scalar building block every loss in this package reduces
// to: a pointwise (f, g, f*, g*, H*) pair plus the loss's weak-convexity
// constant and dual start point. Factoring this out avoids repeating the
// componentwise sum / dataset plumbing shared by all five losses, the
// same way msolid's Model implementations share Init/GetPrms boilerplate
// through the common Model interface.
type kernel interface {
	name() string
	convex() bool
	f(z, b float64) float64
	g(z, b float64) float64
	fstar(xi, b float64) float64
	gstar(xi, b float64) float64
	hstar(xi, b float64) float64
	weakConv() float64
	dualStart() float64
}

// separable wires a scalar kernel into the prob.Loss / prob.ScalarLoss
// contract by applying it componentwise to each block and summing.
type separable struct {
	data *prob.Dataset
	k    kernel
}

func (s *separable) Name() string        { return s.k.name() }
func (s *separable) Convex() bool        { return s.k.convex() }
func (s *separable) Data() *prob.Dataset { return s.data }

func (s *separable) F(z []float64, i int) float64 {
	b := s.data.Bi(i)
	sum := 0.0
	for k, zk := range z {
		sum += s.k.f(zk, b[k])
	}
	return sum
}

func (s *separable) G(z []float64, i int) []float64 {
	b := s.data.Bi(i)
	g := make([]float64, len(z))
	for k, zk := range z {
		g[k] = s.k.g(zk, b[k])
	}
	return g
}

func (s *separable) FStar(xi []float64, i int) float64 {
	b := s.data.Bi(i)
	sum := 0.0
	for k, xik := range xi {
		sum += s.k.fstar(xik, b[k])
	}
	return sum
}

func (s *separable) GStar(xi []float64, i int) []float64 {
	b := s.data.Bi(i)
	g := make([]float64, len(xi))
	for k, xik := range xi {
		g[k] = s.k.gstar(xik, b[k])
	}
	return g
}

func (s *separable) HStar(xi []float64, i int) [][]float64 {
	b := s.data.Bi(i)
	n := len(xi)
	h := make([][]float64, n)
	for r := range h {
		h[r] = make([]float64, n)
		h[r][r] = s.k.hstar(xi[r], b[r])
	}
	return h
}

func (s *separable) WeakConv(i int) float64 { return s.k.weakConv() }

func (s *separable) DualStart(i int) []float64 {
	mi := s.data.M(i)
	v := s.k.dualStart()
	out := make([]float64, mi)
	for j := range out {
		out[j] = v
	}
	return out
}

// FStarVec, GStarVec, HStarVec implement prob.ScalarLoss; callers must
// only use them when every sample has m_i == 1 (the "easy" case of
// spec §4.7), since they treat xi[i] as the single dual value of sample i.
func (s *separable) FStarVec(xi []float64) []float64 {
	out := make([]float64, len(xi))
	for i, v := range xi {
		b := s.data.Bi(i)
		out[i] = s.k.fstar(v, b[0])
	}
	return out
}

func (s *separable) GStarVec(xi []float64) []float64 {
	out := make([]float64, len(xi))
	for i, v := range xi {
		b := s.data.Bi(i)
		out[i] = s.k.gstar(v, b[0])
	}
	return out
}

func (s *separable) HStarVec(xi []float64) []float64 {
	out := make([]float64, len(xi))
	for i, v := range xi {
		b := s.data.Bi(i)
		out[i] = s.k.hstar(v, b[0])
	}
	return out
}
