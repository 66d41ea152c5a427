// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svrg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/snspp/loss"
	"github.com/cpmech/snspp/prob"
	"github.com/cpmech/snspp/reg"
	"gonum.org/v1/gonum/mat"
)

func lassoProblem() (*prob.Problem, *prob.Dataset) {
	a := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		1, 1, 1,
	})
	b := []float64{1, 1, 1, 3}
	data, err := prob.NewDataset(a, b, nil)
	if err != nil {
		panic(err)
	}
	l := loss.NewSquared(data)
	r := reg.NewL1(0.01)
	p := &prob.Problem{
		Loss:   l,
		Reg:    r,
		X0:     []float64{0, 0, 0},
		Tol:    1e-8,
		Params: prob.Params{NEpochs: 40, Alpha: 0.1},
	}
	return p, data
}

func TestSVRGConvergesNearLassoSolution(t *testing.T) {
	p, data := lassoProblem()
	s := &Solver{Rng: rand.New(rand.NewSource(5))}
	xFinal, _, _, err := s.Solve(p, false, false)
	if err != nil {
		t.Fatal(err)
	}
	psiFinal := totalObjective(p.Loss, p.Reg, data, xFinal)
	psiStar := totalObjective(p.Loss, p.Reg, data, []float64{1, 1, 1})
	if psiFinal > psiStar+1e-2 {
		t.Fatalf("SVRG objective %.6f should not exceed reference %.6f by much", psiFinal, psiStar)
	}
	for j, v := range xFinal {
		if math.IsNaN(v) {
			t.Fatalf("coordinate %d is NaN", j)
		}
	}
}

func TestSVRGDeterminism(t *testing.T) {
	p1, _ := lassoProblem()
	p2, _ := lassoProblem()
	x1, _, _, err := (&Solver{Rng: rand.New(rand.NewSource(9))}).Solve(p1, false, false)
	if err != nil {
		t.Fatal(err)
	}
	x2, _, _, err := (&Solver{Rng: rand.New(rand.NewSource(9))}).Solve(p2, false, false)
	if err != nil {
		t.Fatal(err)
	}
	for j := range x1 {
		if x1[j] != x2[j] {
			t.Fatalf("determinism violated at coord %d: %g vs %g", j, x1[j], x2[j])
		}
	}
}
