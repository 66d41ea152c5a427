// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adagrad

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/snspp/loss"
	"github.com/cpmech/snspp/prob"
	"github.com/cpmech/snspp/reg"
	"gonum.org/v1/gonum/mat"
)

func lassoProblem() *prob.Problem {
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
	return &prob.Problem{
		Loss:   l,
		Reg:    r,
		X0:     []float64{0, 0, 0},
		Tol:    1e-8,
		Params: prob.Params{NEpochs: 60, BatchSize: 2},
	}
}

func TestAdaGradStaysFinite(t *testing.T) {
	p := lassoProblem()
	s := &Solver{Rng: rand.New(rand.NewSource(1))}
	x, _, info, err := s.Solve(p, false, true)
	if err != nil {
		t.Fatal(err)
	}
	for j, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("coordinate %d is not finite: %g", j, v)
		}
	}
	if len(info.Objective) == 0 {
		t.Fatal("expected measured objective trace")
	}
}

func TestAdaGradDeterminism(t *testing.T) {
	p1 := lassoProblem()
	p2 := lassoProblem()
	x1, _, _, err := (&Solver{Rng: rand.New(rand.NewSource(2))}).Solve(p1, false, false)
	if err != nil {
		t.Fatal(err)
	}
	x2, _, _, err := (&Solver{Rng: rand.New(rand.NewSource(2))}).Solve(p2, false, false)
	if err != nil {
		t.Fatal(err)
	}
	for j := range x1 {
		if x1[j] != x2[j] {
			t.Fatalf("determinism violated at coord %d", j)
		}
	}
}
