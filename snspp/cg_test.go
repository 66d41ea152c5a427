// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snspp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// TestPCGSolvesSmallSPDSystem checks pcg against a hand-built 3x3
// diagonally dominant SPD system, with an identity preconditioner.
func TestPCGSolvesSmallSPDSystem(t *testing.T) {
	// A = [[4,1,0],[1,3,1],[0,1,2]], symmetric positive definite.
	applyA := func(v []float64) []float64 {
		return []float64{
			4*v[0] + v[1],
			v[0] + 3*v[1] + v[2],
			v[1] + 2*v[2],
		}
	}
	b := []float64{1, 2, 3}
	precond := []float64{1, 1, 1}
	x, resNorm, _ := pcg(applyA, b, precond, 1e-10, 50)

	got := applyA(x)
	chk.Array(t, "PCG solution satisfies A x = b", 1e-6, got, b)
	if resNorm > 1e-6 {
		t.Fatalf("residual norm too large: %g", resNorm)
	}
}

func TestPCGWithJacobiPreconditioner(t *testing.T) {
	// symmetric system with a poorly scaled diagonal (not diagonally
	// dominant in its last row), to exercise the preconditioner path.
	diag := []float64{100, 1, 0.01}
	applyA := func(v []float64) []float64 {
		return []float64{
			diag[0]*v[0] + 0.1*v[1],
			0.1*v[0] + diag[1]*v[1] + 0.1*v[2],
			0.1*v[1] + diag[2]*v[2],
		}
	}
	b := []float64{1, 1, 1}
	x, _, iters := pcg(applyA, b, diag, 1e-10, 100)
	got := applyA(x)
	chk.Array(t, "PCG with Jacobi preconditioner", 1e-5, got, b)
	if iters == 0 {
		t.Fatal("expected at least one CG iteration")
	}
}
