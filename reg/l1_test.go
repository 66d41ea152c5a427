// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reg

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func TestSoftThreshold(t *testing.T) {
	r := NewL1(2.0)
	x := []float64{3.0, -3.0, 1.0, -1.0, 0.0}
	alpha := 0.5 // thresh = 1.0
	got := r.Prox(x, alpha)
	want := []float64{2.0, -2.0, 0.0, 0.0, 0.0}
	chk.Array(t, "soft threshold", 1e-15, got, want)
}

func TestJacobianProxActiveSet(t *testing.T) {
	r := NewL1(2.0)
	alpha := 0.5 // thresh = 1.0
	point := []float64{1.5, -1.5, 0.5, 0.9999}
	js := r.JacobianProx(point, alpha)
	want := []bool{true, true, false, false}
	chk.Array(t, "active mask", 0, boolsToFloat(js.Active), boolsToFloat(want))
	if js.Size() != 2 {
		t.Fatalf("expected 2 active coordinates, got %d", js.Size())
	}
}

func boolsToFloat(b []bool) []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return out
}

// TestMoreauIsDefinitionalMinimum checks, per spec §8's Moreau-envelope
// scenario, that M_{alpha*phi}(x) as returned by Moreau equals the brute
// force minimum of alpha*phi(z) + 1/2||z-x||^2 attained at z = Prox(x).
func TestMoreauIsDefinitionalMinimum(t *testing.T) {
	r := NewL1(1.5)
	alpha := 0.8
	xs := [][]float64{
		{2.0, -2.0, 0.1},
		{0.0, 0.0, 0.0},
		{5.0, -0.3, 1.2},
	}
	for _, x := range xs {
		z := r.Prox(x, alpha)
		def := alpha*r.Eval(z) + sqDist(z, x)/2
		got := r.Moreau(x, alpha)
		chk.AnaNum(t, io.Sf("Moreau envelope @ x=%v", x), 1e-12, def, got, false)

		// perturb z slightly in every direction; the definitional value
		// at the true minimizer must not exceed it anywhere nearby.
		for j := range z {
			for _, d := range []float64{-1e-3, 1e-3} {
				zp := append([]float64{}, z...)
				zp[j] += d
				val := alpha*r.Eval(zp) + sqDist(zp, x)/2
				if val < def-1e-9 {
					t.Fatalf("perturbation beat the claimed minimum: %v < %v", val, def)
				}
			}
		}
	}
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func TestZeroRegularizer(t *testing.T) {
	z := Zero{}
	x := []float64{1, -2, 3}
	chk.Array(t, "zero prox is identity", 1e-15, z.Prox(x, 0.7), x)
	if z.Eval(x) != 0 {
		t.Fatalf("zero.Eval should be 0")
	}
	if z.Moreau(x, 0.7) != 0 {
		t.Fatalf("zero.Moreau should be 0")
	}
}
