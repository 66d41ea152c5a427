// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loss

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/snspp/prob"
	"gonum.org/v1/gonum/mat"
)

// toyDataset builds a tiny N=3, m_i=1 dataset for componentwise kernel
// checks; A is irrelevant to these tests since they probe the kernels
// directly through the Loss interface, sample by sample (each sample i
// brings its own target b_i).
func toyDataset() *prob.Dataset {
	a := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	b := []float64{0.3, -0.7, 1.1}
	d, err := prob.NewDataset(a, b, nil)
	if err != nil {
		panic(err)
	}
	return d
}

// checkGradConsistency verifies g(z) == d/dz f(z) by central differences,
// and, for convex losses, that g(gstar(xi)) == xi (Fenchel-Young duality).
func checkGradConsistency(tst *testing.T, l prob.Loss, name string, convex bool) {
	d := toyDataset()
	zs := []float64{-1.3, -0.2, 0.05, 0.4, 1.7}
	tol := 1e-6
	for i := 0; i < d.N(); i++ {
		for _, z0 := range zs {
			z := []float64{z0}
			gAna := l.G(z, i)[0]
			gNum := num.DerivCen(func(x float64, args ...interface{}) (res float64) {
				res = l.F([]float64{x}, i)
				return
			}, z0)
			chk.AnaNum(tst, io.Sf("%s: dF/dz @ z=%.3f (i=%d)", name, z0, i), tol, gAna, gNum, false)
		}
	}

	if !convex {
		return
	}
	sl, ok := l.(prob.ScalarLoss)
	if !ok {
		tst.Fatalf("%s: expected ScalarLoss", name)
	}
	xis := []float64{-0.9, -0.4, -0.05, 0.05, 0.4, 0.9}
	for i := 0; i < d.N(); i++ {
		for _, xi0 := range xis {
			xi := []float64{xi0}
			z := sl.GStar(xi, i)[0]
			gAgain := l.G([]float64{z}, i)[0]
			if insideDomain(name, xi0) {
				chk.AnaNum(tst, io.Sf("%s: g(gstar(xi)) == xi @ xi=%.3f", name, xi0), 1e-6, xi0, gAgain, false)
			}
		}
	}
}

// insideDomain keeps the g(gstar(xi))==xi round trip test inside each
// loss's finite-conjugate domain; logistic's is (-1,0), huber/pseudo-Huber
// are bounded by delta=1 in the tests below, squared is unrestricted.
func insideDomain(name string, xi float64) bool {
	switch name {
	case "logistic":
		return xi > -1 && xi < 0
	case "huber", "pseudo_huber":
		return xi > -1 && xi < 1
	default:
		return true
	}
}

func TestSquaredGradConsistency(t *testing.T) {
	checkGradConsistency(t, NewSquared(toyDataset()), "squared", true)
}

func TestLogisticGradConsistency(t *testing.T) {
	checkGradConsistency(t, NewLogistic(toyDataset()), "logistic", true)
}

func TestHuberGradConsistency(t *testing.T) {
	checkGradConsistency(t, NewHuber(toyDataset(), 1.0), "huber", true)
}

func TestPseudoHuberGradConsistency(t *testing.T) {
	checkGradConsistency(t, NewPseudoHuber(toyDataset(), 1.0), "pseudo_huber", true)
}

func TestTStudentGradConsistency(t *testing.T) {
	// t-Student is nonconvex: only the f/g central-difference half applies.
	checkGradConsistency(t, NewTStudent(toyDataset(), 1.0), "t_student", false)
}

// TestTStudentSurrogateStationarity checks the defining equation of the
// convexified-surrogate conjugate directly: hPrime(gstar(xi)) == xi.
func TestTStudentSurrogateStationarity(t *testing.T) {
	k := newTStudentKernel(1.0)
	b := 0.3
	for _, xi := range []float64{-2.0, -0.5, -0.01, 0.01, 0.5, 2.0} {
		z := k.solveZ(xi, b)
		got := k.hPrime(z, b)
		chk.AnaNum(t, io.Sf("t_student surrogate stationarity @ xi=%.3f", xi), 1e-8, xi, got, false)
	}
}

// TestWeakConvexity checks the hand-derived gamma = 1/(4v) bounds f''
// from below at the curvature minimum (z-b)^2 = 3v.
func TestWeakConvexity(t *testing.T) {
	v := 2.0
	k := newTStudentKernel(v)
	b := 0.0
	zMin := b + math.Sqrt(3*v)
	d2 := k.d2f(zMin, b)
	chk.AnaNum(t, "t_student worst-case curvature", 1e-8, -k.gamma, d2, false)
}

// TestHStarMatchesDerivativeOfGStar checks H*(xi) == d/dxi GStar(xi) for
// the convex losses, confirming the Jacobian used by the semismooth
// Newton subproblem of spec §4.7 is consistent with GStar.
func TestHStarMatchesDerivativeOfGStar(t *testing.T) {
	cases := []struct {
		name string
		l    prob.Loss
	}{
		{"squared", NewSquared(toyDataset())},
		{"logistic", NewLogistic(toyDataset())},
		{"huber", NewHuber(toyDataset(), 1.0)},
		{"pseudo_huber", NewPseudoHuber(toyDataset(), 1.0)},
	}
	xis := []float64{-0.8, -0.3, -0.05, 0.05, 0.3, 0.8}
	for _, c := range cases {
		sl := c.l.(prob.ScalarLoss)
		for _, xi0 := range xis {
			if !insideDomain(c.name, xi0) {
				continue
			}
			hAna := sl.HStarVec([]float64{xi0})[0]
			hNum := num.DerivCen(func(x float64, args ...interface{}) (res float64) {
				res = sl.GStarVec([]float64{x})[0]
				return
			}, xi0)
			chk.AnaNum(t, io.Sf("%s: dGStar/dxi @ xi=%.3f", c.name, xi0), 1e-5, hAna, hNum, false)
		}
	}
}
