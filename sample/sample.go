// Copyright 2016 The SNSPP Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sample implements the samplers of spec.md §4.10: a
// uniform-with-replacement draw, a cyclic batcher for reproducibility
// studies, and the exponential batch-size ramp schedule used by the
// snspp outer driver.
package sample

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/snspp/prob"
)

// Uniform draws a batch of size b with replacement, uniformly from
// {0, ..., n-1}, and returns it sorted ascending, per spec §4.10/§4.6 step 2.
func Uniform(rng *rand.Rand, n, b int) []int {
	s := make([]int, b)
	for i := range s {
		s[i] = rng.Intn(n)
	}
	sort.Ints(s)
	return s
}

// CyclicBatcher partitions {0, ..., n-1} into consecutive batches and
// hands them out in round-robin order, for reproducibility studies that
// need a deterministic, non-random sample sequence (spec §4.10's "cyclic
// batcher with optional variable per-iteration batch vector").
type CyclicBatcher struct {
	n      int
	sizes  []int // per-call batch size; len 1 means a fixed size every call
	cursor int
	call   int
}

// NewCyclicBatcher builds a batcher over {0,...,n-1}. sizes gives the
// batch size to use on each successive call; if sizes has length 1, that
// size is reused on every call (the common, fixed-batch-size path).
func NewCyclicBatcher(n int, sizes []int) (*CyclicBatcher, error) {
	if n <= 0 {
		return nil, chk.Err("CyclicBatcher: n must be positive, got %d", n)
	}
	if len(sizes) == 0 {
		return nil, chk.Err("CyclicBatcher: sizes must be non-empty")
	}
	for _, s := range sizes {
		if s <= 0 || s > n {
			return nil, chk.Err("CyclicBatcher: batch size %d out of range (0,%d]", s, n)
		}
	}
	return &CyclicBatcher{n: n, sizes: sizes}, nil
}

// Next returns the next batch, sorted ascending, wrapping around {0,...,n-1}
// as needed.
func (c *CyclicBatcher) Next() []int {
	size := c.sizes[c.call%len(c.sizes)]
	c.call++
	out := make([]int, size)
	for i := range out {
		out[i] = c.cursor % c.n
		c.cursor++
	}
	sort.Ints(out)
	return out
}

// Schedule computes the per-iteration batch size vector of length maxIter
// for the sample-size ramp named in spec §4.6 step 2: constant holds b
// throughout; increasing ramps exponentially from max(b/4,1) to b across
// the whole run; fastIncreasing uses the identical ramp shape but
// completes it by iteration 10 (then holds at b for every later
// iteration), per SPEC_FULL.md §C.3.
func Schedule(style prob.SampleStyle, b, maxIter int) []int {
	out := make([]int, maxIter)
	switch style {
	case prob.SampleConstant:
		for t := range out {
			out[t] = b
		}
	case prob.SampleIncreasing:
		rampLen := maxIter - 1
		for t := range out {
			out[t] = rampValue(b, t, rampLen)
		}
	case prob.SampleFastIncreasing:
		rampLen := maxIter - 1
		if rampLen > 10 {
			rampLen = 10
		}
		for t := range out {
			out[t] = rampValue(b, t, rampLen)
		}
	default:
		for t := range out {
			out[t] = b
		}
	}
	monotoneNonDecreasing(out)
	return out
}

// rampValue evaluates the exponential ramp base*(target/base)^(t/rampLen)
// rounded to the nearest integer and clamped to [base, target], where
// base = max(target/4, 1).
func rampValue(target, t, rampLen int) int {
	base := math.Max(float64(target)/4, 1)
	tgt := float64(target)
	if rampLen <= 0 {
		return target
	}
	frac := float64(t) / float64(rampLen)
	if frac > 1 {
		frac = 1
	}
	v := base * math.Pow(tgt/base, frac)
	iv := int(math.Round(v))
	if iv < int(math.Round(base)) {
		iv = int(math.Round(base))
	}
	if iv > target {
		iv = target
	}
	return iv
}

// monotoneNonDecreasing repairs any rounding dip in a ramp sequence by
// clamping each entry up to the previous one.
func monotoneNonDecreasing(s []int) {
	for t := 1; t < len(s); t++ {
		if s[t] < s[t-1] {
			s[t] = s[t-1]
		}
	}
}
