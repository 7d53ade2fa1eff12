// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package aggmath provides the numeric model for aggregating repeated
// measurements: kind-tagged values and per-key order statistics.
//
// Values remember whether they were written as integers or as
// floating-point numbers, and arithmetic keeps integers exact for as
// long as it can. Summaries report the median, minimum and maximum of
// a sample, plus the mean and standard deviation for presentation
// formats that have room for them.
package aggmath

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Sample is a set of repeated measurements for a single key.
type Sample struct {
	// Values are the measured values, in ascending order.
	Values []Value
}

// NewSample constructs a Sample from a set of measurements. It sorts
// values in place.
func NewSample(values []Value) *Sample {
	// Sort values for fast order statistics.
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Less(values[j])
	})
	return &Sample{values}
}

func (s *Sample) sample() stats.Sample {
	xs := make([]float64, len(s.Values))
	for i, v := range s.Values {
		xs[i] = v.Float()
	}
	return stats.Sample{Xs: xs, Sorted: true}
}

// A Summary summarizes a Sample.
type Summary struct {
	// Median is the middle value of the sample, or the mean of
	// the two middle values if the sample has an even size.
	Median Value

	// Min and Max are the smallest and largest values.
	Min, Max Value

	// N is the sample size.
	N int

	// Mean and StdDev are the sample mean and standard
	// deviation. StdDev is NaN for samples of fewer than two
	// values.
	Mean, StdDev float64
}

// Summary computes the order statistics of s. It returns the zero
// Summary if s is empty.
func (s *Sample) Summary() Summary {
	n := len(s.Values)
	if n == 0 {
		return Summary{}
	}

	var med Value
	if n%2 == 1 {
		med = s.Values[n/2]
	} else {
		med = Mean(s.Values[n/2-1], s.Values[n/2])
	}

	ss := s.sample()
	sd := math.NaN()
	if n > 1 {
		sd = ss.StdDev()
	}
	return Summary{
		Median: med,
		Min:    s.Values[0],
		Max:    s.Values[n-1],
		N:      n,
		Mean:   ss.Mean(),
		StdDev: sd,
	}
}

// Quantile returns the q'th quantile of s, for q in [0, 1],
// interpolated between sample values as a float64. Quantile(0.5)
// agrees with Summary().Median up to floating-point rounding.
func (s *Sample) Quantile(q float64) float64 {
	return s.sample().Quantile(q)
}
