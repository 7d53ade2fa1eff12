// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggmath

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func ints(xs ...int64) []Value {
	var vs []Value
	for _, x := range xs {
		vs = append(vs, IntValue(x))
	}
	return vs
}

func floats(xs ...float64) []Value {
	var vs []Value
	for _, x := range xs {
		vs = append(vs, FloatValue(x))
	}
	return vs
}

func TestSummary(t *testing.T) {
	check := func(values []Value, med, min, max string) {
		t.Helper()
		s := NewSample(values).Summary()
		if got := s.Median.String(); got != med {
			t.Errorf("median: got %s, want %s", got, med)
		}
		if got := s.Min.String(); got != min {
			t.Errorf("min: got %s, want %s", got, min)
		}
		if got := s.Max.String(); got != max {
			t.Errorf("max: got %s, want %s", got, max)
		}
		if s.N != len(values) {
			t.Errorf("N: got %d, want %d", s.N, len(values))
		}
	}

	check(ints(1, 2, 3), "2", "1", "3")
	check(ints(3, 1, 2), "2", "1", "3")
	check(ints(7), "7", "7", "7")
	check(ints(1, 3), "2", "1", "3")
	check(ints(1, 2), "1.5", "1", "2")
	check(ints(4, 1, 3, 2), "2.5", "1", "4")
	check(ints(-3, -1), "-2", "-3", "-1")
	check(ints(-2, 1), "-0.5", "-2", "1")
	check(floats(0.5, 1.5, 2.5), "1.5", "0.5", "2.5")
	check(floats(1, 2), "1.5", "1.0", "2.0")
	check(append(ints(1), floats(2.5, 4)...), "2.5", "1", "4.0")
	check(append(ints(2), floats(1.5)...), "1.75", "1.5", "2")
}

func TestSummaryOrderedWithNaN(t *testing.T) {
	nan := math.NaN()
	for _, xs := range [][]float64{
		{3, nan, 1, 2},
		{nan, 3, 1},
		{2, nan, nan, 1, 5},
	} {
		s := NewSample(floats(xs...)).Summary()
		if Compare(s.Min, s.Median) > 0 || Compare(s.Median, s.Max) > 0 {
			t.Errorf("%v: min %s, median %s, max %s out of order", xs, s.Min, s.Median, s.Max)
		}
		if !math.IsNaN(s.Min.Float()) || (s.Max.Float() != 5 && s.Max.Float() != 3) {
			t.Errorf("%v: got min %s, max %s", xs, s.Min, s.Max)
		}
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := NewSample(nil).Summary()
	if s.N != 0 {
		t.Errorf("empty sample: N = %d", s.N)
	}
}

func TestSummaryMoments(t *testing.T) {
	s := NewSample(ints(2, 4, 4, 4, 5, 5, 7, 9)).Summary()
	if s.Mean != 5 {
		t.Errorf("mean: got %v, want 5", s.Mean)
	}
	// Sample standard deviation (n-1 denominator).
	if want := math.Sqrt(32.0 / 7); math.Abs(s.StdDev-want) > 1e-12 {
		t.Errorf("stddev: got %v, want %v", s.StdDev, want)
	}
	if one := NewSample(ints(3)).Summary(); !math.IsNaN(one.StdDev) {
		t.Errorf("stddev of one value: got %v, want NaN", one.StdDev)
	}
}

// TestMedianMatchesQuantile checks the exact median against the
// interpolated 50th percentile for random samples of both parities.
func TestMedianMatchesQuantile(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for n := 1; n <= 40; n++ {
		xs := make([]float64, n)
		vs := make([]Value, n)
		for i := range xs {
			xs[i] = float64(r.Intn(1000)) / 8
			vs[i] = FloatValue(xs[i])
		}
		s := NewSample(vs)
		got := s.Summary().Median.Float()

		sort.Float64s(xs)
		var want float64
		if n%2 == 1 {
			want = xs[n/2]
		} else {
			want = (xs[n/2-1] + xs[n/2]) / 2
		}
		if got != want {
			t.Errorf("n=%d: median %v, want %v", n, got, want)
		}
		if q := s.Quantile(0.5); math.Abs(q-want) > 1e-9 {
			t.Errorf("n=%d: Quantile(0.5) %v, want %v", n, q, want)
		}
	}
}
