// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

var identity = Tensor{1, 0, 0, 1, 0, 1}

func Test_metric01_logexp_roundtrip(tst *testing.T) {
	chk.PrintTitle("metric01: exp(log(M)) = M round-trip")
	m := Tensor{2, 0.2, 0.1, 3, 0.05, 1.5}
	l, errS := LogM(m)
	if errS != nil {
		tst.Fatalf("LogM failed: %v", errS)
	}
	back, errS := ExpM(l)
	if errS != nil {
		tst.Fatalf("ExpM failed: %v", errS)
	}
	for i := range m {
		if math.Abs(back[i]-m[i]) > 1e-8 {
			tst.Errorf("round-trip mismatch at %d: got %g want %g", i, back[i], m[i])
		}
	}
}

func Test_metric02_length_symmetry(tst *testing.T) {
	chk.PrintTitle("metric02: length(n0,n1) == length(n1,n0)")
	x0 := [3]float64{0, 0, 0}
	x1 := [3]float64{1, 0, 0}
	m0 := identity
	m1 := Tensor{4, 0, 0, 1, 0, 1}
	l01, errS := EdgeLength(x0, m0, x1, m1)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	l10, errS := EdgeLength(x1, m1, x0, m0)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if math.Abs(l01-l10) > 1e-12 {
		tst.Errorf("length not symmetric: %g vs %g", l01, l10)
	}
}

func Test_metric03_quality_regular_tet(tst *testing.T) {
	chk.PrintTitle("metric03: mean-ratio quality of a unit regular tet ~ 1")
	// a regular tet with unit edge length
	a := 1.0
	x := [4][3]float64{
		{0, 0, 0},
		{a, 0, 0},
		{a / 2, a * math.Sqrt(3) / 2, 0},
		{a / 2, a * math.Sqrt(3) / 6, a * math.Sqrt(2.0/3.0)},
	}
	m := [4]Tensor{identity, identity, identity, identity}
	q, errS := TetQuality(x, m)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if math.Abs(q-1) > 1e-6 {
		tst.Errorf("expected quality ~1 for regular tet, got %g", q)
	}
}

func Test_metric04_quality_inverted(tst *testing.T) {
	chk.PrintTitle("metric04: inverted tet has zero quality")
	x := [4][3]float64{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {0, 0, 1}} // negative orientation
	m := [4]Tensor{identity, identity, identity, identity}
	q, errS := TetQuality(x, m)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if q != 0 {
		tst.Errorf("expected zero quality for inverted tet, got %g", q)
	}
}

func Test_metric05_curvature_sphere(tst *testing.T) {
	chk.PrintTitle("metric05: curvature-to-metric on a unit sphere")
	r := [3]float64{1, 0, 0}
	s := [3]float64{0, 1, 0}
	n := [3]float64{0, 0, 1}
	k := 1.0 // unit sphere curvature
	m := CurvatureToMetric(k, k, r, s, n, 2.0, 1e30, 1e-6, 1.0/20.0)
	// requested in-plane length ~ 1/(segPerRad*k) = 0.5
	want := 1.0 / (0.5 * 0.5)
	if math.Abs(m[0]-want) > 1e-9 {
		tst.Errorf("metric[0,0] = %g, want %g", m[0], want)
	}
}
