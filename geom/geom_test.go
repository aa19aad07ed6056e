// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_geom01_store(tst *testing.T) {
	chk.PrintTitle("geom01: add/find idempotent by key")
	s := New()
	s.Add(0, Face, 7, [2]float64{0.1, 0.2})
	s.Add(0, Face, 7, [2]float64{0.3, 0.4}) // same key -> updates, not duplicates
	if len(s.At(0)) != 1 {
		tst.Errorf("expected 1 association at node 0, got %d", len(s.At(0)))
	}
	a := s.Find(0, Face, 7)
	if a == nil || a.Param[0] != 0.3 {
		tst.Errorf("expected updated param 0.3, got %v", a)
	}
}

func Test_geom02_cellTUV_fastpath(tst *testing.T) {
	chk.PrintTitle("geom02: cell_tuv fast path (no jump/degen)")
	s := New()
	s.Add(0, Face, 1, [2]float64{0.5, 0.6})
	params, sens, errS := CellTUV(s, nil, 0, []int{1, 2}, Face, 1)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if sens != 0 || params != [2]float64{0.5, 0.6} {
		tst.Errorf("expected stored params directly, got %v sens=%d", params, sens)
	}
}

func Test_geom03_edgeJump(tst *testing.T) {
	chk.PrintTitle("geom03: edge jump picks nearer t endpoint")
	s := New()
	a := s.Add(0, Edge, 5, [2]float64{0.0, 0})
	a.Jump = true
	a.AltParam = [2]float64{1.0, 0}
	s.Add(1, Edge, 5, [2]float64{0.9, 0})

	params, _, errS := CellTUV(s, nil, 0, []int{1}, Edge, 5)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if math.Abs(params[0]-1.0) > 1e-12 {
		tst.Errorf("expected t=1.0 (closer to 0.9), got %v", params)
	}
}

func Test_geom04_analyticSphere(tst *testing.T) {
	chk.PrintTitle("geom04: AnalyticCAD sphere eval/inverse round-trip")
	cad := NewAnalyticCAD()
	cad.Spheres[1] = Sphere{Center: [3]float64{0, 0, 0}, Radius: 2.0}
	xyz, _, errS := cad.Eval(Face, 1, [2]float64{0.3, 0.2})
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	params, errS := cad.InverseEval(Face, 1, xyz)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if math.Abs(params[0]-0.3) > 1e-9 || math.Abs(params[1]-0.2) > 1e-9 {
		tst.Errorf("round-trip mismatch: got %v, want [0.3 0.2]", params)
	}
}
