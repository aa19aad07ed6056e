// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_cell01_store(tst *testing.T) {

	chk.PrintTitle("cell01: insert, adjacency, list_with2")

	s := New()

	c0, _ := NewCell(Tet, []int{0, 1, 2, 3}, 0)
	c1, _ := NewCell(Tet, []int{1, 2, 3, 4}, 0)
	i0 := s.Insert(c0)
	i1 := s.Insert(c1)

	if s.NumLive(Tet) != 2 {
		tst.Errorf("expected 2 live tets, got %d", s.NumLive(Tet))
	}

	// node 2 should be adjacent to both tets
	adjCells := s.Adjacency(Tet).Cells(2)
	if len(adjCells) != 2 {
		tst.Errorf("node 2 expected 2 adjacent tets, got %d", len(adjCells))
	}

	// list_with2: tets containing both node 1 and node 2 -> both tets
	both := s.TetsOnEdge(1, 2)
	if len(both) != 2 {
		tst.Errorf("TetsOnEdge(1,2) expected 2, got %d", len(both))
	}

	// remove one tet and confirm adjacency detaches
	if errS := s.Remove(Tet, i0); errS != nil {
		tst.Errorf("unexpected error: %v", errS)
	}
	adjCells = s.Adjacency(Tet).Cells(0)
	if len(adjCells) != 0 {
		tst.Errorf("node 0 should have no adjacent tets after removal, got %d", len(adjCells))
	}
	_ = i1

	if errS := s.CheckAdjacencyRoundTrip(); errS != nil {
		tst.Errorf("adjacency round-trip failed: %v", errS)
	}
}

func Test_cell02_arity(tst *testing.T) {
	chk.PrintTitle("cell02: arity validation")
	if _, errS := NewCell(Tet, []int{0, 1, 2}, 0); errS == nil {
		tst.Errorf("expected arity error for tet with 3 nodes")
	}
}

func Test_cell03_volume(tst *testing.T) {
	chk.PrintTitle("cell03: oriented volume sign")
	x0 := [3]float64{0, 0, 0}
	x1 := [3]float64{1, 0, 0}
	x2 := [3]float64{0, 1, 0}
	x3 := [3]float64{0, 0, 1}
	v := OrientedVolume6(x0, x1, x2, x3)
	if v <= 0 {
		tst.Errorf("expected positive oriented volume, got %g", v)
	}
	vInv := OrientedVolume6(x0, x2, x1, x3)
	if vInv >= 0 {
		tst.Errorf("expected negative oriented volume after swap, got %g", vInv)
	}
}
