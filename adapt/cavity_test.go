// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/node"
)

// twoTetGrid builds two tets sharing the face (1,2,3): a bipyramid with
// apexes 0 and 4, split down the middle.
func twoTetGrid() *Grid {
	g := New(nil, nil)
	identity := [6]float64{1, 0, 0, 1, 0, 1}
	pts := [][3]float64{
		{0, 0, -1},  // 0: apex below
		{1, 0, 0},   // 1
		{0, 1, 0},   // 2
		{-1, -1, 0}, // 3
		{0, 0, 1},   // 4: apex above
	}
	for i, p := range pts {
		g.Nodes.InsertAt(i, node.Node{Gid: int64(i), X: p, M: identity})
	}
	c0, _ := cell.NewCell(cell.Tet, []int{0, 1, 2, 3}, 0)
	c1, _ := cell.NewCell(cell.Tet, []int{4, 1, 3, 2}, 0)
	g.Cells.Insert(c0)
	g.Cells.Insert(c1)
	return g
}

func Test_cavity01_edge_seed_and_free_faces(tst *testing.T) {
	chk.PrintTitle("cavity01: edge cavity seeds both tets sharing an edge")
	g := twoTetGrid()
	c := EdgeCavity(g, 1, 2)
	if len(c.Tets()) != 2 {
		tst.Errorf("expected 2 tets sharing edge (1,2), got %d", len(c.Tets()))
	}
	ffs := c.FreeFaces()
	if len(ffs) != 6 {
		tst.Errorf("expected 6 free (boundary) faces for a 2-tet cavity, got %d", len(ffs))
	}
}

func Test_cavity02_face_seed(tst *testing.T) {
	chk.PrintTitle("cavity02: face cavity seeds the (<=2) tets sharing a face")
	g := twoTetGrid()
	c := FaceCavity(g, 1, 2, 3)
	if len(c.Tets()) != 2 {
		tst.Errorf("expected 2 tets sharing face (1,2,3), got %d", len(c.Tets()))
	}
}

func Test_cavity03_replace_and_valid(tst *testing.T) {
	chk.PrintTitle("cavity03: replace+valid on a single-tet cavity reproduces the same tet")
	g := twoTetGrid()
	c := NodeCavity(g, 0) // only tet 0 touches node 0
	if len(c.Tets()) != 1 {
		tst.Fatalf("expected exactly 1 tet touching node 0, got %d", len(c.Tets()))
	}
	proposed := c.Replace(0)
	if len(proposed) != 1 {
		tst.Fatalf("expected 1 proposed tet (the one free face not touching node 0, coned to node 0), got %d", len(proposed))
	}
	if errS := c.Valid(proposed, 0.1); errS != nil {
		tst.Errorf("expected valid cavity replacement, got error: %v", errS)
	}
}

func Test_cavity04_enlarge_visible(tst *testing.T) {
	chk.PrintTitle("cavity04: enlarge_visible on a trivially-visible new node is a no-op")
	g := twoTetGrid()
	c := FaceCavity(g, 1, 2, 3)
	// node 0 is already one of the cavity's own apexes: every face visible
	if ok := c.EnlargeVisible(0); !ok {
		tst.Errorf("expected EnlargeVisible to succeed")
	}
}
