// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/node"
)

var id6 = [6]float64{1, 0, 0, 1, 0, 1}

// singleTetGrid builds the §8 seed scenario 1 grid: one tet at the unit
// corner, identity metric.
func singleTetGrid() *Grid {
	g := New(nil, nil)
	pts := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, p := range pts {
		g.Nodes.InsertAt(i, node.Node{Gid: int64(i), X: p, M: id6})
	}
	c, _ := cell.NewCell(cell.Tet, []int{0, 1, 2, 3}, 0)
	g.Cells.Insert(c)
	return g
}

func Test_split01_single_tet_longest_edge(tst *testing.T) {
	chk.PrintTitle("split01: single tet's longest edge (length sqrt2, the threshold) does not split")
	g := singleTetGrid()
	// every outer edge of this unit tet is exactly sqrt2, the threshold
	// itself: "not > sqrt2" must reject, not accept on the boundary.
	ok, errS := Split(g, 1, 2)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if ok {
		tst.Errorf("expected Split to reject an edge exactly at the sqrt2 threshold")
	}
}

func Test_split02_scaled_tet_splits_once(tst *testing.T) {
	chk.PrintTitle("split02: one split of a 2x-scaled tet's long edge leaves two positive tets")
	g := New(nil, nil)
	pts := [][3]float64{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}}
	for i, p := range pts {
		g.Nodes.InsertAt(i, node.Node{Gid: int64(i), X: p, M: id6})
	}
	c, _ := cell.NewCell(cell.Tet, []int{0, 1, 2, 3}, 0)
	g.Cells.Insert(c)

	ok, errS := Split(g, 1, 2)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if !ok {
		tst.Fatalf("expected Split to accept edge (1,2) of length 2*sqrt2")
	}
	if g.Cells.NumLive(cell.Tet) != 2 {
		tst.Errorf("expected 2 tets after one split, got %d", g.Cells.NumLive(cell.Tet))
	}
	g.Cells.EachAll(func(k cell.Kind, idx int, c *cell.Cell) {
		if k != cell.Tet {
			return
		}
		x, ok := g.TetCoords(idx)
		if !ok {
			tst.Fatalf("tet %d missing coords", idx)
		}
		if cell.OrientedVolume6(x[0], x[1], x[2], x[3]) <= 0 {
			tst.Errorf("tet %d inverted after split", idx)
		}
	})
}

// tinyTetGrid is a single tet scaled down so every edge's metric length
// under the identity metric sits below the 1/sqrt2 collapse threshold.
func tinyTetGrid() *Grid {
	g := New(nil, nil)
	pts := [][3]float64{{0, 0, 0}, {0.3, 0, 0}, {0, 0.3, 0}, {0, 0, 0.3}}
	for i, p := range pts {
		g.Nodes.InsertAt(i, node.Node{Gid: int64(i), X: p, M: id6})
	}
	c, _ := cell.NewCell(cell.Tet, []int{0, 1, 2, 3}, 0)
	g.Cells.Insert(c)
	return g
}

func Test_collapse01_guard_vertex_vs_face(tst *testing.T) {
	chk.PrintTitle("collapse01: collapse(keep=vertex-end, drop=face-end) passes the promotion guard")
	g := tinyTetGrid()
	vertexEnd, faceEnd := 0, 1
	g.Geom.Add(vertexEnd, geom.Vertex, 1, [2]float64{})
	g.Geom.Add(faceEnd, geom.Face, 7, [2]float64{0.1, 0.2})

	if assocRank(g, vertexEnd) >= assocRank(g, faceEnd) {
		tst.Fatalf("test setup: expected vertex rank < face rank")
	}

	// collapse(vertex-end as keep, face-end as drop): drop (face, rank 2) is
	// not strictly lower than keep (vertex, rank 0), so the promotion guard
	// allows it; the length check has already been satisfied by construction.
	if _, errS := Collapse(g, vertexEnd, faceEnd); errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
}

func Test_collapse02_guard_rejects_promotion(tst *testing.T) {
	chk.PrintTitle("collapse02: collapse(vertex-end as drop) onto a face-end keep is rejected")
	g := tinyTetGrid()
	vertexEnd, faceEnd := 0, 1
	g.Geom.Add(vertexEnd, geom.Vertex, 1, [2]float64{})
	g.Geom.Add(faceEnd, geom.Face, 7, [2]float64{0.1, 0.2})

	ok, errS := Collapse(g, faceEnd, vertexEnd)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if ok {
		tst.Errorf("collapse(keep=face-end, drop=vertex-end) should be rejected: cannot promote drop onto a higher locus")
	}
}

func Test_smooth01_interior_node_moves_toward_centroid_or_rejects(tst *testing.T) {
	chk.PrintTitle("smooth01: interior-node smoothing never invalidates a tet")
	g := twoTetGrid()
	before := *g.Nodes.At(2)
	ok, errS := Smooth(g, 2)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if ok {
		after := g.Nodes.At(2)
		g.Cells.EachAll(func(k cell.Kind, idx int, c *cell.Cell) {
			if k != cell.Tet || !c.HasNode(2) {
				return
			}
			x, _ := g.TetCoords(idx)
			if cell.OrientedVolume6(x[0], x[1], x[2], x[3]) <= 0 {
				tst.Errorf("tet %d inverted after accepted smooth", idx)
			}
		})
		_ = after
	} else {
		after := g.Nodes.At(2)
		if after.X != before.X {
			tst.Errorf("rejected smooth must not move the node")
		}
	}
}

func Test_pass01_single_tet_converges(tst *testing.T) {
	chk.PrintTitle("pass01: an unscaled single tet reaches two consecutive no-change passes")
	g := singleTetGrid()
	history, errS := RunAdaptation(g, false)
	if errS != nil {
		tst.Fatalf("unexpected error: %v", errS)
	}
	if len(history) < 2 {
		tst.Fatalf("expected at least 2 passes to observe 2 consecutive no-change, got %d", len(history))
	}
	last := history[len(history)-1]
	if last.Changed {
		tst.Errorf("expected the final recorded pass to be quiescent")
	}
}

func Test_histogram01_basic_counts(tst *testing.T) {
	chk.PrintTitle("histogram01: edge-length and quality histograms see every tet once")
	g := singleTetGrid()
	h := CollectHistograms(g)
	if h.EdgeLength.Total != 6 {
		tst.Errorf("expected 6 unique edges counted, got %d", h.EdgeLength.Total)
	}
	if h.InvertedCount != 0 {
		tst.Errorf("expected no inverted cells, got %d", h.InvertedCount)
	}
}
