// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/wbnns/refine/adapt"
	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/node"
)

func oneTetGridWithBoundary() *adapt.Grid {
	g := adapt.New(nil, nil)
	pts := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, p := range pts {
		g.Nodes.InsertAt(i, node.Node{Gid: int64(i), X: p})
	}
	tet, _ := cell.NewCell(cell.Tet, []int{0, 1, 2, 3}, 0)
	g.Cells.Insert(tet)
	tri, _ := cell.NewCell(cell.Tri, []int{0, 1, 2}, 5)
	g.Cells.Insert(tri)
	return g
}

func Test_ugrid01_roundtrip(tst *testing.T) {
	chk.PrintTitle("ugrid01: write then read back reproduces node count, cell count and a boundary id")
	g := oneTetGridWithBoundary()
	fn := filepath.Join(os.TempDir(), "refine_ugrid01_test.ugrid")
	defer os.Remove(fn)

	if errS := UGrid{}.WriteMesh(fn, g); errS != nil {
		tst.Fatalf("unexpected error writing: %v", errS)
	}
	g2, errS := UGrid{}.ReadMesh(fn)
	if errS != nil {
		tst.Fatalf("unexpected error reading: %v", errS)
	}
	if g2.Nodes.NumLive() != 4 {
		tst.Errorf("expected 4 nodes after round-trip, got %d", g2.Nodes.NumLive())
	}
	if g2.Cells.NumLive(cell.Tet) != 1 {
		tst.Errorf("expected 1 tet after round-trip, got %d", g2.Cells.NumLive(cell.Tet))
	}
	if g2.Cells.NumLive(cell.Tri) != 1 {
		tst.Errorf("expected 1 boundary tri after round-trip, got %d", g2.Cells.NumLive(cell.Tri))
	}
	var gotCADID int
	g2.Cells.Each(cell.Tri, func(_ int, c *cell.Cell) { gotCADID = c.CADID })
	if gotCADID != 5 {
		tst.Errorf("expected boundary tri CAD id 5 to survive the round-trip, got %d", gotCADID)
	}
	x0 := g2.Nodes.At(g2.Nodes.Find(0)).X
	if x0 != [3]float64{0, 0, 0} {
		tst.Errorf("expected node gid=0 at origin, got %v", x0)
	}
}

func Test_metric01_roundtrip(tst *testing.T) {
	chk.PrintTitle("metric01: plain metric file round-trips every node's tensor")
	g := oneTetGridWithBoundary()
	g.Nodes.Each(func(idx int, n *node.Node) { n.M = [6]float64{1, 0, 0, 2, 0, 3} })
	fn := filepath.Join(os.TempDir(), "refine_metric01_test.metric")
	defer os.Remove(fn)

	if errS := (PlainMetric{}).WriteMetric(fn, g); errS != nil {
		tst.Fatalf("unexpected error writing: %v", errS)
	}
	g.Nodes.Each(func(idx int, n *node.Node) { n.M = [6]float64{} })
	if errS := (PlainMetric{}).ReadMetric(fn, g); errS != nil {
		tst.Fatalf("unexpected error reading: %v", errS)
	}
	g.Nodes.Each(func(idx int, n *node.Node) {
		if n.M != [6]float64{1, 0, 0, 2, 0, 3} {
			tst.Errorf("node idx=%d metric did not round-trip, got %v", idx, n.M)
		}
	})
}
