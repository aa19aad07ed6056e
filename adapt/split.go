// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"math"

	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/metric"
	"github.com/wbnns/refine/node"
	"github.com/wbnns/refine/status"
)

// splitPlan is the decision half of Split: where the new midpoint node
// lands, its metric, and the CAD association (if any) it inherits.
type splitPlan struct {
	xyz     [3]float64
	m       metric.Tensor
	hasAsoc bool
	typ     geom.AssocType
	cadID   int
	param   [2]float64
}

// planSplitMidpoint computes the §4.6 Split step 2 decision: the metric
// midpoint, and — when both endpoints are CAD-constrained — the
// higher-dimensional locus's parametrization, inverse-evaluated from the
// straight-line midpoint and then snapped back onto the surface.
func planSplitMidpoint(g *Grid, n0, n1 int) (splitPlan, *status.S) {
	var plan splitPlan
	a := g.Nodes.At(n0)
	b := g.Nodes.At(n1)
	if a == nil || b == nil {
		return plan, status.New(status.NotFound, "planSplitMidpoint: node %d or %d not found", n0, n1)
	}
	mid := metric.Midpoint
	mm, errS := mid(metric.Tensor(a.M), metric.Tensor(b.M))
	if errS != nil {
		return plan, errS
	}
	plan.m = mm
	plan.xyz = [3]float64{(a.X[0] + b.X[0]) / 2, (a.X[1] + b.X[1]) / 2, (a.X[2] + b.X[2]) / 2}

	aAssoc := g.Geom.HighestRank(n0)
	bAssoc := g.Geom.HighestRank(n1)
	if aAssoc == nil || bAssoc == nil {
		// an edge with one genuinely interior endpoint is itself interior,
		// however constrained the other endpoint is: the midpoint must not
		// be projected onto a CAD locus it does not actually lie on.
		return plan, nil
	}
	best := higherRank(aAssoc, bAssoc)
	plan.hasAsoc = true
	plan.typ = best.Type
	plan.cadID = best.CADID

	if g.CAD == nil {
		plan.param = best.Param
		return plan, nil
	}
	params, errS := g.CAD.InverseEval(best.Type, best.CADID, plan.xyz)
	if errS != nil {
		return plan, errS
	}
	xyz, _, errS := g.CAD.Eval(best.Type, best.CADID, params)
	if errS != nil {
		return plan, errS
	}
	plan.param = params
	plan.xyz = xyz
	return plan, nil
}

// higherRank returns whichever of a, b sits on the higher-dimensional CAD
// locus (face > edge > vertex), nil if neither is CAD-constrained.
func higherRank(a, b *geom.Assoc) *geom.Assoc {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Type.Rank() > a.Type.Rank() {
		return b
	}
	return a
}

// Split implements §4.6 Split(edge(n0,n1)): the full
// (can_do? -> decision) -> (try -> commit | reject) shape.
func Split(g *Grid, n0, n1 int) (bool, *status.S) {
	length, errS := g.EdgeMetricLength(n0, n1)
	if errS != nil {
		return false, errS
	}
	if length <= math.Sqrt2 {
		return false, nil // can_do: not long enough, not an error
	}

	plan, errS := planSplitMidpoint(g, n0, n1)
	if errS != nil {
		return false, errS
	}

	cav := EdgeCavity(g, n0, n1)
	tets := cav.Tets()
	if len(tets) == 0 {
		return false, status.New(status.InvariantViolated, "Split: edge (%d,%d) touches no tet", n0, n1)
	}

	// try: verify every tentative replacement tet has positive volume before
	// mutating anything.
	for _, tidx := range tets {
		t := g.Cells.At(cell.Tet, tidx)
		if t == nil {
			return false, status.New(status.InvariantViolated, "Split: tet %d vanished mid-check", tidx)
		}
		if !splitTetValid(g, t, n0, n1, plan.xyz) {
			return false, nil // reject: proposed geometry would invert a tet
		}
	}

	// commit
	newIdx, errS := g.Nodes.Insert(node.Node{Gid: nextGid(g), X: plan.xyz, M: [6]float64(plan.m)})
	if errS != nil {
		return false, errS
	}
	if plan.hasAsoc {
		g.Geom.Add(newIdx, plan.typ, plan.cadID, plan.param)
	}

	for _, tidx := range tets {
		t := *g.Cells.At(cell.Tet, tidx)
		if errS := g.Cells.Remove(cell.Tet, tidx); errS != nil {
			return false, errS
		}
		nodesA := TetNodeSubst(&t, n1, newIdx)
		nodesB := TetNodeSubst(&t, n0, newIdx)
		ca, _ := cell.NewCell(cell.Tet, nodesA, 0)
		cb, _ := cell.NewCell(cell.Tet, nodesB, 0)
		g.Cells.Insert(ca)
		g.Cells.Insert(cb)
	}

	splitBoundaryTris(g, n0, n1, newIdx)
	splitBoundarySegs(g, n0, n1, newIdx)

	return true, nil
}

// splitTetValid checks both halves of a tet replaced by coning through
// edge (n0,n1) at midXYZ, without mutating anything.
func splitTetValid(g *Grid, t *cell.Cell, n0, n1 int, midXYZ [3]float64) bool {
	half := func(drop int) bool {
		var xs [4][3]float64
		for i, n := range t.Nodes {
			if n == drop {
				xs[i] = midXYZ
				continue
			}
			nd := g.Nodes.At(n)
			if nd == nil {
				return false
			}
			xs[i] = nd.X
		}
		return cell.OrientedVolume6(xs[0], xs[1], xs[2], xs[3]) > 0
	}
	return half(n1) && half(n0)
}

// splitBoundaryTris replaces every boundary triangle spanning (n0,n1) with
// two triangles through newIdx, preserving the CAD-face id and adding a
// face association for the new node (§4.6 step 4).
func splitBoundaryTris(g *Grid, n0, n1, newIdx int) {
	tris := g.Cells.ListWith2(cell.Tri, n0, n1, 0)
	for _, tidx := range tris {
		t := *g.Cells.At(cell.Tri, tidx)
		third := thirdNode(t.Nodes, n0, n1)
		if third < 0 {
			continue
		}
		g.Cells.Remove(cell.Tri, tidx)
		ca, _ := cell.NewCell(cell.Tri, []int{n0, newIdx, third}, t.CADID)
		cb, _ := cell.NewCell(cell.Tri, []int{newIdx, n1, third}, t.CADID)
		g.Cells.Insert(ca)
		g.Cells.Insert(cb)
		if a := g.Geom.Find(n0, geom.Face, t.CADID); a != nil {
			g.Geom.Add(newIdx, geom.Face, t.CADID, a.Param)
		}
	}
}

// splitBoundarySegs replaces the CAD-edge segment spanning (n0,n1), if any,
// with two segments through newIdx, and adds an edge association for the
// new node (§4.6 step 4).
func splitBoundarySegs(g *Grid, n0, n1, newIdx int) {
	segs := g.Cells.ListWith2(cell.Seg, n0, n1, 0)
	for _, sidx := range segs {
		s := *g.Cells.At(cell.Seg, sidx)
		g.Cells.Remove(cell.Seg, sidx)
		ca, _ := cell.NewCell(cell.Seg, []int{n0, newIdx}, s.CADID)
		cb, _ := cell.NewCell(cell.Seg, []int{newIdx, n1}, s.CADID)
		g.Cells.Insert(ca)
		g.Cells.Insert(cb)
		if a := g.Geom.Find(n0, geom.Edge, s.CADID); a != nil {
			g.Geom.Add(newIdx, geom.Edge, s.CADID, a.Param)
		}
	}
}

func thirdNode(nodes []int, n0, n1 int) int {
	for _, n := range nodes {
		if n != n0 && n != n1 {
			return n
		}
	}
	return -1
}

// nextGid allocates a fresh global id for a newly-split node. Single-process
// runs (no partition service attached) simply take one past the current
// maximum; the partition service's ghost/balance collective is responsible
// for global-id coordination across processes (§4.9).
func nextGid(g *Grid) int64 {
	var max int64 = -1
	g.Nodes.Each(func(_ int, n *node.Node) {
		if n.Gid > max {
			max = n.Gid
		}
	})
	return max + 1
}
