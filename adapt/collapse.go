// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"math"

	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/status"
)

// assocRank returns the most-constrained (lowest-dimensional) CAD locus
// rank recorded at n, or 3 if n is unconstrained (interior), so interior
// sorts above a face association (§4.6 Collapse step 2). A node carries
// every association incident to its most-constrained locus (§3: a CAD
// vertex node also carries its incident edges and faces), so the rank
// that must drive "cannot promote" is the lowest one present, not the
// highest.
func assocRank(g *Grid, n int) int {
	a := g.Geom.LowestRank(n)
	if a == nil {
		return 3
	}
	return a.Type.Rank()
}

// Collapse implements §4.6 Collapse(edge(keep,drop)).
func Collapse(g *Grid, keep, drop int) (bool, *status.S) {
	length, errS := g.EdgeMetricLength(keep, drop)
	if errS != nil {
		return false, errS
	}
	if length >= 1/math.Sqrt2 {
		return false, nil // can_do: not short enough
	}

	if assocRank(g, drop) < assocRank(g, keep) {
		return false, nil // cannot promote drop onto a higher-dimensional locus
	}

	around := g.Cells.Adjacency(cell.Tet).Cells(drop)
	type repl struct {
		tidx  int
		nodes []int // nil => tet collapses to zero volume, remove outright
	}
	plan := make([]repl, 0, len(around))
	for _, tidx := range around {
		t := g.Cells.At(cell.Tet, tidx)
		if t == nil {
			continue
		}
		if t.HasNode(keep) {
			plan = append(plan, repl{tidx: tidx, nodes: nil})
			continue
		}
		newNodes := TetNodeSubst(t, drop, keep)
		if !tetNodesValid(g, newNodes) {
			return false, nil // reject: resulting tet would invert
		}
		if !surfaceAlignmentOK(g, newNodes) {
			return false, nil
		}
		plan = append(plan, repl{tidx: tidx, nodes: newNodes})
	}

	// commit
	for _, p := range plan {
		t := *g.Cells.At(cell.Tet, p.tidx)
		if errS := g.Cells.Remove(cell.Tet, p.tidx); errS != nil {
			return false, errS
		}
		if p.nodes == nil {
			continue
		}
		nc, errS := cell.NewCell(cell.Tet, p.nodes, t.CADID)
		if errS != nil {
			return false, errS
		}
		g.Cells.Insert(nc)
	}

	collapseBoundaryTris(g, keep, drop)
	collapseBoundarySegs(g, keep, drop)

	g.Geom.RemoveNode(drop)
	if errS := g.Nodes.Remove(drop); errS != nil {
		return false, errS
	}
	return true, nil
}

// tetNodesValid reports whether the tet named by the four local node
// indices has positive oriented volume.
func tetNodesValid(g *Grid, nodes []int) bool {
	if len(nodes) != 4 {
		return false
	}
	var xs [4][3]float64
	for i, n := range nodes {
		nd := g.Nodes.At(n)
		if nd == nil {
			return false
		}
		xs[i] = nd.X
	}
	return cell.OrientedVolume6(xs[0], xs[1], xs[2], xs[3]) > 0
}

// surfaceAlignmentOK checks the subset of nodes (if any three of them carry
// a shared CAD-face association) against the CAD surface normal tolerance,
// reusing the cavity's check (§4.5/§4.6).
func surfaceAlignmentOK(g *Grid, nodes []int) bool {
	if g.CAD == nil {
		return true
	}
	c := &Cavity{g: g}
	for _, fv := range cell.TetFaceLocalV {
		a, b, cc := nodes[fv[0]], nodes[fv[1]], nodes[fv[2]]
		cadID, ok := commonFaceCAD(g.Geom, a, b, cc)
		if !ok {
			continue
		}
		if errS := c.checkTriNormal(a, b, cc, cadID, g.Cfg.SmoothNormalTol); errS != nil {
			return false
		}
	}
	return true
}

// collapseBoundaryTris removes any boundary triangle spanning (keep,drop)
// (degenerate once drop is merged into keep) and substitutes drop -> keep in
// every other triangle incident to drop (§4.6 step 4).
func collapseBoundaryTris(g *Grid, keep, drop int) {
	forEachBoundaryIncident(g, cell.Tri, drop, keep, func(idx int, t cell.Cell, degenerate bool) {
		g.Cells.Remove(cell.Tri, idx)
		if degenerate {
			return
		}
		nodes := make([]int, len(t.Nodes))
		for i, n := range t.Nodes {
			if n == drop {
				n = keep
			}
			nodes[i] = n
		}
		nc, errS := cell.NewCell(cell.Tri, nodes, t.CADID)
		if errS == nil {
			g.Cells.Insert(nc)
		}
	})
}

// collapseBoundarySegs is collapseBoundaryTris' analogue for CAD-edge
// segments.
func collapseBoundarySegs(g *Grid, keep, drop int) {
	forEachBoundaryIncident(g, cell.Seg, drop, keep, func(idx int, t cell.Cell, degenerate bool) {
		g.Cells.Remove(cell.Seg, idx)
		if degenerate {
			return
		}
		nodes := make([]int, len(t.Nodes))
		for i, n := range t.Nodes {
			if n == drop {
				n = keep
			}
			nodes[i] = n
		}
		nc, errS := cell.NewCell(cell.Seg, nodes, t.CADID)
		if errS == nil {
			g.Cells.Insert(nc)
		}
	})
}

// forEachBoundaryIncident visits every live cell of kind k touching drop,
// flagging as degenerate those that also touch keep (they vanish once
// drop->keep is substituted).
func forEachBoundaryIncident(g *Grid, k cell.Kind, drop, keep int, f func(idx int, t cell.Cell, degenerate bool)) {
	idxs := g.Cells.Adjacency(k).Cells(drop)
	for _, idx := range idxs {
		t := g.Cells.At(k, idx)
		if t == nil {
			continue
		}
		f(idx, *t, t.HasNode(keep))
	}
}
