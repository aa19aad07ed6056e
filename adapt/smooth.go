// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/metric"
	"github.com/wbnns/refine/status"
)

// smoothSteps lists the candidate trial step sizes for the line-searches below,
// tried from largest to smallest (a crude backtracking line search).
var smoothSteps = [...]float64{1.0, 0.5, 0.25, 0.125, 0.0625, 0.03125}

// worstCostAt evaluates the metric-aware shape cost (negative of the
// minimum incident-tet quality, so smaller is better) of node n's incident
// tets if n were moved to trialXYZ, without mutating anything. ok is false
// if any incident tet would become invalid at trialXYZ (§4.6 Smooth step 3).
func worstCostAt(g *Grid, n int, tets []int, trialXYZ [3]float64) (cost float64, ok bool) {
	minQ := 1.0
	for _, tidx := range tets {
		t := g.Cells.At(cell.Tet, tidx)
		if t == nil {
			return 0, false
		}
		var nodes [4]int
		copy(nodes[:], t.Nodes)
		x, m, okXM := tetNodesXYZM(g, nodes)
		if !okXM {
			return 0, false
		}
		for i, nn := range nodes {
			if nn == n {
				x[i] = trialXYZ
			}
		}
		if cell.OrientedVolume6(x[0], x[1], x[2], x[3]) <= 0 {
			return 0, false
		}
		q, errS := metric.TetQuality(x, m)
		if errS != nil || q <= 0 {
			return 0, false
		}
		if q < minQ {
			minQ = q
		}
	}
	return -minQ, true
}

// Smooth implements §4.6 Smooth(node n).
func Smooth(g *Grid, n int) (bool, *status.S) {
	nd := g.Nodes.At(n)
	if nd == nil {
		return false, status.New(status.NotFound, "Smooth: node %d not found", n)
	}
	tets := g.Cells.Adjacency(cell.Tet).Cells(n)
	if len(tets) == 0 {
		return false, nil
	}
	curCost, ok := worstCostAt(g, n, tets, nd.X)
	if !ok {
		return false, status.New(status.InvariantViolated, "Smooth: node %d already sits in an invalid tet", n)
	}

	// A node carries every association incident to its most-constrained
	// locus (§3: a CAD-vertex node also carries its incident edges and
	// faces), so the freedom to move must come from the lowest-dimensional
	// (most-constrained) association present, not the highest.
	assoc := g.Geom.LowestRank(n)
	switch {
	case assoc != nil && assoc.Type == geom.Vertex:
		return false, nil // no freedom at a CAD vertex
	case assoc != nil && assoc.Type == geom.Edge:
		return smoothAlongEdge(g, n, tets, assoc, curCost)
	case assoc != nil && assoc.Type == geom.Face:
		return smoothOnFace(g, n, tets, assoc, curCost)
	default:
		return smooth3D(g, n, tets, curCost)
	}
}

// neighborCentroid averages every other node appearing in n's incident
// tets, the classic Laplacian-smoothing target.
func neighborCentroid(g *Grid, n int, tets []int) ([3]float64, bool) {
	seen := make(map[int]bool)
	var sum [3]float64
	count := 0
	for _, tidx := range tets {
		t := g.Cells.At(cell.Tet, tidx)
		if t == nil {
			return sum, false
		}
		for _, nn := range t.Nodes {
			if nn == n || seen[nn] {
				continue
			}
			seen[nn] = true
			nd := g.Nodes.At(nn)
			if nd == nil {
				return sum, false
			}
			sum[0] += nd.X[0]
			sum[1] += nd.X[1]
			sum[2] += nd.X[2]
			count++
		}
	}
	if count == 0 {
		return sum, false
	}
	return [3]float64{sum[0] / float64(count), sum[1] / float64(count), sum[2] / float64(count)}, true
}

// smooth3D line-searches along the Laplacian direction toward the centroid
// of n's neighbors (§4.6 step 2, interior case).
func smooth3D(g *Grid, n int, tets []int, curCost float64) (bool, *status.S) {
	nd := g.Nodes.At(n)
	target, ok := neighborCentroid(g, n, tets)
	if !ok {
		return false, nil
	}
	dir := [3]float64{target[0] - nd.X[0], target[1] - nd.X[1], target[2] - nd.X[2]}
	for _, s := range smoothSteps {
		trial := [3]float64{nd.X[0] + s*dir[0], nd.X[1] + s*dir[1], nd.X[2] + s*dir[2]}
		cost, ok := worstCostAt(g, n, tets, trial)
		if ok && cost < curCost {
			nd.X = trial
			return true, nil
		}
	}
	return false, nil
}

// smoothAlongEdge line-searches the CAD-edge parameter t around n's current
// value (§4.6 step 2, edge case).
func smoothAlongEdge(g *Grid, n int, tets []int, a *geom.Assoc, curCost float64) (bool, *status.S) {
	if g.CAD == nil {
		return false, nil
	}
	for _, s := range smoothSteps {
		for _, sign := range [2]float64{1, -1} {
			dt := sign * s * 0.1
			params := [2]float64{a.Param[0] + dt, a.Param[1]}
			xyz, _, errS := g.CAD.Eval(geom.Edge, a.CADID, params)
			if errS != nil {
				continue
			}
			cost, ok := worstCostAt(g, n, tets, xyz)
			if ok && cost < curCost {
				nd := g.Nodes.At(n)
				nd.X = xyz
				a.Param = params
				return true, nil
			}
		}
	}
	return false, nil
}

// smoothOnFace line-searches the CAD-face (u,v) parameters around n's
// current value (§4.6 step 2, face case).
func smoothOnFace(g *Grid, n int, tets []int, a *geom.Assoc, curCost float64) (bool, *status.S) {
	if g.CAD == nil {
		return false, nil
	}
	dirs := [4][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, s := range smoothSteps {
		for _, d := range dirs {
			params := [2]float64{a.Param[0] + s*0.1*d[0], a.Param[1] + s*0.1*d[1]}
			xyz, _, errS := g.CAD.Eval(geom.Face, a.CADID, params)
			if errS != nil {
				continue
			}
			cost, ok := worstCostAt(g, n, tets, xyz)
			if ok && cost < curCost {
				nd := g.Nodes.At(n)
				nd.X = xyz
				a.Param = params
				return true, nil
			}
		}
	}
	return false, nil
}
