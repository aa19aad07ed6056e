// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/metric"
	"github.com/wbnns/refine/status"
)

// tetNodesXYZM gathers coordinates and metrics for a tentative tet's four
// node local-indices.
func tetNodesXYZM(g *Grid, nodes [4]int) (x [4][3]float64, m [4]metric.Tensor, ok bool) {
	for i, n := range nodes {
		nd := g.Nodes.At(n)
		if nd == nil {
			return x, m, false
		}
		x[i] = nd.X
		m[i] = metric.Tensor(nd.M)
	}
	return x, m, true
}

// orientTet flips the last two nodes if needed so the tet has positive
// oriented volume; returns ok=false if the four points are coplanar (no
// orientation fixes a zero volume).
func orientTet(g *Grid, nodes [4]int) ([4]int, bool) {
	x, _, ok := tetNodesXYZM(g, nodes)
	if !ok {
		return nodes, false
	}
	v := cell.OrientedVolume6(x[0], x[1], x[2], x[3])
	if v > 0 {
		return nodes, true
	}
	if v < 0 {
		nodes[2], nodes[3] = nodes[3], nodes[2]
		return nodes, true
	}
	return nodes, false
}

func tetQualityOf(g *Grid, nodes [4]int) (float64, bool) {
	x, m, ok := tetNodesXYZM(g, nodes)
	if !ok {
		return 0, false
	}
	q, errS := metric.TetQuality(x, m)
	if errS != nil {
		return 0, false
	}
	return q, true
}

// SwapFace implements §4.6's face-swap (2-to-3) variant: the interior face
// (n0,n1,n2) shared by exactly two tets becomes three tets around the new
// edge joining the two tets' opposite apexes, committed only if every new
// tet is valid and the worst quality in the local region strictly improves.
func SwapFace(g *Grid, n0, n1, n2 int) (bool, *status.S) {
	tets := g.Cells.TetsOnFace(n0, n1, n2)
	if len(tets) != 2 {
		return false, nil // not an interior face: no swap possible
	}
	t0 := g.Cells.At(cell.Tet, tets[0])
	t1 := g.Cells.At(cell.Tet, tets[1])
	if t0 == nil || t1 == nil {
		return false, status.New(status.InvariantViolated, "SwapFace: face tet vanished mid-check")
	}
	apex0 := opposite3(t0.Nodes, n0, n1, n2)
	apex1 := opposite3(t1.Nodes, n0, n1, n2)
	if apex0 < 0 || apex1 < 0 {
		return false, status.New(status.InvariantViolated, "SwapFace: could not resolve opposite apexes")
	}

	origQ0, ok0 := tetQualityOf(g, [4]int{t0.Nodes[0], t0.Nodes[1], t0.Nodes[2], t0.Nodes[3]})
	origQ1, ok1 := tetQualityOf(g, [4]int{t1.Nodes[0], t1.Nodes[1], t1.Nodes[2], t1.Nodes[3]})
	if !ok0 || !ok1 {
		return false, status.New(status.InvariantViolated, "SwapFace: could not evaluate original quality")
	}
	origWorst := minOf(origQ0, origQ1)

	candTriples := [3][3]int{{n0, n1, apex0}, {n1, n2, apex0}, {n2, n0, apex0}}
	var newTets [3][4]int
	worst := 1.0
	for i, tr := range candTriples {
		nodes, ok := orientTet(g, [4]int{apex1, tr[0], tr[1], tr[2]})
		if !ok {
			return false, nil
		}
		q, ok := tetQualityOf(g, nodes)
		if !ok {
			return false, nil
		}
		newTets[i] = nodes
		if q < worst {
			worst = q
		}
	}
	if worst <= origWorst {
		return false, nil // no strict improvement
	}

	if errS := g.Cells.Remove(cell.Tet, tets[0]); errS != nil {
		return false, errS
	}
	if errS := g.Cells.Remove(cell.Tet, tets[1]); errS != nil {
		return false, errS
	}
	for _, nodes := range newTets {
		nc, errS := cell.NewCell(cell.Tet, nodes[:], 0)
		if errS != nil {
			return false, errS
		}
		g.Cells.Insert(nc)
	}
	return true, nil
}

// opposite3 returns the node of nodes not in {a,b,c}.
func opposite3(nodes []int, a, b, c int) int {
	for _, n := range nodes {
		if n != a && n != b && n != c {
			return n
		}
	}
	return -1
}

func minOf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ringCandidate is one fan-triangulation choice for SwapEdge: the new tets
// it proposes and their worst quality.
type ringCandidate struct {
	tets  [][4]int
	worst float64
}

// buildRing chains the "third/fourth node" pair of every tet around edge
// (n0,n1) into the closed polygon of ring nodes (§4.6 Swap, edge variant).
func buildRing(g *Grid, tets []int, n0, n1 int) ([]int, bool) {
	type pair struct{ a, b int }
	pairs := make([]pair, 0, len(tets))
	for _, tidx := range tets {
		t := g.Cells.At(cell.Tet, tidx)
		if t == nil {
			return nil, false
		}
		var other []int
		for _, n := range t.Nodes {
			if n != n0 && n != n1 {
				other = append(other, n)
			}
		}
		if len(other) != 2 {
			return nil, false
		}
		pairs = append(pairs, pair{other[0], other[1]})
	}
	if len(pairs) == 0 {
		return nil, false
	}
	used := make([]bool, len(pairs))
	ring := []int{pairs[0].a, pairs[0].b}
	used[0] = true
	for len(ring) < len(pairs) {
		last := ring[len(ring)-1]
		found := false
		for i, p := range pairs {
			if used[i] {
				continue
			}
			if p.a == last {
				ring = append(ring, p.b)
				used[i] = true
				found = true
				break
			}
			if p.b == last {
				ring = append(ring, p.a)
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	if ring[len(ring)-1] != ring[0] && len(ring) == len(pairs) {
		// well-formed open chain closing back to ring[0] is implicit (last
		// pair's far end equals ring[0]); verify it explicitly.
		last := ring[len(ring)-1]
		closesBack := false
		for _, p := range pairs {
			if (p.a == last && p.b == ring[0]) || (p.b == last && p.a == ring[0]) {
				closesBack = true
				break
			}
		}
		if !closesBack {
			return nil, false
		}
	}
	return ring, true
}

// evalHub builds the fan triangulation of the ring from hub index h and
// evaluates both n0- and n1-side tets for every ring triangle, oriented
// and quality-checked.
func evalHub(g *Grid, ring []int, n0, n1, h int) (ringCandidate, bool) {
	n := len(ring)
	cand := ringCandidate{worst: 1.0}
	for k := 0; k < n-2; k++ {
		a := ring[h]
		b := ring[(h+1+k)%n]
		c := ring[(h+2+k)%n]
		if a == b || b == c || a == c {
			return cand, false
		}
		for _, apex := range [2]int{n0, n1} {
			nodes, ok := orientTet(g, [4]int{apex, a, b, c})
			if !ok {
				return cand, false
			}
			q, ok := tetQualityOf(g, nodes)
			if !ok {
				return cand, false
			}
			cand.tets = append(cand.tets, nodes)
			if q < cand.worst {
				cand.worst = q
			}
		}
	}
	return cand, true
}

// SwapEdge implements §4.6's edge-swap (N-to-2(N-2)) variant: the ring of N
// tets around edge (n0,n1) is retriangulated by choosing the hub ring-vertex
// that maximizes the worst resulting quality, committed only if that beats
// the original ring's worst quality.
func SwapEdge(g *Grid, n0, n1 int) (bool, *status.S) {
	tets := g.Cells.TetsOnEdge(n0, n1)
	if len(tets) < 3 {
		return false, nil
	}
	origWorst := 1.0
	for _, tidx := range tets {
		q, errS := g.TetQuality(tidx)
		if errS != nil {
			return false, errS
		}
		if q < origWorst {
			origWorst = q
		}
	}

	ring, ok := buildRing(g, tets, n0, n1)
	if !ok || len(ring) != len(tets) {
		return false, nil // boundary or non-simple ring: not handled by this variant
	}

	var best *ringCandidate
	for h := range ring {
		cand, ok := evalHub(g, ring, n0, n1, h)
		if !ok {
			continue
		}
		if best == nil || cand.worst > best.worst {
			c := cand
			best = &c
		}
	}
	if best == nil || best.worst <= origWorst {
		return false, nil
	}

	for _, tidx := range tets {
		if errS := g.Cells.Remove(cell.Tet, tidx); errS != nil {
			return false, errS
		}
	}
	for _, nodes := range best.tets {
		nc, errS := cell.NewCell(cell.Tet, nodes[:], 0)
		if errS != nil {
			return false, errS
		}
		g.Cells.Insert(nc)
	}
	return true, nil
}
