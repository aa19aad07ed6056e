// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/node"
	"github.com/wbnns/refine/status"
)

// PassStats summarizes one pass's work, surfaced to the driver's progress
// log and to Validate's histograms (§4.7, §4.8).
type PassStats struct {
	Index            int
	Splits           int
	Collapses        int
	SwapsFace        int
	SwapsEdge        int
	Smooths          int
	Changed          bool
	RejectedInvariant int // recoverable InvariantViolated rejections swallowed this pass, see §7
}

// RunPass executes one sweep of §4.6's four operators in the prescribed
// order — collapse shortest-first, split longest-first, one swap sweep,
// one smooth sweep — over a fresh edge/node enumeration, and reports
// whether anything changed.
func RunPass(g *Grid, passIdx int) (PassStats, *status.S) {
	stats := PassStats{Index: passIdx}

	// collapse shortest-first: ascending metric length, short edges first.
	it := BuildEdgeIterator(g)
	byLen := g.SortByLength(it)
	for _, e := range byLen {
		if !g.Nodes.IsLive(e.N0) || !g.Nodes.IsLive(e.N1) {
			continue
		}
		ok, errS := tryCollapseEdge(g, e, &stats)
		if errS != nil {
			if !errS.Kind.Recoverable() {
				return stats, errS
			}
			stats.RejectedInvariant++
			continue
		}
		if ok {
			stats.Changed = true
		}
	}

	// split longest-first: descending metric length, over a fresh
	// enumeration (collapse may have removed/renamed edges).
	it = BuildEdgeIterator(g)
	byLen = g.SortByLength(it)
	for i, j := 0, len(byLen)-1; i < j; i, j = i+1, j-1 {
		byLen[i], byLen[j] = byLen[j], byLen[i]
	}
	for _, e := range byLen {
		if !g.Nodes.IsLive(e.N0) || !g.Nodes.IsLive(e.N1) {
			continue
		}
		ok, errS := Split(g, e.N0, e.N1)
		if errS != nil {
			if !errS.Kind.Recoverable() {
				return stats, errS
			}
			stats.RejectedInvariant++
			continue
		}
		if ok {
			stats.Changed = true
			stats.Splits++
		}
	}

	// one swap sweep: try both variants on every remaining edge, interior
	// faces get the face variant attempted via their two-tet edge test too.
	it = BuildEdgeIterator(g)
	it.Each(func(e EdgeKey) {
		if !g.Nodes.IsLive(e.N0) || !g.Nodes.IsLive(e.N1) {
			return
		}
		if ok, errS := SwapEdge(g, e.N0, e.N1); errS == nil && ok {
			stats.Changed = true
			stats.SwapsEdge++
		}
	})
	g.Cells.EachAll(func(k cell.Kind, idx int, c *cell.Cell) {
		if k != cell.Tet {
			return
		}
		for _, fv := range cell.TetFaceLocalV {
			a, b, cc := c.Nodes[fv[0]], c.Nodes[fv[1]], c.Nodes[fv[2]]
			if ok, errS := SwapFace(g, a, b, cc); errS == nil && ok {
				stats.Changed = true
				stats.SwapsFace++
			}
		}
	})

	// one smooth sweep over every live node.
	var nodeIdxs []int
	g.Nodes.Each(func(idx int, n *node.Node) { nodeIdxs = append(nodeIdxs, idx) })
	for _, idx := range nodeIdxs {
		ok, errS := Smooth(g, idx)
		if errS != nil {
			if !errS.Kind.Recoverable() {
				return stats, errS
			}
			stats.RejectedInvariant++
			continue
		}
		if ok {
			stats.Changed = true
			stats.Smooths++
		}
	}

	return stats, nil
}

// tryCollapseEdge attempts both collapse directions of e (whichever
// endpoint is legally the drop side) and reports whether one succeeded.
func tryCollapseEdge(g *Grid, e EdgeKey, stats *PassStats) (bool, *status.S) {
	if ok, errS := Collapse(g, e.N0, e.N1); errS != nil {
		return false, errS
	} else if ok {
		stats.Collapses++
		return true, nil
	}
	if ok, errS := Collapse(g, e.N1, e.N0); errS != nil {
		return false, errS
	} else if ok {
		stats.Collapses++
		return true, nil
	}
	return false, nil
}

// RunAdaptation runs the §4.7 fixed-point loop: up to cfg.MaxPasses passes,
// terminating after two consecutive no-change passes (and, for 2-D runs,
// never before cfg.MinPassesFor2D).
func RunAdaptation(g *Grid, is2D bool) ([]PassStats, *status.S) {
	var history []PassStats
	quiet := 0
	for p := 0; p < g.Cfg.MaxPasses; p++ {
		stats, errS := RunPass(g, p)
		history = append(history, stats)
		if errS != nil {
			return history, errS
		}
		if !stats.Changed {
			quiet++
		} else {
			quiet = 0
		}
		if quiet >= 2 && (!is2D || len(history) >= g.Cfg.MinPassesFor2D) {
			break
		}
	}
	return history, nil
}
