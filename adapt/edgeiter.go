// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"sort"

	"github.com/wbnns/refine/cell"
)

// EdgeKey canonically orders an undirected edge by local node index
// (stable within one pass: compaction, the only thing that moves local
// indices, happens only between passes, §4.1/§5).
type EdgeKey struct {
	N0, N1 int // N0 < N1
}

func makeEdgeKey(a, b int) EdgeKey {
	if a < b {
		return EdgeKey{a, b}
	}
	return EdgeKey{b, a}
}

// EdgeIterator enumerates each undirected edge of the tet mesh exactly once
// (§4.4), built by scanning every tet and emitting its six canonical edges,
// de-duplicated by insertion into a set.
type EdgeIterator struct {
	edges []EdgeKey
}

// BuildEdgeIterator scans every live tet of g.Cells and returns the unique
// edge set.
func BuildEdgeIterator(g *Grid) *EdgeIterator {
	seen := make(map[EdgeKey]struct{})
	it := &EdgeIterator{}
	g.Cells.Each(cell.Tet, func(_ int, t *cell.Cell) {
		for _, e := range cell.TetEdgeLocalV {
			k := makeEdgeKey(t.Nodes[e[0]], t.Nodes[e[1]])
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				it.edges = append(it.edges, k)
			}
		}
	})
	return it
}

// Len returns the number of unique edges.
func (it *EdgeIterator) Len() int { return len(it.edges) }

// Each calls f for every unique edge.
func (it *EdgeIterator) Each(f func(e EdgeKey)) {
	for _, e := range it.edges {
		f(e)
	}
}

// Owner returns the owning partition of edge e: the partition of the node
// carrying the lowest global id (§4.4, GLOSSARY).
func (g *Grid) Owner(e EdgeKey) int {
	a := g.Nodes.At(e.N0)
	b := g.Nodes.At(e.N1)
	if a == nil || b == nil {
		return -1
	}
	if a.Gid <= b.Gid {
		return a.Owner
	}
	return b.Owner
}

// SortByLength returns the edges ordered by ascending metric length, used to
// schedule "collapse shortest first" within a pass (§4.6).
func (g *Grid) SortByLength(it *EdgeIterator) []EdgeKey {
	out := make([]EdgeKey, len(it.edges))
	copy(out, it.edges)
	lens := make(map[EdgeKey]float64, len(out))
	for _, e := range out {
		l, errS := g.EdgeMetricLength(e.N0, e.N1)
		if errS != nil {
			l = 1.0 // treat unmeasurable edges as already-acceptable; skip gracefully
		}
		lens[e] = l
	}
	sort.Slice(out, func(i, j int) bool { return lens[out[i]] < lens[out[j]] })
	return out
}

// GhostEdgeData is the per-edge payload the ghost-exchange collective
// carries for an edge spanning a partition boundary (§4.4, §4.9): an
// integer flag (e.g. "scheduled this pass") or a double (e.g. a proposed
// split length), keyed by the edge's two node global ids so either side can
// reconstruct its local EdgeKey after a ghost refresh.
type GhostEdgeData struct {
	Gid0, Gid1 int64
	IntVal     int
	DoubleVal  float64
}
