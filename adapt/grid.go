// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package adapt implements the edge iterator, cavity, the four local
// operators, the fixed-point adaptation pass and validation/histograms
// (§4.4-§4.8), orchestrating the node/cell/geom stores and the metric
// algebra. Grid plays the role of the teacher's fem.Domain: the aggregate
// that owns the stores active during one stage of work
// (mallano-gofem/fem/domain.go).
package adapt

import (
	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/config"
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/metric"
	"github.com/wbnns/refine/node"
	"github.com/wbnns/refine/status"
)

// Grid aggregates the node, cell and geom stores plus the CAD facade and
// configuration that the edge iterator, cavity and operators all need.
type Grid struct {
	Nodes *node.Store
	Cells *cell.Store
	Geom  *geom.Store
	CAD   geom.CAD
	Cfg   *config.Config
}

// New returns an empty Grid wired to cfg (or config.Default() if nil).
func New(cad geom.CAD, cfg *config.Config) *Grid {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Grid{Nodes: node.New(), Cells: cell.New(), Geom: geom.New(), CAD: cad, Cfg: cfg}
}

// TetCoords returns the four corner coordinates of the tet at local index
// tidx, in the Cell's node order.
func (g *Grid) TetCoords(tidx int) (x [4][3]float64, ok bool) {
	t := g.Cells.At(cell.Tet, tidx)
	if t == nil {
		return x, false
	}
	for i, n := range t.Nodes {
		nd := g.Nodes.At(n)
		if nd == nil {
			return x, false
		}
		x[i] = nd.X
	}
	return x, true
}

// TetMetrics returns the four corner metrics of the tet at local index tidx.
func (g *Grid) TetMetrics(tidx int) (m [4]metric.Tensor, ok bool) {
	t := g.Cells.At(cell.Tet, tidx)
	if t == nil {
		return m, false
	}
	for i, n := range t.Nodes {
		nd := g.Nodes.At(n)
		if nd == nil {
			return m, false
		}
		m[i] = metric.Tensor(nd.M)
	}
	return m, true
}

// TetQuality evaluates the mean-ratio quality of the tet at tidx (§4.3).
func (g *Grid) TetQuality(tidx int) (float64, *status.S) {
	x, ok := g.TetCoords(tidx)
	if !ok {
		return 0, status.New(status.NotFound, "TetQuality: tet %d not found", tidx)
	}
	m, ok := g.TetMetrics(tidx)
	if !ok {
		return 0, status.New(status.NotFound, "TetQuality: tet %d missing node metric", tidx)
	}
	return metric.TetQuality(x, m)
}

// EdgeMetricLength returns the metric-space length of the edge (n0,n1)
// (local node indices), per §4.3.
func (g *Grid) EdgeMetricLength(n0, n1 int) (float64, *status.S) {
	a := g.Nodes.At(n0)
	b := g.Nodes.At(n1)
	if a == nil || b == nil {
		return 0, status.New(status.NotFound, "EdgeMetricLength: node %d or %d not found", n0, n1)
	}
	return metric.EdgeLength(a.X, metric.Tensor(a.M), b.X, metric.Tensor(b.M))
}

// Pack implements §4.9's pack(grid): compacts the node store's free-list
// slots, remaps every cell's node references and every geom association
// through the resulting permutation, then compacts the cell store itself.
// Returns the node permutation (old local index -> new, -1 if freed), the
// value the partition service reports to the caller.
func (g *Grid) Pack() ([]int, *status.S) {
	perm := g.Nodes.Compact()
	if errS := g.Cells.RemapNodeRefs(perm); errS != nil {
		return nil, errS
	}
	if errS := g.Geom.Remap(perm); errS != nil {
		return nil, errS
	}
	g.Cells.Compact()
	return perm, nil
}

// TetNodeSubst returns a copy of the tet's Nodes with every occurrence of
// from replaced by to (used by Collapse to build proposed replacement tets).
func TetNodeSubst(t *cell.Cell, from, to int) []int {
	out := make([]int, len(t.Nodes))
	for i, n := range t.Nodes {
		if n == from {
			out[i] = to
		} else {
			out[i] = n
		}
	}
	return out
}
