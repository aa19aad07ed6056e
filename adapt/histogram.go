// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"math"

	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/geom"
)

// Histogram is a §4.8 logarithmic-bin histogram: bin k covers
// [base^k, base^(k+1)) in the caller's chosen units, indexed around a
// center value (e.g. 1.0 for the metric-length acceptance band).
type Histogram struct {
	Base    float64
	Center  float64
	Counts  map[int]int
	Total   int
}

// NewHistogram returns an empty histogram with bins of width base around
// center: bin k holds values in [center*base^k, center*base^(k+1)) (e.g.
// base=2, center=1 puts bin boundaries at 0.5, 1, 2, ...).
func NewHistogram(base, center float64) *Histogram {
	return &Histogram{Base: base, Center: center, Counts: make(map[int]int)}
}

// Add records one sample, binning log_base(value/center).
func (h *Histogram) Add(value float64) {
	if value <= 0 {
		return
	}
	k := int(math.Floor(math.Log(value/h.Center) / math.Log(h.Base)))
	h.Counts[k]++
	h.Total++
}

// PassHistograms bundles the §4.8 per-pass diagnostics.
type PassHistograms struct {
	EdgeLength    *Histogram // metric-space edge length, log2 bins around 1
	Quality       *Histogram // tet mean-ratio quality, log2 bins around 1 (so <1 bins dominate)
	InvertedCount int
	CADResiduals  []float64 // |eval(params) - stored xyz| per CAD-constrained node
}

// CollectHistograms builds §4.8's per-pass emission: edge-length histogram,
// quality histogram, inverted-cell count, and CAD-parameter residuals.
func CollectHistograms(g *Grid) PassHistograms {
	out := PassHistograms{
		EdgeLength: NewHistogram(2, 1),
		Quality:    NewHistogram(2, 1),
	}

	it := BuildEdgeIterator(g)
	it.Each(func(e EdgeKey) {
		l, errS := g.EdgeMetricLength(e.N0, e.N1)
		if errS == nil {
			out.EdgeLength.Add(l)
		}
	})

	g.Cells.Each(cell.Tet, func(idx int, _ *cell.Cell) {
		q, errS := g.TetQuality(idx)
		if errS != nil {
			return
		}
		if q <= 0 {
			out.InvertedCount++
			return
		}
		out.Quality.Add(q)
	})

	collectCADResiduals(g, &out)
	return out
}

// collectCADResiduals walks every node carrying a CAD association and
// records |eval(params) - stored xyz| (§4.8, §8 CAD-parameter residuals).
func collectCADResiduals(g *Grid, out *PassHistograms) {
	if g.CAD == nil {
		return
	}
	seen := make(map[int]bool)
	g.Cells.EachAll(func(k cell.Kind, idx int, c *cell.Cell) {
		for _, n := range c.Nodes {
			if seen[n] {
				continue
			}
			seen[n] = true
			for _, a := range g.Geom.At(n) {
				if a.Type == geom.Vertex {
					continue // vertices carry no free parameter to re-evaluate
				}
				nd := g.Nodes.At(n)
				if nd == nil {
					continue
				}
				xyz, _, errS := g.CAD.Eval(a.Type, a.CADID, a.Param)
				if errS != nil {
					continue
				}
				d := [3]float64{xyz[0] - nd.X[0], xyz[1] - nd.X[1], xyz[2] - nd.X[2]}
				out.CADResiduals = append(out.CADResiduals, math.Sqrt(d[0]*d[0]+d[1]*d[1]+d[2]*d[2]))
			}
		}
	})
}
