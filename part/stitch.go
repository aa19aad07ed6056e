// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import (
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/node"
)

// StitchReport summarizes one Stitch call for the driver's progress log.
type StitchReport struct {
	SharedNodes int // nodes present by gid in both grids
	Reconciled  int // of those, how many disagreed and were overwritten
}

// Stitch is the supplemental two-grid merge of original_source/'s
// ref_stitch.c: after two adjacent partitions adapt independently, their
// shared boundary nodes (same global id, found by both grids' node stores)
// may have drifted apart — one side may have smoothed, split, or
// curvature-snapped a node the other side left untouched. Stitch makes the
// side carrying the higher-rank CAD association canonical (the same
// "higher-rank locus wins" rule §4.6's Split uses to choose a midpoint's
// inherited association) and copies its coordinates/metric into the other
// side. It touches only node data, never connectivity: that remains each
// partition's own cell store.
func Stitch(aNodes, bNodes *node.Store, aGeom, bGeom *geom.Store) StitchReport {
	var report StitchReport
	aNodes.Each(func(aidx int, an *node.Node) {
		bidx := bNodes.Find(an.Gid)
		if bidx < 0 {
			return
		}
		report.SharedNodes++
		bn := bNodes.At(bidx)
		if bn == nil {
			return
		}
		if an.X == bn.X && an.M == bn.M {
			return
		}
		aRank, bRank := -1, -1
		if r := aGeom.HighestRank(aidx); r != nil {
			aRank = r.Type.Rank()
		}
		if r := bGeom.HighestRank(bidx); r != nil {
			bRank = r.Type.Rank()
		}
		if bRank > aRank {
			an.X, an.M = bn.X, bn.M
		} else {
			bn.X, bn.M = an.X, an.M
		}
		report.Reconciled++
	})
	return report
}
