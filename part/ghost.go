// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import (
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/node"
	"github.com/wbnns/refine/status"
)

// maxAssocPerNode caps how many geom associations Ghost refreshes per
// node: a vertex, or an edge plus one ridge face, covers the common case;
// a node carrying more (a multi-ridge CAD vertex) keeps its locally-held
// associations stale until the next full reload. Documented as a scoping
// decision, not a correctness requirement (§4.9 is consumed, not specified
// in depth).
const maxAssocPerNode = 2

// recordLen is the per-gid exchange-buffer width: 3 (x) + 6 (m) + 1
// (present flag) + maxAssocPerNode*4 (type, cadID, param0, param1).
const recordLen = 3 + 6 + 1 + maxAssocPerNode*4

// Ghost implements §4.9's ghost(grid): every node this rank no longer owns
// (flagged by a prior Balance) is refreshed to its owner's current
// coordinates, metric and geom associations. Like Balance, this is one
// AllReduceSum over a dense per-gid buffer: each owner writes its node's
// record, non-owners write zero, and the sum reconstructs the owner's data
// for everyone — the same pattern mallano-gofem/fem/solver.go relies on to
// combine contributions at a node shared by more than one partition.
func Ghost(svc *Service) *status.S {
	rank := svc.Transport.Rank()
	nSlots := globalGidSlots(svc)
	if nSlots <= 0 {
		return nil
	}

	buf := make([]float64, nSlots*recordLen)
	svc.Grid.Nodes.Each(func(idx int, n *node.Node) {
		if n.Owner != rank || n.Ghost || n.Gid < 0 || int(n.Gid) >= nSlots {
			return
		}
		base := int(n.Gid) * recordLen
		copy(buf[base:base+3], n.X[:])
		copy(buf[base+3:base+9], n.M[:])
		buf[base+9] = 1
		assocs := svc.Grid.Geom.At(idx)
		for i := 0; i < maxAssocPerNode && i < len(assocs); i++ {
			a := assocs[i]
			slot := base + 10 + i*4
			buf[slot+0] = float64(a.Type)
			buf[slot+1] = float64(a.CADID)
			buf[slot+2] = a.Param[0]
			buf[slot+3] = a.Param[1]
		}
	})

	combined := make([]float64, len(buf))
	svc.Transport.AllReduceSum(combined, buf)

	var bad *status.S
	svc.Grid.Nodes.Each(func(idx int, n *node.Node) {
		if bad != nil || !n.Ghost || n.Gid < 0 || int(n.Gid) >= nSlots {
			return
		}
		base := int(n.Gid) * recordLen
		if combined[base+9] == 0 {
			bad = status.New(status.NotFound, "Ghost: no owner reported data for gid=%d", n.Gid)
			return
		}
		copy(n.X[:], combined[base:base+3])
		copy(n.M[:], combined[base+3:base+9])
		svc.Grid.Geom.RemoveNode(idx)
		for i := 0; i < maxAssocPerNode; i++ {
			slot := base + 10 + i*4
			typ := geom.AssocType(int(combined[slot+0]))
			cadID := int(combined[slot+1])
			if cadID == 0 && typ == geom.Vertex {
				continue // slot never written by the owner
			}
			svc.Grid.Geom.Add(idx, typ, cadID, [2]float64{combined[slot+2], combined[slot+3]})
		}
	})
	return bad
}
