// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import (
	"github.com/wbnns/refine/node"
	"github.com/wbnns/refine/status"
)

// globalGidSlots determines the dense [0, n) global-id space every rank
// must size its exchange buffers to, via the same IntAllReduceMax
// rank-agreement mallano-gofem/fem/errorhandler.go uses to decide whether
// any rank wants to stop.
func globalGidSlots(svc *Service) int {
	var localMax int64 = -1
	svc.Grid.Nodes.Each(func(_ int, n *node.Node) {
		if n.Gid > localMax {
			localMax = n.Gid
		}
	})
	in := []int32{int32(localMax)}
	out := []int32{0}
	svc.Transport.IntAllReduceMax(out, in)
	return int(out[0]) + 1
}

// Balance implements §4.9's balance(grid): every node's current owner
// decides its new owner under svc.Partitioner, and every rank learns every
// decision via one AllReduceSum over a dense per-gid vote buffer — the same
// "each rank writes only its own contribution, zero elsewhere, sum
// reconstructs the global picture" technique
// mallano-gofem/fem/solver.go uses for residuals at nodes shared by more
// than one partition. Only the Owner/Ghost bookkeeping changes here; the
// migrated node's coordinates/metric/associations are refreshed by a
// subsequent Ghost call.
func Balance(svc *Service) *status.S {
	rank := svc.Transport.Rank()
	nproc := svc.Transport.Size()
	if nproc <= 1 {
		return nil
	}
	nSlots := globalGidSlots(svc)
	if nSlots <= 0 {
		return nil
	}

	votes := make([]float64, nSlots)
	svc.Grid.Nodes.Each(func(_ int, n *node.Node) {
		if n.Ghost || n.Owner != rank || n.Gid < 0 || int(n.Gid) >= nSlots {
			return // only the current owner of a non-ghost slot votes
		}
		newOwner := svc.Partitioner.Owner(n.Gid, n.Owner, nproc)
		votes[n.Gid] = float64(newOwner + 1) // +1 so "undecided" (0) is distinguishable
	})
	combined := make([]float64, nSlots)
	svc.Transport.AllReduceSum(combined, votes)

	svc.Grid.Nodes.Each(func(_ int, n *node.Node) {
		if n.Gid < 0 || int(n.Gid) >= nSlots {
			return
		}
		v := combined[n.Gid]
		if v <= 0 {
			return // no owner voted this pass, e.g. a node this rank only ghosts
		}
		newOwner := int(v) - 1
		n.Owner = newOwner
		n.Ghost = newOwner != rank
	})
	return nil
}
