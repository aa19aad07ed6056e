// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/status"
)

// Validate checks the §8 quantified invariants that apply to a live grid
// snapshot (the ones not already exercised per-operator): positive tet
// volume, a face association for its CAD-face id at every node of each
// CAD-tagged boundary triangle, and adjacency round-trip.
func Validate(g *Grid) *status.S {
	var bad *status.S
	g.Cells.Each(cell.Tet, func(idx int, t *cell.Cell) {
		if bad != nil {
			return
		}
		x, ok := g.TetCoords(idx)
		if !ok {
			bad = status.New(status.InvariantViolated, "Validate: tet %d missing node", idx)
			return
		}
		if cell.OrientedVolume6(x[0], x[1], x[2], x[3]) <= 0 {
			bad = status.New(status.InvariantViolated, "Validate: tet %d has non-positive volume", idx)
		}
	})
	if bad != nil {
		return bad
	}

	g.Cells.Each(cell.Tri, func(idx int, t *cell.Cell) {
		if bad != nil || t.CADID == 0 {
			return // CADID 0 is the "unset" sentinel (§3); nothing to check
		}
		for _, n := range t.Nodes {
			a := g.Geom.Find(n, geom.Face, t.CADID)
			if a == nil {
				bad = status.New(status.InvariantViolated, "Validate: tri %d node %d missing face association for CAD id %d", idx, n, t.CADID)
				return
			}
		}
	})
	if bad != nil {
		return bad
	}

	return g.Cells.CheckAdjacencyRoundTrip()
}

// GhostParity is the supplemental validation of §4.9/§8 scenario 6: after a
// ghost-exchange refresh, every ghost node's coordinates, metric and geom
// associations must match the owner-reported payload bit-for-bit (modulo
// floating-point representability). Grounded on original_source/'s
// ref_mpi.c ghost-consistency check, absent from the distilled spec's
// literal text but implied by §4.9's ghost() contract.
func GhostParity(g *Grid, ghostGid int64, ownerX [3]float64, ownerM [6]float64, ownerAssocs []geom.Assoc) *status.S {
	local := g.Nodes.Find(ghostGid)
	if local < 0 {
		return status.New(status.NotFound, "GhostParity: ghost node gid=%d not present locally", ghostGid)
	}
	nd := g.Nodes.At(local)
	if nd == nil {
		return status.New(status.InvariantViolated, "GhostParity: ghost node gid=%d local slot is not live", ghostGid)
	}
	if nd.X != ownerX {
		return status.New(status.InvariantViolated, "GhostParity: gid=%d coordinate mismatch: local=%v owner=%v", ghostGid, nd.X, ownerX)
	}
	if nd.M != ownerM {
		return status.New(status.InvariantViolated, "GhostParity: gid=%d metric mismatch: local=%v owner=%v", ghostGid, nd.M, ownerM)
	}
	localAssocs := g.Geom.At(local)
	if len(localAssocs) != len(ownerAssocs) {
		return status.New(status.InvariantViolated, "GhostParity: gid=%d association count mismatch: local=%d owner=%d", ghostGid, len(localAssocs), len(ownerAssocs))
	}
	for _, oa := range ownerAssocs {
		found := false
		for _, la := range localAssocs {
			if la.Type == oa.Type && la.CADID == oa.CADID && la.Param == oa.Param {
				found = true
				break
			}
		}
		if !found {
			return status.New(status.InvariantViolated, "GhostParity: gid=%d owner association (type=%s cadID=%d) not replicated locally", ghostGid, oa.Type, oa.CADID)
		}
	}
	return nil
}
