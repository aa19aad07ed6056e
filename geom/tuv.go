// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"github.com/wbnns/refine/status"
)

// CellTUV returns the correct parameter value and sense for evaluating node
// within the given cell (not just the node's own stored value, because of
// UV-jumps and degeneracies) — the algorithmically subtle operation of §4.2.
//
// cellOtherNodes lists the cell's remaining node local-indices (used to
// break jump/seam ambiguity by proximity to their parametrization).
func CellTUV(s *Store, cad CAD, node int, cellOtherNodes []int, typ AssocType, cadID int) (params [2]float64, sens int, errS *status.S) {

	a := s.Find(node, typ, cadID)
	if a == nil {
		return params, 0, status.New(status.NotFound, "no %s association for node %d on cad id %d", typ, node, cadID)
	}

	// fast path: no jump, no degeneracy -> the stored value is unambiguous.
	if !a.Jump && !a.Degen {
		return a.Param, 0, nil
	}

	switch typ {
	case Edge:
		if a.Jump {
			return edgeJumpPick(s, a, cellOtherNodes, cadID)
		}
	case Face:
		if a.Degen {
			return faceDegenPick(s, a, cellOtherNodes, cadID)
		}
		if a.Jump {
			return faceSeamPick(s, cad, a, cellOtherNodes, cadID)
		}
	}
	return a.Param, 0, nil
}

// edgeJumpPick: "on an edge cell whose node sits at a CAD vertex (jump),
// pick the t endpoint closer to the other cell node's t" (§4.2).
func edgeJumpPick(s *Store, a *Assoc, others []int, cadID int) ([2]float64, int, *status.S) {
	if len(others) == 0 {
		return a.Param, 0, status.New(status.InvalidArgument, "edge cell_tuv needs the other cell node")
	}
	other := s.Find(others[0], Edge, cadID)
	if other == nil {
		return a.Param, 0, status.New(status.NotFound, "no edge association for companion node %d on cad id %d", others[0], cadID)
	}
	ot := other.Param[0]
	if math.Abs(a.Param[0]-ot) <= math.Abs(a.AltParam[0]-ot) {
		return a.Param, 0, nil
	}
	return a.AltParam, 0, nil
}

// faceSeamPick: "on a tri cell at a UV-seam, pick the sense +-1 whose
// evaluated UV is nearest the other tri nodes' UV; store sens" (§4.2).
func faceSeamPick(s *Store, cad CAD, a *Assoc, others []int, cadID int) ([2]float64, int, *status.S) {
	if len(others) == 0 {
		return a.Param, 1, status.New(status.InvalidArgument, "face cell_tuv needs the other cell nodes")
	}
	// reference UV: average of the other (non-jump) tri corners' UV
	var refU, refV float64
	n := 0
	for _, on := range others {
		oa := s.Find(on, Face, cadID)
		if oa == nil {
			continue
		}
		refU += oa.Param[0]
		refV += oa.Param[1]
		n++
	}
	if n == 0 {
		return a.Param, 1, status.New(status.NotFound, "no face associations for tri companions on cad id %d", cadID)
	}
	refU /= float64(n)
	refV /= float64(n)

	d0 := dist2(a.Param[0], a.Param[1], refU, refV)
	d1 := dist2(a.AltParam[0], a.AltParam[1], refU, refV)
	if d0 <= d1 {
		a.Sens = 1
		return a.Param, 1, nil
	}
	a.Sens = -1
	return a.AltParam, -1, nil
}

// faceDegenPick: "at a degenerate vertex of a face, fix the collapsed
// parameter to its stored value and pick the other parameter by averaging
// the non-degenerate cell corners, clamped to the edge-of-parameter-space
// bounding box derived from the incident CAD edge's t-range" (§4.2).
func faceDegenPick(s *Store, a *Assoc, others []int, cadID int) ([2]float64, int, *status.S) {
	free := 1 - a.DegenAxis
	var sum float64
	n := 0
	for _, on := range others {
		oa := s.Find(on, Face, cadID)
		if oa == nil || oa.Degen {
			continue
		}
		sum += oa.Param[free]
		n++
	}
	if n == 0 {
		return a.Param, 0, status.New(status.InvalidArgument, "faceDegenPick: no non-degenerate corner to average on cad id %d", cadID)
	}
	avg := sum / float64(n)
	lo, hi := a.TRangeLo, a.TRangeHi
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi > lo {
		if avg < lo {
			avg = lo
		}
		if avg > hi {
			avg = hi
		}
	}
	out := a.Param
	out[free] = avg
	return out, 0, nil
}

func dist2(u0, v0, u1, v1 float64) float64 {
	du, dv := u0-u1, v0-v1
	return du*du + dv*dv
}
