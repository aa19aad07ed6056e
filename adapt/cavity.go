// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adapt

import (
	"math"

	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/geom"
	"github.com/wbnns/refine/status"
)

// Cavity is a set of tets forming a re-triangulatable region with a
// coherent free boundary of triangular faces (§4.5).
type Cavity struct {
	g    *Grid
	tets map[int]bool
}

// FreeFace is one boundary triangle of a cavity, oriented outward (away from
// the cavity's interior), with the neighboring tet across it if one exists
// (-1 if the face lies on the true mesh boundary).
type FreeFace struct {
	Nodes    [3]int
	OtherTet int
}

func newCavity(g *Grid, seed []int) *Cavity {
	c := &Cavity{g: g, tets: make(map[int]bool, len(seed))}
	for _, t := range seed {
		c.tets[t] = true
	}
	return c
}

// EdgeCavity seeds a cavity from every tet containing both n0 and n1 (§4.5).
func EdgeCavity(g *Grid, n0, n1 int) *Cavity {
	return newCavity(g, g.Cells.TetsOnEdge(n0, n1))
}

// FaceCavity seeds a cavity from the (<=2) tets containing face (n0,n1,n2).
func FaceCavity(g *Grid, n0, n1, n2 int) *Cavity {
	return newCavity(g, g.Cells.TetsOnFace(n0, n1, n2))
}

// NodeCavity seeds a cavity from every tet containing node n.
func NodeCavity(g *Grid, n int) *Cavity {
	return newCavity(g, g.Cells.Adjacency(cell.Tet).Cells(n))
}

// Tets returns the cavity's current tet local-indices.
func (c *Cavity) Tets() []int {
	out := make([]int, 0, len(c.tets))
	for t := range c.tets {
		out = append(out, t)
	}
	return out
}

// Contains reports whether tidx belongs to the cavity.
func (c *Cavity) Contains(tidx int) bool { return c.tets[tidx] }

// FreeFaces returns every boundary triangle of the cavity (§4.5).
func (c *Cavity) FreeFaces() []FreeFace {
	var out []FreeFace
	for tidx := range c.tets {
		t := c.g.Cells.At(cell.Tet, tidx)
		if t == nil {
			continue
		}
		for _, fv := range cell.TetFaceLocalV {
			a, b, cc := t.Nodes[fv[0]], t.Nodes[fv[1]], t.Nodes[fv[2]]
			others := c.g.Cells.TetsOnFace(a, b, cc)
			otherTet := -1
			inCavity := false
			for _, o := range others {
				if o == tidx {
					continue
				}
				if c.tets[o] {
					inCavity = true
					break
				}
				otherTet = o
			}
			if !inCavity {
				out = append(out, FreeFace{Nodes: [3]int{a, b, cc}, OtherTet: otherTet})
			}
		}
	}
	return out
}

// Grow adds the tet across ff to the cavity (§4.5). No-op if ff has no
// neighbor (it is a true mesh-boundary face).
func (c *Cavity) Grow(ff FreeFace) {
	if ff.OtherTet >= 0 {
		c.tets[ff.OtherTet] = true
	}
}

// EnlargeVisible repeatedly grows the cavity through any free face not
// visible from newNode (§4.5): visibility means the tentative tet
// (newNode, face) has positive oriented volume, i.e. newNode lies on the
// inner side of the outward-oriented free face. Faces that already contain
// newNode count as visible. Returns false if a non-visible face lies on the
// true mesh boundary (cannot enlarge further).
func (c *Cavity) EnlargeVisible(newNode int) bool {
	nd := c.g.Nodes.At(newNode)
	if nd == nil {
		return false
	}
	for {
		progressed := false
		for _, ff := range c.FreeFaces() {
			if ff.Nodes[0] == newNode || ff.Nodes[1] == newNode || ff.Nodes[2] == newNode {
				continue // the face already touches newNode
			}
			xa, xb, xc := c.g.Nodes.At(ff.Nodes[0]), c.g.Nodes.At(ff.Nodes[1]), c.g.Nodes.At(ff.Nodes[2])
			if xa == nil || xb == nil || xc == nil {
				return false
			}
			v := cell.OrientedVolume6(nd.X, xa.X, xb.X, xc.X)
			if v > 0 {
				continue // visible: face stays part of the final boundary
			}
			if ff.OtherTet < 0 {
				return false // not visible and no room to grow: cavity can't be made valid
			}
			c.Grow(ff)
			progressed = true
		}
		if !progressed {
			return true
		}
	}
}

// ProposedTet is a tentative replacement tet: four node local-indices. It
// carries no CAD association; Valid derives surface constraints from the
// nodes' geom associations.
type ProposedTet struct {
	Nodes [4]int
}

// Replace returns the proposed new tet list obtained by coning every free
// face that does not already contain newNode to newNode (§4.5), ordered
// (newNode, face) so that a newNode inside the cavity gives positive volume
// against the outward-oriented face.
func (c *Cavity) Replace(newNode int) []ProposedTet {
	ffs := c.FreeFaces()
	out := make([]ProposedTet, 0, len(ffs))
	for _, ff := range ffs {
		if ff.Nodes[0] == newNode || ff.Nodes[1] == newNode || ff.Nodes[2] == newNode {
			continue
		}
		out = append(out, ProposedTet{Nodes: [4]int{newNode, ff.Nodes[0], ff.Nodes[1], ff.Nodes[2]}})
	}
	return out
}

// Valid checks that every proposed tet has positive volume and, for any
// surface triangle among them whose nodes are CAD-face-constrained, that
// its outward normal stays aligned with the CAD surface normal within tol
// (§4.5).
func (c *Cavity) Valid(proposed []ProposedTet, tol float64) *status.S {
	for _, p := range proposed {
		xs := [4][3]float64{}
		for i, n := range p.Nodes {
			nd := c.g.Nodes.At(n)
			if nd == nil {
				return status.New(status.InvalidArgument, "Valid: proposed tet references unknown node %d", n)
			}
			xs[i] = nd.X
		}
		if cell.OrientedVolume6(xs[0], xs[1], xs[2], xs[3]) <= 0 {
			return status.New(status.InvariantViolated, "Valid: proposed tet %v has non-positive volume", p.Nodes)
		}
	}
	if errS := c.checkSurfaceAlignment(proposed, tol); errS != nil {
		return errS
	}
	return nil
}

// checkSurfaceAlignment verifies that any boundary triangle implied by the
// proposed tets whose three nodes all carry a face association to the same
// CAD id keeps its outward normal within tol of the CAD surface normal
// evaluated at the first node's stored face parameters (§4.5).
func (c *Cavity) checkSurfaceAlignment(proposed []ProposedTet, tol float64) *status.S {
	if c.g.CAD == nil {
		return nil
	}
	for _, p := range proposed {
		for _, fv := range cell.TetFaceLocalV {
			a, b, cc := p.Nodes[fv[0]], p.Nodes[fv[1]], p.Nodes[fv[2]]
			cadID, ok := commonFaceCAD(c.g.Geom, a, b, cc)
			if !ok {
				continue
			}
			if errS := c.checkTriNormal(a, b, cc, cadID, tol); errS != nil {
				return errS
			}
		}
	}
	return nil
}

// commonFaceCAD returns the CAD-face id shared by all three nodes' face
// associations; if several ids are common, the first in a's association
// order is returned.
func commonFaceCAD(g *geom.Store, a, b, cc int) (int, bool) {
	as := g.At(a)
	if len(as) == 0 {
		return 0, false
	}
	for _, assocA := range as {
		if assocA.Type != geom.Face {
			continue
		}
		if g.Find(b, geom.Face, assocA.CADID) != nil && g.Find(cc, geom.Face, assocA.CADID) != nil {
			return assocA.CADID, true
		}
	}
	return 0, false
}

func (c *Cavity) checkTriNormal(a, b, cc, cadID int, tol float64) *status.S {
	na, nb, ncc := c.g.Nodes.At(a), c.g.Nodes.At(b), c.g.Nodes.At(cc)
	if na == nil || nb == nil || ncc == nil {
		return status.New(status.InvalidArgument, "checkTriNormal: missing node")
	}
	triN := cell.TriNormal(na.X, nb.X, ncc.X)
	triN = normalizeVec(triN)

	aAssoc := c.g.Geom.Find(a, geom.Face, cadID)
	if aAssoc == nil {
		return nil
	}
	_, dxyz, errS := c.g.CAD.Eval(geom.Face, cadID, aAssoc.Param)
	if errS != nil {
		return nil // CAD failure here is reported by the caller via the normal eval path, not as a cavity rejection
	}
	cadN := normalizeVec(crossProd(dxyz[0], dxyz[1]))
	cosA := triN[0]*cadN[0] + triN[1]*cadN[1] + triN[2]*cadN[2]
	if cosA < 0 {
		cosA = -cosA // CAD parametrization sense is not guaranteed to match outward orientation
	}
	if cosA < math.Cos(tol) {
		return status.New(status.InvariantViolated, "checkTriNormal: surface triangle normal deviates from CAD normal beyond tolerance (cos=%g)", cosA)
	}
	return nil
}

func normalizeVec(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-300 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func crossProd(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
