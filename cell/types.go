// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cell implements the cell store (§3, §4.1): typed element
// collections with fast node->cell adjacency, re-architected per §9's
// DESIGN NOTES as a sum type tagged by element kind dispatching through a
// single table, rather than gofem's parallel per-geometry-string arrays
// (compare shp.Shape's string-keyed factory in the teacher).
package cell

import "github.com/wbnns/refine/status"

// Kind tags a cell's element type (§3). The storage layout stays one dense
// array per kind (preserving the teacher's struct-of-arrays cache locality);
// only the dispatch is unified.
type Kind int

const (
	Tri Kind = iota // triangle, boundary, 3 nodes + CAD-face id
	Seg             // edge-segment, boundary, 2 nodes + CAD-edge id
	Tet             // tetrahedron, volume, 4 nodes
	Quad            // quadrilateral, boundary, 4 nodes + CAD-face id
	Pyr             // pyramid, volume, 5 nodes (passive passenger, §1 Non-goals)
	Prism           // prism, volume, 6 nodes (passive passenger)
	Hex             // hexahedron, volume, 8 nodes (passive passenger)
	nKinds
)

// kindInfo is the per-kind dispatch-table entry (§9: "a single polymorphic
// interface ... and a dispatch table").
type kindInfo struct {
	name     string
	arity    int  // node count
	hasCADID bool // trailing CAD-face/edge identifier
	boundary bool // true for tri/seg/quad: elements that bound the volume mesh
}

var kindTable = [nKinds]kindInfo{
	Tri:   {"tri", 3, true, true},
	Seg:   {"seg", 2, true, true},
	Tet:   {"tet", 4, false, false},
	Quad:  {"quad", 4, true, true},
	Pyr:   {"pyr", 5, false, false},
	Prism: {"prism", 6, false, false},
	Hex:   {"hex", 8, false, false},
}

// Name returns the kind's short name.
func (k Kind) Name() string { return kindTable[k].name }

// Arity returns the fixed node count for the kind.
func (k Kind) Arity() int { return kindTable[k].arity }

// HasCADID reports whether cells of this kind carry a trailing CAD-face or
// CAD-edge identifier (§3).
func (k Kind) HasCADID() bool { return kindTable[k].hasCADID }

// IsBoundary reports whether the kind bounds the volume mesh.
func (k Kind) IsBoundary() bool { return kindTable[k].boundary }

// Cell is a fixed-arity tuple of node local-indices, plus for boundary
// elements a trailing CAD-face/edge identifier (§3).
type Cell struct {
	Kind  Kind
	Nodes []int // len == Kind.Arity()
	CADID int   // meaningful only when Kind.HasCADID(); 0 means "unset"
}

// NewCell validates arity and builds a Cell of the given kind.
func NewCell(k Kind, nodes []int, cadID int) (Cell, *status.S) {
	if len(nodes) != k.Arity() {
		return Cell{}, status.New(status.InvalidArgument, "cell kind %s needs %d nodes, got %d", k.Name(), k.Arity(), len(nodes))
	}
	cp := make([]int, len(nodes))
	copy(cp, nodes)
	return Cell{Kind: k, Nodes: cp, CADID: cadID}, nil
}

// HasNode reports whether node local-index n appears in the cell's tuple.
func (c Cell) HasNode(n int) bool {
	for _, x := range c.Nodes {
		if x == n {
			return true
		}
	}
	return false
}

// HasNodes reports whether every id in ns appears in the cell's tuple.
func (c Cell) HasNodes(ns ...int) bool {
	for _, n := range ns {
		if !c.HasNode(n) {
			return false
		}
	}
	return true
}

// TetFaceLocalV lists, for tetrahedra, the four local-vertex triples
// forming each face, using the teacher's shp.tet4 FaceLocalV convention
// (mallano-gofem/shp/tets.go): opposite-vertex ordering so each face's
// outward normal follows a consistent right-hand rule.
var TetFaceLocalV = [4][3]int{
	{0, 3, 2},
	{0, 1, 3},
	{0, 2, 1},
	{1, 2, 3},
}

// TetEdgeLocalV lists the six local-vertex pairs forming a tet's edges.
var TetEdgeLocalV = [6][2]int{
	{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
}
