// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the geom association store and the CAD query
// facade of §4.2: every (node, cad-entity) pair carries a type, a CAD id,
// its parametric coordinates, and the jump/degen flags that drive the
// cell_tuv policy.
package geom

import "github.com/wbnns/refine/status"

// AssocType is the CAD-entity dimension a node is bound to (§3).
type AssocType int

const (
	Vertex AssocType = iota // no parameter
	Edge                    // one parameter (t)
	Face                    // two parameters (u,v)
)

func (t AssocType) String() string {
	switch t {
	case Vertex:
		return "vertex"
	case Edge:
		return "edge"
	case Face:
		return "face"
	}
	return "?"
}

// Rank orders entity dimension for the "inherit from the higher-dimensional
// locus" and "cannot promote" policies (§4.2, §4.6): vertex < edge < face.
func (t AssocType) Rank() int { return int(t) }

// Assoc is one (node, cad-entity) association (§3).
type Assoc struct {
	Node  int       // node local index
	Type  AssocType // vertex/edge/face
	CADID int       // cad-entity identifier
	Param [2]float64 // [0]=t for edges, [0,1]=(u,v) for faces, unused for vertices
	Sens  int        // +-1 at a UV-jump; 0 when not applicable

	Jump  bool       // UV/t discontinuity at this node
	Degen bool       // degenerate parametrization at this node

	// AltParam is the alternate candidate parametrization at a jump: the
	// other periodic t value for an edge cell at a CAD vertex, or the
	// opposite-sense (u,v) for a tri cell at a UV-seam (§4.2 cell_tuv policy).
	AltParam [2]float64

	// DegenAxis selects which parameter component is collapsed at a
	// degenerate face vertex (0 => u fixed, 1 => v fixed); only meaningful
	// when Degen is true.
	DegenAxis int

	// TRangeLo/TRangeHi bound the parameter of an Edge association; used to
	// clamp the averaged free parameter at a degenerate face vertex whose
	// incident CAD edge provides the bounding box (§4.2).
	TRangeLo, TRangeHi float64
}

// key identifies an association for idempotent insertion.
type key struct {
	node  int
	typ   AssocType
	cadID int
}

// Store holds every association, indexed by node for O(1)-amortized lookup
// and supporting multiple face associations per node (ridges) and multiple
// edge associations (CAD vertices), per §3.
type Store struct {
	byNode map[int][]int // node -> indices into all
	all    []Assoc
	seen   map[key]int // key -> index into all, for idempotent Add
}

// New returns an empty geom store.
func New() *Store {
	return &Store{byNode: make(map[int][]int), seen: make(map[key]int)}
}

// Add inserts (or updates, idempotently by key) an association.
func (s *Store) Add(node int, typ AssocType, cadID int, params [2]float64) *Assoc {
	k := key{node, typ, cadID}
	if idx, ok := s.seen[k]; ok {
		s.all[idx].Param = params
		return &s.all[idx]
	}
	s.all = append(s.all, Assoc{Node: node, Type: typ, CADID: cadID, Param: params})
	idx := len(s.all) - 1
	s.seen[k] = idx
	s.byNode[node] = append(s.byNode[node], idx)
	return &s.all[idx]
}

// Find returns the association matching (node, typ, cadID), or nil.
func (s *Store) Find(node int, typ AssocType, cadID int) *Assoc {
	if idx, ok := s.seen[key{node, typ, cadID}]; ok {
		return &s.all[idx]
	}
	return nil
}

// At returns every association recorded for node (possibly several face or
// edge associations at ridges/CAD vertices).
func (s *Store) At(node int) []*Assoc {
	idxs := s.byNode[node]
	out := make([]*Assoc, len(idxs))
	for i, idx := range idxs {
		out[i] = &s.all[idx]
	}
	return out
}

// HighestRank returns the highest-dimensional-rank association recorded at
// node (face > edge > vertex, the same order as Rank). Used where the
// caller wants the most permissive locus a node touches (e.g. §4.6 Split
// picking which of an edge's two endpoint loci the new midpoint should be
// evaluated against); callers deciding what a node is *allowed* to do
// (promotion/freedom checks) want the most-constrained locus instead —
// see LowestRank.
func (s *Store) HighestRank(node int) *Assoc {
	var best *Assoc
	for _, a := range s.At(node) {
		if best == nil || a.Type.Rank() > best.Type.Rank() {
			best = a
		}
	}
	return best
}

// LowestRank returns the lowest-dimensional-rank association at node (e.g.
// a CAD-vertex association takes precedence over a face association when
// deciding which side of a collapse "cannot promote", §4.6 rule 2).
func (s *Store) LowestRank(node int) *Assoc {
	var best *Assoc
	for _, a := range s.At(node) {
		if best == nil || a.Type.Rank() < best.Type.Rank() {
			best = a
		}
	}
	return best
}

// RemoveNode drops every association recorded for node (collapse's drop
// endpoint, §4.6).
func (s *Store) RemoveNode(node int) {
	for _, idx := range s.byNode[node] {
		a := s.all[idx]
		delete(s.seen, key{a.Node, a.Type, a.CADID})
		s.all[idx] = Assoc{Node: -1}
	}
	delete(s.byNode, node)
}

// Remap rewrites every association's node index through perm (node.Store
// Compact()'s permutation), dropping entries whose node vanished.
func (s *Store) Remap(perm []int) *status.S {
	newByNode := make(map[int][]int)
	newAll := s.all[:0]
	newSeen := make(map[key]int)
	for _, a := range s.all {
		if a.Node < 0 {
			continue // tombstoned by RemoveNode
		}
		if a.Node >= len(perm) || perm[a.Node] == -1 {
			continue
		}
		a.Node = perm[a.Node]
		newAll = append(newAll, a)
		idx := len(newAll) - 1
		newByNode[a.Node] = append(newByNode[a.Node], idx)
		newSeen[key{a.Node, a.Type, a.CADID}] = idx
	}
	s.all = newAll
	s.byNode = newByNode
	s.seen = newSeen
	return nil
}
