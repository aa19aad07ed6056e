// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import "github.com/wbnns/refine/status"

// typed is one kind's dense array, free-list and owned adjacency (§4.1).
type typed struct {
	cells    []Cell
	occupied []bool
	nextFree []int
	freeHead int
	adj      *Adjacency
}

func newTyped() *typed {
	return &typed{freeHead: -1, adj: NewAdjacency()}
}

func growTarget(cur int) int {
	g := int(float64(cur) * 1.5)
	if g < cur+1000 {
		g = cur + 1000
	}
	return g
}

func (t *typed) grow(toLen int) {
	for len(t.cells) < toLen {
		idx := len(t.cells)
		t.cells = append(t.cells, Cell{})
		t.occupied = append(t.occupied, false)
		t.nextFree = append(t.nextFree, t.freeHead)
		t.freeHead = idx
	}
}

func (t *typed) popFree() int {
	if t.freeHead == -1 {
		t.grow(growTarget(len(t.cells)))
	}
	idx := t.freeHead
	t.freeHead = t.nextFree[idx]
	return idx
}

func (t *typed) spliceOut(idx int) {
	if t.freeHead == idx {
		t.freeHead = t.nextFree[idx]
		return
	}
	for p := t.freeHead; p != -1; p = t.nextFree[p] {
		if t.nextFree[p] == idx {
			t.nextFree[p] = t.nextFree[idx]
			return
		}
	}
}

func (t *typed) insert(c Cell) int {
	idx := t.popFree()
	t.cells[idx] = c
	t.occupied[idx] = true
	for _, n := range c.Nodes {
		t.adj.Add(n, idx)
	}
	return idx
}

func (t *typed) insertAt(idx int, c Cell) *status.S {
	if idx >= len(t.cells) {
		t.grow(idx + 1)
	}
	if t.occupied[idx] {
		return status.New(status.InvariantViolated, "cell local index %d already occupied", idx)
	}
	t.spliceOut(idx)
	t.cells[idx] = c
	t.occupied[idx] = true
	for _, n := range c.Nodes {
		t.adj.Add(n, idx)
	}
	return nil
}

func (t *typed) remove(idx int) *status.S {
	if idx < 0 || idx >= len(t.cells) || !t.occupied[idx] {
		return status.New(status.InvalidArgument, "cannot remove non-live cell local index %d", idx)
	}
	for _, n := range t.cells[idx].Nodes {
		t.adj.Remove(n, idx)
	}
	t.occupied[idx] = false
	t.nextFree[idx] = t.freeHead
	t.freeHead = idx
	return nil
}

func (t *typed) at(idx int) *Cell {
	if idx < 0 || idx >= len(t.cells) || !t.occupied[idx] {
		return nil
	}
	return &t.cells[idx]
}

func (t *typed) numLive() int {
	n := 0
	for _, o := range t.occupied {
		if o {
			n++
		}
	}
	return n
}

func (t *typed) each(f func(idx int, c *Cell)) {
	for i, o := range t.occupied {
		if o {
			f(i, &t.cells[i])
		}
	}
}

// compact removes free slots, returns the old->new permutation, and remaps
// adjacency in lockstep. Node references inside surviving cells are left
// untouched: node-index remapping is the caller's responsibility (it must
// call RemapNodeRefs with the node store's own Compact() permutation).
func (t *typed) compact() []int {
	perm := make([]int, len(t.cells))
	var newCells []Cell
	var newOccupied []bool
	next := 0
	for i, o := range t.occupied {
		if o {
			perm[i] = next
			newCells = append(newCells, t.cells[i])
			newOccupied = append(newOccupied, true)
			next++
		} else {
			perm[i] = -1
		}
	}
	t.cells = newCells
	t.occupied = newOccupied
	t.nextFree = make([]int, len(newCells))
	t.freeHead = -1

	// rebuild adjacency against the new cell indices (node indices unchanged here)
	newAdj := NewAdjacency()
	for i, c := range t.cells {
		for _, n := range c.Nodes {
			newAdj.Add(n, i)
		}
	}
	t.adj = newAdj
	return perm
}

// listWith2 returns up to cap cell local-indices of this type that contain
// both node0 and node1 — the §4.1 primitive for finding faces (2 tets),
// edges (<=N tets around a ring) and co-boundary triangles.
func (t *typed) listWith2(node0, node1, cap int) []int {
	var out []int
	for it := t.adj.First(node0); it != -1; it = t.adj.Next(it) {
		ci := t.adj.ItemCell(it)
		if t.cells[ci].HasNode(node1) {
			out = append(out, ci)
			if cap > 0 && len(out) >= cap {
				break
			}
		}
	}
	return out
}

// Store is the cell store of §3/§4.1: one typed collection per Kind.
type Store struct {
	byKind [nKinds]*typed
}

// New returns an empty cell store with every kind's collection allocated.
func New() *Store {
	s := &Store{}
	for k := range s.byKind {
		s.byKind[k] = newTyped()
	}
	return s
}

// Insert adds a new cell of c.Kind at the next free slot for that kind,
// returning its (kind-scoped) local index.
func (s *Store) Insert(c Cell) int {
	return s.byKind[c.Kind].insert(c)
}

// InsertAt inserts at a caller-chosen local index within c.Kind's collection
// (the load path).
func (s *Store) InsertAt(idx int, c Cell) *status.S {
	return s.byKind[c.Kind].insertAt(idx, c)
}

// Remove detaches every adjacency entry and frees the slot.
func (s *Store) Remove(k Kind, idx int) *status.S {
	return s.byKind[k].remove(idx)
}

// At returns the live cell of kind k at idx, or nil.
func (s *Store) At(k Kind, idx int) *Cell {
	return s.byKind[k].at(idx)
}

// NumLive returns the live cell count of a given kind.
func (s *Store) NumLive(k Kind) int {
	return s.byKind[k].numLive()
}

// Each iterates every live cell of kind k.
func (s *Store) Each(k Kind, f func(idx int, c *Cell)) {
	s.byKind[k].each(f)
}

// EachAll iterates every live cell of every kind.
func (s *Store) EachAll(f func(k Kind, idx int, c *Cell)) {
	for k := range s.byKind {
		s.byKind[k].each(func(idx int, c *Cell) { f(Kind(k), idx, c) })
	}
}

// Adjacency returns the node->cell adjacency index owned by kind k.
func (s *Store) Adjacency(k Kind) *Adjacency {
	return s.byKind[k].adj
}

// ListWith2 is the §4.1 primitive, scoped to one kind.
func (s *Store) ListWith2(k Kind, node0, node1, cap int) []int {
	return s.byKind[k].listWith2(node0, node1, cap)
}

// TetsOnEdge returns every tet local-index containing both node0 and node1.
func (s *Store) TetsOnEdge(node0, node1 int) []int {
	return s.ListWith2(Tet, node0, node1, 0)
}

// TetsOnFace returns the (at most two) tets sharing the face (n0,n1,n2).
func (s *Store) TetsOnFace(n0, n1, n2 int) []int {
	cand := s.ListWith2(Tet, n0, n1, 0)
	var out []int
	for _, ci := range cand {
		if s.At(Tet, ci).HasNode(n2) {
			out = append(out, ci)
		}
	}
	return out
}

// Compact packs every kind's free-list slots, returning one permutation per
// kind, keyed by Kind. Pack is the only time local indices are allowed to
// move (§4.1, §5). Node references are not touched here: callers that also
// compact the node store must call RemapNodeRefs afterwards.
func (s *Store) Compact() map[Kind][]int {
	out := make(map[Kind][]int, nKinds)
	for k := range s.byKind {
		out[Kind(k)] = s.byKind[k].compact()
	}
	return out
}

// RemapNodeRefs rewrites every cell's node-index tuple through perm (from a
// node.Store.Compact()) and rebuilds adjacency indices to match. Called
// together with cell Compact() between passes (§4.1, §5).
func (s *Store) RemapNodeRefs(perm []int) *status.S {
	for k := range s.byKind {
		t := s.byKind[k]
		for i, occ := range t.occupied {
			if !occ {
				continue
			}
			for j, n := range t.cells[i].Nodes {
				if n < 0 || n >= len(perm) || perm[n] == -1 {
					return status.New(status.InvariantViolated, "cell kind=%d idx=%d references removed node %d", k, i, n)
				}
				t.cells[i].Nodes[j] = perm[n]
			}
		}
		t.adj.Remap(perm)
	}
	return nil
}

// CheckAdjacencyRoundTrip verifies the §8 property: for every (cell c, node
// n in c), n's cell list contains c.
func (s *Store) CheckAdjacencyRoundTrip() *status.S {
	var bad *status.S
	s.EachAll(func(k Kind, idx int, c *Cell) {
		if bad != nil {
			return
		}
		for _, n := range c.Nodes {
			found := false
			for _, ci := range s.Adjacency(k).Cells(n) {
				if ci == idx {
					found = true
					break
				}
			}
			if !found {
				bad = status.New(status.InvariantViolated, "adjacency round-trip failed: node %d does not list cell kind=%s idx=%d", n, k.Name(), idx)
			}
		}
	})
	return bad
}
