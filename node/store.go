// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package node implements the node store (§3, §4.1): a dense array of nodes
// indexed by a local integer, an intrusive free-list threaded through unused
// slots, and a sorted side table searched in O(log n) for global-id to
// local-index lookup.
package node

import (
	"sort"

	"github.com/wbnns/refine/status"
)

// freeSentinel ends the free-list chain and marks an empty free-list head;
// occupancy itself is tracked by Store.occupied. For a free slot, nextFree
// holds the local index of the next free slot, or freeSentinel at the end of
// the chain. This is the "explicit free-list head +
// next-free slot" remapping of the source's magic-sentinel id fields (§9).
const freeSentinel = -1

// Node is a mesh vertex: a global id, coordinates, an SPD metric tensor
// stored as six independent entries (§3), and the owning partition.
type Node struct {
	Gid   int64      // global identifier, unique across partitions
	X     [3]float64 // coordinates
	M     [6]float64 // metric tensor, upper triangular: m00,m01,m02,m11,m12,m22
	Owner int        // owning partition
	Ghost bool        // true if this is a read-only replica of another partition's node
}

// Store is the node store of §4.1.
type Store struct {
	nodes    []Node
	occupied []bool // occupied[i] true iff nodes[i] is a live node
	nextFree []int  // free-list chain; valid only where !occupied[i]
	freeHead int    // head of the free-list, or freeSentinel if none

	// sorted side table for global id -> local index lookup: rebuilt
	// (O(n log n)) only when stale, then searched in O(log n).
	gidSorted []int64 // sorted global ids
	gidLocal  []int   // gidLocal[k] is the local index of gidSorted[k]
	dirty     bool    // true if gidSorted/gidLocal need re-sorting
}

// New returns an empty node store.
func New() *Store {
	return &Store{freeHead: freeSentinel}
}

// Len returns the number of local slots, including any still-free ones
// below the high-water mark (i.e. the array length, not the live count).
func (s *Store) Len() int { return len(s.nodes) }

// NumLive returns the number of live (non-free) nodes.
func (s *Store) NumLive() int {
	n := 0
	for _, occ := range s.occupied {
		if occ {
			n++
		}
	}
	return n
}

// grow appends n zero slots, marking them free and threading them into the
// free-list lowest index first, using the geometric-growth discipline of §5
// (1.5x or 1000, whichever is larger) when called from insertion helpers.
func (s *Store) grow(toLen int) {
	start := len(s.nodes)
	for len(s.nodes) < toLen {
		s.nodes = append(s.nodes, Node{})
		s.occupied = append(s.occupied, false)
		s.nextFree = append(s.nextFree, freeSentinel)
	}
	for idx := toLen - 1; idx >= start; idx-- {
		s.nextFree[idx] = s.freeHead
		s.freeHead = idx
	}
}

func growTarget(cur int) int {
	g := int(float64(cur) * 1.5)
	if g < cur+1000 {
		g = cur + 1000
	}
	return g
}

// popFree removes one slot from the free-list head, growing the backing
// array first if the free-list is empty.
func (s *Store) popFree() int {
	if s.freeHead == freeSentinel {
		s.grow(growTarget(len(s.nodes)))
	}
	idx := s.freeHead
	s.freeHead = s.nextFree[idx]
	return idx
}

// InsertAt inserts n at the caller-supplied local index (the load path),
// growing the store if needed. Returns InvalidArgument for a negative index
// and InvariantViolated if the index is already occupied.
func (s *Store) InsertAt(idx int, n Node) *status.S {
	if idx < 0 {
		return status.New(status.InvalidArgument, "local index must be >= 0, got %d", idx)
	}
	if idx >= len(s.nodes) {
		s.grow(idx + 1)
	}
	if s.occupied[idx] {
		return status.New(status.InvariantViolated, "local index %d already occupied", idx)
	}
	// splice idx out of the free-list
	if s.freeHead == idx {
		s.freeHead = s.nextFree[idx]
	} else {
		for p := s.freeHead; p != freeSentinel; p = s.nextFree[p] {
			if s.nextFree[p] == idx {
				s.nextFree[p] = s.nextFree[idx]
				break
			}
		}
	}
	s.nodes[idx] = n
	s.occupied[idx] = true
	s.dirty = true
	return nil
}

// Insert inserts n at the next free slot (the split path) and returns its
// new local index.
func (s *Store) Insert(n Node) (idx int, errS *status.S) {
	idx = s.popFree()
	s.nodes[idx] = n
	s.occupied[idx] = true
	s.dirty = true
	return idx, nil
}

// Remove frees the slot at idx, producing a free-list slot for later reuse
// (the collapse path). The caller is responsible for detaching any cell
// adjacency first.
func (s *Store) Remove(idx int) *status.S {
	if idx < 0 || idx >= len(s.nodes) || !s.occupied[idx] {
		return status.New(status.InvalidArgument, "cannot remove non-live local index %d", idx)
	}
	s.occupied[idx] = false
	s.nextFree[idx] = s.freeHead
	s.freeHead = idx
	s.dirty = true
	return nil
}

// At returns a pointer to the live node at idx, or nil if idx is free/out of
// range.
func (s *Store) At(idx int) *Node {
	if idx < 0 || idx >= len(s.nodes) || !s.occupied[idx] {
		return nil
	}
	return &s.nodes[idx]
}

// IsLive reports whether idx currently holds a node.
func (s *Store) IsLive(idx int) bool {
	return idx >= 0 && idx < len(s.nodes) && s.occupied[idx]
}

// resync rebuilds the sorted side table; called lazily before lookups.
func (s *Store) resync() {
	if !s.dirty {
		return
	}
	s.gidSorted = s.gidSorted[:0]
	s.gidLocal = s.gidLocal[:0]
	for i, occ := range s.occupied {
		if occ {
			s.gidSorted = append(s.gidSorted, s.nodes[i].Gid)
			s.gidLocal = append(s.gidLocal, i)
		}
	}
	// sort both slices in lockstep by gid
	idxOrder := make([]int, len(s.gidSorted))
	for i := range idxOrder {
		idxOrder[i] = i
	}
	sort.Slice(idxOrder, func(a, b int) bool { return s.gidSorted[idxOrder[a]] < s.gidSorted[idxOrder[b]] })
	sortedGid := make([]int64, len(idxOrder))
	sortedLoc := make([]int, len(idxOrder))
	for i, k := range idxOrder {
		sortedGid[i] = s.gidSorted[k]
		sortedLoc[i] = s.gidLocal[k]
	}
	s.gidSorted = sortedGid
	s.gidLocal = sortedLoc
	s.dirty = false
}

// Find looks up the local index owning global id gid. Returns -1 if absent.
// O(log n) binary search; the side table is only re-sorted when stale.
func (s *Store) Find(gid int64) int {
	s.resync()
	i := sort.Search(len(s.gidSorted), func(i int) bool { return s.gidSorted[i] >= gid })
	if i < len(s.gidSorted) && s.gidSorted[i] == gid {
		return s.gidLocal[i]
	}
	return -1
}

// Each calls f for every live node, passing its local index.
func (s *Store) Each(f func(idx int, n *Node)) {
	for i, occ := range s.occupied {
		if occ {
			f(i, &s.nodes[i])
		}
	}
}

// Compact returns an old->new permutation (§4.1's compact primitive);
// free slots map to -1. Pack is the only point where local indices move
// (§4.1, §5).
func (s *Store) Compact() []int {
	perm := make([]int, len(s.nodes))
	var newNodes []Node
	var newOccupied []bool
	next := 0
	for i, occ := range s.occupied {
		if occ {
			perm[i] = next
			newNodes = append(newNodes, s.nodes[i])
			newOccupied = append(newOccupied, true)
			next++
		} else {
			perm[i] = -1
		}
	}
	s.nodes = newNodes
	s.occupied = newOccupied
	s.nextFree = make([]int, len(newNodes))
	s.freeHead = freeSentinel
	s.dirty = true
	return perm
}

// CheckSPD verifies the metric at every live node is SPD (smallest
// eigenvalue > 0), one of the §3 invariants. eig3 is injected so this
// package does not need to depend on the metric package's eigensolver.
func (s *Store) CheckSPD(eig3 func(m [6]float64) (l0, l1, l2 float64)) *status.S {
	var bad *status.S
	s.Each(func(idx int, n *Node) {
		if bad != nil {
			return
		}
		l0, l1, l2 := eig3(n.M)
		if l0 <= 0 || l1 <= 0 || l2 <= 0 {
			bad = status.New(status.InvariantViolated, "metric at node gid=%d is not SPD (eigs=%g,%g,%g)", n.Gid, l0, l1, l2)
		}
	})
	return bad
}
