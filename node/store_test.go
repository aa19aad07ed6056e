// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package node

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_node01(tst *testing.T) {

	chk.PrintTitle("node01: insert, find, remove, compact")

	s := New()

	// load path: insert at caller-chosen indices
	s.InsertAt(0, Node{Gid: 100, X: [3]float64{0, 0, 0}})
	s.InsertAt(1, Node{Gid: 101, X: [3]float64{1, 0, 0}})
	s.InsertAt(2, Node{Gid: 102, X: [3]float64{0, 1, 0}})

	if s.NumLive() != 3 {
		tst.Errorf("expected 3 live nodes, got %d", s.NumLive())
	}

	// global -> local lookup
	if loc := s.Find(101); loc != 1 {
		tst.Errorf("Find(101) = %d, want 1", loc)
	}
	if loc := s.Find(999); loc != -1 {
		tst.Errorf("Find(999) = %d, want -1", loc)
	}

	// split path: insert at next free slot
	idx, errS := s.Insert(Node{Gid: 200, X: [3]float64{0.5, 0.5, 0}})
	if errS != nil {
		tst.Errorf("unexpected error: %v", errS)
	}
	if idx != 3 {
		tst.Errorf("expected new node at slot 3, got %d", idx)
	}

	// collapse path: remove a node and confirm the slot is reused
	if errS := s.Remove(1); errS != nil {
		tst.Errorf("unexpected error removing: %v", errS)
	}
	if s.IsLive(1) {
		tst.Errorf("slot 1 should be free after Remove")
	}
	if loc := s.Find(101); loc != -1 {
		tst.Errorf("Find(101) after remove = %d, want -1", loc)
	}

	idx2, _ := s.Insert(Node{Gid: 300})
	if idx2 != 1 {
		tst.Errorf("expected reused free slot 1, got %d", idx2)
	}

	// compact: pack-idempotence
	perm1 := s.Compact()
	perm2 := s.Compact()
	kept := 0
	for _, p := range perm1 {
		if p != -1 {
			kept++
		}
	}
	if len(perm2) != kept {
		tst.Fatalf("compact: second permutation spans %d slots, want the %d kept by the first", len(perm2), kept)
	}
	for i := range perm2 {
		if perm2[i] != i && perm2[i] != -1 {
			tst.Errorf("pack not idempotent at %d: %d", i, perm2[i])
		}
	}
}

func Test_node02_spd(tst *testing.T) {

	chk.PrintTitle("node02: SPD invariant check")

	s := New()
	s.InsertAt(0, Node{Gid: 1, M: [6]float64{1, 0, 0, 1, 0, 1}}) // identity metric
	s.InsertAt(1, Node{Gid: 2, M: [6]float64{-1, 0, 0, 1, 0, 1}}) // invalid

	identityEig := func(m [6]float64) (float64, float64, float64) { return m[0], m[3], m[5] }
	if errS := s.CheckSPD(identityEig); errS == nil {
		tst.Errorf("expected SPD violation to be detected")
	}
}
