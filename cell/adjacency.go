// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

// adjItem is one entry of an intrusive singly-linked list: the cell local
// index it references, and the next item in the same node's chain (or -1).
type adjItem struct {
	cellIdx int
	next    int
}

// Adjacency is the node->cell adjacency index of §4.1, owned by one typed
// cell collection. It accepts O(d) insertions per node (d = topological
// degree) and amortized O(d) traversal, via the first/next/item-to-cell/
// add/remove/empty primitives named in §4.1.
type Adjacency struct {
	head     []int // per-node-local-index head item, or -1
	items    []adjItem
	freeHead int // free-list head within items, or -1
}

// NewAdjacency returns an empty adjacency index.
func NewAdjacency() *Adjacency {
	return &Adjacency{freeHead: -1}
}

func (a *Adjacency) ensureNode(node int) {
	for len(a.head) <= node {
		a.head = append(a.head, -1)
	}
}

func (a *Adjacency) allocItem() int {
	if a.freeHead != -1 {
		idx := a.freeHead
		a.freeHead = a.items[idx].next
		return idx
	}
	a.items = append(a.items, adjItem{})
	return len(a.items) - 1
}

// Add records that cellIdx references node.
func (a *Adjacency) Add(node, cellIdx int) {
	a.ensureNode(node)
	it := a.allocItem()
	a.items[it] = adjItem{cellIdx: cellIdx, next: a.head[node]}
	a.head[node] = it
}

// Remove deletes the (node, cellIdx) entry, if present. No-op otherwise.
func (a *Adjacency) Remove(node, cellIdx int) {
	if node < 0 || node >= len(a.head) {
		return
	}
	prev := -1
	cur := a.head[node]
	for cur != -1 {
		if a.items[cur].cellIdx == cellIdx {
			if prev == -1 {
				a.head[node] = a.items[cur].next
			} else {
				a.items[prev].next = a.items[cur].next
			}
			a.items[cur] = adjItem{cellIdx: -1, next: a.freeHead}
			a.freeHead = cur
			return
		}
		prev = cur
		cur = a.items[cur].next
	}
}

// First returns the first adjacency item for node, or -1 if none.
func (a *Adjacency) First(node int) int {
	if node < 0 || node >= len(a.head) {
		return -1
	}
	return a.head[node]
}

// Next returns the next item in the same node's chain after item, or -1.
func (a *Adjacency) Next(item int) int {
	if item == -1 {
		return -1
	}
	return a.items[item].next
}

// ItemCell resolves an adjacency item to the cell local-index it references.
func (a *Adjacency) ItemCell(item int) int {
	return a.items[item].cellIdx
}

// Empty reports whether node has no recorded adjacent cells.
func (a *Adjacency) Empty(node int) bool {
	return a.First(node) == -1
}

// Cells returns every cell local-index adjacent to node, in chain order.
func (a *Adjacency) Cells(node int) []int {
	var out []int
	for it := a.First(node); it != -1; it = a.Next(it) {
		out = append(out, a.ItemCell(it))
	}
	return out
}

// Degree returns the number of cells adjacent to node.
func (a *Adjacency) Degree(node int) int {
	n := 0
	for it := a.First(node); it != -1; it = a.Next(it) {
		n++
	}
	return n
}

// Remap rewrites every recorded node-local-index through perm (perm[i] == -1
// drops entries referencing a removed node), used after Store.Compact.
func (a *Adjacency) Remap(perm []int) {
	newHead := make([]int, 0, len(a.head))
	for oldNode, h := range a.head {
		newNode := -1
		if oldNode < len(perm) {
			newNode = perm[oldNode]
		}
		if newNode == -1 {
			continue
		}
		for len(newHead) <= newNode {
			newHead = append(newHead, -1)
		}
		newHead[newNode] = h
	}
	a.head = newHead
}
