// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package part implements the §4.9 partition service contract that the
// adaptation engine consumes but does not specify in depth: balance(grid)
// migrates node ownership to equalize load, ghost(grid) refreshes read-only
// replicas of non-owned but locally-referenced nodes, and pack(grid)
// compacts free-list slots. A serial, single-process Transport lets the
// contract run without an active MPI environment (mirroring
// mallano-gofem/fem/errorhandler.go's `!global.Distr` fallback); an
// MPI-backed Transport drives the same contract across ranks using
// gosl/mpi's collectives, the same style solver.go uses to combine
// contributions at nodes shared by more than one partition.
package part

import "github.com/wbnns/refine/adapt"

// Transport is the collective-communication primitive the service needs.
// Every method is a synchronous, all-ranks barrier (§5's suspension
// points): no operator ever suspends mid-cavity, only the service itself
// suspends at pass/sweep boundaries.
type Transport interface {
	IsOn() bool
	Rank() int
	Size() int

	// AllReduceSum combines src into dest element-wise across every rank by
	// summation. Used the way mallano-gofem/fem/solver.go combines residual
	// contributions at a node shared by more than one partition: each rank
	// writes only into the slots it owns and zero elsewhere, so the sum
	// reconstructs the global value without any rank needing to know who
	// else touched it.
	AllReduceSum(dest, src []float64)

	// IntAllReduceMax combines src into dest element-wise across every rank
	// by maximum, the same primitive mallano-gofem/fem/errorhandler.go uses
	// to decide whether any rank wants to stop.
	IntAllReduceMax(dest, src []int32)
}

// Partitioner assigns an owning rank to a node, given its global id, its
// current owner and the process count. Selected by the driver's -p flag
// (§6); a distinct Partitioner is a distinct balance() policy, the
// algorithm itself is out of scope (§4.9).
type Partitioner interface {
	Owner(gid int64, currentOwner, nproc int) int
}

// Service bundles the pieces balance/ghost/pack need: the grid being
// adapted, the collective transport, and the ownership policy.
type Service struct {
	Grid        *adapt.Grid
	Transport   Transport
	Partitioner Partitioner
}

// New returns a partition service wired to transport and partitioner. A nil
// partitioner defaults to RoundRobin.
func New(g *adapt.Grid, t Transport, p Partitioner) *Service {
	if p == nil {
		p = RoundRobin{}
	}
	return &Service{Grid: g, Transport: t, Partitioner: p}
}
