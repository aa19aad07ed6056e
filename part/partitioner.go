// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

// RoundRobin assigns ownership by global id modulo the process count — the
// simplest policy selectable by the driver's -p flag (§6), useful mainly
// for tests and as the service's default.
type RoundRobin struct{}

func (RoundRobin) Owner(gid int64, currentOwner, nproc int) int {
	if nproc <= 1 {
		return 0
	}
	m := int(gid % int64(nproc))
	if m < 0 {
		m += nproc
	}
	return m
}

// Sticky never reassigns a node away from its current owner: balance()
// becomes a no-op migration-wise, useful when the caller wants ghost/pack
// without load rebalancing (e.g. a single adaptation pass between two
// rebalances proper).
type Sticky struct{}

func (Sticky) Owner(gid int64, currentOwner, nproc int) int { return currentOwner }
