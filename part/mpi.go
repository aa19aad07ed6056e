// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import "github.com/cpmech/gosl/mpi"

// MPITransport drives the service's collectives over gosl/mpi, the library
// mallano-gofem/fem/solver.go and main.go already call mpi.Start/mpi.Stop
// around. StartMPI/StopMPI wrap the same pair so the driver's main can
// defer the shutdown exactly like mallano-gofem/main.go does.
type MPITransport struct{}

func (MPITransport) IsOn() bool { return mpi.IsOn() }
func (MPITransport) Rank() int  { return mpi.Rank() }
func (MPITransport) Size() int  { return mpi.Size() }

func (MPITransport) AllReduceSum(dest, src []float64) {
	mpi.AllReduceSum(dest, src)
}

func (MPITransport) IntAllReduceMax(dest, src []int32) {
	mpi.IntAllReduceMax(dest, src)
}

// StartMPI brings up the MPI environment, mirroring mallano-gofem/main.go's
// `mpi.Start(false)` call at process entry.
func StartMPI() {
	mpi.Start(false)
}

// StopMPI tears down the MPI environment, mirroring mallano-gofem/main.go's
// deferred `mpi.Stop(false)`.
func StopMPI() {
	mpi.Stop(false)
}

// Rank is a package-level convenience over mpi.Rank(), for callers (like
// the driver's top-level recover) that need the rank before or without
// constructing an MPITransport.
func Rank() int { return mpi.Rank() }
