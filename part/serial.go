// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

// SerialTransport is the single-process fallback: every collective is a
// no-op copy, exactly as mallano-gofem/fem/errorhandler.go's Stop/PanicOrNot
// branch on `!global.Distr` to skip the MPI path entirely in a serial run.
type SerialTransport struct{}

func (SerialTransport) IsOn() bool { return false }
func (SerialTransport) Rank() int  { return 0 }
func (SerialTransport) Size() int  { return 1 }

func (SerialTransport) AllReduceSum(dest, src []float64) {
	copy(dest, src)
}

func (SerialTransport) IntAllReduceMax(dest, src []int32) {
	copy(dest, src)
}
