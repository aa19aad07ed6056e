// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metric implements the metric-aware length/quality algebra of
// §4.3: symmetric 3x3 metrics manipulated in the log-Euclidean sense
// (tensor log/exp via eigendecomposition, interpolation, intersection),
// metric edge length, tet mean-ratio quality and curvature-to-metric
// construction.
package metric

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"

	"github.com/wbnns/refine/status"
)

// Tensor is a symmetric 3x3 metric, stored as the six independent entries
// in the same order as node.Node.M: m00,m01,m02,m11,m12,m22 (§3).
type Tensor [6]float64

// Full expands Tensor to a dense 3x3 matrix.
func (t Tensor) Full() [3][3]float64 {
	return [3][3]float64{
		{t[0], t[1], t[2]},
		{t[1], t[3], t[4]},
		{t[2], t[4], t[5]},
	}
}

// FromFull packs a (symmetric) dense 3x3 matrix back into Tensor form.
func FromFull(m [3][3]float64) Tensor {
	return Tensor{m[0][0], m[0][1], m[0][2], m[1][1], m[1][2], m[2][2]}
}

// eigen decomposes t via gosl/tsr's numeric symmetric-eigenproblem solver
// (the same Mandel-basis route used by the teacher's finite-strain models,
// e.g. mallano-gofem/msolid/ogden.go's tsr.M_EigenValsProjsNum call on the
// left Cauchy-Green tensor), returning eigenvalues and eigenvectors.
func (t Tensor) eigen() (lam [3]float64, vec [3][3]float64, errS *status.S) {
	full := t.Full()
	mandel := make([]float64, 6)
	tsr.Ten2Man(mandel, sliceOf(full))
	projs := tsr.M_AllocEigenprojs(6)
	lamSlice := make([]float64, 3)
	if err := tsr.M_EigenValsProjsNum(projs, lamSlice, mandel); err != nil {
		return lam, vec, status.New(status.InvariantViolated, "metric eigendecomposition failed: %v", err)
	}
	lam = [3]float64{lamSlice[0], lamSlice[1], lamSlice[2]}
	// each projs[k] is the (Mandel) rank-1 eigenprojector n_k ⊗ n_k; its
	// diagonal recovers the eigenvector direction up to sign/normalization.
	for k := 0; k < 3; k++ {
		vec[k] = eigvecFromProjector(projs[k])
	}
	return lam, vec, nil
}

// eigvecFromProjector extracts a unit eigenvector from a Mandel-basis rank-1
// projector tensor P = n ⊗ n by taking the column of largest diagonal
// magnitude and normalizing (robust to which axis the projector is built
// around).
func eigvecFromProjector(projMandel []float64) [3]float64 {
	best, bi := -1.0, 0
	for i := 0; i < 3; i++ {
		d := tsr.M2T(projMandel, i, i)
		if d > best {
			best, bi = d, i
		}
	}
	v := [3]float64{tsr.M2T(projMandel, 0, bi), tsr.M2T(projMandel, 1, bi), tsr.M2T(projMandel, 2, bi)}
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-300 {
		v = [3]float64{0, 0, 0}
		v[bi] = 1
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func sliceOf(m [3][3]float64) [][]float64 {
	return [][]float64{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

// fromEigen recomposes a tensor from eigenvalues and an orthonormal
// eigenbasis: sum_k lam_k * (v_k ⊗ v_k).
func fromEigen(lam [3]float64, vec [3][3]float64) Tensor {
	var full [3][3]float64
	for k := 0; k < 3; k++ {
		v := vec[k]
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				full[i][j] += lam[k] * v[i] * v[j]
			}
		}
	}
	return FromFull(full)
}

// LogM returns the symmetric matrix logarithm of the SPD metric m, via
// eigendecomposition: log(M) = sum_k log(lam_k) * (v_k ⊗ v_k) (§4.3).
func LogM(m Tensor) (Tensor, *status.S) {
	lam, vec, errS := m.eigen()
	if errS != nil {
		return Tensor{}, errS
	}
	for k, l := range lam {
		if l <= 0 {
			return Tensor{}, status.New(status.DivByZero, "LogM: metric is not SPD, eigenvalue[%d]=%g", k, l)
		}
		lam[k] = math.Log(l)
	}
	return fromEigen(lam, vec), nil
}

// ExpM returns the symmetric matrix exponential of m (the inverse of LogM).
func ExpM(m Tensor) (Tensor, *status.S) {
	lam, vec, errS := m.eigen()
	if errS != nil {
		return Tensor{}, errS
	}
	for k, l := range lam {
		lam[k] = math.Exp(l)
	}
	return fromEigen(lam, vec), nil
}

// Interpolate returns the log-Euclidean linear interpolation between m0 and
// m1 at parameter s in [0,1]: exp_m((1-s).log_m(m0) + s.log_m(m1)) (§4.3).
func Interpolate(m0, m1 Tensor, s float64) (Tensor, *status.S) {
	l0, errS := LogM(m0)
	if errS != nil {
		return Tensor{}, errS
	}
	l1, errS := LogM(m1)
	if errS != nil {
		return Tensor{}, errS
	}
	var mid Tensor
	for i := range mid {
		mid[i] = (1-s)*l0[i] + s*l1[i]
	}
	return ExpM(mid)
}

// Midpoint is the edge-midpoint metric interpolation used by Split (§4.3,
// §4.6): exp_m(0.5.(log_m(M0)+log_m(M1))).
func Midpoint(m0, m1 Tensor) (Tensor, *status.S) {
	return Interpolate(m0, m1, 0.5)
}

// Intersect combines m0 and m1 via simultaneous diagonalization: diagonalize
// m0, express m1 in that eigenbasis, and take the pointwise-larger of the
// two metrics' "request" along each axis — the conservative metric that
// satisfies both inputs' unit-length requirement (§4.3).
func Intersect(m0, m1 Tensor) (Tensor, *status.S) {
	lam0, vec0, errS := m0.eigen()
	if errS != nil {
		return Tensor{}, errS
	}
	full1 := m1.Full()
	var combined [3]float64
	for k := 0; k < 3; k++ {
		v := vec0[k]
		// Rayleigh quotient of m1 along m0's k-th eigenvector: v^T M1 v.
		var q float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				q += v[i] * full1[i][j] * v[j]
			}
		}
		combined[k] = math.Max(lam0[k], q)
	}
	return fromEigen(combined, vec0), nil
}

// Inverse returns the matrix inverse of m via gosl/la.MatInv, the same
// routine the teacher uses for shape-function Jacobians
// (mallano-gofem/shp/shp.go).
func Inverse(m Tensor) (Tensor, *status.S) {
	full := m.Full()
	a := [][]float64{{full[0][0], full[0][1], full[0][2]}, {full[1][0], full[1][1], full[1][2]}, {full[2][0], full[2][1], full[2][2]}}
	inv := [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	det, err := la.MatInv(inv, a, 1e-14)
	if err != nil {
		return Tensor{}, status.New(status.DivByZero, "metric inverse failed: %v (det=%g)", err, det)
	}
	return FromFull([3][3]float64{{inv[0][0], inv[0][1], inv[0][2]}, {inv[1][0], inv[1][1], inv[1][2]}, {inv[2][0], inv[2][1], inv[2][2]}}), nil
}

// SmallestEigenvalue reports the smallest eigenvalue of m, used by the §3
// SPD invariant check (smallest eigenvalue > 0).
func SmallestEigenvalue(m Tensor) (float64, *status.S) {
	lam, _, errS := m.eigen()
	if errS != nil {
		return 0, errS
	}
	return math.Min(lam[0], math.Min(lam[1], lam[2])), nil
}
