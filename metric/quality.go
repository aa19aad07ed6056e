// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"math"

	"github.com/wbnns/refine/status"
)

// det3 returns det(M) for the symmetric 3x3 metric M.
func det3(m Tensor) float64 {
	m00, m01, m02, m11, m12, m22 := m[0], m[1], m[2], m[3], m[4], m[5]
	return m00*(m11*m22-m12*m12) - m01*(m01*m22-m12*m02) + m02*(m01*m12-m11*m02)
}

// averageMetric returns the log-Euclidean average of the given metrics,
// generalizing Midpoint (§4.3) to more than two inputs.
func averageMetric(ms ...Tensor) (Tensor, *status.S) {
	var sum Tensor
	for _, m := range ms {
		l, errS := LogM(m)
		if errS != nil {
			return Tensor{}, errS
		}
		for i := range sum {
			sum[i] += l[i]
		}
	}
	inv := 1.0 / float64(len(ms))
	for i := range sum {
		sum[i] *= inv
	}
	return ExpM(sum)
}

// TetQuality computes the mean-ratio shape quality of the tet with corners
// x (Euclidean coordinates) under the metrics m at those corners: a scalar
// in (0,1], 1 for a metric-regular tet (§4.3, GLOSSARY). Degenerate/inverted
// tets (non-positive metric volume) report quality 0, not an error — Smooth
// treats quality 0 as an invalid trial; Config.MinQuality is not consulted.
func TetQuality(x [4][3]float64, m [4]Tensor) (float64, *status.S) {
	mavg, errS := averageMetric(m[0], m[1], m[2], m[3])
	if errS != nil {
		return 0, errS
	}

	edges := [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	var sumL2 float64
	for _, e := range edges {
		d := [3]float64{x[e[1]][0] - x[e[0]][0], x[e[1]][1] - x[e[0]][1], x[e[1]][2] - x[e[0]][2]}
		sumL2 += quadForm(mavg, d)
	}
	if sumL2 <= 0 {
		return 0, status.New(status.InvariantViolated, "TetQuality: degenerate edge metric sum")
	}

	v6 := orientedVolume6(x)
	detM := det3(mavg)
	if v6 <= 0 || detM <= 0 {
		return 0, nil // inverted or singular metric: not an error, just worst-possible quality
	}
	vm := (v6 / 6.0) * math.Sqrt(detM)
	if vm <= 0 {
		return 0, nil
	}
	q := 12.0 * math.Pow(3*vm, 2.0/3.0) / sumL2
	if q > 1 {
		q = 1 // numerical overshoot guard; 1 is the supremum (GLOSSARY)
	}
	return q, nil
}

// orientedVolume6 mirrors cell.OrientedVolume6 without importing the cell
// package (metric stays a leaf package with no dependency on cell/node).
func orientedVolume6(x [4][3]float64) float64 {
	a := [3]float64{x[1][0] - x[0][0], x[1][1] - x[0][1], x[1][2] - x[0][2]}
	b := [3]float64{x[2][0] - x[0][0], x[2][1] - x[0][1], x[2][2] - x[0][2]}
	c := [3]float64{x[3][0] - x[0][0], x[3][1] - x[0][1], x[3][2] - x[0][2]}
	cross := [3]float64{
		b[1]*c[2] - b[2]*c[1],
		b[2]*c[0] - b[0]*c[2],
		b[0]*c[1] - b[1]*c[0],
	}
	return a[0]*cross[0] + a[1]*cross[1] + a[2]*cross[2]
}
