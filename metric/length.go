// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"math"

	"github.com/wbnns/refine/status"
)

// quadForm evaluates v^T M v for a 3-vector v and symmetric metric m.
func quadForm(m Tensor, v [3]float64) float64 {
	f := m.Full()
	var q float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			q += v[i] * f[i][j] * v[j]
		}
	}
	return q
}

// EdgeLength returns the metric-space length of the edge (x0,m0)-(x1,m1):
// the geometric mean ||x1-x0||_Mavg with a log-Euclidean correction (§4.3).
// It is symmetric in (0,1) per the §8 testable property.
func EdgeLength(x0 [3]float64, m0 Tensor, x1 [3]float64, m1 Tensor) (float64, *status.S) {
	mavg, errS := Midpoint(m0, m1)
	if errS != nil {
		return 0, errS
	}
	d := [3]float64{x1[0] - x0[0], x1[1] - x0[1], x1[2] - x0[2]}
	qAvg := quadForm(mavg, d)
	if qAvg < 0 {
		return 0, status.New(status.InvariantViolated, "metric edge length: negative quadratic form (metric not SPD)")
	}

	// log-Euclidean correction: average of the two endpoint lengths and the
	// midpoint-metric length, matching the integral of sqrt(d.M(s).d) along
	// the edge to second order (Simpson's rule in metric space).
	q0 := quadForm(m0, d)
	q1 := quadForm(m1, d)
	if q0 < 0 || q1 < 0 {
		return 0, status.New(status.InvariantViolated, "metric edge length: negative quadratic form at an endpoint")
	}
	l0 := math.Sqrt(q0)
	l1 := math.Sqrt(q1)
	lAvg := math.Sqrt(qAvg)
	return (l0 + 4*lAvg + l1) / 6.0, nil
}

// InAcceptanceBand reports whether length L is within [1/band, band] (§4.3).
// band is typically config.Config.LengthBand (sqrt(2) by default).
func InAcceptanceBand(length, band float64) bool {
	return length >= 1.0/band && length <= band
}
