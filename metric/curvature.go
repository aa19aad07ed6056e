// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import "math"

// CurvatureToMetric converts a CAD-face curvature query (two principal
// curvatures kr,ks and their unit directions rhat,shat) into a 3-D metric
// requesting segPerRad*|curvature| edges per unit angle, bounded by hmax,
// lifted off the surface using hmin in the normal direction (§4.3).
//
// ratioClamp bounds how anisotropic the in-plane request can be (§9 Open
// Question, default 1/20): the smaller of the two in-plane edge lengths is
// never forced below ratioClamp times the larger.
func CurvatureToMetric(kr, ks float64, rhat, shat, normal [3]float64, segPerRad, hmax, hmin, ratioClamp float64) Tensor {
	hr := curvatureToLength(kr, segPerRad, hmax)
	hs := curvatureToLength(ks, segPerRad, hmax)
	hr, hs = clampRatio(hr, hs, ratioClamp)

	r := normalizeV(rhat)
	s := normalizeV(shat)
	n := normalizeV(normal)

	var full [3][3]float64
	addOuter(&full, r, 1.0/(hr*hr))
	addOuter(&full, s, 1.0/(hs*hs))
	addOuter(&full, n, 1.0/(hmin*hmin))
	return FromFull(full)
}

// curvatureToLength returns the edge length that places segPerRad segments
// per radian of curvature |k|, bounded above by hmax.
func curvatureToLength(k, segPerRad, hmax float64) float64 {
	ak := math.Abs(k)
	if ak < 1e-300 {
		return hmax
	}
	h := 1.0 / (segPerRad * ak)
	if h > hmax {
		h = hmax
	}
	return h
}

// clampRatio enforces min(a,b) >= ratioClamp*max(a,b).
func clampRatio(a, b, ratioClamp float64) (float64, float64) {
	if ratioClamp <= 0 {
		return a, b
	}
	lo, hi := a, b
	swap := a > b
	if swap {
		lo, hi = b, a
	}
	if lo < ratioClamp*hi {
		lo = ratioClamp * hi
	}
	if swap {
		return hi, lo
	}
	return lo, hi
}

func normalizeV(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-300 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func addOuter(m *[3][3]float64, v [3]float64, scale float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] += scale * v[i] * v[j]
		}
	}
}
