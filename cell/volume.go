// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

// OrientedVolume6 returns six times the signed (oriented) volume of the
// tetrahedron with corners x0..x3, i.e. (x1-x0).((x2-x0)x(x3-x0)). Positive
// for a tet wound so its four TetFaceLocalV triples face outward — the
// invariant every operator must preserve (§3).
//
// This is plain vector algebra with no SPD/eigen structure, so it is
// implemented directly rather than through gosl/la (whose vector helpers
// cover norm/dot/matrix operations, not a 3-vector cross product) — see
// DESIGN.md for why no pack library serves this specific primitive.
func OrientedVolume6(x0, x1, x2, x3 [3]float64) float64 {
	a := [3]float64{x1[0] - x0[0], x1[1] - x0[1], x1[2] - x0[2]}
	b := [3]float64{x2[0] - x0[0], x2[1] - x0[1], x2[2] - x0[2]}
	c := [3]float64{x3[0] - x0[0], x3[1] - x0[1], x3[2] - x0[2]}
	cross := [3]float64{
		b[1]*c[2] - b[2]*c[1],
		b[2]*c[0] - b[0]*c[2],
		b[0]*c[1] - b[1]*c[0],
	}
	return a[0]*cross[0] + a[1]*cross[1] + a[2]*cross[2]
}

// TriNormal returns the (unnormalized) outward normal of triangle x0,x1,x2
// via (x1-x0)x(x2-x0).
func TriNormal(x0, x1, x2 [3]float64) [3]float64 {
	a := [3]float64{x1[0] - x0[0], x1[1] - x0[1], x1[2] - x0[2]}
	b := [3]float64{x2[0] - x0[0], x2[1] - x0[1], x2[2] - x0[2]}
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
