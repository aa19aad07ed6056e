// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"github.com/wbnns/refine/status"
)

// AnalyticCAD is a closed-form reference CAD backend used by tests and the
// seed scenarios of §8 (a sphere and a plane), in the spirit of the
// teacher's ana package (mallano-gofem/ana), whose analytic solutions stand
// in for a full solver during tests. It is not a production CAD kernel: the
// real kernel is out of scope (§1) and is reached only through the CAD
// interface this type also satisfies.
type AnalyticCAD struct {
	Planes  map[int]Plane
	Spheres map[int]Sphere
}

// Plane is a CAD face id mapped to an infinite plane, parametrized by (u,v)
// in its local orthonormal basis about Origin.
type Plane struct {
	Origin    [3]float64
	Normal    [3]float64 // unit
	BasisU    [3]float64 // unit, orthogonal to Normal
	BasisV    [3]float64 // unit, Normal x BasisU
}

// Sphere is a CAD face id mapped to a sphere parametrized by (u,v) =
// (longitude in [-pi,pi], latitude in [-pi/2,pi/2]).
type Sphere struct {
	Center [3]float64
	Radius float64
}

// NewAnalyticCAD returns an empty reference backend.
func NewAnalyticCAD() *AnalyticCAD {
	return &AnalyticCAD{Planes: make(map[int]Plane), Spheres: make(map[int]Sphere)}
}

func sub(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func add(a, b [3]float64) [3]float64 { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func scale(a [3]float64, s float64) [3]float64 { return [3]float64{a[0] * s, a[1] * s, a[2] * s} }

func (o *AnalyticCAD) Eval(typ AssocType, cadID int, params [2]float64) (xyz [3]float64, dxyz [2][3]float64, errS *status.S) {
	if pl, ok := o.Planes[cadID]; ok {
		xyz = add(pl.Origin, add(scale(pl.BasisU, params[0]), scale(pl.BasisV, params[1])))
		dxyz[0] = pl.BasisU
		dxyz[1] = pl.BasisV
		return xyz, dxyz, nil
	}
	if sp, ok := o.Spheres[cadID]; ok {
		lon, lat := params[0], params[1]
		cl, sl := math.Cos(lat), math.Sin(lat)
		co, so := math.Cos(lon), math.Sin(lon)
		xyz = add(sp.Center, scale([3]float64{cl * co, cl * so, sl}, sp.Radius))
		dxyz[0] = scale([3]float64{-cl * so, cl * co, 0}, sp.Radius)
		dxyz[1] = scale([3]float64{-sl * co, -sl * so, cl}, sp.Radius)
		return xyz, dxyz, nil
	}
	return xyz, dxyz, status.New(status.NotFound, "AnalyticCAD: no entity with cad id %d", cadID)
}

func (o *AnalyticCAD) InverseEval(typ AssocType, cadID int, xyz [3]float64) (params [2]float64, errS *status.S) {
	if pl, ok := o.Planes[cadID]; ok {
		d := sub(xyz, pl.Origin)
		u := d[0]*pl.BasisU[0] + d[1]*pl.BasisU[1] + d[2]*pl.BasisU[2]
		v := d[0]*pl.BasisV[0] + d[1]*pl.BasisV[1] + d[2]*pl.BasisV[2]
		return [2]float64{u, v}, nil
	}
	if sp, ok := o.Spheres[cadID]; ok {
		d := sub(xyz, sp.Center)
		r := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
		if r < 1e-300 {
			return params, status.New(status.DivByZero, "AnalyticCAD: inverse_eval at sphere center")
		}
		lat := math.Asin(clamp(d[2]/r, -1, 1))
		lon := math.Atan2(d[1], d[0])
		return [2]float64{lon, lat}, nil
	}
	return params, status.New(status.NotFound, "AnalyticCAD: no entity with cad id %d", cadID)
}

func (o *AnalyticCAD) Curvature(a *Assoc) (kr float64, rhat [3]float64, ks float64, shat [3]float64, errS *status.S) {
	if sp, ok := o.Spheres[a.CADID]; ok {
		xyz, dxyz, e := o.Eval(Face, a.CADID, a.Param)
		if e != nil {
			return 0, rhat, 0, shat, e
		}
		_ = xyz
		k := 1.0 / sp.Radius
		return k, normalize(dxyz[0]), k, normalize(dxyz[1]), nil
	}
	if _, ok := o.Planes[a.CADID]; ok {
		return 0, [3]float64{1, 0, 0}, 0, [3]float64{0, 1, 0}, nil
	}
	return 0, rhat, 0, shat, status.New(status.NotFound, "AnalyticCAD: no face %d for curvature", a.CADID)
}

func (o *AnalyticCAD) Tolerance(typ AssocType, cadID int) (eps float64, errS *status.S) {
	return 1e-9, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-300 {
		return v
	}
	return scale(v, 1/n)
}
