// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "github.com/wbnns/refine/status"

// CAD is the query facade of §4.2: every CAD-kernel call the engine makes
// goes through this interface. A meshlink-backed implementation can satisfy
// the same contract without the core branching on which backend is in use
// (§9 Open Questions: the meshlink backend is a separate implementation
// decision, only the facade is specified here).
type CAD interface {
	// Eval evaluates xyz (and optionally d(xyz)/d(params)) for the given
	// entity and parameters.
	Eval(typ AssocType, cadID int, params [2]float64) (xyz [3]float64, dxyz [2][3]float64, errS *status.S)

	// InverseEval finds the parameters on the given entity nearest xyz.
	InverseEval(typ AssocType, cadID int, xyz [3]float64) (params [2]float64, errS *status.S)

	// Curvature returns the two principal curvatures and directions at a
	// face association: (kr, r-hat, ks, s-hat).
	Curvature(a *Assoc) (kr float64, rhat [3]float64, ks float64, shat [3]float64, errS *status.S)

	// Tolerance returns the CAD kernel's positional tolerance for the entity.
	Tolerance(typ AssocType, cadID int) (eps float64, errS *status.S)
}
