// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package part

import "github.com/wbnns/refine/status"

// Pack implements §4.9's pack(grid): a purely local operation (no
// collective needed — every rank compacts its own free-list slots
// independently), exposed through the service for symmetry with
// Balance/Ghost in the driver's per-pass call sequence (§5).
func Pack(svc *Service) ([]int, *status.S) {
	return svc.Grid.Pack()
}
