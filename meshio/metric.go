// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import (
	"bytes"

	"github.com/cpmech/gosl/io"

	"github.com/wbnns/refine/adapt"
	"github.com/wbnns/refine/node"
	"github.com/wbnns/refine/status"
)

// PlainMetric implements §6's plain "metric" ASCII format: one record per
// node, six doubles in the node store's iteration order, upper-triangular
// (m00,m01,m02,m11,m12,m22) — the same ordering "solb" uses, minus its
// binary GMF keyword framing (§6).
type PlainMetric struct{}

// ReadMetric fills every live node's M field, matching the file's record
// order to the node store's current iteration order. The caller is
// responsible for loading the mesh this metric file was generated against
// before calling ReadMetric, so the two orders agree.
func (PlainMetric) ReadMetric(path string, g *adapt.Grid) *status.S {
	raw, err := io.ReadFile(path)
	if err != nil {
		return status.New(status.IOFailure, "metric: cannot read %s: %v", path, err)
	}
	tk := newTokenizer(raw)

	var bad *status.S
	g.Nodes.Each(func(_ int, n *node.Node) {
		if bad != nil {
			return
		}
		var m [6]float64
		for i := range m {
			v, errS := tk.float()
			if errS != nil {
				bad = errS
				return
			}
			m[i] = v
		}
		n.M = m
	})
	return bad
}

// WriteMetric serializes every live node's metric tensor, one record per
// line, in node-store iteration order.
func (PlainMetric) WriteMetric(path string, g *adapt.Grid) *status.S {
	var buf bytes.Buffer
	g.Nodes.Each(func(_ int, n *node.Node) {
		io.Ff(&buf, "%.15e %.15e %.15e %.15e %.15e %.15e\n",
			n.M[0], n.M[1], n.M[2], n.M[3], n.M[4], n.M[5])
	})
	io.WriteFile(path, &buf)
	return nil
}
