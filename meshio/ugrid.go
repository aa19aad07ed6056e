// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import (
	"bufio"
	"bytes"
	"sort"
	"strconv"

	"github.com/cpmech/gosl/io"

	"github.com/wbnns/refine/adapt"
	"github.com/wbnns/refine/cell"
	"github.com/wbnns/refine/node"
	"github.com/wbnns/refine/status"
)

// UGrid implements the §6 ASCII "ugrid" family: header
// [nnode ntri nqua ntet npyr npri nhex], xyz by node, boundary-face node
// tuples (tri then quad) grouped by CAD-face id ascending, the parallel
// CAD-face-id arrays (tri then quad), then volume cells in kind order
// (tet, pyr, pri, hex). Segments carry no ugrid representation (the
// format has no boundary-edge block), so Seg cells do not round-trip
// through this codec.
type UGrid struct{}

var ugridVolumeOrder = [4]cell.Kind{cell.Tet, cell.Pyr, cell.Prism, cell.Hex}
var ugridBoundaryOrder = [2]cell.Kind{cell.Tri, cell.Quad}

// tokenizer turns the whole file into a stream of whitespace-delimited
// tokens, tolerant of the format's mix of one-value-per-line and
// several-values-per-line conventions across different ugrid writers.
type tokenizer struct {
	sc *bufio.Scanner
}

func newTokenizer(b []byte) *tokenizer {
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) int() (int, *status.S) {
	if !t.sc.Scan() {
		return 0, status.New(status.IOFailure, "ugrid: unexpected end of file reading an integer")
	}
	v, err := strconv.Atoi(t.sc.Text())
	if err != nil {
		return 0, status.New(status.IOFailure, "ugrid: %v", err)
	}
	return v, nil
}

func (t *tokenizer) float() (float64, *status.S) {
	if !t.sc.Scan() {
		return 0, status.New(status.IOFailure, "ugrid: unexpected end of file reading a float")
	}
	v, err := strconv.ParseFloat(t.sc.Text(), 64)
	if err != nil {
		return 0, status.New(status.IOFailure, "ugrid: %v", err)
	}
	return v, nil
}

// ReadMesh loads an ASCII ugrid file into a fresh Grid. Node ids in the
// file are 1-based (the on-disk convention); the returned Grid stores
// them 0-based and keyed by the file's row order as their global id.
func (UGrid) ReadMesh(path string) (*adapt.Grid, *status.S) {
	raw, err := io.ReadFile(path)
	if err != nil {
		return nil, status.New(status.IOFailure, "ugrid: cannot read %s: %v", path, err)
	}
	tk := newTokenizer(raw)

	var counts [7]int
	for i := range counts {
		v, errS := tk.int()
		if errS != nil {
			return nil, errS
		}
		counts[i] = v
	}
	nnode, ntri, nqua, ntet, npyr, npri, nhex := counts[0], counts[1], counts[2], counts[3], counts[4], counts[5], counts[6]

	g := adapt.New(nil, nil)
	for i := 0; i < nnode; i++ {
		var x [3]float64
		for d := 0; d < 3; d++ {
			v, errS := tk.float()
			if errS != nil {
				return nil, errS
			}
			x[d] = v
		}
		if errS := g.Nodes.InsertAt(i, node.Node{Gid: int64(i), X: x}); errS != nil {
			return nil, errS
		}
	}

	boundaryArity := map[cell.Kind]int{cell.Tri: 3, cell.Quad: 4}
	boundaryNodes := make(map[cell.Kind][][]int, 2)
	for _, k := range ugridBoundaryOrder {
		n := ntri
		if k == cell.Quad {
			n = nqua
		}
		rows := make([][]int, n)
		for i := 0; i < n; i++ {
			row := make([]int, boundaryArity[k])
			for j := range row {
				v, errS := tk.int()
				if errS != nil {
					return nil, errS
				}
				row[j] = v - 1 // 1-based on disk -> 0-based local index
			}
			rows[i] = row
		}
		boundaryNodes[k] = rows
	}
	for _, k := range ugridBoundaryOrder {
		n := ntri
		if k == cell.Quad {
			n = nqua
		}
		for i := 0; i < n; i++ {
			cadID, errS := tk.int()
			if errS != nil {
				return nil, errS
			}
			c, errS := cell.NewCell(k, boundaryNodes[k][i], cadID)
			if errS != nil {
				return nil, errS
			}
			g.Cells.Insert(c)
		}
	}

	volCounts := map[cell.Kind]int{cell.Tet: ntet, cell.Pyr: npyr, cell.Prism: npri, cell.Hex: nhex}
	for _, k := range ugridVolumeOrder {
		n := volCounts[k]
		for i := 0; i < n; i++ {
			row := make([]int, k.Arity())
			for j := range row {
				v, errS := tk.int()
				if errS != nil {
					return nil, errS
				}
				row[j] = v - 1
			}
			c, errS := cell.NewCell(k, row, 0)
			if errS != nil {
				return nil, errS
			}
			g.Cells.Insert(c)
		}
	}

	return g, nil
}

// WriteMesh serializes g as an ASCII ugrid file.
func (UGrid) WriteMesh(path string, g *adapt.Grid) *status.S {
	var buf bytes.Buffer

	counts := make(map[cell.Kind]int, 6)
	for _, k := range append(append([]cell.Kind{}, ugridBoundaryOrder[:]...), ugridVolumeOrder[:]...) {
		counts[k] = g.Cells.NumLive(k)
	}
	io.Ff(&buf, "%d %d %d %d %d %d %d\n",
		g.Nodes.NumLive(), counts[cell.Tri], counts[cell.Quad], counts[cell.Tet],
		counts[cell.Pyr], counts[cell.Prism], counts[cell.Hex])

	// node ids on disk must be dense and 1-based in the file's own write
	// order; local store indices are not guaranteed dense (free-list gaps),
	// so build a local->file-row map first.
	fileRow := make(map[int]int, g.Nodes.NumLive())
	row := 0
	g.Nodes.Each(func(idx int, n *node.Node) {
		fileRow[idx] = row
		io.Ff(&buf, "%.15e %.15e %.15e\n", n.X[0], n.X[1], n.X[2])
		row++
	})

	// boundary cells of each kind, stably sorted by CAD-face id ascending
	boundary := make(map[cell.Kind][]*cell.Cell, len(ugridBoundaryOrder))
	for _, k := range ugridBoundaryOrder {
		var cs []*cell.Cell
		g.Cells.Each(k, func(_ int, c *cell.Cell) { cs = append(cs, c) })
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].CADID < cs[j].CADID })
		boundary[k] = cs
	}
	for _, k := range ugridBoundaryOrder {
		for _, c := range boundary[k] {
			for i, n := range c.Nodes {
				if i > 0 {
					io.Ff(&buf, " ")
				}
				io.Ff(&buf, "%d", fileRow[n]+1)
			}
			io.Ff(&buf, "\n")
		}
	}
	for _, k := range ugridBoundaryOrder {
		for _, c := range boundary[k] {
			io.Ff(&buf, "%d\n", c.CADID)
		}
	}
	for _, k := range ugridVolumeOrder {
		g.Cells.Each(k, func(_ int, c *cell.Cell) {
			for i, n := range c.Nodes {
				if i > 0 {
					io.Ff(&buf, " ")
				}
				io.Ff(&buf, "%d", fileRow[n]+1)
			}
			io.Ff(&buf, "\n")
		})
	}

	io.WriteFile(path, &buf)
	return nil
}
