// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshio implements the §6 external mesh/metric interfaces: a
// format-keyed codec registry plus a complete ASCII "ugrid" implementation
// exercising the round-trip testable property of §8. The remaining formats
// named by §6 ("meshb"/GMF, "fgrid", "su2", "vtk", "smesh", "poly", "tec")
// are registered contract-only, the way mallano-gofem/fem registers every
// element kind's factory even for passive passengers it never drives to
// convergence (shp.Shape's string-keyed table): the dispatch point exists
// for every named format, only the ugrid mesh codec and the plain-text
// metric codec are filled in.
package meshio

import (
	"github.com/wbnns/refine/adapt"
	"github.com/wbnns/refine/status"
)

// MeshReader loads a volume+boundary mesh into a fresh Grid.
type MeshReader interface {
	ReadMesh(path string) (*adapt.Grid, *status.S)
}

// MeshWriter serializes a Grid's volume+boundary mesh.
type MeshWriter interface {
	WriteMesh(path string, g *adapt.Grid) *status.S
}

// MetricReader fills in every node's metric tensor from an external file,
// matching nodes by their position in file order (§6 "plain metric" / solb
// convention: one record per node, same order as the mesh file's xyz block).
type MetricReader interface {
	ReadMetric(path string, g *adapt.Grid) *status.S
}

// MetricWriter serializes every live node's metric tensor in node-store
// iteration order.
type MetricWriter interface {
	WriteMetric(path string, g *adapt.Grid) *status.S
}

// Codec bundles one format's readers/writers; a nil field means that
// direction is unsupported for the format (e.g. "tec" is export-only).
type Codec struct {
	Mesh       MeshReader
	MeshOut    MeshWriter
	Metric     MetricReader
	MetricOut  MetricWriter
}

// Registry maps a §6 format name (the driver resolves this from a file's
// extension) to its codec.
var Registry = map[string]Codec{
	"ugrid":  {Mesh: UGrid{}, MeshOut: UGrid{}},
	"metric": {Metric: PlainMetric{}, MetricOut: PlainMetric{}},

	// contract-only: named by §6, not implemented (out of scope for this
	// engine's core; a driver build targeting one of these links a
	// format-specific codec in and overwrites the registry entry).
	"meshb": {Mesh: unimplemented{"meshb"}, MeshOut: unimplemented{"meshb"}},
	"solb":  {Metric: unimplemented{"solb"}, MetricOut: unimplemented{"solb"}},
	"fgrid": {Mesh: unimplemented{"fgrid"}, MeshOut: unimplemented{"fgrid"}},
	"su2":   {MeshOut: unimplemented{"su2"}},
	"vtk":   {MeshOut: unimplemented{"vtk"}},
	"smesh": {MeshOut: unimplemented{"smesh"}},
	"poly":  {MeshOut: unimplemented{"poly"}},
	"tec":   {MeshOut: unimplemented{"tec"}},
}

// unimplemented satisfies every codec interface with a single
// status.ImplementMissing result, the same taxonomy entry
// mallano-gofem/fem/element.go's unported element kinds would raise
// (§7's ImplementMissing marks "a code path intentionally left
// unimplemented").
type unimplemented struct{ format string }

func (u unimplemented) ReadMesh(path string) (*adapt.Grid, *status.S) {
	return nil, status.New(status.ImplementMissing, "meshio: %s format not implemented", u.format)
}
func (u unimplemented) WriteMesh(path string, g *adapt.Grid) *status.S {
	return status.New(status.ImplementMissing, "meshio: %s format not implemented", u.format)
}
func (u unimplemented) ReadMetric(path string, g *adapt.Grid) *status.S {
	return status.New(status.ImplementMissing, "meshio: %s format not implemented", u.format)
}
func (u unimplemented) WriteMetric(path string, g *adapt.Grid) *status.S {
	return status.New(status.ImplementMissing, "meshio: %s format not implemented", u.format)
}
