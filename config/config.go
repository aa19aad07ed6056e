// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the adaptation engine's tunables: the CLI surface of
// §6 plus the thresholds §9's Open Questions call out to be made explicit
// configuration rather than hard-coded sentinels.
package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/utl"
)

// Config mirrors the driver's CLI flags (§6) plus the acceptance-band and
// protection constants used across metric, cavity and operator code.
type Config struct {
	// CLI-surfaced (mirrors main.go's flag.Parse pattern)
	InputMesh    string `json:"inputMesh"`    // -i
	CADFile      string `json:"cadFile"`      // -g
	UserMetric   string `json:"userMetric"`   // -m
	SegPerRad    float64 `json:"segPerRad"`   // -r, segments_per_radian
	MaxPasses    int    `json:"maxPasses"`    // -s, default 15
	OutputPrefix string `json:"outputPrefix"` // -o
	ExtraExport  string `json:"extraExport"`  // -x
	FinalSurface string `json:"finalSurface"` // -f
	PartitionID  int    `json:"partitionId"`  // -p
	TecMovie     bool   `json:"tecMovie"`     // -t
	Verbose      bool   `json:"verbose"`      // -d
	CurvatureOnly bool  `json:"curvatureOnly"` // supplemental: direct_main.c smoke path

	// Metric-space acceptance band (§4.3), checked here to be > 1. Split and Collapse
	// use the fixed [1/sqrt2, sqrt2] band and do not read this field.
	LengthBand float64 `json:"lengthBand"`

	// Minimum tet quality accepted as "not inverted"; default 1e-3 per §4.3. No
	// operator reads this field: Smooth and Swap reject by comparing qualities and
	// volumes, not against this floor.
	MinQuality float64 `json:"minQuality"`

	// MinInsertableCost is an optional insertion-cost bound. The original source used
	// an always-true 1e99 sentinel (§9 Open Question); here "off" is represented by a
	// nil pointer instead of a magic constant. No operator reads this field.
	MinInsertableCost *float64 `json:"minInsertableCost,omitempty"`

	// CurvatureRatioClamp bounds the ratio between the two principal-curvature-derived
	// edge lengths during curvature-metric construction (§4.3, §9 Open Question).
	CurvatureRatioClamp float64 `json:"curvatureRatioClamp"`

	// GapProtection / ToleranceProtection hold the CAD-tolerance scaling constants
	// (§9 Open Question, resolved against original_source/src/ref_geom.c's scaling
	// constants). No operator reads these fields; Collapse's surface-alignment check
	// uses SmoothNormalTol unscaled.
	GapProtection      float64 `json:"gapProtection"`
	ToleranceProtection float64 `json:"toleranceProtection"`

	// HMax / HMin bound the curvature metric (§4.3).
	HMax float64 `json:"hMax"`
	HMin float64 `json:"hMin"`

	// MinPassesFor2D enforces §4.7's "at least 5 passes for 2-D runs" rule.
	MinPassesFor2D int `json:"minPassesFor2D"`

	// SmoothNormalTol bounds, in radians, how far a surface-triangle normal left
	// by Collapse may deviate from the CAD surface normal before the collapse is
	// rejected (§8 scenario 3's 10-degree bound). Cavity.Valid takes its
	// tolerance as an argument and does not read this field.
	SmoothNormalTol float64 `json:"smoothNormalTol"`

	// Thresholds expressible as named functions of pass index, mirroring inp.Stage's
	// boundary-condition functions (gosl/fun.Func); nil uses the scalar fields above.
	SegPerRadFunc fun.Func `json:"-"`
}

// Default returns the engine's documented defaults.
func Default() *Config {
	return &Config{
		SegPerRad:           2.0,
		MaxPasses:           15,
		LengthBand:          1.4142135623730951, // sqrt(2)
		MinQuality:          1e-3,
		CurvatureRatioClamp: 1.0 / 20.0,
		GapProtection:       1.0001,
		ToleranceProtection: 0.9999,
		HMax:                1e30,
		HMin:                1e-6,
		MinPassesFor2D:      5,
		SmoothNormalTol:     10.0 * 3.141592653589793 / 180.0,
	}
}

// ReadFile loads a Config from a JSON file, mirroring inp.ReadMsh's
// utl.ReadFile + json.Unmarshal pattern.
func ReadFile(fn string) (cfg *Config, err error) {
	cfg = Default()
	b, err := utl.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.LengthBand <= 1.0 {
		return utl.Err("lengthBand must be > 1 (got %g)\n", c.LengthBand)
	}
	if c.MaxPasses < 1 {
		return utl.Err("maxPasses must be >= 1 (got %d)\n", c.MaxPasses)
	}
	if c.HMin <= 0 || c.HMax <= c.HMin {
		return utl.Err("hMin/hMax out of order (hMin=%g hMax=%g)\n", c.HMin, c.HMax)
	}
	return nil
}
