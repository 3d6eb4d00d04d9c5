// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the JSON configuration for a box-grid run, following
// the same read-file-then-json.Unmarshal idiom gofem's inp.ReadSim uses for
// .sim files, defaults included.
package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/boxgrid/box"
)

// GridConfig describes a BoxGrid to construct: dimension, domain bounds,
// box width, and the periodic-in-x flag. Field names mirror the
// constructor arguments box.NewBoxGrid takes.
type GridConfig struct {
	Dim            int       `json:"dim"`            // 1, 2 or 3
	Domain         []float64 `json:"domain"`         // 2*Dim entries: min,max per axis
	BoxWidth       float64   `json:"boxwidth"`       // common box side length
	PeriodicInX    bool      `json:"periodicinx"`    // wrap the first axis (dim==2, single rank only)
	RequestedRows  int       `json:"requestedrows"`  // box.AutoLocalRows unless replaying a LoadBalance decision
	CalcNeighbours bool      `json:"calcneighbours"` // populate the adjacency map alongside pair lists
	Verbose        bool      `json:"verbose"`        // print progress messages on the master rank
}

// SetDefault fills zero-valued fields with sane defaults, following the
// convention of gofem's Solver.SetDefault/LinSol.SetDefault called before
// JSON decoding so an omitted field keeps a usable value rather than zero.
func (o *GridConfig) SetDefault() {
	if o.BoxWidth == 0 {
		o.BoxWidth = 1.0
	}
	o.RequestedRows = box.AutoLocalRows
	o.CalcNeighbours = true
}

// MeshPairConfig describes the fine/coarse mesh pair box setup: an optional
// explicit box width per mesh (zero means "let MeshPair pick a default").
type MeshPairConfig struct {
	FineBoxWidth   float64 `json:"fineboxwidth"`
	CoarseBoxWidth float64 `json:"coarseboxwidth"`
	SafeMode       bool    `json:"safemode"` // fall back to a whole-mesh search tier before giving up
}

// ReadGridConfig reads and decodes a GridConfig from a JSON file, applying
// SetDefault before unmarshalling so a partially-specified file still ends
// up complete.
func ReadGridConfig(path string) (*GridConfig, error) {
	var o GridConfig
	o.SetDefault()
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("ReadGridConfig: cannot read %q:\n%v", path, err)
	}
	if err = json.Unmarshal(b, &o); err != nil {
		return nil, chk.Err("ReadGridConfig: cannot unmarshal %q:\n%v", path, err)
	}
	return &o, nil
}

// ReadMeshPairConfig reads and decodes a MeshPairConfig from a JSON file.
func ReadMeshPairConfig(path string) (*MeshPairConfig, error) {
	var o MeshPairConfig
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("ReadMeshPairConfig: cannot read %q:\n%v", path, err)
	}
	if err = json.Unmarshal(b, &o); err != nil {
		return nil, chk.Err("ReadMeshPairConfig: cannot unmarshal %q:\n%v", path, err)
	}
	return &o, nil
}
