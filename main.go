// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math/rand"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/boxgrid/box"
	"github.com/cpmech/boxgrid/config"
	"github.com/cpmech/boxgrid/env"
	"github.com/cpmech/boxgrid/procgroup"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				io.PfRed("\nERROR: %v", err)
				io.Pf("See location of error below:\n")
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	// read input parameters
	cfgPath, _ := io.ArgToFilename(0, "", ".json", false)
	verbose := io.ArgToBool(1, true)
	numPoints := io.ArgToInt(2, 1000)
	seed := int64(io.ArgToInt(3, 1))

	pg := newProcessGroup()

	if pg.IsMaster() && verbose {
		io.PfWhite("\nboxgrid -- distributed box-grid pair enumeration demo\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"grid config path (empty: use built-in defaults)", "cfgPath", cfgPath,
			"show messages", "verbose", verbose,
			"number of random points to insert", "numPoints", numPoints,
			"random seed", "seed", seed,
		))
	}

	cfg := defaultConfig()
	if cfgPath != "" {
		loaded, err := config.ReadGridConfig(cfgPath)
		if err != nil {
			chk.Panic("failed to load grid config:\n%v", err)
		}
		cfg = loaded
	}

	e := env.New(pg, verbose)

	grid, err := box.NewBoxGrid(pg, cfg.Dim, cfg.BoxWidth, cfg.Domain, cfg.PeriodicInX, cfg.RequestedRows)
	if err != nil {
		chk.Panic("failed to build box grid:\n%v", err)
	}
	grid.SetCalculateNeighbours(cfg.CalcNeighbours)

	insertRandomPoints(grid, cfg, numPoints, seed)

	if err = grid.SetupHalfLocalBoxes(); err != nil {
		chk.Panic("failed to build half stencil:\n%v", err)
	}

	pairs, neighbours, err := grid.CalculateNodePairs()
	if err != nil {
		chk.Panic("failed to enumerate pairs:\n%v", err)
	}

	if e.ShowMsg() {
		io.Pf("boxgrid: rank %d owns %d local boxes, found %d pairs, %d points have at least one neighbor\n",
			pg.Rank(), grid.NumLocalBoxes(), len(pairs), len(neighbours))
	}
}

func newProcessGroup() procgroup.ProcessGroup {
	if mpi.IsOn() && mpi.Size() > 1 {
		return procgroup.NewMPI()
	}
	return procgroup.NewLocal()
}

func defaultConfig() *config.GridConfig {
	return &config.GridConfig{
		Dim:            2,
		Domain:         []float64{0, 10, 0, 10},
		BoxWidth:       1.0,
		RequestedRows:  box.AutoLocalRows,
		CalcNeighbours: true,
	}
}

func insertRandomPoints(grid *box.BoxGrid, cfg *config.GridConfig, numPoints int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	domain := grid.Domain()
	for i := 0; i < numPoints; i++ {
		loc := make([]float64, cfg.Dim)
		for d := 0; d < cfg.Dim; d++ {
			loc[d] = domain[2*d] + rng.Float64()*(domain[2*d+1]-domain[2*d])
		}
		g, err := grid.CalculateContainingBox(loc)
		if err != nil {
			continue
		}
		if !grid.OwnsBox(g) {
			continue
		}
		b, err := grid.Box(g)
		if err != nil {
			continue
		}
		b.AddPoint(i)
	}
}
