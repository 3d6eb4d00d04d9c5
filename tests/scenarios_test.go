// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tests holds cross-package end-to-end scenarios exercising box,
// mesh, locate and meshpair together, the way gofem's own tests package
// exercised fem/ele/mdl end to end.
package tests

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/boxgrid/box"
	"github.com/cpmech/boxgrid/env"
	"github.com/cpmech/boxgrid/locate"
	"github.com/cpmech/boxgrid/mesh"
	"github.com/cpmech/boxgrid/meshpair"
	"github.com/cpmech/boxgrid/procgroup"
)

// Test_scenario01 is the 1D pair-enumeration end-to-end scenario: box
// width 1, domain [0,3], four points, half-stencil pairs enumerated exactly
// once each.
func Test_scenario01(tst *testing.T) {

	chk.PrintTitle("scenario01: 1D pair enumeration end-to-end")

	pg := procgroup.NewLocal()
	g, err := box.NewBoxGrid(pg, 1, 1.0, []float64{0, 3}, false, box.AutoLocalRows)
	if err != nil {
		tst.Errorf("NewBoxGrid failed: %v", err)
		return
	}
	pts := map[int]float64{0: 0.1, 1: 0.5, 2: 1.2, 3: 2.7}
	for idx, x := range pts {
		bidx, err := g.CalculateContainingBox([]float64{x})
		if err != nil {
			tst.Errorf("CalculateContainingBox failed: %v", err)
			return
		}
		b, err := g.Box(bidx)
		if err != nil {
			tst.Errorf("Box failed: %v", err)
			return
		}
		b.AddPoint(idx)
	}
	if err = g.SetupHalfLocalBoxes(); err != nil {
		tst.Errorf("SetupHalfLocalBoxes failed: %v", err)
		return
	}
	pairs, neighbours, err := g.CalculateNodePairs()
	if err != nil {
		tst.Errorf("CalculateNodePairs failed: %v", err)
		return
	}
	chk.IntAssert(len(pairs), 4)
	// every point that has at least one neighbor shows up symmetrically
	for _, p := range pairs {
		if _, ok := neighbours[p.A][p.B]; !ok {
			tst.Errorf("neighbours map missing (%d,%d)", p.A, p.B)
		}
		if _, ok := neighbours[p.B][p.A]; !ok {
			tst.Errorf("neighbours map missing (%d,%d)", p.B, p.A)
		}
	}
}

// Test_scenario02 is the fine/coarse mesh-pair worked example: a single
// fine triangle and a single coarse query node, resolved through the full
// MeshPair stack (BoxGrid + PointLocator together).
func Test_scenario02(tst *testing.T) {

	chk.PrintTitle("scenario02: mesh-pair end-to-end locate")

	fine, err := mesh.NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial (fine) failed: %v", err)
		return
	}
	coarse, err := mesh.NewSimplicial(2, [][]float64{{0.25, 0.25}}, nil)
	if err != nil {
		tst.Errorf("NewSimplicial (coarse) failed: %v", err)
		return
	}

	e := env.New(procgroup.NewLocal(), false)
	pair := meshpair.New(e, fine, coarse)

	if err = pair.SetUpBoxesOnFineMesh(0.5); err != nil {
		tst.Errorf("SetUpBoxesOnFineMesh failed: %v", err)
		return
	}
	hits, err := pair.ComputeFineElementsAndWeightsForCoarseNodes(true)
	if err != nil {
		tst.Errorf("ComputeFineElementsAndWeightsForCoarseNodes failed: %v", err)
		return
	}
	if len(hits) != 1 {
		tst.Errorf("expected one hit, got %d", len(hits))
		return
	}
	chk.IntAssert(hits[0].ElementIndex, 0)
	chk.Vector(tst, "weights", 1e-9, hits[0].Weights, []float64{0.5, 0.25, 0.25})
}

// Test_scenario03 exercises the distributed row-partition worked example
// (numBoxes[DIM-1]=6, 3 ranks -> [0,2),[2,4),[4,6)) purely through
// RowPartitioner's closed-form auto split, which every rank can compute
// without communication.
func Test_scenario03(tst *testing.T) {

	chk.PrintTitle("scenario03: 3-rank auto row partition")

	want := [][2]int{{0, 2}, {2, 4}, {4, 6}}
	for rank := 0; rank < 3; rank++ {
		pg := fakeRankGroup{rank: rank, size: 3}
		lo, hi, err := box.NewRowPartitioner(pg, 6, box.AutoLocalRows)
		if err != nil {
			tst.Errorf("NewRowPartitioner failed: %v", err)
			return
		}
		chk.IntAssert(lo, want[rank][0])
		chk.IntAssert(hi, want[rank][1])
	}
}

// Test_scenario04 confirms a tiered locate against a mesh that has no
// safe-mode fallback still resolves points near an element's own box.
func Test_scenario04(tst *testing.T) {

	chk.PrintTitle("scenario04: tiered locate without safe mode")

	fine, err := mesh.NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	pg := procgroup.NewLocal()
	g, err := box.NewBoxGrid(pg, 2, 0.5, []float64{-0.1, 1.1, -0.1, 1.1}, false, box.AutoLocalRows)
	if err != nil {
		tst.Errorf("NewBoxGrid failed: %v", err)
		return
	}
	for _, v := range []int{0, 1, 2} {
		bidx, err := g.CalculateContainingBox(fine.Node(v).Location())
		if err != nil {
			tst.Errorf("CalculateContainingBox failed: %v", err)
			return
		}
		b, err := g.Box(bidx)
		if err != nil {
			tst.Errorf("Box failed: %v", err)
			return
		}
		b.AddElement(0)
	}
	if err = g.SetupHalfLocalBoxes(); err != nil {
		tst.Errorf("SetupHalfLocalBoxes failed: %v", err)
		return
	}
	loc := locate.NewLocator(g, fine)
	query := []float64{0.2, 0.2}
	bidx, err := g.CalculateContainingBox(query)
	if err != nil {
		tst.Errorf("CalculateContainingBox failed: %v", err)
		return
	}
	hit, err := loc.Locate(query, bidx, false)
	if err != nil {
		tst.Errorf("Locate failed: %v", err)
		return
	}
	chk.IntAssert(hit.ElementIndex, 0)
}

// fakeRankGroup is a ProcessGroup stub used only to probe RowPartitioner's
// per-rank closed-form split; it never Sends or Recvs (AutoLocalRows never
// exercises those paths).
type fakeRankGroup struct {
	rank, size int
}

func (o fakeRankGroup) Rank() int       { return o.rank }
func (o fakeRankGroup) Size() int       { return o.size }
func (o fakeRankGroup) IsMaster() bool  { return o.rank == 0 }
func (o fakeRankGroup) IsTopMost() bool { return o.rank == o.size-1 }
func (o fakeRankGroup) Send(dest, tag int, data []byte) error {
	return chk.Err("fakeRankGroup: Send should not be called under AutoLocalRows")
}
func (o fakeRankGroup) Recv(src, tag int, data []byte) error {
	return chk.Err("fakeRankGroup: Recv should not be called under AutoLocalRows")
}
