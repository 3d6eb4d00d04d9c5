// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshpair orchestrates a pair of BoxGrids -- one indexing a "fine"
// mesh's elements, one indexing a "coarse" mesh's -- to answer bulk
// point-location queries between the two meshes.
package meshpair

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/boxgrid/box"
	"github.com/cpmech/boxgrid/env"
	"github.com/cpmech/boxgrid/locate"
	"github.com/cpmech/boxgrid/mesh"
	"github.com/cpmech/boxgrid/procgroup"
)

// widenFraction and defaultBoxDiv mirror FineCoarseMeshPair's SetUpBoxes:
// the bounding box is widened 5% on each side, and the box-width default
// divides the domain width by 19.000000001 when max_edge_length*1.1 would
// be smaller.
const (
	widenFraction  = 0.05
	defaultBoxDiv  = 19.000000001
	edgeLengthMult = 1.1
)

// Statistics mirrors FineCoarseMeshPair's ResetStatisticsVariables /
// PrintStatistics counters.
type Statistics struct {
	FineFound, FineNotFound     int
	CoarseFound, CoarseNotFound int
}

// String renders the statistics the way a teacher-style Stringer would,
// replacing Chaste's PrintStatistics side-effecting console writer with a
// value the caller decides what to do with.
func (o Statistics) String() string {
	return io.Sf("fine{found=%d not_found=%d} coarse{found=%d not_found=%d}",
		o.FineFound, o.FineNotFound, o.CoarseFound, o.CoarseNotFound)
}

// MeshPair exclusively owns the two BoxGrids it builds;
// DeleteFineBoxCollection/DeleteCoarseBoxCollection discard them and
// SetUpBoxesOnFineMesh/SetUpBoxesOnCoarseMesh rebuild them deterministically
// instead of leaking a raw pointer the way the source's owning-pointer
// fields did.
type MeshPair struct {
	env *env.Environment

	fineMesh, coarseMesh mesh.Provider

	fineGrid   *box.BoxGrid
	coarseGrid *box.BoxGrid

	fineLocator   *locate.Locator
	coarseLocator *locate.Locator

	stats Statistics

	fineElementsAndWeights []locate.Hit // indexed by coarse-mesh query point
	coarseElementsForFine  []int        // indexed by fine-mesh node or centroid
}

// New builds a MeshPair over the given fine and coarse mesh providers.
func New(e *env.Environment, fineMesh, coarseMesh mesh.Provider) *MeshPair {
	return &MeshPair{env: e, fineMesh: fineMesh, coarseMesh: coarseMesh}
}

// Statistics returns a snapshot of the running found/not-found counters.
func (o *MeshPair) Statistics() Statistics { return o.stats }

// NotInMeshIndices returns the indices, into the most recent
// ComputeFineElementsAndWeightsForCoarseQuadPoints/Nodes result, of every
// query point that fell back to the nearest-element search because it was
// not found in any fine element, the Go analogue of mNotInMesh.
func (o *MeshPair) NotInMeshIndices() []int {
	var out []int
	for i, hit := range o.fineElementsAndWeights {
		if hit.NotInMesh {
			out = append(out, i)
		}
	}
	return out
}

// NotInMeshWeights returns the interpolation weights paired index-for-index
// with NotInMeshIndices, the Go analogue of mNotInMeshNearestElementWeights.
func (o *MeshPair) NotInMeshWeights() [][]float64 {
	var out [][]float64
	for _, hit := range o.fineElementsAndWeights {
		if hit.NotInMesh {
			out = append(out, hit.Weights)
		}
	}
	return out
}

// DeleteFineBoxCollection discards the fine grid and locator, the Go
// analogue of FineCoarseMeshPair::DeleteFineBoxCollection freeing the
// owning pointer.
func (o *MeshPair) DeleteFineBoxCollection() {
	o.fineGrid = nil
	o.fineLocator = nil
}

// DeleteCoarseBoxCollection discards the coarse grid and locator.
func (o *MeshPair) DeleteCoarseBoxCollection() {
	o.coarseGrid = nil
	o.coarseLocator = nil
}

// SetUpBoxesOnFineMesh builds the fine BoxGrid; boxWidth<=0 uses the
// default heuristic. Unlike the source's SetUpBoxesOnFineMesh, safe mode is
// not decided here: it is a per-call argument to each ComputeXxx operation
// below, so a caller can mix safe and unsafe queries against the same grid.
func (o *MeshPair) SetUpBoxesOnFineMesh(boxWidth float64) error {
	grid, err := setUpBoxes(o.env, o.fineMesh, boxWidth)
	if err != nil {
		return chk.Err("SetUpBoxesOnFineMesh:\n%v", err)
	}
	o.fineGrid = grid
	o.fineLocator = locate.NewLocator(grid, o.fineMesh)
	return nil
}

// SetUpBoxesOnCoarseMesh builds the coarse BoxGrid; boxWidth<=0 uses the
// default heuristic.
func (o *MeshPair) SetUpBoxesOnCoarseMesh(boxWidth float64) error {
	grid, err := setUpBoxes(o.env, o.coarseMesh, boxWidth)
	if err != nil {
		return chk.Err("SetUpBoxesOnCoarseMesh:\n%v", err)
	}
	o.coarseGrid = grid
	o.coarseLocator = locate.NewLocator(grid, o.coarseMesh)
	return nil
}

// setUpBoxes constructs a single-process BoxGrid over m's bounding box
// widened 5% on each side, and inserts every element into every box
// touching at least one of its vertices.
func setUpBoxes(e *env.Environment, m mesh.Provider, boxWidth float64) (*box.BoxGrid, error) {
	min, max := m.BoundingBox()
	dim := m.Dim()
	domain := make([]float64, 2*dim)
	for i := 0; i < dim; i++ {
		width := max[i] - min[i]
		pad := widenFraction * width
		domain[2*i] = min[i] - pad
		domain[2*i+1] = max[i] + pad
	}

	if boxWidth <= 0 {
		_, emax := m.MinMaxEdgeLength()
		byEdge := emax * edgeLengthMult
		byWidth := (domain[1] - domain[0]) / defaultBoxDiv
		boxWidth = math.Max(byEdge, byWidth)
	}

	grid, err := box.NewBoxGrid(procgroup.NewLocal(), dim, boxWidth, domain, false, box.AutoLocalRows)
	if err != nil {
		return nil, err
	}
	grid.SetupAllLocalBoxes()

	for eidx := 0; eidx < m.NumElements(); eidx++ {
		elem := m.ElementAt(eidx)
		seen := make(map[int]struct{})
		for _, v := range elem.Vertices() {
			g, err := grid.CalculateContainingBox(m.Node(v).Location())
			if err != nil {
				return nil, chk.Err("setUpBoxes: element %d vertex %d out of domain:\n%v", eidx, v, err)
			}
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			b, err := grid.Box(g)
			if err != nil {
				return nil, chk.Err("setUpBoxes: element %d landed in an unowned box %d:\n%v", eidx, g, err)
			}
			b.AddElement(eidx)
		}
	}

	if e.ShowMsg() {
		io.Pf("meshpair: built grid with %d local boxes, box width %g\n", grid.NumLocalBoxes(), boxWidth)
	}

	return grid, nil
}

// ComputeFineElementsAndWeightsForCoarseQuadPoints requires
// SetUpBoxesOnFineMesh to have run first; it locates, for each physical
// position in quad, the containing fine element and interpolation weights.
func (o *MeshPair) ComputeFineElementsAndWeightsForCoarseQuadPoints(quad mesh.QuadraturePoints, safeMode bool) ([]locate.Hit, error) {
	if o.fineGrid == nil {
		return nil, chk.Err("ComputeFineElementsAndWeightsForCoarseQuadPoints: SetUpBoxesOnFineMesh has not been called")
	}
	hits := make([]locate.Hit, quad.Len())
	for i := 0; i < quad.Len(); i++ {
		loc := quad.At(i)
		hit, err := o.locateFine(loc, safeMode)
		if err != nil {
			return nil, err
		}
		hits[i] = hit
	}
	o.fineElementsAndWeights = hits
	o.tallyFine()
	if o.stats.FineNotFound > 0 && o.env.ShowMsg() {
		io.Pf("meshpair: warning: %d coarse quadrature points were not found in the fine mesh\n", o.stats.FineNotFound)
	}
	return hits, nil
}

// ComputeFineElementsAndWeightsForCoarseNodes is the node-query counterpart
// of ComputeFineElementsAndWeightsForCoarseQuadPoints.
func (o *MeshPair) ComputeFineElementsAndWeightsForCoarseNodes(safeMode bool) ([]locate.Hit, error) {
	if o.fineGrid == nil {
		return nil, chk.Err("ComputeFineElementsAndWeightsForCoarseNodes: SetUpBoxesOnFineMesh has not been called")
	}
	n := o.coarseMesh.NumNodes()
	hits := make([]locate.Hit, n)
	for i := 0; i < n; i++ {
		loc := o.coarseMesh.Node(i).Location()
		hit, err := o.locateFine(loc, safeMode)
		if err != nil {
			return nil, err
		}
		hits[i] = hit
	}
	o.fineElementsAndWeights = hits
	o.tallyFine()
	if o.stats.FineNotFound > 0 && o.env.ShowMsg() {
		io.Pf("meshpair: warning: %d coarse nodes were not found in the fine mesh\n", o.stats.FineNotFound)
	}
	return hits, nil
}

// ComputeCoarseElementsForFineNodes is the symmetric, element-only
// counterpart using the coarse grid against fine-mesh node positions.
func (o *MeshPair) ComputeCoarseElementsForFineNodes(safeMode bool) ([]int, error) {
	if o.coarseGrid == nil {
		return nil, chk.Err("ComputeCoarseElementsForFineNodes: SetUpBoxesOnCoarseMesh has not been called")
	}
	n := o.fineMesh.NumNodes()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		loc := o.fineMesh.Node(i).Location()
		hit, err := o.locateCoarse(loc, safeMode)
		if err != nil {
			return nil, err
		}
		out[i] = hit.ElementIndex
	}
	o.coarseElementsForFine = out
	o.tallyCoarse()
	return out, nil
}

// ComputeCoarseElementsForFineElementCentroids is
// ComputeCoarseElementsForFineNodes's centroid-query counterpart.
func (o *MeshPair) ComputeCoarseElementsForFineElementCentroids(safeMode bool) ([]int, error) {
	if o.coarseGrid == nil {
		return nil, chk.Err("ComputeCoarseElementsForFineElementCentroids: SetUpBoxesOnCoarseMesh has not been called")
	}
	n := o.fineMesh.NumElements()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		loc := o.fineMesh.ElementAt(i).Centroid()
		hit, err := o.locateCoarse(loc, safeMode)
		if err != nil {
			return nil, err
		}
		out[i] = hit.ElementIndex
	}
	o.coarseElementsForFine = out
	o.tallyCoarse()
	return out, nil
}

func (o *MeshPair) locateFine(loc []float64, safeMode bool) (locate.Hit, error) {
	g, err := o.fineGrid.CalculateContainingBox(loc)
	if err != nil {
		return locate.Hit{}, chk.Err("locateFine: query point out of the fine mesh's (widened) domain:\n%v", err)
	}
	return o.fineLocator.Locate(loc, g, safeMode)
}

func (o *MeshPair) locateCoarse(loc []float64, safeMode bool) (locate.Hit, error) {
	g, err := o.coarseGrid.CalculateContainingBox(loc)
	if err != nil {
		return locate.Hit{}, chk.Err("locateCoarse: query point out of the coarse mesh's (widened) domain:\n%v", err)
	}
	return o.coarseLocator.Locate(loc, g, safeMode)
}

func (o *MeshPair) tallyFine() {
	s := o.fineLocator.Stats()
	o.stats.FineFound, o.stats.FineNotFound = s.Found, s.NotFound
}

func (o *MeshPair) tallyCoarse() {
	s := o.coarseLocator.Stats()
	o.stats.CoarseFound, o.stats.CoarseNotFound = s.Found, s.NotFound
}
