// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

// topology supplies the per-axis coordinate offsets defining a box's
// neighborhood, the only place CalculateContainingBox's caller ever branches
// on DIM: a topology is selected once at construction time (newTopology),
// and every later stencil computation walks its offset list uniformly
// regardless of dimension.
//
// fullOffsets is the Moore neighborhood (every box within one box-width in
// every axis, including itself). halfOffsets is a canonical half of it,
// chosen so that summing a box's half-neighborhood with every other box's
// half-neighborhood covers each unordered adjacent pair exactly once (see
// AddPairsFromBox for the matching intra-box tie-break).
type topology interface {
	fullOffsets() [][]int
	halfOffsets() [][]int

	// haloReachOffsets returns the extra offsets a half-stencil box needs
	// when it sits on this rank's lowest owned row: they reach down into the
	// halo row below, so that pairs straddling that rank boundary are also
	// enumerated on this rank (the rank below enumerates the same pairs
	// through its own upward offsets into its halo row). Only applied to
	// boxes on that boundary row; see boxStencil.
	haloReachOffsets() [][]int
}

// newTopology is the sole DIM switch in this package.
func newTopology(dim int) topology {
	switch dim {
	case 1:
		return dim1Topology{}
	case 2:
		return dim2Topology{}
	case 3:
		return dim3Topology{}
	default:
		panic("newTopology: unsupported dimension")
	}
}

type dim1Topology struct{}

func (dim1Topology) fullOffsets() [][]int {
	return [][]int{{-1}, {0}, {1}}
}

// halfOffsets keeps self and the box to the right; every leftward pair is
// then claimed by the neighbor to the left instead.
func (dim1Topology) halfOffsets() [][]int {
	return [][]int{{0}, {1}}
}

func (dim1Topology) haloReachOffsets() [][]int {
	return [][]int{{-1}}
}

type dim2Topology struct{}

func (dim2Topology) fullOffsets() [][]int {
	offs := make([][]int, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			offs = append(offs, []int{dx, dy})
		}
	}
	return offs
}

// halfOffsets keeps self, the box to the right, and the entire row above
// (upper-left, above, upper-right). This is the literal port of Chaste's
// SetupLocalBoxesHalfOnly 2D case: the upper-left neighbor is included
// unconditionally, which is required for the completeness invariant (each
// diagonally-adjacent pair must be claimed by exactly one of the two boxes,
// and the box above-left of a diagonal neighbor never reaches down to claim
// it under this scheme, so the box below-right must, through {-1,1}).
func (dim2Topology) halfOffsets() [][]int {
	return [][]int{
		{0, 0},
		{1, 0},
		{-1, 1},
		{0, 1},
		{1, 1},
	}
}

func (dim2Topology) haloReachOffsets() [][]int {
	return [][]int{
		{-1, -1},
		{0, -1},
		{1, -1},
	}
}

type dim3Topology struct{}

func (dim3Topology) fullOffsets() [][]int {
	offs := make([][]int, 0, 27)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				offs = append(offs, []int{dx, dy, dz})
			}
		}
	}
	return offs
}

// halfOffsets recurses the 2D scheme one dimension up: self and the box to
// the right cover the current row; the rest of the current z-plane's row
// above covers the current plane the way dim2Topology does; and the entire
// 9-box neighborhood one z-plane up covers everything above, since that
// whole plane has not been visited by any box below it yet.
func (dim3Topology) halfOffsets() [][]int {
	offs := [][]int{
		{0, 0, 0},
		{1, 0, 0},
		{-1, 1, 0},
		{0, 1, 0},
		{1, 1, 0},
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			offs = append(offs, []int{dx, dy, 1})
		}
	}
	return offs
}

func (dim3Topology) haloReachOffsets() [][]int {
	offs := make([][]int, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			offs = append(offs, []int{dx, dy, -1})
		}
	}
	return offs
}
