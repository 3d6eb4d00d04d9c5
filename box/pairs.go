// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import "github.com/cpmech/gosl/chk"

// Pair is an unordered pair of point indices found to be neighbors (both
// fall in boxes within one box-width of each other, or the same box).
type Pair struct {
	A, B int
}

// CalculateNodePairs enumerates every unordered pair of points held in this
// rank's local and halo boxes that are within one box-width of each other,
// each pair appearing exactly once. It requires SetupHalfLocalBoxes to have
// been called first.
//
// When SetCalculateNeighbours(true) (the default), it also returns an
// adjacency map from point index to the set of its neighbor point indices,
// populated symmetrically for both endpoints of every pair.
func (o *BoxGrid) CalculateNodePairs() ([]Pair, map[int]map[int]struct{}, error) {
	if !o.stencilBuilt || !o.halfStencil {
		return nil, nil, chk.Err("CalculateNodePairs: half stencil has not been built; call SetupHalfLocalBoxes first")
	}
	var pairs []Pair
	var neighbours map[int]map[int]struct{}
	if o.calcNeighbours {
		neighbours = make(map[int]map[int]struct{})
	}
	for g := range o.localBoxes {
		o.addPairsFromBox(g, pairs2(&pairs), neighbours)
	}
	return pairs, neighbours, nil
}

// pairs2 is a tiny adapter so addPairsFromBox can append through a pointer
// without every caller needing to know the append idiom.
func pairs2(pairs *[]Pair) func(a, b int) {
	return func(a, b int) {
		*pairs = append(*pairs, Pair{A: a, B: b})
	}
}

// CalculateInteriorNodePairs enumerates pairs whose owning box has no
// dependency on halo data (IsInteriorBox), safe to compute before a halo
// exchange completes.
func (o *BoxGrid) CalculateInteriorNodePairs() ([]Pair, map[int]map[int]struct{}, error) {
	if !o.stencilBuilt || !o.halfStencil {
		return nil, nil, chk.Err("CalculateInteriorNodePairs: half stencil has not been built; call SetupHalfLocalBoxes first")
	}
	var pairs []Pair
	var neighbours map[int]map[int]struct{}
	if o.calcNeighbours {
		neighbours = make(map[int]map[int]struct{})
	}
	for g := range o.localBoxes {
		if !o.IsInteriorBox(g) {
			continue
		}
		o.addPairsFromBox(g, pairs2(&pairs), neighbours)
	}
	return pairs, neighbours, nil
}

// CalculateBoundaryNodePairs enumerates pairs whose owning box borders a
// rank boundary and therefore needs halo data to be complete, meant to run
// after UpdateHaloBoxes.
func (o *BoxGrid) CalculateBoundaryNodePairs() ([]Pair, map[int]map[int]struct{}, error) {
	if !o.stencilBuilt || !o.halfStencil {
		return nil, nil, chk.Err("CalculateBoundaryNodePairs: half stencil has not been built; call SetupHalfLocalBoxes first")
	}
	var pairs []Pair
	var neighbours map[int]map[int]struct{}
	if o.calcNeighbours {
		neighbours = make(map[int]map[int]struct{})
	}
	for g := range o.localBoxes {
		if o.IsInteriorBox(g) {
			continue
		}
		o.addPairsFromBox(g, pairs2(&pairs), neighbours)
	}
	return pairs, neighbours, nil
}

// addPairsFromBox emits every pair between box g's points and its
// half-stencil neighbors' points, using the p<q tie-break within g itself
// (its own neighbor list already avoids re-visiting boxes to its left/below
// under the half stencil, so cross-box pairs need no further tie-break).
func (o *BoxGrid) addPairsFromBox(g int, emit func(a, b int), neighbours map[int]map[int]struct{}) {
	box := o.localBoxes[g]
	if box == nil {
		return
	}
	for _, otherG := range o.stencil[g] {
		var otherBox *Box
		if otherG == g {
			otherBox = box
		} else if b, ok := o.localBoxes[otherG]; ok {
			otherBox = b
		} else if b, ok := o.haloBoxes[otherG]; ok {
			otherBox = b
		} else {
			continue
		}
		if otherG == g {
			for p := range box.Points() {
				for q := range box.Points() {
					if q > p {
						emit(p, q)
						o.recordNeighbours(neighbours, p, q)
					}
				}
			}
			continue
		}
		for p := range box.Points() {
			for q := range otherBox.Points() {
				emit(p, q)
				o.recordNeighbours(neighbours, p, q)
			}
		}
	}
}

func (o *BoxGrid) recordNeighbours(neighbours map[int]map[int]struct{}, p, q int) {
	if neighbours == nil {
		return
	}
	if neighbours[p] == nil {
		neighbours[p] = make(map[int]struct{})
	}
	if neighbours[q] == nil {
		neighbours[q] = make(map[int]struct{})
	}
	neighbours[p][q] = struct{}{}
	neighbours[q][p] = struct{}{}
}
