// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

// SetupAllLocalBoxes (re)builds the full stencil: for every box this rank
// owns or has as a halo box, the complete Moore neighborhood (self plus
// every box within one box-width, on every side). A second call silently
// replaces the previous stencil, matching Chaste's SetupAllLocalBoxes
// (which carries no "already set" guard, unlike the half variant below).
func (o *BoxGrid) SetupAllLocalBoxes() {
	o.buildStencil(false)
}

// SetupHalfLocalBoxes builds the half stencil used for deduplicated pair
// enumeration (see AddPairsFromBox). Calling it again once the half stencil
// has been built on this grid (EmptyBoxes does not reset it) is a
// programmer error and returns ErrStencilAlreadyBuilt, mirroring Chaste's
// "Local Boxes Are Already Set" exception.
func (o *BoxGrid) SetupHalfLocalBoxes() error {
	if o.stencilBuilt && o.halfStencil {
		return newErr(ErrStencilAlreadyBuilt, "SetupHalfLocalBoxes: half stencil has already been built for this grid")
	}
	o.buildStencil(true)
	return nil
}

func (o *BoxGrid) buildStencil(half bool) {
	offsets := o.topo.fullOffsets()
	reach := o.topo.haloReachOffsets()
	if half {
		offsets = o.topo.halfOffsets()
	}
	stencil := make(map[int][]int, len(o.localBoxes)+len(o.haloBoxes))
	for g := range o.localBoxes {
		stencil[g] = o.boxStencil(g, offsets, reach, half)
	}
	for g := range o.haloBoxes {
		stencil[g] = o.boxStencil(g, offsets, reach, half)
	}
	o.stencil = stencil
	o.halfStencil = half
	o.stencilBuilt = true
}

// boxStencil computes box g's neighbor list. Under the half stencil, a box
// on this rank's lowest owned row also reaches into the halo row below it
// (see topology.haloReachOffsets), so pairs straddling that rank boundary
// are enumerated on this rank as well as on the rank below.
func (o *BoxGrid) boxStencil(g int, offsets, reach [][]int, half bool) []int {
	coords := o.CoordsFromGlobalIndex(g)
	all := offsets
	if half && o.haloLeftRow >= 0 && g/o.bpf == o.loRow {
		all = append(append([][]int{}, offsets...), reach...)
	}
	return o.neighborsFromOffsets(coords, all)
}

// GetLocalBoxes returns the (already-built) stencil neighbors of box g,
// under whichever stencil was last constructed. Returns nil, false if the
// stencil has not been built yet or g is not in it.
func (o *BoxGrid) GetLocalBoxes(g int) ([]int, bool) {
	if !o.stencilBuilt {
		return nil, false
	}
	n, ok := o.stencil[g]
	return n, ok
}

// neighborsFromOffsets is the single place per-axis offsets become global
// box indices: it wraps axis 0 when the grid is periodic in x, and drops
// any offset that walks off a non-periodic axis.
func (o *BoxGrid) neighborsFromOffsets(coords []int, offsets [][]int) []int {
	out := make([]int, 0, len(offsets))
	nc := make([]int, o.dim)
	for _, off := range offsets {
		valid := true
		for i := 0; i < o.dim; i++ {
			c := coords[i] + off[i]
			if i == 0 && o.periodicInX {
				n := o.numBoxes[0]
				c = ((c % n) + n) % n
			} else if c < 0 || c >= o.numBoxes[i] {
				valid = false
				break
			}
			nc[i] = c
		}
		if valid {
			out = append(out, o.GlobalIndexFromCoords(nc))
		}
	}
	return out
}
