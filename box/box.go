// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package box implements the distributed uniform-box grid used for
// neighborhood queries over moving points and for indexing mesh elements.
//
// The design follows Chaste's DistributedBoxCollection: a domain is divided
// into a mixed-radix lattice of fixed-width boxes; boxes along the last axis
// are partitioned contiguously across ranks; a stencil of neighbor boxes is
// pre-built once so that pair enumeration and point location only ever touch
// a bounded number of boxes.
package box

// Box is a bucket of contained point and element references, keyed by the
// caller's own stable integer indices. A Box never allocates or owns the
// point/element data itself -- only the indices.
type Box struct {
	points   map[int]struct{}
	elements map[int]struct{}
}

func newBox() *Box {
	return &Box{
		points:   make(map[int]struct{}),
		elements: make(map[int]struct{}),
	}
}

// AddPoint records that point idx lies in this box.
func (o *Box) AddPoint(idx int) {
	o.points[idx] = struct{}{}
}

// RemovePoint forgets that point idx lies in this box.
func (o *Box) RemovePoint(idx int) {
	delete(o.points, idx)
}

// Points returns the set of point indices contained in this box. Callers
// must not retain the returned map across a call to ClearPoints.
func (o *Box) Points() map[int]struct{} {
	return o.points
}

// AddElement records that mesh element idx has at least one vertex in this
// box.
func (o *Box) AddElement(idx int) {
	o.elements[idx] = struct{}{}
}

// Elements returns the set of element indices contained in this box.
func (o *Box) Elements() map[int]struct{} {
	return o.elements
}

// ClearPoints empties the point set only; element buckets survive a
// EmptyBoxes call, matching Chaste's Box::ClearNodes (elements are set up
// once by MeshPair and are not part of the moving-point workflow).
func (o *Box) ClearPoints() {
	o.points = make(map[int]struct{})
}
