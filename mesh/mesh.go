// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh defines the capabilities MeshPair and PointLocator consume
// from an unstructured simplicial mesh, plus a small concrete mesh good
// enough for tests and the demo CLI. Consumers are expected to bring their
// own MeshProvider from a real FE mesh library; this package never assumes
// more than the interface below.
package mesh

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/floats"
)

// Point is a stable, indexed location in DIM-dimensional space, the
// capability BoxGrid and PointLocator consume for query points and mesh
// nodes alike.
type Point interface {
	Index() int
	Location() []float64
}

// Element is a simplex (DIM+1 vertices) with the affine machinery
// PointLocator needs to test containment and compute interpolation
// weights.
type Element interface {
	Index() int
	Vertices() []int // node indices, length DIM+1
	Centroid() []float64
	// InterpolationWeights returns the barycentric coordinates of loc in
	// this element; they sum to 1 and are all in [0,1] iff loc lies inside.
	InterpolationWeights(loc []float64) []float64
}

// Provider is the MeshProvider capability: everything MeshPair and
// PointLocator need from an unstructured simplicial mesh, without
// depending on any particular mesh library's node/element types.
type Provider interface {
	Dim() int
	NumNodes() int
	NumElements() int
	Node(i int) Point
	ElementAt(i int) Element

	// BoundingBox returns the mesh's axis-aligned bounds.
	BoundingBox() (min, max []float64)

	// MinMaxEdgeLength returns the shortest and longest edge length over
	// every element, used by MeshPair's default box-width heuristic.
	MinMaxEdgeLength() (emin, emax float64)

	// ContainingElement tests whether loc lies inside any element named by
	// candidates (or the whole mesh when candidates is nil), returning
	// ok=false if none contain it.
	ContainingElement(loc []float64, candidates []int) (idx int, ok bool)

	// NearestElement returns the element in candidates whose centroid is
	// closest to loc, used by PointLocator's final fallback tier.
	NearestElement(loc []float64, candidates []int) int
}

// QuadraturePoints is a flat sequence of physical positions derived from a
// mesh and a quadrature rule, consumed by
// MeshPair.ComputeFineElementsAndWeightsForCoarseQuadPoints.
type QuadraturePoints interface {
	Len() int
	At(i int) []float64
}

// Simplicial is a minimal, in-memory Provider implementation: an explicit
// list of node coordinates and element vertex tuples, sufficient for tests
// and the demo CLI. Interpolation weights are computed by solving the
// barycentric linear system directly (no shape-function library needed for
// straight-sided simplices).
type Simplicial struct {
	dim   int
	nodes [][]float64
	elems [][]int
}

// NewSimplicial builds a Simplicial mesh from a flat node coordinate table
// (nodes[i] has length dim) and an element table (elems[e] has length
// dim+1, indices into nodes).
func NewSimplicial(dim int, nodes [][]float64, elems [][]int) (*Simplicial, error) {
	if dim < 1 || dim > 3 {
		return nil, chk.Err("NewSimplicial: dim must be 1, 2 or 3; got %d", dim)
	}
	for i, n := range nodes {
		if len(n) != dim {
			return nil, chk.Err("NewSimplicial: node %d has %d coords, want %d", i, len(n), dim)
		}
	}
	for e, verts := range elems {
		if len(verts) != dim+1 {
			return nil, chk.Err("NewSimplicial: element %d has %d vertices, want %d", e, len(verts), dim+1)
		}
	}
	return &Simplicial{dim: dim, nodes: nodes, elems: elems}, nil
}

func (o *Simplicial) Dim() int         { return o.dim }
func (o *Simplicial) NumNodes() int    { return len(o.nodes) }
func (o *Simplicial) NumElements() int { return len(o.elems) }

func (o *Simplicial) Node(i int) Point {
	return &simplexPoint{index: i, loc: o.nodes[i]}
}

func (o *Simplicial) ElementAt(i int) Element {
	return &simplexElement{mesh: o, index: i, verts: o.elems[i]}
}

func (o *Simplicial) BoundingBox() (min, max []float64) {
	min = append([]float64{}, o.nodes[0]...)
	max = append([]float64{}, o.nodes[0]...)
	for _, n := range o.nodes[1:] {
		for i := 0; i < o.dim; i++ {
			if n[i] < min[i] {
				min[i] = n[i]
			}
			if n[i] > max[i] {
				max[i] = n[i]
			}
		}
	}
	return min, max
}

func (o *Simplicial) MinMaxEdgeLength() (emin, emax float64) {
	emin = -1
	for _, verts := range o.elems {
		for i := 0; i < len(verts); i++ {
			for j := i + 1; j < len(verts); j++ {
				d := floats.Distance(o.nodes[verts[i]], o.nodes[verts[j]], 2)
				if emin < 0 || d < emin {
					emin = d
				}
				if d > emax {
					emax = d
				}
			}
		}
	}
	return emin, emax
}

func (o *Simplicial) ContainingElement(loc []float64, candidates []int) (int, bool) {
	if candidates == nil {
		candidates = make([]int, len(o.elems))
		for i := range candidates {
			candidates[i] = i
		}
	}
	for _, e := range candidates {
		w := o.ElementAt(e).InterpolationWeights(loc)
		if insideSimplex(w) {
			return e, true
		}
	}
	return 0, false
}

func (o *Simplicial) NearestElement(loc []float64, candidates []int) int {
	best, bestDist := -1, 0.0
	for _, e := range candidates {
		c := o.ElementAt(e).Centroid()
		d := floats.Distance(loc, c, 2)
		if best < 0 || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// insideSimplex reports whether barycentric weights place a point inside
// the simplex (all non-negative, within a small tolerance for boundary
// round-off).
func insideSimplex(w []float64) bool {
	const tol = 1e-9
	for _, wi := range w {
		if wi < -tol {
			return false
		}
	}
	return true
}

type simplexPoint struct {
	index int
	loc   []float64
}

func (o *simplexPoint) Index() int          { return o.index }
func (o *simplexPoint) Location() []float64 { return o.loc }

type simplexElement struct {
	mesh  *Simplicial
	index int
	verts []int
}

func (o *simplexElement) Index() int      { return o.index }
func (o *simplexElement) Vertices() []int { return o.verts }

func (o *simplexElement) Centroid() []float64 {
	c := make([]float64, o.mesh.dim)
	for _, v := range o.verts {
		floats.Add(c, o.mesh.nodes[v])
	}
	floats.Scale(1/float64(len(o.verts)), c)
	return c
}

// InterpolationWeights solves the DIM+1 barycentric coordinates of loc with
// respect to this simplex by Gaussian elimination with partial pivoting on
// the augmented [vertices; ones] linear system, matching the affine-coordinate
// definition in SPEC_FULL.md's glossary.
func (o *simplexElement) InterpolationWeights(loc []float64) []float64 {
	dim := o.mesh.dim
	n := dim + 1
	// Build the (n x n) matrix M where row i is [vertex_i, 1], solve
	// M^T * w = [loc, 1] for w via Gaussian elimination.
	a := la.MatAlloc(n, n+1)
	for i := 0; i < n; i++ {
		row := a[i]
		for j := 0; j < n; j++ {
			if i < dim {
				row[j] = o.mesh.nodes[o.verts[j]][i]
			} else {
				row[j] = 1
			}
		}
		if i < dim {
			row[n] = loc[i]
		} else {
			row[n] = 1
		}
	}
	return gaussSolve(a, n)
}

// gaussSolve solves an n x (n+1) augmented system in place via partial
// pivoting, returning the solution vector.
func gaussSolve(a [][]float64, n int) []float64 {
	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if abs(a[r][col]) > abs(a[piv][col]) {
				piv = r
			}
		}
		a[col], a[piv] = a[piv], a[col]
		if abs(a[col][col]) < 1e-300 {
			continue
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := a[r][col] / a[col][col]
			for c := col; c <= n; c++ {
				a[r][c] -= f * a[col][c]
			}
		}
	}
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		if abs(a[i][i]) < 1e-300 {
			x[i] = 0
			continue
		}
		x[i] = a[i][n] / a[i][i]
	}
	return x
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
