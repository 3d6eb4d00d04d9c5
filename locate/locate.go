// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package locate implements the tiered point-location search used by
// MeshPair: given a query point and a BoxGrid built over a mesh's
// elements, find the containing element and its interpolation weights,
// escalating through progressively wider search scopes only when needed.
package locate

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/cpmech/boxgrid/box"
	"github.com/cpmech/boxgrid/mesh"
)

// Hit is the result of a successful location: the containing (or, on
// fallback, nearest) element and its interpolation weights.
type Hit struct {
	ElementIndex int
	Weights      []float64
	NotInMesh    bool // set on the Tier-3 fallback path
}

// Tier names which search scope produced a Hit, a superset of the plain
// found/not-found counters: it distinguishes containing-box hits from
// stencil hits from whole-mesh safe-mode hits, matching the commented-out
// mStatisticsCounters[0..3] intent left in the original.
type Tier int

const (
	TierBox Tier = iota
	TierStencil
	TierWholeMesh
	TierNotFound
)

// Stats accumulates the tier outcomes across every query issued through a
// Locator. Found/NotFound are the plain SPEC_FULL.md §6 counters; ByTier
// counts every query by the tier that resolved it, with TierNotFound
// holding the nearest-element fallbacks.
type Stats struct {
	Found    int
	NotFound int
	ByTier   [4]int // indexed by Tier
}

// Locator is the PointLocator: a BoxGrid built over a mesh's elements, plus
// running statistics. Safe mode is a per-Locate argument, not a fixed
// construction-time setting -- FineCoarseMeshPair's SetUpBoxesOnFineMesh
// takes no safe-mode flag at all, and every ComputeXxx bulk operation
// threads its own safe_mode argument down to the point search independently
// of how the boxes were built.
type Locator struct {
	grid     *box.BoxGrid
	provider mesh.Provider

	stats Stats

	centroids kdtree.Points
	tree      *kdtree.Tree
	bins      *gm.Bins
	indexed   bool
}

// NewLocator builds a Locator over grid (already populated with element
// buckets by MeshPair.SetUpBoxes) and provider.
func NewLocator(grid *box.BoxGrid, provider mesh.Provider) *Locator {
	return &Locator{grid: grid, provider: provider}
}

// Stats returns a snapshot of the running found/not-found counters.
func (o *Locator) Stats() Stats { return o.stats }

func (o *Locator) recordHit(tier Tier) {
	o.stats.Found++
	o.stats.ByTier[tier]++
}

// Locate runs the tiered search for loc, whose containing box is known
// (the caller has already computed it via grid.CalculateContainingBox, so
// the same containing-box computation isn't duplicated across calls in a
// MeshPair bulk operation). safeMode governs only Tier 3a, the whole-mesh
// ContainingElement retry that precedes the nearest-element fallback -- it
// is a per-call choice, not a fixed property of the grid or provider.
func (o *Locator) Locate(loc []float64, containingBox int, safeMode bool) (Hit, error) {
	// Tier 1: elements directly in the containing box.
	var boxElems map[int]struct{}
	if b, err := o.grid.Box(containingBox); err == nil {
		boxElems = elementSet(b)
		if hit, ok := o.tryElements(loc, boxElems); ok {
			o.recordHit(TierBox)
			return hit, nil
		}
	} else if b, err2 := o.grid.HaloBox(containingBox); err2 == nil {
		boxElems = elementSet(b)
		if hit, ok := o.tryElements(loc, boxElems); ok {
			o.recordHit(TierBox)
			return hit, nil
		}
	} else {
		return Hit{}, chk.Err("Locate: containing box %d is neither owned nor a halo box:\n%v", containingBox, err)
	}

	// Tier 2: the box's local stencil. candidates doubles as the restricted
	// search scope Tier 3b's nearest-element fallback uses below, matching
	// FineCoarseMeshPair's test_element_indices (never the whole mesh).
	candidates := boxElems
	if neighbors, ok := o.grid.GetLocalBoxes(containingBox); ok {
		candidates = make(map[int]struct{})
		for _, g := range neighbors {
			if b, err := o.grid.Box(g); err == nil {
				addElements(candidates, b)
			} else if b, err := o.grid.HaloBox(g); err == nil {
				addElements(candidates, b)
			}
		}
		if hit, ok := o.tryElements(loc, candidates); ok {
			o.recordHit(TierStencil)
			return hit, nil
		}
	}

	// Tier 3a: safe mode retries against the entire mesh before falling
	// back to nearest-element.
	if safeMode {
		if idx, ok := o.provider.ContainingElement(loc, nil); ok {
			o.recordHit(TierWholeMesh)
			return Hit{
				ElementIndex: idx,
				Weights:      o.provider.ElementAt(idx).InterpolationWeights(loc),
			}, nil
		}
	}

	// Tier 3b: nearest element among the stencil candidates gathered above,
	// recorded as not-in-mesh.
	o.stats.NotFound++
	o.stats.ByTier[TierNotFound]++
	idx := o.nearestElement(loc, candidates)
	return Hit{
		ElementIndex: idx,
		Weights:      o.provider.ElementAt(idx).InterpolationWeights(loc),
		NotInMesh:    true,
	}, nil
}

func (o *Locator) tryElements(loc []float64, candidates map[int]struct{}) (Hit, bool) {
	if len(candidates) == 0 {
		return Hit{}, false
	}
	ids := make([]int, 0, len(candidates))
	for id := range candidates {
		ids = append(ids, id)
	}
	idx, ok := o.provider.ContainingElement(loc, ids)
	if !ok {
		return Hit{}, false
	}
	return Hit{ElementIndex: idx, Weights: o.provider.ElementAt(idx).InterpolationWeights(loc)}, true
}

// nearestElement finds the nearest element to loc among candidates -- the
// stencil-box element set gathered by the caller -- mirroring
// FineCoarseMeshPair's GetNearestElementIndexFromTestElements(rPoint,
// test_element_indices), which never searches outside that set. Only when
// candidates is empty (an isolated box with no registered stencil at all)
// does this fall back to a whole-mesh search, preferring the gosl/gm.Bins
// index (the same bin-and-append spatial structure out.go's NodBins/IpsBins
// used for output-point queries) and then a gonum kdtree over element
// centroids, built lazily on first use.
func (o *Locator) nearestElement(loc []float64, candidates map[int]struct{}) int {
	if len(candidates) > 0 {
		ids := make([]int, 0, len(candidates))
		for id := range candidates {
			ids = append(ids, id)
		}
		return o.provider.NearestElement(loc, ids)
	}
	o.ensureIndex()
	if o.bins != nil {
		if idx, _, err := o.bins.FindClosest(loc); err == nil {
			return idx
		}
	}
	if o.tree != nil {
		q := centroidPoint{loc: loc}
		nearest, _ := o.tree.Nearest(q)
		return nearest.(centroidPoint).index
	}
	return o.provider.NearestElement(loc, allElements(o.provider))
}

func (o *Locator) ensureIndex() {
	if o.indexed {
		return
	}
	o.indexed = true
	n := o.provider.NumElements()
	if n == 0 {
		return
	}
	pts := make(kdtree.Points, n)
	for i := 0; i < n; i++ {
		pts[i] = centroidPoint{loc: o.provider.ElementAt(i).Centroid(), index: i}
	}
	o.centroids = pts
	o.tree = kdtree.New(pts, true)

	min, max := o.provider.BoundingBox()
	dim := o.provider.Dim()
	ndiv := make([]int, dim)
	for i := range ndiv {
		ndiv[i] = 8
	}
	bins := new(gm.Bins)
	if err := bins.Init(min, max, ndiv); err == nil {
		ok := true
		for i := 0; i < n; i++ {
			if err := bins.Append(o.provider.ElementAt(i).Centroid(), i); err != nil {
				ok = false
				break
			}
		}
		if ok {
			o.bins = bins
		}
	}
}

func allElements(p mesh.Provider) []int {
	ids := make([]int, p.NumElements())
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func elementSet(b *box.Box) map[int]struct{} {
	out := make(map[int]struct{}, len(b.Elements()))
	for id := range b.Elements() {
		out[id] = struct{}{}
	}
	return out
}

func addElements(dst map[int]struct{}, b *box.Box) {
	for id := range b.Elements() {
		dst[id] = struct{}{}
	}
}

// centroidPoint adapts a mesh element's centroid to gonum/spatial/kdtree's
// Comparable interface.
type centroidPoint struct {
	loc   []float64
	index int
}

func (p centroidPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(centroidPoint)
	return p.loc[d] - q.loc[d]
}

func (p centroidPoint) Dims() int { return len(p.loc) }

func (p centroidPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(centroidPoint)
	sum := 0.0
	for i := range p.loc {
		d := p.loc[i] - q.loc[i]
		sum += d * d
	}
	return sum
}
