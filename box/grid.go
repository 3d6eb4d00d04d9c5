// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package box

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/boxgrid/procgroup"
)

// fudge absorbs floating-point round-off in the domain-swelling and
// box-index scans, exactly as Chaste's DistributedBoxCollection does with
// its own 5e-14 constant.
const fudge = 5e-14

// BoxGrid is a distributed, uniform-width lattice of boxes covering a
// rectangular domain, partitioned into contiguous row ranges along the last
// axis across the ranks of a ProcessGroup. It is the Go counterpart of
// Chaste's DistributedBoxCollection.
type BoxGrid struct {
	dim         int
	boxWidth    float64
	domain      []float64 // length 2*dim: xmin,xmax, ymin,ymax, [zmin,zmax]
	numBoxes    []int     // length dim
	periodicInX bool

	pg procgroup.ProcessGroup

	loRow, hiRow int // this rank's half-open row range along the last axis
	bpf          int // boxes per face: product of numBoxes[0..dim-2]

	minBoxIndex int // loRow * bpf
	maxBoxIndex int // hiRow * bpf, exclusive

	localBoxes map[int]*Box
	haloBoxes  map[int]*Box

	haloLeftRow, haloRightRow int // ghost row indices, or -1 if this rank has no such neighbor

	topo topology

	stencil        map[int][]int // global box index -> neighbor global indices, built once
	halfStencil    bool          // whether stencil holds the half (true) or full (false) variant
	stencilBuilt   bool
	calcNeighbours bool
}

// NewBoxGrid builds a BoxGrid covering domain (length 2*dim, pairs of
// [min,max] per axis) with cubic boxes of side boxWidth, partitioning the
// last axis across pg.
//
// requestedLocalRows is normally box.AutoLocalRows; a caller replaying a
// LoadBalance decision passes the row count it was assigned instead.
//
// periodicInX wraps the first axis; per SPEC_FULL.md it is only meaningful
// for dim==2 on a single rank (Non-goal: no periodic-boundary halo exchange).
func NewBoxGrid(pg procgroup.ProcessGroup, dim int, boxWidth float64, domain []float64, periodicInX bool, requestedLocalRows int) (*BoxGrid, error) {
	if dim < 1 || dim > 3 {
		return nil, newErr(ErrInvalidConfiguration, "BoxGrid: dim must be 1, 2 or 3; got %d", dim)
	}
	if len(domain) != 2*dim {
		return nil, newErr(ErrInvalidConfiguration, "BoxGrid: domain must have %d entries (min,max per axis); got %d", 2*dim, len(domain))
	}
	if boxWidth <= 0 {
		return nil, newErr(ErrInvalidConfiguration, "BoxGrid: boxWidth must be positive; got %v", boxWidth)
	}
	for i := 0; i < dim; i++ {
		if domain[2*i+1] <= domain[2*i] {
			return nil, newErr(ErrInvalidConfiguration, "BoxGrid: domain axis %d has max <= min (%v <= %v)", i, domain[2*i+1], domain[2*i])
		}
	}
	if periodicInX {
		if dim != 2 {
			return nil, newErr(ErrInvalidConfiguration, "BoxGrid: periodicInX requires dim==2; got dim=%d", dim)
		}
		if pg.Size() != 1 {
			return nil, newErr(ErrInvalidConfiguration, "BoxGrid: periodicInX is only supported on a single rank; got %d ranks", pg.Size())
		}
	}

	dom := make([]float64, len(domain))
	copy(dom, domain)

	// Step 1: swell each axis up to the next exact multiple of boxWidth, so
	// that the box lattice tiles the domain without a ragged last box.
	for i := 0; i < dim; i++ {
		width := dom[2*i+1] - dom[2*i]
		r := math.Mod(width, boxWidth)
		if r > 0.0 {
			dom[2*i+1] += boxWidth - r
		}
	}

	// Step 2: compute numBoxes per axis by scanning forward from the swollen
	// minimum, using the same fudge tolerance CalculateContainingBox will
	// later use, so the two never disagree about how many boxes an axis has.
	numBoxes := make([]int, dim)
	for i := 0; i < dim; i++ {
		count := 0
		x := dom[2*i]
		for x+fudge < dom[2*i+1] {
			count++
			x += boxWidth
		}
		numBoxes[i] = count
	}

	// Step 3: if the last axis has fewer boxes than ranks, swell it further
	// so every rank owns at least one row.
	n := pg.Size()
	if numBoxes[dim-1] < n {
		extra := n - numBoxes[dim-1]
		dom[2*dim-1] += float64(extra) * boxWidth
		numBoxes[dim-1] = n
	}

	bpf := 1
	for i := 0; i < dim-1; i++ {
		bpf *= numBoxes[i]
	}

	// Step 4: partition the last axis into contiguous row ranges.
	lo, hi, err := NewRowPartitioner(pg, numBoxes[dim-1], requestedLocalRows)
	if err != nil {
		return nil, chk.Err("BoxGrid: row partitioning failed:\n%v", err)
	}

	o := &BoxGrid{
		dim:            dim,
		boxWidth:       boxWidth,
		domain:         dom,
		numBoxes:       numBoxes,
		periodicInX:    periodicInX,
		pg:             pg,
		loRow:          lo,
		hiRow:          hi,
		bpf:            bpf,
		minBoxIndex:    lo * bpf,
		maxBoxIndex:    hi * bpf,
		localBoxes:     make(map[int]*Box),
		haloBoxes:      make(map[int]*Box),
		haloLeftRow:    -1,
		haloRightRow:   -1,
		topo:           newTopology(dim),
		calcNeighbours: true,
	}

	// Step 5: allocate the local boxes this rank owns.
	for g := o.minBoxIndex; g < o.maxBoxIndex; g++ {
		o.localBoxes[g] = newBox()
	}

	if lo > 0 {
		o.haloLeftRow = lo - 1
	}
	if hi < numBoxes[dim-1] {
		o.haloRightRow = hi
	}

	return o, nil
}

// Dim returns the grid's spatial dimension.
func (o *BoxGrid) Dim() int { return o.dim }

// BoxWidth returns the common box side length.
func (o *BoxGrid) BoxWidth() float64 { return o.boxWidth }

// NumBoxes returns a copy of the per-axis box counts (after any construction
// swelling).
func (o *BoxGrid) NumBoxes() []int {
	out := make([]int, len(o.numBoxes))
	copy(out, o.numBoxes)
	return out
}

// Domain returns a copy of the (possibly swollen) domain bounds.
func (o *BoxGrid) Domain() []float64 {
	out := make([]float64, len(o.domain))
	copy(out, o.domain)
	return out
}

// TotalNumBoxes returns the total number of boxes in the lattice.
func (o *BoxGrid) TotalNumBoxes() int {
	total := 1
	for _, n := range o.numBoxes {
		total *= n
	}
	return total
}

// NumLocalRows returns the number of rows along the last axis this rank
// owns.
func (o *BoxGrid) NumLocalRows() int { return o.hiRow - o.loRow }

// NumLocalBoxes returns the number of boxes this rank owns.
func (o *BoxGrid) NumLocalBoxes() int { return len(o.localBoxes) }

// LocalRowRange returns the half-open [lo,hi) row range this rank owns
// along the last axis.
func (o *BoxGrid) LocalRowRange() (lo, hi int) { return o.loRow, o.hiRow }

// GlobalIndexFromCoords maps per-axis box coordinates to a single global box
// index using mixed-radix packing: g = c0 + c1*N0 + c2*N0*N1.
func (o *BoxGrid) GlobalIndexFromCoords(coords []int) int {
	g := 0
	stride := 1
	for i := 0; i < o.dim; i++ {
		g += coords[i] * stride
		stride *= o.numBoxes[i]
	}
	return g
}

// CoordsFromGlobalIndex is the inverse of GlobalIndexFromCoords.
func (o *BoxGrid) CoordsFromGlobalIndex(g int) []int {
	coords := make([]int, o.dim)
	for i := 0; i < o.dim; i++ {
		coords[i] = g % o.numBoxes[i]
		g /= o.numBoxes[i]
	}
	return coords
}

// CalculateContainingBox returns the global index of the box containing
// loc, or an OutOfDomain error if loc lies outside the (swollen) domain.
func (o *BoxGrid) CalculateContainingBox(loc []float64) (int, error) {
	if len(loc) != o.dim {
		return 0, newErr(ErrInvalidConfiguration, "CalculateContainingBox: location has %d coords, grid is %d-dimensional", len(loc), o.dim)
	}
	coords := make([]int, o.dim)
	for i := 0; i < o.dim; i++ {
		if loc[i]+fudge < o.domain[2*i] || loc[i] > o.domain[2*i+1]+fudge {
			return 0, newErr(ErrOutOfDomain, "CalculateContainingBox: coordinate %d (%v) lies outside domain [%v,%v]", i, loc[i], o.domain[2*i], o.domain[2*i+1])
		}
		idx := 0
		x := o.domain[2*i]
		for !(x+o.boxWidth > loc[i]+fudge) {
			idx++
			x += o.boxWidth
			if idx >= o.numBoxes[i] {
				return 0, newErr(ErrOutOfDomain, "CalculateContainingBox: coordinate %d (%v) scanned past the last box on that axis", i, loc[i])
			}
		}
		coords[i] = idx
	}
	return o.GlobalIndexFromCoords(coords), nil
}

// OwnsBox reports whether this rank owns box g outright.
func (o *BoxGrid) OwnsBox(g int) bool {
	return g >= o.minBoxIndex && g < o.maxBoxIndex
}

// OwnsHaloBox reports whether g is one of this rank's mirrored halo boxes.
func (o *BoxGrid) OwnsHaloBox(g int) bool {
	_, ok := o.haloBoxes[g]
	return ok
}

// IsInteriorBox reports whether box g is owned by this rank and is not
// adjacent to a rank boundary along the last axis (i.e. neither its row nor
// the rows immediately either side leave this rank's row range). In
// single-process mode there is no rank boundary to be adjacent to, so every
// owned box is interior, mirroring PetscTools::IsSequential() in the
// original's IsInteriorBox.
func (o *BoxGrid) IsInteriorBox(g int) bool {
	if !o.OwnsBox(g) {
		return false
	}
	if o.pg.Size() == 1 {
		return true
	}
	row := g / o.bpf
	return row > o.loRow && row < o.hiRow-1
}

// Box returns the local box at global index g. g must be owned by this
// rank; see OwnsBox.
func (o *BoxGrid) Box(g int) (*Box, error) {
	b, ok := o.localBoxes[g]
	if !ok {
		return nil, newErr(ErrNotOwned, "Box: global index %d is not owned by rank %d", g, o.pg.Rank())
	}
	return b, nil
}

// HaloBox returns the mirrored halo box at global index g. g must be one of
// this rank's halo boxes; see OwnsHaloBox.
func (o *BoxGrid) HaloBox(g int) (*Box, error) {
	b, ok := o.haloBoxes[g]
	if !ok {
		return nil, newErr(ErrNotOwned, "HaloBox: global index %d is not a halo box of rank %d", g, o.pg.Rank())
	}
	return b, nil
}

// EmptyBoxes clears the point sets of every local and halo box, leaving
// element buckets untouched. Called before re-populating boxes from a new
// point-position snapshot.
func (o *BoxGrid) EmptyBoxes() {
	for _, b := range o.localBoxes {
		b.ClearPoints()
	}
	for _, b := range o.haloBoxes {
		b.ClearPoints()
	}
}

// OwningRank returns the rank that owns the row containing loc, without
// requiring loc to be local to this rank. Every rank can compute this
// locally since box-to-row and row-to-rank are both pure functions of the
// (replicated) numBoxes/partition state.
func (o *BoxGrid) OwningRank(loc []float64) (int, error) {
	g, err := o.CalculateContainingBox(loc)
	if err != nil {
		return 0, err
	}
	row := g / o.bpf
	return o.rankOwningRow(row), nil
}

// OwnsPoint reports whether loc falls in a box owned by this rank.
func (o *BoxGrid) OwnsPoint(loc []float64) (bool, error) {
	g, err := o.CalculateContainingBox(loc)
	if err != nil {
		return false, err
	}
	return o.OwnsBox(g), nil
}

// rankOwningRow inverts the closed-form auto partition to find which rank
// owns a given row, used only by OwningRank's non-local query path. It
// assumes the AutoLocalRows split (the only split multiple ranks can agree
// on without communication).
func (o *BoxGrid) rankOwningRow(row int) int {
	n := o.pg.Size()
	total := o.numBoxes[o.dim-1]
	base := total / n
	rem := total % n
	boundary := rem * (base + 1)
	if row < boundary {
		return row / (base + 1)
	}
	return rem + (row-boundary)/base
}

// SetCalculateNeighbours toggles whether AddPairsFromBox should populate the
// point-to-neighbor-set map alongside the pair list; disabling it saves memory
// when only the pair stream itself is needed.
func (o *BoxGrid) SetCalculateNeighbours(v bool) { o.calcNeighbours = v }
