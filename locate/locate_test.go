// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package locate

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/boxgrid/box"
	"github.com/cpmech/boxgrid/mesh"
	"github.com/cpmech/boxgrid/procgroup"
)

func buildGridOverMesh(tst *testing.T, m mesh.Provider, boxWidth float64) *box.BoxGrid {
	pg := procgroup.NewLocal()
	min, max := m.BoundingBox()
	domain := make([]float64, 2*m.Dim())
	for i := 0; i < m.Dim(); i++ {
		domain[2*i] = min[i] - 0.1
		domain[2*i+1] = max[i] + 0.1
	}
	g, err := box.NewBoxGrid(pg, m.Dim(), boxWidth, domain, false, box.AutoLocalRows)
	if err != nil {
		tst.Fatalf("NewBoxGrid failed: %v", err)
	}
	for e := 0; e < m.NumElements(); e++ {
		elem := m.ElementAt(e)
		seen := make(map[int]struct{})
		for _, v := range elem.Vertices() {
			bidx, err := g.CalculateContainingBox(m.Node(v).Location())
			if err != nil {
				tst.Fatalf("CalculateContainingBox failed: %v", err)
			}
			if _, ok := seen[bidx]; ok {
				continue
			}
			seen[bidx] = struct{}{}
			b, err := g.Box(bidx)
			if err != nil {
				tst.Fatalf("Box failed: %v", err)
			}
			b.AddElement(e)
		}
	}
	if err = g.SetupHalfLocalBoxes(); err != nil {
		tst.Fatalf("SetupHalfLocalBoxes failed: %v", err)
	}
	return g
}

func Test_locate01(tst *testing.T) {

	chk.PrintTitle("locate01: Tier 1 finds an element in its own containing box")

	m, err := mesh.NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	g := buildGridOverMesh(tst, m, 0.5)
	loc := NewLocator(g, m)

	bidx, err := g.CalculateContainingBox([]float64{0.1, 0.1})
	if err != nil {
		tst.Errorf("CalculateContainingBox failed: %v", err)
		return
	}
	hit, err := loc.Locate([]float64{0.1, 0.1}, bidx, true)
	if err != nil {
		tst.Errorf("Locate failed: %v", err)
		return
	}
	chk.IntAssert(hit.ElementIndex, 0)
	if hit.NotInMesh {
		tst.Errorf("expected a genuine in-mesh hit")
	}
	stats := loc.Stats()
	chk.IntAssert(stats.Found, 1)
	chk.IntAssert(stats.ByTier[TierBox], 1)
}

func Test_locate02(tst *testing.T) {

	chk.PrintTitle("locate02: mesh-pair worked example, weights sum to one")

	m, err := mesh.NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	g := buildGridOverMesh(tst, m, 0.5)
	loc := NewLocator(g, m)

	query := []float64{0.25, 0.25}
	bidx, err := g.CalculateContainingBox(query)
	if err != nil {
		tst.Errorf("CalculateContainingBox failed: %v", err)
		return
	}
	hit, err := loc.Locate(query, bidx, true)
	if err != nil {
		tst.Errorf("Locate failed: %v", err)
		return
	}
	chk.IntAssert(hit.ElementIndex, 0)
	chk.Vector(tst, "weights", 1e-12, hit.Weights, []float64{0.5, 0.25, 0.25})
}

func Test_locate03(tst *testing.T) {

	chk.PrintTitle("locate03: a point near a vertex resolves inside the element without the nearest-element fallback")

	m, err := mesh.NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	g := buildGridOverMesh(tst, m, 0.5)
	loc := NewLocator(g, m)

	query := []float64{0.05, 0.05}
	bidx, err := g.CalculateContainingBox(query)
	if err != nil {
		tst.Errorf("CalculateContainingBox failed: %v", err)
		return
	}
	hit, err := loc.Locate(query, bidx, true)
	if err != nil {
		tst.Errorf("Locate failed: %v", err)
		return
	}
	if hit.NotInMesh {
		tst.Errorf("expected (0.05,0.05) to be found inside the triangle, not a fallback")
	}
	chk.IntAssert(hit.ElementIndex, 0)
}

func Test_locate04(tst *testing.T) {

	chk.PrintTitle("locate04: Tier 3's nearest-element fallback is restricted to the stencil, not the whole mesh")

	// element0's vertices land in and around the query point's own box.
	// element1 is a large triangle whose three vertices each fall at least
	// two boxes away from the query's box (so it is never registered in
	// the query's box or its stencil), yet its centroid coincides exactly
	// with the query point -- a whole-mesh nearest search would wrongly
	// prefer it over element0.
	nodes := [][]float64{
		{5, 5}, {6, 5}, {5, 6},
		{8.1, 5.6}, {4.35, 7.765}, {4.35, 3.435},
	}
	elems := [][]int{{0, 1, 2}, {3, 4, 5}}
	m, err := mesh.NewSimplicial(2, nodes, elems)
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}

	pg := procgroup.NewLocal()
	g, err := box.NewBoxGrid(pg, 2, 1.0, []float64{0, 12, 0, 12}, false, box.AutoLocalRows)
	if err != nil {
		tst.Errorf("NewBoxGrid failed: %v", err)
		return
	}
	for e := 0; e < m.NumElements(); e++ {
		elem := m.ElementAt(e)
		seen := make(map[int]struct{})
		for _, v := range elem.Vertices() {
			bidx, err := g.CalculateContainingBox(m.Node(v).Location())
			if err != nil {
				tst.Errorf("CalculateContainingBox failed: %v", err)
				return
			}
			if _, ok := seen[bidx]; ok {
				continue
			}
			seen[bidx] = struct{}{}
			b, err := g.Box(bidx)
			if err != nil {
				tst.Errorf("Box failed: %v", err)
				return
			}
			b.AddElement(e)
		}
	}
	g.SetupAllLocalBoxes()

	loc := NewLocator(g, m)
	query := []float64{5.6, 5.6}
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
	if !hit.NotInMesh {
		tst.Errorf("expected a Tier-3 fallback hit (the query point falls in a registration gap of both elements)")
	}
	chk.IntAssert(hit.ElementIndex, 0)
	chk.IntAssert(loc.Stats().ByTier[TierNotFound], 1)
}
