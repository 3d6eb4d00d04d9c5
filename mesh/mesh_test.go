// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
)

func Test_mesh01(tst *testing.T) {

	chk.PrintTitle("mesh01: single triangle, weights sum to one and are non-negative inside")

	m, err := NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	w := m.ElementAt(0).InterpolationWeights([]float64{0.25, 0.25})
	chk.Vector(tst, "weights", 1e-12, w, []float64{0.5, 0.25, 0.25})
	sum := w[0] + w[1] + w[2]
	chk.Scalar(tst, "sum", 1e-12, sum, 1.0)
}

func Test_mesh02(tst *testing.T) {

	chk.PrintTitle("mesh02: ContainingElement finds the triangle for an interior point, rejects an exterior one")

	m, err := NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	idx, ok := m.ContainingElement([]float64{0.1, 0.1}, nil)
	if !ok {
		tst.Errorf("expected (0.1,0.1) to be found inside element 0")
		return
	}
	chk.IntAssert(idx, 0)

	_, ok = m.ContainingElement([]float64{2, 2}, nil)
	if ok {
		tst.Errorf("expected (2,2) to be outside the mesh")
	}
}

func Test_mesh03(tst *testing.T) {

	chk.PrintTitle("mesh03: bounding box and min/max edge length over two triangles")

	m, err := NewSimplicial(2,
		[][]float64{{0, 0}, {2, 0}, {0, 2}, {2, 2}},
		[][]int{{0, 1, 2}, {1, 3, 2}},
	)
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	min, max := m.BoundingBox()
	chk.Vector(tst, "min", 1e-12, min, []float64{0, 0})
	chk.Vector(tst, "max", 1e-12, max, []float64{2, 2})

	emin, emax := m.MinMaxEdgeLength()
	if emin <= 0 || emax <= 0 {
		tst.Errorf("expected positive edge lengths, got emin=%v emax=%v", emin, emax)
	}
}

func Test_mesh04(tst *testing.T) {

	chk.PrintTitle("mesh04: NearestElement picks the closer of two centroids")

	m, err := NewSimplicial(2,
		[][]float64{{0, 0}, {1, 0}, {0, 1}, {10, 10}, {11, 10}, {10, 11}},
		[][]int{{0, 1, 2}, {3, 4, 5}},
	)
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	idx := m.NearestElement([]float64{0.2, 0.2}, []int{0, 1})
	chk.IntAssert(idx, 0)
	idx = m.NearestElement([]float64{10.2, 10.2}, []int{0, 1})
	chk.IntAssert(idx, 1)
}

func Test_mesh05(tst *testing.T) {

	chk.PrintTitle("mesh05: weight 0 varies linearly in x at fixed y, cross-checked with a central-difference derivative")

	m, err := NewSimplicial(2, [][]float64{{0, 0}, {1, 0}, {0, 1}}, [][]int{{0, 1, 2}})
	if err != nil {
		tst.Errorf("NewSimplicial failed: %v", err)
		return
	}
	elem := m.ElementAt(0)

	w0 := func(x float64, args ...interface{}) (res float64) {
		return elem.InterpolationWeights([]float64{x, 0.1})[0]
	}
	x0 := 0.2
	dnum, _ := num.DerivCentral(w0, x0, 1e-3)
	// weight 0 is 1-x-y along this straight-sided simplex, so d(w0)/dx == -1
	// everywhere; a numerical central difference should agree to a tight
	// tolerance.
	chk.Scalar(tst, "d(w0)/dx", 1e-6, dnum, -1.0)
}
