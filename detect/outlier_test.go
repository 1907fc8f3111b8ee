/*
NAME
  outlier_test.go

DESCRIPTION
  outlier_test.go tests the Kalman-style outlier filter's fusion rules and
  the quality-weight formula's deviation-sensitivity property.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package detect

import (
	"testing"

	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/grid"
)

// grid3x3 builds a 3x3 grid of cells with no positional meaning, purely to
// exercise Neighbours/fuseOne's bookkeeping.
func grid3x3() *grid.Grid {
	g := &grid.Grid{Dim: geom.Vec{X: 3, Y: 3}}
	g.Cells = make([]grid.Cell, 9)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.Cells[y*3+x] = grid.Cell{Idx: geom.Vec{X: x, Y: y}}
		}
	}
	return g
}

func TestFuseOneZeroMotionAcceptedAsIs(t *testing.T) {
	g := grid3x3()
	c := &g.Cells[4] // center cell, 8 neighbours
	dir := c.Dir(grid.LayerFast)
	dir.Slot(5).Measured = geom.VecF{X: 0.1, Y: 0} // SqMag == 0.01 < 1

	fuseOne(g, c, grid.LayerFast, 5)

	slot := dir.Slot(5)
	if slot.Fused != slot.Measured {
		t.Errorf("zero-motion case should accept measurement as-is, got Fused=%v Measured=%v", slot.Fused, slot.Measured)
	}
	if dir.Flags&grid.FlagEstiDev != 0 {
		t.Error("zero-motion case should not set FlagEstiDev")
	}
}

func TestFuseOneFlagsSurroundingsWhenTooFewNeighbours(t *testing.T) {
	g := grid3x3()
	c := &g.Cells[0] // corner cell, 3 neighbours
	for _, nb := range g.Neighbours(0, 0) {
		nb.Dir(grid.LayerFast).Flags |= grid.FlagContrast // invalidate every neighbour
	}
	dir := c.Dir(grid.LayerFast)
	dir.Slot(5).Measured = geom.VecF{X: 5, Y: 5}

	fuseOne(g, c, grid.LayerFast, 5)

	if dir.Flags&grid.FlagSurroundings == 0 {
		t.Error("cell with zero valid neighbours should set FlagSurroundings")
	}
}

func TestFuseOneClearsSurroundingsWhenEnoughNeighbours(t *testing.T) {
	g := grid3x3()
	c := &g.Cells[4] // center cell, 8 neighbours, all valid by default
	dir := c.Dir(grid.LayerFast)
	dir.Slot(5).Measured = geom.VecF{X: 1, Y: 1}

	fuseOne(g, c, grid.LayerFast, 5)

	if dir.Flags&grid.FlagSurroundings != 0 {
		t.Error("cell with 8 valid neighbours should not set FlagSurroundings")
	}
}

// TestFuseOneFlagsEstiDevOnWildDeviation checks that a measurement far from
// both its own history and its neighbourhood's history sets FlagEstiDev,
// per the qfEstimated > qfMeasured rule in spec.md §4.9.
func TestFuseOneFlagsEstiDevOnWildDeviation(t *testing.T) {
	g := grid3x3()
	c := &g.Cells[4]
	for _, nb := range g.Neighbours(1, 1) {
		nb.Dir(grid.LayerFast).Slot(4).Fused = geom.VecF{} // neighbourhood history is all zero
	}
	dir := c.Dir(grid.LayerFast)
	dir.Slot(4).Fused = geom.VecF{} // own history is also zero
	dir.Slot(5).Measured = geom.VecF{X: 50, Y: 50}

	fuseOne(g, c, grid.LayerFast, 5)

	if dir.Flags&grid.FlagEstiDev == 0 {
		t.Error("measurement far from a zero neighbourhood+history estimate should set FlagEstiDev")
	}
	// The fused value should be pulled well away from the raw measurement,
	// toward the (near-zero) estimate.
	fused := dir.Slot(5).Fused
	if fused.Mag() > 40 {
		t.Errorf("fused value %v should be pulled toward the estimate, not close to the raw 50,50 measurement", fused)
	}
}

// qfEstimatedFormula mirrors the qfEstimated formula in fuseOne, so this test can check its
// devFactor-monotonicity property without needing to vary the package
// constant at runtime.
func qfEstimatedFormula(dt, ds geom.VecF, devFactor float64) float64 {
	return (dt.SqMag() + 4*ds.SqMag()) * devFactor
}

// TestQfEstimatedMonotonicInDevFactor checks that qfEstimated is
// non-decreasing in devFactor for any fixed deviation: increasing the
// scale factor can only make a cell's estimate-deviation weight larger,
// never smaller, so it can only make FlagEstiDev MORE likely to be set,
// never cause an already-flagged cell to become unflagged.
func TestQfEstimatedMonotonicInDevFactor(t *testing.T) {
	dt := geom.VecF{X: 3, Y: -2}
	ds := geom.VecF{X: 1, Y: 4}

	prev := qfEstimatedFormula(dt, ds, 0)
	for _, f := range []float64{0.5, 1, 2, 4, 8, 16} {
		cur := qfEstimatedFormula(dt, ds, f)
		if cur < prev {
			t.Fatalf("qfEstimated decreased from %v to %v as devFactor increased to %v", prev, cur, f)
		}
		prev = cur
	}
}
