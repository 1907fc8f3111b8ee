/*
NAME
  outlier.go

DESCRIPTION
  outlier.go implements the Kalman-style outlier filter that fuses each
  cell's raw measurement with a neighbourhood-and-history estimate
  (component C9 of the stabilization core).

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
	"sync"

	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/grid"
)

// devFactor scales the estimated-value quality weight relative to the
// measured-value weight, per spec.md §4.9.
const devFactor = 4.0

// fuse runs the outlier filter over every cell and layer at frame index t,
// in parallel across cells (it only reads neighbour state, per spec.md
// §4.8's threading model).
func fuse(g *grid.Grid, t int) {
	var wg sync.WaitGroup
	for i := range g.Cells {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			c := &g.Cells[idx]
			for l := grid.Layer(0); int(l) < grid.NumLayers; l++ {
				fuseOne(g, c, l, t)
			}
		}(i)
	}
	wg.Wait()
}

// fuseOne applies spec.md §4.9 to a single cell's Direction at layer l,
// frame index t.
func fuseOne(g *grid.Grid, c *grid.Cell, l grid.Layer, t int) {
	dir := c.Dir(l)
	if dir.Flags&grid.FlagContrast != 0 {
		return
	}

	slot := dir.Slot(t)
	v0 := slot.Measured
	v1 := dir.Slot(t - 1).Fused

	va, validNeighbours := neighbourhoodMean(g, c, l, t)
	if validNeighbours < minValidNeighbours {
		dir.Flags |= grid.FlagSurroundings
	} else {
		dir.Flags &^= grid.FlagSurroundings
	}

	if v0.SqMag() < 1 {
		// Zero motion: accept as-is, skipping the fuse.
		slot.Fused = v0
		dir.Flags &^= grid.FlagEstiDev
		slot.Estimated = v0
		slot.Dist = 0
		return
	}

	dt := v0.Sub(v1)
	ds := v0.Sub(va)
	estimated := va.Add(v1).Scale(0.5)

	qfMeasured := 4 * v0.SqMag()
	qfEstimated := (dt.SqMag() + 4*ds.SqMag()) * devFactor

	var fused geom.VecF
	if qfMeasured+qfEstimated == 0 {
		fused = v0
	} else {
		fused = v0.Scale(qfMeasured).Add(estimated.Scale(qfEstimated)).Scale(1 / (qfMeasured + qfEstimated))
	}

	slot.Estimated = estimated
	slot.Fused = fused
	slot.Dist = ds.Mag()

	if qfEstimated > qfMeasured {
		dir.Flags |= grid.FlagEstiDev
	} else {
		dir.Flags &^= grid.FlagEstiDev
	}
}

// neighbourhoodMean averages the fused vectors of all (up to 8) neighbour
// cells' Direction at layer l, clipped at the grid border, valid or not.
// It reads the fused vectors recorded at frame index t-1, not t: fuse
// writes the neighbours' frame-t slots concurrently. It returns the mean
// and the number of neighbours whose Direction carries no flag other than
// FlagSurroundings, so a neighbour's own SURROUNDINGS flag does not keep
// this cell flagged too.
func neighbourhoodMean(g *grid.Grid, c *grid.Cell, l grid.Layer, t int) (geom.VecF, int) {
	neighbours := g.Neighbours(c.Idx.X, c.Idx.Y)
	var sum geom.VecF
	valid := 0
	for _, nb := range neighbours {
		nd := nb.Dir(l)
		if nd.Flags&^grid.FlagSurroundings == 0 {
			valid++
		}
		sum = sum.Add(nd.Slot(t - 1).Fused)
	}
	if len(neighbours) == 0 {
		return geom.VecF{}, 0
	}
	return sum.Scale(1 / float64(len(neighbours))), valid
}
