/*
NAME
  contrast.go

DESCRIPTION
  contrast.go scores each cell's local texture and discards low-contrast
  cells before block matching (component C6 of the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package contrast scores the local texture of each detection cell at the
// smallest pyramid level and flags cells too flat to track reliably.
package contrast

import (
	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/grid"
)

// Threshold is the fixed score below which a cell is marked FlagContrast.
const Threshold = 64

// Select runs at the smallest pyramid level f, scoring every cell in g and
// setting or clearing FlagContrast on every layer of each cell at frame
// index t, per spec.md §4.6. cellSizeAtLevel is the cell's side length
// measured in pixels of f (i.e. grid.CellSize, since g was built from this
// level). The retained weight (score - Threshold) is written into each
// layer's history slot at t so the outlier filter (C9) can read qfContrast.
func Select(f *frame.Frame, g *grid.Grid, cellSizeAtLevel, t int) {
	buf, stride, w, h := f.Plane(0)
	scale := g.Cells[0].Size / cellSizeAtLevelOrOne(cellSizeAtLevel)

	for i := range g.Cells {
		c := &g.Cells[i]
		// Cell centers are stored in level-0 coordinates; map back down
		// to this (smallest) level's coordinates to sample pixels.
		cx := c.Position.X / scale
		cy := c.Position.Y / scale
		sc, ok := score(buf, stride, w, h, cx, cy, cellSizeAtLevel)

		weight := 0.0
		low := !ok || sc < Threshold
		if ok && !low {
			weight = float64(sc - Threshold)
		}
		for l := range c.Dirs {
			d := &c.Dirs[l]
			if low {
				d.Flags |= grid.FlagContrast
			} else {
				d.Flags &^= grid.FlagContrast
			}
			d.Slot(t).Contrast = weight
		}
	}
}

func cellSizeAtLevelOrOne(s int) int {
	if s <= 0 {
		return 1
	}
	return s
}

// score measures local texture as the product of signed horizontal and
// vertical finite differences at every interior pixel of the cell centered
// at (cx,cy) with side length size: accumulate min/max of (p - p_right)
// and (p - p_down); score = |minV*maxV*minH*maxH|.
//
// Returns ok == false if the cell interior falls outside the plane.
func score(buf []byte, stride, w, h, cx, cy, size int) (int, bool) {
	half := size / 2
	x0, y0 := cx-half, cy-half
	x1, y1 := x0+size, y0+size
	if x0 < 0 || y0 < 0 || x1 >= w || y1 >= h {
		return 0, false
	}

	minH, maxH := 1<<30, -(1 << 30)
	minV, maxV := 1<<30, -(1 << 30)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := int(buf[y*stride+x])
			ph := int(buf[y*stride+x+1])
			pv := int(buf[(y+1)*stride+x])
			dh := p - ph
			dv := p - pv
			if dh < minH {
				minH = dh
			}
			if dh > maxH {
				maxH = dh
			}
			if dv < minV {
				minV = dv
			}
			if dv > maxV {
				maxV = dv
			}
		}
	}
	s := minV * maxV * minH * maxH
	if s < 0 {
		s = -s
	}
	return s, true
}
