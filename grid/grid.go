/*
NAME
  grid.go

DESCRIPTION
  grid.go builds the fixed tessellation of a frame into detection cells,
  derived once from the smallest pyramid level at detector construction
  (component C5 of the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package grid

import "github.com/ausocean/gimbal/geom"

// CellSize is s in spec.md §4.5: the side length, in smallest-pyramid-level
// pixels, of a detection cell before scaling up to level-0 pixels.
const CellSize = 8

// Grid is a fixed tessellation of a frame into detection cells, built once
// from the smallest pyramid level's dimensions.
type Grid struct {
	Cells []Cell
	Dim   geom.Vec // grid dimensions, in cells
}

// dim computes floor((D - s/2)/s) - 1, clamped to a minimum of 1, which
// spec.md §4.5 gives as the grid dimension along one axis.
func dim(d, s int) int {
	v := (d-s/2)/s - 1
	if v < 1 {
		v = 1
	}
	return v
}

// New builds a Grid from the smallest pyramid level's pixel dimensions
// (smallW, smallH) and the number of pyramid levels, per spec.md §4.5:
// cell centers in level-0 pixels are ((grid+1)*s + s/2) * 2^(levels-1),
// and cell sizes are s * 2^(levels-1). A smallest level of 32..64 pixels
// gives 2..6 cells per axis; dim(smallW,s)/dim(smallH,s) is clamped to 1
// only for a smaller level (a frame under 32 pixels). In that case the
// formula above could place the cell outside the frame, so centers are
// clamped to keep the cell inside [0,fullW)x[0,fullH).
func New(smallW, smallH, levels int) *Grid {
	gx := dim(smallW, CellSize)
	gy := dim(smallH, CellSize)
	scale := 1 << uint(levels-1)
	cellSize := CellSize * scale
	fullW, fullH := smallW*scale, smallH*scale

	g := &Grid{Dim: geom.Vec{X: gx, Y: gy}}
	g.Cells = make([]Cell, 0, gx*gy)
	for y := 0; y < gy; y++ {
		for x := 0; x < gx; x++ {
			cx := clampCenter(((x+1)*CellSize+CellSize/2)*scale, cellSize, fullW)
			cy := clampCenter(((y+1)*CellSize+CellSize/2)*scale, cellSize, fullH)
			g.Cells = append(g.Cells, Cell{
				Position: geom.Vec{X: cx, Y: cy},
				Size:     cellSize,
				Idx:      geom.Vec{X: x, Y: y},
			})
		}
	}
	return g
}

// clampCenter keeps a cell of the given size centered at c inside [0,full),
// falling back to full/2 if the cell is as large as or larger than full.
func clampCenter(c, size, full int) int {
	if size >= full {
		return full / 2
	}
	half := size / 2
	if c-half < 0 {
		return half
	}
	if c+half > full {
		return full - half
	}
	return c
}

// At returns the cell at grid coordinates (x,y), or nil if out of range.
// Invariant (spec.md §3): a cell's grid index is bijective with its (x,y)
// position in g.Cells, so At is computed directly rather than searched.
func (g *Grid) At(x, y int) *Cell {
	if x < 0 || x >= g.Dim.X || y < 0 || y >= g.Dim.Y {
		return nil
	}
	return &g.Cells[y*g.Dim.X+x]
}

// Neighbours returns the up to 8 cells surrounding the cell at (x,y),
// clipped at the grid border.
func (g *Grid) Neighbours(x, y int) []*Cell {
	var out []*Cell
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c := g.At(x+dx, y+dy); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}
