/*
NAME
  cell.go

DESCRIPTION
  cell.go defines the Cell, Direction and history types that the motion
  detector estimates per grid position (component C5's data model, also
  shared by C8/C9).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package grid tessellates a frame into a fixed set of detection cells and
// carries the per-cell, per-layer motion history the detector and outlier
// filter read and write.
package grid

import "github.com/ausocean/gimbal/geom"

// HistoryLen is N, the number of frames of history kept per Direction,
// indexed circularly by frame index mod HistoryLen.
const HistoryLen = 8

// Layer identifies one of the five filter layers a Direction tracks a
// motion estimate for. This is also the fixed order the serializer writes
// direction records in (spec.md §6).
type Layer int

const (
	LayerFast Layer = iota
	LayerSlowA
	LayerSlowB
	LayerStaticA
	LayerStaticB
	numLayers
)

// NumLayers is the number of filter layers a Direction tracks (5).
const NumLayers = int(numLayers)

// Flag is a bit in a Direction's validity bitmask.
type Flag uint16

const (
	// FlagContrast marks a cell whose local texture was too low to trust.
	FlagContrast Flag = 1 << iota
	// FlagSurroundings marks a cell with too few valid neighbours to
	// estimate from.
	FlagSurroundings
	// FlagEstiDev marks a cell whose measurement deviated too far from
	// its neighbourhood+history estimate.
	FlagEstiDev
)

// HistorySlot holds one frame's worth of motion data for a Direction.
type HistorySlot struct {
	Measured  geom.VecF // raw block-matcher measurement
	Estimated geom.VecF // estimate from neighbours + history
	Fused     geom.VecF // outlier-filter fused value
	Contrast  float64   // contrast weight (qfContrast)
	Dist      float64   // nearest-neighbour distance used during estimation
}

// Direction is a per-cell, per-filter-layer record carrying HistoryLen
// frames of motion history and a validity bitmask. A Direction is valid
// iff its bitmask is empty.
type Direction struct {
	History [HistoryLen]HistorySlot
	Flags   Flag
}

// Valid reports whether d carries no validity flags.
func (d Direction) Valid() bool { return d.Flags == 0 }

// Slot returns the history slot for frame index t, per the circular
// indexing t mod HistoryLen.
func (d *Direction) Slot(t int) *HistorySlot {
	return &d.History[((t%HistoryLen)+HistoryLen)%HistoryLen]
}

// Cell is a detection unit at a fixed pixel position.
type Cell struct {
	Position geom.Vec       // center, in level-0 coordinates
	Size     int            // side length, in level-0 pixels
	Idx      geom.Vec       // grid coordinates
	Dirs     [numLayers]Direction
}

// Dir returns the Direction for layer l.
func (c *Cell) Dir(l Layer) *Direction { return &c.Dirs[l] }

// AnyValid reports whether at least one of c's layers is currently valid;
// the serializer (C10) only emits cells for which this holds.
func (c *Cell) AnyValid() bool {
	for _, d := range c.Dirs {
		if d.Valid() {
			return true
		}
	}
	return false
}
