/*
NAME
  serialized.go

DESCRIPTION
  serialized.go converts a transforms file's serialized cell records back
  into LocalMotion measurements and, from those, a per-frame transform,
  so both vs-stabilize and vs-plot share one definition of "which layer
  counts as the per-frame motion measurement" instead of each
  reimplementing the bridge.

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
	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/grid"
	"github.com/ausocean/gimbal/serialize"
	"github.com/ausocean/gimbal/transform"
)

// FromCellRecords converts one frame's serialized cell records into the
// LocalMotion view FitTransform consumes, reading the FAST layer: of the
// five tracked layers it is the one most responsive to genuine
// frame-to-frame camera motion, making it the natural choice for
// per-frame transform fitting (the slower layers exist to stabilize the
// FAST layer's own estimate, not to replace it as a measurement).
func FromCellRecords(cells []serialize.CellRecord) []LocalMotion {
	out := make([]LocalMotion, 0, len(cells))
	for _, c := range cells {
		dir := c.Dirs[grid.LayerFast]
		quality := 0
		if dir.Flags != 0 {
			quality = Reject
		}
		out = append(out, LocalMotion{
			Position: geom.Vec{X: int(c.X), Y: int(c.Y)},
			Vector:   geom.VecF{X: float64(dir.Fused.X), Y: float64(dir.Fused.Y)},
			Contrast: float64(dir.Contrast),
			Quality:  quality,
		})
	}
	return out
}

// FitTransformFromCells is a convenience wrapper combining FromCellRecords
// and FitTransform for callers that only need the fitted transform.
func FitTransformFromCells(cells []serialize.CellRecord, center geom.VecF) transform.Record {
	return FitTransform(FromCellRecords(cells), center)
}
