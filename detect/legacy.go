/*
NAME
  legacy.go

DESCRIPTION
  legacy.go implements the non-canonical single-pass detector front-end: a
  single reference frame, one coarse pass at step-size granularity
  followed by one fine pass at full resolution, with no multi-layer
  fusion. It shares the C7 block matcher and C5 grid with the canonical
  multi-timescale Detector and is grounded on
  original_source/src/motiondetect.cpp's vsMotionDetection, per
  SPEC_FULL.md's domain-stack supplement.

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

	"github.com/ausocean/gimbal/blockmatch"
	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/contrast"
	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/grid"
)

// legacyCoarseStep is the coarse-pass step, in level-0 pixels, used when
// cfg.StepSize is below 1.
const legacyCoarseStep = 2

// LegacyDetector runs the non-canonical single-pass front-end: it keeps a
// single previous-frame reference and does not fuse across multiple
// filter layers, unlike Detector. It is intended for callers that want
// the original tool's simpler (and cheaper) matching behaviour.
type LegacyDetector struct {
	cfg  config.Config
	info frame.Info
	grid *grid.Grid

	ref      *frame.Frame
	frameIdx int
}

// NewLegacy builds a LegacyDetector for frames matching info. Unlike
// Detector, it works directly at level-0 resolution, so its grid is built
// with a single pyramid level.
func NewLegacy(cfg config.Config, info frame.Info) (*LegacyDetector, error) {
	g := grid.New(info.Width, info.Height, 1)
	return &LegacyDetector{cfg: cfg, info: info, grid: g}, nil
}

// Grid returns the detector's cell grid.
func (d *LegacyDetector) Grid() *grid.Grid { return d.grid }

// Detect processes one incoming frame against the single stored
// reference, doing a coarse pass at cfg.StepSize granularity followed by a
// fine pass over +/-(StepSize-1) pixels around the coarse best, and
// returns a LocalMotion per cell.
func (d *LegacyDetector) Detect(src *frame.Frame) ([]LocalMotion, error) {
	t := d.frameIdx
	contrast.Select(src, d.grid, grid.CellSize, t)

	if d.ref == nil {
		d.ref = src
		d.frameIdx++
		return d.localMotions(t), nil
	}

	d.matchAll(src, t)
	d.ref = src
	d.frameIdx++
	return d.localMotions(t), nil
}

// matchAll runs the coarse-then-fine match for every non-contrast-rejected
// cell, in parallel across cells.
func (d *LegacyDetector) matchAll(cur *frame.Frame, t int) {
	radius := d.cfg.SearchRadius()
	if radius < 1 {
		radius = 1
	}
	step := d.cfg.StepSize
	if step < 1 {
		step = legacyCoarseStep
	}

	var wg sync.WaitGroup
	for i := range d.grid.Cells {
		wg.Add(1)
		go func(c *grid.Cell) {
			defer wg.Done()
			dir := c.Dir(grid.LayerFast)
			if dir.Flags&grid.FlagContrast != 0 {
				return
			}

			coarse := geom.Rect{
				Min: geom.Vec{X: -radius, Y: -radius},
				Max: geom.Vec{X: radius + step, Y: radius + step},
			}
			res := blockmatch.Search(cur, d.ref, c.Position, c.Size, geom.NewStepIter(coarse, step))
			if res.Quality == blockmatch.Reject {
				return
			}

			fine := geom.Rect{
				Min: geom.Vec{X: res.Offset.X - (step - 1), Y: res.Offset.Y - (step - 1)},
				Max: geom.Vec{X: res.Offset.X + step, Y: res.Offset.Y + step},
			}
			fineRes := blockmatch.Search(cur, d.ref, c.Position, c.Size, geom.NewRectIter(fine))
			if fineRes.Quality == blockmatch.Reject {
				fineRes = res
			}

			slot := dir.Slot(t)
			slot.Measured = fineRes.Offset.F()
			slot.Fused = fineRes.Offset.F()
		}(&d.grid.Cells[i])
	}
	wg.Wait()
}

// localMotions builds the LocalMotion list for frame t.
func (d *LegacyDetector) localMotions(t int) []LocalMotion {
	out := make([]LocalMotion, 0, len(d.grid.Cells))
	for i := range d.grid.Cells {
		c := &d.grid.Cells[i]
		dir := c.Dir(grid.LayerFast)
		slot := dir.Slot(t)
		quality := 0
		if dir.Flags&grid.FlagContrast != 0 {
			quality = Reject
		}
		out = append(out, LocalMotion{
			Position: c.Position,
			Size:     c.Size,
			Vector:   slot.Fused,
			Contrast: slot.Contrast,
			Quality:  quality,
		})
	}
	return out
}
