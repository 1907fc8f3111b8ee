/*
NAME
  detector.go

DESCRIPTION
  detector.go implements the canonical multi-timescale detector: per-frame
  pyramid rotation across five reference layers (FAST, SLOW_A, SLOW_B,
  STATIC_A, STATIC_B), contrast-gated block matching at the smallest
  pyramid level, outlier fusion, and coarse-to-fine refinement back to
  level 0 (component C8 of the stabilization core).

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

	"github.com/pkg/errors"

	"github.com/ausocean/gimbal/blockmatch"
	"github.com/ausocean/gimbal/blur"
	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/contrast"
	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/grid"
)

// ErrInvariantViolated is a fatal, debug-assertion-style error (spec.md
// §7) for states that should be unreachable if the detector's invariants
// hold.
var ErrInvariantViolated = errors.New("detect: internal invariant violated")

// slowRefreshPeriod and slowRefreshPhase give SLOW_B's offset from SLOW_A.
const (
	slowRefreshPeriod   = 15
	slowRefreshPhase    = 7
	staticRefreshPeriod = 60
	staticRefreshPhase  = 30
)

// blurKernel is the fixed box-blur kernel size applied ahead of pyramid
// construction, per spec.md's system overview (C4 feeds C8).
const blurKernel = 3

// minValidNeighbours is the number of valid same-layer neighbour
// directions, out of up to 8, below which a cell is considered to have
// too few surroundings to estimate from (spec.md leaves this exact count
// to the implementation; see DESIGN.md Open Questions).
const minValidNeighbours = 2

// Detector runs the canonical multi-timescale motion detector over a
// stream of frames, producing per-frame local motion vectors organized
// over C5's cell grid.
type Detector struct {
	cfg    config.Config
	info   frame.Info
	grid   *grid.Grid
	levels int

	fast, slowA, slowB, staticA, staticB *frame.Pyramid

	frameIdx int
}

// New builds a Detector for frames matching info, configured by cfg. The
// detection grid is derived once, here, from the smallest level of a
// throwaway pyramid sized for info.
func New(cfg config.Config, info frame.Info) (*Detector, error) {
	probe, err := frame.NewPyramid(info)
	if err != nil {
		return nil, errors.Wrap(err, "detect: failed building probe pyramid")
	}
	sw, sh := probe.Smallest().Info.Width, probe.Smallest().Info.Height
	g := grid.New(sw, sh, probe.NumLevels())

	return &Detector{
		cfg:    cfg,
		info:   info,
		grid:   g,
		levels: probe.NumLevels(),
	}, nil
}

// Grid returns the detector's cell grid, primarily for inspection in
// tests and the debug overlay.
func (d *Detector) Grid() *grid.Grid { return d.grid }

// FrameIndex returns the index of the next frame Detect will process.
func (d *Detector) FrameIndex() int { return d.frameIdx }

// Detect processes one incoming frame, advancing pyramids, selecting
// contrast, matching and fusing motion across all five layers, and
// returns the resulting LocalMotion list (legacy-format view of the FAST
// layer: one entry per cell, with Quality set to Reject for every cell
// whose FAST Direction is not valid).
//
// Allocation failure is fatal per spec.md §4.13. A frame whose contrast
// pass rejects every cell logs a warning and yields a list whose entries
// are all marked Reject, but the detector continues.
func (d *Detector) Detect(src *frame.Frame) ([]LocalMotion, error) {
	blurred, err := frame.Allocate(src.Info)
	if err != nil {
		return nil, errors.Wrap(err, "detect: allocation failed")
	}
	if err := blur.Blur(blurred, src, blurKernel, blur.NoColor); err != nil {
		return nil, errors.Wrap(err, "detect: blur failed")
	}

	cur, err := frame.NewPyramid(d.info)
	if err != nil {
		return nil, errors.Wrap(err, "detect: pyramid allocation failed")
	}
	if err := cur.Build(blurred); err != nil {
		return nil, errors.Wrap(err, "detect: pyramid build failed")
	}

	t := d.frameIdx
	contrast.Select(cur.Smallest(), d.grid, grid.CellSize, t)

	if d.fast == nil {
		// First frame: every layer's reference is itself; there is
		// nothing to match against yet.
		d.fast, d.slowA, d.slowB, d.staticA, d.staticB = cur, cur, cur, cur, cur
		d.frameIdx++
		return d.localMotions(t), nil
	}

	if allLowContrast(d.grid) {
		if d.cfg.Logger != nil {
			d.cfg.Logger.Warning("detect: every cell rejected for low contrast this frame")
		}
	} else {
		d.matchAllLayers(cur, t)
		fuse(d.grid, t)
		d.refineAllLayers(cur, t)
	}

	d.rotate(cur, t)
	d.frameIdx++
	return d.localMotions(t), nil
}

// allLowContrast reports whether every cell in g carries FlagContrast.
func allLowContrast(g *grid.Grid) bool {
	for _, c := range g.Cells {
		if c.Dirs[grid.LayerFast].Flags&grid.FlagContrast == 0 {
			return false
		}
	}
	return true
}

// layerRef returns the reference pyramid for layer l.
func (d *Detector) layerRef(l grid.Layer) *frame.Pyramid {
	switch l {
	case grid.LayerFast:
		return d.fast
	case grid.LayerSlowA:
		return d.slowA
	case grid.LayerSlowB:
		return d.slowB
	case grid.LayerStaticA:
		return d.staticA
	case grid.LayerStaticB:
		return d.staticB
	default:
		return nil
	}
}

// matchAllLayers runs coarse block matching at the smallest pyramid level
// for every cell and every of the 5 layers, in parallel across cells per
// spec.md §4.8's threading model, recording results into each Direction's
// slot at frame index t.
func (d *Detector) matchAllLayers(cur *frame.Pyramid, t int) {
	scale := 1 << uint(d.levels-1)
	radius := d.cfg.SearchRadius() / scale
	if radius < 1 {
		radius = 1
	}
	bound := geom.Rect{Min: geom.Vec{X: -radius, Y: -radius}, Max: geom.Vec{X: radius + 1, Y: radius + 1}}

	curSmall := cur.Smallest()

	var wg sync.WaitGroup
	for i := range d.grid.Cells {
		wg.Add(1)
		go func(c *grid.Cell) {
			defer wg.Done()
			center := geom.Vec{X: c.Position.X / scale, Y: c.Position.Y / scale}
			for l := grid.Layer(0); int(l) < grid.NumLayers; l++ {
				dir := c.Dir(l)
				if dir.Flags&grid.FlagContrast != 0 {
					continue
				}
				ref := d.layerRef(l)
				if ref == nil {
					continue
				}
				it := geom.NewSpiralIter(bound)
				res := blockmatch.Search(curSmall, ref.Smallest(), center, grid.CellSize, it)
				slot := dir.Slot(t)
				if res.Quality == blockmatch.Reject {
					continue
				}
				slot.Measured = geom.VecF{
					X: float64(res.Offset.X * scale),
					Y: float64(res.Offset.Y * scale),
				}
			}
		}(&d.grid.Cells[i])
	}
	wg.Wait()
}

// refineAllLayers walks each still-valid Direction's measurement from the
// smallest pyramid level back to level 0, restricting the search at each
// level to a small window centered on the up-scaled previous best
// (spec.md §4.8 step 5). This runs in parallel across cells.
func (d *Detector) refineAllLayers(cur *frame.Pyramid, t int) {
	var wg sync.WaitGroup
	for i := range d.grid.Cells {
		wg.Add(1)
		go func(c *grid.Cell) {
			defer wg.Done()
			for l := grid.Layer(0); int(l) < grid.NumLayers; l++ {
				dir := c.Dir(l)
				if !dir.Valid() {
					continue
				}
				ref := d.layerRef(l)
				if ref == nil {
					continue
				}
				slot := dir.Slot(t)
				refineOne(cur, ref, c, l, slot, d.levels)
			}
		}(&d.grid.Cells[i])
	}
	wg.Wait()
}

// refineOne performs the coarse-to-fine refinement for a single cell and
// layer, updating slot.Measured in place with the level-0-pixel result.
func refineOne(cur, ref *frame.Pyramid, c *grid.Cell, l grid.Layer, slot *grid.HistorySlot, levels int) {
	scale := 1 << uint(levels-1)
	best := geom.Vec{X: int(slot.Measured.X) / scale, Y: int(slot.Measured.Y) / scale}

	for level := levels - 2; level >= 0; level-- {
		scale = 1 << uint(level)
		center := geom.Vec{X: c.Position.X / scale, Y: c.Position.Y / scale}
		prevScaled := best.Scale(2)

		var bound geom.Rect
		if l == grid.LayerFast {
			bound = geom.Rect{
				Min: geom.Vec{X: prevScaled.X - 1, Y: prevScaled.Y - 1},
				Max: geom.Vec{X: prevScaled.X + 2, Y: prevScaled.Y + 2},
			}
		} else {
			const r = 2
			bound = geom.Rect{
				Min: geom.Vec{X: prevScaled.X - r, Y: prevScaled.Y - r},
				Max: geom.Vec{X: prevScaled.X + r + 1, Y: prevScaled.Y + r + 1},
			}
		}

		curLvl := cur.Level(level)
		refLvl := ref.Level(level)
		if curLvl == nil || refLvl == nil {
			continue
		}

		it := geom.NewSpiralIter(geom.Rect{
			Min: geom.Vec{X: bound.Min.X - prevScaled.X, Y: bound.Min.Y - prevScaled.Y},
			Max: geom.Vec{X: bound.Max.X - prevScaled.X, Y: bound.Max.Y - prevScaled.Y},
		})
		res := blockmatch.Search(curLvl, refLvl, center, grid.CellSize, &offsetAt{base: prevScaled, it: it})
		if res.Quality != blockmatch.Reject {
			best = res.Offset
		} else {
			best = prevScaled
		}
	}
	slot.Measured = geom.VecF{X: float64(best.X), Y: float64(best.Y)}
}

// offsetAt shifts a spiral iterator's output by a base vector, so the
// search can be expressed as a spiral centered on base rather than on the
// origin.
type offsetAt struct {
	base geom.Vec
	it   *geom.SpiralIter
}

func (o *offsetAt) Next() (geom.Vec, bool) {
	v, ok := o.it.Next()
	if !ok {
		return geom.Vec{}, false
	}
	return o.base.Add(v), true
}

// rotate updates the five reference pyramids per spec.md §4.8 step 1:
// FAST always advances to this frame; SLOW_A/SLOW_B/STATIC_A/STATIC_B
// advance only on their respective periods and phases.
func (d *Detector) rotate(cur *frame.Pyramid, t int) {
	d.fast = cur
	if t%slowRefreshPeriod == 0 {
		d.slowA = cur
	}
	if (t+slowRefreshPhase)%slowRefreshPeriod == 0 {
		d.slowB = cur
	}
	if t%staticRefreshPeriod == 0 {
		d.staticA = cur
	}
	if (t+staticRefreshPhase)%staticRefreshPeriod == 0 {
		d.staticB = cur
	}
}

// localMotions builds the legacy-format view of frame t: one LocalMotion
// per cell, with Quality Reject where the FAST Direction is not valid.
func (d *Detector) localMotions(t int) []LocalMotion {
	var out []LocalMotion
	for i := range d.grid.Cells {
		c := &d.grid.Cells[i]
		dir := c.Dir(grid.LayerFast)
		slot := dir.Slot(t)
		quality := Reject
		if dir.Valid() {
			quality = 0
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
