/*
NAME
  warp.go

DESCRIPTION
  warp.go implements the per-plane inverse geometric warp: for every
  destination pixel, undo the estimated camera motion and lens distortion
  to find the matching source sample, then interpolate it (component C12
  of the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package warp renders a geometrically stabilized frame from a source
// frame and an estimated camera transform.
package warp

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/lens"
	"github.com/ausocean/gimbal/transform"
)

// ErrDimensionMismatch is returned when dst and src don't share Info.
var ErrDimensionMismatch = errors.New("warp: dst and src must share Info")

// Warp renders src into dst under the camera motion r and lens model m,
// following cfg's interpolator and border policy. history is the
// previously warped frame; it is consulted for CropKeep and ignored
// (safe to pass nil) otherwise.
//
// The zero transform short-circuits to a bytewise plane copy (spec.md §8
// property 4), skipping both the lens model and the interpolator
// entirely.
func Warp(dst, src *frame.Frame, r transform.Record, m lens.Model, cfg config.Config, history *frame.Frame) error {
	if dst.Info != src.Info {
		return ErrDimensionMismatch
	}
	if r.IsIdentity() {
		return frame.Copy(dst, src)
	}

	prep := transform.Prepare(r, src.Info.Width, src.Info.Height)
	fullW := src.Info.Width

	for p := 0; p < src.PlaneCount(); p++ {
		srcBuf, srcStride, w, h := src.Plane(p)
		dstBuf, dstStride, _, _ := dst.Plane(p)
		var histBuf []byte
		var histStride int
		if cfg.Crop == config.CropKeep && history != nil && p < history.PlaneCount() {
			histBuf, histStride, _, _ = history.Plane(p)
		}

		ratio := float64(w) / float64(fullW)
		def := defaultValue(src.Info, p)

		warpPlane(planeArgs{
			dstBuf: dstBuf, dstStride: dstStride,
			srcBuf: srcBuf, srcStride: srcStride,
			w: w, h: h,
			histBuf: histBuf, histStride: histStride,
			def:     def,
			crop:    cfg.Crop,
			prep:    prep,
			lens:    m,
			ratio:   ratio,
			interp:  cfg.Interpol,
		})
	}
	return nil
}

// defaultValue returns the byte a warp samples when the source coordinate
// falls outside the frame and border-keep mode isn't in play: black (0)
// for luma/full-resolution planes, neutral grey (0x80) for chroma planes.
func defaultValue(info frame.Info, plane int) byte {
	if info.IsPacked() || info.PlaneCount() == 1 {
		return 0
	}
	if plane == 1 || plane == 2 {
		return 0x80
	}
	return 0
}

// planeArgs bundles one plane's warp inputs so warpPlane and its
// per-row workers share a single read-only value.
type planeArgs struct {
	dstBuf, srcBuf, histBuf           []byte
	dstStride, srcStride, histStride  int
	w, h                              int
	def                               byte
	crop                              config.Crop
	prep                              transform.Prepared
	lens                              lens.Model
	ratio                             float64
	interp                            config.Interpol
}

// warpPlane dispatches one row of workers per available CPU, following
// filter/basic.go's per-row-goroutine shape but scaling the worker count
// to runtime.NumCPU instead of a fixed stride.
func warpPlane(a planeArgs) {
	workers := runtime.NumCPU()
	if workers > a.h {
		workers = a.h
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	rowsPerWorker := (a.h + workers - 1) / workers
	for wi := 0; wi < workers; wi++ {
		y0 := wi * rowsPerWorker
		y1 := y0 + rowsPerWorker
		if y1 > a.h {
			y1 = a.h
		}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				warpRow(a, y)
			}
		}(y0, y1)
	}
	wg.Wait()
}

// warpRow fills one destination row by inverse-mapping each pixel back
// through the camera transform and lens model.
func warpRow(a planeArgs, y int) {
	for x := 0; x < a.w; x++ {
		src := inverseMap(geom.VecF{X: float64(x), Y: float64(y)}, a.prep, a.lens, a.ratio)
		v, ok := sample(a.srcBuf, a.srcStride, a.w, a.h, src, a.interp)
		if !ok {
			if a.crop == config.CropKeep && a.histBuf != nil {
				v = a.histBuf[y*a.histStride+x]
			} else {
				v = a.def
			}
		}
		a.dstBuf[y*a.dstStride+x] = v
	}
}

// inverseMap implements spec.md §4.12's destination-to-source mapping:
// linearize the destination coordinate through the inverse lens model,
// undo the estimated rotation/zoom about the frame center, add the
// estimated translation, then re-apply the lens model's forward
// distortion to land on the source frame's raw sampling coordinate.
func inverseMap(dst geom.VecF, prep transform.Prepared, m lens.Model, ratio float64) geom.VecF {
	lin, _ := m.From(dst, ratio)

	d := lin.Sub(geom.VecF{X: prep.Cx, Y: prep.Cy})
	zscale2 := prep.CosZ*prep.CosZ + prep.SinZ*prep.SinZ
	rotated := geom.VecF{
		X: prep.Cx + (prep.CosZ*d.X+prep.SinZ*d.Y)/zscale2,
		Y: prep.Cy + (-prep.SinZ*d.X+prep.CosZ*d.Y)/zscale2,
	}

	translated := rotated.Add(geom.VecF{X: prep.Tx, Y: prep.Ty})
	return m.To(translated, ratio)
}
