/*
NAME
  postprocess.go

DESCRIPTION
  postprocess.go applies the corrections shared by every path-smoothing
  mode once a camera path has been produced: optional inversion, shift and
  angle clamping, and required-zoom computation (spec.md §4.11).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package smooth

import (
	"math"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/transform"
)

// PostProcess clamps path to cfg's MaxShift/MaxAngle, then computes and
// applies a per-frame zoom so the warped frame never uncovers a border,
// per the OptZoom mode cfg selects. width and height are the source frame
// dimensions.
func PostProcess(cfg config.Config, width, height int, path []transform.Record) []transform.Record {
	out := make([]transform.Record, len(path))
	copy(out, path)

	for i := range out {
		out[i] = clamp(cfg, out[i])
	}

	switch cfg.OptZoom {
	case config.OptZoomStatic:
		applyStaticZoom(cfg, width, height, out)
	case config.OptZoomAdaptive:
		applyAdaptiveZoom(cfg, width, height, out)
	default:
		if cfg.Zoom != 0 {
			for i := range out {
				out[i].Zoom += cfg.Zoom
			}
		}
	}
	return out
}

// clamp bounds r's translation to ±MaxShift and its rotation to
// ±MaxAngle; a limit of -1 leaves that axis unbounded.
func clamp(cfg config.Config, r transform.Record) transform.Record {
	if cfg.MaxShift != -1 {
		r.X = clampFloat(r.X, float64(cfg.MaxShift))
		r.Y = clampFloat(r.Y, float64(cfg.MaxShift))
	}
	if cfg.MaxAngle != -1 {
		r.Alpha = clampFloat(r.Alpha, cfg.MaxAngle)
	}
	return r
}

func clampFloat(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}

// requiredZoom estimates the zoom percentage needed so r's translation
// alone doesn't uncover a border, considering only x/y shift.
func requiredZoom(r transform.Record, width, height int) float64 {
	zx := 2 * r.X / float64(width)
	zy := 2 * r.Y / float64(height)
	return 100 * math.Max(math.Abs(zx), math.Abs(zy))
}

// applyStaticZoom picks a single zoom factor covering the path's largest
// shift and applies it to every frame.
func applyStaticZoom(cfg config.Config, width, height int, path []transform.Record) {
	if len(path) == 0 {
		return
	}
	maxX, maxY := 0.0, 0.0
	for _, r := range path {
		if math.Abs(r.X) > maxX {
			maxX = math.Abs(r.X)
		}
		if math.Abs(r.Y) > maxY {
			maxY = math.Abs(r.Y)
		}
	}
	zx := 2 * maxX / float64(width)
	zy := 2 * maxY / float64(height)
	zoom := clampFloat(100*math.Max(zx, zy)+cfg.Zoom, 60)
	for i := range path {
		path[i].Zoom = zoom
	}
}

// applyAdaptiveZoom computes each frame's required zoom, then forward- and
// backward-propagates it so the zoom level changes gradually rather than
// snapping in and out of a hard border, at most zoomSpeed percent per
// frame, never dropping below the path's mean requirement.
func applyAdaptiveZoom(cfg config.Config, width, height int, path []transform.Record) {
	n := len(path)
	if n == 0 {
		return
	}
	const zoomSpeed = 0.25

	zooms := make([]float64, n)
	sum := 0.0
	for i, r := range path {
		zooms[i] = requiredZoom(r, width, height)
		sum += zooms[i]
	}
	meanZoom := sum/float64(n) + cfg.Zoom

	req := meanZoom
	for i := 0; i < n; i++ {
		req = math.Max(req, zooms[i])
		path[i].Zoom = math.Max(path[i].Zoom, req)
		req = math.Max(meanZoom, req-zoomSpeed)
	}
	req = meanZoom
	for i := n - 1; i >= 0; i-- {
		req = math.Max(req, zooms[i])
		path[i].Zoom = math.Max(path[i].Zoom, req)
		req = math.Max(meanZoom, req-zoomSpeed)
	}
}

// Invert negates every transform in path, for callers that warp using the
// inverse of the estimated camera motion rather than the motion itself.
func Invert(path []transform.Record) []transform.Record {
	out := make([]transform.Record, len(path))
	for i, r := range path {
		out[i] = r.Invert()
	}
	return out
}
