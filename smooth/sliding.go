/*
NAME
  sliding.go

DESCRIPTION
  sliding.go implements the one-sided streaming path smoother: a single
  low-pass pass over transforms as they arrive, with no lookahead, for
  callers that can't buffer the whole camera path (spec.md §4.11).

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
	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/transform"
)

// Sliding is a stateful one-sided smoother: each call to Next consumes one
// relative per-frame transform and emits the corresponding absolute,
// smoothed correction, using only transforms seen so far. It mirrors
// detect.Detector's own call-to-call state pattern, and is not safe for
// concurrent use.
type Sliding struct {
	cfg           config.Config
	width, height int

	avg, accum transform.Record
	zoomAvg    float64
}

// NewSliding returns a Sliding smoother for frames of the given
// dimensions, with the corrector options in cfg.
func NewSliding(cfg config.Config, width, height int) *Sliding {
	return &Sliding{cfg: cfg, width: width, height: height}
}

// Next folds trans, the current frame's relative transform, into the
// smoother's running state and returns the correction to apply this
// frame: avg tracks a low-pass average of the incoming motion; new is the
// high-frequency part left over once avg is subtracted, plus whatever
// accum still owes from previous frames; accum then decays toward zero at
// rate tau so old corrections don't linger forever.
func (s *Sliding) Next(trans transform.Record) transform.Record {
	n := float64(s.cfg.Smoothing) + 1
	sv := 1 / n
	tau := 1 / (3 * n)

	s.avg = s.avg.Scale(1 - sv).Add(trans.Scale(sv))
	newTrans := trans.Sub(s.avg).Add(s.accum)
	s.accum = newTrans.Scale(1 - tau)

	newTrans = clamp(s.cfg, newTrans)

	if s.cfg.OptZoom != config.OptZoomOff && s.cfg.Smoothing > 0 {
		req := requiredZoom(newTrans, s.width, s.height)
		s.zoomAvg = s.zoomAvg*(1-sv) + req*sv
		newTrans.Zoom = s.zoomAvg
	}
	if s.cfg.Zoom != 0 {
		newTrans.Zoom += s.cfg.Zoom
	}
	return newTrans
}
