/*
NAME
  blockmatch.go

DESCRIPTION
  blockmatch.go implements SAD-based block matching between a current and
  reference canvas over a caller-supplied search iterator, with early
  termination (component C7 of the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package blockmatch implements sum-of-absolute-differences block matching
// between a current and reference frame over a caller-supplied search
// iterator.
package blockmatch

import (
	"math"

	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/geom"
)

// Iter enumerates candidate offset vectors, matching the interface
// implemented by geom.SpiralIter and geom.RectIter.
type Iter interface {
	Next() (geom.Vec, bool)
}

// Result is the outcome of a Search: the offset minimizing SAD and that
// SAD. A Quality of -1 indicates the search rejected every candidate (see
// Reject).
type Result struct {
	Offset  geom.Vec
	Quality int
}

// Reject is the sentinel match-quality value meaning "no usable match".
const Reject = -1

// channelsFor returns the number of interleaved channels to sum per pixel
// for the given format. Planar YUV formats use only plane 0 (luma), so
// they report 1 channel; packed RGB/BGR/RGBA formats sum all channels.
func channelsFor(f frame.Format) int {
	switch f {
	case frame.FormatRGB24, frame.FormatBGR24:
		return 3
	case frame.FormatRGBA32:
		return 4
	default:
		return 1
	}
}

// Search computes SAD between the window of size x size centered at center
// in cur, and the corresponding window in ref offset by each candidate
// from offsets, returning the offset that minimizes SAD. cur and ref must
// share the same pixel format. Offsets whose window would leave either
// frame are skipped.
//
// Early termination: once a candidate's partial SAD exceeds the best SAD
// found so far in this Search call, that candidate is abandoned.
func Search(cur, ref *frame.Frame, center geom.Vec, size int, offsets Iter) Result {
	channels := channelsFor(cur.Info.Format)

	cbuf, cstride, cw, ch := cur.Plane(0)
	rbuf, rstride, rw, rh := ref.Plane(0)

	half := size / 2
	best := math.MaxInt32
	var bestOff geom.Vec
	found := false

	for {
		off, ok := offsets.Next()
		if !ok {
			break
		}

		cx0, cy0 := center.X-half, center.Y-half
		rx0, ry0 := cx0+off.X, cy0+off.Y
		if cx0 < 0 || cy0 < 0 || cx0+size > cw || cy0+size > ch {
			continue
		}
		if rx0 < 0 || ry0 < 0 || rx0+size > rw || ry0+size > rh {
			continue
		}

		sad, aborted := sadWindow(cbuf, cstride, cx0, cy0, rbuf, rstride, rx0, ry0, size, channels, best)
		if aborted {
			continue
		}
		if sad < best {
			best = sad
			bestOff = off
			found = true
		}
	}

	if !found {
		return Result{Quality: Reject}
	}
	return Result{Offset: bestOff, Quality: best}
}

// sadWindow sums |cur-ref| over a size x size x channels window, aborting
// (returning aborted=true) as soon as the running sum exceeds limit.
func sadWindow(cbuf []byte, cstride, cx0, cy0 int, rbuf []byte, rstride, rx0, ry0, size, channels, limit int) (int, bool) {
	sum := 0
	for y := 0; y < size; y++ {
		crow := (cy0+y)*cstride + cx0*channels
		rrow := (ry0+y)*rstride + rx0*channels
		for x := 0; x < size*channels; x++ {
			d := int(cbuf[crow+x]) - int(rbuf[rrow+x])
			if d < 0 {
				d = -d
			}
			sum += d
			if sum > limit {
				return sum, true
			}
		}
	}
	return sum, false
}
