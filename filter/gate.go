/*
NAME
  gate.go

DESCRIPTION
  gate.go implements a cheap global-motion pre-check: a per-pixel absolute
  difference against the previous frame, averaged and compared to a
  threshold, used to skip the full motion detector on frames that are
  effectively identical to the one before.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import "github.com/ausocean/gimbal/frame"

const defaultGateThreshold = 3.0

// QuickGate is a cheap pre-detector gate: it compares a frame's luma plane
// against the previous one it saw and reports whether the mean absolute
// difference clears Threshold, following the teacher's difference-based
// motion filter's mean-vs-threshold test but operating directly on a
// planar frame.Frame instead of a decoded image.Image/gocv.Mat.
//
// QuickGate holds no reference to the frame it was last called with;
// callers that need that buffer again must keep their own copy.
type QuickGate struct {
	// Threshold is the mean per-pixel absolute difference, 0..255, above
	// which Check reports motion. Check uses it as given; NewQuickGate
	// substitutes defaultGateThreshold for a value <= 0.
	Threshold float64

	prev []byte
}

// NewQuickGate returns a QuickGate with threshold's default substituted
// when it's <= 0.
func NewQuickGate(threshold float64) *QuickGate {
	if threshold <= 0 {
		threshold = defaultGateThreshold
	}
	return &QuickGate{Threshold: threshold}
}

// Check reports whether f's luma plane differs enough from the
// previously checked frame to be worth running the full detector on. The
// first call always reports true, since there's nothing yet to compare
// against.
func (g *QuickGate) Check(f *frame.Frame) bool {
	buf, _, _, _ := f.Plane(0)
	if g.prev == nil {
		g.prev = append([]byte(nil), buf...)
		return true
	}

	var sum int
	n := len(buf)
	if len(g.prev) < n {
		n = len(g.prev)
	}
	for i := 0; i < n; i++ {
		sum += absDiff(buf[i], g.prev[i])
	}

	g.prev = append(g.prev[:0], buf...)
	if n == 0 {
		return false
	}
	return float64(sum)/float64(n) > g.Threshold
}

func absDiff(a, b byte) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
