/*
NAME
  lens.go

DESCRIPTION
  lens.go implements the forward and inverse radial (barrel) lens
  distortion model used by the warp engine to pre/post-linearize
  coordinates (component C3 of the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lens implements a third-degree radial polynomial lens distortion
// model with a Newton-style iterative inverse.
package lens

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ausocean/gimbal/geom"
)

// MaxIterations bounds the inverse solver's iteration count.
const MaxIterations = 64

// ConvergeTolerance is the per-axis pixel delta below which the inverse
// solver considers itself converged.
const ConvergeTolerance = 0.1

// Model is a third-degree radial polynomial lens distortion model:
//
//	factor(r^2) = 1 + K0*r^2 + K1*r^4 + K2*r^6
//
// centered on Center. The zero Model (all K == 0) is the identity lens.
type Model struct {
	K0, K1, K2 float64
	Center     geom.VecF
}

// IsIdentity reports whether m applies no distortion.
func (m Model) IsIdentity() bool {
	return m.K0 == 0 && m.K1 == 0 && m.K2 == 0
}

// factor evaluates the radial polynomial at squared radius r2.
func (m Model) factor(r2 float64) float64 {
	return 1 + m.K0*r2 + m.K1*r2*r2 + m.K2*r2*r2*r2
}

// To applies the forward distortion, mapping a source coordinate to a
// destination coordinate. ratio scales the model's coefficients so the
// same Model can be reused on subsampled chroma planes (pass 1.0 for the
// full-resolution plane).
func (m Model) To(src geom.VecF, ratio float64) geom.VecF {
	if m.IsIdentity() {
		return src
	}
	d := src.Sub(m.Center)
	r2 := d.SqMag() * ratio * ratio
	f := m.factor(r2)
	// The ratio multiplying the numerator and the ratio dividing the
	// result algebraically cancel, leaving d/f; r2 is still scaled by
	// ratio^2 so sub-sampled chroma planes see a shrunk effective radius.
	return m.Center.Add(d.Scale(1 / f))
}

// From applies the inverse distortion iteratively: an initial guess is
// made by forward-applying the unperturbed polynomial, then the estimate
// is refined by est += src_linear - to(est), up to MaxIterations times,
// terminating early once both axis deltas fall below ConvergeTolerance.
//
// From never fails outright (per spec.md §4.3/§7, non-convergence is
// soft); it returns the best estimate reached and a bool reporting whether
// it converged within tolerance.
func (m Model) From(dst geom.VecF, ratio float64) (geom.VecF, bool) {
	if m.IsIdentity() {
		return dst, true
	}

	est := m.To(dst, ratio) // initial guess
	for i := 0; i < MaxIterations; i++ {
		cur := m.To(est, ratio)
		dx := dst.X - cur.X
		dy := dst.Y - cur.Y
		est.X += dx
		est.Y += dy
		if floats.Max([]float64{absf(dx), absf(dy)}) < ConvergeTolerance {
			return est, true
		}
	}
	return est, false
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
