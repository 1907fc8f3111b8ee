/*
NAME
  fit.go

DESCRIPTION
  fit.go estimates a single per-frame camera transform from a frame's list
  of per-cell local motions, bridging the detector's per-cell output to
  the path smoother, which consumes one transform per frame. This is not
  named as a component in spec.md's §4, but is required by its own data
  flow description (C9 sanitizes per-cell motions, C11 smooths per-frame
  transforms); it is grounded on original_source/src/transform.cpp's
  vsCalcTransform, per SPEC_FULL.md's domain-stack supplement.

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
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/transform"
)

// FitTransform estimates a single frame-level transform from motions, a
// list of valid LocalMotion measurements (e.g. from Detector.Detect),
// given the frame center. Translation is the contrast-weighted mean
// vector; rotation and zoom are estimated from the median relative
// rotation/scale between every field and the frame center, which is
// robust to the occasional outlier field that survives the outlier
// filter with a high but not-quite-rejected deviation.
//
// An empty motions list yields the identity transform.
func FitTransform(motions []LocalMotion, center geom.VecF) transform.Record {
	if len(motions) == 0 {
		return transform.Record{}
	}

	tx, ty := weightedMeanTranslation(motions)

	var angles, scales []float64
	for _, m := range motions {
		r := geom.VecF{X: float64(m.Position.X), Y: float64(m.Position.Y)}.Sub(center)
		if r.SqMag() < 1 {
			continue // too close to center for a stable rotation/zoom estimate
		}
		moved := r.Add(m.Vector).Sub(geom.VecF{X: tx, Y: ty})

		rPolar := r.ToPolar()
		mPolar := moved.ToPolar()
		if rPolar.Mag == 0 {
			continue
		}
		angles = append(angles, mPolar.Angle-rPolar.Angle)
		scales = append(scales, mPolar.Mag/rPolar.Mag)
	}

	var alpha, zoomRatio float64 = 0, 1
	if len(angles) > 0 {
		alpha = median(angles)
		zoomRatio = median(scales)
	}

	return transform.Record{
		X:     tx,
		Y:     ty,
		Alpha: alpha,
		Zoom:  (zoomRatio - 1) * 100,
	}
}

// weightedMeanTranslation returns the contrast-weighted mean motion
// vector across motions, falling back to an unweighted mean if every
// field has zero weight.
func weightedMeanTranslation(motions []LocalMotion) (x, y float64) {
	xs := make([]float64, len(motions))
	ys := make([]float64, len(motions))
	ws := make([]float64, len(motions))
	totalW := 0.0
	for i, m := range motions {
		xs[i] = m.Vector.X
		ys[i] = m.Vector.Y
		w := m.Contrast
		if m.Quality == Reject {
			w = 0
		}
		ws[i] = w
		totalW += w
	}
	if totalW == 0 {
		return stat.Mean(xs, nil), stat.Mean(ys, nil)
	}
	return stat.Mean(xs, ws), stat.Mean(ys, ws)
}

// median returns the median of vs, which is mutated (sorted) in place.
func median(vs []float64) float64 {
	sort.Float64s(vs)
	n := len(vs)
	if n%2 == 1 {
		return vs[n/2]
	}
	return (vs[n/2-1] + vs[n/2]) / 2
}
