/*
NAME
  smooth.go

DESCRIPTION
  smooth.go implements the two batch path-smoothing modes: a Gaussian
  convolution over the cumulative camera path, and a moving average with a
  secondary drift-killing sliding mean (spec.md §4.11).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package smooth turns a sequence of per-frame relative camera transforms
// into a smoothed absolute camera path, ready for the warp engine.
package smooth

import (
	"math"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/transform"
)

// Batch dispatches to the path smoother named by cfg.CamPath, then runs the
// shared post-processing step (clamp, required zoom). Relative
// holds one per-frame relative transform, in frame order.
//
// CamPathOptimalL1 falls back to the Gaussian smoother: the reference
// implementation this corrector is modelled on left its sliding L1-norm
// optimizer unimplemented and routed that selection to the Gaussian path,
// and this corrector preserves that fallback rather than inventing an L1
// optimizer the spec never describes.
func Batch(cfg config.Config, width, height int, relative []transform.Record) []transform.Record {
	var path []transform.Record
	switch cfg.CamPath {
	case config.CamPathAvg:
		path = MovingAverage(cfg, relative)
	default:
		path = Gaussian(cfg, relative)
	}
	return PostProcess(cfg, width, height, path)
}

// absolute integrates a relative transform sequence into a cumulative
// camera path: path[i] is the sum of relative[0..i].
func absolute(relative []transform.Record) []transform.Record {
	path := make([]transform.Record, len(relative))
	if len(relative) == 0 {
		return path
	}
	path[0] = relative[0]
	for i := 1; i < len(relative); i++ {
		path[i] = relative[i].Add(path[i-1])
	}
	return path
}

// Gaussian smooths the cumulative camera path with a kernel of length
// 2*Smoothing+1 and weights exp(-(i-mu)^2/(mu/2)^2), emitting the original
// path minus its locally smoothed average (spec.md §4.11).
func Gaussian(cfg config.Config, relative []transform.Record) []transform.Record {
	path := absolute(relative)
	n := len(path)
	if n == 0 || cfg.Smoothing <= 0 {
		return path
	}

	mu := cfg.Smoothing
	size := 2*mu + 1
	sigma2 := float64(mu) / 2
	sigma2 *= sigma2
	kernel := make([]float64, size)
	for i := 0; i <= mu; i++ {
		w := math.Exp(-sq(float64(i-mu)) / sigma2)
		kernel[i] = w
		kernel[size-i-1] = w
	}

	out := make([]transform.Record, n)
	for i := 0; i < n; i++ {
		var avg transform.Record
		weightsum := 0.0
		for k := 0; k < size; k++ {
			idx := i + k - mu
			if idx < 0 || idx >= n {
				continue
			}
			weightsum += kernel[k]
			avg = avg.Add(path[idx].Scale(kernel[k]))
		}
		if weightsum == 0 {
			out[i] = path[i]
			continue
		}
		out[i] = path[i].Sub(avg.Scale(1 / weightsum))
	}
	return out
}

// MovingAverage removes a symmetric sliding-window mean of length
// 2*Smoothing+1 from the relative transform sequence, subtracts a
// secondary sliding average (time constant 1/(2*(2*Smoothing+1))) to kill
// the accumulating offset that leaves behind, and integrates the result
// into an absolute path (spec.md §4.11).
//
// Unlike Gaussian, which filters the already-integrated path, this mode
// filters the raw per-frame deltas and integrates afterwards: the
// reference implementation's moving-average path runs the sliding mean
// over relative motion, not cumulative position.
func MovingAverage(cfg config.Config, relative []transform.Record) []transform.Record {
	n := len(relative)
	out := make([]transform.Record, n)
	copy(out, relative)

	if cfg.Smoothing > 0 && n > 0 {
		size := 2*cfg.Smoothing + 1
		tau := 1 / (2 * float64(size))

		var sum transform.Record
		for i := 0; i < cfg.Smoothing && i < n; i++ {
			sum = sum.Add(relative[i])
		}
		sum = sum.Scale(2)

		var avg2 transform.Record
		for i := 0; i < n; i++ {
			var leaving, entering transform.Record
			if oi := i - cfg.Smoothing - 1; oi >= 0 {
				leaving = relative[oi]
			}
			if ni := i + cfg.Smoothing; ni < n {
				entering = relative[ni]
			}
			sum = sum.Sub(leaving).Add(entering)

			mean := sum.Scale(1 / float64(size))
			out[i] = relative[i].Sub(mean)

			avg2 = avg2.Scale(1 - tau).Add(out[i].Scale(tau))
			out[i] = out[i].Sub(avg2)
		}
	}

	path := make([]transform.Record, n)
	if n > 0 {
		path[0] = out[0]
		for i := 1; i < n; i++ {
			path[i] = out[i].Add(path[i-1])
		}
	}
	return path
}

func sq(f float64) float64 { return f * f }
