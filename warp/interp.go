/*
NAME
  interp.go

DESCRIPTION
  interp.go implements the four resampling kernels the warp engine can use
  to sample a real-valued source coordinate: nearest, linear (x-axis
  only), bilinear (border-safe), and bicubic Catmull-Rom (spec.md §4.12).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package warp

import (
	"math"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/geom"
)

// sample dispatches to the interpolator cfg names, returning the sampled
// byte value and whether p fell within a range the kernel could sample
// from. A false ok means the caller should fall back to the configured
// border policy.
func sample(buf []byte, stride, w, h int, p geom.VecF, interp config.Interpol) (byte, bool) {
	switch interp {
	case config.InterpolLinear:
		return sampleLinear(buf, stride, w, h, p)
	case config.InterpolBilinear:
		return sampleBilinear(buf, stride, w, h, p)
	case config.InterpolBicubic:
		return sampleBicubic(buf, stride, w, h, p)
	default:
		return sampleNearest(buf, stride, w, h, p)
	}
}

func inBounds(x, y, w, h int) bool {
	return x >= 0 && x < w && y >= 0 && y < h
}

func at(buf []byte, stride, x, y int) byte {
	return buf[y*stride+x]
}

// sampleNearest rounds p to the nearest integer pixel.
func sampleNearest(buf []byte, stride, w, h int, p geom.VecF) (byte, bool) {
	x := int(math.Round(p.X))
	y := int(math.Round(p.Y))
	if !inBounds(x, y, w, h) {
		return 0, false
	}
	return at(buf, stride, x, y), true
}

// sampleLinear interpolates along x only, using the nearest row: cheaper
// than full bilinear when the source footage has negligible vertical
// sub-pixel motion (e.g. a global horizontal pan).
func sampleLinear(buf []byte, stride, w, h int, p geom.VecF) (byte, bool) {
	y := int(math.Round(p.Y))
	x0 := int(math.Floor(p.X))
	x1 := x0 + 1
	if !inBounds(x0, y, w, h) || !inBounds(x1, y, w, h) {
		return 0, false
	}
	frac := p.X - float64(x0)
	v0 := float64(at(buf, stride, x0, y))
	v1 := float64(at(buf, stride, x1, y))
	return clampByte(v0 + frac*(v1-v0)), true
}

// sampleBilinear interpolates both axes, clamping each of the four tap
// coordinates into the plane's bounds rather than rejecting the sample
// outright, so pixels one fractional step past the edge still resolve to
// their nearest valid neighbour instead of falling back to the border
// policy.
func sampleBilinear(buf []byte, stride, w, h int, p geom.VecF) (byte, bool) {
	if p.X < -1 || p.X > float64(w) || p.Y < -1 || p.Y > float64(h) {
		return 0, false
	}
	x0 := int(math.Floor(p.X))
	y0 := int(math.Floor(p.Y))
	fx := p.X - float64(x0)
	fy := p.Y - float64(y0)

	v00 := float64(at(buf, stride, clampInt(x0, 0, w-1), clampInt(y0, 0, h-1)))
	v10 := float64(at(buf, stride, clampInt(x0+1, 0, w-1), clampInt(y0, 0, h-1)))
	v01 := float64(at(buf, stride, clampInt(x0, 0, w-1), clampInt(y0+1, 0, h-1)))
	v11 := float64(at(buf, stride, clampInt(x0+1, 0, w-1), clampInt(y0+1, 0, h-1)))

	top := v00 + fx*(v10-v00)
	bot := v01 + fx*(v11-v01)
	return clampByte(top + fy*(bot-top)), true
}

// catmullRomAlpha is the Catmull-Rom spline's tension parameter; -0.5
// gives the standard (Keys 1981) cubic convolution kernel.
const catmullRomAlpha = -0.5

// cubicKernel evaluates the Catmull-Rom cubic convolution weight at
// distance d from a tap, per spec.md §4.12.
func cubicKernel(d float64) float64 {
	a := catmullRomAlpha
	d = math.Abs(d)
	switch {
	case d <= 1:
		return (a+2)*d*d*d - (a+3)*d*d + 1
	case d < 2:
		return a*d*d*d - 5*a*d*d + 8*a*d - 4*a
	default:
		return 0
	}
}

// sampleBicubic interpolates both axes with a 4x4 Catmull-Rom tap
// convolution, clamping tap coordinates into the plane's bounds.
func sampleBicubic(buf []byte, stride, w, h int, p geom.VecF) (byte, bool) {
	if p.X < -2 || p.X > float64(w)+1 || p.Y < -2 || p.Y > float64(h)+1 {
		return 0, false
	}
	x0 := int(math.Floor(p.X))
	y0 := int(math.Floor(p.Y))

	var rows [4]float64
	for j := -1; j <= 2; j++ {
		yy := clampInt(y0+j, 0, h-1)
		var acc float64
		for i := -1; i <= 2; i++ {
			xx := clampInt(x0+i, 0, w-1)
			wgt := cubicKernel(p.X - float64(x0+i))
			acc += wgt * float64(at(buf, stride, xx, yy))
		}
		rows[j+1] = acc
	}
	var acc float64
	for j := -1; j <= 2; j++ {
		wgt := cubicKernel(p.Y - float64(y0+j))
		acc += wgt * rows[j+1]
	}
	return clampByte(acc), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(math.Round(v))
}
