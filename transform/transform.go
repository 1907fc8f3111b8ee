/*
NAME
  transform.go

DESCRIPTION
  transform.go defines the per-frame transform record and its prepared,
  pre-multiplied form used by the warp engine.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package transform defines the per-frame camera transform record shared
// by the path smoother and warp engine.
package transform

import "math"

// Record is a single frame's camera transform: translation, rotation,
// zoom, and the lens/rolling-shutter parameters carried through from
// detection to correction. The zero Record is the identity transform.
type Record struct {
	X, Y      float64 // translation, in pixels
	Alpha     float64 // rotation, in radians
	Zoom      float64 // zoom, in percent (0 == no change)
	Barrel    float64 // barrel lens coefficient
	RSShift   float64 // rolling-shutter row-time skew coefficient
	ExtraFlag int
}

// IsIdentity reports whether r applies no transform at all.
func (r Record) IsIdentity() bool {
	return r == Record{}
}

// Add returns r with s's translation, rotation and zoom added; Barrel and
// RSShift are taken from r and ExtraFlag is zero. Used by the smoother when
// accumulating or composing transforms.
func (r Record) Add(s Record) Record {
	return Record{
		X:       r.X + s.X,
		Y:       r.Y + s.Y,
		Alpha:   r.Alpha + s.Alpha,
		Zoom:    r.Zoom + s.Zoom,
		Barrel:  r.Barrel,
		RSShift: r.RSShift,
	}
}

// Sub returns r with s's translation, rotation and zoom subtracted; Barrel
// and RSShift are taken from r and ExtraFlag is zero.
func (r Record) Sub(s Record) Record {
	return Record{
		X:       r.X - s.X,
		Y:       r.Y - s.Y,
		Alpha:   r.Alpha - s.Alpha,
		Zoom:    r.Zoom - s.Zoom,
		Barrel:  r.Barrel,
		RSShift: r.RSShift,
	}
}

// Scale returns r with its translation, rotation and zoom scaled by s.
func (r Record) Scale(s float64) Record {
	return Record{
		X:       r.X * s,
		Y:       r.Y * s,
		Alpha:   r.Alpha * s,
		Zoom:    r.Zoom * s,
		Barrel:  r.Barrel,
		RSShift: r.RSShift,
	}
}

// Invert returns the transform that undoes r (negated translation and
// rotation, reciprocal zoom factor).
func (r Record) Invert() Record {
	inv := r
	inv.X = -r.X
	inv.Y = -r.Y
	inv.Alpha = -r.Alpha
	inv.Zoom = -r.Zoom / (1 + r.Zoom/100)
	return inv
}

// Prepared is a transform record pre-multiplied by (cos, sin) and the zoom
// factor, cached to speed up per-pixel warping (spec.md §3/§4.12).
type Prepared struct {
	CosZ, SinZ float64 // cos(alpha)*zscale, sin(alpha)*zscale
	Cx, Cy     float64 // center of the frame being warped
	Tx, Ty     float64 // translation
}

// Prepare derives a Prepared transform for warping a frame of the given
// dimensions.
func Prepare(r Record, width, height int) Prepared {
	zscale := 1 + r.Zoom/100
	return Prepared{
		CosZ: math.Cos(r.Alpha) * zscale,
		SinZ: math.Sin(r.Alpha) * zscale,
		Cx:   float64(width) / 2,
		Cy:   float64(height) / 2,
		Tx:   r.X,
		Ty:   r.Y,
	}
}
