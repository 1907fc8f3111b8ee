/*
NAME
  vec.go

DESCRIPTION
  vec.go provides integer and float 2-vectors with the pointwise arithmetic,
  polar conversion and rectangles used throughout the motion detector and
  warp engine; the rectangle and spiral iterators live in iter.go.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package geom provides the integer/float vector types and lattice
// iterators shared by the motion detector and geometric corrector.
package geom

import "math"

// Vec is an integer 2-vector, used for pixel positions and motion vectors
// measured in whole pixels.
type Vec struct {
	X, Y int
}

// Add returns a+b.
func (a Vec) Add(b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y} }

// Sub returns a-b.
func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }

// Scale returns a scaled by s.
func (a Vec) Scale(s int) Vec { return Vec{a.X * s, a.Y * s} }

// SqMag returns the squared magnitude of a.
func (a Vec) SqMag() int { return a.X*a.X + a.Y*a.Y }

// F converts a to a VecF.
func (a Vec) F() VecF { return VecF{float64(a.X), float64(a.Y)} }

// VecF is a float 2-vector, used for sub-pixel positions and measurements
// carried through the outlier filter and warp engine.
type VecF struct {
	X, Y float64
}

// Add returns a+b.
func (a VecF) Add(b VecF) VecF { return VecF{a.X + b.X, a.Y + b.Y} }

// Sub returns a-b.
func (a VecF) Sub(b VecF) VecF { return VecF{a.X - b.X, a.Y - b.Y} }

// Scale returns a scaled by s.
func (a VecF) Scale(s float64) VecF { return VecF{a.X * s, a.Y * s} }

// SqMag returns the squared magnitude of a.
func (a VecF) SqMag() float64 { return a.X*a.X + a.Y*a.Y }

// Mag returns the magnitude of a.
func (a VecF) Mag() float64 { return math.Sqrt(a.SqMag()) }

// Round returns the nearest integer Vec to a.
func (a VecF) Round() Vec { return Vec{int(math.Round(a.X)), int(math.Round(a.Y))} }

// Polar is a vector in polar form: Angle in radians, Mag the plain
// floating-point magnitude; no fixed-point scaling is applied.
type Polar struct {
	Angle float64
	Mag   float64
}

// ToPolar converts a to polar form.
func (a VecF) ToPolar() Polar {
	return Polar{Angle: math.Atan2(a.Y, a.X), Mag: a.Mag()}
}

// ToVecF converts p back to Cartesian form.
func (p Polar) ToVecF() VecF {
	return VecF{p.Mag * math.Cos(p.Angle), p.Mag * math.Sin(p.Angle)}
}

// Rect is an axis-aligned integer rectangle, [Min,Max) in both axes.
type Rect struct {
	Min, Max Vec
}

// Dx returns the width of r.
func (r Rect) Dx() int { return r.Max.X - r.Min.X }

// Dy returns the height of r.
func (r Rect) Dy() int { return r.Max.Y - r.Min.Y }

// Contains reports whether v lies within r.
func (r Rect) Contains(v Vec) bool {
	return v.X >= r.Min.X && v.X < r.Max.X && v.Y >= r.Min.Y && v.Y < r.Max.Y
}
