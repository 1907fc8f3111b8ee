/*
NAME
  frame.go

DESCRIPTION
  frame.go provides the planar Frame type and its allocation, copying and
  plane-accessor operations (component C1 of the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame owns planar image memory and the Gaussian-like pyramids
// built from it. A Frame never outlives the Pyramid or Detector that
// allocated it; callers obtain frames via Allocate and release them with
// Free.
package frame

import "github.com/pkg/errors"

// Format identifies a supported pixel layout.
type Format int

const (
	// FormatGray is single 8-bit luma.
	FormatGray Format = iota
	// FormatYUV410P is planar YUV with 4:1:0 chroma subsampling.
	FormatYUV410P
	// FormatYUV411P is planar YUV with 4:1:1 chroma subsampling.
	FormatYUV411P
	// FormatYUV420P is planar YUV with 4:2:0 chroma subsampling.
	FormatYUV420P
	// FormatYUV422P is planar YUV with 4:2:2 chroma subsampling.
	FormatYUV422P
	// FormatYUV440P is planar YUV with 4:4:0 chroma subsampling.
	FormatYUV440P
	// FormatYUV444P is planar YUV with 4:4:4 chroma subsampling, no
	// subsampling.
	FormatYUV444P
	// FormatYUVA420P is planar YUV 4:2:0 with an additional full-resolution
	// alpha plane.
	FormatYUVA420P
	// FormatRGB24 is packed 8-bit RGB, 3 bytes per pixel.
	FormatRGB24
	// FormatBGR24 is packed 8-bit BGR, 3 bytes per pixel.
	FormatBGR24
	// FormatRGBA32 is packed 8-bit RGBA, 4 bytes per pixel.
	FormatRGBA32
)

// ErrAllocationFailed is returned (and is fatal, per spec.md §4.13) when a
// Frame or Pyramid level cannot be allocated.
var ErrAllocationFailed = errors.New("frame: allocation failed")

// ErrUnsupportedFormat is returned by Allocate for a Format with no entry
// in formatInfo.
var ErrUnsupportedFormat = errors.New("frame: unsupported pixel format")

// formatDesc describes the fixed plane layout of a Format: one entry per
// plane, giving the horizontal/vertical subsampling shift and bytes per
// sample.
type formatDesc struct {
	planes   int
	shiftX   [4]uint
	shiftY   [4]uint
	bypp     [4]int // bytes per sample, per plane
	isPacked bool
}

var formatInfo = map[Format]formatDesc{
	FormatGray:     {planes: 1, bypp: [4]int{1, 0, 0, 0}},
	FormatYUV410P:  {planes: 3, shiftX: [4]uint{0, 2, 2}, shiftY: [4]uint{0, 2, 2}, bypp: [4]int{1, 1, 1, 0}},
	FormatYUV411P:  {planes: 3, shiftX: [4]uint{0, 2, 2}, shiftY: [4]uint{0, 0, 0}, bypp: [4]int{1, 1, 1, 0}},
	FormatYUV420P:  {planes: 3, shiftX: [4]uint{0, 1, 1}, shiftY: [4]uint{0, 1, 1}, bypp: [4]int{1, 1, 1, 0}},
	FormatYUV422P:  {planes: 3, shiftX: [4]uint{0, 1, 1}, shiftY: [4]uint{0, 0, 0}, bypp: [4]int{1, 1, 1, 0}},
	FormatYUV440P:  {planes: 3, shiftX: [4]uint{0, 0, 0}, shiftY: [4]uint{0, 1, 1}, bypp: [4]int{1, 1, 1, 0}},
	FormatYUV444P:  {planes: 3, bypp: [4]int{1, 1, 1, 0}},
	FormatYUVA420P: {planes: 4, shiftX: [4]uint{0, 1, 1, 0}, shiftY: [4]uint{0, 1, 1, 0}, bypp: [4]int{1, 1, 1, 1}},
	FormatRGB24:    {planes: 1, bypp: [4]int{3, 0, 0, 0}, isPacked: true},
	FormatBGR24:    {planes: 1, bypp: [4]int{3, 0, 0, 0}, isPacked: true},
	FormatRGBA32:   {planes: 1, bypp: [4]int{4, 0, 0, 0}, isPacked: true},
}

// Info describes a Frame's dimensions and pixel format.
type Info struct {
	Width, Height int
	Format        Format
}

// PlaneCount returns the number of planes Info's format uses.
func (i Info) PlaneCount() int {
	return formatInfo[i.Format].planes
}

// IsPacked reports whether Info's format interleaves channels within a
// single plane (RGB/BGR/RGBA) rather than storing them separately.
func (i Info) IsPacked() bool {
	return formatInfo[i.Format].isPacked
}

// PlaneDims returns the pixel width and height of plane p, accounting for
// chroma subsampling.
func (i Info) PlaneDims(p int) (w, h int) {
	d := formatInfo[i.Format]
	w = i.Width >> d.shiftX[p]
	h = i.Height >> d.shiftY[p]
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return w, h
}

// plane holds one plane's byte buffer and its row stride.
type plane struct {
	buf    []byte
	stride int
	w, h   int
}

// Frame is a planar image with 1-4 planes. Invariant: each plane's stride
// is >= its pixel width times the format's bytes-per-sample.
type Frame struct {
	Info   Info
	planes []plane
}

// Allocate returns a new zero-filled Frame matching info. Allocation
// failure (unsupported format or non-positive dimensions) is fatal per
// spec.md §4.13 and is reported via the returned error.
func Allocate(info Info) (*Frame, error) {
	d, ok := formatInfo[info.Format]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "format %d", info.Format)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, errors.Wrapf(ErrAllocationFailed, "non-positive dimensions %dx%d", info.Width, info.Height)
	}

	f := &Frame{Info: info, planes: make([]plane, d.planes)}
	for p := 0; p < d.planes; p++ {
		w, h := info.PlaneDims(p)
		bypp := d.bypp[p]
		stride := w * bypp
		buf := make([]byte, stride*h)
		f.planes[p] = plane{buf: buf, stride: stride, w: w, h: h}
	}
	return f, nil
}

// Free releases f's plane memory. Frame is safe to use afterwards only as
// an empty shell; callers must not access planes after Free.
func (f *Frame) Free() {
	f.planes = nil
}

// Plane returns the byte buffer, row stride, width and height of plane p.
func (f *Frame) Plane(p int) (buf []byte, stride, w, h int) {
	pl := f.planes[p]
	return pl.buf, pl.stride, pl.w, pl.h
}

// PlaneCount returns the number of planes f has.
func (f *Frame) PlaneCount() int { return len(f.planes) }

// Copy copies src's pixel data into dst. dst and src must share the same
// Info; Copy does not reallocate.
func Copy(dst, src *Frame) error {
	if dst.Info != src.Info {
		return errors.Errorf("frame: copy requires matching Info, got %+v and %+v", dst.Info, src.Info)
	}
	for p := range src.planes {
		copy(dst.planes[p].buf, src.planes[p].buf)
	}
	return nil
}

// SamePixels reports whether a and b are the same underlying allocation,
// tested by pointer-identity of plane 0's backing array. This is used to
// detect aliased in-place operations.
func SamePixels(a, b *Frame) bool {
	if a == nil || b == nil || len(a.planes) == 0 || len(b.planes) == 0 {
		return a == b
	}
	pa, pb := a.planes[0].buf, b.planes[0].buf
	if len(pa) == 0 || len(pb) == 0 {
		return len(pa) == len(pb)
	}
	return &pa[0] == &pb[0]
}

// At returns the sample value at pixel (x,y) of plane p. It performs no
// bounds checking beyond what a slice index does; callers in hot loops
// index planes directly via Plane instead.
func (f *Frame) At(p, x, y int) byte {
	pl := f.planes[p]
	return pl.buf[y*pl.stride+x]
}

// Set sets the sample value at pixel (x,y) of plane p.
func (f *Frame) Set(p, x, y int, v byte) {
	pl := f.planes[p]
	pl.buf[y*pl.stride+x] = v
}
