/*
NAME
  blur.go

DESCRIPTION
  blur.go implements the separable running-sum box blur used to smooth
  frames before block matching (component C4 of the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package blur implements a separable running-sum box blur over planar
// frames, with three color-plane policies for use ahead of block matching.
package blur

import "github.com/ausocean/gimbal/frame"

// ColorPolicy selects how blur treats chroma planes.
type ColorPolicy int

const (
	// FullColor blurs every plane, using a chroma kernel of (size/2)+1;
	// if that chroma kernel would be smaller than 3, chroma is skipped.
	FullColor ColorPolicy = iota
	// KeepColor copies chroma planes unchanged.
	KeepColor
	// NoColor leaves destination chroma untouched, for callers that only
	// consume luma downstream.
	NoColor
)

// minKernel is the minimum permitted odd kernel size.
const minKernel = 3

// kernelSize clamps an odd kernel size s to [minKernel, half the smaller
// frame dimension], rounding down to the nearest odd value.
func kernelSize(s, w, h int) int {
	if s < minKernel {
		s = minKernel
	}
	maxK := min(w, h) / 2
	if maxK < minKernel {
		maxK = minKernel
	}
	if s > maxK {
		s = maxK
	}
	if s%2 == 0 {
		s--
	}
	if s < 1 {
		s = 1
	}
	return s
}

// Blur writes a box-blurred copy of src into dst using kernel size s
// (clamped per kernelSize) and the given chroma policy. dst must already
// be allocated with the same Info as src. Blur is a two-pass (horizontal
// then vertical) separable running-sum filter; its temporary row buffer
// lives only for the duration of the call.
func Blur(dst, src *frame.Frame, s int, policy ColorPolicy) error {
	if dst.Info != src.Info {
		return frame.Copy(dst, src) // surfaces the mismatch error
	}

	copyPlane(dst, src, 0)
	lumaSize := kernelSize(s, src.Info.Width, src.Info.Height)
	blurPlane(dst, 0, lumaSize)

	for p := 1; p < src.PlaneCount(); p++ {
		switch policy {
		case NoColor:
			// dst's chroma is left exactly as the caller supplied it.
		case KeepColor:
			copyPlane(dst, src, p)
		case FullColor:
			chromaSize := lumaSize/2 + 1
			if chromaSize < minKernel {
				continue
			}
			copyPlane(dst, src, p)
			blurPlane(dst, p, chromaSize)
		}
	}
	return nil
}

// copyPlane copies plane p of src into the same plane of dst.
func copyPlane(dst, src *frame.Frame, p int) {
	sbuf, _, _, _ := src.Plane(p)
	dbuf, _, _, _ := dst.Plane(p)
	copy(dbuf, sbuf)
}

// blurPlane runs the horizontal pass then the vertical pass over plane p
// of f, in place, with kernel size s.
func blurPlane(f *frame.Frame, p, s int) {
	buf, stride, w, h := f.Plane(p)
	if w < 2 || h < 2 {
		return
	}
	tmp := make([]byte, len(buf))
	copy(tmp, buf)

	horizontal(buf, tmp, stride, w, h, s)
	copy(tmp, buf)
	vertical(buf, tmp, stride, w, h, s)
}

// horizontal runs the running-sum blur along rows of src into dst.
func horizontal(dst, src []byte, stride, w, h, s int) {
	half := s / 2
	for y := 0; y < h; y++ {
		row := y * stride
		acc := int(src[row]) * (half + 1)
		for i := 1; i <= half; i++ {
			x := i
			if x >= w {
				x = w - 1
			}
			acc += int(src[row+x])
		}
		for x := 0; x < w; x++ {
			dst[row+x] = byte(acc / s)

			rightIdx := x + half + 1
			if rightIdx >= w {
				rightIdx = w - 1
			}
			leftIdx := x - half
			if leftIdx < 0 {
				leftIdx = 0
			}
			acc += int(src[row+rightIdx]) - int(src[row+leftIdx])
		}
	}
}

// vertical runs the running-sum blur along columns of src into dst.
func vertical(dst, src []byte, stride, w, h, s int) {
	half := s / 2
	for x := 0; x < w; x++ {
		acc := int(src[x]) * (half + 1)
		for i := 1; i <= half; i++ {
			y := i
			if y >= h {
				y = h - 1
			}
			acc += int(src[y*stride+x])
		}
		for y := 0; y < h; y++ {
			dst[y*stride+x] = byte(acc / s)

			downIdx := y + half + 1
			if downIdx >= h {
				downIdx = h - 1
			}
			upIdx := y - half
			if upIdx < 0 {
				upIdx = 0
			}
			acc += int(src[downIdx*stride+x]) - int(src[upIdx*stride+x])
		}
	}
}
