/*
NAME
  pyramid_test.go

DESCRIPTION
  pyramid_test.go tests Frame allocation, copy and Pyramid construction.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import "testing"

func TestAllocateUnsupportedFormat(t *testing.T) {
	_, err := Allocate(Info{Width: 4, Height: 4, Format: Format(999)})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestAllocateZeroDims(t *testing.T) {
	_, err := Allocate(Info{Width: 0, Height: 4, Format: FormatGray})
	if err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

func TestCopyRequiresMatchingInfo(t *testing.T) {
	a, err := Allocate(Info{Width: 4, Height: 4, Format: FormatGray})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Allocate(Info{Width: 8, Height: 8, Format: FormatGray})
	if err != nil {
		t.Fatal(err)
	}
	if err := Copy(a, b); err == nil {
		t.Fatal("expected error copying between mismatched frames")
	}
}

// TestPyramidAverage checks spec.md S4: a 4x4 block with pixel (i,j) =
// i*10+j packs to a 2x2 level whose pixel (0,0) = (0+10+1+11)/4 = 5. This
// exercises pack directly rather than going through NewPyramid/Build,
// since MinLevelDim (tuned for a production-sized C5 grid, not a 4x4 toy
// frame) would otherwise stop the pyramid at a single level here.
func TestPyramidAverage(t *testing.T) {
	info := Info{Width: 4, Height: 4, Format: FormatGray}
	src, err := Allocate(info)
	if err != nil {
		t.Fatal(err)
	}
	buf, stride, w, h := src.Plane(0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf[y*stride+x] = byte(x*10 + y)
		}
	}

	dst, err := Allocate(Info{Width: 2, Height: 2, Format: FormatGray})
	if err != nil {
		t.Fatal(err)
	}
	pack(dst, src)

	if got := dst.At(0, 0, 0); got != 5 {
		t.Errorf("packed pixel (0,0) = %d, want 5", got)
	}
}

// TestPyramidDimensions checks spec.md §8 invariant 1: level k has
// dimension floor(D / 2^k).
func TestPyramidDimensions(t *testing.T) {
	info := Info{Width: 100, Height: 66, Format: FormatGray}
	p, err := NewPyramid(info)
	if err != nil {
		t.Fatal(err)
	}
	for k, lvl := range p.Levels {
		wantW := 100 >> uint(k)
		wantH := 66 >> uint(k)
		_, _, w, h := lvl.Plane(0)
		if w != wantW || h != wantH {
			t.Errorf("level %d dims = %dx%d, want %dx%d", k, w, h, wantW, wantH)
		}
	}
	if min(p.Levels[len(p.Levels)-1].Info.Width, p.Levels[len(p.Levels)-1].Info.Height) > MinLevelDim {
		t.Errorf("smallest level should satisfy min dim <= %d", MinLevelDim)
	}
}

func TestSamePixels(t *testing.T) {
	info := Info{Width: 4, Height: 4, Format: FormatGray}
	a, _ := Allocate(info)
	b, _ := Allocate(info)
	if SamePixels(a, b) {
		t.Error("distinct allocations should not be SamePixels")
	}
	if !SamePixels(a, a) {
		t.Error("a frame should be SamePixels with itself")
	}
}
