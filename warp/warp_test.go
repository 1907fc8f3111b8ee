/*
NAME
  warp_test.go

DESCRIPTION
  warp_test.go tests the zero-transform short-circuit (spec.md §8 property
  4), a pure-translation warp's recovered sample, and the interpolators'
  in-bounds/out-of-bounds handling.

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
	"math/rand"
	"testing"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/lens"
	"github.com/ausocean/gimbal/transform"
)

func texturedFrame(t *testing.T, w, h int, seed int64) *frame.Frame {
	t.Helper()
	f, err := frame.Allocate(frame.Info{Width: w, Height: h, Format: frame.FormatGray})
	if err != nil {
		t.Fatal(err)
	}
	buf, _, _, _ := f.Plane(0)
	r := rand.New(rand.NewSource(seed))
	for i := range buf {
		buf[i] = byte(r.Intn(256))
	}
	return f
}

func testCorrectorConfig() config.Config {
	return config.Config{MaxShift: -1, MaxAngle: -1, Interpol: config.InterpolBilinear, Crop: config.CropBlack}
}

// TestWarpIdentityIsByteCopy checks that the zero transform short-circuits
// to a bytewise plane copy rather than routing through the lens model and
// interpolator (spec.md §8 property 4).
func TestWarpIdentityIsByteCopy(t *testing.T) {
	src := texturedFrame(t, 32, 32, 1)
	dst, err := frame.Allocate(src.Info)
	if err != nil {
		t.Fatal(err)
	}

	if err := Warp(dst, src, transform.Record{}, lens.Model{}, testCorrectorConfig(), nil); err != nil {
		t.Fatal(err)
	}

	sbuf, _, _, _ := src.Plane(0)
	dbuf, _, _, _ := dst.Plane(0)
	for i := range sbuf {
		if dbuf[i] != sbuf[i] {
			t.Fatalf("byte %d: got %d, want %d (bytewise copy)", i, dbuf[i], sbuf[i])
		}
	}
}

// TestWarpPureTranslationRecoversSample checks that warping with a pure
// x-translation produces dst(x,y) == src(x+dx,y) for interior pixels,
// using nearest-neighbour sampling so the recovered value is exact.
func TestWarpPureTranslationRecoversSample(t *testing.T) {
	src := texturedFrame(t, 64, 64, 2)
	dst, err := frame.Allocate(src.Info)
	if err != nil {
		t.Fatal(err)
	}

	cfg := testCorrectorConfig()
	cfg.Interpol = config.InterpolZero
	const dx = 5.0
	r := transform.Record{X: dx}

	if err := Warp(dst, src, r, lens.Model{}, cfg, nil); err != nil {
		t.Fatal(err)
	}

	sbuf, sstride, w, h := src.Plane(0)
	dbuf, dstride, _, _ := dst.Plane(0)
	for y := 10; y < h-10; y++ {
		for x := 10; x < w-10; x++ {
			want := sbuf[y*sstride+x+int(dx)]
			got := dbuf[y*dstride+x]
			if got != want {
				t.Fatalf("(%d,%d): got %d, want %d", x, y, got, want)
			}
		}
	}
}

// TestWarpCropKeepFallsBackToHistory checks that an out-of-range sample
// under CropKeep is filled from the history frame rather than the black
// default.
func TestWarpCropKeepFallsBackToHistory(t *testing.T) {
	src := texturedFrame(t, 32, 32, 3)
	history := texturedFrame(t, 32, 32, 4)
	dst, err := frame.Allocate(src.Info)
	if err != nil {
		t.Fatal(err)
	}

	cfg := testCorrectorConfig()
	cfg.Crop = config.CropKeep
	cfg.Interpol = config.InterpolZero
	r := transform.Record{X: 100} // pushes every sample out of range

	if err := Warp(dst, src, r, lens.Model{}, cfg, history); err != nil {
		t.Fatal(err)
	}

	hbuf, _, _, _ := history.Plane(0)
	dbuf, _, _, _ := dst.Plane(0)
	for i := range hbuf {
		if dbuf[i] != hbuf[i] {
			t.Fatalf("byte %d: got %d, want history value %d", i, dbuf[i], hbuf[i])
		}
	}
}

func TestSampleNearestRejectsOutOfBounds(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	if _, ok := sampleNearest(buf, 2, 2, 2, geom.VecF{X: 5, Y: 5}); ok {
		t.Error("expected out-of-bounds rejection")
	}
	v, ok := sampleNearest(buf, 2, 2, 2, geom.VecF{X: 1, Y: 1})
	if !ok || v != 4 {
		t.Errorf("got (%d,%v), want (4,true)", v, ok)
	}
}

func TestSampleBilinearInterpolatesMidpoint(t *testing.T) {
	// 2x2 plane: 0 100
	//            0 100
	buf := []byte{0, 100, 0, 100}
	v, ok := sampleBilinear(buf, 2, 2, 2, geom.VecF{X: 0.5, Y: 0})
	if !ok || v != 50 {
		t.Errorf("got (%d,%v), want (50,true)", v, ok)
	}
}

func TestCubicKernelUnitWeightAtZero(t *testing.T) {
	if got := cubicKernel(0); got != 1 {
		t.Errorf("cubicKernel(0) = %v, want 1", got)
	}
	if got := cubicKernel(2); got != 0 {
		t.Errorf("cubicKernel(2) = %v, want 0 (support ends at distance 2)", got)
	}
}

func TestWarpRejectsMismatchedInfo(t *testing.T) {
	src := texturedFrame(t, 16, 16, 5)
	dst, err := frame.Allocate(frame.Info{Width: 8, Height: 8, Format: frame.FormatGray})
	if err != nil {
		t.Fatal(err)
	}
	if err := Warp(dst, src, transform.Record{X: 1}, lens.Model{}, testCorrectorConfig(), nil); err != ErrDimensionMismatch {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}
}
