/*
NAME
  testing_test.go

DESCRIPTION
  testing_test.go holds fixtures shared by this package's tests: a
  textured synthetic frame generator and a no-op Logger.

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
	"math/rand"
	"testing"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/frame"
)

// texturedFrame returns a w x h gray frame filled with deterministic
// pseudo-random noise, textured enough to survive the contrast selector.
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

// shift returns a frame dst such that dst(x,y) = src(x+dx,y+dy), clamped
// by edge replication, matching blockmatch's offset convention (see
// blockmatch_test.go).
func shift(t *testing.T, src *frame.Frame, dx, dy int) *frame.Frame {
	t.Helper()
	dst, err := frame.Allocate(src.Info)
	if err != nil {
		t.Fatal(err)
	}
	sbuf, sstride, w, h := src.Plane(0)
	dbuf, dstride, _, _ := dst.Plane(0)
	for y := 0; y < h; y++ {
		sy := y + dy
		if sy < 0 {
			sy = 0
		}
		if sy >= h {
			sy = h - 1
		}
		for x := 0; x < w; x++ {
			sx := x + dx
			if sx < 0 {
				sx = 0
			}
			if sx >= w {
				sx = w - 1
			}
			dbuf[y*dstride+x] = sbuf[sy*sstride+sx]
		}
	}
	return dst
}

// nopLogger implements config.Logger by discarding everything, matching
// the teacher's test style of a minimal fake rather than a mock framework.
type nopLogger struct{}

func (nopLogger) SetLevel(int8)                       {}
func (nopLogger) Debug(string, ...interface{})        {}
func (nopLogger) Info(string, ...interface{})         {}
func (nopLogger) Warning(string, ...interface{})      {}
func (nopLogger) Error(string, ...interface{})        {}
func (nopLogger) Fatal(string, ...interface{})        {}

func testConfig() config.Config {
	c := config.NewDetectorConfig(nopLogger{})
	c.Shakiness = 2 // keep the search radius small for fast tests
	return c
}
