/*
NAME
  lens_test.go

DESCRIPTION
  lens_test.go tests the radial lens model's forward/inverse round trip.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package lens

import (
	"math/rand"
	"testing"

	"github.com/ausocean/gimbal/geom"
)

func TestIdentityLensEarlyReturn(t *testing.T) {
	m := Model{Center: geom.VecF{X: 960, Y: 540}}
	if !m.IsIdentity() {
		t.Fatal("zero-coefficient model should be identity")
	}
	p := geom.VecF{X: 123, Y: 456}
	got := m.To(p, 1)
	if got != p {
		t.Errorf("identity To(%v) = %v, want %v", p, got, p)
	}
	gotFrom, ok := m.From(p, 1)
	if !ok || gotFrom != p {
		t.Errorf("identity From(%v) = %v, %v; want %v, true", p, gotFrom, ok, p)
	}
}

// TestLensRoundTrip checks spec.md S5/§8 property 3: for coefficients that
// stay bijective on the frame, from(to(p)) and to(from(p)) recover p within
// 0.2 pixel in L-infinity.
func TestLensRoundTrip(t *testing.T) {
	m := Model{
		K0:     8e-8,
		K1:     -3.8e-15,
		K2:     9e-23,
		Center: geom.VecF{X: 1920, Y: 1080},
	}
	const w, h = 3840, 2160

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		p := geom.VecF{X: r.Float64() * w, Y: r.Float64() * h}

		to := m.To(p, 1)
		back, ok := m.From(to, 1)
		if !ok {
			t.Fatalf("From did not converge for point %v", p)
		}
		if d := linfDelta(p, back); d > 0.2 {
			t.Errorf("to-then-from(%v) = %v, delta %v > 0.2", p, back, d)
		}

		from, ok := m.From(p, 1)
		if !ok {
			t.Fatalf("From did not converge for point %v", p)
		}
		toBack := m.To(from, 1)
		if d := linfDelta(p, toBack); d > 0.2 {
			t.Errorf("from-then-to(%v) = %v, delta %v > 0.2", p, toBack, d)
		}
	}
}

func linfDelta(a, b geom.VecF) float64 {
	dx := absf(a.X - b.X)
	dy := absf(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}
