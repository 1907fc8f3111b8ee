/*
NAME
  iter_test.go

DESCRIPTION
  iter_test.go tests the Rect and Spiral iterators.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package geom

import "testing"

func TestRectIter(t *testing.T) {
	r := Rect{Min: Vec{0, 0}, Max: Vec{3, 2}}
	it := NewRectIter(r)
	var got []Vec
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []Vec{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRectIterEmpty(t *testing.T) {
	it := NewRectIter(Rect{Min: Vec{0, 0}, Max: Vec{0, 0}})
	if _, ok := it.Next(); ok {
		t.Fatal("expected no points from an empty rect")
	}
}

// TestSpiralIterVisitsEachPointOnce checks property 7 from spec.md §8: the
// spiral iterator visits each lattice point in [-R,R]^2 exactly once.
func TestSpiralIterVisitsEachPointOnce(t *testing.T) {
	const R = 4
	bound := Rect{Min: Vec{-R, -R}, Max: Vec{R + 1, R + 1}}
	it := NewSpiralIter(bound)

	seen := make(map[Vec]int)
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		seen[v]++
	}

	for x := -R; x <= R; x++ {
		for y := -R; y <= R; y++ {
			v := Vec{x, y}
			if seen[v] != 1 {
				t.Errorf("point %v visited %d times, want 1", v, seen[v])
			}
		}
	}
	wantCount := (2*R + 1) * (2*R + 1)
	if len(seen) != wantCount {
		t.Errorf("visited %d distinct points, want %d", len(seen), wantCount)
	}
}

func TestSpiralIterStartsAtOrigin(t *testing.T) {
	it := NewSpiralIter(Rect{Min: Vec{-2, -2}, Max: Vec{3, 3}})
	v, ok := it.Next()
	if !ok || v != (Vec{0, 0}) {
		t.Fatalf("first point = %v, %v; want (0,0), true", v, ok)
	}
}

func TestSpiralIterOrder(t *testing.T) {
	// Within a generous bound, the first five points must be the center,
	// one step right, one step down, then two steps left: the opening runs
	// of the right, down, left, up cycle (the order spec.md §4.2
	// prescribes), each run growing as the spiral widens.
	it := NewSpiralIter(Rect{Min: Vec{-5, -5}, Max: Vec{6, 6}})
	want := []Vec{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}}
	for i, w := range want {
		v, ok := it.Next()
		if !ok || v != w {
			t.Fatalf("point %d: got %v, %v; want %v, true", i, v, ok, w)
		}
	}
}
