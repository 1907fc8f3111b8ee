/*
NAME
  grid_test.go

DESCRIPTION
  grid_test.go tests grid tessellation and cell/direction bookkeeping.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package grid

import "testing"

func TestGridBijection(t *testing.T) {
	g := New(80, 60, 4)
	for y := 0; y < g.Dim.Y; y++ {
		for x := 0; x < g.Dim.X; x++ {
			c := g.At(x, y)
			if c == nil {
				t.Fatalf("At(%d,%d) returned nil", x, y)
			}
			if c.Idx.X != x || c.Idx.Y != y {
				t.Errorf("cell at (%d,%d) has Idx %v", x, y, c.Idx)
			}
		}
	}
	if len(g.Cells) != g.Dim.X*g.Dim.Y {
		t.Errorf("len(Cells) = %d, want %d", len(g.Cells), g.Dim.X*g.Dim.Y)
	}
}

func TestGridMinimumOneCell(t *testing.T) {
	g := New(4, 4, 1)
	if g.Dim.X < 1 || g.Dim.Y < 1 {
		t.Errorf("grid dims should never go below 1, got %v", g.Dim)
	}
}

func TestNeighboursClipAtBorder(t *testing.T) {
	g := New(80, 60, 2)
	corner := g.Neighbours(0, 0)
	if len(corner) != 3 {
		t.Errorf("corner cell should have 3 neighbours, got %d", len(corner))
	}
	if g.Dim.X > 2 && g.Dim.Y > 2 {
		interior := g.Neighbours(1, 1)
		if len(interior) != 8 {
			t.Errorf("interior cell should have 8 neighbours, got %d", len(interior))
		}
	}
}

func TestDirectionValidAndSlot(t *testing.T) {
	var d Direction
	if !d.Valid() {
		t.Error("fresh Direction should be valid")
	}
	d.Flags |= FlagContrast
	if d.Valid() {
		t.Error("Direction with FlagContrast should be invalid")
	}

	s := d.Slot(10) // 10 mod 8 == 2
	s.Contrast = 5
	if d.History[2].Contrast != 5 {
		t.Errorf("Slot(10) should alias History[2], got %+v", d.History[2])
	}
}

func TestCellAnyValid(t *testing.T) {
	var c Cell
	for i := range c.Dirs {
		c.Dirs[i].Flags = FlagContrast
	}
	if c.AnyValid() {
		t.Error("cell with all layers invalid should report AnyValid() == false")
	}
	c.Dirs[0].Flags = 0
	if !c.AnyValid() {
		t.Error("cell with one valid layer should report AnyValid() == true")
	}
}
