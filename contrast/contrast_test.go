/*
NAME
  contrast_test.go

DESCRIPTION
  contrast_test.go tests the contrast selector's low/high texture gating.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package contrast

import (
	"testing"

	"github.com/ausocean/gimbal/frame"
	"github.com/ausocean/gimbal/grid"
)

// TestUniformFrameAllContrastFlagged checks spec.md S3: a uniform gray
// frame causes every cell to carry FlagContrast.
func TestUniformFrameAllContrastFlagged(t *testing.T) {
	const w, h = 80, 60
	f, err := frame.Allocate(frame.Info{Width: w, Height: h, Format: frame.FormatGray})
	if err != nil {
		t.Fatal(err)
	}
	buf, _, _, _ := f.Plane(0)
	for i := range buf {
		buf[i] = 128
	}

	g := grid.New(w, h, 1)
	Select(f, g, grid.CellSize, 0)

	for _, c := range g.Cells {
		for _, d := range c.Dirs {
			if d.Flags&grid.FlagContrast == 0 {
				t.Fatalf("cell %v should be flagged low-contrast", c.Idx)
			}
		}
	}
}

// TestTexturedCellNotFlagged checks that a cell with a sharp edge is not
// flagged low-contrast and retains a positive weight.
func TestTexturedCellNotFlagged(t *testing.T) {
	const w, h = 80, 60
	f, err := frame.Allocate(frame.Info{Width: w, Height: h, Format: frame.FormatGray})
	if err != nil {
		t.Fatal(err)
	}
	buf, stride, _, _ := f.Plane(0)
	// Checkerboard pattern gives strong, consistent finite differences.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/2+y/2)%2 == 0 {
				buf[y*stride+x] = 255
			}
		}
	}

	g := grid.New(w, h, 1)
	Select(f, g, grid.CellSize, 0)

	foundClean := false
	for _, c := range g.Cells {
		if c.Dirs[0].Flags&grid.FlagContrast == 0 {
			foundClean = true
			if c.Dirs[0].History[0].Contrast <= 0 {
				t.Errorf("cell %v cleared contrast flag but has non-positive weight %v", c.Idx, c.Dirs[0].History[0].Contrast)
			}
		}
	}
	if !foundClean {
		t.Fatal("expected at least one cell to clear FlagContrast on a checkerboard frame")
	}
}
