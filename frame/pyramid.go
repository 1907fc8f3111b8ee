/*
NAME
  pyramid.go

DESCRIPTION
  pyramid.go builds and owns the power-of-two Gaussian-like pyramids the
  motion detector matches against.

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

import "github.com/pkg/errors"

// MinLevelDim is the minimum min(width,height), in pixels, a pyramid level
// may have; the first level whose smaller dimension is <= this value
// terminates the pyramid. It is set well above grid.CellSize so the
// smallest level's cell-grid tessellation (C5) actually spans several
// cells in each axis instead of collapsing to one: for a frame whose
// smaller dimension exceeds MinLevelDim, repeated halving lands in the
// [MinLevelDim/2,MinLevelDim] range, which at CellSize=8 yields a handful
// of cells per axis rather than the single degenerate cell a smaller
// threshold would leave.
const MinLevelDim = 64

// Pyramid is an ordered sequence of frames of the same pixel type, each
// half the previous dimensions (floor), terminating at the first level
// whose min(width,height) <= MinLevelDim. Level 0 is the original frame.
// A Pyramid owns all its levels; its lifetime is that of the detector that
// created it.
type Pyramid struct {
	Levels []*Frame
}

// NewPyramid allocates an empty Pyramid sized for a source frame matching
// info. Build must be called before the pyramid's levels are valid.
func NewPyramid(info Info) (*Pyramid, error) {
	p := &Pyramid{}
	w, h := info.Width, info.Height
	for {
		lvl, err := Allocate(Info{Width: w, Height: h, Format: info.Format})
		if err != nil {
			return nil, errors.Wrap(err, "frame: pyramid level allocation failed")
		}
		p.Levels = append(p.Levels, lvl)
		if min(w, h) <= MinLevelDim {
			break
		}
		w, h = w/2, h/2
	}
	return p, nil
}

// Build fills level 0 of p by copying src, then packs each subsequent
// level from the one below it by averaging 2x2 blocks.
func (p *Pyramid) Build(src *Frame) error {
	if len(p.Levels) == 0 {
		return errors.New("frame: pyramid has no levels")
	}
	if err := Copy(p.Levels[0], src); err != nil {
		return errors.Wrap(err, "frame: pyramid level 0 build failed")
	}
	for k := 0; k < len(p.Levels)-1; k++ {
		pack(p.Levels[k+1], p.Levels[k])
	}
	return nil
}

// pack fills dst from src by averaging each 2x2 block of src, per plane.
// dst's dimensions must already be floor(src dims / 2) per plane, which
// NewPyramid guarantees by construction.
func pack(dst, src *Frame) {
	for pl := 0; pl < src.PlaneCount(); pl++ {
		sbuf, sstride, sw, sheight := src.Plane(pl)
		dbuf, dstride, dw, dh := dst.Plane(pl)
		for y := 0; y < dh; y++ {
			sy := 2 * y
			for x := 0; x < dw; x++ {
				sx := 2 * x
				sum := 0
				n := 0
				for dy := 0; dy < 2; dy++ {
					yy := sy + dy
					if yy >= sheight {
						continue
					}
					for dx := 0; dx < 2; dx++ {
						xx := sx + dx
						if xx >= sw {
							continue
						}
						sum += int(sbuf[yy*sstride+xx])
						n++
					}
				}
				if n == 0 {
					n = 1
				}
				dbuf[y*dstride+x] = byte(sum / n)
			}
		}
	}
}

// Level returns pyramid level k, or nil if k is out of range.
func (p *Pyramid) Level(k int) *Frame {
	if k < 0 || k >= len(p.Levels) {
		return nil
	}
	return p.Levels[k]
}

// Smallest returns the deepest (smallest) pyramid level.
func (p *Pyramid) Smallest() *Frame {
	return p.Levels[len(p.Levels)-1]
}

// NumLevels returns the number of levels in p.
func (p *Pyramid) NumLevels() int {
	return len(p.Levels)
}
