/*
NAME
  iter.go

DESCRIPTION
  iter.go provides the Rect and Spiral iterators used by the block matcher
  to enumerate candidate offsets. Both are finite and non-restartable, and
  yield values by value per call to Next.

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

// RectIter visits every integer (x,y) inside an axis-aligned rectangle in
// row-major order.
type RectIter struct {
	r      Rect
	cur    Vec
	done   bool
	started bool
}

// NewRectIter returns an iterator over every point in r. An empty rectangle
// produces an iterator that is immediately done.
func NewRectIter(r Rect) *RectIter {
	it := &RectIter{r: r}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		it.done = true
	}
	return it
}

// Next returns the next point and true, or the zero Vec and false once
// every point has been visited.
func (it *RectIter) Next() (Vec, bool) {
	if it.done {
		return Vec{}, false
	}
	if !it.started {
		it.started = true
		it.cur = it.r.Min
		return it.cur, true
	}
	it.cur.X++
	if it.cur.X >= it.r.Max.X {
		it.cur.X = it.r.Min.X
		it.cur.Y++
	}
	if it.cur.Y >= it.r.Max.Y {
		it.done = true
		return Vec{}, false
	}
	return it.cur, true
}

// StepIter visits every integer (x,y) inside an axis-aligned rectangle in
// row-major order, spaced step apart on each axis, always including the
// origin. It is used by the legacy detector's coarse pass, which searches
// at step-size granularity before a fine pass around the coarse best.
type StepIter struct {
	r       Rect
	step    int
	cur     Vec
	done    bool
	started bool
}

// NewStepIter returns an iterator over the points of r on a step-size
// lattice anchored at (0,0). step must be >= 1.
func NewStepIter(r Rect, step int) *StepIter {
	if step < 1 {
		step = 1
	}
	it := &StepIter{r: r, step: step}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		it.done = true
	}
	return it
}

// Next returns the next point and true, or the zero Vec and false once
// every point has been visited.
func (it *StepIter) Next() (Vec, bool) {
	if it.done {
		return Vec{}, false
	}
	if !it.started {
		it.started = true
		it.cur = Vec{X: it.r.Min.X - it.r.Min.X%it.step, Y: it.r.Min.Y - it.r.Min.Y%it.step}
		if it.cur.X < it.r.Min.X {
			it.cur.X += it.step
		}
		if it.cur.Y < it.r.Min.Y {
			it.cur.Y += it.step
		}
		return it.cur, true
	}
	it.cur.X += it.step
	if it.cur.X >= it.r.Max.X {
		it.cur.X = it.r.Min.X - it.r.Min.X%it.step
		if it.cur.X < it.r.Min.X {
			it.cur.X += it.step
		}
		it.cur.Y += it.step
	}
	if it.cur.Y >= it.r.Max.Y {
		it.done = true
		return Vec{}, false
	}
	return it.cur, true
}

// spiralDir indexes the four directions a spiral iterator cycles through:
// right, down, left, up.
var spiralDir = [4]Vec{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// SpiralIter visits integer lattice points starting at (0,0) and spiralling
// outward in the order right, down, left, up with increasing step runs,
// until the next point would leave the given bounding box. Each point is
// visited at most once.
type SpiralIter struct {
	bound Rect // bounding box, inclusive of center offset (0,0)

	cur       Vec
	done      bool
	started   bool
	dir       int // index into spiralDir
	legLen    int // current leg length
	legLeft   int // steps left on current leg
	legsAtLen int // legs completed at the current length (spiral grows every 2 legs)
}

// NewSpiralIter returns an iterator that spirals outward from (0,0),
// terminating once the next candidate point would leave bound.
func NewSpiralIter(bound Rect) *SpiralIter {
	it := &SpiralIter{bound: bound}
	if !bound.Contains(Vec{0, 0}) {
		it.done = true
	}
	return it
}

// Next returns the next spiral point and true, or the zero Vec and false
// once the spiral has exhausted the bounding box.
func (it *SpiralIter) Next() (Vec, bool) {
	if it.done {
		return Vec{}, false
	}
	if !it.started {
		it.started = true
		it.legLen = 1
		it.legLeft = 1
		it.dir = 0
		return it.cur, true
	}

	next := it.cur.Add(spiralDir[it.dir])
	if !it.bound.Contains(next) {
		it.done = true
		return Vec{}, false
	}
	it.cur = next
	it.legLeft--
	if it.legLeft == 0 {
		it.dir = (it.dir + 1) % 4
		it.legsAtLen++
		if it.legsAtLen == 2 {
			it.legsAtLen = 0
			it.legLen++
		}
		it.legLeft = it.legLen
	}
	return it.cur, true
}
