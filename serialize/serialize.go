/*
NAME
  serialize.go

DESCRIPTION
  serialize.go implements the binary transforms file: a little-endian,
  packed, no-padding record of per-frame cell motions (component C10 of
  the stabilization core).

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package serialize reads and writes the binary transforms file that
// carries per-frame, per-cell motion records between the detector and the
// path smoother, plus the human-readable legacy text format.
package serialize

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/gimbal/geom"
	"github.com/ausocean/gimbal/grid"
)

// order is the byte order of the binary transforms file.
var order = binary.LittleEndian

// fileMagic is the 8-byte magic at the start of a transforms file.
var fileMagic = [8]byte{'G', 'B', 'L', 'F', '0', '0', '0', '1'}

var blockMagic = [2]byte{'B', 'L'}
var cellMagic = [2]byte{'C', 'L'}

// ErrBadMagic reports that a magic number in the stream didn't match what
// was expected.
var ErrBadMagic = errors.New("serialize: bad magic number")

// sizeofFileHeader, sizeofBlockHeader and sizeofDirRecord are the fixed
// byte sizes of the file formats' pieces.
const (
	sizeofFileHeader  = 8 + 2 + 2
	sizeofBlockHeader = 2 + 2
	sizeofCellHeader  = 2 + 2 + 2
	sizeofDirRecord   = 2*2*3 + 2 + 2 + 2 // 3 vectors + contrast + dist + flags
)

// WriteHeader writes the 12-byte file header: magic, width, height.
func WriteHeader(w io.Writer, width, height int) error {
	var b [sizeofFileHeader]byte
	copy(b[:8], fileMagic[:])
	order.PutUint16(b[8:10], uint16(width))
	order.PutUint16(b[10:12], uint16(height))
	if _, err := w.Write(b[:]); err != nil {
		return errors.Wrap(err, "serialize: write header failed")
	}
	return nil
}

// ReadHeader reads and validates the file header, returning the frame
// dimensions it announces.
func ReadHeader(r io.Reader) (width, height int, err error) {
	var b [sizeofFileHeader]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, 0, errors.Wrap(err, "serialize: read header failed")
	}
	if string(b[:8]) != string(fileMagic[:]) {
		return 0, 0, ErrBadMagic
	}
	return int(order.Uint16(b[8:10])), int(order.Uint16(b[10:12])), nil
}

// DirRecord is the serialized form of a grid.Direction's current-frame
// history slot: three vectors quantized to int16 pixels, plus contrast,
// nearest-neighbour distance (both quantized to uint16, clamped and
// rounded — the spec leaves this quantization's precision unspecified)
// and the validity bitmask.
type DirRecord struct {
	Measured, Estimated, Fused geom.Vec
	Contrast, Dist             uint16
	Flags                      grid.Flag
}

// CellRecord is the serialized form of one cell's current-frame motion:
// its position and all five layers' direction records, in fixed order
// FAST, SLOW_A, SLOW_B, STATIC_A, STATIC_B.
type CellRecord struct {
	X, Y uint16
	Dirs [grid.NumLayers]DirRecord
}

// FromGrid builds the CellRecords for frame index t from g, one per cell
// that has at least one valid layer (spec.md §4.10): cells with no valid
// layer are omitted entirely from the block.
func FromGrid(g *grid.Grid, t int) []CellRecord {
	var out []CellRecord
	for i := range g.Cells {
		c := &g.Cells[i]
		if !c.AnyValid() {
			continue
		}
		rec := CellRecord{X: uint16(c.Position.X), Y: uint16(c.Position.Y)}
		for l := grid.Layer(0); int(l) < grid.NumLayers; l++ {
			dir := c.Dir(l)
			slot := dir.Slot(t)
			rec.Dirs[l] = DirRecord{
				Measured:  quantize(slot.Measured),
				Estimated: quantize(slot.Estimated),
				Fused:     quantize(slot.Fused),
				Contrast:  quantizeU16(slot.Contrast),
				Dist:      quantizeU16(slot.Dist),
				Flags:     dir.Flags,
			}
		}
		out = append(out, rec)
	}
	return out
}

// quantize rounds a sub-pixel vector to the nearest int16 pixel pair,
// clamping to the representable range.
func quantize(v geom.VecF) geom.Vec {
	return geom.Vec{X: clampInt16(v.X), Y: clampInt16(v.Y)}
}

func clampInt16(f float64) int {
	v := int(f + sign(f)*0.5)
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func quantizeU16(f float64) uint16 {
	v := int(f + 0.5)
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

// WriteFrame writes one frame's block: header (magic, cell count) followed
// by each cell's record.
func WriteFrame(w io.Writer, cells []CellRecord) error {
	var bh [sizeofBlockHeader]byte
	copy(bh[:2], blockMagic[:])
	order.PutUint16(bh[2:4], uint16(len(cells)))
	if _, err := w.Write(bh[:]); err != nil {
		return errors.Wrap(err, "serialize: write block header failed")
	}
	for _, c := range cells {
		if err := writeCell(w, c); err != nil {
			return err
		}
	}
	return nil
}

func writeCell(w io.Writer, c CellRecord) error {
	b := make([]byte, sizeofCellHeader+grid.NumLayers*sizeofDirRecord)
	copy(b[:2], cellMagic[:])
	order.PutUint16(b[2:4], c.X)
	order.PutUint16(b[4:6], c.Y)
	off := sizeofCellHeader
	for _, d := range c.Dirs {
		putInt16(b[off:], int16(d.Measured.X))
		putInt16(b[off+2:], int16(d.Measured.Y))
		putInt16(b[off+4:], int16(d.Estimated.X))
		putInt16(b[off+6:], int16(d.Estimated.Y))
		putInt16(b[off+8:], int16(d.Fused.X))
		putInt16(b[off+10:], int16(d.Fused.Y))
		order.PutUint16(b[off+12:], d.Contrast)
		order.PutUint16(b[off+14:], d.Dist)
		order.PutUint16(b[off+16:], uint16(d.Flags))
		off += sizeofDirRecord
	}
	if _, err := w.Write(b); err != nil {
		return errors.Wrap(err, "serialize: write cell record failed")
	}
	return nil
}

func putInt16(b []byte, v int16) { order.PutUint16(b, uint16(v)) }

// ReadFrame reads one frame's block: the header followed by its cell
// records, returning ErrBadMagic if either magic fails to match, and
// io.EOF itself, unwrapped, when r ends before the next block header.
func ReadFrame(r io.Reader) ([]CellRecord, error) {
	var bh [sizeofBlockHeader]byte
	if _, err := io.ReadFull(r, bh[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "serialize: read block header failed")
	}
	if string(bh[:2]) != string(blockMagic[:]) {
		return nil, ErrBadMagic
	}
	cnt := int(order.Uint16(bh[2:4]))

	out := make([]CellRecord, cnt)
	for i := 0; i < cnt; i++ {
		c, err := readCell(r)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func readCell(r io.Reader) (CellRecord, error) {
	b := make([]byte, sizeofCellHeader+grid.NumLayers*sizeofDirRecord)
	if _, err := io.ReadFull(r, b); err != nil {
		return CellRecord{}, errors.Wrap(err, "serialize: read cell record failed")
	}
	if string(b[:2]) != string(cellMagic[:]) {
		return CellRecord{}, ErrBadMagic
	}
	c := CellRecord{X: order.Uint16(b[2:4]), Y: order.Uint16(b[4:6])}
	off := sizeofCellHeader
	for l := 0; l < grid.NumLayers; l++ {
		c.Dirs[l] = DirRecord{
			Measured:  geom.Vec{X: int(int16(order.Uint16(b[off:]))), Y: int(int16(order.Uint16(b[off+2:])))},
			Estimated: geom.Vec{X: int(int16(order.Uint16(b[off+4:]))), Y: int(int16(order.Uint16(b[off+6:])))},
			Fused:     geom.Vec{X: int(int16(order.Uint16(b[off+8:]))), Y: int(int16(order.Uint16(b[off+10:])))},
			Contrast:  order.Uint16(b[off+12:]),
			Dist:      order.Uint16(b[off+14:]),
			Flags:     grid.Flag(order.Uint16(b[off+16:])),
		}
		off += sizeofDirRecord
	}
	return c, nil
}
