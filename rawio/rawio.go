/*
NAME
  rawio.go

DESCRIPTION
  rawio.go reads and writes sequences of raw planar frames from/to a byte
  stream, the CLI front-ends' substitute for a decoded capture pipeline:
  spec.md's data model takes frames as already-decoded planar buffers
  (§3), so the CLI tools need only a frame-sized chunker over a file or
  pipe, not a video codec.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rawio chunks a byte stream into fixed-size raw planar frames for
// the vs-detect and vs-stabilize command-line front-ends, generalizing the
// teacher's file AVDevice's read-with-loop idiom from an arbitrary byte
// stream to frame-sized units.
package rawio

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/frame"
)

// Reader reads a sequence of raw planar frames matching a fixed frame.Info
// from an underlying stream, optionally looping back to the start once the
// stream is exhausted.
type Reader struct {
	r    io.Reader
	info frame.Info
	loop bool
	log  config.Logger
}

// NewReader returns a Reader over r. When loop is true and r also
// implements io.Seeker, Next seeks back to the start of the stream on EOF
// instead of reporting it, matching the teacher's file device's looping
// input behaviour.
func NewReader(r io.Reader, info frame.Info, loop bool, log config.Logger) *Reader {
	return &Reader{r: r, info: info, loop: loop, log: log}
}

// Next reads and returns the next frame, allocating it fresh each call.
// Callers processing long sequences should prefer NextInto to reuse a
// single allocation.
func (fr *Reader) Next() (*frame.Frame, error) {
	f, err := frame.Allocate(fr.info)
	if err != nil {
		return nil, err
	}
	if err := fr.NextInto(f); err != nil {
		return nil, err
	}
	return f, nil
}

// NextInto reads the next frame's planes into f, which must already be
// allocated with fr's Info. On end of stream, if fr was constructed with
// loop and the underlying reader supports seeking, NextInto seeks back to
// the start and retries once; otherwise it returns io.EOF.
func (fr *Reader) NextInto(f *frame.Frame) error {
	retried := false
	for p := 0; p < f.PlaneCount(); p++ {
		buf, _, _, _ := f.Plane(p)
		if _, err := io.ReadFull(fr.r, buf); err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				return errors.Wrap(err, "rawio: read frame failed")
			}
			if !fr.loop || retried {
				return io.EOF
			}
			seeker, ok := fr.r.(io.Seeker)
			if !ok {
				return io.EOF
			}
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return errors.Wrap(err, "rawio: seek to start for loop failed")
			}
			if fr.log != nil {
				fr.log.Info("rawio: looping input stream")
			}
			retried = true
			p = -1
			continue
		}
	}
	return nil
}

// WriteFrame writes f's planes, in order, to w.
func WriteFrame(w io.Writer, f *frame.Frame) error {
	for p := 0; p < f.PlaneCount(); p++ {
		buf, _, _, _ := f.Plane(p)
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "rawio: write frame failed")
		}
	}
	return nil
}
