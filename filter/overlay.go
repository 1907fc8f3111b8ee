//go:build withcv
// +build withcv

/*
NAME
  overlay.go

DESCRIPTION
  overlay.go draws detected local motion vectors onto a copy of the
  current frame for visual inspection, following config.Show's selected
  detail level.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package filter provides the pre-detector motion gate and the optional
// show-overlay used to visualize detected fields.
package filter

import (
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/detect"
	"github.com/ausocean/gimbal/frame"
)

var (
	fieldColor  = color.RGBA{R: 0, G: 191, B: 0}
	vectorColor = color.RGBA{R: 191, G: 0, B: 0}
)

// Overlay draws detected fields and, optionally, their motion vectors
// onto a BGR copy of a frame's luma plane, matching the teacher's motion
// filters' gocv.Mat-based drawing style rather than rendering via the
// stdlib image/draw package.
type Overlay struct {
	window fieldWindow
}

// NewOverlay returns an Overlay, opening a debug display window only when
// the debug build tag is also set.
func NewOverlay() *Overlay {
	return &Overlay{window: newFieldWindow("Detected fields")}
}

// Close releases the overlay's display window, if any.
func (o *Overlay) Close() error {
	return o.window.close()
}

// Draw renders f's luma plane as a grayscale Mat, overlays motions per
// cfg.Show (ShowFields draws each accepted field's box, ShowFieldsAndVectors
// additionally draws an arrow along its fused motion vector), shows it in
// the debug window if one is open, and JPEG-encodes the result to w.
func (o *Overlay) Draw(f *frame.Frame, motions []detect.LocalMotion, cfg config.Config, w io.Writer) error {
	buf, stride, fw, fh := f.Plane(0)
	gray, err := gocv.NewMatFromBytes(fh, stride, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return errors.Wrap(err, "filter: overlay: decode luma plane failed")
	}
	defer gray.Close()
	gray = gray.Region(image.Rect(0, 0, fw, fh))

	out := gocv.NewMat()
	defer out.Close()
	gocv.CvtColor(gray, &out, gocv.ColorGrayToBGR)

	if cfg.Show != config.ShowOff {
		for _, m := range motions {
			if m.Quality == detect.Reject {
				continue
			}
			half := m.Size / 2
			box := image.Rect(m.Position.X-half, m.Position.Y-half, m.Position.X+half, m.Position.Y+half)
			gocv.Rectangle(&out, box, fieldColor, 1)

			if cfg.Show == config.ShowFieldsAndVectors {
				from := image.Pt(m.Position.X, m.Position.Y)
				to := image.Pt(m.Position.X+int(m.Vector.X), m.Position.Y+int(m.Vector.Y))
				gocv.ArrowedLine(&out, from, to, vectorColor, 1)
			}
		}
	}

	o.window.show(out)

	buf2, err := gocv.IMEncode(gocv.JPEGFileExt, out)
	if err != nil {
		return errors.Wrap(err, "filter: overlay: encode failed")
	}
	defer buf2.Close()
	_, err = w.Write(buf2.GetBytes())
	return errors.Wrap(err, "filter: overlay: write failed")
}
