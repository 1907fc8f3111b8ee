//go:build !withcv
// +build !withcv

/*
NAME
  overlay_nocv.go

DESCRIPTION
  overlay_nocv.go stands in for Overlay in builds without OpenCV,
  matching the teacher's filters_circleci.go fallback so callers don't
  need their own build tags.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package filter

import (
	"io"

	"github.com/ausocean/gimbal/config"
	"github.com/ausocean/gimbal/detect"
	"github.com/ausocean/gimbal/frame"
)

// Overlay is a no-op stand-in for the gocv-backed show overlay.
type Overlay struct{}

// NewOverlay returns a no-op Overlay.
func NewOverlay() *Overlay { return &Overlay{} }

// Close is a no-op.
func (o *Overlay) Close() error { return nil }

// Draw is a no-op.
func (o *Overlay) Draw(f *frame.Frame, motions []detect.LocalMotion, cfg config.Config, w io.Writer) error {
	return nil
}
