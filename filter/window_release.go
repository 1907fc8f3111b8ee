//go:build !debug && withcv
// +build !debug,withcv

/*
NAME
  window_release.go

DESCRIPTION
  window_release.go is the no-op stand-in for fieldWindow used in
  non-debug cgo builds, matching the teacher's debug/release split.

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

import "gocv.io/x/gocv"

type fieldWindow struct{}

func newFieldWindow(name string) fieldWindow { return fieldWindow{} }

func (fieldWindow) show(img gocv.Mat) {}

func (fieldWindow) close() error { return nil }
